package service

import (
	"context"
	"errors"
	"time"

	"github.com/qingnian/blog-api/internal/dto"
	"github.com/qingnian/blog-api/internal/logger"
	"github.com/qingnian/blog-api/internal/model"
	"github.com/qingnian/blog-api/internal/store"
	"github.com/qingnian/blog-api/pkg/apperr"
	"go.uber.org/zap"
)

// ArticleService 文章生命周期服务
// 文章集合是权威侧，作者文档上的投影和统计是冗余侧，
// 所有跨集合写入都经过Synchronizer
type ArticleService struct {
	store      store.EntityStore
	log        *zap.SugaredLogger
	sync       *Synchronizer
	projection *ProjectionService
}

// NewArticleService 创建文章服务实例
func NewArticleService(st store.EntityStore) *ArticleService {
	return &ArticleService{
		store:      st,
		log:        logger.GetSugaredLogger(),
		sync:       NewSynchronizer(),
		projection: NewProjectionService(st),
	}
}

// Create 创建文章
// 权威写入为文章文档，随后冗余更新作者的投影和文章统计，
// 冗余失败以告警返回
func (s *ArticleService) Create(ctx context.Context, userID uint, req *dto.ArticleCreateRequest) (*model.Article, string, error) {
	if !model.ValidCategory(req.Category) {
		return nil, "", apperr.Validation("无效的文章分类")
	}

	status := req.Status
	if status == "" {
		status = model.StatusPublished
	}

	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, "", apperr.NotFound("用户不存在")
		}
		return nil, "", apperr.Internal("查询用户失败", err)
	}

	article := s.buildArticleFromRequest(user, req, status)

	warning, err := s.sync.Run("创建文章",
		func() error {
			return s.store.CreateArticle(ctx, article)
		},
		s.projectionSteps(ctx, article)...,
	)
	if err != nil {
		return nil, "", apperr.Internal("创建文章失败", err)
	}
	return article, warning, nil
}

// Get 获取文章详情
// 非发布状态的文章只有作者本人和管理员可见；
// 非作者查看时浏览量加一
func (s *ArticleService) Get(ctx context.Context, id, viewerID uint, viewerRole string) (*model.Article, bool, error) {
	article, err := s.store.GetArticle(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, false, apperr.NotFound("文章不存在")
		}
		return nil, false, apperr.Internal("查询文章失败", err)
	}

	isAuthor := viewerID > 0 && viewerID == article.AuthorID
	if !article.IsPublished() && !isAuthor && viewerRole != model.RoleAdmin {
		return nil, false, apperr.PermissionDenied("无权查看该文章")
	}

	if !isAuthor {
		if count, err := s.store.IncArticleStat(ctx, id, store.StatView, 1); err != nil {
			s.log.Warnf("更新文章浏览量失败: %v", err)
		} else {
			article.ViewCount = count
		}
	}

	return article, isAuthor, nil
}

// List 公开文章列表，只返回已发布文章
func (s *ArticleService) List(ctx context.Context, req *dto.ArticleQueryRequest) (*dto.ArticleListResponse, error) {
	req.Normalize()
	articles, total, err := s.store.ListArticles(ctx, store.ArticleQuery{
		Page:     req.Page,
		Limit:    req.Limit,
		Category: req.Category,
		Tag:      req.Tag,
		Status:   model.StatusPublished,
	})
	if err != nil {
		return nil, apperr.Internal("查询文章列表失败", err)
	}
	return &dto.ArticleListResponse{
		Total:      total,
		TotalPages: totalPages(int(total), req.Limit),
		List:       dto.ToListItems(articles),
	}, nil
}

// ListDrafts 当前用户的草稿列表
func (s *ArticleService) ListDrafts(ctx context.Context, userID uint, page, limit int) (*dto.ArticleListResponse, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 10
	}
	articles, total, err := s.store.ListArticles(ctx, store.ArticleQuery{
		Page:     page,
		Limit:    limit,
		Status:   model.StatusDraft,
		AuthorID: userID,
	})
	if err != nil {
		return nil, apperr.Internal("查询草稿列表失败", err)
	}
	return &dto.ArticleListResponse{
		Total:      total,
		TotalPages: totalPages(int(total), limit),
		List:       dto.ToListItems(articles),
	}, nil
}

// Update 更新文章
// 权威写入为文章文档，随后冗余刷新作者投影中的标题、状态
// 和文章统计
func (s *ArticleService) Update(ctx context.Context, userID uint, role string, id uint, req *dto.ArticleUpdateRequest) (*model.Article, string, error) {
	article, err := s.store.GetArticle(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, "", apperr.NotFound("文章不存在")
		}
		return nil, "", apperr.Internal("查询文章失败", err)
	}

	if article.AuthorID != userID && role != model.RoleAdmin {
		return nil, "", apperr.PermissionDenied("没有权限修改此文章")
	}

	if req.Category != "" && !model.ValidCategory(req.Category) {
		return nil, "", apperr.Validation("无效的文章分类")
	}

	updates := s.buildUpdateData(article, req)

	warning, err := s.sync.Run("更新文章",
		func() error {
			return s.store.UpdateArticle(ctx, id, updates)
		},
		SyncStep{
			Name: "同步作者文章列表",
			Fn: func() error {
				fresh, err := s.store.GetArticle(ctx, id)
				if err != nil {
					return err
				}
				if err := s.projection.UpsertArticleSummary(ctx, article.AuthorID, fresh.Ref()); err != nil {
					return err
				}
				return s.projection.RecomputeArticleCount(ctx, article.AuthorID)
			},
		},
	)
	if err != nil {
		return nil, "", apperr.Internal("更新文章失败", err)
	}

	updated, err := s.store.GetArticle(ctx, id)
	if err != nil {
		return nil, warning, apperr.Internal("查询文章失败", err)
	}
	return updated, warning, nil
}

// Delete 删除文章并级联清理冗余
// 文章已不存在时视为成功（幂等删除）；删除已提交后，依次清理
// 作者投影、作者统计和所有用户收藏列表中的引用
func (s *ArticleService) Delete(ctx context.Context, userID uint, role string, id uint) (string, error) {
	article, err := s.store.GetArticle(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", nil
		}
		return "", apperr.Internal("查询文章失败", err)
	}

	if article.AuthorID != userID && role != model.RoleAdmin {
		return "", apperr.PermissionDenied("没有权限删除此文章")
	}

	warning, err := s.sync.Run("删除文章",
		func() error {
			return s.store.DeleteArticle(ctx, id)
		},
		SyncStep{
			Name: "清理作者文章列表",
			Fn: func() error {
				if err := s.projection.RemoveArticleSummary(ctx, article.AuthorID, id); err != nil {
					return err
				}
				return s.projection.RecomputeArticleCount(ctx, article.AuthorID)
			},
		},
		SyncStep{
			Name: "清理用户收藏",
			Fn: func() error {
				return s.store.PullFavoriteFromAll(ctx, id)
			},
		},
	)
	if err != nil {
		return "", apperr.Internal("删除文章失败", err)
	}
	return warning, nil
}

// Like 点赞文章，允许重复点赞，返回新的点赞数
func (s *ArticleService) Like(ctx context.Context, id uint) (int, error) {
	if _, err := s.store.GetArticle(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return 0, apperr.NotFound("文章不存在")
		}
		return 0, apperr.Internal("查询文章失败", err)
	}

	count, err := s.store.IncArticleStat(ctx, id, store.StatLike, 1)
	if err != nil {
		return 0, apperr.Internal("点赞失败", err)
	}
	return count, nil
}

// buildArticleFromRequest 从请求构建文章文档，冻结作者快照
func (s *ArticleService) buildArticleFromRequest(user *model.User, req *dto.ArticleCreateRequest, status string) *model.Article {
	snapshot := user.Snapshot()
	article := &model.Article{
		Title:        sanitizePlainText(req.Title),
		Content:      sanitizeRichText(req.Content),
		Summary:      sanitizePlainText(req.Summary),
		Category:     req.Category,
		Tags:         model.StringList(req.Tags),
		Status:       status,
		Cover:        req.Cover,
		AuthorID:     snapshot.UserID,
		AuthorName:   snapshot.Username,
		AuthorAvatar: snapshot.Avatar,
	}
	if article.Cover == "" {
		article.Cover = model.DefaultCover
	}
	if status == model.StatusPublished {
		now := time.Now()
		article.PublishedAt = &now
	}
	return article
}

// buildUpdateData 构建更新数据，空字段不修改
func (s *ArticleService) buildUpdateData(article *model.Article, req *dto.ArticleUpdateRequest) map[string]any {
	updates := map[string]any{}

	if req.Title != "" {
		updates["title"] = sanitizePlainText(req.Title)
	}
	if req.Content != "" {
		updates["content"] = sanitizeRichText(req.Content)
	}
	if req.Summary != "" {
		updates["summary"] = sanitizePlainText(req.Summary)
	}
	if req.Category != "" {
		updates["category"] = req.Category
	}
	if req.Tags != nil {
		updates["tags"] = model.StringList(req.Tags)
	}
	if req.Cover != "" {
		updates["cover"] = req.Cover
	}
	if req.Status != "" {
		updates["status"] = req.Status
		if req.Status == model.StatusPublished && !article.IsPublished() {
			updates["published_at"] = time.Now()
		}
	}

	return updates
}

// projectionSteps 创建文章后的冗余写入步骤
// 任何状态的文章都进入作者投影，文章统计只计已发布
func (s *ArticleService) projectionSteps(ctx context.Context, article *model.Article) []SyncStep {
	return []SyncStep{
		{
			Name: "同步作者文章列表",
			Fn: func() error {
				if err := s.projection.UpsertArticleSummary(ctx, article.AuthorID, article.Ref()); err != nil {
					return err
				}
				return s.projection.RecomputeArticleCount(ctx, article.AuthorID)
			},
		},
	}
}

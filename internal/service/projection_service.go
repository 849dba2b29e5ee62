package service

import (
	"context"
	"errors"

	"github.com/qingnian/blog-api/internal/dto"
	"github.com/qingnian/blog-api/internal/logger"
	"github.com/qingnian/blog-api/internal/model"
	"github.com/qingnian/blog-api/internal/store"
	"github.com/qingnian/blog-api/pkg/apperr"
	"go.uber.org/zap"
)

// ProjectionService 维护用户文档上的文章投影和派生统计
// 投影只是缓存，文章集合才是权威数据；读取时会过滤悬空引用，
// 不一致的投影由对账任务重建
type ProjectionService struct {
	store store.EntityStore
	log   *zap.SugaredLogger
}

// NewProjectionService 创建投影服务实例
func NewProjectionService(st store.EntityStore) *ProjectionService {
	return &ProjectionService{
		store: st,
		log:   logger.GetSugaredLogger(),
	}
}

// UpsertArticleSummary 向作者的投影写入文章摘要，已存在则按articleId覆盖
func (s *ProjectionService) UpsertArticleSummary(ctx context.Context, userID uint, ref model.ArticleRef) error {
	return s.store.UpsertArticleRef(ctx, userID, ref)
}

// RemoveArticleSummary 从作者的投影中移除文章摘要
func (s *ProjectionService) RemoveArticleSummary(ctx context.Context, userID, articleID uint) error {
	return s.store.PullArticleRef(ctx, userID, articleID)
}

// RecomputeArticleCount 按文章集合重算作者的已发布文章数
func (s *ProjectionService) RecomputeArticleCount(ctx context.Context, userID uint) error {
	articles, err := s.store.ListArticlesByAuthor(ctx, userID)
	if err != nil {
		return err
	}
	count := 0
	for i := range articles {
		if articles[i].IsPublished() {
			count++
		}
	}
	return s.store.SetArticleCount(ctx, userID, count)
}

// ListUserArticles 读取某用户的文章投影并按权威数据过滤
// 悬空引用（文章已删除）直接丢弃；非发布状态的条目只有
// 本人和管理员可见
func (s *ProjectionService) ListUserArticles(ctx context.Context, ownerID, viewerID uint, viewerRole string, page, limit int) (*dto.ArticleListResponse, error) {
	user, err := s.store.GetUser(ctx, ownerID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperr.NotFound("用户不存在")
		}
		return nil, apperr.Internal("查询用户失败", err)
	}

	ids := make([]uint, 0, len(user.Articles))
	for _, ref := range user.Articles {
		ids = append(ids, ref.ArticleID)
	}

	articles, err := s.store.GetArticlesByIDs(ctx, ids)
	if err != nil {
		return nil, apperr.Internal("查询文章失败", err)
	}

	byID := make(map[uint]*model.Article, len(articles))
	for i := range articles {
		byID[articles[i].ID] = &articles[i]
	}

	// 按投影顺序输出，读取时过滤悬空引用和不可见文章
	visible := make([]model.Article, 0, len(user.Articles))
	for _, ref := range user.Articles {
		a, ok := byID[ref.ArticleID]
		if !ok {
			continue
		}
		if !a.IsPublished() && viewerID != ownerID && viewerRole != model.RoleAdmin {
			continue
		}
		visible = append(visible, *a)
	}

	total := int64(len(visible))
	pageItems := paginateArticles(visible, page, limit)
	return &dto.ArticleListResponse{
		Total:      total,
		TotalPages: totalPages(int(total), limit),
		List:       dto.ToListItems(pageItems),
	}, nil
}

// ListFavorites 读取某用户的收藏并按权威数据填充，悬空引用直接丢弃
func (s *ProjectionService) ListFavorites(ctx context.Context, userID uint, page, limit int) (*dto.ArticleListResponse, error) {
	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperr.NotFound("用户不存在")
		}
		return nil, apperr.Internal("查询用户失败", err)
	}

	ids := make([]uint, 0, len(user.Favorites))
	for _, f := range user.Favorites {
		ids = append(ids, f.ArticleID)
	}

	articles, err := s.store.GetArticlesByIDs(ctx, ids)
	if err != nil {
		return nil, apperr.Internal("查询收藏文章失败", err)
	}

	byID := make(map[uint]*model.Article, len(articles))
	for i := range articles {
		byID[articles[i].ID] = &articles[i]
	}

	// 保持收藏顺序
	visible := make([]model.Article, 0, len(user.Favorites))
	for _, f := range user.Favorites {
		if a, ok := byID[f.ArticleID]; ok {
			visible = append(visible, *a)
		}
	}

	total := int64(len(visible))
	pageItems := paginateArticles(visible, page, limit)
	return &dto.ArticleListResponse{
		Total:      total,
		TotalPages: totalPages(int(total), limit),
		List:       dto.ToListItems(pageItems),
	}, nil
}

// paginateArticles 内存切片分页
func paginateArticles(articles []model.Article, page, limit int) []model.Article {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 10
	}
	start := (page - 1) * limit
	if start >= len(articles) {
		return []model.Article{}
	}
	end := start + limit
	if end > len(articles) {
		end = len(articles)
	}
	return articles[start:end]
}

// totalPages 计算总页数（向上取整）
func totalPages(total, limit int) int {
	if limit <= 0 {
		return 0
	}
	return (total + limit - 1) / limit
}

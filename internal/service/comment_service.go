package service

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/qingnian/blog-api/internal/dto"
	"github.com/qingnian/blog-api/internal/logger"
	"github.com/qingnian/blog-api/internal/model"
	"github.com/qingnian/blog-api/internal/store"
	"github.com/qingnian/blog-api/pkg/apperr"
	"github.com/qingnian/blog-api/pkg/idgen"
	"go.uber.org/zap"
)

// CommentService 评论服务
// 评论内嵌在文章文档中，评论的增删改和comment_count落在
// 同一个文档的同一次写入里，不涉及跨集合同步
type CommentService struct {
	store     store.EntityStore
	log       *zap.SugaredLogger
	sensitive *SensitiveService
}

// NewCommentService 创建评论服务实例
func NewCommentService(st store.EntityStore) *CommentService {
	return &CommentService{
		store:     st,
		log:       logger.GetSugaredLogger(),
		sensitive: NewSensitiveService(),
	}
}

// List 获取文章评论列表，按发表时间倒序，内存切片分页
func (s *CommentService) List(ctx context.Context, articleID uint, req *dto.CommentListRequest) (*dto.CommentListResponse, error) {
	req.Normalize()

	article, err := s.store.GetArticle(ctx, articleID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperr.NotFound("文章不存在")
		}
		return nil, apperr.Internal("查询文章失败", err)
	}

	comments := append(model.CommentList{}, article.Comments...)
	sortCommentsDesc(comments)

	total := len(comments)
	start := (req.Page - 1) * req.Limit
	if start > total {
		start = total
	}
	end := start + req.Limit
	if end > total {
		end = total
	}

	return &dto.CommentListResponse{
		Total:      total,
		TotalPages: totalPages(total, req.Limit),
		List:       comments[start:end],
	}, nil
}

// Add 发表评论
// 内容去除首尾空白后非空且不超过500字符，敏感词替换为*；
// 评论者信息在发表时冻结为快照
func (s *CommentService) Add(ctx context.Context, articleID, userID uint, content string) (*model.Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, apperr.Validation("评论内容不能为空")
	}
	if len([]rune(content)) > model.MaxCommentLength {
		return nil, apperr.Validation("评论内容不能超过500个字符")
	}

	article, err := s.store.GetArticle(ctx, articleID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperr.NotFound("文章不存在")
		}
		return nil, apperr.Internal("查询文章失败", err)
	}

	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperr.NotFound("用户不存在")
		}
		return nil, apperr.Internal("查询用户失败", err)
	}

	filtered := s.sensitive.FilterSensitiveWords(sanitizePlainText(content))
	if s.sensitive.ContainsSensitiveWord(content) {
		s.log.Infof("评论包含敏感词已被过滤: %v", s.sensitive.GetSensitiveWords(content))
	}

	comment := model.Comment{
		ID:        idgen.NextID(),
		Content:   filtered,
		UserID:    user.ID,
		Username:  user.Username,
		Avatar:    user.Avatar,
		Likes:     0,
		CreatedAt: time.Now(),
	}

	comments := append(article.Comments, comment)
	if err := s.store.ReplaceComments(ctx, articleID, comments); err != nil {
		return nil, apperr.Internal("发表评论失败", err)
	}
	return &comment, nil
}

// Like 点赞评论，允许重复点赞，返回新的点赞数
func (s *CommentService) Like(ctx context.Context, articleID uint, commentID int64) (int, error) {
	article, err := s.store.GetArticle(ctx, articleID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return 0, apperr.NotFound("文章不存在")
		}
		return 0, apperr.Internal("查询文章失败", err)
	}

	comments := append(model.CommentList{}, article.Comments...)
	likes := -1
	for i := range comments {
		if comments[i].ID == commentID {
			comments[i].Likes++
			likes = comments[i].Likes
			break
		}
	}
	if likes < 0 {
		return 0, apperr.NotFound("评论不存在")
	}

	if err := s.store.ReplaceComments(ctx, articleID, comments); err != nil {
		return 0, apperr.Internal("点赞评论失败", err)
	}
	return likes, nil
}

// Remove 删除评论
// 评论作者、文章作者和管理员可删除；comment_count随评论数组
// 在同一次写入中恢复一致
func (s *CommentService) Remove(ctx context.Context, articleID uint, commentID int64, userID uint, role string) error {
	article, err := s.store.GetArticle(ctx, articleID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return apperr.NotFound("文章不存在")
		}
		return apperr.Internal("查询文章失败", err)
	}

	var target *model.Comment
	for i := range article.Comments {
		if article.Comments[i].ID == commentID {
			target = &article.Comments[i]
			break
		}
	}
	if target == nil {
		return apperr.NotFound("评论不存在")
	}

	if target.UserID != userID && article.AuthorID != userID && role != model.RoleAdmin {
		return apperr.PermissionDenied("没有权限删除此评论")
	}

	comments := make(model.CommentList, 0, len(article.Comments)-1)
	for _, c := range article.Comments {
		if c.ID != commentID {
			comments = append(comments, c)
		}
	}

	if err := s.store.ReplaceComments(ctx, articleID, comments); err != nil {
		return apperr.Internal("删除评论失败", err)
	}
	return nil
}

// sortCommentsDesc 按发表时间倒序，时间相同按ID倒序保证稳定
func sortCommentsDesc(comments model.CommentList) {
	sort.Slice(comments, func(i, j int) bool {
		if comments[i].CreatedAt.Equal(comments[j].CreatedAt) {
			return comments[i].ID > comments[j].ID
		}
		return comments[i].CreatedAt.After(comments[j].CreatedAt)
	})
}

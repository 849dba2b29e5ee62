package service

import (
	"context"
	"errors"

	"github.com/qingnian/blog-api/internal/logger"
	"github.com/qingnian/blog-api/internal/store"
	"github.com/qingnian/blog-api/pkg/apperr"
	"go.uber.org/zap"
)

// FavoriteService 收藏关系服务
// 用户文档上的favorites数组是收藏关系的权威侧，
// 文章上的collect_count只是派生缓存
type FavoriteService struct {
	store store.EntityStore
	log   *zap.SugaredLogger
	sync  *Synchronizer
}

// NewFavoriteService 创建收藏服务实例
func NewFavoriteService(st store.EntityStore) *FavoriteService {
	return &FavoriteService{
		store: st,
		log:   logger.GetSugaredLogger(),
		sync:  NewSynchronizer(),
	}
}

// Favorite 收藏文章
// 先检查用户收藏列表，重复收藏返回冲突；权威写入为用户收藏列表，
// 文章收藏数冗余加一，失败以告警返回
func (s *FavoriteService) Favorite(ctx context.Context, userID, articleID uint) (string, error) {
	article, err := s.store.GetArticle(ctx, articleID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", apperr.NotFound("文章不存在")
		}
		return "", apperr.Internal("查询文章失败", err)
	}
	if !article.IsPublished() {
		return "", apperr.NotFound("文章不存在")
	}

	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", apperr.NotFound("用户不存在")
		}
		return "", apperr.Internal("查询用户失败", err)
	}

	if user.HasFavorite(articleID) {
		return "", apperr.Conflict("已收藏该文章")
	}

	warning, err := s.sync.Run("收藏文章",
		func() error {
			return s.store.PushFavorite(ctx, userID, articleID)
		},
		SyncStep{
			Name: "更新文章收藏数",
			Fn: func() error {
				_, err := s.store.IncArticleStat(ctx, articleID, store.StatCollect, 1)
				return err
			},
		},
	)
	if err != nil {
		return "", apperr.Internal("收藏失败", err)
	}
	return warning, nil
}

// Unfavorite 取消收藏
// 未收藏时返回不存在；文章收藏数冗余减一，带不低于0的下界保护
func (s *FavoriteService) Unfavorite(ctx context.Context, userID, articleID uint) (string, error) {
	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", apperr.NotFound("用户不存在")
		}
		return "", apperr.Internal("查询用户失败", err)
	}

	if !user.HasFavorite(articleID) {
		return "", apperr.NotFound("未收藏该文章")
	}

	warning, err := s.sync.Run("取消收藏",
		func() error {
			return s.store.PullFavorite(ctx, userID, articleID)
		},
		SyncStep{
			Name: "更新文章收藏数",
			Fn: func() error {
				_, err := s.store.IncArticleStat(ctx, articleID, store.StatCollect, -1)
				// 文章可能已被删除，计数无处可减，不算失败
				if errors.Is(err, store.ErrNotFound) {
					return nil
				}
				return err
			},
		},
	)
	if err != nil {
		return "", apperr.Internal("取消收藏失败", err)
	}
	return warning, nil
}

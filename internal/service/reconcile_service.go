package service

import (
	"context"
	"sync"

	"github.com/qingnian/blog-api/internal/logger"
	"github.com/qingnian/blog-api/internal/model"
	"github.com/qingnian/blog-api/internal/store"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ReconcileService 对账服务
// 冗余写入失败会留下跨集合不一致，对账以权威数据为准幂等修复：
// 用户投影和文章统计按文章集合重建，收藏列表剔除悬空引用，
// 文章收藏数按全体用户的收藏列表重算
type ReconcileService struct {
	store       store.EntityStore
	log         *zap.SugaredLogger
	concurrency int
	cron        *cron.Cron
}

// NewReconcileService 创建对账服务实例
func NewReconcileService(st store.EntityStore, concurrency int) *ReconcileService {
	if concurrency <= 0 {
		concurrency = 4
	}
	return &ReconcileService{
		store:       st,
		log:         logger.GetSugaredLogger(),
		concurrency: concurrency,
	}
}

// Start 按cron表达式启动定时对账
func (s *ReconcileService) Start(spec string) error {
	s.cron = cron.New(cron.WithSeconds())
	_, err := s.cron.AddFunc(spec, func() {
		if err := s.ReconcileAll(context.Background()); err != nil {
			s.log.Errorf("定时对账失败: %v", err)
		}
	})
	if err != nil {
		return err
	}
	s.cron.Start()
	s.log.Infof("定时对账已启动: %s", spec)
	return nil
}

// Stop 停止定时对账
func (s *ReconcileService) Stop() {
	if s.cron != nil {
		s.cron.Stop()
	}
}

// ReconcileAll 全量对账，可重复执行
func (s *ReconcileService) ReconcileAll(ctx context.Context) error {
	userIDs, err := s.store.ListUserIDs(ctx)
	if err != nil {
		return err
	}

	var (
		mu            sync.Mutex
		collectCounts = make(map[uint]int) // 文章ID -> 实际收藏人数
		articleIDs    = make(map[uint]struct{})
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for _, userID := range userIDs {
		userID := userID
		g.Go(func() error {
			favorites, authored, err := s.reconcileUser(gctx, userID)
			if err != nil {
				s.log.Warnf("对账用户%d失败: %v", userID, err)
				return nil
			}
			mu.Lock()
			for _, f := range favorites {
				collectCounts[f.ArticleID]++
			}
			for _, id := range authored {
				articleIDs[id] = struct{}{}
			}
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	// 按实际收藏人数修复文章收藏数
	for id := range articleIDs {
		if err := s.store.SetArticleStat(ctx, id, store.StatCollect, collectCounts[id]); err != nil {
			s.log.Warnf("修复文章%d收藏数失败: %v", id, err)
		}
	}

	s.log.Infof("对账完成: 用户%d个，文章%d篇", len(userIDs), len(articleIDs))
	return nil
}

// reconcileUser 修复单个用户的投影、统计和收藏列表
// 返回修复后的收藏列表和该用户名下的文章ID
func (s *ReconcileService) reconcileUser(ctx context.Context, userID uint) (model.FavoriteRefList, []uint, error) {
	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return nil, nil, err
	}

	// 按文章集合重建投影和已发布文章数
	authored, err := s.store.ListArticlesByAuthor(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	refs := make(model.ArticleRefList, 0, len(authored))
	ids := make([]uint, 0, len(authored))
	published := 0
	for i := range authored {
		refs = append(refs, authored[i].Ref())
		ids = append(ids, authored[i].ID)
		if authored[i].IsPublished() {
			published++
		}
	}
	if err := s.store.SetArticleRefs(ctx, userID, refs); err != nil {
		return nil, nil, err
	}
	if err := s.store.SetArticleCount(ctx, userID, published); err != nil {
		return nil, nil, err
	}

	// 收藏列表剔除指向已删除文章的悬空引用，保留条目本身的收藏时间
	favoriteIDs := make([]uint, 0, len(user.Favorites))
	for _, f := range user.Favorites {
		favoriteIDs = append(favoriteIDs, f.ArticleID)
	}
	existing, err := s.store.GetArticlesByIDs(ctx, favoriteIDs)
	if err != nil {
		return nil, nil, err
	}
	alive := make(map[uint]struct{}, len(existing))
	for i := range existing {
		alive[existing[i].ID] = struct{}{}
	}
	favorites := make(model.FavoriteRefList, 0, len(user.Favorites))
	for _, f := range user.Favorites {
		if _, ok := alive[f.ArticleID]; ok {
			favorites = append(favorites, f)
		}
	}
	if len(favorites) != len(user.Favorites) {
		if err := s.store.SetFavorites(ctx, userID, favorites); err != nil {
			return nil, nil, err
		}
	}

	return favorites, ids, nil
}

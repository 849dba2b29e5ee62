package service

import (
	"context"
	"testing"
	"time"

	"github.com/qingnian/blog-api/internal/model"
	"github.com/qingnian/blog-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReconcileRepairsDesync(t *testing.T) {
	st := store.NewMemoryStore()
	articles := NewArticleService(st)
	favorites := NewFavoriteService(st)
	ctx := context.Background()

	author := seedUser(t, st, "zhangsan")
	reader := seedUser(t, st, "lisi")

	a1 := createArticle(t, articles, author.ID, "")
	a2 := createArticle(t, articles, author.ID, "")
	createArticle(t, articles, author.ID, model.StatusDraft)

	_, err := favorites.Favorite(ctx, reader.ID, a1.ID)
	require.NoError(t, err)

	// 注入三类不一致：投影残缺、统计虚高、收藏悬空、收藏数错误
	favTime := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, st.SetArticleRefs(ctx, author.ID, model.ArticleRefList{a1.Ref()}))
	require.NoError(t, st.SetArticleCount(ctx, author.ID, 5))
	require.NoError(t, st.SetFavorites(ctx, reader.ID, model.FavoriteRefList{
		{ArticleID: a1.ID, CreatedAt: favTime},
		{ArticleID: 999, CreatedAt: favTime},
	}))
	require.NoError(t, st.SetArticleStat(ctx, a1.ID, store.StatCollect, 7))
	require.NoError(t, st.SetArticleStat(ctx, a2.ID, store.StatCollect, 3))

	svc := NewReconcileService(st, 2)
	require.NoError(t, svc.ReconcileAll(ctx))

	// 投影按文章集合重建，草稿也进入投影，统计只数已发布
	user, err := st.GetUser(ctx, author.ID)
	require.NoError(t, err)
	assert.Len(t, user.Articles, 3)
	assert.Equal(t, 2, user.ArticleCount)

	// 悬空收藏被剔除，存活条目保留原收藏时间
	fan, err := st.GetUser(ctx, reader.ID)
	require.NoError(t, err)
	require.Len(t, fan.Favorites, 1)
	assert.Equal(t, a1.ID, fan.Favorites[0].ArticleID)
	assert.Equal(t, favTime, fan.Favorites[0].CreatedAt)

	// 收藏数按实际收藏人数重算
	got1, err := st.GetArticle(ctx, a1.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got1.CollectCount)

	got2, err := st.GetArticle(ctx, a2.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got2.CollectCount)
}

func TestReconcileIsIdempotent(t *testing.T) {
	st := store.NewMemoryStore()
	articles := NewArticleService(st)
	favorites := NewFavoriteService(st)
	ctx := context.Background()

	author := seedUser(t, st, "zhangsan")
	reader := seedUser(t, st, "lisi")
	a1 := createArticle(t, articles, author.ID, "")

	_, err := favorites.Favorite(ctx, reader.ID, a1.ID)
	require.NoError(t, err)

	svc := NewReconcileService(st, 2)
	require.NoError(t, svc.ReconcileAll(ctx))
	require.NoError(t, svc.ReconcileAll(ctx))

	// 一致的数据反复对账不发生任何漂移
	user, err := st.GetUser(ctx, author.ID)
	require.NoError(t, err)
	assert.Len(t, user.Articles, 1)
	assert.Equal(t, 1, user.ArticleCount)

	got, err := st.GetArticle(ctx, a1.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.CollectCount)
}

func TestReconcileEmptyStore(t *testing.T) {
	svc := NewReconcileService(store.NewMemoryStore(), 2)
	require.NoError(t, svc.ReconcileAll(context.Background()))
}

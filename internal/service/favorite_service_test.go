package service

import (
	"context"
	"testing"

	"github.com/qingnian/blog-api/internal/model"
	"github.com/qingnian/blog-api/internal/store"
	"github.com/qingnian/blog-api/pkg/apperr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFavoriteAndUnfavorite(t *testing.T) {
	st := store.NewMemoryStore()
	articles := NewArticleService(st)
	svc := NewFavoriteService(st)
	ctx := context.Background()

	author := seedUser(t, st, "zhangsan")
	reader := seedUser(t, st, "lisi")
	article := createArticle(t, articles, author.ID, "")

	warning, err := svc.Favorite(ctx, reader.ID, article.ID)
	require.NoError(t, err)
	assert.Empty(t, warning)

	// 收藏条目记录文章ID和冻结的收藏时间
	user, err := st.GetUser(ctx, reader.ID)
	require.NoError(t, err)
	assert.True(t, user.HasFavorite(article.ID))
	require.Len(t, user.Favorites, 1)
	assert.Equal(t, article.ID, user.Favorites[0].ArticleID)
	assert.False(t, user.Favorites[0].CreatedAt.IsZero())

	got, err := st.GetArticle(ctx, article.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.CollectCount)

	_, err = svc.Unfavorite(ctx, reader.ID, article.ID)
	require.NoError(t, err)

	user, err = st.GetUser(ctx, reader.ID)
	require.NoError(t, err)
	assert.False(t, user.HasFavorite(article.ID))

	got, err = st.GetArticle(ctx, article.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.CollectCount)
}

func TestFavoriteDuplicateConflict(t *testing.T) {
	st := store.NewMemoryStore()
	articles := NewArticleService(st)
	svc := NewFavoriteService(st)
	ctx := context.Background()

	author := seedUser(t, st, "zhangsan")
	reader := seedUser(t, st, "lisi")
	article := createArticle(t, articles, author.ID, "")

	_, err := svc.Favorite(ctx, reader.ID, article.ID)
	require.NoError(t, err)

	// 重复收藏返回冲突，收藏数不会重复累加
	_, err = svc.Favorite(ctx, reader.ID, article.ID)
	assert.True(t, apperr.Is(err, apperr.KindConflict))

	got, err := st.GetArticle(ctx, article.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.CollectCount)
}

func TestFavoriteDraftNotFound(t *testing.T) {
	st := store.NewMemoryStore()
	articles := NewArticleService(st)
	svc := NewFavoriteService(st)
	ctx := context.Background()

	author := seedUser(t, st, "zhangsan")
	reader := seedUser(t, st, "lisi")
	draft := createArticle(t, articles, author.ID, model.StatusDraft)

	// 未发布的文章不可收藏，表现与不存在一致
	_, err := svc.Favorite(ctx, reader.ID, draft.ID)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))

	_, err = svc.Favorite(ctx, reader.ID, 999)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestUnfavoriteNotFavorited(t *testing.T) {
	st := store.NewMemoryStore()
	articles := NewArticleService(st)
	svc := NewFavoriteService(st)
	ctx := context.Background()

	author := seedUser(t, st, "zhangsan")
	reader := seedUser(t, st, "lisi")
	article := createArticle(t, articles, author.ID, "")

	_, err := svc.Unfavorite(ctx, reader.ID, article.ID)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestUnfavoriteCollectCountFloor(t *testing.T) {
	st := store.NewMemoryStore()
	articles := NewArticleService(st)
	svc := NewFavoriteService(st)
	ctx := context.Background()

	author := seedUser(t, st, "zhangsan")
	reader := seedUser(t, st, "lisi")
	article := createArticle(t, articles, author.ID, "")

	_, err := svc.Favorite(ctx, reader.ID, article.ID)
	require.NoError(t, err)

	// 模拟计数已被其他路径清零后的不一致
	require.NoError(t, st.SetArticleStat(ctx, article.ID, store.StatCollect, 0))

	_, err = svc.Unfavorite(ctx, reader.ID, article.ID)
	require.NoError(t, err)

	got, err := st.GetArticle(ctx, article.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.CollectCount)
}

func TestUnfavoriteAfterArticleDeleted(t *testing.T) {
	flaky := &flakyStore{EntityStore: store.NewMemoryStore()}
	articles := NewArticleService(flaky)
	svc := NewFavoriteService(flaky)
	ctx := context.Background()

	author := seedUser(t, flaky, "zhangsan")
	reader := seedUser(t, flaky, "lisi")
	article := createArticle(t, articles, author.ID, "")

	_, err := svc.Favorite(ctx, reader.ID, article.ID)
	require.NoError(t, err)

	// 文章被直接删除而收藏引用残留时，取消收藏仍然干净成功
	require.NoError(t, flaky.DeleteArticle(ctx, article.ID))

	warning, err := svc.Unfavorite(ctx, reader.ID, article.ID)
	require.NoError(t, err)
	assert.Empty(t, warning)

	user, err := flaky.GetUser(ctx, reader.ID)
	require.NoError(t, err)
	assert.False(t, user.HasFavorite(article.ID))
}

func TestFavoriteCollectCountFailureReturnsWarning(t *testing.T) {
	flaky := &flakyStore{EntityStore: store.NewMemoryStore(), failIncCollect: true}
	articles := NewArticleService(flaky)
	svc := NewFavoriteService(flaky)
	ctx := context.Background()

	author := seedUser(t, flaky, "zhangsan")
	reader := seedUser(t, flaky, "lisi")
	article := createArticle(t, articles, author.ID, "")

	warning, err := svc.Favorite(ctx, reader.ID, article.ID)

	// 权威侧的收藏关系已写入，计数失败以告警返回
	require.NoError(t, err)
	assert.Contains(t, warning, "更新文章收藏数失败")

	user, err := flaky.GetUser(ctx, reader.ID)
	require.NoError(t, err)
	assert.True(t, user.HasFavorite(article.ID))

	got, err := flaky.GetArticle(ctx, article.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.CollectCount)
}

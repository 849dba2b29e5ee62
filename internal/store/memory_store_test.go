package store

import (
	"context"
	"testing"
	"time"

	"github.com/qingnian/blog-api/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedTestUser(t *testing.T, st EntityStore, username string) *model.User {
	t.Helper()
	u := &model.User{Username: username, Email: username + "@example.com", Password: "x", Role: model.RoleUser}
	require.NoError(t, st.CreateUser(context.Background(), u))
	return u
}

func seedTestArticle(t *testing.T, st EntityStore, authorID uint, status string) *model.Article {
	t.Helper()
	a := &model.Article{
		Title:    "测试文章",
		Content:  "测试内容测试内容",
		Summary:  "摘要",
		Category: "技术",
		Status:   status,
		AuthorID: authorID,
	}
	require.NoError(t, st.CreateArticle(context.Background(), a))
	return a
}

func TestMemoryStoreIncArticleStatFloor(t *testing.T) {
	st := NewMemoryStore()
	ctx := context.Background()
	u := seedTestUser(t, st, "zhangsan")
	a := seedTestArticle(t, st, u.ID, model.StatusPublished)

	count, err := st.IncArticleStat(ctx, a.ID, StatCollect, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	count, err = st.IncArticleStat(ctx, a.ID, StatCollect, -1)
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	// 已经是0时继续减不会变成负数
	count, err = st.IncArticleStat(ctx, a.ID, StatCollect, -1)
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	_, err = st.IncArticleStat(ctx, 999, StatView, 1)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStoreReplaceComments(t *testing.T) {
	st := NewMemoryStore()
	ctx := context.Background()
	u := seedTestUser(t, st, "zhangsan")
	a := seedTestArticle(t, st, u.ID, model.StatusPublished)

	comments := model.CommentList{
		{ID: 1, Content: "一楼", UserID: u.ID, CreatedAt: time.Now()},
		{ID: 2, Content: "二楼", UserID: u.ID, CreatedAt: time.Now()},
	}
	require.NoError(t, st.ReplaceComments(ctx, a.ID, comments))

	got, err := st.GetArticle(ctx, a.ID)
	require.NoError(t, err)
	assert.Len(t, got.Comments, 2)
	assert.Equal(t, 2, got.CommentCount)

	require.NoError(t, st.ReplaceComments(ctx, a.ID, comments[:1]))
	got, err = st.GetArticle(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.CommentCount)

	assert.ErrorIs(t, st.ReplaceComments(ctx, 999, comments), ErrNotFound)
}

func TestMemoryStoreUpsertArticleRef(t *testing.T) {
	st := NewMemoryStore()
	ctx := context.Background()
	u := seedTestUser(t, st, "zhangsan")

	ref := model.ArticleRef{ArticleID: 1, Title: "原标题", Status: model.StatusDraft}
	require.NoError(t, st.UpsertArticleRef(ctx, u.ID, ref))

	// 同一文章再次写入按articleId覆盖而不是追加
	ref.Title = "新标题"
	ref.Status = model.StatusPublished
	require.NoError(t, st.UpsertArticleRef(ctx, u.ID, ref))

	got, err := st.GetUser(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, got.Articles, 1)
	assert.Equal(t, "新标题", got.Articles[0].Title)
	assert.Equal(t, model.StatusPublished, got.Articles[0].Status)

	require.NoError(t, st.PullArticleRef(ctx, u.ID, 1))
	got, err = st.GetUser(ctx, u.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Articles)
}

func TestMemoryStorePullFavoriteFromAll(t *testing.T) {
	st := NewMemoryStore()
	ctx := context.Background()
	u1 := seedTestUser(t, st, "zhangsan")
	u2 := seedTestUser(t, st, "lisi")

	require.NoError(t, st.PushFavorite(ctx, u1.ID, 7))
	require.NoError(t, st.PushFavorite(ctx, u1.ID, 8))
	require.NoError(t, st.PushFavorite(ctx, u2.ID, 7))

	require.NoError(t, st.PullFavoriteFromAll(ctx, 7))

	got1, err := st.GetUser(ctx, u1.ID)
	require.NoError(t, err)
	require.Len(t, got1.Favorites, 1)
	assert.Equal(t, uint(8), got1.Favorites[0].ArticleID)
	assert.False(t, got1.Favorites[0].CreatedAt.IsZero())

	got2, err := st.GetUser(ctx, u2.ID)
	require.NoError(t, err)
	assert.Empty(t, got2.Favorites)
}

func TestMemoryStoreListArticles(t *testing.T) {
	st := NewMemoryStore()
	ctx := context.Background()
	u := seedTestUser(t, st, "zhangsan")

	for i := 0; i < 3; i++ {
		seedTestArticle(t, st, u.ID, model.StatusPublished)
	}
	draft := seedTestArticle(t, st, u.ID, model.StatusDraft)
	tagged := seedTestArticle(t, st, u.ID, model.StatusPublished)
	require.NoError(t, st.UpdateArticle(ctx, tagged.ID, map[string]any{"tags": model.StringList{"Go"}}))

	published, total, err := st.ListArticles(ctx, ArticleQuery{Page: 1, Limit: 10, Status: model.StatusPublished})
	require.NoError(t, err)
	assert.Equal(t, int64(4), total)
	assert.Len(t, published, 4)

	byTag, total, err := st.ListArticles(ctx, ArticleQuery{Page: 1, Limit: 10, Tag: "Go"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, byTag, 1)
	assert.Equal(t, tagged.ID, byTag[0].ID)

	drafts, total, err := st.ListArticles(ctx, ArticleQuery{Page: 1, Limit: 10, Status: model.StatusDraft, AuthorID: u.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, drafts, 1)
	assert.Equal(t, draft.ID, drafts[0].ID)

	// 分页越界返回空页但总数不变
	page2, total, err := st.ListArticles(ctx, ArticleQuery{Page: 3, Limit: 10, Status: model.StatusPublished})
	require.NoError(t, err)
	assert.Equal(t, int64(4), total)
	assert.Empty(t, page2)
}

func TestMemoryStoreDeleteArticleIdempotent(t *testing.T) {
	st := NewMemoryStore()
	ctx := context.Background()
	u := seedTestUser(t, st, "zhangsan")
	a := seedTestArticle(t, st, u.ID, model.StatusPublished)

	require.NoError(t, st.DeleteArticle(ctx, a.ID))
	require.NoError(t, st.DeleteArticle(ctx, a.ID))

	_, err := st.GetArticle(ctx, a.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStoreUpdateAuthorSnapshot(t *testing.T) {
	st := NewMemoryStore()
	ctx := context.Background()
	u := seedTestUser(t, st, "zhangsan")
	a1 := seedTestArticle(t, st, u.ID, model.StatusPublished)
	a2 := seedTestArticle(t, st, u.ID, model.StatusDraft)
	other := seedTestUser(t, st, "lisi")
	a3 := seedTestArticle(t, st, other.ID, model.StatusPublished)

	require.NoError(t, st.UpdateAuthorSnapshot(ctx, u.ID, "新名字", "new.png"))

	for _, id := range []uint{a1.ID, a2.ID} {
		got, err := st.GetArticle(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, "新名字", got.AuthorName)
		assert.Equal(t, "new.png", got.AuthorAvatar)
	}

	// 其他作者的文章不受影响
	got, err := st.GetArticle(ctx, a3.ID)
	require.NoError(t, err)
	assert.NotEqual(t, "新名字", got.AuthorName)
}

package service

import (
	"context"
	"errors"
	"testing"

	"github.com/qingnian/blog-api/internal/dto"
	"github.com/qingnian/blog-api/internal/model"
	"github.com/qingnian/blog-api/internal/store"
	"github.com/qingnian/blog-api/pkg/apperr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArticleCreate(t *testing.T) {
	st := store.NewMemoryStore()
	svc := NewArticleService(st)
	ctx := context.Background()

	author := seedUser(t, st, "zhangsan")
	article := createArticle(t, svc, author.ID, "")

	// 新文章统计全部归零，作者信息冻结为创建时的快照
	assert.Equal(t, 0, article.ViewCount)
	assert.Equal(t, 0, article.LikeCount)
	assert.Equal(t, 0, article.CollectCount)
	assert.Equal(t, 0, article.CommentCount)
	assert.Equal(t, author.ID, article.AuthorID)
	assert.Equal(t, "zhangsan", article.AuthorName)
	assert.Equal(t, model.DefaultAvatar, article.AuthorAvatar)
	assert.Equal(t, model.StatusPublished, article.Status)
	assert.Equal(t, model.DefaultCover, article.Cover)
	require.NotNil(t, article.PublishedAt)

	// 文章同步进入作者投影和统计，投影条目携带封面
	user, err := st.GetUser(ctx, author.ID)
	require.NoError(t, err)
	require.Len(t, user.Articles, 1)
	assert.Equal(t, article.ID, user.Articles[0].ArticleID)
	assert.Equal(t, article.Cover, user.Articles[0].Cover)
	assert.Equal(t, 1, user.ArticleCount)
}

func TestArticleCreateInvalidCategory(t *testing.T) {
	st := store.NewMemoryStore()
	svc := NewArticleService(st)

	author := seedUser(t, st, "zhangsan")
	_, _, err := svc.Create(context.Background(), author.ID, &dto.ArticleCreateRequest{
		Title:    "标题标题",
		Content:  "内容内容内容内容内容内容",
		Summary:  "摘要",
		Category: "不存在的分类",
	})
	assert.True(t, apperr.Is(err, apperr.KindValidation))
}

func TestArticleCreateDraftEntersProjection(t *testing.T) {
	st := store.NewMemoryStore()
	svc := NewArticleService(st)
	ctx := context.Background()

	author := seedUser(t, st, "zhangsan")
	article := createArticle(t, svc, author.ID, model.StatusDraft)
	assert.Nil(t, article.PublishedAt)

	// 草稿同样进入作者投影，只是不计入已发布文章数
	user, err := st.GetUser(ctx, author.ID)
	require.NoError(t, err)
	require.Len(t, user.Articles, 1)
	assert.Equal(t, article.ID, user.Articles[0].ArticleID)
	assert.Equal(t, model.StatusDraft, user.Articles[0].Status)
	assert.Equal(t, 0, user.ArticleCount)
}

func TestArticleDraftVisibility(t *testing.T) {
	st := store.NewMemoryStore()
	svc := NewArticleService(st)
	ctx := context.Background()

	author := seedUser(t, st, "zhangsan")
	reader := seedUser(t, st, "lisi")
	article := createArticle(t, svc, author.ID, model.StatusDraft)

	// 草稿对其他用户和未登录访客不可见
	_, _, err := svc.Get(ctx, article.ID, reader.ID, model.RoleUser)
	assert.True(t, apperr.Is(err, apperr.KindPermissionDenied))
	_, _, err = svc.Get(ctx, article.ID, 0, "")
	assert.True(t, apperr.Is(err, apperr.KindPermissionDenied))

	// 作者本人可见且不计浏览量
	got, isAuthor, err := svc.Get(ctx, article.ID, author.ID, model.RoleUser)
	require.NoError(t, err)
	assert.True(t, isAuthor)
	assert.Equal(t, 0, got.ViewCount)

	// 管理员查看草稿也计浏览量
	got, _, err = svc.Get(ctx, article.ID, reader.ID, model.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, 1, got.ViewCount)

	// 发布后对所有人可见
	_, _, err = svc.Update(ctx, author.ID, model.RoleUser, article.ID, &dto.ArticleUpdateRequest{
		Status: model.StatusPublished,
	})
	require.NoError(t, err)

	got, isAuthor, err = svc.Get(ctx, article.ID, reader.ID, model.RoleUser)
	require.NoError(t, err)
	assert.False(t, isAuthor)
	require.NotNil(t, got.PublishedAt)
	assert.Equal(t, 2, got.ViewCount)
}

func TestArticleViewCount(t *testing.T) {
	st := store.NewMemoryStore()
	svc := NewArticleService(st)
	ctx := context.Background()

	author := seedUser(t, st, "zhangsan")
	reader := seedUser(t, st, "lisi")
	article := createArticle(t, svc, author.ID, "")

	// 他人查看计浏览量，作者本人不计
	got, _, err := svc.Get(ctx, article.ID, reader.ID, model.RoleUser)
	require.NoError(t, err)
	assert.Equal(t, 1, got.ViewCount)

	got, _, err = svc.Get(ctx, article.ID, author.ID, model.RoleUser)
	require.NoError(t, err)
	assert.Equal(t, 1, got.ViewCount)

	got, _, err = svc.Get(ctx, article.ID, 0, "")
	require.NoError(t, err)
	assert.Equal(t, 2, got.ViewCount)
}

func TestArticleUpdatePermission(t *testing.T) {
	st := store.NewMemoryStore()
	svc := NewArticleService(st)
	ctx := context.Background()

	author := seedUser(t, st, "zhangsan")
	other := seedUser(t, st, "lisi")
	article := createArticle(t, svc, author.ID, "")

	_, _, err := svc.Update(ctx, other.ID, model.RoleUser, article.ID, &dto.ArticleUpdateRequest{Title: "改过的标题"})
	assert.True(t, apperr.Is(err, apperr.KindPermissionDenied))

	// 管理员可以修改任何文章
	updated, _, err := svc.Update(ctx, other.ID, model.RoleAdmin, article.ID, &dto.ArticleUpdateRequest{Title: "改过的标题"})
	require.NoError(t, err)
	assert.Equal(t, "改过的标题", updated.Title)

	// 投影中的标题随之刷新
	user, err := st.GetUser(ctx, author.ID)
	require.NoError(t, err)
	require.Len(t, user.Articles, 1)
	assert.Equal(t, "改过的标题", user.Articles[0].Title)
}

func TestArticleDeleteCascade(t *testing.T) {
	st := store.NewMemoryStore()
	svc := NewArticleService(st)
	favorites := NewFavoriteService(st)
	ctx := context.Background()

	author := seedUser(t, st, "zhangsan")
	reader := seedUser(t, st, "lisi")
	article, _, err := svc.Create(ctx, author.ID, &dto.ArticleCreateRequest{
		Title:    "焦虑的时候该怎么办",
		Content:  "最近总是睡不好，想听听大家的建议，内容超过十个字符。",
		Summary:  "求助",
		Category: "心理",
	})
	require.NoError(t, err)

	_, err = favorites.Favorite(ctx, reader.ID, article.ID)
	require.NoError(t, err)

	warning, err := svc.Delete(ctx, author.ID, model.RoleUser, article.ID)
	require.NoError(t, err)
	assert.Empty(t, warning)

	// 权威侧已删除
	_, err = st.GetArticle(ctx, article.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)

	// 作者投影、统计和所有用户的收藏引用级联清理
	user, err := st.GetUser(ctx, author.ID)
	require.NoError(t, err)
	assert.Empty(t, user.Articles)
	assert.Equal(t, 0, user.ArticleCount)

	fan, err := st.GetUser(ctx, reader.ID)
	require.NoError(t, err)
	assert.Empty(t, fan.Favorites)
}

func TestArticleDeleteMissingIsNoop(t *testing.T) {
	st := store.NewMemoryStore()
	svc := NewArticleService(st)

	author := seedUser(t, st, "zhangsan")
	warning, err := svc.Delete(context.Background(), author.ID, model.RoleUser, 12345)
	require.NoError(t, err)
	assert.Empty(t, warning)
}

func TestArticleDeletePermission(t *testing.T) {
	st := store.NewMemoryStore()
	svc := NewArticleService(st)

	author := seedUser(t, st, "zhangsan")
	other := seedUser(t, st, "lisi")
	article := createArticle(t, svc, author.ID, "")

	_, err := svc.Delete(context.Background(), other.ID, model.RoleUser, article.ID)
	assert.True(t, apperr.Is(err, apperr.KindPermissionDenied))
}

func TestArticleLike(t *testing.T) {
	st := store.NewMemoryStore()
	svc := NewArticleService(st)
	ctx := context.Background()

	author := seedUser(t, st, "zhangsan")
	article := createArticle(t, svc, author.ID, "")

	// 点赞不要求登录也不去重
	count, err := svc.Like(ctx, article.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	count, err = svc.Like(ctx, article.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	_, err = svc.Like(ctx, 999)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestArticleList(t *testing.T) {
	st := store.NewMemoryStore()
	svc := NewArticleService(st)
	ctx := context.Background()

	author := seedUser(t, st, "zhangsan")
	createArticle(t, svc, author.ID, "")
	createArticle(t, svc, author.ID, "")
	createArticle(t, svc, author.ID, model.StatusDraft)

	// 公开列表只包含已发布文章
	result, err := svc.List(ctx, &dto.ArticleQueryRequest{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), result.Total)
	assert.Equal(t, 1, result.TotalPages)

	drafts, err := svc.ListDrafts(ctx, author.ID, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), drafts.Total)
}

func TestArticleCreateProjectionFailureReturnsWarning(t *testing.T) {
	flaky := &flakyStore{EntityStore: store.NewMemoryStore(), failUpsertRef: true}
	svc := NewArticleService(flaky)
	ctx := context.Background()

	author := seedUser(t, flaky, "zhangsan")
	article, warning, err := svc.Create(ctx, author.ID, &dto.ArticleCreateRequest{
		Title:    "上海生活观察",
		Content:  "这是一篇关于城市生活的长文，内容超过十个字符。",
		Summary:  "城市生活观察",
		Category: "生活",
	})

	// 权威写入成功，冗余失败只产生告警
	require.NoError(t, err)
	assert.Contains(t, warning, "同步作者文章列表失败")
	assert.Contains(t, warning, "对账任务")

	got, err := flaky.GetArticle(ctx, article.ID)
	require.NoError(t, err)
	assert.Equal(t, article.Title, got.Title)

	// 冗余侧确实没写进去，等待对账修复
	user, err := flaky.GetUser(ctx, author.ID)
	require.NoError(t, err)
	assert.Empty(t, user.Articles)
}

func TestArticleGetNotFound(t *testing.T) {
	st := store.NewMemoryStore()
	svc := NewArticleService(st)

	_, _, err := svc.Get(context.Background(), 42, 0, "")
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
	assert.False(t, errors.Is(err, store.ErrNotFound))
}

package service

import (
	"context"
	"errors"
	"testing"

	"github.com/qingnian/blog-api/internal/config"
	"github.com/qingnian/blog-api/internal/dto"
	"github.com/qingnian/blog-api/internal/model"
	"github.com/qingnian/blog-api/internal/store"
	"github.com/stretchr/testify/require"
)

func init() {
	// 令牌相关用例依赖JWT配置
	config.GlobalConfig = &config.Config{
		JWT: config.JWTConfig{
			SecretKey:            "unit-test-secret",
			AccessExpireSeconds:  3600,
			RefreshExpireSeconds: 7200,
			Issuer:               "blog-api",
		},
	}
}

func seedUser(t *testing.T, st store.EntityStore, username string) *model.User {
	t.Helper()
	user := &model.User{
		Username: username,
		Email:    username + "@example.com",
		Password: "hashed",
		Avatar:   model.DefaultAvatar,
		Role:     model.RoleUser,
	}
	require.NoError(t, st.CreateUser(context.Background(), user))
	return user
}

func createArticle(t *testing.T, svc *ArticleService, userID uint, status string) *model.Article {
	t.Helper()
	article, warning, err := svc.Create(context.Background(), userID, &dto.ArticleCreateRequest{
		Title:    "上海生活观察",
		Content:  "这是一篇关于城市生活的长文，内容超过十个字符。",
		Summary:  "城市生活观察",
		Category: "生活",
		Tags:     []string{"城市", "随笔"},
		Status:   status,
	})
	require.NoError(t, err)
	require.Empty(t, warning)
	return article
}

// flakyStore 包装真实存储，按开关让指定的冗余写入失败
type flakyStore struct {
	store.EntityStore
	failUpsertRef  bool
	failIncCollect bool
}

var errInjected = errors.New("注入的存储故障")

func (f *flakyStore) UpsertArticleRef(ctx context.Context, userID uint, ref model.ArticleRef) error {
	if f.failUpsertRef {
		return errInjected
	}
	return f.EntityStore.UpsertArticleRef(ctx, userID, ref)
}

func (f *flakyStore) IncArticleStat(ctx context.Context, id uint, column string, delta int) (int, error) {
	if f.failIncCollect && column == store.StatCollect {
		return 0, errInjected
	}
	return f.EntityStore.IncArticleStat(ctx, id, column, delta)
}

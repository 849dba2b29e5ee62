package service

import (
	"context"
	"testing"

	"github.com/qingnian/blog-api/internal/dto"
	"github.com/qingnian/blog-api/internal/model"
	"github.com/qingnian/blog-api/internal/store"
	"github.com/qingnian/blog-api/pkg/apperr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestUserRegister(t *testing.T) {
	st := store.NewMemoryStore()
	svc := NewUserService(st)
	ctx := context.Background()

	user, err := svc.Register(ctx, &dto.RegisterRequest{
		Username: "zhangsan",
		Email:    "zhangsan@example.com",
		Password: "secret123",
	})
	require.NoError(t, err)
	assert.Equal(t, model.RoleUser, user.Role)
	assert.Equal(t, model.DefaultAvatar, user.Avatar)

	// 密码加密存储
	assert.NotEqual(t, "secret123", user.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("secret123")))

	// 用户名和邮箱唯一
	_, err = svc.Register(ctx, &dto.RegisterRequest{
		Username: "zhangsan",
		Email:    "other@example.com",
		Password: "secret123",
	})
	assert.True(t, apperr.Is(err, apperr.KindConflict))

	_, err = svc.Register(ctx, &dto.RegisterRequest{
		Username: "lisi",
		Email:    "zhangsan@example.com",
		Password: "secret123",
	})
	assert.True(t, apperr.Is(err, apperr.KindConflict))
}

func TestUserLogin(t *testing.T) {
	st := store.NewMemoryStore()
	svc := NewUserService(st)
	ctx := context.Background()

	_, err := svc.Register(ctx, &dto.RegisterRequest{
		Username: "zhangsan",
		Email:    "zhangsan@example.com",
		Password: "secret123",
	})
	require.NoError(t, err)

	user, pair, err := svc.Login(ctx, &dto.LoginRequest{Username: "zhangsan", Password: "secret123"})
	require.NoError(t, err)
	assert.Equal(t, "zhangsan", user.Username)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)

	// 用户不存在和密码错误返回同样的错误，不泄露账号是否存在
	_, _, err = svc.Login(ctx, &dto.LoginRequest{Username: "zhangsan", Password: "wrong"})
	assert.True(t, apperr.Is(err, apperr.KindUnauthenticated))

	_, _, err = svc.Login(ctx, &dto.LoginRequest{Username: "nobody", Password: "secret123"})
	assert.True(t, apperr.Is(err, apperr.KindUnauthenticated))
}

func TestUserUpdateProfileKeepsSnapshot(t *testing.T) {
	st := store.NewMemoryStore()
	users := NewUserService(st)
	articles := NewArticleService(st)
	ctx := context.Background()

	author := seedUser(t, st, "zhangsan")
	article := createArticle(t, articles, author.ID, "")

	updated, err := users.UpdateProfile(ctx, author.ID, &dto.UserUpdateRequest{
		Username: "zhangsan2",
		Bio:      "写字的人",
	})
	require.NoError(t, err)
	assert.Equal(t, "zhangsan2", updated.Username)
	assert.Equal(t, "写字的人", updated.Bio)

	// 已有文章上的作者快照保持创建时的值
	got, err := st.GetArticle(ctx, article.ID)
	require.NoError(t, err)
	assert.Equal(t, "zhangsan", got.AuthorName)

	// 快照刷新是独立操作
	require.NoError(t, users.RefreshAuthorSnapshot(ctx, author.ID))
	got, err = st.GetArticle(ctx, article.ID)
	require.NoError(t, err)
	assert.Equal(t, "zhangsan2", got.AuthorName)
}

func TestUserUpdateProfileUsernameConflict(t *testing.T) {
	st := store.NewMemoryStore()
	svc := NewUserService(st)
	ctx := context.Background()

	seedUser(t, st, "zhangsan")
	other := seedUser(t, st, "lisi")

	_, err := svc.UpdateProfile(ctx, other.ID, &dto.UserUpdateRequest{Username: "zhangsan"})
	assert.True(t, apperr.Is(err, apperr.KindConflict))
}

package service

import (
	"context"
	"errors"

	"github.com/qingnian/blog-api/internal/dto"
	"github.com/qingnian/blog-api/internal/logger"
	"github.com/qingnian/blog-api/internal/model"
	"github.com/qingnian/blog-api/internal/store"
	"github.com/qingnian/blog-api/pkg/apperr"
	"github.com/qingnian/blog-api/pkg/auth"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// UserService 用户服务
type UserService struct {
	store store.EntityStore
	log   *zap.SugaredLogger
}

// NewUserService 创建用户服务实例
func NewUserService(st store.EntityStore) *UserService {
	return &UserService{
		store: st,
		log:   logger.GetSugaredLogger(),
	}
}

// Register 注册用户，密码bcrypt加密存储
func (s *UserService) Register(ctx context.Context, req *dto.RegisterRequest) (*model.User, error) {
	if _, err := s.store.GetUserByUsername(ctx, req.Username); err == nil {
		return nil, apperr.Conflict("用户名已存在")
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, apperr.Internal("查询用户失败", err)
	}

	if _, err := s.store.GetUserByEmail(ctx, req.Email); err == nil {
		return nil, apperr.Conflict("邮箱已被注册")
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, apperr.Internal("查询用户失败", err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperr.Internal("密码加密失败", err)
	}

	user := &model.User{
		Username: req.Username,
		Email:    req.Email,
		Password: string(hashed),
		Avatar:   model.DefaultAvatar,
		Role:     model.RoleUser,
	}
	if err := s.store.CreateUser(ctx, user); err != nil {
		return nil, apperr.Internal("创建用户失败", err)
	}
	return user, nil
}

// Login 登录，校验通过后签发令牌对
func (s *UserService) Login(ctx context.Context, req *dto.LoginRequest) (*model.User, *auth.TokenPair, error) {
	user, err := s.store.GetUserByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, nil, apperr.Unauthenticated("用户名或密码错误")
		}
		return nil, nil, apperr.Internal("查询用户失败", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, nil, apperr.Unauthenticated("用户名或密码错误")
	}

	pair, err := auth.GenerateTokenPair(user.ID, user.Role, req.Remember)
	if err != nil {
		return nil, nil, apperr.Internal("生成令牌失败", err)
	}
	return user, pair, nil
}

// Logout 撤销当前令牌
func (s *UserService) Logout(tokenString string) error {
	if err := auth.RevokeToken(tokenString); err != nil {
		return apperr.Internal("登出失败", err)
	}
	return nil
}

// GetProfile 获取用户信息
func (s *UserService) GetProfile(ctx context.Context, id uint) (*model.User, error) {
	user, err := s.store.GetUser(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperr.NotFound("用户不存在")
		}
		return nil, apperr.Internal("查询用户失败", err)
	}
	return user, nil
}

// UpdateProfile 更新个人资料
// 改名和换头像不回写已有文章上的冻结快照，
// 快照刷新是独立的管理操作（RefreshAuthorSnapshot）
func (s *UserService) UpdateProfile(ctx context.Context, id uint, req *dto.UserUpdateRequest) (*model.User, error) {
	user, err := s.GetProfile(ctx, id)
	if err != nil {
		return nil, err
	}

	fields := map[string]any{}
	if req.Username != "" && req.Username != user.Username {
		if _, err := s.store.GetUserByUsername(ctx, req.Username); err == nil {
			return nil, apperr.Conflict("用户名已存在")
		} else if !errors.Is(err, store.ErrNotFound) {
			return nil, apperr.Internal("查询用户失败", err)
		}
		fields["username"] = req.Username
	}
	if req.Avatar != "" {
		fields["avatar"] = req.Avatar
	}
	if req.Bio != "" {
		fields["bio"] = sanitizePlainText(req.Bio)
	}

	if err := s.store.UpdateUser(ctx, id, fields); err != nil {
		return nil, apperr.Internal("更新用户失败", err)
	}
	return s.GetProfile(ctx, id)
}

// RefreshAuthorSnapshot 将用户当前的用户名和头像刷新到其全部文章的冻结快照上
func (s *UserService) RefreshAuthorSnapshot(ctx context.Context, userID uint) error {
	user, err := s.GetProfile(ctx, userID)
	if err != nil {
		return err
	}
	if err := s.store.UpdateAuthorSnapshot(ctx, user.ID, user.Username, user.Avatar); err != nil {
		return apperr.Internal("刷新作者快照失败", err)
	}
	return nil
}

package controller

import (
	"github.com/gin-gonic/gin"
	"github.com/qingnian/blog-api/internal/dto"
	"github.com/qingnian/blog-api/internal/middleware"
	"github.com/qingnian/blog-api/internal/service"
	"github.com/qingnian/blog-api/pkg/auth"
	"github.com/qingnian/blog-api/pkg/response"
)

// UserApi 用户接口
type UserApi struct {
	users       *service.UserService
	projections *service.ProjectionService
}

// NewUserApi 创建用户接口实例
func NewUserApi(users *service.UserService, projections *service.ProjectionService) *UserApi {
	return &UserApi{
		users:       users,
		projections: projections,
	}
}

// Register 注册
func (api *UserApi) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	user, err := api.users.Register(c.Request.Context(), &req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, "注册成功", dto.FromUser(user))
}

// Login 登录
func (api *UserApi) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	user, pair, err := api.users.Login(c.Request.Context(), &req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, "登录成功", gin.H{
		"user":  dto.FromUser(user),
		"token": pair,
	})
}

// Logout 登出，将当前令牌加入黑名单
func (api *UserApi) Logout(c *gin.Context) {
	token, exists := middleware.GetToken(c)
	if !exists {
		response.Unauthorized(c, "未授权", nil)
		return
	}

	if err := api.users.Logout(token); err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, "登出成功", nil)
}

// RefreshToken 使用刷新令牌换取新的令牌对
func (api *UserApi) RefreshToken(c *gin.Context) {
	token, exists := middleware.GetToken(c)
	if !exists {
		response.Unauthorized(c, "未授权", nil)
		return
	}

	pair, err := auth.RefreshAccessToken(token)
	if err != nil {
		response.Unauthorized(c, "刷新令牌失败", err)
		return
	}
	response.Success(c, "刷新成功", pair)
}

// GetMe 获取当前用户信息
func (api *UserApi) GetMe(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		response.FromError(c, err)
		return
	}

	user, err := api.users.GetProfile(c.Request.Context(), userID)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, "获取成功", dto.FromUser(user))
}

// UpdateMe 更新当前用户资料
func (api *UserApi) UpdateMe(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		response.FromError(c, err)
		return
	}

	var req dto.UserUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	user, err := api.users.UpdateProfile(c.Request.Context(), userID, &req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, "更新成功", dto.FromUser(user))
}

// GetUserArticles 获取某用户的文章列表
// 本人和管理员可见全部状态，其他访客只能看到已发布的文章
func (api *UserApi) GetUserArticles(c *gin.Context) {
	ownerID, err := parseIDParam(c, "id")
	if err != nil {
		response.FromError(c, err)
		return
	}

	viewerID, _ := getUserIDFromContext(c)
	viewerRole := getUserRoleFromContext(c)

	var req dto.ArticleQueryRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindError(c, err)
		return
	}
	req.Normalize()

	result, err := api.projections.ListUserArticles(c.Request.Context(), ownerID, viewerID, viewerRole, req.Page, req.Limit)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.SuccessPage(c, "获取成功", result.List, req.Page, req.Limit, result.Total, result.TotalPages)
}

// GetFavorites 获取当前用户的收藏列表
func (api *UserApi) GetFavorites(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		response.FromError(c, err)
		return
	}

	var req dto.ArticleQueryRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindError(c, err)
		return
	}
	req.Normalize()

	result, err := api.projections.ListFavorites(c.Request.Context(), userID, req.Page, req.Limit)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.SuccessPage(c, "获取成功", result.List, req.Page, req.Limit, result.Total, result.TotalPages)
}

// RefreshSnapshot 管理员操作：把用户当前资料刷新到其全部文章的作者快照上
func (api *UserApi) RefreshSnapshot(c *gin.Context) {
	userID, err := parseIDParam(c, "id")
	if err != nil {
		response.FromError(c, err)
		return
	}

	if err := api.users.RefreshAuthorSnapshot(c.Request.Context(), userID); err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, "刷新成功", nil)
}

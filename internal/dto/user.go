package dto

import "github.com/qingnian/blog-api/internal/model"

// RegisterRequest 注册请求
type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=3,max=20"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

// LoginRequest 登录请求
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
	Remember bool   `json:"remember"`
}

// UserUpdateRequest 更新个人资料请求，空字段表示不修改
type UserUpdateRequest struct {
	Username string `json:"username" binding:"omitempty,min=3,max=20"`
	Avatar   string `json:"avatar"`
	Bio      string `json:"bio" binding:"omitempty,max=200"`
}

// UserResponse 用户信息响应
type UserResponse struct {
	ID           uint   `json:"id"`
	Username     string `json:"username"`
	Email        string `json:"email"`
	Avatar       string `json:"avatar"`
	Bio          string `json:"bio"`
	Role         string `json:"role"`
	ArticleCount int    `json:"article_count"`
	CreatedAt    string `json:"created_at"`
}

// FromUser 将用户文档转换为响应
func FromUser(u *model.User) *UserResponse {
	return &UserResponse{
		ID:           u.ID,
		Username:     u.Username,
		Email:        u.Email,
		Avatar:       u.Avatar,
		Bio:          u.Bio,
		Role:         u.Role,
		ArticleCount: u.ArticleCount,
		CreatedAt:    u.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}

package middleware

import (
	"errors"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/qingnian/blog-api/internal/config"
	"github.com/qingnian/blog-api/internal/logger"
	"github.com/qingnian/blog-api/pkg/auth"
	"github.com/qingnian/blog-api/pkg/response"
)

// JWTAuth JWT认证中间件
func JWTAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := parseBearerToken(c, auth.AccessToken)
		if !ok {
			return
		}

		// 令牌临近过期时提示客户端刷新
		bufferTime := time.Duration(config.GlobalConfig.JWT.BufferSeconds) * time.Second
		if time.Until(time.Unix(claims.ExpiresAt, 0)) < bufferTime {
			c.Header("X-Token-Expire-Soon", "true")
		}

		c.Set("userID", claims.UserID)
		c.Set("userRole", claims.Role)
		c.Next()
	}
}

// RefreshAuth 刷新令牌认证中间件
func RefreshAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := parseBearerToken(c, auth.RefreshToken)
		if !ok {
			return
		}

		c.Set("userID", claims.UserID)
		c.Set("userRole", claims.Role)
		c.Next()
	}
}

// AdminAuth 管理员认证中间件
func AdminAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		JWTAuth()(c)
		if c.IsAborted() {
			return
		}

		role, exists := c.Get("userRole")
		if !exists {
			response.Unauthorized(c, "未授权", nil)
			c.Abort()
			return
		}

		if role != "admin" {
			response.Forbidden(c, "需要管理员权限", nil)
			c.Abort()
			return
		}

		c.Next()
	}
}

// OptionalAuth 可选的JWT认证中间件
// 不会阻止未认证的用户访问，但提供了有效令牌时会设置用户信息到上下文
func OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.Next()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if !(len(parts) == 2 && parts[0] == "Bearer") {
			c.Next()
			return
		}

		claims, err := auth.ParseToken(parts[1])
		if err != nil || claims.Type != auth.AccessToken {
			c.Next()
			return
		}

		c.Set("userID", claims.UserID)
		c.Set("userRole", claims.Role)
		c.Next()
	}
}

// parseBearerToken 解析Authorization头并校验令牌类型，失败时已写入响应
func parseBearerToken(c *gin.Context, tokenType auth.TokenType) (*auth.Claims, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		response.Unauthorized(c, "请先登录", nil)
		c.Abort()
		return nil, false
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if !(len(parts) == 2 && parts[0] == "Bearer") {
		response.Unauthorized(c, "Authorization格式错误", nil)
		c.Abort()
		return nil, false
	}

	claims, err := auth.ParseToken(parts[1])
	if err != nil {
		logger.Warnf("无效的令牌: %v", err)
		response.Unauthorized(c, "无效的令牌", err)
		c.Abort()
		return nil, false
	}

	if claims.Type != tokenType {
		logger.Warnf("使用了错误类型的令牌: %v", claims.Type)
		response.Unauthorized(c, "使用了错误类型的令牌", errors.New("令牌类型不匹配"))
		c.Abort()
		return nil, false
	}

	c.Set("token", parts[1])
	return claims, true
}

// GetUserID 从上下文中获取用户ID
func GetUserID(c *gin.Context) (uint, bool) {
	userID, exists := c.Get("userID")
	if !exists {
		return 0, false
	}
	return userID.(uint), true
}

// GetUserRole 从上下文中获取用户角色
func GetUserRole(c *gin.Context) (string, bool) {
	userRole, exists := c.Get("userRole")
	if !exists {
		return "", false
	}
	return userRole.(string), true
}

// GetToken 从上下文中获取原始令牌
func GetToken(c *gin.Context) (string, bool) {
	token, exists := c.Get("token")
	if !exists {
		return "", false
	}
	return token.(string), true
}

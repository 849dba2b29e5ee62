package controller

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/qingnian/blog-api/internal/middleware"
	"github.com/qingnian/blog-api/pkg/apperr"
	"github.com/qingnian/blog-api/pkg/response"
	"github.com/qingnian/blog-api/pkg/validate"
)

// getUserIDFromContext 从上下文中获取用户ID
func getUserIDFromContext(c *gin.Context) (uint, error) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		return 0, apperr.Unauthenticated("用户未登录")
	}
	return userID, nil
}

// getUserRoleFromContext 从上下文中获取用户角色，未登录时为空
func getUserRoleFromContext(c *gin.Context) string {
	role, _ := middleware.GetUserRole(c)
	return role
}

// parseIDParam 解析路径中的资源ID
func parseIDParam(c *gin.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, apperr.Validation("无效的ID")
	}
	return uint(id), nil
}

// bindError 绑定失败时返回400并给出中文提示
func bindError(c *gin.Context, err error) {
	response.BadRequest(c, validate.FormatError(err), err)
}

package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/qingnian/blog-api/pkg/apperr"
)

// Response 统一响应结构
type Response struct {
	Code    int    `json:"code"`              // 状态码
	Message string `json:"message"`           // 响应消息
	Data    any    `json:"data"`              // 响应数据
	Warning string `json:"warning,omitempty"` // 次要写入失败时的告警，主结果仍然成功
	Meta    any    `json:"meta,omitempty"`    // 元数据，如分页信息
}

// PageMeta 分页元数据
type PageMeta struct {
	Page       int   `json:"page"`        // 当前页码
	Size       int   `json:"size"`        // 每页大小
	Total      int64 `json:"total"`       // 总记录数
	TotalPages int   `json:"total_pages"` // 总页数
}

// Success 返回成功响应
func Success(c *gin.Context, message string, data any) {
	c.JSON(http.StatusOK, Response{
		Code:    0,
		Message: message,
		Data:    data,
	})
}

// SuccessWithWarning 返回带告警的成功响应
// 权威写入已提交、冗余写入失败时使用，告警随成功结果一并返回
func SuccessWithWarning(c *gin.Context, message string, data any, warning string) {
	c.JSON(http.StatusOK, Response{
		Code:    0,
		Message: message,
		Data:    data,
		Warning: warning,
	})
}

// SuccessPage 返回分页成功响应
func SuccessPage(c *gin.Context, message string, data any, page, size int, total int64, totalPages int) {
	c.JSON(http.StatusOK, Response{
		Code:    0,
		Message: message,
		Data:    data,
		Meta: PageMeta{
			Page:       page,
			Size:       size,
			Total:      total,
			TotalPages: totalPages,
		},
	})
}

// Error 错误响应
func Error(c *gin.Context, code int, message string, err error) {
	// 记录详细错误信息，但不向客户端暴露
	if err != nil {
		c.Error(err)
	}

	c.JSON(code, Response{
		Code:    code,
		Message: message,
		Data:    nil,
	})
}

// BadRequest 400错误响应
func BadRequest(c *gin.Context, message string, err error) {
	Error(c, http.StatusBadRequest, message, err)
}

// Unauthorized 401错误响应
func Unauthorized(c *gin.Context, message string, err error) {
	Error(c, http.StatusUnauthorized, message, err)
}

// Forbidden 403错误响应
func Forbidden(c *gin.Context, message string, err error) {
	Error(c, http.StatusForbidden, message, err)
}

// NotFound 404错误响应
func NotFound(c *gin.Context, message string, err error) {
	Error(c, http.StatusNotFound, message, err)
}

// Conflict 409错误响应
func Conflict(c *gin.Context, message string, err error) {
	Error(c, http.StatusConflict, message, err)
}

// InternalServerError 500错误响应
func InternalServerError(c *gin.Context, message string, err error) {
	Error(c, http.StatusInternalServerError, message, err)
}

// FromError 按业务错误类别返回对应的HTTP状态码
func FromError(c *gin.Context, err error) {
	message := apperr.MessageOf(err)
	switch apperr.KindOf(err) {
	case apperr.KindValidation:
		BadRequest(c, message, err)
	case apperr.KindNotFound:
		NotFound(c, message, err)
	case apperr.KindPermissionDenied:
		Forbidden(c, message, err)
	case apperr.KindConflict:
		Conflict(c, message, err)
	case apperr.KindUnauthenticated:
		Unauthorized(c, message, err)
	default:
		InternalServerError(c, message, err)
	}
}

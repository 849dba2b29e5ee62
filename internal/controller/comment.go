package controller

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/qingnian/blog-api/internal/dto"
	"github.com/qingnian/blog-api/internal/service"
	"github.com/qingnian/blog-api/pkg/apperr"
	"github.com/qingnian/blog-api/pkg/response"
)

// CommentApi 评论接口
type CommentApi struct {
	comments *service.CommentService
}

// NewCommentApi 创建评论接口实例
func NewCommentApi(comments *service.CommentService) *CommentApi {
	return &CommentApi{comments: comments}
}

// List 获取文章评论列表
func (api *CommentApi) List(c *gin.Context) {
	articleID, err := parseIDParam(c, "id")
	if err != nil {
		response.FromError(c, err)
		return
	}

	var req dto.CommentListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindError(c, err)
		return
	}
	req.Normalize()

	result, err := api.comments.List(c.Request.Context(), articleID, &req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.SuccessPage(c, "获取成功", result.List, req.Page, req.Limit, int64(result.Total), result.TotalPages)
}

// Add 发表评论
func (api *CommentApi) Add(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		response.FromError(c, err)
		return
	}

	articleID, err := parseIDParam(c, "id")
	if err != nil {
		response.FromError(c, err)
		return
	}

	var req dto.CommentCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	comment, err := api.comments.Add(c.Request.Context(), articleID, userID, req.Content)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, "评论成功", comment)
}

// Like 点赞评论
func (api *CommentApi) Like(c *gin.Context) {
	articleID, err := parseIDParam(c, "id")
	if err != nil {
		response.FromError(c, err)
		return
	}

	commentID, err := parseCommentID(c)
	if err != nil {
		response.FromError(c, err)
		return
	}

	likes, err := api.comments.Like(c.Request.Context(), articleID, commentID)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, "点赞成功", gin.H{"likes": likes})
}

// Remove 删除评论
func (api *CommentApi) Remove(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		response.FromError(c, err)
		return
	}

	articleID, err := parseIDParam(c, "id")
	if err != nil {
		response.FromError(c, err)
		return
	}

	commentID, err := parseCommentID(c)
	if err != nil {
		response.FromError(c, err)
		return
	}

	if err := api.comments.Remove(c.Request.Context(), articleID, commentID, userID, getUserRoleFromContext(c)); err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, "删除成功", nil)
}

// parseCommentID 解析路径中的评论ID，评论ID是雪花ID
func parseCommentID(c *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("commentId"), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperr.Validation("无效的评论ID")
	}
	return id, nil
}

package dto

import "github.com/qingnian/blog-api/internal/model"

// CommentCreateRequest 发表评论请求
type CommentCreateRequest struct {
	Content string `json:"content" binding:"required,max=500"`
}

// CommentListRequest 评论列表请求
type CommentListRequest struct {
	Page  int `form:"page" binding:"omitempty,min=1"`
	Limit int `form:"limit" binding:"omitempty,min=1,max=100"`
}

// Normalize 填充分页默认值
func (q *CommentListRequest) Normalize() {
	if q.Page <= 0 {
		q.Page = 1
	}
	if q.Limit <= 0 {
		q.Limit = 10
	}
}

// CommentListResponse 评论列表响应
type CommentListResponse struct {
	Total      int             `json:"total"`
	TotalPages int             `json:"total_pages"`
	List       []model.Comment `json:"list"`
}

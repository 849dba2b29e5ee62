package controller

import (
	"github.com/gin-gonic/gin"
	"github.com/qingnian/blog-api/internal/dto"
	"github.com/qingnian/blog-api/internal/service"
	"github.com/qingnian/blog-api/pkg/response"
)

// ArticleApi 文章接口
type ArticleApi struct {
	articles  *service.ArticleService
	favorites *service.FavoriteService
}

// NewArticleApi 创建文章接口实例
func NewArticleApi(articles *service.ArticleService, favorites *service.FavoriteService) *ArticleApi {
	return &ArticleApi{
		articles:  articles,
		favorites: favorites,
	}
}

// Create 创建文章
func (api *ArticleApi) Create(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		response.FromError(c, err)
		return
	}

	var req dto.ArticleCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	article, warning, err := api.articles.Create(c.Request.Context(), userID, &req)
	if err != nil {
		response.FromError(c, err)
		return
	}

	data := dto.FromArticle(article, true)
	if warning != "" {
		response.SuccessWithWarning(c, "创建成功", data, warning)
		return
	}
	response.Success(c, "创建成功", data)
}

// Get 获取文章详情
func (api *ArticleApi) Get(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		response.FromError(c, err)
		return
	}

	viewerID, _ := getUserIDFromContext(c)
	role := getUserRoleFromContext(c)

	article, isAuthor, err := api.articles.Get(c.Request.Context(), id, viewerID, role)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, "获取成功", dto.FromArticle(article, isAuthor))
}

// List 获取已发布文章列表
func (api *ArticleApi) List(c *gin.Context) {
	var req dto.ArticleQueryRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindError(c, err)
		return
	}

	result, err := api.articles.List(c.Request.Context(), &req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.SuccessPage(c, "获取成功", result.List, req.Page, req.Limit, result.Total, result.TotalPages)
}

// ListDrafts 获取当前用户的草稿列表
func (api *ArticleApi) ListDrafts(c *gin.Context) {
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

	result, err := api.articles.ListDrafts(c.Request.Context(), userID, req.Page, req.Limit)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.SuccessPage(c, "获取成功", result.List, req.Page, req.Limit, result.Total, result.TotalPages)
}

// Update 更新文章
func (api *ArticleApi) Update(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		response.FromError(c, err)
		return
	}

	id, err := parseIDParam(c, "id")
	if err != nil {
		response.FromError(c, err)
		return
	}

	var req dto.ArticleUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	article, warning, err := api.articles.Update(c.Request.Context(), userID, getUserRoleFromContext(c), id, &req)
	if err != nil {
		response.FromError(c, err)
		return
	}

	data := dto.FromArticle(article, true)
	if warning != "" {
		response.SuccessWithWarning(c, "更新成功", data, warning)
		return
	}
	response.Success(c, "更新成功", data)
}

// Delete 删除文章
func (api *ArticleApi) Delete(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		response.FromError(c, err)
		return
	}

	id, err := parseIDParam(c, "id")
	if err != nil {
		response.FromError(c, err)
		return
	}

	warning, err := api.articles.Delete(c.Request.Context(), userID, getUserRoleFromContext(c), id)
	if err != nil {
		response.FromError(c, err)
		return
	}

	if warning != "" {
		response.SuccessWithWarning(c, "删除成功", nil, warning)
		return
	}
	response.Success(c, "删除成功", nil)
}

// Like 点赞文章
func (api *ArticleApi) Like(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		response.FromError(c, err)
		return
	}

	count, err := api.articles.Like(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, "点赞成功", gin.H{"like_count": count})
}

// Favorite 收藏文章
func (api *ArticleApi) Favorite(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		response.FromError(c, err)
		return
	}

	id, err := parseIDParam(c, "id")
	if err != nil {
		response.FromError(c, err)
		return
	}

	warning, err := api.favorites.Favorite(c.Request.Context(), userID, id)
	if err != nil {
		response.FromError(c, err)
		return
	}

	if warning != "" {
		response.SuccessWithWarning(c, "收藏成功", nil, warning)
		return
	}
	response.Success(c, "收藏成功", nil)
}

// Unfavorite 取消收藏
func (api *ArticleApi) Unfavorite(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		response.FromError(c, err)
		return
	}

	id, err := parseIDParam(c, "id")
	if err != nil {
		response.FromError(c, err)
		return
	}

	warning, err := api.favorites.Unfavorite(c.Request.Context(), userID, id)
	if err != nil {
		response.FromError(c, err)
		return
	}

	if warning != "" {
		response.SuccessWithWarning(c, "取消收藏成功", nil, warning)
		return
	}
	response.Success(c, "取消收藏成功", nil)
}

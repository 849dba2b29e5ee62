package dto

import "github.com/qingnian/blog-api/internal/model"

// ArticleCreateRequest 创建文章请求
type ArticleCreateRequest struct {
	Title    string   `json:"title" binding:"required,min=2,max=100"`
	Content  string   `json:"content" binding:"required,min=10"`
	Summary  string   `json:"summary" binding:"required,max=200"`
	Category string   `json:"category" binding:"required"`
	Tags     []string `json:"tags"`
	Status   string   `json:"status" binding:"omitempty,oneof=draft pending published rejected"`
	Cover    string   `json:"cover"`
}

// ArticleUpdateRequest 更新文章请求，空字段表示不修改
type ArticleUpdateRequest struct {
	Title    string   `json:"title" binding:"omitempty,min=2,max=100"`
	Content  string   `json:"content" binding:"omitempty,min=10"`
	Summary  string   `json:"summary" binding:"omitempty,max=200"`
	Category string   `json:"category"`
	Tags     []string `json:"tags"`
	Status   string   `json:"status" binding:"omitempty,oneof=draft pending published rejected"`
	Cover    string   `json:"cover"`
}

// ArticleQueryRequest 文章列表查询请求
type ArticleQueryRequest struct {
	Page     int    `form:"page" binding:"omitempty,min=1"`
	Limit    int    `form:"limit" binding:"omitempty,min=1,max=100"`
	Category string `form:"category"`
	Tag      string `form:"tag"`
	Status   string `form:"status" binding:"omitempty,oneof=draft pending published rejected"`
}

// Normalize 填充分页默认值
func (q *ArticleQueryRequest) Normalize() {
	if q.Page <= 0 {
		q.Page = 1
	}
	if q.Limit <= 0 {
		q.Limit = 10
	}
}

// ArticleResponse 文章详情响应
type ArticleResponse struct {
	ID           uint     `json:"id"`
	Title        string   `json:"title"`
	Content      string   `json:"content"`
	Summary      string   `json:"summary"`
	Category     string   `json:"category"`
	Tags         []string `json:"tags"`
	Status       string   `json:"status"`
	Cover        string   `json:"cover"`
	AuthorID     uint     `json:"author_id"`
	AuthorName   string   `json:"author_name"`
	AuthorAvatar string   `json:"author_avatar"`
	ViewCount    int      `json:"view_count"`
	LikeCount    int      `json:"like_count"`
	CollectCount int      `json:"collect_count"`
	CommentCount int      `json:"comment_count"`
	CreatedAt    string   `json:"created_at"`
	UpdatedAt    string   `json:"updated_at"`
	PublishedAt  string   `json:"published_at,omitempty"`
	IsAuthor     bool     `json:"is_author"`
}

// ArticleListItem 文章列表项（不含正文和评论）
type ArticleListItem struct {
	ID           uint     `json:"id"`
	Title        string   `json:"title"`
	Summary      string   `json:"summary"`
	Category     string   `json:"category"`
	Tags         []string `json:"tags"`
	Status       string   `json:"status"`
	Cover        string   `json:"cover"`
	AuthorID     uint     `json:"author_id"`
	AuthorName   string   `json:"author_name"`
	AuthorAvatar string   `json:"author_avatar"`
	ViewCount    int      `json:"view_count"`
	LikeCount    int      `json:"like_count"`
	CollectCount int      `json:"collect_count"`
	CommentCount int      `json:"comment_count"`
	CreatedAt    string   `json:"created_at"`
	PublishedAt  string   `json:"published_at,omitempty"`
}

// ArticleListResponse 文章列表响应
type ArticleListResponse struct {
	Total      int64             `json:"total"`
	TotalPages int               `json:"total_pages"`
	List       []ArticleListItem `json:"list"`
}

// FromArticle 将文章文档转换为详情响应
func FromArticle(a *model.Article, isAuthor bool) *ArticleResponse {
	resp := &ArticleResponse{
		ID:           a.ID,
		Title:        a.Title,
		Content:      a.Content,
		Summary:      a.Summary,
		Category:     a.Category,
		Tags:         []string(a.Tags),
		Status:       a.Status,
		Cover:        a.Cover,
		AuthorID:     a.AuthorID,
		AuthorName:   a.AuthorName,
		AuthorAvatar: a.AuthorAvatar,
		ViewCount:    a.ViewCount,
		LikeCount:    a.LikeCount,
		CollectCount: a.CollectCount,
		CommentCount: a.CommentCount,
		CreatedAt:    a.CreatedAt.Format("2006-01-02 15:04:05"),
		UpdatedAt:    a.UpdatedAt.Format("2006-01-02 15:04:05"),
		IsAuthor:     isAuthor,
	}
	if a.PublishedAt != nil {
		resp.PublishedAt = a.PublishedAt.Format("2006-01-02 15:04:05")
	}
	return resp
}

// ToListItem 将文章文档转换为列表项
func ToListItem(a *model.Article) ArticleListItem {
	item := ArticleListItem{
		ID:           a.ID,
		Title:        a.Title,
		Summary:      a.Summary,
		Category:     a.Category,
		Tags:         []string(a.Tags),
		Status:       a.Status,
		Cover:        a.Cover,
		AuthorID:     a.AuthorID,
		AuthorName:   a.AuthorName,
		AuthorAvatar: a.AuthorAvatar,
		ViewCount:    a.ViewCount,
		LikeCount:    a.LikeCount,
		CollectCount: a.CollectCount,
		CommentCount: a.CommentCount,
		CreatedAt:    a.CreatedAt.Format("2006-01-02 15:04:05"),
	}
	if a.PublishedAt != nil {
		item.PublishedAt = a.PublishedAt.Format("2006-01-02 15:04:05")
	}
	return item
}

// ToListItems 批量转换为列表项
func ToListItems(articles []model.Article) []ArticleListItem {
	items := make([]ArticleListItem, 0, len(articles))
	for i := range articles {
		items = append(items, ToListItem(&articles[i]))
	}
	return items
}

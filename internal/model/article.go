package model

import (
	"time"
)

// 文章状态
const (
	StatusDraft     = "draft"
	StatusPending   = "pending"
	StatusPublished = "published"
	StatusRejected  = "rejected"
)

// DefaultCover 默认封面
const DefaultCover = "default-cover.jpg"

// Categories 文章分类枚举
var Categories = []string{
	"心理", "情感", "生活", "职场", "知识分享",
	"迷茫求助", "沪上青年", "活动", "技术", "其他",
}

// ValidCategory 校验分类是否合法
func ValidCategory(category string) bool {
	for _, c := range Categories {
		if c == category {
			return true
		}
	}
	return false
}

// ValidStatus 校验状态是否合法
func ValidStatus(status string) bool {
	switch status {
	case StatusDraft, StatusPending, StatusPublished, StatusRejected:
		return true
	}
	return false
}

// Article 文章文档
// 评论和标签作为文档内嵌数组存储在JSON列中，作者信息在创建时冻结为快照列
type Article struct {
	Base
	Title        string      `gorm:"size:100;not null" json:"title"`
	Content      string      `gorm:"type:longtext;not null" json:"content"`
	Summary      string      `gorm:"size:200;not null" json:"summary"`
	Category     string      `gorm:"size:20;not null;index" json:"category"`
	Tags         StringList  `gorm:"type:json" json:"tags"`
	Status       string      `gorm:"size:20;not null;default:published;index" json:"status"`
	Cover        string      `gorm:"size:255;not null;default:default-cover.jpg" json:"cover"`
	AuthorID     uint        `gorm:"not null;index" json:"author_id"`
	AuthorName   string      `gorm:"size:20;not null" json:"author_name"`
	AuthorAvatar string      `gorm:"size:255" json:"author_avatar"`
	ViewCount    int         `gorm:"not null;default:0" json:"view_count"`
	LikeCount    int         `gorm:"not null;default:0" json:"like_count"`
	CollectCount int         `gorm:"not null;default:0" json:"collect_count"`
	CommentCount int         `gorm:"not null;default:0" json:"comment_count"`
	Comments     CommentList `gorm:"type:json" json:"comments"`
	PublishedAt  *time.Time  `json:"published_at"`
}

// TableName 指定表名
func (Article) TableName() string {
	return "article"
}

// IsPublished 文章是否已发布
func (a *Article) IsPublished() bool {
	return a.Status == StatusPublished
}

// Ref 生成用户侧文章投影条目
func (a *Article) Ref() ArticleRef {
	return ArticleRef{
		ArticleID: a.ID,
		Title:     a.Title,
		Cover:     a.Cover,
		Status:    a.Status,
		UpdatedAt: a.UpdatedAt,
	}
}

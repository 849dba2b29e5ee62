package model

import "time"

// 用户角色
const (
	RoleUser    = "user"
	RoleCreator = "creator"
	RoleAdmin   = "admin"
)

// DefaultAvatar 默认头像
const DefaultAvatar = "default-avatar.png"

// User 用户文档
// articles为作者文章的冗余投影，favorites为收藏的文章ID列表，
// article_count为已发布文章数的派生统计，以文章表为准可随时重建
type User struct {
	Base
	Username     string          `gorm:"size:20;not null;uniqueIndex" json:"username"`
	Email        string          `gorm:"size:100;not null;uniqueIndex" json:"email"`
	Password     string          `gorm:"size:100;not null" json:"-"`
	Avatar       string          `gorm:"size:255;not null;default:default-avatar.png" json:"avatar"`
	Bio          string          `gorm:"size:200" json:"bio"`
	Role         string          `gorm:"size:20;not null;default:user" json:"role"`
	Articles     ArticleRefList  `gorm:"type:json" json:"articles"`
	Favorites    FavoriteRefList `gorm:"type:json" json:"favorites"`
	ArticleCount int             `gorm:"not null;default:0" json:"article_count"`
}

// TableName 指定表名
func (User) TableName() string {
	return "user"
}

// ArticleRef 用户侧的文章投影条目
type ArticleRef struct {
	ArticleID uint      `json:"article_id"`
	Title     string    `json:"title"`
	Cover     string    `json:"cover"`
	Status    string    `json:"status"`
	UpdatedAt time.Time `json:"updated_at"`
}

// FavoriteRef 收藏条目，收藏时间在写入时冻结
type FavoriteRef struct {
	ArticleID uint      `json:"article_id"`
	CreatedAt time.Time `json:"created_at"`
}

// HasFavorite 收藏列表中是否已存在该文章
func (u *User) HasFavorite(articleID uint) bool {
	for _, f := range u.Favorites {
		if f.ArticleID == articleID {
			return true
		}
	}
	return false
}

// Snapshot 作者快照，创建文章时冻结写入文章文档
type Snapshot struct {
	UserID   uint   `json:"user_id"`
	Username string `json:"username"`
	Avatar   string `json:"avatar"`
}

// Snapshot 生成当前用户的作者快照
func (u *User) Snapshot() Snapshot {
	return Snapshot{
		UserID:   u.ID,
		Username: u.Username,
		Avatar:   u.Avatar,
	}
}

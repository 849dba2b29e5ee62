package model

import "time"

// MaxCommentLength 评论内容最大长度
const MaxCommentLength = 500

// Comment 内嵌在文章文档中的评论
// ID为雪花ID，在父文章内唯一；用户信息在发表时冻结为快照
type Comment struct {
	ID        int64     `json:"id,string"`
	Content   string    `json:"content"`
	UserID    uint      `json:"user_id"`
	Username  string    `json:"username"`
	Avatar    string    `json:"avatar"`
	Likes     int       `json:"likes"`
	CreatedAt time.Time `json:"created_at"`
}

package store

import (
	"context"
	"errors"

	"github.com/qingnian/blog-api/internal/model"
)

// ErrNotFound 记录不存在
var ErrNotFound = errors.New("记录不存在")

// 文章计数器列名
const (
	StatView    = "view_count"
	StatLike    = "like_count"
	StatCollect = "collect_count"
)

// ArticleQuery 文章列表查询条件
type ArticleQuery struct {
	Page     int
	Limit    int
	Category string
	Tag      string
	Status   string
	AuthorID uint
}

// EntityStore 两个文档集合（user、article）的统一存取接口
// 每个方法只落在单个集合上，跨集合一致性由上层的Synchronizer负责，
// 接口本身不提供任何跨文档事务保证
type EntityStore interface {
	// 用户文档
	CreateUser(ctx context.Context, u *model.User) error
	GetUser(ctx context.Context, id uint) (*model.User, error)
	GetUserByUsername(ctx context.Context, username string) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	UpdateUser(ctx context.Context, id uint, fields map[string]any) error
	ListUserIDs(ctx context.Context) ([]uint, error)

	// 用户侧文章投影（articles数组）与派生统计
	UpsertArticleRef(ctx context.Context, userID uint, ref model.ArticleRef) error
	PullArticleRef(ctx context.Context, userID, articleID uint) error
	SetArticleRefs(ctx context.Context, userID uint, refs model.ArticleRefList) error
	SetArticleCount(ctx context.Context, userID uint, count int) error

	// 用户侧收藏列表（favorites数组），收藏关系以此为准
	PushFavorite(ctx context.Context, userID, articleID uint) error
	PullFavorite(ctx context.Context, userID, articleID uint) error
	PullFavoriteFromAll(ctx context.Context, articleID uint) error
	SetFavorites(ctx context.Context, userID uint, favorites model.FavoriteRefList) error

	// 文章文档
	CreateArticle(ctx context.Context, a *model.Article) error
	GetArticle(ctx context.Context, id uint) (*model.Article, error)
	GetArticlesByIDs(ctx context.Context, ids []uint) ([]model.Article, error)
	UpdateArticle(ctx context.Context, id uint, fields map[string]any) error
	DeleteArticle(ctx context.Context, id uint) error
	ListArticles(ctx context.Context, q ArticleQuery) ([]model.Article, int64, error)
	ListArticlesByAuthor(ctx context.Context, authorID uint) ([]model.Article, error)

	// 文章计数器，单行原子更新；delta为负时带不低于0的下界保护
	IncArticleStat(ctx context.Context, id uint, column string, delta int) (int, error)
	SetArticleStat(ctx context.Context, id uint, column string, value int) error

	// ReplaceComments 整体替换评论数组，并在同一次写入中维护comment_count
	ReplaceComments(ctx context.Context, id uint, comments model.CommentList) error

	// UpdateAuthorSnapshot 刷新某作者全部文章上的冻结快照
	UpdateAuthorSnapshot(ctx context.Context, authorID uint, username, avatar string) error
}

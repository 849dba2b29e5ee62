package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/qingnian/blog-api/internal/model"
	"gorm.io/gorm"
)

// gormStore 基于MySQL/GORM的EntityStore实现
// 内嵌数组（评论、标签、投影、收藏）落在JSON列上，数组的增删是
// 读出整列、改后写回，同一文档的并发写入遵循后写覆盖
type gormStore struct {
	db *gorm.DB
}

// NewGormStore 创建MySQL存储
func NewGormStore(db *gorm.DB) EntityStore {
	return &gormStore{db: db}
}

func wrapNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

// CreateUser 创建用户
func (s *gormStore) CreateUser(ctx context.Context, u *model.User) error {
	return s.db.WithContext(ctx).Create(u).Error
}

// GetUser 按ID获取用户
func (s *gormStore) GetUser(ctx context.Context, id uint) (*model.User, error) {
	var user model.User
	if err := s.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, wrapNotFound(err)
	}
	return &user, nil
}

// GetUserByUsername 按用户名获取用户
func (s *gormStore) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	var user model.User
	if err := s.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		return nil, wrapNotFound(err)
	}
	return &user, nil
}

// GetUserByEmail 按邮箱获取用户
func (s *gormStore) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, wrapNotFound(err)
	}
	return &user, nil
}

// UpdateUser 更新用户标量字段
func (s *gormStore) UpdateUser(ctx context.Context, id uint, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}
	return s.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", id).Updates(fields).Error
}

// ListUserIDs 列出全部用户ID
func (s *gormStore) ListUserIDs(ctx context.Context) ([]uint, error) {
	var ids []uint
	if err := s.db.WithContext(ctx).Model(&model.User{}).Order("id").Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

// UpsertArticleRef 按articleId更新或追加投影条目
func (s *gormStore) UpsertArticleRef(ctx context.Context, userID uint, ref model.ArticleRef) error {
	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return err
	}
	refs := user.Articles
	found := false
	for i := range refs {
		if refs[i].ArticleID == ref.ArticleID {
			refs[i] = ref
			found = true
			break
		}
	}
	if !found {
		refs = append(refs, ref)
	}
	return s.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", userID).
		UpdateColumn("articles", refs).Error
}

// PullArticleRef 从投影中移除指定文章
func (s *gormStore) PullArticleRef(ctx context.Context, userID, articleID uint) error {
	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return err
	}
	refs := make(model.ArticleRefList, 0, len(user.Articles))
	for _, r := range user.Articles {
		if r.ArticleID != articleID {
			refs = append(refs, r)
		}
	}
	return s.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", userID).
		UpdateColumn("articles", refs).Error
}

// SetArticleRefs 整体重建投影
func (s *gormStore) SetArticleRefs(ctx context.Context, userID uint, refs model.ArticleRefList) error {
	return s.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", userID).
		UpdateColumn("articles", refs).Error
}

// SetArticleCount 设置用户的已发布文章数统计
func (s *gormStore) SetArticleCount(ctx context.Context, userID uint, count int) error {
	if count < 0 {
		count = 0
	}
	return s.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", userID).
		UpdateColumn("article_count", count).Error
}

// PushFavorite 向收藏列表追加条目，收藏时间在此处冻结
func (s *gormStore) PushFavorite(ctx context.Context, userID, articleID uint) error {
	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return err
	}
	if user.HasFavorite(articleID) {
		return nil
	}
	favorites := append(user.Favorites, model.FavoriteRef{
		ArticleID: articleID,
		CreatedAt: time.Now(),
	})
	return s.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", userID).
		UpdateColumn("favorites", favorites).Error
}

// PullFavorite 从收藏列表移除指定文章的条目
func (s *gormStore) PullFavorite(ctx context.Context, userID, articleID uint) error {
	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return err
	}
	favorites := make(model.FavoriteRefList, 0, len(user.Favorites))
	for _, f := range user.Favorites {
		if f.ArticleID != articleID {
			favorites = append(favorites, f)
		}
	}
	return s.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", userID).
		UpdateColumn("favorites", favorites).Error
}

// PullFavoriteFromAll 从所有用户的收藏列表中移除该文章（删除文章级联）
func (s *gormStore) PullFavoriteFromAll(ctx context.Context, articleID uint) error {
	// 只扫描收藏了该文章的用户，逐个改写
	var users []model.User
	if err := s.db.WithContext(ctx).
		Where("JSON_CONTAINS(favorites, JSON_OBJECT('article_id', ?))", articleID).
		Find(&users).Error; err != nil {
		return err
	}
	for i := range users {
		if err := s.PullFavorite(ctx, users[i].ID, articleID); err != nil {
			return err
		}
	}
	return nil
}

// SetFavorites 整体重建收藏列表
func (s *gormStore) SetFavorites(ctx context.Context, userID uint, favorites model.FavoriteRefList) error {
	return s.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", userID).
		UpdateColumn("favorites", favorites).Error
}

// CreateArticle 创建文章
func (s *gormStore) CreateArticle(ctx context.Context, a *model.Article) error {
	return s.db.WithContext(ctx).Create(a).Error
}

// GetArticle 按ID获取文章
func (s *gormStore) GetArticle(ctx context.Context, id uint) (*model.Article, error) {
	var article model.Article
	if err := s.db.WithContext(ctx).First(&article, id).Error; err != nil {
		return nil, wrapNotFound(err)
	}
	return &article, nil
}

// GetArticlesByIDs 批量获取文章，缺失的ID直接跳过
func (s *gormStore) GetArticlesByIDs(ctx context.Context, ids []uint) ([]model.Article, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var articles []model.Article
	if err := s.db.WithContext(ctx).Where("id IN ?", ids).Find(&articles).Error; err != nil {
		return nil, err
	}
	return articles, nil
}

// UpdateArticle 更新文章字段
func (s *gormStore) UpdateArticle(ctx context.Context, id uint, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}
	return s.db.WithContext(ctx).Model(&model.Article{}).Where("id = ?", id).Updates(fields).Error
}

// DeleteArticle 删除文章
func (s *gormStore) DeleteArticle(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Delete(&model.Article{}, id).Error
}

// ListArticles 按条件分页查询文章
func (s *gormStore) ListArticles(ctx context.Context, q ArticleQuery) ([]model.Article, int64, error) {
	query := s.db.WithContext(ctx).Model(&model.Article{})

	if q.Status != "" {
		query = query.Where("status = ?", q.Status)
	}
	if q.Category != "" {
		query = query.Where("category = ?", q.Category)
	}
	if q.Tag != "" {
		query = query.Where("JSON_CONTAINS(tags, JSON_QUOTE(?))", q.Tag)
	}
	if q.AuthorID > 0 {
		query = query.Where("author_id = ?", q.AuthorID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var articles []model.Article
	offset := (q.Page - 1) * q.Limit
	if err := query.Order("created_at DESC").Offset(offset).Limit(q.Limit).
		Find(&articles).Error; err != nil {
		return nil, 0, err
	}
	return articles, total, nil
}

// ListArticlesByAuthor 列出作者全部文章
func (s *gormStore) ListArticlesByAuthor(ctx context.Context, authorID uint) ([]model.Article, error) {
	var articles []model.Article
	if err := s.db.WithContext(ctx).Where("author_id = ?", authorID).
		Order("created_at DESC").Find(&articles).Error; err != nil {
		return nil, err
	}
	return articles, nil
}

// IncArticleStat 单行原子更新计数器并返回新值
func (s *gormStore) IncArticleStat(ctx context.Context, id uint, column string, delta int) (int, error) {
	query := s.db.WithContext(ctx).Model(&model.Article{}).Where("id = ?", id)
	if delta < 0 {
		// 下界保护，计数器不会减到负数
		query = query.Where(fmt.Sprintf("%s >= ?", column), -delta)
	}
	result := query.UpdateColumn(column, gorm.Expr(fmt.Sprintf("%s + ?", column), delta))
	if result.Error != nil {
		return 0, result.Error
	}

	// 下界保护会让UPDATE匹配零行，回读区分行不存在和减到下界
	var value int
	read := s.db.WithContext(ctx).Model(&model.Article{}).Where("id = ?", id).
		Select(column).Scan(&value)
	if read.Error != nil {
		return 0, read.Error
	}
	if read.RowsAffected == 0 {
		return 0, ErrNotFound
	}
	return value, nil
}

// SetArticleStat 直接设置计数器（对账用）
func (s *gormStore) SetArticleStat(ctx context.Context, id uint, column string, value int) error {
	if value < 0 {
		value = 0
	}
	return s.db.WithContext(ctx).Model(&model.Article{}).Where("id = ?", id).
		UpdateColumn(column, value).Error
}

// ReplaceComments 整体替换评论数组，comment_count在同一条UPDATE中同步
func (s *gormStore) ReplaceComments(ctx context.Context, id uint, comments model.CommentList) error {
	result := s.db.WithContext(ctx).Model(&model.Article{}).Where("id = ?", id).
		UpdateColumns(map[string]any{
			"comments":      comments,
			"comment_count": len(comments),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateAuthorSnapshot 刷新作者全部文章上的冻结快照
func (s *gormStore) UpdateAuthorSnapshot(ctx context.Context, authorID uint, username, avatar string) error {
	return s.db.WithContext(ctx).Model(&model.Article{}).Where("author_id = ?", authorID).
		UpdateColumns(map[string]any{
			"author_name":   username,
			"author_avatar": avatar,
		}).Error
}

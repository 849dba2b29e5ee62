package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/qingnian/blog-api/internal/model"
)

// memoryStore 内存版EntityStore，用于单元测试和本地工具
// 语义与gormStore对齐：每个方法只触碰单个文档，无跨文档原子性
type memoryStore struct {
	mu        sync.RWMutex
	users     map[uint]*model.User
	articles  map[uint]*model.Article
	userSeq   uint
	articleID uint
}

// NewMemoryStore 创建内存存储
func NewMemoryStore() EntityStore {
	return &memoryStore{
		users:    make(map[uint]*model.User),
		articles: make(map[uint]*model.Article),
	}
}

func copyUser(u *model.User) *model.User {
	c := *u
	c.Articles = append(model.ArticleRefList{}, u.Articles...)
	c.Favorites = append(model.FavoriteRefList{}, u.Favorites...)
	return &c
}

func copyArticle(a *model.Article) *model.Article {
	c := *a
	c.Tags = append(model.StringList{}, a.Tags...)
	c.Comments = append(model.CommentList{}, a.Comments...)
	return &c
}

// CreateUser 创建用户
func (s *memoryStore) CreateUser(ctx context.Context, u *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.userSeq++
	u.ID = s.userSeq
	now := time.Now()
	u.CreatedAt = now
	u.UpdatedAt = now
	s.users[u.ID] = copyUser(u)
	return nil
}

// GetUser 按ID获取用户
func (s *memoryStore) GetUser(ctx context.Context, id uint) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return copyUser(u), nil
}

// GetUserByUsername 按用户名获取用户
func (s *memoryStore) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.Username == username {
			return copyUser(u), nil
		}
	}
	return nil, ErrNotFound
}

// GetUserByEmail 按邮箱获取用户
func (s *memoryStore) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.Email == email {
			return copyUser(u), nil
		}
	}
	return nil, ErrNotFound
}

// UpdateUser 更新用户标量字段
func (s *memoryStore) UpdateUser(ctx context.Context, id uint, fields map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return ErrNotFound
	}
	for k, v := range fields {
		switch k {
		case "username":
			u.Username = v.(string)
		case "email":
			u.Email = v.(string)
		case "password":
			u.Password = v.(string)
		case "avatar":
			u.Avatar = v.(string)
		case "bio":
			u.Bio = v.(string)
		case "role":
			u.Role = v.(string)
		}
	}
	u.UpdatedAt = time.Now()
	return nil
}

// ListUserIDs 列出全部用户ID
func (s *memoryStore) ListUserIDs(ctx context.Context) ([]uint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]uint, 0, len(s.users))
	for id := range s.users {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

// UpsertArticleRef 按articleId更新或追加投影条目
func (s *memoryStore) UpsertArticleRef(ctx context.Context, userID uint, ref model.ArticleRef) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[userID]
	if !ok {
		return ErrNotFound
	}
	for i := range u.Articles {
		if u.Articles[i].ArticleID == ref.ArticleID {
			u.Articles[i] = ref
			return nil
		}
	}
	u.Articles = append(u.Articles, ref)
	return nil
}

// PullArticleRef 从投影中移除指定文章
func (s *memoryStore) PullArticleRef(ctx context.Context, userID, articleID uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[userID]
	if !ok {
		return ErrNotFound
	}
	refs := make(model.ArticleRefList, 0, len(u.Articles))
	for _, r := range u.Articles {
		if r.ArticleID != articleID {
			refs = append(refs, r)
		}
	}
	u.Articles = refs
	return nil
}

// SetArticleRefs 整体重建投影
func (s *memoryStore) SetArticleRefs(ctx context.Context, userID uint, refs model.ArticleRefList) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[userID]
	if !ok {
		return ErrNotFound
	}
	u.Articles = append(model.ArticleRefList{}, refs...)
	return nil
}

// SetArticleCount 设置用户的已发布文章数统计
func (s *memoryStore) SetArticleCount(ctx context.Context, userID uint, count int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[userID]
	if !ok {
		return ErrNotFound
	}
	if count < 0 {
		count = 0
	}
	u.ArticleCount = count
	return nil
}

// PushFavorite 向收藏列表追加条目，收藏时间在此处冻结
func (s *memoryStore) PushFavorite(ctx context.Context, userID, articleID uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[userID]
	if !ok {
		return ErrNotFound
	}
	if u.HasFavorite(articleID) {
		return nil
	}
	u.Favorites = append(u.Favorites, model.FavoriteRef{
		ArticleID: articleID,
		CreatedAt: time.Now(),
	})
	return nil
}

// PullFavorite 从收藏列表移除指定文章的条目
func (s *memoryStore) PullFavorite(ctx context.Context, userID, articleID uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[userID]
	if !ok {
		return ErrNotFound
	}
	favorites := make(model.FavoriteRefList, 0, len(u.Favorites))
	for _, f := range u.Favorites {
		if f.ArticleID != articleID {
			favorites = append(favorites, f)
		}
	}
	u.Favorites = favorites
	return nil
}

// PullFavoriteFromAll 从所有用户的收藏列表中移除该文章
func (s *memoryStore) PullFavoriteFromAll(ctx context.Context, articleID uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		favorites := make(model.FavoriteRefList, 0, len(u.Favorites))
		for _, f := range u.Favorites {
			if f.ArticleID != articleID {
				favorites = append(favorites, f)
			}
		}
		u.Favorites = favorites
	}
	return nil
}

// SetFavorites 整体重建收藏列表
func (s *memoryStore) SetFavorites(ctx context.Context, userID uint, favorites model.FavoriteRefList) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[userID]
	if !ok {
		return ErrNotFound
	}
	u.Favorites = append(model.FavoriteRefList{}, favorites...)
	return nil
}

// CreateArticle 创建文章
func (s *memoryStore) CreateArticle(ctx context.Context, a *model.Article) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.articleID++
	a.ID = s.articleID
	now := time.Now()
	a.CreatedAt = now
	a.UpdatedAt = now
	s.articles[a.ID] = copyArticle(a)
	return nil
}

// GetArticle 按ID获取文章
func (s *memoryStore) GetArticle(ctx context.Context, id uint) (*model.Article, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.articles[id]
	if !ok {
		return nil, ErrNotFound
	}
	return copyArticle(a), nil
}

// GetArticlesByIDs 批量获取文章，缺失的ID直接跳过
func (s *memoryStore) GetArticlesByIDs(ctx context.Context, ids []uint) ([]model.Article, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	articles := make([]model.Article, 0, len(ids))
	for _, id := range ids {
		if a, ok := s.articles[id]; ok {
			articles = append(articles, *copyArticle(a))
		}
	}
	return articles, nil
}

// UpdateArticle 更新文章字段
func (s *memoryStore) UpdateArticle(ctx context.Context, id uint, fields map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.articles[id]
	if !ok {
		return ErrNotFound
	}
	for k, v := range fields {
		switch k {
		case "title":
			a.Title = v.(string)
		case "content":
			a.Content = v.(string)
		case "summary":
			a.Summary = v.(string)
		case "category":
			a.Category = v.(string)
		case "tags":
			a.Tags = append(model.StringList{}, v.(model.StringList)...)
		case "status":
			a.Status = v.(string)
		case "cover":
			a.Cover = v.(string)
		case "published_at":
			t := v.(time.Time)
			a.PublishedAt = &t
		}
	}
	a.UpdatedAt = time.Now()
	return nil
}

// DeleteArticle 删除文章，不存在时视为成功
func (s *memoryStore) DeleteArticle(ctx context.Context, id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.articles, id)
	return nil
}

// ListArticles 按条件分页查询文章
func (s *memoryStore) ListArticles(ctx context.Context, q ArticleQuery) ([]model.Article, int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var matched []*model.Article
	for _, a := range s.articles {
		if q.Status != "" && a.Status != q.Status {
			continue
		}
		if q.Category != "" && a.Category != q.Category {
			continue
		}
		if q.AuthorID > 0 && a.AuthorID != q.AuthorID {
			continue
		}
		if q.Tag != "" {
			hasTag := false
			for _, t := range a.Tags {
				if t == q.Tag {
					hasTag = true
					break
				}
			}
			if !hasTag {
				continue
			}
		}
		matched = append(matched, a)
	}

	sort.Slice(matched, func(i, j int) bool {
		if matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].ID > matched[j].ID
		}
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := int64(len(matched))
	start := (q.Page - 1) * q.Limit
	if start >= len(matched) {
		return []model.Article{}, total, nil
	}
	end := start + q.Limit
	if end > len(matched) {
		end = len(matched)
	}

	page := make([]model.Article, 0, end-start)
	for _, a := range matched[start:end] {
		page = append(page, *copyArticle(a))
	}
	return page, total, nil
}

// ListArticlesByAuthor 列出作者全部文章
func (s *memoryStore) ListArticlesByAuthor(ctx context.Context, authorID uint) ([]model.Article, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var articles []model.Article
	for _, a := range s.articles {
		if a.AuthorID == authorID {
			articles = append(articles, *copyArticle(a))
		}
	}
	sort.Slice(articles, func(i, j int) bool {
		if articles[i].CreatedAt.Equal(articles[j].CreatedAt) {
			return articles[i].ID > articles[j].ID
		}
		return articles[i].CreatedAt.After(articles[j].CreatedAt)
	})
	return articles, nil
}

// IncArticleStat 更新计数器并返回新值，负增量带下界保护
func (s *memoryStore) IncArticleStat(ctx context.Context, id uint, column string, delta int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.articles[id]
	if !ok {
		return 0, ErrNotFound
	}

	apply := func(current int) int {
		if delta < 0 && current+delta < 0 {
			return current
		}
		return current + delta
	}

	switch column {
	case StatView:
		a.ViewCount = apply(a.ViewCount)
		return a.ViewCount, nil
	case StatLike:
		a.LikeCount = apply(a.LikeCount)
		return a.LikeCount, nil
	case StatCollect:
		a.CollectCount = apply(a.CollectCount)
		return a.CollectCount, nil
	}
	return 0, ErrNotFound
}

// SetArticleStat 直接设置计数器
func (s *memoryStore) SetArticleStat(ctx context.Context, id uint, column string, value int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.articles[id]
	if !ok {
		return ErrNotFound
	}
	if value < 0 {
		value = 0
	}
	switch column {
	case StatView:
		a.ViewCount = value
	case StatLike:
		a.LikeCount = value
	case StatCollect:
		a.CollectCount = value
	}
	return nil
}

// ReplaceComments 整体替换评论数组并同步comment_count
func (s *memoryStore) ReplaceComments(ctx context.Context, id uint, comments model.CommentList) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.articles[id]
	if !ok {
		return ErrNotFound
	}
	a.Comments = append(model.CommentList{}, comments...)
	a.CommentCount = len(comments)
	a.UpdatedAt = time.Now()
	return nil
}

// UpdateAuthorSnapshot 刷新作者全部文章上的冻结快照
func (s *memoryStore) UpdateAuthorSnapshot(ctx context.Context, authorID uint, username, avatar string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.articles {
		if a.AuthorID == authorID {
			a.AuthorName = username
			a.AuthorAvatar = avatar
		}
	}
	return nil
}

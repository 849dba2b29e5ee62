package auth

import (
	"context"
	"sync"
	"time"

	"github.com/qingnian/blog-api/internal/logger"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RedisTokenBlacklist Redis令牌黑名单实现
type RedisTokenBlacklist struct {
	redis      *redis.Client
	localCache map[string]time.Time // 本地缓存，提高查询性能
	mutex      sync.RWMutex
	ctx        context.Context
}

const (
	// Redis键前缀
	blacklistKeyPrefix = "jwt:blacklist:"
	// 本地缓存同步间隔
	localCacheSyncInterval = 5 * time.Minute
	// 本地缓存最大条目数
	maxLocalCacheSize = 10000
)

// NewRedisTokenBlacklist 创建Redis令牌黑名单
func NewRedisTokenBlacklist(client *redis.Client) *RedisTokenBlacklist {
	b := &RedisTokenBlacklist{
		redis:      client,
		localCache: make(map[string]time.Time),
		ctx:        context.Background(),
	}
	go b.syncLocalCache()
	return b
}

// AddToBlacklist 将令牌添加到黑名单
func (b *RedisTokenBlacklist) AddToBlacklist(token string, expireAt time.Time) {
	duration := time.Until(expireAt)
	if duration <= 0 {
		return // 已过期的令牌无需添加
	}

	key := blacklistKeyPrefix + token
	if err := b.redis.Set(b.ctx, key, "1", duration).Err(); err != nil {
		logger.Error("添加令牌到Redis黑名单失败", zap.Error(err))
	}

	b.mutex.Lock()
	defer b.mutex.Unlock()

	// 控制本地缓存大小
	if len(b.localCache) >= maxLocalCacheSize {
		b.cleanupLocalCacheUnsafe()
	}

	b.localCache[token] = expireAt
}

// IsBlacklisted 检查令牌是否在黑名单中
func (b *RedisTokenBlacklist) IsBlacklisted(token string) bool {
	// 先查本地缓存
	b.mutex.RLock()
	expireAt, exists := b.localCache[token]
	b.mutex.RUnlock()

	if exists {
		if time.Now().After(expireAt) {
			b.mutex.Lock()
			delete(b.localCache, token)
			b.mutex.Unlock()
		} else {
			return true
		}
	}

	key := blacklistKeyPrefix + token
	result, err := b.redis.Exists(b.ctx, key).Result()
	if err != nil {
		logger.Error("检查Redis黑名单失败", zap.Error(err))
		// Redis异常时，仅依赖本地缓存
		return false
	}

	if result > 0 {
		// 回填本地缓存
		ttl := b.redis.TTL(b.ctx, key).Val()
		if ttl > 0 {
			b.mutex.Lock()
			b.localCache[token] = time.Now().Add(ttl)
			b.mutex.Unlock()
		}
		return true
	}

	return false
}

// syncLocalCache 定期清理本地缓存
func (b *RedisTokenBlacklist) syncLocalCache() {
	ticker := time.NewTicker(localCacheSyncInterval)
	defer ticker.Stop()

	for range ticker.C {
		b.mutex.Lock()
		b.cleanupLocalCacheUnsafe()
		b.mutex.Unlock()
	}
}

// cleanupLocalCacheUnsafe 清理本地缓存中的过期令牌（调用方持锁）
func (b *RedisTokenBlacklist) cleanupLocalCacheUnsafe() {
	now := time.Now()
	for token, expireAt := range b.localCache {
		if now.After(expireAt) {
			delete(b.localCache, token)
		}
	}
}

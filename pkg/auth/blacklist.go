package auth

import (
	"sync"
	"time"
)

// Blacklist 令牌黑名单接口
type Blacklist interface {
	AddToBlacklist(token string, expireAt time.Time)
	IsBlacklisted(token string) bool
}

var (
	blacklist   Blacklist
	blacklistMu sync.Mutex
)

// GetTokenBlacklist 获取令牌黑名单，默认为内存实现
func GetTokenBlacklist() Blacklist {
	blacklistMu.Lock()
	defer blacklistMu.Unlock()
	if blacklist == nil {
		blacklist = newMemoryBlacklist()
	}
	return blacklist
}

// SetTokenBlacklist 替换黑名单实现（服务启动时切换为Redis实现）
func SetTokenBlacklist(b Blacklist) {
	blacklistMu.Lock()
	defer blacklistMu.Unlock()
	blacklist = b
}

var _ Blacklist = (*memoryBlacklist)(nil)

// memoryBlacklist 内存令牌黑名单，单测和无Redis环境下使用
type memoryBlacklist struct {
	tokens map[string]time.Time // 令牌->过期时间映射
	mutex  sync.RWMutex
}

func newMemoryBlacklist() *memoryBlacklist {
	b := &memoryBlacklist{
		tokens: make(map[string]time.Time),
	}
	// 定期清理过期令牌
	go b.cleanupTask()
	return b
}

// AddToBlacklist 将令牌添加到黑名单
func (b *memoryBlacklist) AddToBlacklist(token string, expireAt time.Time) {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	b.tokens[token] = expireAt
}

// IsBlacklisted 检查令牌是否在黑名单中
func (b *memoryBlacklist) IsBlacklisted(token string) bool {
	b.mutex.RLock()
	defer b.mutex.RUnlock()
	_, exists := b.tokens[token]
	return exists
}

func (b *memoryBlacklist) cleanupTask() {
	ticker := time.NewTicker(6 * time.Hour)
	defer ticker.Stop()

	for range ticker.C {
		b.cleanup()
	}
}

func (b *memoryBlacklist) cleanup() {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	now := time.Now()
	for token, expireAt := range b.tokens {
		if now.After(expireAt) {
			delete(b.tokens, token)
		}
	}
}

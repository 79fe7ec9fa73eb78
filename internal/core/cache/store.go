// Package cache 推薦結果快取，提供記憶體與 Redis 兩種後端
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"recipe-recommender/internal/infrastructure/config"
	"recipe-recommender/internal/pkg/common"
)

// keyPrefix 快取鍵前綴
const keyPrefix = "recommend:"

// Store 快取後端
//
// Get 未命中時回傳 common.ErrCacheMiss。
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Stats() map[string]interface{}
	Close() error
}

// New 依設定建立快取，停用時回傳 nil
func New(cfg config.CacheConfig) (Store, error) {
	if !cfg.Enabled {
		common.LogInfo("快取已停用")
		return nil, nil
	}

	switch cfg.Backend {
	case config.CacheMemory, "":
		return NewManager(cfg), nil
	case config.CacheRedis:
		store, err := NewRedisStore(cfg)
		if err != nil {
			return nil, err
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unknown cache backend %q", cfg.Backend)
	}
}

// Key 由標準化的查詢字串產生快取鍵
func Key(canonical string) string {
	hash := sha256.Sum256([]byte(canonical))
	return keyPrefix + hex.EncodeToString(hash[:])
}

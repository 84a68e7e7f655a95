package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"recipe-insight/internal/infrastructure/config"
	"recipe-insight/internal/pkg/common"

	"go.uber.org/zap"
)

// Store 生成結果緩存，未命中回傳 common.ErrCacheMiss
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Backend() string
	Stats() map[string]interface{}
	Close() error
}

// Key 以 SHA-256 組合緩存鍵
func Key(namespace string, parts ...string) string {
	hash := sha256.Sum256([]byte(strings.Join(parts, "\x00")))
	return fmt.Sprintf("%s:%s", namespace, hex.EncodeToString(hash[:]))
}

// NewStore 依設定選擇緩存後端，停用時回傳 nil
func NewStore(ctx context.Context, cfg *config.Config) (Store, error) {
	if !cfg.Cache.Enabled {
		common.LogInfo("Cache disabled")
		return nil, nil
	}

	switch cfg.Cache.Backend {
	case config.CacheBackendRedis:
		store, err := NewRedisStore(ctx, cfg.Redis, cfg.Cache)
		if err != nil {
			return nil, err
		}
		return store, nil
	case config.CacheBackendMemory, "":
		return NewManager(cfg.Cache), nil
	default:
		common.LogWarn("Unknown cache backend", zap.String("backend", cfg.Cache.Backend))
		return nil, fmt.Errorf("unknown cache backend %q", cfg.Cache.Backend)
	}
}

package normalize

import (
	"context"
	"encoding/json"
	"fmt"

	"meal-compiler/internal/infrastructure/config"
	"meal-compiler/internal/pkg/common"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// RedisAliasCache redis 別名快取。部署方可離線灌入別名表；
// 查無或 redis 故障時退回內建表，絕不因快取失敗中斷解析。
type RedisAliasCache struct {
	client   *redis.Client
	cfg      *config.AliasCacheConfig
	fallback AliasCache
}

// NewRedisAliasCache 創建 redis 別名快取
func NewRedisAliasCache(cfg *config.AliasCacheConfig, fallback AliasCache) (*RedisAliasCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr: cfg.RedisAddr,
	})

	// 測試連接
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	common.LogInfo("別名快取已初始化",
		zap.String("redis_addr", cfg.RedisAddr),
		zap.String("key_prefix", cfg.KeyPrefix),
	)

	return &RedisAliasCache{
		client:   client,
		cfg:      cfg,
		fallback: fallback,
	}, nil
}

// Lookup 查詢別名，redis 未命中或故障時退回內建表
func (c *RedisAliasCache) Lookup(ctx context.Context, name string) (Alias, bool) {
	key := c.cfg.KeyPrefix + Clean(name)

	lookupCtx := ctx
	if c.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		lookupCtx, cancel = context.WithTimeout(ctx, c.cfg.Timeout)
		defer cancel()
	}

	data, err := c.client.Get(lookupCtx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			common.LogWarn("別名快取查詢失敗",
				zap.String("鍵", key),
				zap.Error(err),
			)
		}
		return c.fallbackLookup(ctx, name)
	}

	var alias Alias
	if err := json.Unmarshal(data, &alias); err != nil {
		common.LogWarn("別名快取資料格式錯誤",
			zap.String("鍵", key),
			zap.Error(err),
		)
		return c.fallbackLookup(ctx, name)
	}

	common.LogCacheHit("alias", key)
	return alias, true
}

func (c *RedisAliasCache) fallbackLookup(ctx context.Context, name string) (Alias, bool) {
	if c.fallback == nil {
		return Alias{}, false
	}
	return c.fallback.Lookup(ctx, name)
}

// Close 關閉 redis 連線
func (c *RedisAliasCache) Close() error {
	return c.client.Close()
}

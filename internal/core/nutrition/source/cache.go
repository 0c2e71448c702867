package source

import (
	"context"
	"sync"
	"time"

	"meal-compiler/internal/core/nutrition"
	"meal-compiler/internal/infrastructure/config"
	"meal-compiler/internal/pkg/common"

	"go.uber.org/zap"
)

// CachedSource 在任意 FoodSource 外面包一層 TTL 快取。
// 同一份菜單裡同一種食材會被查很多次，遠端來源不該重複打。
type CachedSource struct {
	inner FoodSource
	cfg   *config.RecordCacheConfig

	mu      sync.RWMutex
	records map[string]recordEntry
	stats   cacheStats
}

type recordEntry struct {
	record     *nutrition.FoodRecord
	expiresAt  time.Time
	lastAccess time.Time
}

type cacheStats struct {
	hits      int64
	misses    int64
	evictions int64
}

// NewCachedSource 創建帶快取的來源。快取停用時直接回傳原來源。
func NewCachedSource(inner FoodSource, cfg *config.RecordCacheConfig) FoodSource {
	if !cfg.Enabled {
		return inner
	}
	return &CachedSource{
		inner:   inner,
		cfg:     cfg,
		records: make(map[string]recordEntry),
	}
}

// Name 轉發內層來源名稱
func (c *CachedSource) Name() string {
	return c.inner.Name()
}

// Search 搜尋不進快取（結果小、查詢詞變化大），直接轉發
func (c *CachedSource) Search(ctx context.Context, query string, maxResults int) ([]Hit, error) {
	return c.inner.Search(ctx, query, maxResults)
}

// GetRecord 先查快取再打內層來源
func (c *CachedSource) GetRecord(ctx context.Context, id string) (*nutrition.FoodRecord, error) {
	now := time.Now()

	c.mu.RLock()
	entry, exists := c.records[id]
	c.mu.RUnlock()

	if exists && now.Before(entry.expiresAt) {
		c.mu.Lock()
		entry.lastAccess = now
		c.records[id] = entry
		c.stats.hits++
		c.mu.Unlock()
		common.LogCacheHit("food_record", id)
		return entry.record, nil
	}

	record, err := c.inner.GetRecord(ctx, id)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.stats.misses++
	if len(c.records) >= c.cfg.MaxSize {
		c.evictLocked(now)
	}
	c.records[id] = recordEntry{
		record:     record,
		expiresAt:  now.Add(c.cfg.TTL),
		lastAccess: now,
	}
	c.mu.Unlock()

	common.LogCacheMiss("food_record", id)
	return record, nil
}

// evictLocked 先清過期項目，仍然滿就淘汰最久未使用的一筆
func (c *CachedSource) evictLocked(now time.Time) {
	for key, entry := range c.records {
		if now.After(entry.expiresAt) {
			delete(c.records, key)
			c.stats.evictions++
		}
	}
	if len(c.records) < c.cfg.MaxSize {
		return
	}

	var oldestKey string
	var oldestAccess time.Time
	for key, entry := range c.records {
		if oldestKey == "" || entry.lastAccess.Before(oldestAccess) {
			oldestKey = key
			oldestAccess = entry.lastAccess
		}
	}
	if oldestKey != "" {
		delete(c.records, oldestKey)
		c.stats.evictions++
		common.LogDebug("快取已淘汰(LRU)",
			zap.String("來源", c.inner.Name()),
			zap.String("鍵", oldestKey),
		)
	}
}

// Stats 回傳快取統計
func (c *CachedSource) Stats() map[string]interface{} {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return map[string]interface{}{
		"size":      len(c.records),
		"max_size":  c.cfg.MaxSize,
		"hits":      c.stats.hits,
		"misses":    c.stats.misses,
		"evictions": c.stats.evictions,
	}
}

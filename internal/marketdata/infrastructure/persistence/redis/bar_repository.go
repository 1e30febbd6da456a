// Package redis 行情模块的 Redis 读缓存实现
package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/wyfcoding/financialanalysis/internal/marketdata/domain"
	"github.com/wyfcoding/financialanalysis/pkg/cache"
)

// BarCacheRepository 最新行情与区间行情的读缓存
type BarCacheRepository struct {
	cache  *cache.RedisCache
	prefix string
	ttl    time.Duration
}

// NewBarCacheRepository 创建行情缓存仓储，ttl 对应配置的 cache_ttl
func NewBarCacheRepository(c *cache.RedisCache, ttl time.Duration) *BarCacheRepository {
	return &BarCacheRepository{
		cache:  c,
		prefix: "marketdata:bar:",
		ttl:    ttl,
	}
}

// SaveLatest 缓存最新日线
func (r *BarCacheRepository) SaveLatest(ctx context.Context, bar *domain.Bar) error {
	if bar == nil {
		return nil
	}
	return r.cache.SetJSON(ctx, r.prefix+"latest:"+bar.Symbol, bar, r.ttl)
}

// GetLatest 读取最新日线缓存，未命中返回 nil
func (r *BarCacheRepository) GetLatest(ctx context.Context, symbol string) (*domain.Bar, error) {
	var bar domain.Bar
	hit, err := r.cache.GetJSON(ctx, r.prefix+"latest:"+symbol, &bar)
	if err != nil || !hit {
		return nil, err
	}
	return &bar, nil
}

// SaveRange 缓存最近 limit 条日线
func (r *BarCacheRepository) SaveRange(ctx context.Context, symbol string, limit int, bars []*domain.Bar) error {
	if len(bars) == 0 {
		return nil
	}
	return r.cache.SetJSON(ctx, r.rangeKey(symbol, limit), bars, r.ttl)
}

// GetRange 读取区间缓存，未命中返回 nil
func (r *BarCacheRepository) GetRange(ctx context.Context, symbol string, limit int) ([]*domain.Bar, error) {
	var bars []*domain.Bar
	hit, err := r.cache.GetJSON(ctx, r.rangeKey(symbol, limit), &bars)
	if err != nil || !hit {
		return nil, err
	}
	return bars, nil
}

func (r *BarCacheRepository) rangeKey(symbol string, limit int) string {
	return fmt.Sprintf("%srange:%s:%d", r.prefix, symbol, limit)
}

package redis

import (
	"context"
	"time"

	"github.com/wyfcoding/financialanalysis/internal/overview/domain"
	"github.com/wyfcoding/financialanalysis/pkg/cache"
)

const snapshotKey = "overview:snapshot"

// SnapshotRepository 大盘快照的Redis存储。
// 快照整体序列化存入单个键, 供多实例共享。
type SnapshotRepository struct {
	cache *cache.RedisCache
	ttl   time.Duration
}

func NewSnapshotRepository(cache *cache.RedisCache, ttl time.Duration) *SnapshotRepository {
	return &SnapshotRepository{cache: cache, ttl: ttl}
}

func (r *SnapshotRepository) Save(ctx context.Context, snapshot *domain.Snapshot) error {
	return r.cache.SetJSON(ctx, snapshotKey, snapshot, r.ttl)
}

func (r *SnapshotRepository) Get(ctx context.Context) (*domain.Snapshot, bool, error) {
	var snapshot domain.Snapshot
	hit, err := r.cache.GetJSON(ctx, snapshotKey, &snapshot)
	if err != nil || !hit {
		return nil, false, err
	}
	return &snapshot, true, nil
}

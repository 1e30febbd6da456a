package postgres

import (
	"context"
	"fmt"

	"github.com/wyfcoding/financialanalysis/internal/watchlist/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// watchlistRepository 自选股的PostgreSQL实现
type watchlistRepository struct {
	db *gorm.DB
}

func NewWatchlistRepository(db *gorm.DB) domain.WatchlistRepository {
	return &watchlistRepository{db: db}
}

// Add 幂等添加, 重复的股票代码直接忽略。
func (r *watchlistRepository) Add(ctx context.Context, entry *domain.Entry) error {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "symbol"}},
			DoNothing: true,
		}).
		Create(entry).Error
	if err != nil {
		return fmt.Errorf("add watchlist entry: %w", err)
	}
	return nil
}

func (r *watchlistRepository) List(ctx context.Context) ([]*domain.Entry, error) {
	var entries []*domain.Entry
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("list watchlist: %w", err)
	}
	return entries, nil
}

func (r *watchlistRepository) Remove(ctx context.Context, symbol string) error {
	result := r.db.WithContext(ctx).
		Where("symbol = ?", symbol).
		Delete(&domain.Entry{})
	if result.Error != nil {
		return fmt.Errorf("remove watchlist entry: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *watchlistRepository) Exists(ctx context.Context, symbol string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.Entry{}).
		Where("symbol = ?", symbol).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("check watchlist entry: %w", err)
	}
	return count > 0, nil
}

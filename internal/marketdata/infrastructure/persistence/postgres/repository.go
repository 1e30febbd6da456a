// Package postgres 行情模块的 PostgreSQL 仓储实现
package postgres

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/wyfcoding/financialanalysis/internal/marketdata/domain"
)

type stockRepository struct {
	db *gorm.DB
}

// NewStockRepository 创建股票信息仓储实例
func NewStockRepository(db *gorm.DB) domain.StockRepository {
	return &stockRepository{db: db}
}

func (r *stockRepository) Save(ctx context.Context, stock *domain.Stock) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "symbol"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"name", "exchange", "sector", "industry", "market_cap", "updated_at",
		}),
	}).Create(stock).Error
}

func (r *stockRepository) GetBySymbol(ctx context.Context, symbol string) (*domain.Stock, error) {
	var stock domain.Stock
	err := r.db.WithContext(ctx).Where("symbol = ?", symbol).First(&stock).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &stock, nil
}

func (r *stockRepository) Search(ctx context.Context, query string, limit int) ([]*domain.Stock, error) {
	var stocks []*domain.Stock
	pattern := "%" + query + "%"
	err := r.db.WithContext(ctx).
		Where("symbol ILIKE ? OR name ILIKE ?", pattern, pattern).
		Order("symbol asc").
		Limit(limit).
		Find(&stocks).Error
	if err != nil {
		return nil, err
	}
	return stocks, nil
}

func (r *stockRepository) ListSymbols(ctx context.Context) ([]string, error) {
	var symbols []string
	err := r.db.WithContext(ctx).
		Model(&domain.Stock{}).
		Order("symbol asc").
		Pluck("symbol", &symbols).Error
	if err != nil {
		return nil, err
	}
	return symbols, nil
}

type barRepository struct {
	db *gorm.DB
}

// NewBarRepository 创建行情仓储实例
func NewBarRepository(db *gorm.DB) domain.BarRepository {
	return &barRepository{db: db}
}

// barUpsertColumns 冲突时覆盖的列, 必须与 Bar 的表结构一致
var barUpsertColumns = []string{
	"open_price", "high_price", "low_price", "close_price",
	"adjusted_close", "volume", "updated_at",
}

func barUpsertClause() clause.OnConflict {
	return clause.OnConflict{
		Columns:   []clause.Column{{Name: "symbol"}, {Name: "date"}},
		DoUpdates: clause.AssignmentColumns(barUpsertColumns),
	}
}

func (r *barRepository) SaveBar(ctx context.Context, bar *domain.Bar) error {
	return r.db.WithContext(ctx).Clauses(barUpsertClause()).Create(bar).Error
}

func (r *barRepository) SaveBars(ctx context.Context, bars []*domain.Bar) error {
	if len(bars) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Clauses(barUpsertClause()).CreateInBatches(bars, 500).Error
}

func (r *barRepository) GetBars(ctx context.Context, symbol string, limit int) ([]*domain.Bar, error) {
	var bars []*domain.Bar
	err := r.db.WithContext(ctx).
		Where("symbol = ?", symbol).
		Order("date desc").
		Limit(limit).
		Find(&bars).Error
	if err != nil {
		return nil, err
	}
	return bars, nil
}

func (r *barRepository) GetLatestBar(ctx context.Context, symbol string) (*domain.Bar, error) {
	var bar domain.Bar
	err := r.db.WithContext(ctx).
		Where("symbol = ?", symbol).
		Order("date desc").
		First(&bar).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &bar, nil
}

package domain

import (
	"context"
	"errors"
)

// ErrNotFound 请求的数据不存在
var ErrNotFound = errors.New("marketdata: not found")

// StockRepository 股票基础信息仓储
type StockRepository interface {
	Save(ctx context.Context, stock *Stock) error
	GetBySymbol(ctx context.Context, symbol string) (*Stock, error)
	// Search 按代码前缀或名称子串匹配
	Search(ctx context.Context, query string, limit int) ([]*Stock, error)
	ListSymbols(ctx context.Context) ([]string, error)
}

// BarRepository 行情仓储
type BarRepository interface {
	// SaveBar 按 (symbol, date) upsert
	SaveBar(ctx context.Context, bar *Bar) error
	SaveBars(ctx context.Context, bars []*Bar) error
	// GetBars 按日期倒序返回最近 limit 条
	GetBars(ctx context.Context, symbol string, limit int) ([]*Bar, error)
	GetLatestBar(ctx context.Context, symbol string) (*Bar, error)
}

// BarReadRepository 行情读缓存（Redis），所有操作均为 best-effort
type BarReadRepository interface {
	SaveLatest(ctx context.Context, bar *Bar) error
	GetLatest(ctx context.Context, symbol string) (*Bar, error)
	SaveRange(ctx context.Context, symbol string, limit int, bars []*Bar) error
	GetRange(ctx context.Context, symbol string, limit int) ([]*Bar, error)
}

package application

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/wyfcoding/financialanalysis/internal/marketdata/domain"
)

// StockDTO 股票基础信息
type StockDTO struct {
	Symbol    string          `json:"symbol"`
	Name      string          `json:"name"`
	Exchange  string          `json:"exchange"`
	Sector    string          `json:"sector"`
	Industry  string          `json:"industry"`
	MarketCap decimal.Decimal `json:"market_cap"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// BarDTO 单条日线
type BarDTO struct {
	Timestamp     time.Time       `json:"timestamp"`
	Open          decimal.Decimal `json:"open_price"`
	High          decimal.Decimal `json:"high_price"`
	Low           decimal.Decimal `json:"low_price"`
	Close         decimal.Decimal `json:"close_price"`
	AdjustedClose decimal.Decimal `json:"adjusted_close"`
	Volume        int64           `json:"volume"`
}

// StockDetailDTO 股票详情：基础信息 + 最新行情 + 最新分析摘要 + 可选历史
type StockDetailDTO struct {
	StockDTO
	LatestPrice    *BarDTO  `json:"latest_price"`
	LatestAnalysis any      `json:"latest_analysis,omitempty"`
	PriceHistory   []BarDTO `json:"price_history,omitempty"`
}

// SearchResultDTO 搜索结果
type SearchResultDTO struct {
	Query      string     `json:"query"`
	Results    []StockDTO `json:"results"`
	TotalFound int        `json:"total_found"`
}

// ChartDTO 图表数据
type ChartDTO struct {
	Symbol   string          `json:"symbol"`
	Period   string          `json:"period"`
	Interval string          `json:"interval"`
	Data     []ChartPointDTO `json:"data"`
}

// ChartPointDTO 图表单点
type ChartPointDTO struct {
	Timestamp string          `json:"timestamp"`
	Open      decimal.Decimal `json:"open"`
	High      decimal.Decimal `json:"high"`
	Low       decimal.Decimal `json:"low"`
	Close     decimal.Decimal `json:"close"`
	Volume    int64           `json:"volume"`
}

func toStockDTO(s *domain.Stock) StockDTO {
	return StockDTO{
		Symbol:    s.Symbol,
		Name:      s.Name,
		Exchange:  s.Exchange,
		Sector:    s.Sector,
		Industry:  s.Industry,
		MarketCap: s.MarketCap,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}

func toBarDTO(b *domain.Bar) *BarDTO {
	if b == nil {
		return nil
	}
	return &BarDTO{
		Timestamp:     b.Date,
		Open:          b.Open,
		High:          b.High,
		Low:           b.Low,
		Close:         b.Close,
		AdjustedClose: b.AdjustedClose,
		Volume:        b.Volume,
	}
}

// Package domain 包含行情数据的领域模型
package domain

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Stock 股票基础信息
type Stock struct {
	gorm.Model
	Symbol    string          `gorm:"type:varchar(16);uniqueIndex;not null" json:"symbol"`
	Name      string          `gorm:"type:varchar(128);not null" json:"name"`
	Exchange  string          `gorm:"type:varchar(32)" json:"exchange"`
	Sector    string          `gorm:"type:varchar(64)" json:"sector"`
	Industry  string          `gorm:"type:varchar(64)" json:"industry"`
	MarketCap decimal.Decimal `gorm:"type:decimal(24,2)" json:"market_cap"`
}

func (Stock) TableName() string {
	return "stocks"
}

// Bar 一个交易日的OHLCV日线
type Bar struct {
	gorm.Model
	Symbol        string          `gorm:"type:varchar(16);uniqueIndex:idx_bar_symbol_date;not null" json:"symbol"`
	Date          time.Time       `gorm:"uniqueIndex:idx_bar_symbol_date;not null" json:"date"`
	Open          decimal.Decimal `gorm:"column:open_price;type:decimal(18,4);not null" json:"open"`
	High          decimal.Decimal `gorm:"column:high_price;type:decimal(18,4);not null" json:"high"`
	Low           decimal.Decimal `gorm:"column:low_price;type:decimal(18,4);not null" json:"low"`
	Close         decimal.Decimal `gorm:"column:close_price;type:decimal(18,4);not null" json:"close"`
	AdjustedClose decimal.Decimal `gorm:"type:decimal(18,4)" json:"adjusted_close"`
	Volume        int64           `gorm:"not null" json:"volume"`
}

func (Bar) TableName() string {
	return "bars"
}

// Change 当日涨跌额（收盘减开盘）
func (b *Bar) Change() decimal.Decimal {
	return b.Close.Sub(b.Open)
}

// Range 当日振幅（最高减最低）
func (b *Bar) Range() decimal.Decimal {
	return b.High.Sub(b.Low)
}

// BarEvent 行情事件的线上格式, 由采集器发布到Kafka。
type BarEvent struct {
	Symbol        string          `json:"symbol"`
	Date          time.Time       `json:"date"`
	Open          decimal.Decimal `json:"open"`
	High          decimal.Decimal `json:"high"`
	Low           decimal.Decimal `json:"low"`
	Close         decimal.Decimal `json:"close"`
	AdjustedClose decimal.Decimal `json:"adjusted_close"`
	Volume        int64           `json:"volume"`
	Source        string          `json:"source"`
}

// ToBar 转为持久化实体, 日期归一到UTC自然日。
func (e *BarEvent) ToBar() *Bar {
	return &Bar{
		Symbol:        e.Symbol,
		Date:          e.Date.UTC().Truncate(24 * time.Hour),
		Open:          e.Open,
		High:          e.High,
		Low:           e.Low,
		Close:         e.Close,
		AdjustedClose: e.AdjustedClose,
		Volume:        e.Volume,
	}
}

// NewBarEvent 从日线构造行情事件
func NewBarEvent(bar *Bar, source string) *BarEvent {
	return &BarEvent{
		Symbol:        bar.Symbol,
		Date:          bar.Date,
		Open:          bar.Open,
		High:          bar.High,
		Low:           bar.Low,
		Close:         bar.Close,
		AdjustedClose: bar.AdjustedClose,
		Volume:        bar.Volume,
		Source:        source,
	}
}

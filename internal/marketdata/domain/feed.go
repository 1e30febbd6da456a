package domain

import (
	"hash/fnv"
	"math/rand/v2"
	"time"

	"github.com/shopspring/decimal"
)

// SyntheticFeed 合成行情源。
// 每个代码的序列由其哈希播种，因此任意时刻重放同一代码得到同一价格路径。
type SyntheticFeed struct {
	source string
}

// NewSyntheticFeed 创建合成行情源
func NewSyntheticFeed() *SyntheticFeed {
	return &SyntheticFeed{source: "synthetic"}
}

// BasePrice 代码的确定性基准价：100 + hash(symbol) % 400
func (f *SyntheticFeed) BasePrice(symbol string) decimal.Decimal {
	h := fnv.New64a()
	h.Write([]byte(symbol))
	return decimal.NewFromInt(100 + int64(h.Sum64()%400))
}

// GenerateHistory 生成截止 end 的 days 天日线，带轻微上行偏移的随机游走。
// 日收益率取自 [-5%, +6%]，开/高/低价由收盘价按固定比例推导。
func (f *SyntheticFeed) GenerateHistory(symbol string, end time.Time, days int) []*Bar {
	if days <= 0 {
		return nil
	}

	rng := f.rng(symbol)
	price := f.BasePrice(symbol)
	end = end.UTC().Truncate(24 * time.Hour)

	bars := make([]*Bar, 0, days)
	for i := 0; i < days; i++ {
		step := decimal.NewFromFloat(-0.05 + rng.Float64()*0.11)
		price = price.Mul(decimal.NewFromInt(1).Add(step))

		date := end.AddDate(0, 0, -(days - 1 - i))
		bars = append(bars, f.bar(symbol, date, price, rng))
	}
	return bars
}

// GenerateBar 生成某个交易日的单条日线。
// 内部重放该代码从起始日到 date 的整条路径，保证与 GenerateHistory 一致。
func (f *SyntheticFeed) GenerateBar(symbol string, start, date time.Time) *Bar {
	start = start.UTC().Truncate(24 * time.Hour)
	date = date.UTC().Truncate(24 * time.Hour)

	steps := int(date.Sub(start).Hours()/24) + 1
	if steps <= 0 {
		return nil
	}

	rng := f.rng(symbol)
	price := f.BasePrice(symbol)
	var bar *Bar
	for i := 0; i < steps; i++ {
		step := decimal.NewFromFloat(-0.05 + rng.Float64()*0.11)
		price = price.Mul(decimal.NewFromInt(1).Add(step))
		bar = f.bar(symbol, start.AddDate(0, 0, i), price, rng)
	}
	return bar
}

// Source 数据来源标识
func (f *SyntheticFeed) Source() string {
	return f.source
}

func (f *SyntheticFeed) rng(symbol string) *rand.Rand {
	h := fnv.New64a()
	h.Write([]byte(symbol))
	return rand.New(rand.NewPCG(h.Sum64(), 0))
}

func (f *SyntheticFeed) bar(symbol string, date time.Time, close decimal.Decimal, rng *rand.Rand) *Bar {
	return &Bar{
		Symbol:        symbol,
		Date:          date,
		Open:          close.Mul(decimal.NewFromFloat(0.99)).Round(2),
		High:          close.Mul(decimal.NewFromFloat(1.02)).Round(2),
		Low:           close.Mul(decimal.NewFromFloat(0.98)).Round(2),
		Close:         close.Round(2),
		AdjustedClose: close.Round(2),
		Volume:        1_000_000 + rng.Int64N(9_000_000),
	}
}

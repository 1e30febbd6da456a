// Package domain 包含大盘全景快照的领域模型
package domain

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// 榜单长度
const topN = 10

// Mover 快照中的单只股票行情
type Mover struct {
	Symbol    string          `json:"symbol"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Change    decimal.Decimal `json:"change"`
	ChangePct decimal.Decimal `json:"change_pct"`
	Volume    int64           `json:"volume"`
	Sector    string          `json:"sector"`
}

// SectorPerformance 按板块聚合的涨跌表现
type SectorPerformance struct {
	Sector       string          `json:"sector"`
	AvgChangePct decimal.Decimal `json:"avg_change_pct"`
	Advancers    int             `json:"advancers"`
	Decliners    int             `json:"decliners"`
	Count        int             `json:"count"`
}

// IndexQuote 指数报价
type IndexQuote struct {
	Symbol    string          `json:"symbol"`
	Name      string          `json:"name"`
	Value     decimal.Decimal `json:"value"`
	Change    decimal.Decimal `json:"change"`
	ChangePct decimal.Decimal `json:"change_pct"`
}

// Summary 市场宽度摘要
type Summary struct {
	TotalSymbols        int             `json:"total_symbols"`
	Advancers           int             `json:"advancers"`
	Decliners           int             `json:"decliners"`
	Unchanged           int             `json:"unchanged"`
	AdvanceDeclineRatio float64         `json:"advance_decline_ratio"`
	AvgChangePct        decimal.Decimal `json:"avg_change_pct"`
	TotalVolume         int64           `json:"total_volume"`
	MarketTrend         string          `json:"market_trend"`
	AsOf                time.Time       `json:"as_of"`
}

// Snapshot 一次刷新产出的完整大盘视图
type Snapshot struct {
	GeneratedAt time.Time           `json:"generated_at"`
	Summary     Summary             `json:"summary"`
	Gainers     []Mover             `json:"gainers"`
	Losers      []Mover             `json:"losers"`
	MostActive  []Mover             `json:"most_active"`
	Sectors     []SectorPerformance `json:"sectors"`
	Indices     []IndexQuote        `json:"indices"`
}

// BuildSnapshot 从各股票的最新行情聚合出大盘快照。
func BuildSnapshot(movers []Mover, now time.Time) *Snapshot {
	snapshot := &Snapshot{
		GeneratedAt: now,
		Gainers:     topMovers(movers, func(a, b Mover) bool { return a.ChangePct.GreaterThan(b.ChangePct) }),
		Losers:      topMovers(movers, func(a, b Mover) bool { return a.ChangePct.LessThan(b.ChangePct) }),
		MostActive:  topMovers(movers, func(a, b Mover) bool { return a.Volume > b.Volume }),
		Sectors:     sectorPerformance(movers),
	}

	var advancers, decliners, unchanged int
	var totalVolume int64
	sumChange := decimal.Zero
	for _, m := range movers {
		switch {
		case m.ChangePct.IsPositive():
			advancers++
		case m.ChangePct.IsNegative():
			decliners++
		default:
			unchanged++
		}
		totalVolume += m.Volume
		sumChange = sumChange.Add(m.ChangePct)
	}

	avgChange := decimal.Zero
	if len(movers) > 0 {
		avgChange = sumChange.Div(decimal.NewFromInt(int64(len(movers)))).Round(4)
	}

	// 全部上涨时比率按涨家数对1计
	ratio := float64(advancers)
	if decliners > 0 {
		ratio = float64(advancers) / float64(decliners)
	}

	snapshot.Summary = Summary{
		TotalSymbols:        len(movers),
		Advancers:           advancers,
		Decliners:           decliners,
		Unchanged:           unchanged,
		AdvanceDeclineRatio: ratio,
		AvgChangePct:        avgChange,
		TotalVolume:         totalVolume,
		MarketTrend:         marketTrend(avgChange),
		AsOf:                now,
	}
	snapshot.Indices = buildIndices(avgChange)
	return snapshot
}

func marketTrend(avgChangePct decimal.Decimal) string {
	half := decimal.NewFromFloat(0.5)
	switch {
	case avgChangePct.GreaterThan(half):
		return "bullish"
	case avgChangePct.LessThan(half.Neg()):
		return "bearish"
	default:
		return "neutral"
	}
}

func topMovers(movers []Mover, less func(a, b Mover) bool) []Mover {
	sorted := make([]Mover, len(movers))
	copy(sorted, movers)
	sort.SliceStable(sorted, func(i, j int) bool { return less(sorted[i], sorted[j]) })
	if len(sorted) > topN {
		sorted = sorted[:topN]
	}
	return sorted
}

func sectorPerformance(movers []Mover) []SectorPerformance {
	type agg struct {
		sum                  decimal.Decimal
		advancers, decliners int
		count                int
	}
	bySector := make(map[string]*agg)
	for _, m := range movers {
		sector := m.Sector
		if sector == "" {
			sector = "Unknown"
		}
		a, ok := bySector[sector]
		if !ok {
			a = &agg{sum: decimal.Zero}
			bySector[sector] = a
		}
		a.sum = a.sum.Add(m.ChangePct)
		a.count++
		if m.ChangePct.IsPositive() {
			a.advancers++
		} else if m.ChangePct.IsNegative() {
			a.decliners++
		}
	}

	result := make([]SectorPerformance, 0, len(bySector))
	for sector, a := range bySector {
		result = append(result, SectorPerformance{
			Sector:       sector,
			AvgChangePct: a.sum.Div(decimal.NewFromInt(int64(a.count))).Round(4),
			Advancers:    a.advancers,
			Decliners:    a.decliners,
			Count:        a.count,
		})
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].AvgChangePct.GreaterThan(result[j].AvgChangePct)
	})
	return result
}

// 主要指数的基准点位
var indexBases = []struct {
	symbol string
	name   string
	base   int64
}{
	{"^GSPC", "S&P 500", 4500},
	{"^DJI", "Dow Jones", 35000},
	{"^IXIC", "NASDAQ", 14000},
	{"^RUT", "Russell 2000", 2000},
}

// buildIndices 在基准点位上叠加当日平均涨跌生成指数报价。
func buildIndices(avgChangePct decimal.Decimal) []IndexQuote {
	hundred := decimal.NewFromInt(100)
	quotes := make([]IndexQuote, 0, len(indexBases))
	for _, idx := range indexBases {
		base := decimal.NewFromInt(idx.base)
		change := base.Mul(avgChangePct).Div(hundred).Round(2)
		quotes = append(quotes, IndexQuote{
			Symbol:    idx.symbol,
			Name:      idx.name,
			Value:     base.Add(change),
			Change:    change,
			ChangePct: avgChangePct,
		})
	}
	return quotes
}

package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSyntheticFeed_BasePriceRange(t *testing.T) {
	feed := NewSyntheticFeed()

	for _, symbol := range ReferenceSymbols {
		base := feed.BasePrice(symbol)
		assert.True(t, base.GreaterThanOrEqual(decimal.NewFromInt(100)), "base price below 100 for %s", symbol)
		assert.True(t, base.LessThan(decimal.NewFromInt(500)), "base price above 500 for %s", symbol)
	}
}

func TestSyntheticFeed_BasePriceDeterministic(t *testing.T) {
	feed := NewSyntheticFeed()
	assert.True(t, feed.BasePrice("AAPL").Equal(feed.BasePrice("AAPL")))
}

func TestSyntheticFeed_GenerateHistory(t *testing.T) {
	feed := NewSyntheticFeed()
	end := time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC)

	bars := feed.GenerateHistory("AAPL", end, 30)
	require.Len(t, bars, 30)

	// 日期升序且落在 [end-29d, end]
	assert.Equal(t, end.AddDate(0, 0, -29), bars[0].Date)
	assert.Equal(t, end, bars[29].Date)
	for i := 1; i < len(bars); i++ {
		assert.True(t, bars[i].Date.After(bars[i-1].Date))
	}

	for _, b := range bars {
		assert.True(t, b.High.GreaterThanOrEqual(b.Close), "high below close")
		assert.True(t, b.Low.LessThanOrEqual(b.Close), "low above close")
		assert.True(t, b.Close.IsPositive())
		assert.GreaterOrEqual(t, b.Volume, int64(1_000_000))
		assert.LessOrEqual(t, b.Volume, int64(10_000_000))
	}
}

func TestSyntheticFeed_ReplayConsistency(t *testing.T) {
	feed := NewSyntheticFeed()
	end := time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC)
	start := end.AddDate(0, 0, -9)

	history := feed.GenerateHistory("MSFT", end, 10)
	require.Len(t, history, 10)

	// 单日生成与整段历史在同一交易日必须一致
	for i, want := range history {
		got := feed.GenerateBar("MSFT", start, start.AddDate(0, 0, i))
		require.NotNil(t, got)
		assert.True(t, got.Close.Equal(want.Close), "day %d close mismatch: %s != %s", i, got.Close, want.Close)
		assert.Equal(t, want.Volume, got.Volume, "day %d volume mismatch", i)
	}
}

func TestSyntheticFeed_GenerateBarBeforeStart(t *testing.T) {
	feed := NewSyntheticFeed()
	start := time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC)

	assert.Nil(t, feed.GenerateBar("AAPL", start, start.AddDate(0, 0, -1)))
}

func TestBar_Change(t *testing.T) {
	tests := []struct {
		name  string
		open  string
		close string
		want  string
	}{
		{"up", "100", "110", "10"},
		{"down", "200", "190", "-10"},
		{"flat", "50", "50", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := &Bar{
				Open:  decimal.RequireFromString(tt.open),
				Close: decimal.RequireFromString(tt.close),
			}
			assert.True(t, b.Change().Equal(decimal.RequireFromString(tt.want)),
				"Change() = %s, want %s", b.Change(), tt.want)
		})
	}
}

func TestCompanyName(t *testing.T) {
	assert.Equal(t, "Apple Inc.", CompanyName("AAPL"))
	assert.Equal(t, "XYZ Inc.", CompanyName("XYZ"))
}

func TestNewReferenceStock_Fallback(t *testing.T) {
	s := NewReferenceStock("QQQQ")
	assert.Equal(t, "QQQQ Inc.", s.Name)
	assert.Equal(t, "Technology", s.Sector)
	assert.Equal(t, "Software", s.Industry)
}

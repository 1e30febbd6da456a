package domain

import (
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pricesFromFloats(vals ...float64) []decimal.Decimal {
	out := make([]decimal.Decimal, len(vals))
	for i, v := range vals {
		out[i] = decimal.NewFromFloat(v)
	}
	return out
}

// 等差上涨序列
func risingPrices(n int) []decimal.Decimal {
	out := make([]decimal.Decimal, n)
	for i := 0; i < n; i++ {
		out[i] = decimal.NewFromInt(int64(100 + i))
	}
	return out
}

func TestCalculateRSI_AllGains(t *testing.T) {
	svc := NewIndicatorService()

	// 连续上涨时没有跌幅，RSI 为 100
	rsi, err := svc.CalculateRSI(risingPrices(20), 14)
	require.NoError(t, err)
	assert.True(t, rsi.Equal(decimal.NewFromInt(100)), "RSI = %s, want 100", rsi)
}

func TestCalculateRSI_Insufficient(t *testing.T) {
	svc := NewIndicatorService()

	_, err := svc.CalculateRSI(risingPrices(14), 14)
	assert.ErrorIs(t, err, ErrInsufficientData)
}

func TestCalculateRSI_Bounds(t *testing.T) {
	svc := NewIndicatorService()

	prices := pricesFromFloats(
		44, 44.34, 44.09, 43.61, 44.33, 44.83, 45.10, 45.42, 45.84, 46.08,
		45.89, 46.03, 45.61, 46.28, 46.28, 46.00, 46.03, 46.41, 46.22, 45.64,
	)
	rsi, err := svc.CalculateRSI(prices, 14)
	require.NoError(t, err)
	assert.True(t, rsi.GreaterThan(decimal.Zero))
	assert.True(t, rsi.LessThan(decimal.NewFromInt(100)))
}

func TestCalculateSMA(t *testing.T) {
	svc := NewIndicatorService()

	sma, err := svc.CalculateSMA(pricesFromFloats(1, 2, 3, 4, 5), 5)
	require.NoError(t, err)
	assert.True(t, sma.Equal(decimal.NewFromInt(3)))

	// 只取最后 period 个点
	sma, err = svc.CalculateSMA(pricesFromFloats(100, 1, 2, 3), 3)
	require.NoError(t, err)
	assert.True(t, sma.Equal(decimal.NewFromInt(2)))

	_, err = svc.CalculateSMA(pricesFromFloats(1, 2), 3)
	assert.ErrorIs(t, err, ErrInsufficientData)
}

func TestCalculateEMASeries(t *testing.T) {
	prices := pricesFromFloats(10, 10, 10, 10)
	series := CalculateEMASeries(prices, 3)
	require.Len(t, series, 4)

	// 常数序列的 EMA 不变
	for i, v := range series {
		assert.True(t, v.Equal(decimal.NewFromInt(10)), "series[%d] = %s", i, v)
	}

	assert.Nil(t, CalculateEMASeries(nil, 3))
}

func TestCalculateMACD(t *testing.T) {
	svc := NewIndicatorService()

	macd, signal, hist, err := svc.CalculateMACD(risingPrices(60), 12, 26, 9)
	require.NoError(t, err)

	// 稳定上涨时快线在慢线上方，MACD 为正
	assert.True(t, macd.GreaterThan(decimal.Zero))
	assert.True(t, hist.Equal(macd.Sub(signal)))

	// 序列短于慢线周期时仍给出估计值
	macd, _, _, err = svc.CalculateMACD(risingPrices(20), 12, 26, 9)
	require.NoError(t, err)
	assert.True(t, macd.GreaterThan(decimal.Zero))

	_, _, _, err = svc.CalculateMACD(risingPrices(1), 12, 26, 9)
	assert.ErrorIs(t, err, ErrInsufficientData)
}

func TestCalculateBollingerBands(t *testing.T) {
	svc := NewIndicatorService()

	upper, middle, lower, err := svc.CalculateBollingerBands(pricesFromFloats(
		10, 10, 10, 10, 10, 10, 10, 10, 10, 10,
		10, 10, 10, 10, 10, 10, 10, 10, 10, 10,
	), 20)
	require.NoError(t, err)

	// 无波动时三条带重合
	assert.True(t, upper.Equal(middle))
	assert.True(t, lower.Equal(middle))
	assert.True(t, middle.Equal(decimal.NewFromInt(10)))
}

func TestCalculateMomentum(t *testing.T) {
	svc := NewIndicatorService()

	m, err := svc.CalculateMomentum(risingPrices(20), 14)
	require.NoError(t, err)
	assert.True(t, m.Equal(decimal.NewFromInt(14)))

	_, err = svc.CalculateMomentum(risingPrices(10), 14)
	assert.ErrorIs(t, err, ErrInsufficientData)
}

func TestAnnualizedVolatility(t *testing.T) {
	// 常数价格无波动
	assert.Zero(t, AnnualizedVolatility(pricesFromFloats(10, 10, 10, 10)))

	vol := AnnualizedVolatility(pricesFromFloats(100, 110, 99, 108, 97))
	assert.Greater(t, vol, 0.0)
}

func TestSharpeRatio(t *testing.T) {
	// 无波动时返回 0 而不是 NaN
	assert.Zero(t, SharpeRatio(pricesFromFloats(10, 10, 10)))

	sr := SharpeRatio(risingPrices(30))
	assert.False(t, math.IsNaN(sr))
	assert.Greater(t, sr, 0.0)
}

func TestSupportResistance(t *testing.T) {
	svc := NewIndicatorService()

	support, resistance := svc.SupportResistance(pricesFromFloats(100, 80, 120, 90))
	require.Len(t, support, 2)
	require.Len(t, resistance, 2)

	assert.True(t, support[1].Equal(decimal.NewFromInt(80)))
	assert.True(t, support[0].Equal(decimal.NewFromInt(76))) // 80 * 0.95
	assert.True(t, resistance[0].Equal(decimal.NewFromInt(120)))
	assert.True(t, resistance[1].Equal(decimal.NewFromInt(126))) // 120 * 1.05
}

func TestTrend(t *testing.T) {
	svc := NewIndicatorService()

	tests := []struct {
		name                string
		price, sma20, sma50 float64
		want                string
	}{
		{"bullish", 110, 105, 100, "bullish"},
		{"bearish", 90, 95, 100, "bearish"},
		{"mixed", 110, 100, 105, "neutral"},
		{"flat", 100, 100, 100, "neutral"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := svc.Trend(
				decimal.NewFromFloat(tt.price),
				decimal.NewFromFloat(tt.sma20),
				decimal.NewFromFloat(tt.sma50),
			)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTrendStrength(t *testing.T) {
	svc := NewIndicatorService()

	// 20 日涨幅 19/100 = 19% → strong
	assert.Equal(t, "strong", svc.TrendStrength(risingPrices(20)))
	// 数据不足 → weak
	assert.Equal(t, "weak", svc.TrendStrength(risingPrices(10)))

	flat := make([]decimal.Decimal, 20)
	for i := range flat {
		flat[i] = decimal.NewFromInt(100)
	}
	assert.Equal(t, "weak", svc.TrendStrength(flat))
}

func TestRecommendation(t *testing.T) {
	svc := NewIndicatorService()

	tests := []struct {
		name              string
		rsi, price, sma20 float64
		want              string
	}{
		{"oversold above sma", 25, 105, 100, "BUY"},
		{"overbought below sma", 75, 95, 100, "SELL"},
		{"oversold below sma", 25, 95, 100, "HOLD"},
		{"neutral", 50, 100, 100, "HOLD"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := svc.Recommendation(
				decimal.NewFromFloat(tt.rsi),
				decimal.NewFromFloat(tt.price),
				decimal.NewFromFloat(tt.sma20),
			)
			assert.Equal(t, tt.want, got)
		})
	}
}

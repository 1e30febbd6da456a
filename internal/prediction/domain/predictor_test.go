package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(f float64) decimal.Decimal { return decimal.NewFromFloat(f) }

func TestPredictInsufficientData(t *testing.T) {
	closes := []decimal.Decimal{dec(100), dec(101), dec(102)}
	_, err := NewTrendPredictor().Predict(closes)
	assert.ErrorIs(t, err, ErrInsufficientData)
}

func TestPredictRisingTrend(t *testing.T) {
	// 每天上涨1, 近5日均值比前5日均值高5
	closes := make([]decimal.Decimal, 10)
	for i := range closes {
		closes[i] = dec(100 + float64(i))
	}

	f, err := NewTrendPredictor().Predict(closes)
	require.NoError(t, err)

	last := closes[len(closes)-1]
	assert.True(t, f.OneDay.GreaterThan(last), "1d forecast should extend the uptrend")
	assert.True(t, f.SevenDay.GreaterThan(f.OneDay))
	assert.True(t, f.ThirtyDay.GreaterThan(f.SevenDay))
	assert.True(t, f.SevenDay.Equal(last.Add(dec(5))), "7d forecast carries the full window delta")
	assert.Equal(t, 0.75, f.Confidence)
}

func TestPredictFallingTrendClampsAboveZero(t *testing.T) {
	closes := make([]decimal.Decimal, 10)
	for i := range closes {
		closes[i] = dec(10 - float64(i))
	}

	f, err := NewTrendPredictor().Predict(closes)
	require.NoError(t, err)

	floor := dec(0.01)
	assert.True(t, f.ThirtyDay.GreaterThanOrEqual(floor))
	assert.True(t, f.OneDay.LessThan(closes[len(closes)-1]))
}

func TestPredictFlatSeries(t *testing.T) {
	closes := make([]decimal.Decimal, 12)
	for i := range closes {
		closes[i] = dec(50)
	}

	f, err := NewTrendPredictor().Predict(closes)
	require.NoError(t, err)

	assert.True(t, f.OneDay.Equal(dec(50)))
	assert.True(t, f.ThirtyDay.Equal(dec(50)))
}

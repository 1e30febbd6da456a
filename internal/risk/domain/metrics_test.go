package domain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDailyReturns(t *testing.T) {
	returns := DailyReturns([]float64{100, 110, 99})
	require.Len(t, returns, 2)
	assert.InDelta(t, 0.10, returns[0], 1e-9)
	assert.InDelta(t, -0.10, returns[1], 1e-9)
}

func TestDailyReturnsTooShort(t *testing.T) {
	assert.Nil(t, DailyReturns([]float64{100}))
	assert.Nil(t, DailyReturns(nil))
}

func TestCalculateHistoricalMetricsInsufficientData(t *testing.T) {
	closes := make([]float64, minHistoryPoints-1)
	for i := range closes {
		closes[i] = 100
	}
	_, err := CalculateHistoricalMetrics(closes)
	assert.ErrorIs(t, err, ErrInsufficientData)
}

func TestCalculateHistoricalMetrics(t *testing.T) {
	closes := make([]float64, 100)
	for i := range closes {
		closes[i] = 100 + 10*math.Sin(float64(i)/5)
	}

	m, err := CalculateHistoricalMetrics(closes)
	require.NoError(t, err)

	assert.Greater(t, m.VolatilityAnnual, 0.0)
	assert.LessOrEqual(t, m.VaR95, 0.0)
	assert.LessOrEqual(t, m.VaR99, m.VaR95)
	assert.LessOrEqual(t, m.MaxDrawdown, 0.0)
	assert.GreaterOrEqual(t, m.RiskScore, 0.0)
	assert.LessOrEqual(t, m.RiskScore, 100.0)
}

func TestMaxDrawdown(t *testing.T) {
	tests := []struct {
		name   string
		closes []float64
		want   float64
	}{
		{"monotonic rise", []float64{100, 110, 120}, 0},
		{"half loss", []float64{100, 200, 100}, -0.5},
		{"recovered", []float64{100, 80, 120}, -0.2},
		{"empty", nil, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, MaxDrawdown(tt.closes), 1e-9)
		})
	}
}

func TestSkewnessSymmetric(t *testing.T) {
	// 对称分布偏度为零
	xs := []float64{-2, -1, 0, 1, 2}
	assert.InDelta(t, 0, skewness(xs), 1e-9)
}

func TestExcessKurtosisConstant(t *testing.T) {
	xs := []float64{5, 5, 5, 5}
	assert.Equal(t, 0.0, excessKurtosis(xs))
}

func TestSimulateVaR(t *testing.T) {
	result := SimulateVaR(MonteCarloInput{
		S:          100,
		Mu:         0.05,
		Sigma:      0.2,
		T:          1.0 / 252,
		Iterations: 5000,
		Steps:      1,
		Seed:       42,
	})

	v95, _ := result.VaR95.Float64()
	v99, _ := result.VaR99.Float64()
	es95, _ := result.ES95.Float64()

	// 日度 VaR 应为正且置信度越高损失越大
	assert.Greater(t, v95, 0.0)
	assert.Greater(t, v99, v95)
	assert.Greater(t, es95, v95)
}

func TestSimulateVaRDeterministicWithSeed(t *testing.T) {
	input := MonteCarloInput{S: 100, Mu: 0.05, Sigma: 0.2, T: 1.0 / 252, Iterations: 1000, Steps: 1, Seed: 7}
	a := SimulateVaR(input)
	b := SimulateVaR(input)
	assert.True(t, a.VaR95.Equal(b.VaR95))
	assert.True(t, a.ES99.Equal(b.ES99))
}

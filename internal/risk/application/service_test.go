package application

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	mddomain "github.com/wyfcoding/financialanalysis/internal/marketdata/domain"
	"github.com/wyfcoding/financialanalysis/internal/risk/domain"
)

// pathBarSource 按给定收盘价序列生成历史
type pathBarSource struct {
	closes []float64
}

func (s *pathBarSource) GetBars(_ context.Context, symbol string, limit int) ([]*mddomain.Bar, error) {
	closes := s.closes
	if limit < len(closes) {
		closes = closes[len(closes)-limit:]
	}
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	bars := make([]*mddomain.Bar, len(closes))
	for i, c := range closes {
		price := decimal.NewFromFloat(c)
		bars[i] = &mddomain.Bar{
			Symbol: symbol,
			Date:   start.AddDate(0, 0, i),
			Open:   price,
			High:   price,
			Low:    price,
			Close:  price,
			Volume: 1000,
		}
	}
	return bars, nil
}

// 交替涨跌2%的价格路径, 日波动率约2%
func alternatingCloses(n int) []float64 {
	closes := make([]float64, n)
	price := 100.0
	for i := range closes {
		closes[i] = price
		if i%2 == 0 {
			price *= 1.02
		} else {
			price *= 0.98
		}
	}
	return closes
}

func TestAssessAnnualHorizon(t *testing.T) {
	svc := NewRiskService(&pathBarSource{closes: alternatingCloses(250)}, nil, time.Minute)

	report, err := svc.Assess(context.Background(), "AAPL", 2000)
	require.NoError(t, err)
	require.NotNil(t, report.MonteCarlo)

	// 年化波动率约0.32时, 一年期 VaR95 应远超单日量级(约3%)
	assert.InDelta(t, 0.32, report.Historical.VolatilityAnnual, 0.05)
	assert.True(t, report.MonteCarlo.VaR95.GreaterThan(decimal.NewFromInt(15)),
		"one-year VaR95 too small: %s", report.MonteCarlo.VaR95)
	assert.True(t, report.MonteCarlo.VaR95.LessThan(decimal.NewFromInt(100)))
	assert.True(t, report.MonteCarlo.VaR99.GreaterThan(report.MonteCarlo.VaR95))
	assert.True(t, report.MonteCarlo.ES95.GreaterThan(report.MonteCarlo.VaR95))
}

func TestAssessWithoutHistory(t *testing.T) {
	svc := NewRiskService(&pathBarSource{}, nil, time.Minute)
	_, err := svc.Assess(context.Background(), "NOPE", 0)
	assert.ErrorIs(t, err, mddomain.ErrNotFound)
}

func TestAssessShortHistory(t *testing.T) {
	svc := NewRiskService(&pathBarSource{closes: alternatingCloses(10)}, nil, time.Minute)
	_, err := svc.Assess(context.Background(), "AAPL", 0)
	assert.ErrorIs(t, err, domain.ErrInsufficientData)
}

package application

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wyfcoding/financialanalysis/internal/analysis/domain"
	mddomain "github.com/wyfcoding/financialanalysis/internal/marketdata/domain"
	"github.com/wyfcoding/financialanalysis/pkg/metrics"
)

// syntheticBarSource 用确定性合成行情充当历史数据源
type syntheticBarSource struct {
	feed *mddomain.SyntheticFeed
	days int
}

func (s *syntheticBarSource) GetBars(_ context.Context, symbol string, limit int) ([]*mddomain.Bar, error) {
	days := s.days
	if limit < days {
		days = limit
	}
	return s.feed.GenerateHistory(symbol, time.Now().UTC(), days), nil
}

func newTestService(days int) *AnalysisService {
	source := &syntheticBarSource{feed: mddomain.NewSyntheticFeed(), days: days}
	return NewAnalysisService(source, nil, metrics.New("test"), time.Minute, 94.0)
}

func TestAnalyzeFullPayload(t *testing.T) {
	svc := newTestService(250)

	result, err := svc.Analyze(context.Background(), "aapl")
	require.NoError(t, err)

	assert.Equal(t, "AAPL", result.Symbol)
	assert.False(t, result.AnalysisDate.IsZero())

	ind := result.TechnicalIndicators
	assert.True(t, ind.RSI.GreaterThanOrEqual(decimal.Zero) && ind.RSI.LessThanOrEqual(decimal.NewFromInt(100)))
	assert.True(t, ind.SMA20.IsPositive())
	assert.True(t, ind.SMA50.IsPositive())
	assert.True(t, ind.BollingerUpper.GreaterThanOrEqual(ind.BollingerLower))
	assert.Greater(t, ind.Volatility, 0.0)
	assert.NotEmpty(t, ind.Trend)
	assert.NotEmpty(t, ind.Recommendation)

	assert.True(t, result.Predictions.OneDay.IsPositive())
	assert.True(t, result.Predictions.ThirtyDay.IsPositive())

	require.NotNil(t, result.RiskMetrics)
	assert.Greater(t, result.RiskMetrics.VolatilityAnnual, 0.0)

	assert.Equal(t, 0.94, result.Summary.Confidence)
	assert.Equal(t, ind.Trend, result.Summary.Trend)
}

func TestAnalyzeRequiresSymbol(t *testing.T) {
	svc := newTestService(250)
	_, err := svc.Analyze(context.Background(), "  ")
	assert.Error(t, err)
}

func TestAnalyzeShortHistoryDegrades(t *testing.T) {
	// 20-49日历史仍可分析, SMA50 退化为 SMA20
	svc := newTestService(20)

	result, err := svc.Analyze(context.Background(), "MSFT")
	require.NoError(t, err)
	assert.True(t, result.TechnicalIndicators.SMA50.Equal(result.TechnicalIndicators.SMA20))
	assert.True(t, result.TechnicalIndicators.RSI.GreaterThanOrEqual(decimal.Zero))
}

func TestAnalyzeBelowMinimumHistory(t *testing.T) {
	svc := newTestService(12)
	_, err := svc.Analyze(context.Background(), "MSFT")
	assert.ErrorIs(t, err, domain.ErrInsufficientData)
}

func TestAnalyzeWithoutHistory(t *testing.T) {
	svc := newTestService(0)
	_, err := svc.Analyze(context.Background(), "MSFT")
	assert.ErrorIs(t, err, mddomain.ErrNotFound)
}

func TestLatestSummaryProjection(t *testing.T) {
	svc := newTestService(250)

	raw, err := svc.LatestSummary(context.Background(), "GOOGL")
	require.NoError(t, err)

	summary, ok := raw.(*LatestSummaryDTO)
	require.True(t, ok)
	assert.Equal(t, 0.94, summary.ConfidenceScore)
	assert.True(t, summary.PredictedPrice1D.IsPositive())
	assert.Contains(t, summary.AnalysisNotes, "GOOGL")
}

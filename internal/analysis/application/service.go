package application

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/wyfcoding/financialanalysis/internal/analysis/domain"
	mddomain "github.com/wyfcoding/financialanalysis/internal/marketdata/domain"
	predictiondomain "github.com/wyfcoding/financialanalysis/internal/prediction/domain"
	riskdomain "github.com/wyfcoding/financialanalysis/internal/risk/domain"
	"github.com/wyfcoding/financialanalysis/pkg/cache"
	"github.com/wyfcoding/financialanalysis/pkg/logger"
	"github.com/wyfcoding/financialanalysis/pkg/metrics"
)

const analysisHistoryBars = 250

// BarSource 提供分析所需的历史K线, 由行情模块实现。
type BarSource interface {
	GetBars(ctx context.Context, symbol string, limit int) ([]*mddomain.Bar, error)
}

// AnalysisService 技术分析应用服务。
// 组合指标引擎、预测器与风险度量, 输出完整的分析结果并做缓存。
type AnalysisService struct {
	bars       BarSource
	indicators *domain.IndicatorService
	predictor  *predictiondomain.TrendPredictor
	cache      *cache.RedisCache
	metrics    *metrics.Metrics
	cacheTTL   time.Duration
	confidence float64
}

func NewAnalysisService(
	bars BarSource,
	cache *cache.RedisCache,
	m *metrics.Metrics,
	cacheTTL time.Duration,
	modelAccuracy float64,
) *AnalysisService {
	return &AnalysisService{
		bars:       bars,
		indicators: domain.NewIndicatorService(),
		predictor:  predictiondomain.NewTrendPredictor(),
		cache:      cache,
		metrics:    m,
		cacheTTL:   cacheTTL,
		confidence: modelAccuracy / 100,
	}
}

// Analyze 计算指定股票的完整技术分析, 命中缓存时直接返回。
func (s *AnalysisService) Analyze(ctx context.Context, symbol string) (*AnalysisDTO, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return nil, fmt.Errorf("symbol is required")
	}

	cacheKey := "analysis:" + symbol
	if s.cache != nil {
		var cached AnalysisDTO
		if hit, err := s.cache.GetJSON(ctx, cacheKey, &cached); err == nil && hit {
			s.metrics.CacheHitsTotal.Inc()
			return &cached, nil
		}
		s.metrics.CacheMissesTotal.Inc()
	}

	bars, err := s.bars.GetBars(ctx, symbol, analysisHistoryBars)
	if err != nil {
		return nil, fmt.Errorf("load bars for %s: %w", symbol, err)
	}
	if len(bars) == 0 {
		return nil, mddomain.ErrNotFound
	}

	result, err := s.compute(symbol, bars)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.SetJSON(ctx, cacheKey, result, s.cacheTTL); err != nil {
			logger.Warn(ctx, "cache analysis failed", "symbol", symbol, "error", err)
		}
	}
	s.metrics.AnalysesComputedTotal.Inc()
	return result, nil
}

// LatestSummary 返回股票详情页内嵌的分析摘要, 实现行情模块的 AnalysisProvider。
func (s *AnalysisService) LatestSummary(ctx context.Context, symbol string) (any, error) {
	full, err := s.Analyze(ctx, symbol)
	if err != nil {
		return nil, err
	}
	return &LatestSummaryDTO{
		AnalysisDate:      full.AnalysisDate,
		RSI:               full.TechnicalIndicators.RSI,
		MACD:              full.TechnicalIndicators.MACD,
		Volatility:        full.TechnicalIndicators.Volatility,
		SharpeRatio:       full.TechnicalIndicators.SharpeRatio,
		PredictedPrice1D:  full.Predictions.OneDay,
		PredictedPrice7D:  full.Predictions.SevenDay,
		PredictedPrice30D: full.Predictions.ThirtyDay,
		ConfidenceScore:   s.confidence,
		Recommendation:    full.TechnicalIndicators.Recommendation,
		AnalysisNotes: fmt.Sprintf("Technical analysis for %s: %s trend with %s strength",
			symbol, full.Summary.Trend, full.Summary.Strength),
	}, nil
}

const minAnalysisCloses = 20

func (s *AnalysisService) compute(symbol string, bars []*mddomain.Bar) (*AnalysisDTO, error) {
	if len(bars) < minAnalysisCloses {
		return nil, domain.ErrInsufficientData
	}

	closes := make([]decimal.Decimal, len(bars))
	closesF := make([]float64, len(bars))
	volumes := make([]decimal.Decimal, len(bars))
	for i, b := range bars {
		closes[i] = b.Close
		closesF[i], _ = b.Close.Float64()
		volumes[i] = decimal.NewFromInt(b.Volume)
	}

	rsi, err := s.indicators.CalculateRSI(closes, 14)
	if err != nil {
		return nil, err
	}
	macd, signal, histogram, err := s.indicators.CalculateMACD(closes, 12, 26, 9)
	if err != nil {
		return nil, err
	}
	sma20, err := s.indicators.CalculateSMA(closes, 20)
	if err != nil {
		return nil, err
	}
	// 历史不足50日时退化为20日均线
	sma50, err := s.indicators.CalculateSMA(closes, 50)
	if err != nil {
		sma50 = sma20
	}
	upper, _, lower, err := s.indicators.CalculateBollingerBands(closes, 20)
	if err != nil {
		return nil, err
	}
	momentum, err := s.indicators.CalculateMomentum(closes, 14)
	if err != nil {
		return nil, err
	}
	support, resistance := s.indicators.SupportResistance(closes)

	volatility := domain.AnnualizedVolatility(closes)
	sharpe := domain.SharpeRatio(closes)

	volumeRatio := 1.0
	if volSMA, err := s.indicators.CalculateSMA(volumes, 20); err == nil && !volSMA.IsZero() {
		volumeRatio, _ = volumes[len(volumes)-1].Div(volSMA).Float64()
	}

	trend := s.indicators.Trend(closes[len(closes)-1], sma20, sma50)
	strength := s.indicators.TrendStrength(closes)
	recommendation := s.indicators.Recommendation(rsi, closes[len(closes)-1], sma20)

	forecast, err := s.predictor.Predict(closes)
	if err != nil {
		return nil, err
	}

	result := &AnalysisDTO{
		Symbol:       symbol,
		AnalysisDate: time.Now().UTC(),
		TechnicalIndicators: IndicatorsDTO{
			RSI:              rsi,
			MACD:             macd,
			MACDSignal:       signal,
			MACDHistogram:    histogram,
			BollingerUpper:   upper,
			BollingerLower:   lower,
			SMA20:            sma20,
			SMA50:            sma50,
			Momentum:         momentum,
			Volatility:       volatility,
			SharpeRatio:      sharpe,
			VolumeRatio:      volumeRatio,
			SupportLevels:    support,
			ResistanceLevels: resistance,
			Trend:            trend,
			Strength:         strength,
			Recommendation:   recommendation,
		},
		Predictions: PredictionsDTO{
			OneDay:     forecast.OneDay,
			SevenDay:   forecast.SevenDay,
			ThirtyDay:  forecast.ThirtyDay,
			Confidence: forecast.Confidence,
		},
		Summary: SummaryDTO{
			Trend:          trend,
			Strength:       strength,
			Recommendation: recommendation,
			Confidence:     s.confidence,
		},
	}

	// 风险指标需要更长的历史, 数据不足时省略而非失败。
	if rm, err := riskdomain.CalculateHistoricalMetrics(closesF); err == nil {
		result.RiskMetrics = &RiskMetricsDTO{
			VolatilityAnnual: rm.VolatilityAnnual,
			VaR95:            rm.VaR95,
			VaR99:            rm.VaR99,
			MaxDrawdown:      rm.MaxDrawdown,
			Skewness:         rm.Skewness,
			Kurtosis:         rm.Kurtosis,
			RiskScore:        rm.RiskScore,
		}
	}

	return result, nil
}

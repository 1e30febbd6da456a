package application

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	mddomain "github.com/wyfcoding/financialanalysis/internal/marketdata/domain"
	"github.com/wyfcoding/financialanalysis/internal/prediction/domain"
	"github.com/wyfcoding/financialanalysis/pkg/cache"
	"github.com/wyfcoding/financialanalysis/pkg/logger"
	"github.com/wyfcoding/financialanalysis/pkg/metrics"
)

const (
	modelName             = "trend_following_v1"
	predictionHistoryBars = 60
)

// BarSource 提供预测所需的历史K线。
type BarSource interface {
	GetBars(ctx context.Context, symbol string, limit int) ([]*mddomain.Bar, error)
}

// HorizonDTO 单个期限的预测
type HorizonDTO struct {
	Horizon           string          `json:"horizon"`
	TargetDate        time.Time       `json:"target_date"`
	PredictedPrice    decimal.Decimal `json:"predicted_price"`
	ExpectedChangePct decimal.Decimal `json:"expected_change_pct"`
}

// ForecastDTO 预测响应
type ForecastDTO struct {
	Symbol       string          `json:"symbol"`
	CurrentPrice decimal.Decimal `json:"current_price"`
	GeneratedAt  time.Time       `json:"generated_at"`
	Predictions  []HorizonDTO    `json:"predictions"`
	Confidence   float64         `json:"confidence"`
	Model        ModelDTO        `json:"model"`
}

// ModelDTO 模型元信息
type ModelDTO struct {
	Name     string  `json:"name"`
	Accuracy float64 `json:"accuracy"`
}

// PredictionService 价格预测应用服务
type PredictionService struct {
	bars          BarSource
	repo          domain.PredictionRepository
	predictor     *domain.TrendPredictor
	cache         *cache.RedisCache
	metrics       *metrics.Metrics
	cacheTTL      time.Duration
	modelAccuracy float64
}

func NewPredictionService(
	bars BarSource,
	repo domain.PredictionRepository,
	cache *cache.RedisCache,
	m *metrics.Metrics,
	cacheTTL time.Duration,
	modelAccuracy float64,
) *PredictionService {
	return &PredictionService{
		bars:          bars,
		repo:          repo,
		predictor:     domain.NewTrendPredictor(),
		cache:         cache,
		metrics:       m,
		cacheTTL:      cacheTTL,
		modelAccuracy: modelAccuracy,
	}
}

// GetForecast 生成股票的多期限价格预测并持久化记录。
func (s *PredictionService) GetForecast(ctx context.Context, symbol string) (*ForecastDTO, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return nil, fmt.Errorf("symbol is required")
	}

	cacheKey := "prediction:" + symbol
	if s.cache != nil {
		var cached ForecastDTO
		if hit, err := s.cache.GetJSON(ctx, cacheKey, &cached); err == nil && hit {
			s.metrics.CacheHitsTotal.Inc()
			return &cached, nil
		}
		s.metrics.CacheMissesTotal.Inc()
	}

	bars, err := s.bars.GetBars(ctx, symbol, predictionHistoryBars)
	if err != nil {
		return nil, fmt.Errorf("load bars for %s: %w", symbol, err)
	}
	if len(bars) == 0 {
		return nil, mddomain.ErrNotFound
	}

	closes := make([]decimal.Decimal, len(bars))
	for i, b := range bars {
		closes[i] = b.Close
	}

	forecast, err := s.predictor.Predict(closes)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	current := closes[len(closes)-1]
	dto := &ForecastDTO{
		Symbol:       symbol,
		CurrentPrice: current,
		GeneratedAt:  now,
		Predictions: []HorizonDTO{
			horizonDTO("1d", now.AddDate(0, 0, 1), forecast.OneDay, current),
			horizonDTO("7d", now.AddDate(0, 0, 7), forecast.SevenDay, current),
			horizonDTO("30d", now.AddDate(0, 0, 30), forecast.ThirtyDay, current),
		},
		Confidence: forecast.Confidence,
		Model:      ModelDTO{Name: modelName, Accuracy: s.modelAccuracy},
	}

	if s.repo != nil {
		records := make([]*domain.Prediction, 0, len(dto.Predictions))
		for _, p := range dto.Predictions {
			records = append(records, &domain.Prediction{
				Symbol:         symbol,
				PredictionDate: now,
				Horizon:        p.Horizon,
				TargetDate:     p.TargetDate,
				PredictedPrice: p.PredictedPrice,
				Confidence:     forecast.Confidence,
				ModelName:      modelName,
			})
		}
		if err := s.repo.SaveBatch(ctx, records); err != nil {
			logger.Warn(ctx, "persist predictions failed", "symbol", symbol, "error", err)
		}
	}

	if s.cache != nil {
		if err := s.cache.SetJSON(ctx, cacheKey, dto, s.cacheTTL); err != nil {
			logger.Warn(ctx, "cache forecast failed", "symbol", symbol, "error", err)
		}
	}
	s.metrics.PredictionsServedTotal.Inc()
	return dto, nil
}

func horizonDTO(horizon string, target time.Time, predicted, current decimal.Decimal) HorizonDTO {
	changePct := decimal.Zero
	if !current.IsZero() {
		changePct = predicted.Sub(current).Div(current).Mul(decimal.NewFromInt(100)).Round(4)
	}
	return HorizonDTO{
		Horizon:           horizon,
		TargetDate:        target,
		PredictedPrice:    predicted.Round(4),
		ExpectedChangePct: changePct,
	}
}

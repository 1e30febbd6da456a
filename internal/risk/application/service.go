package application

import (
	"context"
	"fmt"
	"strings"
	"time"

	mddomain "github.com/wyfcoding/financialanalysis/internal/marketdata/domain"
	"github.com/wyfcoding/financialanalysis/internal/risk/domain"
	"github.com/wyfcoding/financialanalysis/pkg/cache"
	"github.com/wyfcoding/financialanalysis/pkg/logger"
)

const (
	defaultSimulations = 10000
	maxSimulations     = 100000
	riskHistoryBars    = 250

	// 蒙特卡洛按一年期模拟, 每个交易日一步
	mcHorizonYears = 1.0
	mcSteps        = 252
)

// BarSource 提供风险计算所需的历史K线。
type BarSource interface {
	GetBars(ctx context.Context, symbol string, limit int) ([]*mddomain.Bar, error)
}

// RiskReportDTO 风险评估响应
type RiskReportDTO struct {
	Symbol     string                   `json:"symbol"`
	AsOf       time.Time                `json:"as_of"`
	Historical *domain.Metrics          `json:"historical"`
	MonteCarlo *domain.MonteCarloResult `json:"monte_carlo"`
}

// RiskService 风险评估应用服务
type RiskService struct {
	bars     BarSource
	cache    *cache.RedisCache
	cacheTTL time.Duration
}

func NewRiskService(bars BarSource, cache *cache.RedisCache, cacheTTL time.Duration) *RiskService {
	return &RiskService{bars: bars, cache: cache, cacheTTL: cacheTTL}
}

// Assess 计算股票的历史风险指标与蒙特卡洛 VaR。
func (s *RiskService) Assess(ctx context.Context, symbol string, simulations int) (*RiskReportDTO, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return nil, fmt.Errorf("symbol is required")
	}
	if simulations <= 0 {
		simulations = defaultSimulations
	}
	if simulations > maxSimulations {
		simulations = maxSimulations
	}

	cacheKey := fmt.Sprintf("risk:%s:%d", symbol, simulations)
	if s.cache != nil {
		var cached RiskReportDTO
		if hit, err := s.cache.GetJSON(ctx, cacheKey, &cached); err == nil && hit {
			return &cached, nil
		}
	}

	bars, err := s.bars.GetBars(ctx, symbol, riskHistoryBars)
	if err != nil {
		return nil, fmt.Errorf("load bars for %s: %w", symbol, err)
	}
	if len(bars) == 0 {
		return nil, mddomain.ErrNotFound
	}

	closes := make([]float64, len(bars))
	for i, b := range bars {
		closes[i], _ = b.Close.Float64()
	}

	historical, err := domain.CalculateHistoricalMetrics(closes)
	if err != nil {
		return nil, err
	}

	returns := domain.DailyReturns(closes)
	mu := meanReturn(returns) * 252

	mc := domain.SimulateVaR(domain.MonteCarloInput{
		S:          closes[len(closes)-1],
		Mu:         mu,
		Sigma:      historical.VolatilityAnnual,
		T:          mcHorizonYears,
		Iterations: simulations,
		Steps:      mcSteps,
	})

	report := &RiskReportDTO{
		Symbol:     symbol,
		AsOf:       time.Now().UTC(),
		Historical: historical,
		MonteCarlo: mc,
	}

	if s.cache != nil {
		if err := s.cache.SetJSON(ctx, cacheKey, report, s.cacheTTL); err != nil {
			logger.Warn(ctx, "cache risk report failed", "symbol", symbol, "error", err)
		}
	}
	return report, nil
}

func meanReturn(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

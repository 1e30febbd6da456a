package application

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	mddomain "github.com/wyfcoding/financialanalysis/internal/marketdata/domain"
	"github.com/wyfcoding/financialanalysis/internal/portfolio/domain"
	riskdomain "github.com/wyfcoding/financialanalysis/internal/risk/domain"
	"github.com/wyfcoding/financialanalysis/pkg/logger"
)

const riskHistoryBars = 250

// PriceSource 提供持仓估值所需的行情。
type PriceSource interface {
	GetLatestBar(ctx context.Context, symbol string) (*mddomain.Bar, error)
	GetBars(ctx context.Context, symbol string, limit int) ([]*mddomain.Bar, error)
}

// PortfolioService 投资组合应用服务
type PortfolioService struct {
	repo   domain.PortfolioRepository
	prices PriceSource
}

func NewPortfolioService(repo domain.PortfolioRepository, prices PriceSource) *PortfolioService {
	return &PortfolioService{repo: repo, prices: prices}
}

// Create 创建一个空组合。
func (s *PortfolioService) Create(ctx context.Context, req CreatePortfolioRequest) (*PortfolioDTO, error) {
	portfolio := &domain.Portfolio{
		Name:        strings.TrimSpace(req.Name),
		Description: strings.TrimSpace(req.Description),
	}
	if portfolio.Name == "" {
		return nil, fmt.Errorf("portfolio name is required")
	}
	if err := s.repo.Create(ctx, portfolio); err != nil {
		return nil, err
	}
	return &PortfolioDTO{
		ID:          portfolio.ID,
		Name:        portfolio.Name,
		Description: portfolio.Description,
		CreatedAt:   portfolio.CreatedAt,
		Holdings:    []HoldingDTO{},
	}, nil
}

// List 返回全部组合的估值视图。
func (s *PortfolioService) List(ctx context.Context) ([]*PortfolioDTO, error) {
	portfolios, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	result := make([]*PortfolioDTO, 0, len(portfolios))
	for _, p := range portfolios {
		result = append(result, s.value(ctx, p))
	}
	return result, nil
}

// Get 返回组合的最新估值。
func (s *PortfolioService) Get(ctx context.Context, id uint) (*PortfolioDTO, error) {
	portfolio, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.value(ctx, portfolio), nil
}

// AddHolding 向组合添加持仓, 已有同一股票时按数量加权摊薄成本。
func (s *PortfolioService) AddHolding(ctx context.Context, portfolioID uint, req AddHoldingRequest) (*PortfolioDTO, error) {
	symbol := strings.ToUpper(strings.TrimSpace(req.Symbol))
	if symbol == "" {
		return nil, fmt.Errorf("symbol is required")
	}
	if req.Quantity.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("quantity must be positive")
	}
	if req.Price.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("price must be positive")
	}

	if _, err := s.repo.GetByID(ctx, portfolioID); err != nil {
		return nil, err
	}

	holding, err := s.repo.GetHolding(ctx, portfolioID, symbol)
	switch err {
	case nil:
		holding.Merge(req.Quantity, req.Price)
	case domain.ErrHoldingNotFound:
		holding = &domain.Holding{
			PortfolioID: portfolioID,
			Symbol:      symbol,
			Quantity:    req.Quantity,
			AvgCost:     req.Price,
		}
	default:
		return nil, err
	}

	if err := s.repo.SaveHolding(ctx, holding); err != nil {
		return nil, err
	}
	return s.Get(ctx, portfolioID)
}

// RemoveHolding 从组合中删除指定股票的持仓。
func (s *PortfolioService) RemoveHolding(ctx context.Context, portfolioID uint, symbol string) (*PortfolioDTO, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if err := s.repo.RemoveHolding(ctx, portfolioID, symbol); err != nil {
		return nil, err
	}
	return s.Get(ctx, portfolioID)
}

// AnalyzeRisk 计算组合的风险指标。
// 各持仓按权重聚合, 假设收益相互独立: sigma_p^2 = sum(w_i^2 * sigma_i^2)。
func (s *PortfolioService) AnalyzeRisk(ctx context.Context, portfolioID uint) (*PortfolioRiskDTO, error) {
	valued, err := s.Get(ctx, portfolioID)
	if err != nil {
		return nil, err
	}
	if len(valued.Holdings) == 0 {
		return nil, fmt.Errorf("portfolio %d has no holdings: %w", portfolioID, domain.ErrHoldingNotFound)
	}

	report := &PortfolioRiskDTO{
		PortfolioID: portfolioID,
		AsOf:        time.Now().UTC(),
		PerHolding:  make([]HoldingRiskDTO, 0, len(valued.Holdings)),
	}

	// 集中度取最大持仓权重
	for _, h := range valued.Holdings {
		if h.Weight > report.Concentration {
			report.Concentration = h.Weight
		}
	}

	var varianceSum, var95Sum, scoreSum float64
	for _, h := range valued.Holdings {
		bars, err := s.prices.GetBars(ctx, h.Symbol, riskHistoryBars)
		if err != nil {
			logger.Warn(ctx, "skip holding without history", "symbol", h.Symbol, "error", err)
			continue
		}
		closes := make([]float64, len(bars))
		for i, b := range bars {
			closes[i], _ = b.Close.Float64()
		}
		m, err := riskdomain.CalculateHistoricalMetrics(closes)
		if err != nil {
			logger.Warn(ctx, "skip holding with insufficient history", "symbol", h.Symbol, "error", err)
			continue
		}

		report.PerHolding = append(report.PerHolding, HoldingRiskDTO{
			Symbol:           h.Symbol,
			Weight:           h.Weight,
			VolatilityAnnual: m.VolatilityAnnual,
			VaR95:            m.VaR95,
		})
		varianceSum += h.Weight * h.Weight * m.VolatilityAnnual * m.VolatilityAnnual
		var95Sum += h.Weight * m.VaR95
		scoreSum += h.Weight * m.RiskScore
	}

	if len(report.PerHolding) == 0 {
		return nil, riskdomain.ErrInsufficientData
	}

	report.VolatilityAnnual = math.Sqrt(varianceSum)
	report.VaR95 = var95Sum
	report.RiskScore = scoreSum
	return report, nil
}

// value 用最新收盘价为组合估值, 缺少行情的持仓按成本计。
func (s *PortfolioService) value(ctx context.Context, p *domain.Portfolio) *PortfolioDTO {
	dto := &PortfolioDTO{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		CreatedAt:   p.CreatedAt,
		Holdings:    make([]HoldingDTO, 0, len(p.Holdings)),
		TotalValue:  decimal.Zero,
		TotalCost:   decimal.Zero,
	}

	for _, h := range p.Holdings {
		price := h.AvgCost
		if bar, err := s.prices.GetLatestBar(ctx, h.Symbol); err == nil {
			price = bar.Close
		} else {
			logger.Warn(ctx, "value holding at cost, no market data", "symbol", h.Symbol, "error", err)
		}

		marketValue := h.Quantity.Mul(price)
		costBasis := h.CostBasis()
		dto.Holdings = append(dto.Holdings, HoldingDTO{
			Symbol:        h.Symbol,
			Quantity:      h.Quantity,
			AvgCost:       h.AvgCost,
			CurrentPrice:  price,
			MarketValue:   marketValue,
			CostBasis:     costBasis,
			UnrealizedPnL: marketValue.Sub(costBasis),
		})
		dto.TotalValue = dto.TotalValue.Add(marketValue)
		dto.TotalCost = dto.TotalCost.Add(costBasis)
	}
	dto.UnrealizedPnL = dto.TotalValue.Sub(dto.TotalCost)

	if !dto.TotalValue.IsZero() {
		for i := range dto.Holdings {
			w, _ := dto.Holdings[i].MarketValue.Div(dto.TotalValue).Float64()
			dto.Holdings[i].Weight = w
		}
	}
	return dto
}

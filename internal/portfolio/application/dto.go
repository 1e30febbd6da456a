package application

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreatePortfolioRequest 创建组合请求
type CreatePortfolioRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

// AddHoldingRequest 添加持仓请求
type AddHoldingRequest struct {
	Symbol   string          `json:"symbol" binding:"required"`
	Quantity decimal.Decimal `json:"quantity" binding:"required"`
	Price    decimal.Decimal `json:"price" binding:"required"`
}

// HoldingDTO 估值后的持仓
type HoldingDTO struct {
	Symbol        string          `json:"symbol"`
	Quantity      decimal.Decimal `json:"quantity"`
	AvgCost       decimal.Decimal `json:"avg_cost"`
	CurrentPrice  decimal.Decimal `json:"current_price"`
	MarketValue   decimal.Decimal `json:"market_value"`
	CostBasis     decimal.Decimal `json:"cost_basis"`
	UnrealizedPnL decimal.Decimal `json:"unrealized_pnl"`
	Weight        float64         `json:"weight"`
}

// PortfolioDTO 估值后的组合
type PortfolioDTO struct {
	ID            uint            `json:"id"`
	Name          string          `json:"name"`
	Description   string          `json:"description"`
	CreatedAt     time.Time       `json:"created_at"`
	Holdings      []HoldingDTO    `json:"holdings"`
	TotalValue    decimal.Decimal `json:"total_value"`
	TotalCost     decimal.Decimal `json:"total_cost"`
	UnrealizedPnL decimal.Decimal `json:"unrealized_pnl"`
}

// PortfolioRiskDTO 组合风险分析
type PortfolioRiskDTO struct {
	PortfolioID      uint             `json:"portfolio_id"`
	AsOf             time.Time        `json:"as_of"`
	VolatilityAnnual float64          `json:"volatility_annual"`
	VaR95            float64          `json:"var_95"`
	RiskScore        float64          `json:"risk_score"`
	Concentration    float64          `json:"concentration"`
	PerHolding       []HoldingRiskDTO `json:"per_holding"`
}

// HoldingRiskDTO 单个持仓的风险贡献
type HoldingRiskDTO struct {
	Symbol           string  `json:"symbol"`
	Weight           float64 `json:"weight"`
	VolatilityAnnual float64 `json:"volatility_annual"`
	VaR95            float64 `json:"var_95"`
}

// Package domain 包含投资组合的领域模型
package domain

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	// ErrNotFound 组合或持仓不存在
	ErrNotFound = errors.New("portfolio not found")
	// ErrHoldingNotFound 指定持仓不存在
	ErrHoldingNotFound = errors.New("holding not found")
)

// Portfolio 投资组合聚合根
type Portfolio struct {
	gorm.Model
	Name        string    `gorm:"type:varchar(128);not null" json:"name"`
	Description string    `gorm:"type:varchar(512)" json:"description"`
	Holdings    []Holding `gorm:"foreignKey:PortfolioID;constraint:OnDelete:CASCADE" json:"holdings"`
}

func (Portfolio) TableName() string {
	return "portfolios"
}

// Holding 组合内的单个持仓
type Holding struct {
	gorm.Model
	PortfolioID uint            `gorm:"index:idx_holding_portfolio_symbol,unique;not null" json:"portfolio_id"`
	Symbol      string          `gorm:"type:varchar(16);index:idx_holding_portfolio_symbol,unique;not null" json:"symbol"`
	Quantity    decimal.Decimal `gorm:"type:decimal(18,6);not null" json:"quantity"`
	AvgCost     decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"avg_cost"`
}

func (Holding) TableName() string {
	return "holdings"
}

// CostBasis 持仓成本
func (h *Holding) CostBasis() decimal.Decimal {
	return h.Quantity.Mul(h.AvgCost)
}

// Merge 合并一笔新买入, 按数量加权摊薄成本。
func (h *Holding) Merge(quantity, price decimal.Decimal) {
	total := h.Quantity.Add(quantity)
	if total.IsZero() {
		h.Quantity = decimal.Zero
		return
	}
	h.AvgCost = h.CostBasis().Add(quantity.Mul(price)).Div(total)
	h.Quantity = total
}

// PortfolioRepository 投资组合仓储接口
type PortfolioRepository interface {
	Create(ctx context.Context, portfolio *Portfolio) error
	GetByID(ctx context.Context, id uint) (*Portfolio, error)
	List(ctx context.Context) ([]*Portfolio, error)
	SaveHolding(ctx context.Context, holding *Holding) error
	GetHolding(ctx context.Context, portfolioID uint, symbol string) (*Holding, error)
	RemoveHolding(ctx context.Context, portfolioID uint, symbol string) error
}

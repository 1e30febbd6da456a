package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/wyfcoding/financialanalysis/internal/portfolio/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// portfolioRepository 投资组合的PostgreSQL实现
type portfolioRepository struct {
	db *gorm.DB
}

func NewPortfolioRepository(db *gorm.DB) domain.PortfolioRepository {
	return &portfolioRepository{db: db}
}

func (r *portfolioRepository) Create(ctx context.Context, portfolio *domain.Portfolio) error {
	if err := r.db.WithContext(ctx).Create(portfolio).Error; err != nil {
		return fmt.Errorf("create portfolio: %w", err)
	}
	return nil
}

func (r *portfolioRepository) GetByID(ctx context.Context, id uint) (*domain.Portfolio, error) {
	var portfolio domain.Portfolio
	err := r.db.WithContext(ctx).
		Preload("Holdings").
		First(&portfolio, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get portfolio %d: %w", id, err)
	}
	return &portfolio, nil
}

func (r *portfolioRepository) List(ctx context.Context) ([]*domain.Portfolio, error) {
	var portfolios []*domain.Portfolio
	err := r.db.WithContext(ctx).
		Preload("Holdings").
		Order("id ASC").
		Find(&portfolios).Error
	if err != nil {
		return nil, fmt.Errorf("list portfolios: %w", err)
	}
	return portfolios, nil
}

func (r *portfolioRepository) SaveHolding(ctx context.Context, holding *domain.Holding) error {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "portfolio_id"}, {Name: "symbol"}},
			DoUpdates: clause.AssignmentColumns([]string{"quantity", "avg_cost", "updated_at"}),
		}).
		Create(holding).Error
	if err != nil {
		return fmt.Errorf("save holding: %w", err)
	}
	return nil
}

func (r *portfolioRepository) GetHolding(ctx context.Context, portfolioID uint, symbol string) (*domain.Holding, error) {
	var holding domain.Holding
	err := r.db.WithContext(ctx).
		Where("portfolio_id = ? AND symbol = ?", portfolioID, symbol).
		First(&holding).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrHoldingNotFound
		}
		return nil, fmt.Errorf("get holding %s: %w", symbol, err)
	}
	return &holding, nil
}

func (r *portfolioRepository) RemoveHolding(ctx context.Context, portfolioID uint, symbol string) error {
	result := r.db.WithContext(ctx).
		Where("portfolio_id = ? AND symbol = ?", portfolioID, symbol).
		Delete(&domain.Holding{})
	if result.Error != nil {
		return fmt.Errorf("remove holding %s: %w", symbol, result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrHoldingNotFound
	}
	return nil
}

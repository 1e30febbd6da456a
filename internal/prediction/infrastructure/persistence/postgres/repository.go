package postgres

import (
	"context"
	"fmt"

	"github.com/wyfcoding/financialanalysis/internal/prediction/domain"
	"gorm.io/gorm"
)

// predictionRepository 预测记录的PostgreSQL实现
type predictionRepository struct {
	db *gorm.DB
}

func NewPredictionRepository(db *gorm.DB) domain.PredictionRepository {
	return &predictionRepository{db: db}
}

func (r *predictionRepository) SaveBatch(ctx context.Context, predictions []*domain.Prediction) error {
	if len(predictions) == 0 {
		return nil
	}
	if err := r.db.WithContext(ctx).Create(&predictions).Error; err != nil {
		return fmt.Errorf("save predictions: %w", err)
	}
	return nil
}

func (r *predictionRepository) GetLatest(ctx context.Context, symbol string) ([]*domain.Prediction, error) {
	sub := r.db.Model(&domain.Prediction{}).
		Select("MAX(prediction_date)").
		Where("symbol = ?", symbol)

	var predictions []*domain.Prediction
	err := r.db.WithContext(ctx).
		Where("symbol = ? AND prediction_date = (?)", symbol, sub).
		Order("target_date ASC").
		Find(&predictions).Error
	if err != nil {
		return nil, fmt.Errorf("get latest predictions: %w", err)
	}
	return predictions, nil
}

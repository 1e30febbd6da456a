package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Prediction 持久化的单条预测记录
type Prediction struct {
	gorm.Model
	Symbol         string          `gorm:"type:varchar(16);index:idx_prediction_symbol_date;not null" json:"symbol"`
	PredictionDate time.Time       `gorm:"index:idx_prediction_symbol_date;not null" json:"prediction_date"`
	Horizon        string          `gorm:"type:varchar(8);not null" json:"horizon"`
	TargetDate     time.Time       `gorm:"not null" json:"target_date"`
	PredictedPrice decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"predicted_price"`
	Confidence     float64         `gorm:"not null" json:"confidence"`
	ModelName      string          `gorm:"type:varchar(64);not null" json:"model_name"`
}

func (Prediction) TableName() string {
	return "predictions"
}

// ModelMetric 预测模型的离线评估指标
type ModelMetric struct {
	gorm.Model
	ModelName   string    `gorm:"type:varchar(64);uniqueIndex;not null" json:"model_name"`
	Accuracy    float64   `gorm:"not null" json:"accuracy"`
	MAE         float64   `gorm:"column:mae" json:"mae"`
	EvaluatedAt time.Time `json:"evaluated_at"`
}

func (ModelMetric) TableName() string {
	return "model_metrics"
}

// PredictionRepository 预测记录仓储接口
type PredictionRepository interface {
	SaveBatch(ctx context.Context, predictions []*Prediction) error
	GetLatest(ctx context.Context, symbol string) ([]*Prediction, error)
}

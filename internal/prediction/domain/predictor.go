// Package domain 包含价格预测的领域模型
package domain

import (
	"errors"

	"github.com/shopspring/decimal"
)

// ErrInsufficientData 历史数据不足以生成预测
var ErrInsufficientData = errors.New("insufficient data for prediction")

// 短期与前期均值窗口
const trendWindow = 5

// Forecast 各期限的预测价格
type Forecast struct {
	OneDay     decimal.Decimal
	SevenDay   decimal.Decimal
	ThirtyDay  decimal.Decimal
	Confidence float64
}

// TrendPredictor 趋势跟随预测器。
// 用近期均值与前期均值之差作为日度漂移, 按期限放大。
type TrendPredictor struct {
	confidence float64
}

func NewTrendPredictor() *TrendPredictor {
	return &TrendPredictor{confidence: 0.75}
}

// Predict 基于收盘价序列生成 1/7/30 日预测。
func (p *TrendPredictor) Predict(closes []decimal.Decimal) (*Forecast, error) {
	if len(closes) < trendWindow*2 {
		return nil, ErrInsufficientData
	}

	recent := windowMean(closes[len(closes)-trendWindow:])
	prior := windowMean(closes[len(closes)-trendWindow*2 : len(closes)-trendWindow])
	delta := recent.Sub(prior)
	last := closes[len(closes)-1]

	return &Forecast{
		OneDay:     clampPrice(last.Add(delta.Mul(decimal.NewFromFloat(0.2)))),
		SevenDay:   clampPrice(last.Add(delta)),
		ThirtyDay:  clampPrice(last.Add(delta.Mul(decimal.NewFromInt(3)))),
		Confidence: p.confidence,
	}, nil
}

func windowMean(xs []decimal.Decimal) decimal.Decimal {
	sum := decimal.Zero
	for _, x := range xs {
		sum = sum.Add(x)
	}
	return sum.Div(decimal.NewFromInt(int64(len(xs))))
}

// clampPrice 预测价格不允许为零或负。
func clampPrice(p decimal.Decimal) decimal.Decimal {
	floor := decimal.NewFromFloat(0.01)
	if p.LessThan(floor) {
		return floor
	}
	return p
}

// Package domain 包含风险度量的领域模型
package domain

import (
	"errors"
	"math"
	"sort"
)

// ErrInsufficientData 历史数据不足以计算风险指标
var ErrInsufficientData = errors.New("insufficient data for risk metrics")

// 历史法风险度量至少需要的收盘价数量
const minHistoryPoints = 30

// Metrics 基于历史收益分布的风险指标
type Metrics struct {
	VolatilityAnnual float64 `json:"volatility_annual"`
	VaR95            float64 `json:"var_95"`
	VaR99            float64 `json:"var_99"`
	MaxDrawdown      float64 `json:"max_drawdown"`
	Skewness         float64 `json:"skewness"`
	Kurtosis         float64 `json:"kurtosis"`
	RiskScore        float64 `json:"risk_score"`
}

// DailyReturns 计算相邻收盘价的简单收益率
func DailyReturns(closes []float64) []float64 {
	if len(closes) < 2 {
		return nil
	}
	returns := make([]float64, 0, len(closes)-1)
	for i := 1; i < len(closes); i++ {
		if closes[i-1] == 0 {
			continue
		}
		returns = append(returns, (closes[i]-closes[i-1])/closes[i-1])
	}
	return returns
}

// CalculateHistoricalMetrics 用历史模拟法计算风险指标。
// VaR 取日收益分布的分位数, 回撤基于价格序列的滚动峰值。
func CalculateHistoricalMetrics(closes []float64) (*Metrics, error) {
	if len(closes) < minHistoryPoints {
		return nil, ErrInsufficientData
	}

	returns := DailyReturns(closes)
	if len(returns) < 2 {
		return nil, ErrInsufficientData
	}

	vol := stddev(returns) * math.Sqrt(252)
	var95 := percentile(returns, 0.05)
	var99 := percentile(returns, 0.01)
	mdd := MaxDrawdown(closes)
	skew := skewness(returns)
	kurt := excessKurtosis(returns)

	score := math.Min(vol*100, 50) +
		math.Min(math.Abs(mdd)*100, 30) +
		math.Min(math.Abs(var95)*100, 20)

	return &Metrics{
		VolatilityAnnual: vol,
		VaR95:            var95,
		VaR99:            var99,
		MaxDrawdown:      mdd,
		Skewness:         skew,
		Kurtosis:         kurt,
		RiskScore:        score,
	}, nil
}

// MaxDrawdown 计算相对历史峰值的最大回撤, 返回负数或零。
func MaxDrawdown(closes []float64) float64 {
	if len(closes) == 0 {
		return 0
	}
	peak := closes[0]
	maxDD := 0.0
	for _, c := range closes {
		if c > peak {
			peak = c
		}
		if peak > 0 {
			dd := (c - peak) / peak
			if dd < maxDD {
				maxDD = dd
			}
		}
	}
	return maxDD
}

// percentile 返回样本的 p 分位数, p 取 [0,1]。
func percentile(xs []float64, p float64) float64 {
	sorted := make([]float64, len(xs))
	copy(sorted, xs)
	sort.Float64s(sorted)

	idx := int(p * float64(len(sorted)))
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}

func skewness(xs []float64) float64 {
	n := float64(len(xs))
	m := mean(xs)
	sd := stddev(xs)
	if sd == 0 || n == 0 {
		return 0
	}
	var sum float64
	for _, x := range xs {
		d := (x - m) / sd
		sum += d * d * d
	}
	return sum / n
}

// excessKurtosis 超额峰度, 正态分布为0。
func excessKurtosis(xs []float64) float64 {
	n := float64(len(xs))
	m := mean(xs)
	sd := stddev(xs)
	if sd == 0 || n == 0 {
		return 0
	}
	var sum float64
	for _, x := range xs {
		d := (x - m) / sd
		sum += d * d * d * d
	}
	return sum/n - 3
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

func stddev(xs []float64) float64 {
	if len(xs) < 2 {
		return 0
	}
	m := mean(xs)
	var sum float64
	for _, x := range xs {
		d := x - m
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(xs)-1))
}

// Package domain 技术分析模块的指标计算领域服务
package domain

import (
	"errors"
	"math"

	"github.com/shopspring/decimal"
)

// ErrInsufficientData 数据点不足以计算指标
var ErrInsufficientData = errors.New("analysis: insufficient data points")

// IndicatorService 指标计算服务
// 价格序列按时间升序排列（最新的在最后）
type IndicatorService struct{}

// NewIndicatorService 创建指标计算服务实例
func NewIndicatorService() *IndicatorService {
	return &IndicatorService{}
}

// CalculateRSI 计算相对强弱指数 (Relative Strength Index)
// period: 计算周期，通常为 14
// 返回: RSI 值 (0-100)
func (s *IndicatorService) CalculateRSI(prices []decimal.Decimal, period int) (decimal.Decimal, error) {
	if period <= 0 {
		return decimal.Zero, errors.New("analysis: invalid RSI period")
	}
	if len(prices) < period+1 {
		return decimal.Zero, ErrInsufficientData
	}

	gains := decimal.Zero
	losses := decimal.Zero

	// 初始平均涨跌幅
	for i := 1; i <= period; i++ {
		change := prices[i].Sub(prices[i-1])
		if change.GreaterThan(decimal.Zero) {
			gains = gains.Add(change)
		} else {
			losses = losses.Add(change.Abs())
		}
	}

	p := decimal.NewFromInt(int64(period))
	avgGain := gains.Div(p)
	avgLoss := losses.Div(p)

	// Wilder 平滑法
	for i := period + 1; i < len(prices); i++ {
		change := prices[i].Sub(prices[i-1])
		currentGain := decimal.Zero
		currentLoss := decimal.Zero
		if change.GreaterThan(decimal.Zero) {
			currentGain = change
		} else {
			currentLoss = change.Abs()
		}

		avgGain = avgGain.Mul(p.Sub(decimal.NewFromInt(1))).Add(currentGain).Div(p)
		avgLoss = avgLoss.Mul(p.Sub(decimal.NewFromInt(1))).Add(currentLoss).Div(p)
	}

	if avgLoss.IsZero() {
		return decimal.NewFromInt(100), nil
	}

	rs := avgGain.Div(avgLoss)
	hundred := decimal.NewFromInt(100)
	return hundred.Sub(hundred.Div(decimal.NewFromInt(1).Add(rs))), nil
}

// CalculateMACD 计算移动平均收敛散度
// fastPeriod/slowPeriod/signalPeriod 通常为 12/26/9
// EMA 以首价为种子, 短序列也能给出收敛前的估计值
// 返回: macdLine, signalLine, histogram
func (s *IndicatorService) CalculateMACD(prices []decimal.Decimal, fastPeriod, slowPeriod, signalPeriod int) (decimal.Decimal, decimal.Decimal, decimal.Decimal, error) {
	if len(prices) < 2 {
		return decimal.Zero, decimal.Zero, decimal.Zero, ErrInsufficientData
	}

	fastEMAs := CalculateEMASeries(prices, fastPeriod)
	slowEMAs := CalculateEMASeries(prices, slowPeriod)

	macdSeries := make([]decimal.Decimal, len(prices))
	for i := range prices {
		macdSeries[i] = fastEMAs[i].Sub(slowEMAs[i])
	}
	signalSeries := CalculateEMASeries(macdSeries, signalPeriod)

	macdLine := macdSeries[len(prices)-1]
	signalLine := signalSeries[len(signalSeries)-1]
	histogram := macdLine.Sub(signalLine)

	return macdLine, signalLine, histogram, nil
}

// CalculateSMA 计算简单移动平均（最后 period 个点）
func (s *IndicatorService) CalculateSMA(prices []decimal.Decimal, period int) (decimal.Decimal, error) {
	if period <= 0 || len(prices) < period {
		return decimal.Zero, ErrInsufficientData
	}

	sum := decimal.Zero
	for _, p := range prices[len(prices)-period:] {
		sum = sum.Add(p)
	}
	return sum.Div(decimal.NewFromInt(int64(period))), nil
}

// CalculateEMA 计算指数移动平均，仅返回最后一个值
func CalculateEMA(prices []decimal.Decimal, period int) decimal.Decimal {
	series := CalculateEMASeries(prices, period)
	if len(series) == 0 {
		return decimal.Zero
	}
	return series[len(series)-1]
}

// CalculateEMASeries 计算 EMA 序列，初始值取第一个价格
func CalculateEMASeries(prices []decimal.Decimal, period int) []decimal.Decimal {
	if len(prices) == 0 {
		return nil
	}

	series := make([]decimal.Decimal, len(prices))
	k := decimal.NewFromFloat(2.0 / float64(period+1))
	series[0] = prices[0]

	for i := 1; i < len(prices); i++ {
		// EMA = Price(t) * k + EMA(t-1) * (1 - k)
		series[i] = prices[i].Mul(k).Add(series[i-1].Mul(decimal.NewFromInt(1).Sub(k)))
	}
	return series
}

// CalculateBollingerBands 计算布林带（period 周期，±2σ）
// 返回: upper, middle, lower
func (s *IndicatorService) CalculateBollingerBands(prices []decimal.Decimal, period int) (decimal.Decimal, decimal.Decimal, decimal.Decimal, error) {
	middle, err := s.CalculateSMA(prices, period)
	if err != nil {
		return decimal.Zero, decimal.Zero, decimal.Zero, err
	}

	window := prices[len(prices)-period:]
	mean := middle.InexactFloat64()
	var variance float64
	for _, p := range window {
		d := p.InexactFloat64() - mean
		variance += d * d
	}
	std := math.Sqrt(variance / float64(period))
	band := decimal.NewFromFloat(std * 2)

	return middle.Add(band), middle, middle.Sub(band), nil
}

// CalculateMomentum 计算动量指标 p[t] - p[t-period]
func (s *IndicatorService) CalculateMomentum(prices []decimal.Decimal, period int) (decimal.Decimal, error) {
	if len(prices) < period+1 {
		return decimal.Zero, ErrInsufficientData
	}
	last := len(prices) - 1
	return prices[last].Sub(prices[last-period]), nil
}

// Returns 计算简单收益率序列
func Returns(prices []decimal.Decimal) []float64 {
	if len(prices) < 2 {
		return nil
	}
	rets := make([]float64, 0, len(prices)-1)
	for i := 1; i < len(prices); i++ {
		prev := prices[i-1].InexactFloat64()
		if prev == 0 {
			rets = append(rets, 0)
			continue
		}
		rets = append(rets, (prices[i].InexactFloat64()-prev)/prev)
	}
	return rets
}

// AnnualizedVolatility 年化波动率：收益率标准差 × √252
func AnnualizedVolatility(prices []decimal.Decimal) float64 {
	rets := Returns(prices)
	if len(rets) == 0 {
		return 0
	}
	return stddev(rets) * math.Sqrt(252)
}

// SharpeRatio 简化夏普比率：mean/std × √252，std 为 0 时返回 0
func SharpeRatio(prices []decimal.Decimal) float64 {
	rets := Returns(prices)
	if len(rets) == 0 {
		return 0
	}
	std := stddev(rets)
	if std == 0 {
		return 0
	}
	return mean(rets) / std * math.Sqrt(252)
}

// SupportResistance 支撑/阻力位：取最近 50 个收盘价的最小/最大值及 ±5% 边界
func (s *IndicatorService) SupportResistance(prices []decimal.Decimal) (support, resistance []decimal.Decimal) {
	window := prices
	if len(prices) > 50 {
		window = prices[len(prices)-50:]
	}
	if len(window) == 0 {
		return nil, nil
	}

	low := window[0]
	high := window[0]
	for _, p := range window[1:] {
		if p.LessThan(low) {
			low = p
		}
		if p.GreaterThan(high) {
			high = p
		}
	}

	support = []decimal.Decimal{low.Mul(decimal.NewFromFloat(0.95)), low}
	resistance = []decimal.Decimal{high, high.Mul(decimal.NewFromFloat(1.05))}
	return support, resistance
}

// Trend 判定趋势：价格 > SMA20 > SMA50 为 bullish，反向为 bearish，其余 neutral
func (s *IndicatorService) Trend(price, sma20, sma50 decimal.Decimal) string {
	switch {
	case price.GreaterThan(sma20) && sma20.GreaterThan(sma50):
		return "bullish"
	case price.LessThan(sma20) && sma20.LessThan(sma50):
		return "bearish"
	default:
		return "neutral"
	}
}

// TrendStrength 趋势强度：20 日涨跌幅绝对值 >10% strong，>5% moderate，否则 weak
func (s *IndicatorService) TrendStrength(prices []decimal.Decimal) string {
	if len(prices) < 20 {
		return "weak"
	}

	last := len(prices) - 1
	ref := prices[last-19]
	if ref.IsZero() {
		return "weak"
	}
	change := prices[last].Sub(ref).Div(ref).Abs()

	switch {
	case change.GreaterThan(decimal.NewFromFloat(0.1)):
		return "strong"
	case change.GreaterThan(decimal.NewFromFloat(0.05)):
		return "moderate"
	default:
		return "weak"
	}
}

// Recommendation 生成买卖建议：RSI<30 且价格在 SMA20 上方为 BUY，RSI>70 且价格在 SMA20 下方为 SELL
func (s *IndicatorService) Recommendation(rsi, price, sma20 decimal.Decimal) string {
	switch {
	case rsi.LessThan(decimal.NewFromInt(30)) && price.GreaterThan(sma20):
		return "BUY"
	case rsi.GreaterThan(decimal.NewFromInt(70)) && price.LessThan(sma20):
		return "SELL"
	default:
		return "HOLD"
	}
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
	if len(xs) == 0 {
		return 0
	}
	m := mean(xs)
	var variance float64
	for _, x := range xs {
		d := x - m
		variance += d * d
	}
	return math.Sqrt(variance / float64(len(xs)))
}

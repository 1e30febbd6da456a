package domain

import (
	"math"
	"math/rand"
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// MonteCarloInput 蒙特卡洛模拟输入参数
// 用于计算 VaR 和 ES
type MonteCarloInput struct {
	S          float64 // 当前价格
	Mu         float64 // 预期年化收益率
	Sigma      float64 // 年化波动率
	T          float64 // 时间跨度 (年)
	Iterations int     // 模拟次数 (例如 10000)
	Steps      int     // 时间步数 (例如 252)
	Seed       int64   // 随机种子, 0 表示按当前时间
}

// MonteCarloResult 蒙特卡洛模拟输出结果
type MonteCarloResult struct {
	VaR95 decimal.Decimal `json:"var_95"`
	VaR99 decimal.Decimal `json:"var_99"`
	ES95  decimal.Decimal `json:"es_95"`
	ES99  decimal.Decimal `json:"es_99"`
}

// SimulateVaR 使用蒙特卡洛模拟计算 VaR 与预期亏损。
// 价格路径服从几何布朗运动: S(t+dt) = S(t) * exp((mu - sigma^2/2)dt + sigma*sqrt(dt)*Z)
func SimulateVaR(input MonteCarloInput) *MonteCarloResult {
	seed := input.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	r := rand.New(rand.NewSource(seed))

	dt := input.T / float64(input.Steps)
	pnl := make([]float64, input.Iterations)

	for i := 0; i < input.Iterations; i++ {
		price := input.S
		for j := 0; j < input.Steps; j++ {
			z := r.NormFloat64()
			price *= math.Exp((input.Mu-0.5*input.Sigma*input.Sigma)*dt + input.Sigma*math.Sqrt(dt)*z)
		}
		pnl[i] = price - input.S
	}

	sort.Float64s(pnl)

	// VaR 表示为正的损失金额
	idx95 := int(float64(input.Iterations) * 0.05)
	idx99 := int(float64(input.Iterations) * 0.01)
	if idx99 < 1 {
		idx99 = 1
	}
	if idx95 < 1 {
		idx95 = 1
	}

	var95 := -pnl[idx95]
	var99 := -pnl[idx99]

	// ES 是超过 VaR 的损失的平均值
	var sumTail95, sumTail99 float64
	for i := 0; i < idx95; i++ {
		sumTail95 += pnl[i]
	}
	for i := 0; i < idx99; i++ {
		sumTail99 += pnl[i]
	}

	return &MonteCarloResult{
		VaR95: decimal.NewFromFloat(var95),
		VaR99: decimal.NewFromFloat(var99),
		ES95:  decimal.NewFromFloat(-sumTail95 / float64(idx95)),
		ES99:  decimal.NewFromFloat(-sumTail99 / float64(idx99)),
	}
}

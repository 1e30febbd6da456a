package application

import (
	"time"

	"github.com/shopspring/decimal"
)

// IndicatorsDTO 技术指标集合
type IndicatorsDTO struct {
	RSI              decimal.Decimal   `json:"rsi"`
	MACD             decimal.Decimal   `json:"macd"`
	MACDSignal       decimal.Decimal   `json:"macd_signal"`
	MACDHistogram    decimal.Decimal   `json:"macd_histogram"`
	BollingerUpper   decimal.Decimal   `json:"bollinger_upper"`
	BollingerLower   decimal.Decimal   `json:"bollinger_lower"`
	SMA20            decimal.Decimal   `json:"sma_20"`
	SMA50            decimal.Decimal   `json:"sma_50"`
	Momentum         decimal.Decimal   `json:"momentum"`
	Volatility       float64           `json:"volatility"`
	SharpeRatio      float64           `json:"sharpe_ratio"`
	VolumeRatio      float64           `json:"volume_ratio"`
	SupportLevels    []decimal.Decimal `json:"support_levels"`
	ResistanceLevels []decimal.Decimal `json:"resistance_levels"`
	Trend            string            `json:"trend"`
	Strength         string            `json:"strength"`
	Recommendation   string            `json:"recommendation"`
}

// RiskMetricsDTO 风险指标
type RiskMetricsDTO struct {
	VolatilityAnnual float64 `json:"volatility_annual"`
	VaR95            float64 `json:"var_95"`
	VaR99            float64 `json:"var_99"`
	MaxDrawdown      float64 `json:"max_drawdown"`
	Skewness         float64 `json:"skewness"`
	Kurtosis         float64 `json:"kurtosis"`
	RiskScore        float64 `json:"risk_score"`
}

// PredictionsDTO 各期限预测价格
type PredictionsDTO struct {
	OneDay     decimal.Decimal `json:"1d"`
	SevenDay   decimal.Decimal `json:"7d"`
	ThirtyDay  decimal.Decimal `json:"30d"`
	Confidence float64         `json:"confidence"`
}

// SummaryDTO 分析结论摘要
type SummaryDTO struct {
	Trend          string  `json:"trend"`
	Strength       string  `json:"strength"`
	Recommendation string  `json:"recommendation"`
	Confidence     float64 `json:"confidence"`
}

// AnalysisDTO 完整技术分析响应
type AnalysisDTO struct {
	Symbol              string          `json:"symbol"`
	AnalysisDate        time.Time       `json:"analysis_date"`
	TechnicalIndicators IndicatorsDTO   `json:"technical_indicators"`
	Predictions         PredictionsDTO  `json:"predictions"`
	RiskMetrics         *RiskMetricsDTO `json:"risk_metrics,omitempty"`
	Summary             SummaryDTO      `json:"summary"`
}

// LatestSummaryDTO 股票详情中内嵌的分析摘要
type LatestSummaryDTO struct {
	AnalysisDate      time.Time       `json:"analysis_date"`
	RSI               decimal.Decimal `json:"rsi"`
	MACD              decimal.Decimal `json:"macd"`
	Volatility        float64         `json:"volatility"`
	SharpeRatio       float64         `json:"sharpe_ratio"`
	PredictedPrice1D  decimal.Decimal `json:"predicted_price_1d"`
	PredictedPrice7D  decimal.Decimal `json:"predicted_price_7d"`
	PredictedPrice30D decimal.Decimal `json:"predicted_price_30d"`
	ConfidenceScore   float64         `json:"confidence_score"`
	Recommendation    string          `json:"recommendation"`
	AnalysisNotes     string          `json:"analysis_notes"`
}

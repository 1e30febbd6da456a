package domain

import "github.com/shopspring/decimal"

// ReferenceSymbols 覆盖的大盘股代码集合
var ReferenceSymbols = []string{
	"AAPL", "MSFT", "GOOGL", "AMZN", "NVDA", "META", "TSLA", "BRK.B", "UNH", "JNJ",
	"JPM", "V", "PG", "HD", "CVX", "MA", "PFE", "ABBV", "BAC", "KO",
	"AVGO", "PEP", "COST", "TMO", "MRK", "ACN", "WMT", "DIS", "ABT", "CRM",
	"VZ", "ADBE", "NFLX", "NKE", "CMCSA", "DHR", "TXN", "NEE", "BMY", "PM",
	"RTX", "QCOM", "HON", "UPS", "T", "SBUX", "MDT", "LOW", "IBM", "AMT",
}

// Sectors GICS 板块列表
var Sectors = []string{
	"Technology", "Healthcare", "Financials", "Consumer Discretionary",
	"Communication Services", "Industrials", "Consumer Staples",
	"Energy", "Utilities", "Real Estate", "Materials",
}

type companyInfo struct {
	Name     string
	Sector   string
	Industry string
}

// knownCompanies 已知公司的静态信息，未覆盖的代码使用兜底值
var knownCompanies = map[string]companyInfo{
	"AAPL":  {"Apple Inc.", "Technology", "Consumer Electronics"},
	"MSFT":  {"Microsoft Corporation", "Technology", "Software"},
	"GOOGL": {"Alphabet Inc.", "Technology", "Internet"},
	"AMZN":  {"Amazon.com Inc.", "Consumer Discretionary", "E-commerce"},
	"NVDA":  {"NVIDIA Corporation", "Technology", "Semiconductors"},
	"META":  {"Meta Platforms Inc.", "Communication Services", "Internet"},
	"TSLA":  {"Tesla Inc.", "Consumer Discretionary", "Electric Vehicles"},
	"BRK.B": {"Berkshire Hathaway Inc.", "Financials", "Insurance"},
	"UNH":   {"UnitedHealth Group Inc.", "Healthcare", "Managed Care"},
	"JNJ":   {"Johnson & Johnson", "Healthcare", "Pharmaceuticals"},
	"JPM":   {"JPMorgan Chase & Co.", "Financials", "Banks"},
	"V":     {"Visa Inc.", "Financials", "Payments"},
	"PG":    {"Procter & Gamble Co.", "Consumer Staples", "Household Products"},
	"HD":    {"Home Depot Inc.", "Consumer Discretionary", "Home Improvement"},
	"CVX":   {"Chevron Corporation", "Energy", "Oil & Gas"},
	"MA":    {"Mastercard Inc.", "Financials", "Payments"},
	"PFE":   {"Pfizer Inc.", "Healthcare", "Pharmaceuticals"},
	"ABBV":  {"AbbVie Inc.", "Healthcare", "Pharmaceuticals"},
	"BAC":   {"Bank of America Corp.", "Financials", "Banks"},
	"KO":    {"Coca-Cola Co.", "Consumer Staples", "Beverages"},
}

// CompanyName 返回代码对应的公司名称，未知代码返回 "<SYM> Inc." 兜底
func CompanyName(symbol string) string {
	if info, ok := knownCompanies[symbol]; ok {
		return info.Name
	}
	return symbol + " Inc."
}

// NewReferenceStock 构造参考股票实体，未知代码使用兜底板块/行业
func NewReferenceStock(symbol string) *Stock {
	info, ok := knownCompanies[symbol]
	if !ok {
		info = companyInfo{Name: symbol + " Inc.", Sector: "Technology", Industry: "Software"}
	}
	return &Stock{
		Symbol:    symbol,
		Name:      info.Name,
		Exchange:  "NASDAQ",
		Sector:    info.Sector,
		Industry:  info.Industry,
		MarketCap: decimal.Zero,
	}
}

package application

import (
	"context"
	"errors"
	"fmt"

	"github.com/wyfcoding/financialanalysis/internal/marketdata/domain"
	"github.com/wyfcoding/financialanalysis/pkg/logger"
)

// 支持的图表周期到天数的映射，仅日线粒度
var chartPeriods = map[string]int{
	"1d":  1,
	"5d":  5,
	"1mo": 30,
	"3mo": 90,
	"6mo": 180,
	"1y":  365,
}

// ErrInvalidPeriod 不支持的图表周期
var ErrInvalidPeriod = errors.New("marketdata: invalid chart period")

// ErrInvalidInterval 不支持的图表粒度
var ErrInvalidInterval = errors.New("marketdata: invalid chart interval")

// AnalysisProvider 为股票详情提供最新分析摘要。
// 由分析模块实现，查询失败时详情退化为不含分析的响应。
type AnalysisProvider interface {
	LatestSummary(ctx context.Context, symbol string) (any, error)
}

// MarketDataQueryService 行情读服务
type MarketDataQueryService struct {
	stocks   domain.StockRepository
	bars     domain.BarRepository
	barRead  domain.BarReadRepository
	analysis AnalysisProvider
}

// NewMarketDataQueryService 构造函数，analysis 可为 nil
func NewMarketDataQueryService(
	stocks domain.StockRepository,
	bars domain.BarRepository,
	barRead domain.BarReadRepository,
	analysis AnalysisProvider,
) *MarketDataQueryService {
	return &MarketDataQueryService{
		stocks:   stocks,
		bars:     bars,
		barRead:  barRead,
		analysis: analysis,
	}
}

// SetAnalysisProvider 注入分析摘要提供方（启动期装配用）
func (s *MarketDataQueryService) SetAnalysisProvider(p AnalysisProvider) {
	s.analysis = p
}

// Search 按代码或名称搜索股票
func (s *MarketDataQueryService) Search(ctx context.Context, query string, limit int) (*SearchResultDTO, error) {
	if limit <= 0 {
		limit = 10
	}
	if limit > 50 {
		limit = 50
	}

	stocks, err := s.stocks.Search(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("stock search failed: %w", err)
	}

	results := make([]StockDTO, len(stocks))
	for i, st := range stocks {
		results[i] = toStockDTO(st)
	}
	return &SearchResultDTO{
		Query:      query,
		Results:    results,
		TotalFound: len(results),
	}, nil
}

// GetDetail 股票详情：基础信息 + 最新行情 + 最新分析摘要 + 可选历史
func (s *MarketDataQueryService) GetDetail(ctx context.Context, symbol string, includeHistory bool, historyDays int) (*StockDetailDTO, error) {
	if historyDays <= 0 {
		historyDays = 30
	}
	if historyDays > 365 {
		historyDays = 365
	}

	stock, err := s.stocks.GetBySymbol(ctx, symbol)
	if err != nil {
		return nil, err
	}

	latest, err := s.latestBar(ctx, symbol)
	if err != nil {
		return nil, err
	}

	detail := &StockDetailDTO{
		StockDTO:    toStockDTO(stock),
		LatestPrice: toBarDTO(latest),
	}

	if s.analysis != nil {
		summary, err := s.analysis.LatestSummary(ctx, symbol)
		if err != nil {
			logger.Warn(ctx, "analysis summary unavailable", "symbol", symbol, "error", err)
		} else {
			detail.LatestAnalysis = summary
		}
	}

	if includeHistory {
		bars, err := s.GetBars(ctx, symbol, historyDays)
		if err != nil {
			return nil, err
		}
		history := make([]BarDTO, len(bars))
		for i, b := range bars {
			history[i] = *toBarDTO(b)
		}
		detail.PriceHistory = history
	}

	return detail, nil
}

// GetChart 图表数据
func (s *MarketDataQueryService) GetChart(ctx context.Context, symbol, period, interval string) (*ChartDTO, error) {
	days, ok := chartPeriods[period]
	if !ok {
		return nil, ErrInvalidPeriod
	}
	if interval != "1d" {
		return nil, ErrInvalidInterval
	}

	bars, err := s.GetBars(ctx, symbol, days)
	if err != nil {
		return nil, err
	}
	if len(bars) == 0 {
		return nil, domain.ErrNotFound
	}

	chart := &ChartDTO{
		Symbol:   symbol,
		Period:   period,
		Interval: interval,
		Data:     make([]ChartPointDTO, len(bars)),
	}
	for i, b := range bars {
		chart.Data[i] = ChartPointDTO{
			Timestamp: b.Date.Format("2006-01-02T15:04:05Z07:00"),
			Open:      b.Open,
			High:      b.High,
			Low:       b.Low,
			Close:     b.Close,
			Volume:    b.Volume,
		}
	}
	return chart, nil
}

// GetBars 读穿缓存获取最近 limit 条日线（升序返回）
func (s *MarketDataQueryService) GetBars(ctx context.Context, symbol string, limit int) ([]*domain.Bar, error) {
	if s.barRead != nil {
		if cached, err := s.barRead.GetRange(ctx, symbol, limit); err == nil && len(cached) > 0 {
			return cached, nil
		}
	}

	bars, err := s.bars.GetBars(ctx, symbol, limit)
	if err != nil {
		return nil, err
	}

	// 仓储按日期倒序返回，这里翻转成升序供指标计算使用
	for i, j := 0, len(bars)-1; i < j; i, j = i+1, j-1 {
		bars[i], bars[j] = bars[j], bars[i]
	}

	if s.barRead != nil && len(bars) > 0 {
		if err := s.barRead.SaveRange(ctx, symbol, limit, bars); err != nil {
			logger.Warn(ctx, "failed to cache bar range", "symbol", symbol, "error", err)
		}
	}
	return bars, nil
}

// GetLatestBar 读穿缓存获取最新日线
func (s *MarketDataQueryService) GetLatestBar(ctx context.Context, symbol string) (*domain.Bar, error) {
	return s.latestBar(ctx, symbol)
}

func (s *MarketDataQueryService) latestBar(ctx context.Context, symbol string) (*domain.Bar, error) {
	if s.barRead != nil {
		if cached, err := s.barRead.GetLatest(ctx, symbol); err == nil && cached != nil {
			return cached, nil
		}
	}

	bar, err := s.bars.GetLatestBar(ctx, symbol)
	if err != nil {
		return nil, err
	}
	if s.barRead != nil {
		if err := s.barRead.SaveLatest(ctx, bar); err != nil {
			logger.Warn(ctx, "failed to cache latest bar", "symbol", symbol, "error", err)
		}
	}
	return bar, nil
}

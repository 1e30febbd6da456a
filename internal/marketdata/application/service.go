// Package application 行情模块的应用服务：写路径（ingest/seed）与读路径（query）
package application

import (
	"context"
	"fmt"
	"time"

	"github.com/wyfcoding/financialanalysis/internal/marketdata/domain"
	"github.com/wyfcoding/financialanalysis/pkg/logger"
	"github.com/wyfcoding/financialanalysis/pkg/metrics"
)

// MarketDataService 行情写服务：行情入库、参考代码初始化、合成数据回填
type MarketDataService struct {
	stocks  domain.StockRepository
	bars    domain.BarRepository
	barRead domain.BarReadRepository
	feed    *domain.SyntheticFeed
	metrics *metrics.Metrics
}

// NewMarketDataService 构造函数
func NewMarketDataService(
	stocks domain.StockRepository,
	bars domain.BarRepository,
	barRead domain.BarReadRepository,
	feed *domain.SyntheticFeed,
	m *metrics.Metrics,
) *MarketDataService {
	return &MarketDataService{
		stocks:  stocks,
		bars:    bars,
		barRead: barRead,
		feed:    feed,
		metrics: m,
	}
}

// SeedReferenceStocks 初始化参考股票集合，幂等
func (s *MarketDataService) SeedReferenceStocks(ctx context.Context) error {
	defer logger.LogDuration(ctx, "reference stocks seeded", "count", len(domain.ReferenceSymbols))()

	for _, symbol := range domain.ReferenceSymbols {
		if err := s.stocks.Save(ctx, domain.NewReferenceStock(symbol)); err != nil {
			return fmt.Errorf("failed to seed stock %s: %w", symbol, err)
		}
	}
	return nil
}

// IngestBar 处理一条行情事件：入库并刷新缓存
func (s *MarketDataService) IngestBar(ctx context.Context, event *domain.BarEvent) error {
	if event.Symbol == "" {
		return fmt.Errorf("bar event missing symbol")
	}
	if !event.Close.IsPositive() {
		return fmt.Errorf("bar event for %s has non-positive close", event.Symbol)
	}

	bar := event.ToBar()
	if err := s.bars.SaveBar(ctx, bar); err != nil {
		return fmt.Errorf("failed to save bar for %s: %w", event.Symbol, err)
	}

	if s.metrics != nil {
		s.metrics.BarsIngestedTotal.Inc()
	}

	// 缓存失败不影响入库
	if s.barRead != nil {
		if err := s.barRead.SaveLatest(ctx, bar); err != nil {
			logger.Warn(ctx, "failed to cache latest bar", "symbol", bar.Symbol, "error", err)
		}
	}
	return nil
}

// Backfill 用合成数据源为所有参考代码回填 days 天历史
func (s *MarketDataService) Backfill(ctx context.Context, days int) error {
	defer logger.LogDuration(ctx, "history backfilled", "days", days)()

	end := time.Now()
	for _, symbol := range domain.ReferenceSymbols {
		bars := s.feed.GenerateHistory(symbol, end, days)
		if err := s.bars.SaveBars(ctx, bars); err != nil {
			return fmt.Errorf("failed to backfill %s: %w", symbol, err)
		}
	}
	return nil
}

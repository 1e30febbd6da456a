package application

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/shopspring/decimal"
	mddomain "github.com/wyfcoding/financialanalysis/internal/marketdata/domain"
	"github.com/wyfcoding/financialanalysis/internal/overview/domain"
	redisrepo "github.com/wyfcoding/financialanalysis/internal/overview/infrastructure/persistence/redis"
	"github.com/wyfcoding/financialanalysis/pkg/logger"
	"github.com/wyfcoding/financialanalysis/pkg/metrics"
	"golang.org/x/sync/singleflight"
)

// ErrNotReady 首次刷新完成前没有可用快照
var ErrNotReady = errors.New("market overview data not yet available")

// BarSource 提供快照聚合所需的最新行情。
type BarSource interface {
	GetBars(ctx context.Context, symbol string, limit int) ([]*mddomain.Bar, error)
}

// OverviewService 大盘全景应用服务。
// 后台定时刷新快照, 写入Redis并保留内存副本兜底。
type OverviewService struct {
	bars      BarSource
	snapshots *redisrepo.SnapshotRepository
	metrics   *metrics.Metrics
	interval  time.Duration

	group   singleflight.Group
	current atomic.Pointer[domain.Snapshot]
}

func NewOverviewService(
	bars BarSource,
	snapshots *redisrepo.SnapshotRepository,
	m *metrics.Metrics,
	interval time.Duration,
) *OverviewService {
	return &OverviewService{
		bars:      bars,
		snapshots: snapshots,
		metrics:   m,
		interval:  interval,
	}
}

// Run 启动后台刷新循环, 先立即刷新一次, 之后按固定间隔执行直到 ctx 取消。
func (s *OverviewService) Run(ctx context.Context) error {
	if err := s.Refresh(ctx); err != nil {
		logger.Warn(ctx, "initial overview refresh failed", "error", err)
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := s.Refresh(ctx); err != nil {
				logger.Error(ctx, "overview refresh failed", "error", err)
			}
		}
	}
}

// Refresh 重建快照。并发调用合并为一次执行。
func (s *OverviewService) Refresh(ctx context.Context) error {
	_, err, _ := s.group.Do("refresh", func() (any, error) {
		snapshot := domain.BuildSnapshot(s.collectMovers(ctx), time.Now().UTC())
		s.current.Store(snapshot)

		if s.snapshots != nil {
			if err := s.snapshots.Save(ctx, snapshot); err != nil {
				logger.Warn(ctx, "persist overview snapshot failed", "error", err)
			}
		}
		s.metrics.OverviewRefreshesTotal.Inc()
		s.metrics.OverviewLastRefresh.SetToCurrentTime()
		logger.Info(ctx, "market overview refreshed",
			"symbols", snapshot.Summary.TotalSymbols,
			"trend", snapshot.Summary.MarketTrend)
		return nil, nil
	})
	return err
}

// GetSnapshot 返回当前快照, 优先内存副本, 其次Redis。
func (s *OverviewService) GetSnapshot(ctx context.Context) (*domain.Snapshot, error) {
	if snapshot := s.current.Load(); snapshot != nil {
		return snapshot, nil
	}
	if s.snapshots != nil {
		if snapshot, hit, err := s.snapshots.Get(ctx); err == nil && hit {
			s.current.Store(snapshot)
			return snapshot, nil
		}
	}
	return nil, ErrNotReady
}

// MarketSummary 返回大盘摘要, 供分析模块的市场全景接口使用。
func (s *OverviewService) MarketSummary(ctx context.Context) (any, error) {
	snapshot, err := s.GetSnapshot(ctx)
	if err != nil {
		return nil, err
	}
	return &snapshot.Summary, nil
}

func (s *OverviewService) collectMovers(ctx context.Context) []domain.Mover {
	movers := make([]domain.Mover, 0, len(mddomain.ReferenceSymbols))
	for _, symbol := range mddomain.ReferenceSymbols {
		bars, err := s.bars.GetBars(ctx, symbol, 2)
		if err != nil || len(bars) == 0 {
			continue
		}

		latest := bars[len(bars)-1]
		change := decimal.Zero
		changePct := decimal.Zero
		if len(bars) > 1 && !bars[0].Close.IsZero() {
			change = latest.Close.Sub(bars[0].Close)
			changePct = change.Div(bars[0].Close).Mul(decimal.NewFromInt(100)).Round(4)
		}

		ref := mddomain.NewReferenceStock(symbol)
		movers = append(movers, domain.Mover{
			Symbol:    symbol,
			Name:      ref.Name,
			Price:     latest.Close,
			Change:    change,
			ChangePct: changePct,
			Volume:    latest.Volume,
			Sector:    ref.Sector,
		})
	}
	return movers
}

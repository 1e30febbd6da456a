package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/wyfcoding/financialanalysis/internal/marketdata/domain"
	"github.com/wyfcoding/financialanalysis/pkg/config"
	"github.com/wyfcoding/financialanalysis/pkg/logger"
	"github.com/wyfcoding/financialanalysis/pkg/mq"
)

var (
	configPath   = flag.String("config", "configs/config.toml", "config file path")
	backfillDays = flag.Int("backfill", 365, "days of history to publish on startup, 0 to skip")
)

// collector 周期性地为参考股票集合发布日线行情事件。
func main() {
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}
	if err := logger.Init(cfg.Logger); err != nil {
		panic(fmt.Sprintf("failed to init logger: %v", err))
	}

	producer := mq.NewProducer(mq.Config{
		Brokers:      cfg.Kafka.Brokers,
		MaxRetries:   cfg.Kafka.MaxRetries,
		RetryBackoff: cfg.Kafka.RetryBackoff,
	})
	defer producer.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		slog.Info("collector shutting down...")
		cancel()
	}()

	feed := domain.NewSyntheticFeed()
	now := time.Now().UTC().Truncate(24 * time.Hour)
	// 路径起点固定, 之后每个交易日的单条日线与整段历史一致
	seriesStart := now.AddDate(0, 0, -(*backfillDays - 1))

	if *backfillDays > 0 {
		if err := publishHistory(ctx, producer, feed, cfg.Kafka.BarsTopic, now, *backfillDays); err != nil {
			slog.Error("backfill failed", "error", err)
			os.Exit(1)
		}
	}

	interval := time.Duration(cfg.Market.CollectInterval) * time.Second
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	slog.Info("collector started", "symbols", len(domain.ReferenceSymbols), "interval", interval)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			date := time.Now().UTC().Truncate(24 * time.Hour)
			if err := publishDay(ctx, producer, feed, cfg.Kafka.BarsTopic, seriesStart, date); err != nil {
				slog.Error("publish bars failed", "error", err)
			}
		}
	}
}

func publishHistory(ctx context.Context, producer *mq.Producer, feed *domain.SyntheticFeed, topic string, end time.Time, days int) error {
	defer logger.LogDuration(ctx, "history published", "days", days)()

	for _, symbol := range domain.ReferenceSymbols {
		bars := feed.GenerateHistory(symbol, end, days)
		keys := make([]string, len(bars))
		values := make([]any, len(bars))
		for i, bar := range bars {
			keys[i] = symbol
			values[i] = domain.NewBarEvent(bar, feed.Source())
		}
		if err := producer.SendBatch(ctx, topic, keys, values); err != nil {
			return fmt.Errorf("publish history for %s: %w", symbol, err)
		}
	}
	return nil
}

func publishDay(ctx context.Context, producer *mq.Producer, feed *domain.SyntheticFeed, topic string, start, date time.Time) error {
	for _, symbol := range domain.ReferenceSymbols {
		bar := feed.GenerateBar(symbol, start, date)
		if bar == nil {
			continue
		}
		if err := producer.Send(ctx, topic, symbol, domain.NewBarEvent(bar, feed.Source())); err != nil {
			return fmt.Errorf("publish bar for %s: %w", symbol, err)
		}
	}
	logger.Debug(ctx, "daily bars published", "date", date.Format("2006-01-02"))
	return nil
}

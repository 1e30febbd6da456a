package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	analysisapp "github.com/wyfcoding/financialanalysis/internal/analysis/application"
	analysishttp "github.com/wyfcoding/financialanalysis/internal/analysis/interfaces/http"
	mdapp "github.com/wyfcoding/financialanalysis/internal/marketdata/application"
	mddomain "github.com/wyfcoding/financialanalysis/internal/marketdata/domain"
	mdpostgres "github.com/wyfcoding/financialanalysis/internal/marketdata/infrastructure/persistence/postgres"
	mdredis "github.com/wyfcoding/financialanalysis/internal/marketdata/infrastructure/persistence/redis"
	mdconsumer "github.com/wyfcoding/financialanalysis/internal/marketdata/interfaces/consumer"
	mdhttp "github.com/wyfcoding/financialanalysis/internal/marketdata/interfaces/http"
	overviewapp "github.com/wyfcoding/financialanalysis/internal/overview/application"
	overviewredis "github.com/wyfcoding/financialanalysis/internal/overview/infrastructure/persistence/redis"
	overviewhttp "github.com/wyfcoding/financialanalysis/internal/overview/interfaces/http"
	portfolioapp "github.com/wyfcoding/financialanalysis/internal/portfolio/application"
	portfoliodomain "github.com/wyfcoding/financialanalysis/internal/portfolio/domain"
	portfoliopostgres "github.com/wyfcoding/financialanalysis/internal/portfolio/infrastructure/persistence/postgres"
	portfoliohttp "github.com/wyfcoding/financialanalysis/internal/portfolio/interfaces/http"
	predictionapp "github.com/wyfcoding/financialanalysis/internal/prediction/application"
	predictiondomain "github.com/wyfcoding/financialanalysis/internal/prediction/domain"
	predictionpostgres "github.com/wyfcoding/financialanalysis/internal/prediction/infrastructure/persistence/postgres"
	predictionhttp "github.com/wyfcoding/financialanalysis/internal/prediction/interfaces/http"
	riskapp "github.com/wyfcoding/financialanalysis/internal/risk/application"
	riskhttp "github.com/wyfcoding/financialanalysis/internal/risk/interfaces/http"
	watchlistapp "github.com/wyfcoding/financialanalysis/internal/watchlist/application"
	watchlistdomain "github.com/wyfcoding/financialanalysis/internal/watchlist/domain"
	watchlistpostgres "github.com/wyfcoding/financialanalysis/internal/watchlist/infrastructure/persistence/postgres"
	watchlisthttp "github.com/wyfcoding/financialanalysis/internal/watchlist/interfaces/http"
	"github.com/wyfcoding/financialanalysis/internal/web"
	"github.com/wyfcoding/financialanalysis/pkg/cache"
	"github.com/wyfcoding/financialanalysis/pkg/config"
	"github.com/wyfcoding/financialanalysis/pkg/db"
	"github.com/wyfcoding/financialanalysis/pkg/logger"
	"github.com/wyfcoding/financialanalysis/pkg/metrics"
	"github.com/wyfcoding/financialanalysis/pkg/middleware"
	"github.com/wyfcoding/financialanalysis/pkg/mq"
	"golang.org/x/sync/errgroup"
)

var configPath = flag.String("config", "configs/config.toml", "config file path")

func main() {
	flag.Parse()

	// 1. Config
	cfg, err := config.Load(*configPath)
	if err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}

	// 2. Logger
	if err := logger.Init(cfg.Logger); err != nil {
		panic(fmt.Sprintf("failed to init logger: %v", err))
	}

	// 3. Metrics
	m := metrics.New(cfg.ServiceName)
	if cfg.Metrics.Enabled {
		go m.ExposeHTTP(cfg.Metrics.Port, cfg.Metrics.Path)
	}

	// 4. Database
	database, err := db.Init(db.Config{
		DSN:                cfg.Database.DSN,
		MaxOpenConns:       cfg.Database.MaxOpenConns,
		MaxIdleConns:       cfg.Database.MaxIdleConns,
		ConnMaxLifetime:    cfg.Database.ConnMaxLifetime,
		LogEnabled:         cfg.Database.LogEnabled,
		SlowQueryThreshold: cfg.Database.SlowQueryThreshold,
	})
	if err != nil {
		slog.Error("failed to connect database", "error", err)
		os.Exit(1)
	}
	defer database.Close()

	// Auto Migrate
	if cfg.Environment == "dev" {
		err := database.AutoMigrate(
			&mddomain.Stock{},
			&mddomain.Bar{},
			&predictiondomain.Prediction{},
			&predictiondomain.ModelMetric{},
			&portfoliodomain.Portfolio{},
			&portfoliodomain.Holding{},
			&watchlistdomain.Entry{},
		)
		if err != nil {
			slog.Error("failed to migrate database", "error", err)
		}
	}

	// 5. Redis
	redisCache, err := cache.New(cache.Config{
		Host:         cfg.Redis.Host,
		Port:         cfg.Redis.Port,
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		MaxPoolSize:  cfg.Redis.MaxPoolSize,
		ReadTimeout:  cfg.Redis.ReadTimeout,
		WriteTimeout: cfg.Redis.WriteTimeout,
	})
	if err != nil {
		slog.Error("failed to connect redis", "error", err)
		os.Exit(1)
	}
	defer redisCache.Close()

	cacheTTL := time.Duration(cfg.Market.CacheTTL) * time.Second

	// 6. Repositories
	stockRepo := mdpostgres.NewStockRepository(database.DB)
	barRepo := mdpostgres.NewBarRepository(database.DB)
	barCache := mdredis.NewBarCacheRepository(redisCache, cacheTTL)
	predictionRepo := predictionpostgres.NewPredictionRepository(database.DB)
	portfolioRepo := portfoliopostgres.NewPortfolioRepository(database.DB)
	watchlistRepo := watchlistpostgres.NewWatchlistRepository(database.DB)
	snapshotRepo := overviewredis.NewSnapshotRepository(redisCache, 2*time.Duration(cfg.Market.OverviewRefreshInterval)*time.Second)

	// 7. Application services
	feed := mddomain.NewSyntheticFeed()
	mdService := mdapp.NewMarketDataService(stockRepo, barRepo, barCache, feed, m)
	mdQuery := mdapp.NewMarketDataQueryService(stockRepo, barRepo, barCache, nil)

	analysisService := analysisapp.NewAnalysisService(mdQuery, redisCache, m, cacheTTL, cfg.Market.ModelAccuracy)
	mdQuery.SetAnalysisProvider(analysisService)

	riskService := riskapp.NewRiskService(mdQuery, redisCache, cacheTTL)
	predictionService := predictionapp.NewPredictionService(mdQuery, predictionRepo, redisCache, m, cacheTTL, cfg.Market.ModelAccuracy)
	portfolioService := portfolioapp.NewPortfolioService(portfolioRepo, mdQuery)
	watchlistService := watchlistapp.NewWatchlistService(watchlistRepo, mdQuery)
	overviewService := overviewapp.NewOverviewService(mdQuery, snapshotRepo, m,
		time.Duration(cfg.Market.OverviewRefreshInterval)*time.Second)

	ctx := context.Background()
	if err := mdService.SeedReferenceStocks(ctx); err != nil {
		slog.Error("failed to seed reference stocks", "error", err)
		os.Exit(1)
	}

	// 8. HTTP server
	gin.SetMode(gin.ReleaseMode)
	if cfg.Environment == "dev" {
		gin.SetMode(gin.DebugMode)
	}
	r := gin.New()
	r.Use(middleware.Recovery(), middleware.Logging(), middleware.CORS(), middleware.Metrics(m))

	web.NewHandler(cfg.ServiceName, cfg.Version).RegisterRoutes(r)

	api := r.Group("/api")
	mdhttp.NewMarketDataHandler(mdQuery).RegisterRoutes(api)
	analysishttp.NewAnalysisHandler(analysisService, overviewService).RegisterRoutes(api)
	riskhttp.NewRiskHandler(riskService).RegisterRoutes(api)
	predictionhttp.NewPredictionHandler(predictionService).RegisterRoutes(api)
	portfoliohttp.NewPortfolioHandler(portfolioService).RegisterRoutes(api)
	watchlisthttp.NewWatchlistHandler(watchlistService).RegisterRoutes(api)
	overviewhttp.NewOverviewHandler(overviewService).RegisterRoutes(api)

	// 9. Start
	g, ctx := errgroup.WithContext(ctx)
	srvCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeout) * time.Second,
	}

	g.Go(func() error {
		slog.Info("HTTP server starting", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})

	// 大盘快照后台刷新
	g.Go(func() error {
		if err := overviewService.Run(srvCtx); err != nil && err != context.Canceled {
			return err
		}
		return nil
	})

	// Kafka 行情消费
	consumer := mq.NewConsumer(mq.Config{
		Brokers:      cfg.Kafka.Brokers,
		GroupID:      cfg.Kafka.GroupID,
		MaxRetries:   cfg.Kafka.MaxRetries,
		RetryBackoff: cfg.Kafka.RetryBackoff,
	}, cfg.Kafka.BarsTopic)
	defer consumer.Close()

	g.Go(func() error {
		handler := mdconsumer.NewBarEventHandler(mdService)
		if err := handler.Subscribe(srvCtx, consumer); err != nil && err != context.Canceled {
			return err
		}
		return nil
	})

	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		select {
		case <-quit:
			slog.Info("shutting down server...")
		case <-ctx.Done():
			slog.Info("context cancelled, shutting down...")
		}
		cancel()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		slog.Error("server exited with error", "error", err)
	}
}

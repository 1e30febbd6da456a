// Package metrics 提供 Prometheus helper，包含 HTTP/DB/缓存与业务指标模板
package metrics

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/wyfcoding/financialanalysis/pkg/logger"
)

// Metrics 指标集合
type Metrics struct {
	// HTTP 请求计数（按方法/路径/状态码）
	HTTPRequestsTotal *prometheus.CounterVec
	// HTTP 请求耗时
	HTTPRequestDuration *prometheus.HistogramVec

	// 数据库查询耗时
	DBQueryDuration prometheus.Histogram

	// 缓存命中/未命中
	CacheHitsTotal   prometheus.Counter
	CacheMissesTotal prometheus.Counter

	// 业务指标
	BarsIngestedTotal      prometheus.Counter
	AnalysesComputedTotal  prometheus.Counter
	PredictionsServedTotal prometheus.Counter
	OverviewRefreshesTotal prometheus.Counter
	OverviewLastRefresh    prometheus.Gauge

	registry *prometheus.Registry
}

// New 创建并注册指标实例
func New(serviceName string) *Metrics {
	// Prometheus 指标名不允许连字符
	serviceName = strings.ReplaceAll(serviceName, "-", "_")
	m := &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "findata",
			Subsystem: serviceName,
			Name:      "http_requests_total",
			Help:      "Total HTTP requests",
		}, []string{"method", "path", "status"}),
		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "findata",
			Subsystem: serviceName,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "path"}),
		DBQueryDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "findata",
			Subsystem: serviceName,
			Name:      "db_query_duration_seconds",
			Help:      "Database query duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}),
		CacheHitsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "findata",
			Subsystem: serviceName,
			Name:      "cache_hits_total",
			Help:      "Total cache hits",
		}),
		CacheMissesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "findata",
			Subsystem: serviceName,
			Name:      "cache_misses_total",
			Help:      "Total cache misses",
		}),
		BarsIngestedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "findata",
			Subsystem: serviceName,
			Name:      "bars_ingested_total",
			Help:      "Total market bars ingested",
		}),
		AnalysesComputedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "findata",
			Subsystem: serviceName,
			Name:      "analyses_computed_total",
			Help:      "Total technical analyses computed",
		}),
		PredictionsServedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "findata",
			Subsystem: serviceName,
			Name:      "predictions_served_total",
			Help:      "Total price predictions served",
		}),
		OverviewRefreshesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "findata",
			Subsystem: serviceName,
			Name:      "overview_refreshes_total",
			Help:      "Total market overview refreshes",
		}),
		OverviewLastRefresh: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "findata",
			Subsystem: serviceName,
			Name:      "overview_last_refresh_timestamp",
			Help:      "Unix timestamp of the last market overview refresh",
		}),
		registry: prometheus.NewRegistry(),
	}

	m.registry.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.DBQueryDuration,
		m.CacheHitsTotal,
		m.CacheMissesTotal,
		m.BarsIngestedTotal,
		m.AnalysesComputedTotal,
		m.PredictionsServedTotal,
		m.OverviewRefreshesTotal,
		m.OverviewLastRefresh,
	)

	return m
}

// ExposeHTTP 在独立端口暴露 /metrics
func (m *Metrics) ExposeHTTP(port int, path string) {
	mux := http.NewServeMux()
	mux.Handle(path, promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))

	addr := fmt.Sprintf(":%d", port)
	logger.Info(context.Background(), "metrics server starting", "addr", addr, "path", path)
	if err := http.ListenAndServe(addr, mux); err != nil {
		logger.Error(context.Background(), "metrics server exited", "error", err)
	}
}

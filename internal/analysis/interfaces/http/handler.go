package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/wyfcoding/financialanalysis/internal/analysis/application"
	"github.com/wyfcoding/financialanalysis/internal/analysis/domain"
	mddomain "github.com/wyfcoding/financialanalysis/internal/marketdata/domain"
	"github.com/wyfcoding/financialanalysis/pkg/logger"
)

// OverviewSource 提供市场全景摘要, 由大盘模块实现。
type OverviewSource interface {
	MarketSummary(ctx context.Context) (any, error)
}

// AnalysisHandler 技术分析HTTP处理器
type AnalysisHandler struct {
	service  *application.AnalysisService
	overview OverviewSource
}

func NewAnalysisHandler(service *application.AnalysisService, overview OverviewSource) *AnalysisHandler {
	return &AnalysisHandler{service: service, overview: overview}
}

// RegisterRoutes 注册路由
func (h *AnalysisHandler) RegisterRoutes(r *gin.RouterGroup) {
	v1 := r.Group("/v1")
	{
		v1.GET("/stocks/:symbol/analysis", h.Analyze)
		v1.GET("/analysis/market-overview", h.MarketOverview)
	}
}

// Analyze 返回指定股票的完整技术分析。
func (h *AnalysisHandler) Analyze(c *gin.Context) {
	symbol := c.Param("symbol")

	result, err := h.service.Analyze(c.Request.Context(), symbol)
	if err != nil {
		switch {
		case errors.Is(err, mddomain.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "stock data not found"})
		case errors.Is(err, domain.ErrInsufficientData):
			c.JSON(http.StatusBadRequest, gin.H{"error": "insufficient price history for analysis"})
		default:
			logger.Error(c.Request.Context(), "analyze failed", "symbol", symbol, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to analyze stock"})
		}
		return
	}

	c.JSON(http.StatusOK, result)
}

// MarketOverview 返回大盘聚合分析视图。
func (h *AnalysisHandler) MarketOverview(c *gin.Context) {
	summary, err := h.overview.MarketSummary(c.Request.Context())
	if err != nil {
		logger.Error(c.Request.Context(), "market overview failed", "error", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "market overview not yet available"})
		return
	}
	c.JSON(http.StatusOK, summary)
}

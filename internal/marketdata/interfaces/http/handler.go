// Package http 行情模块的 HTTP 接口
package http

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/wyfcoding/financialanalysis/internal/marketdata/application"
	"github.com/wyfcoding/financialanalysis/internal/marketdata/domain"
)

// MarketDataHandler 行情 HTTP 处理器
type MarketDataHandler struct {
	query *application.MarketDataQueryService
}

// NewMarketDataHandler 构造函数
func NewMarketDataHandler(query *application.MarketDataQueryService) *MarketDataHandler {
	return &MarketDataHandler{query: query}
}

// RegisterRoutes 注册路由
func (h *MarketDataHandler) RegisterRoutes(r *gin.RouterGroup) {
	v1 := r.Group("/v1/stocks")
	{
		v1.GET("/search", h.Search)
		v1.GET("/:symbol", h.GetDetail)
		v1.GET("/:symbol/chart", h.GetChart)
	}
}

// Search 按代码或名称搜索股票
func (h *MarketDataHandler) Search(c *gin.Context) {
	query := c.Query("query")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "query is required"})
		return
	}

	limit := 10
	if l, err := strconv.Atoi(c.Query("limit")); err == nil {
		limit = l
	}

	result, err := h.query.Search(c.Request.Context(), query, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}

// GetDetail 股票详情
func (h *MarketDataHandler) GetDetail(c *gin.Context) {
	symbol := strings.ToUpper(c.Param("symbol"))

	includeHistory := c.Query("include_history") == "true"
	historyDays := 30
	if d, err := strconv.Atoi(c.Query("history_days")); err == nil {
		historyDays = d
	}

	detail, err := h.query.GetDetail(c.Request.Context(), symbol, includeHistory, historyDays)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "stock " + symbol + " not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, detail)
}

// GetChart 图表数据
func (h *MarketDataHandler) GetChart(c *gin.Context) {
	symbol := strings.ToUpper(c.Param("symbol"))
	period := c.DefaultQuery("period", "1mo")
	interval := c.DefaultQuery("interval", "1d")

	chart, err := h.query.GetChart(c.Request.Context(), symbol, period, interval)
	if err != nil {
		switch {
		case errors.Is(err, application.ErrInvalidPeriod), errors.Is(err, application.ErrInvalidInterval):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, domain.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "no chart data found for " + symbol})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}
	c.JSON(http.StatusOK, chart)
}

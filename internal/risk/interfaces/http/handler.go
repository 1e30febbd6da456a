package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	mddomain "github.com/wyfcoding/financialanalysis/internal/marketdata/domain"
	"github.com/wyfcoding/financialanalysis/internal/risk/application"
	"github.com/wyfcoding/financialanalysis/internal/risk/domain"
	"github.com/wyfcoding/financialanalysis/pkg/logger"
)

// RiskHandler 风险评估HTTP处理器
type RiskHandler struct {
	service *application.RiskService
}

func NewRiskHandler(service *application.RiskService) *RiskHandler {
	return &RiskHandler{service: service}
}

// RegisterRoutes 注册路由
func (h *RiskHandler) RegisterRoutes(r *gin.RouterGroup) {
	v1 := r.Group("/v1/risk")
	{
		v1.GET("/:symbol", h.Assess)
	}
}

// Assess 返回股票的风险评估报告。
func (h *RiskHandler) Assess(c *gin.Context) {
	symbol := c.Param("symbol")

	simulations := 0
	if raw := c.Query("simulations"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "simulations must be a non-negative integer"})
			return
		}
		simulations = n
	}

	report, err := h.service.Assess(c.Request.Context(), symbol, simulations)
	if err != nil {
		switch {
		case errors.Is(err, mddomain.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "stock data not found"})
		case errors.Is(err, domain.ErrInsufficientData):
			c.JSON(http.StatusBadRequest, gin.H{"error": "insufficient price history for risk metrics"})
		default:
			logger.Error(c.Request.Context(), "risk assessment failed", "symbol", symbol, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to assess risk"})
		}
		return
	}

	c.JSON(http.StatusOK, report)
}

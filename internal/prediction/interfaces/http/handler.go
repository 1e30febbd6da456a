package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	mddomain "github.com/wyfcoding/financialanalysis/internal/marketdata/domain"
	"github.com/wyfcoding/financialanalysis/internal/prediction/application"
	"github.com/wyfcoding/financialanalysis/internal/prediction/domain"
	"github.com/wyfcoding/financialanalysis/pkg/logger"
)

// PredictionHandler 价格预测HTTP处理器
type PredictionHandler struct {
	service *application.PredictionService
}

func NewPredictionHandler(service *application.PredictionService) *PredictionHandler {
	return &PredictionHandler{service: service}
}

// RegisterRoutes 注册路由
func (h *PredictionHandler) RegisterRoutes(r *gin.RouterGroup) {
	v1 := r.Group("/v1/predictions")
	{
		v1.GET("/:symbol", h.GetForecast)
	}
}

// GetForecast 返回股票的多期限价格预测。
func (h *PredictionHandler) GetForecast(c *gin.Context) {
	symbol := c.Param("symbol")

	forecast, err := h.service.GetForecast(c.Request.Context(), symbol)
	if err != nil {
		switch {
		case errors.Is(err, mddomain.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "stock data not found"})
		case errors.Is(err, domain.ErrInsufficientData):
			c.JSON(http.StatusBadRequest, gin.H{"error": "insufficient price history for prediction"})
		default:
			logger.Error(c.Request.Context(), "forecast failed", "symbol", symbol, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate forecast"})
		}
		return
	}

	c.JSON(http.StatusOK, forecast)
}

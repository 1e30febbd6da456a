package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/wyfcoding/financialanalysis/internal/portfolio/application"
	"github.com/wyfcoding/financialanalysis/internal/portfolio/domain"
	riskdomain "github.com/wyfcoding/financialanalysis/internal/risk/domain"
	"github.com/wyfcoding/financialanalysis/pkg/logger"
)

// PortfolioHandler 投资组合HTTP处理器
type PortfolioHandler struct {
	service *application.PortfolioService
}

func NewPortfolioHandler(service *application.PortfolioService) *PortfolioHandler {
	return &PortfolioHandler{service: service}
}

// RegisterRoutes 注册路由
func (h *PortfolioHandler) RegisterRoutes(r *gin.RouterGroup) {
	v1 := r.Group("/v1/portfolio")
	{
		v1.POST("", h.Create)
		v1.GET("", h.List)
		v1.GET("/:id", h.Get)
		v1.POST("/:id/analyze", h.AnalyzeRisk)
		v1.POST("/:id/holdings", h.AddHolding)
		v1.DELETE("/:id/holdings/:symbol", h.RemoveHolding)
	}
}

// Create 创建投资组合。
func (h *PortfolioHandler) Create(c *gin.Context) {
	var req application.CreatePortfolioRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	dto, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		logger.Error(c.Request.Context(), "create portfolio failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create portfolio"})
		return
	}
	c.JSON(http.StatusCreated, dto)
}

// List 返回全部组合。
func (h *PortfolioHandler) List(c *gin.Context) {
	portfolios, err := h.service.List(c.Request.Context())
	if err != nil {
		logger.Error(c.Request.Context(), "list portfolios failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list portfolios"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"portfolios": portfolios, "count": len(portfolios)})
}

// Get 返回组合的最新估值。
func (h *PortfolioHandler) Get(c *gin.Context) {
	id, ok := h.portfolioID(c)
	if !ok {
		return
	}

	dto, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err, "get portfolio failed")
		return
	}
	c.JSON(http.StatusOK, dto)
}

// AddHolding 向组合添加持仓。
func (h *PortfolioHandler) AddHolding(c *gin.Context) {
	id, ok := h.portfolioID(c)
	if !ok {
		return
	}

	var req application.AddHoldingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if req.Quantity.LessThanOrEqual(decimal.Zero) || req.Price.LessThanOrEqual(decimal.Zero) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "quantity and price must be positive"})
		return
	}

	dto, err := h.service.AddHolding(c.Request.Context(), id, req)
	if err != nil {
		h.writeError(c, err, "add holding failed")
		return
	}
	c.JSON(http.StatusOK, dto)
}

// RemoveHolding 删除组合内的持仓。
func (h *PortfolioHandler) RemoveHolding(c *gin.Context) {
	id, ok := h.portfolioID(c)
	if !ok {
		return
	}

	dto, err := h.service.RemoveHolding(c.Request.Context(), id, c.Param("symbol"))
	if err != nil {
		h.writeError(c, err, "remove holding failed")
		return
	}
	c.JSON(http.StatusOK, dto)
}

// AnalyzeRisk 返回组合的风险分析。
func (h *PortfolioHandler) AnalyzeRisk(c *gin.Context) {
	id, ok := h.portfolioID(c)
	if !ok {
		return
	}

	report, err := h.service.AnalyzeRisk(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, riskdomain.ErrInsufficientData) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "insufficient market history for portfolio analysis"})
			return
		}
		h.writeError(c, err, "portfolio analysis failed")
		return
	}
	c.JSON(http.StatusOK, report)
}

func (h *PortfolioHandler) portfolioID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid portfolio id"})
		return 0, false
	}
	return uint(id), true
}

func (h *PortfolioHandler) writeError(c *gin.Context, err error, msg string) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "portfolio not found"})
	case errors.Is(err, domain.ErrHoldingNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "holding not found"})
	default:
		logger.Error(c.Request.Context(), msg, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

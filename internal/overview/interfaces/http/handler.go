package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/wyfcoding/financialanalysis/internal/overview/application"
	"github.com/wyfcoding/financialanalysis/internal/overview/domain"
	"github.com/wyfcoding/financialanalysis/pkg/logger"
)

// OverviewHandler 大盘全景HTTP处理器
type OverviewHandler struct {
	service *application.OverviewService
}

func NewOverviewHandler(service *application.OverviewService) *OverviewHandler {
	return &OverviewHandler{service: service}
}

// RegisterRoutes 注册路由
func (h *OverviewHandler) RegisterRoutes(r *gin.RouterGroup) {
	v1 := r.Group("/v1/sp500")
	{
		v1.GET("", h.GetAll)
		v1.GET("/summary", h.GetSummary)
		v1.GET("/gainers", h.GetGainers)
		v1.GET("/losers", h.GetLosers)
		v1.GET("/active", h.GetMostActive)
		v1.GET("/sectors", h.GetSectors)
		v1.GET("/indices", h.GetIndices)
	}
}

// GetAll 返回完整大盘快照。
func (h *OverviewHandler) GetAll(c *gin.Context) {
	h.respond(c, func(s *domain.Snapshot) any { return s })
}

// GetSummary 返回市场宽度摘要。
func (h *OverviewHandler) GetSummary(c *gin.Context) {
	h.respond(c, func(s *domain.Snapshot) any { return s.Summary })
}

// GetGainers 返回涨幅榜。
func (h *OverviewHandler) GetGainers(c *gin.Context) {
	h.respond(c, func(s *domain.Snapshot) any {
		return gin.H{"gainers": s.Gainers, "as_of": s.GeneratedAt}
	})
}

// GetLosers 返回跌幅榜。
func (h *OverviewHandler) GetLosers(c *gin.Context) {
	h.respond(c, func(s *domain.Snapshot) any {
		return gin.H{"losers": s.Losers, "as_of": s.GeneratedAt}
	})
}

// GetMostActive 返回成交量榜。
func (h *OverviewHandler) GetMostActive(c *gin.Context) {
	h.respond(c, func(s *domain.Snapshot) any {
		return gin.H{"most_active": s.MostActive, "as_of": s.GeneratedAt}
	})
}

// GetSectors 返回板块表现。
func (h *OverviewHandler) GetSectors(c *gin.Context) {
	h.respond(c, func(s *domain.Snapshot) any {
		return gin.H{"sectors": s.Sectors, "as_of": s.GeneratedAt}
	})
}

// GetIndices 返回指数报价。
func (h *OverviewHandler) GetIndices(c *gin.Context) {
	h.respond(c, func(s *domain.Snapshot) any {
		return gin.H{"indices": s.Indices, "as_of": s.GeneratedAt}
	})
}

func (h *OverviewHandler) respond(c *gin.Context, project func(*domain.Snapshot) any) {
	snapshot, err := h.service.GetSnapshot(c.Request.Context())
	if err != nil {
		if errors.Is(err, application.ErrNotReady) {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "market data not yet available"})
			return
		}
		logger.Error(c.Request.Context(), "load overview snapshot failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load market overview"})
		return
	}
	c.JSON(http.StatusOK, project(snapshot))
}

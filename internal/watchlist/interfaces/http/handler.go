package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/wyfcoding/financialanalysis/internal/watchlist/application"
	"github.com/wyfcoding/financialanalysis/internal/watchlist/domain"
	"github.com/wyfcoding/financialanalysis/pkg/logger"
)

// WatchlistHandler 自选股HTTP处理器
type WatchlistHandler struct {
	service *application.WatchlistService
}

func NewWatchlistHandler(service *application.WatchlistService) *WatchlistHandler {
	return &WatchlistHandler{service: service}
}

// RegisterRoutes 注册路由
func (h *WatchlistHandler) RegisterRoutes(r *gin.RouterGroup) {
	v1 := r.Group("/v1")
	{
		v1.GET("/watchlist", h.List)
		v1.POST("/stocks/:symbol/watchlist", h.Add)
		v1.DELETE("/stocks/:symbol/watchlist", h.Remove)
	}
}

type addRequest struct {
	Note string `json:"note"`
}

// Add 将股票加入自选。
func (h *WatchlistHandler) Add(c *gin.Context) {
	var req addRequest
	// 请求体可省略
	_ = c.ShouldBindJSON(&req)

	entry, err := h.service.Add(c.Request.Context(), c.Param("symbol"), req.Note)
	if err != nil {
		logger.Error(c.Request.Context(), "add to watchlist failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to add to watchlist"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "added to watchlist", "entry": entry})
}

// List 返回全部自选股。
func (h *WatchlistHandler) List(c *gin.Context) {
	entries, err := h.service.List(c.Request.Context())
	if err != nil {
		logger.Error(c.Request.Context(), "list watchlist failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list watchlist"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"watchlist": entries, "count": len(entries)})
}

// Remove 从自选中移除股票。
func (h *WatchlistHandler) Remove(c *gin.Context) {
	if err := h.service.Remove(c.Request.Context(), c.Param("symbol")); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "symbol not in watchlist"})
			return
		}
		logger.Error(c.Request.Context(), "remove from watchlist failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to remove from watchlist"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "removed from watchlist"})
}

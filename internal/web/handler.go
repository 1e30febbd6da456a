// Package web 提供首页、API文档页与健康检查。
package web

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Handler 站点页面处理器
type Handler struct {
	serviceName string
	version     string
	startedAt   time.Time
}

func NewHandler(serviceName, version string) *Handler {
	return &Handler{
		serviceName: serviceName,
		version:     version,
		startedAt:   time.Now(),
	}
}

// RegisterRoutes 注册路由
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/", h.Index)
	r.GET("/docs", h.Docs)
	r.GET("/health", h.Health)
}

// Health 健康检查。
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": h.serviceName,
		"version": h.version,
		"uptime":  time.Since(h.startedAt).Round(time.Second).String(),
		"time":    time.Now().UTC(),
	})
}

// Index 首页, 给出服务简介与文档入口。
func (h *Handler) Index(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(indexHTML))
}

// Docs API索引页。
func (h *Handler) Docs(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(docsHTML))
}

const indexHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Financial Analysis Service</title>
<style>
body { font-family: -apple-system, Helvetica, Arial, sans-serif; margin: 40px auto; max-width: 760px; color: #24292f; }
a { color: #0969da; text-decoration: none; }
code { background: #f6f8fa; padding: 2px 5px; border-radius: 4px; }
</style>
</head>
<body>
<h1>Financial Analysis Service</h1>
<p>Stock market data, technical analysis, risk metrics, price forecasts and portfolio tracking over a JSON API.</p>
<ul>
<li><a href="/docs">API documentation</a></li>
<li><a href="/health">Health check</a></li>
<li><code>GET /api/v1/sp500/summary</code> &mdash; market overview</li>
<li><code>GET /api/v1/stocks/search?query=apple</code> &mdash; find a stock</li>
</ul>
</body>
</html>`

const docsHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>API Documentation - Financial Analysis Service</title>
<style>
body { font-family: -apple-system, Helvetica, Arial, sans-serif; margin: 40px auto; max-width: 860px; color: #24292f; }
h2 { border-bottom: 1px solid #d0d7de; padding-bottom: 4px; margin-top: 32px; }
table { border-collapse: collapse; width: 100%; }
th, td { text-align: left; border: 1px solid #d0d7de; padding: 6px 10px; }
code { background: #f6f8fa; padding: 2px 5px; border-radius: 4px; }
</style>
</head>
<body>
<h1>API Documentation</h1>
<p>All endpoints return JSON and are rooted at <code>/api/v1</code>.</p>

<h2>Stocks</h2>
<table>
<tr><th>Method</th><th>Path</th><th>Description</th></tr>
<tr><td>GET</td><td><code>/stocks/search?query=&amp;limit=</code></td><td>Search stocks by symbol or company name</td></tr>
<tr><td>GET</td><td><code>/stocks/{symbol}?history_days=</code></td><td>Stock detail with latest price and analysis summary</td></tr>
<tr><td>GET</td><td><code>/stocks/{symbol}/chart?period=&amp;interval=</code></td><td>OHLCV chart data (periods: 1d, 5d, 1mo, 3mo, 6mo, 1y)</td></tr>
</table>

<h2>Analysis, Risk and Predictions</h2>
<table>
<tr><th>Method</th><th>Path</th><th>Description</th></tr>
<tr><td>GET</td><td><code>/stocks/{symbol}/analysis</code></td><td>Technical indicators, predictions, risk metrics and summary</td></tr>
<tr><td>GET</td><td><code>/analysis/market-overview</code></td><td>Aggregate market view</td></tr>
<tr><td>GET</td><td><code>/risk/{symbol}?simulations=</code></td><td>Historical risk metrics and Monte Carlo VaR</td></tr>
<tr><td>GET</td><td><code>/predictions/{symbol}</code></td><td>1d / 7d / 30d price forecasts</td></tr>
</table>

<h2>S&amp;P 500 Overview</h2>
<table>
<tr><th>Method</th><th>Path</th><th>Description</th></tr>
<tr><td>GET</td><td><code>/sp500</code></td><td>Full market snapshot</td></tr>
<tr><td>GET</td><td><code>/sp500/summary</code></td><td>Market breadth summary</td></tr>
<tr><td>GET</td><td><code>/sp500/gainers</code></td><td>Top gainers</td></tr>
<tr><td>GET</td><td><code>/sp500/losers</code></td><td>Top losers</td></tr>
<tr><td>GET</td><td><code>/sp500/active</code></td><td>Most active by volume</td></tr>
<tr><td>GET</td><td><code>/sp500/sectors</code></td><td>Sector performance</td></tr>
<tr><td>GET</td><td><code>/sp500/indices</code></td><td>Index quotes</td></tr>
</table>

<h2>Portfolio</h2>
<table>
<tr><th>Method</th><th>Path</th><th>Description</th></tr>
<tr><td>POST</td><td><code>/portfolio</code></td><td>Create a portfolio</td></tr>
<tr><td>GET</td><td><code>/portfolio</code></td><td>List portfolios</td></tr>
<tr><td>GET</td><td><code>/portfolio/{id}</code></td><td>Portfolio with live valuation</td></tr>
<tr><td>POST</td><td><code>/portfolio/{id}/analyze</code></td><td>Portfolio risk analysis</td></tr>
<tr><td>POST</td><td><code>/portfolio/{id}/holdings</code></td><td>Add or merge a holding</td></tr>
<tr><td>DELETE</td><td><code>/portfolio/{id}/holdings/{symbol}</code></td><td>Remove a holding</td></tr>
</table>

<h2>Watchlist</h2>
<table>
<tr><th>Method</th><th>Path</th><th>Description</th></tr>
<tr><td>GET</td><td><code>/watchlist</code></td><td>List watched stocks with latest prices</td></tr>
<tr><td>POST</td><td><code>/stocks/{symbol}/watchlist</code></td><td>Add a stock to the watchlist (idempotent)</td></tr>
<tr><td>DELETE</td><td><code>/stocks/{symbol}/watchlist</code></td><td>Remove a stock from the watchlist</td></tr>
</table>
</body>
</html>`

package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	mddomain "github.com/wyfcoding/financialanalysis/internal/marketdata/domain"
	"github.com/wyfcoding/financialanalysis/internal/portfolio/application"
	"github.com/wyfcoding/financialanalysis/internal/portfolio/domain"
)

type memoryPortfolioRepo struct {
	nextID     uint
	portfolios map[uint]*domain.Portfolio
}

func newMemoryPortfolioRepo() *memoryPortfolioRepo {
	return &memoryPortfolioRepo{nextID: 1, portfolios: map[uint]*domain.Portfolio{}}
}

func (r *memoryPortfolioRepo) Create(_ context.Context, p *domain.Portfolio) error {
	p.ID = r.nextID
	r.nextID++
	r.portfolios[p.ID] = p
	return nil
}

func (r *memoryPortfolioRepo) GetByID(_ context.Context, id uint) (*domain.Portfolio, error) {
	p, ok := r.portfolios[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return p, nil
}

func (r *memoryPortfolioRepo) List(_ context.Context) ([]*domain.Portfolio, error) {
	result := make([]*domain.Portfolio, 0, len(r.portfolios))
	for _, p := range r.portfolios {
		result = append(result, p)
	}
	return result, nil
}

func (r *memoryPortfolioRepo) SaveHolding(_ context.Context, h *domain.Holding) error {
	p, ok := r.portfolios[h.PortfolioID]
	if !ok {
		return domain.ErrNotFound
	}
	for i := range p.Holdings {
		if p.Holdings[i].Symbol == h.Symbol {
			p.Holdings[i] = *h
			return nil
		}
	}
	p.Holdings = append(p.Holdings, *h)
	return nil
}

func (r *memoryPortfolioRepo) GetHolding(_ context.Context, portfolioID uint, symbol string) (*domain.Holding, error) {
	p, ok := r.portfolios[portfolioID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	for i := range p.Holdings {
		if p.Holdings[i].Symbol == symbol {
			h := p.Holdings[i]
			return &h, nil
		}
	}
	return nil, domain.ErrHoldingNotFound
}

func (r *memoryPortfolioRepo) RemoveHolding(_ context.Context, portfolioID uint, symbol string) error {
	p, ok := r.portfolios[portfolioID]
	if !ok {
		return domain.ErrNotFound
	}
	for i := range p.Holdings {
		if p.Holdings[i].Symbol == symbol {
			p.Holdings = append(p.Holdings[:i], p.Holdings[i+1:]...)
			return nil
		}
	}
	return domain.ErrHoldingNotFound
}

// fakePriceSource 固定价格行情源
type fakePriceSource struct {
	price decimal.Decimal
}

func (f *fakePriceSource) GetLatestBar(_ context.Context, symbol string) (*mddomain.Bar, error) {
	return &mddomain.Bar{
		Symbol: symbol,
		Date:   time.Now().UTC().Truncate(24 * time.Hour),
		Open:   f.price,
		High:   f.price,
		Low:    f.price,
		Close:  f.price,
		Volume: 1_000_000,
	}, nil
}

func (f *fakePriceSource) GetBars(_ context.Context, symbol string, limit int) ([]*mddomain.Bar, error) {
	feed := mddomain.NewSyntheticFeed()
	return feed.GenerateHistory(symbol, time.Now().UTC(), limit), nil
}

func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	service := application.NewPortfolioService(newMemoryPortfolioRepo(), &fakePriceSource{price: decimal.NewFromInt(200)})
	r := gin.New()
	NewPortfolioHandler(service).RegisterRoutes(r.Group("/api"))
	return r
}

func doJSON(r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func TestCreatePortfolio(t *testing.T) {
	r := newTestRouter()

	w := doJSON(r, http.MethodPost, "/api/v1/portfolio", gin.H{"name": "Growth", "description": "tech heavy"})
	require.Equal(t, http.StatusCreated, w.Code)

	var resp application.PortfolioDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, uint(1), resp.ID)
	assert.Equal(t, "Growth", resp.Name)
	assert.Empty(t, resp.Holdings)
}

func TestCreatePortfolioRequiresName(t *testing.T) {
	r := newTestRouter()
	w := doJSON(r, http.MethodPost, "/api/v1/portfolio", gin.H{"description": "no name"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetPortfolioNotFound(t *testing.T) {
	r := newTestRouter()
	w := doJSON(r, http.MethodGet, "/api/v1/portfolio/99", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAddHoldingAndValuation(t *testing.T) {
	r := newTestRouter()

	w := doJSON(r, http.MethodPost, "/api/v1/portfolio", gin.H{"name": "Income"})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(r, http.MethodPost, "/api/v1/portfolio/1/holdings", gin.H{
		"symbol": "aapl", "quantity": "10", "price": "150",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp application.PortfolioDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Holdings, 1)

	h := resp.Holdings[0]
	assert.Equal(t, "AAPL", h.Symbol)
	assert.True(t, h.MarketValue.Equal(decimal.NewFromInt(2000)), "10 shares at the quoted 200")
	assert.True(t, h.CostBasis.Equal(decimal.NewFromInt(1500)))
	assert.True(t, h.UnrealizedPnL.Equal(decimal.NewFromInt(500)))
	assert.InDelta(t, 1.0, h.Weight, 1e-9)
	assert.True(t, resp.TotalValue.Equal(decimal.NewFromInt(2000)))
}

func TestAddHoldingMergesCost(t *testing.T) {
	r := newTestRouter()

	doJSON(r, http.MethodPost, "/api/v1/portfolio", gin.H{"name": "Merge"})
	doJSON(r, http.MethodPost, "/api/v1/portfolio/1/holdings", gin.H{"symbol": "MSFT", "quantity": "10", "price": "100"})
	w := doJSON(r, http.MethodPost, "/api/v1/portfolio/1/holdings", gin.H{"symbol": "MSFT", "quantity": "10", "price": "200"})
	require.Equal(t, http.StatusOK, w.Code)

	var resp application.PortfolioDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Holdings, 1)
	assert.True(t, resp.Holdings[0].Quantity.Equal(decimal.NewFromInt(20)))
	assert.True(t, resp.Holdings[0].AvgCost.Equal(decimal.NewFromInt(150)), "cost averages across lots")
}

func TestAddHoldingRejectsNonPositive(t *testing.T) {
	r := newTestRouter()
	doJSON(r, http.MethodPost, "/api/v1/portfolio", gin.H{"name": "Bad"})
	w := doJSON(r, http.MethodPost, "/api/v1/portfolio/1/holdings", gin.H{"symbol": "AAPL", "quantity": "-1", "price": "100"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRemoveHolding(t *testing.T) {
	r := newTestRouter()

	doJSON(r, http.MethodPost, "/api/v1/portfolio", gin.H{"name": "Trim"})
	doJSON(r, http.MethodPost, "/api/v1/portfolio/1/holdings", gin.H{"symbol": "AAPL", "quantity": "5", "price": "100"})

	w := doJSON(r, http.MethodDelete, "/api/v1/portfolio/1/holdings/AAPL", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp application.PortfolioDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Empty(t, resp.Holdings)

	w = doJSON(r, http.MethodDelete, "/api/v1/portfolio/1/holdings/AAPL", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPortfolioRiskAnalysis(t *testing.T) {
	r := newTestRouter()

	doJSON(r, http.MethodPost, "/api/v1/portfolio", gin.H{"name": "Risky"})
	doJSON(r, http.MethodPost, "/api/v1/portfolio/1/holdings", gin.H{"symbol": "AAPL", "quantity": "10", "price": "100"})
	doJSON(r, http.MethodPost, "/api/v1/portfolio/1/holdings", gin.H{"symbol": "MSFT", "quantity": "10", "price": "100"})

	w := doJSON(r, http.MethodPost, "/api/v1/portfolio/1/analyze", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp application.PortfolioRiskDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, uint(1), resp.PortfolioID)
	assert.Len(t, resp.PerHolding, 2)
	assert.Greater(t, resp.VolatilityAnnual, 0.0)
	assert.GreaterOrEqual(t, resp.RiskScore, 0.0)
	// 两只等仓持仓, 最大权重即 0.5
	assert.InDelta(t, 0.5, resp.Concentration, 1e-9)
}

func TestPortfolioRiskAnalysisEmptyPortfolio(t *testing.T) {
	r := newTestRouter()
	doJSON(r, http.MethodPost, "/api/v1/portfolio", gin.H{"name": "Empty"})
	w := doJSON(r, http.MethodPost, "/api/v1/portfolio/1/analyze", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

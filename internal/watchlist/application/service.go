package application

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	mddomain "github.com/wyfcoding/financialanalysis/internal/marketdata/domain"
	"github.com/wyfcoding/financialanalysis/internal/watchlist/domain"
	"github.com/wyfcoding/financialanalysis/pkg/logger"
)

// PriceSource 提供自选股列表展示用的最新行情。
type PriceSource interface {
	GetLatestBar(ctx context.Context, symbol string) (*mddomain.Bar, error)
}

// EntryDTO 自选股列表项
type EntryDTO struct {
	Symbol      string          `json:"symbol"`
	Name        string          `json:"name"`
	Note        string          `json:"note,omitempty"`
	AddedAt     time.Time       `json:"added_at"`
	LatestPrice decimal.Decimal `json:"latest_price"`
}

// WatchlistService 自选股应用服务
type WatchlistService struct {
	repo   domain.WatchlistRepository
	prices PriceSource
}

func NewWatchlistService(repo domain.WatchlistRepository, prices PriceSource) *WatchlistService {
	return &WatchlistService{repo: repo, prices: prices}
}

// Add 将股票加入自选, 重复添加不报错。
func (s *WatchlistService) Add(ctx context.Context, symbol, note string) (*EntryDTO, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return nil, fmt.Errorf("symbol is required")
	}

	entry := &domain.Entry{Symbol: symbol, Note: strings.TrimSpace(note)}
	if err := s.repo.Add(ctx, entry); err != nil {
		return nil, err
	}
	return s.toDTO(ctx, entry), nil
}

// List 返回全部自选股及其最新价格。
func (s *WatchlistService) List(ctx context.Context) ([]*EntryDTO, error) {
	entries, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	result := make([]*EntryDTO, 0, len(entries))
	for _, e := range entries {
		result = append(result, s.toDTO(ctx, e))
	}
	return result, nil
}

// Remove 从自选中移除股票。
func (s *WatchlistService) Remove(ctx context.Context, symbol string) error {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	return s.repo.Remove(ctx, symbol)
}

func (s *WatchlistService) toDTO(ctx context.Context, entry *domain.Entry) *EntryDTO {
	dto := &EntryDTO{
		Symbol:  entry.Symbol,
		Name:    mddomain.CompanyName(entry.Symbol),
		Note:    entry.Note,
		AddedAt: entry.CreatedAt,
	}
	if bar, err := s.prices.GetLatestBar(ctx, entry.Symbol); err == nil {
		dto.LatestPrice = bar.Close
	} else {
		logger.Debug(ctx, "no market data for watchlist entry", "symbol", entry.Symbol)
	}
	return dto
}

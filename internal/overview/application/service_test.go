package application

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	mddomain "github.com/wyfcoding/financialanalysis/internal/marketdata/domain"
	"github.com/wyfcoding/financialanalysis/pkg/metrics"
)

type syntheticBarSource struct {
	feed *mddomain.SyntheticFeed
}

func (s *syntheticBarSource) GetBars(_ context.Context, symbol string, limit int) ([]*mddomain.Bar, error) {
	return s.feed.GenerateHistory(symbol, time.Now().UTC(), limit), nil
}

func newTestService() *OverviewService {
	source := &syntheticBarSource{feed: mddomain.NewSyntheticFeed()}
	return NewOverviewService(source, nil, metrics.New("test"), time.Minute)
}

func TestGetSnapshotBeforeRefresh(t *testing.T) {
	svc := newTestService()
	_, err := svc.GetSnapshot(context.Background())
	assert.ErrorIs(t, err, ErrNotReady)
}

func TestRefreshBuildsSnapshot(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	require.NoError(t, svc.Refresh(ctx))

	snapshot, err := svc.GetSnapshot(ctx)
	require.NoError(t, err)

	assert.Equal(t, len(mddomain.ReferenceSymbols), snapshot.Summary.TotalSymbols)
	assert.NotEmpty(t, snapshot.Gainers)
	assert.NotEmpty(t, snapshot.Sectors)
	assert.Len(t, snapshot.Indices, 4)
	assert.Contains(t, []string{"bullish", "bearish", "neutral"}, snapshot.Summary.MarketTrend)
}

func TestMarketSummary(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	require.NoError(t, svc.Refresh(ctx))

	raw, err := svc.MarketSummary(ctx)
	require.NoError(t, err)
	require.NotNil(t, raw)
}

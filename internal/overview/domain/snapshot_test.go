package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mover(symbol, sector string, changePct float64, volume int64) Mover {
	return Mover{
		Symbol:    symbol,
		Name:      symbol,
		Sector:    sector,
		Price:     decimal.NewFromInt(100),
		ChangePct: decimal.NewFromFloat(changePct),
		Volume:    volume,
	}
}

func TestBuildSnapshotBreadth(t *testing.T) {
	now := time.Now().UTC()
	movers := []Mover{
		mover("AAA", "Technology", 2.0, 100),
		mover("BBB", "Technology", -1.0, 200),
		mover("CCC", "Energy", 0.0, 300),
		mover("DDD", "Energy", 1.0, 50),
	}

	s := BuildSnapshot(movers, now)

	assert.Equal(t, 4, s.Summary.TotalSymbols)
	assert.Equal(t, 2, s.Summary.Advancers)
	assert.Equal(t, 1, s.Summary.Decliners)
	assert.Equal(t, 1, s.Summary.Unchanged)
	assert.Equal(t, 2.0, s.Summary.AdvanceDeclineRatio)
	assert.Equal(t, int64(650), s.Summary.TotalVolume)
	assert.Equal(t, now, s.Summary.AsOf)
}

func TestBuildSnapshotRatioWithoutDecliners(t *testing.T) {
	movers := []Mover{
		mover("AAA", "Technology", 1.0, 10),
		mover("BBB", "Technology", 2.0, 10),
	}
	s := BuildSnapshot(movers, time.Now().UTC())
	assert.Equal(t, 2.0, s.Summary.AdvanceDeclineRatio)
}

func TestBuildSnapshotRankings(t *testing.T) {
	movers := []Mover{
		mover("UP", "Technology", 5.0, 10),
		mover("DOWN", "Technology", -5.0, 20),
		mover("BUSY", "Energy", 0.5, 9000),
	}

	s := BuildSnapshot(movers, time.Now().UTC())

	require.NotEmpty(t, s.Gainers)
	require.NotEmpty(t, s.Losers)
	require.NotEmpty(t, s.MostActive)
	assert.Equal(t, "UP", s.Gainers[0].Symbol)
	assert.Equal(t, "DOWN", s.Losers[0].Symbol)
	assert.Equal(t, "BUSY", s.MostActive[0].Symbol)
}

func TestBuildSnapshotTruncatesRankings(t *testing.T) {
	movers := make([]Mover, 25)
	for i := range movers {
		movers[i] = mover(string(rune('A'+i)), "Technology", float64(i), int64(i))
	}
	s := BuildSnapshot(movers, time.Now().UTC())
	assert.Len(t, s.Gainers, topN)
	assert.Len(t, s.MostActive, topN)
}

func TestSectorPerformance(t *testing.T) {
	movers := []Mover{
		mover("AAA", "Technology", 2.0, 10),
		mover("BBB", "Technology", 4.0, 10),
		mover("CCC", "Energy", -1.0, 10),
	}

	s := BuildSnapshot(movers, time.Now().UTC())

	require.Len(t, s.Sectors, 2)
	assert.Equal(t, "Technology", s.Sectors[0].Sector)
	assert.True(t, s.Sectors[0].AvgChangePct.Equal(decimal.NewFromInt(3)))
	assert.Equal(t, 2, s.Sectors[0].Advancers)
	assert.Equal(t, "Energy", s.Sectors[1].Sector)
	assert.Equal(t, 1, s.Sectors[1].Decliners)
}

func TestMarketTrend(t *testing.T) {
	tests := []struct {
		name string
		avg  float64
		want string
	}{
		{"bullish", 1.2, "bullish"},
		{"bearish", -0.8, "bearish"},
		{"neutral", 0.1, "neutral"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, marketTrend(decimal.NewFromFloat(tt.avg)))
		})
	}
}

func TestBuildSnapshotIndices(t *testing.T) {
	s := BuildSnapshot([]Mover{mover("AAA", "Technology", 1.0, 10)}, time.Now().UTC())

	require.Len(t, s.Indices, 4)
	assert.Equal(t, "^GSPC", s.Indices[0].Symbol)
	assert.Equal(t, "^RUT", s.Indices[3].Symbol)

	// 基准点位叠加1%平均涨幅
	assert.True(t, s.Indices[0].Value.Equal(decimal.NewFromInt(4545)), "got %s", s.Indices[0].Value)
	assert.True(t, s.Indices[0].Change.Equal(decimal.NewFromInt(45)))
	assert.True(t, s.Indices[3].Value.Equal(decimal.NewFromInt(2020)))
	assert.True(t, s.Indices[0].ChangePct.Equal(decimal.NewFromInt(1)))
}

package postgres

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/schema"

	"github.com/wyfcoding/financialanalysis/internal/marketdata/domain"
)

func parsedColumns(t *testing.T, model any) map[string]bool {
	t.Helper()
	s, err := schema.Parse(model, &sync.Map{}, schema.NamingStrategy{})
	require.NoError(t, err)

	cols := make(map[string]bool, len(s.Fields))
	for _, f := range s.Fields {
		if f.DBName != "" {
			cols[f.DBName] = true
		}
	}
	return cols
}

// 冲突覆盖列必须都存在于表结构里, 否则整条 INSERT 会被数据库拒绝。
func TestBarUpsertColumnsMatchSchema(t *testing.T) {
	cols := parsedColumns(t, &domain.Bar{})

	for _, c := range barUpsertColumns {
		assert.True(t, cols[c], "upsert column %q not in bars schema", c)
	}
	for _, c := range []string{"symbol", "date"} {
		assert.True(t, cols[c], "conflict column %q not in bars schema", c)
	}
}

func TestBarSchemaUsesPriceColumns(t *testing.T) {
	cols := parsedColumns(t, &domain.Bar{})

	assert.True(t, cols["open_price"])
	assert.True(t, cols["high_price"])
	assert.True(t, cols["low_price"])
	assert.True(t, cols["close_price"])
	assert.True(t, cols["adjusted_close"])
}

func TestStockUpsertColumnsMatchSchema(t *testing.T) {
	cols := parsedColumns(t, &domain.Stock{})

	for _, c := range []string{"name", "exchange", "sector", "industry", "market_cap", "updated_at"} {
		assert.True(t, cols[c], "upsert column %q not in stocks schema", c)
	}
}

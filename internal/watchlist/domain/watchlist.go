// Package domain 包含自选股的领域模型
package domain

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

// ErrNotFound 自选股不存在
var ErrNotFound = errors.New("watchlist entry not found")

// Entry 一条自选股记录
type Entry struct {
	gorm.Model
	Symbol string `gorm:"type:varchar(16);uniqueIndex;not null" json:"symbol"`
	Note   string `gorm:"type:varchar(256)" json:"note"`
}

func (Entry) TableName() string {
	return "watchlist_entries"
}

// WatchlistRepository 自选股仓储接口
type WatchlistRepository interface {
	Add(ctx context.Context, entry *Entry) error
	List(ctx context.Context) ([]*Entry, error)
	Remove(ctx context.Context, symbol string) error
	Exists(ctx context.Context, symbol string) (bool, error)
}

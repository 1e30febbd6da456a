// Package consumer 行情事件的 Kafka 消费入口
package consumer

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/wyfcoding/financialanalysis/internal/marketdata/application"
	"github.com/wyfcoding/financialanalysis/internal/marketdata/domain"
	"github.com/wyfcoding/financialanalysis/pkg/logger"
	"github.com/wyfcoding/financialanalysis/pkg/mq"
)

// BarEventHandler 消费 market.bars 主题并写入行情仓储
type BarEventHandler struct {
	service *application.MarketDataService
}

// NewBarEventHandler 构造函数
func NewBarEventHandler(service *application.MarketDataService) *BarEventHandler {
	return &BarEventHandler{service: service}
}

// Handle 处理单条行情事件
func (h *BarEventHandler) Handle(ctx context.Context, key, value []byte) error {
	var event domain.BarEvent
	if err := json.Unmarshal(value, &event); err != nil {
		// 无法解析的消息直接丢弃，避免卡死分区
		logger.Warn(ctx, "dropping malformed bar event", "key", string(key), "error", err)
		return nil
	}

	if err := h.service.IngestBar(ctx, &event); err != nil {
		return fmt.Errorf("failed to ingest bar event: %w", err)
	}

	logger.Debug(ctx, "bar event ingested", "symbol", event.Symbol, "date", event.Date)
	return nil
}

// Subscribe 启动消费循环，阻塞直到 context 取消
func (h *BarEventHandler) Subscribe(ctx context.Context, consumer *mq.Consumer) error {
	return consumer.Run(ctx, h.Handle)
}

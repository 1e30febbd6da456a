// Package mq 提供 Kafka producer/consumer 通用实现，支持重试与 JSON 序列化
package mq

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/wyfcoding/financialanalysis/pkg/logger"
)

// Config Kafka 配置
type Config struct {
	Brokers      []string
	GroupID      string
	MaxRetries   int
	RetryBackoff int
}

// Producer Kafka 生产者
type Producer struct {
	writer *kafka.Writer
	config Config
}

// NewProducer 创建 Kafka 生产者
func NewProducer(cfg Config) *Producer {
	maxAttempts := cfg.MaxRetries
	if maxAttempts <= 0 {
		maxAttempts = 3
	}
	backoff := cfg.RetryBackoff
	if backoff <= 0 {
		backoff = 100
	}

	writer := &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		AllowAutoTopicCreation: true,
		Compression:            kafka.Gzip,
		RequiredAcks:           kafka.RequireAll,
		MaxAttempts:            maxAttempts,
		WriteBackoffMin:        time.Duration(backoff) * time.Millisecond,
		WriteBackoffMax:        time.Duration(backoff*10) * time.Millisecond,
	}

	logger.Info(context.Background(), "kafka producer created", "brokers", cfg.Brokers)
	return &Producer{writer: writer, config: cfg}
}

// Send 发送单条消息，value 会被 JSON 序列化
func (p *Producer) Send(ctx context.Context, topic, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Topic: topic,
		Key:   []byte(key),
		Value: data,
	})
	if err != nil {
		logger.Error(ctx, "failed to send kafka message", "topic", topic, "key", key, "error", err)
		return err
	}

	logger.Debug(ctx, "kafka message sent", "topic", topic, "key", key)
	return nil
}

// SendBatch 批量发送消息，keys 与 values 一一对应
func (p *Producer) SendBatch(ctx context.Context, topic string, keys []string, values []any) error {
	if len(keys) != len(values) {
		return fmt.Errorf("keys/values length mismatch: %d != %d", len(keys), len(values))
	}
	if len(keys) == 0 {
		return nil
	}

	msgs := make([]kafka.Message, 0, len(keys))
	for i := range keys {
		data, err := json.Marshal(values[i])
		if err != nil {
			logger.Error(ctx, "failed to marshal message", "key", keys[i], "error", err)
			continue
		}
		msgs = append(msgs, kafka.Message{
			Topic: topic,
			Key:   []byte(keys[i]),
			Value: data,
		})
	}

	if err := p.writer.WriteMessages(ctx, msgs...); err != nil {
		logger.Error(ctx, "failed to send kafka batch", "topic", topic, "count", len(msgs), "error", err)
		return err
	}

	logger.Debug(ctx, "kafka batch sent", "topic", topic, "count", len(msgs))
	return nil
}

// Close 关闭生产者
func (p *Producer) Close() error {
	return p.writer.Close()
}

// MessageHandler 消费回调，返回错误时不提交 offset
type MessageHandler func(ctx context.Context, key, value []byte) error

// Consumer Kafka 消费者
type Consumer struct {
	reader *kafka.Reader
	config Config
}

// NewConsumer 创建 Kafka 消费者
func NewConsumer(cfg Config, topic string) *Consumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        cfg.Brokers,
		GroupID:        cfg.GroupID,
		Topic:          topic,
		MinBytes:       1,
		MaxBytes:       10e6,
		CommitInterval: 0, // 同步提交
	})

	logger.Info(context.Background(), "kafka consumer created", "topic", topic, "group", cfg.GroupID)
	return &Consumer{reader: reader, config: cfg}
}

// Run 循环消费消息直到 context 取消
func (c *Consumer) Run(ctx context.Context, handler MessageHandler) error {
	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, io.EOF) {
				return nil
			}
			logger.Error(ctx, "failed to fetch kafka message", "error", err)
			continue
		}

		if err := handler(ctx, msg.Key, msg.Value); err != nil {
			logger.Error(ctx, "kafka message handler failed",
				"topic", msg.Topic,
				"partition", msg.Partition,
				"offset", msg.Offset,
				"error", err,
			)
			continue
		}

		if err := c.reader.CommitMessages(ctx, msg); err != nil {
			logger.Error(ctx, "failed to commit kafka offset", "error", err)
		}
	}
}

// Close 关闭消费者
func (c *Consumer) Close() error {
	return c.reader.Close()
}

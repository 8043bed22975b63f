package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dawit-coffee/storefront/internal/config"
	"github.com/dawit-coffee/storefront/internal/logger"

	kafkaGo "github.com/segmentio/kafka-go"
)

// ErrKafkaBrokersMissing 启用 Kafka 但未配置 broker
var ErrKafkaBrokersMissing = errors.New("kafka brokers not configured")

// KafkaPublisher 将订单事件写入 Kafka，按订单编号分区保证单订单有序
type KafkaPublisher struct {
	writer      *kafkaGo.Writer
	topicPrefix string
}

// NewKafkaPublisher 创建 Kafka 发布者
func NewKafkaPublisher(cfg config.KafkaConfig) (*KafkaPublisher, error) {
	brokers := make([]string, 0, len(cfg.Brokers))
	for _, broker := range cfg.Brokers {
		if trimmed := strings.TrimSpace(broker); trimmed != "" {
			brokers = append(brokers, trimmed)
		}
	}
	if len(brokers) == 0 {
		return nil, ErrKafkaBrokersMissing
	}
	timeout := 3 * time.Second
	if cfg.WriteTimeout > 0 {
		timeout = time.Duration(cfg.WriteTimeout) * time.Millisecond
	}
	return &KafkaPublisher{
		writer: &kafkaGo.Writer{
			Addr:                   kafkaGo.TCP(brokers...),
			Balancer:               &kafkaGo.Hash{},
			RequiredAcks:           kafkaGo.RequireOne,
			WriteTimeout:           timeout,
			AllowAutoTopicCreation: true,
		},
		topicPrefix: strings.TrimSpace(cfg.TopicPrefix),
	}, nil
}

// TopicFor 事件类型对应的 topic，例如 shop.order.paid
func TopicFor(prefix, eventType string) string {
	if prefix == "" {
		return eventType
	}
	return prefix + "." + eventType
}

// EncodeMessage 构建 Kafka 消息
func EncodeMessage(prefix string, event OrderEvent) (kafkaGo.Message, error) {
	payload, err := json.Marshal(event)
	if err != nil {
		return kafkaGo.Message{}, fmt.Errorf("marshal order event: %w", err)
	}
	return kafkaGo.Message{
		Topic: TopicFor(prefix, event.Type),
		Key:   []byte(event.OrderID),
		Value: payload,
		Time:  event.OccurredAt,
	}, nil
}

// Publish 同步写入事件
func (p *KafkaPublisher) Publish(ctx context.Context, event OrderEvent) error {
	msg, err := EncodeMessage(p.topicPrefix, event)
	if err != nil {
		return err
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		logger.Warnw("order_event_publish_failed",
			"topic", msg.Topic,
			"order_id", event.OrderID,
			"error", err,
		)
		return err
	}
	logger.Debugw("order_event_published", "topic", msg.Topic, "order_id", event.OrderID)
	return nil
}

// Close 关闭 writer
func (p *KafkaPublisher) Close() error {
	if p == nil || p.writer == nil {
		return nil
	}
	return p.writer.Close()
}

package queue

import (
	"context"

	"github.com/dawit-coffee/storefront/internal/events"
)

// EventPublisher 先把订单事件写入队列，由 worker 投递到 Kafka
type EventPublisher struct {
	client *Client
}

// NewEventPublisher 创建队列事件发布者
func NewEventPublisher(client *Client) *EventPublisher {
	return &EventPublisher{client: client}
}

// Publish 入队订单事件
func (p *EventPublisher) Publish(_ context.Context, event events.OrderEvent) error {
	return p.client.EnqueueOrderEvent(OrderEventPayload{Event: event})
}

// Close 队列客户端由容器统一关闭
func (p *EventPublisher) Close() error { return nil }

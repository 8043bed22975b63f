package events

import (
	"context"
	"time"
)

// OrderEvent 订单生命周期事件
type OrderEvent struct {
	Type       string    `json:"type"`
	OrderID    string    `json:"order_id"`
	Status     string    `json:"status"`
	TradeNo    string    `json:"trade_no,omitempty"`
	Total      int64     `json:"total"`
	Source     string    `json:"source,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Publisher 订单事件发布接口
type Publisher interface {
	Publish(ctx context.Context, event OrderEvent) error
	Close() error
}

// NoopPublisher 未启用事件流时使用
type NoopPublisher struct{}

// Publish 丢弃事件
func (NoopPublisher) Publish(context.Context, OrderEvent) error { return nil }

// Close 无需释放资源
func (NoopPublisher) Close() error { return nil }

// RecordingPublisher 记录已发布事件，用于测试与本地调试
type RecordingPublisher struct {
	Events []OrderEvent
}

// Publish 记录事件
func (p *RecordingPublisher) Publish(_ context.Context, event OrderEvent) error {
	p.Events = append(p.Events, event)
	return nil
}

// Close 无需释放资源
func (p *RecordingPublisher) Close() error { return nil }

// CountByType 统计某类事件数量
func (p *RecordingPublisher) CountByType(eventType string) int {
	count := 0
	for _, event := range p.Events {
		if event.Type == eventType {
			count++
		}
	}
	return count
}

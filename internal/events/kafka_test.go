package events

import (
	"context"
	"encoding/json"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/dawit-coffee/storefront/internal/config"
)

func TestEncodeMessageKeyedByOrder(t *testing.T) {
	occurred := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	msg, err := EncodeMessage("shop", OrderEvent{
		Type:       "order.paid",
		OrderID:    "a1b2c3d4",
		Status:     "paid",
		Total:      360,
		OccurredAt: occurred,
	})
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	if msg.Topic != "shop.order.paid" {
		t.Fatalf("unexpected topic: %s", msg.Topic)
	}
	if string(msg.Key) != "a1b2c3d4" {
		t.Fatalf("unexpected key: %s", msg.Key)
	}
	var decoded OrderEvent
	if err := json.Unmarshal(msg.Value, &decoded); err != nil {
		t.Fatalf("decode payload failed: %v", err)
	}
	if decoded.Total != 360 || decoded.Status != "paid" {
		t.Fatalf("unexpected payload: %+v", decoded)
	}
}

func TestTopicForWithoutPrefix(t *testing.T) {
	if got := TopicFor("", "order.created"); got != "order.created" {
		t.Fatalf("unexpected topic: %s", got)
	}
}

func TestNewKafkaPublisherRequiresBrokers(t *testing.T) {
	if _, err := NewKafkaPublisher(config.KafkaConfig{Brokers: []string{" "}}); err != ErrKafkaBrokersMissing {
		t.Fatalf("expected ErrKafkaBrokersMissing, got %v", err)
	}
}

func TestRecordingPublisherCounts(t *testing.T) {
	p := &RecordingPublisher{}
	_ = p.Publish(context.Background(), OrderEvent{Type: "order.paid"})
	_ = p.Publish(context.Background(), OrderEvent{Type: "order.created"})
	_ = p.Publish(context.Background(), OrderEvent{Type: "order.paid"})
	if p.CountByType("order.paid") != 2 {
		t.Fatalf("unexpected count: %d", p.CountByType("order.paid"))
	}
}

func TestKafkaPublisherIntegration(t *testing.T) {
	brokers := os.Getenv("KAFKA_TEST_BROKERS")
	if brokers == "" {
		t.Skip("KAFKA_TEST_BROKERS not set")
	}
	publisher, err := NewKafkaPublisher(config.KafkaConfig{
		Brokers:     strings.Split(brokers, ","),
		TopicPrefix: "shoptest",
	})
	if err != nil {
		t.Fatalf("new publisher failed: %v", err)
	}
	t.Cleanup(func() { _ = publisher.Close() })

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := publisher.Publish(ctx, OrderEvent{Type: "order.created", OrderID: "it000001", OccurredAt: time.Now()}); err != nil {
		t.Fatalf("publish failed: %v", err)
	}
}

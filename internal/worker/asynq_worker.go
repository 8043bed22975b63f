package worker

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/dawit-coffee/storefront/internal/logger"
	"github.com/dawit-coffee/storefront/internal/provider"
	"github.com/dawit-coffee/storefront/internal/queue"
	"github.com/dawit-coffee/storefront/internal/service"

	"github.com/hibiken/asynq"
)

// Consumer 异步任务消费者
type Consumer struct {
	*provider.Container
}

// NewConsumer 创建消费者
func NewConsumer(c *provider.Container) *Consumer {
	return &Consumer{
		Container: c,
	}
}

// Register 注册消费者
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskOrderTimeoutExpire, c.handleOrderTimeoutExpire)
	mux.HandleFunc(queue.TaskOrderEventPublish, c.handleOrderEventPublish)
}

func (c *Consumer) handleOrderTimeoutExpire(ctx context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_order_timeout_expire_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.OrderTimeoutExpirePayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_order_timeout_expire_unmarshal_failed", "error", err)
		return err
	}
	if payload.OrderID == "" {
		logger.Debugw("worker_order_timeout_expire_skip_invalid_payload")
		return nil
	}
	if c.OrderService == nil {
		logger.Warnw("worker_order_timeout_expire_skip_order_service_nil", "order_id", payload.OrderID)
		return nil
	}
	expired, err := c.OrderService.ExpireOrder(ctx, payload.OrderID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrOrderNotFound):
			logger.Debugw("worker_order_timeout_expire_skip_order_not_found", "order_id", payload.OrderID)
			return nil
		case errors.Is(err, service.ErrOrderFetchFailed):
			logger.Warnw("worker_order_timeout_expire_fetch_failed", "order_id", payload.OrderID, "error", err)
			return err
		default:
			logger.Warnw("worker_order_timeout_expire_failed", "order_id", payload.OrderID, "error", err)
			return err
		}
	}
	logger.Debugw("worker_order_timeout_expire_done", "order_id", payload.OrderID, "expired", expired)
	return nil
}

func (c *Consumer) handleOrderEventPublish(ctx context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_order_event_publish_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.OrderEventPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_order_event_publish_unmarshal_failed", "error", err)
		return err
	}
	if payload.Event.OrderID == "" || payload.Event.Type == "" {
		logger.Debugw("worker_order_event_publish_skip_invalid_payload", "type", payload.Event.Type)
		return nil
	}
	if c.EventSink == nil {
		logger.Debugw("worker_order_event_publish_skip_sink_nil", "order_id", payload.Event.OrderID, "type", payload.Event.Type)
		return nil
	}
	if err := c.EventSink.Publish(ctx, payload.Event); err != nil {
		logger.Warnw("worker_order_event_publish_failed",
			"order_id", payload.Event.OrderID,
			"type", payload.Event.Type,
			"error", err,
		)
		return err
	}
	return nil
}

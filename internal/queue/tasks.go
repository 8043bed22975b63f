package queue

import (
	"encoding/json"

	"github.com/dawit-coffee/storefront/internal/constants"
	"github.com/dawit-coffee/storefront/internal/events"

	"github.com/hibiken/asynq"
)

const (
	// TaskOrderTimeoutExpire 订单超时失效任务
	TaskOrderTimeoutExpire = constants.TaskOrderTimeoutExpire
	// TaskOrderEventPublish 订单事件发布任务
	TaskOrderEventPublish = constants.TaskOrderEventPublish
)

// OrderTimeoutExpirePayload 超时失效任务载荷
type OrderTimeoutExpirePayload struct {
	OrderID string `json:"order_id"`
}

// OrderEventPayload 订单事件任务载荷
type OrderEventPayload struct {
	Event events.OrderEvent `json:"event"`
}

// NewOrderTimeoutExpireTask 创建超时失效任务
func NewOrderTimeoutExpireTask(payload OrderTimeoutExpirePayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskOrderTimeoutExpire, body), nil
}

// NewOrderEventTask 创建订单事件任务
func NewOrderEventTask(payload OrderEventPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskOrderEventPublish, body), nil
}

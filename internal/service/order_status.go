package service

import (
	"context"
	"time"

	"github.com/dawit-coffee/storefront/internal/constants"
	"github.com/dawit-coffee/storefront/internal/events"
	"github.com/dawit-coffee/storefront/internal/logger"
	"github.com/dawit-coffee/storefront/internal/models"
	"github.com/dawit-coffee/storefront/internal/repository"
)

// allowedTransitions 订单状态只能前进
var allowedTransitions = map[string]map[string]bool{
	constants.OrderStatusCreated: {
		constants.OrderStatusPending: true,
		constants.OrderStatusFailed:  true,
	},
	constants.OrderStatusPending: {
		constants.OrderStatusPaid:   true,
		constants.OrderStatusFailed: true,
	},
}

func isTransitionAllowed(current, target string) bool {
	nexts, ok := allowedTransitions[current]
	if !ok {
		return false
	}
	return nexts[target]
}

// failOrderAndReleaseStock 在事务内把订单置为 failed 并回补库存。
// 订单当前状态不在 from 中时不做任何修改，返回 false。
func failOrderAndReleaseStock(orderRepo repository.OrderRepository, productRepo repository.ProductRepository, order *models.Order, from []string, now time.Time) (bool, error) {
	allowed := make([]string, 0, len(from))
	for _, status := range from {
		if isTransitionAllowed(status, constants.OrderStatusFailed) {
			allowed = append(allowed, status)
		}
	}
	if len(allowed) == 0 {
		return false, nil
	}
	affected, err := orderRepo.TransitionStatus(order.ID, allowed, constants.OrderStatusFailed, map[string]interface{}{
		"failed_at":  now,
		"updated_at": now,
	})
	if err != nil {
		return false, err
	}
	if affected == 0 {
		return false, nil
	}
	items := order.Items
	if len(items) == 0 {
		items, err = orderRepo.ListItems(order.ID)
		if err != nil {
			return false, err
		}
	}
	for _, item := range items {
		if item.Quantity <= 0 {
			continue
		}
		if _, err := productRepo.ReleaseStock(item.ProductID, item.Quantity); err != nil {
			return false, err
		}
	}
	order.Status = constants.OrderStatusFailed
	order.FailedAt = &now
	return true, nil
}

// publishOrderEvent 发布订单事件，失败只记录日志
func publishOrderEvent(ctx context.Context, publisher events.Publisher, eventType string, order *models.Order, source string) {
	if publisher == nil || order == nil {
		return
	}
	event := events.OrderEvent{
		Type:       eventType,
		OrderID:    order.ID,
		Status:     order.Status,
		Total:      order.Total,
		Source:     source,
		OccurredAt: time.Now().UTC(),
	}
	if order.TradeNo != nil {
		event.TradeNo = *order.TradeNo
	}
	if err := publisher.Publish(ctx, event); err != nil {
		logger.Warnw("order_event_publish_failed",
			"order_id", order.ID,
			"event_type", eventType,
			"error", err,
		)
	}
}

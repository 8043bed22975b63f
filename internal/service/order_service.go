package service

import (
	"context"
	"time"

	"github.com/dawit-coffee/storefront/internal/cache"
	"github.com/dawit-coffee/storefront/internal/constants"
	"github.com/dawit-coffee/storefront/internal/events"
	"github.com/dawit-coffee/storefront/internal/logger"
	"github.com/dawit-coffee/storefront/internal/models"
	"github.com/dawit-coffee/storefront/internal/repository"

	"gorm.io/gorm"
)

const defaultSweepLimit = 100

// OrderService 订单查询与超时处理
type OrderService struct {
	orderRepo   repository.OrderRepository
	productRepo repository.ProductRepository
	publisher   events.Publisher
	now         func() time.Time
}

// NewOrderService 创建订单服务
func NewOrderService(orderRepo repository.OrderRepository, productRepo repository.ProductRepository, publisher events.Publisher) *OrderService {
	if publisher == nil {
		publisher = events.NoopPublisher{}
	}
	return &OrderService{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		publisher:   publisher,
		now:         time.Now,
	}
}

// ListOrdersForAdmin 管理端订单列表
func (s *OrderService) ListOrdersForAdmin(filter repository.OrderListFilter) ([]models.Order, int64, error) {
	orders, total, err := s.orderRepo.ListAdmin(filter)
	if err != nil {
		logger.Warnw("order_admin_list_failed", "error", err)
		return nil, 0, ErrOrderFetchFailed
	}
	return orders, total, nil
}

// ListOrderItemsForAdmin 管理端订单项列表
func (s *OrderService) ListOrderItemsForAdmin(orderID string) ([]repository.OrderItemDetail, error) {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		logger.Warnw("order_admin_fetch_failed", "order_id", orderID, "error", err)
		return nil, ErrOrderFetchFailed
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	items, err := s.orderRepo.ListItemDetails(order.ID)
	if err != nil {
		logger.Warnw("order_admin_items_fetch_failed", "order_id", orderID, "error", err)
		return nil, ErrOrderFetchFailed
	}
	return items, nil
}

// ExpireOrder 超时失效：仍为 created 且超过发起支付期限的订单置为 failed 并回补库存
func (s *OrderService) ExpireOrder(ctx context.Context, orderID string) (bool, error) {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return false, ErrOrderFetchFailed
	}
	if order == nil {
		return false, ErrOrderNotFound
	}
	return s.expire(ctx, order, s.now())
}

// SweepExpiredOrders 批量处理已过期的 created 订单，返回处理数量
func (s *OrderService) SweepExpiredOrders(ctx context.Context, limit int) (int, error) {
	if limit <= 0 {
		limit = defaultSweepLimit
	}
	now := s.now()
	orders, err := s.orderRepo.ListExpiredCreated(now, limit)
	if err != nil {
		logger.Warnw("order_expire_sweep_list_failed", "error", err)
		return 0, ErrOrderFetchFailed
	}
	expired := 0
	for i := range orders {
		changed, err := s.expire(ctx, &orders[i], now)
		if err != nil {
			return expired, err
		}
		if changed {
			expired++
		}
	}
	if expired > 0 {
		logger.Infow("order_expire_sweep_done", "expired", expired)
	}
	return expired, nil
}

func (s *OrderService) expire(ctx context.Context, order *models.Order, now time.Time) (bool, error) {
	if order.Status != constants.OrderStatusCreated || order.ExpiresAt == nil || order.ExpiresAt.After(now) {
		return false, nil
	}
	var changed bool
	err := s.orderRepo.Transaction(func(tx *gorm.DB) error {
		var txErr error
		changed, txErr = failOrderAndReleaseStock(s.orderRepo.WithTx(tx), s.productRepo.WithTx(tx), order, []string{constants.OrderStatusCreated}, now)
		return txErr
	})
	if err != nil {
		logger.Warnw("order_expire_failed", "order_id", order.ID, "error", err)
		return false, ErrOrderUpdateFailed
	}
	if !changed {
		return false, nil
	}
	logger.Infow("order_expired", "order_id", order.ID)
	if err := cache.InvalidateCatalog(ctx); err != nil {
		logger.Warnw("order_catalog_invalidate_failed", "order_id", order.ID, "error", err)
	}
	publishOrderEvent(ctx, s.publisher, constants.OrderEventFailed, order, constants.EventSourceExpire)
	return true, nil
}

package service

import (
	"context"
	"time"

	"github.com/dawit-coffee/storefront/internal/cache"
	"github.com/dawit-coffee/storefront/internal/constants"
	"github.com/dawit-coffee/storefront/internal/events"
	"github.com/dawit-coffee/storefront/internal/logger"
	"github.com/dawit-coffee/storefront/internal/payment/ecpay"
	"github.com/dawit-coffee/storefront/internal/repository"

	"gorm.io/gorm"
)

// PaymentOptions 回调处理开关
type PaymentOptions struct {
	VerifyCallback    bool
	AllowSimulatePaid bool
}

// PaymentService 绿界付款发起与回调对账
type PaymentService struct {
	orderRepo   repository.OrderRepository
	productRepo repository.ProductRepository
	cartStore   cache.CartStore
	client      *ecpay.Client
	publisher   events.Publisher
	options     PaymentOptions
	now         func() time.Time
}

// NewPaymentService 创建支付服务
func NewPaymentService(orderRepo repository.OrderRepository, productRepo repository.ProductRepository, cartStore cache.CartStore, client *ecpay.Client, publisher events.Publisher, options PaymentOptions) *PaymentService {
	if publisher == nil {
		publisher = events.NoopPublisher{}
	}
	return &PaymentService{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		cartStore:   cartStore,
		client:      client,
		publisher:   publisher,
		options:     options,
		now:         time.Now,
	}
}

// Initiate 为会话内的订单生成交易编号并构建收银台表单，订单进入 pending。
// 已过期的 created 订单会被置为 failed 并回补库存。
func (s *PaymentService) Initiate(ctx context.Context, sessionID, orderID string) (*ecpay.CheckoutForm, error) {
	order, err := s.orderRepo.GetBySession(orderID, sessionID)
	if err != nil {
		logger.Warnw("payment_order_fetch_failed", "order_id", orderID, "error", err)
		return nil, ErrOrderFetchFailed
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	if order.Status != constants.OrderStatusCreated && order.Status != constants.OrderStatusPending {
		return nil, ErrOrderNotFound
	}

	now := s.now()
	if order.Status == constants.OrderStatusCreated && order.ExpiresAt != nil && !order.ExpiresAt.After(now) {
		var failed bool
		err := s.orderRepo.Transaction(func(tx *gorm.DB) error {
			var txErr error
			failed, txErr = failOrderAndReleaseStock(s.orderRepo.WithTx(tx), s.productRepo.WithTx(tx), order, []string{constants.OrderStatusCreated}, now)
			return txErr
		})
		if err != nil {
			logger.Warnw("payment_order_expire_failed", "order_id", order.ID, "error", err)
			return nil, ErrOrderUpdateFailed
		}
		if failed {
			logger.Infow("payment_order_expired", "order_id", order.ID)
			if err := cache.InvalidateCatalog(ctx); err != nil {
				logger.Warnw("payment_catalog_invalidate_failed", "order_id", order.ID, "error", err)
			}
			publishOrderEvent(ctx, s.publisher, constants.OrderEventFailed, order, constants.EventSourceExpire)
		}
		return nil, ErrOrderNotFound
	}

	details, err := s.orderRepo.ListItemDetails(order.ID)
	if err != nil {
		logger.Warnw("payment_order_items_fetch_failed", "order_id", order.ID, "error", err)
		return nil, ErrOrderFetchFailed
	}
	items := make([]ecpay.Item, 0, len(details))
	for _, detail := range details {
		items = append(items, ecpay.Item{Name: detail.ProductName, Quantity: detail.Quantity})
	}

	tradeNo := ecpay.BuildTradeNo(s.client.TradeNoPrefix(), order.ID, now)
	affected, err := s.orderRepo.AssignTradeNo(order.ID, tradeNo)
	if err != nil {
		logger.Warnw("payment_trade_no_assign_failed", "order_id", order.ID, "trade_no", tradeNo, "error", err)
		return nil, ErrPaymentInitFailed
	}
	if affected == 0 {
		return nil, ErrOrderNotFound
	}

	form, err := s.client.BuildCheckoutForm(ecpay.CheckoutRequest{
		TradeNo:     tradeNo,
		TradeTime:   now,
		TotalAmount: order.Total,
		Items:       items,
	})
	if err != nil {
		logger.Warnw("payment_form_build_failed", "order_id", order.ID, "trade_no", tradeNo, "error", err)
		return nil, ErrPaymentInitFailed
	}
	logger.Infow("payment_initiated",
		"order_id", order.ID,
		"trade_no", tradeNo,
		"total", order.Total,
	)
	return form, nil
}

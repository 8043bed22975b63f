package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/dawit-coffee/storefront/internal/cache"
	"github.com/dawit-coffee/storefront/internal/constants"
	"github.com/dawit-coffee/storefront/internal/events"
	"github.com/dawit-coffee/storefront/internal/logger"
	"github.com/dawit-coffee/storefront/internal/models"
	"github.com/dawit-coffee/storefront/internal/queue"
	"github.com/dawit-coffee/storefront/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	orderIDLength       = 8
	orderIDMaxAttempts  = 5
	defaultExpireMinute = 30
)

// CheckoutInput 结账输入
type CheckoutInput struct {
	SessionID string
	Name      string
	Phone     string
	Address   string
	Notes     string
}

// CheckoutResult 结账结果
type CheckoutResult struct {
	OrderID      string `json:"orderId"`
	RedirectPath string `json:"redirectPath"`
}

// CheckoutService 结账协调：校验库存、创建订单并扣减库存
type CheckoutService struct {
	orderRepo     repository.OrderRepository
	productRepo   repository.ProductRepository
	cartStore     cache.CartStore
	queueClient   *queue.Client
	publisher     events.Publisher
	shipping      ShippingPolicy
	expireMinutes int
	now           func() time.Time
	newOrderID    func() string
}

// NewCheckoutService 创建结账服务
func NewCheckoutService(orderRepo repository.OrderRepository, productRepo repository.ProductRepository, cartStore cache.CartStore, queueClient *queue.Client, publisher events.Publisher, shipping ShippingPolicy, expireMinutes int) *CheckoutService {
	if expireMinutes <= 0 {
		expireMinutes = defaultExpireMinute
	}
	if publisher == nil {
		publisher = events.NoopPublisher{}
	}
	return &CheckoutService{
		orderRepo:     orderRepo,
		productRepo:   productRepo,
		cartStore:     cartStore,
		queueClient:   queueClient,
		publisher:     publisher,
		shipping:      shipping,
		expireMinutes: expireMinutes,
		now:           time.Now,
		newOrderID:    generateOrderID,
	}
}

// Checkout 校验购物车与联系信息，在一个事务内创建订单、订单项并扣减库存。
// 购物车不在此处清空，付款确认后才清空。
func (s *CheckoutService) Checkout(ctx context.Context, input CheckoutInput) (*CheckoutResult, error) {
	sessionID := strings.TrimSpace(input.SessionID)
	if sessionID == "" {
		return nil, ErrEmptyCart
	}
	cart, err := s.cartStore.Get(ctx, sessionID)
	if err != nil {
		logger.Warnw("checkout_cart_fetch_failed", "session_id", sessionID, "error", err)
		return nil, ErrCartFetchFailed
	}
	ids := make([]string, 0, len(cart))
	for productID, quantity := range cart {
		if quantity > 0 {
			ids = append(ids, productID)
		}
	}
	if len(ids) == 0 {
		return nil, ErrEmptyCart
	}
	// 先按有效商品判断空车，已下架商品不计入
	existing, err := s.productRepo.ListByIDs(ids)
	if err != nil {
		logger.Warnw("checkout_products_fetch_failed", "session_id", sessionID, "error", err)
		return nil, ErrOrderCreateFailed
	}
	if len(existing) == 0 {
		return nil, ErrEmptyCart
	}

	name := strings.TrimSpace(input.Name)
	phone := strings.TrimSpace(input.Phone)
	address := strings.TrimSpace(input.Address)
	if name == "" || phone == "" || address == "" {
		return nil, ErrMissingContactInfo
	}

	now := s.now()
	expiresAt := now.Add(time.Duration(s.expireMinutes) * time.Minute)
	order := &models.Order{
		SessionID: sessionID,
		Name:      name,
		Phone:     phone,
		Address:   address,
		Notes:     strings.TrimSpace(input.Notes),
		Status:    constants.OrderStatusCreated,
		ExpiresAt: &expiresAt,
	}

	err = s.orderRepo.Transaction(func(tx *gorm.DB) error {
		orderRepo := s.orderRepo.WithTx(tx)
		productRepo := s.productRepo.WithTx(tx)

		products, err := productRepo.ListByIDs(ids)
		if err != nil {
			return err
		}
		items := make([]models.OrderItem, 0, len(products))
		var subtotal int64
		for _, product := range products {
			quantity := cart[product.ID]
			if quantity <= 0 {
				continue
			}
			if product.Stock < quantity {
				return newInsufficientStockError(product.ID, product.Name, product.Stock)
			}
			lineTotal := product.Price * int64(quantity)
			items = append(items, models.OrderItem{
				ProductID: product.ID,
				Quantity:  quantity,
				Price:     product.Price,
				LineTotal: lineTotal,
			})
			subtotal += lineTotal
		}
		if len(items) == 0 {
			return ErrEmptyCart
		}

		orderID, err := s.allocateOrderID(orderRepo)
		if err != nil {
			return err
		}
		order.ID = orderID
		order.Subtotal = subtotal
		order.Shipping = s.shipping.Calculate(subtotal)
		order.Total = subtotal + order.Shipping
		if err := orderRepo.Create(order, items); err != nil {
			return err
		}

		for _, item := range items {
			affected, err := productRepo.ReserveStock(item.ProductID, item.Quantity)
			if err != nil {
				return err
			}
			if affected == 0 {
				current, err := productRepo.GetByID(item.ProductID)
				if err != nil {
					return err
				}
				if current == nil {
					return ErrInvalidProduct
				}
				return newInsufficientStockError(current.ID, current.Name, current.Stock)
			}
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrInsufficientStock) || errors.Is(err, ErrEmptyCart) || errors.Is(err, ErrInvalidProduct) {
			return nil, err
		}
		logger.Errorw("checkout_order_create_failed", "session_id", sessionID, "error", err)
		return nil, ErrOrderCreateFailed
	}

	logger.Infow("checkout_order_created",
		"order_id", order.ID,
		"session_id", sessionID,
		"total", order.Total,
		"items", len(order.Items),
	)
	if err := cache.InvalidateCatalog(ctx); err != nil {
		logger.Warnw("checkout_catalog_invalidate_failed", "order_id", order.ID, "error", err)
	}
	if s.queueClient != nil {
		if err := s.queueClient.EnqueueOrderTimeoutExpire(queue.OrderTimeoutExpirePayload{OrderID: order.ID}, expiresAt.Sub(now)); err != nil {
			logger.Warnw("checkout_enqueue_timeout_failed", "order_id", order.ID, "error", err)
		}
	}
	publishOrderEvent(ctx, s.publisher, constants.OrderEventCreated, order, "")

	return &CheckoutResult{
		OrderID:      order.ID,
		RedirectPath: "/pay/" + order.ID,
	}, nil
}

func (s *CheckoutService) allocateOrderID(orderRepo repository.OrderRepository) (string, error) {
	for attempt := 0; attempt < orderIDMaxAttempts; attempt++ {
		candidate := s.newOrderID()
		exists, err := orderRepo.Exists(candidate)
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}
	}
	return "", errors.New("order id allocation exhausted")
}

// generateOrderID 生成 8 位短订单编号
func generateOrderID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:orderIDLength]
}

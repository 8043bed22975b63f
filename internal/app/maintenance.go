package app

import (
	"context"
	"sync"
	"time"

	"github.com/dawit-coffee/storefront/internal/cache"
	"github.com/dawit-coffee/storefront/internal/logger"
	"github.com/dawit-coffee/storefront/internal/service"
)

const (
	defaultMaintenanceInterval = time.Minute
	maintenanceOrderSweepLimit = 200
)

type orderSweeper interface {
	SweepExpiredOrders(ctx context.Context, limit int) (int, error)
}

type cartSweeper interface {
	Sweep() int
}

// MaintenanceService 周期清理：过期购物车与超时未付款订单
type MaintenanceService struct {
	orders   orderSweeper
	carts    cartSweeper
	interval time.Duration

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// NewMaintenanceService 创建周期清理服务，sweepOrders 为 false 时订单扫描交给 worker
func NewMaintenanceService(orders *service.OrderService, carts *cache.MemoryCartStore, sweepOrders bool) *MaintenanceService {
	s := &MaintenanceService{interval: defaultMaintenanceInterval}
	if sweepOrders && orders != nil {
		s.orders = orders
	}
	if carts != nil {
		s.carts = carts
	}
	return s
}

// HasWork 是否有需要周期执行的清理
func (s *MaintenanceService) HasWork() bool {
	return s != nil && (s.orders != nil || s.carts != nil)
}

// Name 服务名称
func (s *MaintenanceService) Name() string {
	return "maintenance"
}

// Start 启动周期清理，直到 ctx 结束或 Stop 被调用
func (s *MaintenanceService) Start(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	s.mu.Lock()
	s.cancel = cancel
	s.done = done
	s.mu.Unlock()
	defer close(done)

	interval := s.interval
	if interval <= 0 {
		interval = defaultMaintenanceInterval
	}
	s.runOnce(ctx)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			s.runOnce(ctx)
		}
	}
}

// Stop 停止周期清理
func (s *MaintenanceService) Stop(ctx context.Context) error {
	s.mu.Lock()
	cancel, done := s.cancel, s.done
	s.mu.Unlock()
	if cancel == nil {
		return nil
	}
	cancel()
	select {
	case <-done:
	case <-ctx.Done():
		return ctx.Err()
	}
	return nil
}

func (s *MaintenanceService) runOnce(ctx context.Context) {
	if s.carts != nil {
		if removed := s.carts.Sweep(); removed > 0 {
			logger.Debugw("maintenance_cart_sweep_done", "removed", removed)
		}
	}
	if s.orders != nil {
		if _, err := s.orders.SweepExpiredOrders(ctx, maintenanceOrderSweepLimit); err != nil {
			logger.Warnw("maintenance_order_sweep_failed", "error", err)
		}
	}
}

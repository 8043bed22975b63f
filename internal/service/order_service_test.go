package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dawit-coffee/storefront/internal/constants"
	"github.com/dawit-coffee/storefront/internal/repository"
)

func TestIsTransitionAllowed(t *testing.T) {
	cases := []struct {
		from, to string
		want     bool
	}{
		{constants.OrderStatusCreated, constants.OrderStatusPending, true},
		{constants.OrderStatusCreated, constants.OrderStatusFailed, true},
		{constants.OrderStatusPending, constants.OrderStatusPaid, true},
		{constants.OrderStatusPending, constants.OrderStatusFailed, true},
		{constants.OrderStatusCreated, constants.OrderStatusPaid, false},
		{constants.OrderStatusPaid, constants.OrderStatusFailed, false},
		{constants.OrderStatusFailed, constants.OrderStatusPaid, false},
		{constants.OrderStatusPaid, constants.OrderStatusPending, false},
	}
	for _, tc := range cases {
		if got := isTransitionAllowed(tc.from, tc.to); got != tc.want {
			t.Fatalf("%s -> %s want %v got %v", tc.from, tc.to, tc.want, got)
		}
	}
}

func TestSweepExpiredOrders(t *testing.T) {
	f := setupServiceTest(t)
	ctx := context.Background()
	f.seedProduct(t, "p1", 300, 5)
	expiring := f.placeOrder(t, "one", "p1", 2)
	pending := f.placeOrder(t, "two", "p1", 1)
	f.initiate(t, "two", pending)
	if f.stockOf(t, "p1") != 2 {
		t.Fatalf("stock should be reserved")
	}

	swept, err := f.orders.SweepExpiredOrders(ctx, 0)
	if err != nil {
		t.Fatalf("sweep failed: %v", err)
	}
	if swept != 0 {
		t.Fatalf("nothing should expire yet, got %d", swept)
	}

	f.orders.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	swept, err = f.orders.SweepExpiredOrders(ctx, 0)
	if err != nil {
		t.Fatalf("sweep failed: %v", err)
	}
	if swept != 1 {
		t.Fatalf("swept want 1 got %d", swept)
	}
	if got := f.orderOf(t, expiring).Status; got != constants.OrderStatusFailed {
		t.Fatalf("expired order status want failed got %s", got)
	}
	if got := f.orderOf(t, pending).Status; got != constants.OrderStatusPending {
		t.Fatalf("pending order should stay pending, got %s", got)
	}
	if f.stockOf(t, "p1") != 4 {
		t.Fatalf("stock want 4 got %d", f.stockOf(t, "p1"))
	}
	if f.publisher.CountByType(constants.OrderEventFailed) != 1 {
		t.Fatalf("order.failed should be published once")
	}

	changed, err := f.orders.ExpireOrder(ctx, expiring)
	if err != nil {
		t.Fatalf("expire again failed: %v", err)
	}
	if changed {
		t.Fatalf("expiring twice should be a no-op")
	}
	if _, err := f.orders.ExpireOrder(ctx, "missing0"); !errors.Is(err, ErrOrderNotFound) {
		t.Fatalf("want ErrOrderNotFound got %v", err)
	}
}

func TestAdminOrderQueries(t *testing.T) {
	f := setupServiceTest(t)
	f.seedProduct(t, "p1", 300, 5)
	orderID := f.placeOrder(t, "sess", "p1", 2)

	orders, total, err := f.orders.ListOrdersForAdmin(repository.OrderListFilter{Page: 1, PageSize: 20})
	if err != nil {
		t.Fatalf("list orders failed: %v", err)
	}
	if total != 1 || len(orders) != 1 || orders[0].ID != orderID {
		t.Fatalf("unexpected orders: total=%d %+v", total, orders)
	}

	items, err := f.orders.ListOrderItemsForAdmin(orderID)
	if err != nil {
		t.Fatalf("list items failed: %v", err)
	}
	if len(items) != 1 || items[0].ProductName != "咖啡 p1" || items[0].LineTotal != 600 {
		t.Fatalf("unexpected items: %+v", items)
	}
	if _, err := f.orders.ListOrderItemsForAdmin("missing0"); !errors.Is(err, ErrOrderNotFound) {
		t.Fatalf("want ErrOrderNotFound got %v", err)
	}
}

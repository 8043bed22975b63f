package repository

import (
	"testing"
	"time"

	"github.com/dawit-coffee/storefront/internal/constants"
	"github.com/dawit-coffee/storefront/internal/models"

	"gorm.io/gorm"
)

func createTestOrder(t *testing.T, repo *GormOrderRepository, id, sessionID string, createdAt time.Time) *models.Order {
	t.Helper()
	order := &models.Order{
		ID:        id,
		SessionID: sessionID,
		Name:      "王小明",
		Phone:     "0912345678",
		Address:   "台北市信義區",
		Subtotal:  300,
		Shipping:  60,
		Total:     360,
		Status:    constants.OrderStatusCreated,
		CreatedAt: createdAt,
	}
	items := []models.OrderItem{{ProductID: "p1", Quantity: 1, Price: 300, LineTotal: 300}}
	if err := repo.Create(order, items); err != nil {
		t.Fatalf("create order failed: %v", err)
	}
	return order
}

func TestOrderCreateAndLoadItems(t *testing.T) {
	db := openRepositoryTestDB(t)
	seedProduct(t, db, "p1", 300, 5)
	repo := NewOrderRepository(db)
	createTestOrder(t, repo, "abcd1234", "sid-1", time.Now())

	order, err := repo.GetByID("abcd1234")
	if err != nil || order == nil {
		t.Fatalf("get order failed: %v", err)
	}
	if len(order.Items) != 1 || order.Items[0].LineTotal != 300 {
		t.Fatalf("unexpected items: %+v", order.Items)
	}

	exists, err := repo.Exists("abcd1234")
	if err != nil || !exists {
		t.Fatalf("expected order to exist: %v", err)
	}

	other, err := repo.GetBySession("abcd1234", "sid-2")
	if err != nil {
		t.Fatalf("get by session failed: %v", err)
	}
	if other != nil {
		t.Fatalf("order must not be visible to another session")
	}

	details, err := repo.ListItemDetails("abcd1234")
	if err != nil {
		t.Fatalf("list item details failed: %v", err)
	}
	if len(details) != 1 || details[0].ProductName != "商品 p1" {
		t.Fatalf("unexpected details: %+v", details)
	}
}

func TestOrderItemRequiresExistingProduct(t *testing.T) {
	db := openRepositoryTestDB(t)
	repo := NewOrderRepository(db)
	order := &models.Order{ID: "zzzz0000", Name: "a", Phone: "b", Address: "c", Status: constants.OrderStatusCreated}
	err := repo.Transaction(func(tx *gorm.DB) error {
		return repo.WithTx(tx).Create(order, []models.OrderItem{{ProductID: "ghost", Quantity: 1, Price: 1, LineTotal: 1}})
	})
	if err == nil {
		t.Fatalf("expected foreign key failure for unknown product")
	}
	exists, _ := repo.Exists("zzzz0000")
	if exists {
		t.Fatalf("order must be rolled back with its items")
	}
}

func TestAssignTradeNoAndTransition(t *testing.T) {
	db := openRepositoryTestDB(t)
	seedProduct(t, db, "p1", 300, 5)
	repo := NewOrderRepository(db)
	createTestOrder(t, repo, "abcd1234", "sid-1", time.Now())

	affected, err := repo.AssignTradeNo("abcd1234", "TESTabcd12341700000")
	if err != nil || affected != 1 {
		t.Fatalf("assign trade no failed: affected=%d err=%v", affected, err)
	}
	order, _ := repo.GetByTradeNo("TESTabcd12341700000")
	if order == nil || order.Status != constants.OrderStatusPending {
		t.Fatalf("expected pending order by trade no, got %+v", order)
	}

	affected, err = repo.TransitionStatus("abcd1234", []string{constants.OrderStatusPending}, constants.OrderStatusPaid, nil)
	if err != nil || affected != 1 {
		t.Fatalf("transition failed: affected=%d err=%v", affected, err)
	}
	affected, err = repo.TransitionStatus("abcd1234", []string{constants.OrderStatusPending}, constants.OrderStatusPaid, nil)
	if err != nil {
		t.Fatalf("second transition failed: %v", err)
	}
	if affected != 0 {
		t.Fatalf("second transition must be a no-op, affected=%d", affected)
	}

	affected, err = repo.AssignTradeNo("abcd1234", "TESTother")
	if err != nil {
		t.Fatalf("assign on paid order failed: %v", err)
	}
	if affected != 0 {
		t.Fatalf("paid order must not accept a new trade no")
	}
}

func TestListAdminNewestFirstAndExpired(t *testing.T) {
	db := openRepositoryTestDB(t)
	seedProduct(t, db, "p1", 300, 5)
	repo := NewOrderRepository(db)
	base := time.Now().Add(-time.Hour)
	createTestOrder(t, repo, "old00001", "sid", base)
	createTestOrder(t, repo, "new00002", "sid", base.Add(30*time.Minute))

	orders, total, err := repo.ListAdmin(OrderListFilter{Page: 1, PageSize: 10})
	if err != nil {
		t.Fatalf("list admin failed: %v", err)
	}
	if total != 2 || len(orders) != 2 || orders[0].ID != "new00002" {
		t.Fatalf("expected newest first, got total=%d orders=%+v", total, orders)
	}

	past := time.Now().Add(-time.Minute)
	if err := db.Model(&models.Order{}).Where("id = ?", "old00001").Update("expires_at", past).Error; err != nil {
		t.Fatalf("set expires_at failed: %v", err)
	}
	expired, err := repo.ListExpiredCreated(time.Now(), 10)
	if err != nil {
		t.Fatalf("list expired failed: %v", err)
	}
	if len(expired) != 1 || expired[0].ID != "old00001" {
		t.Fatalf("unexpected expired orders: %+v", expired)
	}
}

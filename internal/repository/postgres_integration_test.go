//go:build integration
// +build integration

package repository

import (
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dawit-coffee/storefront/internal/constants"
	"github.com/dawit-coffee/storefront/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// setupPostgresIntegrationDB 初始化 PostgreSQL 集成测试数据库。
func setupPostgresIntegrationDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := strings.TrimSpace(os.Getenv("TEST_POSTGRES_DSN"))
	if dsn == "" {
		t.Skip("skip postgres integration test: TEST_POSTGRES_DSN is empty")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open postgres failed: %v", err)
	}

	cleanupModels := []interface{}{
		&models.OrderItem{},
		&models.Order{},
		&models.Product{},
	}
	_ = db.Migrator().DropTable(cleanupModels...)

	if err := models.AutoMigrate(db); err != nil {
		t.Fatalf("migrate postgres models failed: %v", err)
	}

	t.Cleanup(func() {
		_ = db.Migrator().DropTable(cleanupModels...)
		sqlDB, err := db.DB()
		if err == nil {
			_ = sqlDB.Close()
		}
	})

	return db
}

func TestPostgresReserveStockUnderContention(t *testing.T) {
	db := setupPostgresIntegrationDB(t)
	seedProduct(t, db, "pg-last", 300, 3)
	repo := NewProductRepository(db)

	var wg sync.WaitGroup
	var mu sync.Mutex
	reserved := 0
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			affected, err := repo.ReserveStock("pg-last", 1)
			if err != nil {
				t.Errorf("reserve stock failed: %v", err)
				return
			}
			if affected == 1 {
				mu.Lock()
				reserved++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if reserved != 3 {
		t.Fatalf("exactly 3 reservations should succeed, got %d", reserved)
	}
	product, err := repo.GetByID("pg-last")
	if err != nil || product == nil {
		t.Fatalf("reload product failed: %v", err)
	}
	if product.Stock != 0 {
		t.Fatalf("stock should be 0, got %d", product.Stock)
	}
}

func TestPostgresOrderTransitionAndTradeNo(t *testing.T) {
	db := setupPostgresIntegrationDB(t)
	seedProduct(t, db, "pg-p1", 300, 5)
	repo := NewOrderRepository(db)

	expires := time.Now().Add(time.Hour)
	order := &models.Order{
		ID:        "pg000001",
		SessionID: "sid-1",
		Name:      "王小明",
		Phone:     "0912345678",
		Address:   "台北",
		Subtotal:  300,
		Shipping:  60,
		Total:     360,
		Status:    constants.OrderStatusCreated,
		ExpiresAt: &expires,
	}
	items := []models.OrderItem{{ProductID: "pg-p1", Quantity: 1, Price: 300, LineTotal: 300}}
	if err := repo.Create(order, items); err != nil {
		t.Fatalf("create order failed: %v", err)
	}

	affected, err := repo.AssignTradeNo(order.ID, "TESTpg0000011234567")
	if err != nil || affected != 1 {
		t.Fatalf("assign trade no failed: affected=%d err=%v", affected, err)
	}
	found, err := repo.GetByTradeNo("TESTpg0000011234567")
	if err != nil || found == nil || found.Status != constants.OrderStatusPending {
		t.Fatalf("order should be pending by trade no: %+v err=%v", found, err)
	}

	affected, err = repo.TransitionStatus(order.ID, []string{constants.OrderStatusPending}, constants.OrderStatusPaid, nil)
	if err != nil || affected != 1 {
		t.Fatalf("transition failed: affected=%d err=%v", affected, err)
	}
	affected, err = repo.TransitionStatus(order.ID, []string{constants.OrderStatusPending}, constants.OrderStatusPaid, nil)
	if err != nil || affected != 0 {
		t.Fatalf("second transition should be a no-op: affected=%d err=%v", affected, err)
	}

	details, err := repo.ListItemDetails(order.ID)
	if err != nil || len(details) != 1 || details[0].ProductName == "" {
		t.Fatalf("unexpected item details: %+v err=%v", details, err)
	}
}

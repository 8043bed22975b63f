//go:build integration
// +build integration

package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dawit-coffee/storefront/internal/cache"
	"github.com/dawit-coffee/storefront/internal/events"
	"github.com/dawit-coffee/storefront/internal/models"
	"github.com/dawit-coffee/storefront/internal/repository"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupPostgresCheckout(t *testing.T) (*gorm.DB, *cache.MemoryCartStore, *CheckoutService) {
	t.Helper()

	dsn := strings.TrimSpace(os.Getenv("TEST_POSTGRES_DSN"))
	if dsn == "" {
		t.Skip("skip postgres integration test: TEST_POSTGRES_DSN is empty")
	}
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open postgres failed: %v", err)
	}
	cleanupModels := []interface{}{&models.OrderItem{}, &models.Order{}, &models.Product{}}
	_ = db.Migrator().DropTable(cleanupModels...)
	if err := models.AutoMigrate(db); err != nil {
		t.Fatalf("migrate postgres models failed: %v", err)
	}
	t.Cleanup(func() {
		_ = db.Migrator().DropTable(cleanupModels...)
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	carts := cache.NewMemoryCartStore(time.Hour)
	checkout := NewCheckoutService(
		repository.NewOrderRepository(db),
		repository.NewProductRepository(db),
		carts,
		nil,
		&events.RecordingPublisher{},
		defaultShippingPolicy(),
		30,
	)
	return db, carts, checkout
}

// 多连接并发下由条件扣减决定唯一的成功者
func TestPostgresConcurrentCheckoutLastUnits(t *testing.T) {
	db, carts, checkout := setupPostgresCheckout(t)
	if err := db.Create(&models.Product{ID: "pg-last", Name: "耶加雪菲", Price: 300, Stock: 2}).Error; err != nil {
		t.Fatalf("seed product failed: %v", err)
	}

	const buyers = 8
	for i := 0; i < buyers; i++ {
		if err := carts.Set(context.Background(), fmt.Sprintf("buyer-%d", i), "pg-last", 1); err != nil {
			t.Fatalf("set cart failed: %v", err)
		}
	}

	var wg sync.WaitGroup
	errs := make([]error, buyers)
	start := make(chan struct{})
	for i := 0; i < buyers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			_, errs[i] = checkout.Checkout(context.Background(), validCheckoutInput(fmt.Sprintf("buyer-%d", i)))
		}(i)
	}
	close(start)
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, ErrInsufficientStock):
		default:
			t.Fatalf("unexpected checkout error: %v", err)
		}
	}
	if succeeded != 2 {
		t.Fatalf("exactly two checkouts should succeed, got %d", succeeded)
	}
	var product models.Product
	if err := db.Where("id = ?", "pg-last").First(&product).Error; err != nil {
		t.Fatalf("reload product failed: %v", err)
	}
	if product.Stock != 0 {
		t.Fatalf("stock should be 0, got %d", product.Stock)
	}
	var orders int64
	if err := db.Model(&models.Order{}).Count(&orders).Error; err != nil {
		t.Fatalf("count orders failed: %v", err)
	}
	if orders != 2 {
		t.Fatalf("only successful checkouts should leave orders, got %d", orders)
	}
}

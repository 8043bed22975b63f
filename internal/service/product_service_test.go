package service

import (
	"context"
	"errors"
	"testing"

	"github.com/dawit-coffee/storefront/internal/repository"
)

func TestProductCreateAndPatch(t *testing.T) {
	f := setupServiceTest(t)
	svc := NewProductService(f.productRepo)
	ctx := context.Background()

	product, err := svc.Create(ctx, CreateProductInput{ID: " latte ", Name: "拿铁", Price: 120, Stock: -3})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if product.ID != "latte" || product.Stock != 0 {
		t.Fatalf("unexpected product: %+v", product)
	}
	if _, err := svc.Create(ctx, CreateProductInput{ID: "latte", Name: "拿铁", Price: 120}); !errors.Is(err, ErrDuplicateProductID) {
		t.Fatalf("want ErrDuplicateProductID got %v", err)
	}
	if _, err := svc.Create(ctx, CreateProductInput{ID: "mocha", Name: "", Price: 120}); !errors.Is(err, ErrProductInvalid) {
		t.Fatalf("want ErrProductInvalid got %v", err)
	}
	if _, err := svc.Create(ctx, CreateProductInput{ID: "mocha", Name: "摩卡", Price: -1}); !errors.Is(err, ErrProductInvalid) {
		t.Fatalf("want ErrProductInvalid for negative price got %v", err)
	}

	price := int64(150)
	stock := 12
	updated, err := svc.Patch(ctx, "latte", repository.ProductPatch{Price: &price, Stock: &stock})
	if err != nil {
		t.Fatalf("patch failed: %v", err)
	}
	if updated.Price != 150 || updated.Stock != 12 || updated.Name != "拿铁" {
		t.Fatalf("unexpected patched product: %+v", updated)
	}
	negative := -4
	updated, err = svc.Patch(ctx, "latte", repository.ProductPatch{Stock: &negative})
	if err != nil {
		t.Fatalf("patch negative stock failed: %v", err)
	}
	if updated.Stock != 0 {
		t.Fatalf("stock should clamp to 0, got %d", updated.Stock)
	}
	if _, err := svc.Patch(ctx, "missing", repository.ProductPatch{Price: &price}); !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("want ErrProductNotFound got %v", err)
	}

	products, err := svc.ListPublic(ctx)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(products) != 1 || products[0].ID != "latte" {
		t.Fatalf("unexpected products: %+v", products)
	}
}

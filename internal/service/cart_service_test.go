package service

import (
	"context"
	"errors"
	"reflect"
	"testing"
)

func TestShippingPolicyCalculate(t *testing.T) {
	policy := defaultShippingPolicy()
	cases := []struct {
		subtotal int64
		want     int64
	}{
		{0, 0},
		{1, 60},
		{300, 60},
		{499, 60},
		{500, 0},
		{1200, 0},
	}
	for _, tc := range cases {
		if got := policy.Calculate(tc.subtotal); got != tc.want {
			t.Fatalf("subtotal %d: shipping want %d got %d", tc.subtotal, tc.want, got)
		}
	}
}

func TestCartSummaryTotalsHold(t *testing.T) {
	f := setupServiceTest(t)
	ctx := context.Background()
	f.seedProduct(t, "a", 120, 10)
	f.seedProduct(t, "b", 250, 10)

	steps := []struct {
		productID string
		quantity  int
	}{
		{"a", 1}, {"b", 1}, {"a", 1}, {"b", 1}, {"a", 3},
	}
	for _, step := range steps {
		summary, err := f.cart.Add(ctx, "sess", step.productID, step.quantity)
		if err != nil {
			t.Fatalf("add %s failed: %v", step.productID, err)
		}
		if summary.Total != summary.Subtotal+summary.Shipping {
			t.Fatalf("total mismatch: %+v", summary)
		}
		free := summary.Subtotal == 0 || summary.Subtotal >= 500
		if (summary.Shipping == 0) != free {
			t.Fatalf("shipping rule broken: %+v", summary)
		}
		var lines int64
		for _, line := range summary.Items {
			lines += line.LineTotal
		}
		if lines != summary.Subtotal {
			t.Fatalf("subtotal want %d got %d", lines, summary.Subtotal)
		}
	}
}

func TestCartExampleBelowThreshold(t *testing.T) {
	f := setupServiceTest(t)
	f.seedProduct(t, "p1", 300, 1)

	summary, err := f.cart.Add(context.Background(), "sess", "p1", 1)
	if err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if summary.Subtotal != 300 || summary.Shipping != 60 || summary.Total != 360 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
}

func TestCartAddThenRemoveRestoresSummary(t *testing.T) {
	f := setupServiceTest(t)
	ctx := context.Background()
	f.seedProduct(t, "a", 120, 10)
	f.seedProduct(t, "b", 80, 10)

	if _, err := f.cart.Add(ctx, "sess", "a", 2); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	before, err := f.cart.Summarize(ctx, "sess")
	if err != nil {
		t.Fatalf("summarize failed: %v", err)
	}

	if _, err := f.cart.Add(ctx, "sess", "b", 3); err != nil {
		t.Fatalf("add b failed: %v", err)
	}
	after, err := f.cart.Update(ctx, "sess", "b", 0)
	if err != nil {
		t.Fatalf("remove b failed: %v", err)
	}
	if !reflect.DeepEqual(before, after) {
		t.Fatalf("summary not restored: before %+v after %+v", before, after)
	}
}

func TestCartAddValidation(t *testing.T) {
	f := setupServiceTest(t)
	ctx := context.Background()
	f.seedProduct(t, "a", 100, 2)

	if _, err := f.cart.Add(ctx, "sess", "missing", 1); !errors.Is(err, ErrInvalidProduct) {
		t.Fatalf("want ErrInvalidProduct got %v", err)
	}

	summary, err := f.cart.Add(ctx, "sess", "a", 0)
	if err != nil {
		t.Fatalf("add with zero quantity failed: %v", err)
	}
	if summary.Items[0].Quantity != 1 {
		t.Fatalf("quantity should be coerced to 1, got %d", summary.Items[0].Quantity)
	}

	_, err = f.cart.Add(ctx, "sess", "a", 2)
	var stockErr *InsufficientStockError
	if !errors.As(err, &stockErr) {
		t.Fatalf("want InsufficientStockError got %v", err)
	}
	if stockErr.ProductID != "a" || stockErr.Remaining != 2 {
		t.Fatalf("unexpected stock error: %+v", stockErr)
	}
	if !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("stock error should match ErrInsufficientStock")
	}
}

func TestCartUpdateValidation(t *testing.T) {
	f := setupServiceTest(t)
	ctx := context.Background()
	f.seedProduct(t, "a", 100, 3)
	f.seedProduct(t, "b", 100, 3)

	if _, err := f.cart.Update(ctx, "sess", "a", 1); !errors.Is(err, ErrItemNotInCart) {
		t.Fatalf("want ErrItemNotInCart got %v", err)
	}
	if _, err := f.cart.Add(ctx, "sess", "a", 1); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if _, err := f.cart.Update(ctx, "sess", "a", 4); !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("want ErrInsufficientStock got %v", err)
	}
	summary, err := f.cart.Update(ctx, "sess", "a", 3)
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if summary.Items[0].Quantity != 3 || summary.Subtotal != 300 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
	summary, err = f.cart.Update(ctx, "sess", "a", -5)
	if err != nil {
		t.Fatalf("update negative failed: %v", err)
	}
	if len(summary.Items) != 0 || summary.Shipping != 0 || summary.Total != 0 {
		t.Fatalf("negative quantity should remove line: %+v", summary)
	}
}

func TestCartSummaryDropsDeletedProducts(t *testing.T) {
	f := setupServiceTest(t)
	ctx := context.Background()
	f.seedProduct(t, "a", 100, 3)
	f.seedProduct(t, "b", 200, 3)
	if _, err := f.cart.Add(ctx, "sess", "a", 1); err != nil {
		t.Fatalf("add a failed: %v", err)
	}
	if _, err := f.cart.Add(ctx, "sess", "b", 1); err != nil {
		t.Fatalf("add b failed: %v", err)
	}
	if err := f.db.Exec("DELETE FROM products WHERE id = ?", "b").Error; err != nil {
		t.Fatalf("delete product failed: %v", err)
	}
	summary, err := f.cart.Summarize(ctx, "sess")
	if err != nil {
		t.Fatalf("summarize failed: %v", err)
	}
	if len(summary.Items) != 1 || summary.Items[0].ID != "a" || summary.Subtotal != 100 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
}

func TestCartSessionsAreIsolated(t *testing.T) {
	f := setupServiceTest(t)
	ctx := context.Background()
	f.seedProduct(t, "a", 100, 5)
	if _, err := f.cart.Add(ctx, "one", "a", 2); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	summary, err := f.cart.Summarize(ctx, "two")
	if err != nil {
		t.Fatalf("summarize failed: %v", err)
	}
	if len(summary.Items) != 0 {
		t.Fatalf("other session should be empty: %+v", summary)
	}
	cleared, err := f.cart.Clear(ctx, "one")
	if err != nil {
		t.Fatalf("clear failed: %v", err)
	}
	if len(cleared.Items) != 0 || cleared.Total != 0 {
		t.Fatalf("clear should empty cart: %+v", cleared)
	}
}

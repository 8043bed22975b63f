package service

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidProduct          = errors.New("invalid product")
	ErrInsufficientStock       = errors.New("insufficient stock")
	ErrItemNotInCart           = errors.New("item not in cart")
	ErrEmptyCart               = errors.New("cart is empty")
	ErrMissingContactInfo      = errors.New("missing contact info")
	ErrOrderNotFound           = errors.New("order not found")
	ErrDuplicateProductID      = errors.New("duplicate product id")
	ErrProductNotFound         = errors.New("product not found")
	ErrProductInvalid          = errors.New("product fields invalid")
	ErrSessionRequired         = errors.New("session required")
	ErrCartFetchFailed         = errors.New("cart fetch failed")
	ErrCartUpdateFailed        = errors.New("cart update failed")
	ErrOrderCreateFailed       = errors.New("order create failed")
	ErrOrderFetchFailed        = errors.New("order fetch failed")
	ErrOrderUpdateFailed       = errors.New("order update failed")
	ErrPaymentInitFailed       = errors.New("payment init failed")
	ErrPaymentSignatureInvalid = errors.New("payment signature invalid")
	ErrPaymentCallbackInvalid  = errors.New("payment callback invalid")
)

// InsufficientStockError 库存不足，携带商品与剩余库存
type InsufficientStockError struct {
	ProductID   string
	ProductName string
	Remaining   int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s (remaining %d)", e.ProductID, e.Remaining)
}

// Unwrap 支持 errors.Is(err, ErrInsufficientStock)
func (e *InsufficientStockError) Unwrap() error {
	return ErrInsufficientStock
}

func newInsufficientStockError(productID, name string, remaining int) error {
	if remaining < 0 {
		remaining = 0
	}
	return &InsufficientStockError{ProductID: productID, ProductName: name, Remaining: remaining}
}

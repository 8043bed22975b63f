package service

import (
	"context"
	"sort"
	"strings"

	"github.com/dawit-coffee/storefront/internal/cache"
	"github.com/dawit-coffee/storefront/internal/logger"
	"github.com/dawit-coffee/storefront/internal/models"
	"github.com/dawit-coffee/storefront/internal/repository"
)

// CartLine 购物车行（用于响应）
type CartLine struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Img       string `json:"img"`
	Price     int64  `json:"price"`
	Stock     int    `json:"stock"`
	Quantity  int    `json:"quantity"`
	LineTotal int64  `json:"lineTotal"`
}

// CartSummary 购物车汇总，Total = Subtotal + Shipping
type CartSummary struct {
	Items    []CartLine `json:"items"`
	Subtotal int64      `json:"subtotal"`
	Shipping int64      `json:"shipping"`
	Total    int64      `json:"total"`
}

// CartService 会话购物车服务
type CartService struct {
	store       cache.CartStore
	productRepo repository.ProductRepository
	shipping    ShippingPolicy
}

// NewCartService 创建购物车服务
func NewCartService(store cache.CartStore, productRepo repository.ProductRepository, shipping ShippingPolicy) *CartService {
	return &CartService{
		store:       store,
		productRepo: productRepo,
		shipping:    shipping,
	}
}

// Add 加入购物车：数量至少为 1，累计数量不得超过库存
func (s *CartService) Add(ctx context.Context, sessionID, productID string, quantity int) (*CartSummary, error) {
	if quantity < 1 {
		quantity = 1
	}
	product, err := s.loadProduct(sessionID, productID)
	if err != nil {
		return nil, err
	}
	items, err := s.store.Get(ctx, sessionID)
	if err != nil {
		logger.Warnw("cart_fetch_failed", "session_id", sessionID, "error", err)
		return nil, ErrCartFetchFailed
	}
	next := items[product.ID] + quantity
	if next > product.Stock {
		return nil, newInsufficientStockError(product.ID, product.Name, product.Stock)
	}
	if err := s.store.Set(ctx, sessionID, product.ID, next); err != nil {
		logger.Warnw("cart_update_failed", "session_id", sessionID, "product_id", product.ID, "error", err)
		return nil, ErrCartUpdateFailed
	}
	return s.Summarize(ctx, sessionID)
}

// Update 修改数量：数量为 0 时移除，商品必须已在购物车中
func (s *CartService) Update(ctx context.Context, sessionID, productID string, quantity int) (*CartSummary, error) {
	if quantity < 0 {
		quantity = 0
	}
	if strings.TrimSpace(sessionID) == "" {
		return nil, ErrSessionRequired
	}
	productID = strings.TrimSpace(productID)
	items, err := s.store.Get(ctx, sessionID)
	if err != nil {
		logger.Warnw("cart_fetch_failed", "session_id", sessionID, "error", err)
		return nil, ErrCartFetchFailed
	}
	if _, ok := items[productID]; !ok {
		return nil, ErrItemNotInCart
	}

	if quantity == 0 {
		if err := s.store.Remove(ctx, sessionID, productID); err != nil {
			logger.Warnw("cart_update_failed", "session_id", sessionID, "product_id", productID, "error", err)
			return nil, ErrCartUpdateFailed
		}
		return s.Summarize(ctx, sessionID)
	}

	product, err := s.loadProduct(sessionID, productID)
	if err != nil {
		return nil, err
	}
	if quantity > product.Stock {
		return nil, newInsufficientStockError(product.ID, product.Name, product.Stock)
	}
	if err := s.store.Set(ctx, sessionID, productID, quantity); err != nil {
		logger.Warnw("cart_update_failed", "session_id", sessionID, "product_id", productID, "error", err)
		return nil, ErrCartUpdateFailed
	}
	return s.Summarize(ctx, sessionID)
}

// Clear 清空购物车
func (s *CartService) Clear(ctx context.Context, sessionID string) (*CartSummary, error) {
	if strings.TrimSpace(sessionID) == "" {
		return s.summarize(nil, nil), nil
	}
	if err := s.store.Clear(ctx, sessionID); err != nil {
		logger.Warnw("cart_clear_failed", "session_id", sessionID, "error", err)
		return nil, ErrCartUpdateFailed
	}
	return s.summarize(nil, nil), nil
}

// Summarize 按当前商品目录汇总购物车，已下架（不存在）的商品不计入
func (s *CartService) Summarize(ctx context.Context, sessionID string) (*CartSummary, error) {
	if strings.TrimSpace(sessionID) == "" {
		return s.summarize(nil, nil), nil
	}
	items, err := s.store.Get(ctx, sessionID)
	if err != nil {
		logger.Warnw("cart_fetch_failed", "session_id", sessionID, "error", err)
		return nil, ErrCartFetchFailed
	}
	if len(items) == 0 {
		return s.summarize(nil, nil), nil
	}
	ids := make([]string, 0, len(items))
	for productID := range items {
		ids = append(ids, productID)
	}
	products, err := s.productRepo.ListByIDs(ids)
	if err != nil {
		logger.Warnw("cart_products_fetch_failed", "session_id", sessionID, "error", err)
		return nil, ErrCartFetchFailed
	}
	return s.summarize(items, products), nil
}

func (s *CartService) summarize(items map[string]int, products []models.Product) *CartSummary {
	summary := &CartSummary{Items: make([]CartLine, 0, len(products))}
	for _, product := range products {
		quantity, ok := items[product.ID]
		if !ok || quantity <= 0 {
			continue
		}
		line := CartLine{
			ID:        product.ID,
			Name:      product.Name,
			Img:       product.Img,
			Price:     product.Price,
			Stock:     product.Stock,
			Quantity:  quantity,
			LineTotal: product.Price * int64(quantity),
		}
		summary.Items = append(summary.Items, line)
		summary.Subtotal += line.LineTotal
	}
	sort.Slice(summary.Items, func(i, j int) bool {
		return summary.Items[i].ID < summary.Items[j].ID
	})
	summary.Shipping = s.shipping.Calculate(summary.Subtotal)
	summary.Total = summary.Subtotal + summary.Shipping
	return summary
}

func (s *CartService) loadProduct(sessionID, productID string) (*models.Product, error) {
	if strings.TrimSpace(sessionID) == "" {
		return nil, ErrSessionRequired
	}
	productID = strings.TrimSpace(productID)
	if productID == "" {
		return nil, ErrInvalidProduct
	}
	product, err := s.productRepo.GetByID(productID)
	if err != nil {
		logger.Warnw("cart_product_fetch_failed", "product_id", productID, "error", err)
		return nil, ErrCartFetchFailed
	}
	if product == nil {
		return nil, ErrInvalidProduct
	}
	return product, nil
}

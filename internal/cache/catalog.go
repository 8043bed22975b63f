package cache

import (
	"context"
	"time"

	"github.com/dawit-coffee/storefront/internal/models"
)

const (
	catalogCacheKey = "catalog:products"
	catalogCacheTTL = 30 * time.Second
)

// GetCatalog 读取商品列表缓存，未命中返回 false
func GetCatalog(ctx context.Context) ([]models.Product, bool, error) {
	var products []models.Product
	hit, err := GetJSON(ctx, catalogCacheKey, &products)
	if err != nil || !hit {
		return nil, false, err
	}
	return products, true, nil
}

// SetCatalog 写入商品列表缓存
func SetCatalog(ctx context.Context, products []models.Product) error {
	return SetJSON(ctx, catalogCacheKey, products, catalogCacheTTL)
}

// InvalidateCatalog 库存或商品变更后清除列表缓存
func InvalidateCatalog(ctx context.Context) error {
	return Del(ctx, catalogCacheKey)
}

package service

import (
	"context"
	"strings"

	"github.com/dawit-coffee/storefront/internal/cache"
	"github.com/dawit-coffee/storefront/internal/logger"
	"github.com/dawit-coffee/storefront/internal/models"
	"github.com/dawit-coffee/storefront/internal/repository"
)

// ProductService 商品业务服务
type ProductService struct {
	repo repository.ProductRepository
}

// NewProductService 创建商品服务
func NewProductService(repo repository.ProductRepository) *ProductService {
	return &ProductService{repo: repo}
}

// CreateProductInput 创建商品输入
type CreateProductInput struct {
	ID    string
	Name  string
	Img   string
	Price int64
	Stock int
}

// ListPublic 获取公开商品列表，启用 Redis 时走短时缓存
func (s *ProductService) ListPublic(ctx context.Context) ([]models.Product, error) {
	if products, hit, err := cache.GetCatalog(ctx); err != nil {
		logger.Warnw("product_catalog_cache_get_failed", "error", err)
	} else if hit {
		return products, nil
	}
	products, err := s.repo.List()
	if err != nil {
		return nil, err
	}
	if err := cache.SetCatalog(ctx, products); err != nil {
		logger.Warnw("product_catalog_cache_set_failed", "error", err)
	}
	return products, nil
}

// ListAdmin 管理端商品列表
func (s *ProductService) ListAdmin() ([]models.Product, error) {
	return s.repo.List()
}

// Create 创建商品，编号重复返回 ErrDuplicateProductID
func (s *ProductService) Create(ctx context.Context, input CreateProductInput) (*models.Product, error) {
	id := strings.TrimSpace(input.ID)
	name := strings.TrimSpace(input.Name)
	if id == "" || name == "" || input.Price < 0 {
		return nil, ErrProductInvalid
	}
	existing, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrDuplicateProductID
	}
	product := &models.Product{
		ID:    id,
		Name:  name,
		Img:   strings.TrimSpace(input.Img),
		Price: input.Price,
		Stock: clampStock(input.Stock),
	}
	if err := s.repo.Create(product); err != nil {
		if again, getErr := s.repo.GetByID(id); getErr == nil && again != nil {
			return nil, ErrDuplicateProductID
		}
		return nil, err
	}
	s.invalidateCatalog(ctx, id)
	logger.Infow("product_created", "product_id", id, "price", product.Price, "stock", product.Stock)
	return product, nil
}

// Patch 局部更新商品
func (s *ProductService) Patch(ctx context.Context, id string, patch repository.ProductPatch) (*models.Product, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, ErrProductNotFound
	}
	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return nil, ErrProductInvalid
		}
		patch.Name = &name
	}
	if patch.Price != nil && *patch.Price < 0 {
		return nil, ErrProductInvalid
	}
	if patch.Stock != nil {
		stock := clampStock(*patch.Stock)
		patch.Stock = &stock
	}
	product, err := s.repo.Patch(id, patch)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	if !patch.IsEmpty() {
		s.invalidateCatalog(ctx, id)
		logger.Infow("product_updated", "product_id", id)
	}
	return product, nil
}

func (s *ProductService) invalidateCatalog(ctx context.Context, productID string) {
	if err := cache.InvalidateCatalog(ctx); err != nil {
		logger.Warnw("product_catalog_invalidate_failed", "product_id", productID, "error", err)
	}
}

func clampStock(stock int) int {
	if stock < 0 {
		return 0
	}
	return stock
}

package admin

import (
	"errors"
	"strings"

	"github.com/dawit-coffee/storefront/internal/http/response"
	"github.com/dawit-coffee/storefront/internal/repository"
	"github.com/dawit-coffee/storefront/internal/service"

	"github.com/gin-gonic/gin"
)

// CreateProductRequest 创建商品请求
type CreateProductRequest struct {
	ID    string `json:"id" binding:"required"`
	Name  string `json:"name" binding:"required"`
	Img   string `json:"img"`
	Price int64  `json:"price"`
	Stock int    `json:"stock"`
}

// PatchProductRequest 局部更新商品请求，未提供的字段保持不变
type PatchProductRequest struct {
	Name  *string `json:"name"`
	Img   *string `json:"img"`
	Price *int64  `json:"price"`
	Stock *int    `json:"stock"`
}

// AdminListProducts 管理端商品列表
func (h *Handler) AdminListProducts(c *gin.Context) {
	products, err := h.ProductService.ListAdmin()
	if err != nil {
		respondError(c, response.CodeInternal, "error.product_fetch_failed", err)
		return
	}
	response.Success(c, products)
}

// AdminCreateProduct 管理端创建商品
func (h *Handler) AdminCreateProduct(c *gin.Context) {
	var req CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	product, err := h.ProductService.Create(c.Request.Context(), service.CreateProductInput{
		ID:    req.ID,
		Name:  req.Name,
		Img:   req.Img,
		Price: req.Price,
		Stock: req.Stock,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrDuplicateProductID):
			respondError(c, response.CodeBadRequest, "error.duplicate_product_id", nil)
		case errors.Is(err, service.ErrProductInvalid):
			respondError(c, response.CodeBadRequest, "error.product_invalid", nil)
		default:
			respondError(c, response.CodeInternal, "error.product_update_failed", err)
		}
		return
	}
	requestLog(c).Infow("admin_product_created", "product_id", product.ID)
	response.Success(c, product)
}

// AdminPatchProduct 管理端局部更新商品
func (h *Handler) AdminPatchProduct(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	var req PatchProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	product, err := h.ProductService.Patch(c.Request.Context(), id, repository.ProductPatch{
		Name:  req.Name,
		Img:   req.Img,
		Price: req.Price,
		Stock: req.Stock,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrProductNotFound):
			respondError(c, response.CodeNotFound, "error.product_not_found", nil)
		case errors.Is(err, service.ErrProductInvalid):
			respondError(c, response.CodeBadRequest, "error.product_invalid", nil)
		default:
			respondError(c, response.CodeInternal, "error.product_update_failed", err)
		}
		return
	}
	response.Success(c, product)
}

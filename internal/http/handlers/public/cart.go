package public

import (
	"github.com/dawit-coffee/storefront/internal/http/response"

	"github.com/gin-gonic/gin"
)

// CartItemRequest 购物车项请求
type CartItemRequest struct {
	ProductID string `json:"productId" form:"productId"`
	Quantity  int    `json:"quantity" form:"quantity"`
}

// GetCart 获取购物车汇总
func (h *Handler) GetCart(c *gin.Context) {
	summary, err := h.CartService.Summarize(c.Request.Context(), sessionID(c))
	if err != nil {
		respondCartError(c, err)
		return
	}
	response.Success(c, summary)
}

// AddToCart 加入购物车
func (h *Handler) AddToCart(c *gin.Context) {
	var req CartItemRequest
	if err := c.ShouldBind(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	summary, err := h.CartService.Add(c.Request.Context(), sessionID(c), req.ProductID, req.Quantity)
	if err != nil {
		respondCartError(c, err)
		return
	}
	response.Success(c, summary)
}

// UpdateCart 修改购物车数量，数量为 0 时移除
func (h *Handler) UpdateCart(c *gin.Context) {
	var req CartItemRequest
	if err := c.ShouldBind(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	summary, err := h.CartService.Update(c.Request.Context(), sessionID(c), req.ProductID, req.Quantity)
	if err != nil {
		respondCartError(c, err)
		return
	}
	response.Success(c, summary)
}

// ClearCart 清空购物车
func (h *Handler) ClearCart(c *gin.Context) {
	summary, err := h.CartService.Clear(c.Request.Context(), sessionID(c))
	if err != nil {
		respondCartError(c, err)
		return
	}
	response.Success(c, summary)
}

package admin

import (
	"errors"
	"strings"

	handlershared "github.com/dawit-coffee/storefront/internal/http/handlers/shared"
	"github.com/dawit-coffee/storefront/internal/http/response"
	"github.com/dawit-coffee/storefront/internal/repository"
	"github.com/dawit-coffee/storefront/internal/service"

	"github.com/gin-gonic/gin"
)

// AdminListOrders 管理端订单列表，按创建时间倒序
func (h *Handler) AdminListOrders(c *gin.Context) {
	page := handlershared.ParsePageQuery(c.DefaultQuery("page", "1"))
	pageSize := handlershared.ParsePageQuery(c.DefaultQuery("pageSize", c.DefaultQuery("page_size", "20")))
	page, pageSize = handlershared.NormalizePagination(page, pageSize)

	createdFrom, err := parseTimeNullable(strings.TrimSpace(c.Query("created_from")))
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	createdTo, err := parseTimeNullable(strings.TrimSpace(c.Query("created_to")))
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	orders, total, err := h.OrderService.ListOrdersForAdmin(repository.OrderListFilter{
		Page:        page,
		PageSize:    pageSize,
		Status:      strings.TrimSpace(c.Query("status")),
		CreatedFrom: createdFrom,
		CreatedTo:   createdTo,
	})
	if err != nil {
		respondError(c, response.CodeInternal, "error.order_fetch_failed", err)
		return
	}
	response.SuccessWithPage(c, orders, response.Pagination{
		Page:      page,
		PageSize:  pageSize,
		Total:     total,
		TotalPage: handlershared.TotalPages(total, pageSize),
	})
}

// AdminListOrderItems 管理端订单项（含商品名称）
func (h *Handler) AdminListOrderItems(c *gin.Context) {
	orderID := strings.TrimSpace(c.Param("id"))
	items, err := h.OrderService.ListOrderItemsForAdmin(orderID)
	if err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			respondError(c, response.CodeNotFound, "error.order_not_found", nil)
			return
		}
		respondError(c, response.CodeInternal, "error.order_fetch_failed", err)
		return
	}
	response.Success(c, items)
}

package public

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/dawit-coffee/storefront/internal/constants"
	"github.com/dawit-coffee/storefront/internal/http/response"
	"github.com/dawit-coffee/storefront/internal/payment/ecpay"
	"github.com/dawit-coffee/storefront/internal/service"

	"github.com/gin-gonic/gin"
)

// PaymentResultResponse 付款结果（未配置前端回跳地址时返回）
type PaymentResultResponse struct {
	OrderID string `json:"orderId,omitempty"`
	Status  string `json:"status,omitempty"`
	Paid    bool   `json:"paid"`
}

// PayOrder 为订单生成绿界自动提交表单
func (h *Handler) PayOrder(c *gin.Context) {
	orderID := strings.TrimSpace(c.Param("order_id"))
	form, err := h.PaymentService.Initiate(c.Request.Context(), sessionID(c), orderID)
	if err != nil {
		respondPaymentInitError(c, err)
		return
	}
	page, err := ecpay.RenderAutoSubmitForm(form)
	if err != nil {
		respondPaymentInitError(c, err)
		return
	}
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, "text/html; charset=utf-8", page)
}

// PaymentResult 浏览器回跳的付款结果：对账后总是清空当前会话购物车
func (h *Handler) PaymentResult(c *gin.Context) {
	fields, err := parseCallbackForm(c)
	if err != nil {
		requestLog(c).Warnw("payment_result_form_invalid", "error", err)
	}
	h.clearCurrentCart(c)

	result, reconcileErr := h.PaymentService.Reconcile(c.Request.Context(), constants.CallbackSourceResult, fields)
	if reconcileErr != nil {
		respondPaymentCallbackError(c, reconcileErr)
		return
	}

	resp := PaymentResultResponse{
		OrderID: result.OrderID,
		Status:  result.Status,
		Paid:    result.Status == constants.OrderStatusPaid,
	}
	if target := buildResultRedirect(h.Config.Shop.ResultRedirectURL, resp); target != "" {
		c.Redirect(http.StatusSeeOther, target)
		return
	}
	response.Success(c, resp)
}

// ECPayNotify 绿界服务端通知，无论是否匹配订单都回复 1|OK
func (h *Handler) ECPayNotify(c *gin.Context) {
	fields, err := parseCallbackForm(c)
	if err != nil {
		requestLog(c).Warnw("payment_notify_form_invalid", "error", err)
	}
	result, err := h.PaymentService.Reconcile(c.Request.Context(), constants.CallbackSourceWebhook, fields)
	switch {
	case err != nil && service.IsCallbackRejected(err):
		requestLog(c).Warnw("payment_notify_rejected",
			"trade_no", fields["MerchantTradeNo"],
			"error", err,
		)
	case err != nil:
		requestLog(c).Errorw("payment_notify_reconcile_failed",
			"trade_no", fields["MerchantTradeNo"],
			"error", err,
		)
	default:
		requestLog(c).Infow("payment_notify_handled",
			"trade_no", fields["MerchantTradeNo"],
			"order_id", result.OrderID,
			"matched", result.Matched,
			"changed", result.Changed,
		)
	}
	c.String(http.StatusOK, constants.ECPayCallbackAck)
}

func (h *Handler) clearCurrentCart(c *gin.Context) {
	sid := sessionID(c)
	if sid == "" {
		return
	}
	if err := h.CartStore.Clear(c.Request.Context(), sid); err != nil {
		requestLog(c).Warnw("payment_result_cart_clear_failed", "error", err)
	}
}

func parseCallbackForm(c *gin.Context) (map[string]string, error) {
	if err := c.Request.ParseForm(); err != nil {
		return map[string]string{}, err
	}
	form := c.Request.PostForm
	if len(form) == 0 {
		form = c.Request.Form
	}
	fields := make(map[string]string, len(form))
	for key, values := range form {
		if len(values) > 0 {
			fields[key] = values[0]
		}
	}
	return fields, nil
}

func buildResultRedirect(base string, resp PaymentResultResponse) string {
	base = strings.TrimSpace(base)
	if base == "" {
		return ""
	}
	target, err := url.Parse(base)
	if err != nil {
		return ""
	}
	query := target.Query()
	if resp.OrderID != "" {
		query.Set("orderId", resp.OrderID)
	}
	if resp.Paid {
		query.Set("paid", "1")
	} else {
		query.Set("paid", "0")
	}
	target.RawQuery = query.Encode()
	return target.String()
}

package public

import (
	"errors"

	"github.com/dawit-coffee/storefront/internal/http/response"
	"github.com/dawit-coffee/storefront/internal/i18n"
	"github.com/dawit-coffee/storefront/internal/service"

	"github.com/gin-gonic/gin"
)

// mappedHandlerError 定义业务错误到接口错误响应的映射关系。
type mappedHandlerError struct {
	target error
	code   int
	key    string
}

func respondWithMappedError(c *gin.Context, err error, rules []mappedHandlerError, fallbackCode int, fallbackKey string) {
	var stockErr *service.InsufficientStockError
	if errors.As(err, &stockErr) {
		name := stockErr.ProductName
		if name == "" {
			name = stockErr.ProductID
		}
		msg := i18n.Sprintf(i18n.ResolveLocale(c), "error.insufficient_stock", name, stockErr.Remaining)
		respondErrorWithMsg(c, response.CodeBadRequest, msg, nil)
		return
	}
	for _, rule := range rules {
		if errors.Is(err, rule.target) {
			respondError(c, rule.code, rule.key, nil)
			return
		}
	}
	respondError(c, fallbackCode, fallbackKey, err)
}

var cartErrorRules = []mappedHandlerError{
	{target: service.ErrSessionRequired, code: response.CodeBadRequest, key: "error.session_required"},
	{target: service.ErrInvalidProduct, code: response.CodeBadRequest, key: "error.invalid_product"},
	{target: service.ErrItemNotInCart, code: response.CodeBadRequest, key: "error.item_not_in_cart"},
	{target: service.ErrCartUpdateFailed, code: response.CodeInternal, key: "error.cart_update_failed"},
}

var checkoutErrorRules = []mappedHandlerError{
	{target: service.ErrEmptyCart, code: response.CodeBadRequest, key: "error.empty_cart"},
	{target: service.ErrMissingContactInfo, code: response.CodeBadRequest, key: "error.missing_contact_info"},
	{target: service.ErrInvalidProduct, code: response.CodeBadRequest, key: "error.invalid_product"},
	{target: service.ErrCartFetchFailed, code: response.CodeInternal, key: "error.cart_fetch_failed"},
}

var paymentInitErrorRules = []mappedHandlerError{
	{target: service.ErrOrderNotFound, code: response.CodeBadRequest, key: "error.order_not_found"},
	{target: service.ErrOrderFetchFailed, code: response.CodeInternal, key: "error.order_fetch_failed"},
	{target: service.ErrOrderUpdateFailed, code: response.CodeInternal, key: "error.order_update_failed"},
}

var paymentCallbackErrorRules = []mappedHandlerError{
	{target: service.ErrPaymentSignatureInvalid, code: response.CodeBadRequest, key: "error.payment_signature_invalid"},
	{target: service.ErrPaymentCallbackInvalid, code: response.CodeBadRequest, key: "error.payment_callback_invalid"},
	{target: service.ErrOrderFetchFailed, code: response.CodeInternal, key: "error.order_fetch_failed"},
}

func respondCartError(c *gin.Context, err error) {
	respondWithMappedError(c, err, cartErrorRules, response.CodeInternal, "error.cart_fetch_failed")
}

func respondCheckoutError(c *gin.Context, err error) {
	respondWithMappedError(c, err, checkoutErrorRules, response.CodeInternal, "error.order_create_failed")
}

func respondPaymentInitError(c *gin.Context, err error) {
	respondWithMappedError(c, err, paymentInitErrorRules, response.CodeInternal, "error.payment_init_failed")
}

func respondPaymentCallbackError(c *gin.Context, err error) {
	respondWithMappedError(c, err, paymentCallbackErrorRules, response.CodeInternal, "error.order_update_failed")
}

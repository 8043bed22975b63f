package i18n

var messages = map[string]map[string]string{
	LocaleTW: {
		"error.bad_request":               "請求參數錯誤",
		"error.unauthorized":              "未授權",
		"error.not_found":                 "資源不存在",
		"error.internal":                  "伺服器錯誤",
		"error.rate_limited":              "請求過於頻繁，請 %d 秒後再試",
		"error.rate_limit_unavailable":    "限流服務暫不可用",
		"error.session_required":          "找不到購物階段，請重新整理頁面",
		"error.invalid_product":           "商品不存在",
		"error.insufficient_stock":        "%s 庫存不足，剩餘 %d 件",
		"error.item_not_in_cart":          "購物車中沒有此商品",
		"error.empty_cart":                "購物車是空的",
		"error.missing_contact_info":      "請填寫姓名、電話與地址",
		"error.cart_fetch_failed":         "讀取購物車失敗",
		"error.cart_update_failed":        "更新購物車失敗",
		"error.order_not_found":           "找不到可付款的訂單",
		"error.order_create_failed":       "建立訂單失敗",
		"error.order_fetch_failed":        "讀取訂單失敗",
		"error.order_update_failed":       "更新訂單失敗",
		"error.payment_init_failed":       "建立付款失敗",
		"error.payment_callback_invalid":  "付款通知格式錯誤",
		"error.payment_signature_invalid": "付款通知驗證失敗",
		"error.product_invalid":           "商品欄位不正確",
		"error.product_not_found":         "商品不存在",
		"error.duplicate_product_id":      "商品編號已存在",
		"error.product_fetch_failed":      "讀取商品失敗",
		"error.product_update_failed":     "更新商品失敗",
	},
	LocaleZH: {
		"error.bad_request":               "请求参数错误",
		"error.unauthorized":              "未授权",
		"error.not_found":                 "资源不存在",
		"error.internal":                  "服务器错误",
		"error.rate_limited":              "请求过于频繁，请 %d 秒后再试",
		"error.rate_limit_unavailable":    "限流服务暂不可用",
		"error.session_required":          "会话不存在，请刷新页面",
		"error.invalid_product":           "商品不存在",
		"error.insufficient_stock":        "%s 库存不足，剩余 %d 件",
		"error.item_not_in_cart":          "购物车中没有该商品",
		"error.empty_cart":                "购物车为空",
		"error.missing_contact_info":      "请填写姓名、电话和地址",
		"error.cart_fetch_failed":         "获取购物车失败",
		"error.cart_update_failed":        "更新购物车失败",
		"error.order_not_found":           "找不到可支付的订单",
		"error.order_create_failed":       "创建订单失败",
		"error.order_fetch_failed":        "获取订单失败",
		"error.order_update_failed":       "更新订单失败",
		"error.payment_init_failed":       "发起支付失败",
		"error.payment_callback_invalid":  "支付回调格式错误",
		"error.payment_signature_invalid": "支付回调验签失败",
		"error.product_invalid":           "商品字段不合法",
		"error.product_not_found":         "商品不存在",
		"error.duplicate_product_id":      "商品编号已存在",
		"error.product_fetch_failed":      "获取商品失败",
		"error.product_update_failed":     "更新商品失败",
	},
	LocaleEN: {
		"error.bad_request":               "Invalid request",
		"error.unauthorized":              "Unauthorized",
		"error.not_found":                 "Not found",
		"error.internal":                  "Internal server error",
		"error.rate_limited":              "Too many requests, retry in %d seconds",
		"error.rate_limit_unavailable":    "Rate limiter unavailable",
		"error.session_required":          "Session missing, please reload the page",
		"error.invalid_product":           "Invalid product",
		"error.insufficient_stock":        "Insufficient stock for %s (%d left)",
		"error.item_not_in_cart":          "Item is not in the cart",
		"error.empty_cart":                "Cart is empty",
		"error.missing_contact_info":      "Name, phone and address are required",
		"error.cart_fetch_failed":         "Failed to load cart",
		"error.cart_update_failed":        "Failed to update cart",
		"error.order_not_found":           "Order not found",
		"error.order_create_failed":       "Failed to create order",
		"error.order_fetch_failed":        "Failed to load order",
		"error.order_update_failed":       "Failed to update order",
		"error.payment_init_failed":       "Failed to start payment",
		"error.payment_callback_invalid":  "Invalid payment callback",
		"error.payment_signature_invalid": "Payment callback signature mismatch",
		"error.product_invalid":           "Invalid product fields",
		"error.product_not_found":         "Product not found",
		"error.duplicate_product_id":      "Product id already exists",
		"error.product_fetch_failed":      "Failed to load products",
		"error.product_update_failed":     "Failed to update product",
	},
}

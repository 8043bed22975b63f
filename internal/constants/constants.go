package constants

// 订单状态常量
const (
	OrderStatusCreated = "created"
	OrderStatusPending = "pending"
	OrderStatusPaid    = "paid"
	OrderStatusFailed  = "failed"
)

// ECPayCallbackAck 绿界服务端通知的固定应答
const ECPayCallbackAck = "1|OK"

// 状态变更来源
const (
	CallbackSourceResult  = "result"
	CallbackSourceWebhook = "webhook"
	EventSourceExpire     = "expire"
)

// 订单事件类型
const (
	OrderEventCreated = "order.created"
	OrderEventPaid    = "order.paid"
	OrderEventFailed  = "order.failed"
)

// 管理端令牌来源
const (
	AdminTokenHeader     = "x-admin-token"
	AdminTokenQueryParam = "token"
)

package ecpay

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

const (
	tradeNoMaxLen       = 20
	tradeNoMinStampLen  = 6
	merchantTradeLayout = "2006/01/02 15:04:05"
	itemNameSeparator   = "#"
)

// Item 商品描述行
type Item struct {
	Name     string
	Quantity int
}

// CheckoutRequest 构建付款表单的输入
type CheckoutRequest struct {
	TradeNo     string
	TradeTime   time.Time
	TotalAmount int64
	Items       []Item
}

// FormField 表单字段
type FormField struct {
	Name  string
	Value string
}

// CheckoutForm 提交到绿界收银台的自动提交表单
type CheckoutForm struct {
	Action string
	Fields []FormField
}

// Value 按名称读取字段
func (f *CheckoutForm) Value(name string) string {
	for _, field := range f.Fields {
		if field.Name == name {
			return field.Value
		}
	}
	return ""
}

// BuildTradeNo 由前缀、订单编号与毫秒时间戳组成交易编号，最长 20 位。
// 超长时保留时间戳末尾位数，同一订单短时间内重复发起也不会撞号。
func BuildTradeNo(prefix, orderID string, now time.Time) string {
	prefix = strings.TrimSpace(prefix)
	orderID = strings.TrimSpace(orderID)
	if over := len(prefix) + len(orderID) + tradeNoMinStampLen - tradeNoMaxLen; over > 0 {
		if over >= len(prefix) {
			prefix = ""
		} else {
			prefix = prefix[:len(prefix)-over]
		}
	}
	base := prefix + orderID
	if len(base) > tradeNoMaxLen-tradeNoMinStampLen {
		base = base[:tradeNoMaxLen-tradeNoMinStampLen]
	}
	stamp := strconv.FormatInt(now.UnixMilli(), 10)
	if room := tradeNoMaxLen - len(base); len(stamp) > room {
		stamp = stamp[len(stamp)-room:]
	}
	return base + stamp
}

// FormatTradeDate 格式化为绿界要求的 yyyy/MM/dd HH:mm:ss（台湾时间）
func FormatTradeDate(t time.Time) string {
	return t.In(taipei).Format(merchantTradeLayout)
}

// BuildItemName 商品名称以 "名称 x 数量" 表示，多项以 # 分隔
func BuildItemName(items []Item) string {
	parts := make([]string, 0, len(items))
	for _, item := range items {
		name := strings.ReplaceAll(strings.TrimSpace(item.Name), itemNameSeparator, " ")
		parts = append(parts, fmt.Sprintf("%s x %d", name, item.Quantity))
	}
	return truncateRunes(strings.Join(parts, itemNameSeparator), maxItemNameLen)
}

// BuildCheckoutForm 构建带检查码的付款表单
func (c *Client) BuildCheckoutForm(req CheckoutRequest) (*CheckoutForm, error) {
	if strings.TrimSpace(req.TradeNo) == "" {
		return nil, fmt.Errorf("%w: trade no is required", ErrConfigInvalid)
	}
	if req.TotalAmount <= 0 {
		return nil, fmt.Errorf("%w: total amount must be positive", ErrConfigInvalid)
	}
	tradeTime := req.TradeTime
	if tradeTime.IsZero() {
		tradeTime = time.Now()
	}

	params := map[string]string{
		"MerchantID":        c.cfg.MerchantID,
		"MerchantTradeNo":   req.TradeNo,
		"MerchantTradeDate": FormatTradeDate(tradeTime),
		"PaymentType":       "aio",
		"TotalAmount":       strconv.FormatInt(req.TotalAmount, 10),
		"TradeDesc":         c.cfg.TradeDesc,
		"ItemName":          BuildItemName(req.Items),
		"ReturnURL":         c.cfg.ReturnURL,
		"OrderResultURL":    c.cfg.OrderResultURL,
		"ChoosePayment":     c.cfg.ChoosePayment,
		"EncryptType":       "1",
	}
	if strings.TrimSpace(c.cfg.ClientBackURL) != "" {
		params["ClientBackURL"] = c.cfg.ClientBackURL
	}
	params[fieldCheckMacValue] = c.Sign(params)

	names := make([]string, 0, len(params))
	for name := range params {
		names = append(names, name)
	}
	sort.Strings(names)
	form := &CheckoutForm{Action: c.cfg.GatewayURL, Fields: make([]FormField, 0, len(names))}
	for _, name := range names {
		form.Fields = append(form.Fields, FormField{Name: name, Value: params[name]})
	}
	return form, nil
}

package ecpay

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	rtnCodeSuccess   = "1"
	rtnCodeATMIssued = "2"
	rtnCodeCVSIssued = "10100073"
)

// Outcome 回调结果分类
type Outcome int

const (
	// OutcomeFailed 付款失败
	OutcomeFailed Outcome = iota
	// OutcomePaid 付款成功
	OutcomePaid
	// OutcomeAwaiting ATM/超商代码已取号，尚未付款
	OutcomeAwaiting
)

// Callback 绿界付款结果通知字段
type Callback struct {
	MerchantID      string
	MerchantTradeNo string
	RtnCode         string
	RtnMsg          string
	TradeNo         string // 绿界交易编号
	TradeAmt        int64
	PaymentType     string
	PaymentDate     string
	SimulatePaid    bool
	CheckMacValue   string
	Raw             map[string]string
}

// ParseCallback 从表单字段解析回调
func ParseCallback(fields map[string]string) (*Callback, error) {
	if len(fields) == 0 {
		return nil, fmt.Errorf("%w: empty body", ErrCallbackInvalid)
	}
	cb := &Callback{
		MerchantID:      strings.TrimSpace(fields["MerchantID"]),
		MerchantTradeNo: strings.TrimSpace(fields["MerchantTradeNo"]),
		RtnCode:         strings.TrimSpace(fields["RtnCode"]),
		RtnMsg:          strings.TrimSpace(fields["RtnMsg"]),
		TradeNo:         strings.TrimSpace(fields["TradeNo"]),
		PaymentType:     strings.TrimSpace(fields["PaymentType"]),
		PaymentDate:     strings.TrimSpace(fields["PaymentDate"]),
		SimulatePaid:    strings.TrimSpace(fields["SimulatePaid"]) == "1",
		CheckMacValue:   strings.TrimSpace(fields[fieldCheckMacValue]),
		Raw:             fields,
	}
	if cb.MerchantTradeNo == "" {
		return nil, fmt.Errorf("%w: MerchantTradeNo is required", ErrCallbackInvalid)
	}
	if raw := strings.TrimSpace(fields["TradeAmt"]); raw != "" {
		amount, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: TradeAmt %q", ErrCallbackInvalid, raw)
		}
		cb.TradeAmt = amount
	}
	return cb, nil
}

// Outcome 依据 RtnCode 判断结果
func (cb *Callback) Outcome() Outcome {
	switch cb.RtnCode {
	case rtnCodeSuccess:
		return OutcomePaid
	case rtnCodeATMIssued, rtnCodeCVSIssued:
		return OutcomeAwaiting
	default:
		return OutcomeFailed
	}
}

// String 便于日志输出
func (o Outcome) String() string {
	switch o {
	case OutcomePaid:
		return "paid"
	case OutcomeAwaiting:
		return "awaiting"
	default:
		return "failed"
	}
}

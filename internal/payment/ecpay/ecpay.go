package ecpay

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	// GatewayTest 绿界测试环境全方位金流地址
	GatewayTest = "https://payment-stage.ecpay.com.tw/Cashier/AioCheckOut/V5"
	// GatewayProduction 绿界正式环境全方位金流地址
	GatewayProduction = "https://payment.ecpay.com.tw/Cashier/AioCheckOut/V5"

	modeProduction  = "production"
	maxItemNameLen  = 400
	maxTradeDescLen = 200
)

var (
	ErrConfigInvalid    = errors.New("ecpay config invalid")
	ErrCallbackInvalid  = errors.New("ecpay callback invalid")
	ErrSignatureInvalid = errors.New("ecpay signature invalid")
)

// taipei 绿界交易时间使用台湾时间（UTC+8，无夏令时）
var taipei = time.FixedZone("Asia/Taipei", 8*60*60)

// Config 绿界配置
type Config struct {
	MerchantID     string
	HashKey        string
	HashIV         string
	OperationMode  string // Test / Production
	GatewayURL     string // 为空时按 OperationMode 选择
	TradeNoPrefix  string
	TradeDesc      string
	ChoosePayment  string
	ReturnURL      string // 服务端通知地址
	OrderResultURL string // 付款完成后浏览器回跳地址
	ClientBackURL  string // 返回商店按钮地址
}

func (c *Config) normalize() {
	c.MerchantID = strings.TrimSpace(c.MerchantID)
	c.HashKey = strings.TrimSpace(c.HashKey)
	c.HashIV = strings.TrimSpace(c.HashIV)
	c.GatewayURL = strings.TrimSpace(c.GatewayURL)
	if c.GatewayURL == "" {
		c.GatewayURL = GatewayTest
		if strings.EqualFold(strings.TrimSpace(c.OperationMode), modeProduction) {
			c.GatewayURL = GatewayProduction
		}
	}
	if strings.TrimSpace(c.ChoosePayment) == "" {
		c.ChoosePayment = "ALL"
	}
	if strings.TrimSpace(c.TradeDesc) == "" {
		c.TradeDesc = "Order"
	}
	c.TradeDesc = truncateRunes(c.TradeDesc, maxTradeDescLen)
}

// ValidateConfig 校验绿界配置完整性
func ValidateConfig(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("%w: config is nil", ErrConfigInvalid)
	}
	if cfg.MerchantID == "" {
		return fmt.Errorf("%w: merchant_id is required", ErrConfigInvalid)
	}
	if cfg.HashKey == "" || cfg.HashIV == "" {
		return fmt.Errorf("%w: hash_key and hash_iv are required", ErrConfigInvalid)
	}
	if strings.TrimSpace(cfg.ReturnURL) == "" {
		return fmt.Errorf("%w: return_url is required", ErrConfigInvalid)
	}
	if strings.TrimSpace(cfg.OrderResultURL) == "" {
		return fmt.Errorf("%w: order_result_url is required", ErrConfigInvalid)
	}
	return nil
}

// Client 绿界全方位金流客户端，只负责构建表单与验签，不发起网络请求
type Client struct {
	cfg Config
}

// NewClient 创建客户端
func NewClient(cfg Config) (*Client, error) {
	cfg.normalize()
	if err := ValidateConfig(&cfg); err != nil {
		return nil, err
	}
	return &Client{cfg: cfg}, nil
}

// TradeNoPrefix 交易编号前缀
func (c *Client) TradeNoPrefix() string {
	return c.cfg.TradeNoPrefix
}

// MerchantID 商户号
func (c *Client) MerchantID() string {
	return c.cfg.MerchantID
}

func truncateRunes(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}

package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/dawit-coffee/storefront/internal/logger"

	"github.com/spf13/viper"
)

// Config 应用配置结构
type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Server    ServerConfig    `mapstructure:"server"`
	Log       LogConfig       `mapstructure:"log"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Queue     QueueConfig     `mapstructure:"queue"`
	CORS      CORSConfig      `mapstructure:"cors"`
	Session   SessionConfig   `mapstructure:"session"`
	Shop      ShopConfig      `mapstructure:"shop"`
	Order     OrderConfig     `mapstructure:"order"`
	Admin     AdminConfig     `mapstructure:"admin"`
	Payment   PaymentConfig   `mapstructure:"payment"`
	Events    EventsConfig    `mapstructure:"events"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
}

// AppConfig 应用基础信息
type AppConfig struct {
	Name        string `mapstructure:"name"`
	BaseURL     string `mapstructure:"base_url"`
	SeedCatalog bool   `mapstructure:"seed_catalog"`
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Host                   string `mapstructure:"host"`
	Port                   string `mapstructure:"port"`
	Mode                   string `mapstructure:"mode"` // debug / release
	ReadTimeoutSeconds     int    `mapstructure:"read_timeout_seconds"`
	WriteTimeoutSeconds    int    `mapstructure:"write_timeout_seconds"`
	ShutdownTimeoutSeconds int    `mapstructure:"shutdown_timeout_seconds"`
}

// Addr 监听地址
func (s ServerConfig) Addr() string {
	return s.Host + ":" + s.Port
}

// LogConfig 日志配置
type LogConfig struct {
	Dir        string `mapstructure:"dir"`
	Filename   string `mapstructure:"filename"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
	Compress   bool   `mapstructure:"compress"`
}

// ToLoggerOptions 转换为 logger 配置
func (c LogConfig) ToLoggerOptions() logger.Options {
	return logger.Options{
		Dir:        c.Dir,
		Filename:   c.Filename,
		MaxSizeMB:  c.MaxSizeMB,
		MaxBackups: c.MaxBackups,
		MaxAgeDays: c.MaxAgeDays,
		Compress:   c.Compress,
	}
}

// DatabasePoolConfig 数据库连接池配置
type DatabasePoolConfig struct {
	MaxOpenConns           int `mapstructure:"max_open_conns"`
	MaxIdleConns           int `mapstructure:"max_idle_conns"`
	ConnMaxLifetimeSeconds int `mapstructure:"conn_max_lifetime_seconds"`
	ConnMaxIdleTimeSeconds int `mapstructure:"conn_max_idle_time_seconds"`
}

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	Driver string             `mapstructure:"driver"` // sqlite / postgres / mysql
	DSN    string             `mapstructure:"dsn"`
	Pool   DatabasePoolConfig `mapstructure:"pool"`
}

// RedisConfig Redis 配置
type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Prefix   string `mapstructure:"prefix"`
}

// QueueConfig 异步队列配置
type QueueConfig struct {
	Enabled     bool           `mapstructure:"enabled"`
	Host        string         `mapstructure:"host"`
	Port        int            `mapstructure:"port"`
	Password    string         `mapstructure:"password"`
	DB          int            `mapstructure:"db"`
	Concurrency int            `mapstructure:"concurrency"`
	Queues      map[string]int `mapstructure:"queues"`
}

// CORSConfig 跨域配置
type CORSConfig struct {
	AllowedOrigins   []string `mapstructure:"allowed_origins"`
	AllowedMethods   []string `mapstructure:"allowed_methods"`
	AllowedHeaders   []string `mapstructure:"allowed_headers"`
	AllowCredentials bool     `mapstructure:"allow_credentials"`
	MaxAge           int      `mapstructure:"max_age"`
}

// SessionConfig 会话 Cookie 配置
type SessionConfig struct {
	CookieName    string `mapstructure:"cookie_name"`
	Secret        string `mapstructure:"secret"`
	MaxAgeSeconds int    `mapstructure:"max_age_seconds"`
	Secure        bool   `mapstructure:"secure"`
	SameSite      string `mapstructure:"same_site"` // lax / strict / none
	CookieDomain  string `mapstructure:"cookie_domain"`
	CookiePath    string `mapstructure:"cookie_path"`
}

// InactivityWindow 购物车与会话的闲置过期时间
func (c SessionConfig) InactivityWindow() time.Duration {
	if c.MaxAgeSeconds <= 0 {
		return time.Hour
	}
	return time.Duration(c.MaxAgeSeconds) * time.Second
}

// ShopConfig 店铺运费配置
type ShopConfig struct {
	Currency              string `mapstructure:"currency"`
	ShippingFee           int64  `mapstructure:"shipping_fee"`
	FreeShippingThreshold int64  `mapstructure:"free_shipping_threshold"`
	ResultRedirectURL     string `mapstructure:"result_redirect_url"`
}

// OrderConfig 订单配置
type OrderConfig struct {
	PaymentExpireMinutes int `mapstructure:"payment_expire_minutes"`
}

// AdminConfig 管理端共享令牌
type AdminConfig struct {
	Token string `mapstructure:"token"`
}

// PaymentConfig 支付配置
type PaymentConfig struct {
	ECPay ECPayConfig `mapstructure:"ecpay"`
}

// ECPayConfig 绿界支付配置
type ECPayConfig struct {
	MerchantID        string `mapstructure:"merchant_id"`
	HashKey           string `mapstructure:"hash_key"`
	HashIV            string `mapstructure:"hash_iv"`
	OperationMode     string `mapstructure:"operation_mode"` // Test / Production
	GatewayURL        string `mapstructure:"gateway_url"`
	TradeNoPrefix     string `mapstructure:"trade_no_prefix"`
	TradeDesc         string `mapstructure:"trade_desc"`
	ChoosePayment     string `mapstructure:"choose_payment"`
	ReturnURL         string `mapstructure:"return_url"`
	OrderResultURL    string `mapstructure:"order_result_url"`
	ClientBackURL     string `mapstructure:"client_back_url"`
	VerifyCallback    bool   `mapstructure:"verify_callback"`
	AllowSimulatePaid bool   `mapstructure:"allow_simulate_paid"`
}

// EventsConfig 订单事件配置
type EventsConfig struct {
	Kafka KafkaConfig `mapstructure:"kafka"`
}

// KafkaConfig Kafka 生产者配置
type KafkaConfig struct {
	Enabled      bool     `mapstructure:"enabled"`
	Brokers      []string `mapstructure:"brokers"`
	TopicPrefix  string   `mapstructure:"topic_prefix"`
	WriteTimeout int      `mapstructure:"write_timeout_ms"`
}

// RateLimitConfig 接口限流配置
type RateLimitConfig struct {
	Checkout RateLimitRule `mapstructure:"checkout"`
	Callback RateLimitRule `mapstructure:"callback"`
}

// RateLimitRule 单条限流规则
type RateLimitRule struct {
	WindowSeconds int `mapstructure:"window_seconds"`
	MaxRequests   int `mapstructure:"max_requests"`
	BlockSeconds  int `mapstructure:"block_seconds"`
}

// Load 从 config.yml 加载配置
func Load() *Config {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./")
	viper.AddConfigPath("../") // 从 cmd/server 运行
	viper.AddConfigPath("./etc")

	setDefaults(viper.GetViper())

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_")) // server.port -> SERVER_PORT

	if err := viper.ReadInConfig(); err != nil {
		logger.Warnw("config_file_read_failed",
			"error", err,
			"fallback", "env_or_defaults",
		)
	} else {
		logger.Infow("config_file_loaded", "file", viper.ConfigFileUsed())
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		logger.Errorw("config_unmarshal_failed", "error", err)
		panic(fmt.Errorf("配置解析失败: %w", err))
	}
	cfg.normalize()
	return &cfg
}

// Default 仅使用默认值构建配置，不读取文件与环境变量
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		panic(fmt.Errorf("默认配置解析失败: %w", err))
	}
	cfg.normalize()
	return &cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "Dawit Coffee")
	v.SetDefault("app.base_url", "http://localhost:3000")
	v.SetDefault("app.seed_catalog", true)
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", "3000")
	v.SetDefault("server.mode", "debug")
	v.SetDefault("server.read_timeout_seconds", 15)
	v.SetDefault("server.write_timeout_seconds", 30)
	v.SetDefault("server.shutdown_timeout_seconds", 10)
	v.SetDefault("log.dir", "")
	v.SetDefault("log.filename", "app.log")
	v.SetDefault("log.max_size_mb", 100)
	v.SetDefault("log.max_backups", 7)
	v.SetDefault("log.max_age_days", 30)
	v.SetDefault("log.compress", true)
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.dsn", "./db/shop.db")
	v.SetDefault("database.pool.max_open_conns", 1)
	v.SetDefault("database.pool.max_idle_conns", 1)
	v.SetDefault("database.pool.conn_max_lifetime_seconds", 0)
	v.SetDefault("database.pool.conn_max_idle_time_seconds", 0)
	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.host", "127.0.0.1")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.prefix", "shop")
	v.SetDefault("queue.enabled", false)
	v.SetDefault("queue.host", "127.0.0.1")
	v.SetDefault("queue.port", 6379)
	v.SetDefault("queue.password", "")
	v.SetDefault("queue.db", 1)
	v.SetDefault("queue.concurrency", 5)
	v.SetDefault("queue.queues", map[string]int{
		"default":  10,
		"critical": 5,
	})
	v.SetDefault("cors.allowed_origins", []string{"*"})
	v.SetDefault("cors.allowed_methods", []string{"GET", "POST", "PATCH", "OPTIONS"})
	v.SetDefault("cors.allowed_headers", []string{"Content-Type", "x-admin-token", "Authorization"})
	v.SetDefault("cors.allow_credentials", true)
	v.SetDefault("cors.max_age", 600)
	v.SetDefault("session.cookie_name", "shop_sid")
	v.SetDefault("session.secret", "dev-session-secret-change-me")
	v.SetDefault("session.max_age_seconds", 3600)
	v.SetDefault("session.secure", false)
	v.SetDefault("session.same_site", "lax")
	v.SetDefault("session.cookie_domain", "")
	v.SetDefault("session.cookie_path", "/")
	v.SetDefault("shop.currency", "TWD")
	v.SetDefault("shop.shipping_fee", 60)
	v.SetDefault("shop.free_shipping_threshold", 500)
	v.SetDefault("shop.result_redirect_url", "")
	v.SetDefault("order.payment_expire_minutes", 30)
	v.SetDefault("admin.token", "dev-admin")
	v.SetDefault("payment.ecpay.merchant_id", "2000132")
	v.SetDefault("payment.ecpay.hash_key", "5294y06JbISpM5x9")
	v.SetDefault("payment.ecpay.hash_iv", "v77hoKGq4kWxNNIS")
	v.SetDefault("payment.ecpay.operation_mode", "Test")
	v.SetDefault("payment.ecpay.gateway_url", "")
	v.SetDefault("payment.ecpay.trade_no_prefix", "TEST")
	v.SetDefault("payment.ecpay.trade_desc", "CoffeeOrder")
	v.SetDefault("payment.ecpay.choose_payment", "ALL")
	v.SetDefault("payment.ecpay.return_url", "")
	v.SetDefault("payment.ecpay.order_result_url", "")
	v.SetDefault("payment.ecpay.client_back_url", "")
	v.SetDefault("payment.ecpay.verify_callback", true)
	v.SetDefault("payment.ecpay.allow_simulate_paid", false)
	v.SetDefault("events.kafka.enabled", false)
	v.SetDefault("events.kafka.brokers", []string{"127.0.0.1:9092"})
	v.SetDefault("events.kafka.topic_prefix", "shop")
	v.SetDefault("events.kafka.write_timeout_ms", 3000)
	v.SetDefault("rate_limit.checkout.window_seconds", 60)
	v.SetDefault("rate_limit.checkout.max_requests", 10)
	v.SetDefault("rate_limit.checkout.block_seconds", 120)
	v.SetDefault("rate_limit.callback.window_seconds", 60)
	v.SetDefault("rate_limit.callback.max_requests", 120)
	v.SetDefault("rate_limit.callback.block_seconds", 60)
}

// normalize 补全依赖 base_url 的回调地址
// ValidatePayment 生产环境禁止模拟付款与跳过验签
func (c *Config) ValidatePayment() error {
	if c.Server.Mode != "release" {
		return nil
	}
	if c.Payment.ECPay.AllowSimulatePaid {
		return fmt.Errorf("payment.ecpay.allow_simulate_paid must be false in release mode")
	}
	if !c.Payment.ECPay.VerifyCallback {
		return fmt.Errorf("payment.ecpay.verify_callback must be true in release mode")
	}
	return nil
}

func (c *Config) normalize() {
	base := strings.TrimRight(strings.TrimSpace(c.App.BaseURL), "/")
	if strings.TrimSpace(c.Payment.ECPay.ReturnURL) == "" {
		c.Payment.ECPay.ReturnURL = base + "/payment/ecpay/notify"
	}
	if strings.TrimSpace(c.Payment.ECPay.OrderResultURL) == "" {
		c.Payment.ECPay.OrderResultURL = base + "/payment/result"
	}
	if strings.TrimSpace(c.Payment.ECPay.ClientBackURL) == "" {
		c.Payment.ECPay.ClientBackURL = base + "/"
	}
	if c.Order.PaymentExpireMinutes <= 0 {
		c.Order.PaymentExpireMinutes = 30
	}
}

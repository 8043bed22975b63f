package provider

import (
	"fmt"

	"github.com/dawit-coffee/storefront/internal/cache"
	"github.com/dawit-coffee/storefront/internal/config"
	"github.com/dawit-coffee/storefront/internal/events"
	"github.com/dawit-coffee/storefront/internal/logger"
	"github.com/dawit-coffee/storefront/internal/models"
	"github.com/dawit-coffee/storefront/internal/payment/ecpay"
	"github.com/dawit-coffee/storefront/internal/queue"
	"github.com/dawit-coffee/storefront/internal/repository"
	"github.com/dawit-coffee/storefront/internal/service"

	"gorm.io/gorm"
)

// Container 依赖注入容器
type Container struct {
	Config      *config.Config
	QueueClient *queue.Client

	// Repositories
	ProductRepo repository.ProductRepository
	OrderRepo   repository.OrderRepository

	// Infrastructure
	CartStore      cache.CartStore
	MemoryCarts    *cache.MemoryCartStore // 未启用 Redis 时的进程内购物车
	ECPayClient    *ecpay.Client
	EventPublisher events.Publisher       // 业务侧发布入口
	EventSink      events.Publisher       // worker 投递目标（Kafka）

	// Services
	ProductService  *service.ProductService
	CartService     *service.CartService
	CheckoutService *service.CheckoutService
	OrderService    *service.OrderService
	PaymentService  *service.PaymentService
}

// NewContainer 初始化容器
func NewContainer(cfg *config.Config) (*Container, error) {
	return NewContainerWithDB(cfg, models.DB)
}

// NewContainerWithDB 使用指定数据库初始化容器
func NewContainerWithDB(cfg *config.Config, db *gorm.DB) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is nil")
	}
	if db == nil {
		return nil, fmt.Errorf("database not initialized")
	}

	// 初始化缓存
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	// 初始化队列客户端
	var queueClient *queue.Client
	if cfg.Queue.Enabled {
		qc, err := queue.NewClient(&cfg.Queue)
		if err != nil {
			logger.Errorw("provider_init_queue_client_failed", "error", err)
		} else {
			queueClient = qc
		}
	}

	c := &Container{
		Config:      cfg,
		QueueClient: queueClient,
	}

	c.initRepositories(db)
	c.initCartStore()
	c.initEvents()
	if err := c.initPayment(); err != nil {
		return nil, err
	}
	c.initServices()
	return c, nil
}

func (c *Container) initRepositories(db *gorm.DB) {
	c.ProductRepo = repository.NewProductRepository(db)
	c.OrderRepo = repository.NewOrderRepository(db)
}

func (c *Container) initCartStore() {
	ttl := c.Config.Session.InactivityWindow()
	if cache.Enabled() {
		c.CartStore = cache.NewRedisCartStore(cache.Client(), cache.Prefix(), ttl)
		return
	}
	c.MemoryCarts = cache.NewMemoryCartStore(ttl)
	c.CartStore = c.MemoryCarts
}

func (c *Container) initEvents() {
	c.EventPublisher = events.NoopPublisher{}
	if !c.Config.Events.Kafka.Enabled {
		return
	}
	sink, err := events.NewKafkaPublisher(c.Config.Events.Kafka)
	if err != nil {
		logger.Errorw("provider_init_kafka_failed", "error", err)
		return
	}
	c.EventSink = sink
	if c.QueueClient.Enabled() {
		// 经队列异步投递，worker 负责写入 Kafka 并重试
		c.EventPublisher = queue.NewEventPublisher(c.QueueClient)
		return
	}
	c.EventPublisher = sink
}

func (c *Container) initPayment() error {
	ec := c.Config.Payment.ECPay
	client, err := ecpay.NewClient(ecpay.Config{
		MerchantID:     ec.MerchantID,
		HashKey:        ec.HashKey,
		HashIV:         ec.HashIV,
		OperationMode:  ec.OperationMode,
		GatewayURL:     ec.GatewayURL,
		TradeNoPrefix:  ec.TradeNoPrefix,
		TradeDesc:      ec.TradeDesc,
		ChoosePayment:  ec.ChoosePayment,
		ReturnURL:      ec.ReturnURL,
		OrderResultURL: ec.OrderResultURL,
		ClientBackURL:  ec.ClientBackURL,
	})
	if err != nil {
		return fmt.Errorf("init ecpay client: %w", err)
	}
	c.ECPayClient = client
	return nil
}

func (c *Container) initServices() {
	shipping := service.ShippingPolicy{
		Fee:                   c.Config.Shop.ShippingFee,
		FreeShippingThreshold: c.Config.Shop.FreeShippingThreshold,
	}
	c.ProductService = service.NewProductService(c.ProductRepo)
	c.CartService = service.NewCartService(c.CartStore, c.ProductRepo, shipping)
	c.CheckoutService = service.NewCheckoutService(c.OrderRepo, c.ProductRepo, c.CartStore, c.QueueClient, c.EventPublisher, shipping, c.Config.Order.PaymentExpireMinutes)
	c.OrderService = service.NewOrderService(c.OrderRepo, c.ProductRepo, c.EventPublisher)
	c.PaymentService = service.NewPaymentService(c.OrderRepo, c.ProductRepo, c.CartStore, c.ECPayClient, c.EventPublisher, service.PaymentOptions{
		VerifyCallback:    c.Config.Payment.ECPay.VerifyCallback,
		AllowSimulatePaid: c.Config.Payment.ECPay.AllowSimulatePaid,
	})
}

// Close 释放外部连接
func (c *Container) Close() {
	if c == nil {
		return
	}
	if c.EventSink != nil {
		if err := c.EventSink.Close(); err != nil {
			logger.Warnw("provider_close_kafka_failed", "error", err)
		}
	}
	if c.QueueClient != nil {
		if err := c.QueueClient.Close(); err != nil {
			logger.Warnw("provider_close_queue_failed", "error", err)
		}
	}
	if err := cache.Close(); err != nil {
		logger.Warnw("provider_close_redis_failed", "error", err)
	}
}

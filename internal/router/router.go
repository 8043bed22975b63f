package router

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/dawit-coffee/storefront/internal/cache"
	"github.com/dawit-coffee/storefront/internal/config"
	adminhandlers "github.com/dawit-coffee/storefront/internal/http/handlers/admin"
	publichandlers "github.com/dawit-coffee/storefront/internal/http/handlers/public"
	"github.com/dawit-coffee/storefront/internal/logger"
	"github.com/dawit-coffee/storefront/internal/provider"

	"github.com/gin-gonic/gin"
)

var rateLimitClient = cache.Client

// SetupRouter 初始化路由
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()

	// 初始化 Handler（按前台/后台分组）
	publicHandler := publichandlers.New(c)
	adminHandler := adminhandlers.New(c)
	redisPrefix := strings.TrimSpace(cfg.Redis.Prefix)
	if redisPrefix == "" {
		redisPrefix = "shop"
	}
	redisClient := rateLimitClient()
	checkoutRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:checkout", redisPrefix),
		WindowSeconds: cfg.RateLimit.Checkout.WindowSeconds,
		MaxRequests:   cfg.RateLimit.Checkout.MaxRequests,
		BlockSeconds:  cfg.RateLimit.Checkout.BlockSeconds,
	}
	callbackRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:callback", redisPrefix),
		WindowSeconds: cfg.RateLimit.Callback.WindowSeconds,
		MaxRequests:   cfg.RateLimit.Callback.MaxRequests,
		BlockSeconds:  cfg.RateLimit.Callback.BlockSeconds,
	}

	// 中间件
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))

	// 前台接口（会话 Cookie）
	storefront := r.Group("")
	storefront.Use(SessionMiddleware(cfg.Session, c.CartStore))
	{
		api := storefront.Group("/api")
		api.GET("/products", publicHandler.GetProducts)
		api.GET("/cart", publicHandler.GetCart)
		api.POST("/cart/add", publicHandler.AddToCart)
		api.POST("/cart/update", publicHandler.UpdateCart)
		api.POST("/cart/clear", publicHandler.ClearCart)
		api.POST("/checkout", RateLimitMiddleware(redisClient, checkoutRule, KeyBySession), publicHandler.Checkout)

		storefront.GET("/pay/:order_id", publicHandler.PayOrder)
	}

	// 绿界回跳为跨站 POST，SameSite=Lax 时浏览器不带 Cookie，此处只读会话不签发
	r.POST("/payment/result",
		SessionReaderMiddleware(cfg.Session),
		RateLimitMiddleware(redisClient, callbackRule, KeyByIP),
		publicHandler.PaymentResult,
	)

	// 绿界服务端通知，不依赖会话且不限流，由 CheckMacValue 验签把关，每次都回复 1|OK
	r.POST("/payment/ecpay/notify", publicHandler.ECPayNotify)

	// 管理端接口
	admin := r.Group("/api/admin")
	admin.Use(AdminTokenMiddleware(cfg.Admin.Token))
	{
		admin.GET("/products", adminHandler.AdminListProducts)
		admin.POST("/products", adminHandler.AdminCreateProduct)
		admin.PATCH("/products/:id", adminHandler.AdminPatchProduct)
		admin.GET("/orders", adminHandler.AdminListOrders)
		admin.GET("/orders/:id/items", adminHandler.AdminListOrderItems)
	}

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	return r
}

package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/dawit-coffee/storefront/internal/app"
	"github.com/dawit-coffee/storefront/internal/config"
	"github.com/dawit-coffee/storefront/internal/logger"
	"github.com/dawit-coffee/storefront/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	gormlogger "gorm.io/gorm/logger"
)

const (
	ansiReset = "\033[0m"
	ansiBold  = "\033[1m"
	ansiDim   = "\033[2m"
	ansiCyan  = "\033[36m"
)

func main() {
	// 解析命令行参数
	var mode string
	flag.StringVar(&mode, "mode", app.ModeAll, "启动模式: all (默认), api, worker")
	flag.Parse()

	printStartupBanner()

	// .env 仅用于本地开发，缺失时沿用系统环境变量
	envErr := godotenv.Load()

	// 加载配置
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()
	if envErr != nil {
		logger.Debugw("dotenv_not_loaded", "error", envErr)
	}

	checkSecret(stdLog.Fatalf, stdLog.Printf, cfg.Server.Mode, "session.secret", cfg.Session.Secret)
	checkSecret(stdLog.Fatalf, stdLog.Printf, cfg.Server.Mode, "admin.token", cfg.Admin.Token)
	if err := cfg.ValidatePayment(); err != nil {
		stdLog.Fatalf("支付配置不安全: %v", err)
	}
	if cfg.Payment.ECPay.AllowSimulatePaid {
		stdLog.Printf("警告: payment.ecpay.allow_simulate_paid 已开启，模拟付款会被视为已付款")
	}

	// 初始化数据库
	logLevel := gormlogger.Warn
	if cfg.Server.Mode != "release" {
		logLevel = gormlogger.Info
	}
	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}, logLevel); err != nil {
		stdLog.Fatalf("数据库初始化失败: %v", err)
	}

	// 自动迁移数据库表
	if err := models.AutoMigrate(models.DB); err != nil {
		stdLog.Fatalf("数据库迁移失败: %v", err)
	}

	// 商品表为空时写入初始商品
	if cfg.App.SeedCatalog {
		seeded, err := models.SeedCatalog(models.DB)
		if err != nil {
			stdLog.Printf("警告: 初始商品写入失败: %v", err)
		} else if seeded > 0 {
			logger.Infow("catalog_seeded", "count", seeded)
		}
	}

	// 设置 Gin 模式
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := app.Run(app.Options{
		Config:  cfg,
		Logger:  logger.S(),
		Signals: []os.Signal{syscall.SIGINT, syscall.SIGTERM},
		Mode:    mode,
	}); err != nil {
		stdLog.Fatalf("服务运行失败: %v", err)
	}
	logger.Sync()
}

func printStartupBanner() {
	fmt.Println(ansiCyan + ansiBold + "Dawit Coffee Storefront API" + ansiReset)
	fmt.Println(ansiDim + "--------------------------------------------------------------" + ansiReset)
}

// checkSecret 生产环境拒绝弱密钥，其它环境仅警告
func checkSecret(fatalf, printf func(string, ...interface{}), mode, name, secret string) {
	if !isWeakSecret(secret) {
		return
	}
	if mode == "release" {
		fatalf("%s 过弱或仍为默认值，请在生产环境中配置强随机密钥", name)
		return
	}
	printf("警告: %s 过弱或仍为默认值，建议在生产环境中更换", name)
}

func isWeakSecret(secret string) bool {
	if len(secret) < 32 {
		return true
	}
	normalized := strings.ToLower(secret)
	if strings.Contains(normalized, "change-me") ||
		strings.Contains(normalized, "change-in-production") ||
		strings.Contains(normalized, "your-secret-key") {
		return true
	}
	return false
}

package main

import (
	"flag"

	"github.com/dawit-coffee/storefront/internal/config"
	"github.com/dawit-coffee/storefront/internal/logger"
	"github.com/dawit-coffee/storefront/internal/models"

	"github.com/joho/godotenv"
	gormlogger "gorm.io/gorm/logger"
)

func main() {
	var overwrite bool
	flag.BoolVar(&overwrite, "overwrite", false, "覆盖已有商品的名称、图片与价格")
	flag.Parse()

	_ = godotenv.Load()

	// 连接数据库
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()
	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}, gormlogger.Warn); err != nil {
		stdLog.Fatalf("Failed to connect database: %v", err)
	}

	// 自动迁移
	if err := models.AutoMigrate(models.DB); err != nil {
		stdLog.Fatalf("Failed to migrate database: %v", err)
	}

	written, err := models.UpsertCatalog(models.DB, models.DefaultCatalog(), overwrite)
	if err != nil {
		stdLog.Fatalf("Failed to seed catalog: %v", err)
	}
	logger.Infow("catalog_seed_done", "written", written, "overwrite", overwrite)
	logger.Sync()
}

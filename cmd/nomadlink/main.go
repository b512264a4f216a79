package main

import (
	"context"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	handlers "nomadlink/internal/handler"
	"nomadlink/internal/listeners"
	"nomadlink/internal/models"
	"nomadlink/internal/service"
	"nomadlink/pkg/cache"
	"nomadlink/pkg/config"
	"nomadlink/pkg/logger"
	"nomadlink/pkg/scheduler"
	"nomadlink/pkg/storage"
	"nomadlink/pkg/token"
	"nomadlink/pkg/util"
	"nomadlink/pkg/websocket"
)

func main() {
	if err := config.Load(); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	cfg := config.GlobalConfig

	if err := logger.Init(cfg.Log); err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync()

	db, err := util.OpenDatabase(&gorm.Config{}, cfg.DBDriver, cfg.DSN)
	if err != nil {
		logger.Error("failed to connect to database", zap.Error(err))
		return
	}
	if err := db.AutoMigrate(&models.User{}, &models.EmergencyAlert{}, &models.Booking{}, &models.KYC{}); err != nil {
		logger.Error("failed to migrate database", zap.Error(err))
		return
	}

	cacheCfg := cache.Config{Type: "local"}
	if cfg.RedisAddr != "" {
		cacheCfg = cache.Config{Type: "redis", Redis: cache.RedisConfig{Addr: cfg.RedisAddr, Password: cfg.RedisPassword}}
	}
	userCache, err := cache.NewCache(cacheCfg)
	if err != nil {
		logger.Error("failed to init cache", zap.Error(err))
		return
	}
	defer userCache.Close()

	tokens := token.NewIssuer(
		cfg.JWTSecret,
		time.Duration(cfg.AccessTokenMinutes)*time.Minute,
		time.Duration(cfg.RefreshTokenHours)*time.Hour,
	)

	hub := websocket.NewHub(nil)
	defer hub.Close()

	docs := storage.NewMinioStore(cfg.MinioEndpoint, cfg.MinioAccessKey, cfg.MinioSecretKey, cfg.MinioBucket, cfg.MinioUseSSL)

	accountSvc := service.NewAccountService(db, tokens)
	walletAuthSvc := service.NewWalletAuthService(db, tokens)
	emergencySvc := service.NewEmergencyService(db)
	bookingSvc := service.NewBookingService(db)
	kycSvc := service.NewKYCService(db, docs)
	mintSvc := service.NewMintService(cfg.ChainClientURL)

	listeners.InitUserListeners()
	listeners.InitAlertListeners(hub)

	cron := scheduler.NewCron(time.UTC)
	if _, err := cron.Add("@every 10m", func(ctx context.Context) {
		if n, err := walletAuthSvc.SweepExpiredNonces(ctx); err != nil {
			logger.Warn("nonce sweep failed", zap.Error(err))
		} else if n > 0 {
			logger.Info("cleared expired nonces", zap.Int64("count", n))
		}
	}); err != nil {
		logger.Error("failed to schedule nonce sweep", zap.Error(err))
		return
	}
	cron.Start()
	defer cron.Stop()

	gin.SetMode(cfg.Mode)
	engine := gin.New()
	engine.Use(gin.Recovery())

	h := handlers.NewHandlers(db, hub, tokens, userCache,
		accountSvc, walletAuthSvc, emergencySvc, bookingSvc, kycSvc, mintSvc)
	h.Register(engine)

	logger.Info("starting server", zap.String("addr", cfg.Addr))
	if err := engine.Run(cfg.Addr); err != nil {
		logger.Error("server stopped", zap.Error(err))
	}
}

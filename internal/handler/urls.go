package handlers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"nomadlink/internal/service"
	"nomadlink/pkg/cache"
	"nomadlink/pkg/config"
	"nomadlink/pkg/metrics"
	"nomadlink/pkg/middleware"
	"nomadlink/pkg/token"
	"nomadlink/pkg/websocket"
)

type Handlers struct {
	db        *gorm.DB
	hub       *websocket.Hub
	tokens    *token.Issuer
	userCache cache.Cache

	accounts   *service.AccountService
	walletAuth *service.WalletAuthService
	emergency  *service.EmergencyService
	bookings   *service.BookingService
	kyc        *service.KYCService
	mint       *service.MintService
}

func NewHandlers(
	db *gorm.DB,
	hub *websocket.Hub,
	tokens *token.Issuer,
	userCache cache.Cache,
	accounts *service.AccountService,
	walletAuth *service.WalletAuthService,
	emergency *service.EmergencyService,
	bookings *service.BookingService,
	kyc *service.KYCService,
	mint *service.MintService,
) *Handlers {
	return &Handlers{
		db:         db,
		hub:        hub,
		tokens:     tokens,
		userCache:  userCache,
		accounts:   accounts,
		walletAuth: walletAuth,
		emergency:  emergency,
		bookings:   bookings,
		kyc:        kyc,
		mint:       mint,
	}
}

func (h *Handlers) Register(engine *gin.Engine) {
	engine.Use(metrics.Middleware())
	engine.GET("/metrics", metrics.Handler())
	engine.GET("/ws/emergency", h.handleEmergencySocket)

	r := engine.Group(config.GlobalConfig.APIPrefix)
	h.registerSystemRoutes(r)
	h.registerAccountRoutes(r)
	h.registerEmergencyRoutes(r)
	h.registerBookingRoutes(r)
	h.registerKYCRoutes(r)
	h.registerMintRoutes(r)
}

func (h *Handlers) auth() gin.HandlerFunc {
	return middleware.Auth(h.db, h.tokens, h.userCache)
}

func (h *Handlers) registerAccountRoutes(r *gin.RouterGroup) {
	accounts := r.Group("/accounts")
	{
		accounts.POST("/register", h.handleRegister)

		accounts.POST("/login", h.handleLogin)

		accounts.GET("/nonce", middleware.RateLimit(config.GlobalConfig.NonceRate), h.handleWalletNonce)

		accounts.POST("/wallet-signin", h.handleWalletSignin)

		accounts.GET("/profile", h.auth(), h.handleProfile)
	}
}

func (h *Handlers) registerEmergencyRoutes(r *gin.RouterGroup) {
	emergency := r.Group("/emergency")
	{
		emergency.POST("/trigger", h.auth(), h.handleTriggerEmergency)

		emergency.GET("/mine", h.auth(), h.handleMyEmergencies)

		emergency.PATCH("/resolve/:id", h.auth(), middleware.AdminRequired(), h.handleResolveEmergency)
	}
}

func (h *Handlers) registerBookingRoutes(r *gin.RouterGroup) {
	bookings := r.Group("/bookings", h.auth())
	{
		bookings.POST("", h.handleCreateBooking)

		bookings.GET("", h.handleListBookings)
	}
}

func (h *Handlers) registerKYCRoutes(r *gin.RouterGroup) {
	kyc := r.Group("/kyc")
	{
		kyc.GET("", h.auth(), h.handleGetKYC)

		kyc.PUT("", h.auth(), h.handleUpdateKYC)

		kyc.PATCH("/verify/:user_id", h.auth(), middleware.AdminRequired(), h.handleVerifyKYC)
	}
}

func (h *Handlers) registerMintRoutes(r *gin.RouterGroup) {
	r.POST("/mint", h.auth(), h.handleMint)
}

func (h *Handlers) registerSystemRoutes(r *gin.RouterGroup) {
	system := r.Group("/system")
	{
		system.GET("/health", h.handleHealthCheck)
	}
}

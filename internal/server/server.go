package server

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"

	"github.com/mrusama7862/Tournament-app-Pakistan/internal/auth"
	"github.com/mrusama7862/Tournament-app-Pakistan/internal/balance"
	"github.com/mrusama7862/Tournament-app-Pakistan/internal/config"
	"github.com/mrusama7862/Tournament-app-Pakistan/internal/event"
	"github.com/mrusama7862/Tournament-app-Pakistan/internal/notification"
	"github.com/mrusama7862/Tournament-app-Pakistan/internal/registration"
	"github.com/mrusama7862/Tournament-app-Pakistan/internal/user"
	"github.com/mrusama7862/Tournament-app-Pakistan/internal/wallet"
	"github.com/mrusama7862/Tournament-app-Pakistan/internal/withdrawal"
)

type Server struct {
	router   *gin.Engine
	http     *http.Server
	db       *sqlx.DB
	config   *config.Config
	notifier *notification.Service
}

func New(db *sqlx.DB, cfg *config.Config, notifier *notification.Service, hub *balance.Hub) *Server {
	router := gin.Default()
	router.Use(corsMiddleware())
	router.Use(MetricsMiddleware())
	router.Use(RequestLoggingMiddleware())
	router.Use(RateLimitMiddleware(20, 40))

	userRepo := user.NewRepository(db)
	eventRepo := event.NewRepository(db)
	ledger := wallet.NewRepository(db, cfg.TxMaxAttempts)
	registrationRepo := registration.NewRepository(db, ledger, cfg.TxMaxAttempts)
	withdrawalQueue := withdrawal.NewRepository(db, ledger, cfg.TxMaxAttempts)

	userHandler := user.NewHandler(user.NewService(userRepo, cfg.JWTSecret))
	eventHandler := event.NewHandler(eventRepo)
	walletHandler := wallet.NewHandler(ledger, cfg.TestCoinsEnabled)
	registrationHandler := registration.NewHandler(
		registration.NewService(registrationRepo, eventRepo, userRepo, notifier))
	withdrawalHandler := withdrawal.NewHandler(
		withdrawal.NewService(withdrawalQueue, userRepo, notifier))
	balanceHandler := balance.NewHandler(hub, ledger)

	public := router.Group("/auth")
	{
		public.POST("/register", userHandler.Register)
		public.POST("/login", userHandler.Login)
		public.POST("/refresh", userHandler.Refresh)
	}

	authMiddleware := auth.AuthMiddleware(cfg.JWTSecret)
	protected := router.Group("/")
	protected.Use(authMiddleware)
	{
		protected.GET("/me", userHandler.GetMe)

		protected.GET("/events", eventHandler.ListEvents)
		protected.GET("/events/:eventID", eventHandler.GetEvent)
		protected.POST("/events/:eventID/join", registrationHandler.JoinTournament)
		protected.POST("/events/:eventID/cancel", registrationHandler.CancelRegistration)
		protected.GET("/registrations", registrationHandler.ListMyRegistrations)

		protected.GET("/wallet", walletHandler.GetBalance)
		protected.GET("/wallet/transactions", walletHandler.ListTransactions)
		protected.POST("/wallet/test-coins", walletHandler.CreditTestCoins)
		protected.GET("/wallet/stream", balanceHandler.StreamBalance)

		protected.POST("/withdrawals", withdrawalHandler.RequestWithdrawal)
		protected.GET("/withdrawals", withdrawalHandler.ListMyWithdrawals)
	}

	adminMiddleware := auth.RequireRole(auth.RoleAdmin)
	admin := router.Group("/admin")
	admin.Use(authMiddleware, adminMiddleware)
	{
		admin.POST("/events", eventHandler.CreateEvent)
		admin.GET("/events/:eventID/participants", registrationHandler.ListParticipants)

		admin.GET("/withdrawals", withdrawalHandler.ListPending)
		admin.POST("/withdrawals/:requestID/approve", withdrawalHandler.Approve)
		admin.POST("/withdrawals/:requestID/reject", withdrawalHandler.Reject)
	}

	router.GET("/health", Health)
	router.GET("/metrics", Metrics())
	SetupSwagger(router)

	return &Server{
		router:   router,
		db:       db,
		config:   cfg,
		notifier: notifier,
	}
}

func (s *Server) Start(port string) error {
	s.http = &http.Server{
		Addr:    ":" + port,
		Handler: s.router,
	}
	return s.http.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.http == nil {
		return nil
	}
	return s.http.Shutdown(ctx)
}

func (s *Server) Router() *gin.Engine {
	return s.router
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, Idempotency-Key, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}

package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"

	"cafehub/internal/auth"
	"cafehub/internal/config"
	"cafehub/internal/handlers"
	"cafehub/internal/kafka"
	"cafehub/internal/logger"
	"cafehub/internal/middleware"
	"cafehub/internal/models"
	"cafehub/internal/qr"
	rediswrap "cafehub/internal/redis"
	"cafehub/internal/services"
	"cafehub/internal/storage"
	"cafehub/internal/ws"
)

// Global logger instance
var log *logger.Logger

func main() {
	log = logger.NewLogger()
	defer log.Close()

	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Warn("ENV", "Error loading .env file, using environment variables")
	}

	log.LogProcess("STARTUP", "CafeHub starting up...")
	log.Info("SYSTEM", "Initializing components...")

	cfg := config.Load()
	log.Info("CONFIG", "Configuration loaded successfully")

	log.LogProcess("DATABASE", "Initializing MySQL database...")
	store, err := storage.NewMySQLStore(cfg.Database, log)
	if err != nil {
		log.Fatal("DATABASE", "Failed to initialize MySQL: "+err.Error())
	}
	defer store.Close()
	log.LogDatabase("INIT", "mysql", "MySQL storage initialized successfully")

	log.LogProcess("KAFKA", "Initializing Kafka producer...")
	kafkaProducer, err := kafka.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.MockMode, log)
	if err != nil {
		log.Fatal("KAFKA", "Failed to create Kafka producer: "+err.Error())
	}
	defer kafkaProducer.Close()
	log.LogKafka("INIT", "producer", "Kafka producer initialized successfully")

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	tokenStore := rediswrap.NewTokenStore(redisClient)
	log.LogProcess("SERVICE", "Redis connection configured")

	issuer := auth.NewTokenIssuer(cfg.Auth.Secret, cfg.Auth.Issuer, cfg.Auth.Audience, cfg.Auth.AccessTTL, cfg.Auth.RefreshTTL)

	hub := ws.NewHub(log)

	var stripeService *services.StripeService
	if cfg.Stripe.SecretKey == "" {
		log.Warn("STRIPE", "STRIPE_SECRET_KEY not set, card payments disabled")
	} else {
		stripeService, err = services.NewStripeService(cfg.Stripe.SecretKey, log)
		if err != nil {
			log.Fatal("STRIPE", "Failed to initialize Stripe service: "+err.Error())
		}
		log.LogProcess("STRIPE", "Stripe service initialized")
	}

	// Initialize services
	authService := services.NewAuthService(store, issuer, tokenStore, log)
	cafeService := services.NewCafeService(store, log)
	menuService := services.NewMenuService(store, log)
	tableService := services.NewTableService(store, qr.NewGenerator(), cfg.Uploads.Dir, cfg.Server.PublicURL, log)
	pricingService := services.NewPricingService(store)
	orderService := services.NewOrderService(store, pricingService, kafkaProducer, hub, stripeService, log)
	notificationService := services.NewNotificationService(store, hub, log)
	dashboardService := services.NewDashboardService(store, log)
	uploadService := services.NewUploadService(cfg.Uploads.Dir, cfg.Uploads.BaseURL, log)
	log.LogProcess("SERVICE", "All services initialized")

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	cafeHandler := handlers.NewCafeHandler(cafeService)
	menuHandler := handlers.NewMenuHandler(menuService)
	tableHandler := handlers.NewTableHandler(tableService)
	orderHandler := handlers.NewOrderHandler(orderService)
	analyticsHandler := handlers.NewAnalyticsHandler(dashboardService)
	notificationHandler := handlers.NewNotificationHandler(notificationService)
	uploadHandler := handlers.NewUploadHandler(uploadService, cafeService)
	wsHandler := ws.NewHandler(hub, issuer, store, log)
	log.LogProcess("HANDLER", "All handlers initialized")

	// Consume order events back into stored notifications
	log.LogProcess("KAFKA", "Initializing Kafka consumer...")
	kafkaConsumer, err := kafka.NewOrderConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID)
	if err != nil {
		if cfg.Kafka.MockMode {
			log.Warn("KAFKA", "Consumer unavailable in mock mode: "+err.Error())
		} else {
			log.Fatal("KAFKA", "Failed to create Kafka consumer: "+err.Error())
		}
	} else {
		defer kafkaConsumer.Close()
		go func() {
			log.LogKafka("START", "consumer", "Starting Kafka consumer goroutine")
			handler := func(event *models.OrderEvent) error {
				return notificationService.RecordOrderEvent(context.Background(), event)
			}
			if err := kafkaConsumer.ConsumeOrderEvents(context.Background(), handler); err != nil {
				log.Error("KAFKA", "Consumer error: "+err.Error())
			}
		}()
	}

	router := setupRouter(cfg, issuer, store, authHandler, cafeHandler, menuHandler, tableHandler,
		orderHandler, analyticsHandler, notificationHandler, uploadHandler, wsHandler)
	log.LogProcess("ROUTER", "HTTP router configured")

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.LogProcess("SERVER", "Starting HTTP server on port "+cfg.Server.Port)
		log.Info("STARTUP", "🚀 CafeHub is ready to accept requests!")
		log.Info("STARTUP", "📊 Health check available at: http://localhost:"+cfg.Server.Port+"/health")

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("SERVER", "Server failed to start: "+err.Error())
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Warn("SHUTDOWN", "Received shutdown signal, initiating graceful shutdown...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("SHUTDOWN", "Server forced to shutdown: "+err.Error())
	}

	log.Info("SHUTDOWN", "✅ CafeHub shutdown completed successfully")
}

func setupRouter(
	cfg *config.Config,
	issuer *auth.TokenIssuer,
	store storage.Store,
	authHandler *handlers.AuthHandler,
	cafeHandler *handlers.CafeHandler,
	menuHandler *handlers.MenuHandler,
	tableHandler *handlers.TableHandler,
	orderHandler *handlers.OrderHandler,
	analyticsHandler *handlers.AnalyticsHandler,
	notificationHandler *handlers.NotificationHandler,
	uploadHandler *handlers.UploadHandler,
	wsHandler *ws.Handler,
) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()

	router.Use(middleware.EnhancedLogger(log))
	router.Use(middleware.Recovery(log))
	router.Use(middleware.CORS())
	router.Use(middleware.RateLimit(log))
	router.Use(middleware.SecurityHeaders(log))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"timestamp": time.Now().UTC(),
			"service":   "cafehub",
			"version":   "1.0.0",
		})
	})
	router.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, "pong")
	})

	// Uploaded files are served straight from disk
	router.Static(cfg.Uploads.BaseURL, cfg.Uploads.Dir)

	requireAuth := middleware.RequireAuth(issuer, store, log)
	staffOnly := middleware.RequireRole(models.RoleOperator, models.RoleAdmin)

	// WebSocket surface: token rides in the query string
	router.GET("/ws/venue/:id", wsHandler.VenueSocket)
	router.GET("/ws/user/:id", wsHandler.UserSocket)

	v1 := router.Group("/api/v1")
	{
		authRoutes := v1.Group("/auth")
		{
			authRoutes.POST("/register", authHandler.Register)
			authRoutes.POST("/login", authHandler.Login)
			authRoutes.POST("/refresh", authHandler.Refresh)
			authRoutes.POST("/logout", authHandler.Logout)
			authRoutes.GET("/me", requireAuth, authHandler.Me)
			authRoutes.PUT("/me", requireAuth, authHandler.UpdateMe)
			authRoutes.POST("/change-password", requireAuth, authHandler.ChangePassword)
			authRoutes.DELETE("/deactivate", requireAuth, authHandler.Deactivate)
		}

		cafes := v1.Group("/cafes")
		{
			cafes.GET("", cafeHandler.ListPublic)
			cafes.GET("/:id", cafeHandler.Get)
			cafes.POST("/:id/rate", cafeHandler.Rate)
			cafes.POST("", requireAuth, staffOnly, cafeHandler.Create)
			cafes.GET("/owned", requireAuth, staffOnly, cafeHandler.ListOwned)
			cafes.PUT("/:id", requireAuth, staffOnly, cafeHandler.Update)
			cafes.DELETE("/:id", requireAuth, staffOnly, cafeHandler.Delete)
			cafes.POST("/:id/logo", requireAuth, staffOnly, uploadHandler.UploadCafeLogo)
		}

		menu := v1.Group("/menu")
		{
			menu.GET("/categories/:cafe_id", menuHandler.ListCategories)
			menu.GET("/items/:cafe_id", menuHandler.ListItems)
			menu.POST("/categories", requireAuth, staffOnly, menuHandler.CreateCategory)
			menu.PUT("/categories/:id", requireAuth, staffOnly, menuHandler.UpdateCategory)
			menu.DELETE("/categories/:id", requireAuth, staffOnly, menuHandler.DeleteCategory)
			menu.POST("/items", requireAuth, staffOnly, menuHandler.CreateItem)
			menu.GET("/items/all/:cafe_id", requireAuth, staffOnly, menuHandler.ListAllItems)
			menu.PUT("/items/:id", requireAuth, staffOnly, menuHandler.UpdateItem)
			menu.DELETE("/items/:id", requireAuth, staffOnly, menuHandler.DeleteItem)
			menu.POST("/items/reorder", requireAuth, staffOnly, menuHandler.ReorderItems)
		}

		tables := v1.Group("/tables")
		{
			tables.GET("/public/:cafe_id", tableHandler.ListPublic)
			tables.GET("/detail/:table_id", tableHandler.Get)
			tables.POST("", requireAuth, staffOnly, tableHandler.Create)
			tables.GET("/:cafe_id", requireAuth, staffOnly, tableHandler.List)
			tables.POST("/:id/regenerate-qr", requireAuth, staffOnly, tableHandler.RegenerateQR)
			tables.PUT("/:id/activate", requireAuth, staffOnly, tableHandler.Activate)
			tables.PUT("/:id/deactivate", requireAuth, staffOnly, tableHandler.Deactivate)
			tables.DELETE("/:id", requireAuth, staffOnly, tableHandler.Delete)
		}

		orders := v1.Group("/orders")
		{
			orders.POST("", orderHandler.Create)
			orders.GET("/:id", orderHandler.Get)
			orders.GET("/number/:order_number", orderHandler.GetByNumber)
			orders.GET("/cafe/:cafe_id", requireAuth, staffOnly, orderHandler.ListByCafe)
			orders.GET("/cafe/:cafe_id/active", requireAuth, staffOnly, orderHandler.ListActive)
			orders.PUT("/:id/status", requireAuth, staffOnly, orderHandler.UpdateStatus)
			orders.POST("/:id/payment", requireAuth, staffOnly, orderHandler.ProcessPayment)
		}

		analytics := v1.Group("/analytics", requireAuth, staffOnly)
		{
			analytics.GET("/:cafe_id/summary", analyticsHandler.Summary)
			analytics.GET("/:cafe_id/revenue", analyticsHandler.Revenue)
			analytics.GET("/:cafe_id/popular-items", analyticsHandler.PopularItems)
			analytics.GET("/:cafe_id/order-status", analyticsHandler.OrderStatus)
		}

		notifications := v1.Group("/notifications", requireAuth)
		{
			notifications.GET("", notificationHandler.List)
			notifications.POST("", staffOnly, notificationHandler.Create)
			notifications.PUT("/:id/read", notificationHandler.MarkRead)
			notifications.PUT("/mark-all-read", notificationHandler.MarkAllRead)
		}

		uploads := v1.Group("/uploads", requireAuth, staffOnly)
		{
			uploads.POST("/image", uploadHandler.UploadImage)
			uploads.POST("/images", uploadHandler.UploadImages)
			uploads.POST("/document", uploadHandler.UploadDocument)
		}
	}

	log.LogProcess("ROUTER", "All routes registered successfully")
	return router
}

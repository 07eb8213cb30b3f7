package main

import (
	"context"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"rewards-platform-backend/internal/config"
	"rewards-platform-backend/internal/handlers"
	"rewards-platform-backend/internal/middleware"
	"rewards-platform-backend/internal/services"
	"rewards-platform-backend/internal/store"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx := context.Background()

	st, err := store.NewPostgresStore(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer st.Close()

	redisService, err := services.NewRedisService(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisService.Close()

	jwtService := services.NewJWTService(cfg)

	wsHandler := handlers.NewWebSocketHandler(st)

	// Committed balance changes go to the local websocket clients and onto
	// the Redis feed for every other instance.
	notifier := services.NewFanoutNotifier(wsHandler, redisService)

	gameEngine, err := services.NewGameEngine(st, redisService, notifier, cfg)
	if err != nil {
		log.Fatalf("Failed to init game engine: %v", err)
	}

	creditService := services.NewCreditService(st, notifier)
	walletService := services.NewWalletService(st, notifier, cfg)
	giftCardService := services.NewGiftCardService(st, notifier, cfg)

	// Events published by other instances still reach this instance's
	// websocket clients.
	go redisService.SubscribeBalanceFeed(ctx, wsHandler.NotifyBalanceChange)

	webhookHandler := handlers.NewWebhookHandler(creditService, cfg)
	userHandler := handlers.NewUserHandler(st)
	gameHandler := handlers.NewGameHandler(gameEngine)
	walletHandler := handlers.NewWalletHandler(walletService)
	giftCardHandler := handlers.NewGiftCardHandler(giftCardService)
	adminHandler := handlers.NewAdminHandler(walletService, giftCardService, creditService, st)

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()

	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Server-to-server postback from the ad network, HMAC-signed.
	router.POST("/postback", webhookHandler.HandlePostback)

	protected := router.Group("/api")
	protected.Use(middleware.AuthMiddleware(jwtService))
	protected.Use(middleware.RateLimitMiddleware(redisService))
	{
		protected.GET("/balance", userHandler.GetBalance)
		protected.GET("/entries", userHandler.GetEntries)
		protected.GET("/history", gameHandler.History)

		protected.GET("/ws", wsHandler.HandleWebSocket)

		games := protected.Group("/games")
		{
			games.POST("/:variant/play", gameHandler.Play)
			games.GET("/history", gameHandler.History)
			games.GET("/daily-limit", gameHandler.DailyLimit)
		}

		wallet := protected.Group("/wallet")
		{
			wallet.POST("/deposit", walletHandler.Deposit)
			wallet.POST("/withdraw", walletHandler.Withdraw)
			wallet.GET("/transactions", walletHandler.History)
		}

		giftcards := protected.Group("/giftcards")
		{
			giftcards.POST("/claim", giftCardHandler.Claim)
			giftcards.GET("/available", giftCardHandler.Available)
		}

		admin := protected.Group("/admin")
		admin.Use(middleware.AdminMiddleware())
		{
			admin.GET("/transactions/pending", adminHandler.PendingTransactions)
			admin.POST("/transactions/:id/resolve", adminHandler.ResolveTransaction)
			admin.POST("/giftcards", adminHandler.AddGiftCards)
			admin.PUT("/accounts/:id/status", adminHandler.SetAccountStatus)
			admin.POST("/accounts/:id/adjust", adminHandler.Adjust)
		}
	}

	log.Printf("Server starting on port %s", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

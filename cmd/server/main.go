package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"ecopool/internal/config"
	"ecopool/internal/handlers"
	"ecopool/internal/middleware"
	"ecopool/internal/repositories/mongodb"
	"ecopool/internal/services"
	"ecopool/pkg/cache"
	"ecopool/pkg/database"
	"ecopool/pkg/logger"
	"ecopool/pkg/maps"
	"ecopool/pkg/payment"
	"ecopool/pkg/websocket"

	"ecopool/routes"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.NewLogger(&logger.Config{
		Level:  logger.LogLevel(cfg.App.LogLevel),
		Format: cfg.App.LogFormat,
		Output: "stdout",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to init logger: %v\n", err)
		os.Exit(1)
	}

	db, err := database.NewMongoDB(cfg.Database)
	if err != nil {
		log.WithError(err).Fatal("failed to connect to mongodb")
	}
	defer db.Close()

	if err := db.EnsureIndexes(context.Background()); err != nil {
		log.WithError(err).Fatal("failed to ensure indexes")
	}

	redisCache, err := cache.NewRedisCache(cfg.Redis)
	if err != nil {
		log.WithError(err).Warn("redis unavailable, repository caching disabled")
		redisCache = nil
	} else {
		defer redisCache.Close()
	}

	// Realtime hub
	hub := websocket.NewHub()
	go hub.Run()

	// Routing provider chain: Google when configured, OSRM public servers,
	// straight-line estimate as the never-failing tail.
	var providers []maps.RouteProvider
	if cfg.Maps.GoogleAPIKey != "" {
		if google, err := maps.NewGoogleProvider(cfg.Maps.GoogleAPIKey); err == nil {
			providers = append(providers, google)
		} else {
			log.WithError(err).Warn("google maps client init failed")
		}
	}
	providers = append(providers,
		maps.NewOSRMProvider(cfg.Maps.OSRMServers, cfg.Maps.ProviderTimeout),
		maps.NewStraightLineProvider(0, 0),
	)
	routeChain := maps.NewChain(log, cfg.Maps.ProviderTimeout, providers...)

	// Payment gateway
	var gateway payment.Gateway
	switch cfg.Payment.Provider {
	case "stripe":
		gateway = payment.NewStripeGateway(cfg.Payment.StripeSecretKey)
	default:
		gateway = payment.NewRazorpayGateway(cfg.Payment.RazorpayKeyID, cfg.Payment.RazorpayKeySecret)
	}

	// Repositories
	var repoCache mongodb.Cache
	if redisCache != nil {
		repoCache = redisCache
	}
	tripRepo := mongodb.NewTripRepository(db.Database, repoCache)
	bookingRepo := mongodb.NewBookingRepository(db.Database)
	userRepo := mongodb.NewUserRepository(db.Database, repoCache)
	notificationRepo := mongodb.NewNotificationRepository(db.Database, repoCache)
	paymentRepo := mongodb.NewPaymentRepository(db.Database)

	// Services
	notificationService := services.NewNotificationService(notificationRepo, hub, log)
	matchingService := services.NewMatchingService()
	rewardService := services.NewRewardService(userRepo, log)
	tripService := services.NewTripService(tripRepo, bookingRepo, userRepo, matchingService, rewardService, notificationService, routeChain, hub, log)
	bookingService := services.NewBookingService(bookingRepo, tripRepo, notificationService, log)
	paymentService := services.NewPaymentService(paymentRepo, bookingRepo, tripRepo, gateway, cfg.App.Currency, log)
	userService := services.NewUserService(userRepo, notificationService, log)
	statsService := services.NewStatsService(userRepo, tripRepo, bookingRepo, log)
	chatService := services.NewChatService(tripRepo, bookingRepo, notificationService, log)
	hub.ChatHandler = chatService.HandleMessage

	// Handlers
	tripHandler := handlers.NewTripHandler(tripService)
	bookingHandler := handlers.NewBookingHandler(bookingService)
	notificationHandler := handlers.NewNotificationHandler(notificationService)
	paymentHandler := handlers.NewPaymentHandler(paymentService)
	userHandler := handlers.NewUserHandler(userService)
	statsHandler := handlers.NewStatsHandler(statsService)
	wsHandler := handlers.NewWebSocketHandler(hub, log)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.RequestLogger(log))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"version": cfg.App.Version,
		})
	})

	api := router.Group("/api/v1")
	secret := cfg.Security.JWTSecret
	routes.SetupTripRoutes(api, tripHandler, bookingHandler, secret)
	routes.SetupBookingRoutes(api, bookingHandler, secret)
	routes.SetupNotificationRoutes(api, notificationHandler, secret)
	routes.SetupPaymentRoutes(api, paymentHandler, secret)
	routes.SetupUserRoutes(api, userHandler, statsHandler, secret)
	routes.SetupWebSocketRoutes(api, wsHandler, secret)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.App.Host, cfg.App.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.WithField("addr", server.Addr).Info("server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.WithError(err).Error("graceful shutdown failed")
	}
}

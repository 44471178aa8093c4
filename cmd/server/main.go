package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	dealapp "github.com/brokerage/backend/internal/application/deal"
	listingapp "github.com/brokerage/backend/internal/application/listing"
	partnerapp "github.com/brokerage/backend/internal/application/partner"
	performanceapp "github.com/brokerage/backend/internal/application/performance"
	"github.com/brokerage/backend/internal/application/resolver"
	"github.com/brokerage/backend/internal/domain/listing"
	"github.com/brokerage/backend/internal/infrastructure/auth"
	"github.com/brokerage/backend/internal/infrastructure/cache"
	"github.com/brokerage/backend/internal/infrastructure/config"
	"github.com/brokerage/backend/internal/infrastructure/lock"
	applogger "github.com/brokerage/backend/internal/infrastructure/logger"
	"github.com/brokerage/backend/internal/infrastructure/persistence"
	"github.com/brokerage/backend/internal/interfaces/http/handler"
	"github.com/brokerage/backend/internal/interfaces/http/middleware"
	"github.com/brokerage/backend/internal/interfaces/http/router"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := applogger.New(cfg.Log)
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting application",
		zap.String("name", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Initialize database connection backing the store gateway
	db, err := persistence.NewDatabase(&cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database connection", zap.Error(err))
		}
	}()
	log.Info("Database connection established", zap.String("driver", cfg.Database.Driver))

	gateway := persistence.NewGormGateway(db.DB)

	// Initialize repositories
	propertyRepo := persistence.NewPropertyRepository(gateway)
	addressRepo := persistence.NewAddressRepository(gateway)
	detailRepo := persistence.NewDetailRepository(gateway)
	imageRepo := persistence.NewImageRepository(gateway)
	documentRepo := persistence.NewDocumentRepository(gateway)
	clientRepo := persistence.NewClientRepository(gateway)
	ownerRepo := persistence.NewOwnerRepository(gateway)
	advisorRepo := persistence.NewAdvisorRepository(gateway)
	contractRepo := persistence.NewContractRepository(gateway)
	paymentRepo := persistence.NewPaymentRepository(gateway)
	appointmentRepo := persistence.NewAppointmentRepository(gateway)
	performanceRepo := persistence.NewPerformanceRepository(gateway)

	// Listing cache: Redis when enabled, in-process otherwise
	var listingCache listing.ListingCache
	if cfg.Redis.Enabled {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr(),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			log.Fatal("Failed to connect to redis", zap.Error(err))
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				log.Error("Error closing redis connection", zap.Error(err))
			}
		}()
		listingCache = cache.NewRedisListingCache(redisClient, cfg.Cache.ListingTTL)
		log.Info("Listing cache backed by redis", zap.String("addr", cfg.Redis.Addr()))
	} else {
		listingCache = cache.NewInMemoryListingCache(cfg.Cache.ListingTTL)
	}

	locks := lock.NewKeyMutex()
	res := resolver.New(propertyRepo, addressRepo, clientRepo, ownerRepo, advisorRepo, contractRepo)
	jwtService := auth.NewJWTService(cfg.JWT)

	// Initialize application services
	propertyService := listingapp.NewPropertyService(
		propertyRepo, addressRepo, detailRepo, imageRepo, documentRepo,
		contractRepo, appointmentRepo, res, listingCache, locks, log,
	)
	imageService := listingapp.NewImageService(imageRepo, res, locks, log)
	documentService := listingapp.NewDocumentService(documentRepo, res)
	clientService := partnerapp.NewClientService(clientRepo, appointmentRepo, contractRepo, res, log)
	ownerService := partnerapp.NewOwnerService(ownerRepo, propertyRepo, res, log)
	advisorService := partnerapp.NewAdvisorService(advisorRepo, jwtService, res, log)
	contractService := dealapp.NewContractService(
		contractRepo, paymentRepo, propertyRepo, res, listingCache, locks, log,
	)
	paymentService := dealapp.NewPaymentService(paymentRepo, res, locks, log)
	appointmentService := dealapp.NewAppointmentService(appointmentRepo, res, log)
	performanceService := performanceapp.NewService(performanceRepo, res, log)

	// Initialize HTTP handlers
	propertyHandler := handler.NewPropertyHandler(propertyService)
	imageHandler := handler.NewImageHandler(imageService)
	documentHandler := handler.NewDocumentHandler(documentService)
	clientHandler := handler.NewClientHandler(clientService)
	ownerHandler := handler.NewOwnerHandler(ownerService)
	authHandler := handler.NewAuthHandler(advisorService)
	contractHandler := handler.NewContractHandler(contractService)
	paymentHandler := handler.NewPaymentHandler(paymentService)
	appointmentHandler := handler.NewAppointmentHandler(appointmentService)
	performanceHandler := handler.NewPerformanceHandler(performanceService)

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	middleware.SetupValidator()

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	engine.Use(middleware.RequestID())
	engine.Use(applogger.Recovery(log))
	engine.Use(applogger.GinMiddleware(log))
	engine.Use(middleware.CORS(cfg.HTTP.CORSAllowOrigins))

	engine.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"name": cfg.App.Name,
			"env":  cfg.App.Env,
		})
	})

	router.New(engine, jwtService, res, authHandler).
		Register(authHandler).
		Register(propertyHandler).
		Register(imageHandler).
		Register(documentHandler).
		Register(clientHandler).
		Register(ownerHandler).
		Register(contractHandler).
		Register(paymentHandler).
		Register(appointmentHandler).
		Register(performanceHandler).
		Setup()

	server := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("HTTP server listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Error("Forced shutdown", zap.Error(err))
	}
	log.Info("Server stopped")
}

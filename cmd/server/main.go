package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	catalogapp "github.com/pricecraft/backend/internal/application/catalog"
	identityapp "github.com/pricecraft/backend/internal/application/identity"
	pricingapp "github.com/pricecraft/backend/internal/application/pricing"
	"github.com/pricecraft/backend/internal/infrastructure/auth"
	"github.com/pricecraft/backend/internal/infrastructure/config"
	"github.com/pricecraft/backend/internal/infrastructure/logger"
	"github.com/pricecraft/backend/internal/infrastructure/persistence"
	"github.com/pricecraft/backend/internal/infrastructure/storage"
	"github.com/pricecraft/backend/internal/infrastructure/telemetry"
	"github.com/pricecraft/backend/internal/interfaces/http/handler"
	"github.com/pricecraft/backend/internal/interfaces/http/middleware"
	"github.com/pricecraft/backend/internal/interfaces/http/router"

	_ "github.com/pricecraft/backend/docs"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

//	@title			PriceCraft Backend API
//	@version		1.0
//	@description	Pricing calculator and product catalog API for small businesses

//	@contact.name	API Support
//	@contact.url	https://github.com/pricecraft/backend

//	@license.name	MIT

//	@host		localhost:8080
//	@BasePath	/api/v1

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token authentication. Format: "Bearer {token}"

const version = "1.0.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting PriceCraft backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	ctx := context.Background()

	// Telemetry providers. All of them degrade to no-ops when disabled.
	tracerProvider, err := telemetry.NewTracerProvider(ctx, cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to initialize tracer provider", zap.Error(err))
	}
	defer func() {
		if err := tracerProvider.Shutdown(context.Background()); err != nil {
			log.Error("Error shutting down tracer provider", zap.Error(err))
		}
	}()

	meterProvider, err := telemetry.NewMeterProvider(ctx, cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to initialize meter provider", zap.Error(err))
	}
	defer func() {
		if err := meterProvider.Shutdown(context.Background()); err != nil {
			log.Error("Error shutting down meter provider", zap.Error(err))
		}
	}()

	loggerProvider, err := telemetry.NewLoggerProvider(ctx, cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to initialize logger provider", zap.Error(err))
	}
	defer func() {
		if err := loggerProvider.Shutdown(context.Background()); err != nil {
			log.Error("Error shutting down logger provider", zap.Error(err))
		}
	}()

	if loggerProvider.IsEnabled() {
		otelCore := telemetry.NewZapOTELCore(cfg.Telemetry.ServiceName, loggerProvider, zap.InfoLevel)
		log = telemetry.BridgeLogger(log, otelCore)
		log.Info("Log export to OTLP collector enabled")
	}

	profiler, err := telemetry.NewProfiler(cfg.Profiling, cfg.App.Name, log)
	if err != nil {
		log.Fatal("Failed to start profiler", zap.Error(err))
	}
	defer func() {
		if err := profiler.Stop(); err != nil {
			log.Error("Error stopping profiler", zap.Error(err))
		}
	}()

	if tracerProvider.IsEnabled() && profiler.IsEnabled() {
		if err := tracerProvider.EnableSpanProfiles(); err != nil {
			log.Warn("Failed to link spans to profiles", zap.Error(err))
		}
	}

	// Database
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected", zap.String("driver", cfg.Database.Driver))

	dbTracing := telemetry.NewDBTracingPlugin(cfg.Telemetry, log)
	if err := dbTracing.Register(db.DB); err != nil {
		log.Fatal("Failed to register database tracing", zap.Error(err))
	}

	// Repositories
	productRepo := persistence.NewGormProductRepository(db.DB)
	userRepo := persistence.NewGormUserRepository(db.DB)

	// Token blacklist. Redis when configured, in-memory otherwise.
	var blacklist auth.TokenBlacklist
	if cfg.Redis.Enabled {
		redisBlacklist, err := auth.NewRedisTokenBlacklist(auth.RedisTokenBlacklistConfig{
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			log.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		blacklist = redisBlacklist
		log.Info("Redis token blacklist enabled",
			zap.String("host", cfg.Redis.Host),
			zap.Int("port", cfg.Redis.Port),
		)
	} else {
		blacklist = auth.NewInMemoryTokenBlacklist()
		log.Info("In-memory token blacklist enabled")
	}

	// Object storage for product images
	var objectStorage catalogapp.ObjectStorageService
	if cfg.Storage.Provider == "s3" {
		s3Storage, err := storage.NewS3ObjectStorage(&cfg.Storage, storage.WithLogger(log))
		if err != nil {
			log.Fatal("Failed to initialize object storage", zap.Error(err))
		}
		if err := s3Storage.EnsureBucket(ctx); err != nil {
			log.Fatal("Failed to ensure storage bucket", zap.Error(err))
		}
		objectStorage = s3Storage
		log.Info("S3 object storage enabled", zap.String("bucket", cfg.Storage.Bucket))
	} else {
		objectStorage = storage.NewStubObjectStorage()
		log.Info("Stub object storage enabled, uploads are simulated")
	}

	// Application services
	jwtService := auth.NewJWTService(cfg.JWT)
	authService := identityapp.NewAuthService(userRepo, jwtService, blacklist, identityapp.AuthServiceConfig{
		MaxLoginAttempts: cfg.Auth.MaxLoginAttempts,
		LockDuration:     cfg.Auth.LockDuration,
	}, log)
	productService := catalogapp.NewProductService(productRepo)
	imageService := catalogapp.NewProductImageService(productRepo, objectStorage, catalogapp.ImageServiceConfig{
		UploadURLExpiry:   cfg.Storage.UploadExpiry,
		DownloadURLExpiry: cfg.Storage.DownloadExpiry,
	}, log)
	quoteService := pricingapp.NewQuoteService()

	// Business metrics
	var businessMetrics *telemetry.BusinessMetrics
	if meterProvider.IsEnabled() {
		meter := meterProvider.Meter("pricecraft-backend")
		businessMetrics, err = telemetry.NewBusinessMetrics(meter, log)
		if err != nil {
			log.Fatal("Failed to create business metrics", zap.Error(err))
		}
		businessMetrics.StartPeriodicCollection(ctx, catalogMetricsSource{repo: productRepo}, time.Minute)
		defer businessMetrics.StopPeriodicCollection()
	}

	// HTTP handlers
	authHandler := handler.NewAuthHandler(authService, log)
	productHandler := handler.NewProductHandler(productService, imageService, log)
	pricingHandler := handler.NewPricingHandler(quoteService, businessMetrics, log)
	systemHandler := handler.NewSystemHandler(db.DB, version, log)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()

	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())

	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	corsConfig.AllowMethods = cfg.HTTP.CORSAllowMethods
	corsConfig.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	engine.Use(middleware.CORSWithConfig(corsConfig))

	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	if tracerProvider.IsEnabled() {
		engine.Use(middleware.Tracing(cfg.Telemetry.ServiceName))
		engine.Use(middleware.TraceEnrichment())
	}

	// Probes outside the versioned API
	r := router.New(engine)
	systemHandler.RegisterRoutes(r.Root())

	// API docs
	engine.GET("/swagger/*any",
		middleware.SwaggerProtection(cfg.Swagger, log),
		ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Versioned API behind the JWT guard; registration, login, refresh
	// and anonymous quotes stay public.
	guard := middleware.IsAuthenticated(middleware.AuthMiddlewareConfig{
		JWTService:     jwtService,
		TokenBlacklist: blacklist,
		SkipPaths: []string{
			"/api/v1/auth/register",
			"/api/v1/auth/login",
			"/api/v1/auth/refresh",
			"/api/v1/pricing/quote",
		},
		Logger: log,
	})
	r.RegisterWith([]gin.HandlerFunc{guard}, authHandler, pricingHandler, productHandler)

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// catalogMetricsSource adapts the product repository to the telemetry
// collector interface.
type catalogMetricsSource struct {
	repo *persistence.GormProductRepository
}

func (s catalogMetricsSource) GetProductCount(ctx context.Context) (int64, error) {
	return s.repo.CountAll(ctx)
}

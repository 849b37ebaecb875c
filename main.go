package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/BenjiKandl/apertif/internal/di"
	"github.com/BenjiKandl/apertif/internal/metrics"
	"github.com/BenjiKandl/apertif/internal/repository"
	"github.com/BenjiKandl/apertif/internal/service"
	"github.com/BenjiKandl/apertif/pkg/config"
	"github.com/BenjiKandl/apertif/pkg/database"
	"github.com/BenjiKandl/apertif/pkg/logger"
	"github.com/BenjiKandl/apertif/pkg/middleware"
	"github.com/BenjiKandl/apertif/pkg/redis"
	"github.com/BenjiKandl/apertif/pkg/sqlite"
	"github.com/BenjiKandl/apertif/pkg/telemetry"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logCfg := &logger.Config{
		Level:       cfg.Log.Level,
		ServiceName: cfg.App.Name,
		Development: cfg.IsDevelopment(),
	}
	if err := logger.Init(logCfg); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	appLog := logger.Get()
	appLog.Info("Starting apertif...", zap.String("store", cfg.Store.Backend))

	ctx := context.Background()

	// Initialize OpenTelemetry
	telemetryCfg := &telemetry.Config{
		Enabled:        cfg.OTel.Enabled,
		ServiceName:    cfg.OTel.ServiceName,
		ServiceVersion: cfg.App.Version,
		Environment:    cfg.App.Environment,
		CollectorAddr:  cfg.OTel.CollectorAddr,
		SampleRatio:    cfg.OTel.SampleRatio,
	}
	if _, err := telemetry.Init(ctx, telemetryCfg); err != nil {
		appLog.Warn(fmt.Sprintf("Failed to initialize telemetry: %v", err))
	} else if telemetryCfg.Enabled {
		appLog.Info(fmt.Sprintf("Telemetry initialized (collector: %s)", telemetryCfg.CollectorAddr))
	}
	defer telemetry.Shutdown(ctx)

	if err := metrics.Init(); err != nil {
		appLog.Warn(fmt.Sprintf("Failed to initialize metrics: %v", err))
	}

	containerCfg := &di.ContainerConfig{
		Config: cfg,
		Logger: appLog,
	}

	// Open the document backend
	switch cfg.Store.Backend {
	case config.StoreSQLite:
		db, err := sqlite.Open(ctx, cfg.SQLite.Path)
		if err != nil {
			appLog.Fatal(fmt.Sprintf("SQLite open failed: %v", err))
		}
		defer db.Close()
		if err := db.Migrate(ctx, repository.SQLiteSchema); err != nil {
			appLog.Fatal(fmt.Sprintf("SQLite migration failed: %v", err))
		}
		containerCfg.SQLite = db
		appLog.Info(fmt.Sprintf("SQLite opened (%s)", cfg.SQLite.Path))

	case config.StorePostgres:
		dbCfg := database.PostgresConfigFrom(&cfg.Database, cfg.OTel.Enabled)
		db, err := database.NewPostgres(ctx, dbCfg)
		if err != nil {
			appLog.Fatal(fmt.Sprintf("Database connection failed: %v", err))
		}
		defer db.Close()
		if err := repository.NewPostgresEventStore(db.Pool()).Migrate(ctx); err != nil {
			appLog.Fatal(fmt.Sprintf("Database migration failed: %v", err))
		}
		containerCfg.DB = db
		appLog.Info(fmt.Sprintf("Database connected (pool: min=%d, max=%d)", dbCfg.MinConns, dbCfg.MaxConns))
	}

	// Redis holds RSVP markers and idempotency records when enabled, and is
	// required when it is the document backend
	if cfg.Redis.Enabled || cfg.Store.Backend == config.StoreRedis {
		redisCfg := redis.ConfigFrom(&cfg.Redis, cfg.OTel.Enabled)
		redisClient, err := redis.NewClient(ctx, redisCfg)
		switch {
		case err != nil && cfg.Store.Backend == config.StoreRedis:
			appLog.Fatal(fmt.Sprintf("Redis connection failed: %v", err))
		case err != nil:
			appLog.Warn(fmt.Sprintf("Redis connection failed (markers kept in memory): %v", err))
		default:
			defer redisClient.Close()
			containerCfg.Redis = redisClient
			appLog.Info(fmt.Sprintf("Redis connected (%s)", redisCfg.Addr()))
		}
	}

	// Kafka notifications are optional
	if cfg.Kafka.Enabled {
		notifier, err := service.NewKafkaNotifier(ctx, &service.NotifierConfig{
			Brokers:     cfg.Kafka.Brokers,
			Topic:       cfg.Kafka.Topic,
			ServiceName: cfg.App.Name,
			ClientID:    cfg.Kafka.ClientID,
		})
		if err != nil {
			appLog.Warn(fmt.Sprintf("Kafka notifier disabled: %v", err))
		} else {
			containerCfg.Notifier = notifier
			appLog.Info(fmt.Sprintf("Kafka notifier connected (topic: %s)", cfg.Kafka.Topic))
		}
	}

	// Build dependency injection container
	container, err := di.NewContainer(containerCfg)
	if err != nil {
		appLog.Fatal(fmt.Sprintf("Failed to build container: %v", err))
	}
	defer container.Close()

	// Setup Gin
	if cfg.IsDevelopment() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(appLog))
	router.Use(middleware.CORS())

	// Add OpenTelemetry tracing middleware if enabled
	if cfg.OTel.Enabled {
		router.Use(telemetry.TracingMiddleware(telemetry.TracingConfig{
			ServiceName: cfg.OTel.ServiceName,
			SkipPaths:   []string{"/health", "/ready"},
		}))
		router.Use(telemetry.TraceHeaderMiddleware())
	}

	// Health check endpoints
	router.GET("/health", container.HealthHandler.Health)
	router.GET("/ready", container.HealthHandler.Ready)

	// API routes
	v1 := router.Group("/api/v1")
	v1.Use(middleware.DeviceID())
	if container.Redis != nil {
		v1.Use(middleware.Idempotency(middleware.DefaultIdempotencyConfig(container.Redis)))
	}
	{
		v1.GET("/view", container.ViewHandler.Render)
		v1.GET("/options", container.ViewHandler.Options)

		events := v1.Group("/events")
		{
			events.POST("", container.EventHandler.Create)
			events.GET("/:id", container.EventHandler.Get)
			events.GET("/:id/guests", container.EventHandler.Guests)
			events.GET("/:id/calendar.ics", container.EventHandler.Calendar)
			events.POST("/:id/rsvps", container.RSVPHandler.Submit)
		}
	}

	// Create HTTP server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
		ReadHeaderTimeout: 2 * time.Second,
	}

	// Start server in goroutine
	go func() {
		appLog.Info(fmt.Sprintf("apertif listening on %s", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLog.Fatal(fmt.Sprintf("Failed to start server: %v", err))
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLog.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLog.Error("Server forced to shutdown", zap.Error(err))
	}

	appLog.Info("Server exited gracefully")
}

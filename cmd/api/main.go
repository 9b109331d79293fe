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
	"github.com/iuriAvil4/SistemaGestaoDeEventos/internal/di"
	"github.com/iuriAvil4/SistemaGestaoDeEventos/internal/metrics"
	"github.com/iuriAvil4/SistemaGestaoDeEventos/internal/service"
	"github.com/iuriAvil4/SistemaGestaoDeEventos/internal/worker"
	"github.com/iuriAvil4/SistemaGestaoDeEventos/pkg/config"
	"github.com/iuriAvil4/SistemaGestaoDeEventos/pkg/database"
	"github.com/iuriAvil4/SistemaGestaoDeEventos/pkg/logger"
	"github.com/iuriAvil4/SistemaGestaoDeEventos/pkg/mail"
	"github.com/iuriAvil4/SistemaGestaoDeEventos/pkg/middleware"
	pkgredis "github.com/iuriAvil4/SistemaGestaoDeEventos/pkg/redis"
	"github.com/iuriAvil4/SistemaGestaoDeEventos/pkg/telemetry"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logCfg := &logger.Config{
		Level:       cfg.App.Environment,
		ServiceName: "ticket-service",
		Development: cfg.IsDevelopment(),
	}
	if err := logger.Init(logCfg); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	appLog := logger.Get()
	appLog.Info("Starting Ticket Service...")

	ctx := context.Background()

	// Initialize tracing
	if _, err := telemetry.Init(ctx, &telemetry.Config{
		Enabled:        cfg.OTel.Enabled,
		ServiceName:    cfg.OTel.ServiceName,
		ServiceVersion: cfg.App.Version,
		Environment:    cfg.App.Environment,
		CollectorAddr:  cfg.OTel.CollectorAddr,
		SampleRatio:    cfg.OTel.SampleRatio,
	}); err != nil {
		appLog.Warn(fmt.Sprintf("Telemetry init failed, continuing without tracing: %v", err))
	}
	defer telemetry.Shutdown(ctx)

	// Initialize metrics instruments
	metrics.Init()

	// Initialize database connection
	dbCfg := &database.PostgresConfig{
		Host:            cfg.Database.Host,
		Port:            cfg.Database.Port,
		User:            cfg.Database.User,
		Password:        cfg.Database.Password,
		Database:        cfg.Database.DBName,
		SSLMode:         cfg.Database.SSLMode,
		MaxConns:        int32(cfg.Database.MaxOpenConns),
		MinConns:        int32(cfg.Database.MaxIdleConns),
		MaxConnLifetime: cfg.Database.ConnMaxLifetime,
		MaxConnIdleTime: cfg.Database.ConnMaxIdleTime,
		ConnectTimeout:  5 * time.Second,
		MaxRetries:      3,
		RetryInterval:   1 * time.Second,
	}
	db, err := database.NewPostgres(ctx, dbCfg)
	if err != nil {
		appLog.Fatal(fmt.Sprintf("Database connection failed: %v", err))
	}
	defer db.Close()
	appLog.Info(fmt.Sprintf("Database connected (pool: min=%d, max=%d)", dbCfg.MinConns, dbCfg.MaxConns))

	// Initialize Redis connection
	redisCfg := &pkgredis.Config{
		Host:          cfg.Redis.Host,
		Port:          cfg.Redis.Port,
		Password:      cfg.Redis.Password,
		DB:            cfg.Redis.DB,
		PoolSize:      cfg.Redis.PoolSize,
		MinIdleConns:  cfg.Redis.MinIdleConns,
		MaxRetries:    3,
		RetryInterval: 100 * time.Millisecond,
		DialTimeout:   cfg.Redis.DialTimeout,
		ReadTimeout:   cfg.Redis.ReadTimeout,
		WriteTimeout:  cfg.Redis.WriteTimeout,
	}
	redisClient, err := pkgredis.NewClient(ctx, redisCfg)
	if err != nil {
		appLog.Fatal(fmt.Sprintf("Redis connection failed: %v", err))
	}
	defer redisClient.Close()
	appLog.Info("Redis connected")

	// Initialize Kafka event publisher
	var eventPublisher service.EventPublisher
	if cfg.Kafka.Enabled {
		eventPublisher, err = service.NewKafkaEventPublisher(ctx, &service.EventPublisherConfig{
			Brokers:     cfg.Kafka.Brokers,
			Topic:       "ticket-events",
			ServiceName: "ticket-service",
			ClientID:    cfg.Kafka.ClientID,
		})
		if err != nil {
			appLog.Warn(fmt.Sprintf("Kafka connection failed, using no-op publisher: %v", err))
			eventPublisher = service.NewNoOpEventPublisher()
		} else {
			appLog.Info("Kafka event publisher connected")
		}
	} else {
		eventPublisher = service.NewNoOpEventPublisher()
	}
	defer eventPublisher.Close()

	// Initialize mail notifier
	var notifier service.Notifier = service.NewNoOpNotifier()
	if cfg.Mail.Enabled {
		sender, err := mail.NewSender(&mail.Config{
			Host:     cfg.Mail.Host,
			Port:     cfg.Mail.Port,
			Username: cfg.Mail.Username,
			Password: cfg.Mail.Password,
			From:     cfg.Mail.From,
		})
		if err != nil {
			appLog.Warn(fmt.Sprintf("Mail sender init failed, tickets will not be emailed: %v", err))
		} else {
			notifier = service.NewMailNotifier(sender)
			appLog.Info("Mail notifier enabled")
		}
	}

	// Build dependency injection container
	container := di.NewContainer(&di.ContainerConfig{
		DB:             db,
		Redis:          redisClient,
		EventPublisher: eventPublisher,
		Notifier:       notifier,
		ServiceConfig: &service.TicketServiceConfig{
			HoldTimeout: cfg.Reservation.HoldTimeout,
		},
	})

	// Start the in-process reclamation sweeper. Deployments that run the
	// standalone worker binary can disable it with a zero sweep interval.
	var reclaimWorker *worker.ReclaimWorker
	if cfg.Reservation.SweepInterval > 0 {
		reclaimWorker = worker.NewReclaimWorker(
			container.TicketRepo,
			eventPublisher,
			nil,
			&worker.ReclaimWorkerConfig{
				HoldTimeout:   cfg.Reservation.HoldTimeout,
				SweepInterval: cfg.Reservation.SweepInterval,
				BatchSize:     cfg.Reservation.SweepBatchSize,
				MaxRetries:    cfg.Reservation.SweepMaxRetries,
			},
		)
		if err := reclaimWorker.Start(ctx); err != nil {
			appLog.Fatal(fmt.Sprintf("Failed to start reclaim worker: %v", err))
		}
	}

	// Setup Gin
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(telemetry.TracingMiddleware("ticket-service"))

	// Health check endpoints
	router.GET("/health/live", container.HealthHandler.Liveness)
	router.GET("/health/ready", container.HealthHandler.Readiness)

	authMiddleware := middleware.Auth(&middleware.AuthConfig{Secret: cfg.JWT.Secret})
	idempotencyConfig := middleware.DefaultIdempotencyConfig(redisClient.Client())
	idempotencyConfig.SkipPaths = []string{"/health/live", "/health/ready"}

	v1 := router.Group("/api/v1")
	{
		// Public catalog reads
		v1.GET("/events", container.EventHandler.List)
		v1.GET("/events/:id", container.EventHandler.Get)
		v1.GET("/events/:id/ticket-types", container.TicketTypeHandler.ListByEvent)
		v1.GET("/ticket-types/:id", container.TicketTypeHandler.Get)
		v1.GET("/ticket-types/:id/availability", container.TicketHandler.Availability)

		// Organizer operations
		events := v1.Group("/events")
		events.Use(authMiddleware)
		{
			events.POST("", container.EventHandler.Create)
			events.PATCH("/:id/status", container.EventHandler.UpdateStatus)
			events.POST("/:id/ticket-types", container.TicketTypeHandler.Create)
		}

		types := v1.Group("/ticket-types")
		types.Use(authMiddleware)
		{
			types.PATCH("/:id", container.TicketTypeHandler.Update)
			types.PATCH("/:id/status", container.TicketTypeHandler.UpdateStatus)
		}

		// Buyer operations
		tickets := v1.Group("/tickets")
		tickets.Use(authMiddleware)
		{
			tickets.POST("/reserve", middleware.IdempotencyMiddleware(idempotencyConfig), container.TicketHandler.Reserve)
			tickets.POST("/:id/pay", middleware.IdempotencyMiddleware(idempotencyConfig), container.TicketHandler.Pay)
			tickets.POST("/:id/cancel", middleware.IdempotencyMiddleware(idempotencyConfig), container.TicketHandler.Cancel)
			tickets.GET("", container.TicketHandler.List)
			tickets.GET("/:id", container.TicketHandler.Get)
		}

		// Gate validation, authenticated staff scanning codes
		v1.POST("/tickets/validate", authMiddleware, middleware.RequireRole("staff"), container.TicketHandler.Validate)
	}

	// Create HTTP server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start server in goroutine
	go func() {
		appLog.Info(fmt.Sprintf("Ticket Service listening on %s", addr))
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
		appLog.Error(fmt.Sprintf("Server forced to shutdown: %v", err))
	}

	if reclaimWorker != nil {
		reclaimWorker.Stop()
	}

	appLog.Info("Server exited gracefully")
}

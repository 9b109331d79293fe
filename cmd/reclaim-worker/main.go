package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/iuriAvil4/SistemaGestaoDeEventos/internal/metrics"
	"github.com/iuriAvil4/SistemaGestaoDeEventos/internal/repository"
	"github.com/iuriAvil4/SistemaGestaoDeEventos/internal/service"
	"github.com/iuriAvil4/SistemaGestaoDeEventos/internal/worker"
	"github.com/iuriAvil4/SistemaGestaoDeEventos/pkg/config"
	"github.com/iuriAvil4/SistemaGestaoDeEventos/pkg/database"
	"github.com/iuriAvil4/SistemaGestaoDeEventos/pkg/kafka"
	"github.com/iuriAvil4/SistemaGestaoDeEventos/pkg/logger"
	"github.com/iuriAvil4/SistemaGestaoDeEventos/pkg/retry"
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
		ServiceName: "reclaim-worker",
		Development: cfg.IsDevelopment(),
	}
	if err := logger.Init(logCfg); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	appLog := logger.Get()
	appLog.Info("Starting Reclaim Worker...")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize tracing
	if _, err := telemetry.Init(ctx, &telemetry.Config{
		Enabled:        cfg.OTel.Enabled,
		ServiceName:    "reclaim-worker",
		ServiceVersion: cfg.App.Version,
		Environment:    cfg.App.Environment,
		CollectorAddr:  cfg.OTel.CollectorAddr,
		SampleRatio:    cfg.OTel.SampleRatio,
	}); err != nil {
		appLog.Warn(fmt.Sprintf("Telemetry init failed, continuing without tracing: %v", err))
	}
	defer telemetry.Shutdown(ctx)

	metrics.Init()

	// Initialize database connection. The sweeper runs small batches, a
	// small pool is enough.
	dbCfg := &database.PostgresConfig{
		Host:          cfg.Database.Host,
		Port:          cfg.Database.Port,
		User:          cfg.Database.User,
		Password:      cfg.Database.Password,
		Database:      cfg.Database.DBName,
		SSLMode:       cfg.Database.SSLMode,
		MaxConns:      10,
		MinConns:      2,
		MaxRetries:    3,
		RetryInterval: 2 * time.Second,
	}
	db, err := database.NewPostgres(ctx, dbCfg)
	if err != nil {
		appLog.Fatal(fmt.Sprintf("Failed to connect to database: %v", err))
	}
	defer db.Close()
	appLog.Info("Database connected")

	// Initialize Kafka publisher and DLQ
	var eventPublisher service.EventPublisher
	var dlqPublisher retry.DLQPublisher
	if cfg.Kafka.Enabled {
		eventPublisher, err = service.NewKafkaEventPublisher(ctx, &service.EventPublisherConfig{
			Brokers:     cfg.Kafka.Brokers,
			Topic:       "ticket-events",
			ServiceName: "reclaim-worker",
			ClientID:    "reclaim-worker",
		})
		if err != nil {
			appLog.Warn(fmt.Sprintf("Kafka connection failed, using no-op publisher: %v", err))
			eventPublisher = service.NewNoOpEventPublisher()
		}

		producer, err := kafka.NewProducer(ctx, &kafka.ProducerConfig{
			Brokers:  cfg.Kafka.Brokers,
			ClientID: "reclaim-worker-dlq",
		})
		if err != nil {
			appLog.Warn(fmt.Sprintf("DLQ producer connection failed, failed reclaims will only be logged: %v", err))
			dlqPublisher = retry.NewNoOpDLQPublisher()
		} else {
			defer producer.Close()
			dlqPublisher = retry.NewKafkaDLQPublisher(producer, retry.DefaultDLQConfig())
		}
	} else {
		eventPublisher = service.NewNoOpEventPublisher()
		dlqPublisher = retry.NewNoOpDLQPublisher()
	}
	defer eventPublisher.Close()

	// Initialize repository and worker
	ticketRepo := repository.NewPostgresTicketRepository(db.Pool())

	// A zero interval only disables the API server's embedded sweeper. This
	// binary exists to sweep, so it falls back to the default cadence.
	sweepInterval := cfg.Reservation.SweepInterval
	if sweepInterval == 0 {
		sweepInterval = worker.DefaultReclaimWorkerConfig().SweepInterval
	}

	reclaimWorker := worker.NewReclaimWorker(
		ticketRepo,
		eventPublisher,
		dlqPublisher,
		&worker.ReclaimWorkerConfig{
			HoldTimeout:   cfg.Reservation.HoldTimeout,
			SweepInterval: sweepInterval,
			BatchSize:     cfg.Reservation.SweepBatchSize,
			MaxRetries:    cfg.Reservation.SweepMaxRetries,
		},
	)
	if err := reclaimWorker.Start(ctx); err != nil {
		appLog.Fatal(fmt.Sprintf("Failed to start reclaim worker: %v", err))
	}

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLog.Info("Shutting down reclaim worker...")

	cancel()
	reclaimWorker.Stop()

	stats := reclaimWorker.GetStats()
	appLog.Info(fmt.Sprintf("Reclaim worker exited (reclaimed=%d, failed=%d)", stats.TotalReclaimed, stats.TotalFailed))
}

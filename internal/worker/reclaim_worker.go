package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/iuriAvil4/SistemaGestaoDeEventos/internal/domain"
	"github.com/iuriAvil4/SistemaGestaoDeEventos/internal/metrics"
	"github.com/iuriAvil4/SistemaGestaoDeEventos/internal/repository"
	"github.com/iuriAvil4/SistemaGestaoDeEventos/internal/service"
	"github.com/iuriAvil4/SistemaGestaoDeEventos/pkg/logger"
	"github.com/iuriAvil4/SistemaGestaoDeEventos/pkg/retry"
	"github.com/iuriAvil4/SistemaGestaoDeEventos/pkg/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
)

// ReclaimWorkerConfig contains configuration for the reclamation worker
type ReclaimWorkerConfig struct {
	// HoldTimeout is how long a PENDING_PAYMENT ticket keeps its capacity
	HoldTimeout time.Duration
	// SweepInterval is the interval between sweep cycles
	SweepInterval time.Duration
	// BatchSize is the number of tickets to process in each cycle
	BatchSize int
	// MaxRetries is how many times a single ticket's reclamation is retried
	// before it goes to the dead letter queue
	MaxRetries int
}

// DefaultReclaimWorkerConfig returns default configuration
func DefaultReclaimWorkerConfig() *ReclaimWorkerConfig {
	return &ReclaimWorkerConfig{
		HoldTimeout:   15 * time.Minute,
		SweepInterval: 5 * time.Minute,
		BatchSize:     500,
		MaxRetries:    3,
	}
}

// ReclaimWorker periodically sweeps PENDING_PAYMENT tickets whose payment
// hold has expired, deleting them and returning their capacity to the pool.
// One crashed ticket never blocks the rest of the batch; a ticket whose
// reclamation exhausts its retries is published to the dead letter queue and
// logged for the operator.
type ReclaimWorker struct {
	ticketRepo repository.TicketRepository
	publisher  service.EventPublisher
	dlq        retry.DLQPublisher
	config     *ReclaimWorkerConfig
	log        *logger.Logger
	stopCh     chan struct{}
	wg         sync.WaitGroup
	mu         sync.Mutex
	running    bool

	totalReclaimed int64
	totalFailed    int64
	lastSweepTime  time.Time
	lastSweepCount int
}

// NewReclaimWorker creates a new reclamation worker
func NewReclaimWorker(
	ticketRepo repository.TicketRepository,
	publisher service.EventPublisher,
	dlq retry.DLQPublisher,
	config *ReclaimWorkerConfig,
) *ReclaimWorker {
	if config == nil {
		config = DefaultReclaimWorkerConfig()
	}
	if publisher == nil {
		publisher = service.NewNoOpEventPublisher()
	}
	if dlq == nil {
		dlq = retry.NewNoOpDLQPublisher()
	}

	return &ReclaimWorker{
		ticketRepo: ticketRepo,
		publisher:  publisher,
		dlq:        dlq,
		config:     config,
		log:        logger.Get(),
		stopCh:     make(chan struct{}),
	}
}

// Start starts the reclamation worker
func (w *ReclaimWorker) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return fmt.Errorf("reclaim worker already running")
	}
	w.running = true
	// A previous Stop closed stopCh, so a restart needs a fresh channel.
	w.stopCh = make(chan struct{})
	stopCh := w.stopCh
	w.mu.Unlock()

	w.log.Info("Starting reclaim worker",
		zap.Duration("hold_timeout", w.config.HoldTimeout),
		zap.Duration("sweep_interval", w.config.SweepInterval),
		zap.Int("batch_size", w.config.BatchSize),
	)

	w.wg.Add(1)
	go w.sweepLoop(ctx, stopCh)

	return nil
}

// Stop stops the reclamation worker and waits for the current sweep to finish
func (w *ReclaimWorker) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	stopCh := w.stopCh
	w.mu.Unlock()

	w.log.Info("Stopping reclaim worker")
	close(stopCh)
	w.wg.Wait()
	w.log.Info("Reclaim worker stopped")
}

// sweepLoop runs sweep cycles until stopped
func (w *ReclaimWorker) sweepLoop(ctx context.Context, stopCh <-chan struct{}) {
	defer w.wg.Done()

	ticker := time.NewTicker(w.config.SweepInterval)
	defer ticker.Stop()

	// Run immediately on start
	w.Sweep(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-stopCh:
			return
		case <-ticker.C:
			w.Sweep(ctx)
		}
	}
}

// Sweep runs one reclamation cycle and returns how many tickets it reclaimed
func (w *ReclaimWorker) Sweep(ctx context.Context) int {
	ctx, span := telemetry.StartSpan(ctx, "worker.reclaim.sweep")
	defer span.End()

	w.mu.Lock()
	w.lastSweepTime = time.Now()
	w.mu.Unlock()

	cutoff := time.Now().Add(-w.config.HoldTimeout)
	expired, err := w.ticketRepo.ListExpiredPending(ctx, cutoff, w.config.BatchSize)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		w.log.Error("Failed to list expired tickets", zap.Error(err))
		return 0
	}

	if len(expired) == 0 {
		span.SetStatus(codes.Ok, "")
		return 0
	}

	w.log.Info("Found expired payment holds to reclaim",
		zap.Int("count", len(expired)),
	)

	reclaimed := 0
	for _, ticket := range expired {
		ok, err := w.reclaimTicket(ctx, ticket, cutoff)
		if err != nil {
			w.handleExhausted(ctx, ticket, err)
			continue
		}
		if ok {
			reclaimed++
		}
	}

	w.mu.Lock()
	w.totalReclaimed += int64(reclaimed)
	w.lastSweepCount = reclaimed
	w.mu.Unlock()

	metrics.RecordSweepRun(ctx, int64(reclaimed))

	span.SetAttributes(
		attribute.Int("expired_found", len(expired)),
		attribute.Int("reclaimed", reclaimed),
	)
	span.SetStatus(codes.Ok, "")
	return reclaimed
}

// reclaimTicket reclaims one expired ticket with bounded retries. Returns
// false with a nil error when the ticket was no longer reclaimable, which is
// the concurrent payment winning and not a failure.
func (w *ReclaimWorker) reclaimTicket(ctx context.Context, ticket *domain.Ticket, cutoff time.Time) (bool, error) {
	var reclaimed bool
	result := retry.Do(ctx, &retry.Config{
		MaxRetries:      w.config.MaxRetries,
		InitialInterval: 500 * time.Millisecond,
		MaxInterval:     5 * time.Second,
		Multiplier:      2.0,
		JitterFactor:    0.1,
	}, func(ctx context.Context) error {
		ok, err := w.ticketRepo.ReclaimExpired(ctx, ticket.ID, cutoff)
		if err != nil {
			return err
		}
		reclaimed = ok
		return nil
	})
	if result.Err != nil {
		return false, result.Err
	}

	if reclaimed {
		expired := *ticket
		expired.Status = domain.TicketStatusExpired
		_ = w.publisher.PublishTicketExpired(ctx, &expired)

		w.log.Info("Reclaimed expired payment hold",
			zap.String("ticket_id", ticket.ID),
			zap.String("ticket_type_id", ticket.TicketTypeID),
			zap.String("buyer_id", ticket.BuyerID),
		)
	}
	return reclaimed, nil
}

// handleExhausted routes a ticket whose reclamation exhausted its retries to
// the dead letter queue and raises the operator alert
func (w *ReclaimWorker) handleExhausted(ctx context.Context, ticket *domain.Ticket, cause error) {
	w.mu.Lock()
	w.totalFailed++
	w.mu.Unlock()

	metrics.RecordSweepFailure(ctx, ticket.ID)

	w.log.Error("Reclamation exhausted retries, ticket holds capacity until reprocessed",
		zap.String("ticket_id", ticket.ID),
		zap.String("ticket_type_id", ticket.TicketTypeID),
		zap.Error(cause),
	)

	payload, err := json.Marshal(ticket)
	if err != nil {
		w.log.Error("Failed to marshal ticket for DLQ", zap.Error(err))
		return
	}

	now := time.Now()
	msg := &retry.DLQMessage{
		ID:             uuid.New().String(),
		OriginalTopic:  "ticket-events",
		OriginalKey:    ticket.TicketTypeID,
		Payload:        payload,
		Error:          cause.Error(),
		Attempts:       w.config.MaxRetries + 1,
		FirstAttemptAt: now,
		LastAttemptAt:  now,
		MovedToDLQAt:   now,
		Source:         "reclaim-worker",
		Metadata: map[string]interface{}{
			"ticket_id": ticket.ID,
			"buyer_id":  ticket.BuyerID,
		},
	}
	if err := w.dlq.PublishToDLQ(ctx, msg); err != nil {
		w.log.Error("Failed to publish reclamation failure to DLQ",
			zap.String("ticket_id", ticket.ID),
			zap.Error(err),
		)
	}
}

// GetStats returns worker statistics
func (w *ReclaimWorker) GetStats() *ReclaimWorkerStats {
	w.mu.Lock()
	defer w.mu.Unlock()

	return &ReclaimWorkerStats{
		IsRunning:      w.running,
		TotalReclaimed: w.totalReclaimed,
		TotalFailed:    w.totalFailed,
		LastSweepTime:  w.lastSweepTime,
		LastSweepCount: w.lastSweepCount,
	}
}

// ReclaimWorkerStats contains worker statistics
type ReclaimWorkerStats struct {
	IsRunning      bool      `json:"is_running"`
	TotalReclaimed int64     `json:"total_reclaimed"`
	TotalFailed    int64     `json:"total_failed"`
	LastSweepTime  time.Time `json:"last_sweep_time"`
	LastSweepCount int       `json:"last_sweep_count"`
}

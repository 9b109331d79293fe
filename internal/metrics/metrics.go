package metrics

import (
	"context"
	"sync"

	"github.com/iuriAvil4/SistemaGestaoDeEventos/pkg/telemetry"
	"go.opentelemetry.io/otel/attribute"
)

var (
	// Ticket counters
	TicketsReserved *telemetry.Counter
	TicketsPaid     *telemetry.Counter
	TicketsUsed     *telemetry.Counter
	TicketsCanceled *telemetry.Counter
	TicketsExpired  *telemetry.Counter
	TicketsFailed   *telemetry.Counter

	// Sweep counters
	SweepRuns     *telemetry.Counter
	SweepFailures *telemetry.Counter

	// Histograms
	PaymentLatency  *telemetry.Histogram
	RequestDuration *telemetry.Histogram

	// Gauges
	PendingTickets *telemetry.UpDownCounter

	initOnce sync.Once
	initErr  error
)

// Init initializes all ticketing metrics
func Init() error {
	initOnce.Do(func() {
		initErr = initMetrics()
	})
	return initErr
}

func initMetrics() error {
	var err error

	TicketsReserved, err = telemetry.NewCounter(telemetry.MetricOpts{
		Name:        "ticket_reservations_total",
		Description: "Total number of ticket reservations created",
		Unit:        "1",
	})
	if err != nil {
		return err
	}

	TicketsPaid, err = telemetry.NewCounter(telemetry.MetricOpts{
		Name:        "ticket_payments_total",
		Description: "Total number of tickets paid",
		Unit:        "1",
	})
	if err != nil {
		return err
	}

	TicketsUsed, err = telemetry.NewCounter(telemetry.MetricOpts{
		Name:        "ticket_validations_total",
		Description: "Total number of tickets validated at the gate",
		Unit:        "1",
	})
	if err != nil {
		return err
	}

	TicketsCanceled, err = telemetry.NewCounter(telemetry.MetricOpts{
		Name:        "ticket_cancellations_total",
		Description: "Total number of tickets canceled",
		Unit:        "1",
	})
	if err != nil {
		return err
	}

	TicketsExpired, err = telemetry.NewCounter(telemetry.MetricOpts{
		Name:        "ticket_expirations_total",
		Description: "Total number of expired payment holds reclaimed",
		Unit:        "1",
	})
	if err != nil {
		return err
	}

	TicketsFailed, err = telemetry.NewCounter(telemetry.MetricOpts{
		Name:        "ticket_reservation_failures_total",
		Description: "Total number of failed reservations by reason",
		Unit:        "1",
	})
	if err != nil {
		return err
	}

	SweepRuns, err = telemetry.NewCounter(telemetry.MetricOpts{
		Name:        "reclaim_sweep_runs_total",
		Description: "Total number of reclamation sweep cycles",
		Unit:        "1",
	})
	if err != nil {
		return err
	}

	SweepFailures, err = telemetry.NewCounter(telemetry.MetricOpts{
		Name:        "reclaim_sweep_failures_total",
		Description: "Total number of tickets whose reclamation exhausted retries",
		Unit:        "1",
	})
	if err != nil {
		return err
	}

	PaymentLatency, err = telemetry.NewHistogramWithBuckets(telemetry.MetricOpts{
		Name:        "ticket_payment_latency_seconds",
		Description: "Duration from reservation to payment confirmation",
		Unit:        "s",
	}, []float64{1, 5, 10, 30, 60, 120, 300, 600, 900}) // 1s to 15min
	if err != nil {
		return err
	}

	RequestDuration, err = telemetry.NewHistogramWithBuckets(telemetry.MetricOpts{
		Name:        "ticket_request_duration_seconds",
		Description: "HTTP request duration in seconds",
		Unit:        "s",
	}, []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10})
	if err != nil {
		return err
	}

	PendingTickets, err = telemetry.NewUpDownCounter(telemetry.MetricOpts{
		Name:        "ticket_pending_payment",
		Description: "Current number of tickets holding capacity while awaiting payment",
		Unit:        "1",
	})
	if err != nil {
		return err
	}

	return nil
}

// RecordReservation records a ticket reservation metric
func RecordReservation(ctx context.Context, ticketTypeID string) {
	if TicketsReserved != nil {
		TicketsReserved.Inc(ctx,
			attribute.String("ticket_type_id", ticketTypeID),
		)
	}
	if PendingTickets != nil {
		PendingTickets.Inc(ctx)
	}
}

// RecordPayment records a payment confirmation metric
func RecordPayment(ctx context.Context, ticketTypeID string, latencySeconds float64) {
	if TicketsPaid != nil {
		TicketsPaid.Inc(ctx,
			attribute.String("ticket_type_id", ticketTypeID),
		)
	}
	if PaymentLatency != nil {
		PaymentLatency.Record(ctx, latencySeconds,
			attribute.String("ticket_type_id", ticketTypeID),
		)
	}
	if PendingTickets != nil {
		PendingTickets.Dec(ctx)
	}
}

// RecordValidation records a gate validation metric
func RecordValidation(ctx context.Context, ticketTypeID string) {
	if TicketsUsed != nil {
		TicketsUsed.Inc(ctx,
			attribute.String("ticket_type_id", ticketTypeID),
		)
	}
}

// RecordCancellation records a cancellation metric. releasedCapacity is true
// only for pending tickets, whose capacity unit returns to the pool.
func RecordCancellation(ctx context.Context, ticketTypeID string, releasedCapacity bool) {
	if TicketsCanceled != nil {
		TicketsCanceled.Inc(ctx,
			attribute.String("ticket_type_id", ticketTypeID),
			attribute.Bool("capacity_released", releasedCapacity),
		)
	}
	if releasedCapacity && PendingTickets != nil {
		PendingTickets.Dec(ctx)
	}
}

// RecordExpiration records reclaimed payment holds
func RecordExpiration(ctx context.Context, count int64) {
	if TicketsExpired != nil {
		TicketsExpired.Add(ctx, count)
	}
	if PendingTickets != nil {
		PendingTickets.Add(ctx, -count)
	}
}

// RecordFailure records a failed reservation by reason
func RecordFailure(ctx context.Context, ticketTypeID, reason string) {
	if TicketsFailed != nil {
		TicketsFailed.Inc(ctx,
			attribute.String("ticket_type_id", ticketTypeID),
			attribute.String("reason", reason),
		)
	}
}

// RecordSweepRun records one sweep cycle with how many tickets it reclaimed
func RecordSweepRun(ctx context.Context, reclaimed int64) {
	if SweepRuns != nil {
		SweepRuns.Inc(ctx)
	}
	RecordExpiration(ctx, reclaimed)
}

// RecordSweepFailure records a ticket whose reclamation exhausted retries
func RecordSweepFailure(ctx context.Context, ticketID string) {
	if SweepFailures != nil {
		SweepFailures.Inc(ctx,
			attribute.String("ticket_id", ticketID),
		)
	}
}

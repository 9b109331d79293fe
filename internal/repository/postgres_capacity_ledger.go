package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/iuriAvil4/SistemaGestaoDeEventos/internal/domain"
	"github.com/iuriAvil4/SistemaGestaoDeEventos/pkg/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// PostgresCapacityLedger implements CapacityLedger with conditional UPDATEs.
// Correctness under concurrency comes entirely from the storage engine: the
// decrement carries its own guard, so N concurrent reservations against M
// remaining units produce exactly M winners. No in-process locks.
type PostgresCapacityLedger struct {
	pool *pgxpool.Pool
}

// NewPostgresCapacityLedger creates a new PostgresCapacityLedger
func NewPostgresCapacityLedger(pool *pgxpool.Pool) *PostgresCapacityLedger {
	return &PostgresCapacityLedger{pool: pool}
}

// Reserve takes one capacity unit. The guard quantity_available > 0 makes
// the check and the decrement a single atomic statement.
func (l *PostgresCapacityLedger) Reserve(ctx context.Context, ticketTypeID string) error {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.ledger.reserve")
	defer span.End()

	span.SetAttributes(attribute.String("ticket_type_id", ticketTypeID))

	query := `
		UPDATE ticket_types SET
			quantity_available = quantity_available - 1,
			updated_at = NOW()
		WHERE id = $1 AND quantity_available > 0
	`

	result, err := l.pool.Exec(ctx, query, ticketTypeID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("failed to reserve capacity: %w", err)
	}

	if result.RowsAffected() == 0 {
		// Distinguish sold out from unknown type
		var exists bool
		err := l.pool.QueryRow(ctx, "SELECT EXISTS(SELECT 1 FROM ticket_types WHERE id = $1)", ticketTypeID).Scan(&exists)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return fmt.Errorf("failed to check ticket type existence: %w", err)
		}
		if !exists {
			span.SetStatus(codes.Error, "not found")
			return domain.ErrTicketTypeNotFound
		}
		span.SetStatus(codes.Error, "sold out")
		return domain.ErrNoCapacity
	}

	span.SetStatus(codes.Ok, "")
	return nil
}

// Release returns one capacity unit, clamped at total_capacity
func (l *PostgresCapacityLedger) Release(ctx context.Context, ticketTypeID string) error {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.ledger.release")
	defer span.End()

	span.SetAttributes(attribute.String("ticket_type_id", ticketTypeID))

	query := `
		UPDATE ticket_types SET
			quantity_available = LEAST(quantity_available + 1, total_capacity),
			updated_at = NOW()
		WHERE id = $1
	`

	result, err := l.pool.Exec(ctx, query, ticketTypeID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("failed to release capacity: %w", err)
	}

	if result.RowsAffected() == 0 {
		span.SetStatus(codes.Error, "not found")
		return domain.ErrTicketTypeNotFound
	}

	span.SetStatus(codes.Ok, "")
	return nil
}

// releaseInTx performs the clamped release inside an existing transaction
func releaseInTx(ctx context.Context, tx pgx.Tx, ticketTypeID string) error {
	query := `
		UPDATE ticket_types SET
			quantity_available = LEAST(quantity_available + 1, total_capacity),
			updated_at = NOW()
		WHERE id = $1
	`

	result, err := tx.Exec(ctx, query, ticketTypeID)
	if err != nil {
		return fmt.Errorf("failed to release capacity: %w", err)
	}
	if result.RowsAffected() == 0 {
		return domain.ErrTicketTypeNotFound
	}
	return nil
}

// Availability reads the current availability of a ticket type
func (l *PostgresCapacityLedger) Availability(ctx context.Context, ticketTypeID string) (int, error) {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.ledger.availability")
	defer span.End()

	span.SetAttributes(attribute.String("ticket_type_id", ticketTypeID))

	var available int
	err := l.pool.QueryRow(ctx, "SELECT quantity_available FROM ticket_types WHERE id = $1", ticketTypeID).Scan(&available)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			span.SetStatus(codes.Error, "not found")
			return 0, domain.ErrTicketTypeNotFound
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return 0, fmt.Errorf("failed to read availability: %w", err)
	}

	span.SetStatus(codes.Ok, "")
	return available, nil
}

package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/iuriAvil4/SistemaGestaoDeEventos/internal/domain"
	"github.com/iuriAvil4/SistemaGestaoDeEventos/pkg/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// PostgresTicketRepository implements TicketRepository using PostgreSQL
type PostgresTicketRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresTicketRepository creates a new PostgresTicketRepository
func NewPostgresTicketRepository(pool *pgxpool.Pool) *PostgresTicketRepository {
	return &PostgresTicketRepository{pool: pool}
}

const ticketColumns = `id, ticket_type_id, buyer_id, code, status, price_paid, bought_at, used_at, created_at, updated_at`

func scanTicket(row pgx.Row) (*domain.Ticket, error) {
	var t domain.Ticket
	err := row.Scan(
		&t.ID,
		&t.TicketTypeID,
		&t.BuyerID,
		&t.Code,
		&t.Status,
		&t.PricePaid,
		&t.BoughtAt,
		&t.UsedAt,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// Create inserts a new ticket
func (r *PostgresTicketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.ticket.create")
	defer span.End()

	span.SetAttributes(
		attribute.String("ticket_id", ticket.ID),
		attribute.String("ticket_type_id", ticket.TicketTypeID),
	)

	query := `
		INSERT INTO tickets (id, ticket_type_id, buyer_id, code, status, price_paid, bought_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.pool.Exec(ctx, query,
		ticket.ID,
		ticket.TicketTypeID,
		ticket.BuyerID,
		ticket.Code,
		ticket.Status,
		ticket.PricePaid,
		ticket.BoughtAt,
		ticket.CreatedAt,
		ticket.UpdatedAt,
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("failed to create ticket: %w", err)
	}

	span.SetStatus(codes.Ok, "")
	return nil
}

// GetByID retrieves a ticket by its ID
func (r *PostgresTicketRepository) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.ticket.get_by_id")
	defer span.End()

	span.SetAttributes(attribute.String("ticket_id", id))

	query := `SELECT ` + ticketColumns + ` FROM tickets WHERE id = $1`

	ticket, err := scanTicket(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			span.SetStatus(codes.Error, "not found")
			return nil, domain.ErrTicketNotFound
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("failed to get ticket: %w", err)
	}

	span.SetStatus(codes.Ok, "")
	return ticket, nil
}

// GetByCode retrieves a ticket by its human-readable code
func (r *PostgresTicketRepository) GetByCode(ctx context.Context, code string) (*domain.Ticket, error) {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.ticket.get_by_code")
	defer span.End()

	span.SetAttributes(attribute.String("ticket_code", code))

	query := `SELECT ` + ticketColumns + ` FROM tickets WHERE code = $1`

	ticket, err := scanTicket(r.pool.QueryRow(ctx, query, code))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			span.SetStatus(codes.Error, "not found")
			return nil, domain.ErrTicketNotFound
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("failed to get ticket by code: %w", err)
	}

	span.SetStatus(codes.Ok, "")
	return ticket, nil
}

// ListByBuyer returns all tickets owned by the buyer, newest first
func (r *PostgresTicketRepository) ListByBuyer(ctx context.Context, buyerID string) ([]*domain.Ticket, error) {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.ticket.list_by_buyer")
	defer span.End()

	span.SetAttributes(attribute.String("buyer_id", buyerID))

	query := `SELECT ` + ticketColumns + ` FROM tickets WHERE buyer_id = $1 ORDER BY bought_at DESC`

	rows, err := r.pool.Query(ctx, query, buyerID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("failed to list tickets: %w", err)
	}
	defer rows.Close()

	var tickets []*domain.Ticket
	for rows.Next() {
		ticket, err := scanTicket(rows)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return nil, fmt.Errorf("failed to scan ticket: %w", err)
		}
		tickets = append(tickets, ticket)
	}
	if err := rows.Err(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("failed to iterate tickets: %w", err)
	}

	span.SetAttributes(attribute.Int("ticket_count", len(tickets)))
	span.SetStatus(codes.Ok, "")
	return tickets, nil
}

// HasOpenTicket reports whether the buyer owns a non-terminal ticket of the
// given type. Terminal statuses (USED, CANCELED, EXPIRED) do not block a
// repeat reservation.
func (r *PostgresTicketRepository) HasOpenTicket(ctx context.Context, ticketTypeID, buyerID string) (bool, error) {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.ticket.has_open_ticket")
	defer span.End()

	span.SetAttributes(
		attribute.String("ticket_type_id", ticketTypeID),
		attribute.String("buyer_id", buyerID),
	)

	query := `
		SELECT EXISTS(
			SELECT 1 FROM tickets
			WHERE ticket_type_id = $1 AND buyer_id = $2
			AND status IN ('PENDING_PAYMENT', 'ACTIVE')
		)
	`

	var open bool
	err := r.pool.QueryRow(ctx, query, ticketTypeID, buyerID).Scan(&open)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return false, fmt.Errorf("failed to check buyer holdings: %w", err)
	}

	span.SetStatus(codes.Ok, "")
	return open, nil
}

// UpdateStatus transitions a ticket with the previous status as guard. When
// the guard does not match, the ticket is re-read to classify the failure.
func (r *PostgresTicketRepository) UpdateStatus(ctx context.Context, id string, from, to domain.TicketStatus) error {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.ticket.update_status")
	defer span.End()

	span.SetAttributes(
		attribute.String("ticket_id", id),
		attribute.String("from_status", from.String()),
		attribute.String("to_status", to.String()),
	)

	query := `
		UPDATE tickets SET
			status = $1,
			updated_at = NOW()
		WHERE id = $2 AND status = $3
	`

	result, err := r.pool.Exec(ctx, query, to, id, from)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("failed to update ticket status: %w", err)
	}

	if result.RowsAffected() == 0 {
		return r.classifyGuardFailure(ctx, span, id, to)
	}

	span.SetStatus(codes.Ok, "")
	return nil
}

// MarkUsed transitions ACTIVE -> USED and stamps used_at atomically
func (r *PostgresTicketRepository) MarkUsed(ctx context.Context, id string, usedAt time.Time) error {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.ticket.mark_used")
	defer span.End()

	span.SetAttributes(attribute.String("ticket_id", id))

	query := `
		UPDATE tickets SET
			status = $1,
			used_at = $2,
			updated_at = NOW()
		WHERE id = $3 AND status = $4
	`

	result, err := r.pool.Exec(ctx, query, domain.TicketStatusUsed, usedAt, id, domain.TicketStatusActive)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("failed to mark ticket used: %w", err)
	}

	if result.RowsAffected() == 0 {
		return r.classifyGuardFailure(ctx, span, id, domain.TicketStatusUsed)
	}

	span.SetStatus(codes.Ok, "")
	return nil
}

// classifyGuardFailure re-reads a ticket after a conditional update matched
// nothing and turns the current state into the right domain error
func (r *PostgresTicketRepository) classifyGuardFailure(ctx context.Context, span trace.Span, id string, to domain.TicketStatus) error {
	var current domain.TicketStatus
	err := r.pool.QueryRow(ctx, "SELECT status FROM tickets WHERE id = $1", id).Scan(&current)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			span.SetStatus(codes.Error, "not found")
			return domain.ErrTicketNotFound
		}
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("failed to classify status conflict: %w", err)
	}
	span.SetStatus(codes.Error, "status conflict")
	if current.IsTerminal() {
		return fmt.Errorf("%w: ticket is %s", domain.ErrTerminalState, current)
	}
	return domain.TransitionError(current, to)
}

// CancelPendingReleasingCapacity cancels a PENDING_PAYMENT ticket and returns
// its capacity unit in one transaction
func (r *PostgresTicketRepository) CancelPendingReleasingCapacity(ctx context.Context, id string) error {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.ticket.cancel_pending")
	defer span.End()

	span.SetAttributes(attribute.String("ticket_id", id))

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		UPDATE tickets SET
			status = $1,
			updated_at = NOW()
		WHERE id = $2 AND status = $3
		RETURNING ticket_type_id
	`

	var ticketTypeID string
	err = tx.QueryRow(ctx, query, domain.TicketStatusCanceled, id, domain.TicketStatusPendingPayment).Scan(&ticketTypeID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return r.classifyGuardFailure(ctx, span, id, domain.TicketStatusCanceled)
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("failed to cancel ticket: %w", err)
	}

	if err := releaseInTx(ctx, tx, ticketTypeID); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("failed to commit cancellation: %w", err)
	}

	span.SetStatus(codes.Ok, "")
	return nil
}

// ListExpiredPending returns PENDING_PAYMENT tickets bought before the
// cutoff, oldest first, up to limit
func (r *PostgresTicketRepository) ListExpiredPending(ctx context.Context, cutoff time.Time, limit int) ([]*domain.Ticket, error) {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.ticket.list_expired_pending")
	defer span.End()

	span.SetAttributes(attribute.Int("limit", limit))

	query := `
		SELECT ` + ticketColumns + `
		FROM tickets
		WHERE status = $1 AND bought_at < $2
		ORDER BY bought_at ASC
		LIMIT $3
	`

	rows, err := r.pool.Query(ctx, query, domain.TicketStatusPendingPayment, cutoff, limit)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("failed to list expired tickets: %w", err)
	}
	defer rows.Close()

	var tickets []*domain.Ticket
	for rows.Next() {
		ticket, err := scanTicket(rows)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return nil, fmt.Errorf("failed to scan expired ticket: %w", err)
		}
		tickets = append(tickets, ticket)
	}
	if err := rows.Err(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("failed to iterate expired tickets: %w", err)
	}

	span.SetAttributes(attribute.Int("ticket_count", len(tickets)))
	span.SetStatus(codes.Ok, "")
	return tickets, nil
}

// ReclaimExpired deletes a PENDING_PAYMENT ticket past the cutoff and
// releases its capacity unit in one transaction. The row is locked and the
// status re-checked inside the transaction, so a payment that confirmed
// between the sweep's listing and this call wins and the reclaim is a no-op.
func (r *PostgresTicketRepository) ReclaimExpired(ctx context.Context, id string, cutoff time.Time) (bool, error) {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.ticket.reclaim_expired")
	defer span.End()

	span.SetAttributes(attribute.String("ticket_id", id))

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	lockQuery := `
		SELECT ticket_type_id, status, bought_at
		FROM tickets
		WHERE id = $1
		FOR UPDATE
	`

	var ticketTypeID string
	var status domain.TicketStatus
	var boughtAt time.Time
	err = tx.QueryRow(ctx, lockQuery, id).Scan(&ticketTypeID, &status, &boughtAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			span.SetStatus(codes.Ok, "already gone")
			return false, nil
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return false, fmt.Errorf("failed to lock ticket: %w", err)
	}

	if status != domain.TicketStatusPendingPayment || !boughtAt.Before(cutoff) {
		span.SetStatus(codes.Ok, "not reclaimable")
		return false, nil
	}

	if _, err := tx.Exec(ctx, "DELETE FROM tickets WHERE id = $1", id); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return false, fmt.Errorf("failed to delete expired ticket: %w", err)
	}

	if err := releaseInTx(ctx, tx, ticketTypeID); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return false, err
	}

	if err := tx.Commit(ctx); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return false, fmt.Errorf("failed to commit reclaim: %w", err)
	}

	span.SetStatus(codes.Ok, "")
	return true, nil
}

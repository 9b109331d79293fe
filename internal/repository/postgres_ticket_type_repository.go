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

// PostgresTicketTypeRepository implements TicketTypeRepository using PostgreSQL
type PostgresTicketTypeRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresTicketTypeRepository creates a new PostgresTicketTypeRepository
func NewPostgresTicketTypeRepository(pool *pgxpool.Pool) *PostgresTicketTypeRepository {
	return &PostgresTicketTypeRepository{pool: pool}
}

const ticketTypeColumns = `id, event_id, name, description, price, total_capacity, quantity_available, sale_start, sale_end, status, created_at, updated_at`

func scanTicketType(row pgx.Row) (*domain.TicketType, error) {
	var tt domain.TicketType
	err := row.Scan(
		&tt.ID,
		&tt.EventID,
		&tt.Name,
		&tt.Description,
		&tt.Price,
		&tt.TotalCapacity,
		&tt.QuantityAvailable,
		&tt.SaleStart,
		&tt.SaleEnd,
		&tt.Status,
		&tt.CreatedAt,
		&tt.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &tt, nil
}

// Create inserts a new ticket type with its full capacity available
func (r *PostgresTicketTypeRepository) Create(ctx context.Context, tt *domain.TicketType) error {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.ticket_type.create")
	defer span.End()

	span.SetAttributes(
		attribute.String("ticket_type_id", tt.ID),
		attribute.String("event_id", tt.EventID),
	)

	query := `
		INSERT INTO ticket_types (id, event_id, name, description, price, total_capacity, quantity_available, sale_start, sale_end, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err := r.pool.Exec(ctx, query,
		tt.ID,
		tt.EventID,
		tt.Name,
		tt.Description,
		tt.Price,
		tt.TotalCapacity,
		tt.QuantityAvailable,
		tt.SaleStart,
		tt.SaleEnd,
		tt.Status,
		tt.CreatedAt,
		tt.UpdatedAt,
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("failed to create ticket type: %w", err)
	}

	span.SetStatus(codes.Ok, "")
	return nil
}

// GetByID retrieves a ticket type by its ID
func (r *PostgresTicketTypeRepository) GetByID(ctx context.Context, id string) (*domain.TicketType, error) {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.ticket_type.get_by_id")
	defer span.End()

	span.SetAttributes(attribute.String("ticket_type_id", id))

	query := `SELECT ` + ticketTypeColumns + ` FROM ticket_types WHERE id = $1`

	tt, err := scanTicketType(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			span.SetStatus(codes.Error, "not found")
			return nil, domain.ErrTicketTypeNotFound
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("failed to get ticket type: %w", err)
	}

	span.SetStatus(codes.Ok, "")
	return tt, nil
}

// ListByEvent returns all ticket types for an event
func (r *PostgresTicketTypeRepository) ListByEvent(ctx context.Context, eventID string) ([]*domain.TicketType, error) {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.ticket_type.list_by_event")
	defer span.End()

	span.SetAttributes(attribute.String("event_id", eventID))

	query := `SELECT ` + ticketTypeColumns + ` FROM ticket_types WHERE event_id = $1 ORDER BY price ASC`

	rows, err := r.pool.Query(ctx, query, eventID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("failed to list ticket types: %w", err)
	}
	defer rows.Close()

	var types []*domain.TicketType
	for rows.Next() {
		tt, err := scanTicketType(rows)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return nil, fmt.Errorf("failed to scan ticket type: %w", err)
		}
		types = append(types, tt)
	}
	if err := rows.Err(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("failed to iterate ticket types: %w", err)
	}

	span.SetAttributes(attribute.Int("ticket_type_count", len(types)))
	span.SetStatus(codes.Ok, "")
	return types, nil
}

// Update persists mutable ticket type fields. quantity_available is deliberately
// absent from the statement; only the capacity ledger moves it.
func (r *PostgresTicketTypeRepository) Update(ctx context.Context, tt *domain.TicketType) error {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.ticket_type.update")
	defer span.End()

	span.SetAttributes(attribute.String("ticket_type_id", tt.ID))

	query := `
		UPDATE ticket_types SET
			description = $1,
			price = $2,
			sale_start = $3,
			sale_end = $4,
			updated_at = NOW()
		WHERE id = $5
	`

	result, err := r.pool.Exec(ctx, query,
		tt.Description,
		tt.Price,
		tt.SaleStart,
		tt.SaleEnd,
		tt.ID,
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("failed to update ticket type: %w", err)
	}

	if result.RowsAffected() == 0 {
		span.SetStatus(codes.Error, "not found")
		return domain.ErrTicketTypeNotFound
	}

	span.SetStatus(codes.Ok, "")
	return nil
}

// UpdateStatus sets the sale status of a ticket type
func (r *PostgresTicketTypeRepository) UpdateStatus(ctx context.Context, id string, status domain.TicketTypeStatus) error {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.ticket_type.update_status")
	defer span.End()

	span.SetAttributes(
		attribute.String("ticket_type_id", id),
		attribute.String("status", status.String()),
	)

	query := `
		UPDATE ticket_types SET
			status = $1,
			updated_at = NOW()
		WHERE id = $2
	`

	result, err := r.pool.Exec(ctx, query, status, id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("failed to update ticket type status: %w", err)
	}

	if result.RowsAffected() == 0 {
		span.SetStatus(codes.Error, "not found")
		return domain.ErrTicketTypeNotFound
	}

	span.SetStatus(codes.Ok, "")
	return nil
}

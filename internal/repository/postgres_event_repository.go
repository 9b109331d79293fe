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

// PostgresEventRepository implements EventRepository using PostgreSQL
type PostgresEventRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresEventRepository creates a new PostgresEventRepository
func NewPostgresEventRepository(pool *pgxpool.Pool) *PostgresEventRepository {
	return &PostgresEventRepository{pool: pool}
}

const eventColumns = `id, title, slug, description, start_date, end_date, location, total_capacity, status, organizer_id, created_at, updated_at`

func scanEvent(row pgx.Row) (*domain.Event, error) {
	var e domain.Event
	err := row.Scan(
		&e.ID,
		&e.Title,
		&e.Slug,
		&e.Description,
		&e.StartDate,
		&e.EndDate,
		&e.Location,
		&e.TotalCapacity,
		&e.Status,
		&e.OrganizerID,
		&e.CreatedAt,
		&e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// Create inserts a new event
func (r *PostgresEventRepository) Create(ctx context.Context, event *domain.Event) error {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.event.create")
	defer span.End()

	span.SetAttributes(attribute.String("event_id", event.ID))

	query := `
		INSERT INTO events (id, title, slug, description, start_date, end_date, location, total_capacity, status, organizer_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err := r.pool.Exec(ctx, query,
		event.ID,
		event.Title,
		event.Slug,
		event.Description,
		event.StartDate,
		event.EndDate,
		event.Location,
		event.TotalCapacity,
		event.Status,
		event.OrganizerID,
		event.CreatedAt,
		event.UpdatedAt,
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("failed to create event: %w", err)
	}

	span.SetStatus(codes.Ok, "")
	return nil
}

// GetByID retrieves an event by its ID
func (r *PostgresEventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.event.get_by_id")
	defer span.End()

	span.SetAttributes(attribute.String("event_id", id))

	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1`

	event, err := scanEvent(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			span.SetStatus(codes.Error, "not found")
			return nil, domain.ErrEventNotFound
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("failed to get event: %w", err)
	}

	span.SetStatus(codes.Ok, "")
	return event, nil
}

// List returns events filtered by status; empty status returns all
func (r *PostgresEventRepository) List(ctx context.Context, status domain.EventStatus) ([]*domain.Event, error) {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.event.list")
	defer span.End()

	query := `SELECT ` + eventColumns + ` FROM events`
	args := []any{}
	if status != "" {
		query += ` WHERE status = $1`
		args = append(args, status)
		span.SetAttributes(attribute.String("status_filter", status.String()))
	}
	query += ` ORDER BY start_date ASC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	defer rows.Close()

	var events []*domain.Event
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("failed to iterate events: %w", err)
	}

	span.SetAttributes(attribute.Int("event_count", len(events)))
	span.SetStatus(codes.Ok, "")
	return events, nil
}

// UpdateStatus moves an event through its publication lifecycle
func (r *PostgresEventRepository) UpdateStatus(ctx context.Context, id string, status domain.EventStatus) error {
	ctx, span := telemetry.StartSpan(ctx, "repo.postgres.event.update_status")
	defer span.End()

	span.SetAttributes(
		attribute.String("event_id", id),
		attribute.String("status", status.String()),
	)

	query := `
		UPDATE events SET
			status = $1,
			updated_at = NOW()
		WHERE id = $2
	`

	result, err := r.pool.Exec(ctx, query, status, id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("failed to update event status: %w", err)
	}

	if result.RowsAffected() == 0 {
		span.SetStatus(codes.Error, "not found")
		return domain.ErrEventNotFound
	}

	span.SetStatus(codes.Ok, "")
	return nil
}

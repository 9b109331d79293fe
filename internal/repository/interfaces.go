package repository

import (
	"context"
	"time"

	"github.com/iuriAvil4/SistemaGestaoDeEventos/internal/domain"
)

// CapacityLedger is the single authority over quantity_available. All
// capacity movement goes through the two operations below; nothing else
// may write the column.
type CapacityLedger interface {
	// Reserve atomically takes one capacity unit from the ticket type.
	// Returns domain.ErrNoCapacity when the pool is exhausted and
	// domain.ErrTicketTypeNotFound when the type does not exist.
	Reserve(ctx context.Context, ticketTypeID string) error

	// Release atomically returns one capacity unit to the ticket type,
	// clamped at total_capacity so double releases can never overflow
	// the pool.
	Release(ctx context.Context, ticketTypeID string) error

	// Availability reads the current available count for the ticket type
	Availability(ctx context.Context, ticketTypeID string) (int, error)
}

// TicketRepository defines storage operations for tickets
type TicketRepository interface {
	// Create inserts a new ticket
	Create(ctx context.Context, ticket *domain.Ticket) error

	// GetByID retrieves a ticket by its ID
	GetByID(ctx context.Context, id string) (*domain.Ticket, error)

	// GetByCode retrieves a ticket by its human-readable code
	GetByCode(ctx context.Context, code string) (*domain.Ticket, error)

	// ListByBuyer returns all tickets owned by the buyer, newest first
	ListByBuyer(ctx context.Context, buyerID string) ([]*domain.Ticket, error)

	// HasOpenTicket reports whether the buyer owns a non-terminal ticket of
	// the given type. An open ticket blocks a repeat reservation; a used,
	// canceled or expired one does not.
	HasOpenTicket(ctx context.Context, ticketTypeID, buyerID string) (bool, error)

	// UpdateStatus transitions a ticket from one status to another as a
	// single conditional update. When the guard does not match, the ticket
	// is re-read to classify the failure: domain.ErrTicketNotFound when it
	// is gone, a transition error otherwise.
	UpdateStatus(ctx context.Context, id string, from, to domain.TicketStatus) error

	// MarkUsed transitions ACTIVE -> USED and stamps used_at atomically
	MarkUsed(ctx context.Context, id string, usedAt time.Time) error

	// CancelPendingReleasingCapacity cancels a PENDING_PAYMENT ticket and
	// returns its capacity unit in one transaction
	CancelPendingReleasingCapacity(ctx context.Context, id string) error

	// ListExpiredPending returns PENDING_PAYMENT tickets bought before the
	// cutoff, oldest first, up to limit
	ListExpiredPending(ctx context.Context, cutoff time.Time, limit int) ([]*domain.Ticket, error)

	// ReclaimExpired deletes a PENDING_PAYMENT ticket and releases its
	// capacity unit in one transaction. The status and cutoff are
	// re-checked under a row lock so a concurrent payment wins. Returns
	// false when the ticket was not reclaimed (already paid, canceled or
	// gone).
	ReclaimExpired(ctx context.Context, id string, cutoff time.Time) (bool, error)
}

// TicketTypeRepository defines storage operations for ticket types
type TicketTypeRepository interface {
	// Create inserts a new ticket type
	Create(ctx context.Context, tt *domain.TicketType) error

	// GetByID retrieves a ticket type by its ID
	GetByID(ctx context.Context, id string) (*domain.TicketType, error)

	// ListByEvent returns all ticket types for an event
	ListByEvent(ctx context.Context, eventID string) ([]*domain.TicketType, error)

	// Update persists mutable ticket type fields. quantity_available is
	// never written here; only the capacity ledger moves it.
	Update(ctx context.Context, tt *domain.TicketType) error

	// UpdateStatus sets the sale status of a ticket type
	UpdateStatus(ctx context.Context, id string, status domain.TicketTypeStatus) error
}

// EventRepository defines storage operations for events
type EventRepository interface {
	// Create inserts a new event
	Create(ctx context.Context, event *domain.Event) error

	// GetByID retrieves an event by its ID
	GetByID(ctx context.Context, id string) (*domain.Event, error)

	// List returns events filtered by status; empty status returns all
	List(ctx context.Context, status domain.EventStatus) ([]*domain.Event, error)

	// UpdateStatus moves an event through its publication lifecycle
	UpdateStatus(ctx context.Context, id string, status domain.EventStatus) error
}

// AvailabilityCache caches per-type availability counts for the hot
// availability endpoint. Storage stays authoritative; the cache only
// absorbs reads.
type AvailabilityCache interface {
	// Get returns the cached availability, or found=false on a miss
	Get(ctx context.Context, ticketTypeID string) (available int, found bool, err error)

	// Set stores the availability with the given TTL
	Set(ctx context.Context, ticketTypeID string, available int, ttl time.Duration) error

	// Invalidate drops the cached value after a capacity movement
	Invalidate(ctx context.Context, ticketTypeID string) error
}

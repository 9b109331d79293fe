package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TicketStatus represents the lifecycle state of a ticket
type TicketStatus string

const (
	TicketStatusPendingPayment TicketStatus = "PENDING_PAYMENT"
	TicketStatusActive         TicketStatus = "ACTIVE"
	TicketStatusUsed           TicketStatus = "USED"
	TicketStatusCanceled       TicketStatus = "CANCELED"
	TicketStatusExpired        TicketStatus = "EXPIRED"
	TicketStatusInactive       TicketStatus = "INACTIVE"
)

// String returns the string representation of the status
func (s TicketStatus) String() string {
	return string(s)
}

// IsValid reports whether s is one of the known ticket statuses
func (s TicketStatus) IsValid() bool {
	switch s {
	case TicketStatusPendingPayment, TicketStatusActive, TicketStatusUsed,
		TicketStatusCanceled, TicketStatusExpired, TicketStatusInactive:
		return true
	}
	return false
}

// IsTerminal reports whether s is a terminal status. No transition may leave
// a terminal status.
func (s TicketStatus) IsTerminal() bool {
	switch s {
	case TicketStatusUsed, TicketStatusCanceled, TicketStatusExpired:
		return true
	}
	return false
}

// ConsumesCapacity reports whether a ticket in this status occupies one unit
// of its ticket type's capacity. The core invariant is:
// quantity_available + count(tickets in capacity-consuming statuses) == total_capacity.
func (s TicketStatus) ConsumesCapacity() bool {
	switch s {
	case TicketStatusPendingPayment, TicketStatusActive, TicketStatusUsed:
		return true
	}
	return false
}

// transitions is the authoritative transition table. Anything not listed here
// is rejected. Expiration (PENDING_PAYMENT -> EXPIRED) is listed even though
// the sweeper deletes reclaimed tickets instead of persisting the status; the
// entry keeps the table complete for transition checks.
var transitions = map[TicketStatus]map[TicketStatus]bool{
	TicketStatusPendingPayment: {
		TicketStatusActive:   true, // pay
		TicketStatusCanceled: true, // cancel, capacity released
		TicketStatusExpired:  true, // sweep timeout, capacity released
	},
	TicketStatusActive: {
		TicketStatusUsed:     true, // use, sets used_at
		TicketStatusCanceled: true, // cancel, no capacity release
	},
}

// CanTransition reports whether the transition from -> to is legal
func CanTransition(from, to TicketStatus) bool {
	return transitions[from][to]
}

// Ticket represents a single admission for one buyer
type Ticket struct {
	ID           string          `json:"id"`
	TicketTypeID string          `json:"ticket_type_id"`
	BuyerID      string          `json:"buyer_id"`
	Code         string          `json:"code"`
	Status       TicketStatus    `json:"status"`
	PricePaid    decimal.Decimal `json:"price_paid"`
	BoughtAt     time.Time       `json:"bought_at"`
	UsedAt       *time.Time      `json:"used_at,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// NewTicketCode generates a globally unique human-readable ticket code
func NewTicketCode() string {
	return "TIX-" + strings.ToUpper(uuid.New().String()[:8])
}

// NewTicket creates a ticket in PENDING_PAYMENT for the given type and buyer.
// The price is fixed at creation time.
func NewTicket(ticketTypeID, buyerID string, price decimal.Decimal) (*Ticket, error) {
	if buyerID == "" {
		return nil, ErrInvalidBuyerID
	}
	if price.IsNegative() {
		return nil, ErrInvalidPrice
	}
	now := time.Now()
	return &Ticket{
		ID:           uuid.New().String(),
		TicketTypeID: ticketTypeID,
		BuyerID:      buyerID,
		Code:         NewTicketCode(),
		Status:       TicketStatusPendingPayment,
		PricePaid:    price,
		BoughtAt:     now,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// BelongsTo reports whether the ticket is owned by the given buyer
func (t *Ticket) BelongsTo(buyerID string) bool {
	return t.BuyerID == buyerID
}

// Transition moves the ticket to the requested status, applying side effects
// (used_at on USED). It rejects anything not in the transition table.
func (t *Ticket) Transition(to TicketStatus) error {
	if !to.IsValid() {
		return fmt.Errorf("%w: unknown status %q", ErrInvalidTransition, to)
	}
	if !CanTransition(t.Status, to) {
		return TransitionError(t.Status, to)
	}
	now := time.Now()
	t.Status = to
	t.UpdatedAt = now
	if to == TicketStatusUsed {
		t.UsedAt = &now
	}
	return nil
}

// ExpiredSince reports whether a PENDING_PAYMENT ticket's hold has outlived
// the timeout at the given instant. Non-pending tickets never expire.
func (t *Ticket) ExpiredSince(now time.Time, holdTimeout time.Duration) bool {
	if t.Status != TicketStatusPendingPayment {
		return false
	}
	return t.BoughtAt.Before(now.Add(-holdTimeout))
}

package domain

import (
	"time"
)

// TicketEventType identifies a ticket lifecycle event on the wire
type TicketEventType string

const (
	TicketEventReserved TicketEventType = "ticket.reserved"
	TicketEventPaid     TicketEventType = "ticket.paid"
	TicketEventUsed     TicketEventType = "ticket.used"
	TicketEventCanceled TicketEventType = "ticket.canceled"
	TicketEventExpired  TicketEventType = "ticket.expired"
)

// TicketEvent is the envelope published to the event stream for every ticket
// lifecycle transition
type TicketEvent struct {
	EventID      string          `json:"event_id"`
	Type         TicketEventType `json:"type"`
	TicketID     string          `json:"ticket_id"`
	TicketTypeID string          `json:"ticket_type_id"`
	BuyerID      string          `json:"buyer_id"`
	Code         string          `json:"code"`
	Status       TicketStatus    `json:"status"`
	OccurredAt   time.Time       `json:"occurred_at"`
}

// NewTicketEvent builds an event envelope from a ticket snapshot
func NewTicketEvent(eventType TicketEventType, ticket *Ticket, eventID string) *TicketEvent {
	return &TicketEvent{
		EventID:      eventID,
		Type:         eventType,
		TicketID:     ticket.ID,
		TicketTypeID: ticket.TicketTypeID,
		BuyerID:      ticket.BuyerID,
		Code:         ticket.Code,
		Status:       ticket.Status,
		OccurredAt:   time.Now(),
	}
}

// Key returns the partition key. Events for the same ticket type land on the
// same partition so per-type ordering is preserved.
func (e *TicketEvent) Key() string {
	return e.TicketTypeID
}

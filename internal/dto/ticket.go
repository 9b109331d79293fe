package dto

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/iuriAvil4/SistemaGestaoDeEventos/internal/domain"
)

// ReserveTicketRequest represents a request to reserve one ticket
type ReserveTicketRequest struct {
	TicketTypeID string `json:"ticket_type_id" binding:"required,uuid"`
}

// ReserveTicketResponse represents the ticket created by a reservation
type ReserveTicketResponse struct {
	TicketID  string          `json:"ticket_id"`
	Code      string          `json:"code"`
	Status    string          `json:"status"`
	PricePaid decimal.Decimal `json:"price_paid"`
	ExpiresAt time.Time       `json:"expires_at"`
}

// TicketResponse represents a ticket in API responses
type TicketResponse struct {
	ID           string          `json:"id"`
	TicketTypeID string          `json:"ticket_type_id"`
	BuyerID      string          `json:"buyer_id"`
	Code         string          `json:"code"`
	Status       string          `json:"status"`
	PricePaid    decimal.Decimal `json:"price_paid"`
	BoughtAt     time.Time       `json:"bought_at"`
	UsedAt       *time.Time      `json:"used_at,omitempty"`
}

// ValidateTicketRequest represents a gate validation request by code
type ValidateTicketRequest struct {
	Code string `json:"code" binding:"required"`
}

// AvailabilityResponse represents the remaining capacity of a ticket type
type AvailabilityResponse struct {
	TicketTypeID      string `json:"ticket_type_id"`
	QuantityAvailable int    `json:"quantity_available"`
}

// TicketFromDomain converts a domain Ticket to its API representation
func TicketFromDomain(t *domain.Ticket) *TicketResponse {
	return &TicketResponse{
		ID:           t.ID,
		TicketTypeID: t.TicketTypeID,
		BuyerID:      t.BuyerID,
		Code:         t.Code,
		Status:       t.Status.String(),
		PricePaid:    t.PricePaid,
		BoughtAt:     t.BoughtAt,
		UsedAt:       t.UsedAt,
	}
}

// TicketsFromDomain converts a slice of domain Tickets
func TicketsFromDomain(tickets []*domain.Ticket) []*TicketResponse {
	out := make([]*TicketResponse, 0, len(tickets))
	for _, t := range tickets {
		out = append(out, TicketFromDomain(t))
	}
	return out
}

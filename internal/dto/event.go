package dto

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/iuriAvil4/SistemaGestaoDeEventos/internal/domain"
)

// CreateEventRequest represents a request to register a new event
type CreateEventRequest struct {
	Title         string    `json:"title" binding:"required"`
	Slug          string    `json:"slug" binding:"required"`
	Description   string    `json:"description"`
	StartDate     time.Time `json:"start_date" binding:"required"`
	EndDate       time.Time `json:"end_date" binding:"required"`
	Location      string    `json:"location" binding:"required"`
	TotalCapacity int       `json:"total_capacity" binding:"required,min=1"`
}

// UpdateEventStatusRequest moves an event through its publication lifecycle
type UpdateEventStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=SKETCH PUBLISHED CANCELED FINISHED"`
}

// EventResponse represents an event in API responses
type EventResponse struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Slug          string    `json:"slug"`
	Description   string    `json:"description"`
	StartDate     time.Time `json:"start_date"`
	EndDate       time.Time `json:"end_date"`
	Location      string    `json:"location"`
	TotalCapacity int       `json:"total_capacity"`
	Status        string    `json:"status"`
	OrganizerID   string    `json:"organizer_id"`
}

// CreateTicketTypeRequest represents a request to add a ticket type to an event
type CreateTicketTypeRequest struct {
	Name        string          `json:"name" binding:"required"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Capacity    int             `json:"capacity" binding:"required,min=1"`
	SaleStart   time.Time       `json:"sale_start" binding:"required"`
	SaleEnd     time.Time       `json:"sale_end" binding:"required"`
}

// UpdateTicketTypeRequest represents mutable ticket type fields
type UpdateTicketTypeRequest struct {
	Description *string          `json:"description,omitempty"`
	Price       *decimal.Decimal `json:"price,omitempty"`
	SaleStart   *time.Time       `json:"sale_start,omitempty"`
	SaleEnd     *time.Time       `json:"sale_end,omitempty"`
}

// TicketTypeResponse represents a ticket type in API responses
type TicketTypeResponse struct {
	ID                string          `json:"id"`
	EventID           string          `json:"event_id"`
	Name              string          `json:"name"`
	Description       string          `json:"description"`
	Price             decimal.Decimal `json:"price"`
	TotalCapacity     int             `json:"total_capacity"`
	QuantityAvailable int             `json:"quantity_available"`
	SaleStart         time.Time       `json:"sale_start"`
	SaleEnd           time.Time       `json:"sale_end"`
	Status            string          `json:"status"`
}

// EventFromDomain converts a domain Event to its API representation
func EventFromDomain(e *domain.Event) *EventResponse {
	return &EventResponse{
		ID:            e.ID,
		Title:         e.Title,
		Slug:          e.Slug,
		Description:   e.Description,
		StartDate:     e.StartDate,
		EndDate:       e.EndDate,
		Location:      e.Location,
		TotalCapacity: e.TotalCapacity,
		Status:        e.Status.String(),
		OrganizerID:   e.OrganizerID,
	}
}

// EventsFromDomain converts a slice of domain Events
func EventsFromDomain(events []*domain.Event) []*EventResponse {
	out := make([]*EventResponse, 0, len(events))
	for _, e := range events {
		out = append(out, EventFromDomain(e))
	}
	return out
}

// TicketTypeFromDomain converts a domain TicketType to its API representation
func TicketTypeFromDomain(tt *domain.TicketType) *TicketTypeResponse {
	return &TicketTypeResponse{
		ID:                tt.ID,
		EventID:           tt.EventID,
		Name:              string(tt.Name),
		Description:       tt.Description,
		Price:             tt.Price,
		TotalCapacity:     tt.TotalCapacity,
		QuantityAvailable: tt.QuantityAvailable,
		SaleStart:         tt.SaleStart,
		SaleEnd:           tt.SaleEnd,
		Status:            tt.Status.String(),
	}
}

// TicketTypesFromDomain converts a slice of domain TicketTypes
func TicketTypesFromDomain(types []*domain.TicketType) []*TicketTypeResponse {
	out := make([]*TicketTypeResponse, 0, len(types))
	for _, tt := range types {
		out = append(out, TicketTypeFromDomain(tt))
	}
	return out
}

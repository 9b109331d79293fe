package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TicketTypeStatus represents whether a ticket type is open for sale
type TicketTypeStatus string

const (
	TicketTypeStatusActive   TicketTypeStatus = "ACTIVE"
	TicketTypeStatusInactive TicketTypeStatus = "INACTIVE"
)

// String returns the string representation of the status
func (s TicketTypeStatus) String() string {
	return string(s)
}

// TicketTypeName is the enumerated admission category of a ticket type
type TicketTypeName string

const (
	TicketTypeNameMeiaEntrada TicketTypeName = "MEIA_ENTRADA"
	TicketTypeNameInteira     TicketTypeName = "INTEIRA"
	TicketTypeNameSocial      TicketTypeName = "SOCIAL"
	TicketTypeNameRegular     TicketTypeName = "REGULAR"
	TicketTypeNameVIP         TicketTypeName = "VIP"
	TicketTypeNameCamarote    TicketTypeName = "CAMAROTE"
)

// IsValid reports whether n is one of the known categories
func (n TicketTypeName) IsValid() bool {
	switch n {
	case TicketTypeNameMeiaEntrada, TicketTypeNameInteira, TicketTypeNameSocial,
		TicketTypeNameRegular, TicketTypeNameVIP, TicketTypeNameCamarote:
		return true
	}
	return false
}

// TicketType is a priced category of admission with its own capacity pool.
// QuantityAvailable is mutated exclusively through the capacity ledger; no
// other code path may write it.
type TicketType struct {
	ID                string           `json:"id"`
	EventID           string           `json:"event_id"`
	Name              TicketTypeName   `json:"name"`
	Description       string           `json:"description"`
	Price             decimal.Decimal  `json:"price"`
	TotalCapacity     int              `json:"total_capacity"`
	QuantityAvailable int              `json:"quantity_available"`
	SaleStart         time.Time        `json:"sale_start"`
	SaleEnd           time.Time        `json:"sale_end"`
	Status            TicketTypeStatus `json:"status"`
	CreatedAt         time.Time        `json:"created_at"`
	UpdatedAt         time.Time        `json:"updated_at"`
}

// NewTicketType creates a ticket type with its full capacity available
func NewTicketType(eventID string, name TicketTypeName, description string, price decimal.Decimal, capacity int, saleStart, saleEnd time.Time) (*TicketType, error) {
	tt := &TicketType{
		ID:                uuid.New().String(),
		EventID:           eventID,
		Name:              name,
		Description:       description,
		Price:             price,
		TotalCapacity:     capacity,
		QuantityAvailable: capacity,
		SaleStart:         saleStart,
		SaleEnd:           saleEnd,
		Status:            TicketTypeStatusActive,
		CreatedAt:         time.Now(),
		UpdatedAt:         time.Now(),
	}
	if err := tt.Validate(); err != nil {
		return nil, err
	}
	return tt, nil
}

// Validate checks the ticket type's own invariants
func (tt *TicketType) Validate() error {
	if tt.TotalCapacity < 1 {
		return ErrInvalidCapacity
	}
	if tt.Price.IsNegative() {
		return ErrInvalidPrice
	}
	if tt.SaleStart.After(tt.SaleEnd) {
		return ErrInvalidSaleWindow
	}
	if tt.Name == TicketTypeNameSocial && tt.Price.IsPositive() {
		return ErrSocialTicketNotFree
	}
	return nil
}

// Sellable reports whether the type may be sold at the given instant:
// the type must be ACTIVE and inside its sale window. Event status is
// checked separately by the coordinator.
func (tt *TicketType) Sellable(now time.Time) bool {
	if tt.Status != TicketTypeStatusActive {
		return false
	}
	if now.Before(tt.SaleStart) || now.After(tt.SaleEnd) {
		return false
	}
	return true
}

package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTicketType(t *testing.T) {
	saleStart := time.Now()
	saleEnd := saleStart.Add(24 * time.Hour)

	t.Run("creates type with full capacity available", func(t *testing.T) {
		tt, err := NewTicketType("event-1", TicketTypeNameVIP, "front row", decimal.NewFromInt(500), 50, saleStart, saleEnd)

		require.NoError(t, err)
		assert.Equal(t, 50, tt.TotalCapacity)
		assert.Equal(t, 50, tt.QuantityAvailable)
		assert.Equal(t, TicketTypeStatusActive, tt.Status)
	})

	t.Run("rejects zero capacity", func(t *testing.T) {
		_, err := NewTicketType("event-1", TicketTypeNameRegular, "", decimal.NewFromInt(100), 0, saleStart, saleEnd)
		assert.ErrorIs(t, err, ErrInvalidCapacity)
	})

	t.Run("rejects negative price", func(t *testing.T) {
		_, err := NewTicketType("event-1", TicketTypeNameRegular, "", decimal.NewFromInt(-10), 10, saleStart, saleEnd)
		assert.ErrorIs(t, err, ErrInvalidPrice)
	})

	t.Run("rejects inverted sale window", func(t *testing.T) {
		_, err := NewTicketType("event-1", TicketTypeNameRegular, "", decimal.NewFromInt(100), 10, saleEnd, saleStart)
		assert.ErrorIs(t, err, ErrInvalidSaleWindow)
	})

	t.Run("rejects paid social ticket", func(t *testing.T) {
		_, err := NewTicketType("event-1", TicketTypeNameSocial, "", decimal.NewFromInt(1), 10, saleStart, saleEnd)
		assert.ErrorIs(t, err, ErrSocialTicketNotFree)
	})

	t.Run("allows free social ticket", func(t *testing.T) {
		tt, err := NewTicketType("event-1", TicketTypeNameSocial, "", decimal.Zero, 10, saleStart, saleEnd)
		require.NoError(t, err)
		assert.Equal(t, TicketTypeNameSocial, tt.Name)
	})
}

func TestTicketTypeSellable(t *testing.T) {
	now := time.Now()
	tt := &TicketType{
		Status:    TicketTypeStatusActive,
		SaleStart: now.Add(-time.Hour),
		SaleEnd:   now.Add(time.Hour),
	}

	assert.True(t, tt.Sellable(now))

	t.Run("not sellable before window", func(t *testing.T) {
		assert.False(t, tt.Sellable(now.Add(-2*time.Hour)))
	})

	t.Run("not sellable after window", func(t *testing.T) {
		assert.False(t, tt.Sellable(now.Add(2*time.Hour)))
	})

	t.Run("not sellable when inactive", func(t *testing.T) {
		inactive := *tt
		inactive.Status = TicketTypeStatusInactive
		assert.False(t, inactive.Sellable(now))
	})
}

func TestTicketTypeNameIsValid(t *testing.T) {
	for _, n := range []TicketTypeName{
		TicketTypeNameMeiaEntrada, TicketTypeNameInteira, TicketTypeNameSocial,
		TicketTypeNameRegular, TicketTypeNameVIP, TicketTypeNameCamarote,
	} {
		assert.True(t, n.IsValid(), n)
	}
	assert.False(t, TicketTypeName("GOLD").IsValid())
}

package domain

import (
	"errors"
	"fmt"
)

// Domain errors
var (
	// Capacity errors
	ErrNoCapacity = errors.New("no tickets available for this type")

	// Ticket lifecycle errors
	ErrInvalidTransition = errors.New("invalid ticket status transition")
	ErrTerminalState     = errors.New("ticket is in a terminal state")

	// Business rule errors
	ErrDuplicateReservation  = errors.New("buyer already holds a ticket of this type")
	ErrTicketTypeNotSellable = errors.New("ticket type is not open for sale")
	ErrEventNotPublished     = errors.New("event is not published")
	ErrSocialTicketNotFree   = errors.New("social tickets must be free")

	// Lookup errors
	ErrTicketNotFound     = errors.New("ticket not found")
	ErrTicketTypeNotFound = errors.New("ticket type not found")
	ErrEventNotFound      = errors.New("event not found")

	// Authorization errors
	ErrUnauthorized = errors.New("actor is not allowed to act on this ticket")

	// Validation errors
	ErrInvalidBuyerID    = errors.New("invalid buyer id")
	ErrInvalidTicketID   = errors.New("invalid ticket id")
	ErrInvalidPrice      = errors.New("price cannot be negative")
	ErrInvalidCapacity   = errors.New("total capacity must be greater than zero")
	ErrInvalidSaleWindow = errors.New("sale start must be before sale end")

	ErrInvalidTicketTypeName = errors.New("unknown ticket type name")

	// Infrastructure errors
	ErrStorageFailure = errors.New("storage failure")
)

// TransitionError builds an invalid-transition error naming the current and
// requested status. Transitions out of a terminal status wrap ErrTerminalState
// so callers can distinguish "ticket is done" from "wrong order of operations".
func TransitionError(from, to TicketStatus) error {
	if from.IsTerminal() {
		return fmt.Errorf("%w: cannot transition from %s to %s", ErrTerminalState, from, to)
	}
	return fmt.Errorf("%w: cannot transition from %s to %s", ErrInvalidTransition, from, to)
}

// IsNotFoundError checks if the error is a not found error
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrTicketNotFound) ||
		errors.Is(err, ErrTicketTypeNotFound) ||
		errors.Is(err, ErrEventNotFound)
}

// IsConflictError checks if the error is a business conflict error
func IsConflictError(err error) bool {
	return errors.Is(err, ErrNoCapacity) ||
		errors.Is(err, ErrDuplicateReservation) ||
		errors.Is(err, ErrInvalidTransition) ||
		errors.Is(err, ErrTerminalState)
}

// IsValidationError checks if the error is a validation error
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidBuyerID) ||
		errors.Is(err, ErrInvalidTicketID) ||
		errors.Is(err, ErrInvalidPrice) ||
		errors.Is(err, ErrInvalidCapacity) ||
		errors.Is(err, ErrInvalidSaleWindow) ||
		errors.Is(err, ErrInvalidTicketTypeName) ||
		errors.Is(err, ErrSocialTicketNotFree)
}

// IsStorageError checks if the error is a transient storage fault that the
// caller may retry with backoff.
func IsStorageError(err error) bool {
	return errors.Is(err, ErrStorageFailure)
}

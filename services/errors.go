package services

import (
	"errors"
	"fmt"
)

// Error kinds surfaced by the core. Handlers map these to HTTP statuses;
// the presentation layer owns all user-visible wording.
var (
	ErrNotFound        = errors.New("not found")
	ErrUnauthorized    = errors.New("not allowed")
	ErrAlreadyOwned    = errors.New("item already owned")
	ErrAlreadyExists   = errors.New("record already exists")
	ErrInvalidState    = errors.New("invalid state transition")
	ErrItemUnavailable = errors.New("item unavailable")
	ErrConflict        = errors.New("concurrent write conflict")
)

// ConfigurationError reports content misconfiguration, e.g. a boss
// fight started with zero questions.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error: %s", e.Reason)
}

// InsufficientFundsError carries the shortfall so the shop UI can show
// how many coins are missing.
type InsufficientFundsError struct {
	Price     int64
	Balance   int64
	Shortfall int64
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("insufficient coins: price %d, balance %d (short %d)", e.Price, e.Balance, e.Shortfall)
}

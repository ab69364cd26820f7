package core

import "errors"

// Error kinds surfaced to callers. The messages on the first three are
// user-visible and returned verbatim by the transport layer; every kind
// leaves prior state unmodified.
var (
	ErrInvalidAmount       = errors.New("amount must be greater than zero")
	ErrInvalidGoal         = errors.New("goal amount must be greater than zero")
	ErrInvalidDate         = errors.New("invalid date")
	ErrInvalidType         = errors.New("invalid transaction type")
	ErrEmptyName           = errors.New("empty name")
	ErrInsufficientBalance = errors.New("cannot withdraw more than the account balance")
	ErrExceedsRemaining    = errors.New("deposited amount exceeds the remaining amount needed")
	ErrNotFound            = errors.New("not found")
)

// IsValidation reports whether err is an input problem the caller can fix
// and re-submit, as opposed to a missing record or an internal failure.
func IsValidation(err error) bool {
	switch {
	case errors.Is(err, ErrInvalidAmount),
		errors.Is(err, ErrInvalidGoal),
		errors.Is(err, ErrInvalidDate),
		errors.Is(err, ErrInvalidType),
		errors.Is(err, ErrEmptyName),
		errors.Is(err, ErrInsufficientBalance),
		errors.Is(err, ErrExceedsRemaining):
		return true
	}
	return false
}

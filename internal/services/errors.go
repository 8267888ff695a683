package services

import "errors"

// Domain errors, mapped to HTTP responses by the handlers. Validation,
// authorization and capacity failures reject before any mutation; capacity
// on the accept path is distinct so the driver can tell "seats were taken"
// apart from bad input.
var (
	ErrNotFound         = errors.New("resource not found")
	ErrValidation       = errors.New("invalid input")
	ErrNotAuthorized    = errors.New("not authorized")
	ErrRoleRequired     = errors.New("required role missing")
	ErrNotEnoughSeats   = errors.New("not enough seats")
	ErrSeatsUnavailable = errors.New("seats no longer available")
	ErrFareMismatch     = errors.New("fare does not match seats and price per seat")
	ErrTripNotOpen      = errors.New("trip is not open")
	ErrTerminalState    = errors.New("status transition from terminal state")
)

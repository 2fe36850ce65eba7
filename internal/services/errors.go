package services

import "errors"

// Service-level sentinel errors. Handlers map these to HTTP statuses.
var (
	ErrValidation           = errors.New("validation failed")
	ErrNotFound             = errors.New("resource not found")
	ErrConflict             = errors.New("resource conflict")
	ErrInvalidCredentials   = errors.New("invalid username or password")
	ErrUserInactive         = errors.New("user account is inactive")
	ErrStaffInactive        = errors.New("staff member is inactive")
	ErrNoOpenSession        = errors.New("no open attendance session to clock out")
	ErrSessionAlreadyOpen   = errors.New("an attendance session is already open")
	ErrInsufficientStock    = errors.New("insufficient stock")
	ErrEmptyTransaction     = errors.New("transaction has no items")
	ErrUnknownPaymentMethod = errors.New("unknown payment method")
)

package ramp

import "errors"

// Service errors
var (
	ErrMissingFields        = errors.New("type, payment method, fiat currency, amount and token are required")
	ErrInvalidType          = errors.New("invalid ramp transaction type")
	ErrInvalidPaymentMethod = errors.New("invalid payment method")
	ErrInvalidAmount        = errors.New("fiat amount must be greater than zero")
	ErrUserNotFound         = errors.New("user not found")
	ErrTokenNotSupported    = errors.New("token is not supported on any configured chain")
	ErrNoLinkedCard         = errors.New("card payments require an active linked card")
	ErrTransactionNotFound  = errors.New("ramp transaction not found")
	ErrInvalidTransition    = errors.New("invalid status transition")
	ErrTerminalStatus       = errors.New("transaction already reached a terminal status")
)

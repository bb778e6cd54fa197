package domain

import "errors"

// Sentinel errors for domain-level error handling.
// The handler layer maps these to HTTP status codes.
var (
	ErrExchangeNotFound       = errors.New("exchange_not_found")
	ErrExchangeNotStarted     = errors.New("exchange_not_started")
	ErrExchangeAlreadyStarted = errors.New("exchange_already_started")
	ErrUserNotFound           = errors.New("user_not_found")
	ErrNameTaken              = errors.New("name_taken")
	ErrStockNotFound          = errors.New("stock_not_found")
	ErrTradeRequestNotFound   = errors.New("trade_request_not_found")
	ErrTradeRequestResolved   = errors.New("trade_request_resolved")
	ErrInsufficientFunds      = errors.New("insufficient_funds")
	ErrInsufficientHoldings   = errors.New("insufficient_holdings")
)

// ValidationError represents a request validation failure.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

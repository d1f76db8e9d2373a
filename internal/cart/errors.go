package cart

import "errors"

var (
	ErrInvalidQuantity  = errors.New("quantity must be a positive integer")
	ErrCurrencyMismatch = errors.New("cart lines must share a single currency")
	ErrLineNotFound     = errors.New("line not found in cart")
	ErrSessionNotFound  = errors.New("cart session not found")
)

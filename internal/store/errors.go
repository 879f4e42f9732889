package store

import "errors"

// Sentinel errors. The first four are only returned when Options.ReportNoOps is set.
var (
	ErrProductNotFound = errors.New("product not found")
	ErrNotInCart       = errors.New("item not in cart")
	ErrInvalidQuantity = errors.New("quantity must be at least 1")
	ErrEmptyCart       = errors.New("cart is empty")
	ErrInvalidVertical = errors.New("invalid vertical")
)

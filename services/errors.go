package services

import "errors"

// Validation failures. Recovered locally, no write is attempted.
var (
	ErrInvalidTableNumber = errors.New("table number must be a whole number of at least 1")
	ErrEmptyCart          = errors.New("cart is empty")
	ErrQuantityTooLow     = errors.New("quantity must be at least 1")
	ErrInvalidOption      = errors.New("option does not belong to this menu item")
)

// Lifecycle guard failures. The order is left untouched.
var (
	ErrOrderNotFound = errors.New("order not found")
	ErrOrderPaid     = errors.New("order is paid and can no longer change status")
	ErrStatusFinal   = errors.New("order status cannot move backward")
)

var (
	ErrMenuNotFound     = errors.New("menu item not found")
	ErrCartLineNotFound = errors.New("cart line not found")
)

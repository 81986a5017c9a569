package domain

import "errors"

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrCorruptSession  = errors.New("corrupt session")
	ErrOrderNotFound   = errors.New("order not found")

	ErrEmptyInput         = errors.New("input is empty")
	ErrUnknownCategory    = errors.New("unknown category")
	ErrUnknownItem        = errors.New("unknown item")
	ErrEmptyCart          = errors.New("cart is empty")
	ErrInvalidFulfillment = errors.New("invalid fulfillment method")
	ErrTableNotNumber     = errors.New("table number is not a number")
	ErrTableOutOfRange    = errors.New("table number out of range")
	ErrInvalidPhone       = errors.New("invalid phone number")
)

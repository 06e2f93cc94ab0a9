package domain

import "errors"

var (
	ErrInvalidName       = errors.New("invalid_name")
	ErrInvalidFinalPrice = errors.New("invalid_final_price")
	ErrInvalidDeposit    = errors.New("invalid_deposit")
	ErrNotFound          = errors.New("order_not_found")
)

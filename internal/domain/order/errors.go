package order

import "errors"

var (
	ErrMissingField    = errors.New("required field is missing")
	ErrMissingProducts = errors.New("at least one product is required")
	ErrNotFound        = errors.New("order not found")
)

package product

import "errors"

var (
	ErrMissingField = errors.New("required field is missing")
	ErrInvalidPrice = errors.New("price must be positive")
	ErrInvalidStock = errors.New("stock cannot be negative")
	ErrOutOfStock   = errors.New("product is out of stock")
	ErrNotFound     = errors.New("product not found")
)

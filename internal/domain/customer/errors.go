package customer

import "errors"

var (
	ErrMissingField   = errors.New("name and email are required")
	ErrInvalidEmail   = errors.New("invalid email format")
	ErrInvalidPhone   = errors.New("phone number must be in format: +1234567890 or 123-456-7890")
	ErrDuplicateEmail = errors.New("email already exists")
	ErrNotFound       = errors.New("customer not found")
)

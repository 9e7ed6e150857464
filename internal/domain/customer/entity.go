package customer

import (
	"regexp"
	"time"
)

// Phone must be either international (+ followed by 10-15 digits) or
// US-dashed (123-456-7890). Email check is intentionally loose: one @, no
// whitespace, a dot in the domain part.
var (
	emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	phonePattern = regexp.MustCompile(`^(\+\d{10,15}|\d{3}-\d{3}-\d{4})$`)
)

type Customer struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func New(id, name, email, phone string) (*Customer, error) {
	if id == "" {
		return nil, ErrMissingField
	}
	if err := ValidateInput(name, email, phone); err != nil {
		return nil, err
	}

	return &Customer{
		ID:        id,
		Name:      name,
		Email:     email,
		Phone:     phone,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// ValidateInput checks shape and format only; email uniqueness is checked
// against the store by the customer service.
func ValidateInput(name, email, phone string) error {
	if name == "" || email == "" {
		return ErrMissingField
	}
	if !emailPattern.MatchString(email) {
		return ErrInvalidEmail
	}
	if phone != "" && !phonePattern.MatchString(phone) {
		return ErrInvalidPhone
	}
	return nil
}

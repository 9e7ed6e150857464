package product

import (
	"time"

	"github.com/shopspring/decimal"
)

// LowStockThreshold is the stock level under which a product counts as
// low-stock for replenishment and reporting.
const LowStockThreshold = 10

type Product struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	CreatedAt   time.Time       `json:"created_at"`
}

func New(id, name, description string, price decimal.Decimal, stock int) (*Product, error) {
	if id == "" || name == "" {
		return nil, ErrMissingField
	}
	if err := ValidateInput(price, stock); err != nil {
		return nil, err
	}

	return &Product{
		ID:          id,
		Name:        name,
		Description: description,
		Price:       price,
		Stock:       stock,
		CreatedAt:   time.Now().UTC(),
	}, nil
}

// ValidateInput enforces a positive price and non-negative stock.
func ValidateInput(price decimal.Decimal, stock int) error {
	if price.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidPrice
	}
	if stock < 0 {
		return ErrInvalidStock
	}
	return nil
}

func (p *Product) IsLowStock() bool {
	return p.Stock < LowStockThreshold
}

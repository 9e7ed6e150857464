package order

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order lifecycle labels. New orders always start as pending.
const (
	StatusPending   = "pending"
	StatusShipped   = "shipped"
	StatusDelivered = "delivered"
	StatusCancelled = "cancelled"
)

type Order struct {
	ID          string          `json:"id"`
	CustomerID  string          `json:"customer_id"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	OrderDate   time.Time       `json:"order_date"`
	Status      string          `json:"status"`
	CreatedAt   time.Time       `json:"created_at"`
	Items       []Item          `json:"items,omitempty"`
}

// Item is owned by its order; price_at_purchase snapshots the product price
// at assembly time and is never recomputed.
type Item struct {
	ID              string          `json:"id"`
	OrderID         string          `json:"order_id"`
	ProductID       string          `json:"product_id"`
	Quantity        int             `json:"quantity"`
	PriceAtPurchase decimal.Decimal `json:"price_at_purchase"`
}

// New builds an empty pending order; items and total are filled in by order
// assembly inside the transaction.
func New(id, customerID string, orderDate time.Time) (*Order, error) {
	if id == "" || customerID == "" {
		return nil, ErrMissingField
	}
	if orderDate.IsZero() {
		orderDate = time.Now().UTC()
	}

	return &Order{
		ID:          id,
		CustomerID:  customerID,
		TotalAmount: decimal.Zero,
		OrderDate:   orderDate,
		Status:      StatusPending,
		CreatedAt:   time.Now().UTC(),
	}, nil
}

// ValidateInput checks the create-order arguments before any store access.
func ValidateInput(customerID string, productIDs []string) error {
	if customerID == "" {
		return ErrMissingField
	}
	if len(productIDs) == 0 {
		return ErrMissingProducts
	}
	return nil
}

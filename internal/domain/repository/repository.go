package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"crm_backend/internal/domain/customer"
	"crm_backend/internal/domain/order"
	"crm_backend/internal/domain/product"
)

// Transactor runs fn inside one store transaction. Repository calls made
// with the ctx passed to fn see and join that transaction; any error or
// panic rolls everything back.
type Transactor interface {
	InTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type CustomerRepository interface {
	Insert(ctx context.Context, c *customer.Customer) error
	FindByID(ctx context.Context, id string) (*customer.Customer, error)
	FindByEmail(ctx context.Context, email string) (*customer.Customer, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	List(ctx context.Context, filter CustomerFilter, sort Sort) ([]customer.Customer, error)
	Count(ctx context.Context) (int, error)
	DeleteAll(ctx context.Context) error
}

type ProductRepository interface {
	Insert(ctx context.Context, p *product.Product) error
	FindByID(ctx context.Context, id string) (*product.Product, error)
	// FindByIDForUpdate locks the product row for the rest of the enclosing
	// transaction so a stock check-then-decrement cannot race.
	FindByIDForUpdate(ctx context.Context, id string) (*product.Product, error)
	UpdateStock(ctx context.Context, id string, stock int) error
	ListLowStockForUpdate(ctx context.Context, threshold int) ([]product.Product, error)
	List(ctx context.Context, filter ProductFilter, sort Sort) ([]product.Product, error)
	DeleteAll(ctx context.Context) error
}

type OrderRepository interface {
	// Insert persists the order together with its items.
	Insert(ctx context.Context, o *order.Order) error
	FindByID(ctx context.Context, id string) (*order.Order, error)
	List(ctx context.Context, filter OrderFilter, sort Sort) ([]order.Order, error)
	DeleteAll(ctx context.Context) error
}

// CustomerFilter narrows customer reads; zero values mean "no constraint".
type CustomerFilter struct {
	NameContains  string
	EmailContains string
	PhonePrefix   string
	CreatedFrom   *time.Time
	CreatedTo     *time.Time
}

type ProductFilter struct {
	NameContains string
	PriceMin     *decimal.Decimal
	PriceMax     *decimal.Decimal
	StockMin     *int
	StockMax     *int
	LowStock     bool
}

// OrderFilter includes related-entity predicates; filtering by product name
// or id joins against order items and must not duplicate orders that match
// through more than one item.
type OrderFilter struct {
	Status        string
	CustomerID    string
	TotalMin      *decimal.Decimal
	TotalMax      *decimal.Decimal
	DateFrom      *time.Time
	DateTo        *time.Time
	CustomerName  string
	ProductName   string
	ProductID     string
	CustomerEmail string
}

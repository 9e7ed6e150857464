package order

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"crm_backend/internal/domain/customer"
	domain "crm_backend/internal/domain/order"
	"crm_backend/internal/domain/product"
	"crm_backend/internal/domain/repository"
	"crm_backend/pkg/logger"
)

// Publisher pushes an encoded order-created event to the message bus.
type Publisher interface {
	PublishOrderCreated(ctx context.Context, payload []byte) error
}

type Service struct {
	customers repository.CustomerRepository
	products  repository.ProductRepository
	orders    repository.OrderRepository
	tx        repository.Transactor
	publisher Publisher
	log       logger.Logger
}

type CreateCommand struct {
	CustomerID string     `json:"customer_id"`
	ProductIDs []string   `json:"product_ids"`
	OrderDate  *time.Time `json:"order_date"`
}

// OrderCreatedEvent must stay in sync with the Avro schema in
// infrastructure/encoding/avro.
type OrderCreatedEvent struct {
	OrderID     string `json:"order_id"`
	CustomerID  string `json:"customer_id"`
	TotalAmount string `json:"total_amount"`
	Status      string `json:"status"`
	OrderDate   string `json:"order_date"`
	ItemCount   int    `json:"item_count"`
}

func NewService(
	customers repository.CustomerRepository,
	products repository.ProductRepository,
	orders repository.OrderRepository,
	tx repository.Transactor,
	publisher Publisher,
	log logger.Logger,
) *Service {
	return &Service{
		customers: customers,
		products:  products,
		orders:    orders,
		tx:        tx,
		publisher: publisher,
		log:       log,
	}
}

// Create assembles one order in a single transaction. Each product id is
// locked, checked and decremented in input order, so a repeated id sees the
// stock its earlier entries already took. Every entry becomes one item with
// quantity 1 priced at the product's current price. Any failure rolls the
// whole order back.
func (s *Service) Create(ctx context.Context, cmd CreateCommand) (*domain.Order, error) {
	if err := domain.ValidateInput(cmd.CustomerID, cmd.ProductIDs); err != nil {
		return nil, err
	}

	var created *domain.Order
	err := s.tx.InTx(ctx, func(ctx context.Context) error {
		cust, err := s.customers.FindByID(ctx, cmd.CustomerID)
		if err != nil {
			return fmt.Errorf("resolve customer: %w", err)
		}
		if cust == nil {
			return fmt.Errorf("customer %s: %w", cmd.CustomerID, customer.ErrNotFound)
		}

		var orderDate time.Time
		if cmd.OrderDate != nil {
			orderDate = *cmd.OrderDate
		}
		o, err := domain.New(uuid.NewString(), cust.ID, orderDate)
		if err != nil {
			return err
		}

		total := decimal.Zero
		for _, productID := range cmd.ProductIDs {
			p, err := s.products.FindByIDForUpdate(ctx, productID)
			if err != nil {
				return fmt.Errorf("resolve product: %w", err)
			}
			if p == nil {
				return fmt.Errorf("product %s: %w", productID, product.ErrNotFound)
			}
			if p.Stock <= 0 {
				return fmt.Errorf("product %q: %w", p.Name, product.ErrOutOfStock)
			}

			if err := s.products.UpdateStock(ctx, p.ID, p.Stock-1); err != nil {
				return fmt.Errorf("decrement stock: %w", err)
			}

			o.Items = append(o.Items, domain.Item{
				ID:              uuid.NewString(),
				OrderID:         o.ID,
				ProductID:       p.ID,
				Quantity:        1,
				PriceAtPurchase: p.Price,
			})
			total = total.Add(p.Price)
		}

		o.TotalAmount = total
		if err := s.orders.Insert(ctx, o); err != nil {
			return fmt.Errorf("save order: %w", err)
		}

		created = o
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("order created",
		logger.String("order_id", created.ID),
		logger.String("customer_id", created.CustomerID),
		logger.String("total_amount", created.TotalAmount.String()),
		logger.Int("items", len(created.Items)),
	)

	s.publishCreated(ctx, created)
	return created, nil
}

// publishCreated is best-effort: the order is already committed, so a broker
// failure is logged and swallowed.
func (s *Service) publishCreated(ctx context.Context, o *domain.Order) {
	if s.publisher == nil {
		return
	}

	payload, err := json.Marshal(OrderCreatedEvent{
		OrderID:     o.ID,
		CustomerID:  o.CustomerID,
		TotalAmount: o.TotalAmount.String(),
		Status:      o.Status,
		OrderDate:   o.OrderDate.UTC().Format(time.RFC3339),
		ItemCount:   len(o.Items),
	})
	if err != nil {
		s.log.Error("encode order event", logger.Error(err))
		return
	}

	if err := s.publisher.PublishOrderCreated(ctx, payload); err != nil {
		s.log.Warn("publish order event failed",
			logger.String("order_id", o.ID),
			logger.Error(err),
		)
	}
}

func (s *Service) List(ctx context.Context, filter repository.OrderFilter, sort repository.Sort) ([]domain.Order, error) {
	return s.orders.List(ctx, filter, sort)
}

func (s *Service) FindByID(ctx context.Context, id string) (*domain.Order, error) {
	return s.orders.FindByID(ctx, id)
}

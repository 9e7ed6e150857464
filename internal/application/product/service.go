package product

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	domain "crm_backend/internal/domain/product"
	"crm_backend/internal/domain/repository"
	"crm_backend/pkg/logger"
)

// DefaultReplenishIncrement is added to each low-stock product when the
// caller does not supply an increment.
const DefaultReplenishIncrement = 10

type Service struct {
	products repository.ProductRepository
	tx       repository.Transactor
	log      logger.Logger
}

type CreateCommand struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
}

func NewService(products repository.ProductRepository, tx repository.Transactor, log logger.Logger) *Service {
	return &Service{products: products, tx: tx, log: log}
}

func (s *Service) Create(ctx context.Context, cmd CreateCommand) (*domain.Product, error) {
	p, err := domain.New(uuid.NewString(), cmd.Name, cmd.Description, cmd.Price, cmd.Stock)
	if err != nil {
		return nil, err
	}

	if err := s.products.Insert(ctx, p); err != nil {
		return nil, fmt.Errorf("save product: %w", err)
	}

	s.log.Info("product created",
		logger.String("product_id", p.ID),
		logger.String("name", p.Name),
	)
	return p, nil
}

// ReplenishLowStock adds increment to the stock of every product currently
// below the low-stock threshold, in one transaction, and returns the updated
// products plus a count summary.
func (s *Service) ReplenishLowStock(ctx context.Context, increment int) ([]domain.Product, string, error) {
	if increment <= 0 {
		increment = DefaultReplenishIncrement
	}

	var updated []domain.Product
	err := s.tx.InTx(ctx, func(ctx context.Context) error {
		low, err := s.products.ListLowStockForUpdate(ctx, domain.LowStockThreshold)
		if err != nil {
			return fmt.Errorf("list low-stock products: %w", err)
		}

		for _, p := range low {
			p.Stock += increment
			if err := s.products.UpdateStock(ctx, p.ID, p.Stock); err != nil {
				return fmt.Errorf("update stock for %s: %w", p.ID, err)
			}
			updated = append(updated, p)
		}
		return nil
	})
	if err != nil {
		return nil, "", err
	}

	message := fmt.Sprintf("Updated %d low-stock products. Stock increased by %d each.", len(updated), increment)
	s.log.Info("low-stock replenishment finished",
		logger.Int("updated", len(updated)),
		logger.Int("increment", increment),
	)
	return updated, message, nil
}

func (s *Service) List(ctx context.Context, filter repository.ProductFilter, sort repository.Sort) ([]domain.Product, error) {
	return s.products.List(ctx, filter, sort)
}

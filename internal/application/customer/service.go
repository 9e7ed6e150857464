package customer

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"crm_backend/internal/config"
	domain "crm_backend/internal/domain/customer"
	"crm_backend/internal/domain/repository"
	"crm_backend/pkg/logger"
)

// errBatchAborted forces the bulk-create transaction to roll back under the
// atomic policy; it never leaves the service.
var errBatchAborted = errors.New("bulk create aborted")

type Service struct {
	customers repository.CustomerRepository
	tx        repository.Transactor
	policy    string
	log       logger.Logger
}

type CreateCommand struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

func NewService(customers repository.CustomerRepository, tx repository.Transactor, policy string, log logger.Logger) *Service {
	if policy == "" {
		policy = config.PolicyPartial
	}
	return &Service{customers: customers, tx: tx, policy: policy, log: log}
}

func (s *Service) Create(ctx context.Context, cmd CreateCommand) (*domain.Customer, error) {
	if err := domain.ValidateInput(cmd.Name, cmd.Email, cmd.Phone); err != nil {
		return nil, err
	}

	exists, err := s.customers.EmailExists(ctx, cmd.Email)
	if err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	}
	if exists {
		return nil, fmt.Errorf("email %q: %w", cmd.Email, domain.ErrDuplicateEmail)
	}

	c, err := domain.New(uuid.NewString(), cmd.Name, cmd.Email, cmd.Phone)
	if err != nil {
		return nil, err
	}

	if err := s.customers.Insert(ctx, c); err != nil {
		return nil, fmt.Errorf("save customer: %w", err)
	}

	s.log.Info("customer created",
		logger.String("customer_id", c.ID),
		logger.String("email", c.Email),
	)
	return c, nil
}

// BulkCreate validates and inserts each entry independently inside one
// transaction. Failed entries are reported as "Customer <n>: <reason>" with
// 1-based positions. Under the partial policy successful entries commit even
// when others fail; under the atomic policy any failure rolls back the batch.
func (s *Service) BulkCreate(ctx context.Context, cmds []CreateCommand) ([]domain.Customer, []string, error) {
	var (
		created []domain.Customer
		errs    []string
	)

	err := s.tx.InTx(ctx, func(ctx context.Context) error {
		seen := make(map[string]struct{}, len(cmds))

		for i, cmd := range cmds {
			pos := i + 1

			if err := domain.ValidateInput(cmd.Name, cmd.Email, cmd.Phone); err != nil {
				errs = append(errs, fmt.Sprintf("Customer %d: %v", pos, err))
				continue
			}
			if _, dup := seen[cmd.Email]; dup {
				errs = append(errs, fmt.Sprintf("Customer %d: email already in batch", pos))
				continue
			}

			exists, err := s.customers.EmailExists(ctx, cmd.Email)
			if err != nil {
				return fmt.Errorf("check email: %w", err)
			}
			if exists {
				errs = append(errs, fmt.Sprintf("Customer %d: email already exists", pos))
				continue
			}

			c, err := domain.New(uuid.NewString(), cmd.Name, cmd.Email, cmd.Phone)
			if err != nil {
				errs = append(errs, fmt.Sprintf("Customer %d: %v", pos, err))
				continue
			}
			if err := s.customers.Insert(ctx, c); err != nil {
				return fmt.Errorf("save customer: %w", err)
			}

			seen[cmd.Email] = struct{}{}
			created = append(created, *c)
		}

		if s.policy == config.PolicyAtomic && len(errs) > 0 {
			return errBatchAborted
		}
		return nil
	})

	if errors.Is(err, errBatchAborted) {
		s.log.Warn("bulk create rolled back",
			logger.Int("entries", len(cmds)),
			logger.Int("failed", len(errs)),
		)
		return nil, errs, nil
	}
	if err != nil {
		return nil, nil, err
	}

	s.log.Info("bulk create finished",
		logger.Int("created", len(created)),
		logger.Int("failed", len(errs)),
	)
	return created, errs, nil
}

func (s *Service) List(ctx context.Context, filter repository.CustomerFilter, sort repository.Sort) ([]domain.Customer, error) {
	return s.customers.List(ctx, filter, sort)
}

func (s *Service) FindByEmail(ctx context.Context, email string) (*domain.Customer, error) {
	return s.customers.FindByEmail(ctx, email)
}

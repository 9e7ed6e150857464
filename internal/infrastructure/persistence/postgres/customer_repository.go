package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	domain "crm_backend/internal/domain/customer"
	"crm_backend/internal/domain/repository"
)

type CustomerRepository struct {
	db *DB
}

func NewCustomerRepository(db *DB) *CustomerRepository {
	return &CustomerRepository{db: db}
}

var customerSortColumns = map[string]string{
	"name":       "name",
	"email":      "email",
	"created_at": "created_at",
}

func (r *CustomerRepository) Insert(ctx context.Context, c *domain.Customer) error {
	if c == nil {
		return fmt.Errorf("customer is nil")
	}

	const query = `
		INSERT INTO customers (id, name, email, phone, created_at)
		VALUES ($1, $2, $3, $4, $5);
	`

	_, err := r.db.querier(ctx).Exec(ctx, query, c.ID, c.Name, c.Email, c.Phone, c.CreatedAt)
	return err
}

func (r *CustomerRepository) FindByID(ctx context.Context, id string) (*domain.Customer, error) {
	const query = `
		SELECT id, name, email, phone, created_at
		FROM customers
		WHERE id = $1;
	`
	return r.scanOne(r.db.querier(ctx).QueryRow(ctx, query, id))
}

func (r *CustomerRepository) FindByEmail(ctx context.Context, email string) (*domain.Customer, error) {
	const query = `
		SELECT id, name, email, phone, created_at
		FROM customers
		WHERE email = $1;
	`
	return r.scanOne(r.db.querier(ctx).QueryRow(ctx, query, email))
}

func (r *CustomerRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM customers WHERE email = $1);`

	var exists bool
	if err := r.db.querier(ctx).QueryRow(ctx, query, email).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *CustomerRepository) List(ctx context.Context, filter repository.CustomerFilter, sort repository.Sort) ([]domain.Customer, error) {
	var (
		conds []string
		args  []any
	)

	if filter.NameContains != "" {
		args = append(args, "%"+filter.NameContains+"%")
		conds = append(conds, fmt.Sprintf("name ILIKE $%d", len(args)))
	}
	if filter.EmailContains != "" {
		args = append(args, "%"+filter.EmailContains+"%")
		conds = append(conds, fmt.Sprintf("email ILIKE $%d", len(args)))
	}
	if filter.PhonePrefix != "" {
		args = append(args, filter.PhonePrefix+"%")
		conds = append(conds, fmt.Sprintf("phone LIKE $%d", len(args)))
	}
	if filter.CreatedFrom != nil {
		args = append(args, *filter.CreatedFrom)
		conds = append(conds, fmt.Sprintf("created_at >= $%d", len(args)))
	}
	if filter.CreatedTo != nil {
		args = append(args, *filter.CreatedTo)
		conds = append(conds, fmt.Sprintf("created_at <= $%d", len(args)))
	}

	query := `SELECT id, name, email, phone, created_at FROM customers`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += orderBy(customerSortColumns, sort, "created_at")

	rows, err := r.db.querier(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Customer
	for rows.Next() {
		var c domain.Customer
		if err := rows.Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *CustomerRepository) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.querier(ctx).QueryRow(ctx, `SELECT count(*) FROM customers;`).Scan(&n)
	return n, err
}

func (r *CustomerRepository) DeleteAll(ctx context.Context) error {
	_, err := r.db.querier(ctx).Exec(ctx, `DELETE FROM customers;`)
	return err
}

func (r *CustomerRepository) scanOne(row pgx.Row) (*domain.Customer, error) {
	var c domain.Customer
	err := row.Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// orderBy renders the ORDER BY clause, falling back to the default column
// when the requested field is not in the allowlist.
func orderBy(allowed map[string]string, sort repository.Sort, defaultColumn string) string {
	column, ok := allowed[sort.Field]
	if !ok {
		column = defaultColumn
	}
	direction := "ASC"
	if sort.Desc {
		direction = "DESC"
	}
	return fmt.Sprintf(" ORDER BY %s %s", column, direction)
}

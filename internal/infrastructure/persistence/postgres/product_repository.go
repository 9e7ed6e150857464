package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	domain "crm_backend/internal/domain/product"
	"crm_backend/internal/domain/repository"
)

type ProductRepository struct {
	db *DB
}

func NewProductRepository(db *DB) *ProductRepository {
	return &ProductRepository{db: db}
}

var productSortColumns = map[string]string{
	"name":       "name",
	"price":      "price",
	"stock":      "stock",
	"created_at": "created_at",
}

// Prices are NUMERIC in the store; they travel as text so decimal values
// never round-trip through floats.
const productColumns = `id, name, description, price::text, stock, created_at`

func (r *ProductRepository) Insert(ctx context.Context, p *domain.Product) error {
	if p == nil {
		return fmt.Errorf("product is nil")
	}

	const query = `
		INSERT INTO products (id, name, description, price, stock, created_at)
		VALUES ($1, $2, $3, $4::numeric, $5, $6);
	`

	_, err := r.db.querier(ctx).Exec(ctx, query,
		p.ID,
		p.Name,
		p.Description,
		p.Price.String(),
		p.Stock,
		p.CreatedAt,
	)
	return err
}

func (r *ProductRepository) FindByID(ctx context.Context, id string) (*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1;`
	return scanProduct(r.db.querier(ctx).QueryRow(ctx, query, id))
}

// FindByIDForUpdate must run inside a transaction; the row lock is held
// until that transaction commits or rolls back.
func (r *ProductRepository) FindByIDForUpdate(ctx context.Context, id string) (*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1 FOR UPDATE;`
	return scanProduct(r.db.querier(ctx).QueryRow(ctx, query, id))
}

func (r *ProductRepository) UpdateStock(ctx context.Context, id string, stock int) error {
	const query = `UPDATE products SET stock = $2 WHERE id = $1;`

	tag, err := r.db.querier(ctx).Exec(ctx, query, id, stock)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *ProductRepository) ListLowStockForUpdate(ctx context.Context, threshold int) ([]domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE stock < $1 ORDER BY name ASC FOR UPDATE;`

	rows, err := r.db.querier(ctx).Query(ctx, query, threshold)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectProducts(rows)
}

func (r *ProductRepository) List(ctx context.Context, filter repository.ProductFilter, sort repository.Sort) ([]domain.Product, error) {
	var (
		conds []string
		args  []any
	)

	if filter.NameContains != "" {
		args = append(args, "%"+filter.NameContains+"%")
		conds = append(conds, fmt.Sprintf("name ILIKE $%d", len(args)))
	}
	if filter.PriceMin != nil {
		args = append(args, filter.PriceMin.String())
		conds = append(conds, fmt.Sprintf("price >= $%d::numeric", len(args)))
	}
	if filter.PriceMax != nil {
		args = append(args, filter.PriceMax.String())
		conds = append(conds, fmt.Sprintf("price <= $%d::numeric", len(args)))
	}
	if filter.StockMin != nil {
		args = append(args, *filter.StockMin)
		conds = append(conds, fmt.Sprintf("stock >= $%d", len(args)))
	}
	if filter.StockMax != nil {
		args = append(args, *filter.StockMax)
		conds = append(conds, fmt.Sprintf("stock <= $%d", len(args)))
	}
	if filter.LowStock {
		args = append(args, domain.LowStockThreshold)
		conds = append(conds, fmt.Sprintf("stock < $%d", len(args)))
	}

	query := `SELECT ` + productColumns + ` FROM products`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += orderBy(productSortColumns, sort, "created_at")

	rows, err := r.db.querier(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectProducts(rows)
}

func (r *ProductRepository) DeleteAll(ctx context.Context) error {
	_, err := r.db.querier(ctx).Exec(ctx, `DELETE FROM products;`)
	return err
}

func scanProduct(row pgx.Row) (*domain.Product, error) {
	p, err := scanProductRow(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

func scanProductRow(row pgx.Row) (*domain.Product, error) {
	var (
		p        domain.Product
		priceRaw string
	)
	if err := row.Scan(&p.ID, &p.Name, &p.Description, &priceRaw, &p.Stock, &p.CreatedAt); err != nil {
		return nil, err
	}

	price, err := decimal.NewFromString(priceRaw)
	if err != nil {
		return nil, fmt.Errorf("parse price %q: %w", priceRaw, err)
	}
	p.Price = price
	return &p, nil
}

func collectProducts(rows pgx.Rows) ([]domain.Product, error) {
	var out []domain.Product
	for rows.Next() {
		p, err := scanProductRow(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

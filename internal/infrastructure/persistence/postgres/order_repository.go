package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	domain "crm_backend/internal/domain/order"
	"crm_backend/internal/domain/repository"
)

type OrderRepository struct {
	db *DB
}

func NewOrderRepository(db *DB) *OrderRepository {
	return &OrderRepository{db: db}
}

var orderSortColumns = map[string]string{
	"order_date":   "o.order_date",
	"total_amount": "o.total_amount",
	"status":       "o.status",
	"created_at":   "o.created_at",
}

func (r *OrderRepository) Insert(ctx context.Context, o *domain.Order) error {
	if o == nil {
		return fmt.Errorf("order is nil")
	}

	const orderQuery = `
		INSERT INTO orders (id, customer_id, total_amount, order_date, status, created_at)
		VALUES ($1, $2, $3::numeric, $4, $5, $6);
	`
	const itemQuery = `
		INSERT INTO order_items (id, order_id, product_id, quantity, price_at_purchase)
		VALUES ($1, $2, $3, $4, $5::numeric);
	`

	q := r.db.querier(ctx)
	_, err := q.Exec(ctx, orderQuery,
		o.ID,
		o.CustomerID,
		o.TotalAmount.String(),
		o.OrderDate,
		o.Status,
		o.CreatedAt,
	)
	if err != nil {
		return err
	}

	for _, item := range o.Items {
		_, err := q.Exec(ctx, itemQuery,
			item.ID,
			item.OrderID,
			item.ProductID,
			item.Quantity,
			item.PriceAtPurchase.String(),
		)
		if err != nil {
			return err
		}
	}
	return nil
}

func (r *OrderRepository) FindByID(ctx context.Context, id string) (*domain.Order, error) {
	const query = `
		SELECT id, customer_id, total_amount::text, order_date, status, created_at
		FROM orders
		WHERE id = $1;
	`

	o, err := scanOrder(r.db.querier(ctx).QueryRow(ctx, query, id))
	if err != nil || o == nil {
		return nil, err
	}

	items, err := r.loadItems(ctx, o.ID)
	if err != nil {
		return nil, err
	}
	o.Items = items
	return o, nil
}

// List returns orders without their items. Joins introduced by product
// filters are collapsed with DISTINCT so an order matching through two
// items still appears once.
func (r *OrderRepository) List(ctx context.Context, filter repository.OrderFilter, sort repository.Sort) ([]domain.Order, error) {
	var (
		joins []string
		conds []string
		args  []any
	)

	if filter.CustomerName != "" || filter.CustomerEmail != "" {
		joins = append(joins, "JOIN customers c ON c.id = o.customer_id")
	}
	if filter.ProductName != "" || filter.ProductID != "" {
		joins = append(joins,
			"JOIN order_items i ON i.order_id = o.id",
			"JOIN products p ON p.id = i.product_id",
		)
	}

	if filter.Status != "" {
		args = append(args, filter.Status)
		conds = append(conds, fmt.Sprintf("o.status = $%d", len(args)))
	}
	if filter.CustomerID != "" {
		args = append(args, filter.CustomerID)
		conds = append(conds, fmt.Sprintf("o.customer_id = $%d", len(args)))
	}
	if filter.TotalMin != nil {
		args = append(args, filter.TotalMin.String())
		conds = append(conds, fmt.Sprintf("o.total_amount >= $%d::numeric", len(args)))
	}
	if filter.TotalMax != nil {
		args = append(args, filter.TotalMax.String())
		conds = append(conds, fmt.Sprintf("o.total_amount <= $%d::numeric", len(args)))
	}
	if filter.DateFrom != nil {
		args = append(args, *filter.DateFrom)
		conds = append(conds, fmt.Sprintf("o.order_date >= $%d", len(args)))
	}
	if filter.DateTo != nil {
		args = append(args, *filter.DateTo)
		conds = append(conds, fmt.Sprintf("o.order_date <= $%d", len(args)))
	}
	if filter.CustomerName != "" {
		args = append(args, "%"+filter.CustomerName+"%")
		conds = append(conds, fmt.Sprintf("c.name ILIKE $%d", len(args)))
	}
	if filter.CustomerEmail != "" {
		args = append(args, "%"+filter.CustomerEmail+"%")
		conds = append(conds, fmt.Sprintf("c.email ILIKE $%d", len(args)))
	}
	if filter.ProductName != "" {
		args = append(args, "%"+filter.ProductName+"%")
		conds = append(conds, fmt.Sprintf("p.name ILIKE $%d", len(args)))
	}
	if filter.ProductID != "" {
		args = append(args, filter.ProductID)
		conds = append(conds, fmt.Sprintf("p.id = $%d", len(args)))
	}

	query := `SELECT DISTINCT o.id, o.customer_id, o.total_amount::text, o.order_date, o.status, o.created_at FROM orders o`
	if len(joins) > 0 {
		query += " " + strings.Join(joins, " ")
	}
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += orderBy(orderSortColumns, sort, "o.created_at")

	rows, err := r.db.querier(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Order
	for rows.Next() {
		o, err := scanOrderRow(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *o)
	}
	return out, rows.Err()
}

func (r *OrderRepository) DeleteAll(ctx context.Context) error {
	// order_items go with their orders via ON DELETE CASCADE.
	_, err := r.db.querier(ctx).Exec(ctx, `DELETE FROM orders;`)
	return err
}

func (r *OrderRepository) loadItems(ctx context.Context, orderID string) ([]domain.Item, error) {
	const query = `
		SELECT id, order_id, product_id, quantity, price_at_purchase::text
		FROM order_items
		WHERE order_id = $1
		ORDER BY id;
	`

	rows, err := r.db.querier(ctx).Query(ctx, query, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.Item
	for rows.Next() {
		var (
			item     domain.Item
			priceRaw string
		)
		if err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.Quantity, &priceRaw); err != nil {
			return nil, err
		}
		price, err := decimal.NewFromString(priceRaw)
		if err != nil {
			return nil, fmt.Errorf("parse price_at_purchase %q: %w", priceRaw, err)
		}
		item.PriceAtPurchase = price
		items = append(items, item)
	}
	return items, rows.Err()
}

func scanOrder(row pgx.Row) (*domain.Order, error) {
	o, err := scanOrderRow(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return o, nil
}

func scanOrderRow(row pgx.Row) (*domain.Order, error) {
	var (
		o        domain.Order
		totalRaw string
	)
	if err := row.Scan(&o.ID, &o.CustomerID, &totalRaw, &o.OrderDate, &o.Status, &o.CreatedAt); err != nil {
		return nil, err
	}

	total, err := decimal.NewFromString(totalRaw)
	if err != nil {
		return nil, fmt.Errorf("parse total_amount %q: %w", totalRaw, err)
	}
	o.TotalAmount = total
	return &o, nil
}

package main

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"crm_backend/internal/config"
	customerdomain "crm_backend/internal/domain/customer"
	orderdomain "crm_backend/internal/domain/order"
	productdomain "crm_backend/internal/domain/product"
	"crm_backend/internal/infrastructure/persistence/postgres"
)

// Fixed ids make the seed idempotent against a cleared database and easy to
// reference in manual testing.
var seedCustomers = []customerdomain.Customer{
	{ID: "11111111-1111-1111-1111-111111111111", Name: "Alice Johnson", Email: "alice@example.com", Phone: "+1234567890"},
	{ID: "22222222-2222-2222-2222-222222222222", Name: "Bob Smith", Email: "bob@example.com", Phone: "123-456-7890"},
	{ID: "33333333-3333-3333-3333-333333333333", Name: "Carol Williams", Email: "carol@example.com", Phone: "+1987654321"},
	{ID: "44444444-4444-4444-4444-444444444444", Name: "David Brown", Email: "david@example.com", Phone: "987-654-3210"},
	{ID: "55555555-5555-5555-5555-555555555555", Name: "Eva Davis", Email: "eva@example.com", Phone: "+1122334455"},
}

var seedProducts = []productdomain.Product{
	{ID: "aaaaaaaa-aaaa-aaaa-aaaa-aaaaaaaaaaaa", Name: "Laptop Pro", Description: "High-performance laptop with 16GB RAM, 512GB SSD", Price: decimal.RequireFromString("1299.99"), Stock: 15},
	{ID: "bbbbbbbb-bbbb-bbbb-bbbb-bbbbbbbbbbbb", Name: "Smartphone X", Description: "Latest smartphone with 128GB storage", Price: decimal.RequireFromString("899.99"), Stock: 30},
	{ID: "cccccccc-cccc-cccc-cccc-cccccccccccc", Name: "Wireless Headphones", Description: "Noise-cancelling wireless headphones", Price: decimal.RequireFromString("249.99"), Stock: 50},
	{ID: "dddddddd-dddd-dddd-dddd-dddddddddddd", Name: "Smart Watch", Description: "Fitness tracking smartwatch with GPS", Price: decimal.RequireFromString("299.99"), Stock: 25},
	{ID: "eeeeeeee-eeee-eeee-eeee-eeeeeeeeeeee", Name: "Tablet Air", Description: "Lightweight tablet with 10-inch display", Price: decimal.RequireFromString("499.99"), Stock: 20},
}

// customer index -> (product index, quantity) pairs.
var seedOrders = []struct {
	customer int
	items    [][2]int
}{
	{customer: 0, items: [][2]int{{0, 1}, {2, 2}}},
	{customer: 1, items: [][2]int{{1, 1}, {3, 1}}},
	{customer: 2, items: [][2]int{{4, 1}, {2, 1}, {3, 1}}},
	{customer: 3, items: [][2]int{{0, 2}, {1, 1}}},
	{customer: 4, items: [][2]int{{2, 3}, {4, 1}}},
}

func seedCommand(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "clear the database and load sample customers, products and orders",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeed(cmd.Context(), cfg)
		},
	}
}

func clearCommand(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "delete all customers, products and orders",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runClear(cmd.Context(), cfg)
		},
	}
}

func runClear(ctx context.Context, cfg *config.Config) error {
	pool, err := postgres.NewPool(cfg.DB)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer pool.Close()
	db := postgres.NewDB(pool)

	err = db.InTx(ctx, func(ctx context.Context) error {
		if err := postgres.NewOrderRepository(db).DeleteAll(ctx); err != nil {
			return err
		}
		if err := postgres.NewProductRepository(db).DeleteAll(ctx); err != nil {
			return err
		}
		return postgres.NewCustomerRepository(db).DeleteAll(ctx)
	})
	if err != nil {
		return fmt.Errorf("clear data: %w", err)
	}

	fmt.Println("Cleared existing data")
	return nil
}

func runSeed(ctx context.Context, cfg *config.Config) error {
	pool, err := postgres.NewPool(cfg.DB)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer pool.Close()
	db := postgres.NewDB(pool)

	customerRepo := postgres.NewCustomerRepository(db)
	productRepo := postgres.NewProductRepository(db)
	orderRepo := postgres.NewOrderRepository(db)

	err = db.InTx(ctx, func(ctx context.Context) error {
		if err := orderRepo.DeleteAll(ctx); err != nil {
			return err
		}
		if err := productRepo.DeleteAll(ctx); err != nil {
			return err
		}
		if err := customerRepo.DeleteAll(ctx); err != nil {
			return err
		}

		now := time.Now().UTC()

		for i := range seedCustomers {
			c := seedCustomers[i]
			c.CreatedAt = now
			if err := customerRepo.Insert(ctx, &c); err != nil {
				return fmt.Errorf("seed customer %s: %w", c.Email, err)
			}
			fmt.Printf("Created customer: %s (%s)\n", c.Name, c.Email)
		}

		// Seeded orders consume stock, so products are stored with the
		// post-order quantities.
		stocks := make([]int, len(seedProducts))
		for i := range seedProducts {
			stocks[i] = seedProducts[i].Stock
		}
		for _, spec := range seedOrders {
			for _, item := range spec.items {
				stocks[item[0]] -= item[1]
			}
		}

		for i := range seedProducts {
			p := seedProducts[i]
			p.Stock = stocks[i]
			p.CreatedAt = now
			if err := productRepo.Insert(ctx, &p); err != nil {
				return fmt.Errorf("seed product %s: %w", p.Name, err)
			}
			fmt.Printf("Created product: %s - $%s (Stock: %d)\n", p.Name, p.Price.StringFixed(2), p.Stock)
		}

		for _, spec := range seedOrders {
			o, err := orderdomain.New(uuid.NewString(), seedCustomers[spec.customer].ID, now)
			if err != nil {
				return err
			}
			o.Status = orderdomain.StatusDelivered

			total := decimal.Zero
			for _, item := range spec.items {
				p := seedProducts[item[0]]
				o.Items = append(o.Items, orderdomain.Item{
					ID:              uuid.NewString(),
					OrderID:         o.ID,
					ProductID:       p.ID,
					Quantity:        item[1],
					PriceAtPurchase: p.Price,
				})
				total = total.Add(p.Price.Mul(decimal.NewFromInt(int64(item[1]))))
			}
			o.TotalAmount = total

			if err := orderRepo.Insert(ctx, o); err != nil {
				return fmt.Errorf("seed order for %s: %w", seedCustomers[spec.customer].Name, err)
			}
			fmt.Printf("Created order: %s for %s - Total: $%s\n", o.ID, seedCustomers[spec.customer].Name, o.TotalAmount.StringFixed(2))
		}

		return nil
	})
	if err != nil {
		return err
	}

	fmt.Printf("Seeding completed: %d customers, %d products, %d orders\n",
		len(seedCustomers), len(seedProducts), len(seedOrders))
	return nil
}

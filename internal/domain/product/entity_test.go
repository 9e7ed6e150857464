package product

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateInput(t *testing.T) {
	tests := []struct {
		name    string
		price   decimal.Decimal
		stock   int
		wantErr error
	}{
		{
			name:  "valid",
			price: decimal.NewFromFloat(10.50),
			stock: 5,
		},
		{
			name:  "zero stock is fine",
			price: decimal.NewFromFloat(0.01),
			stock: 0,
		},
		{
			name:    "zero price",
			price:   decimal.Zero,
			stock:   5,
			wantErr: ErrInvalidPrice,
		},
		{
			name:    "negative price",
			price:   decimal.NewFromFloat(-1.00),
			stock:   5,
			wantErr: ErrInvalidPrice,
		},
		{
			name:    "negative stock",
			price:   decimal.NewFromFloat(10.00),
			stock:   -1,
			wantErr: ErrInvalidStock,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateInput(tt.price, tt.stock)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNew(t *testing.T) {
	p, err := New("p-1", "Laptop Pro", "High-performance laptop", decimal.NewFromFloat(1299.99), 15)

	require.NoError(t, err)
	assert.Equal(t, "Laptop Pro", p.Name)
	assert.Equal(t, 15, p.Stock)
	assert.False(t, p.IsLowStock())
}

func TestIsLowStock(t *testing.T) {
	p := Product{Stock: LowStockThreshold - 1}
	assert.True(t, p.IsLowStock())

	p.Stock = LowStockThreshold
	assert.False(t, p.IsLowStock())
}

package report

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	customerdomain "crm_backend/internal/domain/customer"
	orderdomain "crm_backend/internal/domain/order"
	productdomain "crm_backend/internal/domain/product"
	"crm_backend/internal/domain/repository"
	"crm_backend/pkg/logger"
)

type MockCustomerRepository struct {
	mock.Mock
}

func (m *MockCustomerRepository) Insert(ctx context.Context, c *customerdomain.Customer) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockCustomerRepository) FindByID(ctx context.Context, id string) (*customerdomain.Customer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*customerdomain.Customer), args.Error(1)
}

func (m *MockCustomerRepository) FindByEmail(ctx context.Context, email string) (*customerdomain.Customer, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*customerdomain.Customer), args.Error(1)
}

func (m *MockCustomerRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *MockCustomerRepository) List(ctx context.Context, filter repository.CustomerFilter, sort repository.Sort) ([]customerdomain.Customer, error) {
	args := m.Called(ctx, filter, sort)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]customerdomain.Customer), args.Error(1)
}

func (m *MockCustomerRepository) Count(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *MockCustomerRepository) DeleteAll(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) Insert(ctx context.Context, o *orderdomain.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) FindByID(ctx context.Context, id string) (*orderdomain.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*orderdomain.Order), args.Error(1)
}

func (m *MockOrderRepository) List(ctx context.Context, filter repository.OrderFilter, sort repository.Sort) ([]orderdomain.Order, error) {
	args := m.Called(ctx, filter, sort)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]orderdomain.Order), args.Error(1)
}

func (m *MockOrderRepository) DeleteAll(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) Insert(ctx context.Context, p *productdomain.Product) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockProductRepository) FindByID(ctx context.Context, id string) (*productdomain.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*productdomain.Product), args.Error(1)
}

func (m *MockProductRepository) FindByIDForUpdate(ctx context.Context, id string) (*productdomain.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*productdomain.Product), args.Error(1)
}

func (m *MockProductRepository) UpdateStock(ctx context.Context, id string, stock int) error {
	args := m.Called(ctx, id, stock)
	return args.Error(0)
}

func (m *MockProductRepository) ListLowStockForUpdate(ctx context.Context, threshold int) ([]productdomain.Product, error) {
	args := m.Called(ctx, threshold)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]productdomain.Product), args.Error(1)
}

func (m *MockProductRepository) List(ctx context.Context, filter repository.ProductFilter, sort repository.Sort) ([]productdomain.Product, error) {
	args := m.Called(ctx, filter, sort)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]productdomain.Product), args.Error(1)
}

func (m *MockProductRepository) DeleteAll(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// memorySink collects appended blocks for assertions.
type memorySink struct {
	blocks []string
	err    error
}

func (s *memorySink) Append(line string) error {
	if s.err != nil {
		return s.err
	}
	s.blocks = append(s.blocks, line)
	return nil
}

type fakeRecorder struct {
	last *RunStatus
}

func (r *fakeRecorder) RecordReportRun(_ context.Context, status RunStatus) error {
	r.last = &status
	return nil
}

func TestService_Generate(t *testing.T) {
	customers := new(MockCustomerRepository)
	orders := new(MockOrderRepository)
	products := new(MockProductRepository)
	reportSink := &memorySink{}
	summarySink := &memorySink{}
	recorder := &fakeRecorder{}
	svc := NewService(customers, orders, products, reportSink, summarySink, recorder, logger.NewNop())
	svc.now = func() time.Time {
		return time.Date(2026, 8, 21, 10, 30, 0, 0, time.UTC)
	}
	ctx := context.Background()

	customers.On("Count", ctx).Return(3, nil)
	orders.On("List", ctx, repository.OrderFilter{}, repository.Sort{}).Return([]orderdomain.Order{
		{ID: "o-1", Status: orderdomain.StatusPending, TotalAmount: decimal.RequireFromString("10.00"),
			OrderDate: time.Date(2026, 8, 20, 9, 0, 0, 0, time.UTC)},
		{ID: "o-2", Status: orderdomain.StatusDelivered, TotalAmount: decimal.RequireFromString("5.50"),
			OrderDate: time.Date(2026, 8, 19, 9, 0, 0, 0, time.UTC)},
	}, nil)
	products.On("List", ctx, repository.ProductFilter{}, repository.Sort{}).Return([]productdomain.Product{
		{ID: "p-1", Name: "Smart Watch", Price: decimal.RequireFromString("2.00"), Stock: 5},
		{ID: "p-2", Name: "Laptop Pro", Price: decimal.RequireFromString("1.00"), Stock: 20},
	}, nil)

	status, err := svc.Generate(ctx, "weekly")

	require.NoError(t, err)
	assert.Equal(t, 3, status.Customers)
	assert.Equal(t, 2, status.Orders)
	assert.Equal(t, "$15.50", status.Revenue)
	assert.Equal(t, "success", status.Status)
	require.NotNil(t, recorder.last)
	assert.Equal(t, "weekly", recorder.last.ReportType)

	require.Len(t, reportSink.blocks, 1)
	block := reportSink.blocks[0]
	assert.Contains(t, block, "CRM Weekly Report - Generated: 2026-08-21 10:30:00")
	assert.Contains(t, block, "  - Total Customers: 3")
	assert.Contains(t, block, "  - Total Orders: 2")
	assert.Contains(t, block, "  - Total Revenue: $15.50")
	assert.Contains(t, block, "  - Total Product Inventory Value: $30.00")
	assert.Contains(t, block, "    - Pending: 1 (50.0%)")
	assert.Contains(t, block, "    - Delivered: 1 (50.0%)")
	assert.Contains(t, block, "  - Low Stock Products (< 10): 1")
	assert.Contains(t, block, "  - Average Product Price: $1.20")
	assert.Contains(t, block, "  - 2026-08-20: 1 orders")

	require.Len(t, summarySink.blocks, 1)
	assert.Equal(t, "2026-08-21 10:30:00 - Weekly Report: 3 customers, 2 orders, $15.50 revenue", summarySink.blocks[0])
}

func TestService_Generate_ErrorIsLogged(t *testing.T) {
	customers := new(MockCustomerRepository)
	orders := new(MockOrderRepository)
	products := new(MockProductRepository)
	reportSink := &memorySink{}
	svc := NewService(customers, orders, products, reportSink, &memorySink{}, nil, logger.NewNop())
	ctx := context.Background()

	customers.On("Count", ctx).Return(0, errors.New("connection refused"))

	_, err := svc.Generate(ctx, "daily")

	require.Error(t, err)
	require.Len(t, reportSink.blocks, 1)
	assert.Contains(t, reportSink.blocks[0], "Error generating CRM report")
	assert.Contains(t, reportSink.blocks[0], "connection refused")
}

func TestReminderService_SendReminders(t *testing.T) {
	customers := new(MockCustomerRepository)
	orders := new(MockOrderRepository)
	sink := &memorySink{}
	svc := NewReminderService(customers, orders, sink, logger.NewNop())
	svc.now = func() time.Time {
		return time.Date(2026, 8, 21, 8, 0, 0, 0, time.UTC)
	}
	ctx := context.Background()

	orderDate := time.Date(2026, 8, 18, 14, 0, 0, 0, time.UTC)
	orders.On("List", ctx, mock.MatchedBy(func(f repository.OrderFilter) bool {
		return f.Status == orderdomain.StatusPending && f.DateFrom != nil
	}), repository.Sort{}).Return([]orderdomain.Order{
		{ID: "o-1", CustomerID: "c-1", OrderDate: orderDate, TotalAmount: decimal.RequireFromString("99.90")},
	}, nil)
	customers.On("FindByID", ctx, "c-1").Return(&customerdomain.Customer{
		ID: "c-1", Name: "Alice Johnson", Email: "alice@example.com",
	}, nil)

	count, err := svc.SendReminders(ctx)

	require.NoError(t, err)
	assert.Equal(t, 1, count)
	require.Len(t, sink.blocks, 1)
	assert.Contains(t, sink.blocks[0], "Order Reminders - 2026-08-21 08:00:00")
	assert.Contains(t, sink.blocks[0], "Order ID: o-1, Customer: Alice Johnson (alice@example.com)")
	assert.Contains(t, sink.blocks[0], "Amount: $99.90")
}

func TestReminderService_SendReminders_NonePending(t *testing.T) {
	customers := new(MockCustomerRepository)
	orders := new(MockOrderRepository)
	sink := &memorySink{}
	svc := NewReminderService(customers, orders, sink, logger.NewNop())
	ctx := context.Background()

	orders.On("List", ctx, mock.Anything, repository.Sort{}).Return([]orderdomain.Order{}, nil)

	count, err := svc.SendReminders(ctx)

	require.NoError(t, err)
	assert.Zero(t, count)
	require.Len(t, sink.blocks, 1)
	assert.Contains(t, sink.blocks[0], "No pending orders found from the last 7 days.")
	customers.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
}

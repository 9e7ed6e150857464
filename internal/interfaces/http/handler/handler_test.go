package handler

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	customerapp "crm_backend/internal/application/customer"
	orderapp "crm_backend/internal/application/order"
	productapp "crm_backend/internal/application/product"
	customerdomain "crm_backend/internal/domain/customer"
	orderdomain "crm_backend/internal/domain/order"
	productdomain "crm_backend/internal/domain/product"
	"crm_backend/internal/domain/repository"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubCustomerService struct {
	createFn func(ctx context.Context, cmd customerapp.CreateCommand) (*customerdomain.Customer, error)
	bulkFn   func(ctx context.Context, cmds []customerapp.CreateCommand) ([]customerdomain.Customer, []string, error)
	listFn   func(ctx context.Context, filter repository.CustomerFilter, sort repository.Sort) ([]customerdomain.Customer, error)
}

func (s *stubCustomerService) Create(ctx context.Context, cmd customerapp.CreateCommand) (*customerdomain.Customer, error) {
	return s.createFn(ctx, cmd)
}

func (s *stubCustomerService) BulkCreate(ctx context.Context, cmds []customerapp.CreateCommand) ([]customerdomain.Customer, []string, error) {
	return s.bulkFn(ctx, cmds)
}

func (s *stubCustomerService) List(ctx context.Context, filter repository.CustomerFilter, sort repository.Sort) ([]customerdomain.Customer, error) {
	return s.listFn(ctx, filter, sort)
}

type stubProductService struct {
	createFn    func(ctx context.Context, cmd productapp.CreateCommand) (*productdomain.Product, error)
	replenishFn func(ctx context.Context, increment int) ([]productdomain.Product, string, error)
	listFn      func(ctx context.Context, filter repository.ProductFilter, sort repository.Sort) ([]productdomain.Product, error)
}

func (s *stubProductService) Create(ctx context.Context, cmd productapp.CreateCommand) (*productdomain.Product, error) {
	return s.createFn(ctx, cmd)
}

func (s *stubProductService) ReplenishLowStock(ctx context.Context, increment int) ([]productdomain.Product, string, error) {
	return s.replenishFn(ctx, increment)
}

func (s *stubProductService) List(ctx context.Context, filter repository.ProductFilter, sort repository.Sort) ([]productdomain.Product, error) {
	return s.listFn(ctx, filter, sort)
}

type stubOrderService struct {
	createFn func(ctx context.Context, cmd orderapp.CreateCommand) (*orderdomain.Order, error)
	listFn   func(ctx context.Context, filter repository.OrderFilter, sort repository.Sort) ([]orderdomain.Order, error)
}

func (s *stubOrderService) Create(ctx context.Context, cmd orderapp.CreateCommand) (*orderdomain.Order, error) {
	return s.createFn(ctx, cmd)
}

func (s *stubOrderService) List(ctx context.Context, filter repository.OrderFilter, sort repository.Sort) ([]orderdomain.Order, error) {
	return s.listFn(ctx, filter, sort)
}

func doRequest(engine *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	return rec
}

func TestHello(t *testing.T) {
	engine := gin.New()
	engine.GET("/api/hello", Hello)

	rec := doRequest(engine, http.MethodGet, "/api/hello", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Hello, CRM is up!")
}

func TestCustomerHandler_Create(t *testing.T) {
	svc := &stubCustomerService{
		createFn: func(_ context.Context, cmd customerapp.CreateCommand) (*customerdomain.Customer, error) {
			return &customerdomain.Customer{ID: "c-1", Name: cmd.Name, Email: cmd.Email}, nil
		},
	}
	engine := gin.New()
	engine.POST("/api/customers", NewCustomerHandler(svc).Create)

	rec := doRequest(engine, http.MethodPost, "/api/customers",
		`{"name":"Alice Johnson","email":"alice@example.com","phone":"+1234567890"}`)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), "Customer created successfully")
	assert.Contains(t, rec.Body.String(), "alice@example.com")
}

func TestCustomerHandler_Create_DuplicateEmail(t *testing.T) {
	svc := &stubCustomerService{
		createFn: func(context.Context, customerapp.CreateCommand) (*customerdomain.Customer, error) {
			return nil, fmt.Errorf("email %q: %w", "alice@example.com", customerdomain.ErrDuplicateEmail)
		},
	}
	engine := gin.New()
	engine.POST("/api/customers", NewCustomerHandler(svc).Create)

	rec := doRequest(engine, http.MethodPost, "/api/customers",
		`{"name":"Alice Johnson","email":"alice@example.com"}`)

	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestCustomerHandler_Create_InvalidPhone(t *testing.T) {
	svc := &stubCustomerService{
		createFn: func(context.Context, customerapp.CreateCommand) (*customerdomain.Customer, error) {
			return nil, customerdomain.ErrInvalidPhone
		},
	}
	engine := gin.New()
	engine.POST("/api/customers", NewCustomerHandler(svc).Create)

	rec := doRequest(engine, http.MethodPost, "/api/customers",
		`{"name":"Alice Johnson","email":"alice@example.com","phone":"nope"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCustomerHandler_BulkCreate(t *testing.T) {
	svc := &stubCustomerService{
		bulkFn: func(_ context.Context, cmds []customerapp.CreateCommand) ([]customerdomain.Customer, []string, error) {
			require.Len(t, cmds, 2)
			return []customerdomain.Customer{{ID: "c-1"}}, []string{"Customer 2: email already exists"}, nil
		},
	}
	engine := gin.New()
	engine.POST("/api/customers/bulk", NewCustomerHandler(svc).BulkCreate)

	rec := doRequest(engine, http.MethodPost, "/api/customers/bulk",
		`{"customers":[{"name":"A","email":"a@example.com"},{"name":"B","email":"b@example.com"}]}`)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), "Customer 2: email already exists")
}

func TestCustomerHandler_BulkCreate_EmptyList(t *testing.T) {
	engine := gin.New()
	engine.POST("/api/customers/bulk", NewCustomerHandler(&stubCustomerService{}).BulkCreate)

	rec := doRequest(engine, http.MethodPost, "/api/customers/bulk", `{"customers":[]}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCustomerHandler_List_ParsesFilter(t *testing.T) {
	var got repository.CustomerFilter
	var gotSort repository.Sort
	svc := &stubCustomerService{
		listFn: func(_ context.Context, filter repository.CustomerFilter, sort repository.Sort) ([]customerdomain.Customer, error) {
			got = filter
			gotSort = sort
			return nil, nil
		},
	}
	engine := gin.New()
	engine.GET("/api/customers", NewCustomerHandler(svc).List)

	rec := doRequest(engine, http.MethodGet,
		"/api/customers?name=ali&phone_prefix=%2B1&created_from=2026-01-01&sort=-created_at", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ali", got.NameContains)
	assert.Equal(t, "+1", got.PhonePrefix)
	require.NotNil(t, got.CreatedFrom)
	assert.Equal(t, "created_at", gotSort.Field)
	assert.True(t, gotSort.Desc)
	assert.Contains(t, rec.Body.String(), `"customers":[]`)
}

func TestProductHandler_Replenish(t *testing.T) {
	svc := &stubProductService{
		replenishFn: func(_ context.Context, increment int) ([]productdomain.Product, string, error) {
			assert.Equal(t, 5, increment)
			return []productdomain.Product{{ID: "p-1", Stock: 8}},
				"Updated 1 low-stock products. Stock increased by 5 each.", nil
		},
	}
	engine := gin.New()
	engine.POST("/api/products/replenish", NewProductHandler(svc).Replenish)

	rec := doRequest(engine, http.MethodPost, "/api/products/replenish", `{"increment_by":5}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Stock increased by 5 each.")
}

func TestProductHandler_List_InvalidPrice(t *testing.T) {
	engine := gin.New()
	engine.GET("/api/products", NewProductHandler(&stubProductService{}).List)

	rec := doRequest(engine, http.MethodGet, "/api/products?price_min=abc", "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestOrderHandler_Create(t *testing.T) {
	svc := &stubOrderService{
		createFn: func(_ context.Context, cmd orderapp.CreateCommand) (*orderdomain.Order, error) {
			assert.Equal(t, "c-1", cmd.CustomerID)
			assert.Equal(t, []string{"p-1", "p-2"}, cmd.ProductIDs)
			return &orderdomain.Order{
				ID:          "o-1",
				CustomerID:  cmd.CustomerID,
				Status:      orderdomain.StatusPending,
				TotalAmount: decimal.RequireFromString("15.00"),
			}, nil
		},
	}
	engine := gin.New()
	engine.POST("/api/orders", NewOrderHandler(svc).Create)

	rec := doRequest(engine, http.MethodPost, "/api/orders",
		`{"customer_id":"c-1","product_ids":["p-1","p-2"]}`)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), "Order created successfully")
}

func TestOrderHandler_Create_OutOfStock(t *testing.T) {
	svc := &stubOrderService{
		createFn: func(context.Context, orderapp.CreateCommand) (*orderdomain.Order, error) {
			return nil, fmt.Errorf("product %q: %w", "Laptop Pro", productdomain.ErrOutOfStock)
		},
	}
	engine := gin.New()
	engine.POST("/api/orders", NewOrderHandler(svc).Create)

	rec := doRequest(engine, http.MethodPost, "/api/orders",
		`{"customer_id":"c-1","product_ids":["p-1"]}`)

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "Laptop Pro")
}

func TestOrderHandler_Create_CustomerNotFound(t *testing.T) {
	svc := &stubOrderService{
		createFn: func(context.Context, orderapp.CreateCommand) (*orderdomain.Order, error) {
			return nil, fmt.Errorf("customer missing: %w", customerdomain.ErrNotFound)
		},
	}
	engine := gin.New()
	engine.POST("/api/orders", NewOrderHandler(svc).Create)

	rec := doRequest(engine, http.MethodPost, "/api/orders",
		`{"customer_id":"missing","product_ids":["p-1"]}`)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestOrderHandler_List_ParsesRelatedFilters(t *testing.T) {
	var got repository.OrderFilter
	svc := &stubOrderService{
		listFn: func(_ context.Context, filter repository.OrderFilter, sort repository.Sort) ([]orderdomain.Order, error) {
			got = filter
			return nil, nil
		},
	}
	engine := gin.New()
	engine.GET("/api/orders", NewOrderHandler(svc).List)

	rec := doRequest(engine, http.MethodGet,
		"/api/orders?status=pending&customer_name=Alice&product_id=p-1&total_min=10.50", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "pending", got.Status)
	assert.Equal(t, "Alice", got.CustomerName)
	assert.Equal(t, "p-1", got.ProductID)
	require.NotNil(t, got.TotalMin)
	assert.True(t, got.TotalMin.Equal(decimal.RequireFromString("10.50")))
}

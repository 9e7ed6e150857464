package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	app "crm_backend/internal/application/order"
	domain "crm_backend/internal/domain/order"
	"crm_backend/internal/domain/repository"
)

type OrderService interface {
	Create(ctx context.Context, cmd app.CreateCommand) (*domain.Order, error)
	List(ctx context.Context, filter repository.OrderFilter, sort repository.Sort) ([]domain.Order, error)
}

type OrderHandler struct {
	svc OrderService
}

func NewOrderHandler(svc OrderService) *OrderHandler {
	return &OrderHandler{svc: svc}
}

type createOrderRequest struct {
	CustomerID string   `json:"customer_id"`
	ProductIDs []string `json:"product_ids"`
	OrderDate  string   `json:"order_date"`
}

func (h *OrderHandler) Create(c *gin.Context) {
	var req createOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	cmd := app.CreateCommand{
		CustomerID: req.CustomerID,
		ProductIDs: req.ProductIDs,
	}
	if req.OrderDate != "" {
		t, err := time.Parse(time.RFC3339, req.OrderDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order_date"})
			return
		}
		cmd.OrderDate = &t
	}

	created, err := h.svc.Create(c.Request.Context(), cmd)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"order":   created,
		"message": "Order created successfully",
	})
}

func (h *OrderHandler) List(c *gin.Context) {
	totalMin, err := queryDecimal(c, "total_min")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid total_min"})
		return
	}
	totalMax, err := queryDecimal(c, "total_max")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid total_max"})
		return
	}
	dateFrom, err := queryTime(c, "date_from")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date_from"})
		return
	}
	dateTo, err := queryTime(c, "date_to")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date_to"})
		return
	}

	filter := repository.OrderFilter{
		Status:        c.Query("status"),
		CustomerID:    c.Query("customer_id"),
		TotalMin:      totalMin,
		TotalMax:      totalMax,
		DateFrom:      dateFrom,
		DateTo:        dateTo,
		CustomerName:  c.Query("customer_name"),
		CustomerEmail: c.Query("customer_email"),
		ProductName:   c.Query("product_name"),
		ProductID:     c.Query("product_id"),
	}

	orders, err := h.svc.List(c.Request.Context(), filter, repository.ParseSort(c.Query("sort")))
	if err != nil {
		respondError(c, err)
		return
	}
	if orders == nil {
		orders = []domain.Order{}
	}

	c.JSON(http.StatusOK, gin.H{"orders": orders})
}

package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	app "crm_backend/internal/application/product"
	domain "crm_backend/internal/domain/product"
	"crm_backend/internal/domain/repository"
)

type ProductService interface {
	Create(ctx context.Context, cmd app.CreateCommand) (*domain.Product, error)
	ReplenishLowStock(ctx context.Context, increment int) ([]domain.Product, string, error)
	List(ctx context.Context, filter repository.ProductFilter, sort repository.Sort) ([]domain.Product, error)
}

type ProductHandler struct {
	svc ProductService
}

func NewProductHandler(svc ProductService) *ProductHandler {
	return &ProductHandler{svc: svc}
}

func (h *ProductHandler) Create(c *gin.Context) {
	var cmd app.CreateCommand
	if err := c.ShouldBindJSON(&cmd); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	created, err := h.svc.Create(c.Request.Context(), cmd)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"product": created,
		"message": "Product created successfully",
	})
}

type replenishRequest struct {
	IncrementBy int `json:"increment_by"`
}

func (h *ProductHandler) Replenish(c *gin.Context) {
	var req replenishRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	updated, message, err := h.svc.ReplenishLowStock(c.Request.Context(), req.IncrementBy)
	if err != nil {
		respondError(c, err)
		return
	}
	if updated == nil {
		updated = []domain.Product{}
	}

	c.JSON(http.StatusOK, gin.H{
		"updated_products": updated,
		"message":          message,
	})
}

func (h *ProductHandler) List(c *gin.Context) {
	priceMin, err := queryDecimal(c, "price_min")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid price_min"})
		return
	}
	priceMax, err := queryDecimal(c, "price_max")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid price_max"})
		return
	}
	stockMin, err := queryInt(c, "stock_min")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid stock_min"})
		return
	}
	stockMax, err := queryInt(c, "stock_max")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid stock_max"})
		return
	}

	filter := repository.ProductFilter{
		NameContains: c.Query("name"),
		PriceMin:     priceMin,
		PriceMax:     priceMax,
		StockMin:     stockMin,
		StockMax:     stockMax,
		LowStock:     c.Query("low_stock") == "true",
	}

	products, err := h.svc.List(c.Request.Context(), filter, repository.ParseSort(c.Query("sort")))
	if err != nil {
		respondError(c, err)
		return
	}
	if products == nil {
		products = []domain.Product{}
	}

	c.JSON(http.StatusOK, gin.H{"products": products})
}

package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	app "crm_backend/internal/application/customer"
	domain "crm_backend/internal/domain/customer"
	"crm_backend/internal/domain/repository"
)

// CustomerService is the slice of the customer application service the
// handlers need.
type CustomerService interface {
	Create(ctx context.Context, cmd app.CreateCommand) (*domain.Customer, error)
	BulkCreate(ctx context.Context, cmds []app.CreateCommand) ([]domain.Customer, []string, error)
	List(ctx context.Context, filter repository.CustomerFilter, sort repository.Sort) ([]domain.Customer, error)
}

type CustomerHandler struct {
	svc CustomerService
}

func NewCustomerHandler(svc CustomerService) *CustomerHandler {
	return &CustomerHandler{svc: svc}
}

func (h *CustomerHandler) Create(c *gin.Context) {
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
		"customer": created,
		"message":  "Customer created successfully",
	})
}

type bulkCreateRequest struct {
	Customers []app.CreateCommand `json:"customers"`
}

// BulkCreate answers 201 even when some entries fail; the per-entry errors
// ride along in the response body.
func (h *CustomerHandler) BulkCreate(c *gin.Context) {
	var req bulkCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if len(req.Customers) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "customers list is empty"})
		return
	}

	created, entryErrs, err := h.svc.BulkCreate(c.Request.Context(), req.Customers)
	if err != nil {
		respondError(c, err)
		return
	}
	if created == nil {
		created = []domain.Customer{}
	}
	if entryErrs == nil {
		entryErrs = []string{}
	}

	c.JSON(http.StatusCreated, gin.H{
		"created": created,
		"errors":  entryErrs,
	})
}

func (h *CustomerHandler) List(c *gin.Context) {
	createdFrom, err := queryTime(c, "created_from")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid created_from"})
		return
	}
	createdTo, err := queryTime(c, "created_to")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid created_to"})
		return
	}

	filter := repository.CustomerFilter{
		NameContains:  c.Query("name"),
		EmailContains: c.Query("email"),
		PhonePrefix:   c.Query("phone_prefix"),
		CreatedFrom:   createdFrom,
		CreatedTo:     createdTo,
	}

	customers, err := h.svc.List(c.Request.Context(), filter, repository.ParseSort(c.Query("sort")))
	if err != nil {
		respondError(c, err)
		return
	}
	if customers == nil {
		customers = []domain.Customer{}
	}

	c.JSON(http.StatusOK, gin.H{"customers": customers})
}

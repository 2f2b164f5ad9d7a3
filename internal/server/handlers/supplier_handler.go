package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/resaledesk/internal/calc"
	"github.com/mamadbah2/resaledesk/internal/domain/models"
)

// SupplierService is the supplier directory surface used over HTTP.
type SupplierService interface {
	List(ctx context.Context) ([]models.Supplier, error)
	Get(ctx context.Context, id string) (models.Supplier, error)
	Create(ctx context.Context, supplier models.Supplier) (models.Supplier, error)
	Update(ctx context.Context, id string, supplier models.Supplier) (models.Supplier, error)
	Delete(ctx context.Context, id string) error
	LandedCost(ctx context.Context, id string, opts ...calc.LandedOption) (calc.LandedCost, error)
}

// SupplierHandler serves the supplier directory.
type SupplierHandler struct {
	svc    SupplierService
	logger *zap.Logger
}

// NewSupplierHandler constructs the supplier handler.
func NewSupplierHandler(svc SupplierService, logger *zap.Logger) *SupplierHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SupplierHandler{svc: svc, logger: logger}
}

// List returns every supplier.
func (h *SupplierHandler) List(c *gin.Context) {
	list, err := h.svc.List(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, "failed to list suppliers", err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// Get returns one supplier.
func (h *SupplierHandler) Get(c *gin.Context) {
	s, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, "failed to load supplier", err)
		return
	}
	c.JSON(http.StatusOK, s)
}

// Create adds a supplier.
func (h *SupplierHandler) Create(c *gin.Context) {
	var body models.Supplier
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, h.logger, err)
		return
	}
	s, err := h.svc.Create(c.Request.Context(), body)
	if err != nil {
		respondError(c, h.logger, "failed to create supplier", err)
		return
	}
	c.JSON(http.StatusCreated, s)
}

// Update replaces a supplier.
func (h *SupplierHandler) Update(c *gin.Context) {
	var body models.Supplier
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, h.logger, err)
		return
	}
	s, err := h.svc.Update(c.Request.Context(), c.Param("id"), body)
	if err != nil {
		respondError(c, h.logger, "failed to update supplier", err)
		return
	}
	c.JSON(http.StatusOK, s)
}

// Delete removes a supplier.
func (h *SupplierHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, h.logger, "failed to delete supplier", err)
		return
	}
	c.Status(http.StatusNoContent)
}

type landedQuery struct {
	DutyRate  *float64 `form:"dutyRate"`
	OtherFees float64  `form:"otherFees"`
}

// LandedCost prices a minimum order from the supplier.
func (h *SupplierHandler) LandedCost(c *gin.Context) {
	var q landedQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, h.logger, err)
		return
	}
	opts := []calc.LandedOption{calc.WithOtherFees(q.OtherFees)}
	if q.DutyRate != nil {
		opts = append(opts, calc.WithDutyRate(*q.DutyRate))
	}
	lc, err := h.svc.LandedCost(c.Request.Context(), c.Param("id"), opts...)
	if err != nil {
		respondError(c, h.logger, "failed to calculate landed cost", err)
		return
	}
	c.JSON(http.StatusOK, lc)
}

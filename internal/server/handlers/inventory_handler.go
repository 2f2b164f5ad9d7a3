package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/resaledesk/internal/calc"
	"github.com/mamadbah2/resaledesk/internal/domain/models"
	"github.com/mamadbah2/resaledesk/internal/service/inventory"
)

// InventoryService is the inventory surface used over HTTP.
type InventoryService interface {
	List(ctx context.Context) ([]models.InventoryItem, error)
	Get(ctx context.Context, id string) (models.InventoryItem, error)
	Create(ctx context.Context, in inventory.CreateInput) (models.InventoryItem, error)
	Update(ctx context.Context, id string, in inventory.UpdateInput) (models.InventoryItem, error)
	ChangeStatus(ctx context.Context, id string, change inventory.StatusChange) (models.InventoryItem, error)
	Delete(ctx context.Context, id string) error
	Stats(ctx context.Context) (calc.InventoryStats, error)
}

// InventoryHandler serves the item lifecycle endpoints.
type InventoryHandler struct {
	svc    InventoryService
	logger *zap.Logger
}

// NewInventoryHandler constructs the inventory handler.
func NewInventoryHandler(svc InventoryService, logger *zap.Logger) *InventoryHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InventoryHandler{svc: svc, logger: logger}
}

// List returns every item.
func (h *InventoryHandler) List(c *gin.Context) {
	items, err := h.svc.List(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, "failed to list inventory", err)
		return
	}
	c.JSON(http.StatusOK, items)
}

// Get returns one item.
func (h *InventoryHandler) Get(c *gin.Context) {
	item, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, "failed to load item", err)
		return
	}
	c.JSON(http.StatusOK, item)
}

// Create adds a new item in stock.
func (h *InventoryHandler) Create(c *gin.Context) {
	var in inventory.CreateInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, h.logger, err)
		return
	}
	item, err := h.svc.Create(c.Request.Context(), in)
	if err != nil {
		respondError(c, h.logger, "failed to create item", err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

// Update patches descriptive fields of an item.
func (h *InventoryHandler) Update(c *gin.Context) {
	var in inventory.UpdateInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, h.logger, err)
		return
	}
	item, err := h.svc.Update(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		respondError(c, h.logger, "failed to update item", err)
		return
	}
	c.JSON(http.StatusOK, item)
}

// ChangeStatus moves an item to a new lifecycle status.
func (h *InventoryHandler) ChangeStatus(c *gin.Context) {
	var change inventory.StatusChange
	if err := c.ShouldBindJSON(&change); err != nil {
		badRequest(c, h.logger, err)
		return
	}
	item, err := h.svc.ChangeStatus(c.Request.Context(), c.Param("id"), change)
	if err != nil {
		respondError(c, h.logger, "failed to change item status", err)
		return
	}
	c.JSON(http.StatusOK, item)
}

// Delete removes an item.
func (h *InventoryHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, h.logger, "failed to delete item", err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Stats returns the aggregate inventory statistics.
func (h *InventoryHandler) Stats(c *gin.Context) {
	stats, err := h.svc.Stats(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, "failed to compute stats", err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/resaledesk/internal/domain/models"
	"github.com/mamadbah2/resaledesk/internal/service/ledger"
)

// LedgerService is the transaction ledger surface used over HTTP.
type LedgerService interface {
	List(ctx context.Context) ([]models.Transaction, error)
	Add(ctx context.Context, tx models.Transaction) (models.Transaction, error)
	Delete(ctx context.Context, id string) error
}

// LedgerHandler serves the transaction ledger.
type LedgerHandler struct {
	svc    LedgerService
	logger *zap.Logger
}

func NewLedgerHandler(svc LedgerService, logger *zap.Logger) *LedgerHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LedgerHandler{svc: svc, logger: logger}
}

// List returns every ledger entry.
func (h *LedgerHandler) List(c *gin.Context) {
	txs, err := h.svc.List(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, "failed to list transactions", err)
		return
	}
	c.JSON(http.StatusOK, txs)
}

// Summary totals the ledger by entry type.
func (h *LedgerHandler) Summary(c *gin.Context) {
	txs, err := h.svc.List(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, "failed to list transactions", err)
		return
	}
	c.JSON(http.StatusOK, ledger.Summarize(txs))
}

func (h *LedgerHandler) Add(c *gin.Context) {
	var body models.Transaction
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, h.logger, err)
		return
	}
	tx, err := h.svc.Add(c.Request.Context(), body)
	if err != nil {
		respondError(c, h.logger, "failed to record transaction", err)
		return
	}
	c.JSON(http.StatusCreated, tx)
}

func (h *LedgerHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, h.logger, "failed to delete transaction", err)
		return
	}
	c.Status(http.StatusNoContent)
}

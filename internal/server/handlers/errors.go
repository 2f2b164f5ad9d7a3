package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/resaledesk/internal/calc"
	"github.com/mamadbah2/resaledesk/internal/repository"
	"github.com/mamadbah2/resaledesk/internal/service/agent"
	"github.com/mamadbah2/resaledesk/internal/service/export"
	"github.com/mamadbah2/resaledesk/internal/service/goals"
	"github.com/mamadbah2/resaledesk/internal/service/inventory"
	"github.com/mamadbah2/resaledesk/internal/service/ledger"
	"github.com/mamadbah2/resaledesk/internal/service/suppliers"
)

var validationErrors = []error{
	inventory.ErrInvalidItem,
	inventory.ErrInvalidStatusTransition,
	suppliers.ErrInvalidSupplier,
	ledger.ErrInvalidTransaction,
	goals.ErrInvalidGoal,
	agent.ErrInvalidConfig,
	agent.ErrInvalidOutcome,
	calc.ErrInvalidQuantity,
	calc.ErrUnknownCategory,
	export.ErrInvalidBundle,
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, agent.ErrNoResearcher), errors.Is(err, agent.ErrNoJudge), errors.Is(err, ErrNotConfigured):
		return http.StatusServiceUnavailable
	case errors.Is(err, agent.ErrUpstream):
		return http.StatusBadGateway
	}
	for _, target := range validationErrors {
		if errors.Is(err, target) {
			return http.StatusBadRequest
		}
	}
	return http.StatusInternalServerError
}

// ErrNotConfigured is returned by endpoints whose backing client is disabled.
var ErrNotConfigured = errors.New("feature not configured")

// respondError writes err with the status derived from its sentinel. Server
// errors are logged and their detail is withheld from the client.
func respondError(c *gin.Context, logger *zap.Logger, msg string, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError && status != http.StatusServiceUnavailable {
		logger.Error(msg, zap.Error(err), zap.String("path", c.FullPath()))
		c.JSON(status, gin.H{"error": msg})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func badRequest(c *gin.Context, logger *zap.Logger, err error) {
	logger.Warn("invalid request body", zap.Error(err), zap.String("path", c.FullPath()))
	c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
}

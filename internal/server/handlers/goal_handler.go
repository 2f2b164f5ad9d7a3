package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/resaledesk/internal/domain/models"
	"github.com/mamadbah2/resaledesk/internal/service/goals"
)

// GoalService is the goal tracker surface used over HTTP.
type GoalService interface {
	Refresh(ctx context.Context) ([]models.Goal, error)
	Create(ctx context.Context, goal models.Goal) (models.Goal, error)
	Update(ctx context.Context, id string, goal models.Goal) (models.Goal, error)
	Delete(ctx context.Context, id string) error
}

// GoalHandler serves the goal tracker.
type GoalHandler struct {
	svc    GoalService
	logger *zap.Logger
}

func NewGoalHandler(svc GoalService, logger *zap.Logger) *GoalHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GoalHandler{svc: svc, logger: logger}
}

// List refreshes auto-tracked goals and returns all goals with progress.
func (h *GoalHandler) List(c *gin.Context) {
	list, err := h.svc.Refresh(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, "failed to refresh goals", err)
		return
	}
	c.JSON(http.StatusOK, goals.WithProgress(list))
}

func (h *GoalHandler) Create(c *gin.Context) {
	var body models.Goal
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, h.logger, err)
		return
	}
	g, err := h.svc.Create(c.Request.Context(), body)
	if err != nil {
		respondError(c, h.logger, "failed to create goal", err)
		return
	}
	c.JSON(http.StatusCreated, g)
}

func (h *GoalHandler) Update(c *gin.Context) {
	var body models.Goal
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, h.logger, err)
		return
	}
	g, err := h.svc.Update(c.Request.Context(), c.Param("id"), body)
	if err != nil {
		respondError(c, h.logger, "failed to update goal", err)
		return
	}
	c.JSON(http.StatusOK, g)
}

func (h *GoalHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, h.logger, "failed to delete goal", err)
		return
	}
	c.Status(http.StatusNoContent)
}

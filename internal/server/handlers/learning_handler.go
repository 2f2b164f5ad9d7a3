package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/resaledesk/internal/domain/models"
	"github.com/mamadbah2/resaledesk/internal/service/learning"
)

// LearningService is the outcome history surface used over HTTP.
type LearningService interface {
	RecordOutcome(ctx context.Context, decisionID string, in learning.OutcomeInput) (models.LearningRecord, error)
	History(ctx context.Context) ([]models.LearningRecord, error)
	Analysis(ctx context.Context) (learning.Analysis, error)
	Adjustments(ctx context.Context, cfg models.AgentConfig) (learning.Adjustments, error)
	Metrics(ctx context.Context, days int) (learning.Metrics, error)
	Predict(ctx context.Context, opp models.ProductOpportunity) (learning.Prediction, error)
}

// ConfigSource yields the active agent configuration.
type ConfigSource interface {
	Config() models.AgentConfig
}

// LearningHandler serves outcome recording and history analysis.
type LearningHandler struct {
	svc    LearningService
	config ConfigSource
	logger *zap.Logger
}

func NewLearningHandler(svc LearningService, config ConfigSource, logger *zap.Logger) *LearningHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LearningHandler{svc: svc, config: config, logger: logger}
}

// RecordOutcome appends what happened to a decision.
func (h *LearningHandler) RecordOutcome(c *gin.Context) {
	var in learning.OutcomeInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, h.logger, err)
		return
	}
	rec, err := h.svc.RecordOutcome(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		respondError(c, h.logger, "failed to record outcome", err)
		return
	}
	c.JSON(http.StatusCreated, rec)
}

func (h *LearningHandler) History(c *gin.Context) {
	history, err := h.svc.History(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, "failed to load history", err)
		return
	}
	c.JSON(http.StatusOK, history)
}

func (h *LearningHandler) Analysis(c *gin.Context) {
	a, err := h.svc.Analysis(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, "failed to analyze history", err)
		return
	}
	c.JSON(http.StatusOK, a)
}

// Adjustments recommends changes to the active configuration.
func (h *LearningHandler) Adjustments(c *gin.Context) {
	adj, err := h.svc.Adjustments(c.Request.Context(), h.config.Config())
	if err != nil {
		respondError(c, h.logger, "failed to recommend adjustments", err)
		return
	}
	c.JSON(http.StatusOK, adj)
}

type metricsQuery struct {
	Days int `form:"days"`
}

// Metrics summarizes a trailing window given by the days query parameter.
func (h *LearningHandler) Metrics(c *gin.Context) {
	var q metricsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, h.logger, err)
		return
	}
	m, err := h.svc.Metrics(c.Request.Context(), q.Days)
	if err != nil {
		respondError(c, h.logger, "failed to compute metrics", err)
		return
	}
	c.JSON(http.StatusOK, m)
}

// Predict scores an opportunity against the history.
func (h *LearningHandler) Predict(c *gin.Context) {
	var opp models.ProductOpportunity
	if err := c.ShouldBindJSON(&opp); err != nil {
		badRequest(c, h.logger, err)
		return
	}
	p, err := h.svc.Predict(c.Request.Context(), opp)
	if err != nil {
		respondError(c, h.logger, "failed to predict outcome", err)
		return
	}
	c.JSON(http.StatusOK, p)
}

package handlers

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/resaledesk/internal/domain/models"
	"github.com/mamadbah2/resaledesk/internal/service/agent"
	"github.com/mamadbah2/resaledesk/pkg/clients/anthropic"
)

// AgentService is the decision pipeline surface used over HTTP.
type AgentService interface {
	Config() models.AgentConfig
	UpdateConfig(cfg models.AgentConfig) (models.AgentConfig, error)
	Evaluate(ctx context.Context, opp models.ProductOpportunity) (models.AgentDecision, agent.Evaluation, error)
	Research(ctx context.Context) ([]models.ProductOpportunity, error)
	Decisions(ctx context.Context) ([]models.AgentDecision, error)
	SetOutcome(ctx context.Context, id string, status models.OutcomeStatus) (models.AgentDecision, error)
}

// Assistant drafts single-product analyses, listings and pricing advice.
type Assistant interface {
	AnalyzeProduct(ctx context.Context, productName string) (models.ProductOpportunity, error)
	GenerateListing(ctx context.Context, item anthropic.ListingRequest) (anthropic.Listing, error)
	OptimizePricing(ctx context.Context, listing anthropic.PricingRequest) (anthropic.PricingAdvice, error)
}

// AgentHandler serves the purchasing agent endpoints. The assistant is optional.
type AgentHandler struct {
	svc       AgentService
	assistant Assistant
	logger    *zap.Logger
}

func NewAgentHandler(svc AgentService, assistant Assistant, logger *zap.Logger) *AgentHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AgentHandler{svc: svc, assistant: assistant, logger: logger}
}

// Config returns the session configuration.
func (h *AgentHandler) Config(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.Config())
}

// UpdateConfig replaces the session configuration.
func (h *AgentHandler) UpdateConfig(c *gin.Context) {
	var cfg models.AgentConfig
	if err := c.ShouldBindJSON(&cfg); err != nil {
		badRequest(c, h.logger, err)
		return
	}
	updated, err := h.svc.UpdateConfig(cfg)
	if err != nil {
		respondError(c, h.logger, "failed to update agent configuration", err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// Evaluate gates an opportunity and records the decision.
func (h *AgentHandler) Evaluate(c *gin.Context) {
	var opp models.ProductOpportunity
	if err := c.ShouldBindJSON(&opp); err != nil {
		badRequest(c, h.logger, err)
		return
	}
	decision, eval, err := h.svc.Evaluate(c.Request.Context(), opp)
	if err != nil {
		respondError(c, h.logger, "failed to evaluate opportunity", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"decision": decision, "evaluation": eval})
}

// Research returns fresh sourcing opportunities.
func (h *AgentHandler) Research(c *gin.Context) {
	opps, err := h.svc.Research(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, "failed to research products", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"opportunities": opps, "count": len(opps)})
}

// Decisions returns the decision log.
func (h *AgentHandler) Decisions(c *gin.Context) {
	list, err := h.svc.Decisions(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, "failed to list decisions", err)
		return
	}
	c.JSON(http.StatusOK, list)
}

type statusRequest struct {
	Status models.OutcomeStatus `json:"status" binding:"required"`
}

// SetStatus moves a decision to a new outcome status.
func (h *AgentHandler) SetStatus(c *gin.Context) {
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, h.logger, err)
		return
	}
	decision, err := h.svc.SetOutcome(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		respondError(c, h.logger, "failed to update decision", err)
		return
	}
	c.JSON(http.StatusOK, decision)
}

type analyzeRequest struct {
	ProductName string `json:"productName" binding:"required"`
}

// Analyze assesses one named product.
func (h *AgentHandler) Analyze(c *gin.Context) {
	if h.assistant == nil {
		respondError(c, h.logger, "assistant unavailable", ErrNotConfigured)
		return
	}
	var req analyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, h.logger, err)
		return
	}
	opp, err := h.assistant.AnalyzeProduct(c.Request.Context(), req.ProductName)
	if err != nil {
		respondError(c, h.logger, "failed to analyze product", upstream(err))
		return
	}
	c.JSON(http.StatusOK, opp)
}

// Listing drafts a marketplace listing.
func (h *AgentHandler) Listing(c *gin.Context) {
	if h.assistant == nil {
		respondError(c, h.logger, "assistant unavailable", ErrNotConfigured)
		return
	}
	var req anthropic.ListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, h.logger, err)
		return
	}
	listing, err := h.assistant.GenerateListing(c.Request.Context(), req)
	if err != nil {
		respondError(c, h.logger, "failed to generate listing", upstream(err))
		return
	}
	c.JSON(http.StatusOK, listing)
}

// Pricing recommends a pricing action for a live listing.
func (h *AgentHandler) Pricing(c *gin.Context) {
	if h.assistant == nil {
		respondError(c, h.logger, "assistant unavailable", ErrNotConfigured)
		return
	}
	var req anthropic.PricingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, h.logger, err)
		return
	}
	advice, err := h.assistant.OptimizePricing(c.Request.Context(), req)
	if err != nil {
		respondError(c, h.logger, "failed to optimize pricing", upstream(err))
		return
	}
	c.JSON(http.StatusOK, advice)
}

func upstream(err error) error {
	return fmt.Errorf("%w: %w", agent.ErrUpstream, err)
}

package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/resaledesk/internal/domain/models"
	service "github.com/mamadbah2/resaledesk/internal/service/whatsapp"
)

// ChatService is the WhatsApp surface: webhook intake plus outbound sends.
type ChatService interface {
	service.MessagingService
	NotifyOwner(ctx context.Context, body string) error
}

// WhatsAppHandler handles the command webhook and outbound messages. A nil
// service answers every route with 503.
type WhatsAppHandler struct {
	svc    ChatService
	logger *zap.Logger
}

func NewWhatsAppHandler(svc ChatService, logger *zap.Logger) *WhatsAppHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WhatsAppHandler{svc: svc, logger: logger}
}

func (h *WhatsAppHandler) available(c *gin.Context) bool {
	if h.svc == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "whatsapp is not configured"})
		return false
	}
	return true
}

// Verify responds to Meta's webhook verification challenge.
func (h *WhatsAppHandler) Verify(c *gin.Context) {
	if !h.available(c) {
		return
	}
	resp, err := h.svc.VerifyWebhookToken(c.Query("hub.mode"), c.Query("hub.verify_token"), c.Query("hub.challenge"))
	if err != nil {
		h.logger.Warn("webhook verification failed", zap.Error(err))
		c.String(http.StatusForbidden, "verification failed")
		return
	}
	c.String(http.StatusOK, resp)
}

// Receive runs the owner's chat commands carried by a webhook callback.
func (h *WhatsAppHandler) Receive(c *gin.Context) {
	if !h.available(c) {
		return
	}
	var payload models.WebhookPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		h.logger.Warn("invalid webhook payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}
	if err := h.svc.HandleWebhook(c.Request.Context(), payload); err != nil {
		h.logger.Error("failed processing webhook", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to process webhook"})
		return
	}
	c.Status(http.StatusOK)
}

// SendMessage sends a manual message to any number.
func (h *WhatsAppHandler) SendMessage(c *gin.Context) {
	if !h.available(c) {
		return
	}
	var req models.OutboundMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, h.logger, err)
		return
	}
	if err := h.svc.SendOutbound(c.Request.Context(), req); err != nil {
		h.logger.Error("failed sending outbound", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "unable to send message"})
		return
	}
	c.Status(http.StatusAccepted)
}

type notifyRequest struct {
	Message string `json:"message" binding:"required"`
}

// Notify sends a message to the configured owner number.
func (h *WhatsAppHandler) Notify(c *gin.Context) {
	if !h.available(c) {
		return
	}
	var req notifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, h.logger, err)
		return
	}
	err := h.svc.NotifyOwner(c.Request.Context(), req.Message)
	switch {
	case errors.Is(err, service.ErrNoRecipient):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
	case err != nil:
		h.logger.Error("failed notifying owner", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "unable to send message"})
	default:
		c.Status(http.StatusAccepted)
	}
}

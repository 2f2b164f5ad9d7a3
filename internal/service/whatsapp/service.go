package whatsapp

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/resaledesk/internal/config"
	"github.com/mamadbah2/resaledesk/internal/domain/models"
	"github.com/mamadbah2/resaledesk/internal/repository"
	"github.com/mamadbah2/resaledesk/internal/service/commands"
	"github.com/mamadbah2/resaledesk/internal/service/inventory"
	client "github.com/mamadbah2/resaledesk/pkg/clients/whatsapp"
)

// ErrNoRecipient is returned when a notification has nowhere to go.
var ErrNoRecipient = errors.New("no owner number configured")

// MessagingService describes the operations the HTTP layer can perform.
type MessagingService interface {
	VerifyWebhookToken(mode, verifyToken, challenge string) (string, error)
	HandleWebhook(ctx context.Context, payload models.WebhookPayload) error
	SendOutbound(ctx context.Context, req models.OutboundMessageRequest) error
}

// MetaWhatsAppService is the production implementation backed by WhatsApp Cloud API.
type MetaWhatsAppService struct {
	cfg        config.WhatsAppConfig
	client     client.Client
	dispatcher commands.Dispatcher
	logger     *zap.Logger
}

// NewMetaWhatsAppService wires a new service instance.
func NewMetaWhatsAppService(cfg config.WhatsAppConfig, client client.Client, dispatcher commands.Dispatcher, logger *zap.Logger) *MetaWhatsAppService {
	svc := &MetaWhatsAppService{
		cfg:        cfg,
		client:     client,
		dispatcher: dispatcher,
		logger:     logger,
	}
	if svc.logger == nil {
		svc.logger = zap.NewNop()
	}
	return svc
}

var commandReplies = map[models.CommandType]models.AutomationReply{
	models.CommandStats: {
		Title:   "Inventory Stats",
		Message: "Send /stats for the inventory summary.",
	},
	models.CommandGoals: {
		Title:   "Goals",
		Message: "Send /goals for goal progress.",
	},
	models.CommandFees: {
		Title:   "Fee Calculator",
		Message: "Give a sale price and optional cost, e.g. /fees 45 12.",
	},
	models.CommandSold: {
		Title:   "Mark Sold",
		Message: "Give the item id and sale price, e.g. /sold 3f2a9c 45.",
	},
	models.CommandLanded: {
		Title:   "Landed Cost",
		Message: "Give unit price, quantity and shipping, e.g. /landed 2.5 200 180.",
	},
	models.CommandUnknown: {
		Title:   "Command Help",
		Message: "Unknown command. Supported: /stats, /goals, /fees, /sold, /landed.",
	},
}

// VerifyWebhookToken validates the callback verification token.
func (s *MetaWhatsAppService) VerifyWebhookToken(mode, verifyToken, challenge string) (string, error) {
	if mode == "" || verifyToken == "" {
		return "", errors.New("missing mode or verify token")
	}

	if !strings.EqualFold(mode, "subscribe") {
		return "", fmt.Errorf("unsupported hub.mode %s", mode)
	}

	if verifyToken != s.cfg.VerifyToken {
		return "", errors.New("invalid verify token")
	}

	return challenge, nil
}

// HandleWebhook processes inbound webhook payloads.
func (s *MetaWhatsAppService) HandleWebhook(ctx context.Context, payload models.WebhookPayload) error {
	var firstErr error

	for _, entry := range payload.Entry {
		for _, change := range entry.Changes {
			for _, msg := range change.Value.Messages {
				if err := s.handleInboundMessage(ctx, msg); err != nil {
					s.logger.Error("failed to handle inbound message", zap.Error(err), zap.String("message_id", msg.ID))
					if firstErr == nil {
						firstErr = err
					}
				}
			}
		}
	}

	return firstErr
}

func (s *MetaWhatsAppService) handleInboundMessage(ctx context.Context, msg models.InboundMessage) error {
	if s.cfg.OwnerNumber != "" && msg.From != s.cfg.OwnerNumber {
		s.logger.Warn("ignoring message from unknown sender", zap.String("from", msg.From))
		return nil
	}

	text := extractMessageText(msg)
	if text == "" {
		return errors.New("empty message body")
	}

	if msg.ID != "" {
		if err := s.client.MarkRead(ctx, msg.ID); err != nil {
			s.logger.Warn("failed to mark message read", zap.String("message_id", msg.ID), zap.Error(err))
		}
	}

	cmd := models.ParseCommand(text)
	s.logger.Info("parsed inbound command",
		zap.String("from", msg.From),
		zap.String("command", string(cmd.Type)),
		zap.Strings("args", cmd.Args))

	body, handleErr := s.reply(ctx, cmd, msg.From)

	ctxWithTimeout, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := s.send(ctxWithTimeout, msg.From, body, false); err != nil {
		return err
	}
	return handleErr
}

// reply runs the command and renders the text sent back. Errors the owner can
// fix are turned into usage hints; anything else is returned after a generic reply.
func (s *MetaWhatsAppService) reply(ctx context.Context, cmd models.Command, sender string) (string, error) {
	if cmd.Type == models.CommandUnknown || s.dispatcher == nil {
		return formatReply(commandReplies[models.CommandUnknown]), nil
	}

	out, err := s.dispatcher.HandleCommand(ctx, cmd, sender)
	switch {
	case err == nil:
		return out, nil
	case errors.Is(err, commands.ErrInvalidArguments):
		return formatReply(commandReplies[cmd.Type]), nil
	case errors.Is(err, commands.ErrUnsupportedCommand):
		return formatReply(commandReplies[models.CommandUnknown]), nil
	case errors.Is(err, repository.ErrNotFound):
		return "Item not found. Check the id and try again.", nil
	case errors.Is(err, inventory.ErrInvalidStatusTransition), errors.Is(err, inventory.ErrInvalidItem):
		return "Cannot update the item: " + err.Error(), nil
	default:
		return "Something went wrong while processing your command. Please retry later.", err
	}
}

// NotifyOwner sends a text to the configured owner number.
func (s *MetaWhatsAppService) NotifyOwner(ctx context.Context, body string) error {
	if s.cfg.OwnerNumber == "" {
		return ErrNoRecipient
	}
	return s.SendOutbound(ctx, models.OutboundMessageRequest{To: s.cfg.OwnerNumber, Message: body})
}

// SendOutbound lets internal operators push quick notifications via HTTP.
func (s *MetaWhatsAppService) SendOutbound(ctx context.Context, req models.OutboundMessageRequest) error {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	return s.send(ctxWithTimeout, req.To, req.Message, req.PreviewURL)
}

// send delivers body in as many messages as the API length limit requires.
func (s *MetaWhatsAppService) send(ctx context.Context, to, body string, previewURL bool) error {
	parts := client.SplitText(body, client.MaxTextLength)
	for i, part := range parts {
		if _, err := s.client.SendTextMessage(ctx, client.SendTextMessageRequest{To: to, Body: part, PreviewURL: previewURL}); err != nil {
			return fmt.Errorf("send part %d of %d: %w", i+1, len(parts), err)
		}
	}
	return nil
}

func formatReply(r models.AutomationReply) string {
	return fmt.Sprintf("%s\n%s", r.Title, r.Message)
}

func extractMessageText(msg models.InboundMessage) string {
	if msg.Text != nil {
		return msg.Text.Body
	}

	if msg.Interactive != nil && msg.Interactive.ButtonReply != nil {
		return msg.Interactive.ButtonReply.ID
	}

	return ""
}

package whatsapp

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/resaledesk/internal/config"
	"github.com/mamadbah2/resaledesk/internal/domain/models"
	"github.com/mamadbah2/resaledesk/internal/repository"
	"github.com/mamadbah2/resaledesk/internal/service/commands"
	client "github.com/mamadbah2/resaledesk/pkg/clients/whatsapp"
)

const owner = "15550001111"

type mockClient struct{ mock.Mock }

func (m *mockClient) SendTextMessage(ctx context.Context, req client.SendTextMessageRequest) (*client.SendTextMessageResponse, error) {
	args := m.Called(ctx, req)
	resp, _ := args.Get(0).(*client.SendTextMessageResponse)
	return resp, args.Error(1)
}

func (m *mockClient) MarkRead(ctx context.Context, messageID string) error {
	return m.Called(ctx, messageID).Error(0)
}

type stubDispatcher struct {
	reply string
	err   error
	got   []models.Command
}

func (d *stubDispatcher) HandleCommand(_ context.Context, cmd models.Command, _ string) (string, error) {
	d.got = append(d.got, cmd)
	return d.reply, d.err
}

func payload(from, body string) models.WebhookPayload {
	return models.WebhookPayload{Entry: []models.WebhookEntry{{Changes: []models.WebhookChange{{
		Value: models.WebhookValue{Messages: []models.InboundMessage{{From: from, ID: "wamid.1", Text: &models.TextContent{Body: body}}}},
	}}}}}
}

func expectSend(c *mockClient, body string) {
	c.On("SendTextMessage", mock.Anything, client.SendTextMessageRequest{To: owner, Body: body}).
		Return(&client.SendTextMessageResponse{}, nil).Once()
}

func newService(c *mockClient, d commands.Dispatcher) *MetaWhatsAppService {
	c.On("MarkRead", mock.Anything, "wamid.1").Return(nil).Maybe()
	cfg := config.WhatsAppConfig{VerifyToken: "verify-me", OwnerNumber: owner}
	return NewMetaWhatsAppService(cfg, c, d, nil)
}

func TestVerifyWebhookToken(t *testing.T) {
	svc := newService(&mockClient{}, nil)

	challenge, err := svc.VerifyWebhookToken("subscribe", "verify-me", "42")
	require.NoError(t, err)
	assert.Equal(t, "42", challenge)

	_, err = svc.VerifyWebhookToken("subscribe", "wrong", "42")
	assert.Error(t, err)
	_, err = svc.VerifyWebhookToken("unsubscribe", "verify-me", "42")
	assert.Error(t, err)
}

func TestHandleWebhook_DispatchesCommand(t *testing.T) {
	c := &mockClient{}
	d := &stubDispatcher{reply: "Inventory: 1 in stock"}
	expectSend(c, "Inventory: 1 in stock")

	require.NoError(t, newService(c, d).HandleWebhook(context.Background(), payload(owner, "/stats")))

	require.Len(t, d.got, 1)
	assert.Equal(t, models.CommandStats, d.got[0].Type)
	c.AssertExpectations(t)
}

func TestHandleWebhook_InvalidArgumentsGetUsage(t *testing.T) {
	c := &mockClient{}
	d := &stubDispatcher{err: commands.ErrInvalidArguments}
	expectSend(c, formatReply(commandReplies[models.CommandFees]))

	require.NoError(t, newService(c, d).HandleWebhook(context.Background(), payload(owner, "/fees abc")))
	c.AssertExpectations(t)
}

func TestHandleWebhook_UnknownCommandGetsHelp(t *testing.T) {
	c := &mockClient{}
	d := &stubDispatcher{}
	expectSend(c, formatReply(commandReplies[models.CommandUnknown]))

	require.NoError(t, newService(c, d).HandleWebhook(context.Background(), payload(owner, "hello")))
	assert.Empty(t, d.got)
	c.AssertExpectations(t)
}

func TestHandleWebhook_NotFound(t *testing.T) {
	c := &mockClient{}
	d := &stubDispatcher{err: repository.ErrNotFound}
	expectSend(c, "Item not found. Check the id and try again.")

	require.NoError(t, newService(c, d).HandleWebhook(context.Background(), payload(owner, "/sold x 10")))
	c.AssertExpectations(t)
}

func TestHandleWebhook_InternalErrorIsReported(t *testing.T) {
	c := &mockClient{}
	boom := errors.New("mongo down")
	d := &stubDispatcher{err: boom}
	expectSend(c, "Something went wrong while processing your command. Please retry later.")

	err := newService(c, d).HandleWebhook(context.Background(), payload(owner, "/stats"))
	assert.ErrorIs(t, err, boom)
	c.AssertExpectations(t)
}

func TestHandleWebhook_IgnoresStrangers(t *testing.T) {
	c := &mockClient{}
	d := &stubDispatcher{}

	require.NoError(t, newService(c, d).HandleWebhook(context.Background(), payload("19998887777", "/stats")))
	assert.Empty(t, d.got)
	c.AssertNotCalled(t, "SendTextMessage", mock.Anything, mock.Anything)
	c.AssertNotCalled(t, "MarkRead", mock.Anything, mock.Anything)
}

func TestHandleWebhook_MarkReadFailureIsNotFatal(t *testing.T) {
	c := &mockClient{}
	c.On("MarkRead", mock.Anything, "wamid.1").Return(errors.New("rate limited")).Once()
	d := &stubDispatcher{reply: "ok"}
	expectSend(c, "ok")

	svc := NewMetaWhatsAppService(config.WhatsAppConfig{OwnerNumber: owner}, c, d, nil)
	require.NoError(t, svc.HandleWebhook(context.Background(), payload(owner, "/stats")))
	c.AssertExpectations(t)
}

func TestSendOutbound_SplitsLongBodies(t *testing.T) {
	c := &mockClient{}
	c.On("SendTextMessage", mock.Anything, mock.MatchedBy(func(req client.SendTextMessageRequest) bool {
		return req.To == owner && len(req.Body) <= client.MaxTextLength
	})).Return(&client.SendTextMessageResponse{}, nil).Twice()

	line := strings.Repeat("x", 99) + "\n"
	body := strings.Repeat(line, 60)
	require.NoError(t, newService(c, nil).SendOutbound(context.Background(), models.OutboundMessageRequest{To: owner, Message: body}))
	c.AssertExpectations(t)
}

func TestNotifyOwner(t *testing.T) {
	c := &mockClient{}
	expectSend(c, "weekly report")
	require.NoError(t, newService(c, nil).NotifyOwner(context.Background(), "weekly report"))
	c.AssertExpectations(t)

	svc := NewMetaWhatsAppService(config.WhatsAppConfig{}, c, nil, nil)
	assert.ErrorIs(t, svc.NotifyOwner(context.Background(), "x"), ErrNoRecipient)
}

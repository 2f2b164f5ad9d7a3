package handlers

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mamadbah2/resaledesk/internal/calc"
	"github.com/mamadbah2/resaledesk/internal/domain/models"
	"github.com/mamadbah2/resaledesk/internal/repository"
	"github.com/mamadbah2/resaledesk/internal/service/agent"
	"github.com/mamadbah2/resaledesk/internal/service/export"
	"github.com/mamadbah2/resaledesk/internal/service/inventory"
	"github.com/mamadbah2/resaledesk/internal/service/whatsapp"
	"github.com/mamadbah2/resaledesk/pkg/clients/anthropic"
)

func TestStatusFor(t *testing.T) {
	cases := map[string]struct {
		err  error
		want int
	}{
		"not found":      {fmt.Errorf("load: %w", repository.ErrNotFound), http.StatusNotFound},
		"bad item":       {fmt.Errorf("%w: name", inventory.ErrInvalidItem), http.StatusBadRequest},
		"bad transition": {inventory.ErrInvalidStatusTransition, http.StatusBadRequest},
		"bad quantity":   {calc.ErrInvalidQuantity, http.StatusBadRequest},
		"bad category":   {calc.ErrUnknownCategory, http.StatusBadRequest},
		"bad bundle":     {fmt.Errorf("%w: goals", export.ErrInvalidBundle), http.StatusBadRequest},
		"no researcher":  {agent.ErrNoResearcher, http.StatusServiceUnavailable},
		"no judge":       {agent.ErrNoJudge, http.StatusServiceUnavailable},
		"upstream":       {fmt.Errorf("%w: boom", agent.ErrUpstream), http.StatusBadGateway},
		"unknown":        {errors.New("disk on fire"), http.StatusInternalServerError},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.want, statusFor(tc.err))
		})
	}
}

func serve(method, path, body string, register func(r *gin.Engine)) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	register(r)
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestRespondError_HidesInternalDetail(t *testing.T) {
	rec := serve(http.MethodGet, "/x", "", func(r *gin.Engine) {
		r.GET("/x", func(c *gin.Context) {
			respondError(c, zap.NewNop(), "failed to load", errors.New("connection string leaked"))
		})
	})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"failed to load"}`, rec.Body.String())
}

type fakeAssistant struct {
	err error
}

func (f fakeAssistant) AnalyzeProduct(_ context.Context, name string) (models.ProductOpportunity, error) {
	return models.ProductOpportunity{Name: name, ProfitMargin: 48}, f.err
}

func (f fakeAssistant) GenerateListing(_ context.Context, item anthropic.ListingRequest) (anthropic.Listing, error) {
	return anthropic.Listing{Title: item.Name + " - great condition", SuggestedPrice: 39.99}, f.err
}

func (f fakeAssistant) OptimizePricing(context.Context, anthropic.PricingRequest) (anthropic.PricingAdvice, error) {
	return anthropic.PricingAdvice{Action: "lower_price"}, f.err
}

func TestAgentHandler_Assistant(t *testing.T) {
	h := NewAgentHandler(nil, fakeAssistant{}, nil)
	register := func(r *gin.Engine) {
		r.POST("/analyze", h.Analyze)
		r.POST("/listing", h.Listing)
		r.POST("/pricing", h.Pricing)
	}

	rec := serve(http.MethodPost, "/analyze", `{"productName":"Carhartt jacket"}`, register)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Carhartt jacket")

	rec = serve(http.MethodPost, "/analyze", `{}`, register)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = serve(http.MethodPost, "/pricing", `{"currentPrice":30,"daysListed":40}`, register)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "lower_price")

	failing := NewAgentHandler(nil, fakeAssistant{err: errors.New("overloaded")}, nil)
	rec = serve(http.MethodPost, "/listing", `{"name":"Levi's 501"}`, func(r *gin.Engine) {
		r.POST("/listing", failing.Listing)
	})
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

type mockChat struct {
	mock.Mock
}

func (m *mockChat) VerifyWebhookToken(mode, token, challenge string) (string, error) {
	args := m.Called(mode, token, challenge)
	return args.String(0), args.Error(1)
}

func (m *mockChat) HandleWebhook(ctx context.Context, payload models.WebhookPayload) error {
	return m.Called(ctx, payload).Error(0)
}

func (m *mockChat) SendOutbound(ctx context.Context, req models.OutboundMessageRequest) error {
	return m.Called(ctx, req).Error(0)
}

func (m *mockChat) NotifyOwner(ctx context.Context, body string) error {
	return m.Called(ctx, body).Error(0)
}

func TestWhatsAppHandler_Notify(t *testing.T) {
	chat := new(mockChat)
	chat.On("NotifyOwner", mock.Anything, "weekly report ready").Return(nil).Once()
	chat.On("NotifyOwner", mock.Anything, "nobody home").Return(whatsapp.ErrNoRecipient).Once()

	h := NewWhatsAppHandler(chat, nil)
	register := func(r *gin.Engine) { r.POST("/notify", h.Notify) }

	rec := serve(http.MethodPost, "/notify", `{"message":"weekly report ready"}`, register)
	assert.Equal(t, http.StatusAccepted, rec.Code)

	rec = serve(http.MethodPost, "/notify", `{"message":"nobody home"}`, register)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	chat.AssertExpectations(t)
}

func TestWhatsAppHandler_Verify(t *testing.T) {
	chat := new(mockChat)
	chat.On("VerifyWebhookToken", "subscribe", "secret", "42").Return("42", nil)
	chat.On("VerifyWebhookToken", "subscribe", "wrong", "42").Return("", errors.New("token mismatch"))

	h := NewWhatsAppHandler(chat, nil)
	register := func(r *gin.Engine) { r.GET("/webhook", h.Verify) }

	rec := serve(http.MethodGet, "/webhook?hub.mode=subscribe&hub.verify_token=secret&hub.challenge=42", "", register)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "42", rec.Body.String())

	rec = serve(http.MethodGet, "/webhook?hub.mode=subscribe&hub.verify_token=wrong&hub.challenge=42", "", register)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

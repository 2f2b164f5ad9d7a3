package agent

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/resaledesk/internal/domain/models"
	"github.com/mamadbah2/resaledesk/internal/repository"
	"github.com/mamadbah2/resaledesk/internal/repository/memory"
)

type mockResearcher struct {
	mock.Mock
}

func (m *mockResearcher) ResearchProducts(ctx context.Context, req models.ResearchRequest) ([]models.ProductOpportunity, error) {
	args := m.Called(ctx, req)
	return args.Get(0).([]models.ProductOpportunity), args.Error(1)
}

type mockMarket struct {
	mock.Mock
}

func (m *mockMarket) ResearchProduct(ctx context.Context, keywords string) (models.MarketSnapshot, error) {
	args := m.Called(ctx, keywords)
	return args.Get(0).(models.MarketSnapshot), args.Error(1)
}

type mapCache struct {
	entries map[string][]models.ProductOpportunity
}

func (c *mapCache) key(req models.ResearchRequest) string {
	return string(req.Strategy)
}

func (c *mapCache) GetResearch(_ context.Context, req models.ResearchRequest) ([]models.ProductOpportunity, bool) {
	opps, ok := c.entries[c.key(req)]
	return opps, ok
}

func (c *mapCache) SetResearch(_ context.Context, req models.ResearchRequest, opps []models.ProductOpportunity) {
	c.entries[c.key(req)] = opps
}

func newTestService(t *testing.T, deps Dependencies) (*Service, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	if deps.Decisions == nil {
		deps.Decisions = store
	}
	svc, err := NewService(config(30, 40), deps)
	require.NoError(t, err)
	svc.now = func() time.Time { return time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC) }
	return svc, store
}

func TestService_EvaluatePersistsDecision(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestService(t, Dependencies{})

	decision, eval, err := svc.Evaluate(ctx, models.ProductOpportunity{Name: "Boots", EstimatedCost: 45, ProfitMargin: 70})
	require.NoError(t, err)
	assert.Equal(t, VerdictRejectedBudget, eval.Verdict)
	assert.Equal(t, models.OutcomeRejected, decision.Outcome)

	stored, err := store.GetDecision(ctx, decision.ID)
	require.NoError(t, err)
	assert.Equal(t, decision.Reasoning, stored.Reasoning)
}

func TestService_EvaluateWithoutJudge(t *testing.T) {
	svc, store := newTestService(t, Dependencies{})

	_, _, err := svc.Evaluate(context.Background(), models.ProductOpportunity{EstimatedCost: 10, ProfitMargin: 70})
	assert.ErrorIs(t, err, ErrNoJudge)

	decisions, err := store.ListDecisions(context.Background())
	require.NoError(t, err)
	assert.Empty(t, decisions)
}

func TestService_EvaluateJudgeFailureIsNotRecorded(t *testing.T) {
	judge := JudgeFunc(func(context.Context, models.ProductOpportunity, models.AgentConfig) (models.Judgment, error) {
		return models.Judgment{}, errors.New("anthropic api error: status 401")
	})
	svc, store := newTestService(t, Dependencies{Judge: judge})

	_, _, err := svc.Evaluate(context.Background(), models.ProductOpportunity{Name: "Boots", EstimatedCost: 10, ProfitMargin: 70})
	assert.ErrorIs(t, err, ErrUpstream)

	decisions, err := store.ListDecisions(context.Background())
	require.NoError(t, err)
	assert.Empty(t, decisions)
}

func TestService_UpdateConfigKeepsID(t *testing.T) {
	svc, _ := newTestService(t, Dependencies{})
	id := svc.Config().ID

	next := config(50, 35)
	next.ID = "other"
	updated, err := svc.UpdateConfig(next)
	require.NoError(t, err)
	assert.Equal(t, id, updated.ID)
	assert.Equal(t, 50.0, svc.Config().Budget.PerItem)

	bad := config(10, 10)
	bad.Strategy = "yolo"
	_, err = svc.UpdateConfig(bad)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestService_ResearchUsesCacheAndMarket(t *testing.T) {
	ctx := context.Background()
	researcher := new(mockResearcher)
	market := new(mockMarket)
	cache := &mapCache{entries: map[string][]models.ProductOpportunity{}}

	store := memory.NewStore()
	require.NoError(t, store.SaveInventoryItem(ctx, models.InventoryItem{ID: "i1"}))

	researcher.On("ResearchProducts", ctx, mock.MatchedBy(func(req models.ResearchRequest) bool {
		return req.Budget == 30 && req.TargetMargin == 40 && req.CurrentInventory == 1
	})).Return([]models.ProductOpportunity{{Name: "Nike Air Max"}}, nil).Once()
	market.On("ResearchProduct", ctx, "Nike Air Max").Return(models.MarketSnapshot{
		AverageSoldPrice: 88, SoldCount: 45, ActiveListings: 90, DemandScore: 15, CompetitionScore: 40,
	}, nil).Once()

	svc, _ := newTestService(t, Dependencies{Decisions: store, Inventory: store, Researcher: researcher, Market: market, Cache: cache})

	first, err := svc.Research(ctx)
	require.NoError(t, err)
	require.Len(t, first, 1)
	assert.NotEmpty(t, first[0].ID)
	assert.Equal(t, "2025-05-01T12:00:00Z", first[0].Timestamp)
	assert.Equal(t, 88.0, first[0].DataPoints.AverageSoldPrice)
	assert.Equal(t, 15.0, first[0].DemandScore)

	second, err := svc.Research(ctx)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	researcher.AssertExpectations(t)
	market.AssertExpectations(t)
}

func TestService_ResearchWithoutClient(t *testing.T) {
	svc, _ := newTestService(t, Dependencies{})
	_, err := svc.Research(context.Background())
	assert.ErrorIs(t, err, ErrNoResearcher)
}

func TestService_SetOutcome(t *testing.T) {
	ctx := context.Background()
	judge := staticJudge(models.Judgment{Decision: "buy", Confidence: 80})
	svc, _ := newTestService(t, Dependencies{Judge: judge})

	decision, _, err := svc.Evaluate(ctx, models.ProductOpportunity{EstimatedCost: 10, ProfitMargin: 60})
	require.NoError(t, err)
	assert.Equal(t, models.OutcomePending, decision.Outcome)

	updated, err := svc.SetOutcome(ctx, decision.ID, models.OutcomeExecuted)
	require.NoError(t, err)
	assert.Equal(t, models.OutcomeExecuted, updated.Outcome)
	require.NotNil(t, updated.ExecutedAt)

	_, err = svc.SetOutcome(ctx, decision.ID, "done")
	assert.ErrorIs(t, err, ErrInvalidOutcome)

	_, err = svc.SetOutcome(ctx, "missing", models.OutcomeFailed)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

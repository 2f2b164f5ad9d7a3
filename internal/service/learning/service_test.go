package learning

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/resaledesk/internal/domain/models"
	"github.com/mamadbah2/resaledesk/internal/repository"
	"github.com/mamadbah2/resaledesk/internal/repository/memory"
)

func newTestService(t *testing.T) (*Service, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	svc := NewService(store, store, nil)
	svc.now = func() time.Time { return baseTime }
	return svc, store
}

func TestService_RecordOutcomeAppendsAndMarksExecuted(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestService(t)
	require.NoError(t, store.SaveDecision(ctx, models.AgentDecision{ID: "d1", Outcome: models.OutcomePending, FinancialImpact: models.FinancialImpact{Cost: 10}}))

	profit := 15.0
	rec, err := svc.RecordOutcome(ctx, "d1", OutcomeInput{Sold: true, Profit: &profit})
	require.NoError(t, err)
	assert.InDelta(t, 150.0, rec.Outcome.ROI, 1e-9)

	decision, err := store.GetDecision(ctx, "d1")
	require.NoError(t, err)
	assert.Equal(t, models.OutcomeExecuted, decision.Outcome)
	require.NotNil(t, decision.ExecutedAt)

	_, err = svc.RecordOutcome(ctx, "d1", OutcomeInput{Sold: false})
	require.NoError(t, err)

	history, err := svc.History(ctx)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, rec.ID, history[0].ID)
	assert.True(t, history[0].Outcome.Sold)
}

func TestService_RecordOutcomeKeepsRejectedStatus(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestService(t)
	require.NoError(t, store.SaveDecision(ctx, models.AgentDecision{ID: "d1", Outcome: models.OutcomeRejected}))

	_, err := svc.RecordOutcome(ctx, "d1", OutcomeInput{Sold: false})
	require.NoError(t, err)

	decision, err := store.GetDecision(ctx, "d1")
	require.NoError(t, err)
	assert.Equal(t, models.OutcomeRejected, decision.Outcome)
}

func TestService_RecordOutcomeUnknownDecision(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.RecordOutcome(context.Background(), "missing", OutcomeInput{})
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestService_AnalysisAndAdjustments(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestService(t)
	for i := 0; i < 10; i++ {
		require.NoError(t, store.AppendLearning(ctx, record("shoes", 30, i < 6, 40)))
	}

	a, err := svc.Analysis(ctx)
	require.NoError(t, err)
	assert.InDelta(t, 60.0, a.SuccessRate, 1e-9)

	adj, err := svc.Adjustments(ctx, models.AgentConfig{TargetMargin: 40, Strategy: models.StrategyAggressive})
	require.NoError(t, err)
	assert.Nil(t, adj.TargetMargin)
	require.NotNil(t, adj.Strategy)
	assert.Equal(t, models.StrategyBalanced, *adj.Strategy)

	m, err := svc.Metrics(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, DefaultMetricsWindow, m.WindowDays)
	assert.Equal(t, 10, m.TotalDecisions)
}

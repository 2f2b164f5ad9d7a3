package agent

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/resaledesk/internal/domain/models"
)

func config(perItem, targetMargin float64) models.AgentConfig {
	return models.AgentConfig{
		Name:          "test",
		Enabled:       true,
		Budget:        models.Budget{Daily: 100, PerItem: perItem, Total: 1000},
		Strategy:      models.StrategyBalanced,
		TargetMargin:  targetMargin,
		RiskTolerance: models.RiskMedium,
	}
}

func staticJudge(j models.Judgment) Judge {
	return JudgeFunc(func(context.Context, models.ProductOpportunity, models.AgentConfig) (models.Judgment, error) {
		return j, nil
	})
}

func failingJudge(t *testing.T) Judge {
	return JudgeFunc(func(context.Context, models.ProductOpportunity, models.AgentConfig) (models.Judgment, error) {
		t.Fatal("judge must not be consulted")
		return models.Judgment{}, nil
	})
}

func TestGate_RejectsOverBudget(t *testing.T) {
	opp := models.ProductOpportunity{Name: "Vintage tee", EstimatedCost: 25, ProfitMargin: 60}

	eval, err := Gate(context.Background(), opp, config(20, 40), failingJudge(t))
	require.NoError(t, err)

	assert.Equal(t, VerdictRejectedBudget, eval.Verdict)
	assert.Equal(t, 100.0, eval.Confidence)
	assert.Contains(t, eval.Reasoning, "per-item budget")
	assert.Equal(t, models.RiskHigh, eval.Risk)
}

func TestGate_RejectsLowMargin(t *testing.T) {
	opp := models.ProductOpportunity{Name: "Sneakers", EstimatedCost: 25, ProfitMargin: 20}

	eval, err := Gate(context.Background(), opp, config(30, 40), failingJudge(t))
	require.NoError(t, err)

	assert.Equal(t, VerdictRejectedMargin, eval.Verdict)
	assert.Equal(t, 90.0, eval.Confidence)
	assert.Equal(t, "Margin 20% below target 40%", eval.Reasoning)
	assert.Equal(t, models.RiskMedium, eval.Risk)
}

func TestGate_BudgetCheckedBeforeMargin(t *testing.T) {
	opp := models.ProductOpportunity{EstimatedCost: 50, ProfitMargin: 5}

	eval, rejected := PreFilter(opp, config(20, 40))
	assert.True(t, rejected)
	assert.Equal(t, VerdictRejectedBudget, eval.Verdict)
}

func TestGate_CostEqualToLimitPasses(t *testing.T) {
	_, rejected := PreFilter(models.ProductOpportunity{EstimatedCost: 20, ProfitMargin: 40}, config(20, 40))
	assert.False(t, rejected)
}

func TestGate_PassesJudgmentThrough(t *testing.T) {
	opp := models.ProductOpportunity{Name: "Belt", EstimatedCost: 10, ProfitMargin: 55, ConfidenceScore: 85}

	eval, err := Gate(context.Background(), opp, config(30, 40), staticJudge(models.Judgment{Decision: "buy", Confidence: 72, Reasoning: "steady sell-through"}))
	require.NoError(t, err)

	assert.Equal(t, VerdictApproved, eval.Verdict)
	assert.Equal(t, "buy", eval.Decision)
	assert.Equal(t, 72.0, eval.Confidence)
	assert.Equal(t, "steady sell-through", eval.Reasoning)
	assert.Equal(t, models.RiskLow, eval.Risk)
}

func TestGate_NonBuyVerdictIsPolicyRejection(t *testing.T) {
	opp := models.ProductOpportunity{EstimatedCost: 10, ProfitMargin: 55}

	eval, err := Gate(context.Background(), opp, config(30, 40), staticJudge(models.Judgment{Decision: "pass", Reasoning: "Failed to analyze"}))
	require.NoError(t, err)

	assert.Equal(t, VerdictRejectedByPolicy, eval.Verdict)
	assert.True(t, eval.Verdict.Rejected())
	assert.Equal(t, "pass", eval.Decision)
}

func TestGate_NoJudge(t *testing.T) {
	_, err := Gate(context.Background(), models.ProductOpportunity{EstimatedCost: 1, ProfitMargin: 90}, config(30, 40), nil)
	assert.ErrorIs(t, err, ErrNoJudge)
}

func TestGate_JudgeErrorIsWrapped(t *testing.T) {
	boom := errors.New("upstream down")
	judge := JudgeFunc(func(context.Context, models.ProductOpportunity, models.AgentConfig) (models.Judgment, error) {
		return models.Judgment{}, boom
	})

	_, err := Gate(context.Background(), models.ProductOpportunity{EstimatedCost: 1, ProfitMargin: 90}, config(30, 40), judge)
	assert.ErrorIs(t, err, boom)
	assert.ErrorIs(t, err, ErrUpstream)
}

func TestAssessRisk(t *testing.T) {
	cases := []struct {
		confidence, margin float64
		want               models.RiskLevel
	}{
		{81, 51, models.RiskLow},
		{80, 51, models.RiskMedium},
		{61, 31, models.RiskMedium},
		{61, 30, models.RiskHigh},
		{95, 10, models.RiskHigh},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, AssessRisk(tc.confidence, tc.margin), "confidence %v margin %v", tc.confidence, tc.margin)
	}
}

func TestNewDecision(t *testing.T) {
	now := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)
	opp := models.ProductOpportunity{Name: "Scarf", Category: "accessories", EstimatedCost: 8, EstimatedSellPrice: 30}
	judgment := models.Judgment{Decision: "buy", Confidence: 70}

	approved := NewDecision("d1", opp, Evaluation{Verdict: VerdictApproved, Decision: "buy", Confidence: 70, Risk: models.RiskMedium, Judgment: &judgment}, now)
	assert.Equal(t, models.OutcomePending, approved.Outcome)
	assert.Equal(t, models.DecisionPurchase, approved.Type)
	assert.Equal(t, 8.0, approved.FinancialImpact.Cost)
	assert.Equal(t, 30.0, approved.FinancialImpact.ExpectedReturn)
	assert.Equal(t, "accessories", approved.Category())
	require.Len(t, approved.DataUsed, 2)
	assert.NotNil(t, approved.DataUsed[1].Judgment)

	rejected := NewDecision("d2", opp, Evaluation{Verdict: VerdictRejectedMargin, Decision: "reject"}, now)
	assert.Equal(t, models.OutcomeRejected, rejected.Outcome)
	assert.Len(t, rejected.DataUsed, 1)
}

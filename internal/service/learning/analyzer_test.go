package learning

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/resaledesk/internal/domain/models"
)

var baseTime = time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)

func record(category string, cost float64, sold bool, roi float64) models.LearningRecord {
	return models.LearningRecord{
		Timestamp: baseTime,
		Decision: models.AgentDecision{
			DataUsed:        []models.DataSource{{Opportunity: &models.ProductOpportunity{Category: category}}},
			FinancialImpact: models.FinancialImpact{Cost: cost},
		},
		Outcome: models.SaleOutcome{Sold: sold, ROI: roi},
	}
}

func TestAnalyze_SuccessRate(t *testing.T) {
	var history []models.LearningRecord
	for i := 0; i < 10; i++ {
		history = append(history, record("shoes", 30, i < 6, 80))
	}

	a := Analyze(history)

	assert.Equal(t, 10, a.TotalDecisions)
	assert.Equal(t, 6, a.SoldCount)
	assert.InDelta(t, 60.0, a.SuccessRate, 1e-9)
	assert.InDelta(t, 80.0, a.AverageROI, 1e-9)
}

func TestAnalyze_EmptyHistory(t *testing.T) {
	a := Analyze(nil)

	assert.Zero(t, a.SuccessRate)
	assert.Zero(t, a.AverageROI)
	assert.Empty(t, a.BestCategories)
	require.Len(t, a.PriceBands, 4)
	for _, band := range a.PriceBands {
		assert.Zero(t, band.SuccessRate)
	}
	assert.Contains(t, a.Insights, "Need more data to identify patterns")
}

func TestAnalyze_BestCategoriesStableOnTies(t *testing.T) {
	history := []models.LearningRecord{
		record("accessories", 10, true, 50),
		record("clothing", 10, true, 50),
		record("shoes", 10, false, 0),
		record("other", 10, true, 50),
		record("shoes", 10, true, 50),
	}

	a := Analyze(history)

	assert.Equal(t, []string{"accessories", "clothing", "other"}, a.BestCategories)
}

func TestAnalyze_UnknownCategory(t *testing.T) {
	a := Analyze([]models.LearningRecord{{Outcome: models.SaleOutcome{Sold: true}}})
	assert.Equal(t, []string{"unknown"}, a.BestCategories)
}

func TestAnalyze_PriceBands(t *testing.T) {
	history := []models.LearningRecord{
		record("x", 0, true, 0),
		record("x", 19.99, false, 0),
		record("x", 20, true, 0),
		record("x", 99.99, true, 0),
		record("x", 100, false, 0),
		record("x", 5000, true, 0),
	}

	a := Analyze(history)
	require.Len(t, a.PriceBands, 4)

	assert.Equal(t, 2, a.PriceBands[0].Count)
	assert.InDelta(t, 50.0, a.PriceBands[0].SuccessRate, 1e-9)
	assert.Equal(t, 1, a.PriceBands[1].Count)
	assert.InDelta(t, 100.0, a.PriceBands[1].SuccessRate, 1e-9)
	assert.Equal(t, 1, a.PriceBands[2].Count)
	assert.Equal(t, 2, a.PriceBands[3].Count)
	assert.Nil(t, a.PriceBands[3].Max)
}

func TestAnalyze_Insights(t *testing.T) {
	var strong []models.LearningRecord
	for i := 0; i < 10; i++ {
		strong = append(strong, record("shoes", 30, true, 120))
	}
	a := Analyze(strong)
	assert.Contains(t, a.Insights, "Strong overall performance - keep the current strategy")
	assert.Contains(t, a.Insights, "Excellent ROI - recent picks are winners")
	assert.NotContains(t, a.Insights, "Need more data to identify patterns")

	weak := Analyze([]models.LearningRecord{record("shoes", 30, false, 0)})
	assert.Contains(t, weak.Insights, "Low success rate - reconsider the product selection criteria")
	assert.Contains(t, weak.Insights, "ROI below target - focus on higher margin opportunities")
}

func TestRecommendAdjustments(t *testing.T) {
	cfg := models.AgentConfig{TargetMargin: 40, Strategy: models.StrategyAggressive}

	adj := RecommendAdjustments(Analysis{SuccessRate: 30, AverageROI: 20}, cfg)
	require.NotNil(t, adj.TargetMargin)
	assert.Equal(t, 35.0, *adj.TargetMargin)
	require.NotNil(t, adj.Strategy)
	assert.Equal(t, models.StrategyBalanced, *adj.Strategy)
	assert.Len(t, adj.Reasons, 2)

	up := RecommendAdjustments(Analysis{SuccessRate: 85, AverageROI: 200}, models.AgentConfig{TargetMargin: 55, Strategy: models.StrategyConservative})
	require.NotNil(t, up.TargetMargin)
	assert.Equal(t, 60.0, *up.TargetMargin)
	require.NotNil(t, up.Strategy)
	assert.Equal(t, models.StrategyBalanced, *up.Strategy)

	none := RecommendAdjustments(Analysis{SuccessRate: 30, AverageROI: 20}, models.AgentConfig{TargetMargin: 30, Strategy: models.StrategyBalanced})
	assert.Nil(t, none.TargetMargin)
	assert.Nil(t, none.Strategy)
	assert.Empty(t, none.Reasons)
}

func TestNewRecord(t *testing.T) {
	decision := models.AgentDecision{FinancialImpact: models.FinancialImpact{Cost: 20, ExpectedReturn: 30}}
	price, profit, days := 60.0, 28.0, 3

	rec := NewRecord("l1", decision, OutcomeInput{Sold: true, SellPrice: &price, Profit: &profit, DaysToSell: &days}, baseTime)

	assert.Equal(t, "l1", rec.ID)
	assert.InDelta(t, 140.0, rec.Outcome.ROI, 1e-9)
	assert.Equal(t, []string{
		"Quick sale - high demand product",
		"Price point $60.00 is effective",
		"Met or exceeded profit expectations",
		"Excellent ROI - similar products are good investments",
	}, rec.Learnings)
}

func TestNewRecord_ZeroCostGuardsROI(t *testing.T) {
	profit := 10.0
	rec := NewRecord("l1", models.AgentDecision{}, OutcomeInput{Sold: true, Profit: &profit}, baseTime)
	assert.Zero(t, rec.Outcome.ROI)
}

func TestNewRecord_Unsold(t *testing.T) {
	rec := NewRecord("l1", models.AgentDecision{}, OutcomeInput{Sold: false}, baseTime)
	assert.Equal(t, []string{"Item did not sell - review pricing or demand"}, rec.Learnings)
}

func TestComputeMetrics(t *testing.T) {
	p := func(v float64) *float64 { return &v }
	d := func(v int) *int { return &v }

	old := record("shoes", 10, true, 500)
	old.Timestamp = baseTime.AddDate(0, 0, -45)
	old.Outcome.SellPrice = p(100)

	history := []models.LearningRecord{old}
	for i, roi := range []float64{10, 90, 50, 70, 30, 20} {
		rec := record("shoes", 10, true, roi)
		rec.Timestamp = baseTime.AddDate(0, 0, -i)
		rec.Outcome.SellPrice = p(25)
		rec.Outcome.Profit = p(5)
		rec.Outcome.DaysToSell = d(4)
		history = append(history, rec)
	}
	history = append(history, record("shoes", 10, false, 0))

	m := ComputeMetrics(history, 30, baseTime)

	assert.Equal(t, 7, m.TotalDecisions)
	assert.Equal(t, 6, m.SuccessfulSales)
	assert.InDelta(t, 150.0, m.TotalRevenue, 1e-9)
	assert.InDelta(t, 30.0, m.TotalProfit, 1e-9)
	assert.InDelta(t, 4.0, m.AverageDaysToSell, 1e-9)
	require.Len(t, m.TopPerformers, 5)
	assert.Equal(t, 90.0, m.TopPerformers[0].ROI)
	assert.Equal(t, 20.0, m.TopPerformers[4].ROI)
}

func TestPredictSuccess(t *testing.T) {
	a := Analysis{
		TotalDecisions: 12,
		BestCategories: []string{"shoes"},
		PriceBands: []PriceBandPerformance{
			{PriceBand: PriceBands[0], SuccessRate: 80},
			{PriceBand: PriceBands[1], SuccessRate: 40},
			{PriceBand: PriceBands[2]},
			{PriceBand: PriceBands[3]},
		},
	}

	best := PredictSuccess(a, models.ProductOpportunity{Category: "shoes", EstimatedCost: 10, ProfitMargin: 70})
	assert.Equal(t, 95.0, best.Probability)

	mid := PredictSuccess(a, models.ProductOpportunity{Category: "clothing", EstimatedCost: 30, ProfitMargin: 40})
	assert.Equal(t, 50.0, mid.Probability)
	assert.Contains(t, mid.Reasoning, "12 past decisions")

	band := PredictSuccess(a, models.ProductOpportunity{Category: "clothing", EstimatedCost: 10, ProfitMargin: 61})
	assert.Equal(t, 75.0, band.Probability)
}

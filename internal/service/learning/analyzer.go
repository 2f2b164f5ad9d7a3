// Package learning aggregates the outcome history of agent decisions into
// success rates, category and price-band performance, and advisory
// configuration adjustments.
package learning

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/mamadbah2/resaledesk/internal/calc"
	"github.com/mamadbah2/resaledesk/internal/domain/models"
)

const (
	topCategories     = 3
	topPerformers     = 5
	quickSaleDays     = 7
	minUsefulHistory  = 10
	expectationFactor = 0.9
)

// OutcomeInput is what happened to a decision in the real world.
type OutcomeInput struct {
	Sold       bool     `json:"sold"`
	SellPrice  *float64 `json:"sellPrice"`
	Profit     *float64 `json:"profit"`
	DaysToSell *int     `json:"daysToSell"`
}

// PriceBand is a half-open cost range [Min, Max). A nil Max is unbounded.
type PriceBand struct {
	Min float64  `json:"min"`
	Max *float64 `json:"max"`
}

// Contains reports whether cost falls inside the band.
func (b PriceBand) Contains(cost float64) bool {
	if cost < b.Min {
		return false
	}
	return b.Max == nil || cost < *b.Max
}

func bound(v float64) *float64 { return &v }

// PriceBands are the fixed cost buckets used for performance analysis.
var PriceBands = []PriceBand{
	{Min: 0, Max: bound(20)},
	{Min: 20, Max: bound(50)},
	{Min: 50, Max: bound(100)},
	{Min: 100},
}

// PriceBandPerformance is the success rate of decisions within one band.
type PriceBandPerformance struct {
	PriceBand
	Count       int     `json:"count"`
	SuccessRate float64 `json:"successRate"`
}

// CategoryPerformance is the sold/total ratio of one category.
type CategoryPerformance struct {
	Category    string  `json:"category"`
	Total       int     `json:"total"`
	Sold        int     `json:"sold"`
	SuccessRate float64 `json:"successRate"`
}

// Analysis summarizes an outcome history.
type Analysis struct {
	TotalDecisions int                    `json:"totalDecisions"`
	SoldCount      int                    `json:"soldCount"`
	SuccessRate    float64                `json:"successRate"`
	AverageROI     float64                `json:"averageRoi"`
	BestCategories []string               `json:"bestCategories"`
	Categories     []CategoryPerformance  `json:"categories"`
	PriceBands     []PriceBandPerformance `json:"priceBands"`
	Insights       []string               `json:"insights"`
}

// Analyze folds the history into an Analysis. Categories with equal success
// rates keep the order in which they first appear in the history.
func Analyze(history []models.LearningRecord) Analysis {
	a := Analysis{
		TotalDecisions: len(history),
		BestCategories: []string{},
		Categories:     []CategoryPerformance{},
	}

	var roiSum float64
	index := map[string]int{}
	for _, rec := range history {
		cat := rec.Decision.Category()
		i, ok := index[cat]
		if !ok {
			i = len(a.Categories)
			index[cat] = i
			a.Categories = append(a.Categories, CategoryPerformance{Category: cat})
		}
		a.Categories[i].Total++

		if rec.Outcome.Sold {
			a.SoldCount++
			a.Categories[i].Sold++
			roiSum += rec.Outcome.ROI
		}
	}

	if a.TotalDecisions > 0 {
		a.SuccessRate = float64(a.SoldCount) / float64(a.TotalDecisions) * 100
	}
	if a.SoldCount > 0 {
		a.AverageROI = roiSum / float64(a.SoldCount)
	}

	for i := range a.Categories {
		c := &a.Categories[i]
		c.SuccessRate = float64(c.Sold) / float64(c.Total) * 100
	}
	ranked := make([]CategoryPerformance, len(a.Categories))
	copy(ranked, a.Categories)
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].SuccessRate > ranked[j].SuccessRate })
	for i := 0; i < len(ranked) && i < topCategories; i++ {
		a.BestCategories = append(a.BestCategories, ranked[i].Category)
	}

	a.PriceBands = make([]PriceBandPerformance, 0, len(PriceBands))
	for _, band := range PriceBands {
		perf := PriceBandPerformance{PriceBand: band}
		sold := 0
		for _, rec := range history {
			if !band.Contains(rec.Decision.FinancialImpact.Cost) {
				continue
			}
			perf.Count++
			if rec.Outcome.Sold {
				sold++
			}
		}
		if perf.Count > 0 {
			perf.SuccessRate = float64(sold) / float64(perf.Count) * 100
		}
		a.PriceBands = append(a.PriceBands, perf)
	}

	a.Insights = insights(a)
	return a
}

func insights(a Analysis) []string {
	out := []string{}

	switch {
	case a.SuccessRate > 70:
		out = append(out, "Strong overall performance - keep the current strategy")
	case a.SuccessRate < 40:
		out = append(out, "Low success rate - reconsider the product selection criteria")
	}

	switch {
	case a.AverageROI > 100:
		out = append(out, "Excellent ROI - recent picks are winners")
	case a.AverageROI < 50:
		out = append(out, "ROI below target - focus on higher margin opportunities")
	}

	if len(a.BestCategories) > 0 {
		out = append(out, "Best performing categories: "+strings.Join(a.BestCategories, ", "))
	}

	if a.TotalDecisions < minUsefulHistory {
		out = append(out, "Need more data to identify patterns")
	}

	return out
}

// Adjustments are advisory configuration changes. Nil fields mean no change.
type Adjustments struct {
	TargetMargin *float64         `json:"targetMargin,omitempty"`
	Strategy     *models.Strategy `json:"strategy,omitempty"`
	Reasons      []string         `json:"reasons"`
}

// RecommendAdjustments derives margin and strategy nudges from an analysis.
// Nothing is applied to cfg.
func RecommendAdjustments(a Analysis, cfg models.AgentConfig) Adjustments {
	adj := Adjustments{Reasons: []string{}}

	switch {
	case a.SuccessRate < 40 && cfg.TargetMargin > 30:
		margin := cfg.TargetMargin - 5
		adj.TargetMargin = &margin
		adj.Reasons = append(adj.Reasons, fmt.Sprintf("success rate %.1f%% is low: lower target margin to %g%%", a.SuccessRate, margin))
	case a.SuccessRate > 80 && cfg.TargetMargin < 60:
		margin := cfg.TargetMargin + 5
		adj.TargetMargin = &margin
		adj.Reasons = append(adj.Reasons, fmt.Sprintf("success rate %.1f%% is high: raise target margin to %g%%", a.SuccessRate, margin))
	}

	switch {
	case a.AverageROI < 50 && cfg.Strategy == models.StrategyAggressive:
		strategy := models.StrategyBalanced
		adj.Strategy = &strategy
		adj.Reasons = append(adj.Reasons, fmt.Sprintf("average ROI %.1f%% is weak: move from aggressive to balanced", a.AverageROI))
	case a.AverageROI > 150 && cfg.Strategy == models.StrategyConservative:
		strategy := models.StrategyBalanced
		adj.Strategy = &strategy
		adj.Reasons = append(adj.Reasons, fmt.Sprintf("average ROI %.1f%% is strong: move from conservative to balanced", a.AverageROI))
	}

	return adj
}

// NewRecord builds the learning record for a decision's outcome. ROI is
// profit over the decision cost in percent, zero when either is missing.
func NewRecord(id string, decision models.AgentDecision, in OutcomeInput, now time.Time) models.LearningRecord {
	outcome := models.SaleOutcome{
		Sold:       in.Sold,
		SellPrice:  in.SellPrice,
		Profit:     in.Profit,
		DaysToSell: in.DaysToSell,
	}
	if in.Profit != nil && *in.Profit != 0 && decision.FinancialImpact.Cost != 0 {
		outcome.ROI = *in.Profit / decision.FinancialImpact.Cost * 100
	}

	return models.LearningRecord{
		ID:        id,
		Timestamp: now,
		Decision:  decision,
		Outcome:   outcome,
		Learnings: extractLearnings(decision, outcome),
	}
}

func extractLearnings(decision models.AgentDecision, outcome models.SaleOutcome) []string {
	learnings := []string{}
	if !outcome.Sold {
		return append(learnings, "Item did not sell - review pricing or demand")
	}

	if outcome.DaysToSell != nil && *outcome.DaysToSell < quickSaleDays {
		learnings = append(learnings, "Quick sale - high demand product")
		if outcome.SellPrice != nil {
			learnings = append(learnings, fmt.Sprintf("Price point %s is effective", calc.FormatCurrency(*outcome.SellPrice)))
		}
	}

	if outcome.Profit != nil && *outcome.Profit > decision.FinancialImpact.ExpectedReturn*expectationFactor {
		learnings = append(learnings, "Met or exceeded profit expectations")
	}

	if outcome.ROI > 100 {
		learnings = append(learnings, "Excellent ROI - similar products are good investments")
	}

	return learnings
}

// TopPerformer is one sold decision ranked by ROI.
type TopPerformer struct {
	Decision   models.AgentDecision `json:"decision"`
	Profit     *float64             `json:"profit,omitempty"`
	ROI        float64              `json:"roi"`
	DaysToSell *int                 `json:"daysToSell,omitempty"`
}

// Metrics summarizes the history inside a trailing window.
type Metrics struct {
	WindowDays        int            `json:"windowDays"`
	TotalDecisions    int            `json:"totalDecisions"`
	SuccessfulSales   int            `json:"successfulSales"`
	TotalRevenue      float64        `json:"totalRevenue"`
	TotalProfit       float64        `json:"totalProfit"`
	AverageDaysToSell float64        `json:"averageDaysToSell"`
	TopPerformers     []TopPerformer `json:"topPerformingProducts"`
}

// ComputeMetrics summarizes records whose timestamp is within days of now.
func ComputeMetrics(history []models.LearningRecord, days int, now time.Time) Metrics {
	m := Metrics{WindowDays: days, TopPerformers: []TopPerformer{}}
	cutoff := now.AddDate(0, 0, -days)

	var sold []models.LearningRecord
	daysSum := 0
	for _, rec := range history {
		if rec.Timestamp.Before(cutoff) {
			continue
		}
		m.TotalDecisions++
		if !rec.Outcome.Sold {
			continue
		}
		sold = append(sold, rec)
		if rec.Outcome.SellPrice != nil {
			m.TotalRevenue += *rec.Outcome.SellPrice
		}
		if rec.Outcome.Profit != nil {
			m.TotalProfit += *rec.Outcome.Profit
		}
		if rec.Outcome.DaysToSell != nil {
			daysSum += *rec.Outcome.DaysToSell
		}
	}

	m.SuccessfulSales = len(sold)
	if len(sold) > 0 {
		m.AverageDaysToSell = float64(daysSum) / float64(len(sold))
	}

	sort.SliceStable(sold, func(i, j int) bool { return sold[i].Outcome.ROI > sold[j].Outcome.ROI })
	for i := 0; i < len(sold) && i < topPerformers; i++ {
		m.TopPerformers = append(m.TopPerformers, TopPerformer{
			Decision:   sold[i].Decision,
			Profit:     sold[i].Outcome.Profit,
			ROI:        sold[i].Outcome.ROI,
			DaysToSell: sold[i].Outcome.DaysToSell,
		})
	}
	return m
}

// Prediction is a heuristic success probability for a new opportunity.
type Prediction struct {
	Probability float64 `json:"probability"`
	Reasoning   string  `json:"reasoning"`
}

// PredictSuccess scores an opportunity against an analysis: base 50, plus 20
// for a best category, 15 for a price band above 60% success, 10 for a margin
// above 60, clamped to [10, 95].
func PredictSuccess(a Analysis, opp models.ProductOpportunity) Prediction {
	probability := 50.0
	var factors []string

	for _, cat := range a.BestCategories {
		if cat == opp.Category {
			probability += 20
			factors = append(factors, "strong category")
			break
		}
	}

	for _, band := range a.PriceBands {
		if band.Contains(opp.EstimatedCost) {
			if band.SuccessRate > 60 {
				probability += 15
				factors = append(factors, "proven price band")
			}
			break
		}
	}

	if opp.ProfitMargin > 60 {
		probability += 10
		factors = append(factors, "high margin")
	}

	probability = math.Min(95, math.Max(10, probability))

	reasoning := fmt.Sprintf("Based on %d past decisions", a.TotalDecisions)
	if len(factors) > 0 {
		reasoning += ": " + strings.Join(factors, ", ")
	}
	return Prediction{Probability: probability, Reasoning: reasoning}
}

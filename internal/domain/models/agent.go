package models

import "time"

// Budget bounds how much an agent configuration may commit.
type Budget struct {
	Daily   float64 `json:"daily" bson:"daily"`
	PerItem float64 `json:"perItem" bson:"per_item"`
	Total   float64 `json:"total" bson:"total"`
}

// AgentConfig is the named policy used to gate purchase decisions.
type AgentConfig struct {
	ID            string    `json:"id" bson:"_id"`
	Name          string    `json:"name" bson:"name"`
	Enabled       bool      `json:"enabled" bson:"enabled"`
	Budget        Budget    `json:"budget" bson:"budget"`
	Strategy      Strategy  `json:"strategy" bson:"strategy"`
	TargetMargin  float64   `json:"targetMargin" bson:"target_margin"`
	AutoListings  bool      `json:"autoListings" bson:"auto_listings"`
	AutoPurchase  bool      `json:"autoPurchase" bson:"auto_purchase"`
	RiskTolerance RiskLevel `json:"riskTolerance" bson:"risk_tolerance"`
}

// MarketData holds the marketplace signals behind an opportunity.
type MarketData struct {
	AverageSoldPrice float64 `json:"averageSoldPrice" bson:"average_sold_price"`
	SoldCount30Days  int     `json:"soldCount30Days" bson:"sold_count_30_days"`
	ActiveListings   int     `json:"activeListings" bson:"active_listings"`
	TrendingScore    float64 `json:"trendingScore" bson:"trending_score"`
}

// ProductOpportunity is a candidate item to source. Scores are nominally 0-100
// but are not range checked.
type ProductOpportunity struct {
	ID                 string     `json:"id,omitempty" bson:"id,omitempty"`
	Name               string     `json:"name" bson:"name"`
	Category           string     `json:"category" bson:"category"`
	EstimatedCost      float64    `json:"estimatedCost" bson:"estimated_cost"`
	EstimatedSellPrice float64    `json:"estimatedSellPrice" bson:"estimated_sell_price"`
	ProjectedProfit    float64    `json:"projectedProfit" bson:"projected_profit"`
	ProfitMargin       float64    `json:"profitMargin" bson:"profit_margin"`
	DemandScore        float64    `json:"demandScore" bson:"demand_score"`
	CompetitionScore   float64    `json:"competitionScore" bson:"competition_score"`
	ConfidenceScore    float64    `json:"confidenceScore" bson:"confidence_score"`
	Source             string     `json:"source,omitempty" bson:"source,omitempty"`
	Reasoning          string     `json:"reasoning" bson:"reasoning"`
	DataPoints         MarketData `json:"dataPoints" bson:"data_points"`
	Recommended        bool       `json:"recommended" bson:"recommended"`
	SourcingTips       string     `json:"sourcingTips,omitempty" bson:"sourcing_tips,omitempty"`
	Timestamp          string     `json:"timestamp,omitempty" bson:"timestamp,omitempty"`
}

// Judgment is the verdict returned by an external judgment step.
type Judgment struct {
	Decision          string  `json:"decision" bson:"decision"`
	Confidence        float64 `json:"confidence" bson:"confidence"`
	Reasoning         string  `json:"reasoning" bson:"reasoning"`
	AlternativeAction string  `json:"alternativeAction,omitempty" bson:"alternative_action,omitempty"`
}

// DataSource is one piece of evidence consulted for a decision.
type DataSource struct {
	Opportunity *ProductOpportunity `json:"opportunity,omitempty" bson:"opportunity,omitempty"`
	Judgment    *Judgment           `json:"judgment,omitempty" bson:"judgment,omitempty"`
}

// FinancialImpact summarizes the money at stake in a decision.
type FinancialImpact struct {
	Cost           float64   `json:"cost" bson:"cost"`
	ExpectedReturn float64   `json:"expectedReturn" bson:"expected_return"`
	Risk           RiskLevel `json:"risk" bson:"risk"`
}

// AgentDecision is the output of evaluating one opportunity against one configuration.
type AgentDecision struct {
	ID              string          `json:"id" bson:"_id"`
	Type            DecisionType    `json:"type" bson:"type"`
	Decision        string          `json:"decision" bson:"decision"`
	Reasoning       string          `json:"reasoning" bson:"reasoning"`
	Confidence      float64         `json:"confidence" bson:"confidence"`
	DataUsed        []DataSource    `json:"dataUsed" bson:"data_used"`
	Outcome         OutcomeStatus   `json:"outcome" bson:"outcome"`
	FinancialImpact FinancialImpact `json:"financialImpact" bson:"financial_impact"`
	Timestamp       time.Time       `json:"timestamp" bson:"timestamp"`
	ExecutedAt      *time.Time      `json:"executedAt,omitempty" bson:"executed_at,omitempty"`
}

// Category returns the category of the first opportunity the decision used,
// or "unknown" when none was recorded.
func (d AgentDecision) Category() string {
	for _, src := range d.DataUsed {
		if src.Opportunity != nil && src.Opportunity.Category != "" {
			return src.Opportunity.Category
		}
	}
	return "unknown"
}

// SaleOutcome records what happened to a decision in the real world.
type SaleOutcome struct {
	Sold       bool     `json:"sold" bson:"sold"`
	SellPrice  *float64 `json:"sellPrice,omitempty" bson:"sell_price,omitempty"`
	Profit     *float64 `json:"profit,omitempty" bson:"profit,omitempty"`
	DaysToSell *int     `json:"daysToSell,omitempty" bson:"days_to_sell,omitempty"`
	ROI        float64  `json:"roi" bson:"roi"`
}

// LearningRecord is one append-only entry of the outcome history.
type LearningRecord struct {
	ID        string        `json:"id" bson:"_id"`
	Timestamp time.Time     `json:"timestamp" bson:"timestamp"`
	Decision  AgentDecision `json:"decision" bson:"decision"`
	Outcome   SaleOutcome   `json:"outcome" bson:"outcome"`
	Learnings []string      `json:"learnings" bson:"learnings"`
}

// ResearchRequest parameterizes a product research call.
type ResearchRequest struct {
	Budget           float64  `json:"budget"`
	TargetMargin     float64  `json:"targetMargin"`
	Strategy         Strategy `json:"strategy"`
	CurrentInventory int      `json:"currentInventory"`
	Categories       []string `json:"categories,omitempty"`
}

// MarketSnapshot summarizes marketplace activity for a search term.
type MarketSnapshot struct {
	Keywords         string  `json:"keywords"`
	AverageSoldPrice float64 `json:"averageSoldPrice"`
	MedianSoldPrice  float64 `json:"medianSoldPrice"`
	SoldCount        int     `json:"soldCount"`
	ActiveListings   int     `json:"activeListings"`
	DemandScore      float64 `json:"demandScore"`
	CompetitionScore float64 `json:"competitionScore"`
}

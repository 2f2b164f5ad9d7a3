package models

import "fmt"

// Category enumerates the product categories tracked by the dashboard.
type Category string

const (
	CategoryClothing    Category = "clothing"
	CategoryShoes       Category = "shoes"
	CategoryAccessories Category = "accessories"
	CategoryOther       Category = "other"
)

// Valid reports whether the category is one of the known values.
func (c Category) Valid() bool {
	switch c {
	case CategoryClothing, CategoryShoes, CategoryAccessories, CategoryOther:
		return true
	default:
		return false
	}
}

// Condition enumerates the physical condition of an item.
type Condition string

const (
	ConditionNew       Condition = "new"
	ConditionLikeNew   Condition = "like-new"
	ConditionExcellent Condition = "excellent"
	ConditionGood      Condition = "good"
	ConditionFair      Condition = "fair"
)

// Valid reports whether the condition is one of the known values.
func (c Condition) Valid() bool {
	switch c {
	case ConditionNew, ConditionLikeNew, ConditionExcellent, ConditionGood, ConditionFair:
		return true
	default:
		return false
	}
}

// ItemStatus enumerates the resale lifecycle of an inventory item.
type ItemStatus string

const (
	StatusInStock ItemStatus = "in-stock"
	StatusListed  ItemStatus = "listed"
	StatusSold    ItemStatus = "sold"
)

// Valid reports whether the status is one of the known values.
func (s ItemStatus) Valid() bool {
	_, err := s.Rank()
	return err == nil
}

// Rank orders statuses along the in-stock → listed → sold lifecycle.
func (s ItemStatus) Rank() (int, error) {
	switch s {
	case StatusInStock:
		return 0, nil
	case StatusListed:
		return 1, nil
	case StatusSold:
		return 2, nil
	default:
		return 0, fmt.Errorf("unknown item status %q", string(s))
	}
}

// GoalType enumerates the metrics a goal can track.
type GoalType string

const (
	GoalRevenue   GoalType = "revenue"
	GoalProfit    GoalType = "profit"
	GoalItemsSold GoalType = "items-sold"
	GoalCustom    GoalType = "custom"
)

// Valid reports whether the goal type is one of the known values.
func (t GoalType) Valid() bool {
	switch t {
	case GoalRevenue, GoalProfit, GoalItemsSold, GoalCustom:
		return true
	default:
		return false
	}
}

// AutoTracked reports whether the goal's current value is derived from inventory.
func (t GoalType) AutoTracked() bool {
	switch t {
	case GoalRevenue, GoalProfit, GoalItemsSold:
		return true
	default:
		return false
	}
}

// GoalPeriod enumerates goal cadence.
type GoalPeriod string

const (
	PeriodDaily   GoalPeriod = "daily"
	PeriodWeekly  GoalPeriod = "weekly"
	PeriodMonthly GoalPeriod = "monthly"
	PeriodYearly  GoalPeriod = "yearly"
)

// Valid reports whether the period is one of the known values.
func (p GoalPeriod) Valid() bool {
	switch p {
	case PeriodDaily, PeriodWeekly, PeriodMonthly, PeriodYearly:
		return true
	default:
		return false
	}
}

// Strategy enumerates the purchasing posture of an agent configuration.
type Strategy string

const (
	StrategyConservative Strategy = "conservative"
	StrategyBalanced     Strategy = "balanced"
	StrategyAggressive   Strategy = "aggressive"
)

// Valid reports whether the strategy is one of the known values.
func (s Strategy) Valid() bool {
	switch s {
	case StrategyConservative, StrategyBalanced, StrategyAggressive:
		return true
	default:
		return false
	}
}

// RiskLevel is shared by risk tolerance and the derived risk tier of a decision.
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// Valid reports whether the risk level is one of the known values.
func (r RiskLevel) Valid() bool {
	switch r {
	case RiskLow, RiskMedium, RiskHigh:
		return true
	default:
		return false
	}
}

// DecisionType enumerates the kinds of agent decisions.
type DecisionType string

const (
	DecisionResearch DecisionType = "research"
	DecisionPurchase DecisionType = "purchase"
	DecisionListing  DecisionType = "listing"
	DecisionPricing  DecisionType = "pricing"
	DecisionStrategy DecisionType = "strategy"
)

// Valid reports whether the decision type is one of the known values.
func (t DecisionType) Valid() bool {
	switch t {
	case DecisionResearch, DecisionPurchase, DecisionListing, DecisionPricing, DecisionStrategy:
		return true
	default:
		return false
	}
}

// OutcomeStatus enumerates the execution state of a decision.
type OutcomeStatus string

const (
	OutcomePending  OutcomeStatus = "pending"
	OutcomeApproved OutcomeStatus = "approved"
	OutcomeExecuted OutcomeStatus = "executed"
	OutcomeRejected OutcomeStatus = "rejected"
	OutcomeFailed   OutcomeStatus = "failed"
)

// Valid reports whether the outcome status is one of the known values.
func (o OutcomeStatus) Valid() bool {
	switch o {
	case OutcomePending, OutcomeApproved, OutcomeExecuted, OutcomeRejected, OutcomeFailed:
		return true
	default:
		return false
	}
}

// TransactionType enumerates ledger entry kinds.
type TransactionType string

const (
	TransactionPurchase TransactionType = "purchase"
	TransactionSale     TransactionType = "sale"
	TransactionExpense  TransactionType = "expense"
)

// Valid reports whether the transaction type is one of the known values.
func (t TransactionType) Valid() bool {
	switch t {
	case TransactionPurchase, TransactionSale, TransactionExpense:
		return true
	default:
		return false
	}
}

// Package agent evaluates sourcing opportunities against the session's agent
// configuration. Evaluation is a two-stage pipeline: a local pre-filter on
// budget and margin, then an injected Judge.
package agent

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mamadbah2/resaledesk/internal/domain/models"
)

// ErrNoJudge is returned when an opportunity passes the pre-filter but no
// judgment step is configured.
var ErrNoJudge = errors.New("no judgment step configured")

// Verdict is the terminal state of one evaluation.
type Verdict string

const (
	VerdictApproved         Verdict = "approved"
	VerdictRejectedBudget   Verdict = "rejected-budget"
	VerdictRejectedMargin   Verdict = "rejected-margin"
	VerdictRejectedByPolicy Verdict = "rejected-by-policy"
)

// Rejected reports whether the verdict is any kind of rejection.
func (v Verdict) Rejected() bool {
	return v != VerdictApproved
}

const (
	decisionReject = "reject"
	decisionBuy    = "buy"
)

// Judge is the external judgment step consulted for opportunities that pass
// the pre-filter.
type Judge interface {
	Judge(ctx context.Context, opp models.ProductOpportunity, cfg models.AgentConfig) (models.Judgment, error)
}

// JudgeFunc adapts a function to the Judge interface.
type JudgeFunc func(ctx context.Context, opp models.ProductOpportunity, cfg models.AgentConfig) (models.Judgment, error)

func (f JudgeFunc) Judge(ctx context.Context, opp models.ProductOpportunity, cfg models.AgentConfig) (models.Judgment, error) {
	return f(ctx, opp, cfg)
}

// Evaluation is the classified result of gating one opportunity.
type Evaluation struct {
	Verdict    Verdict          `json:"verdict"`
	Decision   string           `json:"decision"`
	Confidence float64          `json:"confidence"`
	Reasoning  string           `json:"reasoning"`
	Risk       models.RiskLevel `json:"risk"`
	Judgment   *models.Judgment `json:"judgment,omitempty"`
}

// PreFilter applies the budget ceiling then the margin floor. It returns the
// rejection and true when either rule fires, or a zero Evaluation and false
// when the opportunity should go on to judgment.
func PreFilter(opp models.ProductOpportunity, cfg models.AgentConfig) (Evaluation, bool) {
	if opp.EstimatedCost > cfg.Budget.PerItem {
		return Evaluation{
			Verdict:    VerdictRejectedBudget,
			Decision:   decisionReject,
			Confidence: 100,
			Reasoning:  fmt.Sprintf("Exceeds per-item budget limit: cost $%.2f > limit $%.2f", opp.EstimatedCost, cfg.Budget.PerItem),
			Risk:       models.RiskHigh,
		}, true
	}

	if opp.ProfitMargin < cfg.TargetMargin {
		return Evaluation{
			Verdict:    VerdictRejectedMargin,
			Decision:   decisionReject,
			Confidence: 90,
			Reasoning:  fmt.Sprintf("Margin %g%% below target %g%%", opp.ProfitMargin, cfg.TargetMargin),
			Risk:       models.RiskMedium,
		}, true
	}

	return Evaluation{}, false
}

// Gate runs the full pipeline. The judge's verdict, confidence and reasoning
// are passed through unchanged; a "buy" verdict is approved and anything else
// is a policy rejection.
func Gate(ctx context.Context, opp models.ProductOpportunity, cfg models.AgentConfig, judge Judge) (Evaluation, error) {
	if eval, rejected := PreFilter(opp, cfg); rejected {
		return eval, nil
	}
	if judge == nil {
		return Evaluation{}, ErrNoJudge
	}

	judgment, err := judge.Judge(ctx, opp, cfg)
	if err != nil {
		return Evaluation{}, fmt.Errorf("%w: judge opportunity %q: %w", ErrUpstream, opp.Name, err)
	}

	verdict := VerdictRejectedByPolicy
	if strings.EqualFold(strings.TrimSpace(judgment.Decision), decisionBuy) {
		verdict = VerdictApproved
	}

	return Evaluation{
		Verdict:    verdict,
		Decision:   judgment.Decision,
		Confidence: judgment.Confidence,
		Reasoning:  judgment.Reasoning,
		Risk:       AssessRisk(opp.ConfidenceScore, opp.ProfitMargin),
		Judgment:   &judgment,
	}, nil
}

// AssessRisk derives the reporting risk tier from a confidence score and a
// profit margin.
func AssessRisk(confidence, margin float64) models.RiskLevel {
	switch {
	case confidence > 80 && margin > 50:
		return models.RiskLow
	case confidence > 60 && margin > 30:
		return models.RiskMedium
	default:
		return models.RiskHigh
	}
}

// NewDecision records an evaluation as a purchase decision.
func NewDecision(id string, opp models.ProductOpportunity, eval Evaluation, now time.Time) models.AgentDecision {
	outcome := models.OutcomeRejected
	if eval.Verdict == VerdictApproved {
		outcome = models.OutcomePending
	}

	oppCopy := opp
	used := []models.DataSource{{Opportunity: &oppCopy}}
	if eval.Judgment != nil {
		judgment := *eval.Judgment
		used = append(used, models.DataSource{Judgment: &judgment})
	}

	return models.AgentDecision{
		ID:         id,
		Type:       models.DecisionPurchase,
		Decision:   eval.Decision,
		Reasoning:  eval.Reasoning,
		Confidence: eval.Confidence,
		DataUsed:   used,
		Outcome:    outcome,
		FinancialImpact: models.FinancialImpact{
			Cost:           opp.EstimatedCost,
			ExpectedReturn: opp.EstimatedSellPrice,
			Risk:           eval.Risk,
		},
		Timestamp: now,
	}
}

package learning

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mamadbah2/resaledesk/internal/domain/models"
	"github.com/mamadbah2/resaledesk/internal/repository"
)

// DefaultMetricsWindow is the trailing window, in days, used when none is given.
const DefaultMetricsWindow = 30

// Service records decision outcomes and serves analyses over the history.
type Service struct {
	history   repository.LearningRepository
	decisions repository.DecisionRepository
	logger    *zap.Logger
	now       func() time.Time
	newID     func() string
}

// NewService wires the learning service.
func NewService(history repository.LearningRepository, decisions repository.DecisionRepository, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{history: history, decisions: decisions, logger: logger, now: time.Now, newID: uuid.NewString}
}

// RecordOutcome appends the outcome of a decision to the history. A pending or
// approved decision is marked executed.
func (s *Service) RecordOutcome(ctx context.Context, decisionID string, in OutcomeInput) (models.LearningRecord, error) {
	decision, err := s.decisions.GetDecision(ctx, decisionID)
	if err != nil {
		return models.LearningRecord{}, err
	}

	now := s.now()
	record := NewRecord(s.newID(), decision, in, now)
	if err := s.history.AppendLearning(ctx, record); err != nil {
		return models.LearningRecord{}, fmt.Errorf("append learning record: %w", err)
	}

	switch decision.Outcome {
	case models.OutcomePending, models.OutcomeApproved:
		if err := s.decisions.UpdateDecisionOutcome(ctx, decisionID, models.OutcomeExecuted, &now); err != nil {
			return models.LearningRecord{}, fmt.Errorf("mark decision executed: %w", err)
		}
	}

	s.logger.Info("outcome recorded",
		zap.String("decision_id", decisionID),
		zap.Bool("sold", in.Sold),
		zap.Float64("roi", record.Outcome.ROI),
		zap.Strings("learnings", record.Learnings),
	)
	return record, nil
}

// History returns the full outcome history.
func (s *Service) History(ctx context.Context) ([]models.LearningRecord, error) {
	return s.history.ListLearning(ctx)
}

// Analysis analyzes the full history.
func (s *Service) Analysis(ctx context.Context) (Analysis, error) {
	history, err := s.history.ListLearning(ctx)
	if err != nil {
		return Analysis{}, err
	}
	return Analyze(history), nil
}

// Adjustments recommends configuration changes for cfg.
func (s *Service) Adjustments(ctx context.Context, cfg models.AgentConfig) (Adjustments, error) {
	analysis, err := s.Analysis(ctx)
	if err != nil {
		return Adjustments{}, err
	}
	return RecommendAdjustments(analysis, cfg), nil
}

// Metrics summarizes the trailing window of days; non-positive values use the default.
func (s *Service) Metrics(ctx context.Context, days int) (Metrics, error) {
	if days <= 0 {
		days = DefaultMetricsWindow
	}
	history, err := s.history.ListLearning(ctx)
	if err != nil {
		return Metrics{}, err
	}
	return ComputeMetrics(history, days, s.now()), nil
}

// Predict scores an opportunity against the history.
func (s *Service) Predict(ctx context.Context, opp models.ProductOpportunity) (Prediction, error) {
	analysis, err := s.Analysis(ctx)
	if err != nil {
		return Prediction{}, err
	}
	return PredictSuccess(analysis, opp), nil
}

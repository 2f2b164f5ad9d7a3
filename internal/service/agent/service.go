package agent

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mamadbah2/resaledesk/internal/domain/models"
	"github.com/mamadbah2/resaledesk/internal/repository"
)

var (
	// ErrInvalidConfig is returned when an agent configuration fails validation.
	ErrInvalidConfig = errors.New("invalid agent configuration")
	// ErrInvalidOutcome is returned for unknown decision outcome statuses.
	ErrInvalidOutcome = errors.New("invalid decision outcome")
	// ErrNoResearcher is returned when research is requested without a research client.
	ErrNoResearcher = errors.New("no research client configured")
	// ErrUpstream wraps failures of the research or judgment clients.
	ErrUpstream = errors.New("upstream service failed")
)

// Researcher produces candidate opportunities.
type Researcher interface {
	ResearchProducts(ctx context.Context, req models.ResearchRequest) ([]models.ProductOpportunity, error)
}

// MarketLookup returns marketplace activity for a search term.
type MarketLookup interface {
	ResearchProduct(ctx context.Context, keywords string) (models.MarketSnapshot, error)
}

// ResearchCache stores research results between calls. Misses and failures
// are reported the same way.
type ResearchCache interface {
	GetResearch(ctx context.Context, req models.ResearchRequest) ([]models.ProductOpportunity, bool)
	SetResearch(ctx context.Context, req models.ResearchRequest, opps []models.ProductOpportunity)
}

// Dependencies groups the collaborators of the agent service. Only Decisions
// is required.
type Dependencies struct {
	Decisions  repository.DecisionRepository
	Inventory  repository.InventoryRepository
	Judge      Judge
	Researcher Researcher
	Market     MarketLookup
	Cache      ResearchCache
	Logger     *zap.Logger
}

// Service holds the session agent configuration and records decisions.
type Service struct {
	mu  sync.RWMutex
	cfg models.AgentConfig

	deps   Dependencies
	logger *zap.Logger
	now    func() time.Time
	newID  func() string
}

// NewService creates the agent service seeded with cfg.
func NewService(cfg models.AgentConfig, deps Dependencies) (*Service, error) {
	if deps.Decisions == nil {
		return nil, errors.New("agent service requires a decision repository")
	}
	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.ID == "" {
		cfg.ID = uuid.NewString()
	}
	return &Service{
		cfg:    cfg,
		deps:   deps,
		logger: logger,
		now:    time.Now,
		newID:  uuid.NewString,
	}, nil
}

// Config returns the current session configuration.
func (s *Service) Config() models.AgentConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg
}

// UpdateConfig replaces the session configuration. The id is preserved.
func (s *Service) UpdateConfig(cfg models.AgentConfig) (models.AgentConfig, error) {
	if err := ValidateConfig(cfg); err != nil {
		return models.AgentConfig{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	cfg.ID = s.cfg.ID
	s.cfg = cfg
	s.logger.Info("agent configuration updated",
		zap.String("strategy", string(cfg.Strategy)),
		zap.Float64("target_margin", cfg.TargetMargin),
		zap.Float64("per_item_budget", cfg.Budget.PerItem),
	)
	return cfg, nil
}

// Evaluate gates one opportunity against the session configuration and
// records the resulting decision.
func (s *Service) Evaluate(ctx context.Context, opp models.ProductOpportunity) (models.AgentDecision, Evaluation, error) {
	cfg := s.Config()

	eval, err := Gate(ctx, opp, cfg, s.deps.Judge)
	if err != nil {
		return models.AgentDecision{}, Evaluation{}, err
	}

	decision := NewDecision(s.newID(), opp, eval, s.now())
	if err := s.deps.Decisions.SaveDecision(ctx, decision); err != nil {
		return models.AgentDecision{}, Evaluation{}, fmt.Errorf("save decision: %w", err)
	}

	s.logger.Info("opportunity evaluated",
		zap.String("decision_id", decision.ID),
		zap.String("opportunity", opp.Name),
		zap.String("verdict", string(eval.Verdict)),
		zap.Float64("confidence", eval.Confidence),
		zap.String("risk", string(eval.Risk)),
	)
	return decision, eval, nil
}

// Research asks the research client for opportunities sized to the session
// budget, serving from the cache when possible and enriching each result with
// marketplace data when a lookup is configured.
func (s *Service) Research(ctx context.Context) ([]models.ProductOpportunity, error) {
	if s.deps.Researcher == nil {
		return nil, ErrNoResearcher
	}
	cfg := s.Config()

	req := models.ResearchRequest{
		Budget:       cfg.Budget.PerItem,
		TargetMargin: cfg.TargetMargin,
		Strategy:     cfg.Strategy,
	}

	if s.deps.Cache != nil {
		if cached, ok := s.deps.Cache.GetResearch(ctx, req); ok {
			s.logger.Debug("research served from cache", zap.Int("count", len(cached)))
			return cached, nil
		}
	}

	if s.deps.Inventory != nil {
		items, err := s.deps.Inventory.ListInventory(ctx)
		if err != nil {
			return nil, fmt.Errorf("count inventory: %w", err)
		}
		req.CurrentInventory = len(items)
	}

	opps, err := s.deps.Researcher.ResearchProducts(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("%w: research products: %w", ErrUpstream, err)
	}

	stamp := s.now().UTC().Format(time.RFC3339)
	for i := range opps {
		if opps[i].ID == "" {
			opps[i].ID = s.newID()
		}
		if opps[i].Timestamp == "" {
			opps[i].Timestamp = stamp
		}
		if s.deps.Market != nil {
			s.enrich(ctx, &opps[i])
		}
	}

	if s.deps.Cache != nil {
		s.deps.Cache.SetResearch(ctx, req, opps)
	}

	s.logger.Info("research completed", zap.Int("opportunities", len(opps)))
	return opps, nil
}

func (s *Service) enrich(ctx context.Context, opp *models.ProductOpportunity) {
	snapshot, err := s.deps.Market.ResearchProduct(ctx, opp.Name)
	if err != nil {
		s.logger.Warn("marketplace lookup failed", zap.String("opportunity", opp.Name), zap.Error(err))
		return
	}
	opp.DataPoints.AverageSoldPrice = snapshot.AverageSoldPrice
	opp.DataPoints.SoldCount30Days = snapshot.SoldCount
	opp.DataPoints.ActiveListings = snapshot.ActiveListings
	opp.DemandScore = snapshot.DemandScore
	opp.CompetitionScore = snapshot.CompetitionScore
}

// Decisions returns the decision log.
func (s *Service) Decisions(ctx context.Context) ([]models.AgentDecision, error) {
	return s.deps.Decisions.ListDecisions(ctx)
}

// SetOutcome moves a decision to a new outcome status. Executed decisions get
// an execution timestamp.
func (s *Service) SetOutcome(ctx context.Context, id string, status models.OutcomeStatus) (models.AgentDecision, error) {
	if !status.Valid() {
		return models.AgentDecision{}, fmt.Errorf("%w: %q", ErrInvalidOutcome, status)
	}
	var executedAt *time.Time
	if status == models.OutcomeExecuted {
		now := s.now()
		executedAt = &now
	}
	if err := s.deps.Decisions.UpdateDecisionOutcome(ctx, id, status, executedAt); err != nil {
		return models.AgentDecision{}, err
	}
	return s.deps.Decisions.GetDecision(ctx, id)
}

// ValidateConfig checks the enumerations and numeric bounds of a configuration.
func ValidateConfig(cfg models.AgentConfig) error {
	switch {
	case !cfg.Strategy.Valid():
		return fmt.Errorf("%w: unknown strategy %q", ErrInvalidConfig, cfg.Strategy)
	case !cfg.RiskTolerance.Valid():
		return fmt.Errorf("%w: unknown risk tolerance %q", ErrInvalidConfig, cfg.RiskTolerance)
	case cfg.Budget.PerItem < 0 || cfg.Budget.Daily < 0 || cfg.Budget.Total < 0:
		return fmt.Errorf("%w: budgets must not be negative", ErrInvalidConfig)
	}
	return nil
}

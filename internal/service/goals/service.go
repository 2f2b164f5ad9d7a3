// Package goals tracks target metrics. Revenue, profit and items-sold goals
// follow the inventory aggregate; custom goals are user-controlled.
package goals

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mamadbah2/resaledesk/internal/calc"
	"github.com/mamadbah2/resaledesk/internal/domain/models"
	"github.com/mamadbah2/resaledesk/internal/repository"
)

// ErrInvalidGoal is returned when a goal fails validation.
var ErrInvalidGoal = errors.New("invalid goal")

// Recompute returns a copy of goals with auto-tracked values taken from stats,
// plus the indexes of goals whose current value changed.
func Recompute(goals []models.Goal, stats calc.InventoryStats) ([]models.Goal, []int) {
	out := make([]models.Goal, len(goals))
	var changed []int
	for i, goal := range goals {
		next := goal
		switch goal.Type {
		case models.GoalRevenue:
			next.Current = stats.TotalSold
		case models.GoalProfit:
			next.Current = stats.TotalProfit
		case models.GoalItemsSold:
			next.Current = float64(stats.ItemsSold)
		case models.GoalCustom:
		}
		if next.Current != goal.Current {
			changed = append(changed, i)
		}
		out[i] = next
	}
	return out, changed
}

// Progress is a goal together with its derived completion figures.
type Progress struct {
	models.Goal
	Percent   float64 `json:"progress"`
	Remaining float64 `json:"remaining"`
}

// WithProgress decorates goals for display.
func WithProgress(goals []models.Goal) []Progress {
	out := make([]Progress, 0, len(goals))
	for _, g := range goals {
		out = append(out, Progress{Goal: g, Percent: g.Progress(), Remaining: g.Remaining()})
	}
	return out
}

// Service exposes goal operations backed by repositories.
type Service struct {
	goals     repository.GoalRepository
	inventory repository.InventoryRepository
	logger    *zap.Logger
	newID     func() string
}

// NewService wires the goal service.
func NewService(goals repository.GoalRepository, inventory repository.InventoryRepository, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{goals: goals, inventory: inventory, logger: logger, newID: uuid.NewString}
}

// Refresh recomputes auto-tracked goals from the current inventory, persists
// only the goals that changed and returns every goal.
func (s *Service) Refresh(ctx context.Context) ([]models.Goal, error) {
	goals, err := s.goals.ListGoals(ctx)
	if err != nil {
		return nil, fmt.Errorf("list goals: %w", err)
	}
	items, err := s.inventory.ListInventory(ctx)
	if err != nil {
		return nil, fmt.Errorf("list inventory: %w", err)
	}

	updated, changed := Recompute(goals, calc.AggregateInventory(items))
	for _, idx := range changed {
		if err := s.goals.SaveGoal(ctx, updated[idx]); err != nil {
			return nil, fmt.Errorf("save goal %s: %w", updated[idx].ID, err)
		}
	}

	if len(changed) > 0 {
		s.logger.Info("goals refreshed", zap.Int("changed", len(changed)), zap.Int("total", len(updated)))
	}
	return updated, nil
}

// Create stores a new goal with current set to zero.
func (s *Service) Create(ctx context.Context, goal models.Goal) (models.Goal, error) {
	goal.ID = s.newID()
	goal.Title = strings.TrimSpace(goal.Title)
	goal.Current = 0
	if err := validate(goal); err != nil {
		return models.Goal{}, err
	}
	if err := s.goals.SaveGoal(ctx, goal); err != nil {
		return models.Goal{}, err
	}
	return goal, nil
}

// Update replaces a goal. The current value is only taken from the input for
// custom goals; auto-tracked goals keep their derived value.
func (s *Service) Update(ctx context.Context, id string, goal models.Goal) (models.Goal, error) {
	existing, err := s.goals.GetGoal(ctx, id)
	if err != nil {
		return models.Goal{}, err
	}
	goal.ID = id
	goal.Title = strings.TrimSpace(goal.Title)
	if goal.Type.AutoTracked() {
		goal.Current = existing.Current
	}
	if err := validate(goal); err != nil {
		return models.Goal{}, err
	}
	if err := s.goals.SaveGoal(ctx, goal); err != nil {
		return models.Goal{}, err
	}
	return goal, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.goals.DeleteGoal(ctx, id)
}

func validate(g models.Goal) error {
	switch {
	case g.Title == "":
		return fmt.Errorf("%w: title is required", ErrInvalidGoal)
	case !g.Type.Valid():
		return fmt.Errorf("%w: unknown type %q", ErrInvalidGoal, g.Type)
	case !g.Period.Valid():
		return fmt.Errorf("%w: unknown period %q", ErrInvalidGoal, g.Period)
	case g.Target < 0:
		return fmt.Errorf("%w: target must not be negative", ErrInvalidGoal)
	}
	if g.Deadline != "" {
		if _, err := time.Parse(models.DateLayout, g.Deadline); err != nil {
			return fmt.Errorf("%w: deadline %q", ErrInvalidGoal, g.Deadline)
		}
	}
	return nil
}

// Package memory provides a process-local implementation of repository.Store.
// It is used when no MongoDB URI is configured and as the test double for
// services.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/mamadbah2/resaledesk/internal/domain/models"
	"github.com/mamadbah2/resaledesk/internal/repository"
)

// table keeps rows keyed by id and remembers insertion order so listings are
// stable across calls.
type table[T any] struct {
	rows  map[string]T
	order []string
}

func newTable[T any]() *table[T] {
	return &table[T]{rows: make(map[string]T)}
}

func (t *table[T]) list() []T {
	out := make([]T, 0, len(t.order))
	for _, id := range t.order {
		out = append(out, t.rows[id])
	}
	return out
}

func (t *table[T]) get(id string) (T, error) {
	row, ok := t.rows[id]
	if !ok {
		var zero T
		return zero, repository.ErrNotFound
	}
	return row, nil
}

func (t *table[T]) put(id string, row T) {
	if _, ok := t.rows[id]; !ok {
		t.order = append(t.order, id)
	}
	t.rows[id] = row
}

func (t *table[T]) remove(id string) error {
	if _, ok := t.rows[id]; !ok {
		return repository.ErrNotFound
	}
	delete(t.rows, id)
	for i, existing := range t.order {
		if existing == id {
			t.order = append(t.order[:i], t.order[i+1:]...)
			break
		}
	}
	return nil
}

func (t *table[T]) reset() {
	t.rows = make(map[string]T)
	t.order = nil
}

// Store is an in-memory repository.Store guarded by a single RWMutex.
type Store struct {
	mu           sync.RWMutex
	inventory    *table[models.InventoryItem]
	suppliers    *table[models.Supplier]
	goals        *table[models.Goal]
	transactions *table[models.Transaction]
	decisions    *table[models.AgentDecision]
	learning     []models.LearningRecord
	reports      []models.WeeklyReport
}

var _ repository.Store = (*Store)(nil)

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		inventory:    newTable[models.InventoryItem](),
		suppliers:    newTable[models.Supplier](),
		goals:        newTable[models.Goal](),
		transactions: newTable[models.Transaction](),
		decisions:    newTable[models.AgentDecision](),
	}
}

/* ---- Inventory ---- */

func (s *Store) ListInventory(_ context.Context) ([]models.InventoryItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.inventory.list(), nil
}

func (s *Store) GetInventoryItem(_ context.Context, id string) (models.InventoryItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.inventory.get(id)
}

func (s *Store) SaveInventoryItem(_ context.Context, item models.InventoryItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inventory.put(item.ID, item)
	return nil
}

func (s *Store) DeleteInventoryItem(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inventory.remove(id)
}

func (s *Store) ReplaceInventory(_ context.Context, items []models.InventoryItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inventory.reset()
	for _, item := range items {
		s.inventory.put(item.ID, item)
	}
	return nil
}

/* ---- Suppliers ---- */

func (s *Store) ListSuppliers(_ context.Context) ([]models.Supplier, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.suppliers.list(), nil
}

func (s *Store) GetSupplier(_ context.Context, id string) (models.Supplier, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.suppliers.get(id)
}

func (s *Store) SaveSupplier(_ context.Context, supplier models.Supplier) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.suppliers.put(supplier.ID, supplier)
	return nil
}

func (s *Store) DeleteSupplier(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.suppliers.remove(id)
}

func (s *Store) ReplaceSuppliers(_ context.Context, suppliers []models.Supplier) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.suppliers.reset()
	for _, supplier := range suppliers {
		s.suppliers.put(supplier.ID, supplier)
	}
	return nil
}

/* ---- Goals ---- */

func (s *Store) ListGoals(_ context.Context) ([]models.Goal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.goals.list(), nil
}

func (s *Store) GetGoal(_ context.Context, id string) (models.Goal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.goals.get(id)
}

func (s *Store) SaveGoal(_ context.Context, goal models.Goal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.goals.put(goal.ID, goal)
	return nil
}

func (s *Store) DeleteGoal(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.goals.remove(id)
}

func (s *Store) ReplaceGoals(_ context.Context, goals []models.Goal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.goals.reset()
	for _, goal := range goals {
		s.goals.put(goal.ID, goal)
	}
	return nil
}

/* ---- Transactions ---- */

func (s *Store) ListTransactions(_ context.Context) ([]models.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.transactions.list(), nil
}

func (s *Store) SaveTransaction(_ context.Context, tx models.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.transactions.put(tx.ID, tx)
	return nil
}

func (s *Store) DeleteTransaction(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.transactions.remove(id)
}

func (s *Store) ReplaceTransactions(_ context.Context, txs []models.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.transactions.reset()
	for _, tx := range txs {
		s.transactions.put(tx.ID, tx)
	}
	return nil
}

/* ---- Decisions ---- */

func (s *Store) SaveDecision(_ context.Context, decision models.AgentDecision) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.decisions.put(decision.ID, decision)
	return nil
}

func (s *Store) GetDecision(_ context.Context, id string) (models.AgentDecision, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.decisions.get(id)
}

func (s *Store) ListDecisions(_ context.Context) ([]models.AgentDecision, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.decisions.list(), nil
}

func (s *Store) UpdateDecisionOutcome(_ context.Context, id string, outcome models.OutcomeStatus, executedAt *time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	decision, err := s.decisions.get(id)
	if err != nil {
		return err
	}
	decision.Outcome = outcome
	if executedAt != nil {
		decision.ExecutedAt = executedAt
	}
	s.decisions.put(id, decision)
	return nil
}

/* ---- Learning log ---- */

func (s *Store) AppendLearning(_ context.Context, record models.LearningRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.learning = append(s.learning, record)
	return nil
}

func (s *Store) ListLearning(_ context.Context) ([]models.LearningRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.LearningRecord, len(s.learning))
	copy(out, s.learning)
	return out, nil
}

/* ---- Reports ---- */

func (s *Store) SaveWeeklyReport(_ context.Context, report models.WeeklyReport) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reports = append(s.reports, report)
	return nil
}

// WeeklyReports returns the archived reports in the order they were saved.
func (s *Store) WeeklyReports() []models.WeeklyReport {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.WeeklyReport, len(s.reports))
	copy(out, s.reports)
	return out
}

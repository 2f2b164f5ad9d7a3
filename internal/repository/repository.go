// Package repository declares the persistence contracts the services depend on.
// Implementations live in the memory and mongodb subpackages.
package repository

import (
	"context"
	"errors"
	"time"

	"github.com/mamadbah2/resaledesk/internal/domain/models"
)

// ErrNotFound is returned when a record with the requested id does not exist.
var ErrNotFound = errors.New("record not found")

// InventoryRepository stores inventory items.
type InventoryRepository interface {
	ListInventory(ctx context.Context) ([]models.InventoryItem, error)
	GetInventoryItem(ctx context.Context, id string) (models.InventoryItem, error)
	SaveInventoryItem(ctx context.Context, item models.InventoryItem) error
	DeleteInventoryItem(ctx context.Context, id string) error
	ReplaceInventory(ctx context.Context, items []models.InventoryItem) error
}

// SupplierRepository stores supplier records.
type SupplierRepository interface {
	ListSuppliers(ctx context.Context) ([]models.Supplier, error)
	GetSupplier(ctx context.Context, id string) (models.Supplier, error)
	SaveSupplier(ctx context.Context, supplier models.Supplier) error
	DeleteSupplier(ctx context.Context, id string) error
	ReplaceSuppliers(ctx context.Context, suppliers []models.Supplier) error
}

// GoalRepository stores goals.
type GoalRepository interface {
	ListGoals(ctx context.Context) ([]models.Goal, error)
	GetGoal(ctx context.Context, id string) (models.Goal, error)
	SaveGoal(ctx context.Context, goal models.Goal) error
	DeleteGoal(ctx context.Context, id string) error
	ReplaceGoals(ctx context.Context, goals []models.Goal) error
}

// TransactionRepository stores ledger entries.
type TransactionRepository interface {
	ListTransactions(ctx context.Context) ([]models.Transaction, error)
	SaveTransaction(ctx context.Context, tx models.Transaction) error
	DeleteTransaction(ctx context.Context, id string) error
	ReplaceTransactions(ctx context.Context, txs []models.Transaction) error
}

// DecisionRepository stores agent decisions. Decisions are never deleted; only
// their outcome status moves.
type DecisionRepository interface {
	SaveDecision(ctx context.Context, decision models.AgentDecision) error
	GetDecision(ctx context.Context, id string) (models.AgentDecision, error)
	ListDecisions(ctx context.Context) ([]models.AgentDecision, error)
	UpdateDecisionOutcome(ctx context.Context, id string, outcome models.OutcomeStatus, executedAt *time.Time) error
}

// LearningRepository is the append-only outcome history.
type LearningRepository interface {
	AppendLearning(ctx context.Context, record models.LearningRecord) error
	ListLearning(ctx context.Context) ([]models.LearningRecord, error)
}

// ReportRepository archives generated reports.
type ReportRepository interface {
	SaveWeeklyReport(ctx context.Context, report models.WeeklyReport) error
}

// Store bundles every repository the application needs.
type Store interface {
	InventoryRepository
	SupplierRepository
	GoalRepository
	TransactionRepository
	DecisionRepository
	LearningRepository
	ReportRepository
}

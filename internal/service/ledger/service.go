// Package ledger records purchases, sales and expenses.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mamadbah2/resaledesk/internal/domain/models"
	"github.com/mamadbah2/resaledesk/internal/repository"
)

// ErrInvalidTransaction is returned when a ledger entry fails validation.
var ErrInvalidTransaction = errors.New("invalid transaction")

// Summary totals the ledger by entry type.
type Summary struct {
	Purchases float64 `json:"purchases"`
	Sales     float64 `json:"sales"`
	Expenses  float64 `json:"expenses"`
	Net       float64 `json:"net"`
}

type Service struct {
	repo   repository.TransactionRepository
	logger *zap.Logger
	now    func() time.Time
	newID  func() string
}

func NewService(repo repository.TransactionRepository, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{repo: repo, logger: logger, now: time.Now, newID: uuid.NewString}
}

func (s *Service) List(ctx context.Context) ([]models.Transaction, error) {
	return s.repo.ListTransactions(ctx)
}

// Add validates and stores a ledger entry. The date defaults to today.
func (s *Service) Add(ctx context.Context, tx models.Transaction) (models.Transaction, error) {
	tx.ID = s.newID()
	if tx.Date == "" {
		tx.Date = s.now().Format(models.DateLayout)
	}
	switch {
	case !tx.Type.Valid():
		return models.Transaction{}, fmt.Errorf("%w: unknown type %q", ErrInvalidTransaction, tx.Type)
	case tx.Amount < 0:
		return models.Transaction{}, fmt.Errorf("%w: amount must not be negative", ErrInvalidTransaction)
	}
	if _, err := time.Parse(models.DateLayout, tx.Date); err != nil {
		return models.Transaction{}, fmt.Errorf("%w: date %q", ErrInvalidTransaction, tx.Date)
	}

	if err := s.repo.SaveTransaction(ctx, tx); err != nil {
		return models.Transaction{}, err
	}
	s.logger.Info("transaction recorded", zap.String("id", tx.ID), zap.String("type", string(tx.Type)), zap.Float64("amount", tx.Amount))
	return tx, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.DeleteTransaction(ctx, id)
}

// Summarize totals a set of ledger entries. Net is sales minus purchases and expenses.
func Summarize(txs []models.Transaction) Summary {
	var sum Summary
	for _, tx := range txs {
		switch tx.Type {
		case models.TransactionPurchase:
			sum.Purchases += tx.Amount
		case models.TransactionSale:
			sum.Sales += tx.Amount
		case models.TransactionExpense:
			sum.Expenses += tx.Amount
		}
	}
	sum.Net = sum.Sales - sum.Purchases - sum.Expenses
	return sum
}

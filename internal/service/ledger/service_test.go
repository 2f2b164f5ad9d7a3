package ledger

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/resaledesk/internal/domain/models"
	"github.com/mamadbah2/resaledesk/internal/repository/memory"
)

func TestService_AddDefaultsDate(t *testing.T) {
	svc := NewService(memory.NewStore(), nil)
	svc.now = func() time.Time { return time.Date(2025, 2, 3, 0, 0, 0, 0, time.UTC) }

	tx, err := svc.Add(context.Background(), models.Transaction{Type: models.TransactionExpense, Amount: 9.5, Description: "poly mailers"})
	require.NoError(t, err)
	assert.Equal(t, "2025-02-03", tx.Date)
	assert.NotEmpty(t, tx.ID)

	all, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestService_AddValidates(t *testing.T) {
	svc := NewService(memory.NewStore(), nil)

	_, err := svc.Add(context.Background(), models.Transaction{Type: "refund", Amount: 1})
	assert.ErrorIs(t, err, ErrInvalidTransaction)

	_, err = svc.Add(context.Background(), models.Transaction{Type: models.TransactionSale, Amount: -1})
	assert.ErrorIs(t, err, ErrInvalidTransaction)

	_, err = svc.Add(context.Background(), models.Transaction{Type: models.TransactionSale, Amount: 1, Date: "03/02/2025"})
	assert.ErrorIs(t, err, ErrInvalidTransaction)
}

func TestSummarize(t *testing.T) {
	sum := Summarize([]models.Transaction{
		{Type: models.TransactionPurchase, Amount: 20},
		{Type: models.TransactionSale, Amount: 55},
		{Type: models.TransactionExpense, Amount: 5},
		{Type: models.TransactionSale, Amount: 10},
	})

	assert.Equal(t, Summary{Purchases: 20, Sales: 65, Expenses: 5, Net: 40}, sum)
}

package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/geocoder89/fintrack/internal/domain/transaction"
)

func seedTx(t *testing.T, r *TransactionsRepo, userID int64, date string, amount float64, category, ttype string) transaction.Transaction {
	t.Helper()

	created, err := r.Insert(context.Background(), userID, transaction.CreateRequest{
		Date:     date,
		Amount:   amount,
		Category: category,
		Type:     ttype,
	})
	require.NoError(t, err)

	return created
}

func TestInsertAndList(t *testing.T) {
	r := NewTransactionsRepo()
	ctx := context.Background()

	seedTx(t, r, 1, "2024-01-01", 100, "Salary", transaction.TypeIncome)
	seedTx(t, r, 1, "2024-01-05", 30, "Food", transaction.TypeExpense)
	seedTx(t, r, 2, "2024-01-03", 999, "Rent", transaction.TypeExpense)

	txs, err := r.List(ctx, 1, transaction.ListFilter{})
	require.NoError(t, err)
	require.Len(t, txs, 2)

	// newest date first
	assert.Equal(t, "2024-01-05", txs[0].Date)
	assert.Equal(t, "2024-01-01", txs[1].Date)

	for _, tx := range txs {
		assert.Equal(t, int64(1), tx.UserID)
	}
}

func TestListFilters(t *testing.T) {
	r := NewTransactionsRepo()
	ctx := context.Background()

	seedTx(t, r, 1, "2024-01-01", 10, "Food", transaction.TypeExpense)
	seedTx(t, r, 1, "2024-02-01", 20, "Food", transaction.TypeExpense)
	seedTx(t, r, 1, "2024-03-01", 30, "Rent", transaction.TypeExpense)

	start, end := "2024-01-15", "2024-02-15"
	txs, err := r.List(ctx, 1, transaction.ListFilter{StartDate: &start, EndDate: &end})
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Equal(t, "2024-02-01", txs[0].Date)

	cat := "Rent"
	txs, err = r.List(ctx, 1, transaction.ListFilter{Category: &cat})
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Equal(t, "Rent", txs[0].Category)

	txs, err = r.List(ctx, 1, transaction.ListFilter{Limit: 2})
	require.NoError(t, err)
	assert.Len(t, txs, 2)
}

func TestUpdateOwnershipGuard(t *testing.T) {
	r := NewTransactionsRepo()
	ctx := context.Background()

	mine := seedTx(t, r, 1, "2024-01-01", 100, "Salary", transaction.TypeIncome)

	req := transaction.UpdateRequest{Date: "2024-01-02", Amount: 50, Category: "Gift", Type: transaction.TypeIncome}

	// another user cannot reach the row, and the row is untouched
	_, err := r.Update(ctx, 2, mine.ID, req)
	assert.ErrorIs(t, err, transaction.ErrNotFoundOrUnauthorized)

	txs, err := r.List(ctx, 1, transaction.ListFilter{})
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Equal(t, 100.0, txs[0].Amount)

	// the owner can
	updated, err := r.Update(ctx, 1, mine.ID, req)
	require.NoError(t, err)
	assert.Equal(t, mine.ID, updated.ID)
	assert.Equal(t, 50.0, updated.Amount)
	assert.Equal(t, "Gift", updated.Category)

	// missing id reports the same error as foreign ownership
	_, err = r.Update(ctx, 1, 9999, req)
	assert.ErrorIs(t, err, transaction.ErrNotFoundOrUnauthorized)
}

func TestDeleteOwnershipGuard(t *testing.T) {
	r := NewTransactionsRepo()
	ctx := context.Background()

	mine := seedTx(t, r, 1, "2024-01-01", 100, "Salary", transaction.TypeIncome)

	err := r.Delete(ctx, 2, mine.ID)
	assert.ErrorIs(t, err, transaction.ErrNotFoundOrUnauthorized)

	txs, _ := r.List(ctx, 1, transaction.ListFilter{})
	require.Len(t, txs, 1)

	require.NoError(t, r.Delete(ctx, 1, mine.ID))

	err = r.Delete(ctx, 1, mine.ID)
	assert.ErrorIs(t, err, transaction.ErrNotFoundOrUnauthorized)
}

func TestBalanceAndMonthlySummary(t *testing.T) {
	r := NewTransactionsRepo()
	ctx := context.Background()

	seedTx(t, r, 1, "2024-01-01", 100, "Salary", transaction.TypeIncome)
	seedTx(t, r, 1, "2024-01-05", 30, "Food", transaction.TypeExpense)
	seedTx(t, r, 1, "2024-02-10", 10, "Transport", transaction.TypeExpense)
	seedTx(t, r, 2, "2024-01-01", 5000, "Salary", transaction.TypeIncome)

	balance, err := r.Balance(ctx, 1)
	require.NoError(t, err)
	assert.InDelta(t, 60.0, balance, 1e-9)

	summary, err := r.MonthlySummary(ctx, 1)
	require.NoError(t, err)
	require.Len(t, summary, 2)
	assert.Equal(t, "2024-01", summary[0].Month)
	assert.InDelta(t, 100.0, summary[0].Income, 1e-9)
	assert.InDelta(t, 30.0, summary[0].Expense, 1e-9)
	assert.Equal(t, "2024-02", summary[1].Month)
	assert.InDelta(t, 10.0, summary[1].Expense, 1e-9)
}

func TestErrorsAreIndistinguishable(t *testing.T) {
	r := NewTransactionsRepo()
	ctx := context.Background()

	mine := seedTx(t, r, 1, "2024-01-01", 100, "Salary", transaction.TypeIncome)

	foreign := r.Delete(ctx, 2, mine.ID)
	missing := r.Delete(ctx, 1, 12345)

	// same sentinel for both: callers cannot probe other users' rows
	if !errors.Is(foreign, transaction.ErrNotFoundOrUnauthorized) || !errors.Is(missing, transaction.ErrNotFoundOrUnauthorized) {
		t.Fatalf("expected identical sentinel, got %v and %v", foreign, missing)
	}
}

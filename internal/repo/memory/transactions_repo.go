package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/geocoder89/fintrack/internal/domain/transaction"
	"github.com/geocoder89/fintrack/internal/report"
)

// TransactionsRepo mirrors the postgres repo over a map. It backs handler
// tests and deps-free local runs.
type TransactionsRepo struct {
	mu     sync.RWMutex
	nextID int64
	items  map[int64]transaction.Transaction
}

func NewTransactionsRepo() *TransactionsRepo {
	return &TransactionsRepo{
		nextID: 1,
		items:  make(map[int64]transaction.Transaction),
	}
}

func (r *TransactionsRepo) Insert(ctx context.Context, userID int64, req transaction.CreateRequest) (transaction.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	t := transaction.Transaction{
		ID:          r.nextID,
		UserID:      userID,
		Date:        req.Date,
		Amount:      req.Amount,
		Category:    req.Category,
		Type:        req.Type,
		Description: req.Description,
	}
	r.nextID++
	r.items[t.ID] = t

	return t, nil
}

func (r *TransactionsRepo) List(ctx context.Context, userID int64, filter transaction.ListFilter) ([]transaction.Transaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]transaction.Transaction, 0)

	for _, t := range r.items {
		if t.UserID != userID {
			continue
		}
		if filter.StartDate != nil && t.Date < *filter.StartDate {
			continue
		}
		if filter.EndDate != nil && t.Date > *filter.EndDate {
			continue
		}
		if filter.Category != nil && t.Category != *filter.Category {
			continue
		}

		out = append(out, t)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date > out[j].Date
		}
		return out[i].ID > out[j].ID
	})

	limit := filter.Limit

	if limit <= 0 {
		limit = transaction.DefaultListLimit
	}
	if limit > transaction.MaxListLimit {
		limit = transaction.MaxListLimit
	}
	if len(out) > limit {
		out = out[:limit]
	}

	return out, nil
}

func (r *TransactionsRepo) Update(ctx context.Context, userID, txID int64, req transaction.UpdateRequest) (transaction.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.items[txID]

	if !ok || t.UserID != userID {
		return transaction.Transaction{}, transaction.ErrNotFoundOrUnauthorized
	}

	t.Date = req.Date
	t.Amount = req.Amount
	t.Category = req.Category
	t.Type = req.Type
	t.Description = req.Description
	r.items[txID] = t

	return t, nil
}

func (r *TransactionsRepo) Delete(ctx context.Context, userID, txID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.items[txID]

	if !ok || t.UserID != userID {
		return transaction.ErrNotFoundOrUnauthorized
	}

	delete(r.items, txID)
	return nil
}

func (r *TransactionsRepo) Balance(ctx context.Context, userID int64) (float64, error) {
	txs, err := r.List(ctx, userID, transaction.ListFilter{Limit: transaction.MaxListLimit})

	if err != nil {
		return 0, err
	}

	return report.Balance(txs), nil
}

func (r *TransactionsRepo) MonthlySummary(ctx context.Context, userID int64) ([]report.MonthTotals, error) {
	txs, err := r.List(ctx, userID, transaction.ListFilter{Limit: transaction.MaxListLimit})

	if err != nil {
		return nil, err
	}

	return report.Summarize(txs), nil
}

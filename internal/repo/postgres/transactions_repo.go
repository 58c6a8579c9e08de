package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/geocoder89/fintrack/internal/domain/transaction"
	"github.com/geocoder89/fintrack/internal/observability"
	"github.com/geocoder89/fintrack/internal/report"
)

type TransactionsRepo struct {
	pool *pgxpool.Pool
	prom *observability.Prom
}

func NewTransactionsRepo(pool *pgxpool.Pool, prom *observability.Prom) *TransactionsRepo {
	return &TransactionsRepo{pool: pool, prom: prom}
}

func (r *TransactionsRepo) observe(op string, fn func() error) error {
	if r.prom != nil {
		return r.prom.ObserveDB(op, fn)
	}
	return fn()
}

func (r *TransactionsRepo) Insert(ctx context.Context, userID int64, req transaction.CreateRequest) (transaction.Transaction, error) {
	var t transaction.Transaction

	err := r.observe("transactions.insert", func() error {
		return r.pool.QueryRow(ctx,
			`INSERT INTO transactions (user_id, date, amount, category, type, description)
			 VALUES ($1, $2::date, $3, $4, $5, $6)
			 RETURNING id, user_id, to_char(date, 'YYYY-MM-DD'), amount, category, type, description`,
			userID, req.Date, req.Amount, req.Category, req.Type, req.Description,
		).Scan(&t.ID, &t.UserID, &t.Date, &t.Amount, &t.Category, &t.Type, &t.Description)
	})

	if err != nil {
		return transaction.Transaction{}, err
	}

	return t, nil
}

// List returns a user's transactions newest-first. Optional filters compose
// conjunctively; the date range is inclusive on both ends.
func (r *TransactionsRepo) List(ctx context.Context, userID int64, filter transaction.ListFilter) ([]transaction.Transaction, error) {
	baseQuery := `SELECT id,
		user_id,
		to_char(date, 'YYYY-MM-DD') AS date,
		amount,
		category,
		type,
		description
	FROM transactions
	`

	conds := []string{"user_id = $1"}
	args := []interface{}{userID}

	argsPosition := 2

	if filter.StartDate != nil {
		conds = append(conds, fmt.Sprintf("date >= $%d::date", argsPosition))
		args = append(args, *filter.StartDate)
		argsPosition++
	}

	if filter.EndDate != nil {
		conds = append(conds, fmt.Sprintf("date <= $%d::date", argsPosition))
		args = append(args, *filter.EndDate)
		argsPosition++
	}

	if filter.Category != nil {
		conds = append(conds, fmt.Sprintf("category = $%d", argsPosition))
		args = append(args, *filter.Category)
		argsPosition++
	}

	limit := filter.Limit

	if limit <= 0 {
		limit = transaction.DefaultListLimit
	}
	if limit > transaction.MaxListLimit {
		limit = transaction.MaxListLimit
	}

	query := baseQuery + " WHERE " + strings.Join(conds, " AND ")

	// stable ordering: newest date first, id breaks same-day ties
	query += fmt.Sprintf(" ORDER BY date DESC, id DESC LIMIT $%d", argsPosition)
	args = append(args, limit)

	var output []transaction.Transaction

	err := r.observe("transactions.list", func() error {
		rows, err := r.pool.Query(ctx, query, args...)

		if err != nil {
			return err
		}

		defer rows.Close()

		output = make([]transaction.Transaction, 0, limit)

		for rows.Next() {
			var t transaction.Transaction

			err = rows.Scan(&t.ID, &t.UserID, &t.Date, &t.Amount, &t.Category, &t.Type, &t.Description)

			if err != nil {
				return err
			}

			output = append(output, t)
		}

		return rows.Err()
	})

	if err != nil {
		return nil, err
	}

	return output, nil
}

// Update replaces the whole row. The WHERE clause carries the ownership guard:
// zero rows means missing OR foreign, and callers cannot tell which.
func (r *TransactionsRepo) Update(ctx context.Context, userID, txID int64, req transaction.UpdateRequest) (transaction.Transaction, error) {
	var t transaction.Transaction

	err := r.observe("transactions.update", func() error {
		return r.pool.QueryRow(
			ctx,
			`UPDATE transactions
				SET date = $3::date,
					amount = $4,
					category = $5,
					type = $6,
					description = $7
			WHERE id = $1 AND user_id = $2
			RETURNING id, user_id, to_char(date, 'YYYY-MM-DD'), amount, category, type, description`,
			txID,
			userID,
			req.Date,
			req.Amount,
			req.Category,
			req.Type,
			req.Description,
		).Scan(&t.ID, &t.UserID, &t.Date, &t.Amount, &t.Category, &t.Type, &t.Description)
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return transaction.Transaction{}, transaction.ErrNotFoundOrUnauthorized
		}

		return transaction.Transaction{}, err
	}

	return t, nil
}

func (r *TransactionsRepo) Delete(ctx context.Context, userID, txID int64) error {
	var tag pgconn.CommandTag
	var err error

	err = r.observe("transactions.delete", func() error {
		tag, err = r.pool.Exec(ctx, `
			DELETE FROM transactions WHERE id = $1 AND user_id = $2
		`, txID, userID)
		return err
	})

	if err != nil {
		return err
	}

	// if no rows were deleted the row is missing or not ours
	if tag.RowsAffected() == 0 {
		return transaction.ErrNotFoundOrUnauthorized
	}

	return nil
}

func (r *TransactionsRepo) Balance(ctx context.Context, userID int64) (float64, error) {
	var balance float64

	err := r.observe("transactions.balance", func() error {
		return r.pool.QueryRow(ctx, `
			SELECT COALESCE(SUM(CASE WHEN type = 'income' THEN amount ELSE -amount END), 0)
			FROM transactions
			WHERE user_id = $1
		`, userID).Scan(&balance)
	})

	if err != nil {
		return 0, err
	}

	return balance, nil
}

// MonthlySummary groups by YYYY-MM ascending. Months with no rows are absent.
func (r *TransactionsRepo) MonthlySummary(ctx context.Context, userID int64) ([]report.MonthTotals, error) {
	var output []report.MonthTotals

	err := r.observe("transactions.monthly_summary", func() error {
		rows, err := r.pool.Query(ctx, `
			SELECT to_char(date, 'YYYY-MM') AS month,
				COALESCE(SUM(CASE WHEN type = 'income' THEN amount ELSE 0 END), 0) AS income,
				COALESCE(SUM(CASE WHEN type = 'expense' THEN amount ELSE 0 END), 0) AS expense
			FROM transactions
			WHERE user_id = $1
			GROUP BY month
			ORDER BY month ASC
		`, userID)

		if err != nil {
			return err
		}

		defer rows.Close()

		output = make([]report.MonthTotals, 0, 12)

		for rows.Next() {
			var m report.MonthTotals

			if err := rows.Scan(&m.Month, &m.Income, &m.Expense); err != nil {
				return err
			}

			output = append(output, m)
		}

		return rows.Err()
	})

	if err != nil {
		return nil, err
	}

	return output, nil
}

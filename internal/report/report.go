// Package report derives balance, monthly and per-category totals from a
// materialized transaction slice. Volumes are small (hundreds of rows), so
// everything is a single pass plus a sort.
package report

import (
	"sort"
	"strings"

	"github.com/geocoder89/fintrack/internal/domain/transaction"
)

// MonthTotals is one YYYY-MM group. Months without transactions are absent.
type MonthTotals struct {
	Month   string  `json:"month"`
	Income  float64 `json:"income"`
	Expense float64 `json:"expense"`
}

type CategoryTotal struct {
	Category string  `json:"category"`
	Total    float64 `json:"total"`
}

// Balance is the signed sum: income adds, expense subtracts.
func Balance(txs []transaction.Transaction) float64 {
	total := 0.0

	for _, t := range txs {
		if t.Type == transaction.TypeIncome {
			total += t.Amount
		} else {
			total -= t.Amount
		}
	}

	return total
}

// Summarize groups by the leading 7 characters of the date (YYYY-MM) and
// returns groups ascending by month key.
func Summarize(txs []transaction.Transaction) []MonthTotals {
	byMonth := make(map[string]*MonthTotals)

	for _, t := range txs {
		if len(t.Date) < 7 {
			continue
		}

		key := t.Date[:7]
		g, ok := byMonth[key]

		if !ok {
			g = &MonthTotals{Month: key}
			byMonth[key] = g
		}

		if t.Type == transaction.TypeIncome {
			g.Income += t.Amount
		} else {
			g.Expense += t.Amount
		}
	}

	out := make([]MonthTotals, 0, len(byMonth))

	for _, g := range byMonth {
		out = append(out, *g)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].Month < out[j].Month
	})

	return out
}

// ExpenseByCategory sums expense amounts per category for one month,
// descending by total. Ties break on category name to keep output stable.
// month may be "" to cover the whole set.
func ExpenseByCategory(txs []transaction.Transaction, month string) []CategoryTotal {
	sums := make(map[string]float64)

	for _, t := range txs {
		if t.Type != transaction.TypeExpense {
			continue
		}

		if month != "" && !strings.HasPrefix(t.Date, month) {
			continue
		}

		sums[t.Category] += t.Amount
	}

	out := make([]CategoryTotal, 0, len(sums))

	for cat, total := range sums {
		out = append(out, CategoryTotal{Category: cat, Total: total})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Total != out[j].Total {
			return out[i].Total > out[j].Total
		}
		return out[i].Category < out[j].Category
	})

	return out
}

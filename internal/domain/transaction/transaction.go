package transaction

import "errors"

const (
	TypeIncome  = "income"
	TypeExpense = "expense"
)

// Dates travel as YYYY-MM-DD strings throughout: day granularity, and ISO
// date strings compare lexicographically in chronological order.
type Transaction struct {
	ID          int64   `json:"id"`
	UserID      int64   `json:"userId"`
	Date        string  `json:"date"`
	Amount      float64 `json:"amount"`
	Category    string  `json:"category"`
	Type        string  `json:"type"`
	Description *string `json:"description,omitempty"`
}

// ErrNotFoundOrUnauthorized covers both a missing row and a row owned by
// another user. Collapsing the two keeps other users' data unenumerable.
var ErrNotFoundOrUnauthorized = errors.New("transaction not found or not authorized")

// with pointers if optional, it will be nil
type ListFilter struct {
	StartDate *string
	EndDate   *string
	Category  *string
	Limit     int
}

const (
	DefaultListLimit = 200
	MaxListLimit     = 1000
)

type CreateRequest struct {
	Date        string  `json:"date" binding:"required"`
	Amount      float64 `json:"amount" binding:"required"`
	Category    string  `json:"category" binding:"required"`
	Type        string  `json:"type" binding:"required"`
	Description *string `json:"description" binding:"omitempty,max=500"`
}

// a full update payload; updates are whole-row replacements.
type UpdateRequest struct {
	Date        string  `json:"date" binding:"required"`
	Amount      float64 `json:"amount" binding:"required"`
	Category    string  `json:"category" binding:"required"`
	Type        string  `json:"type" binding:"required"`
	Description *string `json:"description" binding:"omitempty,max=500"`
}

package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/geocoder89/fintrack/internal/cache"
	"github.com/geocoder89/fintrack/internal/config"
	"github.com/geocoder89/fintrack/internal/domain/transaction"
	"github.com/geocoder89/fintrack/internal/report"
)

type ReportsStore interface {
	List(ctx context.Context, userID int64, filter transaction.ListFilter) ([]transaction.Transaction, error)
	Balance(ctx context.Context, userID int64) (float64, error)
	MonthlySummary(ctx context.Context, userID int64) ([]report.MonthTotals, error)
}

type ReportsHandler struct {
	store   ReportsStore
	reports *cache.Cache
}

func NewReportsHandler(store ReportsStore, reports *cache.Cache) *ReportsHandler {
	return &ReportsHandler{store: store, reports: reports}
}

func (h *ReportsHandler) Balance(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}

	key := cache.UserKey("balance", userID)

	if h.reports != nil {
		if v, hit := h.reports.Get(key); hit {
			ctx.JSON(http.StatusOK, gin.H{"balance": v})
			return
		}
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	balance, err := h.store.Balance(cctx, userID)

	if err != nil {
		RespondInternal(ctx, "Could not compute balance")
		return
	}

	if h.reports != nil {
		h.reports.Set(key, balance)
	}

	ctx.JSON(http.StatusOK, gin.H{"balance": balance})
}

func (h *ReportsHandler) MonthlySummary(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}

	key := cache.UserKey("monthly_summary", userID)

	if h.reports != nil {
		if v, hit := h.reports.Get(key); hit {
			ctx.JSON(http.StatusOK, gin.H{"summary": v})
			return
		}
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	summary, err := h.store.MonthlySummary(cctx, userID)

	if err != nil {
		RespondInternal(ctx, "Could not compute monthly summary")
		return
	}

	if h.reports != nil {
		h.reports.Set(key, summary)
	}

	ctx.JSON(http.StatusOK, gin.H{"summary": summary})
}

// CategoryBreakdown sums one month's expenses per category, largest first.
// Presentation-only; nothing is persisted.
func (h *ReportsHandler) CategoryBreakdown(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}

	month := ctx.Param("month")

	if _, err := time.Parse("2006-01", month); err != nil {
		RespondBadRequest(ctx, "Invalid month. Use YYYY-MM.", nil)
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	txs, err := h.store.List(cctx, userID, transaction.ListFilter{Limit: transaction.MaxListLimit})

	if err != nil {
		RespondInternal(ctx, "Could not compute category breakdown")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"month":      month,
		"categories": report.ExpenseByCategory(txs, month),
	})
}

func (h *ReportsHandler) Categories(ctx *gin.Context) {
	ttype := ctx.Query("type")

	if !transaction.ValidType(ttype) {
		RespondBadRequest(ctx, "Type must be 'income' or 'expense'.", nil)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"categories": transaction.SuggestedCategories(ttype),
	})
}

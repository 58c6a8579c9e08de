package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/geocoder89/fintrack/internal/cache"
	"github.com/geocoder89/fintrack/internal/config"
	"github.com/geocoder89/fintrack/internal/domain/transaction"
	"github.com/geocoder89/fintrack/internal/http/middlewares"
)

type TransactionsStore interface {
	Insert(ctx context.Context, userID int64, req transaction.CreateRequest) (transaction.Transaction, error)
	List(ctx context.Context, userID int64, filter transaction.ListFilter) ([]transaction.Transaction, error)
	Update(ctx context.Context, userID, txID int64, req transaction.UpdateRequest) (transaction.Transaction, error)
	Delete(ctx context.Context, userID, txID int64) error
}

type TransactionsHandler struct {
	store   TransactionsStore
	reports *cache.Cache // report entries go stale on any write
}

func NewTransactionsHandler(store TransactionsStore, reports *cache.Cache) *TransactionsHandler {
	return &TransactionsHandler{store: store, reports: reports}
}

func (h *TransactionsHandler) invalidate(userID int64) {
	if h.reports != nil {
		h.reports.InvalidateUser(userID)
	}
}

func requireUser(ctx *gin.Context) (int64, bool) {
	id, ok := middlewares.UserIDFromContext(ctx)

	if !ok {
		RespondUnAuthorized(ctx, "unauthorized", "Missing identity context")
		return 0, false
	}

	return id, true
}

func txIDParam(ctx *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)

	if err != nil || id <= 0 {
		RespondBadRequest(ctx, "Invalid transaction id", nil)
		return 0, false
	}

	return id, true
}

func (h *TransactionsHandler) Create(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}

	var req transaction.CreateRequest

	if !BindJSON(ctx, &req) {
		return
	}

	if err := req.Validate(); err != nil {
		RespondBadRequest(ctx, err.Error(), nil)
		return
	}
	req.Normalize()

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	t, err := h.store.Insert(cctx, userID, req)

	if err != nil {
		RespondInternal(ctx, "Could not save transaction")
		return
	}

	h.invalidate(userID)

	ctx.JSON(http.StatusCreated, t)
}

func (h *TransactionsHandler) List(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}

	filter, ok := listFilterFromQuery(ctx)
	if !ok {
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	txs, err := h.store.List(cctx, userID, filter)

	if err != nil {
		RespondInternal(ctx, "Could not list transactions")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"items": txs,
		"count": len(txs),
	})
}

func (h *TransactionsHandler) Update(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}

	txID, ok := txIDParam(ctx)
	if !ok {
		return
	}

	var req transaction.UpdateRequest

	if !BindJSON(ctx, &req) {
		return
	}

	if err := req.Validate(); err != nil {
		RespondBadRequest(ctx, err.Error(), nil)
		return
	}
	req.Normalize()

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	t, err := h.store.Update(cctx, userID, txID, req)

	if err != nil {
		if errors.Is(err, transaction.ErrNotFoundOrUnauthorized) {
			RespondNotFound(ctx, "Transaction not found")
			return
		}

		RespondInternal(ctx, "Could not update transaction")
		return
	}

	h.invalidate(userID)

	ctx.JSON(http.StatusOK, t)
}

func (h *TransactionsHandler) Delete(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}

	txID, ok := txIDParam(ctx)
	if !ok {
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	err := h.store.Delete(cctx, userID, txID)

	if err != nil {
		if errors.Is(err, transaction.ErrNotFoundOrUnauthorized) {
			RespondNotFound(ctx, "Transaction not found")
			return
		}

		RespondInternal(ctx, "Could not delete transaction")
		return
	}

	h.invalidate(userID)

	ctx.Status(http.StatusNoContent)
}

func listFilterFromQuery(ctx *gin.Context) (transaction.ListFilter, bool) {
	var filter transaction.ListFilter

	if v := ctx.Query("startDate"); v != "" {
		if !transaction.ValidDate(v) {
			RespondBadRequest(ctx, "Invalid startDate. Use YYYY-MM-DD.", nil)
			return filter, false
		}
		filter.StartDate = &v
	}

	if v := ctx.Query("endDate"); v != "" {
		if !transaction.ValidDate(v) {
			RespondBadRequest(ctx, "Invalid endDate. Use YYYY-MM-DD.", nil)
			return filter, false
		}
		filter.EndDate = &v
	}

	if v := strings.TrimSpace(ctx.Query("category")); v != "" {
		filter.Category = &v
	}

	if v := ctx.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)

		if err != nil || n <= 0 {
			RespondBadRequest(ctx, "Invalid limit", nil)
			return filter, false
		}
		filter.Limit = n
	}

	return filter, true
}

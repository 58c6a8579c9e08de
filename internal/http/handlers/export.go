package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/geocoder89/fintrack/internal/config"
	"github.com/geocoder89/fintrack/internal/domain/transaction"
	"github.com/geocoder89/fintrack/internal/export"
	"github.com/geocoder89/fintrack/internal/http/middlewares"
	"github.com/geocoder89/fintrack/internal/jobs"
)

type TransactionsReader interface {
	List(ctx context.Context, userID int64, filter transaction.ListFilter) ([]transaction.Transaction, error)
}

type JobEnqueuer interface {
	Enqueue(ctx context.Context, queue string, j jobs.Job) error
}

type ExportHandler struct {
	store TransactionsReader
	queue JobEnqueuer
	cfg   config.Config
}

func NewExportHandler(store TransactionsReader, queue JobEnqueuer, cfg config.Config) *ExportHandler {
	return &ExportHandler{store: store, queue: queue, cfg: cfg}
}

// DownloadCSV streams the caller's transactions as CSV.
func (h *ExportHandler) DownloadCSV(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}

	cctx, cancel := config.WithTimeout(5 * time.Second)
	defer cancel()

	txs, err := h.store.List(cctx, userID, transaction.ListFilter{Limit: transaction.MaxListLimit})

	if err != nil {
		RespondInternal(ctx, "Could not export transactions")
		return
	}

	body, err := export.Bytes(txs)

	if err != nil {
		RespondInternal(ctx, "Could not export transactions")
		return
	}

	filename := export.DefaultFilename(userID, time.Now())

	ctx.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	ctx.Data(http.StatusOK, "text/csv; charset=utf-8", body)
}

// EnqueueExport queues a CSV export for the worker and returns the job id.
func (h *ExportHandler) EnqueueExport(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}

	requestID := ""
	if v, exists := ctx.Get(string(middlewares.CtxRequestID)); exists {
		requestID, _ = v.(string)
	}

	payload := jobs.ExportTransactionsCSVPayload{
		UserID:    userID,
		RequestID: requestID,
	}

	b, err := jobs.EncodePayload(jobs.JobExportTransactionsCSV, payload)

	if err != nil {
		RespondInternal(ctx, "Could not create export job")
		return
	}

	j, err := jobs.NewJob(jobs.JobExportTransactionsCSV, b, time.Time{})

	if err != nil {
		RespondInternal(ctx, "Could not create export job")
		return
	}

	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	if err := h.queue.Enqueue(cctx, h.cfg.ExportQueue, j); err != nil {
		RespondInternal(ctx, "Could not queue export job")
		return
	}

	ctx.JSON(http.StatusAccepted, gin.H{
		"jobId":  j.ID,
		"status": j.Status,
	})
}

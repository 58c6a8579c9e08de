package worker

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/geocoder89/fintrack/internal/actorctx"
	"github.com/geocoder89/fintrack/internal/domain/transaction"
	"github.com/geocoder89/fintrack/internal/export"
	"github.com/geocoder89/fintrack/internal/jobs"
	"github.com/geocoder89/fintrack/internal/observability"
	"github.com/geocoder89/fintrack/internal/queue/redisclient"
)

// TransactionsReader is the slice of the store the worker needs.
type TransactionsReader interface {
	List(ctx context.Context, userID int64, filter transaction.ListFilter) ([]transaction.Transaction, error)
}

type Config struct {
	Queue       string
	ExportDir   string
	PollTimeout time.Duration
}

type Worker struct {
	cfg   Config
	queue *redisclient.Client
	txs   TransactionsReader
	prom  *observability.Prom
	log   *slog.Logger
}

func New(cfg Config, queue *redisclient.Client, txs TransactionsReader, prom *observability.Prom, log *slog.Logger) *Worker {
	if cfg.PollTimeout <= 0 {
		cfg.PollTimeout = 5 * time.Second
	}

	return &Worker{
		cfg:   cfg,
		queue: queue,
		txs:   txs,
		prom:  prom,
		log:   log,
	}
}

func (w *Worker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			w.log.Info("worker received shutdown signal")
			return nil
		default:
		}

		j, err := w.queue.Dequeue(ctx, w.cfg.Queue, w.cfg.PollTimeout)

		if err != nil {
			if errors.Is(err, redisclient.ErrEmpty) {
				continue
			}
			if ctx.Err() != nil {
				return nil
			}

			w.log.Error("dequeue failed", "err", err)
			time.Sleep(time.Second)
			continue
		}

		w.handle(ctx, j)
	}
}

func (w *Worker) handle(ctx context.Context, j jobs.Job) {
	w.prom.JobsInFlight.Inc()
	defer w.prom.JobsInFlight.Dec()

	start := time.Now()
	result := "done"

	err := w.execute(ctx, j)

	if err != nil {
		if j.Attempts+1 < j.MaxTries {
			result = "retry"
			w.requeue(ctx, j, err)
		} else {
			result = "failed"
			w.log.Error("export job failed permanently", "job_id", j.ID, "attempts", j.Attempts+1, "err", err)
		}
	}

	w.prom.JobResults.WithLabelValues(result).Inc()
	w.prom.JobDuration.WithLabelValues(result).Observe(time.Since(start).Seconds())
}

func (w *Worker) execute(ctx context.Context, j jobs.Job) error {
	decoded, err := jobs.DecodePayload(j)

	if err != nil {
		// Undecodable payloads never become decodable; drop, do not retry.
		w.log.Error("dropping undecodable job", "job_id", j.ID, "err", err)
		return nil
	}

	if err := jobs.ValidatePayload(j.Type, decoded); err != nil {
		w.log.Error("dropping invalid job payload", "job_id", j.ID, "err", err)
		return nil
	}

	p := decoded.(jobs.ExportTransactionsCSVPayload)

	ctx = actorctx.WithUserID(ctx, p.UserID)

	cctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	txs, err := w.txs.List(cctx, p.UserID, transaction.ListFilter{Limit: transaction.MaxListLimit})

	if err != nil {
		return err
	}

	name := p.Filename

	if name == "" {
		name = export.DefaultFilename(p.UserID, time.Now())
	}

	if err := os.MkdirAll(w.cfg.ExportDir, 0o755); err != nil {
		return err
	}

	path := filepath.Join(w.cfg.ExportDir, name)

	f, err := os.Create(path)

	if err != nil {
		return err
	}

	if err := export.WriteCSV(f, txs); err != nil {
		f.Close()
		return err
	}

	if err := f.Close(); err != nil {
		return err
	}

	w.log.Info("export written", "job_id", j.ID, "user_id", p.UserID, "path", path, "rows", len(txs))
	return nil
}

func (w *Worker) requeue(ctx context.Context, j jobs.Job, cause error) {
	delay := ExponentialBackoff(j.Attempts)

	j.Attempts++
	msg := cause.Error()
	j.LastError = &msg
	j.RunAt = time.Now().UTC().Add(delay)
	j.UpdatedAt = time.Now().UTC()

	w.log.Warn("export job retry", "job_id", j.ID, "attempt", j.Attempts, "delay", delay, "err", cause)

	// Single-worker deployments tolerate sleeping through the backoff here;
	// the queue keeps buffering enqueues meanwhile.
	select {
	case <-ctx.Done():
		return
	case <-time.After(delay):
	}

	if err := w.queue.Enqueue(ctx, w.cfg.Queue, j); err != nil {
		w.log.Error("requeue failed, job lost", "job_id", j.ID, "err", err)
	}
}

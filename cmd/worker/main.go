package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/geocoder89/fintrack/internal/config"
	"github.com/geocoder89/fintrack/internal/db"
	"github.com/geocoder89/fintrack/internal/observability"
	"github.com/geocoder89/fintrack/internal/queue/redisclient"
	"github.com/geocoder89/fintrack/internal/queue/worker"
	"github.com/geocoder89/fintrack/internal/repo/postgres"
)

func main() {
	cfg := config.Load()

	log := observability.NewLogger(cfg.Env)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := db.NewPool(cfg.DBURL)

	if err != nil {
		log.Error("db connect failed", "err", err)
		os.Exit(1)
	}

	defer pool.Close()

	queue := redisclient.New(redisclient.Config{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	defer queue.Close()

	pingCtx, cancel := config.WithTimeout(5 * time.Second)
	err = queue.Ping(pingCtx)
	cancel()

	if err != nil {
		log.Error("redis connect failed", "err", err)
		os.Exit(1)
	}

	reg := prometheus.NewRegistry()
	prom := observability.NewProm(reg)

	txRepo := postgres.NewTransactionsRepo(pool, prom)

	w := worker.New(worker.Config{
		Queue:       cfg.ExportQueue,
		ExportDir:   cfg.ExportDir,
		PollTimeout: 5 * time.Second,
	}, queue, txRepo, prom, log)

	log.Info("export worker starting", "queue", cfg.ExportQueue, "dir", cfg.ExportDir)

	if err := w.Run(ctx); err != nil {
		log.Error("worker stopped with error", "err", err)
		os.Exit(1)
	}

	log.Info("worker stopped")
}

package http

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/geocoder89/fintrack/internal/auth"
	"github.com/geocoder89/fintrack/internal/cache"
	"github.com/geocoder89/fintrack/internal/config"
	"github.com/geocoder89/fintrack/internal/http/handlers"
	"github.com/geocoder89/fintrack/internal/http/middlewares"
	"github.com/geocoder89/fintrack/internal/observability"
	"github.com/geocoder89/fintrack/internal/queue/redisclient"
	"github.com/geocoder89/fintrack/internal/repo/postgres"
)

// NewRouter wires repos, handlers and middleware. Request logging goes
// through slog.Default, set up in main.
func NewRouter(pool *pgxpool.Pool, queue *redisclient.Client, cfg config.Config, prom *observability.Prom, reg *prometheus.Registry) *gin.Engine {
	if cfg.Env != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	// middleware

	r.Use(gin.Recovery())
	r.Use(middlewares.RequestID())
	r.Use(middlewares.RequestLogger())
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.MaxBodyBytes(1 << 20))
	r.Use(middlewares.RequireJSON())
	r.Use(otelgin.Middleware("fintrack-api"))

	if prom != nil {
		r.Use(prom.GinHandleMiddleware())
	}

	if len(cfg.AllowedOrigins) > 0 {
		r.Use(middlewares.CORSMiddleware(cfg.AllowedOrigins))
	}

	// readiness covers both backing stores
	ping := func() error {
		ctx, cancel := context.WithTimeout(context.Background(), 1*time.Second)
		defer cancel()

		if pool != nil {
			if err := pool.Ping(ctx); err != nil {
				return err
			}
		}

		if queue != nil {
			return queue.Ping(ctx)
		}

		return nil
	}

	h := handlers.NewHealthHandler(ping)
	r.GET("/healthz", h.Healthz)
	r.GET("/readyz", h.Readyz)

	if reg != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))
	}

	// wire up repositories
	usersRepo := postgres.NewUsersRepo(pool, prom)
	txRepo := postgres.NewTransactionsRepo(pool, prom)

	jwtManager := auth.NewManager(cfg.JWTSecret, cfg.AccessTTL)
	authMw := middlewares.NewAuthMiddleware(jwtManager)

	reports := cache.New(30 * time.Second)

	authHandler := handlers.NewAuthHandler(usersRepo, usersRepo, usersRepo, jwtManager, cfg)
	txHandler := handlers.NewTransactionsHandler(txRepo, reports)
	reportsHandler := handlers.NewReportsHandler(txRepo, reports)
	exportHandler := handlers.NewExportHandler(txRepo, queue, cfg)

	// register/login take the brunt of credential stuffing; limit per IP
	authRL := middlewares.NewRateLimiter(10, time.Minute)

	authGroup := r.Group("/auth")
	authGroup.Use(authRL.RateLimiterMiddleware(middlewares.KeyByIP))
	authGroup.POST("/register", authHandler.Register)
	authGroup.POST("/login", authHandler.Login)

	protected := r.Group("/")
	protected.Use(authMw.RequireAuth())

	protected.GET("/transactions", txHandler.List)
	protected.POST("/transactions", txHandler.Create)
	protected.PUT("/transactions/:id", txHandler.Update)
	protected.DELETE("/transactions/:id", txHandler.Delete)

	protected.GET("/reports/balance", reportsHandler.Balance)
	protected.GET("/reports/monthly-summary", reportsHandler.MonthlySummary)
	protected.GET("/reports/categories/:month", reportsHandler.CategoryBreakdown)

	protected.GET("/categories", reportsHandler.Categories)

	protected.GET("/export/csv", exportHandler.DownloadCSV)
	protected.POST("/export/jobs", exportHandler.EnqueueExport)

	return r
}

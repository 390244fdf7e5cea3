package http

import (
	"context"
	"log/slog"
	"time"

	"github.com/attendly/attendly/internal/cache"
	"github.com/attendly/attendly/internal/config"
	"github.com/attendly/attendly/internal/http/handlers"
	"github.com/attendly/attendly/internal/http/middlewares"
	"github.com/attendly/attendly/internal/observability"
	"github.com/attendly/attendly/internal/repo/postgres"
	"github.com/attendly/attendly/internal/tz"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

func NewRouter(cfg config.Config, log *slog.Logger, pool *pgxpool.Pool, store cache.Store) *gin.Engine {
	if cfg.Env != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}

	handlers.RegisterValidations()

	r := gin.New()

	// middleware

	r.Use(gin.Recovery())
	r.Use(middlewares.RequestID())
	r.Use(middlewares.RequestLogger(log))
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddleware(cfg.CORSOrigins))
	r.Use(middlewares.RequireJSON())
	r.Use(middlewares.MaxBodyBytes(cfg.MaxBodyBytes))
	r.Use(otelgin.Middleware("attendly"))

	limiter := middlewares.NewRateLimiter(cfg.RateLimit, cfg.RateWindow)
	r.Use(limiter.RateLimiterMiddleware(middlewares.KeyByIP))

	// metrics
	registry := prometheus.NewRegistry()
	prom := observability.NewProm(registry)
	r.Use(prom.GinHandleMiddleware())
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	// health
	ping := func() error {
		if pool == nil {
			return nil
		}

		ctx, cancel := context.WithTimeout(context.Background(), 1*time.Second)
		defer cancel()

		return pool.Ping(ctx)
	}

	h := handlers.NewHealthHandler(ping)
	r.GET("/healthz", h.Healthz)
	r.GET("/readyz", h.Readyz)

	// wire up repositories
	eventsRepo := postgres.NewEventsRepo(pool, prom)
	attendeesRepo := postgres.NewAttendeesRepo(pool, prom)

	zones := tz.Std{}

	eventsHandler := handlers.NewEventsHandlerWithCache(eventsRepo, zones, cfg.DefaultTimezone, store)
	attendeesHandler := handlers.NewAttendeesHandler(attendeesRepo, eventsRepo, zones)

	r.POST("/events", eventsHandler.CreateEvent)
	r.GET("/events", eventsHandler.ListEvents)
	r.POST("/events/:id/register", attendeesHandler.Register)
	r.GET("/events/:id/attendees", attendeesHandler.ListForEvent)

	return r
}

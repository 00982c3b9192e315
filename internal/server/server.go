// Package server assembles the domainnav HTTP server from configuration and
// runs it together with its background workers.
package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	goredis "github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"domainnav/internal/domain"
	"domainnav/internal/domain/events"
	domainmetrics "domainnav/internal/domain/metrics"
	"domainnav/internal/domain/service"
	"domainnav/internal/manager"
	"domainnav/internal/manager/adapters"
	viewhandler "domainnav/internal/manager/handler"
	viewmetrics "domainnav/internal/manager/metrics"
	"domainnav/internal/platform/config"
	"domainnav/internal/platform/httpserver"
	"domainnav/internal/platform/metrics"
	"domainnav/internal/platform/middleware"
	"domainnav/internal/platform/postgres"
	"domainnav/internal/platform/redis"
	"domainnav/pkg/platform/httputil"
)

const shutdownTimeout = 10 * time.Second

// App is a wired server ready to Run.
type App struct {
	cfg     config.Config
	logger  *slog.Logger
	router  chi.Router
	service *domain.Service
	view    *manager.Controller
	relay   *events.Relay

	db      *sql.DB
	redis   *redis.Client
	closers []func()
}

// New connects the configured backends and wires handlers. baseCtx bounds
// the view's store calls; cancel it only at shutdown.
func New(baseCtx context.Context, cfg config.Config, logger *slog.Logger, reg *prometheus.Registry) (*App, error) {
	a := &App{cfg: cfg, logger: logger}

	if cfg.DatabaseURL != "" {
		db, err := postgres.Open(baseCtx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		a.db = db
		a.closers = append(a.closers, func() { _ = db.Close() })
	}

	rc, err := redis.New(baseCtx, cfg.Redis)
	if err != nil {
		a.Close()
		return nil, err
	}
	var rdb *goredis.Client
	if rc != nil {
		a.redis = rc
		rdb = rc.Client
		a.closers = append(a.closers, func() { _ = rc.Close() })
	}

	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	httpMetrics := metrics.New(reg)
	dm := domainmetrics.New(reg)

	st := domain.NewStore(a.db, rdb, cfg.ListCacheTTL, logger, dm)
	broker := domain.NewBroker(rdb, logger)
	if inproc, ok := broker.(*events.InProcess); ok {
		a.closers = append(a.closers, inproc.Close)
	}
	var serviceOpts []service.Option
	if len(cfg.Kafka.Brokers) > 0 {
		sink, err := events.NewKafkaSink(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		if err != nil {
			a.Close()
			return nil, err
		}
		a.closers = append(a.closers, sink.Close)
		if err := sink.EnsureTopic(baseCtx); err != nil {
			logger.Warn("kafka topic check failed; relying on auto-creation", "topic", cfg.Kafka.Topic, "error", err)
		}
		outbox := events.NewOutbox()
		a.closers = append(a.closers, outbox.Close)
		serviceOpts = append(serviceOpts, service.WithOutbox(outbox))
		a.relay = events.NewRelay(outbox, sink, "kafka", logger, dm)
	}
	a.service = domain.NewService(st, broker, logger, dm, serviceOpts...)

	a.view = manager.NewController(baseCtx, adapters.NewDomainServiceAdapter(a.service), cfg.Perspectives,
		manager.WithLogger(logger),
		manager.WithMetrics(viewmetrics.New(reg)),
	)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.Logger(logger))
	r.Use(middleware.LatencyMiddleware(httpMetrics))
	r.Get("/health", a.handleHealth)
	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	domain.NewHandler(a.service, logger).Register(r)
	viewhandler.New(a.view, logger).Register(r)
	a.router = r

	return a, nil
}

// Handler returns the root HTTP handler.
func (a *App) Handler() http.Handler {
	return a.router
}

// View returns the manager view controller.
func (a *App) View() *manager.Controller {
	return a.view
}

// Run serves HTTP and runs the view subscription and the event relay until
// ctx is done or one of them fails, then shuts the server down.
func (a *App) Run(ctx context.Context) error {
	srv := httpserver.New(a.cfg.Addr, a.router)
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.logger.Info("starting domainnav", "addr", a.cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("graceful shutdown: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		return ignoreCanceled(a.view.Run(gctx))
	})
	if a.relay != nil {
		g.Go(func() error {
			return ignoreCanceled(a.relay.Run(gctx))
		})
	}

	err := g.Wait()
	a.view.Wait()
	return err
}

// Close releases backend connections.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

func (a *App) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	resp := healthResponse{Status: "ok", Checks: map[string]string{}}
	if a.db != nil {
		resp.Checks["postgres"] = checkStatus(a.db.PingContext(ctx))
	}
	if a.redis != nil {
		resp.Checks["redis"] = checkStatus(a.redis.Health(ctx))
	}
	status := http.StatusOK
	for _, v := range resp.Checks {
		if v != "ok" {
			resp.Status = "degraded"
			status = http.StatusServiceUnavailable
		}
	}
	httputil.WriteJSON(w, status, resp)
}

func checkStatus(err error) string {
	if err != nil {
		return err.Error()
	}
	return "ok"
}

func ignoreCanceled(err error) error {
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

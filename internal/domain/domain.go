package domain

import (
	"database/sql"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"domainnav/internal/domain/events"
	"domainnav/internal/domain/handler"
	"domainnav/internal/domain/metrics"
	"domainnav/internal/domain/service"
	"domainnav/internal/domain/store"
)

// Service exposes domain persistence and change streams.
type Service = service.Service

// Handler wires HTTP endpoints to the domain service.
type Handler = handler.Handler

// NewStore picks the persistence stack: Postgres when db is set, memory
// otherwise, with the Redis list cache in front when rdb is set.
func NewStore(db *sql.DB, rdb *redis.Client, cacheTTL time.Duration, logger *slog.Logger, m *metrics.Metrics) service.Store {
	var backend store.Backend = store.NewInMemory()
	if db != nil {
		backend = store.NewPostgres(db)
	}
	if rdb == nil {
		return backend
	}
	return store.NewCached(backend, rdb, cacheTTL,
		store.WithCacheLogger(logger),
		store.WithCacheMetrics(m),
	)
}

// NewBroker shares change events over Redis when rdb is set and keeps them
// in-process otherwise.
func NewBroker(rdb *redis.Client, logger *slog.Logger) events.Broker {
	if rdb == nil {
		return events.NewInProcess()
	}
	return events.NewRedisBroker(rdb, logger)
}

// NewService constructs the domain service.
func NewService(st service.Store, broker events.Broker, logger *slog.Logger, m *metrics.Metrics, opts ...service.Option) *Service {
	return service.New(st, append([]service.Option{
		service.WithBroker(broker),
		service.WithLogger(logger),
		service.WithMetrics(m),
	}, opts...)...)
}

// NewHandler constructs the /domains HTTP handler.
func NewHandler(s *Service, logger *slog.Logger) *Handler {
	return handler.New(s, logger)
}

package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"domainnav/internal/domain/metrics"
	"domainnav/internal/domain/models"
	id "domainnav/pkg/domain"
	"domainnav/pkg/platform/circuit"
)

const (
	// listGenerationKey is bumped on every write; snapshots are stored under
	// listCachePrefix:<generation> so a slow reader can never repopulate the
	// current generation with a list read before the write.
	listGenerationKey = "domainnav:domains:list:gen"
	listCachePrefix   = "domainnav:domains:list"
)

// Backend is the persistence contract CachedStore decorates.
type Backend interface {
	Create(ctx context.Context, d *models.Domain) error
	Update(ctx context.Context, d *models.Domain) error
	Delete(ctx context.Context, domainID id.DomainID) error
	FindByID(ctx context.Context, domainID id.DomainID) (*models.Domain, error)
	List(ctx context.Context) ([]*models.Domain, error)
}

// CachedStore serves List from a Redis snapshot and drops the snapshot on
// every successful write. Redis failures degrade to the backend; they never
// fail a request.
type CachedStore struct {
	next    Backend
	client  *redis.Client
	ttl     time.Duration
	logger  *slog.Logger
	metrics *metrics.Metrics
	breaker *circuit.Breaker
}

// CachedStoreOption configures a CachedStore.
type CachedStoreOption func(*CachedStore)

func WithCacheLogger(logger *slog.Logger) CachedStoreOption {
	return func(s *CachedStore) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithCacheBreaker replaces the default breaker guarding cache reads.
func WithCacheBreaker(b *circuit.Breaker) CachedStoreOption {
	return func(s *CachedStore) {
		if b != nil {
			s.breaker = b
		}
	}
}

func WithCacheMetrics(m *metrics.Metrics) CachedStoreOption {
	return func(s *CachedStore) {
		s.metrics = m
	}
}

// NewCached wraps next with a Redis list cache.
func NewCached(next Backend, client *redis.Client, ttl time.Duration, opts ...CachedStoreOption) *CachedStore {
	s := &CachedStore{
		next:    next,
		client:  client,
		ttl:     ttl,
		logger:  slog.Default(),
		breaker: circuit.New("redis-list-cache"),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

func (s *CachedStore) Create(ctx context.Context, d *models.Domain) error {
	if err := s.next.Create(ctx, d); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *CachedStore) Update(ctx context.Context, d *models.Domain) error {
	if err := s.next.Update(ctx, d); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *CachedStore) Delete(ctx context.Context, domainID id.DomainID) error {
	if err := s.next.Delete(ctx, domainID); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *CachedStore) FindByID(ctx context.Context, domainID id.DomainID) (*models.Domain, error) {
	return s.next.FindByID(ctx, domainID)
}

// List reads through the cache while the breaker allows it. Writes always
// attempt invalidation regardless of the breaker.
func (s *CachedStore) List(ctx context.Context) ([]*models.Domain, error) {
	if !s.breaker.Allow() {
		s.metrics.RecordCache("bypass")
		return s.next.List(ctx)
	}

	key, keyErr := s.currentKey(ctx)
	if keyErr != nil {
		s.cacheFailed(ctx, "list cache generation read failed", keyErr)
		return s.next.List(ctx)
	}

	raw, err := s.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		s.breaker.RecordSuccess()
		var cached []*models.Domain
		if jsonErr := json.Unmarshal(raw, &cached); jsonErr == nil {
			s.metrics.RecordCache("hit")
			return cached, nil
		}
		s.logger.WarnContext(ctx, "discarding undecodable list cache entry", "key", key)
	case errors.Is(err, redis.Nil):
		s.breaker.RecordSuccess()
		s.metrics.RecordCache("miss")
	default:
		s.cacheFailed(ctx, "list cache read failed", err)
		return s.next.List(ctx)
	}

	domains, err := s.next.List(ctx)
	if err != nil {
		return nil, err
	}
	if encoded, jsonErr := json.Marshal(domains); jsonErr == nil {
		if setErr := s.client.Set(ctx, key, encoded, s.ttl).Err(); setErr != nil {
			s.logger.WarnContext(ctx, "list cache write failed", "error", setErr)
		}
	}
	return domains, nil
}

func (s *CachedStore) cacheFailed(ctx context.Context, msg string, err error) {
	s.metrics.RecordCache("error")
	s.logger.WarnContext(ctx, msg, "error", err)
	if s.breaker.RecordFailure() {
		s.logger.WarnContext(ctx, "list cache circuit opened", "breaker", s.breaker.Name())
	}
}

func (s *CachedStore) currentKey(ctx context.Context) (string, error) {
	gen, err := s.client.Get(ctx, listGenerationKey).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		return "", err
	}
	return fmt.Sprintf("%s:%d", listCachePrefix, gen), nil
}

func (s *CachedStore) invalidate(ctx context.Context) {
	if err := s.client.Incr(ctx, listGenerationKey).Err(); err != nil {
		s.logger.WarnContext(ctx, "list cache invalidation failed", "error", err)
	}
}

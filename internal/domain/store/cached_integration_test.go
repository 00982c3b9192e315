//go:build integration

package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/suite"

	"domainnav/internal/domain/metrics"
	"domainnav/internal/domain/models"
	"domainnav/internal/domain/store"
	"domainnav/pkg/testutil/containers"
)

type CachedStoreSuite struct {
	suite.Suite
	redis   *containers.RedisContainer
	backend *store.InMemory
	metrics *metrics.Metrics
	store   *store.CachedStore
}

func TestCachedStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(CachedStoreSuite))
}

func (s *CachedStoreSuite) SetupSuite() {
	s.redis = containers.GetManager().GetRedis(s.T())
}

func (s *CachedStoreSuite) SetupTest() {
	s.Require().NoError(s.redis.FlushAll(context.Background()))
	s.backend = store.NewInMemory()
	s.metrics = metrics.New(prometheus.NewRegistry())
	s.store = store.NewCached(s.backend, s.redis.Client, time.Minute, store.WithCacheMetrics(s.metrics))
}

func (s *CachedStoreSuite) TestSecondListIsServedFromCache() {
	ctx := context.Background()
	s.Require().NoError(s.store.Create(ctx, newTestDomain("Acme", models.DomainTypeTools)))

	_, err := s.store.List(ctx)
	s.Require().NoError(err)
	list, err := s.store.List(ctx)
	s.Require().NoError(err)
	s.Len(list, 1)

	s.Equal(1.0, promtest.ToFloat64(s.metrics.ListCacheResults.WithLabelValues("miss")))
	s.Equal(1.0, promtest.ToFloat64(s.metrics.ListCacheResults.WithLabelValues("hit")))
}

func (s *CachedStoreSuite) TestWritesInvalidateSnapshot() {
	ctx := context.Background()
	d := newTestDomain("Acme", models.DomainTypeTools)
	s.Require().NoError(s.store.Create(ctx, d))
	_, err := s.store.List(ctx)
	s.Require().NoError(err)

	d.DomainName = "Renamed"
	s.Require().NoError(s.store.Update(ctx, d))
	list, err := s.store.List(ctx)
	s.Require().NoError(err)
	s.Require().Len(list, 1)
	s.Equal("Renamed", list[0].DomainName)

	s.Require().NoError(s.store.Delete(ctx, d.ID))
	list, err = s.store.List(ctx)
	s.Require().NoError(err)
	s.Empty(list)
}

// TestWriteBypassingCacheIsNotSeen documents that only writes through the
// decorator invalidate; direct backend writes wait for the TTL.
func (s *CachedStoreSuite) TestWriteBypassingCacheIsNotSeen() {
	ctx := context.Background()
	_, err := s.store.List(ctx)
	s.Require().NoError(err)

	s.Require().NoError(s.backend.Create(ctx, newTestDomain("Sneaky", models.DomainTypeTrust)))
	list, err := s.store.List(ctx)
	s.Require().NoError(err)
	s.Empty(list)
}

//go:build integration

package store_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"domainnav/internal/domain/models"
	"domainnav/internal/domain/store"
	id "domainnav/pkg/domain"
	"domainnav/pkg/platform/sentinel"
	"domainnav/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *store.PostgresStore
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	s.postgres = containers.GetManager().GetPostgres(s.T())
	s.store = store.NewPostgres(s.postgres.DB)
}

func (s *PostgresStoreSuite) SetupTest() {
	s.Require().NoError(s.postgres.TruncateTables(context.Background(), "domains"))
}

func newTestDomain(name string, typ models.DomainType) *models.Domain {
	payload, _ := models.NewCreatePayload(name, typ)
	now := time.Now().UTC().Truncate(time.Microsecond)
	return &models.Domain{
		ID:           id.NewDomainID(),
		DomainName:   payload.DomainName,
		Description:  payload.Description,
		Perspectives: payload.Perspectives,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func (s *PostgresStoreSuite) TestRoundTripsPerspectivesAsJSONB() {
	ctx := context.Background()
	d := newTestDomain("Acme", models.DomainTypeExchange)
	s.Require().NoError(s.store.Create(ctx, d))

	found, err := s.store.FindByID(ctx, d.ID)
	s.Require().NoError(err)
	s.Equal(d.Perspectives, found.Perspectives)
	s.Equal("A Exchange domain", found.Description)
	s.True(d.CreatedAt.Equal(found.CreatedAt))
}

func (s *PostgresStoreSuite) TestDuplicateIDConflicts() {
	ctx := context.Background()
	d := newTestDomain("Acme", models.DomainTypeTools)
	s.Require().NoError(s.store.Create(ctx, d))
	s.ErrorIs(s.store.Create(ctx, d), sentinel.ErrConflict)
}

func (s *PostgresStoreSuite) TestUpdateAndDeleteUnknownID() {
	ctx := context.Background()
	ghost := newTestDomain("Ghost", models.DomainTypeTrust)
	s.ErrorIs(s.store.Update(ctx, ghost), sentinel.ErrNotFound)
	s.ErrorIs(s.store.Delete(ctx, ghost.ID), sentinel.ErrNotFound)
	_, err := s.store.FindByID(ctx, ghost.ID)
	s.ErrorIs(err, sentinel.ErrNotFound)
}

// TestConcurrentUpdatesLastWriteWins verifies concurrent full replacements
// all succeed and the row ends up equal to one of them.
func (s *PostgresStoreSuite) TestConcurrentUpdatesLastWriteWins() {
	ctx := context.Background()
	d := newTestDomain("Acme", models.DomainTypeKnowledge)
	s.Require().NoError(s.store.Create(ctx, d))

	const writers = 20
	var wg sync.WaitGroup
	errs := make(chan error, writers)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			cp := d.Clone()
			cp.Perspectives = cp.Perspectives.WithParticle("Default", "Webinar", time.Duration(n).String())
			cp.UpdatedAt = time.Now().UTC()
			errs <- s.store.Update(ctx, cp)
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		s.NoError(err)
	}

	found, err := s.store.FindByID(ctx, d.ID)
	s.Require().NoError(err)
	s.NotEqual(models.NotConfigured, found.Perspectives["Default"]["Webinar"])
}

func (s *PostgresStoreSuite) TestListOrder() {
	ctx := context.Background()
	first := newTestDomain("First", models.DomainTypeTrust)
	second := newTestDomain("Second", models.DomainTypeTrust)
	second.CreatedAt = first.CreatedAt.Add(time.Second)
	s.Require().NoError(s.store.Create(ctx, second))
	s.Require().NoError(s.store.Create(ctx, first))

	list, err := s.store.List(ctx)
	s.Require().NoError(err)
	s.Require().Len(list, 2)
	s.Equal("First", list[0].DomainName)
	s.Equal("Second", list[1].DomainName)
}

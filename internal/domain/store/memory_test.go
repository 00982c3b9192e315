package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"domainnav/internal/domain/models"
	id "domainnav/pkg/domain"
	"domainnav/pkg/platform/sentinel"
)

type DomainStoreSuite struct {
	suite.Suite
	store *InMemory
	ctx   context.Context
}

func (s *DomainStoreSuite) SetupTest() {
	s.store = NewInMemory()
	s.ctx = context.Background()
}

func TestDomainStoreSuite(t *testing.T) {
	suite.Run(t, new(DomainStoreSuite))
}

func newDomain(name string, createdAt time.Time) *models.Domain {
	payload, _ := models.NewCreatePayload(name, models.DomainTypeTrust)
	return &models.Domain{
		ID:           id.NewDomainID(),
		DomainName:   payload.DomainName,
		Description:  payload.Description,
		Perspectives: payload.Perspectives,
		CreatedAt:    createdAt,
		UpdatedAt:    createdAt,
	}
}

func (s *DomainStoreSuite) TestCreationAndLookups() {
	s.Run("creates and finds domain by ID", func() {
		d := newDomain("Acme", time.Now())
		s.Require().NoError(s.store.Create(s.ctx, d))

		found, err := s.store.FindByID(s.ctx, d.ID)
		s.Require().NoError(err)
		s.Equal(d.DomainName, found.DomainName)
		s.Equal(d.Perspectives, found.Perspectives)
	})

	s.Run("returns ErrNotFound for unknown ID", func() {
		_, err := s.store.FindByID(s.ctx, id.NewDomainID())
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
	})

	s.Run("rejects a duplicate ID", func() {
		d := newDomain("Dup", time.Now())
		s.Require().NoError(s.store.Create(s.ctx, d))
		s.Require().ErrorIs(s.store.Create(s.ctx, d), sentinel.ErrConflict)
	})

	s.Run("allows duplicate names", func() {
		s.Require().NoError(s.store.Create(s.ctx, newDomain("Same", time.Now())))
		s.Require().NoError(s.store.Create(s.ctx, newDomain("Same", time.Now())))
	})
}

func (s *DomainStoreSuite) TestIsolation() {
	d := newDomain("Acme", time.Now())
	s.Require().NoError(s.store.Create(s.ctx, d))

	d.Perspectives["Default"]["Trust Score"] = "mutated by caller"
	found, err := s.store.FindByID(s.ctx, d.ID)
	s.Require().NoError(err)
	s.Equal(models.NotConfigured, found.Perspectives["Default"]["Trust Score"])

	found.Perspectives["Default"]["Trust Score"] = "mutated by reader"
	again, err := s.store.FindByID(s.ctx, d.ID)
	s.Require().NoError(err)
	s.Equal(models.NotConfigured, again.Perspectives["Default"]["Trust Score"])
}

func (s *DomainStoreSuite) TestUpdatesAndDeletes() {
	s.Run("replaces the stored record", func() {
		d := newDomain("Acme", time.Now())
		s.Require().NoError(s.store.Create(s.ctx, d))

		d.DomainName = "Acme Corp"
		d.Perspectives = d.Perspectives.WithParticle("Efficiency", "Trust Score", "High")
		s.Require().NoError(s.store.Update(s.ctx, d))

		found, err := s.store.FindByID(s.ctx, d.ID)
		s.Require().NoError(err)
		s.Equal("Acme Corp", found.DomainName)
		s.Equal("High", found.Perspectives["Efficiency"]["Trust Score"])
	})

	s.Run("update of unknown ID is ErrNotFound", func() {
		s.Require().ErrorIs(s.store.Update(s.ctx, newDomain("Ghost", time.Now())), sentinel.ErrNotFound)
	})

	s.Run("deletes by ID", func() {
		d := newDomain("Doomed", time.Now())
		s.Require().NoError(s.store.Create(s.ctx, d))
		s.Require().NoError(s.store.Delete(s.ctx, d.ID))
		_, err := s.store.FindByID(s.ctx, d.ID)
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
		s.Require().ErrorIs(s.store.Delete(s.ctx, d.ID), sentinel.ErrNotFound)
	})
}

func (s *DomainStoreSuite) TestListOrdersByCreation() {
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	third := newDomain("Third", base.Add(2*time.Hour))
	first := newDomain("First", base)
	second := newDomain("Second", base.Add(time.Hour))
	for _, d := range []*models.Domain{third, first, second} {
		s.Require().NoError(s.store.Create(s.ctx, d))
	}

	list, err := s.store.List(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(list, 3)
	s.Equal([]string{"First", "Second", "Third"}, []string{list[0].DomainName, list[1].DomainName, list[2].DomainName})
}

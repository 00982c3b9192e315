package store

import (
	"context"
	"fmt"
	"sync"

	"domainnav/internal/domain/models"
	id "domainnav/pkg/domain"
	"domainnav/pkg/platform/sentinel"
)

// InMemory keeps domains in a map. Records are deep-copied on the way in and
// out so callers can never mutate stored state.
type InMemory struct {
	mu      sync.RWMutex
	domains map[id.DomainID]*models.Domain
}

func NewInMemory() *InMemory {
	return &InMemory{domains: make(map[id.DomainID]*models.Domain)}
}

func (s *InMemory) Create(_ context.Context, d *models.Domain) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.domains[d.ID]; exists {
		return fmt.Errorf("domain %s: %w", d.ID, sentinel.ErrConflict)
	}
	s.domains[d.ID] = d.Clone()
	return nil
}

func (s *InMemory) Update(_ context.Context, d *models.Domain) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.domains[d.ID]; !ok {
		return sentinel.ErrNotFound
	}
	s.domains[d.ID] = d.Clone()
	return nil
}

func (s *InMemory) Delete(_ context.Context, domainID id.DomainID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.domains[domainID]; !ok {
		return sentinel.ErrNotFound
	}
	delete(s.domains, domainID)
	return nil
}

func (s *InMemory) FindByID(_ context.Context, domainID id.DomainID) (*models.Domain, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.domains[domainID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return d.Clone(), nil
}

func (s *InMemory) List(_ context.Context) ([]*models.Domain, error) {
	s.mu.RLock()
	out := make([]*models.Domain, 0, len(s.domains))
	for _, d := range s.domains {
		out = append(out, d.Clone())
	}
	s.mu.RUnlock()
	sortDomains(out)
	return out, nil
}

package adapters

import (
	"context"

	"domainnav/internal/domain/models"
	"domainnav/internal/domain/service"
	"domainnav/internal/manager"
	id "domainnav/pkg/domain"
)

// DomainService is the slice of the domain service the view uses.
type DomainService interface {
	Create(ctx context.Context, req models.CreateRequest) (*models.Domain, error)
	Update(ctx context.Context, domainID id.DomainID, req models.UpdateRequest) (*models.Domain, error)
	Delete(ctx context.Context, domainID id.DomainID) error
	Subscribe(ctx context.Context) (<-chan service.ListUpdate, error)
}

// DomainServiceAdapter lets the manager controller talk to an in-process
// domain service.
type DomainServiceAdapter struct {
	domains DomainService
}

func NewDomainServiceAdapter(domains DomainService) *DomainServiceAdapter {
	return &DomainServiceAdapter{domains: domains}
}

func (a *DomainServiceAdapter) Create(ctx context.Context, payload models.CreatePayload) (*models.Domain, error) {
	return a.domains.Create(ctx, models.FromPayload(payload))
}

// Update sends the whole record. Saving an edit replaces name, description
// and every perspective with the draft.
func (a *DomainServiceAdapter) Update(ctx context.Context, domainID id.DomainID, record *models.Domain) (*models.Domain, error) {
	return a.domains.Update(ctx, domainID, models.UpdateFromDomain(record))
}

func (a *DomainServiceAdapter) Delete(ctx context.Context, domainID id.DomainID) error {
	return a.domains.Delete(ctx, domainID)
}

func (a *DomainServiceAdapter) Subscribe(ctx context.Context) (<-chan manager.ListSnapshot, error) {
	updates, err := a.domains.Subscribe(ctx)
	if err != nil {
		return nil, err
	}
	out := make(chan manager.ListSnapshot)
	go func() {
		defer close(out)
		for update := range updates {
			select {
			case out <- manager.ListSnapshot{Domains: update.Domains, Err: update.Err}:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}

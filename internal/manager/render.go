package manager

import (
	"sort"

	"domainnav/internal/domain/models"
	id "domainnav/pkg/domain"
)

// View messages.
const (
	MessageLoading    = "Loading domains..."
	MessageListError  = "Error loading domains"
	MessageEmpty      = "No domains found. Add a new domain to get started."
	MessageNoParticle = "No data available for the selected perspective."
)

type PageStatus string

const (
	StatusLoading PageStatus = "loading"
	StatusError   PageStatus = "error"
	StatusEmpty   PageStatus = "empty"
	StatusOK      PageStatus = "ok"
)

// ListSnapshot is the latest value of the store's list subscription.
// Loading is true until the first value arrives.
type ListSnapshot struct {
	Loading bool
	Domains []*models.Domain
	Err     error
}

// Find returns the domain with domainID from the snapshot.
func (l ListSnapshot) Find(domainID id.DomainID) (*models.Domain, bool) {
	for _, d := range l.Domains {
		if d.ID == domainID {
			return d, true
		}
	}
	return nil, false
}

type Particle struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Card is one rendered domain.
type Card struct {
	ID          id.DomainID `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Icon        models.Icon `json:"icon"`
	Particles   []Particle  `json:"particles,omitempty"`
	Message     string      `json:"message,omitempty"`
}

type Page struct {
	Status      PageStatus `json:"status"`
	Message     string     `json:"message,omitempty"`
	Perspective string     `json:"perspective"`
	Cards       []Card     `json:"cards,omitempty"`
}

// TypeOption is one entry of the "select type" control.
type TypeOption struct {
	Name models.DomainType `json:"name"`
	Icon models.Icon       `json:"icon"`
}

// Render derives the page from view state and the latest list. Loading and
// list failures replace the whole page.
func Render(s State, list ListSnapshot) Page {
	page := Page{Perspective: s.SelectedPerspective}
	switch {
	case list.Loading:
		page.Status, page.Message = StatusLoading, MessageLoading
		return page
	case list.Err != nil:
		page.Status, page.Message = StatusError, MessageListError
		return page
	case len(list.Domains) == 0:
		page.Status, page.Message = StatusEmpty, MessageEmpty
		return page
	}

	page.Status = StatusOK
	page.Cards = make([]Card, 0, len(list.Domains))
	for _, d := range list.Domains {
		page.Cards = append(page.Cards, renderCard(d, s.SelectedPerspective))
	}
	return page
}

func renderCard(d *models.Domain, perspective string) Card {
	card := Card{
		ID:          d.ID,
		Name:        d.DomainName,
		Description: d.Description,
		Icon:        models.IconFor(d.Description),
	}
	set, ok := d.Particles(perspective)
	if !ok {
		card.Message = MessageNoParticle
		return card
	}
	card.Particles = orderedParticles(set, d.Description)
	return card
}

// orderedParticles lists the type's default particles in creation order,
// followed by any other particles sorted by name.
func orderedParticles(set models.ParticleSet, description string) []Particle {
	out := make([]Particle, 0, len(set))
	placed := make(map[string]bool, len(set))
	if t, ok := models.TypeFor(description); ok {
		for _, name := range t.DefaultParticles() {
			if value, ok := set[name]; ok {
				out = append(out, Particle{Name: name, Value: value})
				placed[name] = true
			}
		}
	}
	rest := make([]Particle, 0, len(set)-len(out))
	for name, value := range set {
		if !placed[name] {
			rest = append(rest, Particle{Name: name, Value: value})
		}
	}
	sort.Slice(rest, func(i, j int) bool {
		return rest[i].Name < rest[j].Name
	})
	return append(out, rest...)
}

// TypeCatalogue lists the domain types in display order.
func TypeCatalogue() []TypeOption {
	types := models.DomainTypes()
	out := make([]TypeOption, 0, len(types))
	for _, t := range types {
		out = append(out, TypeOption{Name: t, Icon: t.Icon()})
	}
	return out
}

package models

import (
	"fmt"
	"maps"
	"strings"
	"time"

	id "domainnav/pkg/domain"
	dErrors "domainnav/pkg/domain-errors"
)

const (
	// DefaultPerspective always exists in the view and is the only perspective
	// populated when a domain is created.
	DefaultPerspective = "Default"
	// NotConfigured is the value every default particle starts with.
	NotConfigured = "Not configured"
)

// ParticleSet maps particle name to its text value.
type ParticleSet map[string]string

// Perspectives maps perspective name to the domain's particles under it.
type Perspectives map[string]ParticleSet

// Domain is a named entity with per-perspective particle data.
//
// Invariants:
//   - ID is assigned by the store on creation and never changes
//   - DomainName is non-empty after trimming
//   - Description is free text; the type is only ever recovered from it
//     heuristically (see IconFor)
type Domain struct {
	ID           id.DomainID  `json:"id"`
	DomainName   string       `json:"domain_name"`
	Description  string       `json:"description"`
	Perspectives Perspectives `json:"perspectives"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

// CreatePayload is what a client sends to create a domain. The store assigns
// the id.
type CreatePayload struct {
	DomainName   string       `json:"domain_name"`
	Description  string       `json:"description"`
	Perspectives Perspectives `json:"perspectives"`
}

// NewCreatePayload builds the payload for a new domain of type t:
// description "A <Type> domain" and a Default perspective holding every
// default particle of t set to NotConfigured.
func NewCreatePayload(name string, t DomainType) (CreatePayload, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return CreatePayload{}, dErrors.New(dErrors.CodeValidation, "domain name is required")
	}
	if !t.IsValid() {
		return CreatePayload{}, dErrors.New(dErrors.CodeValidation, fmt.Sprintf("unknown domain type %q", t))
	}

	particles := make(ParticleSet, len(domainTypeSpecs[t].particles))
	for _, p := range domainTypeSpecs[t].particles {
		particles[p] = NotConfigured
	}
	return CreatePayload{
		DomainName:   name,
		Description:  Describe(t),
		Perspectives: Perspectives{DefaultPerspective: particles},
	}, nil
}

// Describe renders the description stored for a domain of type t.
func Describe(t DomainType) string {
	return fmt.Sprintf("A %s domain", t)
}

// IconFor recovers a display icon from a stored description by splitting it
// on single spaces, taking the second token and matching it exactly against
// the type catalogue. Anything else, including runs of spaces that leave an
// empty second token, falls back to IconGlobe.
func IconFor(description string) Icon {
	t, ok := TypeFor(description)
	if !ok {
		return IconGlobe
	}
	return t.Icon()
}

// TypeFor recovers the domain type from a stored description with the same
// second-token rule as IconFor.
func TypeFor(description string) (DomainType, bool) {
	tokens := strings.Split(description, " ")
	if len(tokens) < 2 {
		return "", false
	}
	t := DomainType(tokens[1])
	return t, t.IsValid()
}

// Clone returns a deep copy of the particle set.
func (p ParticleSet) Clone() ParticleSet {
	if p == nil {
		return nil
	}
	return maps.Clone(p)
}

// Clone returns a deep copy; no map is shared with the receiver.
func (p Perspectives) Clone() Perspectives {
	if p == nil {
		return nil
	}
	out := make(Perspectives, len(p))
	for name, set := range p {
		out[name] = set.Clone()
	}
	return out
}

// WithParticle returns a copy of p where perspective[particle] = value. The
// perspective and the map itself are created when missing; every other
// perspective and particle is carried over unchanged.
func (p Perspectives) WithParticle(perspective, particle, value string) Perspectives {
	out := p.Clone()
	if out == nil {
		out = Perspectives{}
	}
	set := out[perspective]
	if set == nil {
		set = ParticleSet{}
	}
	set[particle] = value
	out[perspective] = set
	return out
}

// Clone returns a deep copy of the domain.
func (d *Domain) Clone() *Domain {
	if d == nil {
		return nil
	}
	cp := *d
	cp.Perspectives = d.Perspectives.Clone()
	return &cp
}

// Particles returns the particle set under perspective and whether the
// domain has that perspective at all.
func (d *Domain) Particles(perspective string) (ParticleSet, bool) {
	if d == nil || d.Perspectives == nil {
		return nil, false
	}
	set, ok := d.Perspectives[perspective]
	return set, ok
}

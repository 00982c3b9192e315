package models

// DomainType is one of the fixed kinds a domain can be created as. The set
// is closed; the type picks the default particles and the display icon.
type DomainType string

const (
	DomainTypeTrust     DomainType = "Trust"
	DomainTypeKnowledge DomainType = "Knowledge"
	DomainTypeTools     DomainType = "Tools"
	DomainTypeExchange  DomainType = "Exchange"
)

// Icon names a display glyph. Values match the icon set the front end ships.
type Icon string

const (
	IconLock       Icon = "lock"
	IconBook       Icon = "book"
	IconWrench     Icon = "wrench"
	IconDollarSign Icon = "dollar-sign"
	// IconGlobe is shown when a domain's type cannot be recovered.
	IconGlobe Icon = "globe"
)

type typeSpec struct {
	icon      Icon
	particles []string
}

var domainTypeOrder = []DomainType{
	DomainTypeTrust,
	DomainTypeKnowledge,
	DomainTypeTools,
	DomainTypeExchange,
}

var domainTypeSpecs = map[DomainType]typeSpec{
	DomainTypeTrust:     {icon: IconLock, particles: []string{"Security Protocol", "Identity Verification", "Trust Score"}},
	DomainTypeKnowledge: {icon: IconBook, particles: []string{"Learning Path", "Webinar", "Information Sharing"}},
	DomainTypeTools:     {icon: IconWrench, particles: []string{"Task Management", "Timeline", "Resource Allocation"}},
	DomainTypeExchange:  {icon: IconDollarSign, particles: []string{"Payment Processing", "Service Listing", "Reviews"}},
}

// DomainTypes returns the catalogue in display order.
func DomainTypes() []DomainType {
	return append([]DomainType(nil), domainTypeOrder...)
}

// ParseDomainType matches s exactly against the catalogue.
func ParseDomainType(s string) (DomainType, bool) {
	t := DomainType(s)
	return t, t.IsValid()
}

func (t DomainType) IsValid() bool {
	_, ok := domainTypeSpecs[t]
	return ok
}

func (t DomainType) String() string {
	return string(t)
}

// Icon returns the type's glyph, or IconGlobe for unknown types.
func (t DomainType) Icon() Icon {
	if spec, ok := domainTypeSpecs[t]; ok {
		return spec.icon
	}
	return IconGlobe
}

// DefaultParticles returns the particle names seeded at creation, in order.
// Unknown types have none.
func (t DomainType) DefaultParticles() []string {
	return append([]string(nil), domainTypeSpecs[t].particles...)
}

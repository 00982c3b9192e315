package manager

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"domainnav/internal/domain/models"
)

func TestRenderWholePageStates(t *testing.T) {
	s := NewState(nil)
	cases := []struct {
		name    string
		list    ListSnapshot
		status  PageStatus
		message string
	}{
		{"loading", ListSnapshot{Loading: true}, StatusLoading, "Loading domains..."},
		{"list error", ListSnapshot{Err: errors.New("down")}, StatusError, "Error loading domains"},
		{"empty", ListSnapshot{}, StatusEmpty, "No domains found. Add a new domain to get started."},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			page := Render(s, tc.list)
			assert.Equal(t, tc.status, page.Status)
			assert.Equal(t, tc.message, page.Message)
			assert.Empty(t, page.Cards)
		})
	}
}

func TestRenderCards(t *testing.T) {
	d := sampleDomain()
	mystery := sampleDomain()
	mystery.Description = "A Mystery domain"
	list := ListSnapshot{Domains: []*models.Domain{d, mystery}}

	t.Run("selected perspective particles in type order", func(t *testing.T) {
		page := Render(NewState(nil), list)
		require.Equal(t, StatusOK, page.Status)
		require.Len(t, page.Cards, 2)
		card := page.Cards[0]
		assert.Equal(t, models.IconWrench, card.Icon)
		assert.Equal(t, []Particle{
			{Name: "Task Management", Value: "Not configured"},
			{Name: "Timeline", Value: "Q1"},
		}, card.Particles)
		assert.Empty(t, card.Message)
		assert.Equal(t, models.IconGlobe, page.Cards[1].Icon)
	})

	t.Run("default particles keep creation order before extras", func(t *testing.T) {
		trust := sampleDomain()
		trust.Description = models.Describe(models.DomainTypeTrust)
		trust.Perspectives = models.Perspectives{models.DefaultPerspective: {
			"Zeta":                  "z",
			"Trust Score":           "high",
			"Audit":                 "yearly",
			"Identity Verification": "kyc",
			"Security Protocol":     "tls",
		}}
		page := Render(NewState(nil), ListSnapshot{Domains: []*models.Domain{trust}})
		assert.Equal(t, []Particle{
			{Name: "Security Protocol", Value: "tls"},
			{Name: "Identity Verification", Value: "kyc"},
			{Name: "Trust Score", Value: "high"},
			{Name: "Audit", Value: "yearly"},
			{Name: "Zeta", Value: "z"},
		}, page.Cards[0].Particles)
	})

	t.Run("unrecognised type sorts every particle by name", func(t *testing.T) {
		page := Render(NewState(nil), ListSnapshot{Domains: []*models.Domain{mystery}})
		require.Len(t, page.Cards, 1)
		assert.Equal(t, []Particle{
			{Name: "Task Management", Value: "Not configured"},
			{Name: "Timeline", Value: "Q1"},
		}, page.Cards[0].Particles)
	})

	t.Run("missing perspective shows no-data message", func(t *testing.T) {
		s, _ := AddPerspective(NewState(nil), "Cost")
		s, _ = SelectPerspective(s, "Cost")
		page := Render(s, list)
		assert.Equal(t, "Cost", page.Perspective)
		assert.Equal(t, "No data available for the selected perspective.", page.Cards[0].Message)
		assert.Empty(t, page.Cards[0].Particles)
	})

	t.Run("removed then re-added perspective shows preserved data", func(t *testing.T) {
		s := NewState([]string{"Efficiency"})
		s, _ = RemovePerspective(s, "Efficiency")
		s, _ = AddPerspective(s, "Efficiency")
		s, _ = SelectPerspective(s, "Efficiency")
		page := Render(s, list)
		assert.Equal(t, []Particle{{Name: "Timeline", Value: "Fast"}}, page.Cards[0].Particles)
	})
}

func TestTypeCatalogue(t *testing.T) {
	assert.Equal(t, []TypeOption{
		{Name: models.DomainTypeTrust, Icon: models.IconLock},
		{Name: models.DomainTypeKnowledge, Icon: models.IconBook},
		{Name: models.DomainTypeTools, Icon: models.IconWrench},
		{Name: models.DomainTypeExchange, Icon: models.IconDollarSign},
	}, TypeCatalogue())
}

package models

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "domainnav/pkg/domain-errors"
)

func TestCreateRequestValidate(t *testing.T) {
	req := &CreateRequest{DomainName: "  "}
	req.Normalize()
	err := req.Validate()
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))

	req = &CreateRequest{DomainName: strings.Repeat("x", 300)}
	require.Error(t, req.Validate())

	req = &CreateRequest{DomainName: " Acme "}
	req.Normalize()
	require.NoError(t, req.Validate())
	assert.Equal(t, "Acme", req.DomainName)
}

func TestUpdateRequestApplyMerges(t *testing.T) {
	d := &Domain{
		DomainName:   "Acme",
		Description:  "A Tools domain",
		Perspectives: Perspectives{"Default": {"Timeline": "Q3"}},
	}

	name := "Acme Corp"
	req := UpdateRequest{DomainName: &name}
	require.NoError(t, req.Validate())
	req.Apply(d)

	assert.Equal(t, "Acme Corp", d.DomainName)
	assert.Equal(t, "A Tools domain", d.Description, "unset fields keep stored values")
	assert.Equal(t, "Q3", d.Perspectives["Default"]["Timeline"])
}

func TestUpdateRequestRejectsEmptyName(t *testing.T) {
	empty := "   "
	req := UpdateRequest{DomainName: &empty}
	req.Normalize()
	require.Error(t, req.Validate())
}

func TestUpdateFromDomainCopies(t *testing.T) {
	d := &Domain{DomainName: "Acme", Perspectives: Perspectives{"Default": {"Reviews": "ok"}}}
	req := UpdateFromDomain(d)
	(*req.Perspectives)["Default"]["Reviews"] = "changed"
	assert.Equal(t, "ok", d.Perspectives["Default"]["Reviews"])
}

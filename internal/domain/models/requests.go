package models

import (
	"strings"

	dErrors "domainnav/pkg/domain-errors"
)

const maxNameLength = 256

// CreateRequest is the store-level create input. Unlike NewCreatePayload it
// accepts any description and perspectives, since the store does not know
// about domain types.
type CreateRequest struct {
	DomainName   string       `json:"domain_name"`
	Description  string       `json:"description"`
	Perspectives Perspectives `json:"perspectives"`
}

// FromPayload converts a view payload into a store request.
func FromPayload(p CreatePayload) CreateRequest {
	return CreateRequest{
		DomainName:   p.DomainName,
		Description:  p.Description,
		Perspectives: p.Perspectives.Clone(),
	}
}

func (r *CreateRequest) Normalize() {
	if r == nil {
		return
	}
	r.DomainName = strings.TrimSpace(r.DomainName)
}

// Validate follows the order Size -> Required.
func (r *CreateRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request is required")
	}
	if len(r.DomainName) > maxNameLength {
		return dErrors.New(dErrors.CodeValidation, "domain_name must be 256 characters or less")
	}
	if r.DomainName == "" {
		return dErrors.New(dErrors.CodeValidation, "domain_name is required")
	}
	return nil
}

// UpdateRequest carries the fields a caller wants to change. Nil fields keep
// the stored value; Perspectives, when set, replaces the whole mapping.
type UpdateRequest struct {
	DomainName   *string       `json:"domain_name,omitempty"`
	Description  *string       `json:"description,omitempty"`
	Perspectives *Perspectives `json:"perspectives,omitempty"`
}

// UpdateFromDomain builds a full update from a working copy of a domain, the
// way the edit dialog saves.
func UpdateFromDomain(d *Domain) UpdateRequest {
	name := d.DomainName
	desc := d.Description
	persp := d.Perspectives.Clone()
	return UpdateRequest{DomainName: &name, Description: &desc, Perspectives: &persp}
}

func (r *UpdateRequest) Normalize() {
	if r == nil || r.DomainName == nil {
		return
	}
	trimmed := strings.TrimSpace(*r.DomainName)
	r.DomainName = &trimmed
}

func (r *UpdateRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request is required")
	}
	if r.DomainName != nil {
		if len(*r.DomainName) > maxNameLength {
			return dErrors.New(dErrors.CodeValidation, "domain_name must be 256 characters or less")
		}
		if *r.DomainName == "" {
			return dErrors.New(dErrors.CodeValidation, "domain_name cannot be empty")
		}
	}
	return nil
}

// Apply merges the request onto d in place.
func (r *UpdateRequest) Apply(d *Domain) {
	if r.DomainName != nil {
		d.DomainName = *r.DomainName
	}
	if r.Description != nil {
		d.Description = *r.Description
	}
	if r.Perspectives != nil {
		d.Perspectives = r.Perspectives.Clone()
	}
}

// Package domain holds typed identifiers shared across packages.
package domain

import (
	"github.com/google/uuid"

	dErrors "domainnav/pkg/domain-errors"
)

// DomainID identifies a stored domain. It is assigned by the store on
// creation and never changes.
type DomainID uuid.UUID

// NewDomainID returns a fresh random DomainID.
func NewDomainID() DomainID {
	return DomainID(uuid.New())
}

func (id DomainID) String() string {
	return uuid.UUID(id).String()
}

// IsNil reports whether id is the zero UUID.
func (id DomainID) IsNil() bool {
	return uuid.UUID(id) == uuid.Nil
}

func (id DomainID) MarshalText() ([]byte, error) {
	return uuid.UUID(id).MarshalText()
}

func (id *DomainID) UnmarshalText(data []byte) error {
	var u uuid.UUID
	if err := u.UnmarshalText(data); err != nil {
		return err
	}
	*id = DomainID(u)
	return nil
}

// ParseDomainID parses a path or body value into a DomainID.
// Empty, malformed and nil UUIDs are rejected with CodeInvalidInput.
func ParseDomainID(s string) (DomainID, error) {
	if s == "" {
		return DomainID{}, dErrors.New(dErrors.CodeInvalidInput, "domain id is required")
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return DomainID{}, dErrors.New(dErrors.CodeInvalidInput, "invalid domain id")
	}
	if u == uuid.Nil {
		return DomainID{}, dErrors.New(dErrors.CodeInvalidInput, "domain id cannot be nil")
	}
	return DomainID(u), nil
}

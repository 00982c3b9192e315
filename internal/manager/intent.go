package manager

import (
	"domainnav/internal/domain/models"
	id "domainnav/pkg/domain"
)

// Intent is a side effect requested by a transition. The controller runs
// store intents asynchronously and notifications immediately.
type Intent interface {
	intentKind() string
}

type CreateIntent struct {
	Payload models.CreatePayload
}

type UpdateIntent struct {
	ID     id.DomainID
	Record *models.Domain
}

type DeleteIntent struct {
	ID id.DomainID
}

type NotifyIntent struct {
	Notification Notification
}

func (CreateIntent) intentKind() string { return "create" }
func (UpdateIntent) intentKind() string { return "update" }
func (DeleteIntent) intentKind() string { return "delete" }
func (NotifyIntent) intentKind() string { return "notify" }

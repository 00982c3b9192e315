// Package events carries domain change notifications between writers and
// list subscribers. Events are hints: subscribers re-read the list rather
// than applying the payload.
package events

import (
	"context"
	"time"

	id "domainnav/pkg/domain"
)

// Type names the mutation that produced an event.
type Type string

const (
	TypeCreated Type = "domain.created"
	TypeUpdated Type = "domain.updated"
	TypeDeleted Type = "domain.deleted"
)

// Event describes one successful domain mutation.
type Event struct {
	Type       Type        `json:"type"`
	DomainID   id.DomainID `json:"domain_id"`
	DomainName string      `json:"domain_name,omitempty"`
	OccurredAt time.Time   `json:"occurred_at"`
}

type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// Source yields events until ctx is done or the source is closed, then
// closes the channel.
type Source interface {
	Subscribe(ctx context.Context) (<-chan Event, error)
}

// Broker fans events out to subscribers.
type Broker interface {
	Publisher
	Source
}

// Sink receives events for delivery outside the process.
type Sink interface {
	Send(ctx context.Context, event Event) error
}

package events

import (
	"context"
	"log/slog"

	"domainnav/internal/domain/metrics"
)

// Relay copies events from a source to an outbound sink. Feed it from an
// Outbox so each instance relays only its own events and none are dropped.
// Send failures are logged and counted; the relay keeps going.
type Relay struct {
	source  Source
	sink    Sink
	name    string
	logger  *slog.Logger
	metrics *metrics.Metrics
}

func NewRelay(source Source, sink Sink, name string, logger *slog.Logger, m *metrics.Metrics) *Relay {
	if logger == nil {
		logger = slog.Default()
	}
	return &Relay{source: source, sink: sink, name: name, logger: logger, metrics: m}
}

// Run blocks until ctx is done or the subscription ends.
func (r *Relay) Run(ctx context.Context) error {
	inbox, err := r.source.Subscribe(ctx)
	if err != nil {
		return err
	}
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-inbox:
			if !ok {
				return ctx.Err()
			}
			err := r.sink.Send(ctx, event)
			r.metrics.RecordPublish(r.name, err)
			if err != nil {
				r.logger.ErrorContext(ctx, "failed to relay domain event",
					"sink", r.name,
					"type", event.Type,
					"domain_id", event.DomainID.String(),
					"error", err,
				)
			}
		}
	}
}

package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"domainnav/internal/domain/events"
	"domainnav/internal/domain/metrics"
	"domainnav/internal/domain/models"
	id "domainnav/pkg/domain"
	dErrors "domainnav/pkg/domain-errors"
	"domainnav/pkg/platform/sentinel"
	"domainnav/pkg/requestcontext"
)

const tracerName = "domainnav/internal/domain/service"

const (
	opCreate = "create"
	opUpdate = "update"
	opDelete = "delete"
	opGet    = "get"
	opList   = "list"
)

type Store interface {
	Create(ctx context.Context, d *models.Domain) error
	Update(ctx context.Context, d *models.Domain) error
	Delete(ctx context.Context, domainID id.DomainID) error
	FindByID(ctx context.Context, domainID id.DomainID) (*models.Domain, error)
	List(ctx context.Context) ([]*models.Domain, error)
}

// ListUpdate is one value of a list subscription: either a full snapshot or
// the error the re-list produced.
type ListUpdate struct {
	Domains []*models.Domain
	Err     error
}

// Service owns domain persistence and change propagation.
type Service struct {
	store   Store
	broker  events.Broker
	local   *events.InProcess
	outbox  events.Publisher
	logger  *slog.Logger
	metrics *metrics.Metrics
	tracer  trace.Tracer
}

type Option func(s *Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithBroker replaces the default in-process broker, e.g. with a Redis
// broker shared by several instances.
func WithBroker(b events.Broker) Option {
	return func(s *Service) {
		s.broker = b
	}
}

// WithOutbox also hands every event this service produces to p, and only
// those. Outbound relays read from it rather than from the shared broker.
func WithOutbox(p events.Publisher) Option {
	return func(s *Service) {
		s.outbox = p
	}
}

// New constructs a Service.
func New(store Store, opts ...Option) *Service {
	s := &Service{store: store, local: events.NewInProcess(), tracer: otel.Tracer(tracerName)}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.broker == nil {
		s.broker = events.NewInProcess()
	}
	return s
}

func (s *Service) Create(ctx context.Context, req models.CreateRequest) (_ *models.Domain, err error) {
	ctx, finish := s.begin(ctx, opCreate)
	defer func() { finish(err) }()

	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	now := requestcontext.Now(ctx)
	perspectives := req.Perspectives.Clone()
	if perspectives == nil {
		perspectives = models.Perspectives{}
	}
	d := &models.Domain{
		ID:           id.NewDomainID(),
		DomainName:   req.DomainName,
		Description:  req.Description,
		Perspectives: perspectives,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.store.Create(ctx, d); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create domain")
	}

	trace.SpanFromContext(ctx).SetAttributes(attribute.String("domain.id", d.ID.String()))
	s.recordMutation(ctx, opCreate, events.TypeCreated, d)
	return d, nil
}

func (s *Service) Update(ctx context.Context, domainID id.DomainID, req models.UpdateRequest) (_ *models.Domain, err error) {
	ctx, finish := s.begin(ctx, opUpdate, attribute.String("domain.id", domainID.String()))
	defer func() { finish(err) }()

	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	d, err := s.store.FindByID(ctx, domainID)
	if err != nil {
		return nil, translate(err, "failed to load domain")
	}
	req.Apply(d)
	d.UpdatedAt = requestcontext.Now(ctx)

	if err := s.store.Update(ctx, d); err != nil {
		return nil, translate(err, "failed to update domain")
	}

	s.recordMutation(ctx, opUpdate, events.TypeUpdated, d)
	return d, nil
}

func (s *Service) Delete(ctx context.Context, domainID id.DomainID) (err error) {
	ctx, finish := s.begin(ctx, opDelete, attribute.String("domain.id", domainID.String()))
	defer func() { finish(err) }()

	if err := s.store.Delete(ctx, domainID); err != nil {
		return translate(err, "failed to delete domain")
	}

	s.recordMutation(ctx, opDelete, events.TypeDeleted, &models.Domain{ID: domainID})
	return nil
}

func (s *Service) Get(ctx context.Context, domainID id.DomainID) (_ *models.Domain, err error) {
	ctx, finish := s.begin(ctx, opGet, attribute.String("domain.id", domainID.String()))
	defer func() { finish(err) }()

	d, err := s.store.FindByID(ctx, domainID)
	if err != nil {
		return nil, translate(err, "failed to load domain")
	}
	return d, nil
}

func (s *Service) List(ctx context.Context) (_ []*models.Domain, err error) {
	ctx, finish := s.begin(ctx, opList)
	defer func() { finish(err) }()

	domains, err := s.store.List(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list domains")
	}
	trace.SpanFromContext(ctx).SetAttributes(attribute.Int("domain.count", len(domains)))
	return domains, nil
}

// Subscribe streams full list snapshots. The first value is the current
// list; every change event afterwards triggers a re-list. Events that pile
// up while a re-list is in flight collapse into one. A failing re-list is
// delivered as ListUpdate.Err and the stream stays open. The channel closes
// when ctx is done or the broker ends the subscription. Writes made by this
// service whose broker publish failed still trigger a local re-list.
func (s *Service) Subscribe(ctx context.Context) (<-chan ListUpdate, error) {
	changes, err := s.broker.Subscribe(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to subscribe to domain changes")
	}
	local, err := s.local.Subscribe(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to subscribe to local domain changes")
	}

	out := make(chan ListUpdate, 1)
	go func() {
		defer close(out)
		if !s.sendSnapshot(ctx, out) {
			return
		}
		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-changes:
				if !ok {
					return
				}
			case _, ok := <-local:
				if !ok {
					return
				}
			}
			drain(changes)
			drain(local)
			if !s.sendSnapshot(ctx, out) {
				return
			}
		}
	}()
	return out, nil
}

func (s *Service) sendSnapshot(ctx context.Context, out chan<- ListUpdate) bool {
	domains, err := s.List(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return false
		}
		s.logger.ErrorContext(ctx, "failed to refresh domain list", "error", err)
	}
	select {
	case out <- ListUpdate{Domains: domains, Err: err}:
		return true
	case <-ctx.Done():
		return false
	}
}

func drain(ch <-chan events.Event) {
	for {
		select {
		case _, ok := <-ch:
			if !ok {
				return
			}
		default:
			return
		}
	}
}

// begin opens a span for op and returns a finisher that records duration,
// failure and span status.
func (s *Service) begin(ctx context.Context, op string, attrs ...attribute.KeyValue) (context.Context, func(error)) {
	start := time.Now()
	ctx, span := s.tracer.Start(ctx, "domain."+op, trace.WithAttributes(attrs...))
	return ctx, func(err error) {
		s.metrics.ObserveOperation(op, start, err)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, string(dErrors.CodeOf(err)))
		}
		span.End()
	}
}

func (s *Service) recordMutation(ctx context.Context, op string, eventType events.Type, d *models.Domain) {
	s.metrics.IncrementMutated(op)

	args := []any{"event", string(eventType), "domain_id", d.ID.String()}
	if d.DomainName != "" {
		args = append(args, "domain_name", d.DomainName)
	}
	if requestID := requestcontext.RequestID(ctx); requestID != "" {
		args = append(args, "request_id", requestID)
	}
	s.logger.InfoContext(ctx, string(eventType), args...)

	event := events.Event{
		Type:       eventType,
		DomainID:   d.ID,
		DomainName: d.DomainName,
		OccurredAt: requestcontext.Now(ctx),
	}
	if s.outbox != nil {
		if err := s.outbox.Publish(ctx, event); err != nil {
			s.logger.WarnContext(ctx, "failed to queue domain event for relay", "event", string(eventType), "error", err)
		}
	}
	if err := s.broker.Publish(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "failed to publish domain event", "event", string(eventType), "error", err)
		_ = s.local.Publish(ctx, event)
	}
}

func translate(err error, msg string) error {
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.New(dErrors.CodeNotFound, "domain not found")
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, msg)
}

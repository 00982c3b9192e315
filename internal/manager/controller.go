package manager

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"domainnav/internal/domain/models"
	"domainnav/internal/manager/metrics"
	id "domainnav/pkg/domain"
	dErrors "domainnav/pkg/domain-errors"
)

// Store is what the view needs from the domain store.
type Store interface {
	Create(ctx context.Context, payload models.CreatePayload) (*models.Domain, error)
	Update(ctx context.Context, domainID id.DomainID, record *models.Domain) (*models.Domain, error)
	Delete(ctx context.Context, domainID id.DomainID) error
	Subscribe(ctx context.Context) (<-chan ListSnapshot, error)
}

// Controller owns one view's State. Store calls run in their own goroutines
// with no coalescing; each result is applied when it completes, so results
// land in completion order rather than issue order.
type Controller struct {
	mu    sync.Mutex
	state State
	list  ListSnapshot

	store         Store
	baseCtx       context.Context
	logger        *slog.Logger
	metrics       *metrics.Metrics
	notifications *notificationRing
	now           func() time.Time
	inflight      sync.WaitGroup
}

type transition func(State) (State, []Intent)

type Option func(*Controller)

func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) {
		c.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Controller) {
		c.metrics = m
	}
}

func WithNotificationCapacity(n int) Option {
	return func(c *Controller) {
		c.notifications = newNotificationRing(n)
	}
}

func WithClock(now func() time.Time) Option {
	return func(c *Controller) {
		c.now = now
	}
}

// NewController builds a controller over store. Store calls run under ctx,
// not under the request that triggered them.
func NewController(ctx context.Context, store Store, perspectives []string, opts ...Option) *Controller {
	c := &Controller{
		state:   NewState(perspectives),
		list:    ListSnapshot{Loading: true},
		store:   store,
		baseCtx: ctx,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	if c.notifications == nil {
		c.notifications = newNotificationRing(DefaultNotificationCapacity)
	}
	return c
}

// Run follows the store's list subscription until ctx is done.
func (c *Controller) Run(ctx context.Context) error {
	updates, err := c.store.Subscribe(ctx)
	if err != nil {
		c.mu.Lock()
		c.list = ListSnapshot{Err: err}
		c.mu.Unlock()
		return err
	}
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case snap, ok := <-updates:
			if !ok {
				return ctx.Err()
			}
			if snap.Err != nil {
				c.logger.ErrorContext(ctx, "domain list subscription failed", "error", snap.Err)
			}
			c.mu.Lock()
			c.list = snap
			c.mu.Unlock()
		}
	}
}

// State returns a copy of the current view state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.clone()
}

// List returns the latest list snapshot.
func (c *Controller) List() ListSnapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.list
}

// Page renders the current state against the latest list.
func (c *Controller) Page() Page {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Render(c.state, c.list)
}

// View returns the state and the page rendered from it under one lock.
func (c *Controller) View() (State, Page) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.clone(), Render(c.state, c.list)
}

func (c *Controller) Notifications() []Notification {
	return c.notifications.list()
}

// Wait blocks until every issued store call has been applied.
func (c *Controller) Wait() {
	c.inflight.Wait()
}

func (c *Controller) SetNewDomainDraft(name, domainType string) {
	c.dispatch(func(s State) (State, []Intent) { return SetNewDomainDraft(s, name, domainType) })
}

func (c *Controller) SetNewPerspectiveDraft(name string) {
	c.dispatch(func(s State) (State, []Intent) { return SetNewPerspectiveDraft(s, name) })
}

func (c *Controller) CreateDomain() {
	c.dispatch(CreateDomain)
}

func (c *Controller) UpdateDomain(domainID id.DomainID, record *models.Domain) {
	c.dispatch(func(s State) (State, []Intent) { return UpdateDomain(s, domainID, record) })
}

func (c *Controller) SaveEdit() {
	c.dispatch(SaveEdit)
}

func (c *Controller) DeleteDomain(domainID id.DomainID) {
	c.dispatch(func(s State) (State, []Intent) { return DeleteDomain(s, domainID) })
}

func (c *Controller) AddPerspective(name string) {
	c.dispatch(func(s State) (State, []Intent) { return AddPerspective(s, name) })
}

func (c *Controller) RemovePerspective(name string) {
	c.dispatch(func(s State) (State, []Intent) { return RemovePerspective(s, name) })
}

func (c *Controller) SelectPerspective(name string) {
	c.dispatch(func(s State) (State, []Intent) { return SelectPerspective(s, name) })
}

// BeginEdit opens the edit dialog on the domain with domainID from the
// latest list. It fails with CodeNotFound when the list does not have it.
func (c *Controller) BeginEdit(domainID id.DomainID) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	d, ok := c.list.Find(domainID)
	if !ok {
		return dErrors.New(dErrors.CodeNotFound, "domain not found")
	}
	c.applyLocked(func(s State) (State, []Intent) { return BeginEdit(s, d) })
	return nil
}

func (c *Controller) SetEditingDraftField(particle, value string) {
	c.dispatch(func(s State) (State, []Intent) { return SetEditingDraftField(s, particle, value) })
}

func (c *Controller) DismissEdit() {
	c.dispatch(DismissEdit)
}

func (c *Controller) dispatch(t transition) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.applyLocked(t)
}

func (c *Controller) applyLocked(t transition) {
	next, intents := t(c.state)
	c.state = next
	for _, intent := range intents {
		c.runLocked(intent)
	}
}

func (c *Controller) runLocked(intent Intent) {
	switch in := intent.(type) {
	case NotifyIntent:
		n := in.Notification
		n.At = c.now()
		c.notifications.push(n)
		c.metrics.RecordNotification(string(n.Severity))
	case CreateIntent:
		c.goCall(in.intentKind(), func(ctx context.Context) (transition, error) {
			_, err := c.store.Create(ctx, in.Payload)
			c.logFailure(ctx, "create", err, "domain_name", in.Payload.DomainName)
			return func(s State) (State, []Intent) { return ApplyCreateResult(s, in.Payload, err) }, err
		})
	case UpdateIntent:
		c.goCall(in.intentKind(), func(ctx context.Context) (transition, error) {
			_, err := c.store.Update(ctx, in.ID, in.Record)
			c.logFailure(ctx, "update", err, "domain_id", in.ID.String())
			return func(s State) (State, []Intent) { return ApplyUpdateResult(s, in.Record, err) }, err
		})
	case DeleteIntent:
		c.goCall(in.intentKind(), func(ctx context.Context) (transition, error) {
			err := c.store.Delete(ctx, in.ID)
			c.logFailure(ctx, "delete", err, "domain_id", in.ID.String())
			return func(s State) (State, []Intent) { return ApplyDeleteResult(s, err) }, err
		})
	}
}

// goCall runs call in its own goroutine and applies the transition it
// returns once it completes.
func (c *Controller) goCall(kind string, call func(ctx context.Context) (transition, error)) {
	c.inflight.Add(1)
	c.metrics.StartCall()
	go func() {
		defer c.inflight.Done()
		apply, err := call(c.baseCtx)
		c.dispatch(apply)
		c.metrics.FinishCall(kind, err)
	}()
}

func (c *Controller) logFailure(ctx context.Context, op string, err error, attrs ...any) {
	if err == nil {
		return
	}
	args := append([]any{"op", op, "error", err}, attrs...)
	c.logger.ErrorContext(ctx, "domain store call failed", args...)
}

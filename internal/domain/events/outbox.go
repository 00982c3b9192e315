package events

import (
	"context"
	"errors"
	"sync"

	"domainnav/pkg/platform/sentinel"
)

// ErrOutboxTaken is returned by Subscribe while another consumer holds the outbox.
var ErrOutboxTaken = errors.New("outbox already has a consumer")

// Outbox queues the events this instance produced for one consumer, such as
// a Relay. Unlike a Broker it never drops: Publish appends to an in-memory
// queue and the consumer drains it at its own pace. Events that were queued
// but not handed over when the consumer stops are kept for the next one.
type Outbox struct {
	mu      sync.Mutex
	pending []Event
	taken   bool
	closed  bool
	ready   chan struct{}
	done    chan struct{}
}

func NewOutbox() *Outbox {
	return &Outbox{
		ready: make(chan struct{}, 1),
		done:  make(chan struct{}),
	}
}

func (o *Outbox) Publish(_ context.Context, event Event) error {
	o.mu.Lock()
	if o.closed {
		o.mu.Unlock()
		return sentinel.ErrClosed
	}
	o.pending = append(o.pending, event)
	o.mu.Unlock()

	select {
	case o.ready <- struct{}{}:
	default:
	}
	return nil
}

// Subscribe hands the queue to a single consumer until ctx is done.
func (o *Outbox) Subscribe(ctx context.Context) (<-chan Event, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.closed {
		return nil, sentinel.ErrClosed
	}
	if o.taken {
		return nil, ErrOutboxTaken
	}
	o.taken = true

	out := make(chan Event)
	go func() {
		defer close(out)
		defer o.release()
		for {
			batch := o.take()
			for i, event := range batch {
				select {
				case out <- event:
				case <-ctx.Done():
					o.requeue(batch[i:])
					return
				case <-o.done:
					return
				}
			}
			if len(batch) > 0 {
				continue
			}
			select {
			case <-o.ready:
			case <-ctx.Done():
				return
			case <-o.done:
				return
			}
		}
	}()
	return out, nil
}

// Len reports how many events wait for the consumer.
func (o *Outbox) Len() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.pending)
}

func (o *Outbox) take() []Event {
	o.mu.Lock()
	defer o.mu.Unlock()
	batch := o.pending
	o.pending = nil
	return batch
}

func (o *Outbox) requeue(events []Event) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.pending = append(append([]Event(nil), events...), o.pending...)
}

func (o *Outbox) release() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.taken = false
}

// Close ends the consumer's subscription and discards queued events.
func (o *Outbox) Close() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.closed {
		return
	}
	o.closed = true
	o.pending = nil
	close(o.done)
}

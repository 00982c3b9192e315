package events

import (
	"context"
	"sync"

	"domainnav/pkg/platform/sentinel"
)

const defaultSubscriberBuffer = 16

// InProcess is a fan-out broker for a single server instance. Publish never
// blocks: a subscriber whose buffer is full misses the event, which is safe
// because any later event triggers a full re-list.
type InProcess struct {
	mu     sync.Mutex
	subs   map[chan Event]struct{}
	buffer int
	closed bool
	done   chan struct{}
}

func NewInProcess() *InProcess {
	return &InProcess{
		subs:   make(map[chan Event]struct{}),
		buffer: defaultSubscriberBuffer,
		done:   make(chan struct{}),
	}
}

func (b *InProcess) Publish(_ context.Context, event Event) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return sentinel.ErrClosed
	}
	for ch := range b.subs {
		select {
		case ch <- event:
		default:
		}
	}
	return nil
}

func (b *InProcess) Subscribe(ctx context.Context) (<-chan Event, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil, sentinel.ErrClosed
	}
	ch := make(chan Event, b.buffer)
	b.subs[ch] = struct{}{}

	go func() {
		select {
		case <-ctx.Done():
			b.unsubscribe(ch)
		case <-b.done:
		}
	}()
	return ch, nil
}

func (b *InProcess) unsubscribe(ch chan Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.subs[ch]; ok {
		delete(b.subs, ch)
		close(ch)
	}
}

// Close ends every subscription. Later Publish and Subscribe calls return
// sentinel.ErrClosed.
func (b *InProcess) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	close(b.done)
	for ch := range b.subs {
		delete(b.subs, ch)
		close(ch)
	}
}

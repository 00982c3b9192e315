package manager

import (
	"sync"
	"time"
)

type Severity string

const (
	SeverityNormal      Severity = "normal"
	SeverityDestructive Severity = "destructive"
)

// Notification is the transient toast shown after every mutation attempt.
type Notification struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Severity    Severity  `json:"severity"`
	At          time.Time `json:"at,omitzero"`
}

// DefaultNotificationCapacity is how many notifications the controller keeps.
const DefaultNotificationCapacity = 50

// notificationRing keeps the latest notifications, oldest first.
type notificationRing struct {
	mu    sync.Mutex
	items []Notification
	next  int
	full  bool
}

func newNotificationRing(capacity int) *notificationRing {
	if capacity <= 0 {
		capacity = DefaultNotificationCapacity
	}
	return &notificationRing{items: make([]Notification, capacity)}
}

func (r *notificationRing) push(n Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[r.next] = n
	r.next = (r.next + 1) % len(r.items)
	if r.next == 0 {
		r.full = true
	}
}

func (r *notificationRing) list() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.full {
		return append([]Notification(nil), r.items[:r.next]...)
	}
	out := make([]Notification, 0, len(r.items))
	out = append(out, r.items[r.next:]...)
	return append(out, r.items[:r.next]...)
}

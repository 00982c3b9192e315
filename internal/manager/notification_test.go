package manager

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNotificationRingKeepsLatest(t *testing.T) {
	r := newNotificationRing(3)
	assert.Empty(t, r.list())

	for i := 1; i <= 5; i++ {
		r.push(Notification{Title: fmt.Sprint(i)})
	}
	titles := make([]string, 0, 3)
	for _, n := range r.list() {
		titles = append(titles, n.Title)
	}
	assert.Equal(t, []string{"3", "4", "5"}, titles)
}

func TestNotificationRingPartial(t *testing.T) {
	r := newNotificationRing(0)
	r.push(Notification{Title: "only"})
	assert.Len(t, r.list(), 1)
	assert.Len(t, r.items, DefaultNotificationCapacity)
}

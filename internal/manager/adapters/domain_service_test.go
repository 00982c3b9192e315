package adapters

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"domainnav/internal/domain/events"
	"domainnav/internal/domain/models"
	"domainnav/internal/domain/service"
	"domainnav/internal/domain/store"
	"domainnav/internal/manager"
	"domainnav/internal/platform/logger"
)

func newAdapter(t *testing.T) *DomainServiceAdapter {
	t.Helper()
	broker := events.NewInProcess()
	t.Cleanup(broker.Close)
	svc := service.New(store.NewInMemory(), service.WithBroker(broker), service.WithLogger(logger.Discard()))
	return NewDomainServiceAdapter(svc)
}

func next(t *testing.T, ch <-chan manager.ListSnapshot) manager.ListSnapshot {
	t.Helper()
	select {
	case snap, ok := <-ch:
		require.True(t, ok)
		return snap
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for snapshot")
		return manager.ListSnapshot{}
	}
}

func TestAdapterRoundTrip(t *testing.T) {
	a := newAdapter(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	snaps, err := a.Subscribe(ctx)
	require.NoError(t, err)
	assert.Empty(t, next(t, snaps).Domains)

	payload, err := models.NewCreatePayload("Acme", models.DomainTypeExchange)
	require.NoError(t, err)
	created, err := a.Create(ctx, payload)
	require.NoError(t, err)
	assert.Equal(t, "A Exchange domain", created.Description)

	snap := next(t, snaps)
	require.Len(t, snap.Domains, 1)
	assert.False(t, snap.Loading)

	draft := created.Clone()
	draft.Perspectives = draft.Perspectives.WithParticle("Reliability", "Reviews", "5 stars")
	updated, err := a.Update(ctx, created.ID, draft)
	require.NoError(t, err)
	assert.Equal(t, "5 stars", updated.Perspectives["Reliability"]["Reviews"])
	assert.Equal(t, models.NotConfigured, updated.Perspectives["Default"]["Reviews"])
	next(t, snaps)

	require.NoError(t, a.Delete(ctx, created.ID))
	assert.Empty(t, next(t, snaps).Domains)
}

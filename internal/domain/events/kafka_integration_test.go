//go:build integration

package events_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go/modules/redpanda"
	"github.com/twmb/franz-go/pkg/kgo"

	"domainnav/internal/domain/events"
	id "domainnav/pkg/domain"
)

func TestKafkaSinkProducesKeyedRecords(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	container, err := redpanda.Run(ctx, "docker.redpanda.com/redpandadata/redpanda:v24.2.4",
		redpanda.WithAutoCreateTopics(),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	broker, err := container.KafkaSeedBroker(ctx)
	require.NoError(t, err)

	const topic = "domainnav.domain-events.test"
	sink, err := events.NewKafkaSink([]string{broker}, topic)
	require.NoError(t, err)
	defer sink.Close()
	require.NoError(t, sink.EnsureTopic(ctx))
	require.NoError(t, sink.EnsureTopic(ctx), "existing topic is not an error")

	event := events.Event{Type: events.TypeCreated, DomainID: id.NewDomainID(), DomainName: "Acme"}
	require.NoError(t, sink.Send(ctx, event))

	consumer, err := kgo.NewClient(
		kgo.SeedBrokers(broker),
		kgo.ConsumeTopics(topic),
		kgo.ConsumeResetOffset(kgo.NewOffset().AtStart()),
	)
	require.NoError(t, err)
	defer consumer.Close()

	var records []*kgo.Record
	for len(records) == 0 {
		fetches := consumer.PollFetches(ctx)
		require.NoError(t, ctx.Err())
		records = append(records, fetches.Records()...)
	}

	assert.Equal(t, event.DomainID.String(), string(records[0].Key))
	var got events.Event
	require.NoError(t, json.Unmarshal(records[0].Value, &got))
	assert.Equal(t, event.Type, got.Type)
	assert.Equal(t, event.DomainName, got.DomainName)
}

package events

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryBusDeliversToSubscribers(t *testing.T) {
	bus := NewMemoryBus()
	defer bus.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	messages, err := bus.Subscribe(ctx, TypeDocumentCreated)
	require.NoError(t, err)

	evt := BaseEvent{
		Type:       TypeDocumentCreated,
		Data:       map[string]interface{}{"id": 42},
		OccurredAt: time.Now(),
	}
	require.NoError(t, bus.Publish(ctx, evt))

	select {
	case msg := <-messages:
		var payload map[string]interface{}
		require.NoError(t, json.Unmarshal(msg.Payload, &payload))
		assert.Equal(t, float64(42), payload["id"])
		assert.Equal(t, TypeDocumentCreated, msg.Metadata.Get("event_type"))
		msg.Ack()
	case <-time.After(2 * time.Second):
		t.Fatal("event was not delivered")
	}
}

func TestSubject(t *testing.T) {
	assert.Equal(t, "events.batch.loaded", Subject(BaseEvent{Type: TypeBatchLoaded}))
}

func TestNopPublisher(t *testing.T) {
	var p Publisher = NopPublisher{}
	assert.NoError(t, p.Publish(context.Background(), BaseEvent{}))
	assert.NoError(t, p.Close())
}

func TestMemoryBusHandle(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	bus := NewMemoryBus()
	defer bus.Close()

	got := make(chan Event, 1)
	require.NoError(t, bus.Handle(ctx, TypeDocumentCreated, func(ctx context.Context, evt Event) error {
		got <- evt
		return nil
	}))

	occurred := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	require.NoError(t, bus.Publish(ctx, BaseEvent{
		Type:       TypeDocumentCreated,
		Data:       map[string]interface{}{"id": 9, "content_length": 3},
		OccurredAt: occurred,
	}))

	select {
	case evt := <-got:
		assert.Equal(t, TypeDocumentCreated, evt.EventType())
		assert.Equal(t, float64(9), evt.Payload()["id"])
		assert.True(t, occurred.Equal(evt.Timestamp()))
	case <-time.After(2 * time.Second):
		t.Fatal("handler was not called")
	}
}

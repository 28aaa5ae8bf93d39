package service

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"qwery-ai/internal/pkg/logger"
	"qwery-ai/pkg/events"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingPublisher struct{ calls int }

func (p *failingPublisher) Publish(context.Context, events.Event) error {
	p.calls++
	return errors.New("bus unavailable")
}

func (p *failingPublisher) Close() error { return nil }

func TestEventService_PublishesToBus(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	bus := events.NewMemoryBus()
	defer bus.Close()

	messages, err := bus.Subscribe(ctx, events.TypeBatchLoaded)
	require.NoError(t, err)

	NewEventService(bus, logger.NewNopLogger()).BatchLoaded(ctx, "run-1", 8, 2)

	select {
	case msg := <-messages:
		msg.Ack()
		var payload map[string]interface{}
		require.NoError(t, json.Unmarshal(msg.Payload, &payload))
		assert.Equal(t, "run-1", payload["run_id"])
		assert.Equal(t, float64(8), payload["loaded"])
		assert.Equal(t, float64(2), payload["failed"])
	case <-time.After(2 * time.Second):
		t.Fatal("event not delivered")
	}
}

func TestEventService_SwallowsPublishFailure(t *testing.T) {
	pub := &failingPublisher{}
	svc := NewEventService(pub, logger.NewNopLogger())

	assert.NotPanics(t, func() {
		svc.DocumentCreated(context.Background(), 1, 10)
	})
	assert.Equal(t, 1, pub.calls)
}

func TestEventService_NilPublisher(t *testing.T) {
	svc := NewEventService(nil, logger.NewNopLogger())
	assert.NotPanics(t, func() {
		svc.BatchLoaded(context.Background(), "r", 0, 0)
	})
}

func TestHealthService_Ready(t *testing.T) {
	ok := NewHealthService(PingerFunc(func(context.Context) error { return nil }))
	assert.NoError(t, ok.Ready(context.Background()))

	down := NewHealthService(PingerFunc(func(context.Context) error { return errors.New("connection refused") }))
	assert.EqualError(t, down.Ready(context.Background()), "connection refused")
}

type capturingLogger struct {
	mu      sync.Mutex
	entries []map[string]interface{}
}

func (l *capturingLogger) Debug(string, string, map[string]interface{}) {}
func (l *capturingLogger) Warn(string, string, map[string]interface{})  {}
func (l *capturingLogger) Error(string, string, map[string]interface{}) {}
func (l *capturingLogger) Sync() error                                  { return nil }

func (l *capturingLogger) Info(module, message string, details map[string]interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if module == "EVENTS" {
		l.entries = append(l.entries, details)
	}
}

func (l *capturingLogger) count() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

func TestEventLogConsumer(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	bus := events.NewMemoryBus()
	log := &capturingLogger{}
	consumer := NewEventLogConsumer(bus, log)
	defer consumer.Close()
	require.NoError(t, consumer.Consume(ctx))

	svc := NewEventService(bus, logger.NewNopLogger())
	svc.DocumentCreated(ctx, 4, 120)
	svc.BatchLoaded(ctx, "run-2", 3, 1)

	assert.Eventually(t, func() bool { return log.count() == 2 }, 2*time.Second, 10*time.Millisecond)

	log.mu.Lock()
	defer log.mu.Unlock()
	types := []interface{}{log.entries[0]["type"], log.entries[1]["type"]}
	assert.ElementsMatch(t, []interface{}{events.TypeDocumentCreated, events.TypeBatchLoaded}, types)
}

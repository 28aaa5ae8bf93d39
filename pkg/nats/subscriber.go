package nats

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"qwery-ai/pkg/events"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

// Subscriber consumes events from the JetStream stream with one durable
// consumer per event type, so restarts resume where they left off.
type Subscriber struct {
	nc      *nats.Conn
	js      jetstream.JetStream
	durable string

	mu       sync.Mutex
	consumes []jetstream.ConsumeContext
}

// NewSubscriber connects to url. durablePrefix names the durable consumers;
// processes sharing a prefix share the work.
func NewSubscriber(url, durablePrefix string) (*Subscriber, error) {
	nc, err := nats.Connect(url,
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(5),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	js, err := jetstream.New(nc)
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("failed to create JetStream context: %w", err)
	}

	return &Subscriber{nc: nc, js: js, durable: durablePrefix}, nil
}

// Handle registers handler for eventType. Messages whose payload is not a
// JSON object are terminated; handler errors are nacked for redelivery.
func (s *Subscriber) Handle(ctx context.Context, eventType string, handler events.Handler) error {
	durable := s.durable + "-" + strings.ToLower(eventType)

	consumer, err := s.js.CreateOrUpdateConsumer(ctx, streamName, jetstream.ConsumerConfig{
		Durable:       durable,
		FilterSubject: events.SubjectFor(eventType),
		AckPolicy:     jetstream.AckExplicitPolicy,
	})
	if err != nil {
		return fmt.Errorf("failed to create consumer %s: %w", durable, err)
	}

	cc, err := consumer.Consume(func(msg jetstream.Msg) {
		var payload map[string]interface{}
		if err := json.Unmarshal(msg.Data(), &payload); err != nil {
			_ = msg.Term()
			return
		}

		occurredAt := time.Now()
		if meta, err := msg.Metadata(); err == nil {
			occurredAt = meta.Timestamp
		}

		evt := events.BaseEvent{Type: eventType, Data: payload, OccurredAt: occurredAt}
		if err := handler(ctx, evt); err != nil {
			_ = msg.Nak()
			return
		}
		_ = msg.Ack()
	})
	if err != nil {
		return fmt.Errorf("failed to start consuming %s: %w", durable, err)
	}

	s.mu.Lock()
	s.consumes = append(s.consumes, cc)
	s.mu.Unlock()
	return nil
}

// Close stops every consumer and drains the connection.
func (s *Subscriber) Close() error {
	s.mu.Lock()
	for _, cc := range s.consumes {
		cc.Stop()
	}
	s.consumes = nil
	s.mu.Unlock()

	if s.nc == nil {
		return nil
	}
	return s.nc.Drain()
}

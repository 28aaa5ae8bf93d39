package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

const (
	metaEventType  = "event_type"
	metaOccurredAt = "occurred_at"
)

// MemoryBus is an in-process bus on a watermill go channel. Events only
// reach subscribers registered before they are published.
type MemoryBus struct {
	pubSub *gochannel.GoChannel
}

func NewMemoryBus() *MemoryBus {
	return &MemoryBus{
		pubSub: gochannel.NewGoChannel(
			gochannel.Config{OutputChannelBuffer: 64},
			watermill.NopLogger{},
		),
	}
}

func (b *MemoryBus) Publish(ctx context.Context, event Event) error {
	data, err := json.Marshal(event.Payload())
	if err != nil {
		return fmt.Errorf("failed to marshal event payload: %w", err)
	}

	msg := message.NewMessage(watermill.NewUUID(), data)
	msg.Metadata.Set(metaEventType, event.EventType())
	msg.Metadata.Set(metaOccurredAt, event.Timestamp().UTC().Format(time.RFC3339Nano))
	msg.SetContext(ctx)

	return b.pubSub.Publish(Subject(event), msg)
}

// Subscribe returns the raw message stream for one event type.
func (b *MemoryBus) Subscribe(ctx context.Context, eventType string) (<-chan *message.Message, error) {
	return b.pubSub.Subscribe(ctx, SubjectFor(eventType))
}

// Handle decodes each message of eventType and passes it to handler. A
// message that cannot be decoded is acked and dropped; a handler error nacks
// it for redelivery.
func (b *MemoryBus) Handle(ctx context.Context, eventType string, handler Handler) error {
	messages, err := b.Subscribe(ctx, eventType)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			var payload map[string]interface{}
			if err := json.Unmarshal(msg.Payload, &payload); err != nil {
				msg.Ack()
				continue
			}

			occurredAt, _ := time.Parse(time.RFC3339Nano, msg.Metadata.Get(metaOccurredAt))
			evt := BaseEvent{Type: eventType, Data: payload, OccurredAt: occurredAt}

			if err := handler(msg.Context(), evt); err != nil {
				msg.Nack()
				continue
			}
			msg.Ack()
		}
	}()
	return nil
}

func (b *MemoryBus) Close() error {
	return b.pubSub.Close()
}

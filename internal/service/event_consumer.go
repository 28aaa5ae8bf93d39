package service

import (
	"context"

	"qwery-ai/internal/pkg/logger"
	"qwery-ai/pkg/events"
)

// IEventConsumer drains the event bus so published events show up in the
// service log.
type IEventConsumer interface {
	Consume(ctx context.Context) error
	Close() error
}

type eventLogConsumer struct {
	source events.Subscriber
	logger logger.ILogger
}

func NewEventLogConsumer(source events.Subscriber, logger logger.ILogger) IEventConsumer {
	return &eventLogConsumer{source: source, logger: logger}
}

func (c *eventLogConsumer) Consume(ctx context.Context) error {
	for _, eventType := range []string{events.TypeDocumentCreated, events.TypeBatchLoaded} {
		if err := c.source.Handle(ctx, eventType, c.handle); err != nil {
			return err
		}
	}
	return nil
}

func (c *eventLogConsumer) handle(ctx context.Context, evt events.Event) error {
	details := make(map[string]interface{}, len(evt.Payload())+2)
	for k, v := range evt.Payload() {
		details[k] = v
	}
	details["type"] = evt.EventType()
	details["occurred_at"] = evt.Timestamp()

	c.logger.Info("EVENTS", "Event received", details)
	return nil
}

func (c *eventLogConsumer) Close() error {
	return c.source.Close()
}

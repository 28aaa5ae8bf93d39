package events

import (
	"context"
	"strings"
	"time"
)

const (
	TypeDocumentCreated = "DOCUMENT_CREATED"
	TypeBatchLoaded     = "BATCH_LOADED"
)

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "DOCUMENT_CREATED").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

// Publisher delivers events to a bus.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

// Handler processes one delivered event.
type Handler func(ctx context.Context, event Event) error

// Subscriber delivers events of one type to a handler until ctx ends or the
// subscriber is closed.
type Subscriber interface {
	Handle(ctx context.Context, eventType string, handler Handler) error
	Close() error
}

// NopPublisher drops every event. It is used when no bus is configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }
func (NopPublisher) Close() error                         { return nil }

// Subject is the bus subject/topic an event is published on, e.g.
// "events.document.created".
func Subject(event Event) string {
	return SubjectFor(event.EventType())
}

func SubjectFor(eventType string) string {
	return "events." + strings.ToLower(strings.ReplaceAll(eventType, "_", "."))
}

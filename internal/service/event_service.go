package service

import (
	"context"
	"time"

	"qwery-ai/internal/pkg/logger"
	"qwery-ai/pkg/events"
)

// IEventService emits domain events. Publishing is fire and forget: a bus
// failure is logged and never fails the caller.
type IEventService interface {
	DocumentCreated(ctx context.Context, id int64, contentLength int)
	BatchLoaded(ctx context.Context, runId string, loaded, failed int)
}

type eventService struct {
	publisher events.Publisher
	logger    logger.ILogger
}

func NewEventService(publisher events.Publisher, logger logger.ILogger) IEventService {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &eventService{publisher: publisher, logger: logger}
}

func (s *eventService) DocumentCreated(ctx context.Context, id int64, contentLength int) {
	s.publish(ctx, events.BaseEvent{
		Type: events.TypeDocumentCreated,
		Data: map[string]interface{}{
			"id":             id,
			"content_length": contentLength,
		},
		OccurredAt: time.Now(),
	})
}

func (s *eventService) BatchLoaded(ctx context.Context, runId string, loaded, failed int) {
	s.publish(ctx, events.BaseEvent{
		Type: events.TypeBatchLoaded,
		Data: map[string]interface{}{
			"run_id": runId,
			"loaded": loaded,
			"failed": failed,
		},
		OccurredAt: time.Now(),
	})
}

func (s *eventService) publish(ctx context.Context, evt events.BaseEvent) {
	if err := s.publisher.Publish(ctx, evt); err != nil {
		s.logger.Error("EVENTS", "Failed to publish "+evt.Type+" event", map[string]interface{}{"error": err.Error()})
	}
}

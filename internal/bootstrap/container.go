package bootstrap

import (
	"context"
	"fmt"

	"qwery-ai/internal/config"
	"qwery-ai/internal/controller"
	"qwery-ai/internal/pkg/logger"
	"qwery-ai/internal/repository/unitofwork"
	"qwery-ai/internal/service"
	"qwery-ai/pkg/database"
	"qwery-ai/pkg/embedding/factory"
	"qwery-ai/pkg/events"
	pktNats "qwery-ai/pkg/nats"

	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	DocumentController controller.IDocumentController
	HealthController   controller.IHealthController

	// Background consumer, nil when no bus is configured.
	EventConsumer service.IEventConsumer

	Publisher events.Publisher
}

func NewContainer(ctx context.Context, db *gorm.DB, cfg *config.Config, log logger.ILogger) (*Container, error) {
	// 1. Core facades
	uowFactory := unitofwork.NewRepositoryFactory(db)

	embeddingProvider, err := factory.NewEmbeddingProvider(factory.Options{
		Provider:     cfg.Embedding.Provider,
		BaseURL:      cfg.Embedding.BaseURL,
		Model:        cfg.Embedding.Model,
		GeminiApiKey: cfg.Keys.Gemini,
		JinaApiKey:   cfg.Keys.Jina,
	})
	if err != nil {
		return nil, err
	}
	log.Info("SERVER", "Using embedding provider", map[string]interface{}{
		"provider": cfg.Embedding.Provider,
		"model":    cfg.Embedding.Model,
	})

	// 2. Event bus
	publisher, consumer, err := NewPublisher(ctx, cfg.Events, log)
	if err != nil {
		return nil, err
	}

	// 3. Services
	eventService := service.NewEventService(publisher, log)
	documentService := service.NewDocumentService(uowFactory, embeddingProvider, eventService, log)
	healthService := service.NewHealthService(service.PingerFunc(func(ctx context.Context) error {
		return database.Ping(ctx, db)
	}))

	// 4. Controllers
	return &Container{
		DocumentController: controller.NewDocumentController(documentService),
		HealthController:   controller.NewHealthController(healthService, log),
		EventConsumer:      consumer,
		Publisher:          publisher,
	}, nil
}

const natsDurablePrefix = "qwery-ai-event-log"

// NewPublisher selects the event bus named by EVENT_BUS and returns a
// consumer that logs what the bus carries. A NATS connection failure
// degrades to the no-op publisher.
func NewPublisher(ctx context.Context, cfg config.EventsConfig, log logger.ILogger) (events.Publisher, service.IEventConsumer, error) {
	switch cfg.Bus {
	case "":
		return events.NopPublisher{}, nil, nil
	case "memory":
		bus := events.NewMemoryBus()
		return bus, service.NewEventLogConsumer(bus, log), nil
	case "nats":
		pub, err := pktNats.NewPublisher(ctx, cfg.NatsURL)
		if err != nil {
			log.Warn("EVENTS", "Failed to connect to NATS publisher, events disabled", map[string]interface{}{"error": err.Error()})
			return events.NopPublisher{}, nil, nil
		}
		sub, err := pktNats.NewSubscriber(cfg.NatsURL, natsDurablePrefix)
		if err != nil {
			log.Warn("EVENTS", "Failed to connect to NATS subscriber", map[string]interface{}{"error": err.Error()})
			return pub, nil, nil
		}
		return pub, service.NewEventLogConsumer(sub, log), nil
	default:
		return nil, nil, fmt.Errorf("unknown event bus %q", cfg.Bus)
	}
}

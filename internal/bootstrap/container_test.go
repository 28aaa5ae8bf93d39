package bootstrap

import (
	"context"
	"testing"

	"qwery-ai/internal/config"
	"qwery-ai/internal/pkg/logger"
	"qwery-ai/pkg/events"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPublisher(t *testing.T) {
	ctx := context.Background()
	log := logger.NewNopLogger()

	t.Run("unset bus is a no-op", func(t *testing.T) {
		pub, consumer, err := NewPublisher(ctx, config.EventsConfig{}, log)
		require.NoError(t, err)
		assert.IsType(t, events.NopPublisher{}, pub)
		assert.Nil(t, consumer)
	})

	t.Run("memory bus comes with a consumer", func(t *testing.T) {
		pub, consumer, err := NewPublisher(ctx, config.EventsConfig{Bus: "memory"}, log)
		require.NoError(t, err)
		defer pub.Close()
		assert.IsType(t, &events.MemoryBus{}, pub)
		require.NotNil(t, consumer)
		assert.NoError(t, consumer.Consume(ctx))
	})

	t.Run("unknown bus", func(t *testing.T) {
		_, _, err := NewPublisher(ctx, config.EventsConfig{Bus: "kafka"}, log)
		assert.EqualError(t, err, `unknown event bus "kafka"`)
	})
}

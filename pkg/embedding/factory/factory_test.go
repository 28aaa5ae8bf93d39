package factory

import (
	"testing"

	"qwery-ai/pkg/embedding"
	"qwery-ai/pkg/embedding/jina"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEmbeddingProvider(t *testing.T) {
	p, err := NewEmbeddingProvider(Options{BaseURL: "http://ollama:11434", Model: "llama2"})
	require.NoError(t, err)
	assert.IsType(t, &embedding.OllamaProvider{}, p)

	p, err = NewEmbeddingProvider(Options{Provider: "jina", JinaApiKey: "k"})
	require.NoError(t, err)
	assert.IsType(t, &jina.Provider{}, p)

	_, err = NewEmbeddingProvider(Options{Provider: "gemini"})
	assert.Error(t, err)

	_, err = NewEmbeddingProvider(Options{Provider: "openai"})
	assert.Error(t, err)
}

package factory

import (
	"fmt"

	"qwery-ai/pkg/embedding"
	"qwery-ai/pkg/embedding/jina"
)

type Options struct {
	Provider     string
	BaseURL      string
	Model        string
	GeminiApiKey string
	JinaApiKey   string
}

// NewEmbeddingProvider builds the query-path provider named by
// EMBEDDING_PROVIDER. An empty name selects Ollama.
func NewEmbeddingProvider(opts Options) (embedding.EmbeddingProvider, error) {
	switch opts.Provider {
	case "", "ollama":
		return embedding.NewOllamaProvider(opts.BaseURL, opts.Model), nil
	case "gemini":
		if opts.GeminiApiKey == "" {
			return nil, fmt.Errorf("gemini embedding provider requires GEMINI_API_KEY")
		}
		return embedding.NewGeminiProvider(opts.GeminiApiKey), nil
	case "jina":
		if opts.JinaApiKey == "" {
			return nil, fmt.Errorf("jina embedding provider requires JINA_API_KEY")
		}
		return jina.NewProvider(opts.JinaApiKey), nil
	default:
		return nil, fmt.Errorf("unknown embedding provider %q", opts.Provider)
	}
}

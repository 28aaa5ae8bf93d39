package embedding

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newOllamaServer(t *testing.T, knownModel string, vector []float64) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/show":
			var req showRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			if req.Name != knownModel {
				http.Error(w, `{"error":"model not found"}`, http.StatusNotFound)
				return
			}
			w.Write([]byte(`{"details":{}}`))
		case "/api/embeddings":
			var req ollamaEmbeddingRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			if req.Model != knownModel {
				http.Error(w, "model not found", http.StatusNotFound)
				return
			}
			json.NewEncoder(w).Encode(ollamaEmbeddingResponse{Embedding: vector})
		default:
			http.NotFound(w, r)
		}
	}))
}

func TestOllamaProviderGenerate(t *testing.T) {
	srv := newOllamaServer(t, "llama2", []float64{3, 4})
	defer srv.Close()

	p := NewOllamaProvider(srv.URL+"/", "llama2")
	values, err := p.Generate(context.Background(), "hello world")

	require.NoError(t, err)
	require.Len(t, values, 2)
	assert.InDelta(t, 0.6, values[0], 1e-6)
	assert.InDelta(t, 0.8, values[1], 1e-6)
}

func TestOllamaProviderErrors(t *testing.T) {
	srv := newOllamaServer(t, "llama2", []float64{})
	defer srv.Close()

	t.Run("empty input", func(t *testing.T) {
		_, err := NewOllamaProvider(srv.URL, "llama2").Generate(context.Background(), "   ")
		assert.ErrorIs(t, err, ErrEmptyInput)
	})

	t.Run("non success status", func(t *testing.T) {
		_, err := NewOllamaProvider(srv.URL, "missing").Generate(context.Background(), "text")

		var embErr *EmbeddingError
		require.True(t, errors.As(err, &embErr))
		assert.Equal(t, "ollama", embErr.Provider)
		assert.Contains(t, err.Error(), "code 404")
	})

	t.Run("empty embedding", func(t *testing.T) {
		_, err := NewOllamaProvider(srv.URL, "llama2").Generate(context.Background(), "text")
		assert.ErrorIs(t, err, ErrEmptyEmbedding)
	})

	t.Run("unreachable server", func(t *testing.T) {
		_, err := NewOllamaProvider("http://127.0.0.1:1", "llama2").Generate(context.Background(), "text")
		var embErr *EmbeddingError
		assert.True(t, errors.As(err, &embErr))
	})
}

func TestOllamaProviderUsesFixedTimeout(t *testing.T) {
	p := NewOllamaProvider("", "")
	assert.Equal(t, RequestTimeout, p.client.Timeout)
	assert.Equal(t, "http://localhost:11434", p.BaseURL)
}

func TestLocalModelLoad(t *testing.T) {
	srv := newOllamaServer(t, "all-minilm", []float64{1, 2, 2})
	defer srv.Close()

	t.Run("records dimension", func(t *testing.T) {
		m := NewLocalModel(srv.URL, "all-minilm")
		require.NoError(t, m.Load(context.Background()))
		assert.Equal(t, 3, m.Dimension())

		values, err := m.Generate(context.Background(), "document body")
		require.NoError(t, err)
		assert.Len(t, values, 3)
		assert.Zero(t, m.client.Timeout, "local model path has no timeout")
	})

	t.Run("unknown model fails fast", func(t *testing.T) {
		m := NewLocalModel(srv.URL, "no-such-model")
		err := m.Load(context.Background())
		assert.ErrorIs(t, err, ErrModelNotFound)
		assert.Zero(t, m.Dimension())
	})

	t.Run("generate before load", func(t *testing.T) {
		_, err := NewLocalModel(srv.URL, "all-minilm").Generate(context.Background(), "x")
		assert.ErrorIs(t, err, ErrModelNotLoaded)
	})
}

func TestGeminiProviderGenerate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "key-123", r.Header.Get("x-goog-api-key"))
		assert.Equal(t, "/models/text-embedding-004:embedContent", r.URL.Path)
		w.Write([]byte(`{"embedding":{"values":[0,5]}}`))
	}))
	defer srv.Close()

	p := NewGeminiProvider("key-123")
	p.BaseURL = srv.URL

	values, err := p.Generate(context.Background(), "text")
	require.NoError(t, err)
	assert.Equal(t, []float32{0, 1}, values)
}

func TestNormalizeVector(t *testing.T) {
	assert.Equal(t, []float32{0, 0}, normalizeVector([]float32{0, 0}))

	v := normalizeVector([]float32{1, 1, 1, 1})
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	assert.InDelta(t, 1.0, math.Sqrt(sum), 1e-6)
}

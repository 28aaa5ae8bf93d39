package embedding

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"time"
)

// RequestTimeout bounds every call to a remote embedding provider. There is
// no retry: the first failure is final for that request.
const RequestTimeout = 30 * time.Second

var (
	ErrEmptyInput     = errors.New("embedding input is empty")
	ErrEmptyEmbedding = errors.New("provider returned an empty embedding")
	ErrModelNotFound  = errors.New("embedding model not found")
	ErrModelNotLoaded = errors.New("embedding model not loaded")
)

// EmbeddingProvider turns text into a fixed-length vector.
type EmbeddingProvider interface {
	Generate(ctx context.Context, text string) ([]float32, error)
}

// EmbeddingError marks a failure as coming from the embedding provider so
// callers can tell it apart from storage failures.
type EmbeddingError struct {
	Provider string
	Err      error
}

func (e *EmbeddingError) Error() string {
	return fmt.Sprintf("Embedding generation failed (%s): %v", e.Provider, e.Err)
}

func (e *EmbeddingError) Unwrap() error {
	return e.Err
}

func wrapError(provider string, err error) error {
	if err == nil {
		return nil
	}
	return &EmbeddingError{Provider: provider, Err: err}
}

func newHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{Timeout: timeout}
}

// normalizeVector scales vec to unit length. pgvector's cosine operator does
// not need it, but unit vectors keep scores comparable across providers.
func normalizeVector(vec []float32) []float32 {
	var magnitude float64
	for _, v := range vec {
		magnitude += float64(v) * float64(v)
	}
	magnitude = math.Sqrt(magnitude)

	if magnitude == 0 {
		return vec
	}

	normalized := make([]float32, len(vec))
	for i, v := range vec {
		normalized[i] = float32(float64(v) / magnitude)
	}
	return normalized
}

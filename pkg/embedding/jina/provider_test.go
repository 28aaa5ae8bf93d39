package jina

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"qwery-ai/pkg/embedding"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProviderGenerate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer token", r.Header.Get("Authorization"))
		w.Write([]byte(`{"data":[{"index":0,"embedding":[0.1,0.2,0.3]}]}`))
	}))
	defer srv.Close()

	values, err := NewProvider("token").WithEndpoint(srv.URL, "").Generate(context.Background(), "text")
	require.NoError(t, err)
	assert.Equal(t, []float32{0.1, 0.2, 0.3}, values)
}

func TestProviderErrorBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":[],"error":{"message":"quota exceeded"}}`))
	}))
	defer srv.Close()

	_, err := NewProvider("token").WithEndpoint(srv.URL, "").Generate(context.Background(), "text")

	var embErr *embedding.EmbeddingError
	require.ErrorAs(t, err, &embErr)
	assert.Contains(t, err.Error(), "quota exceeded")
}

package embedding

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

const providerLocal = "local"

const dimensionProbe = "dimension probe"

// LocalModel is an embedding model resolved once against the local model
// runtime. Load must succeed before Generate is used. Calls carry no timeout;
// they are bounded only by inference latency.
type LocalModel struct {
	BaseURL   string
	Name      string
	client    *http.Client
	loaded    bool
	dimension int
}

func NewLocalModel(baseURL, name string) *LocalModel {
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}
	return &LocalModel{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Name:    name,
		client:  newHTTPClient(0),
	}
}

type showRequest struct {
	Name string `json:"name"`
}

// Load resolves the named model and records its output dimensionality by
// embedding a probe string. It fails fast with ErrModelNotFound when the
// runtime does not know the model.
func (m *LocalModel) Load(ctx context.Context) error {
	if strings.TrimSpace(m.Name) == "" {
		return wrapError(providerLocal, fmt.Errorf("%w: no model name configured", ErrModelNotFound))
	}

	if err := m.resolve(ctx); err != nil {
		return wrapError(providerLocal, err)
	}

	probe, err := ollamaEmbed(ctx, m.client, m.BaseURL, m.Name, dimensionProbe)
	if err != nil {
		return wrapError(providerLocal, fmt.Errorf("probe embedding for %s: %w", m.Name, err))
	}

	m.dimension = len(probe)
	m.loaded = true
	return nil
}

func (m *LocalModel) resolve(ctx context.Context) error {
	body, err := json.Marshal(showRequest{Name: m.Name})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.BaseURL+"/api/show", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%w: %s", ErrModelNotFound, m.Name)
	case resp.StatusCode != http.StatusOK:
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("model runtime error, code %d, body %s", resp.StatusCode, string(respBody))
	}
	return nil
}

func (m *LocalModel) Generate(ctx context.Context, text string) ([]float32, error) {
	if !m.loaded {
		return nil, wrapError(providerLocal, ErrModelNotLoaded)
	}
	values, err := ollamaEmbed(ctx, m.client, m.BaseURL, m.Name, text)
	if err != nil {
		return nil, wrapError(providerLocal, err)
	}
	if len(values) != m.dimension {
		return nil, wrapError(providerLocal, fmt.Errorf("model returned %d dimensions, expected %d", len(values), m.dimension))
	}
	return values, nil
}

// Dimension is zero until Load succeeds.
func (m *LocalModel) Dimension() int {
	return m.dimension
}

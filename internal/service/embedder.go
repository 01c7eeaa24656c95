package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

const (
	defaultEmbeddingBaseURL = "https://api.openai.com/v1"
	defaultEmbeddingModel   = "text-embedding-3-small"

	// EmbeddingDims is the output dimension of text-embedding-3-small.
	EmbeddingDims = 1536
)

// Embedder turns text into a fixed-length vector via the OpenAI embeddings
// API. Safe for concurrent use.
type Embedder struct {
	apiKey  string
	baseURL string
	model   string
	client  *http.Client
}

// NewEmbedder returns an embedder using the given API key.
func NewEmbedder(apiKey string) *Embedder {
	return &Embedder{
		apiKey:  apiKey,
		baseURL: defaultEmbeddingBaseURL,
		model:   defaultEmbeddingModel,
		client:  http.DefaultClient,
	}
}

// WithBaseURL overrides the API endpoint, used in tests.
func (e *Embedder) WithBaseURL(baseURL string) *Embedder {
	e.baseURL = baseURL
	return e
}

// WithHTTPClient overrides the HTTP client.
func (e *Embedder) WithHTTPClient(client *http.Client) *Embedder {
	e.client = client
	return e
}

type embeddingPayload struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

type embeddingResponsePayload struct {
	Data []struct {
		Embedding []float32 `json:"embedding"`
		Index     int       `json:"index"`
	} `json:"data"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// Embed returns the embedding vector for the given text.
func (e *Embedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if text == "" {
		return nil, fmt.Errorf("text must not be empty")
	}

	raw, err := json.Marshal(embeddingPayload{Model: e.model, Input: []string{text}})
	if err != nil {
		return nil, fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.baseURL+"/embeddings", bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+e.apiKey)

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	var payload embeddingResponsePayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		msg := fmt.Sprintf("embeddings API returned status %d", resp.StatusCode)
		if payload.Error != nil {
			msg = fmt.Sprintf("%s: %s", msg, payload.Error.Message)
		}
		return nil, fmt.Errorf("%s", msg)
	}
	if len(payload.Data) == 0 || len(payload.Data[0].Embedding) == 0 {
		return nil, fmt.Errorf("embeddings API returned no embedding")
	}
	return payload.Data[0].Embedding, nil
}

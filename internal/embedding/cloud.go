package embedding

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"oppla/internal/logging"
)

// TokenSource provides the bearer token attached to embedding requests.
type TokenSource interface {
	AcquireLlmToken(ctx context.Context) (string, error)
}

// CloudEngine generates embeddings through the Oppla cloud endpoint.
type CloudEngine struct {
	baseURL string
	model   string
	tokens  TokenSource
	client  *http.Client
}

// NewCloudEngine creates a cloud embedding engine.
func NewCloudEngine(baseURL, model string, tokens TokenSource) *CloudEngine {
	if model == "" {
		model = "together-ai-embedding-up-to-150m"
	}
	return &CloudEngine{
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   model,
		tokens:  tokens,
		client: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

type cloudEmbedRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

type cloudEmbedResponse struct {
	Data []struct {
		Embedding []float32 `json:"embedding"`
	} `json:"data"`
}

// Embed generates an embedding for a single text.
func (e *CloudEngine) Embed(ctx context.Context, text string) ([]float32, error) {
	embeddings, err := e.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return embeddings[0], nil
}

// EmbedBatch generates embeddings for multiple texts in one request.
func (e *CloudEngine) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	if len(texts) > e.BatchSize() {
		return nil, fmt.Errorf("batch of %d texts exceeds limit of %d", len(texts), e.BatchSize())
	}

	timer := logging.StartTimer(logging.CategoryEmbedding, "EmbedBatch")
	defer timer.Stop()

	token, err := e.tokens.AcquireLlmToken(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire LLM API token: %w", err)
	}

	body, err := json.Marshal(cloudEmbedRequest{Model: e.model, Input: texts})
	if err != nil {
		return nil, fmt.Errorf("failed to serialize embedding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", e.baseURL+"/embeddings", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build embedding request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("embedding request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("embedding request failed with status %d: %s", resp.StatusCode, string(respBody))
	}

	var result cloudEmbedResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to parse embedding response: %w", err)
	}
	if len(result.Data) != len(texts) {
		return nil, fmt.Errorf("embedding response has %d vectors for %d inputs", len(result.Data), len(texts))
	}

	embeddings := make([][]float32, len(result.Data))
	for i, d := range result.Data {
		embeddings[i] = d.Embedding
	}

	logging.EmbeddingDebug("embedded %d texts with model %s", len(texts), e.model)
	return embeddings, nil
}

// BatchSize returns the conservative batch limit for the cloud API.
func (e *CloudEngine) BatchSize() int {
	return 100
}

// Name returns the engine name.
func (e *CloudEngine) Name() string {
	return fmt.Sprintf("cloud:%s", e.model)
}

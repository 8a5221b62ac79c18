// Package embedding calls the external text embedding service.
package embedding

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"reso/internal/models"
	"reso/internal/observability"

	"go.opentelemetry.io/otel/attribute"
)

// ErrUnavailable marks every soft failure of the embedding service. Callers
// are expected to degrade instead of failing the request.
var ErrUnavailable = errors.New("embedding service unavailable")

// DefaultTimeout bounds one call when no timeout is configured.
const DefaultTimeout = 8 * time.Second

const maxResponseBytes = 4 << 20

// Embedder turns texts into vectors.
type Embedder interface {
	EmbedOne(ctx context.Context, text string) ([]float32, error)
}

// Client is the HTTP client for POST {baseURL}/embed.
type Client struct {
	baseURL    string
	timeout    time.Duration
	dimensions int
	httpClient *http.Client
}

// NewClient creates a client for baseURL. An empty baseURL yields a client
// whose every call fails with ErrUnavailable.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL:    strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		timeout:    timeout,
		dimensions: models.EmbeddingDimensions,
		httpClient: &http.Client{},
	}
}

type embedRequest struct {
	Texts []string `json:"texts"`
}

type embedResponse struct {
	Embeddings [][]float32 `json:"embeddings"`
}

// Embed returns one vector per text, in order.
//
// The call runs under its own timeout derived from a context detached from
// ctx's cancellation, so a short client deadline does not cut it off.
func (c *Client) Embed(ctx context.Context, texts []string) (vectors [][]float32, err error) {
	start := time.Now()
	outcome := "ok"
	defer func() { observability.ObserveEmbedding(outcome, start) }()

	if c.baseURL == "" {
		outcome = "unconfigured"
		return nil, fmt.Errorf("%w: EMBEDDING_SERVICE_URL is not set", ErrUnavailable)
	}
	if len(texts) == 0 {
		return nil, nil
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.timeout)
	defer cancel()

	ctx, span := observability.StartClientSpan(ctx, "embedding.embed",
		attribute.Int("embedding.texts", len(texts)),
	)
	defer func() { observability.EndSpan(span, err) }()

	body, err := json.Marshal(embedRequest{Texts: texts})
	if err != nil {
		outcome = "error"
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/embed", bytes.NewReader(body))
	if err != nil {
		outcome = "error"
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		outcome = "transport"
		if errors.Is(err, context.DeadlineExceeded) {
			outcome = "timeout"
		}
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		outcome = "bad_status"
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBytes))
		return nil, fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}

	var decoded embedResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&decoded); err != nil {
		outcome = "bad_response"
		if errors.Is(err, context.DeadlineExceeded) {
			outcome = "timeout"
		}
		return nil, fmt.Errorf("%w: decode response: %v", ErrUnavailable, err)
	}

	if len(decoded.Embeddings) != len(texts) {
		outcome = "bad_response"
		return nil, fmt.Errorf("%w: got %d embeddings for %d texts", ErrUnavailable, len(decoded.Embeddings), len(texts))
	}
	for i, v := range decoded.Embeddings {
		if len(v) != c.dimensions {
			outcome = "bad_response"
			return nil, fmt.Errorf("%w: embedding %d has %d dimensions, want %d", ErrUnavailable, i, len(v), c.dimensions)
		}
	}

	return decoded.Embeddings, nil
}

// EmbedOne embeds a single text.
func (c *Client) EmbedOne(ctx context.Context, text string) ([]float32, error) {
	vectors, err := c.Embed(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

package recognition

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	apperrors "github.com/nutrilog/server/internal/shared/errors"
)

// FallbackProvider talks to the secondary proxy endpoint. Every request
// carries a correlation token the proxy must echo back; a mismatch is
// treated as corruption and the response is discarded without retry.
type FallbackProvider struct {
	baseURL string
	apiKey  string
	model   string
	client  *http.Client
}

// NewFallbackProvider creates the fallback recognition provider.
func NewFallbackProvider(baseURL, apiKey, model string) *FallbackProvider {
	return &FallbackProvider{
		baseURL: baseURL,
		apiKey:  apiKey,
		model:   model,
		client: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// Name identifies the provider in logs and metrics.
func (p *FallbackProvider) Name() string {
	return "fallback"
}

// AnalyzeImage submits the image through the proxy.
func (p *FallbackProvider) AnalyzeImage(ctx context.Context, image []byte, mealTypeHint string) (map[string]any, error) {
	return p.proxy(ctx, map[string]any{
		"kind":         "image",
		"image_base64": base64.StdEncoding.EncodeToString(image),
		"meal_type":    mealTypeHint,
	})
}

// LookupFood looks up a named food through the proxy.
func (p *FallbackProvider) LookupFood(ctx context.Context, name string) (map[string]any, error) {
	return p.proxy(ctx, map[string]any{
		"kind":  "lookup",
		"query": name,
	})
}

// SearchFoods searches foods through the proxy.
func (p *FallbackProvider) SearchFoods(ctx context.Context, query string) (map[string]any, error) {
	return p.proxy(ctx, map[string]any{
		"kind":  "search",
		"query": query,
	})
}

// proxy posts the request envelope and verifies the echoed request id.
func (p *FallbackProvider) proxy(ctx context.Context, payload map[string]any) (map[string]any, error) {
	requestID := uuid.New().String()
	payload["model"] = p.model
	payload["request_id"] = requestID

	jsonBody, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", p.baseURL+"/v1/analyze", bytes.NewReader(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.apiKey)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("proxy error (status %d): %s", resp.StatusCode, string(respBody))
	}

	var raw map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	echoed, _ := raw["request_id"].(string)
	if echoed != requestID {
		return nil, apperrors.CorrelationMismatch(
			fmt.Sprintf("sent %s, received %q", requestID, echoed))
	}

	return raw, nil
}

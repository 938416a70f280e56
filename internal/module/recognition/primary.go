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
)

// PrimaryProvider talks to a chat-completions style API. The assistant's
// text reply is returned as a content payload for the normalizer's field
// capture.
type PrimaryProvider struct {
	baseURL string
	apiKey  string
	model   string
	client  *http.Client
}

// NewPrimaryProvider creates the primary recognition provider.
func NewPrimaryProvider(baseURL, apiKey, model string) *PrimaryProvider {
	return &PrimaryProvider{
		baseURL: baseURL,
		apiKey:  apiKey,
		model:   model,
		client: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// Name identifies the provider in logs and metrics.
func (p *PrimaryProvider) Name() string {
	return "primary"
}

// AnalyzeImage sends the image as a base64 data URI in a mixed
// text+image user message.
func (p *PrimaryProvider) AnalyzeImage(ctx context.Context, image []byte, mealTypeHint string) (map[string]any, error) {
	prompt := "Identify the food in this image."
	if mealTypeHint != "" {
		prompt = fmt.Sprintf("Identify the food in this %s image.", mealTypeHint)
	}

	dataURI := "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(image)
	userContent := []map[string]any{
		{"type": "text", "text": prompt},
		{"type": "image_url", "image_url": map[string]any{"url": dataURI}},
	}

	return p.chat(ctx, analyzeImageInstruction, userContent)
}

// LookupFood asks for nutrition facts for a named food.
func (p *PrimaryProvider) LookupFood(ctx context.Context, name string) (map[string]any, error) {
	return p.chat(ctx, lookupInstruction, name)
}

// SearchFoods asks for candidate foods matching a query.
func (p *PrimaryProvider) SearchFoods(ctx context.Context, query string) (map[string]any, error) {
	return p.chat(ctx, searchInstruction, query)
}

// chat performs a chat completion and extracts the assistant's text.
func (p *PrimaryProvider) chat(ctx context.Context, instruction string, userContent any) (map[string]any, error) {
	body := map[string]any{
		"model": p.model,
		"messages": []map[string]any{
			{"role": "system", "content": instruction},
			{"role": "user", "content": userContent},
		},
	}

	respBody, err := p.doRequest(ctx, "/chat/completions", body)
	if err != nil {
		return nil, err
	}
	defer respBody.Close()

	var chatResp struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}

	if err := json.NewDecoder(respBody).Decode(&chatResp); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	if len(chatResp.Choices) == 0 || chatResp.Choices[0].Message.Content == "" {
		return nil, fmt.Errorf("no content in response")
	}

	return map[string]any{"content": chatResp.Choices[0].Message.Content}, nil
}

// doRequest performs an HTTP request to the provider API.
func (p *PrimaryProvider) doRequest(ctx context.Context, path string, body map[string]any) (io.ReadCloser, error) {
	jsonBody, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", p.baseURL+path, bytes.NewReader(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.apiKey)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}

	if resp.StatusCode >= 400 {
		defer resp.Body.Close()
		respBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("API error (status %d): %s", resp.StatusCode, string(respBody))
	}

	return resp.Body, nil
}

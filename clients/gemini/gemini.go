// Package gemini provides a minimal REST client for the Gemini
// generateContent API. Request payloads are assembled with sjson and
// responses are picked apart with gjson rather than maintaining the full
// (and frequently shifting) API schema as Go structs.
package gemini

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

const defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta/models"

// GenerationConfig holds the sampling knobs forwarded to the API.
type GenerationConfig struct {
	Temperature     float64
	TopP            float64
	TopK            int
	MaxOutputTokens int
}

// GeminiClientInterface is the capability the orchestrator depends on.
type GeminiClientInterface interface {
	GenerateContent(ctx context.Context, model string, prompt string, config GenerationConfig) (string, error)
}

// GeminiClient talks to the Gemini REST API.
type GeminiClient struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

var _ GeminiClientInterface = (*GeminiClient)(nil)

// NewGeminiClient creates a client authenticated with the given API key.
func NewGeminiClient(apiKey string) *GeminiClient {
	return &GeminiClient{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		httpClient: &http.Client{
			Timeout: 120 * time.Second,
		},
	}
}

// SetBaseURL overrides the API endpoint (used for testing against a local server).
func (c *GeminiClient) SetBaseURL(baseURL string) {
	c.baseURL = baseURL
}

// GenerateContent sends the prompt to the given model and returns the text of
// the first candidate.
func (c *GeminiClient) GenerateContent(ctx context.Context, model string, prompt string, config GenerationConfig) (string, error) {
	payload, err := buildPayload(prompt, config)
	if err != nil {
		return "", fmt.Errorf("failed to build gemini payload: %w", err)
	}

	url := fmt.Sprintf("%s/%s:generateContent?key=%s", c.baseURL, model, c.apiKey)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("gemini request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read gemini response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("gemini API error %d: %s", resp.StatusCode, string(respBody))
	}

	text := gjson.GetBytes(respBody, "candidates.0.content.parts.0.text")
	if !text.Exists() {
		return "", fmt.Errorf("gemini response has no candidate text")
	}

	return text.String(), nil
}

// buildPayload assembles the generateContent request body.
func buildPayload(prompt string, config GenerationConfig) ([]byte, error) {
	body := "{}"

	var err error
	if body, err = sjson.Set(body, "contents.0.parts.0.text", prompt); err != nil {
		return nil, err
	}
	if body, err = sjson.Set(body, "generationConfig.temperature", config.Temperature); err != nil {
		return nil, err
	}
	if body, err = sjson.Set(body, "generationConfig.topP", config.TopP); err != nil {
		return nil, err
	}
	if body, err = sjson.Set(body, "generationConfig.topK", config.TopK); err != nil {
		return nil, err
	}
	if body, err = sjson.Set(body, "generationConfig.maxOutputTokens", config.MaxOutputTokens); err != nil {
		return nil, err
	}

	return []byte(body), nil
}

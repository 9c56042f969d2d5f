// Package huggingface provides a minimal client for the HuggingFace inference
// API. Like the gemini client it uses sjson/gjson instead of a full schema.
package huggingface

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

const defaultBaseURL = "https://api-inference.huggingface.co/models"

// HFClientInterface is the capability the orchestrator depends on.
type HFClientInterface interface {
	Generate(ctx context.Context, model string, prompt string, maxNewTokens int) (string, error)
}

// HFClient talks to the HuggingFace inference API.
type HFClient struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

var _ HFClientInterface = (*HFClient)(nil)

// NewHFClient creates a client authenticated with the given API key.
func NewHFClient(apiKey string) *HFClient {
	return &HFClient{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// SetBaseURL overrides the API endpoint (used for testing against a local server).
func (c *HFClient) SetBaseURL(baseURL string) {
	c.baseURL = baseURL
}

// Generate runs text generation on the given model and returns the generated text.
func (c *HFClient) Generate(ctx context.Context, model string, prompt string, maxNewTokens int) (string, error) {
	body := "{}"
	var err error
	if body, err = sjson.Set(body, "inputs", prompt); err != nil {
		return "", fmt.Errorf("failed to build huggingface payload: %w", err)
	}
	if body, err = sjson.Set(body, "parameters.max_new_tokens", maxNewTokens); err != nil {
		return "", fmt.Errorf("failed to build huggingface payload: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/"+model, bytes.NewReader([]byte(body)))
	if err != nil {
		return "", fmt.Errorf("failed to build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("huggingface request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read huggingface response: %w", err)
	}

	switch resp.StatusCode {
	case http.StatusOK:
		// fall through to parsing
	case http.StatusServiceUnavailable:
		return "", fmt.Errorf("huggingface model is loading (503)")
	default:
		return "", fmt.Errorf("huggingface API error %d: %s", resp.StatusCode, string(respBody))
	}

	text := gjson.GetBytes(respBody, "0.generated_text")
	if !text.Exists() {
		return "", fmt.Errorf("huggingface response has no generated text")
	}

	return text.String(), nil
}

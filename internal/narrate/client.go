// Package narrate turns ranked candidates into short conversational text.
// It calls a local Ollama server when one is reachable and degrades to
// rule-based templates otherwise; narration never fails a request.
package narrate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// generateRequest is the body for the Ollama /api/generate endpoint.
type generateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

// generateResponse is the non-streamed response of /api/generate.
type generateResponse struct {
	Response string `json:"response"`
	Done     bool   `json:"done"`
}

// client is a minimal non-streaming Ollama text-generation client.
type client struct {
	endpoint   string
	model      string
	httpClient *http.Client
}

func newClient(endpoint, model string, timeout time.Duration) *client {
	if endpoint == "" {
		endpoint = "http://127.0.0.1:11434/api/generate"
	}
	if model == "" {
		model = "tinyllama"
	}
	if timeout <= 0 {
		timeout = 6 * time.Second
	}
	return &client{
		endpoint:   endpoint,
		model:      model,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// generate sends a single prompt and returns the trimmed completion.
func (c *client) generate(ctx context.Context, prompt string) (string, error) {
	reqBody, err := json.Marshal(generateRequest{
		Model:  c.model,
		Prompt: prompt,
		Stream: false,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(reqBody))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("ollama API error (status %d): %s", resp.StatusCode, body)
	}

	var genResp generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&genResp); err != nil {
		return "", fmt.Errorf("failed to parse ollama response: %w", err)
	}

	return strings.TrimSpace(genResp.Response), nil
}

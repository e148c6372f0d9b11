// Package ollama provides model-backed implementations of the synthesis
// interfaces using a local Ollama-compatible completion endpoint.
package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"metadesc"
)

// DefaultBaseURL is the standard local Ollama endpoint.
const DefaultBaseURL = "http://127.0.0.1:11434"

const defaultTimeout = 120 * time.Second

// temperature is held fixed and low so repeated runs stay close to
// deterministic.
const temperature = 0.2

// Ensure Client implements metadesc.Completer at compile time.
var _ metadesc.Completer = (*Client)(nil)

// Client is a synchronous completion client for the Ollama generate API.
type Client struct {
	httpClient *http.Client
	endpoint   string
	model      string
}

type generateRequest struct {
	Model   string          `json:"model"`
	Prompt  string          `json:"prompt"`
	Stream  bool            `json:"stream"`
	Options generateOptions `json:"options"`
}

type generateOptions struct {
	Temperature float64 `json:"temperature"`
}

type generateResponse struct {
	Response string `json:"response"`
}

// NewClient creates a Client for the given base URL and model identifier.
// An empty baseURL falls back to DefaultBaseURL; a non-positive timeout
// falls back to the default.
func NewClient(baseURL, model string, timeout time.Duration) *Client {
	url := strings.TrimSpace(baseURL)
	if url == "" {
		url = DefaultBaseURL
	}
	url = strings.TrimRight(url, "/")
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		endpoint:   url + "/api/generate",
		model:      model,
	}
}

// Complete generates text for the given prompt.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(generateRequest{
		Model:   c.model,
		Prompt:  prompt,
		Stream:  false,
		Options: generateOptions{Temperature: temperature},
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", metadesc.Errorf(metadesc.EUNAVAILABLE, "model endpoint unreachable: %v", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", metadesc.Errorf(metadesc.EUNAVAILABLE, "reading model response: %v", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", metadesc.Errorf(metadesc.EUNAVAILABLE, "model request failed (%d): %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	var parsed generateResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", metadesc.Errorf(metadesc.EEMPTYRESPONSE, "malformed model response: %v", err)
	}
	return strings.TrimSpace(parsed.Response), nil
}

// Package gemini calls the generative language REST endpoint with a
// prompt and one inline image, and extracts the caption text.
package gemini

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/ringpost/ringpost/internal/model"
)

const (
	// DefaultBaseURL is the public v1beta endpoint.
	DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

	// DefaultTimeout bounds the single generation call.
	DefaultTimeout = 60 * time.Second
)

// ErrMalformedResponse means the endpoint returned 200 but the expected
// candidates/content/parts structure was absent, for example when the
// content was filtered.
var ErrMalformedResponse = errors.New("generation response has no caption text")

// GenerationError is a non-200 answer from the endpoint. The raw body
// is kept for display; no retry is attempted.
type GenerationError struct {
	StatusCode int
	Body       string
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("generation failed (status %d): %s", e.StatusCode, e.Body)
}

// Client issues single-turn, single-image generation calls.
type Client struct {
	baseURL    string
	model      string
	apiKey     string
	httpClient *http.Client
}

func NewClient(baseURL, model, apiKey string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL: baseURL,
		model:   model,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// GenerateCaption sends the prompt plus the image as inline base64 data
// and returns the first candidate's first text part. Exactly one HTTP
// call is made per invocation.
func (c *Client) GenerateCaption(ctx context.Context, promptText string, asset *model.ImageAsset) (string, error) {
	mimeType := asset.MimeType
	if mimeType == "" {
		mimeType = "image/png"
	}

	body := Request{
		Contents: []Content{{
			Parts: []Part{
				{Text: promptText},
				{InlineData: &InlineData{
					MimeType: mimeType,
					Data:     base64.StdEncoding.EncodeToString(asset.Data),
				}},
			},
		}},
	}

	data, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/models/%s:generateContent?key=%s",
		c.baseURL, url.PathEscape(c.model), url.QueryEscape(c.apiKey))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to call generation endpoint: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", &GenerationError{
			StatusCode: resp.StatusCode,
			Body:       string(respBody),
		}
	}

	var parsed Response
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", ErrMalformedResponse)
	}

	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return "", ErrMalformedResponse
	}

	text := parsed.Candidates[0].Content.Parts[0].Text
	if text == "" {
		return "", ErrMalformedResponse
	}

	return text, nil
}

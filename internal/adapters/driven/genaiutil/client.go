// Package genaiutil holds the Gemini client plumbing shared by the Gemini
// embedding and LLM adapters.
package genaiutil

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"google.golang.org/genai"

	"github.com/custodia-labs/scout/internal/adapters/driven/remote"
)

// NewClient creates a Gemini API client. baseURL may be empty.
func NewClient(ctx context.Context, apiKey, baseURL string, timeout time.Duration) (*genai.Client, error) {
	if apiKey == "" {
		return nil, errors.New("gemini: API key is required")
	}

	cfg := &genai.ClientConfig{
		APIKey:     apiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: &http.Client{Timeout: timeout},
	}
	if baseURL != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: baseURL}
	}

	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("gemini: failed to initialise client: %w", err)
	}
	return client, nil
}

// WrapError maps a genai error onto the remote classification errors.
func WrapError(err error) error {
	if err == nil {
		return nil
	}
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return remote.StatusError("gemini", apiErr.Code, []byte(apiErr.Message))
	}
	return remote.TransportError("gemini", err)
}

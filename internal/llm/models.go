package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// Model is one entry of the /v1/models listing.
type Model struct {
	ID      string `json:"id"`
	OwnedBy string `json:"owned_by"`
}

// ModelsResponse represents the response from the /v1/models endpoint.
type ModelsResponse struct {
	Data []Model `json:"data"`
}

// ListModels returns the models the upstream advertises.
func (c *Client) ListModels(ctx context.Context) ([]Model, error) {
	url := fmt.Sprintf("%s/v1/models", c.BaseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create models request: %w", err)
	}
	if c.APIKey != "" {
		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.APIKey))
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to list models: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: string(raw)}
	}

	var modelsResp ModelsResponse
	if err := json.NewDecoder(resp.Body).Decode(&modelsResp); err != nil {
		return nil, fmt.Errorf("failed to decode models response: %w", err)
	}
	return modelsResp.Data, nil
}

// IsModelAvailable reports whether the configured model appears in the upstream listing.
func (c *Client) IsModelAvailable(ctx context.Context) (bool, error) {
	models, err := c.ListModels(ctx)
	if err != nil {
		return false, err
	}
	for _, m := range models {
		if m.ID == c.Model {
			return true, nil
		}
	}
	return false, nil
}

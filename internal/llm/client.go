package llm

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// ErrNoChoices is returned when the upstream answers without any choice.
var ErrNoChoices = errors.New("no choices returned")

// StatusError is returned when the upstream answers with a non-200 status.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("bad status %d: %s", e.StatusCode, e.Body)
}

// Client is a client for interacting with an OpenAI-compatible chat completions API.
type Client struct {
	BaseURL     string
	APIKey      string
	Model       string
	Temperature float64
	client      *http.Client
}

// NewClient creates a new LLM client.
func NewClient(baseURL, apiKey, model string) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		APIKey:  apiKey,
		Model:   model,
		client:  http.DefaultClient,
	}
}

// WithDefaultTemperature sets the temperature used when a request carries none.
func (c *Client) WithDefaultTemperature(t float64) *Client {
	c.Temperature = t
	return c
}

// WithTimeout bounds non-streaming calls. Streaming calls are bounded by their context only.
func (c *Client) WithTimeout(d time.Duration) *Client {
	c.client = newHTTPClient(d)
	return c
}

func newHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			MaxIdleConns:        20,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
		},
	}
}

func (c *Client) withDefaults(req ChatRequest) ChatRequest {
	if req.Model == "" {
		req.Model = c.Model
	}
	if req.Temperature == nil && c.Temperature > 0 {
		t := c.Temperature
		req.Temperature = &t
	}
	return req
}

func (c *Client) newRequest(ctx context.Context, payload ChatRequest) (*http.Request, error) {
	url := fmt.Sprintf("%s/v1/chat/completions", c.BaseURL)

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if c.APIKey != "" {
		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.APIKey))
	}
	req.Header.Set("Content-Type", "application/json")
	return req, nil
}

// Chat sends a non-streaming chat completion request to the LLM API.
func (c *Client) Chat(ctx context.Context, chatReq ChatRequest) (Completion, error) {
	payload := c.withDefaults(chatReq)
	payload.Stream = false

	req, err := c.newRequest(ctx, payload)
	if err != nil {
		return Completion{}, err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return Completion{}, fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		return Completion{}, &StatusError{StatusCode: resp.StatusCode, Body: string(raw)}
	}

	var chatResp ChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return Completion{}, fmt.Errorf("failed to decode response: %w", err)
	}

	if len(chatResp.Choices) == 0 {
		return Completion{}, ErrNoChoices
	}

	model := chatResp.Model
	if model == "" {
		model = payload.Model
	}
	return Completion{
		ID:           chatResp.ID,
		Model:        model,
		Content:      chatResp.Choices[0].Message.Content,
		FinishReason: chatResp.Choices[0].FinishReason,
	}, nil
}

// StreamChat sends a streaming chat completion request to the LLM API.
// It reads Server-Sent Events (SSE) from the response and calls the callback for each
// non-empty content delta, in arrival order. A callback error aborts the stream.
func (c *Client) StreamChat(ctx context.Context, chatReq ChatRequest, callback func(chunk string) error) error {
	payload := c.withDefaults(chatReq)
	payload.Stream = true

	req, err := c.newRequest(ctx, payload)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "text/event-stream")

	// The shared client carries a whole-request timeout that would cut long streams.
	streamClient := http.DefaultClient
	if c.client != nil && c.client.Transport != nil {
		streamClient = &http.Client{Transport: c.client.Transport}
	}

	resp, err := streamClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		return &StatusError{StatusCode: resp.StatusCode, Body: string(raw)}
	}

	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	const dataPrefix = "data:"
	const doneMarker = "[DONE]"

	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, dataPrefix) {
			continue
		}

		data := strings.TrimSpace(strings.TrimPrefix(line, dataPrefix))
		if data == doneMarker {
			break
		}

		var streamResp streamResponse
		if err := json.Unmarshal([]byte(data), &streamResp); err != nil {
			// Skip malformed JSON chunks
			continue
		}

		if len(streamResp.Choices) > 0 {
			chunk := streamResp.Choices[0].Delta.Content
			if chunk != "" {
				if err := callback(chunk); err != nil {
					return fmt.Errorf("callback error: %w", err)
				}
			}

			if streamResp.Choices[0].FinishReason != "" {
				break
			}
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read stream: %w", err)
	}

	return nil
}

package assistant

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sethvargo/go-retry"
)

// systemPrompt is injected ahead of every user message. The relay keeps
// no state between calls.
const systemPrompt = "You are Campus Hub's assistant. Answer questions about campus events, " +
	"jobs, marketplace listings, budgeting, and general student life. Keep answers short " +
	"and practical. If asked about something outside the portal, answer briefly and " +
	"suggest a relevant portal section when one exists."

// ErrNotConfigured indicates the upstream API key is missing; callers
// should surface this as a server configuration error.
var ErrNotConfigured = errors.New("assistant API key not configured")

// UpstreamError carries a non-2xx upstream response so callers can relay
// its status.
type UpstreamError struct {
	Status  int
	Details string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream returned status %d", e.Status)
}

// Config holds the chat relay configuration from environment variables.
type Config struct {
	APIKey  string
	BaseURL string
	Model   string
}

// Client relays chat messages to the upstream chat-completions API.
type Client struct {
	cfg    Config
	client *http.Client
}

func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.openai.com/v1/chat/completions"
	}
	if cfg.Model == "" {
		cfg.Model = "gpt-4o-mini"
	}
	return &Client{
		cfg:    cfg,
		client: &http.Client{Timeout: 30 * time.Second},
	}
}

// Configured reports whether an API key is present.
func (c *Client) Configured() bool {
	return c.cfg.APIKey != ""
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// Chat sends one message with the fixed system prompt and returns the
// reply text. Transient upstream failures (network errors and 5xx) are
// retried with bounded backoff; 4xx responses are relayed immediately.
func (c *Client) Chat(ctx context.Context, message string) (string, error) {
	if !c.Configured() {
		return "", ErrNotConfigured
	}

	body, err := json.Marshal(chatRequest{
		Model: c.cfg.Model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: message},
		},
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	var text string
	backoff := retry.WithMaxRetries(2, retry.NewExponential(500*time.Millisecond))
	err = retry.Do(ctx, backoff, func(ctx context.Context) error {
		reply, err := c.send(ctx, body)
		if err != nil {
			var ue *UpstreamError
			if errors.As(err, &ue) && ue.Status < 500 {
				return err
			}
			return retry.RetryableError(err)
		}
		text = reply
		return nil
	})
	if err != nil {
		return "", err
	}
	return text, nil
}

func (c *Client) send(ctx context.Context, body []byte) (string, error) {
	req, err := http.NewRequestWithContext(ctx, "POST", c.cfg.BaseURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("relay request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		details, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", &UpstreamError{Status: resp.StatusCode, Details: string(details)}
	}

	var cr chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&cr); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if len(cr.Choices) == 0 {
		return "", fmt.Errorf("empty response from upstream")
	}
	return cr.Choices[0].Message.Content, nil
}

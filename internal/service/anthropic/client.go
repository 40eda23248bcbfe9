package anthropic

import (
	"context"
	"fmt"

	xhttp "TradeFlow/pkg/http"
)

const apiVersion = "2023-06-01"

// Option configures Client.
type Option func(*Client)

// Client requests text completions from the Anthropic messages API.
type Client struct {
	http      *xhttp.Client
	apiKey    string
	baseURL   string
	model     string
	maxTokens int
}

// New creates a completion client.
func New(httpClient *xhttp.Client, apiKey string, opts ...Option) *Client {
	c := &Client{
		http:      httpClient,
		apiKey:    apiKey,
		baseURL:   "https://api.anthropic.com",
		model:     "claude-sonnet-4-20250514",
		maxTokens: 500,
	}

	for _, opt := range opts {
		opt(c)
	}
	return c
}

// WithBaseURL sets API base URL.
func WithBaseURL(url string) Option {
	return func(c *Client) {
		c.baseURL = url
	}
}

// WithModel sets the model name.
func WithModel(model string) Option {
	return func(c *Client) {
		c.model = model
	}
}

// WithMaxTokens sets the completion token cap.
func WithMaxTokens(n int) Option {
	return func(c *Client) {
		c.maxTokens = n
	}
}

// Configured reports whether an API key is present.
func (c *Client) Configured() bool {
	return c.apiKey != ""
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type request struct {
	Model     string    `json:"model"`
	MaxTokens int       `json:"max_tokens"`
	Messages  []message `json:"messages"`
}

type contentBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type response struct {
	Content []contentBlock `json:"content"`
}

// Complete sends prompt as a single user message and returns the first
// text block of the completion.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	if c.apiKey == "" {
		return "", fmt.Errorf("api key not configured")
	}

	var resp response
	err := c.http.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodPost,
		URL:    c.baseURL + "/v1/messages",
		Headers: map[string]string{
			"x-api-key":         c.apiKey,
			"anthropic-version": apiVersion,
			"Content-Type":      "application/json",
		},
		Body: request{
			Model:     c.model,
			MaxTokens: c.maxTokens,
			Messages:  []message{{Role: "user", Content: prompt}},
		},
	}, &resp)
	if err != nil {
		return "", fmt.Errorf("completion request: %w", err)
	}

	for _, block := range resp.Content {
		if block.Type == "text" {
			return block.Text, nil
		}
	}
	return "", fmt.Errorf("no text content in completion")
}

// Package ragclient is the HTTP client for the external retrieval/answer service.
package ragclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"mediawatch/internal/model"
)

// DefaultSummaryResults is the result-count parameter sent to the
// summarization endpoint when the caller does not specify one.
const DefaultSummaryResults = 3

// HTTPClient is the interface for performing HTTP requests.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Answer is the response shape shared by the chat and summarization endpoints.
type Answer struct {
	Response string            `json:"response"`
	Metadata []model.SourceRef `json:"metadata"`
}

type chatRequest struct {
	UserID  string `json:"user_id"`
	Message string `json:"message"`
}

type errorBody struct {
	Detail string `json:"detail"`
}

// Client talks to the answer service at a fixed base URL.
type Client struct {
	baseURL string
	client  HTTPClient
}

// New creates a Client for the given base URL using the default HTTP client.
func New(baseURL string) *Client {
	return NewWithHTTPClient(baseURL, &http.Client{Timeout: 120 * time.Second})
}

// NewWithHTTPClient creates a Client with a custom transport (useful for testing).
func NewWithHTTPClient(baseURL string, client HTTPClient) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
	}
}

// Chat sends a user message and returns the service's answer.
func (c *Client) Chat(ctx context.Context, userID, message string) (*Answer, error) {
	payload, err := json.Marshal(chatRequest{UserID: userID, Message: message})
	if err != nil {
		return nil, fmt.Errorf("marshal chat request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(req)
}

// Summarize requests a summary for topic built from k retrieved articles.
// Non-positive k falls back to DefaultSummaryResults.
func (c *Client) Summarize(ctx context.Context, topic string, k int) (*Answer, error) {
	if k <= 0 {
		k = DefaultSummaryResults
	}
	params := url.Values{}
	params.Set("topic", topic)
	params.Set("k", strconv.Itoa(k))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/summarize?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(req)
}

func (c *Client) do(req *http.Request) (*Answer, error) {
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 5*1024*1024))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, errorFromResponse(resp.StatusCode, body)
	}

	var answer Answer
	if err := json.Unmarshal(body, &answer); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &answer, nil
}

// errorFromResponse surfaces the service's detail message when the error
// body is parseable JSON, otherwise a generic HTTP status description.
func errorFromResponse(status int, body []byte) error {
	var eb errorBody
	if err := json.Unmarshal(body, &eb); err == nil && eb.Detail != "" {
		return fmt.Errorf("%s", eb.Detail)
	}
	return fmt.Errorf("HTTP error: status %d", status)
}

package ragclient

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"testing"

	"github.com/google/go-cmp/cmp"

	"mediawatch/internal/model"
)

type mockTransport struct {
	statusCode int
	body       string
	err        error
	lastReq    *http.Request
	lastBody   []byte
}

func (m *mockTransport) Do(req *http.Request) (*http.Response, error) {
	m.lastReq = req
	if req.Body != nil {
		m.lastBody, _ = io.ReadAll(req.Body)
	}
	if m.err != nil {
		return nil, m.err
	}
	return &http.Response{
		StatusCode: m.statusCode,
		Body:       io.NopCloser(bytes.NewBufferString(m.body)),
	}, nil
}

func TestChat(t *testing.T) {
	tests := []struct {
		name      string
		transport *mockTransport
		want      *Answer
		wantErr   string
	}{
		{
			name: "successful answer with citations",
			transport: &mockTransport{
				statusCode: 200,
				body:       `{"response":"hi","metadata":[{"url":"https://example.com/a1","outlet":"Business Daily"}]}`,
			},
			want: &Answer{
				Response: "hi",
				Metadata: []model.SourceRef{{URL: "https://example.com/a1", Outlet: "Business Daily"}},
			},
		},
		{
			name: "error body with detail",
			transport: &mockTransport{
				statusCode: 429,
				body:       `{"detail":"rate limited"}`,
			},
			wantErr: "rate limited",
		},
		{
			name: "error body without parseable json",
			transport: &mockTransport{
				statusCode: 502,
				body:       "<html>bad gateway</html>",
			},
			wantErr: "HTTP error: status 502",
		},
		{
			name: "error body with empty detail",
			transport: &mockTransport{
				statusCode: 500,
				body:       `{"detail":""}`,
			},
			wantErr: "HTTP error: status 500",
		},
		{
			name:      "network failure",
			transport: &mockTransport{err: io.ErrUnexpectedEOF},
			wantErr:   "http request: unexpected EOF",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewWithHTTPClient("http://rag.local:8000", tt.transport)
			got, err := c.Chat(context.Background(), "user_abc", "hello")

			if tt.wantErr != "" {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				if diff := cmp.Diff(tt.wantErr, err.Error()); diff != "" {
					t.Errorf("error mismatch (-want +got):\n%s", diff)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Chat() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestChatRequestPayload(t *testing.T) {
	transport := &mockTransport{statusCode: 200, body: `{"response":"ok","metadata":[]}`}
	c := NewWithHTTPClient("http://rag.local:8000/", transport)

	if _, err := c.Chat(context.Background(), "user_abc", "what about tariffs?"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := transport.lastReq.URL.String(); got != "http://rag.local:8000/chat" {
		t.Errorf("request URL = %q, want %q", got, "http://rag.local:8000/chat")
	}
	if got := transport.lastReq.Method; got != http.MethodPost {
		t.Errorf("request method = %q, want POST", got)
	}

	var payload map[string]string
	if err := json.Unmarshal(transport.lastBody, &payload); err != nil {
		t.Fatalf("unmarshal request payload: %v", err)
	}
	want := map[string]string{"user_id": "user_abc", "message": "what about tariffs?"}
	if diff := cmp.Diff(want, payload); diff != "" {
		t.Errorf("payload mismatch (-want +got):\n%s", diff)
	}
}

func TestSummarizeQueryParams(t *testing.T) {
	tests := []struct {
		name  string
		topic string
		k     int
		wantK string
	}{
		{name: "explicit k", topic: "tariffs", k: 5, wantK: "5"},
		{name: "default k", topic: "air cargo", k: 0, wantK: "3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			transport := &mockTransport{statusCode: 200, body: `{"response":"summary","metadata":[]}`}
			c := NewWithHTTPClient("http://rag.local:8000", transport)

			if _, err := c.Summarize(context.Background(), tt.topic, tt.k); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			q := transport.lastReq.URL.Query()
			if diff := cmp.Diff(tt.topic, q.Get("topic")); diff != "" {
				t.Errorf("topic param mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(tt.wantK, q.Get("k")); diff != "" {
				t.Errorf("k param mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

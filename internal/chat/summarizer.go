package chat

import (
	"context"
	"log/slog"
	"sync"

	"mediawatch/internal/ragclient"
)

// Status describes the summarizer's request lifecycle.
type Status string

// Summarizer states.
const (
	StatusIdle    Status = "idle"
	StatusLoading Status = "loading"
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

// SummaryService is the part of the answer client the summarizer uses.
type SummaryService interface {
	Summarize(ctx context.Context, topic string, k int) (*ragclient.Answer, error)
}

// Result is the current summarization outcome.
type Result struct {
	Topic    string
	Answer   *ragclient.Answer
	ErrorMsg string
	Status   Status
}

// Summarizer is the single-shot variant of the session controller: it
// holds one current result, replacing any previous one, and issues one
// request per topic. Failures surface as an error status, never as a
// returned error.
type Summarizer struct {
	svc SummaryService
	log *slog.Logger

	mu      sync.Mutex
	current Result
}

// NewSummarizer creates a Summarizer.
func NewSummarizer(svc SummaryService, log *slog.Logger) *Summarizer {
	return &Summarizer{
		svc:     svc,
		log:     log,
		current: Result{Status: StatusIdle},
	}
}

// Current returns the latest result.
func (s *Summarizer) Current() Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Run summarizes topic with k retrieved articles, replacing the
// previous result. A blank topic resets to idle without a request.
func (s *Summarizer) Run(ctx context.Context, topic string, k int) Result {
	if topic == "" {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.current = Result{Status: StatusIdle}
		return s.current
	}

	s.mu.Lock()
	s.current = Result{Topic: topic, Status: StatusLoading}
	s.mu.Unlock()

	answer, err := s.svc.Summarize(ctx, topic, k)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.log.Error("summarize call failed", "topic", topic, "error", err)
		s.current = Result{Topic: topic, ErrorMsg: err.Error(), Status: StatusError}
		return s.current
	}
	s.current = Result{Topic: topic, Answer: answer, Status: StatusSuccess}
	return s.current
}

// RunPending consumes a pending topic exactly once: the topic is cleared
// on consumption and an absent topic leaves the current result untouched.
func (s *Summarizer) RunPending(ctx context.Context, pending *PendingQuery, k int) (Result, bool) {
	topic := pending.Take()
	if topic == "" {
		return s.Current(), false
	}
	return s.Run(ctx, topic, k), true
}

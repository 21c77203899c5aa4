// Package chat owns the request/response lifecycle of conversations with
// the external answer service: the append-only transcript, the in-flight
// guard, and one-shot consumption of externally injected queries.
package chat

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"mediawatch/internal/model"
	"mediawatch/internal/ragclient"
)

// Transcript messages emitted by the controller itself, not the service.
const (
	identityErrorText = "Error: User session not initialized. Please refresh."
	fallbackErrorText = "Sorry, I encountered an error. Please try again."
)

// AnswerService is the part of the answer client a session uses.
type AnswerService interface {
	Chat(ctx context.Context, userID, message string) (*ragclient.Answer, error)
}

// Observer is notified after every transcript update, so a UI binding
// can keep the newest entry visible.
type Observer func(newest model.ChatMessage, total int)

// Session manages one user's conversation. The transcript is strictly
// append-only in call order: a submission's user message always precedes
// its response or error message. At most one request is in flight at a
// time; a Submit while another is pending is a no-op.
type Session struct {
	svc      AnswerService
	log      *slog.Logger
	observer Observer

	mu              sync.Mutex
	userID          string
	messages        []model.ChatMessage
	submitting      bool
	pendingConsumed bool
}

// NewSession creates a Session for userID. An empty userID models an
// uninitialized identity: submissions will fail locally until SetUserID.
func NewSession(userID string, svc AnswerService, log *slog.Logger) *Session {
	return &Session{
		userID: userID,
		svc:    svc,
		log:    log,
	}
}

// SetObserver registers the transcript-update hook.
func (s *Session) SetObserver(fn Observer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observer = fn
}

// SetUserID establishes the identity. A later call never overwrites an
// already-established identity.
func (s *Session) SetUserID(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.userID == "" {
		s.userID = userID
	}
}

// UserID returns the established identity, or "" before setup.
func (s *Session) UserID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.userID
}

// Messages returns a copy of the transcript.
func (s *Session) Messages() []model.ChatMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.ChatMessage, len(s.messages))
	copy(out, s.messages)
	return out
}

// Submitting reports whether a request is currently in flight.
func (s *Session) Submitting() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.submitting
}

// Reset clears the transcript, modelling the start of a new
// conversation. The one-shot pending-query guard resets with it.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = nil
	s.pendingConsumed = false
}

// Submit runs one exchange: the user message is appended immediately,
// then the service is called and exactly one AI message (answer or
// error description) is appended. The returned message is that AI-side
// entry; nil means the submission was refused (blank query, or another
// request already in flight). Service failures never escape: they are
// absorbed into the transcript.
func (s *Session) Submit(ctx context.Context, query string) *model.ChatMessage {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil
	}

	s.mu.Lock()
	if s.submitting {
		s.mu.Unlock()
		return nil
	}
	if s.userID == "" {
		s.log.Error("submit without established identity")
		msg := s.appendLocked(model.SenderAI, identityErrorText, nil)
		s.mu.Unlock()
		return &msg
	}
	userID := s.userID
	s.submitting = true
	s.appendLocked(model.SenderUser, query, nil)
	s.mu.Unlock()

	answer, err := s.svc.Chat(ctx, userID, query)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.submitting = false

	if err != nil {
		s.log.Error("answer service call failed", "user_id", userID, "error", err)
		text := err.Error()
		if text == "" {
			text = fallbackErrorText
		}
		msg := s.appendLocked(model.SenderAI, text, nil)
		return &msg
	}

	msg := s.appendLocked(model.SenderAI, answer.Response, answer.Metadata)
	return &msg
}

// ConsumePending processes an externally injected query at most once per
// transcript lifetime. It reports whether a submission was made. The
// query is cleared from pending on consumption; if the transcript
// already holds it verbatim as a user message it counts as processed
// and is skipped.
func (s *Session) ConsumePending(ctx context.Context, pending *PendingQuery) bool {
	s.mu.Lock()
	if s.userID == "" || s.pendingConsumed {
		s.mu.Unlock()
		return false
	}
	if pending.Peek() == "" {
		s.mu.Unlock()
		return false
	}
	query := pending.Take()
	s.pendingConsumed = true
	if s.containsUserMessageLocked(query) {
		s.log.Debug("pending query already in transcript, skipping", "query", query)
		s.mu.Unlock()
		return false
	}
	s.mu.Unlock()

	return s.Submit(ctx, query) != nil
}

func (s *Session) containsUserMessageLocked(text string) bool {
	for _, m := range s.messages {
		if m.Sender == model.SenderUser && m.Text == text {
			return true
		}
	}
	return false
}

// appendLocked appends a message and fires the observer. Callers must
// hold s.mu.
func (s *Session) appendLocked(sender model.Sender, text string, sources []model.SourceRef) model.ChatMessage {
	msg := model.ChatMessage{
		ID:        uuid.NewString(),
		Text:      text,
		Sender:    sender,
		Timestamp: time.Now().UTC(),
		Sources:   sources,
	}
	s.messages = append(s.messages, msg)
	if s.observer != nil {
		s.observer(msg, len(s.messages))
	}
	return msg
}

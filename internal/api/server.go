// Package api exposes the dashboard over HTTP: article listing with
// filtering and share-of-voice, CSV export, chat, and topic summaries.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"mediawatch/internal/chat"
	"mediawatch/internal/export"
	"mediawatch/internal/filter"
	"mediawatch/internal/identity"
	"mediawatch/internal/model"
	"mediawatch/internal/storage"
)

// Server is the HTTP API server.
type Server struct {
	router     chi.Router
	store      storage.Storage
	engine     *filter.Engine
	sessions   *chat.Manager
	summarizer *chat.Summarizer
	identity   identity.Provider
	log        *slog.Logger
	pageSize   int
}

// NewServer creates a configured API server with all routes and middleware.
func NewServer(store storage.Storage, engine *filter.Engine, sessions *chat.Manager,
	summarizer *chat.Summarizer, idp identity.Provider, pageSize int, log *slog.Logger) *Server {
	srv := &Server{
		store:      store,
		engine:     engine,
		sessions:   sessions,
		summarizer: summarizer,
		identity:   idp,
		log:        log,
		pageSize:   pageSize,
	}
	srv.router = srv.buildRouter()
	return srv
}

// Router returns the chi router for testing.
func (s *Server) Router() chi.Router {
	return s.router
}

// ListenAndServe starts the HTTP server, blocking until SIGINT/SIGTERM
// and then shutting down gracefully.
func (s *Server) ListenAndServe(addr string) error {
	httpSrv := &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 150 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-done:
	}

	s.log.Info("shutting down http server")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return httpSrv.Shutdown(ctx)
}

func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	// The answer service can take minutes on cold retrieval.
	r.Use(middleware.Timeout(150 * time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID", "Content-Disposition"},
		MaxAge:         300,
	}))

	r.Get("/healthz", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Get("/articles", s.handleArticles)
		r.Get("/articles/export", s.handleExport)
		r.Post("/chat", s.handleChat)
		r.Get("/chat/{userID}", s.handleTranscript)
		r.Get("/summarize", s.handleSummarize)
	})

	return r
}

// ArticlesResponse is the body of GET /api/articles.
type ArticlesResponse struct {
	Total        int                       `json:"total"`
	Page         int                       `json:"page"`
	PageSize     int                       `json:"page_size"`
	TotalPages   int                       `json:"total_pages"`
	Articles     []model.Article           `json:"articles"`
	ShareOfVoice []model.ShareOfVoiceEntry `json:"share_of_voice"`
}

// ChatRequest is the body for POST /api/chat.
type ChatRequest struct {
	UserID  string `json:"user_id,omitempty"`
	Message string `json:"message"`
}

// ChatResponse is the body of POST /api/chat and GET /api/chat/{userID}.
type ChatResponse struct {
	UserID   string              `json:"user_id"`
	Reply    *model.ChatMessage  `json:"reply,omitempty"`
	Messages []model.ChatMessage `json:"messages"`
}

// SummaryResponse is the body of GET /api/summarize.
type SummaryResponse struct {
	Topic   string            `json:"topic"`
	Summary string            `json:"summary"`
	Sources []model.SourceRef `json:"sources,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	count, err := s.store.CountArticles(r.Context())
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "storage unavailable")
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"articles": count,
	})
}

func (s *Server) handleArticles(w http.ResponseWriter, r *http.Request) {
	articles, err := s.store.ListArticles(r.Context())
	if err != nil {
		s.log.Error("list articles", "error", err)
		s.writeError(w, http.StatusInternalServerError, "list articles failed")
		return
	}

	criteria := criteriaFromQuery(r)
	filtered := s.engine.Apply(articles, criteria)

	page := queryInt(r, "page", 1)
	if page < 1 {
		page = 1
	}
	pageSize := queryInt(r, "page_size", s.pageSize)
	if pageSize < 1 {
		pageSize = s.pageSize
	}

	s.writeJSON(w, http.StatusOK, ArticlesResponse{
		Total:        len(filtered),
		Page:         page,
		PageSize:     pageSize,
		TotalPages:   filter.TotalPages(len(filtered), pageSize),
		Articles:     filter.Page(filtered, page, pageSize),
		ShareOfVoice: filter.ShareOfVoice(filtered),
	})
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	articles, err := s.store.ListArticles(r.Context())
	if err != nil {
		s.log.Error("list articles", "error", err)
		s.writeError(w, http.StatusInternalServerError, "list articles failed")
		return
	}

	filtered := s.engine.Apply(articles, criteriaFromQuery(r))

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="articles.csv"`)
	if err := export.WriteCSV(w, filtered); err != nil {
		s.log.Error("write csv", "error", err)
	}
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		s.writeError(w, http.StatusBadRequest, "message is required")
		return
	}

	userID := req.UserID
	if userID == "" {
		id, err := s.identity.GetOrCreate(r.Context())
		if err != nil {
			s.log.Error("establish identity", "error", err)
			s.writeError(w, http.StatusInternalServerError, "identity unavailable")
			return
		}
		userID = id
	}

	session := s.sessions.Session(userID)
	reply := session.Submit(r.Context(), req.Message)
	if reply == nil {
		s.writeError(w, http.StatusConflict, "another request is in flight")
		return
	}

	s.writeJSON(w, http.StatusOK, ChatResponse{
		UserID:   userID,
		Reply:    reply,
		Messages: session.Messages(),
	})
}

func (s *Server) handleTranscript(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	if userID == "" {
		s.writeError(w, http.StatusBadRequest, "user id is required")
		return
	}

	session := s.sessions.Session(userID)
	s.writeJSON(w, http.StatusOK, ChatResponse{
		UserID:   userID,
		Messages: session.Messages(),
	})
}

func (s *Server) handleSummarize(w http.ResponseWriter, r *http.Request) {
	topic := r.URL.Query().Get("topic")
	if topic == "" {
		s.writeError(w, http.StatusBadRequest, "topic is required")
		return
	}
	k := queryInt(r, "k", 0)

	result := s.summarizer.Run(r.Context(), topic, k)
	if result.Status == chat.StatusError {
		s.writeError(w, http.StatusBadGateway, result.ErrorMsg)
		return
	}

	resp := SummaryResponse{Topic: result.Topic}
	if result.Answer != nil {
		resp.Summary = result.Answer.Response
		resp.Sources = result.Answer.Metadata
	}
	s.writeJSON(w, http.StatusOK, resp)
}

// criteriaFromQuery builds filter criteria from the request's query
// string. Attribute flags are constraints only when set to "true".
func criteriaFromQuery(r *http.Request) model.Criteria {
	q := r.URL.Query()
	c := model.Criteria{
		Search:    q.Get("search"),
		Country:   q.Get("country"),
		Sentiment: q.Get("sentiment"),
		Start:     q.Get("start"),
		End:       q.Get("end"),
		Leader:    q.Get("leader"),
	}
	for _, key := range model.AttributeKeys {
		if q.Get(key) == "true" {
			if c.Attributes == nil {
				c.Attributes = make(map[string]bool)
			}
			c.Attributes[key] = true
		}
	}
	return c
}

func queryInt(r *http.Request, key string, def int) int {
	v := r.URL.Query().Get(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Error("write json response", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, map[string]string{"error": msg})
}

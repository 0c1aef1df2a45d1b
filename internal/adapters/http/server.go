// Package http exposes the engine over a small JSON API plus a Server-Sent
// Events stream, so a browser page can submit block programs and watch the
// board move in real time.
package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/biancatoto3/blockstep"
	"github.com/biancatoto3/blockstep/internal/compiler"
	"github.com/biancatoto3/blockstep/pkg/domain"
	"github.com/biancatoto3/blockstep/pkg/ports"
)

// Engine is the slice of the engine surface the HTTP layer needs.
type Engine interface {
	Run(ws *domain.Workspace, onDone func(domain.RunResult)) (string, error)
	RunSource(source string, onDone func(domain.RunResult)) (string, error)
	Cancel() bool
	Reset()
	Snapshot() domain.Snapshot
	Compile(ws *domain.Workspace) (domain.Program, error)
	Validate(ws *domain.Workspace) []domain.Diagnostic
	ApplyLesson(lesson *domain.Lesson)
}

// Server routes API requests to an engine.
type Server struct {
	engine  Engine
	lessons ports.LessonSource
	broker  *Broker
	metrics http.Handler
	logger  *slog.Logger
}

// ServerOption configures optional server collaborators.
type ServerOption func(*Server)

// WithLessons enables the /api/lessons endpoints.
func WithLessons(src ports.LessonSource) ServerOption {
	return func(s *Server) { s.lessons = src }
}

// WithBroker enables the /api/events SSE stream.
func WithBroker(b *Broker) ServerOption {
	return func(s *Server) { s.broker = b }
}

// WithMetrics mounts the given handler at /metrics.
func WithMetrics(h http.Handler) ServerOption {
	return func(s *Server) { s.metrics = h }
}

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) ServerOption {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewHandler builds the full route tree around the given engine.
func NewHandler(engine Engine, opts ...ServerOption) http.Handler {
	s := &Server{
		engine: engine,
		logger: slog.New(slog.NewJSONHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	r.Use(enableCORS)

	r.Get("/", s.handleIndex)
	r.Get("/healthz", s.handleHealth)
	r.Get("/api/info", s.handleInfo)
	r.Get("/api/state", s.handleState)
	r.Post("/api/runs", s.handleStartRun)
	r.Post("/api/cancel", s.handleCancel)
	r.Post("/api/reset", s.handleReset)
	r.Post("/api/compile", s.handleCompile)
	r.Get("/api/lessons", s.handleListLessons)
	r.Get("/api/lessons/{id}", s.handleGetLesson)
	r.Post("/api/lessons/{id}/apply", s.handleApplyLesson)
	r.Get("/api/events", s.handleEvents)

	if s.metrics != nil {
		r.Handle("/metrics", s.metrics)
	}

	return r
}

// enableCORS allows any origin, since the demo page may be served from a
// different port than the API.
func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleIndex(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprint(w, indexHTML)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleInfo(w http.ResponseWriter, _ *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{
		"app":     "blockstep-http",
		"version": blockstep.Version,
	})
}

func (s *Server) handleState(w http.ResponseWriter, _ *http.Request) {
	s.respondJSON(w, http.StatusOK, s.engine.Snapshot())
}

// runRequest is the body of POST /api/runs when submitting raw script text.
// Workspace submissions send the serialized workspace instead.
type runRequest struct {
	Source string `json:"source"`
}

func (s *Server) handleStartRun(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "cannot read request body")
		return
	}

	var (
		req   runRequest
		runID string
	)
	if jsonErr := json.Unmarshal(body, &req); jsonErr == nil && req.Source != "" {
		runID, err = s.engine.RunSource(req.Source, nil)
	} else {
		ws, decErr := compiler.DecodeJSON(body)
		if decErr != nil {
			s.respondError(w, http.StatusBadRequest, fmt.Sprintf("cannot decode workspace: %v", decErr))
			return
		}
		runID, err = s.engine.Run(ws, nil)
	}
	if err != nil {
		s.respondRunError(w, err)
		return
	}

	s.logger.Info("run accepted", "run_id", runID)
	s.respondJSON(w, http.StatusAccepted, map[string]string{"run_id": runID})
}

// respondRunError maps engine start failures onto HTTP statuses: a busy
// engine is a conflict, a program problem is unprocessable, anything else is
// on us.
func (s *Server) respondRunError(w http.ResponseWriter, err error) {
	var unknown *domain.UnknownBlockError
	switch {
	case errors.Is(err, domain.ErrAlreadyRunning):
		s.respondError(w, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrEmptyWorkspace),
		errors.Is(err, domain.ErrMissingBinding),
		errors.As(err, &unknown):
		s.respondError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		s.logger.Error("run start failed", "err", err)
		s.respondError(w, http.StatusInternalServerError, err.Error())
	}
}

func (s *Server) handleCancel(w http.ResponseWriter, _ *http.Request) {
	cancelled := s.engine.Cancel()
	s.respondJSON(w, http.StatusOK, map[string]bool{"cancelled": cancelled})
}

func (s *Server) handleReset(w http.ResponseWriter, _ *http.Request) {
	s.engine.Reset()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleCompile(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "cannot read request body")
		return
	}
	ws, err := compiler.Decode(body)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, fmt.Sprintf("cannot decode workspace: %v", err))
		return
	}

	if diags := s.engine.Validate(ws); len(diags) > 0 {
		s.respondJSON(w, http.StatusUnprocessableEntity, map[string]any{"diagnostics": diags})
		return
	}

	program, err := s.engine.Compile(ws)
	if err != nil {
		s.respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, program)
}

func (s *Server) handleListLessons(w http.ResponseWriter, r *http.Request) {
	if s.lessons == nil {
		s.respondError(w, http.StatusNotFound, "no lesson source configured")
		return
	}
	lessons, err := s.lessons.List(r.Context())
	if err != nil {
		s.logger.Error("lesson listing failed", "err", err)
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]any{"lessons": lessons})
}

func (s *Server) handleGetLesson(w http.ResponseWriter, r *http.Request) {
	lesson, ok := s.lookupLesson(w, r)
	if !ok {
		return
	}
	s.respondJSON(w, http.StatusOK, lesson)
}

func (s *Server) handleApplyLesson(w http.ResponseWriter, r *http.Request) {
	lesson, ok := s.lookupLesson(w, r)
	if !ok {
		return
	}
	s.engine.ApplyLesson(lesson)
	s.logger.Info("lesson applied", "lesson_id", lesson.ID)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) lookupLesson(w http.ResponseWriter, r *http.Request) (*domain.Lesson, bool) {
	if s.lessons == nil {
		s.respondError(w, http.StatusNotFound, "no lesson source configured")
		return nil, false
	}
	id := chi.URLParam(r, "id")
	lesson, err := s.lessons.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrLessonNotFound) {
			s.respondError(w, http.StatusNotFound, err.Error())
		} else {
			s.logger.Error("lesson lookup failed", "lesson_id", id, "err", err)
			s.respondError(w, http.StatusInternalServerError, err.Error())
		}
		return nil, false
	}
	return lesson, true
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	if s.broker == nil {
		s.respondError(w, http.StatusNotFound, "event streaming not configured")
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		s.respondError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	events, cancel := s.broker.Subscribe()
	defer cancel()

	fmt.Fprint(w, "event: ping\ndata: {}\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case msg, ok := <-events:
			if !ok {
				return
			}
			fmt.Fprintf(w, "data: %s\n\n", msg)
			flusher.Flush()
		}
	}
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("response encoding failed", "err", err)
	}
}

func (s *Server) respondError(w http.ResponseWriter, status int, msg string) {
	s.respondJSON(w, status, map[string]string{"error": msg})
}

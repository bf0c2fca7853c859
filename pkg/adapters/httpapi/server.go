// Package httpapi exposes protocol inspection and session execution over
// HTTP/JSON. It is host glue around the engine: the engine itself performs
// no network I/O, and every effect still goes through the host's step
// executor.
package httpapi

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"

	"github.com/aretw0/weft/internal/logging"
	"github.com/aretw0/weft/pkg/interchange"
	"github.com/aretw0/weft/pkg/protocol"
	"github.com/aretw0/weft/pkg/schema"
	"github.com/aretw0/weft/pkg/session"
)

// Engine is the surface of the weft facade the server needs.
type Engine interface {
	Protocol() *protocol.Protocol
	NewSession() *session.Session
	Execute(ctx context.Context, sess *session.Session, step string, request map[string]any) (map[string]any, *session.Session, error)
}

// Server holds the live session chains, keyed by ID. Only the latest
// session of each chain is retained; forking is a library-level feature.
type Server struct {
	engine   Engine
	logger   *slog.Logger
	mu       sync.Mutex
	sessions map[string]*session.Session
}

// Option configures the server.
type Option func(*Server)

// WithLogger sets a structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewHandler creates the HTTP handler for an engine.
func NewHandler(engine Engine, opts ...Option) http.Handler {
	srv := &Server{
		engine:   engine,
		logger:   logging.NewNop(),
		sessions: make(map[string]*session.Session),
	}
	for _, opt := range opts {
		opt(srv)
	}

	r := chi.NewRouter()
	r.Get("/protocol", srv.handleProtocol)
	r.Post("/sessions", srv.handleCreateSession)
	r.Get("/sessions/{id}", srv.handleGetSession)
	r.Post("/sessions/{id}/steps/{step}", srv.handleExecute)
	return r
}

type sessionView struct {
	ID        string   `json:"id"`
	History   []string `json:"history"`
	Available []string `json:"available"`
	Terminal  bool     `json:"terminal"`
}

type executeView struct {
	sessionView
	Response map[string]any `json:"response"`
}

type errorView struct {
	Error  string   `json:"error"`
	Fields []string `json:"fields,omitempty"`
}

func (s *Server) handleProtocol(w http.ResponseWriter, r *http.Request) {
	doc, err := interchange.FromProtocol(s.engine.Protocol())
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	s.writeJSON(w, http.StatusOK, doc)
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var body struct {
		ID string `json:"id"`
	}
	// An empty body is fine; the ID is generated then.
	_ = json.NewDecoder(r.Body).Decode(&body)
	if body.ID == "" {
		body.ID = newSessionID()
	}

	sess := s.engine.NewSession()
	s.mu.Lock()
	if _, exists := s.sessions[body.ID]; exists {
		s.mu.Unlock()
		s.writeError(w, http.StatusConflict, errors.New("session already exists"))
		return
	}
	s.sessions[body.ID] = sess
	s.mu.Unlock()

	s.logger.Debug("session created", "session", body.ID)
	s.writeJSON(w, http.StatusCreated, s.view(body.ID, sess))
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s.mu.Lock()
	sess, ok := s.sessions[id]
	s.mu.Unlock()
	if !ok {
		s.writeError(w, http.StatusNotFound, session.ErrSessionNotFound)
		return
	}
	s.writeJSON(w, http.StatusOK, s.view(id, sess))
}

func (s *Server) handleExecute(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	step := chi.URLParam(r, "step")

	var request map[string]any
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		s.writeError(w, http.StatusBadRequest, errors.New("invalid request body"))
		return
	}

	s.mu.Lock()
	sess, ok := s.sessions[id]
	s.mu.Unlock()
	if !ok {
		s.writeError(w, http.StatusNotFound, session.ErrSessionNotFound)
		return
	}

	response, next, err := s.engine.Execute(r.Context(), sess, step, request)
	if err != nil {
		s.writeExecuteError(w, step, err)
		return
	}

	s.mu.Lock()
	s.sessions[id] = next
	s.mu.Unlock()

	s.writeJSON(w, http.StatusOK, &executeView{
		sessionView: *s.view(id, next),
		Response:    response,
	})
}

// writeExecuteError maps the engine's error taxonomy to status codes:
// unknown step 404, availability 409, request validation 422, response
// validation or executor failure 502.
func (s *Server) writeExecuteError(w http.ResponseWriter, step string, err error) {
	var availErr *session.AvailabilityError
	var reqErr *session.RequestValidationError
	var respErr *session.ResponseValidationError

	switch {
	case errors.Is(err, session.ErrStepNotFound):
		s.writeError(w, http.StatusNotFound, err)
	case errors.As(err, &availErr):
		s.writeError(w, http.StatusConflict, err)
	case errors.As(err, &reqErr):
		view := &errorView{Error: err.Error()}
		for _, fe := range schema.Fields(reqErr.Unwrap()) {
			view.Fields = append(view.Fields, fe.Error())
		}
		s.writeJSON(w, http.StatusUnprocessableEntity, view)
	case errors.As(err, &respErr):
		s.writeError(w, http.StatusBadGateway, err)
	default:
		s.logger.Warn("executor failed", "step", step, "err", err)
		s.writeError(w, http.StatusBadGateway, err)
	}
}

func (s *Server) view(id string, sess *session.Session) *sessionView {
	return &sessionView{
		ID:        id,
		History:   sess.History(),
		Available: sess.Available(),
		Terminal:  sess.IsTerminal(),
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Warn("response encoding failed", "err", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	s.writeJSON(w, status, &errorView{Error: err.Error()})
}

func newSessionID() string {
	buf := make([]byte, 8)
	_, _ = rand.Read(buf)
	return hex.EncodeToString(buf)
}

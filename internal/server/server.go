// Package server exposes a serial session over HTTP/JSON for hosts that
// dispatch commands across a process boundary.
package server

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	serial "github.com/allbin/go-serial-session"
)

// Session defines the operations the host can invoke.
type Session interface {
	ListPorts() []string
	Open(name string) bool
	Close() bool
	Read() (string, error)
	State() serial.State
}

// Ensure Manager implements Session at compile time
var _ Session = (*serial.Manager)(nil)

// Server maps HTTP requests onto a Session
type Server struct {
	Session Session
	Logger  *slog.Logger
}

type portsResponse struct {
	Ports []string `json:"ports"`
}

type openRequest struct {
	Port string `json:"port"`
}

type okResponse struct {
	OK bool `json:"ok"`
}

type readResponse struct {
	Data string `json:"data"`
}

type errorResponse struct {
	Kind   string `json:"kind"`
	Detail string `json:"detail"`
}

// NewHandler creates a new HTTP handler for the session. metrics is mounted
// at /metrics when non-nil.
func NewHandler(session Session, logger *slog.Logger, metrics http.Handler) http.Handler {
	s := &Server{Session: session, Logger: logger}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/ports", s.Ports)
	r.Post("/open", s.Open)
	r.Post("/close", s.Close)
	r.Get("/read", s.Read)
	r.Get("/state", s.State)
	if metrics != nil {
		r.Handle("/metrics", metrics)
	}
	return r
}

// Ports handles GET /ports. It never fails.
func (s *Server) Ports(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, portsResponse{Ports: s.Session.ListPorts()})
}

// Open handles POST /open.
func (s *Server) Open(w http.ResponseWriter, r *http.Request) {
	var body openRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Port == "" {
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Kind: "BadRequest", Detail: "body must be {\"port\": \"<name>\"}"})
		return
	}
	s.writeJSON(w, http.StatusOK, okResponse{OK: s.Session.Open(body.Port)})
}

// Close handles POST /close.
func (s *Server) Close(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, okResponse{OK: s.Session.Close()})
}

// Read handles GET /read.
func (s *Server) Read(w http.ResponseWriter, r *http.Request) {
	text, err := s.Session.Read()
	if err != nil {
		kind := serial.KindOf(err)
		s.writeJSON(w, statusFor(kind), errorResponse{Kind: kind.String(), Detail: err.Error()})
		return
	}
	s.writeJSON(w, http.StatusOK, readResponse{Data: text})
}

// State handles GET /state.
func (s *Server) State(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.Session.State())
}

func statusFor(kind serial.ErrorKind) int {
	switch kind {
	case serial.KindNotOpen:
		return http.StatusConflict
	case serial.KindPortDisconnected:
		return http.StatusGone
	case serial.KindDecodeFailure:
		return http.StatusUnprocessableEntity
	case serial.KindReadFailure:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil && s.Logger != nil {
		s.Logger.Warn("Failed to encode response", "err", err)
	}
}

// Package server provides the MCP protocol surfaces for the InDesign tools:
// a stdio JSON-RPC loop and an HTTP router.
package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"indesign-mcp/internal/indesign"
)

// Server serves the tool catalog and tool calls over HTTP.
type Server struct {
	cfg    Config
	router *chi.Mux
	tools  *Toolset
}

// New constructs a Server with middleware and routes configured.
func New(cfg Config) *Server {
	bridge := indesign.New(cfg.Apps, cfg.ScriptTimeout, cfg.ScriptDir, nil)
	s := &Server{
		cfg:    cfg,
		router: chi.NewRouter(),
		tools:  NewToolset(bridge),
	}
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	// Worst case is the full candidate ladder at the per-candidate timeout.
	s.router.Use(middleware.Timeout(5 * time.Minute))

	s.router.Get("/health", s.handleHealth)

	s.router.Route("/mcp", func(r chi.Router) {
		r.Use(s.auth)
		r.Get("/tools", s.handleListTools)
		r.Post("/call", s.handleCall)
	})

	return s
}

// Router exposes the root HTTP handler for the server.
func (s *Server) Router() http.Handler { return s.router }

func (s *Server) auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.cfg.Token == "" {
			next.ServeHTTP(w, r)
			return
		}
		if r.Header.Get("Authorization") != "Bearer "+s.cfg.Token {
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "unauthorized"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *Server) handleListTools(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"tools": s.tools.List()})
}

// handleCall returns HTTP 200 for every dispatched invocation; failures and
// unknown tool names are encoded in the result text, matching the stdio
// transport.
func (s *Server) handleCall(w http.ResponseWriter, r *http.Request) {
	var req CallRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}
	text := s.tools.Call(r.Context(), req.Name, req.Args)
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(textResult(text))
}

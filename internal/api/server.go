// Package api provides the HTTP and WebSocket command boundary for the UI.
package api

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"io"
	"log"
	"net"
	"net/http"
	"time"

	"automator/internal/config"
	"automator/internal/input"
	"automator/internal/protocol"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

// maxPayload bounds request bodies and WebSocket messages
const maxPayload = 1 << 20

// Server exposes the command table over HTTP and WebSocket
type Server struct {
	configMgr  *config.Manager
	commands   *Commands
	token      string
	wsMgr      *WSManager
	httpServer *http.Server
}

// NewServer creates a new API server
func NewServer(configMgr *config.Manager, d *input.Dispatcher) *Server {
	cfg := configMgr.Get()
	s := &Server{
		configMgr: configMgr,
		commands:  NewCommands(d),
		token:     cfg.Server.Token,
	}
	s.wsMgr = newWSManager(s, cfg.Server.AllowedOrigins)
	go s.wsMgr.start()
	s.httpServer = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Handler returns the routed handler with auth and recovery applied
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/ws", s.wsMgr.handleWebSocket)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/commands", s.handleListCommands).Methods(http.MethodGet)
	api.HandleFunc("/commands/{name}", s.handleCommand).Methods(http.MethodPost)

	return s.authMiddleware(s.recoverMiddleware(r))
}

// Start listens on the configured address and serves until Shutdown
func (s *Server) Start() error {
	addr := s.configMgr.Get().Server.Addr()
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		log.Printf("ERROR: API server failed to listen on %s: %v", addr, err)
		return err
	}
	log.Printf("Starting API server on %s", ln.Addr())
	return s.Serve(ln)
}

// Serve serves on an existing listener. This is blocking.
func (s *Server) Serve(ln net.Listener) error {
	if err := s.httpServer.Serve(ln); err != nil && err != http.ErrServerClosed {
		log.Printf("ERROR: API server stopped: %v", err)
		return err
	}
	return nil
}

// Shutdown closes WebSocket clients and stops the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	s.wsMgr.stop()
	return s.httpServer.Shutdown(ctx)
}

// recoverMiddleware prevents panics from crashing the whole server
func (s *Server) recoverMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				log.Printf("PANIC RECOV: %v", err)
				http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// authMiddleware checks the API token if configured
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log.Printf("API: %s %s from %s", r.Method, r.URL.Path, r.RemoteAddr)

		// Skip auth for health check
		if r.URL.Path == "/health" || s.token == "" {
			next.ServeHTTP(w, r)
			return
		}

		// Browsers cannot set headers on WebSocket upgrades, so /ws may use ?token=
		got := r.URL.Query().Get("token")
		if auth := r.Header.Get("Authorization"); auth != "" {
			got = auth
		} else if got != "" {
			got = "Bearer " + got
		}
		if subtle.ConstantTimeCompare([]byte(got), []byte("Bearer "+s.token)) != 1 {
			writeJSON(w, http.StatusUnauthorized, protocol.Result{
				Type:  protocol.TypeResult,
				Error: &protocol.ErrorBody{Code: protocol.CodeUnauthorized, Message: "missing or invalid token"},
			})
			return
		}

		next.ServeHTTP(w, r)
	})
}

// handleCommand handles POST /api/commands/{name}
func (s *Server) handleCommand(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	body, err := io.ReadAll(io.LimitReader(r.Body, maxPayload))
	if err != nil {
		http.Error(w, "Failed to read request body", http.StatusBadRequest)
		return
	}

	id := r.Header.Get("X-Request-ID")
	if id == "" {
		id = uuid.NewString()
	}

	res := s.commands.Invoke(id, name, body)
	status := http.StatusOK
	if res.Error != nil {
		status = statusFor(res.Error.Code)
	}
	writeJSON(w, status, res)
}

// handleListCommands handles GET /api/commands
func (s *Server) handleListCommands(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]string{"commands": s.commands.Names()})
}

// handleHealth handles GET /health (for monitoring)
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"clients": s.wsMgr.clientCount(),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("API: Failed to encode response: %v", err)
	}
}

package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/talentscout/hiring-assistant/internal/config"
	"github.com/talentscout/hiring-assistant/internal/generate"
	"github.com/talentscout/hiring-assistant/internal/interview"
	"github.com/talentscout/hiring-assistant/internal/llm"
	"github.com/talentscout/hiring-assistant/internal/logger"
	"github.com/talentscout/hiring-assistant/internal/review"
	"github.com/talentscout/hiring-assistant/internal/search"
	"github.com/talentscout/hiring-assistant/internal/store"
)

// Server represents the HTTP server
type Server struct {
	httpServer *http.Server
	store      store.Store
	gen        generate.Generator
	controller *interview.Controller
	review     *review.Service
	jwt        *JWTService
	llmClient  llm.Client
}

// New creates a fully wired server instance. With no database URL configured
// the server runs against the in-memory store, which is suitable only for
// local use.
func New(ctx context.Context, cfg *config.Config) (*Server, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var st store.Store
	if cfg.DatabaseURL != "" {
		pg, err := store.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		st = pg
	} else {
		logger.Warn().Msg("no database configured, using in-memory store")
		st = store.NewMemory()
	}

	client, err := llm.NewGeminiClient(ctx, llm.DefaultConfig(), cfg.APIKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create LLM client: %w", err)
	}

	var research search.Researcher
	if cfg.SearchEnabled {
		research = search.NewClient()
	}

	srv, err := newServer(cfg, st, generate.NewLLMGenerator(client), research)
	if err != nil {
		return nil, err
	}
	srv.llmClient = client
	return srv, nil
}

// newServer wires routes and services around the given collaborators.
func newServer(cfg *config.Config, st store.Store, gen generate.Generator, research search.Researcher) (*Server, error) {
	jwtService, err := NewJWTService(cfg.JWTSecret)
	if err != nil {
		return nil, err
	}

	s := &Server{
		store:      st,
		gen:        gen,
		controller: interview.NewController(st, gen, research, cfg.Interview),
		review:     review.NewService(st, gen),
		jwt:        jwtService,
	}

	mux := http.NewServeMux()

	// Candidate-facing endpoints
	mux.HandleFunc("POST /candidates", s.handleIntake)
	mux.HandleFunc("POST /candidates/{email}/confirm", s.handleConfirm)
	mux.HandleFunc("POST /candidates/{email}/messages", s.handleMessage)
	mux.HandleFunc("GET /candidates/{email}/status", s.handleStatus)
	mux.HandleFunc("GET /candidates/{email}/transcript", s.handleTranscript)
	mux.HandleFunc("DELETE /candidates/{email}", s.handleReset)

	// Manager authentication
	mux.HandleFunc("POST /auth/register", s.handleRegister)
	mux.HandleFunc("POST /auth/login", s.handleLogin)

	// Manager review endpoints
	mux.HandleFunc("GET /review/candidates", s.requireManager(s.handleListCompleted))
	mux.HandleFunc("GET /review/candidates/{email}", s.requireManager(s.handleReport))
	mux.HandleFunc("POST /review/candidates/{email}/reanalyze", s.requireManager(s.handleReanalyze))
	mux.HandleFunc("POST /review/candidates/{email}/actions", s.requireManager(s.handleAction))

	mux.HandleFunc("GET /health", s.handleHealth)

	s.httpServer = &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      s.withLogging(s.withCORS(mux)),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second, // Generation calls can be slow
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// Start begins listening for requests and blocks until shutdown.
func (s *Server) Start() error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", s.httpServer.Addr).Msg("server starting")
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-stop:
	}
	logger.Info().Msg("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	if s.llmClient != nil {
		_ = s.llmClient.Close()
	}
	if pg, ok := s.store.(*store.Postgres); ok {
		pg.Close()
	}
	logger.Info().Msg("server stopped")
	return nil
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error().Err(err).Msg("failed to encode JSON response")
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}

// serviceError maps a service-layer error onto the response.
func (s *Server) serviceError(w http.ResponseWriter, err error) {
	status := HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		logger.Error().Err(err).Msg("request failed")
	}
	s.errorResponse(w, status, err.Error())
}

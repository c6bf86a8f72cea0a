package server

import (
	"encoding/json"
	"net/http"

	"golang.org/x/crypto/bcrypt"

	"github.com/talentscout/hiring-assistant/internal/interview"
	"github.com/talentscout/hiring-assistant/internal/logger"
	"github.com/talentscout/hiring-assistant/internal/store"
	"github.com/talentscout/hiring-assistant/internal/types"
)

// registerRequest creates a reviewing-manager account.
type registerRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

// loginResponse carries the session token.
type loginResponse struct {
	Token   string         `json:"token"`
	Manager *store.Manager `json:"manager"`
}

// handleRegister creates a manager account.
func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Email == "" || req.Name == "" || len(req.Password) < 8 {
		s.errorResponse(w, http.StatusBadRequest, "email, name, and a password of at least 8 characters are required")
		return
	}

	email := normalizeEmail(req.Email)
	existing, err := s.store.GetManagerByEmail(r.Context(), email)
	if err != nil {
		s.serviceError(w, interview.NewPersistenceError("read manager", err))
		return
	}
	if existing != nil {
		s.serviceError(w, &ErrEmailAlreadyExists{Email: email})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		s.serviceError(w, err)
		return
	}

	manager, err := s.store.CreateManager(r.Context(), email, req.Name, string(hash))
	if err != nil {
		s.serviceError(w, interview.NewPersistenceError("create manager", err))
		return
	}
	logger.Info().Str("manager", email).Msg("manager account created")
	s.jsonResponse(w, http.StatusCreated, manager)
}

// handleLogin authenticates a manager and issues a session token.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req types.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	manager, err := s.store.GetManagerByEmail(r.Context(), normalizeEmail(req.Email))
	if err != nil {
		s.serviceError(w, interview.NewPersistenceError("read manager", err))
		return
	}
	if manager == nil || bcrypt.CompareHashAndPassword([]byte(manager.PasswordHash), []byte(req.Password)) != nil {
		s.serviceError(w, &ErrInvalidCredentials{})
		return
	}

	token, err := s.jwt.GenerateToken(manager.ID)
	if err != nil {
		s.serviceError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, loginResponse{Token: token, Manager: manager})
}

// handleListCompleted returns candidates whose interview finished.
func (s *Server) handleListCompleted(w http.ResponseWriter, r *http.Request) {
	candidates, err := s.review.ListCompleted(r.Context())
	if err != nil {
		s.serviceError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"candidates": candidates})
}

// handleReport returns the full review record for one candidate.
func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	report, err := s.review.Report(r.Context(), normalizeEmail(r.PathValue("email")))
	if err != nil {
		s.serviceError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, report)
}

// handleReanalyze recomputes the candidate's analysis on demand.
func (s *Server) handleReanalyze(w http.ResponseWriter, r *http.Request) {
	analysis, err := s.review.Reanalyze(r.Context(), normalizeEmail(r.PathValue("email")))
	if err != nil {
		s.serviceError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, analysis)
}

// handleAction records a manager decision for a candidate.
func (s *Server) handleAction(w http.ResponseWriter, r *http.Request) {
	var req types.ManagerActionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	managerID := managerIDFromContext(r.Context())
	action, err := s.review.RecordAction(r.Context(), normalizeEmail(r.PathValue("email")), managerID.String(), &req)
	if err != nil {
		s.serviceError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusCreated, action)
}

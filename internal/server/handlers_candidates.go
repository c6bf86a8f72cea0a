package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/talentscout/hiring-assistant/internal/generate"
	"github.com/talentscout/hiring-assistant/internal/ingestion"
	"github.com/talentscout/hiring-assistant/internal/interview"
	"github.com/talentscout/hiring-assistant/internal/logger"
	"github.com/talentscout/hiring-assistant/internal/types"
)

// intakeResponse returns the extracted profile for the candidate to confirm.
type intakeResponse struct {
	Profile *types.CandidateProfile `json:"profile"`
	Message string                  `json:"message"`
}

// confirmResponse reports the confirmation outcome. Confirmed is true once
// the interview has started; until then Message prompts the candidate to
// confirm or correct.
type confirmResponse struct {
	Confirmed bool                    `json:"confirmed"`
	Profile   *types.CandidateProfile `json:"profile"`
	Message   string                  `json:"message"`
}

// messageResponse is the reply to one conversation turn.
type messageResponse struct {
	Reply string      `json:"reply"`
	Phase types.Phase `json:"phase"`
}

const confirmPrompt = "Here's what I got from your resume. Does everything look right? " +
	"Reply \"yes\" to start, or tell me what to fix (for example: \"my location is Mumbai\")."

// handleIntake accepts a resume upload, extracts the candidate profile, and
// stores it pending confirmation.
func (s *Server) handleIntake(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(ingestion.MaxResumeBytes); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "expected multipart form with a 'resume' file")
		return
	}
	file, header, err := r.FormFile("resume")
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "missing 'resume' file")
		return
	}
	defer func() { _ = file.Close() }()

	text, err := ingestion.ExtractText(file, header.Filename)
	if err != nil {
		s.serviceError(w, err)
		return
	}

	profile, err := s.gen.ExtractProfile(r.Context(), text)
	if err != nil {
		s.serviceError(w, err)
		return
	}
	if err := profile.Validate(); err != nil {
		s.errorResponse(w, http.StatusUnprocessableEntity,
			fmt.Sprintf("resume is missing required details: %v", err))
		return
	}

	if err := s.store.SaveCandidate(r.Context(), profile, text); err != nil {
		s.serviceError(w, interview.NewPersistenceError("save candidate", err))
		return
	}
	logger.Info().Str("candidate", profile.Email).Msg("candidate profile extracted")

	s.jsonResponse(w, http.StatusCreated, intakeResponse{Profile: profile, Message: confirmPrompt})
}

// handleConfirm processes the candidate's reply to the extracted profile.
// A confirmation starts the interview; a correction updates the profile and
// asks again.
func (s *Server) handleConfirm(w http.ResponseWriter, r *http.Request) {
	email := normalizeEmail(r.PathValue("email"))

	var req types.ConfirmRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	profile, err := s.store.GetCandidate(r.Context(), email)
	if err != nil {
		s.serviceError(w, interview.NewPersistenceError("read candidate profile", err))
		return
	}
	if profile == nil {
		s.serviceError(w, interview.NewNotFoundError("candidate", email))
		return
	}

	update, err := s.gen.ParseProfileUpdate(r.Context(), req.Text, profile)
	if err != nil {
		logger.Warn().Err(err).Str("candidate", email).Msg("profile update parsing failed")
		update = &generate.ProfileUpdate{Action: generate.UpdateActionUnclear}
	}

	switch update.Action {
	case generate.UpdateActionConfirm:
		greeting, err := s.controller.Begin(r.Context(), profile)
		if err != nil {
			s.serviceError(w, err)
			return
		}
		s.jsonResponse(w, http.StatusOK, confirmResponse{Confirmed: true, Profile: profile, Message: greeting})

	case generate.UpdateActionUpdate:
		if !profile.ApplyCorrection(update.Field, update.Value) {
			s.jsonResponse(w, http.StatusOK, confirmResponse{
				Profile: profile,
				Message: fmt.Sprintf("I can't change %q, but I can update your name, phone, position, or location. Anything else?", update.Field),
			})
			return
		}
		if err := s.store.UpdateCandidate(r.Context(), profile); err != nil {
			s.serviceError(w, interview.NewPersistenceError("update candidate", err))
			return
		}
		s.jsonResponse(w, http.StatusOK, confirmResponse{
			Profile: profile,
			Message: "Updated! Does everything look right now?",
		})

	default:
		s.jsonResponse(w, http.StatusOK, confirmResponse{
			Profile: profile,
			Message: "Sorry, I didn't catch that. Reply \"yes\" to start the interview, or tell me which detail to fix.",
		})
	}
}

// handleMessage is the single conversation entry point: one candidate
// message in, exactly one assistant reply out.
func (s *Server) handleMessage(w http.ResponseWriter, r *http.Request) {
	email := normalizeEmail(r.PathValue("email"))

	var req types.MessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	reply, err := s.controller.Advance(r.Context(), email, req.Text)
	if err != nil {
		s.serviceError(w, err)
		return
	}

	state, err := s.controller.Status(r.Context(), email)
	if err != nil {
		s.serviceError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, messageResponse{Reply: reply, Phase: state.Phase})
}

// handleStatus returns the conversation state for progress display.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	state, err := s.controller.Status(r.Context(), normalizeEmail(r.PathValue("email")))
	if err != nil {
		s.serviceError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, state)
}

// handleTranscript returns the full chat log in append order.
func (s *Server) handleTranscript(w http.ResponseWriter, r *http.Request) {
	entries, err := s.controller.Transcript(r.Context(), normalizeEmail(r.PathValue("email")))
	if err != nil {
		s.serviceError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"entries": entries})
}

// handleReset wipes the candidate's conversation so the interview can be
// restarted.
func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	if err := s.controller.Reset(r.Context(), normalizeEmail(r.PathValue("email"))); err != nil {
		s.serviceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

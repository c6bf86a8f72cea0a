package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talentscout/hiring-assistant/internal/config"
	"github.com/talentscout/hiring-assistant/internal/generate"
	"github.com/talentscout/hiring-assistant/internal/llm"
	"github.com/talentscout/hiring-assistant/internal/store"
	"github.com/talentscout/hiring-assistant/internal/types"
)

// stubGenerator drives handler tests with deterministic content.
type stubGenerator struct {
	profile *types.CandidateProfile
	update  *generate.ProfileUpdate
	failAll bool
}

func (s *stubGenerator) fail(intent string) error {
	return llm.NewGenerationError(intent, fmt.Errorf("stub failure"))
}

func (s *stubGenerator) RapportReply(context.Context, *types.CandidateProfile, []types.TranscriptEntry, string) (string, error) {
	if s.failAll {
		return "", s.fail("rapport")
	}
	return "Tell me more!", nil
}

func (s *stubGenerator) QuestionSet(context.Context, *types.CandidateProfile, string, int) ([]string, error) {
	if s.failAll {
		return nil, s.fail("questions")
	}
	return []string{"Q1", "Q2", "Q3", "Q4", "Q5"}, nil
}

func (s *stubGenerator) FollowUpQuestion(context.Context, *types.CandidateProfile, types.AnsweredQuestion) (string, error) {
	return "", s.fail("follow-up")
}

func (s *stubGenerator) AnswerFeedback(context.Context, *types.CandidateProfile, string, string) (*types.AnswerFeedback, error) {
	if s.failAll {
		return nil, s.fail("feedback")
	}
	return &types.AnswerFeedback{Score: 7, Feedback: "Good."}, nil
}

func (s *stubGenerator) Analysis(context.Context, *types.CandidateProfile, []types.AnsweredQuestion) (*types.ComprehensiveAnalysis, error) {
	if s.failAll {
		return nil, s.fail("analysis")
	}
	return &types.ComprehensiveAnalysis{TechnicalScore: 8, CommunicationScore: 7, ProblemSolvingScore: 9, Summary: "Strong."}, nil
}

func (s *stubGenerator) PostInterviewAnswer(context.Context, *types.CandidateProfile, []types.AnsweredQuestion, string) (string, error) {
	if s.failAll {
		return "", s.fail("post-interview")
	}
	return "We'll be in touch.", nil
}

func (s *stubGenerator) ExtractProfile(context.Context, string) (*types.CandidateProfile, error) {
	if s.profile == nil {
		return nil, s.fail("extraction")
	}
	out := *s.profile
	return &out, nil
}

func (s *stubGenerator) ParseProfileUpdate(context.Context, string, *types.CandidateProfile) (*generate.ProfileUpdate, error) {
	if s.update == nil {
		return nil, s.fail("profile-update")
	}
	out := *s.update
	return &out, nil
}

func adaProfile() *types.CandidateProfile {
	return &types.CandidateProfile{
		Email:           "ada@example.com",
		FullName:        "Ada Lovelace",
		YearsExperience: 5,
		DesiredPosition: "Backend Engineer",
		TechStack:       []string{"Go"},
	}
}

func newTestServer(t *testing.T, gen generate.Generator) (*Server, *store.Memory) {
	t.Helper()
	cfg := config.Default()
	cfg.JWTSecret = "test-secret"
	mem := store.NewMemory()
	srv, err := newServer(cfg, mem, gen, nil)
	require.NoError(t, err)
	return srv, mem
}

func doJSON(t *testing.T, srv *Server, method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	srv.httpServer.Handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestHealth(t *testing.T) {
	srv, _ := newTestServer(t, &stubGenerator{})
	rec := doJSON(t, srv, http.MethodGet, "/health", nil, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestIntakeExtractsProfile(t *testing.T) {
	srv, mem := newTestServer(t, &stubGenerator{profile: adaProfile()})

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("resume", "resume.txt")
	require.NoError(t, err)
	_, err = part.Write([]byte("Ada Lovelace\nada@example.com\nGo, PostgreSQL"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/candidates", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	srv.httpServer.Handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	resp := decodeBody[intakeResponse](t, rec)
	assert.Equal(t, "ada@example.com", resp.Profile.Email)
	assert.NotEmpty(t, resp.Message)

	saved, err := mem.GetCandidate(context.Background(), "ada@example.com")
	require.NoError(t, err)
	require.NotNil(t, saved)
	assert.Equal(t, "Ada Lovelace", saved.FullName)
}

func TestIntakeRejectsUnsupportedFile(t *testing.T) {
	srv, _ := newTestServer(t, &stubGenerator{profile: adaProfile()})

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("resume", "resume.exe")
	require.NoError(t, err)
	_, err = part.Write([]byte("binary"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/candidates", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	srv.httpServer.Handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestConfirmStartsInterview(t *testing.T) {
	gen := &stubGenerator{update: &generate.ProfileUpdate{Action: generate.UpdateActionConfirm}}
	srv, mem := newTestServer(t, gen)
	require.NoError(t, mem.SaveCandidate(context.Background(), adaProfile(), ""))

	rec := doJSON(t, srv, http.MethodPost, "/candidates/ada@example.com/confirm", types.ConfirmRequest{Text: "yes"}, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	resp := decodeBody[confirmResponse](t, rec)
	assert.True(t, resp.Confirmed)
	assert.Contains(t, resp.Message, "Ada Lovelace")

	state, err := mem.GetState(context.Background(), "ada@example.com")
	require.NoError(t, err)
	require.NotNil(t, state)
	assert.Equal(t, types.PhaseIntro, state.Phase)
}

func TestConfirmAppliesCorrection(t *testing.T) {
	gen := &stubGenerator{update: &generate.ProfileUpdate{Action: generate.UpdateActionUpdate, Field: "location", Value: "Mumbai"}}
	srv, mem := newTestServer(t, gen)
	require.NoError(t, mem.SaveCandidate(context.Background(), adaProfile(), ""))

	rec := doJSON(t, srv, http.MethodPost, "/candidates/ada@example.com/confirm", types.ConfirmRequest{Text: "my location is Mumbai"}, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeBody[confirmResponse](t, rec)
	assert.False(t, resp.Confirmed)
	assert.Equal(t, "Mumbai", resp.Profile.Location)

	saved, err := mem.GetCandidate(context.Background(), "ada@example.com")
	require.NoError(t, err)
	assert.Equal(t, "Mumbai", saved.Location)
}

func TestConfirmUnparsableReplyAsksAgain(t *testing.T) {
	srv, mem := newTestServer(t, &stubGenerator{}) // ParseProfileUpdate fails
	require.NoError(t, mem.SaveCandidate(context.Background(), adaProfile(), ""))

	rec := doJSON(t, srv, http.MethodPost, "/candidates/ada@example.com/confirm", types.ConfirmRequest{Text: "hmmm"}, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeBody[confirmResponse](t, rec)
	assert.False(t, resp.Confirmed)
}

func TestMessageUnknownCandidate(t *testing.T) {
	srv, _ := newTestServer(t, &stubGenerator{})
	rec := doJSON(t, srv, http.MethodPost, "/candidates/ghost@example.com/messages", types.MessageRequest{Text: "hi"}, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMessageFlow(t *testing.T) {
	srv, mem := newTestServer(t, &stubGenerator{})
	require.NoError(t, mem.SaveCandidate(context.Background(), adaProfile(), ""))
	_, err := srv.controller.Begin(context.Background(), adaProfile())
	require.NoError(t, err)

	rec := doJSON(t, srv, http.MethodPost, "/candidates/ada@example.com/messages", types.MessageRequest{Text: "hello"}, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	resp := decodeBody[messageResponse](t, rec)
	assert.NotEmpty(t, resp.Reply)
	assert.Equal(t, types.PhaseIntro, resp.Phase)
}

func TestStatusAndTranscript(t *testing.T) {
	srv, mem := newTestServer(t, &stubGenerator{})
	require.NoError(t, mem.SaveCandidate(context.Background(), adaProfile(), ""))
	_, err := srv.controller.Begin(context.Background(), adaProfile())
	require.NoError(t, err)

	rec := doJSON(t, srv, http.MethodGet, "/candidates/ada@example.com/status", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	state := decodeBody[types.ConversationState](t, rec)
	assert.Equal(t, types.PhaseIntro, state.Phase)

	rec = doJSON(t, srv, http.MethodGet, "/candidates/ada@example.com/transcript", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, srv, http.MethodGet, "/candidates/ghost@example.com/status", nil, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestResetEndpoint(t *testing.T) {
	srv, mem := newTestServer(t, &stubGenerator{})
	require.NoError(t, mem.SaveCandidate(context.Background(), adaProfile(), ""))
	_, err := srv.controller.Begin(context.Background(), adaProfile())
	require.NoError(t, err)

	rec := doJSON(t, srv, http.MethodDelete, "/candidates/ada@example.com", nil, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(t, srv, http.MethodGet, "/candidates/ada@example.com/status", nil, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

// Package store provides durable persistence for candidate profiles,
// conversation state, transcripts, scored answers, and analyses.
//
// The store is a passive ledger: it holds no interview logic, and all
// mutation goes through the conversation controller. Reads that find nothing
// return (nil, nil) rather than an error.
package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/talentscout/hiring-assistant/internal/types"
)

// ConversationStore is the minimum operation set the controller needs.
type ConversationStore interface {
	// GetState returns the conversation state for a candidate, or nil when
	// no conversation exists.
	GetState(ctx context.Context, email string) (*types.ConversationState, error)
	// UpsertState creates the state if absent, else merges the non-nil fields
	// of update. The update timestamp is always refreshed.
	UpsertState(ctx context.Context, email string, update types.StateUpdate) error
	// AppendTranscript appends one chat log line.
	AppendTranscript(ctx context.Context, email, role, text string) error
	// GetTranscript returns the transcript in append order.
	GetTranscript(ctx context.Context, email string) ([]types.TranscriptEntry, error)
	// SaveAnswer stores one answered question, keyed by (email, seq).
	// Saving the same seq twice overwrites.
	SaveAnswer(ctx context.Context, email string, answer types.AnsweredQuestion) error
	// GetAnswers returns answered questions ordered by seq.
	GetAnswers(ctx context.Context, email string) ([]types.AnsweredQuestion, error)
	// SaveAnalysis upserts the comprehensive analysis for a candidate.
	SaveAnalysis(ctx context.Context, email string, analysis *types.ComprehensiveAnalysis) error
	// GetAnalysis returns the stored analysis, or nil when absent.
	GetAnalysis(ctx context.Context, email string) (*types.ComprehensiveAnalysis, error)
	// Clear wipes state, transcript, answers, and analysis for a candidate.
	Clear(ctx context.Context, email string) error
}

// CandidateStore persists candidate profiles and manager review records.
type CandidateStore interface {
	SaveCandidate(ctx context.Context, profile *types.CandidateProfile, resumeText string) error
	GetCandidate(ctx context.Context, email string) (*types.CandidateProfile, error)
	// UpdateCandidate replaces the stored profile fields for profile.Email.
	UpdateCandidate(ctx context.Context, profile *types.CandidateProfile) error
	// ListCompletedCandidates returns candidates whose conversation reached
	// POST_QA or TERMINATED, newest first.
	ListCompletedCandidates(ctx context.Context) ([]types.CandidateProfile, error)
	SaveManagerAction(ctx context.Context, action types.ManagerAction) error
	GetManagerActions(ctx context.Context, email string) ([]types.ManagerAction, error)
}

// ManagerStore persists reviewing-manager accounts.
type ManagerStore interface {
	GetManagerByEmail(ctx context.Context, email string) (*Manager, error)
	CreateManager(ctx context.Context, email, name, passwordHash string) (*Manager, error)
}

// Store combines every persistence concern behind one interface.
type Store interface {
	ConversationStore
	CandidateStore
	ManagerStore
}

// Manager is a reviewing-manager account record.
type Manager struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// Package review exposes the reviewing-manager operations: listing screened
// candidates, reading their reports, re-running analysis, and recording
// decisions.
package review

import (
	"context"
	"time"

	"github.com/talentscout/hiring-assistant/internal/generate"
	"github.com/talentscout/hiring-assistant/internal/interview"
	"github.com/talentscout/hiring-assistant/internal/logger"
	"github.com/talentscout/hiring-assistant/internal/scoring"
	"github.com/talentscout/hiring-assistant/internal/store"
	"github.com/talentscout/hiring-assistant/internal/types"
)

// Report bundles everything a manager sees for one candidate.
type Report struct {
	Profile  *types.CandidateProfile      `json:"profile"`
	Analysis *types.ComprehensiveAnalysis `json:"analysis,omitempty"`
	Answers  []types.AnsweredQuestion     `json:"answers,omitempty"`
	Actions  []types.ManagerAction        `json:"actions,omitempty"`
}

// Service implements the review operations on top of the store.
type Service struct {
	store store.Store
	gen   generate.Generator
}

// NewService creates a review Service.
func NewService(st store.Store, gen generate.Generator) *Service {
	return &Service{store: st, gen: gen}
}

// ListCompleted returns candidates whose interview reached the post-interview
// stage, newest first.
func (s *Service) ListCompleted(ctx context.Context) ([]types.CandidateProfile, error) {
	candidates, err := s.store.ListCompletedCandidates(ctx)
	if err != nil {
		return nil, interview.NewPersistenceError("list completed candidates", err)
	}
	return candidates, nil
}

// Report assembles the full review record for one candidate.
func (s *Service) Report(ctx context.Context, email string) (*Report, error) {
	profile, err := s.store.GetCandidate(ctx, email)
	if err != nil {
		return nil, interview.NewPersistenceError("read candidate profile", err)
	}
	if profile == nil {
		return nil, interview.NewNotFoundError("candidate", email)
	}

	analysis, err := s.store.GetAnalysis(ctx, email)
	if err != nil {
		return nil, interview.NewPersistenceError("read analysis", err)
	}
	answers, err := s.store.GetAnswers(ctx, email)
	if err != nil {
		return nil, interview.NewPersistenceError("read answers", err)
	}
	actions, err := s.store.GetManagerActions(ctx, email)
	if err != nil {
		return nil, interview.NewPersistenceError("read manager actions", err)
	}

	return &Report{Profile: profile, Analysis: analysis, Answers: answers, Actions: actions}, nil
}

// Reanalyze recomputes the comprehensive analysis from the recorded answers
// and overwrites the stored one. Unlike the in-interview scoring path this is
// an explicit manager action, so a generation failure is surfaced rather than
// absorbed.
func (s *Service) Reanalyze(ctx context.Context, email string) (*types.ComprehensiveAnalysis, error) {
	profile, err := s.store.GetCandidate(ctx, email)
	if err != nil {
		return nil, interview.NewPersistenceError("read candidate profile", err)
	}
	if profile == nil {
		return nil, interview.NewNotFoundError("candidate", email)
	}

	answers, err := s.store.GetAnswers(ctx, email)
	if err != nil {
		return nil, interview.NewPersistenceError("read answers", err)
	}
	if len(answers) == 0 {
		return nil, interview.NewNotFoundError("answers", email)
	}

	analysis, err := s.gen.Analysis(ctx, profile, answers)
	if err != nil {
		return nil, err
	}
	analysis.OverallScore = scoring.Overall(analysis.TechnicalScore, analysis.CommunicationScore, analysis.ProblemSolvingScore)
	analysis.HiringRecommendation = scoring.HiringRecommendation(scoring.ScoreTier(analysis.OverallScore))
	analysis.CreatedAt = time.Now().UTC()

	if err := s.store.SaveAnalysis(ctx, email, analysis); err != nil {
		return nil, interview.NewPersistenceError("save analysis", err)
	}
	logger.Info().Str("candidate", email).Float64("overall", analysis.OverallScore).Msg("analysis recomputed")
	return analysis, nil
}

// RecordAction stores a manager decision or note for a candidate.
func (s *Service) RecordAction(ctx context.Context, email, managerID string, req *types.ManagerActionRequest) (*types.ManagerAction, error) {
	profile, err := s.store.GetCandidate(ctx, email)
	if err != nil {
		return nil, interview.NewPersistenceError("read candidate profile", err)
	}
	if profile == nil {
		return nil, interview.NewNotFoundError("candidate", email)
	}

	action := types.ManagerAction{
		CandidateEmail: email,
		ManagerID:      managerID,
		Action:         req.Action,
		Notes:          req.Notes,
		CreatedAt:      time.Now().UTC(),
	}
	if err := s.store.SaveManagerAction(ctx, action); err != nil {
		return nil, interview.NewPersistenceError("save manager action", err)
	}
	return &action, nil
}

package interview

import (
	"context"

	"github.com/talentscout/hiring-assistant/internal/generate"
	"github.com/talentscout/hiring-assistant/internal/logger"
	"github.com/talentscout/hiring-assistant/internal/types"
)

// Sequencer selects the next technical question. Pre-generated questions are
// consumed in order; past the end of the list it asks the generator for a
// follow-up conditioned on the prior answer, degrading to a static question.
// It always returns non-empty text and never repeats the immediately
// preceding question.
type Sequencer struct {
	gen generate.Generator
}

// NewSequencer creates a Sequencer backed by gen.
func NewSequencer(gen generate.Generator) *Sequencer {
	return &Sequencer{gen: gen}
}

// NextQuestion returns the question to ask after answeredCount answers.
// prev is the most recently answered question, with its feedback attached.
func (s *Sequencer) NextQuestion(ctx context.Context, profile *types.CandidateProfile, preGenerated []string, answeredCount int, prev *types.AnsweredQuestion) string {
	previous := ""
	if prev != nil {
		previous = prev.Question
	}

	if answeredCount < len(preGenerated) {
		q := preGenerated[answeredCount]
		if q != "" && q != previous {
			return q
		}
		// A bad pre-generated entry falls through to the static pool.
	}

	if prev != nil {
		q, err := s.gen.FollowUpQuestion(ctx, profile, *prev)
		if err == nil && q != "" && q != previous {
			return q
		}
		if err != nil {
			logger.Warn().Err(err).Str("candidate", profile.Email).Msg("follow-up generation failed, using static question")
		}
	}

	return fallbackQuestion(profile, answeredCount, previous)
}

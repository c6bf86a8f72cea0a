// Package generate produces phase-appropriate interview content from
// structured context via the text-generation client.
//
// Every method may fail with *llm.GenerationError; callers recover with
// deterministic fallback content so the interview protocol never stalls on
// the model.
package generate

import (
	"context"
	"fmt"
	"strings"

	"github.com/talentscout/hiring-assistant/internal/types"
)

// ProfileUpdate is the parsed outcome of a candidate's confirmation reply.
type ProfileUpdate struct {
	Action string `json:"action"` // "confirm", "update", or "unclear"
	Field  string `json:"field,omitempty"`
	Value  string `json:"value,omitempty"`
}

// Profile-update actions.
const (
	UpdateActionConfirm = "confirm"
	UpdateActionUpdate  = "update"
	UpdateActionUnclear = "unclear"
)

// Generator produces content for each prompt intent of the interview.
type Generator interface {
	// RapportReply generates a conversational reply during the intro phase.
	RapportReply(ctx context.Context, profile *types.CandidateProfile, history []types.TranscriptEntry, input string) (string, error)
	// QuestionSet generates count tailored interview questions.
	QuestionSet(ctx context.Context, profile *types.CandidateProfile, searchContext string, count int) ([]string, error)
	// FollowUpQuestion generates the next question from the previous answer.
	FollowUpQuestion(ctx context.Context, profile *types.CandidateProfile, prev types.AnsweredQuestion) (string, error)
	// AnswerFeedback scores one answer and returns structured feedback.
	AnswerFeedback(ctx context.Context, profile *types.CandidateProfile, question, answer string) (*types.AnswerFeedback, error)
	// Analysis produces the comprehensive end-of-interview analysis.
	Analysis(ctx context.Context, profile *types.CandidateProfile, answers []types.AnsweredQuestion) (*types.ComprehensiveAnalysis, error)
	// PostInterviewAnswer answers a candidate question using the full
	// interview as context.
	PostInterviewAnswer(ctx context.Context, profile *types.CandidateProfile, answers []types.AnsweredQuestion, input string) (string, error)
	// ExtractProfile extracts a structured candidate profile from resume text.
	ExtractProfile(ctx context.Context, resumeText string) (*types.CandidateProfile, error)
	// ParseProfileUpdate classifies a confirmation-phase reply.
	ParseProfileUpdate(ctx context.Context, input string, profile *types.CandidateProfile) (*ProfileUpdate, error)
}

// profileData builds the placeholder map shared by most prompt templates.
func profileData(profile *types.CandidateProfile) map[string]string {
	return map[string]string{
		"Name":       profile.FullName,
		"Position":   profile.DesiredPosition,
		"Experience": fmt.Sprintf("%d", profile.YearsExperience),
		"TechStack":  strings.Join(profile.TechStack, ", "),
	}
}

// historyText renders the last few transcript entries for prompt context.
func historyText(history []types.TranscriptEntry, last int) string {
	if len(history) > last {
		history = history[len(history)-last:]
	}
	var sb strings.Builder
	for _, e := range history {
		role := "Interviewer"
		if e.Role == types.RoleCandidate {
			role = "Candidate"
		}
		fmt.Fprintf(&sb, "%s: %s\n", role, e.Text)
	}
	return sb.String()
}

// qaSummary renders answered questions for prompt context.
func qaSummary(answers []types.AnsweredQuestion) string {
	var sb strings.Builder
	for _, a := range answers {
		fmt.Fprintf(&sb, "Q%d: %s\nA%d: %s\n\n", a.Seq, a.Question, a.Seq, a.Answer)
	}
	return sb.String()
}

// feedbackSummary renders per-answer scores for the analysis prompt.
func feedbackSummary(answers []types.AnsweredQuestion) string {
	var sb strings.Builder
	for _, a := range answers {
		if a.Score == nil {
			fmt.Fprintf(&sb, "Q%d: not scored\n", a.Seq)
			continue
		}
		fmt.Fprintf(&sb, "Q%d: %.1f/10 - %s\n", a.Seq, *a.Score, a.Feedback)
	}
	return sb.String()
}

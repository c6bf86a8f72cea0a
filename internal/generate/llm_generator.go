package generate

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/talentscout/hiring-assistant/internal/llm"
	"github.com/talentscout/hiring-assistant/internal/prompts"
	"github.com/talentscout/hiring-assistant/internal/types"
)

// Prompt intents, used for error reporting.
const (
	intentRapport       = "rapport_reply"
	intentQuestionSet   = "question_set"
	intentFollowUp      = "follow_up_question"
	intentFeedback      = "answer_feedback"
	intentAnalysis      = "comprehensive_analysis"
	intentPostInterview = "post_interview_answer"
	intentExtraction    = "profile_extraction"
	intentProfileUpdate = "profile_update"
)

// maxHistoryEntries bounds the transcript window included in rapport prompts.
const maxHistoryEntries = 10

// LLMGenerator implements Generator on top of an llm.Client. Structured
// responses are validated against a JSON Schema before decoding.
type LLMGenerator struct {
	client llm.Client
}

// NewLLMGenerator creates a Generator backed by the given client.
func NewLLMGenerator(client llm.Client) *LLMGenerator {
	return &LLMGenerator{client: client}
}

var _ Generator = (*LLMGenerator)(nil)

// RapportReply generates a conversational reply during the intro phase.
func (g *LLMGenerator) RapportReply(ctx context.Context, profile *types.CandidateProfile, history []types.TranscriptEntry, input string) (string, error) {
	data := profileData(profile)
	data["History"] = historyText(history, maxHistoryEntries)
	data["Input"] = input

	prompt := prompts.Format(prompts.MustGet(intentRapport), data)
	reply, err := g.client.GenerateContent(ctx, prompt, llm.TierLite)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(reply), nil
}

// QuestionSet generates count tailored interview questions.
func (g *LLMGenerator) QuestionSet(ctx context.Context, profile *types.CandidateProfile, searchContext string, count int) ([]string, error) {
	if count < 1 {
		return nil, llm.NewGenerationError(intentQuestionSet, fmt.Errorf("question count must be positive, got %d", count))
	}
	if searchContext == "" {
		searchContext = "(none available)"
	}

	data := profileData(profile)
	data["SearchContext"] = searchContext
	data["Count"] = strconv.Itoa(count)

	prompt := prompts.Format(prompts.MustGet(intentQuestionSet), data)
	raw, err := g.client.GenerateJSON(ctx, prompt, llm.TierStandard)
	if err != nil {
		return nil, err
	}
	if err := validateAgainst(questionSetSchema, raw); err != nil {
		return nil, llm.NewGenerationError(intentQuestionSet, err)
	}

	var questions []string
	if err := json.Unmarshal([]byte(raw), &questions); err != nil {
		return nil, llm.NewGenerationError(intentQuestionSet, err)
	}
	for i, q := range questions {
		questions[i] = strings.TrimSpace(q)
	}
	if len(questions) > count {
		questions = questions[:count]
	}
	return questions, nil
}

// FollowUpQuestion generates the next question from the previous answer.
func (g *LLMGenerator) FollowUpQuestion(ctx context.Context, profile *types.CandidateProfile, prev types.AnsweredQuestion) (string, error) {
	data := profileData(profile)
	data["Question"] = prev.Question
	data["Answer"] = prev.Answer
	data["Feedback"] = prev.Feedback

	prompt := prompts.Format(prompts.MustGet(intentFollowUp), data)
	question, err := g.client.GenerateContent(ctx, prompt, llm.TierStandard)
	if err != nil {
		return "", err
	}
	question = strings.TrimSpace(question)
	if question == "" {
		return "", llm.NewGenerationError(intentFollowUp, fmt.Errorf("empty question"))
	}
	return question, nil
}

// AnswerFeedback scores one answer and returns structured feedback.
func (g *LLMGenerator) AnswerFeedback(ctx context.Context, profile *types.CandidateProfile, question, answer string) (*types.AnswerFeedback, error) {
	data := profileData(profile)
	data["Question"] = question
	data["Answer"] = answer

	prompt := prompts.Format(prompts.MustGet(intentFeedback), data)
	raw, err := g.client.GenerateJSON(ctx, prompt, llm.TierStandard)
	if err != nil {
		return nil, err
	}
	if err := validateAgainst(answerFeedbackSchema, raw); err != nil {
		return nil, llm.NewGenerationError(intentFeedback, err)
	}

	var fb types.AnswerFeedback
	if err := json.Unmarshal([]byte(raw), &fb); err != nil {
		return nil, llm.NewGenerationError(intentFeedback, err)
	}
	return &fb, nil
}

// Analysis produces the comprehensive end-of-interview analysis. The overall
// score and tier reported by the model are discarded; callers recompute them
// from the dimension scores so weighting stays consistent.
func (g *LLMGenerator) Analysis(ctx context.Context, profile *types.CandidateProfile, answers []types.AnsweredQuestion) (*types.ComprehensiveAnalysis, error) {
	data := profileData(profile)
	data["QASummary"] = qaSummary(answers)
	data["FeedbackSummary"] = feedbackSummary(answers)

	prompt := prompts.Format(prompts.MustGet(intentAnalysis), data)
	raw, err := g.client.GenerateJSON(ctx, prompt, llm.TierAdvanced)
	if err != nil {
		return nil, err
	}
	if err := validateAgainst(analysisSchema, raw); err != nil {
		return nil, llm.NewGenerationError(intentAnalysis, err)
	}

	var analysis types.ComprehensiveAnalysis
	if err := json.Unmarshal([]byte(raw), &analysis); err != nil {
		return nil, llm.NewGenerationError(intentAnalysis, err)
	}
	return &analysis, nil
}

// PostInterviewAnswer answers a candidate question after the interview.
func (g *LLMGenerator) PostInterviewAnswer(ctx context.Context, profile *types.CandidateProfile, answers []types.AnsweredQuestion, input string) (string, error) {
	data := profileData(profile)
	data["QASummary"] = qaSummary(answers)
	data["Input"] = input

	prompt := prompts.Format(prompts.MustGet(intentPostInterview), data)
	reply, err := g.client.GenerateContent(ctx, prompt, llm.TierLite)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(reply), nil
}

// ExtractProfile extracts a structured candidate profile from resume text.
func (g *LLMGenerator) ExtractProfile(ctx context.Context, resumeText string) (*types.CandidateProfile, error) {
	prompt := prompts.Format(prompts.MustGet(intentExtraction), map[string]string{
		"ResumeText": resumeText,
	})
	raw, err := g.client.GenerateJSON(ctx, prompt, llm.TierStandard)
	if err != nil {
		return nil, err
	}
	if err := validateAgainst(profileSchema, raw); err != nil {
		return nil, llm.NewGenerationError(intentExtraction, err)
	}

	var profile types.CandidateProfile
	if err := json.Unmarshal([]byte(raw), &profile); err != nil {
		return nil, llm.NewGenerationError(intentExtraction, err)
	}
	profile.Email = strings.ToLower(strings.TrimSpace(profile.Email))
	return &profile, nil
}

// ParseProfileUpdate classifies a candidate's confirmation-phase reply as a
// confirmation, a field correction, or unclear.
func (g *LLMGenerator) ParseProfileUpdate(ctx context.Context, input string, profile *types.CandidateProfile) (*ProfileUpdate, error) {
	summary, err := json.Marshal(profile)
	if err != nil {
		return nil, llm.NewGenerationError(intentProfileUpdate, err)
	}

	prompt := prompts.Format(prompts.MustGet(intentProfileUpdate), map[string]string{
		"Input":   input,
		"Profile": string(summary),
	})
	raw, err := g.client.GenerateJSON(ctx, prompt, llm.TierLite)
	if err != nil {
		return nil, err
	}
	if err := validateAgainst(profileUpdateSchema, raw); err != nil {
		return nil, llm.NewGenerationError(intentProfileUpdate, err)
	}

	var update ProfileUpdate
	if err := json.Unmarshal([]byte(raw), &update); err != nil {
		return nil, llm.NewGenerationError(intentProfileUpdate, err)
	}
	return &update, nil
}

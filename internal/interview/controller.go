// Package interview implements the conversation state machine that drives a
// candidate through the screening protocol: rapport building, technical
// questions, scoring, and post-interview Q&A.
//
// The controller exclusively owns phase transitions. Phases move one step at
// a time along INTRO -> TECHNICAL_QA -> SCORING -> POST_QA -> TERMINATED and
// never backward. Generation failures degrade to scripted fallbacks; the
// protocol never stalls because of the external model.
package interview

import (
	"context"
	"fmt"
	"time"

	"github.com/talentscout/hiring-assistant/internal/generate"
	"github.com/talentscout/hiring-assistant/internal/logger"
	"github.com/talentscout/hiring-assistant/internal/scoring"
	"github.com/talentscout/hiring-assistant/internal/search"
	"github.com/talentscout/hiring-assistant/internal/store"
	"github.com/talentscout/hiring-assistant/internal/types"
)

// Config holds the interview protocol parameters.
type Config struct {
	// RapportExchanges is the number of intro exchanges before the
	// technical phase begins.
	RapportExchanges int `json:"rapport_exchanges,omitempty"`
	// QuestionQuota is the number of technical questions each candidate
	// answers.
	QuestionQuota int `json:"question_quota,omitempty"`
}

// Protocol defaults.
const (
	DefaultRapportExchanges = 3
	DefaultQuestionQuota    = 5
)

// DefaultConfig returns the standard interview parameters.
func DefaultConfig() Config {
	return Config{
		RapportExchanges: DefaultRapportExchanges,
		QuestionQuota:    DefaultQuestionQuota,
	}
}

func (c Config) withDefaults() Config {
	if c.RapportExchanges <= 0 {
		c.RapportExchanges = DefaultRapportExchanges
	}
	if c.QuestionQuota <= 0 {
		c.QuestionQuota = DefaultQuestionQuota
	}
	return c
}

// Store is the persistence surface the controller needs.
type Store interface {
	store.ConversationStore
	GetCandidate(ctx context.Context, email string) (*types.CandidateProfile, error)
}

// Controller owns the conversation state machine for every candidate. All
// mutation of conversation state goes through Advance; presentation code
// only reads.
type Controller struct {
	store     Store
	gen       generate.Generator
	sequencer *Sequencer
	research  search.Researcher
	cfg       Config
	locks     *keyedMutex
}

// NewController creates a Controller. research may be nil, in which case
// question generation runs without web reference material.
func NewController(st Store, gen generate.Generator, research search.Researcher, cfg Config) *Controller {
	return &Controller{
		store:     st,
		gen:       gen,
		sequencer: NewSequencer(gen),
		research:  research,
		cfg:       cfg.withDefaults(),
		locks:     newKeyedMutex(),
	}
}

// Begin creates the conversation for a confirmed candidate and returns the
// opening greeting. Calling Begin for an existing conversation is a no-op
// that returns the greeting again.
func (c *Controller) Begin(ctx context.Context, profile *types.CandidateProfile) (string, error) {
	unlock := c.locks.Lock(profile.Email)
	defer unlock()

	greeting := Greeting(profile)

	state, err := c.store.GetState(ctx, profile.Email)
	if err != nil {
		return "", NewPersistenceError("read conversation state", err)
	}
	if state != nil {
		return greeting, nil
	}

	if err := c.store.UpsertState(ctx, profile.Email, types.StateUpdate{}); err != nil {
		return "", NewPersistenceError("create conversation state", err)
	}
	c.appendTranscript(ctx, profile.Email, types.RoleAssistant, greeting)
	return greeting, nil
}

// Advance processes one candidate message and returns exactly one assistant
// reply. The candidate's raw input is appended to the transcript before any
// processing so the log stays complete even when a later step fails; the one
// exception is a terminated conversation, which performs no writes at all.
func (c *Controller) Advance(ctx context.Context, email, input string) (string, error) {
	unlock := c.locks.Lock(email)
	defer unlock()

	state, err := c.store.GetState(ctx, email)
	if err != nil {
		return "", NewPersistenceError("read conversation state", err)
	}
	if state == nil {
		return "", NewNotFoundError("conversation", email)
	}

	if state.Phase.Terminal() {
		return ClosingMessage, nil
	}

	c.appendTranscript(ctx, email, types.RoleCandidate, input)

	profile, err := c.store.GetCandidate(ctx, email)
	if err != nil {
		return "", NewPersistenceError("read candidate profile", err)
	}
	if profile == nil {
		return "", NewNotFoundError("candidate", email)
	}

	var reply string
	switch state.Phase {
	case types.PhaseIntro:
		reply, err = c.handleIntro(ctx, state, profile, input)
	case types.PhaseTechnicalQA:
		reply, err = c.handleTechnicalQA(ctx, state, profile, input)
	case types.PhaseScoring:
		// Normally transient inside one technical turn; reached directly
		// only when a previous turn stopped between scoring and POST_QA.
		reply, err = c.completeScoring(ctx, state, profile)
	case types.PhasePostQA:
		reply, err = c.handlePostQA(ctx, state, profile, input)
	default:
		return "", fmt.Errorf("conversation for %s has unhandled phase %q", email, state.Phase)
	}
	if err != nil {
		return "", err
	}

	c.appendTranscript(ctx, email, types.RoleAssistant, reply)
	return reply, nil
}

// handleIntro generates a rapport reply and counts the exchange. Progression
// is turn-count driven, so the counter advances even when generation fails.
func (c *Controller) handleIntro(ctx context.Context, state *types.ConversationState, profile *types.CandidateProfile, input string) (string, error) {
	exchanges := state.IntroExchanges + 1

	if exchanges >= c.cfg.RapportExchanges {
		return c.beginTechnicalPhase(ctx, state, profile, exchanges)
	}

	history, err := c.store.GetTranscript(ctx, profile.Email)
	if err != nil {
		logger.Warn().Err(err).Str("candidate", profile.Email).Msg("transcript read failed, generating without history")
		history = nil
	}

	reply, genErr := c.gen.RapportReply(ctx, profile, history, input)
	if genErr != nil {
		logger.Warn().Err(genErr).Str("candidate", profile.Email).Msg("rapport generation failed, using fallback")
		reply = fallbackRapportReply
	}

	if err := c.store.UpsertState(ctx, profile.Email, types.StateUpdate{IntroExchanges: &exchanges}); err != nil {
		return "", NewPersistenceError("update intro progress", err)
	}
	return reply, nil
}

// beginTechnicalPhase generates the question list and transitions the
// conversation to TECHNICAL_QA, returning the first question.
func (c *Controller) beginTechnicalPhase(ctx context.Context, state *types.ConversationState, profile *types.CandidateProfile, exchanges int) (string, error) {
	searchContext := ""
	if c.research != nil {
		searchContext = c.research.QuestionContext(ctx, profile)
	}

	questions, err := c.gen.QuestionSet(ctx, profile, searchContext, c.cfg.QuestionQuota)
	if err != nil || len(questions) == 0 {
		if err != nil {
			logger.Warn().Err(err).Str("candidate", profile.Email).Msg("question generation failed, using static pool")
		}
		questions = fallbackQuestionSet(profile, c.cfg.QuestionQuota)
	}

	next := types.PhaseTechnicalQA
	index := 1
	update := types.StateUpdate{
		Phase:          &next,
		IntroExchanges: &exchanges,
		QuestionIndex:  &index,
		Questions:      questions,
	}
	if err := c.transition(ctx, state, update); err != nil {
		return "", err
	}
	return fmt.Sprintf("%s\n\nQuestion 1 of %d: %s", technicalTransitionIntro, c.cfg.QuestionQuota, questions[0]), nil
}

// handleTechnicalQA scores the submitted answer, persists it, and either asks
// the next question or runs scoring once the quota is reached. The answer
// counter advances regardless of generation success.
func (c *Controller) handleTechnicalQA(ctx context.Context, state *types.ConversationState, profile *types.CandidateProfile, input string) (string, error) {
	seq := state.QuestionIndex
	if seq < 1 {
		seq = 1
	}
	question := state.CurrentQuestion()
	if question == "" {
		question = fmt.Sprintf("Question %d", seq)
	}

	answered := types.AnsweredQuestion{
		Seq:      seq,
		Question: question,
		Answer:   input,
		AskedAt:  time.Now().UTC(),
	}

	feedbackText := fallbackFeedback
	fb, err := c.gen.AnswerFeedback(ctx, profile, question, input)
	if err != nil {
		logger.Warn().Err(err).Str("candidate", profile.Email).Int("seq", seq).Msg("feedback generation failed, recording answer unscored")
	} else {
		answered.Score = &fb.Score
		answered.Feedback = fb.Feedback
		feedbackText = fb.Feedback
	}

	if err := c.store.SaveAnswer(ctx, profile.Email, answered); err != nil {
		return "", NewPersistenceError("save answer", err)
	}

	if seq >= c.cfg.QuestionQuota {
		next := types.PhaseScoring
		if err := c.transition(ctx, state, types.StateUpdate{Phase: &next}); err != nil {
			return "", err
		}
		state.Phase = types.PhaseScoring
		summary, err := c.completeScoring(ctx, state, profile)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%s\n\n%s", feedbackText, summary), nil
	}

	nextQuestion := c.sequencer.NextQuestion(ctx, profile, state.Questions, seq, &answered)
	questions := state.Questions
	if seq >= len(questions) {
		// Synthesized follow-up; record it so the next turn can attribute
		// the answer and the sequencer can avoid repetition.
		questions = append(questions, nextQuestion)
	}

	nextIndex := seq + 1
	update := types.StateUpdate{QuestionIndex: &nextIndex, Questions: questions}
	if err := c.store.UpsertState(ctx, profile.Email, update); err != nil {
		return "", NewPersistenceError("update question progress", err)
	}

	return fmt.Sprintf("%s\n\nQuestion %d of %d: %s", feedbackText, nextIndex, c.cfg.QuestionQuota, nextQuestion), nil
}

// completeScoring computes and persists the comprehensive analysis, then
// moves the conversation to POST_QA. Scoring is never skipped, but it is
// transient: no turn ends with the conversation resting in SCORING unless a
// persistence failure interrupts it, in which case the next turn resumes
// here.
func (c *Controller) completeScoring(ctx context.Context, state *types.ConversationState, profile *types.CandidateProfile) (string, error) {
	answers, err := c.store.GetAnswers(ctx, profile.Email)
	if err != nil {
		return "", NewPersistenceError("read answers", err)
	}

	analysis, genErr := c.gen.Analysis(ctx, profile, answers)
	if genErr != nil {
		logger.Warn().Err(genErr).Str("candidate", profile.Email).Msg("analysis generation failed, deriving from recorded scores")
		analysis = fallbackAnalysis(answers)
	}
	finalizeAnalysis(analysis)

	if err := c.store.SaveAnalysis(ctx, profile.Email, analysis); err != nil {
		return "", NewPersistenceError("save analysis", err)
	}

	next := types.PhasePostQA
	if err := c.transition(ctx, state, types.StateUpdate{Phase: &next}); err != nil {
		return "", err
	}
	state.Phase = types.PhasePostQA

	return renderAnalysis(analysis), nil
}

// handlePostQA answers free-text candidate questions until a termination
// keyword arrives, which moves the conversation to its terminal phase.
func (c *Controller) handlePostQA(ctx context.Context, state *types.ConversationState, profile *types.CandidateProfile, input string) (string, error) {
	if isTermination(input) {
		next := types.PhaseTerminated
		if err := c.transition(ctx, state, types.StateUpdate{Phase: &next}); err != nil {
			return "", err
		}
		return ClosingMessage, nil
	}

	answers, err := c.store.GetAnswers(ctx, profile.Email)
	if err != nil {
		logger.Warn().Err(err).Str("candidate", profile.Email).Msg("answers read failed, generating without interview context")
		answers = nil
	}

	reply, genErr := c.gen.PostInterviewAnswer(ctx, profile, answers, input)
	if genErr != nil {
		logger.Warn().Err(genErr).Str("candidate", profile.Email).Msg("post-interview generation failed, using fallback")
		reply = fallbackPostQAReply
	}
	return reply, nil
}

// transition validates a phase move against the directed interview path and
// persists it. A rejected transition is a programming error in the caller.
func (c *Controller) transition(ctx context.Context, state *types.ConversationState, update types.StateUpdate) error {
	if update.Phase != nil && !state.Phase.CanTransition(*update.Phase) {
		return fmt.Errorf("illegal phase transition %s -> %s for %s", state.Phase, *update.Phase, state.CandidateEmail)
	}
	if err := c.store.UpsertState(ctx, state.CandidateEmail, update); err != nil {
		return NewPersistenceError("persist phase transition", err)
	}
	if update.Phase != nil {
		logger.Info().
			Str("candidate", state.CandidateEmail).
			Str("from", string(state.Phase)).
			Str("to", string(*update.Phase)).
			Msg("conversation phase transition")
	}
	return nil
}

// appendTranscript is a best-effort write: failures are logged and never
// abort the turn.
func (c *Controller) appendTranscript(ctx context.Context, email, role, text string) {
	if err := c.store.AppendTranscript(ctx, email, role, text); err != nil {
		logger.Error().Err(err).Str("candidate", email).Str("role", role).Msg("transcript append failed")
	}
}

// fallbackAnalysis derives an analysis from the per-answer scores recorded
// during the interview so scoring completes even when generation fails.
func fallbackAnalysis(answers []types.AnsweredQuestion) *types.ComprehensiveAnalysis {
	var sum float64
	var n int
	for _, a := range answers {
		if a.Score != nil {
			sum += *a.Score
			n++
		}
	}
	avg := 5.0
	if n > 0 {
		avg = sum / float64(n)
	}
	return &types.ComprehensiveAnalysis{
		TechnicalScore:      avg,
		CommunicationScore:  avg,
		ProblemSolvingScore: avg,
		Summary:             fallbackAnalysisSummary,
	}
}

// finalizeAnalysis recomputes the derived fields from the dimension scores so
// weighting and tier labels stay consistent no matter where the dimensions
// came from.
func finalizeAnalysis(analysis *types.ComprehensiveAnalysis) {
	analysis.OverallScore = scoring.Overall(
		analysis.TechnicalScore,
		analysis.CommunicationScore,
		analysis.ProblemSolvingScore,
	)
	tier := scoring.ScoreTier(analysis.OverallScore)
	analysis.HiringRecommendation = scoring.HiringRecommendation(tier)
	analysis.CreatedAt = time.Now().UTC()
}

// Status returns the conversation state for display.
func (c *Controller) Status(ctx context.Context, email string) (*types.ConversationState, error) {
	state, err := c.store.GetState(ctx, email)
	if err != nil {
		return nil, NewPersistenceError("read conversation state", err)
	}
	if state == nil {
		return nil, NewNotFoundError("conversation", email)
	}
	return state, nil
}

// Transcript returns the chat log in append order.
func (c *Controller) Transcript(ctx context.Context, email string) ([]types.TranscriptEntry, error) {
	state, err := c.store.GetState(ctx, email)
	if err != nil {
		return nil, NewPersistenceError("read conversation state", err)
	}
	if state == nil {
		return nil, NewNotFoundError("conversation", email)
	}
	entries, err := c.store.GetTranscript(ctx, email)
	if err != nil {
		return nil, NewPersistenceError("read transcript", err)
	}
	return entries, nil
}

// Reset wipes a candidate's conversation state, transcript, answers, and
// analysis.
func (c *Controller) Reset(ctx context.Context, email string) error {
	unlock := c.locks.Lock(email)
	defer unlock()

	if err := c.store.Clear(ctx, email); err != nil {
		return NewPersistenceError("clear conversation", err)
	}
	logger.Info().Str("candidate", email).Msg("conversation reset")
	return nil
}

package interview

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talentscout/hiring-assistant/internal/generate"
	"github.com/talentscout/hiring-assistant/internal/llm"
	"github.com/talentscout/hiring-assistant/internal/store"
	"github.com/talentscout/hiring-assistant/internal/types"
)

// stubGenerator returns fixed content, or a GenerationError for every call
// when failAll is set.
type stubGenerator struct {
	failAll bool

	questions []string
	followUps []string
	followIdx int
}

func (s *stubGenerator) fail(intent string) error {
	return llm.NewGenerationError(intent, fmt.Errorf("stub failure"))
}

func (s *stubGenerator) RapportReply(context.Context, *types.CandidateProfile, []types.TranscriptEntry, string) (string, error) {
	if s.failAll {
		return "", s.fail("rapport")
	}
	return "Nice! Tell me more.", nil
}

func (s *stubGenerator) QuestionSet(context.Context, *types.CandidateProfile, string, int) ([]string, error) {
	if s.failAll || len(s.questions) == 0 {
		return nil, s.fail("questions")
	}
	return s.questions, nil
}

func (s *stubGenerator) FollowUpQuestion(context.Context, *types.CandidateProfile, types.AnsweredQuestion) (string, error) {
	if s.failAll || s.followIdx >= len(s.followUps) {
		return "", s.fail("follow-up")
	}
	q := s.followUps[s.followIdx]
	s.followIdx++
	return q, nil
}

func (s *stubGenerator) AnswerFeedback(context.Context, *types.CandidateProfile, string, string) (*types.AnswerFeedback, error) {
	if s.failAll {
		return nil, s.fail("feedback")
	}
	return &types.AnswerFeedback{Score: 7.0, Feedback: "Good answer."}, nil
}

func (s *stubGenerator) Analysis(context.Context, *types.CandidateProfile, []types.AnsweredQuestion) (*types.ComprehensiveAnalysis, error) {
	if s.failAll {
		return nil, s.fail("analysis")
	}
	return &types.ComprehensiveAnalysis{
		TechnicalScore:      8,
		CommunicationScore:  7,
		ProblemSolvingScore: 9,
		Summary:             "Strong performance.",
	}, nil
}

func (s *stubGenerator) PostInterviewAnswer(context.Context, *types.CandidateProfile, []types.AnsweredQuestion, string) (string, error) {
	if s.failAll {
		return "", s.fail("post-interview")
	}
	return "The team will be in touch soon.", nil
}

func (s *stubGenerator) ExtractProfile(context.Context, string) (*types.CandidateProfile, error) {
	return nil, s.fail("extraction")
}

func (s *stubGenerator) ParseProfileUpdate(context.Context, string, *types.CandidateProfile) (*generate.ProfileUpdate, error) {
	return nil, s.fail("profile-update")
}

const candidateEmail = "ada@example.com"

func newTestController(t *testing.T, gen *stubGenerator) (*Controller, *store.Memory) {
	t.Helper()
	mem := store.NewMemory()
	profile := &types.CandidateProfile{
		Email:           candidateEmail,
		FullName:        "Ada Lovelace",
		YearsExperience: 5,
		DesiredPosition: "Backend Engineer",
		TechStack:       []string{"Go", "PostgreSQL"},
	}
	require.NoError(t, mem.SaveCandidate(context.Background(), profile, ""))
	return NewController(mem, gen, nil, DefaultConfig()), mem
}

// runToTechnical begins the conversation and burns through the intro
// exchanges, returning the reply that carries the first question.
func runToTechnical(t *testing.T, ctrl *Controller) string {
	t.Helper()
	ctx := context.Background()
	_, err := ctrl.Begin(ctx, &types.CandidateProfile{
		Email: candidateEmail, FullName: "Ada Lovelace", DesiredPosition: "Backend Engineer", TechStack: []string{"Go"},
	})
	require.NoError(t, err)

	var reply string
	for i := 0; i < DefaultRapportExchanges; i++ {
		reply, err = ctrl.Advance(ctx, candidateEmail, fmt.Sprintf("intro message %d", i+1))
		require.NoError(t, err)
		require.NotEmpty(t, reply)
	}
	return reply
}

// runToPostQA additionally answers the full question quota.
func runToPostQA(t *testing.T, ctrl *Controller) string {
	t.Helper()
	runToTechnical(t, ctrl)
	var reply string
	var err error
	for i := 0; i < DefaultQuestionQuota; i++ {
		reply, err = ctrl.Advance(context.Background(), candidateEmail, fmt.Sprintf("answer %d", i+1))
		require.NoError(t, err)
	}
	return reply
}

func TestAdvanceUnknownConversation(t *testing.T) {
	ctrl, _ := newTestController(t, &stubGenerator{})
	_, err := ctrl.Advance(context.Background(), "nobody@example.com", "hello")
	require.Error(t, err)
	var nf *NotFoundError
	assert.ErrorAs(t, err, &nf)
}

func TestIntroTransitionsAfterConfiguredExchanges(t *testing.T) {
	gen := &stubGenerator{questions: []string{"Q1", "Q2", "Q3", "Q4", "Q5"}}
	ctrl, mem := newTestController(t, gen)
	ctx := context.Background()

	_, err := ctrl.Begin(ctx, &types.CandidateProfile{Email: candidateEmail, FullName: "Ada", DesiredPosition: "Backend Engineer"})
	require.NoError(t, err)

	for i := 1; i < DefaultRapportExchanges; i++ {
		reply, err := ctrl.Advance(ctx, candidateEmail, "chatting")
		require.NoError(t, err)
		assert.NotContains(t, reply, "Question 1")

		state, err := mem.GetState(ctx, candidateEmail)
		require.NoError(t, err)
		assert.Equal(t, types.PhaseIntro, state.Phase)
		assert.Equal(t, i, state.IntroExchanges)
	}

	reply, err := ctrl.Advance(ctx, candidateEmail, "last intro message")
	require.NoError(t, err)
	assert.Contains(t, reply, "Question 1 of 5: Q1")

	state, err := mem.GetState(ctx, candidateEmail)
	require.NoError(t, err)
	assert.Equal(t, types.PhaseTechnicalQA, state.Phase)
	assert.Equal(t, 1, state.QuestionIndex)
	assert.Equal(t, gen.questions, state.Questions)
}

func TestQuotaReachesPostQAExactlyOnce(t *testing.T) {
	gen := &stubGenerator{questions: []string{"Q1", "Q2", "Q3", "Q4", "Q5"}}
	ctrl, mem := newTestController(t, gen)
	ctx := context.Background()

	reply := runToPostQA(t, ctrl)
	assert.Contains(t, reply, "Overall:")
	assert.Contains(t, reply, "any questions")

	state, err := mem.GetState(ctx, candidateEmail)
	require.NoError(t, err)
	assert.Equal(t, types.PhasePostQA, state.Phase, "scoring is transient, the turn must land in POST_QA")

	answers, err := mem.GetAnswers(ctx, candidateEmail)
	require.NoError(t, err)
	require.Len(t, answers, DefaultQuestionQuota)
	for i, a := range answers {
		assert.Equal(t, i+1, a.Seq)
		assert.Equal(t, fmt.Sprintf("answer %d", i+1), a.Answer)
		require.NotNil(t, a.Score)
		assert.InDelta(t, 7.0, *a.Score, 0.001)
	}

	analysis, err := mem.GetAnalysis(ctx, candidateEmail)
	require.NoError(t, err)
	require.NotNil(t, analysis)
	assert.InDelta(t, 8.0, analysis.OverallScore, 0.001, "0.4*8 + 0.3*7 + 0.3*9")
	assert.Equal(t, "Strong Recommend", analysis.HiringRecommendation)
}

func TestInterviewCompletesWhenGeneratorAlwaysFails(t *testing.T) {
	ctrl, mem := newTestController(t, &stubGenerator{failAll: true})
	ctx := context.Background()

	reply := runToPostQA(t, ctrl)
	assert.Contains(t, reply, "Overall:")

	state, err := mem.GetState(ctx, candidateEmail)
	require.NoError(t, err)
	assert.Equal(t, types.PhasePostQA, state.Phase)

	answers, err := mem.GetAnswers(ctx, candidateEmail)
	require.NoError(t, err)
	require.Len(t, answers, DefaultQuestionQuota)

	seen := make(map[string]bool)
	for _, a := range answers {
		assert.NotEmpty(t, a.Question)
		assert.False(t, seen[a.Question], "fallback question %q repeated", a.Question)
		seen[a.Question] = true
		assert.Nil(t, a.Score, "unscored when feedback generation fails")
	}

	analysis, err := mem.GetAnalysis(ctx, candidateEmail)
	require.NoError(t, err)
	require.NotNil(t, analysis)
	assert.InDelta(t, 5.0, analysis.OverallScore, 0.001, "derived analysis defaults to midpoint without recorded scores")
}

func TestTerminationKeywordEndsConversation(t *testing.T) {
	gen := &stubGenerator{questions: []string{"Q1", "Q2", "Q3", "Q4", "Q5"}}
	ctrl, mem := newTestController(t, gen)
	ctx := context.Background()
	runToPostQA(t, ctrl)

	reply, err := ctrl.Advance(ctx, candidateEmail, "Goodbye, and thanks!")
	require.NoError(t, err)
	assert.Equal(t, ClosingMessage, reply)

	state, err := mem.GetState(ctx, candidateEmail)
	require.NoError(t, err)
	assert.Equal(t, types.PhaseTerminated, state.Phase)
}

func TestTerminatedConversationIsIdempotent(t *testing.T) {
	gen := &stubGenerator{questions: []string{"Q1", "Q2", "Q3", "Q4", "Q5"}}
	ctrl, mem := newTestController(t, gen)
	ctx := context.Background()
	runToPostQA(t, ctrl)

	_, err := ctrl.Advance(ctx, candidateEmail, "goodbye")
	require.NoError(t, err)

	before, err := mem.GetTranscript(ctx, candidateEmail)
	require.NoError(t, err)
	stateBefore, err := mem.GetState(ctx, candidateEmail)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		reply, err := ctrl.Advance(ctx, candidateEmail, "goodbye again")
		require.NoError(t, err)
		assert.Equal(t, ClosingMessage, reply)
	}

	after, err := mem.GetTranscript(ctx, candidateEmail)
	require.NoError(t, err)
	assert.Equal(t, len(before), len(after), "terminated conversations perform no writes")

	stateAfter, err := mem.GetState(ctx, candidateEmail)
	require.NoError(t, err)
	assert.Equal(t, stateBefore.UpdatedAt, stateAfter.UpdatedAt)
}

func TestPostQAAnswersWithoutAdvancing(t *testing.T) {
	gen := &stubGenerator{questions: []string{"Q1", "Q2", "Q3", "Q4", "Q5"}}
	ctrl, mem := newTestController(t, gen)
	ctx := context.Background()
	runToPostQA(t, ctrl)

	reply, err := ctrl.Advance(ctx, candidateEmail, "What is the team like?")
	require.NoError(t, err)
	assert.Equal(t, "The team will be in touch soon.", reply)

	state, err := mem.GetState(ctx, candidateEmail)
	require.NoError(t, err)
	assert.Equal(t, types.PhasePostQA, state.Phase, "non-terminating input stays in POST_QA")
}

func TestInputAppendedToTranscriptBeforeProcessing(t *testing.T) {
	ctrl, mem := newTestController(t, &stubGenerator{failAll: true})
	ctx := context.Background()
	_, err := ctrl.Begin(ctx, &types.CandidateProfile{Email: candidateEmail, FullName: "Ada", DesiredPosition: "Backend Engineer"})
	require.NoError(t, err)

	_, err = ctrl.Advance(ctx, candidateEmail, "hello there")
	require.NoError(t, err)

	entries, err := mem.GetTranscript(ctx, candidateEmail)
	require.NoError(t, err)

	var texts []string
	for _, e := range entries {
		texts = append(texts, e.Text)
	}
	assert.Contains(t, strings.Join(texts, "\n"), "hello there")
}

func TestBeginIsIdempotent(t *testing.T) {
	ctrl, mem := newTestController(t, &stubGenerator{})
	ctx := context.Background()
	profile := &types.CandidateProfile{Email: candidateEmail, FullName: "Ada", DesiredPosition: "Backend Engineer"}

	first, err := ctrl.Begin(ctx, profile)
	require.NoError(t, err)
	second, err := ctrl.Begin(ctx, profile)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	entries, err := mem.GetTranscript(ctx, candidateEmail)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "greeting is only logged once")
}

func TestResetClearsConversation(t *testing.T) {
	gen := &stubGenerator{questions: []string{"Q1", "Q2", "Q3", "Q4", "Q5"}}
	ctrl, mem := newTestController(t, gen)
	ctx := context.Background()
	runToPostQA(t, ctrl)

	require.NoError(t, ctrl.Reset(ctx, candidateEmail))

	state, err := mem.GetState(ctx, candidateEmail)
	require.NoError(t, err)
	assert.Nil(t, state)

	_, err = ctrl.Advance(ctx, candidateEmail, "hello")
	var nf *NotFoundError
	assert.ErrorAs(t, err, &nf)
}

func TestStatusAndTranscriptRequireConversation(t *testing.T) {
	ctrl, _ := newTestController(t, &stubGenerator{})
	var nf *NotFoundError

	_, err := ctrl.Status(context.Background(), "ghost@example.com")
	assert.ErrorAs(t, err, &nf)

	_, err = ctrl.Transcript(context.Background(), "ghost@example.com")
	assert.ErrorAs(t, err, &nf)
}

func TestIsTermination(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"goodbye", true},
		{"GOODBYE!", true},
		{"Thank you so much", true},
		{"ok bye", true},
		{"I'm done here", true},
		{"what about benefits?", false},
		{"tell me about the team", false},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, isTermination(tt.input))
		})
	}
}

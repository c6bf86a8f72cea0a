package generate

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talentscout/hiring-assistant/internal/llm"
	"github.com/talentscout/hiring-assistant/internal/types"
)

// stubClient returns canned responses and records the last prompt.
type stubClient struct {
	response   string
	err        error
	lastPrompt string
}

func (s *stubClient) GenerateContent(_ context.Context, prompt string, _ llm.ModelTier) (string, error) {
	s.lastPrompt = prompt
	return s.response, s.err
}

func (s *stubClient) GenerateJSON(_ context.Context, prompt string, _ llm.ModelTier) (string, error) {
	s.lastPrompt = prompt
	return s.response, s.err
}

func (s *stubClient) Close() error { return nil }

func testProfile() *types.CandidateProfile {
	return &types.CandidateProfile{
		Email:           "ada@example.com",
		FullName:        "Ada Lovelace",
		YearsExperience: 5,
		DesiredPosition: "Backend Engineer",
		TechStack:       []string{"Go", "PostgreSQL"},
	}
}

func TestRapportReplyInterpolatesProfile(t *testing.T) {
	client := &stubClient{response: "That sounds like a great project!"}
	gen := NewLLMGenerator(client)

	reply, err := gen.RapportReply(context.Background(), testProfile(), nil, "I built a cache layer")
	require.NoError(t, err)
	assert.Equal(t, "That sounds like a great project!", reply)
	assert.Contains(t, client.lastPrompt, "Ada Lovelace")
	assert.Contains(t, client.lastPrompt, "Go, PostgreSQL")
	assert.Contains(t, client.lastPrompt, "I built a cache layer")
}

func TestQuestionSet(t *testing.T) {
	tests := []struct {
		name     string
		response string
		count    int
		want     []string
		wantErr  bool
	}{
		{
			name:     "valid array",
			response: `["What is a goroutine?", "Explain indexes."]`,
			count:    2,
			want:     []string{"What is a goroutine?", "Explain indexes."},
		},
		{
			name:     "surplus questions truncated",
			response: `["a", "b", "c"]`,
			count:    2,
			want:     []string{"a", "b"},
		},
		{
			name:     "not an array",
			response: `{"questions": ["a"]}`,
			count:    1,
			wantErr:  true,
		},
		{
			name:     "empty array rejected",
			response: `[]`,
			count:    3,
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen := NewLLMGenerator(&stubClient{response: tt.response})
			got, err := gen.QuestionSet(context.Background(), testProfile(), "", tt.count)
			if tt.wantErr {
				require.Error(t, err)
				var genErr *llm.GenerationError
				assert.ErrorAs(t, err, &genErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestQuestionSetRejectsZeroCount(t *testing.T) {
	gen := NewLLMGenerator(&stubClient{response: `["a"]`})
	_, err := gen.QuestionSet(context.Background(), testProfile(), "", 0)
	require.Error(t, err)
}

func TestAnswerFeedback(t *testing.T) {
	tests := []struct {
		name     string
		response string
		wantErr  bool
	}{
		{
			name:     "valid feedback",
			response: `{"score": 7.5, "feedback": "Solid answer.", "key_strength": "clarity"}`,
		},
		{
			name:     "score out of range",
			response: `{"score": 12, "feedback": "ok"}`,
			wantErr:  true,
		},
		{
			name:     "missing feedback field",
			response: `{"score": 5}`,
			wantErr:  true,
		},
		{
			name:     "malformed json",
			response: `{"score":`,
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen := NewLLMGenerator(&stubClient{response: tt.response})
			fb, err := gen.AnswerFeedback(context.Background(), testProfile(), "Q", "A")
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.InDelta(t, 7.5, fb.Score, 0.001)
			assert.Equal(t, "Solid answer.", fb.Feedback)
		})
	}
}

func TestAnalysisValidResponse(t *testing.T) {
	response := `{
		"technical_score": 8.0,
		"communication_score": 7.0,
		"problem_solving_score": 9.0,
		"key_strengths": ["depth"],
		"growth_areas": ["testing"],
		"recommendations": ["pair with senior"],
		"summary": "Strong candidate."
	}`
	gen := NewLLMGenerator(&stubClient{response: response})

	analysis, err := gen.Analysis(context.Background(), testProfile(), []types.AnsweredQuestion{
		{Seq: 1, Question: "Q1", Answer: "A1"},
	})
	require.NoError(t, err)
	assert.InDelta(t, 8.0, analysis.TechnicalScore, 0.001)
	assert.Equal(t, []string{"depth"}, analysis.KeyStrengths)
	assert.Equal(t, "Strong candidate.", analysis.Summary)
}

func TestAnalysisMissingDimensionRejected(t *testing.T) {
	gen := NewLLMGenerator(&stubClient{response: `{"technical_score": 8.0, "summary": "x"}`})
	_, err := gen.Analysis(context.Background(), testProfile(), nil)
	require.Error(t, err)
}

func TestExtractProfile(t *testing.T) {
	response := `{
		"full_name": "Grace Hopper",
		"email": "Grace@Example.com",
		"phone": "+1 555 0100",
		"years_experience": 10,
		"desired_position": "Staff Engineer",
		"location": "Arlington",
		"tech_stack": ["COBOL", "Go"]
	}`
	gen := NewLLMGenerator(&stubClient{response: response})

	profile, err := gen.ExtractProfile(context.Background(), "resume text here")
	require.NoError(t, err)
	assert.Equal(t, "Grace Hopper", profile.FullName)
	assert.Equal(t, "grace@example.com", profile.Email, "email should be normalized to lowercase")
	assert.Equal(t, 10, profile.YearsExperience)
	assert.Equal(t, []string{"COBOL", "Go"}, profile.TechStack)
}

func TestExtractProfileMissingNameRejected(t *testing.T) {
	gen := NewLLMGenerator(&stubClient{response: `{"email": "a@b.com"}`})
	_, err := gen.ExtractProfile(context.Background(), "text")
	require.Error(t, err)
}

func TestParseProfileUpdate(t *testing.T) {
	tests := []struct {
		name       string
		response   string
		wantAction string
		wantErr    bool
	}{
		{
			name:       "confirm",
			response:   `{"action": "confirm"}`,
			wantAction: UpdateActionConfirm,
		},
		{
			name:       "field correction",
			response:   `{"action": "update", "field": "phone", "value": "+44 20 0000"}`,
			wantAction: UpdateActionUpdate,
		},
		{
			name:     "unknown action rejected",
			response: `{"action": "delete"}`,
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen := NewLLMGenerator(&stubClient{response: tt.response})
			update, err := gen.ParseProfileUpdate(context.Background(), "reply", testProfile())
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantAction, update.Action)
		})
	}
}

func TestHistoryTextWindowsEntries(t *testing.T) {
	var history []types.TranscriptEntry
	for i := 0; i < 15; i++ {
		history = append(history, types.TranscriptEntry{Role: types.RoleCandidate, Text: "msg"})
	}
	rendered := historyText(history, 10)
	assert.Len(t, splitLines(rendered), 10)
}

func splitLines(s string) []string {
	var lines []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			lines = append(lines, s[start:i])
			start = i + 1
		}
	}
	if start < len(s) {
		lines = append(lines, s[start:])
	}
	return lines
}

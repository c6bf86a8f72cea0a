package store

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/talentscout/hiring-assistant/internal/types"
)

// Memory is an in-process Store used by tests and the terminal chat mode.
// A single mutex serializes all access, which also gives the per-key write
// ordering the controller relies on.
type Memory struct {
	mu          sync.Mutex
	states      map[string]*types.ConversationState
	transcripts map[string][]types.TranscriptEntry
	answers     map[string]map[int]types.AnsweredQuestion
	analyses    map[string]*types.ComprehensiveAnalysis
	candidates  map[string]*types.CandidateProfile
	resumes     map[string]string
	actions     map[string][]types.ManagerAction
	managers    map[string]*Manager
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		states:      make(map[string]*types.ConversationState),
		transcripts: make(map[string][]types.TranscriptEntry),
		answers:     make(map[string]map[int]types.AnsweredQuestion),
		analyses:    make(map[string]*types.ComprehensiveAnalysis),
		candidates:  make(map[string]*types.CandidateProfile),
		resumes:     make(map[string]string),
		actions:     make(map[string][]types.ManagerAction),
		managers:    make(map[string]*Manager),
	}
}

// GetState implements ConversationStore.
func (m *Memory) GetState(_ context.Context, email string) (*types.ConversationState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	state, ok := m.states[email]
	if !ok {
		return nil, nil
	}
	cpy := *state
	cpy.Questions = append([]string(nil), state.Questions...)
	return &cpy, nil
}

// UpsertState implements ConversationStore.
func (m *Memory) UpsertState(_ context.Context, email string, update types.StateUpdate) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now().UTC()
	state, ok := m.states[email]
	if !ok {
		state = &types.ConversationState{
			CandidateEmail: email,
			Phase:          types.PhaseIntro,
			CreatedAt:      now,
		}
		m.states[email] = state
	}

	if update.Phase != nil {
		state.Phase = *update.Phase
	}
	if update.IntroExchanges != nil {
		state.IntroExchanges = *update.IntroExchanges
	}
	if update.QuestionIndex != nil {
		state.QuestionIndex = *update.QuestionIndex
	}
	if update.Questions != nil {
		state.Questions = append([]string(nil), update.Questions...)
	}
	state.UpdatedAt = now
	return nil
}

// AppendTranscript implements ConversationStore.
func (m *Memory) AppendTranscript(_ context.Context, email, role, text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.transcripts[email] = append(m.transcripts[email], types.TranscriptEntry{
		Role:      role,
		Text:      text,
		CreatedAt: time.Now().UTC(),
	})
	return nil
}

// GetTranscript implements ConversationStore.
func (m *Memory) GetTranscript(_ context.Context, email string) ([]types.TranscriptEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return append([]types.TranscriptEntry(nil), m.transcripts[email]...), nil
}

// SaveAnswer implements ConversationStore.
func (m *Memory) SaveAnswer(_ context.Context, email string, answer types.AnsweredQuestion) error {
	if answer.Seq < 1 {
		return fmt.Errorf("answer seq must be >= 1, got %d", answer.Seq)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.answers[email] == nil {
		m.answers[email] = make(map[int]types.AnsweredQuestion)
	}
	m.answers[email][answer.Seq] = answer
	return nil
}

// GetAnswers implements ConversationStore.
func (m *Memory) GetAnswers(_ context.Context, email string) ([]types.AnsweredQuestion, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	answers := make([]types.AnsweredQuestion, 0, len(m.answers[email]))
	for _, a := range m.answers[email] {
		answers = append(answers, a)
	}
	sort.Slice(answers, func(i, j int) bool { return answers[i].Seq < answers[j].Seq })
	return answers, nil
}

// SaveAnalysis implements ConversationStore.
func (m *Memory) SaveAnalysis(_ context.Context, email string, analysis *types.ComprehensiveAnalysis) error {
	if analysis == nil {
		return fmt.Errorf("analysis cannot be nil")
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	cpy := *analysis
	if cpy.CreatedAt.IsZero() {
		cpy.CreatedAt = time.Now().UTC()
	}
	m.analyses[email] = &cpy
	return nil
}

// GetAnalysis implements ConversationStore.
func (m *Memory) GetAnalysis(_ context.Context, email string) (*types.ComprehensiveAnalysis, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	analysis, ok := m.analyses[email]
	if !ok {
		return nil, nil
	}
	cpy := *analysis
	return &cpy, nil
}

// Clear implements ConversationStore.
func (m *Memory) Clear(_ context.Context, email string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.states, email)
	delete(m.transcripts, email)
	delete(m.answers, email)
	delete(m.analyses, email)
	return nil
}

// SaveCandidate implements CandidateStore.
func (m *Memory) SaveCandidate(_ context.Context, profile *types.CandidateProfile, resumeText string) error {
	if profile == nil || profile.Email == "" {
		return fmt.Errorf("candidate profile requires an email")
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	cpy := *profile
	if cpy.ID == uuid.Nil {
		cpy.ID = uuid.New()
	}
	if cpy.CreatedAt.IsZero() {
		cpy.CreatedAt = time.Now().UTC()
	}
	cpy.TechStack = append([]string(nil), profile.TechStack...)
	m.candidates[profile.Email] = &cpy
	m.resumes[profile.Email] = resumeText
	profile.ID = cpy.ID
	return nil
}

// GetCandidate implements CandidateStore.
func (m *Memory) GetCandidate(_ context.Context, email string) (*types.CandidateProfile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	profile, ok := m.candidates[email]
	if !ok {
		return nil, nil
	}
	cpy := *profile
	cpy.TechStack = append([]string(nil), profile.TechStack...)
	return &cpy, nil
}

// UpdateCandidate implements CandidateStore.
func (m *Memory) UpdateCandidate(_ context.Context, profile *types.CandidateProfile) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.candidates[profile.Email]
	if !ok {
		return fmt.Errorf("candidate %s not found", profile.Email)
	}
	cpy := *profile
	cpy.ID = existing.ID
	cpy.CreatedAt = existing.CreatedAt
	cpy.TechStack = append([]string(nil), profile.TechStack...)
	m.candidates[profile.Email] = &cpy
	return nil
}

// ListCompletedCandidates implements CandidateStore.
func (m *Memory) ListCompletedCandidates(_ context.Context) ([]types.CandidateProfile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var completed []types.CandidateProfile
	for email, state := range m.states {
		if state.Phase != types.PhasePostQA && state.Phase != types.PhaseTerminated {
			continue
		}
		if profile, ok := m.candidates[email]; ok {
			cpy := *profile
			cpy.TechStack = append([]string(nil), profile.TechStack...)
			completed = append(completed, cpy)
		}
	}
	sort.Slice(completed, func(i, j int) bool {
		return completed[i].CreatedAt.After(completed[j].CreatedAt)
	})
	return completed, nil
}

// SaveManagerAction implements CandidateStore.
func (m *Memory) SaveManagerAction(_ context.Context, action types.ManagerAction) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if action.CreatedAt.IsZero() {
		action.CreatedAt = time.Now().UTC()
	}
	m.actions[action.CandidateEmail] = append(m.actions[action.CandidateEmail], action)
	return nil
}

// GetManagerActions implements CandidateStore.
func (m *Memory) GetManagerActions(_ context.Context, email string) ([]types.ManagerAction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return append([]types.ManagerAction(nil), m.actions[email]...), nil
}

// GetManagerByEmail implements ManagerStore.
func (m *Memory) GetManagerByEmail(_ context.Context, email string) (*Manager, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	mgr, ok := m.managers[email]
	if !ok {
		return nil, nil
	}
	cpy := *mgr
	return &cpy, nil
}

// CreateManager implements ManagerStore.
func (m *Memory) CreateManager(_ context.Context, email, name, passwordHash string) (*Manager, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.managers[email]; ok {
		return nil, fmt.Errorf("manager %s already exists", email)
	}
	mgr := &Manager{
		ID:           uuid.New(),
		Email:        email,
		Name:         name,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC(),
	}
	m.managers[email] = mgr
	cpy := *mgr
	return &cpy, nil
}

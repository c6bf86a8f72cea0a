package types

import (
	"fmt"
	"time"
)

// Phase is the closed set of conversation phases. Transitions follow the fixed
// directed path Intro -> TechnicalQA -> Scoring -> PostQA -> Terminated; the
// controller never moves a conversation backward or skips Scoring.
type Phase string

// Conversation phases in protocol order.
const (
	PhaseIntro       Phase = "INTRO"
	PhaseTechnicalQA Phase = "TECHNICAL_QA"
	PhaseScoring     Phase = "SCORING"
	PhasePostQA      Phase = "POST_QA"
	PhaseTerminated  Phase = "TERMINATED"
)

// phaseOrder fixes the position of each phase on the interview path.
var phaseOrder = map[Phase]int{
	PhaseIntro:       0,
	PhaseTechnicalQA: 1,
	PhaseScoring:     2,
	PhasePostQA:      3,
	PhaseTerminated:  4,
}

// Valid reports whether p is a known phase.
func (p Phase) Valid() bool {
	_, ok := phaseOrder[p]
	return ok
}

// Terminal reports whether p is the terminal phase.
func (p Phase) Terminal() bool {
	return p == PhaseTerminated
}

// CanTransition reports whether moving from p to next follows the directed
// interview path: exactly one step forward, no jumps, no moves backward.
func (p Phase) CanTransition(next Phase) bool {
	from, ok := phaseOrder[p]
	if !ok {
		return false
	}
	to, ok := phaseOrder[next]
	if !ok {
		return false
	}
	return to == from+1
}

// ConversationState is the single mutable record driving the state machine.
// Exactly one exists per candidate email at any time.
type ConversationState struct {
	CandidateEmail string    `json:"candidate_email"`
	Phase          Phase     `json:"phase"`
	IntroExchanges int       `json:"intro_exchanges"`
	QuestionIndex  int       `json:"question_index"`
	Questions      []string  `json:"questions,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// CurrentQuestion returns the question the candidate is answering, or empty
// when the index is outside the pre-generated list.
func (s *ConversationState) CurrentQuestion() string {
	if s.QuestionIndex >= 1 && s.QuestionIndex <= len(s.Questions) {
		return s.Questions[s.QuestionIndex-1]
	}
	return ""
}

// AnsweredQuestion is one question/answer/feedback triple. Seq is 1-based and
// unique per candidate; ordering by Seq is the canonical transcript order.
type AnsweredQuestion struct {
	Seq      int       `json:"seq"`
	Question string    `json:"question"`
	Answer   string    `json:"answer"`
	Score    *float64  `json:"score,omitempty"`
	Feedback string    `json:"feedback,omitempty"`
	AskedAt  time.Time `json:"asked_at"`
}

// Transcript entry roles.
const (
	RoleCandidate = "candidate"
	RoleAssistant = "assistant"
)

// TranscriptEntry is one raw chat log line. Append-only; used for display and
// downstream prompt context, never for phase decisions.
type TranscriptEntry struct {
	Role      string    `json:"role"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

// StateUpdate carries a partial update for UpsertState. Nil fields are left
// untouched; the store always refreshes the update timestamp.
type StateUpdate struct {
	Phase          *Phase
	IntroExchanges *int
	QuestionIndex  *int
	Questions      []string
}

// String implements fmt.Stringer for log output.
func (u StateUpdate) String() string {
	s := "update{"
	if u.Phase != nil {
		s += fmt.Sprintf("phase=%s ", *u.Phase)
	}
	if u.QuestionIndex != nil {
		s += fmt.Sprintf("q=%d ", *u.QuestionIndex)
	}
	if u.IntroExchanges != nil {
		s += fmt.Sprintf("intro=%d ", *u.IntroExchanges)
	}
	if u.Questions != nil {
		s += fmt.Sprintf("questions=%d ", len(u.Questions))
	}
	return s + "}"
}

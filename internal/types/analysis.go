package types

import "time"

// AnswerFeedback is the structured per-answer feedback returned by the
// content generator during the technical phase.
type AnswerFeedback struct {
	Score           float64 `json:"score" validate:"gte=0,lte=10"`
	Feedback        string  `json:"feedback"`
	KeyStrength     string  `json:"key_strength,omitempty"`
	ImprovementArea string  `json:"improvement_area,omitempty"`
}

// ComprehensiveAnalysis is the terminal scoring artifact. At most one exists
// per candidate; recomputing overwrites the previous record.
type ComprehensiveAnalysis struct {
	OverallScore         float64   `json:"overall_score" validate:"gte=0,lte=10"`
	TechnicalScore       float64   `json:"technical_score" validate:"gte=0,lte=10"`
	CommunicationScore   float64   `json:"communication_score" validate:"gte=0,lte=10"`
	ProblemSolvingScore  float64   `json:"problem_solving_score" validate:"gte=0,lte=10"`
	KeyStrengths         []string  `json:"key_strengths,omitempty"`
	GrowthAreas          []string  `json:"growth_areas,omitempty"`
	Recommendations      []string  `json:"recommendations,omitempty"`
	HiringRecommendation string    `json:"hiring_recommendation,omitempty"`
	Summary              string    `json:"summary,omitempty"`
	CreatedAt            time.Time `json:"created_at"`
}

// ManagerAction is a reviewing manager's decision or note on a candidate.
type ManagerAction struct {
	CandidateEmail string    `json:"candidate_email"`
	ManagerID      string    `json:"manager_id"`
	Action         string    `json:"action"`
	Notes          string    `json:"notes,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

package store

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/talentscout/hiring-assistant/internal/types"
)

// -----------------------------------------------------------------------------
// Conversation state
// -----------------------------------------------------------------------------

// GetState implements ConversationStore.
func (p *Postgres) GetState(ctx context.Context, email string) (*types.ConversationState, error) {
	var (
		state        types.ConversationState
		questionsRaw []byte
	)
	err := p.pool.QueryRow(ctx,
		`SELECT email, phase, intro_exchanges, question_index, questions, created_at, updated_at
		 FROM conversations WHERE email = $1`,
		email,
	).Scan(&state.CandidateEmail, &state.Phase, &state.IntroExchanges, &state.QuestionIndex,
		&questionsRaw, &state.CreatedAt, &state.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get conversation state: %w", err)
	}

	if err := json.Unmarshal(questionsRaw, &state.Questions); err != nil {
		return nil, fmt.Errorf("failed to decode questions for %s: %w", email, err)
	}
	return &state, nil
}

// UpsertState implements ConversationStore. The update is applied as a
// partial merge: only non-nil fields change, and updated_at always refreshes.
func (p *Postgres) UpsertState(ctx context.Context, email string, update types.StateUpdate) error {
	sets := []string{"updated_at = NOW()"}
	args := []any{email}

	appendSet := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if update.Phase != nil {
		appendSet("phase", string(*update.Phase))
	}
	if update.IntroExchanges != nil {
		appendSet("intro_exchanges", *update.IntroExchanges)
	}
	if update.QuestionIndex != nil {
		appendSet("question_index", *update.QuestionIndex)
	}
	if update.Questions != nil {
		encoded, err := json.Marshal(update.Questions)
		if err != nil {
			return fmt.Errorf("failed to encode questions: %w", err)
		}
		appendSet("questions", encoded)
	}

	tag, err := p.pool.Exec(ctx,
		fmt.Sprintf(`UPDATE conversations SET %s WHERE email = $1`, strings.Join(sets, ", ")),
		args...,
	)
	if err != nil {
		return fmt.Errorf("failed to update conversation state: %w", err)
	}
	if tag.RowsAffected() > 0 {
		return nil
	}

	// Create-if-absent. New conversations start in INTRO unless the update
	// says otherwise.
	phase := types.PhaseIntro
	if update.Phase != nil {
		phase = *update.Phase
	}
	intro, index := 0, 0
	if update.IntroExchanges != nil {
		intro = *update.IntroExchanges
	}
	if update.QuestionIndex != nil {
		index = *update.QuestionIndex
	}
	questions := update.Questions
	if questions == nil {
		questions = []string{}
	}
	encoded, err := json.Marshal(questions)
	if err != nil {
		return fmt.Errorf("failed to encode questions: %w", err)
	}

	_, err = p.pool.Exec(ctx,
		`INSERT INTO conversations (email, phase, intro_exchanges, question_index, questions)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (email) DO UPDATE SET updated_at = NOW()`,
		email, string(phase), intro, index, encoded,
	)
	if err != nil {
		return fmt.Errorf("failed to create conversation state: %w", err)
	}
	return nil
}

// -----------------------------------------------------------------------------
// Transcript
// -----------------------------------------------------------------------------

// AppendTranscript implements ConversationStore. Entries are ordered by the
// BIGSERIAL id, not by timestamp, so two writes in the same millisecond keep
// their insertion order.
func (p *Postgres) AppendTranscript(ctx context.Context, email, role, text string) error {
	_, err := p.pool.Exec(ctx,
		`INSERT INTO transcript_entries (email, role, text) VALUES ($1, $2, $3)`,
		email, role, text,
	)
	if err != nil {
		return fmt.Errorf("failed to append transcript: %w", err)
	}
	return nil
}

// GetTranscript implements ConversationStore.
func (p *Postgres) GetTranscript(ctx context.Context, email string) ([]types.TranscriptEntry, error) {
	rows, err := p.pool.Query(ctx,
		`SELECT role, text, created_at FROM transcript_entries WHERE email = $1 ORDER BY id ASC`,
		email,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get transcript: %w", err)
	}
	defer rows.Close()

	var entries []types.TranscriptEntry
	for rows.Next() {
		var e types.TranscriptEntry
		if err := rows.Scan(&e.Role, &e.Text, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan transcript entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// -----------------------------------------------------------------------------
// Answers
// -----------------------------------------------------------------------------

// SaveAnswer implements ConversationStore.
func (p *Postgres) SaveAnswer(ctx context.Context, email string, answer types.AnsweredQuestion) error {
	if answer.Seq < 1 {
		return fmt.Errorf("answer seq must be >= 1, got %d", answer.Seq)
	}
	_, err := p.pool.Exec(ctx,
		`INSERT INTO interview_answers (email, seq, question, answer, score, feedback)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (email, seq) DO UPDATE SET
		   question = $3, answer = $4, score = $5, feedback = $6`,
		email, answer.Seq, answer.Question, answer.Answer, answer.Score, answer.Feedback,
	)
	if err != nil {
		return fmt.Errorf("failed to save answer %d: %w", answer.Seq, err)
	}
	return nil
}

// GetAnswers implements ConversationStore.
func (p *Postgres) GetAnswers(ctx context.Context, email string) ([]types.AnsweredQuestion, error) {
	rows, err := p.pool.Query(ctx,
		`SELECT seq, question, answer, score, feedback, asked_at
		 FROM interview_answers WHERE email = $1 ORDER BY seq ASC`,
		email,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get answers: %w", err)
	}
	defer rows.Close()

	var answers []types.AnsweredQuestion
	for rows.Next() {
		var a types.AnsweredQuestion
		if err := rows.Scan(&a.Seq, &a.Question, &a.Answer, &a.Score, &a.Feedback, &a.AskedAt); err != nil {
			return nil, fmt.Errorf("failed to scan answer: %w", err)
		}
		answers = append(answers, a)
	}
	return answers, rows.Err()
}

// -----------------------------------------------------------------------------
// Analysis
// -----------------------------------------------------------------------------

// SaveAnalysis implements ConversationStore. Recomputing overwrites.
func (p *Postgres) SaveAnalysis(ctx context.Context, email string, analysis *types.ComprehensiveAnalysis) error {
	if analysis == nil {
		return fmt.Errorf("analysis cannot be nil")
	}

	strengths, err := json.Marshal(emptyIfNil(analysis.KeyStrengths))
	if err != nil {
		return fmt.Errorf("failed to encode key strengths: %w", err)
	}
	growth, err := json.Marshal(emptyIfNil(analysis.GrowthAreas))
	if err != nil {
		return fmt.Errorf("failed to encode growth areas: %w", err)
	}
	recs, err := json.Marshal(emptyIfNil(analysis.Recommendations))
	if err != nil {
		return fmt.Errorf("failed to encode recommendations: %w", err)
	}

	_, err = p.pool.Exec(ctx,
		`INSERT INTO candidate_analysis
		   (email, overall_score, technical_score, communication_score, problem_solving_score,
		    key_strengths, growth_areas, recommendations, hiring_recommendation, summary)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		 ON CONFLICT (email) DO UPDATE SET
		   overall_score = $2, technical_score = $3, communication_score = $4,
		   problem_solving_score = $5, key_strengths = $6, growth_areas = $7,
		   recommendations = $8, hiring_recommendation = $9, summary = $10,
		   created_at = NOW()`,
		email, analysis.OverallScore, analysis.TechnicalScore, analysis.CommunicationScore,
		analysis.ProblemSolvingScore, strengths, growth, recs,
		analysis.HiringRecommendation, analysis.Summary,
	)
	if err != nil {
		return fmt.Errorf("failed to save analysis: %w", err)
	}
	return nil
}

// GetAnalysis implements ConversationStore.
func (p *Postgres) GetAnalysis(ctx context.Context, email string) (*types.ComprehensiveAnalysis, error) {
	var (
		a         types.ComprehensiveAnalysis
		strengths []byte
		growth    []byte
		recs      []byte
	)
	err := p.pool.QueryRow(ctx,
		`SELECT overall_score, technical_score, communication_score, problem_solving_score,
		        key_strengths, growth_areas, recommendations, hiring_recommendation, summary, created_at
		 FROM candidate_analysis WHERE email = $1`,
		email,
	).Scan(&a.OverallScore, &a.TechnicalScore, &a.CommunicationScore, &a.ProblemSolvingScore,
		&strengths, &growth, &recs, &a.HiringRecommendation, &a.Summary, &a.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get analysis: %w", err)
	}

	if err := json.Unmarshal(strengths, &a.KeyStrengths); err != nil {
		return nil, fmt.Errorf("failed to decode key strengths: %w", err)
	}
	if err := json.Unmarshal(growth, &a.GrowthAreas); err != nil {
		return nil, fmt.Errorf("failed to decode growth areas: %w", err)
	}
	if err := json.Unmarshal(recs, &a.Recommendations); err != nil {
		return nil, fmt.Errorf("failed to decode recommendations: %w", err)
	}
	return &a, nil
}

// Clear implements ConversationStore.
func (p *Postgres) Clear(ctx context.Context, email string) error {
	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin clear transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // rollback after commit is a no-op

	for _, table := range []string{"conversations", "transcript_entries", "interview_answers", "candidate_analysis"} {
		if _, err := tx.Exec(ctx, fmt.Sprintf(`DELETE FROM %s WHERE email = $1`, table), email); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit clear: %w", err)
	}
	return nil
}

func emptyIfNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

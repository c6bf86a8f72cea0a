package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/talentscout/hiring-assistant/internal/types"
)

// -----------------------------------------------------------------------------
// Candidate profiles
// -----------------------------------------------------------------------------

// SaveCandidate implements CandidateStore. Re-saving the same email replaces
// the profile and resume text.
func (p *Postgres) SaveCandidate(ctx context.Context, profile *types.CandidateProfile, resumeText string) error {
	if profile == nil || profile.Email == "" {
		return fmt.Errorf("candidate profile requires an email")
	}
	if profile.ID == uuid.Nil {
		profile.ID = uuid.New()
	}
	stack, err := json.Marshal(emptyIfNil(profile.TechStack))
	if err != nil {
		return fmt.Errorf("failed to encode tech stack: %w", err)
	}

	_, err = p.pool.Exec(ctx,
		`INSERT INTO candidates
		   (id, email, full_name, phone, years_experience, desired_position, location, tech_stack, resume_text)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 ON CONFLICT (email) DO UPDATE SET
		   full_name = $3, phone = $4, years_experience = $5, desired_position = $6,
		   location = $7, tech_stack = $8, resume_text = $9`,
		profile.ID, profile.Email, profile.FullName, profile.Phone, profile.YearsExperience,
		profile.DesiredPosition, profile.Location, stack, resumeText,
	)
	if err != nil {
		return fmt.Errorf("failed to save candidate: %w", err)
	}
	return nil
}

// GetCandidate implements CandidateStore.
func (p *Postgres) GetCandidate(ctx context.Context, email string) (*types.CandidateProfile, error) {
	profile, err := scanCandidate(p.pool.QueryRow(ctx,
		`SELECT id, email, full_name, phone, years_experience, desired_position, location, tech_stack, created_at
		 FROM candidates WHERE email = $1`,
		email,
	))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get candidate: %w", err)
	}
	return profile, nil
}

// UpdateCandidate implements CandidateStore.
func (p *Postgres) UpdateCandidate(ctx context.Context, profile *types.CandidateProfile) error {
	stack, err := json.Marshal(emptyIfNil(profile.TechStack))
	if err != nil {
		return fmt.Errorf("failed to encode tech stack: %w", err)
	}

	tag, err := p.pool.Exec(ctx,
		`UPDATE candidates SET
		   full_name = $2, phone = $3, years_experience = $4,
		   desired_position = $5, location = $6, tech_stack = $7
		 WHERE email = $1`,
		profile.Email, profile.FullName, profile.Phone, profile.YearsExperience,
		profile.DesiredPosition, profile.Location, stack,
	)
	if err != nil {
		return fmt.Errorf("failed to update candidate: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("candidate %s not found", profile.Email)
	}
	return nil
}

// ListCompletedCandidates implements CandidateStore.
func (p *Postgres) ListCompletedCandidates(ctx context.Context) ([]types.CandidateProfile, error) {
	rows, err := p.pool.Query(ctx,
		`SELECT c.id, c.email, c.full_name, c.phone, c.years_experience, c.desired_position,
		        c.location, c.tech_stack, c.created_at
		 FROM candidates c
		 JOIN conversations conv ON c.email = conv.email
		 WHERE conv.phase IN ($1, $2)
		 ORDER BY c.created_at DESC`,
		string(types.PhasePostQA), string(types.PhaseTerminated),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list completed candidates: %w", err)
	}
	defer rows.Close()

	var candidates []types.CandidateProfile
	for rows.Next() {
		profile, err := scanCandidate(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan candidate: %w", err)
		}
		candidates = append(candidates, *profile)
	}
	return candidates, rows.Err()
}

// -----------------------------------------------------------------------------
// Manager actions
// -----------------------------------------------------------------------------

// SaveManagerAction implements CandidateStore.
func (p *Postgres) SaveManagerAction(ctx context.Context, action types.ManagerAction) error {
	_, err := p.pool.Exec(ctx,
		`INSERT INTO manager_actions (candidate_email, manager_id, action, notes)
		 VALUES ($1, $2, $3, $4)`,
		action.CandidateEmail, action.ManagerID, action.Action, action.Notes,
	)
	if err != nil {
		return fmt.Errorf("failed to save manager action: %w", err)
	}
	return nil
}

// GetManagerActions implements CandidateStore.
func (p *Postgres) GetManagerActions(ctx context.Context, email string) ([]types.ManagerAction, error) {
	rows, err := p.pool.Query(ctx,
		`SELECT candidate_email, manager_id, action, notes, created_at
		 FROM manager_actions WHERE candidate_email = $1 ORDER BY id ASC`,
		email,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get manager actions: %w", err)
	}
	defer rows.Close()

	var actions []types.ManagerAction
	for rows.Next() {
		var a types.ManagerAction
		if err := rows.Scan(&a.CandidateEmail, &a.ManagerID, &a.Action, &a.Notes, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan manager action: %w", err)
		}
		actions = append(actions, a)
	}
	return actions, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCandidate(row rowScanner) (*types.CandidateProfile, error) {
	var (
		profile  types.CandidateProfile
		stackRaw []byte
	)
	err := row.Scan(&profile.ID, &profile.Email, &profile.FullName, &profile.Phone,
		&profile.YearsExperience, &profile.DesiredPosition, &profile.Location,
		&stackRaw, &profile.CreatedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(stackRaw, &profile.TechStack); err != nil {
		return nil, fmt.Errorf("failed to decode tech stack: %w", err)
	}
	return &profile, nil
}

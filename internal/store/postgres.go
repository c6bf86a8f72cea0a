package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Postgres implements Store on a PostgreSQL connection pool.
type Postgres struct {
	pool *pgxpool.Pool
}

var _ Store = (*Postgres)(nil)

// Connect establishes a connection pool and ensures the schema exists.
func Connect(ctx context.Context, databaseURL string) (*Postgres, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	p := &Postgres{pool: pool}
	if err := p.ensureSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return p, nil
}

// Close closes the connection pool.
func (p *Postgres) Close() {
	if p.pool != nil {
		p.pool.Close()
	}
}

// schema is applied idempotently at connect time.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS candidates (
		id UUID PRIMARY KEY,
		email TEXT NOT NULL UNIQUE,
		full_name TEXT NOT NULL,
		phone TEXT NOT NULL DEFAULT '',
		years_experience INT NOT NULL DEFAULT 0,
		desired_position TEXT NOT NULL DEFAULT '',
		location TEXT NOT NULL DEFAULT '',
		tech_stack JSONB NOT NULL DEFAULT '[]',
		resume_text TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS conversations (
		email TEXT PRIMARY KEY,
		phase TEXT NOT NULL,
		intro_exchanges INT NOT NULL DEFAULT 0,
		question_index INT NOT NULL DEFAULT 0,
		questions JSONB NOT NULL DEFAULT '[]',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS transcript_entries (
		id BIGSERIAL PRIMARY KEY,
		email TEXT NOT NULL,
		role TEXT NOT NULL,
		text TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_transcript_email ON transcript_entries (email, id)`,
	`CREATE TABLE IF NOT EXISTS interview_answers (
		email TEXT NOT NULL,
		seq INT NOT NULL,
		question TEXT NOT NULL,
		answer TEXT NOT NULL,
		score DOUBLE PRECISION,
		feedback TEXT NOT NULL DEFAULT '',
		asked_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		PRIMARY KEY (email, seq)
	)`,
	`CREATE TABLE IF NOT EXISTS candidate_analysis (
		email TEXT PRIMARY KEY,
		overall_score DOUBLE PRECISION NOT NULL,
		technical_score DOUBLE PRECISION NOT NULL,
		communication_score DOUBLE PRECISION NOT NULL,
		problem_solving_score DOUBLE PRECISION NOT NULL,
		key_strengths JSONB NOT NULL DEFAULT '[]',
		growth_areas JSONB NOT NULL DEFAULT '[]',
		recommendations JSONB NOT NULL DEFAULT '[]',
		hiring_recommendation TEXT NOT NULL DEFAULT '',
		summary TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS manager_actions (
		id BIGSERIAL PRIMARY KEY,
		candidate_email TEXT NOT NULL,
		manager_id TEXT NOT NULL,
		action TEXT NOT NULL,
		notes TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS managers (
		id UUID PRIMARY KEY,
		email TEXT NOT NULL UNIQUE,
		name TEXT NOT NULL,
		password_hash TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
}

func (p *Postgres) ensureSchema(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := p.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	return nil
}

package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// GetManagerByEmail implements ManagerStore.
func (p *Postgres) GetManagerByEmail(ctx context.Context, email string) (*Manager, error) {
	var m Manager
	err := p.pool.QueryRow(ctx,
		`SELECT id, email, name, password_hash, created_at FROM managers WHERE email = $1`,
		email,
	).Scan(&m.ID, &m.Email, &m.Name, &m.PasswordHash, &m.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get manager: %w", err)
	}
	return &m, nil
}

// CreateManager implements ManagerStore.
func (p *Postgres) CreateManager(ctx context.Context, email, name, passwordHash string) (*Manager, error) {
	var m Manager
	err := p.pool.QueryRow(ctx,
		`INSERT INTO managers (id, email, name, password_hash)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, email, name, password_hash, created_at`,
		uuid.New(), email, name, passwordHash,
	).Scan(&m.ID, &m.Email, &m.Name, &m.PasswordHash, &m.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create manager: %w", err)
	}
	return &m, nil
}

package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

var ErrAlreadyGenerated = errors.New("bracket already generated for this match")

// GenerationRepository guards bracket generation: a match can be claimed once.
type GenerationRepository interface {
	Claim(ctx context.Context, exec SQLExecutor, matchID int) error
	Exists(ctx context.Context, exec SQLExecutor, matchID int) (bool, error)
}

type sqlGenerationRepository struct {
	db      *sql.DB
	dialect Dialect
}

func NewGenerationRepository(db *sql.DB, dialect Dialect) GenerationRepository {
	return &sqlGenerationRepository{db: db, dialect: dialect}
}

// Claim inserts the guard row. When another transaction already holds it the
// insert is a no-op and ErrAlreadyGenerated is returned.
func (r *sqlGenerationRepository) Claim(ctx context.Context, exec SQLExecutor, matchID int) error {
	if exec == nil {
		exec = r.db
	}
	query := r.dialect.Rebind(`
		INSERT INTO bracket_generations (match_id, generated_at)
		VALUES (?, ?)
		ON CONFLICT (match_id) DO NOTHING`)
	result, err := exec.ExecContext(ctx, query, matchID, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to claim bracket generation for match %d: %w", matchID, err)
	}
	return checkAffectedRows(result, ErrAlreadyGenerated)
}

func (r *sqlGenerationRepository) Exists(ctx context.Context, exec SQLExecutor, matchID int) (bool, error) {
	if exec == nil {
		exec = r.db
	}
	var one int
	err := exec.QueryRowContext(ctx, r.dialect.Rebind(`SELECT 1 FROM bracket_generations WHERE match_id = ?`), matchID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check bracket generation for match %d: %w", matchID, err)
	}
	return true, nil
}

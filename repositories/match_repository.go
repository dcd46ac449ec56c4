package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Dosada05/bracket-engine/models"
)

var (
	ErrMatchNotFound    = errors.New("match not found")
	ErrMatchNameInvalid = errors.New("match name is required")
)

type MatchRepository interface {
	Create(ctx context.Context, exec SQLExecutor, match *models.Match) error
	GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Match, error)
	List(ctx context.Context, status *models.MatchStatus) ([]*models.Match, error)
	UpdateStatus(ctx context.Context, exec SQLExecutor, id int, status models.MatchStatus) error
}

type sqlMatchRepository struct {
	db      *sql.DB
	dialect Dialect
}

func NewMatchRepository(db *sql.DB, dialect Dialect) MatchRepository {
	return &sqlMatchRepository{db: db, dialect: dialect}
}

func (r *sqlMatchRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

const matchColumns = `id, name, format, status, max_participants, settings_json, created_at`

func (r *sqlMatchRepository) Create(ctx context.Context, exec SQLExecutor, match *models.Match) error {
	if match.Name == "" {
		return ErrMatchNameInvalid
	}
	if match.Status == "" {
		match.Status = models.MatchStatusRegistration
	}
	match.CreatedAt = time.Now().UTC()

	query := r.dialect.Rebind(`
		INSERT INTO matches (name, format, status, max_participants, settings_json, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		RETURNING id`)

	err := r.getExecutor(exec).QueryRowContext(ctx, query,
		match.Name,
		match.Format,
		match.Status,
		match.MaxParticipants,
		match.SettingsJSON,
		match.CreatedAt,
	).Scan(&match.ID)
	if err != nil {
		return fmt.Errorf("failed to create match: %w", err)
	}
	return nil
}

func (r *sqlMatchRepository) scanMatch(row rowScanner) (*models.Match, error) {
	m := &models.Match{}
	err := row.Scan(
		&m.ID,
		&m.Name,
		&m.Format,
		&m.Status,
		&m.MaxParticipants,
		&m.SettingsJSON,
		&m.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return m, nil
}

func (r *sqlMatchRepository) GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Match, error) {
	query := r.dialect.Rebind(`SELECT ` + matchColumns + ` FROM matches WHERE id = ?`)

	m, err := r.scanMatch(r.getExecutor(exec).QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMatchNotFound
		}
		return nil, fmt.Errorf("failed to get match %d: %w", id, err)
	}
	return m, nil
}

func (r *sqlMatchRepository) List(ctx context.Context, status *models.MatchStatus) ([]*models.Match, error) {
	query := `SELECT ` + matchColumns + ` FROM matches`
	var args []interface{}
	if status != nil {
		query += ` WHERE status = ?`
		args = append(args, *status)
	}
	query += ` ORDER BY id ASC`

	rows, err := r.db.QueryContext(ctx, r.dialect.Rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list matches: %w", err)
	}
	defer rows.Close()

	matches := make([]*models.Match, 0)
	for rows.Next() {
		m, scanErr := r.scanMatch(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("failed to scan match row: %w", scanErr)
		}
		matches = append(matches, m)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during match rows iteration: %w", err)
	}
	return matches, nil
}

func (r *sqlMatchRepository) UpdateStatus(ctx context.Context, exec SQLExecutor, id int, status models.MatchStatus) error {
	query := r.dialect.Rebind(`UPDATE matches SET status = ? WHERE id = ?`)
	result, err := r.getExecutor(exec).ExecContext(ctx, query, status, id)
	if err != nil {
		return fmt.Errorf("failed to update status of match %d: %w", id, err)
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

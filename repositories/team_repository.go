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
	ErrTeamNotFound     = errors.New("team not found")
	ErrTeamNameConflict = errors.New("team name already exists")
)

type TeamRepository interface {
	Create(ctx context.Context, team *models.Team) error
	GetByID(ctx context.Context, id int) (*models.Team, error)
	ListByIDs(ctx context.Context, exec SQLExecutor, ids []int) ([]*models.Team, error)
}

type sqlTeamRepository struct {
	db      *sql.DB
	dialect Dialect
}

func NewTeamRepository(db *sql.DB, dialect Dialect) TeamRepository {
	return &sqlTeamRepository{db: db, dialect: dialect}
}

func (r *sqlTeamRepository) Create(ctx context.Context, team *models.Team) error {
	team.CreatedAt = time.Now().UTC()
	query := r.dialect.Rebind(`INSERT INTO teams (name, seed, created_at) VALUES (?, ?, ?) RETURNING id`)

	err := r.db.QueryRowContext(ctx, query, team.Name, team.Seed, team.CreatedAt).Scan(&team.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrTeamNameConflict
		}
		return fmt.Errorf("failed to create team: %w", err)
	}
	return nil
}

func (r *sqlTeamRepository) GetByID(ctx context.Context, id int) (*models.Team, error) {
	query := r.dialect.Rebind(`SELECT id, name, seed, created_at FROM teams WHERE id = ?`)

	team := &models.Team{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(&team.ID, &team.Name, &team.Seed, &team.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to get team %d: %w", id, err)
	}
	return team, nil
}

// ListByIDs returns the teams that exist among ids, in id order. Missing ids
// are simply absent from the result.
func (r *sqlTeamRepository) ListByIDs(ctx context.Context, exec SQLExecutor, ids []int) ([]*models.Team, error) {
	if len(ids) == 0 {
		return []*models.Team{}, nil
	}
	if exec == nil {
		exec = r.db
	}

	args := make([]interface{}, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	query := r.dialect.Rebind(`SELECT id, name, seed, created_at FROM teams WHERE id IN (` + placeholders(len(ids)) + `) ORDER BY id`)

	rows, err := exec.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams: %w", err)
	}
	defer rows.Close()

	teams := make([]*models.Team, 0, len(ids))
	for rows.Next() {
		team := &models.Team{}
		if scanErr := rows.Scan(&team.ID, &team.Name, &team.Seed, &team.CreatedAt); scanErr != nil {
			return nil, fmt.Errorf("failed to scan team row: %w", scanErr)
		}
		teams = append(teams, team)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during team rows iteration: %w", err)
	}
	return teams, nil
}

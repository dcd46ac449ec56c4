package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dosada05/bracket-engine/models"
)

var ErrParticipantTeamInvalid = errors.New("participant team or match does not exist")

type ParticipantRepository interface {
	Upsert(ctx context.Context, exec SQLExecutor, p *models.Participant) error
	ListByMatch(ctx context.Context, exec SQLExecutor, matchID int) ([]*models.Participant, error)
}

type sqlParticipantRepository struct {
	db      *sql.DB
	dialect Dialect
}

func NewParticipantRepository(db *sql.DB, dialect Dialect) ParticipantRepository {
	return &sqlParticipantRepository{db: db, dialect: dialect}
}

// Upsert registers the team for the match or refreshes its seed if it is
// already registered.
func (r *sqlParticipantRepository) Upsert(ctx context.Context, exec SQLExecutor, p *models.Participant) error {
	if exec == nil {
		exec = r.db
	}
	if p.Status == "" {
		p.Status = models.ParticipantStatusApproved
	}
	query := r.dialect.Rebind(`
		INSERT INTO match_participants (match_id, team_id, seed, status)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (match_id, team_id) DO UPDATE SET seed = excluded.seed, status = excluded.status`)

	if _, err := exec.ExecContext(ctx, query, p.MatchID, p.TeamID, p.Seed, p.Status); err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: match %d team %d", ErrParticipantTeamInvalid, p.MatchID, p.TeamID)
		}
		return fmt.Errorf("failed to upsert participant team %d for match %d: %w", p.TeamID, p.MatchID, err)
	}
	return nil
}

// ListByMatch returns the match's participants in seed order with team names
// attached.
func (r *sqlParticipantRepository) ListByMatch(ctx context.Context, exec SQLExecutor, matchID int) ([]*models.Participant, error) {
	if exec == nil {
		exec = r.db
	}
	query := r.dialect.Rebind(`
		SELECT mp.match_id, mp.team_id, mp.seed, mp.status,
		       t.id, t.name, t.seed, t.created_at
		FROM match_participants mp
		JOIN teams t ON t.id = mp.team_id
		WHERE mp.match_id = ?
		ORDER BY mp.seed ASC, mp.team_id ASC`)

	rows, err := exec.QueryContext(ctx, query, matchID)
	if err != nil {
		return nil, fmt.Errorf("failed to list participants for match %d: %w", matchID, err)
	}
	defer rows.Close()

	participants := make([]*models.Participant, 0)
	for rows.Next() {
		p := &models.Participant{Team: &models.Team{}}
		if scanErr := rows.Scan(
			&p.MatchID,
			&p.TeamID,
			&p.Seed,
			&p.Status,
			&p.Team.ID,
			&p.Team.Name,
			&p.Team.Seed,
			&p.Team.CreatedAt,
		); scanErr != nil {
			return nil, fmt.Errorf("failed to scan participant row: %w", scanErr)
		}
		participants = append(participants, p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during participant rows iteration: %w", err)
	}
	return participants, nil
}

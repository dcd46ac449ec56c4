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
	ErrGameNotFound         = errors.New("game not found")
	ErrGameConflict         = errors.New("game already exists at this bracket position")
	ErrGameAlreadyCompleted = errors.New("game already completed")
	ErrGameStatusConflict   = errors.New("game is not in the expected status")
	ErrSlotOccupied         = errors.New("game slot already holds another team")
)

type GameRepository interface {
	Create(ctx context.Context, exec SQLExecutor, game *models.Game) error
	GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Game, error)
	GetByIDForUpdate(ctx context.Context, exec SQLExecutor, id int) (*models.Game, error)
	ListByMatch(ctx context.Context, exec SQLExecutor, matchID int) ([]*models.Game, error)
	UpdateLinks(ctx context.Context, exec SQLExecutor, id int, nextGameID, nextSlot, loserNextGameID, loserNextSlot *int) error
	Complete(ctx context.Context, exec SQLExecutor, id int, team1Score, team2Score int, winnerID *int) error
	SetSlotIfEmpty(ctx context.Context, exec SQLExecutor, id int, slot int, teamID int) (bool, error)
	UpdateStatus(ctx context.Context, exec SQLExecutor, id int, from, to models.GameStatus) error
	UpdateSchedule(ctx context.Context, exec SQLExecutor, id int, scheduledAt *time.Time, venue *string) error
	CountUnfinished(ctx context.Context, exec SQLExecutor, matchID int) (int, error)
	MaxRound(ctx context.Context, exec SQLExecutor, matchID int) (int, error)
}

type sqlGameRepository struct {
	db      *sql.DB
	dialect Dialect
}

func NewGameRepository(db *sql.DB, dialect Dialect) GameRepository {
	return &sqlGameRepository{db: db, dialect: dialect}
}

func (r *sqlGameRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

const gameColumns = `id, match_id, bracket_uid, bracket, round, game_number,
	team1_id, team2_id, team1_score, team2_score, status, winner_id,
	next_game_id, next_slot, loser_next_game_id, loser_next_slot,
	scheduled_at, venue, created_at`

func (r *sqlGameRepository) Create(ctx context.Context, exec SQLExecutor, game *models.Game) error {
	if game.Status == "" {
		game.Status = models.GameStatusScheduled
	}
	game.CreatedAt = time.Now().UTC()

	query := r.dialect.Rebind(`
		INSERT INTO games
			(match_id, bracket_uid, bracket, round, game_number, team1_id, team2_id,
			 team1_score, team2_score, status, winner_id, next_game_id, next_slot,
			 loser_next_game_id, loser_next_slot, scheduled_at, venue, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id`)

	err := r.getExecutor(exec).QueryRowContext(ctx, query,
		game.MatchID,
		game.BracketUID,
		game.Bracket,
		game.Round,
		game.GameNumber,
		game.Team1ID,
		game.Team2ID,
		game.Team1Score,
		game.Team2Score,
		game.Status,
		game.WinnerID,
		game.NextGameID,
		game.NextSlot,
		game.LoserNextGameID,
		game.LoserNextSlot,
		game.ScheduledAt,
		game.Venue,
		game.CreatedAt,
	).Scan(&game.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: match %d %s", ErrGameConflict, game.MatchID, game.BracketUID)
		}
		return fmt.Errorf("failed to create game %s for match %d: %w", game.BracketUID, game.MatchID, err)
	}
	return nil
}

func (r *sqlGameRepository) scanGame(row rowScanner) (*models.Game, error) {
	g := &models.Game{}
	err := row.Scan(
		&g.ID,
		&g.MatchID,
		&g.BracketUID,
		&g.Bracket,
		&g.Round,
		&g.GameNumber,
		&g.Team1ID,
		&g.Team2ID,
		&g.Team1Score,
		&g.Team2Score,
		&g.Status,
		&g.WinnerID,
		&g.NextGameID,
		&g.NextSlot,
		&g.LoserNextGameID,
		&g.LoserNextSlot,
		&g.ScheduledAt,
		&g.Venue,
		&g.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return g, nil
}

func (r *sqlGameRepository) getOne(ctx context.Context, exec SQLExecutor, id int, lock bool) (*models.Game, error) {
	query := `SELECT ` + gameColumns + ` FROM games WHERE id = ?`
	if lock {
		query += r.dialect.lockSuffix()
	}
	g, err := r.scanGame(r.getExecutor(exec).QueryRowContext(ctx, r.dialect.Rebind(query), id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrGameNotFound
		}
		return nil, fmt.Errorf("failed to get game %d: %w", id, err)
	}
	return g, nil
}

func (r *sqlGameRepository) GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Game, error) {
	return r.getOne(ctx, exec, id, false)
}

// GetByIDForUpdate reads the game and keeps it locked until exec commits.
func (r *sqlGameRepository) GetByIDForUpdate(ctx context.Context, exec SQLExecutor, id int) (*models.Game, error) {
	return r.getOne(ctx, exec, id, true)
}

func (r *sqlGameRepository) ListByMatch(ctx context.Context, exec SQLExecutor, matchID int) ([]*models.Game, error) {
	query := r.dialect.Rebind(`
		SELECT ` + gameColumns + `
		FROM games
		WHERE match_id = ?
		ORDER BY CASE bracket WHEN 'main' THEN 0 WHEN 'losers' THEN 1 ELSE 2 END, round ASC, game_number ASC`)

	rows, err := r.getExecutor(exec).QueryContext(ctx, query, matchID)
	if err != nil {
		return nil, fmt.Errorf("failed to query games for match %d: %w", matchID, err)
	}
	defer rows.Close()

	games := make([]*models.Game, 0)
	for rows.Next() {
		g, scanErr := r.scanGame(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("failed to scan game row: %w", scanErr)
		}
		games = append(games, g)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during game rows iteration: %w", err)
	}
	return games, nil
}

func (r *sqlGameRepository) UpdateLinks(ctx context.Context, exec SQLExecutor, id int, nextGameID, nextSlot, loserNextGameID, loserNextSlot *int) error {
	query := r.dialect.Rebind(`
		UPDATE games
		SET next_game_id = ?, next_slot = ?, loser_next_game_id = ?, loser_next_slot = ?
		WHERE id = ?`)
	result, err := r.getExecutor(exec).ExecContext(ctx, query, nextGameID, nextSlot, loserNextGameID, loserNextSlot, id)
	if err != nil {
		return fmt.Errorf("failed to update links of game %d: %w", id, err)
	}
	return checkAffectedRows(result, ErrGameNotFound)
}

// Complete stores the final score. It only succeeds for a game that is not
// completed yet, so a repeated submission is reported instead of applied.
func (r *sqlGameRepository) Complete(ctx context.Context, exec SQLExecutor, id int, team1Score, team2Score int, winnerID *int) error {
	query := r.dialect.Rebind(`
		UPDATE games
		SET team1_score = ?, team2_score = ?, winner_id = ?, status = ?
		WHERE id = ? AND status <> ?`)
	result, err := r.getExecutor(exec).ExecContext(ctx, query,
		team1Score, team2Score, winnerID, models.GameStatusCompleted, id, models.GameStatusCompleted)
	if err != nil {
		return fmt.Errorf("failed to complete game %d: %w", id, err)
	}
	return checkAffectedRows(result, ErrGameAlreadyCompleted)
}

// SetSlotIfEmpty writes teamID into the slot only while it is still empty.
// It reports false when the slot already held the same team and fails with
// ErrSlotOccupied when it held a different one.
func (r *sqlGameRepository) SetSlotIfEmpty(ctx context.Context, exec SQLExecutor, id int, slot int, teamID int) (bool, error) {
	column := "team1_id"
	if slot == models.Slot2 {
		column = "team2_id"
	} else if slot != models.Slot1 {
		return false, fmt.Errorf("invalid slot %d for game %d", slot, id)
	}

	ex := r.getExecutor(exec)
	query := r.dialect.Rebind(`UPDATE games SET ` + column + ` = ? WHERE id = ? AND ` + column + ` IS NULL`)
	result, err := ex.ExecContext(ctx, query, teamID, id)
	if err != nil {
		return false, fmt.Errorf("failed to fill slot %d of game %d: %w", slot, id, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to check affected rows: %w", err)
	}
	if affected == 1 {
		return true, nil
	}

	var current sql.NullInt64
	err = ex.QueryRowContext(ctx, r.dialect.Rebind(`SELECT `+column+` FROM games WHERE id = ?`), id).Scan(&current)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, ErrGameNotFound
		}
		return false, fmt.Errorf("failed to read slot %d of game %d: %w", slot, id, err)
	}
	if current.Valid && int(current.Int64) == teamID {
		return false, nil
	}
	return false, fmt.Errorf("%w: game %d slot %d", ErrSlotOccupied, id, slot)
}

func (r *sqlGameRepository) UpdateStatus(ctx context.Context, exec SQLExecutor, id int, from, to models.GameStatus) error {
	query := r.dialect.Rebind(`UPDATE games SET status = ? WHERE id = ? AND status = ?`)
	result, err := r.getExecutor(exec).ExecContext(ctx, query, to, id, from)
	if err != nil {
		return fmt.Errorf("failed to update status of game %d: %w", id, err)
	}
	return checkAffectedRows(result, ErrGameStatusConflict)
}

func (r *sqlGameRepository) UpdateSchedule(ctx context.Context, exec SQLExecutor, id int, scheduledAt *time.Time, venue *string) error {
	query := r.dialect.Rebind(`UPDATE games SET scheduled_at = ?, venue = ? WHERE id = ?`)
	result, err := r.getExecutor(exec).ExecContext(ctx, query, scheduledAt, venue, id)
	if err != nil {
		return fmt.Errorf("failed to update schedule of game %d: %w", id, err)
	}
	return checkAffectedRows(result, ErrGameNotFound)
}

func (r *sqlGameRepository) CountUnfinished(ctx context.Context, exec SQLExecutor, matchID int) (int, error) {
	query := r.dialect.Rebind(`SELECT COUNT(*) FROM games WHERE match_id = ? AND status <> ?`)
	var count int
	if err := r.getExecutor(exec).QueryRowContext(ctx, query, matchID, models.GameStatusCompleted).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count unfinished games for match %d: %w", matchID, err)
	}
	return count, nil
}

// MaxRound is the highest round number with a game in the match, 0 for none.
func (r *sqlGameRepository) MaxRound(ctx context.Context, exec SQLExecutor, matchID int) (int, error) {
	query := r.dialect.Rebind(`SELECT COALESCE(MAX(round), 0) FROM games WHERE match_id = ?`)
	var round int
	if err := r.getExecutor(exec).QueryRowContext(ctx, query, matchID).Scan(&round); err != nil {
		return 0, fmt.Errorf("failed to read last round for match %d: %w", matchID, err)
	}
	return round, nil
}

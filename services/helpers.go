package services

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/Dosada05/bracket-engine/brackets"
	"github.com/Dosada05/bracket-engine/models"
)

// withTx runs fn in a transaction, rolling back on error or panic and
// committing otherwise.
func withTx(ctx context.Context, db *sql.DB, logger *slog.Logger, fn func(tx *sql.Tx) error) (txErr error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		} else if txErr != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				logger.ErrorContext(ctx, "rollback failed", slog.Any("error", rbErr), slog.Any("cause", txErr))
				txErr = fmt.Errorf("transaction processing error: %w (rollback also failed: %v)", txErr, rbErr)
			}
		} else if cErr := tx.Commit(); cErr != nil {
			txErr = fmt.Errorf("failed to commit transaction: %w", cErr)
		}
	}()
	return fn(tx)
}

// matchSettings decodes the match settings, falling back to defaults with a
// warning when they are malformed.
func matchSettings(ctx context.Context, logger *slog.Logger, match *models.Match) models.MatchSettings {
	settings, err := models.ParseMatchSettings(match.SettingsJSON)
	if err != nil {
		logger.WarnContext(ctx, "invalid match settings, using defaults",
			slog.Int("match_id", match.ID),
			slog.Any("error", err))
	}
	match.Settings = &settings
	return settings
}

func toGame(matchID int, bg *brackets.BracketGame) *models.Game {
	return &models.Game{
		MatchID:    matchID,
		BracketUID: bg.UID,
		Bracket:    bg.Bracket,
		Round:      bg.Round,
		GameNumber: bg.GameNumber,
		Team1ID:    bg.Team1ID,
		Team2ID:    bg.Team2ID,
		Status:     models.GameStatusScheduled,
	}
}

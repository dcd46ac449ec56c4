package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Dosada05/bracket-engine/brackets"
	"github.com/Dosada05/bracket-engine/models"
	"github.com/Dosada05/bracket-engine/repositories"
)

// ResultOutcome describes everything a submitted result changed.
type ResultOutcome struct {
	Game           *models.Game   `json:"game"`
	Advanced       []*models.Game `json:"advanced"`
	MatchCompleted bool           `json:"match_completed"`
}

type ResultService interface {
	SubmitGameResult(ctx context.Context, gameID int, team1Score, team2Score int) (*ResultOutcome, error)
	StartGame(ctx context.Context, gameID int) (*models.Game, error)
	ScheduleGame(ctx context.Context, gameID int, scheduledAt *time.Time, venue *string) (*models.Game, error)
}

type resultService struct {
	db              *sql.DB
	matchRepo       repositories.MatchRepository
	participantRepo repositories.ParticipantRepository
	gameRepo        repositories.GameRepository
	archiver        MatchArchiver
	logger          *slog.Logger
}

// NewResultService wires the result flow. archiver may be nil, in which case
// completed matches are not archived.
func NewResultService(
	db *sql.DB,
	matchRepo repositories.MatchRepository,
	participantRepo repositories.ParticipantRepository,
	gameRepo repositories.GameRepository,
	archiver MatchArchiver,
	logger *slog.Logger,
) ResultService {
	return &resultService{
		db:              db,
		matchRepo:       matchRepo,
		participantRepo: participantRepo,
		gameRepo:        gameRepo,
		archiver:        archiver,
		logger:          logger,
	}
}

// SubmitGameResult records the final score of a game and moves the winner,
// and in double elimination the loser, into their next games. The game row
// is locked for the whole transaction and completion is conditional, so a
// result is applied at most once and sibling games advancing into the same
// target never overwrite each other.
func (s *resultService) SubmitGameResult(ctx context.Context, gameID int, team1Score, team2Score int) (*ResultOutcome, error) {
	outcome := &ResultOutcome{Advanced: []*models.Game{}}
	var matchID int

	err := withTx(ctx, s.db, s.logger, func(tx *sql.Tx) error {
		game, err := s.gameRepo.GetByIDForUpdate(ctx, tx, gameID)
		if err != nil {
			return repoError(err)
		}
		if game.IsCompleted() {
			return fmt.Errorf("%w: game %d", ErrAlreadyCompleted, game.ID)
		}
		matchID = game.MatchID

		match, err := s.matchRepo.GetByID(ctx, tx, game.MatchID)
		if err != nil {
			return repoError(err)
		}
		if match.Status == models.MatchStatusCanceled {
			return fmt.Errorf("%w: match %d", ErrMatchClosed, match.ID)
		}
		settings := matchSettings(ctx, s.logger, match)

		winnerID, err := brackets.DetermineWinner(match.Format, game, team1Score, team2Score)
		if err != nil {
			return err
		}
		if err = s.gameRepo.Complete(ctx, tx, game.ID, team1Score, team2Score, winnerID); err != nil {
			return repoError(err)
		}
		game.Team1Score, game.Team2Score = &team1Score, &team2Score
		game.WinnerID = winnerID
		game.Status = models.GameStatusCompleted
		outcome.Game = game

		for _, adv := range brackets.Advancements(game) {
			written, err := s.gameRepo.SetSlotIfEmpty(ctx, tx, adv.GameID, adv.Slot, adv.TeamID)
			if err != nil {
				return fmt.Errorf("failed to advance team %d from game %d: %w", adv.TeamID, game.ID, err)
			}
			if !written {
				s.logger.WarnContext(ctx, "slot already held the advancing team",
					slog.Int("game_id", adv.GameID),
					slog.Int("slot", adv.Slot),
					slog.Int("team_id", adv.TeamID))
			}
			next, err := s.gameRepo.GetByID(ctx, tx, adv.GameID)
			if err != nil {
				return repoError(err)
			}
			outcome.Advanced = append(outcome.Advanced, next)
		}

		if brackets.NeedsBracketReset(game, settings) {
			reset := toGame(match.ID, brackets.ResetGame(game))
			if err := s.gameRepo.Create(ctx, tx, reset); err != nil {
				return repoError(err)
			}
			outcome.Advanced = append(outcome.Advanced, reset)
		}

		done, err := s.matchFinished(ctx, tx, match, settings)
		if err != nil {
			return err
		}
		if done {
			if err := s.matchRepo.UpdateStatus(ctx, tx, match.ID, models.MatchStatusCompleted); err != nil {
				return repoError(err)
			}
			outcome.MatchCompleted = true
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrAlreadyCompleted) {
			s.logger.InfoContext(ctx, "duplicate result submission ignored", slog.Int("game_id", gameID))
		}
		return nil, err
	}

	s.logger.InfoContext(ctx, "game result recorded",
		slog.Int("game_id", gameID),
		slog.Int("match_id", matchID),
		slog.Int("team1_score", team1Score),
		slog.Int("team2_score", team2Score),
		slog.Int("advanced", len(outcome.Advanced)),
		slog.Bool("match_completed", outcome.MatchCompleted))

	if outcome.MatchCompleted && s.archiver != nil {
		if _, err := s.archiver.Archive(ctx, matchID); err != nil {
			s.logger.ErrorContext(ctx, "failed to archive completed match",
				slog.Int("match_id", matchID),
				slog.Any("error", err))
		}
	}
	return outcome, nil
}

// matchFinished reports whether the match has no game left to play. A Swiss
// match is only finished once all of its rounds have been paired.
func (s *resultService) matchFinished(ctx context.Context, tx *sql.Tx, match *models.Match, settings models.MatchSettings) (bool, error) {
	unfinished, err := s.gameRepo.CountUnfinished(ctx, tx, match.ID)
	if err != nil {
		return false, err
	}
	if unfinished > 0 {
		return false, nil
	}
	if match.Format != models.FormatSwiss {
		return true, nil
	}

	lastRound, err := s.gameRepo.MaxRound(ctx, tx, match.ID)
	if err != nil {
		return false, err
	}
	participants, err := s.participantRepo.ListByMatch(ctx, tx, match.ID)
	if err != nil {
		return false, err
	}
	return lastRound >= brackets.SwissRoundsFor(len(participants), settings), nil
}

func (s *resultService) StartGame(ctx context.Context, gameID int) (*models.Game, error) {
	var started *models.Game
	err := withTx(ctx, s.db, s.logger, func(tx *sql.Tx) error {
		game, err := s.gameRepo.GetByIDForUpdate(ctx, tx, gameID)
		if err != nil {
			return repoError(err)
		}
		switch {
		case game.IsCompleted():
			return fmt.Errorf("%w: game %d", ErrAlreadyCompleted, game.ID)
		case game.Status != models.GameStatusScheduled:
			return fmt.Errorf("%w: game %d is %s", ErrGameNotStartable, game.ID, game.Status)
		case !game.HasBothTeams():
			return fmt.Errorf("%w: game %d", ErrSlotsIncomplete, game.ID)
		}
		if err := s.gameRepo.UpdateStatus(ctx, tx, game.ID, models.GameStatusScheduled, models.GameStatusInProgress); err != nil {
			return err
		}
		game.Status = models.GameStatusInProgress
		started = game
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "game started", slog.Int("game_id", gameID), slog.Int("match_id", started.MatchID))
	return started, nil
}

func (s *resultService) ScheduleGame(ctx context.Context, gameID int, scheduledAt *time.Time, venue *string) (*models.Game, error) {
	game, err := s.gameRepo.GetByID(ctx, nil, gameID)
	if err != nil {
		return nil, repoError(err)
	}
	if game.IsCompleted() {
		return nil, fmt.Errorf("%w: game %d", ErrAlreadyCompleted, game.ID)
	}
	if scheduledAt != nil {
		utc := scheduledAt.UTC()
		scheduledAt = &utc
	}
	if err = s.gameRepo.UpdateSchedule(ctx, nil, gameID, scheduledAt, venue); err != nil {
		return nil, repoError(err)
	}
	game.ScheduledAt = scheduledAt
	game.Venue = venue
	return game, nil
}

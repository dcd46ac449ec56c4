package services

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/Dosada05/bracket-engine/brackets"
	"github.com/Dosada05/bracket-engine/models"
	"github.com/Dosada05/bracket-engine/repositories"
)

type SwissService interface {
	PairNextRound(ctx context.Context, matchID int) ([]*models.Game, error)
}

type swissService struct {
	db              *sql.DB
	matchRepo       repositories.MatchRepository
	participantRepo repositories.ParticipantRepository
	gameRepo        repositories.GameRepository
	logger          *slog.Logger
}

func NewSwissService(
	db *sql.DB,
	matchRepo repositories.MatchRepository,
	participantRepo repositories.ParticipantRepository,
	gameRepo repositories.GameRepository,
	logger *slog.Logger,
) SwissService {
	return &swissService{
		db:              db,
		matchRepo:       matchRepo,
		participantRepo: participantRepo,
		gameRepo:        gameRepo,
		logger:          logger,
	}
}

// PairNextRound creates the games of the next Swiss round once every game of
// the current round is finished. Two concurrent calls for the same round
// collide on the game position index and only one of them succeeds.
func (s *swissService) PairNextRound(ctx context.Context, matchID int) ([]*models.Game, error) {
	var created []*models.Game
	var round int

	err := withTx(ctx, s.db, s.logger, func(tx *sql.Tx) error {
		match, err := s.matchRepo.GetByID(ctx, tx, matchID)
		if err != nil {
			return repoError(err)
		}
		if match.Format != models.FormatSwiss {
			return fmt.Errorf("%w: match %d is %s, not swiss", ErrInvalidInput, match.ID, match.Format)
		}
		switch match.Status {
		case models.MatchStatusCompleted:
			return fmt.Errorf("%w: match %d", ErrSwissFinished, match.ID)
		case models.MatchStatusCanceled:
			return fmt.Errorf("%w: match %d", ErrMatchClosed, match.ID)
		}
		settings := matchSettings(ctx, s.logger, match)

		games, err := s.gameRepo.ListByMatch(ctx, tx, match.ID)
		if err != nil {
			return err
		}
		if len(games) == 0 {
			return fmt.Errorf("%w: match %d", ErrNotGenerated, match.ID)
		}

		current := 0
		for _, g := range games {
			if g.Round > current {
				current = g.Round
			}
		}
		for _, g := range games {
			if g.Round == current && !g.IsCompleted() {
				return fmt.Errorf("%w: round %d of match %d", ErrRoundIncomplete, current, match.ID)
			}
		}

		participants, err := s.participantRepo.ListByMatch(ctx, tx, match.ID)
		if err != nil {
			return err
		}
		if current >= brackets.SwissRoundsFor(len(participants), settings) {
			return fmt.Errorf("%w: match %d played %d rounds", ErrSwissFinished, match.ID, current)
		}

		standings := brackets.ComputeStandings(participants, games)
		pairings, err := brackets.PairSwissRound(standings, games)
		if err != nil {
			return err
		}

		round = current + 1
		for _, bg := range brackets.BuildSwissRound(round, pairings) {
			game := toGame(match.ID, bg)
			if err := s.gameRepo.Create(ctx, tx, game); err != nil {
				return repoError(err)
			}
			created = append(created, game)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "swiss round paired",
		slog.Int("match_id", matchID),
		slog.Int("round", round),
		slog.Int("games", len(created)))
	return created, nil
}

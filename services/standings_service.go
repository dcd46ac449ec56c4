package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Dosada05/bracket-engine/brackets"
	"github.com/Dosada05/bracket-engine/models"
	"github.com/Dosada05/bracket-engine/repositories"
	"golang.org/x/sync/errgroup"
)

type StandingsService interface {
	GetStandings(ctx context.Context, matchID int) ([]models.StandingsRow, error)
}

type standingsService struct {
	matchRepo       repositories.MatchRepository
	participantRepo repositories.ParticipantRepository
	gameRepo        repositories.GameRepository
	logger          *slog.Logger
}

func NewStandingsService(
	matchRepo repositories.MatchRepository,
	participantRepo repositories.ParticipantRepository,
	gameRepo repositories.GameRepository,
	logger *slog.Logger,
) StandingsService {
	return &standingsService{
		matchRepo:       matchRepo,
		participantRepo: participantRepo,
		gameRepo:        gameRepo,
		logger:          logger,
	}
}

// GetStandings recomputes the table from the stored games on every call;
// nothing aggregated is persisted.
func (s *standingsService) GetStandings(ctx context.Context, matchID int) ([]models.StandingsRow, error) {
	match, err := s.matchRepo.GetByID(ctx, nil, matchID)
	if err != nil {
		return nil, repoError(err)
	}
	if !match.Format.HasStandings() {
		return nil, fmt.Errorf("%w: %w: match %d is %s", ErrInvalidInput, ErrStandingsUnsupported, match.ID, match.Format)
	}

	var (
		participants []*models.Participant
		games        []*models.Game
	)
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		participants, err = s.participantRepo.ListByMatch(gCtx, nil, matchID)
		return err
	})
	g.Go(func() error {
		var err error
		games, err = s.gameRepo.ListByMatch(gCtx, nil, matchID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to load standings data for match %d: %w", matchID, err)
	}

	rows := brackets.ComputeStandings(participants, games)
	s.logger.DebugContext(ctx, "standings computed",
		slog.Int("match_id", matchID),
		slog.Int("rows", len(rows)),
		slog.Int("games", len(games)))
	return rows, nil
}

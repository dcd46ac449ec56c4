package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Dosada05/bracket-engine/brackets"
	"github.com/Dosada05/bracket-engine/models"
	"github.com/Dosada05/bracket-engine/repositories"
	"golang.org/x/sync/errgroup"
)

type GenerateBracketInput struct {
	MatchID int
	Format  models.Format
	TeamIDs []int // seed order, best first
}

// BracketView is a match with everything that hangs off its bracket.
type BracketView struct {
	Match        *models.Match         `json:"match"`
	Participants []*models.Participant `json:"participants"`
	Games        []*models.Game        `json:"games"`
}

type BracketService interface {
	GenerateBracket(ctx context.Context, input GenerateBracketInput) ([]*models.Game, error)
	GetBracket(ctx context.Context, matchID int) (*BracketView, error)
}

type bracketService struct {
	db              *sql.DB
	matchRepo       repositories.MatchRepository
	teamRepo        repositories.TeamRepository
	participantRepo repositories.ParticipantRepository
	gameRepo        repositories.GameRepository
	generationRepo  repositories.GenerationRepository
	logger          *slog.Logger
}

func NewBracketService(
	db *sql.DB,
	matchRepo repositories.MatchRepository,
	teamRepo repositories.TeamRepository,
	participantRepo repositories.ParticipantRepository,
	gameRepo repositories.GameRepository,
	generationRepo repositories.GenerationRepository,
	logger *slog.Logger,
) BracketService {
	return &bracketService{
		db:              db,
		matchRepo:       matchRepo,
		teamRepo:        teamRepo,
		participantRepo: participantRepo,
		gameRepo:        gameRepo,
		generationRepo:  generationRepo,
		logger:          logger,
	}
}

// GenerateBracket pairs the teams, lays out the match's games and stores them
// in one transaction. A match can only be generated once; a second call, even
// a concurrent one, fails with ErrAlreadyGenerated and writes nothing.
func (s *bracketService) GenerateBracket(ctx context.Context, input GenerateBracketInput) ([]*models.Game, error) {
	match, err := s.matchRepo.GetByID(ctx, nil, input.MatchID)
	if err != nil {
		return nil, repoError(err)
	}

	format := match.Format
	if input.Format != "" && input.Format != match.Format {
		return nil, fmt.Errorf("%w: match %d is %s, not %s", ErrInvalidInput, match.ID, match.Format, input.Format)
	}
	if match.Status == models.MatchStatusCanceled {
		return nil, fmt.Errorf("%w: match %d", ErrMatchClosed, match.ID)
	}
	if match.MaxParticipants > 0 && len(input.TeamIDs) > match.MaxParticipants {
		return nil, fmt.Errorf("%w: match %d takes at most %d teams, got %d", ErrInvalidInput, match.ID, match.MaxParticipants, len(input.TeamIDs))
	}
	settings := matchSettings(ctx, s.logger, match)

	pairings, err := brackets.GenerateInitialPairing(input.TeamIDs, format)
	if err != nil {
		return nil, err
	}
	if err = s.checkTeamsExist(ctx, input.TeamIDs); err != nil {
		return nil, err
	}

	planned, err := brackets.BuildBracket(ctx, match.ID, pairings, format, settings)
	if err != nil {
		return nil, fmt.Errorf("failed to build bracket for match %d: %w", match.ID, err)
	}

	var created []*models.Game
	err = withTx(ctx, s.db, s.logger, func(tx *sql.Tx) error {
		if err := s.generationRepo.Claim(ctx, tx, match.ID); err != nil {
			return repoError(err)
		}

		for i, teamID := range input.TeamIDs {
			p := &models.Participant{MatchID: match.ID, TeamID: teamID, Seed: i + 1, Status: models.ParticipantStatusApproved}
			if err := s.participantRepo.Upsert(ctx, tx, p); err != nil {
				return repoError(err)
			}
		}

		ids := make(map[string]int, len(planned))
		for _, bg := range planned {
			game := toGame(match.ID, bg)
			if err := s.gameRepo.Create(ctx, tx, game); err != nil {
				return repoError(err)
			}
			ids[bg.UID] = game.ID
		}

		for _, bg := range planned {
			if bg.NextUID == nil && bg.LoserNextUID == nil {
				continue
			}
			var nextID, nextSlot, loserID, loserSlot *int
			if bg.NextUID != nil {
				id, slot := ids[*bg.NextUID], bg.NextSlot
				nextID, nextSlot = &id, &slot
			}
			if bg.LoserNextUID != nil {
				id, slot := ids[*bg.LoserNextUID], bg.LoserNextSlot
				loserID, loserSlot = &id, &slot
			}
			if err := s.gameRepo.UpdateLinks(ctx, tx, ids[bg.UID], nextID, nextSlot, loserID, loserSlot); err != nil {
				return fmt.Errorf("failed to link game %s: %w", bg.UID, err)
			}
		}

		if err := s.matchRepo.UpdateStatus(ctx, tx, match.ID, models.MatchStatusActive); err != nil {
			return repoError(err)
		}

		var listErr error
		created, listErr = s.gameRepo.ListByMatch(ctx, tx, match.ID)
		return listErr
	})
	if err != nil {
		if errors.Is(err, ErrAlreadyGenerated) {
			s.logger.InfoContext(ctx, "bracket generation rejected, already generated", slog.Int("match_id", match.ID))
		}
		return nil, err
	}

	s.logger.InfoContext(ctx, "bracket generated",
		slog.Int("match_id", match.ID),
		slog.String("format", string(format)),
		slog.Int("teams", len(input.TeamIDs)),
		slog.Int("games", len(created)))
	return created, nil
}

func (s *bracketService) checkTeamsExist(ctx context.Context, teamIDs []int) error {
	teams, err := s.teamRepo.ListByIDs(ctx, nil, teamIDs)
	if err != nil {
		return fmt.Errorf("failed to load teams: %w", err)
	}
	if len(teams) == len(teamIDs) {
		return nil
	}
	found := make(map[int]bool, len(teams))
	for _, t := range teams {
		found[t.ID] = true
	}
	missing := make([]int, 0)
	for _, id := range teamIDs {
		if !found[id] {
			missing = append(missing, id)
		}
	}
	return fmt.Errorf("%w: unknown teams %v", ErrInvalidInput, missing)
}

func (s *bracketService) GetBracket(ctx context.Context, matchID int) (*BracketView, error) {
	view := &BracketView{}

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		match, err := s.matchRepo.GetByID(gCtx, nil, matchID)
		if err != nil {
			return repoError(err)
		}
		view.Match = match
		return nil
	})
	g.Go(func() error {
		participants, err := s.participantRepo.ListByMatch(gCtx, nil, matchID)
		if err != nil {
			return fmt.Errorf("failed to fetch participants for match %d: %w", matchID, err)
		}
		view.Participants = participants
		return nil
	})
	g.Go(func() error {
		games, err := s.gameRepo.ListByMatch(gCtx, nil, matchID)
		if err != nil {
			return fmt.Errorf("failed to fetch games for match %d: %w", matchID, err)
		}
		view.Games = games
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	matchSettings(ctx, s.logger, view.Match)
	return view, nil
}

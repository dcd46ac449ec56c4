package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Dosada05/bracket-engine/models"
	"github.com/Dosada05/bracket-engine/repositories"
)

type CreateMatchInput struct {
	Name            string
	Format          string
	MaxParticipants int
	Settings        *models.MatchSettings
}

// MatchService is the small bit of match management the engine needs to be
// usable on its own: creating matches and looking them up.
type MatchService interface {
	CreateMatch(ctx context.Context, input CreateMatchInput) (*models.Match, error)
	GetMatch(ctx context.Context, id int) (*models.Match, error)
	ListMatches(ctx context.Context, status *models.MatchStatus) ([]*models.Match, error)
}

type matchService struct {
	matchRepo repositories.MatchRepository
	logger    *slog.Logger
}

func NewMatchService(matchRepo repositories.MatchRepository, logger *slog.Logger) MatchService {
	return &matchService{matchRepo: matchRepo, logger: logger}
}

func (s *matchService) CreateMatch(ctx context.Context, input CreateMatchInput) (*models.Match, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: match name is required", ErrInvalidInput)
	}
	format, err := models.ParseFormat(input.Format)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	if input.MaxParticipants < 0 {
		return nil, fmt.Errorf("%w: max participants must not be negative", ErrInvalidInput)
	}

	match := &models.Match{
		Name:            name,
		Format:          format,
		Status:          models.MatchStatusRegistration,
		MaxParticipants: input.MaxParticipants,
	}
	if input.Settings != nil {
		raw, err := json.Marshal(input.Settings)
		if err != nil {
			return nil, fmt.Errorf("failed to encode match settings: %w", err)
		}
		encoded := string(raw)
		match.SettingsJSON = &encoded
	}

	if err := s.matchRepo.Create(ctx, nil, match); err != nil {
		return nil, repoError(err)
	}
	matchSettings(ctx, s.logger, match)

	s.logger.InfoContext(ctx, "match created",
		slog.Int("match_id", match.ID),
		slog.String("format", string(match.Format)))
	return match, nil
}

func (s *matchService) GetMatch(ctx context.Context, id int) (*models.Match, error) {
	match, err := s.matchRepo.GetByID(ctx, nil, id)
	if err != nil {
		return nil, repoError(err)
	}
	matchSettings(ctx, s.logger, match)
	return match, nil
}

func (s *matchService) ListMatches(ctx context.Context, status *models.MatchStatus) ([]*models.Match, error) {
	matches, err := s.matchRepo.List(ctx, status)
	if err != nil {
		return nil, err
	}
	for _, m := range matches {
		matchSettings(ctx, s.logger, m)
	}
	return matches, nil
}

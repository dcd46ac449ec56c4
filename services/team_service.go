package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Dosada05/bracket-engine/models"
	"github.com/Dosada05/bracket-engine/repositories"
)

type TeamService interface {
	CreateTeam(ctx context.Context, name string, seed *int) (*models.Team, error)
	GetTeam(ctx context.Context, id int) (*models.Team, error)
}

type teamService struct {
	teamRepo repositories.TeamRepository
	logger   *slog.Logger
}

func NewTeamService(teamRepo repositories.TeamRepository, logger *slog.Logger) TeamService {
	return &teamService{teamRepo: teamRepo, logger: logger}
}

func (s *teamService) CreateTeam(ctx context.Context, name string, seed *int) (*models.Team, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: team name is required", ErrInvalidInput)
	}
	if seed != nil && *seed < 1 {
		return nil, fmt.Errorf("%w: seed must be positive", ErrInvalidInput)
	}

	team := &models.Team{Name: name, Seed: seed}
	if err := s.teamRepo.Create(ctx, team); err != nil {
		return nil, repoError(err)
	}
	s.logger.InfoContext(ctx, "team created", slog.Int("team_id", team.ID), slog.String("name", team.Name))
	return team, nil
}

func (s *teamService) GetTeam(ctx context.Context, id int) (*models.Team, error) {
	team, err := s.teamRepo.GetByID(ctx, id)
	if err != nil {
		return nil, repoError(err)
	}
	return team, nil
}

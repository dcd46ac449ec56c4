package brackets

import (
	"context"
	"log/slog"
)

type SingleEliminationGenerator struct{}

func NewSingleEliminationGenerator() BracketGenerator {
	return &SingleEliminationGenerator{}
}

func (g *SingleEliminationGenerator) GetName() string {
	return "SingleElimination"
}

// GenerateBracket creates every round up front. Round 1 games get their teams
// from the draw, later rounds start empty except for slots taken by bye teams,
// and each game carries a link to the slot its winner moves into.
func (g *SingleEliminationGenerator) GenerateBracket(ctx context.Context, params GenerateBracketParams) ([]*BracketGame, error) {
	b := &bracketBuilder{}
	if _, _, err := b.buildMain(params.Pairings); err != nil {
		return nil, err
	}
	sortGames(b.games)

	slog.DebugContext(ctx, "single elimination bracket generated",
		slog.Int("match_id", params.MatchID),
		slog.Int("slots", len(params.Pairings)*2),
		slog.Int("games", len(b.games)))
	return b.games, nil
}

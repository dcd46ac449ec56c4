package brackets

import (
	"context"
	"log/slog"

	"github.com/Dosada05/bracket-engine/models"
)

type DoubleEliminationGenerator struct{}

func NewDoubleEliminationGenerator() BracketGenerator {
	return &DoubleEliminationGenerator{}
}

func (g *DoubleEliminationGenerator) GetName() string {
	return "DoubleElimination"
}

// GenerateBracket builds the winners bracket, a losers bracket of 2(k-1)
// rounds for a winners bracket of k rounds, and the grand final.
//
// Losers round 1 pairs the losers of winners round 1. After that rounds
// alternate: an even round takes the surviving losers-bracket teams (slot 1)
// against the teams dropping out of winners round t/2+1 (slot 2), an odd round
// halves the field. Drops are fed in reverse order on every other drop round
// so that teams who met in the winners bracket do not meet again right away.
func (g *DoubleEliminationGenerator) GenerateBracket(ctx context.Context, params GenerateBracketParams) ([]*BracketGame, error) {
	b := &bracketBuilder{}
	champion, winnersLosers, err := b.buildMain(params.Pairings)
	if err != nil {
		return nil, err
	}

	k := len(winnersLosers)
	var losersChampion node
	if k == 1 {
		// two-slot draw: the grand final is a rematch
		losersChampion = winnersLosers[0][0]
	} else {
		round := 1
		first := winnersLosers[0]
		current := make([]node, 0, len(first)/2)
		for i := 0; i < len(first); i += 2 {
			w, _ := b.pair(models.BracketLosers, round, i/2+1, first[i], first[i+1])
			current = append(current, w)
		}

		for r := 2; r <= k; r++ {
			round++
			drops := winnersLosers[r-1]
			if r%2 == 0 {
				drops = reversedNodes(drops)
			}
			next := make([]node, 0, len(current))
			for i := range current {
				w, _ := b.pair(models.BracketLosers, round, i+1, current[i], drops[i])
				next = append(next, w)
			}
			current = next
			if r == k {
				break
			}

			round++
			next = make([]node, 0, len(current)/2)
			for i := 0; i < len(current); i += 2 {
				w, _ := b.pair(models.BracketLosers, round, i/2+1, current[i], current[i+1])
				next = append(next, w)
			}
			current = next
		}
		losersChampion = current[0]
	}

	b.pair(models.BracketGrandFinal, 1, 1, champion, losersChampion)
	sortGames(b.games)

	slog.DebugContext(ctx, "double elimination bracket generated",
		slog.Int("match_id", params.MatchID),
		slog.Int("winners_rounds", k),
		slog.Int("games", len(b.games)))
	return b.games, nil
}

func reversedNodes(nodes []node) []node {
	out := make([]node, len(nodes))
	for i, n := range nodes {
		out[len(nodes)-1-i] = n
	}
	return out
}

// NeedsBracketReset reports whether a finished first grand final requires a
// second game: only when resets are enabled and the losers-bracket champion
// (slot 2) won.
func NeedsBracketReset(game *models.Game, settings models.MatchSettings) bool {
	if !settings.GrandFinalReset || game.Bracket != models.BracketGrandFinal || game.Round != 1 {
		return false
	}
	return game.WinnerID != nil && game.Team2ID != nil && *game.WinnerID == *game.Team2ID
}

// ResetGame is the rematch created after NeedsBracketReset.
func ResetGame(final *models.Game) *BracketGame {
	team1, team2 := *final.Team1ID, *final.Team2ID
	return &BracketGame{
		UID:        GameUID(models.BracketGrandFinal, 2, 1),
		Bracket:    models.BracketGrandFinal,
		Round:      2,
		GameNumber: 1,
		Team1ID:    &team1,
		Team2ID:    &team2,
	}
}

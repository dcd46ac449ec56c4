package brackets

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Dosada05/bracket-engine/models"
)

type RoundRobinGenerator struct{}

func NewRoundRobinGenerator() BracketGenerator {
	return &RoundRobinGenerator{}
}

func (g *RoundRobinGenerator) GetName() string {
	return "RoundRobin"
}

// GenerateBracket creates one game per pairing and spreads them over rounds
// with the circle method, so nobody plays twice in a round. With two legs the
// second leg repeats the schedule with home and away swapped.
func (g *RoundRobinGenerator) GenerateBracket(ctx context.Context, params GenerateBracketParams) ([]*BracketGame, error) {
	teams, err := pairingTeams(params.Pairings, false)
	if err != nil {
		return nil, err
	}

	n := len(teams)
	expected := n * (n - 1) / 2
	wanted := make(map[[2]int]struct{}, len(params.Pairings))
	for _, p := range params.Pairings {
		if p.IsBye() {
			return nil, fmt.Errorf("%w: round robin pairings cannot contain byes", ErrInvalidInput)
		}
		wanted[pairKey(p.Team1ID, *p.Team2ID)] = struct{}{}
	}
	if len(wanted) != expected || len(params.Pairings) != expected {
		return nil, fmt.Errorf("%w: round robin needs all %d pairs exactly once, got %d", ErrInvalidInput, expected, len(params.Pairings))
	}

	legs := params.Settings.Legs
	if legs != 2 {
		legs = 1
	}

	schedule := CircleSchedule(teams)
	games := make([]*BracketGame, 0, expected*legs)
	for leg := 0; leg < legs; leg++ {
		for r, roundPairs := range schedule {
			round := leg*len(schedule) + r + 1
			for i, pair := range roundPairs {
				home, away := pair[0], pair[1]
				if leg == 1 {
					home, away = away, home
				}
				games = append(games, &BracketGame{
					UID:        GameUID(models.BracketMain, round, i+1),
					Bracket:    models.BracketMain,
					Round:      round,
					GameNumber: i + 1,
					Team1ID:    &home,
					Team2ID:    &away,
				})
			}
		}
	}

	slog.DebugContext(ctx, "round robin schedule generated",
		slog.Int("match_id", params.MatchID),
		slog.Int("teams", n),
		slog.Int("legs", legs),
		slog.Int("games", len(games)))
	return games, nil
}

// CircleSchedule splits all pairs of teams into n-1 rounds (n rounded up to
// even). The first team stays fixed and the rest rotate one step per round;
// with an odd field the team drawn against the dummy sits the round out.
func CircleSchedule(teams []int) [][][2]int {
	const dummy = 0

	players := make([]int, len(teams))
	copy(players, teams)
	if len(players)%2 != 0 {
		players = append(players, dummy)
	}
	n := len(players)
	half := n / 2

	rounds := make([][][2]int, 0, n-1)
	for round := 0; round < n-1; round++ {
		pairs := make([][2]int, 0, half)
		for i := 0; i < half; i++ {
			a, b := players[i], players[n-1-i]
			if a == dummy || b == dummy {
				continue
			}
			// alternate the fixed team's home side
			if i == 0 && round%2 == 1 {
				a, b = b, a
			}
			pairs = append(pairs, [2]int{a, b})
		}
		rounds = append(rounds, pairs)

		rotated := make([]int, 0, n)
		rotated = append(rotated, players[0], players[n-1])
		rotated = append(rotated, players[1:n-1]...)
		players = rotated
	}
	return rounds
}

func pairKey(a, b int) [2]int {
	if a > b {
		a, b = b, a
	}
	return [2]int{a, b}
}

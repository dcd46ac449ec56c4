package brackets

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Dosada05/bracket-engine/models"
)

// maxPairingSteps bounds the repeat-free search before repeats are allowed.
const maxPairingSteps = 200_000

var errPairingBudget = errors.New("swiss pairing search budget exhausted")

type SwissGenerator struct{}

func NewSwissGenerator() BracketGenerator {
	return &SwissGenerator{}
}

func (g *SwissGenerator) GetName() string {
	return "Swiss"
}

// GenerateBracket only creates round 1; later rounds depend on results and are
// paired one at a time by PairSwissRound.
func (g *SwissGenerator) GenerateBracket(ctx context.Context, params GenerateBracketParams) ([]*BracketGame, error) {
	if _, err := pairingTeams(params.Pairings, true); err != nil {
		return nil, err
	}
	games := BuildSwissRound(1, params.Pairings)

	slog.DebugContext(ctx, "swiss opening round generated",
		slog.Int("match_id", params.MatchID),
		slog.Int("games", len(games)))
	return games, nil
}

// BuildSwissRound turns pairings into games of the given round. Bye pairings
// do not produce a game.
func BuildSwissRound(round int, pairings []Pairing) []*BracketGame {
	games := make([]*BracketGame, 0, len(pairings))
	number := 0
	for _, p := range pairings {
		if p.IsBye() {
			continue
		}
		number++
		home, away := p.Team1ID, *p.Team2ID
		games = append(games, &BracketGame{
			UID:        GameUID(models.BracketMain, round, number),
			Bracket:    models.BracketMain,
			Round:      round,
			GameNumber: number,
			Team1ID:    &home,
			Team2ID:    &away,
		})
	}
	return games
}

// SwissRoundsFor is the configured number of Swiss rounds or ceil(log2(n)).
func SwissRoundsFor(teamCount int, settings models.MatchSettings) int {
	if settings.SwissRounds > 0 {
		return settings.SwissRounds
	}
	return RoundsFor(teamCount)
}

// PairSwissRound pairs the next Swiss round from the current standings (best
// first) and every game played so far.
//
// Teams are paired inside their score group, top half against bottom half; an
// odd team out floats down to the next group. Rematches are avoided by
// backtracking and only accepted when no rematch-free pairing exists. With an
// odd field the lowest ranked team that has not sat out yet gets the bye.
func PairSwissRound(standings []models.StandingsRow, history []*models.Game) ([]Pairing, error) {
	if len(standings) < 2 {
		return nil, fmt.Errorf("%w: got %d", ErrInsufficientTeams, len(standings))
	}

	ranked := make([]int, 0, len(standings))
	points := make(map[int]int, len(standings))
	for _, row := range standings {
		ranked = append(ranked, row.TeamID)
		points[row.TeamID] = row.Points
	}

	faced := make(map[[2]int]bool)
	playedIn := make(map[int]map[int]bool)
	for _, g := range history {
		if !g.HasBothTeams() {
			continue
		}
		faced[pairKey(*g.Team1ID, *g.Team2ID)] = true
		if playedIn[g.Round] == nil {
			playedIn[g.Round] = make(map[int]bool)
		}
		playedIn[g.Round][*g.Team1ID] = true
		playedIn[g.Round][*g.Team2ID] = true
	}

	var bye *int
	if len(ranked)%2 == 1 {
		byes := make(map[int]int, len(ranked))
		for _, teams := range playedIn {
			for _, id := range ranked {
				if !teams[id] {
					byes[id]++
				}
			}
		}
		pick := len(ranked) - 1
		for i := len(ranked) - 1; i >= 0; i-- {
			if byes[ranked[i]] < byes[ranked[pick]] {
				pick = i
			}
		}
		id := ranked[pick]
		bye = &id
		ranked = append(append([]int{}, ranked[:pick]...), ranked[pick+1:]...)
	}

	p := &swissPairer{points: points, faced: faced}
	pairs, ok := p.pair(ranked, false)
	if !ok {
		slog.Warn("no rematch-free swiss pairing found, allowing rematches", slog.Int("teams", len(ranked)))
		pairs, _ = p.pair(ranked, true)
	}

	pairings := make([]Pairing, 0, len(pairs)+1)
	for _, pr := range pairs {
		opp := pr[1]
		pairings = append(pairings, Pairing{Team1ID: pr[0], Team2ID: &opp})
	}
	if bye != nil {
		pairings = append(pairings, Pairing{Team1ID: *bye})
	}
	return pairings, nil
}

type swissPairer struct {
	points map[int]int
	faced  map[[2]int]bool
	steps  int
}

func (p *swissPairer) pair(teams []int, allowRepeats bool) ([][2]int, bool) {
	if !allowRepeats {
		p.steps = 0
	}
	pairs, err := p.search(teams, allowRepeats)
	if err != nil {
		return nil, false
	}
	return pairs, pairs != nil || len(teams) == 0
}

func (p *swissPairer) search(teams []int, allowRepeats bool) ([][2]int, error) {
	if len(teams) == 0 {
		return [][2]int{}, nil
	}
	p.steps++
	if !allowRepeats && p.steps > maxPairingSteps {
		return nil, errPairingBudget
	}

	first, rest := teams[0], teams[1:]
	for _, idx := range p.candidates(first, rest) {
		opp := rest[idx]
		if !allowRepeats && p.faced[pairKey(first, opp)] {
			continue
		}
		remaining := make([]int, 0, len(rest)-1)
		remaining = append(remaining, rest[:idx]...)
		remaining = append(remaining, rest[idx+1:]...)

		pairs, err := p.search(remaining, allowRepeats)
		if err != nil {
			return nil, err
		}
		if pairs != nil {
			return append([][2]int{{first, opp}}, pairs...), nil
		}
	}
	return nil, nil
}

// candidates orders opponents for first: the middle of its own score group
// first (top half meets bottom half), then the rest of the group, then lower
// groups in ranking order.
func (p *swissPairer) candidates(first int, rest []int) []int {
	group := 0
	for group < len(rest) && p.points[rest[group]] == p.points[first] {
		group++
	}

	order := make([]int, 0, len(rest))
	half := (group + 1) / 2
	for i := half - 1; i < group; i++ {
		if i >= 0 {
			order = append(order, i)
		}
	}
	for i := half - 2; i >= 0; i-- {
		order = append(order, i)
	}
	for i := group; i < len(rest); i++ {
		order = append(order, i)
	}
	return order
}

package brackets

import (
	"context"
	"fmt"
	"sort"

	"github.com/Dosada05/bracket-engine/models"
)

type GenerateBracketParams struct {
	MatchID  int
	Pairings []Pairing
	Settings models.MatchSettings
}

type BracketGenerator interface {
	GenerateBracket(ctx context.Context, params GenerateBracketParams) ([]*BracketGame, error)

	GetName() string
}

// BracketGame is a game before it is persisted. Links to downstream games are
// kept by UID and resolved to row ids once every game has been inserted.
type BracketGame struct {
	UID        string
	Bracket    models.BracketSide
	Round      int
	GameNumber int

	Team1ID *int
	Team2ID *int

	NextUID       *string
	NextSlot      int
	LoserNextUID  *string
	LoserNextSlot int
}

func NewGenerator(format models.Format) (BracketGenerator, error) {
	switch format {
	case models.FormatSingleElimination:
		return NewSingleEliminationGenerator(), nil
	case models.FormatDoubleElimination:
		return NewDoubleEliminationGenerator(), nil
	case models.FormatRoundRobin, models.FormatLeague:
		return NewRoundRobinGenerator(), nil
	case models.FormatSwiss:
		return NewSwissGenerator(), nil
	default:
		return nil, fmt.Errorf("%w: unsupported format %q", ErrInvalidInput, format)
	}
}

// BuildBracket lays out every game the format knows up front for an already
// generated pairing list.
func BuildBracket(ctx context.Context, matchID int, pairings []Pairing, format models.Format, settings models.MatchSettings) ([]*BracketGame, error) {
	generator, err := NewGenerator(format)
	if err != nil {
		return nil, err
	}
	return generator.GenerateBracket(ctx, GenerateBracketParams{
		MatchID:  matchID,
		Pairings: pairings,
		Settings: settings,
	})
}

// Generate runs pairing and bracket building in one go.
func Generate(ctx context.Context, matchID int, teamIDs []int, format models.Format, settings models.MatchSettings) ([]*BracketGame, error) {
	pairings, err := GenerateInitialPairing(teamIDs, format)
	if err != nil {
		return nil, err
	}
	return BuildBracket(ctx, matchID, pairings, format, settings)
}

func GameUID(side models.BracketSide, round, number int) string {
	prefix := "M"
	switch side {
	case models.BracketLosers:
		prefix = "L"
	case models.BracketGrandFinal:
		prefix = "GF"
	}
	return fmt.Sprintf("%s-R%dG%d", prefix, round, number)
}

var sideOrder = map[models.BracketSide]int{
	models.BracketMain:       0,
	models.BracketLosers:     1,
	models.BracketGrandFinal: 2,
}

func sortGames(games []*BracketGame) {
	sort.SliceStable(games, func(i, j int) bool {
		if games[i].Bracket != games[j].Bracket {
			return sideOrder[games[i].Bracket] < sideOrder[games[j].Bracket]
		}
		if games[i].Round != games[j].Round {
			return games[i].Round < games[j].Round
		}
		return games[i].GameNumber < games[j].GameNumber
	})
}

type nodeKind int

const (
	nodeBye nodeKind = iota
	nodeTeam
	nodeWinnerOf
	nodeLoserOf
)

// node is whatever fills a slot: a known team, the winner or loser of an
// earlier game, or nothing at all.
type node struct {
	kind   nodeKind
	teamID int
	source *BracketGame
}

func teamNode(id int) node {
	return node{kind: nodeTeam, teamID: id}
}

var byeNode = node{kind: nodeBye}

type bracketBuilder struct {
	games []*BracketGame
}

// pair resolves two feeders into a game. A bye on one side lets the other
// feeder pass straight through without a game; two byes collapse into a bye.
func (b *bracketBuilder) pair(side models.BracketSide, round, number int, first, second node) (winner node, loser node) {
	switch {
	case first.kind == nodeBye && second.kind == nodeBye:
		return byeNode, byeNode
	case second.kind == nodeBye:
		return first, byeNode
	case first.kind == nodeBye:
		return second, byeNode
	}

	game := &BracketGame{
		UID:        GameUID(side, round, number),
		Bracket:    side,
		Round:      round,
		GameNumber: number,
	}
	attach(first, game, models.Slot1)
	attach(second, game, models.Slot2)
	b.games = append(b.games, game)

	return node{kind: nodeWinnerOf, source: game}, node{kind: nodeLoserOf, source: game}
}

func attach(n node, game *BracketGame, slot int) {
	uid := game.UID
	switch n.kind {
	case nodeTeam:
		id := n.teamID
		if slot == models.Slot1 {
			game.Team1ID = &id
		} else {
			game.Team2ID = &id
		}
	case nodeWinnerOf:
		n.source.NextUID = &uid
		n.source.NextSlot = slot
	case nodeLoserOf:
		n.source.LoserNextUID = &uid
		n.source.LoserNextSlot = slot
	}
}

// buildMain lays out an elimination tree from draw-ordered pairings. Position
// i of round r feeds position i/2 of round r+1; game numbers keep the draw
// position, so games skipped for byes leave gaps. It returns the champion node
// and, per round, the loser node of every position.
func (b *bracketBuilder) buildMain(pairings []Pairing) (node, [][]node, error) {
	if _, err := pairingTeams(pairings, true); err != nil {
		return byeNode, nil, err
	}
	if len(pairings)&(len(pairings)-1) != 0 {
		return byeNode, nil, fmt.Errorf("%w: elimination draw needs a power of two slots, got %d", ErrInvalidInput, len(pairings)*2)
	}

	current := make([]node, 0, len(pairings)*2)
	for _, p := range pairings {
		current = append(current, teamNode(p.Team1ID))
		if p.Team2ID != nil {
			current = append(current, teamNode(*p.Team2ID))
		} else {
			current = append(current, byeNode)
		}
	}

	var losers [][]node
	for round := 1; len(current) > 1; round++ {
		next := make([]node, 0, len(current)/2)
		roundLosers := make([]node, 0, len(current)/2)
		for i := 0; i < len(current); i += 2 {
			w, l := b.pair(models.BracketMain, round, i/2+1, current[i], current[i+1])
			next = append(next, w)
			roundLosers = append(roundLosers, l)
		}
		losers = append(losers, roundLosers)
		current = next
	}
	return current[0], losers, nil
}

package brackets

import (
	"fmt"
	"math/bits"

	"github.com/Dosada05/bracket-engine/models"
)

// Pairing is one round-1 contest. A nil Team2ID is a bye: Team1ID advances
// without a game.
type Pairing struct {
	Team1ID int
	Team2ID *int
}

func (p Pairing) IsBye() bool {
	return p.Team2ID == nil
}

// GenerateInitialPairing turns a seed-ordered team list (index 0 is the top
// seed) into the opening contests for the given format.
//
// Elimination formats get len == bracketSize/2 pairings in draw order, byes
// included. Round robin and league get every unordered pair once. Swiss gets
// round 1 only, top half against bottom half.
func GenerateInitialPairing(teamIDs []int, format models.Format) ([]Pairing, error) {
	if err := validateTeamIDs(teamIDs); err != nil {
		return nil, err
	}

	switch format {
	case models.FormatSingleElimination, models.FormatDoubleElimination:
		return eliminationPairing(teamIDs), nil
	case models.FormatRoundRobin, models.FormatLeague:
		return allPairs(teamIDs), nil
	case models.FormatSwiss:
		return swissOpeningPairing(teamIDs), nil
	default:
		return nil, fmt.Errorf("%w: unsupported format %q", ErrInvalidInput, format)
	}
}

func validateTeamIDs(teamIDs []int) error {
	if len(teamIDs) < 2 {
		return fmt.Errorf("%w: got %d", ErrInsufficientTeams, len(teamIDs))
	}
	seen := make(map[int]struct{}, len(teamIDs))
	for _, id := range teamIDs {
		if id <= 0 {
			return fmt.Errorf("%w: team id must be positive, got %d", ErrInvalidInput, id)
		}
		if _, dup := seen[id]; dup {
			return fmt.Errorf("%w: team %d is listed more than once", ErrInvalidInput, id)
		}
		seen[id] = struct{}{}
	}
	return nil
}

// RoundsFor is ceil(log2(n)), the number of elimination rounds for n teams.
func RoundsFor(n int) int {
	if n < 2 {
		return 0
	}
	return bits.Len(uint(n - 1))
}

// BracketSize is the next power of two >= n.
func BracketSize(n int) int {
	return 1 << uint(RoundsFor(n))
}

// SeedOrder returns the draw position of every seed for a bracket of the given
// size, e.g. 8 -> [1 8 4 5 2 7 3 6]. Each doubling mirrors the previous order,
// so seeds 1 and 2 sit in opposite halves and the top seeds of every quarter
// stay apart until the later rounds.
func SeedOrder(size int) []int {
	order := []int{1}
	for len(order) < size {
		total := len(order)*2 + 1
		next := make([]int, 0, len(order)*2)
		for _, seed := range order {
			next = append(next, seed, total-seed)
		}
		order = next
	}
	return order
}

func eliminationPairing(teamIDs []int) []Pairing {
	n := len(teamIDs)
	order := SeedOrder(BracketSize(n))

	pairings := make([]Pairing, 0, len(order)/2)
	for i := 0; i < len(order); i += 2 {
		// the first seed of each pair is always the better one, so only the
		// second can fall outside the field
		p := Pairing{Team1ID: teamIDs[order[i]-1]}
		if s := order[i+1]; s <= n {
			id := teamIDs[s-1]
			p.Team2ID = &id
		}
		pairings = append(pairings, p)
	}
	return pairings
}

func allPairs(teamIDs []int) []Pairing {
	n := len(teamIDs)
	pairings := make([]Pairing, 0, n*(n-1)/2)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			id := teamIDs[j]
			pairings = append(pairings, Pairing{Team1ID: teamIDs[i], Team2ID: &id})
		}
	}
	return pairings
}

// swissOpeningPairing pairs seed i with seed i+n/2. With an odd field the
// lowest seed sits out round 1.
func swissOpeningPairing(teamIDs []int) []Pairing {
	playing := teamIDs
	var bye *int
	if len(teamIDs)%2 == 1 {
		last := teamIDs[len(teamIDs)-1]
		bye = &last
		playing = teamIDs[:len(teamIDs)-1]
	}

	half := len(playing) / 2
	pairings := make([]Pairing, 0, half+1)
	for i := 0; i < half; i++ {
		opp := playing[i+half]
		pairings = append(pairings, Pairing{Team1ID: playing[i], Team2ID: &opp})
	}
	if bye != nil {
		pairings = append(pairings, Pairing{Team1ID: *bye})
	}
	return pairings
}

// pairingTeams lists the distinct teams of a pairing list in order of first
// appearance and rejects a team that shows up twice in elimination draws.
func pairingTeams(pairings []Pairing, unique bool) ([]int, error) {
	seen := make(map[int]struct{})
	teams := make([]int, 0, len(pairings)*2)
	add := func(id int) error {
		if id <= 0 {
			return fmt.Errorf("%w: team id must be positive, got %d", ErrInvalidInput, id)
		}
		if _, ok := seen[id]; ok {
			if unique {
				return fmt.Errorf("%w: team %d appears in more than one pairing", ErrInvalidInput, id)
			}
			return nil
		}
		seen[id] = struct{}{}
		teams = append(teams, id)
		return nil
	}
	for _, p := range pairings {
		if err := add(p.Team1ID); err != nil {
			return nil, err
		}
		if p.Team2ID != nil {
			if err := add(*p.Team2ID); err != nil {
				return nil, err
			}
		}
	}
	if len(teams) < 2 {
		return nil, fmt.Errorf("%w: got %d", ErrInsufficientTeams, len(teams))
	}
	return teams, nil
}

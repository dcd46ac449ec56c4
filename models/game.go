package models

import "time"

type GameStatus string

const (
	GameStatusScheduled  GameStatus = "scheduled"
	GameStatusInProgress GameStatus = "in_progress"
	GameStatusCompleted  GameStatus = "completed"
)

// BracketSide tells which part of a bracket a game belongs to. Everything that
// is not double elimination lives in BracketMain.
type BracketSide string

const (
	BracketMain       BracketSide = "main"
	BracketLosers     BracketSide = "losers"
	BracketGrandFinal BracketSide = "grand_final"
)

const (
	Slot1 = 1
	Slot2 = 2
)

type Game struct {
	ID         int         `json:"id" db:"id"`
	MatchID    int         `json:"match_id" db:"match_id"`
	BracketUID string      `json:"bracket_uid" db:"bracket_uid"`
	Bracket    BracketSide `json:"bracket" db:"bracket"`
	Round      int         `json:"round" db:"round"`
	GameNumber int         `json:"game_number" db:"game_number"`

	Team1ID    *int       `json:"team1_id" db:"team1_id"`
	Team2ID    *int       `json:"team2_id" db:"team2_id"`
	Team1Score *int       `json:"team1_score" db:"team1_score"`
	Team2Score *int       `json:"team2_score" db:"team2_score"`
	Status     GameStatus `json:"status" db:"status"`
	WinnerID   *int       `json:"winner_id" db:"winner_id"`

	NextGameID      *int `json:"next_game_id,omitempty" db:"next_game_id"`
	NextSlot        *int `json:"next_slot,omitempty" db:"next_slot"`
	LoserNextGameID *int `json:"loser_next_game_id,omitempty" db:"loser_next_game_id"`
	LoserNextSlot   *int `json:"loser_next_slot,omitempty" db:"loser_next_slot"`

	ScheduledAt *time.Time `json:"scheduled_at" db:"scheduled_at"`
	Venue       *string    `json:"venue" db:"venue"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
}

func (g *Game) HasBothTeams() bool {
	return g.Team1ID != nil && g.Team2ID != nil
}

func (g *Game) IsCompleted() bool {
	return g.Status == GameStatusCompleted
}

func (g *Game) IsDraw() bool {
	return g.IsCompleted() && g.WinnerID == nil
}

// LoserID returns the slot team that did not win, nil for draws and open games.
func (g *Game) LoserID() *int {
	if !g.IsCompleted() || g.WinnerID == nil || !g.HasBothTeams() {
		return nil
	}
	if *g.WinnerID == *g.Team1ID {
		return g.Team2ID
	}
	return g.Team1ID
}

// HasTeam reports whether teamID occupies either slot.
func (g *Game) HasTeam(teamID int) bool {
	return (g.Team1ID != nil && *g.Team1ID == teamID) || (g.Team2ID != nil && *g.Team2ID == teamID)
}

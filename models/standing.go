package models

// StandingsRow is derived from completed games on every read and never stored.
type StandingsRow struct {
	Rank           int    `json:"rank"`
	TeamID         int    `json:"team_id"`
	TeamName       string `json:"team_name"`
	Seed           int    `json:"seed"`
	Played         int    `json:"played"`
	Wins           int    `json:"wins"`
	Draws          int    `json:"draws"`
	Losses         int    `json:"losses"`
	GoalsFor       int    `json:"goals_for"`
	GoalsAgainst   int    `json:"goals_against"`
	GoalDifference int    `json:"goal_difference"`
	Points         int    `json:"points"`
}

const (
	PointsForWin  = 3
	PointsForDraw = 1
	PointsForLoss = 0
)

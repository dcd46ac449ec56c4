package models

const ParticipantStatusApproved = "approved"

// Participant is a match_participants row. Seed is the 1-based draw position
// the team was given when the bracket was generated.
type Participant struct {
	MatchID int    `json:"match_id" db:"match_id"`
	TeamID  int    `json:"team_id" db:"team_id"`
	Seed    int    `json:"seed" db:"seed"`
	Status  string `json:"status" db:"status"`

	Team *Team `json:"team,omitempty" db:"-"`
}

package models

import "time"

// MatchStatus mirrors the status column of the matches table.
type MatchStatus string

const (
	MatchStatusRegistration MatchStatus = "registration"
	MatchStatusActive       MatchStatus = "active"
	MatchStatusCompleted    MatchStatus = "completed"
	MatchStatusCanceled     MatchStatus = "canceled"
)

// Match is one competition instance. It is owned by the match management side;
// the engine reads its format and settings and moves its status forward.
type Match struct {
	ID              int         `json:"id" db:"id"`
	Name            string      `json:"name" db:"name"`
	Format          Format      `json:"format" db:"format"`
	Status          MatchStatus `json:"status" db:"status"`
	MaxParticipants int         `json:"max_participants" db:"max_participants"`
	SettingsJSON    *string     `json:"-" db:"settings_json"`
	CreatedAt       time.Time   `json:"created_at" db:"created_at"`

	Settings *MatchSettings `json:"settings,omitempty" db:"-"`
}

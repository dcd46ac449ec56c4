package models

import "time"

type Team struct {
	ID        int       `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Seed      *int      `json:"seed,omitempty" db:"seed"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

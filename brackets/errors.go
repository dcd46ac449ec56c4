package brackets

import "errors"

var (
	ErrInsufficientTeams = errors.New("at least two teams are required")
	ErrInvalidInput      = errors.New("invalid input")
	ErrInvalidResult     = errors.New("invalid result")
	ErrSlotsIncomplete   = errors.New("game slots are not both filled")
)

package services

import (
	"errors"

	"github.com/Dosada05/bracket-engine/brackets"
	"github.com/Dosada05/bracket-engine/repositories"
)

// Errors returned by the services and mapped to HTTP statuses by the handlers.
var (
	ErrInsufficientTeams = brackets.ErrInsufficientTeams
	ErrInvalidInput      = brackets.ErrInvalidInput
	ErrInvalidResult     = brackets.ErrInvalidResult
	ErrSlotsIncomplete   = brackets.ErrSlotsIncomplete

	ErrMatchNotFound = errors.New("match not found")
	ErrGameNotFound  = errors.New("game not found")
	ErrTeamNotFound  = errors.New("team not found")

	ErrAlreadyGenerated = errors.New("bracket already generated")
	ErrAlreadyCompleted = errors.New("game already completed")
	ErrNotGenerated     = errors.New("bracket has not been generated")
	ErrRoundIncomplete  = errors.New("current round still has unfinished games")
	ErrSwissFinished    = errors.New("all swiss rounds have been played")
	ErrMatchClosed      = errors.New("match is completed or canceled")
	ErrGameNotStartable = errors.New("game cannot be started in its current status")
	ErrTeamNameConflict = errors.New("team name is already in use")

	ErrStandingsUnsupported = errors.New("standings are not kept for elimination formats")
)

// repoError translates repository errors into service errors and keeps any
// other error as is.
func repoError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repositories.ErrMatchNotFound):
		return ErrMatchNotFound
	case errors.Is(err, repositories.ErrGameNotFound):
		return ErrGameNotFound
	case errors.Is(err, repositories.ErrTeamNotFound):
		return ErrTeamNotFound
	case errors.Is(err, repositories.ErrTeamNameConflict):
		return ErrTeamNameConflict
	case errors.Is(err, repositories.ErrAlreadyGenerated), errors.Is(err, repositories.ErrGameConflict):
		return ErrAlreadyGenerated
	case errors.Is(err, repositories.ErrGameAlreadyCompleted):
		return ErrAlreadyCompleted
	case errors.Is(err, repositories.ErrParticipantTeamInvalid), errors.Is(err, repositories.ErrMatchNameInvalid):
		return errors.Join(ErrInvalidInput, err)
	}
	return err
}

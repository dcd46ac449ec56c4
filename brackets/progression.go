package brackets

import (
	"fmt"

	"github.com/Dosada05/bracket-engine/models"
)

// DetermineWinner validates a score line for game and returns the winning
// team, or nil for a draw. Draws are only accepted where the format allows
// them; elimination needs a winner to move the bracket forward.
func DetermineWinner(format models.Format, game *models.Game, team1Score, team2Score int) (*int, error) {
	if team1Score < 0 || team2Score < 0 {
		return nil, fmt.Errorf("%w: %w: scores must not be negative (got %d:%d)", ErrInvalidInput, ErrInvalidResult, team1Score, team2Score)
	}
	if !game.HasBothTeams() {
		return nil, fmt.Errorf("%w: game %d", ErrSlotsIncomplete, game.ID)
	}

	switch {
	case team1Score > team2Score:
		id := *game.Team1ID
		return &id, nil
	case team2Score > team1Score:
		id := *game.Team2ID
		return &id, nil
	}

	if !format.AllowsDraw() {
		return nil, fmt.Errorf("%w: ties are not allowed in %s games", ErrInvalidResult, format)
	}
	return nil, nil
}

// Advancement is one slot write caused by a finished game.
type Advancement struct {
	GameID int
	Slot   int
	TeamID int
}

// Advancements lists where the winner and, in double elimination, the loser
// of a finished game move next.
func Advancements(game *models.Game) []Advancement {
	var out []Advancement
	if game.WinnerID == nil {
		return out
	}
	if game.NextGameID != nil && game.NextSlot != nil {
		out = append(out, Advancement{GameID: *game.NextGameID, Slot: *game.NextSlot, TeamID: *game.WinnerID})
	}
	if loser := game.LoserID(); loser != nil && game.LoserNextGameID != nil && game.LoserNextSlot != nil {
		out = append(out, Advancement{GameID: *game.LoserNextGameID, Slot: *game.LoserNextSlot, TeamID: *loser})
	}
	return out
}

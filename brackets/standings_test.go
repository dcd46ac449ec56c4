package brackets

import (
	"testing"

	"github.com/Dosada05/bracket-engine/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func participantsOf(ids ...int) []*models.Participant {
	out := make([]*models.Participant, 0, len(ids))
	for i, id := range ids {
		out = append(out, &models.Participant{TeamID: id, Seed: i + 1, Team: &models.Team{ID: id, Name: string(rune('A' + i))}})
	}
	return out
}

func TestComputeStandings_FourTeamTable(t *testing.T) {
	games := []*models.Game{
		completedGame(1, 1, 2, 2, 1),
		completedGame(1, 1, 3, 1, 1),
		completedGame(2, 1, 4, 3, 0),
		completedGame(2, 2, 3, 2, 0),
		completedGame(3, 2, 4, 1, 1),
		completedGame(3, 3, 4, 0, 2),
	}

	table := ComputeStandings(participantsOf(1, 2, 3, 4), games)
	require.Len(t, table, 4)

	order := make([]int, 0, 4)
	for _, row := range table {
		order = append(order, row.TeamID)
	}
	assert.Equal(t, []int{1, 2, 4, 3}, order)

	a := table[0]
	assert.Equal(t, 1, a.Rank)
	assert.Equal(t, "A", a.TeamName)
	assert.Equal(t, 3, a.Played)
	assert.Equal(t, 2, a.Wins)
	assert.Equal(t, 1, a.Draws)
	assert.Equal(t, 0, a.Losses)
	assert.Equal(t, 6, a.GoalsFor)
	assert.Equal(t, 2, a.GoalsAgainst)
	assert.Equal(t, 4, a.GoalDifference)
	assert.Equal(t, 7, a.Points)

	assert.Equal(t, 4, table[1].Points)
	assert.Equal(t, 1, table[1].GoalDifference)
	assert.Equal(t, 4, table[2].Points)
	assert.Equal(t, -1, table[2].GoalDifference)
	assert.Equal(t, 1, table[3].Points)
	assert.Equal(t, 4, table[3].Rank)
}

func TestComputeStandings_IgnoresUnfinishedGames(t *testing.T) {
	pending := &models.Game{Round: 1, Team1ID: intPtr(1), Team2ID: intPtr(2), Status: models.GameStatusInProgress}
	table := ComputeStandings(participantsOf(1, 2, 3, 4, 5), []*models.Game{pending})
	require.Len(t, table, 5)
	for i, row := range table {
		assert.Equal(t, i+1, row.Rank)
		assert.Equal(t, i+1, row.TeamID, "seed order is kept when nothing has been played")
		assert.Zero(t, row.Played)
		assert.Zero(t, row.Points)
	}
}

func TestComputeStandings_GoalsForBreaksTie(t *testing.T) {
	games := []*models.Game{
		completedGame(1, 1, 3, 1, 1),
		completedGame(1, 2, 4, 3, 3),
	}
	table := ComputeStandings(participantsOf(1, 2, 3, 4), games)
	assert.Equal(t, 2, table[0].TeamID)
	assert.Equal(t, 4, table[1].TeamID)
	assert.Equal(t, 1, table[2].TeamID)
	assert.Equal(t, 3, table[3].TeamID)
}

package brackets

import (
	"testing"

	"github.com/Dosada05/bracket-engine/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDoubleElimination_EightTeamLayout(t *testing.T) {
	games := generate(t, 8, models.FormatDoubleElimination, models.MatchSettings{})

	assert.Equal(t, map[int]int{1: 4, 2: 2, 3: 1}, gamesPerRound(games, models.BracketMain))
	assert.Equal(t, map[int]int{1: 2, 2: 2, 3: 1, 4: 1}, gamesPerRound(games, models.BracketLosers))
	assert.Equal(t, map[int]int{1: 1}, gamesPerRound(games, models.BracketGrandFinal))

	index := byUID(games)
	// winners round 1 losers pair up in losers round 1
	assert.Equal(t, "L-R1G1", *index["M-R1G1"].LoserNextUID)
	assert.Equal(t, models.Slot1, index["M-R1G1"].LoserNextSlot)
	assert.Equal(t, "L-R1G1", *index["M-R1G2"].LoserNextUID)
	assert.Equal(t, models.Slot2, index["M-R1G2"].LoserNextSlot)

	// winners round 2 losers drop in reversed order
	assert.Equal(t, "L-R2G2", *index["M-R2G1"].LoserNextUID)
	assert.Equal(t, "L-R2G1", *index["M-R2G2"].LoserNextUID)
	assert.Equal(t, models.Slot2, index["M-R2G1"].LoserNextSlot)

	// winners final loser meets the losers bracket survivor
	assert.Equal(t, "L-R4G1", *index["M-R3G1"].LoserNextUID)
	assert.Equal(t, "GF-R1G1", *index["M-R3G1"].NextUID)
	assert.Equal(t, models.Slot1, index["M-R3G1"].NextSlot)
	assert.Equal(t, "GF-R1G1", *index["L-R4G1"].NextUID)
	assert.Equal(t, models.Slot2, index["L-R4G1"].NextSlot)

	for _, g := range games {
		if g.Bracket == models.BracketLosers {
			assert.Nil(t, g.LoserNextUID, "%s eliminates its loser", g.UID)
		}
	}
}

func TestDoubleElimination_GameCountAndFullPlaythrough(t *testing.T) {
	for n := 2; n <= 17; n++ {
		games := generate(t, n, models.FormatDoubleElimination, models.MatchSettings{})
		assert.Len(t, games, 2*n-2, "n=%d", n)

		sim := newBracketSim(t, games)
		sim.playAll(games)
		for _, g := range games {
			assert.True(t, sim.played[g.UID], "n=%d %s never became playable", n, g.UID)
		}

		survivors := 0
		for id := 1; id <= n; id++ {
			assert.LessOrEqual(t, sim.losses[id], 2, "n=%d team %d", n, id)
			if sim.losses[id] < 2 {
				survivors++
			}
		}
		assert.Equal(t, 1, survivors, "n=%d", n)
		assert.Equal(t, 0, sim.losses[1], "n=%d top seed wins every slot-1 game", n)
	}
}

func TestDoubleElimination_TwoTeamsRematch(t *testing.T) {
	games := generate(t, 2, models.FormatDoubleElimination, models.MatchSettings{})
	require.Len(t, games, 2)
	index := byUID(games)

	opener := index["M-R1G1"]
	assert.Equal(t, "GF-R1G1", *opener.NextUID)
	assert.Equal(t, models.Slot1, opener.NextSlot)
	assert.Equal(t, "GF-R1G1", *opener.LoserNextUID)
	assert.Equal(t, models.Slot2, opener.LoserNextSlot)
}

func TestNeedsBracketReset(t *testing.T) {
	final := &models.Game{
		Bracket:  models.BracketGrandFinal,
		Round:    1,
		Team1ID:  intPtr(1),
		Team2ID:  intPtr(2),
		Status:   models.GameStatusCompleted,
		WinnerID: intPtr(2),
	}
	assert.False(t, NeedsBracketReset(final, models.MatchSettings{}))
	assert.True(t, NeedsBracketReset(final, models.MatchSettings{GrandFinalReset: true}))

	final.WinnerID = intPtr(1)
	assert.False(t, NeedsBracketReset(final, models.MatchSettings{GrandFinalReset: true}))

	final.WinnerID = intPtr(2)
	reset := ResetGame(final)
	assert.Equal(t, "GF-R2G1", reset.UID)
	assert.Equal(t, 2, reset.Round)
	assert.Equal(t, 1, *reset.Team1ID)
	assert.Equal(t, 2, *reset.Team2ID)

	final.Round = 2
	assert.False(t, NeedsBracketReset(final, models.MatchSettings{GrandFinalReset: true}))
}

package brackets

import (
	"testing"

	"github.com/Dosada05/bracket-engine/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func teamRange(n int) []int {
	ids := make([]int, n)
	for i := range ids {
		ids[i] = i + 1
	}
	return ids
}

func TestGenerateInitialPairing_FourTeamElimination(t *testing.T) {
	pairings, err := GenerateInitialPairing([]int{1, 2, 3, 4}, models.FormatSingleElimination)
	require.NoError(t, err)

	assert.Equal(t, []Pairing{
		{Team1ID: 1, Team2ID: intPtr(4)},
		{Team1ID: 2, Team2ID: intPtr(3)},
	}, pairings)
}

func TestGenerateInitialPairing_ThreeTeamsGetOneBye(t *testing.T) {
	pairings, err := GenerateInitialPairing([]int{10, 20, 30}, models.FormatSingleElimination)
	require.NoError(t, err)
	require.Len(t, pairings, 2)

	assert.True(t, pairings[0].IsBye())
	assert.Equal(t, 10, pairings[0].Team1ID)
	assert.False(t, pairings[1].IsBye())
	assert.Equal(t, 20, pairings[1].Team1ID)
	assert.Equal(t, 30, *pairings[1].Team2ID)
}

func TestSeedOrder(t *testing.T) {
	assert.Equal(t, []int{1, 8, 4, 5, 2, 7, 3, 6}, SeedOrder(8))

	for size := 2; size <= 64; size *= 2 {
		order := SeedOrder(size)
		require.Len(t, order, size)

		seen := make(map[int]bool)
		for i := 0; i < size; i += 2 {
			assert.Equal(t, size+1, order[i]+order[i+1], "size %d pair %d", size, i/2)
			seen[order[i]], seen[order[i+1]] = true, true
		}
		assert.Len(t, seen, size)

		half := size / 2
		assert.Contains(t, order[:half], 1, "seed 1 in top half for size %d", size)
		assert.Contains(t, order[half:], 2, "seed 2 in bottom half for size %d", size)
	}
}

func TestGenerateInitialPairing_RoundRobinCoversEveryPairOnce(t *testing.T) {
	for _, format := range []models.Format{models.FormatRoundRobin, models.FormatLeague} {
		for n := 2; n <= 10; n++ {
			pairings, err := GenerateInitialPairing(teamRange(n), format)
			require.NoError(t, err)
			assert.Len(t, pairings, n*(n-1)/2)

			seen := make(map[[2]int]bool)
			for _, p := range pairings {
				require.False(t, p.IsBye())
				key := pairKey(p.Team1ID, *p.Team2ID)
				assert.False(t, seen[key], "pair %v repeated", key)
				assert.NotEqual(t, p.Team1ID, *p.Team2ID)
				seen[key] = true
			}
			assert.Len(t, seen, n*(n-1)/2)
		}
	}
}

func TestGenerateInitialPairing_SwissTopHalfAgainstBottomHalf(t *testing.T) {
	pairings, err := GenerateInitialPairing(teamRange(6), models.FormatSwiss)
	require.NoError(t, err)
	assert.Equal(t, []Pairing{
		{Team1ID: 1, Team2ID: intPtr(4)},
		{Team1ID: 2, Team2ID: intPtr(5)},
		{Team1ID: 3, Team2ID: intPtr(6)},
	}, pairings)

	pairings, err = GenerateInitialPairing(teamRange(5), models.FormatSwiss)
	require.NoError(t, err)
	assert.Equal(t, []Pairing{
		{Team1ID: 1, Team2ID: intPtr(3)},
		{Team1ID: 2, Team2ID: intPtr(4)},
		{Team1ID: 5},
	}, pairings)
}

func TestGenerateInitialPairing_Errors(t *testing.T) {
	_, err := GenerateInitialPairing([]int{1}, models.FormatSingleElimination)
	assert.ErrorIs(t, err, ErrInsufficientTeams)

	_, err = GenerateInitialPairing(nil, models.FormatRoundRobin)
	assert.ErrorIs(t, err, ErrInsufficientTeams)

	_, err = GenerateInitialPairing([]int{1, 2, 1}, models.FormatRoundRobin)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = GenerateInitialPairing([]int{1, -2}, models.FormatRoundRobin)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = GenerateInitialPairing([]int{1, 2}, models.Format("ladder"))
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestRoundsFor(t *testing.T) {
	cases := map[int]int{2: 1, 3: 2, 4: 2, 5: 3, 8: 3, 9: 4, 16: 4, 17: 5}
	for n, want := range cases {
		assert.Equal(t, want, RoundsFor(n), "n=%d", n)
	}
}

package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/Dosada05/bracket-engine/models"
	"github.com/Dosada05/bracket-engine/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetStandings_RoundRobinTable(t *testing.T) {
	env := newEnv(t)
	ctx := context.Background()
	match, teams, games := env.setup(t, models.FormatRoundRobin, nil, 4)
	a, b, c, d := teams[0], teams[1], teams[2], teams[3]

	scores := map[[2]int][2]int{
		{a, b}: {2, 1},
		{a, c}: {1, 1},
		{a, d}: {3, 0},
		{b, c}: {2, 0},
		{b, d}: {1, 1},
		{c, d}: {0, 2},
	}
	for _, g := range games {
		home, away := *g.Team1ID, *g.Team2ID
		s, ok := scores[[2]int{home, away}]
		if !ok {
			rev, found := scores[[2]int{away, home}]
			require.True(t, found)
			s = [2]int{rev[1], rev[0]}
		}
		_, err := env.results.SubmitGameResult(ctx, g.ID, s[0], s[1])
		require.NoError(t, err)
	}

	rows, err := env.standings.GetStandings(ctx, match.ID)
	require.NoError(t, err)
	require.Len(t, rows, 4)

	assert.Equal(t, a, rows[0].TeamID)
	assert.Equal(t, 7, rows[0].Points)
	assert.Equal(t, 4, rows[0].GoalDifference)
	assert.Equal(t, b, rows[1].TeamID)
	assert.Equal(t, 4, rows[1].Points)
	assert.Equal(t, d, rows[2].TeamID)
	assert.Equal(t, 4, rows[2].Points)
	assert.Equal(t, c, rows[3].TeamID)
	assert.Equal(t, 1, rows[3].Points)
	assert.NotEmpty(t, rows[0].TeamName)

	body, ok := env.uploader.object(services.ArchiveKey(match.ID))
	require.True(t, ok)
	assert.True(t, jsonContains(t, body, `"standings"`))
}

func TestGetStandings_BeforeAnyResult(t *testing.T) {
	env := newEnv(t)
	match, teams, _ := env.setup(t, models.FormatRoundRobin, nil, 5)

	rows, err := env.standings.GetStandings(context.Background(), match.ID)
	require.NoError(t, err)
	require.Len(t, rows, 5)
	for i, row := range rows {
		assert.Equal(t, teams[i], row.TeamID)
		assert.Equal(t, i+1, row.Rank)
		assert.Zero(t, row.Points)
	}
}

func TestGetStandings_EliminationUnsupported(t *testing.T) {
	env := newEnv(t)
	match, _, _ := env.setup(t, models.FormatSingleElimination, nil, 4)

	_, err := env.standings.GetStandings(context.Background(), match.ID)
	assert.ErrorIs(t, err, services.ErrStandingsUnsupported)
	assert.ErrorIs(t, err, services.ErrInvalidInput)

	_, err = env.standings.GetStandings(context.Background(), 999)
	assert.ErrorIs(t, err, services.ErrMatchNotFound)
}

func TestMatchArchiver_UploadFailureDoesNotFailResult(t *testing.T) {
	env := newEnv(t)
	env.uploader.err = errors.New("bucket unavailable")
	_, _, games := env.setup(t, models.FormatLeague, nil, 2)

	out, err := env.results.SubmitGameResult(context.Background(), games[0].ID, 2, 0)
	require.NoError(t, err)
	assert.True(t, out.MatchCompleted)
}

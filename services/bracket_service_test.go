package services_test

import (
	"context"
	"sync"
	"testing"

	"github.com/Dosada05/bracket-engine/models"
	"github.com/Dosada05/bracket-engine/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateBracket_FourTeamSingleElimination(t *testing.T) {
	env := newEnv(t)
	match, teams, games := env.setup(t, models.FormatSingleElimination, nil, 4)
	require.Len(t, games, 3)

	semi1 := byUID(t, games, "M-R1G1")
	semi2 := byUID(t, games, "M-R1G2")
	final := byUID(t, games, "M-R2G1")

	assert.Equal(t, teams[0], *semi1.Team1ID)
	assert.Equal(t, teams[3], *semi1.Team2ID)
	assert.Equal(t, teams[1], *semi2.Team1ID)
	assert.Equal(t, teams[2], *semi2.Team2ID)

	require.NotNil(t, semi1.NextGameID)
	assert.Equal(t, final.ID, *semi1.NextGameID)
	assert.Equal(t, models.Slot1, *semi1.NextSlot)
	assert.Equal(t, final.ID, *semi2.NextGameID)
	assert.Equal(t, models.Slot2, *semi2.NextSlot)
	assert.Nil(t, final.NextGameID)
	assert.Nil(t, final.Team1ID)
	assert.Nil(t, final.Team2ID)

	view, err := env.brackets.GetBracket(context.Background(), match.ID)
	require.NoError(t, err)
	assert.Equal(t, models.MatchStatusActive, view.Match.Status)
	assert.Len(t, view.Games, 3)
	require.Len(t, view.Participants, 4)
	for i, p := range view.Participants {
		assert.Equal(t, teams[i], p.TeamID)
		assert.Equal(t, i+1, p.Seed)
	}
}

func TestGenerateBracket_ThreeTeamsByeIsNotAGame(t *testing.T) {
	env := newEnv(t)
	_, teams, games := env.setup(t, models.FormatSingleElimination, nil, 3)
	require.Len(t, games, 2)

	semi := byUID(t, games, "M-R1G2")
	final := byUID(t, games, "M-R2G1")
	assert.Equal(t, teams[1], *semi.Team1ID)
	assert.Equal(t, teams[2], *semi.Team2ID)
	require.NotNil(t, final.Team1ID, "top seed is already waiting in the final")
	assert.Equal(t, teams[0], *final.Team1ID)
	assert.Nil(t, final.Team2ID)
}

func TestGenerateBracket_AlreadyGenerated(t *testing.T) {
	env := newEnv(t)
	match, teams, games := env.setup(t, models.FormatRoundRobin, nil, 4)
	require.Len(t, games, 6)

	_, err := env.brackets.GenerateBracket(context.Background(), services.GenerateBracketInput{
		MatchID: match.ID,
		Format:  models.FormatRoundRobin,
		TeamIDs: teams,
	})
	assert.ErrorIs(t, err, services.ErrAlreadyGenerated)
	assert.Len(t, env.allGames(t, match.ID), 6)
}

func TestGenerateBracket_ConcurrentCallsGenerateOnce(t *testing.T) {
	env := newEnv(t)
	match := env.createMatch(t, models.FormatDoubleElimination, nil)
	teams := env.createTeams(t, 6)

	const callers = 5
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		rejected  int
	)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := env.brackets.GenerateBracket(context.Background(), services.GenerateBracketInput{
				MatchID: match.ID,
				Format:  models.FormatDoubleElimination,
				TeamIDs: teams,
			})
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				successes++
			} else if assert.ErrorIs(t, err, services.ErrAlreadyGenerated) {
				rejected++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, successes)
	assert.Equal(t, callers-1, rejected)
	assert.Len(t, env.allGames(t, match.ID), 2*6-2)
}

func TestGenerateBracket_Validation(t *testing.T) {
	env := newEnv(t)
	ctx := context.Background()
	match := env.createMatch(t, models.FormatSingleElimination, nil)
	teams := env.createTeams(t, 4)

	tests := []struct {
		name    string
		input   services.GenerateBracketInput
		wantErr error
	}{
		{
			name:    "unknown match",
			input:   services.GenerateBracketInput{MatchID: 9999, TeamIDs: teams},
			wantErr: services.ErrMatchNotFound,
		},
		{
			name:    "single team",
			input:   services.GenerateBracketInput{MatchID: match.ID, TeamIDs: teams[:1]},
			wantErr: services.ErrInsufficientTeams,
		},
		{
			name:    "duplicate team",
			input:   services.GenerateBracketInput{MatchID: match.ID, TeamIDs: []int{teams[0], teams[1], teams[0]}},
			wantErr: services.ErrInvalidInput,
		},
		{
			name:    "unknown team",
			input:   services.GenerateBracketInput{MatchID: match.ID, TeamIDs: []int{teams[0], 424242}},
			wantErr: services.ErrInvalidInput,
		},
		{
			name:    "format differs from match",
			input:   services.GenerateBracketInput{MatchID: match.ID, Format: models.FormatSwiss, TeamIDs: teams},
			wantErr: services.ErrInvalidInput,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.brackets.GenerateBracket(ctx, tt.input)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	assert.Empty(t, env.allGames(t, match.ID), "failed attempts leave nothing behind")

	_, err := env.brackets.GenerateBracket(ctx, services.GenerateBracketInput{MatchID: match.ID, TeamIDs: teams})
	assert.NoError(t, err, "a rejected request does not consume the generation")
}

func TestGenerateBracket_MaxParticipants(t *testing.T) {
	env := newEnv(t)
	match, err := env.matches.CreateMatch(context.Background(), services.CreateMatchInput{
		Name: "Small cup", Format: "single_elimination", MaxParticipants: 2,
	})
	require.NoError(t, err)

	_, err = env.brackets.GenerateBracket(context.Background(), services.GenerateBracketInput{
		MatchID: match.ID,
		TeamIDs: env.createTeams(t, 3),
	})
	assert.ErrorIs(t, err, services.ErrInvalidInput)
}

func TestGetBracket_UnknownMatch(t *testing.T) {
	env := newEnv(t)
	_, err := env.brackets.GetBracket(context.Background(), 77)
	assert.ErrorIs(t, err, services.ErrMatchNotFound)
}

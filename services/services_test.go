package services_test

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/Dosada05/bracket-engine/db"
	"github.com/Dosada05/bracket-engine/models"
	"github.com/Dosada05/bracket-engine/repositories"
	"github.com/Dosada05/bracket-engine/services"
	"github.com/Dosada05/bracket-engine/storage"
	"github.com/stretchr/testify/require"
)

type fakeUploader struct {
	mu      sync.Mutex
	objects map[string][]byte
	err     error
}

func newFakeUploader() *fakeUploader {
	return &fakeUploader{objects: make(map[string][]byte)}
}

func (u *fakeUploader) Upload(_ context.Context, key string, contentType string, reader io.Reader) (*storage.UploadResult, error) {
	if u.err != nil {
		return nil, u.err
	}
	body, err := io.ReadAll(reader)
	if err != nil {
		return nil, err
	}
	u.mu.Lock()
	defer u.mu.Unlock()
	u.objects[key] = body
	return &storage.UploadResult{Key: key, Location: u.GetPublicURL(key), ContentType: contentType}, nil
}

func (u *fakeUploader) GetPublicURL(key string) string {
	return storage.PublicURL("https://archive.test", key)
}

func (u *fakeUploader) object(key string) ([]byte, bool) {
	u.mu.Lock()
	defer u.mu.Unlock()
	body, ok := u.objects[key]
	return body, ok
}

type testEnv struct {
	db        *sql.DB
	matches   services.MatchService
	teams     services.TeamService
	brackets  services.BracketService
	results   services.ResultService
	standings services.StandingsService
	swiss     services.SwissService
	games     repositories.GameRepository
	uploader  *fakeUploader

	// teamSeq keeps team names unique across setups in one database.
	teamSeq int
}

func newEnv(t *testing.T) *testEnv {
	t.Helper()
	conn, err := db.Connect(repositories.DialectSQLite, ":memory:", 5*time.Second)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	require.NoError(t, db.Migrate(context.Background(), conn, repositories.DialectSQLite))

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	dialect := repositories.DialectSQLite
	matchRepo := repositories.NewMatchRepository(conn, dialect)
	teamRepo := repositories.NewTeamRepository(conn, dialect)
	participantRepo := repositories.NewParticipantRepository(conn, dialect)
	gameRepo := repositories.NewGameRepository(conn, dialect)
	generationRepo := repositories.NewGenerationRepository(conn, dialect)

	uploader := newFakeUploader()
	bracketService := services.NewBracketService(conn, matchRepo, teamRepo, participantRepo, gameRepo, generationRepo, logger)
	archiver := services.NewMatchArchiver(bracketService, uploader, logger)

	return &testEnv{
		db:        conn,
		matches:   services.NewMatchService(matchRepo, logger),
		teams:     services.NewTeamService(teamRepo, logger),
		brackets:  bracketService,
		results:   services.NewResultService(conn, matchRepo, participantRepo, gameRepo, archiver, logger),
		standings: services.NewStandingsService(matchRepo, participantRepo, gameRepo, logger),
		swiss:     services.NewSwissService(conn, matchRepo, participantRepo, gameRepo, logger),
		games:     gameRepo,
		uploader:  uploader,
	}
}

func (e *testEnv) createMatch(t *testing.T, format models.Format, settings *models.MatchSettings) *models.Match {
	t.Helper()
	match, err := e.matches.CreateMatch(context.Background(), services.CreateMatchInput{
		Name:     fmt.Sprintf("%s cup", format),
		Format:   string(format),
		Settings: settings,
	})
	require.NoError(t, err)
	return match
}

// createTeams returns team ids in seed order.
func (e *testEnv) createTeams(t *testing.T, n int) []int {
	t.Helper()
	ids := make([]int, 0, n)
	for i := 0; i < n; i++ {
		e.teamSeq++
		team, err := e.teams.CreateTeam(context.Background(), fmt.Sprintf("Team %c%d", 'A'+i%26, e.teamSeq), nil)
		require.NoError(t, err)
		ids = append(ids, team.ID)
	}
	return ids
}

func (e *testEnv) setup(t *testing.T, format models.Format, settings *models.MatchSettings, n int) (*models.Match, []int, []*models.Game) {
	t.Helper()
	match := e.createMatch(t, format, settings)
	teams := e.createTeams(t, n)
	games, err := e.brackets.GenerateBracket(context.Background(), services.GenerateBracketInput{
		MatchID: match.ID,
		Format:  format,
		TeamIDs: teams,
	})
	require.NoError(t, err)
	return match, teams, games
}

func (e *testEnv) game(t *testing.T, id int) *models.Game {
	t.Helper()
	g, err := e.games.GetByID(context.Background(), nil, id)
	require.NoError(t, err)
	return g
}

func (e *testEnv) allGames(t *testing.T, matchID int) []*models.Game {
	t.Helper()
	games, err := e.games.ListByMatch(context.Background(), nil, matchID)
	require.NoError(t, err)
	return games
}

func byUID(t *testing.T, games []*models.Game, uid string) *models.Game {
	t.Helper()
	for _, g := range games {
		if g.BracketUID == uid {
			return g
		}
	}
	require.Failf(t, "game not found", "uid %s", uid)
	return nil
}

func intPtr(v int) *int { return &v }

func jsonContains(t *testing.T, body []byte, fragment string) bool {
	t.Helper()
	return bytes.Contains(body, []byte(fragment))
}

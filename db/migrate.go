package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/Dosada05/bracket-engine/repositories"
)

const schema = `
CREATE TABLE IF NOT EXISTS teams (
	id {{pk}},
	name TEXT NOT NULL UNIQUE,
	seed INTEGER,
	created_at {{ts}} NOT NULL
);

CREATE TABLE IF NOT EXISTS matches (
	id {{pk}},
	name TEXT NOT NULL,
	format TEXT NOT NULL CHECK (format IN ('single_elimination', 'double_elimination', 'round_robin', 'swiss', 'league')),
	status TEXT NOT NULL DEFAULT 'registration',
	max_participants INTEGER NOT NULL DEFAULT 0,
	settings_json TEXT,
	created_at {{ts}} NOT NULL
);

CREATE TABLE IF NOT EXISTS match_participants (
	match_id INTEGER NOT NULL REFERENCES matches(id) ON DELETE CASCADE,
	team_id INTEGER NOT NULL REFERENCES teams(id),
	seed INTEGER NOT NULL,
	status TEXT NOT NULL,
	PRIMARY KEY (match_id, team_id)
);

CREATE TABLE IF NOT EXISTS bracket_generations (
	match_id INTEGER PRIMARY KEY REFERENCES matches(id) ON DELETE CASCADE,
	generated_at {{ts}} NOT NULL
);

CREATE TABLE IF NOT EXISTS games (
	id {{pk}},
	match_id INTEGER NOT NULL REFERENCES matches(id) ON DELETE CASCADE,
	bracket_uid TEXT NOT NULL,
	bracket TEXT NOT NULL DEFAULT 'main',
	round INTEGER NOT NULL,
	game_number INTEGER NOT NULL,
	team1_id INTEGER REFERENCES teams(id),
	team2_id INTEGER REFERENCES teams(id),
	team1_score INTEGER,
	team2_score INTEGER,
	status TEXT NOT NULL DEFAULT 'scheduled',
	winner_id INTEGER REFERENCES teams(id),
	next_game_id INTEGER REFERENCES games(id),
	next_slot INTEGER,
	loser_next_game_id INTEGER REFERENCES games(id),
	loser_next_slot INTEGER,
	scheduled_at {{ts}},
	venue TEXT,
	created_at {{ts}} NOT NULL,
	UNIQUE (match_id, bracket, round, game_number)
);

CREATE INDEX IF NOT EXISTS idx_games_match_id ON games (match_id);
`

// Migrate creates the schema when it does not exist yet.
func Migrate(ctx context.Context, db *sql.DB, dialect repositories.Dialect) error {
	pk, ts := "SERIAL PRIMARY KEY", "TIMESTAMPTZ"
	if dialect == repositories.DialectSQLite {
		pk, ts = "INTEGER PRIMARY KEY AUTOINCREMENT", "DATETIME"
	}
	ddl := strings.NewReplacer("{{pk}}", pk, "{{ts}}", ts).Replace(schema)

	for _, stmt := range strings.Split(ddl, ";") {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema statement %q: %w", firstLine(stmt), err)
		}
	}
	return nil
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

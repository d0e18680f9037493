// db.go : used for connecting to the DB (in this case Postgres)

package platform

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // Import the PostgreSQL driver (blank import)
)

// ConnectDB establishes a connection to the PostgreSQL database.
func ConnectDB(ctx context.Context, connectionURL string) (*sqlx.DB, error) {
	db, err := sqlx.Open("postgres", connectionURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Ping the database to ensure the connection is good.
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

const accountsSchema = `
CREATE TABLE IF NOT EXISTS accounts (
	id                TEXT PRIMARY KEY,
	username          TEXT NOT NULL,
	email             TEXT NOT NULL,
	password_hash     TEXT NOT NULL,
	display_name      TEXT NOT NULL DEFAULT '',
	avatar_url        TEXT NOT NULL DEFAULT '',
	country           TEXT NOT NULL DEFAULT '',
	guild_name        TEXT NOT NULL DEFAULT '',
	coins             INTEGER NOT NULL DEFAULT 0 CHECK (coins >= 0),
	diamonds          INTEGER NOT NULL DEFAULT 0 CHECK (diamonds >= 0),
	current_level     INTEGER NOT NULL DEFAULT 1,
	highest_level     INTEGER NOT NULL DEFAULT 1,
	experience_points INTEGER NOT NULL DEFAULT 0,
	total_wins        INTEGER NOT NULL DEFAULT 0,
	total_losses      INTEGER NOT NULL DEFAULT 0,
	total_draws       INTEGER NOT NULL DEFAULT 0,
	last_login_at     TIMESTAMPTZ,
	created_at        TIMESTAMPTZ NOT NULL,
	updated_at        TIMESTAMPTZ NOT NULL
);
CREATE UNIQUE INDEX IF NOT EXISTS accounts_username_key ON accounts (username);
CREATE UNIQUE INDEX IF NOT EXISTS accounts_email_key ON accounts (email);
CREATE INDEX IF NOT EXISTS accounts_experience_idx ON accounts (experience_points DESC);
`

// EnsureSchema creates the accounts table and its unique indexes. The unique
// indexes are what makes duplicate registration detection race-free.
func EnsureSchema(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, accountsSchema)
	return err
}

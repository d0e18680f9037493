package repositories

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"net"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"ouk-server-go/internal/models"
)

// SQLAccountStore implements AccountStore using PostgreSQL
type SQLAccountStore struct {
	db *sqlx.DB
}

// NewSQLAccountStore creates a new SQL-based account store
func NewSQLAccountStore(db *sqlx.DB) AccountStore {
	return &SQLAccountStore{db: db}
}

// Create inserts a new account. The unique indexes on username and email are
// the authority on duplicates; a racing duplicate registration surfaces here
// as the matching sentinel.
func (s *SQLAccountStore) Create(ctx context.Context, account *models.Account) error {
	query := `
		INSERT INTO accounts (
			id, username, email, password_hash, display_name,
			avatar_url, country, guild_name,
			coins, diamonds, current_level, highest_level, experience_points,
			total_wins, total_losses, total_draws,
			created_at, updated_at
		) VALUES (
			:id, :username, :email, :password_hash, :display_name,
			:avatar_url, :country, :guild_name,
			:coins, :diamonds, :current_level, :highest_level, :experience_points,
			:total_wins, :total_losses, :total_draws,
			:created_at, :updated_at
		)
	`

	_, err := s.db.NamedExecContext(ctx, query, account)
	if err != nil {
		return mapWriteError(err)
	}
	return nil
}

// GetByID retrieves an account by ID
func (s *SQLAccountStore) GetByID(ctx context.Context, id string) (*models.Account, error) {
	return s.getBy(ctx, "id", id)
}

// GetByUsername retrieves an account by username
func (s *SQLAccountStore) GetByUsername(ctx context.Context, username string) (*models.Account, error) {
	return s.getBy(ctx, "username", username)
}

// GetByEmail retrieves an account by email
func (s *SQLAccountStore) GetByEmail(ctx context.Context, email string) (*models.Account, error) {
	return s.getBy(ctx, "email", email)
}

func (s *SQLAccountStore) getBy(ctx context.Context, column, value string) (*models.Account, error) {
	var account models.Account

	query := `SELECT * FROM accounts WHERE ` + column + ` = $1`

	err := s.db.GetContext(ctx, &account, query, value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAccountNotFound
		}
		return nil, mapReadError(err)
	}

	return &account, nil
}

// UpdateProfile changes only the allow-listed display fields
func (s *SQLAccountStore) UpdateProfile(ctx context.Context, id string, update ProfileUpdate) (*models.Account, error) {
	query := `
		UPDATE accounts SET
			display_name = COALESCE($2, display_name),
			avatar_url   = COALESCE($3, avatar_url),
			country      = COALESCE($4, country),
			guild_name   = COALESCE($5, guild_name),
			updated_at   = $6
		WHERE id = $1
		RETURNING *
	`

	var account models.Account
	err := s.db.GetContext(ctx, &account, query, id,
		update.DisplayName, update.AvatarURL, update.Country, update.GuildName,
		time.Now(),
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAccountNotFound
		}
		return nil, mapReadError(err)
	}

	return &account, nil
}

// TouchLastLogin records a successful login
func (s *SQLAccountStore) TouchLastLogin(ctx context.Context, id string) error {
	query := `UPDATE accounts SET last_login_at = $2, updated_at = $2 WHERE id = $1`

	result, err := s.db.ExecContext(ctx, query, id, time.Now())
	if err != nil {
		return mapReadError(err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrAccountNotFound
	}
	return nil
}

// ApplyDelta applies a progression delta in one statement so that concurrent
// submissions for the same account never lose an update. The level-up gate
// and the currency floors live in the SQL itself: the increment happens
// against whatever the row holds at execution time, not against a snapshot
// the caller read earlier. When the level-up fires, highest_level is floored
// at the new current_level so highest_level >= current_level always holds
// (all SET expressions see the pre-update row, hence the repeated CASE).
func (s *SQLAccountStore) ApplyDelta(ctx context.Context, id string, delta models.ProgressDelta) (*models.Account, error) {
	query := `
		UPDATE accounts SET
			total_wins        = total_wins + $2,
			total_losses      = total_losses + $3,
			total_draws       = total_draws + $4,
			experience_points = experience_points + $5,
			coins             = GREATEST(coins + $6, 0),
			diamonds          = GREATEST(diamonds + $7, 0),
			current_level     = CASE
				WHEN $8 > 0 AND current_level = $8 AND current_level < $10
				THEN current_level + 1
				ELSE current_level
			END,
			highest_level     = GREATEST(highest_level, $9, CASE
				WHEN $8 > 0 AND current_level = $8 AND current_level < $10
				THEN current_level + 1
				ELSE 0
			END),
			updated_at        = $11
		WHERE id = $1
		RETURNING *
	`

	var account models.Account
	err := s.db.GetContext(ctx, &account, query, id,
		delta.Wins, delta.Losses, delta.Draws, delta.Experience,
		delta.Coins, delta.Diamonds,
		delta.LevelUpFrom, delta.HighestLevelFloor,
		models.MaxLevel, time.Now(),
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAccountNotFound
		}
		return nil, mapReadError(err)
	}

	return &account, nil
}

// TopByExperience returns the leaderboard slice straight from the table
func (s *SQLAccountStore) TopByExperience(ctx context.Context, limit int) ([]*models.Account, error) {
	var accounts []*models.Account

	query := `
		SELECT * FROM accounts
		ORDER BY experience_points DESC, total_wins DESC, username ASC
		LIMIT $1
	`

	if err := s.db.SelectContext(ctx, &accounts, query, limit); err != nil {
		return nil, mapReadError(err)
	}
	return accounts, nil
}

// ListGuilds aggregates member counts per guild
func (s *SQLAccountStore) ListGuilds(ctx context.Context) ([]*models.GuildSummary, error) {
	var guilds []*models.GuildSummary

	query := `
		SELECT guild_name AS name, COUNT(*) AS member_count
		FROM accounts
		WHERE guild_name <> ''
		GROUP BY guild_name
		ORDER BY member_count DESC, name ASC
	`

	if err := s.db.SelectContext(ctx, &guilds, query); err != nil {
		return nil, mapReadError(err)
	}
	return guilds, nil
}

// mapWriteError translates insert failures into the store's sentinels
func mapWriteError(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		if strings.Contains(pqErr.Constraint, "email") {
			return ErrDuplicateEmail
		}
		return ErrDuplicateUsername
	}
	return mapReadError(err)
}

// mapReadError surfaces connectivity loss as ErrStorageUnavailable so callers
// can tell "does not exist" from "could not check". Success is never faked.
func mapReadError(err error) error {
	var netErr net.Error
	if errors.As(err, &netErr) ||
		errors.Is(err, driver.ErrBadConn) ||
		errors.Is(err, sql.ErrConnDone) {
		return errors.Join(ErrStorageUnavailable, err)
	}
	return err
}

package repositories

import (
	"context"
	"errors"

	"ouk-server-go/internal/models"
)

var (
	ErrAccountNotFound    = errors.New("account not found")
	ErrDuplicateUsername  = errors.New("username already taken")
	ErrDuplicateEmail     = errors.New("email already registered")
	ErrStorageUnavailable = errors.New("storage unavailable")
)

// ProfileUpdate carries the only account fields a client may change.
// Identity fields (id, username, email) and the password hash are not
// reachable through a profile update.
type ProfileUpdate struct {
	DisplayName *string
	AvatarURL   *string
	Country     *string
	GuildName   *string
}

// AccountStore defines the interface for account data access. Duplicate
// detection at Create and the delta application in ApplyDelta must be atomic
// with respect to concurrent callers; two racing registrations for the same
// username must not both succeed, and two racing deltas must both land.
type AccountStore interface {
	Create(ctx context.Context, account *models.Account) error
	GetByID(ctx context.Context, id string) (*models.Account, error)
	GetByUsername(ctx context.Context, username string) (*models.Account, error)
	GetByEmail(ctx context.Context, email string) (*models.Account, error)

	UpdateProfile(ctx context.Context, id string, update ProfileUpdate) (*models.Account, error)
	TouchLastLogin(ctx context.Context, id string) error

	// ApplyDelta applies a progression delta as a single atomic per-record
	// write and returns the updated account.
	ApplyDelta(ctx context.Context, id string, delta models.ProgressDelta) (*models.Account, error)

	// TopByExperience returns up to limit accounts ordered by experience,
	// highest first.
	TopByExperience(ctx context.Context, limit int) ([]*models.Account, error)

	// ListGuilds aggregates non-empty guild names with their member counts.
	ListGuilds(ctx context.Context) ([]*models.GuildSummary, error)
}

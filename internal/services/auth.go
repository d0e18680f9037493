package services

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"ouk-server-go/internal/auth"
	"ouk-server-go/internal/models"
	"ouk-server-go/internal/repositories"
)

var (
	// ErrInvalidCredentials covers both an unknown identity and a wrong
	// password; callers must not be able to tell the two apart.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// AuthService handles registration and login
type AuthService struct {
	store      repositories.AccountStore
	tokenMaker *auth.TokenMaker
}

// NewAuthService creates a new authentication service
func NewAuthService(store repositories.AccountStore, tokenMaker *auth.TokenMaker) *AuthService {
	return &AuthService{
		store:      store,
		tokenMaker: tokenMaker,
	}
}

// Register creates a new account with progression defaults. Uniqueness is
// decided by the store's constraints, not a read-then-write check, so a
// racing duplicate registration surfaces as the matching Duplicate* error.
func (s *AuthService) Register(
	ctx context.Context,
	username string,
	email string,
	password string,
	displayName string,
) (*models.Account, error) {
	passwordHash, err := auth.HashPassword(password, nil)
	if err != nil {
		return nil, err
	}

	account := models.NewAccount(
		uuid.New().String(),
		username,
		email,
		passwordHash,
		displayName,
	)

	if err := s.store.Create(ctx, account); err != nil {
		return nil, err
	}

	return account, nil
}

// Login authenticates an account by username or email and returns a session
// token alongside the account snapshot
func (s *AuthService) Login(
	ctx context.Context,
	usernameOrEmail string,
	password string,
) (string, *models.Account, error) {
	account, err := s.store.GetByUsername(ctx, usernameOrEmail)
	if errors.Is(err, repositories.ErrAccountNotFound) {
		account, err = s.store.GetByEmail(ctx, usernameOrEmail)
	}
	if err != nil {
		if errors.Is(err, repositories.ErrAccountNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		// storage trouble is not an authentication verdict
		return "", nil, err
	}

	match, err := auth.VerifyPassword(password, account.PasswordHash)
	if err != nil || !match {
		return "", nil, ErrInvalidCredentials
	}

	if err := s.store.TouchLastLogin(ctx, account.ID); err != nil &&
		!errors.Is(err, repositories.ErrAccountNotFound) {
		return "", nil, err
	}

	// re-read so the returned snapshot carries the login timestamp just set
	account, err = s.store.GetByID(ctx, account.ID)
	if err != nil {
		return "", nil, err
	}

	token, err := s.tokenMaker.CreateToken(account.ID, account.Email)
	if err != nil {
		return "", nil, err
	}

	return token, account, nil
}

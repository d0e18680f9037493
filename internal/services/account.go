package services

import (
	"context"

	"ouk-server-go/internal/models"
	"ouk-server-go/internal/repositories"
)

// AccountService handles profile retrieval and updates
type AccountService struct {
	store repositories.AccountStore
}

// NewAccountService creates a new account service
func NewAccountService(store repositories.AccountStore) *AccountService {
	return &AccountService{store: store}
}

// GetProfile returns the account snapshot for an id
func (s *AccountService) GetProfile(ctx context.Context, accountID string) (*models.Account, error) {
	return s.store.GetByID(ctx, accountID)
}

// UpdateProfile changes only the allow-listed display fields. Identity,
// credentials and progression state are not reachable from here regardless
// of what the caller submits.
func (s *AccountService) UpdateProfile(
	ctx context.Context,
	accountID string,
	update repositories.ProfileUpdate,
) (*models.Account, error) {
	return s.store.UpdateProfile(ctx, accountID, update)
}

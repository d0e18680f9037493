package services

import (
	"context"
	"errors"

	"ouk-server-go/internal/models"
	"ouk-server-go/internal/repositories"
)

// ErrInvalidOutcome rejects a malformed or adversarial result submission
// before any state changes.
var ErrInvalidOutcome = errors.New("invalid game result")

// LedgerService owns the progression rules: how counters, experience,
// currency and levels move after a finished game.
type LedgerService struct {
	store repositories.AccountStore
}

// NewLedgerService creates a new progression ledger
func NewLedgerService(store repositories.AccountStore) *LedgerService {
	return &LedgerService{store: store}
}

// ApplyResult records one finished game and returns the updated account.
//
// Exactly one of the win/loss/draw counters is incremented; experience is
// granted per outcome; earned currency is added with a zero floor. A win at
// the player's current campaign level advances the level by one (capped at
// MaxLevel) and raises the highest level reached to at least the level just
// played.
//
// Submissions carry no client-side result id, so a retried submission counts
// as a second game. Known limitation.
func (s *LedgerService) ApplyResult(
	ctx context.Context,
	accountID string,
	result models.GameResult,
) (*models.Account, error) {
	delta, err := buildDelta(result)
	if err != nil {
		return nil, err
	}

	return s.store.ApplyDelta(ctx, accountID, delta)
}

// buildDelta validates the submission and turns the reward policy into a
// storage-agnostic delta.
func buildDelta(result models.GameResult) (models.ProgressDelta, error) {
	if !result.Outcome.Valid() {
		return models.ProgressDelta{}, ErrInvalidOutcome
	}
	if result.CoinsEarned < 0 || result.DiamondsEarned < 0 {
		return models.ProgressDelta{}, ErrInvalidOutcome
	}
	if result.LevelPlayed < 1 || result.LevelPlayed > models.MaxLevel {
		return models.ProgressDelta{}, ErrInvalidOutcome
	}

	delta := models.ProgressDelta{
		Coins:    result.CoinsEarned,
		Diamonds: result.DiamondsEarned,
	}

	switch result.Outcome {
	case models.OutcomeWin:
		delta.Wins = 1
		delta.Experience = models.ExperiencePerWin
		delta.LevelUpFrom = result.LevelPlayed
		delta.HighestLevelFloor = result.LevelPlayed
	case models.OutcomeLoss:
		delta.Losses = 1
		delta.Experience = models.ExperiencePerLoss
	case models.OutcomeDraw:
		delta.Draws = 1
		delta.Experience = models.ExperiencePerDraw
	}

	return delta, nil
}

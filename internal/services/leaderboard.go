package services

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"ouk-server-go/internal/models"
	"ouk-server-go/internal/repositories"
)

const leaderboardKey = "leaderboard:experience"

// LeaderboardEntry is one row of the experience leaderboard
type LeaderboardEntry struct {
	AccountID        string `json:"account_id"`
	Username         string `json:"username"`
	DisplayName      string `json:"display_name"`
	ExperiencePoints int    `json:"experience_points"`
	Rank             int64  `json:"rank"`
}

// LeaderboardService serves the experience leaderboard and the guild listing.
// Redis is a best-effort cache over the account store: scores are written
// after each ledger apply, and reads fall back to the store when redis is
// absent or unreachable. The store stays the source of truth.
type LeaderboardService struct {
	store  repositories.AccountStore
	client *redis.Client
	logger *zap.Logger
}

// NewLeaderboardService creates a leaderboard service. client may be nil when
// no redis is configured.
func NewLeaderboardService(store repositories.AccountStore, client *redis.Client, logger *zap.Logger) *LeaderboardService {
	return &LeaderboardService{store: store, client: client, logger: logger}
}

// RecordExperience publishes an account's experience total to the board.
// Failures are logged, not surfaced: the game result is already persisted.
func (s *LeaderboardService) RecordExperience(ctx context.Context, accountID string, experiencePoints int) {
	if s.client == nil {
		return
	}
	err := s.client.ZAdd(ctx, leaderboardKey, redis.Z{
		Score:  float64(experiencePoints),
		Member: accountID,
	}).Err()
	if err != nil {
		s.logger.Warn("leaderboard update failed",
			zap.String("account_id", accountID),
			zap.Error(err),
		)
	}
}

// Top returns up to limit entries ordered by experience, highest first
func (s *LeaderboardService) Top(ctx context.Context, limit int) ([]*LeaderboardEntry, error) {
	if limit <= 0 {
		limit = 10
	}

	if s.client != nil {
		entries, err := s.topFromRedis(ctx, limit)
		if err == nil {
			return entries, nil
		}
		s.logger.Warn("leaderboard read from redis failed, falling back to store", zap.Error(err))
	}

	return s.topFromStore(ctx, limit)
}

// Guilds lists guild names with member counts
func (s *LeaderboardService) Guilds(ctx context.Context) ([]*models.GuildSummary, error) {
	return s.store.ListGuilds(ctx)
}

func (s *LeaderboardService) topFromRedis(ctx context.Context, limit int) ([]*LeaderboardEntry, error) {
	members, err := s.client.ZRevRangeWithScores(ctx, leaderboardKey, 0, int64(limit)-1).Result()
	if err != nil {
		return nil, err
	}
	if len(members) == 0 {
		return nil, errors.New("leaderboard cache empty")
	}

	entries := make([]*LeaderboardEntry, 0, len(members))
	for i, member := range members {
		accountID, _ := member.Member.(string)
		account, err := s.store.GetByID(ctx, accountID)
		if err != nil {
			if errors.Is(err, repositories.ErrAccountNotFound) {
				// stale member; drop it from the board
				_ = s.client.ZRem(ctx, leaderboardKey, accountID).Err()
				continue
			}
			return nil, err
		}
		entries = append(entries, &LeaderboardEntry{
			AccountID:        account.ID,
			Username:         account.Username,
			DisplayName:      account.DisplayName,
			ExperiencePoints: account.ExperiencePoints,
			Rank:             int64(i) + 1,
		})
	}
	return entries, nil
}

func (s *LeaderboardService) topFromStore(ctx context.Context, limit int) ([]*LeaderboardEntry, error) {
	accounts, err := s.store.TopByExperience(ctx, limit)
	if err != nil {
		return nil, err
	}

	entries := make([]*LeaderboardEntry, 0, len(accounts))
	for i, account := range accounts {
		entries = append(entries, &LeaderboardEntry{
			AccountID:        account.ID,
			Username:         account.Username,
			DisplayName:      account.DisplayName,
			ExperiencePoints: account.ExperiencePoints,
			Rank:             int64(i) + 1,
		})
	}
	return entries, nil
}

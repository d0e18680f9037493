package models

import (
	"time"
)

// Progression constants for Ouk Chaktrang campaign play.
const (
	MaxLevel         = 50
	StartingCoins    = 1000
	StartingDiamonds = 10
)

// Account represents a player account and its progression state
type Account struct {
	ID           string `json:"id" db:"id"`
	Username     string `json:"username" db:"username"`
	Email        string `json:"email" db:"email"`
	PasswordHash string `json:"-" db:"password_hash"`
	DisplayName  string `json:"display_name" db:"display_name"`

	// Profile
	AvatarURL string `json:"avatar_url" db:"avatar_url"`
	Country   string `json:"country" db:"country"`
	GuildName string `json:"guild_name" db:"guild_name"`

	// Currency
	Coins    int `json:"coins" db:"coins"`
	Diamonds int `json:"diamonds" db:"diamonds"`

	// Campaign progression
	CurrentLevel     int `json:"current_level" db:"current_level"`
	HighestLevel     int `json:"highest_level" db:"highest_level"`
	ExperiencePoints int `json:"experience_points" db:"experience_points"`

	// Match counters
	TotalWins   int `json:"total_wins" db:"total_wins"`
	TotalLosses int `json:"total_losses" db:"total_losses"`
	TotalDraws  int `json:"total_draws" db:"total_draws"`

	// Timestamps
	LastLoginAt *time.Time `json:"last_login_at" db:"last_login_at"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`
}

// NewAccount creates a new account with registration defaults
func NewAccount(id, username, email, passwordHash, displayName string) *Account {
	if displayName == "" {
		displayName = username
	}
	now := time.Now()
	return &Account{
		ID:           id,
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		DisplayName:  displayName,
		Coins:        StartingCoins,
		Diamonds:     StartingDiamonds,
		CurrentLevel: 1,
		HighestLevel: 1,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// GuildSummary is one row of the guild listing
type GuildSummary struct {
	Name        string `json:"name" db:"name"`
	MemberCount int    `json:"member_count" db:"member_count"`
}

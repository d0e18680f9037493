package repositories

import (
	"context"
	"sort"
	"sync"
	"time"

	"ouk-server-go/internal/models"
)

// MemoryAccountStore is an in-memory implementation of AccountStore. It backs
// the server when no database is configured and the service test suites.
type MemoryAccountStore struct {
	mu sync.RWMutex

	accounts      map[string]*models.Account
	usernameIndex map[string]string
	emailIndex    map[string]string
}

// NewMemoryAccountStore creates an empty in-memory account store
func NewMemoryAccountStore() *MemoryAccountStore {
	return &MemoryAccountStore{
		accounts:      make(map[string]*models.Account),
		usernameIndex: make(map[string]string),
		emailIndex:    make(map[string]string),
	}
}

// Ensure MemoryAccountStore implements the interface
var _ AccountStore = (*MemoryAccountStore)(nil)

func (s *MemoryAccountStore) Create(ctx context.Context, account *models.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.usernameIndex[account.Username]; exists {
		return ErrDuplicateUsername
	}
	if _, exists := s.emailIndex[account.Email]; exists {
		return ErrDuplicateEmail
	}

	stored := *account
	s.accounts[account.ID] = &stored
	s.usernameIndex[account.Username] = account.ID
	s.emailIndex[account.Email] = account.ID
	return nil
}

func (s *MemoryAccountStore) GetByID(ctx context.Context, id string) (*models.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot(id)
}

func (s *MemoryAccountStore) GetByUsername(ctx context.Context, username string) (*models.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.usernameIndex[username]
	if !ok {
		return nil, ErrAccountNotFound
	}
	return s.snapshot(id)
}

func (s *MemoryAccountStore) GetByEmail(ctx context.Context, email string) (*models.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.emailIndex[email]
	if !ok {
		return nil, ErrAccountNotFound
	}
	return s.snapshot(id)
}

func (s *MemoryAccountStore) UpdateProfile(ctx context.Context, id string, update ProfileUpdate) (*models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	account, ok := s.accounts[id]
	if !ok {
		return nil, ErrAccountNotFound
	}

	if update.DisplayName != nil {
		account.DisplayName = *update.DisplayName
	}
	if update.AvatarURL != nil {
		account.AvatarURL = *update.AvatarURL
	}
	if update.Country != nil {
		account.Country = *update.Country
	}
	if update.GuildName != nil {
		account.GuildName = *update.GuildName
	}
	account.UpdatedAt = time.Now()

	snap := *account
	return &snap, nil
}

func (s *MemoryAccountStore) TouchLastLogin(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	account, ok := s.accounts[id]
	if !ok {
		return ErrAccountNotFound
	}
	now := time.Now()
	account.LastLoginAt = &now
	account.UpdatedAt = now
	return nil
}

// ApplyDelta mirrors the SQL store's single-statement semantics: the whole
// delta lands under one lock hold, against the current record state.
func (s *MemoryAccountStore) ApplyDelta(ctx context.Context, id string, delta models.ProgressDelta) (*models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	account, ok := s.accounts[id]
	if !ok {
		return nil, ErrAccountNotFound
	}

	account.TotalWins += delta.Wins
	account.TotalLosses += delta.Losses
	account.TotalDraws += delta.Draws
	account.ExperiencePoints += delta.Experience

	account.Coins += delta.Coins
	if account.Coins < 0 {
		account.Coins = 0
	}
	account.Diamonds += delta.Diamonds
	if account.Diamonds < 0 {
		account.Diamonds = 0
	}

	if delta.LevelUpFrom > 0 &&
		account.CurrentLevel == delta.LevelUpFrom &&
		account.CurrentLevel < models.MaxLevel {
		account.CurrentLevel++
	}
	if delta.HighestLevelFloor > account.HighestLevel {
		account.HighestLevel = delta.HighestLevelFloor
	}
	// highest_level >= current_level must survive a level-up
	if account.CurrentLevel > account.HighestLevel {
		account.HighestLevel = account.CurrentLevel
	}
	account.UpdatedAt = time.Now()

	snap := *account
	return &snap, nil
}

func (s *MemoryAccountStore) TopByExperience(ctx context.Context, limit int) ([]*models.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	accounts := make([]*models.Account, 0, len(s.accounts))
	for _, account := range s.accounts {
		snap := *account
		accounts = append(accounts, &snap)
	}

	sort.Slice(accounts, func(i, j int) bool {
		if accounts[i].ExperiencePoints != accounts[j].ExperiencePoints {
			return accounts[i].ExperiencePoints > accounts[j].ExperiencePoints
		}
		if accounts[i].TotalWins != accounts[j].TotalWins {
			return accounts[i].TotalWins > accounts[j].TotalWins
		}
		return accounts[i].Username < accounts[j].Username
	})

	if limit > 0 && limit < len(accounts) {
		accounts = accounts[:limit]
	}
	return accounts, nil
}

func (s *MemoryAccountStore) ListGuilds(ctx context.Context) ([]*models.GuildSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	counts := make(map[string]int)
	for _, account := range s.accounts {
		if account.GuildName != "" {
			counts[account.GuildName]++
		}
	}

	guilds := make([]*models.GuildSummary, 0, len(counts))
	for name, count := range counts {
		guilds = append(guilds, &models.GuildSummary{Name: name, MemberCount: count})
	}
	sort.Slice(guilds, func(i, j int) bool {
		if guilds[i].MemberCount != guilds[j].MemberCount {
			return guilds[i].MemberCount > guilds[j].MemberCount
		}
		return guilds[i].Name < guilds[j].Name
	})
	return guilds, nil
}

// snapshot copies the record so callers never alias internal state.
// Callers must hold at least the read lock.
func (s *MemoryAccountStore) snapshot(id string) (*models.Account, error) {
	account, ok := s.accounts[id]
	if !ok {
		return nil, ErrAccountNotFound
	}
	snap := *account
	return &snap, nil
}

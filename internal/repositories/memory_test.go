package repositories

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ouk-server-go/internal/models"
)

func newTestAccount(id, username, email string) *models.Account {
	return models.NewAccount(id, username, email, "hash", "")
}

func TestMemoryStore_CreateAndLookup(t *testing.T) {
	store := NewMemoryAccountStore()
	ctx := context.Background()

	require.NoError(t, store.Create(ctx, newTestAccount("a1", "sokha", "sokha@example.com")))

	byID, err := store.GetByID(ctx, "a1")
	require.NoError(t, err)
	assert.Equal(t, "sokha", byID.Username)

	byName, err := store.GetByUsername(ctx, "sokha")
	require.NoError(t, err)
	assert.Equal(t, "a1", byName.ID)

	byEmail, err := store.GetByEmail(ctx, "sokha@example.com")
	require.NoError(t, err)
	assert.Equal(t, "a1", byEmail.ID)

	_, err = store.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, ErrAccountNotFound)
}

func TestMemoryStore_DuplicateDetection(t *testing.T) {
	store := NewMemoryAccountStore()
	ctx := context.Background()

	require.NoError(t, store.Create(ctx, newTestAccount("a1", "sokha", "sokha@example.com")))

	err := store.Create(ctx, newTestAccount("a2", "sokha", "other@example.com"))
	assert.ErrorIs(t, err, ErrDuplicateUsername)

	err = store.Create(ctx, newTestAccount("a3", "veasna", "sokha@example.com"))
	assert.ErrorIs(t, err, ErrDuplicateEmail)
}

func TestMemoryStore_UpdateProfileAllowList(t *testing.T) {
	store := NewMemoryAccountStore()
	ctx := context.Background()
	require.NoError(t, store.Create(ctx, newTestAccount("a1", "sokha", "sokha@example.com")))

	name := "Sokha the Swift"
	guild := "Angkor"
	updated, err := store.UpdateProfile(ctx, "a1", ProfileUpdate{DisplayName: &name, GuildName: &guild})
	require.NoError(t, err)

	assert.Equal(t, "Sokha the Swift", updated.DisplayName)
	assert.Equal(t, "Angkor", updated.GuildName)
	// identity is untouched
	assert.Equal(t, "sokha", updated.Username)
	assert.Equal(t, "sokha@example.com", updated.Email)

	_, err = store.UpdateProfile(ctx, "missing", ProfileUpdate{DisplayName: &name})
	assert.ErrorIs(t, err, ErrAccountNotFound)
}

func TestMemoryStore_ApplyDeltaClampsAndGates(t *testing.T) {
	store := NewMemoryAccountStore()
	ctx := context.Background()
	require.NoError(t, store.Create(ctx, newTestAccount("a1", "sokha", "sokha@example.com")))

	// spend more coins than held: floor at zero
	updated, err := store.ApplyDelta(ctx, "a1", models.ProgressDelta{Coins: -(models.StartingCoins + 500)})
	require.NoError(t, err)
	assert.Equal(t, 0, updated.Coins)

	// level-up only fires when the stored level matches
	updated, err = store.ApplyDelta(ctx, "a1", models.ProgressDelta{Wins: 1, LevelUpFrom: 5})
	require.NoError(t, err)
	assert.Equal(t, 1, updated.CurrentLevel)

	updated, err = store.ApplyDelta(ctx, "a1", models.ProgressDelta{Wins: 1, LevelUpFrom: 1, HighestLevelFloor: 1})
	require.NoError(t, err)
	assert.Equal(t, 2, updated.CurrentLevel)
	assert.Equal(t, 2, updated.HighestLevel, "highest level must follow a level-up")
	assert.Equal(t, 2, updated.TotalWins)
}

func TestMemoryStore_ApplyDeltaConcurrentSubmissions(t *testing.T) {
	store := NewMemoryAccountStore()
	ctx := context.Background()
	require.NoError(t, store.Create(ctx, newTestAccount("a1", "sokha", "sokha@example.com")))

	const n = 50
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			_, err := store.ApplyDelta(ctx, "a1", models.ProgressDelta{
				Wins:       1,
				Experience: models.ExperiencePerWin,
				Coins:      10,
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	account, err := store.GetByID(ctx, "a1")
	require.NoError(t, err)
	assert.Equal(t, n, account.TotalWins)
	assert.Equal(t, n*models.ExperiencePerWin, account.ExperiencePoints)
	assert.Equal(t, models.StartingCoins+n*10, account.Coins)
}

func TestMemoryStore_TopByExperienceOrdering(t *testing.T) {
	store := NewMemoryAccountStore()
	ctx := context.Background()

	for _, tc := range []struct {
		id, username string
		xp           int
	}{
		{"a1", "sokha", 300},
		{"a2", "veasna", 700},
		{"a3", "dara", 500},
	} {
		acc := newTestAccount(tc.id, tc.username, tc.username+"@example.com")
		acc.ExperiencePoints = tc.xp
		require.NoError(t, store.Create(ctx, acc))
	}

	top, err := store.TopByExperience(ctx, 2)
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, "veasna", top[0].Username)
	assert.Equal(t, "dara", top[1].Username)
}

func TestMemoryStore_ListGuilds(t *testing.T) {
	store := NewMemoryAccountStore()
	ctx := context.Background()

	for i, guild := range []string{"Angkor", "Angkor", "Bayon", ""} {
		acc := newTestAccount(
			string(rune('a'+i))+"1",
			"player"+string(rune('a'+i)),
			"player"+string(rune('a'+i))+"@example.com",
		)
		acc.GuildName = guild
		require.NoError(t, store.Create(ctx, acc))
	}

	guilds, err := store.ListGuilds(ctx)
	require.NoError(t, err)
	require.Len(t, guilds, 2)
	assert.Equal(t, "Angkor", guilds[0].Name)
	assert.Equal(t, 2, guilds[0].MemberCount)
	assert.Equal(t, "Bayon", guilds[1].Name)
	assert.Equal(t, 1, guilds[1].MemberCount)
}

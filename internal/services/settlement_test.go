package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rewards-platform-backend/internal/config"
	"rewards-platform-backend/internal/models"
	"rewards-platform-backend/internal/store"
)

type fakeCooldown struct {
	mu     sync.Mutex
	active map[string]bool
	marks  int
}

func newFakeCooldown() *fakeCooldown {
	return &fakeCooldown{active: make(map[string]bool)}
}

func (f *fakeCooldown) CooldownActive(ctx context.Context, accountID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.active[accountID], nil
}

func (f *fakeCooldown) MarkCooldown(ctx context.Context, accountID string, d time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.active[accountID] = true
	f.marks++
	return nil
}

type captureNotifier struct {
	mu     sync.Mutex
	events []models.BalanceEvent
}

func (n *captureNotifier) NotifyBalanceChange(event models.BalanceEvent) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, event)
}

func (n *captureNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.events)
}

func testConfig() *config.Config {
	return &config.Config{
		MinBet:              10,
		MaxBet:              500,
		DailyLimit:          1000,
		BetCooldown:         5 * time.Second,
		PointsPerDollar:     100,
		RedemptionThreshold: 1000,
	}
}

func newTestEngine(t *testing.T, st store.Store, cooldown CooldownStore, notifier Notifier) *GameEngine {
	t.Helper()
	engine, err := NewGameEngine(st, cooldown, notifier, testConfig())
	require.NoError(t, err)
	return engine
}

func TestPlaySettlesAndNotifies(t *testing.T) {
	st := store.NewMemoryStore()
	cooldown := newFakeCooldown()
	notifier := &captureNotifier{}
	engine := newTestEngine(t, st, cooldown, notifier)
	ctx := context.Background()

	_, err := st.ApplyEntry(ctx, "user1", models.EntryKindEarn, 1000, "seed")
	require.NoError(t, err)

	result, err := engine.Play(ctx, "user1", &models.BetRequest{
		Variant: models.GameVariantDice,
		Stake:   50,
		Guess:   3,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, result.RoundID)
	assert.Equal(t, models.GameVariantDice, result.Variant)

	balance, err := st.GetBalance(ctx, "user1")
	require.NoError(t, err)
	assert.Equal(t, balance, result.NewBalance)

	assert.Equal(t, 1, cooldown.marks, "cooldown marked after settlement")
	assert.GreaterOrEqual(t, notifier.count(), 1, "at least the debit event is emitted")

	rounds, err := engine.History(ctx, "user1", 10)
	require.NoError(t, err)
	assert.Len(t, rounds, 1)
}

func TestPlayRejectsOutOfRangeStake(t *testing.T) {
	engine := newTestEngine(t, store.NewMemoryStore(), newFakeCooldown(), &captureNotifier{})
	ctx := context.Background()

	_, err := engine.Play(ctx, "user1", &models.BetRequest{Variant: models.GameVariantDice, Stake: 5, Guess: 3})
	assert.ErrorIs(t, err, ErrInvalidBet)

	_, err = engine.Play(ctx, "user1", &models.BetRequest{Variant: models.GameVariantDice, Stake: 501, Guess: 3})
	assert.ErrorIs(t, err, ErrInvalidBet)
}

func TestPlayRejectsUnknownVariant(t *testing.T) {
	engine := newTestEngine(t, store.NewMemoryStore(), newFakeCooldown(), &captureNotifier{})

	_, err := engine.Play(context.Background(), "user1", &models.BetRequest{Variant: "baccarat", Stake: 50})
	assert.ErrorIs(t, err, ErrInvalidBet)
}

func TestPlayEnforcesCooldown(t *testing.T) {
	st := store.NewMemoryStore()
	cooldown := newFakeCooldown()
	notifier := &captureNotifier{}
	engine := newTestEngine(t, st, cooldown, notifier)
	ctx := context.Background()

	_, err := st.ApplyEntry(ctx, "user1", models.EntryKindEarn, 1000, "seed")
	require.NoError(t, err)

	_, err = engine.Play(ctx, "user1", &models.BetRequest{Variant: models.GameVariantDice, Stake: 50, Guess: 3})
	require.NoError(t, err)

	_, err = engine.Play(ctx, "user1", &models.BetRequest{Variant: models.GameVariantDice, Stake: 50, Guess: 3})
	assert.ErrorIs(t, err, ErrCooldownActive)
}

func TestPlayRejectsRestrictedAccount(t *testing.T) {
	st := store.NewMemoryStore()
	engine := newTestEngine(t, st, newFakeCooldown(), &captureNotifier{})
	ctx := context.Background()

	_, err := st.EnsureAccount(ctx, "user1")
	require.NoError(t, err)
	require.NoError(t, st.SetAccountStatus(ctx, "user1", models.AccountStatusBanned))

	_, err = engine.Play(ctx, "user1", &models.BetRequest{Variant: models.GameVariantDice, Stake: 50, Guess: 3})
	assert.ErrorIs(t, err, ErrAccountRestricted)
}

func TestPlayInsufficientBalance(t *testing.T) {
	st := store.NewMemoryStore()
	engine := newTestEngine(t, st, newFakeCooldown(), &captureNotifier{})
	ctx := context.Background()

	_, err := st.ApplyEntry(ctx, "user1", models.EntryKindEarn, 20, "seed")
	require.NoError(t, err)

	_, err = engine.Play(ctx, "user1", &models.BetRequest{Variant: models.GameVariantDice, Stake: 50, Guess: 3})
	assert.ErrorIs(t, err, store.ErrInsufficientBalance)
}

func TestDailyLimitReflectsPlay(t *testing.T) {
	st := store.NewMemoryStore()
	engine := newTestEngine(t, st, newFakeCooldown(), &captureNotifier{})
	ctx := context.Background()

	_, err := st.ApplyEntry(ctx, "user1", models.EntryKindEarn, 1000, "seed")
	require.NoError(t, err)

	_, err = engine.Play(ctx, "user1", &models.BetRequest{Variant: models.GameVariantSlots, Stake: 50})
	require.NoError(t, err)

	dl, err := engine.DailyLimit(ctx, "user1")
	require.NoError(t, err)
	assert.Equal(t, 1, dl.GamesPlayed)
}

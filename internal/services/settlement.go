package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	mrand "math/rand/v2"
	"sync"
	"time"

	"rewards-platform-backend/internal/config"
	"rewards-platform-backend/internal/models"
	"rewards-platform-backend/internal/store"
)

var (
	ErrInvalidBet        = errors.New("invalid bet")
	ErrAccountRestricted = errors.New("account is not active")
	ErrCooldownActive    = errors.New("cooldown active, slow down")
)

// CooldownStore tracks the per-account gap between resolved rounds.
type CooldownStore interface {
	CooldownActive(ctx context.Context, accountID string) (bool, error)
	MarkCooldown(ctx context.Context, accountID string, d time.Duration) error
}

// GameEngine validates bets, resolves them against the round source and
// settles them through the ledger store. All validation happens before the
// atomic mutation; the random draw is spent before the transaction opens.
type GameEngine struct {
	store    store.Store
	cooldown CooldownStore
	notifier Notifier
	cfg      *config.Config

	mu  sync.Mutex
	rng *mrand.Rand
}

func NewGameEngine(st store.Store, cooldown CooldownStore, notifier Notifier, cfg *config.Config) (*GameEngine, error) {
	rng, err := NewRoundSource()
	if err != nil {
		return nil, err
	}
	return &GameEngine{
		store:    st,
		cooldown: cooldown,
		notifier: notifier,
		cfg:      cfg,
		rng:      rng,
	}, nil
}

func (ge *GameEngine) resolve(req *models.BetRequest) (*models.Outcome, error) {
	resolve, ok := resolvers[req.Variant]
	if !ok {
		return nil, fmt.Errorf("%w: unknown game variant %q", ErrInvalidBet, req.Variant)
	}

	// The shared source is not safe for concurrent draws.
	ge.mu.Lock()
	defer ge.mu.Unlock()
	return resolve(req, ge.rng)
}

func (ge *GameEngine) Play(ctx context.Context, accountID string, req *models.BetRequest) (*models.GameResult, error) {
	acc, err := ge.store.EnsureAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if acc.Status != models.AccountStatusActive {
		return nil, ErrAccountRestricted
	}

	if err := req.Validate(ge.cfg.MinBet, ge.cfg.MaxBet); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBet, err)
	}

	active, err := ge.cooldown.CooldownActive(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("cooldown check failed: %w", err)
	}
	if active {
		return nil, ErrCooldownActive
	}

	outcome, err := ge.resolve(req)
	if err != nil {
		return nil, err
	}

	round := &models.GameRound{
		ID:         models.GenerateRoundID(),
		AccountID:  accountID,
		Variant:    req.Variant,
		Stake:      req.Stake,
		Result:     outcome.Result,
		Multiplier: outcome.Payout / req.Stake,
		Payout:     outcome.Payout,
		Detail:     outcome.Detail,
		PlayedAt:   time.Now().UTC(),
	}

	newBalance, err := ge.store.SettleRound(ctx, round, ge.cfg.DailyLimit)
	if err != nil {
		return nil, err
	}

	// Post-commit effects only; a failure here never unwinds the round.
	if err := ge.cooldown.MarkCooldown(ctx, accountID, ge.cfg.BetCooldown); err != nil {
		log.Printf("failed to mark cooldown for %s: %v", accountID, err)
	}

	ge.notifier.NotifyBalanceChange(models.BalanceEvent{
		AccountID:        accountID,
		Kind:             models.EntryKindBetDebit,
		Amount:           -round.Stake,
		ResultingBalance: newBalance - round.Payout,
		OccurredAt:       round.PlayedAt,
	})
	if round.Payout > 0 {
		ge.notifier.NotifyBalanceChange(models.BalanceEvent{
			AccountID:        accountID,
			Kind:             models.EntryKindBetCredit,
			Amount:           round.Payout,
			ResultingBalance: newBalance,
			OccurredAt:       round.PlayedAt,
		})
	}

	return &models.GameResult{
		RoundID:    round.ID,
		Variant:    round.Variant,
		Result:     round.Result,
		Stake:      round.Stake,
		Multiplier: round.Multiplier,
		Payout:     round.Payout,
		NewBalance: newBalance,
		Detail:     round.Detail,
	}, nil
}

func (ge *GameEngine) History(ctx context.Context, accountID string, limit int) ([]models.GameRound, error) {
	return ge.store.RecentRounds(ctx, accountID, limit)
}

func (ge *GameEngine) DailyLimit(ctx context.Context, accountID string) (*models.DailyLimit, error) {
	return ge.store.GetDailyLimit(ctx, accountID, time.Now().UTC())
}

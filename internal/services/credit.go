package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"rewards-platform-backend/internal/models"
	"rewards-platform-backend/internal/store"
)

var ErrInvalidEarnEvent = errors.New("invalid earn event")

// EarnEvent is the postback payload the ad network delivers when a user
// completes an offer. OfferID is the network's transaction identifier and
// doubles as the idempotency key.
type EarnEvent struct {
	UID     string `json:"uid" binding:"required"`
	Points  int64  `json:"points" binding:"required"`
	OfferID string `json:"offer_id" binding:"required"`
}

// CreditService turns external reward events into ledger entries. Replays of
// the same offer are absorbed by the ledger's reference uniqueness, so the
// network can retry postbacks freely.
type CreditService struct {
	store    store.Store
	notifier Notifier
}

func NewCreditService(st store.Store, notifier Notifier) *CreditService {
	return &CreditService{store: st, notifier: notifier}
}

// ProcessEarn credits the event's points to the account and returns the
// balance after the credit. Calling it again with the same offer ID returns
// the balance recorded by the first application.
func (cs *CreditService) ProcessEarn(ctx context.Context, event *EarnEvent) (int64, error) {
	if event.UID == "" || event.OfferID == "" {
		return 0, fmt.Errorf("%w: missing uid or offer_id", ErrInvalidEarnEvent)
	}
	if event.Points <= 0 {
		return 0, fmt.Errorf("%w: points must be positive, got %d", ErrInvalidEarnEvent, event.Points)
	}

	balance, err := cs.store.ApplyEntry(ctx, event.UID, models.EntryKindEarn, event.Points, event.OfferID)
	if err != nil {
		return 0, err
	}

	cs.notifier.NotifyBalanceChange(models.BalanceEvent{
		AccountID:        event.UID,
		Kind:             models.EntryKindEarn,
		Amount:           event.Points,
		ResultingBalance: balance,
		OccurredAt:       time.Now().UTC(),
	})
	return balance, nil
}

// Adjust applies a manual correction signed by an operator. Amount may be
// negative; the ledger still refuses to take the balance below zero.
func (cs *CreditService) Adjust(ctx context.Context, accountID string, amount int64, adminID, reason string) (int64, error) {
	if amount == 0 {
		return 0, fmt.Errorf("%w: adjustment amount must be non-zero", ErrInvalidEarnEvent)
	}
	ref := fmt.Sprintf("%s:%s:%s", models.GenerateTransactionID(), adminID, reason)
	balance, err := cs.store.ApplyEntry(ctx, accountID, models.EntryKindAdminAdjustment, amount, ref)
	if err != nil {
		return 0, err
	}
	cs.notifier.NotifyBalanceChange(models.BalanceEvent{
		AccountID:        accountID,
		Kind:             models.EntryKindAdminAdjustment,
		Amount:           amount,
		ResultingBalance: balance,
		OccurredAt:       time.Now().UTC(),
	})
	return balance, nil
}

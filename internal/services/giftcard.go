package services

import (
	"context"
	"time"

	"rewards-platform-backend/internal/config"
	"rewards-platform-backend/internal/models"
	"rewards-platform-backend/internal/store"
)

// GiftCardService exchanges points for inventory. The store guarantees each
// card is claimed exactly once; this layer only chooses between a specific
// code and the next available card.
type GiftCardService struct {
	store    store.Store
	notifier Notifier
	cfg      *config.Config
}

func NewGiftCardService(st store.Store, notifier Notifier, cfg *config.Config) *GiftCardService {
	return &GiftCardService{store: st, notifier: notifier, cfg: cfg}
}

// Claim redeems a card for the account. With an empty code the oldest
// available card is taken instead.
func (gs *GiftCardService) Claim(ctx context.Context, accountID, code string) (*models.GiftCard, int64, error) {
	if _, err := gs.store.EnsureAccount(ctx, accountID); err != nil {
		return nil, 0, err
	}

	var (
		card    *models.GiftCard
		balance int64
		err     error
	)
	if code == "" {
		card, balance, err = gs.store.ClaimNextGiftCard(ctx, accountID)
	} else {
		card, balance, err = gs.store.ClaimGiftCard(ctx, code, accountID)
	}
	if err != nil {
		return nil, 0, err
	}

	gs.notifier.NotifyBalanceChange(models.BalanceEvent{
		AccountID:        accountID,
		Kind:             models.EntryKindGiftCardDebit,
		Amount:           -card.PointCost,
		ResultingBalance: balance,
		OccurredAt:       time.Now().UTC(),
	})
	return card, balance, nil
}

// AddInventory mints count fresh cards with generated codes.
func (gs *GiftCardService) AddInventory(ctx context.Context, req *models.AddGiftCardsRequest) ([]models.GiftCard, error) {
	currency := req.Currency
	if currency == "" {
		currency = "USD"
	}
	pointCost := req.PointCost
	if pointCost <= 0 {
		pointCost = gs.cfg.RedemptionThreshold
	}

	now := time.Now().UTC()
	cards := make([]models.GiftCard, 0, req.Count)
	for i := 0; i < req.Count; i++ {
		cards = append(cards, models.GiftCard{
			Code:      models.GenerateGiftCardCode("GC"),
			FaceValue: req.FaceValue,
			Currency:  currency,
			PointCost: pointCost,
			Status:    models.GiftCardStatusAvailable,
			CreatedAt: now,
		})
	}
	if err := gs.store.AddGiftCards(ctx, cards); err != nil {
		return nil, err
	}
	return cards, nil
}

func (gs *GiftCardService) Available(ctx context.Context) (int, error) {
	return gs.store.AvailableGiftCards(ctx)
}

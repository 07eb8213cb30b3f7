package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"rewards-platform-backend/internal/config"
	"rewards-platform-backend/internal/models"
	"rewards-platform-backend/internal/store"
)

var ErrInvalidAmount = errors.New("invalid amount")

// WalletService handles the fiat boundary: deposit requests convert cents to
// points on approval, withdrawal requests hold points until an operator
// resolves them.
type WalletService struct {
	store    store.Store
	notifier Notifier
	cfg      *config.Config
}

func NewWalletService(st store.Store, notifier Notifier, cfg *config.Config) *WalletService {
	return &WalletService{store: st, notifier: notifier, cfg: cfg}
}

// pointsForCents converts a deposit amount to points, applying the configured
// signup bonus percentage on top.
func (ws *WalletService) pointsForCents(cents int64) int64 {
	base := cents * ws.cfg.PointsPerDollar / 100
	return base + base*ws.cfg.DepositBonusPercent/100
}

func (ws *WalletService) RequestDeposit(ctx context.Context, accountID string, amountCents int64) (*models.WalletTransaction, error) {
	if amountCents <= 0 {
		return nil, fmt.Errorf("%w: deposit must be positive, got %d", ErrInvalidAmount, amountCents)
	}
	if _, err := ws.store.EnsureAccount(ctx, accountID); err != nil {
		return nil, err
	}

	wtx := &models.WalletTransaction{
		ID:           models.GenerateTransactionID(),
		AccountID:    accountID,
		Kind:         models.WalletTxKindDeposit,
		AmountCents:  amountCents,
		PointsAmount: ws.pointsForCents(amountCents),
		Status:       models.WalletTxStatusPending,
		RequestedAt:  time.Now().UTC(),
	}
	if err := ws.store.CreateWalletTransaction(ctx, wtx); err != nil {
		return nil, err
	}
	return wtx, nil
}

// RequestWithdrawal debits the points immediately as a hold. The hold comes
// back as a compensating credit only if an operator rejects the request.
func (ws *WalletService) RequestWithdrawal(ctx context.Context, accountID string, points int64) (*models.WalletTransaction, error) {
	if points <= 0 {
		return nil, fmt.Errorf("%w: withdrawal must be positive, got %d", ErrInvalidAmount, points)
	}
	if _, err := ws.store.EnsureAccount(ctx, accountID); err != nil {
		return nil, err
	}

	wtx := &models.WalletTransaction{
		ID:           models.GenerateTransactionID(),
		AccountID:    accountID,
		Kind:         models.WalletTxKindWithdrawal,
		AmountCents:  points * 100 / ws.cfg.PointsPerDollar,
		PointsAmount: points,
		Status:       models.WalletTxStatusPending,
		RequestedAt:  time.Now().UTC(),
	}
	if err := ws.store.CreateWalletTransaction(ctx, wtx); err != nil {
		return nil, err
	}

	if balance, err := ws.store.GetBalance(ctx, accountID); err == nil {
		ws.notifier.NotifyBalanceChange(models.BalanceEvent{
			AccountID:        accountID,
			Kind:             models.EntryKindWithdrawal,
			Amount:           -points,
			ResultingBalance: balance,
			OccurredAt:       wtx.RequestedAt,
		})
	}
	return wtx, nil
}

// Resolve flips a pending transaction. Approving a deposit credits its
// points; rejecting a withdrawal refunds the hold. Resolving a transaction
// that is already terminal returns the stored state without another ledger
// effect or notification.
func (ws *WalletService) Resolve(ctx context.Context, txID string, approve bool, adminID, note string) (*models.WalletTransaction, error) {
	prior, err := ws.store.GetWalletTransaction(ctx, txID)
	if err != nil {
		return nil, err
	}
	alreadyResolved := prior.Resolved()

	wtx, err := ws.store.ResolveWalletTransaction(ctx, txID, approve, adminID, note)
	if err != nil {
		return nil, err
	}
	if alreadyResolved {
		return wtx, nil
	}

	var event *models.BalanceEvent
	switch {
	case wtx.Kind == models.WalletTxKindDeposit && wtx.Status == models.WalletTxStatusApproved:
		event = &models.BalanceEvent{Kind: models.EntryKindDeposit, Amount: wtx.PointsAmount}
	case wtx.Kind == models.WalletTxKindWithdrawal && wtx.Status == models.WalletTxStatusRejected:
		event = &models.BalanceEvent{Kind: models.EntryKindWithdrawal, Amount: wtx.PointsAmount}
	}
	if event != nil {
		if balance, err := ws.store.GetBalance(ctx, wtx.AccountID); err == nil {
			event.AccountID = wtx.AccountID
			event.ResultingBalance = balance
			event.OccurredAt = time.Now().UTC()
			ws.notifier.NotifyBalanceChange(*event)
		}
	}
	return wtx, nil
}

func (ws *WalletService) Get(ctx context.Context, txID string) (*models.WalletTransaction, error) {
	return ws.store.GetWalletTransaction(ctx, txID)
}

func (ws *WalletService) History(ctx context.Context, accountID string, limit int) ([]models.WalletTransaction, error) {
	return ws.store.ListWalletTransactions(ctx, accountID, limit)
}

func (ws *WalletService) Pending(ctx context.Context, limit int) ([]models.WalletTransaction, error) {
	return ws.store.PendingWalletTransactions(ctx, limit)
}

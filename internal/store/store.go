package store

import (
	"context"
	"errors"
	"time"

	"rewards-platform-backend/internal/models"
)

var (
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrDailyLimitExceeded  = errors.New("daily casino limit reached")
	ErrAccountNotFound     = errors.New("account not found")
	ErrCardNotFound        = errors.New("gift card not found")
	ErrAlreadyClaimed      = errors.New("gift card already claimed")
	ErrInventoryExhausted  = errors.New("no gift cards available")
	ErrTransactionNotFound = errors.New("wallet transaction not found")

	// ErrTransientFailure is returned once the internal conflict-retry
	// budget is exhausted. Callers may retry the whole operation; reference
	// ids make the retry safe.
	ErrTransientFailure = errors.New("transient storage conflict")
)

// Store is the only component allowed to change a balance. Every mutation
// is atomic: the ledger entry insert and the balance update both happen or
// neither does, and (kind, reference_id) uniqueness is enforced by the
// storage layer itself, never by a check-then-insert in application code.
type Store interface {
	// ApplyEntry applies one balance-affecting entry. The account is
	// auto-provisioned with zero balance on first contact. Replaying an
	// already-committed (kind, referenceID) pair is a no-op returning the
	// originally recorded balance, not an error.
	ApplyEntry(ctx context.Context, accountID string, kind models.EntryKind, amount int64, referenceID string) (int64, error)

	// SettleRound commits a resolved game round: bet_debit of the stake,
	// bet_credit of any payout (same round reference), the daily-limit
	// counter update, and the round audit record, all in one atomic unit.
	// The projected daily net is checked against dailyCap inside the same
	// unit; a breach rejects the round with ErrDailyLimitExceeded.
	SettleRound(ctx context.Context, round *models.GameRound, dailyCap int64) (int64, error)

	GetAccount(ctx context.Context, accountID string) (*models.Account, error)
	EnsureAccount(ctx context.Context, accountID string) (*models.Account, error)
	SetAccountStatus(ctx context.Context, accountID string, status models.AccountStatus) error
	GetBalance(ctx context.Context, accountID string) (int64, error)
	GetEntries(ctx context.Context, accountID string, limit int) ([]models.LedgerEntry, error)
	GetDailyLimit(ctx context.Context, accountID string, day time.Time) (*models.DailyLimit, error)
	RecentRounds(ctx context.Context, accountID string, limit int) ([]models.GameRound, error)

	// CreateWalletTransaction inserts a pending transaction. For
	// withdrawals the point amount is debited as a hold in the same atomic
	// unit; ErrInsufficientBalance leaves no trace of the request.
	CreateWalletTransaction(ctx context.Context, wtx *models.WalletTransaction) error

	// ResolveWalletTransaction flips pending to approved/rejected together
	// with any ledger effect (deposit credit on approval, hold refund on
	// withdrawal rejection). Resolving an already-terminal transaction is a
	// no-op that returns the stored terminal state.
	ResolveWalletTransaction(ctx context.Context, txID string, approve bool, adminID, note string) (*models.WalletTransaction, error)

	GetWalletTransaction(ctx context.Context, txID string) (*models.WalletTransaction, error)
	ListWalletTransactions(ctx context.Context, accountID string, limit int) ([]models.WalletTransaction, error)
	PendingWalletTransactions(ctx context.Context, limit int) ([]models.WalletTransaction, error)

	AddGiftCards(ctx context.Context, cards []models.GiftCard) error

	// ClaimGiftCard flips exactly one available card to claimed and debits
	// the claimant's point cost atomically. Under concurrent claims of the
	// same code exactly one caller succeeds; the rest observe
	// ErrAlreadyClaimed.
	ClaimGiftCard(ctx context.Context, code, claimantID string) (*models.GiftCard, int64, error)

	// ClaimNextGiftCard claims the oldest available card, whichever it is.
	ClaimNextGiftCard(ctx context.Context, claimantID string) (*models.GiftCard, int64, error)

	AvailableGiftCards(ctx context.Context) (int, error)

	Close()
}

package models

import "time"

type EntryKind string

const (
	EntryKindEarn            EntryKind = "earn"
	EntryKindBetDebit        EntryKind = "bet_debit"
	EntryKindBetCredit       EntryKind = "bet_credit"
	EntryKindDeposit         EntryKind = "deposit"
	EntryKindWithdrawal      EntryKind = "withdrawal"
	EntryKindGiftCardDebit   EntryKind = "giftcard_debit"
	EntryKindAdminAdjustment EntryKind = "admin_adjustment"
)

// LedgerEntry is immutable once committed. (Kind, ReferenceID) is unique
// across the whole ledger; replaying the same pair is a no-op that returns
// the recorded BalanceAfter instead of applying a second time.
type LedgerEntry struct {
	ID           int64     `json:"id"`
	AccountID    string    `json:"account_id"`
	Kind         EntryKind `json:"kind"`
	Amount       int64     `json:"amount"`
	ReferenceID  string    `json:"reference_id"`
	BalanceAfter int64     `json:"balance_after"`
	CreatedAt    time.Time `json:"created_at"`
}

// BalanceEvent is emitted after every committed balance mutation for
// downstream delivery (bot DMs, admin console). Delivery is best-effort
// and never rolls back the mutation it describes.
type BalanceEvent struct {
	AccountID        string    `json:"account_id"`
	Kind             EntryKind `json:"kind"`
	Amount           int64     `json:"amount"`
	ResultingBalance int64     `json:"resulting_balance"`
	OccurredAt       time.Time `json:"occurred_at"`
}

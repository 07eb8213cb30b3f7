package models

import "time"

type WalletTxKind string

const (
	WalletTxKindDeposit    WalletTxKind = "deposit"
	WalletTxKindWithdrawal WalletTxKind = "withdrawal"
)

type WalletTxStatus string

const (
	WalletTxStatusPending  WalletTxStatus = "pending"
	WalletTxStatusApproved WalletTxStatus = "approved"
	WalletTxStatusRejected WalletTxStatus = "rejected"
)

// WalletTransaction moves pending -> approved|rejected and never leaves a
// terminal state. A pending withdrawal holds its point amount: the debit
// is applied at request time so the funds cannot be double-spent, and a
// rejection reverses it with a compensating credit.
type WalletTransaction struct {
	ID           string         `json:"id"`
	AccountID    string         `json:"account_id"`
	Kind         WalletTxKind   `json:"kind"`
	AmountCents  int64          `json:"amount_cents"`
	PointsAmount int64          `json:"points_amount"`
	Status       WalletTxStatus `json:"status"`
	RequestedAt  time.Time      `json:"requested_at"`
	ResolvedAt   *time.Time     `json:"resolved_at,omitempty"`
	ResolvedBy   string         `json:"resolved_by,omitempty"`
	Note         string         `json:"note,omitempty"`
}

func (t *WalletTransaction) Resolved() bool {
	return t.Status != WalletTxStatusPending
}

type DepositRequest struct {
	AmountCents int64 `json:"amount_cents" binding:"required,min=1"`
}

type WithdrawRequest struct {
	PointsAmount int64 `json:"points_amount" binding:"required,min=1"`
}

type ResolveRequest struct {
	Decision string `json:"decision" binding:"required,oneof=approve reject"`
	Note     string `json:"note,omitempty"`
}

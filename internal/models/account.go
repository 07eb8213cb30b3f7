package models

import "time"

type AccountStatus string

const (
	AccountStatusActive     AccountStatus = "active"
	AccountStatusRestricted AccountStatus = "restricted"
	AccountStatusBanned     AccountStatus = "banned"
)

// Account is created on the first observed event for a user and never
// deleted, only status-transitioned. Balance always equals the sum of
// committed ledger entries for the account.
type Account struct {
	ID           string        `json:"id"`
	Balance      int64         `json:"balance"`
	TotalEarned  int64         `json:"total_earned"`
	TotalWagered int64         `json:"total_wagered"`
	Status       AccountStatus `json:"status"`
	CreatedAt    time.Time     `json:"created_at"`
	LastPlayedAt *time.Time    `json:"last_played_at,omitempty"`
}

type BalanceResponse struct {
	AccountID    string `json:"account_id"`
	Balance      int64  `json:"balance"`
	TotalEarned  int64  `json:"total_earned"`
	TotalWagered int64  `json:"total_wagered"`
}

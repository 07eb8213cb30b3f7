package models

import "time"

type GiftCardStatus string

const (
	GiftCardStatusAvailable GiftCardStatus = "available"
	GiftCardStatusClaimed   GiftCardStatus = "claimed"
)

// GiftCard is terminal once claimed; codes are never reused. The claim
// transition and the claimant's giftcard_debit commit as one atomic unit,
// so a claimed code is never left unpaired from its ledger debit.
type GiftCard struct {
	Code      string         `json:"code"`
	FaceValue int64          `json:"face_value"`
	Currency  string         `json:"currency"`
	PointCost int64          `json:"point_cost"`
	Status    GiftCardStatus `json:"status"`
	ClaimedBy string         `json:"claimed_by,omitempty"`
	ClaimedAt *time.Time     `json:"claimed_at,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}

type ClaimRequest struct {
	// Code is optional; when empty the next available card is claimed.
	Code string `json:"code,omitempty"`
}

type AddGiftCardsRequest struct {
	Count     int    `json:"count" binding:"required,min=1,max=500"`
	FaceValue int64  `json:"face_value" binding:"required,min=1"`
	Currency  string `json:"currency,omitempty"`
	PointCost int64  `json:"point_cost" binding:"required,min=1"`
}

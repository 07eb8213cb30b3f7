package models

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBetRequestValidate(t *testing.T) {
	req := &BetRequest{Variant: GameVariantDice, Stake: 50}
	assert.NoError(t, req.Validate(10, 500))

	req.Stake = 9
	assert.Error(t, req.Validate(10, 500))

	req.Stake = 501
	assert.Error(t, req.Validate(10, 500))

	req = &BetRequest{Variant: "craps", Stake: 50}
	assert.Error(t, req.Validate(10, 500))
}

func TestWalletTransactionResolved(t *testing.T) {
	wtx := &WalletTransaction{Status: WalletTxStatusPending}
	assert.False(t, wtx.Resolved())

	wtx.Status = WalletTxStatusApproved
	assert.True(t, wtx.Resolved())

	wtx.Status = WalletTxStatusRejected
	assert.True(t, wtx.Resolved())
}

func TestDateKey(t *testing.T) {
	loc := time.FixedZone("UTC+9", 9*3600)
	// 2026-03-01 02:30 in UTC+9 is still 2026-02-28 in UTC.
	local := time.Date(2026, 3, 1, 2, 30, 0, 0, loc)

	key := DateKey(local)
	assert.Equal(t, time.Date(2026, 2, 28, 0, 0, 0, 0, time.UTC), key)

	// Two instants on the same UTC date share a key.
	a := DateKey(time.Date(2026, 3, 1, 0, 0, 1, 0, time.UTC))
	b := DateKey(time.Date(2026, 3, 1, 23, 59, 59, 0, time.UTC))
	assert.Equal(t, a, b)
}

func TestGenerateGiftCardCode(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		code := GenerateGiftCardCode("GC")
		require.True(t, strings.HasPrefix(code, "GC_"))
		assert.False(t, seen[code], "duplicate code %s", code)
		seen[code] = true
	}
}

func TestGenerateIDsCarryPrefixes(t *testing.T) {
	assert.True(t, strings.HasPrefix(GenerateRoundID(), "round_"))
	assert.True(t, strings.HasPrefix(GenerateTransactionID(), "tx_"))
}

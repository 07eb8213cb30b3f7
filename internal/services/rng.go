package services

import (
	"crypto/rand"
	"fmt"
	mrand "math/rand/v2"
)

// NewRoundSource builds the random source used to resolve bets. The seed
// comes from the OS entropy pool, never from the clock, so outcomes stay
// unpredictable across restarts.
func NewRoundSource() (*mrand.Rand, error) {
	var seed [32]byte
	if _, err := rand.Read(seed[:]); err != nil {
		return nil, fmt.Errorf("failed to seed round source: %w", err)
	}
	return mrand.New(mrand.NewChaCha8(seed)), nil
}

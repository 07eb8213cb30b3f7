package models

import (
	"fmt"
	"time"
)

type GameVariant string

const (
	GameVariantDice      GameVariant = "dice"
	GameVariantSlots     GameVariant = "slots"
	GameVariantBlackjack GameVariant = "blackjack"
	GameVariantRoulette  GameVariant = "roulette"
	GameVariantPoker     GameVariant = "poker"
	GameVariantLottery   GameVariant = "lottery"
)

type RoundResult string

const (
	RoundResultWin  RoundResult = "win"
	RoundResultLose RoundResult = "lose"
	RoundResultPush RoundResult = "push"
)

// BetRequest carries the stake plus variant-specific parameters. Unused
// parameters are ignored by the resolver for the chosen variant.
type BetRequest struct {
	Variant GameVariant `json:"variant"`
	Stake   int64       `json:"stake" binding:"required,min=1"`

	// Dice: guessed face 1-6.
	Guess int `json:"guess,omitempty"`

	// Blackjack: take one extra card.
	Hit bool `json:"hit,omitempty"`

	// Roulette.
	BetType  string `json:"bet_type,omitempty"`
	BetValue string `json:"bet_value,omitempty"`

	// Lottery: 6 distinct picks in 1-49.
	Numbers []int `json:"numbers,omitempty"`
}

func (br *BetRequest) Validate(minBet, maxBet int64) error {
	if br.Stake < minBet || br.Stake > maxBet {
		return fmt.Errorf("stake must be between %d and %d points", minBet, maxBet)
	}

	switch br.Variant {
	case GameVariantDice, GameVariantSlots, GameVariantBlackjack,
		GameVariantRoulette, GameVariantPoker, GameVariantLottery:
	default:
		return fmt.Errorf("unknown game variant: %s", br.Variant)
	}

	return nil
}

// Outcome is the resolved result of one bet before settlement.
type Outcome struct {
	Result RoundResult `json:"result"`
	// Payout is the total credit owed for the round, stake included.
	// Zero on a loss, equal to stake on a push.
	Payout int64  `json:"payout"`
	Detail string `json:"detail"`
}

// GameRound is the audit record of one resolved bet. Its ID is the
// reference for both the bet_debit and bet_credit ledger entries.
type GameRound struct {
	ID         string      `json:"id"`
	AccountID  string      `json:"account_id"`
	Variant    GameVariant `json:"variant"`
	Stake      int64       `json:"stake"`
	Result     RoundResult `json:"result"`
	Multiplier int64       `json:"multiplier"`
	Payout     int64       `json:"payout"`
	Detail     string      `json:"detail"`
	PlayedAt   time.Time   `json:"played_at"`
}

// DailyLimit tracks casino exposure per (account, calendar date). The date
// key resets it implicitly; there is no reset job.
type DailyLimit struct {
	AccountID   string    `json:"account_id"`
	Date        time.Time `json:"date"`
	TotalWon    int64     `json:"total_won"`
	TotalLost   int64     `json:"total_lost"`
	GamesPlayed int       `json:"games_played"`
}

type GameResult struct {
	RoundID    string      `json:"round_id"`
	Variant    GameVariant `json:"variant"`
	Result     RoundResult `json:"result"`
	Stake      int64       `json:"stake"`
	Multiplier int64       `json:"multiplier"`
	Payout     int64       `json:"payout"`
	NewBalance int64       `json:"new_balance"`
	Detail     string      `json:"detail"`
}

package services

import (
	"fmt"
	mrand "math/rand/v2"
	"sort"
	"strconv"
	"strings"

	"rewards-platform-backend/internal/models"
)

// A resolver turns a validated bet into an outcome using draws from the
// shared round source. Resolvers never touch the ledger; settlement is the
// engine's job.
type resolver func(req *models.BetRequest, rng *mrand.Rand) (*models.Outcome, error)

var resolvers = map[models.GameVariant]resolver{
	models.GameVariantDice:      resolveDice,
	models.GameVariantSlots:     resolveSlots,
	models.GameVariantBlackjack: resolveBlackjack,
	models.GameVariantRoulette:  resolveRoulette,
	models.GameVariantPoker:     resolvePoker,
	models.GameVariantLottery:   resolveLottery,
}

// Dice: guess one face, exact match pays 5x the stake. The 5x (not 6x)
// multiplier is where the house edge lives.
func resolveDice(req *models.BetRequest, rng *mrand.Rand) (*models.Outcome, error) {
	if req.Guess < 1 || req.Guess > 6 {
		return nil, fmt.Errorf("%w: guess must be between 1 and 6", ErrInvalidBet)
	}

	roll := rng.IntN(6) + 1
	if roll == req.Guess {
		return &models.Outcome{
			Result: models.RoundResultWin,
			Payout: req.Stake * 5,
			Detail: fmt.Sprintf("Rolled %d, guessed %d", roll, req.Guess),
		}, nil
	}
	return &models.Outcome{
		Result: models.RoundResultLose,
		Detail: fmt.Sprintf("Rolled %d, guessed %d", roll, req.Guess),
	}, nil
}

type slotSymbol struct {
	name   string
	weight int
}

// Weights are tuned so the long-run expected payout sits just under the
// total stake; the rare symbols carry the big multipliers.
var slotReel = []slotSymbol{
	{"cherry", 25},
	{"lemon", 25},
	{"orange", 20},
	{"grape", 15},
	{"bell", 8},
	{"star", 4},
	{"seven", 2},
	{"diamond", 1},
}

var slotTripleMultiplier = map[string]int64{
	"diamond": 50,
	"seven":   20,
	"star":    15,
}

func drawSlotSymbol(rng *mrand.Rand) string {
	total := 0
	for _, s := range slotReel {
		total += s.weight
	}
	n := rng.IntN(total)
	for _, s := range slotReel {
		n -= s.weight
		if n < 0 {
			return s.name
		}
	}
	return slotReel[len(slotReel)-1].name
}

func slotsMultiplier(reels [3]string) int64 {
	if reels[0] == reels[1] && reels[1] == reels[2] {
		if m, ok := slotTripleMultiplier[reels[0]]; ok {
			return m
		}
		return 10
	}
	if reels[0] == reels[1] || reels[1] == reels[2] || reels[0] == reels[2] {
		return 2
	}
	return 0
}

func resolveSlots(req *models.BetRequest, rng *mrand.Rand) (*models.Outcome, error) {
	reels := [3]string{drawSlotSymbol(rng), drawSlotSymbol(rng), drawSlotSymbol(rng)}
	detail := fmt.Sprintf("Reels: %s %s %s", reels[0], reels[1], reels[2])

	mult := slotsMultiplier(reels)
	if mult == 0 {
		return &models.Outcome{Result: models.RoundResultLose, Detail: detail}, nil
	}
	return &models.Outcome{
		Result: models.RoundResultWin,
		Payout: req.Stake * mult,
		Detail: detail,
	}, nil
}

var cardRanks = []string{"2", "3", "4", "5", "6", "7", "8", "9", "10", "J", "Q", "K", "A"}
var cardSuits = []string{"S", "H", "D", "C"}

type card struct {
	rank string
	suit string
}

func newDeck(rng *mrand.Rand) []card {
	deck := make([]card, 0, 52)
	for _, s := range cardSuits {
		for _, r := range cardRanks {
			deck = append(deck, card{rank: r, suit: s})
		}
	}
	rng.Shuffle(len(deck), func(i, j int) { deck[i], deck[j] = deck[j], deck[i] })
	return deck
}

func handString(hand []card) string {
	parts := make([]string, len(hand))
	for i, c := range hand {
		parts[i] = c.rank + c.suit
	}
	return strings.Join(parts, " ")
}

// blackjackValue counts aces as 11, downgrading to 1 while the hand busts.
func blackjackValue(hand []card) int {
	total, aces := 0, 0
	for _, c := range hand {
		switch c.rank {
		case "A":
			total += 11
			aces++
		case "K", "Q", "J", "10":
			total += 10
		default:
			n, _ := strconv.Atoi(c.rank)
			total += n
		}
	}
	for total > 21 && aces > 0 {
		total -= 10
		aces--
	}
	return total
}

func resolveBlackjack(req *models.BetRequest, rng *mrand.Rand) (*models.Outcome, error) {
	deck := newDeck(rng)
	player := []card{deck[0], deck[2]}
	dealer := []card{deck[1], deck[3]}
	if req.Hit {
		player = append(player, deck[4])
	}

	playerScore := blackjackValue(player)
	dealerScore := blackjackValue(dealer)
	detail := fmt.Sprintf("Player %s (%d) vs Dealer %s (%d)",
		handString(player), playerScore, handString(dealer), dealerScore)

	switch {
	case playerScore > 21:
		return &models.Outcome{Result: models.RoundResultLose, Detail: detail}, nil
	case playerScore > dealerScore:
		return &models.Outcome{Result: models.RoundResultWin, Payout: req.Stake * 2, Detail: detail}, nil
	case playerScore < dealerScore:
		return &models.Outcome{Result: models.RoundResultLose, Detail: detail}, nil
	default:
		return &models.Outcome{Result: models.RoundResultPush, Payout: req.Stake, Detail: detail}, nil
	}
}

var rouletteRed = map[int]bool{
	1: true, 3: true, 5: true, 7: true, 9: true, 12: true, 14: true, 16: true, 18: true,
	19: true, 21: true, 23: true, 25: true, 27: true, 30: true, 32: true, 34: true, 36: true,
}

var rouletteColumns = map[string]int{"1": 1, "2": 2, "3": 0}

// roulettePayout returns the total credit for the spin, stake included.
// An invalid bet type/value combination is a validation error, not a loss.
func roulettePayout(betType, betValue string, winning int, stake int64) (int64, error) {
	switch betType {
	case "number":
		n, err := strconv.Atoi(betValue)
		if err != nil || n < 0 || n > 36 {
			return 0, fmt.Errorf("%w: number bets take a value between 0 and 36", ErrInvalidBet)
		}
		if n == winning {
			return stake * 36, nil
		}
		return 0, nil

	case "color":
		switch betValue {
		case "red":
			if winning != 0 && rouletteRed[winning] {
				return stake * 2, nil
			}
		case "black":
			if winning != 0 && !rouletteRed[winning] {
				return stake * 2, nil
			}
		default:
			return 0, fmt.Errorf("%w: color bets take red or black", ErrInvalidBet)
		}
		return 0, nil

	case "even_odd":
		switch betValue {
		case "even":
			if winning != 0 && winning%2 == 0 {
				return stake * 2, nil
			}
		case "odd":
			if winning%2 == 1 {
				return stake * 2, nil
			}
		default:
			return 0, fmt.Errorf("%w: even_odd bets take even or odd", ErrInvalidBet)
		}
		return 0, nil

	case "high_low":
		switch betValue {
		case "high":
			if winning >= 19 {
				return stake * 2, nil
			}
		case "low":
			if winning >= 1 && winning <= 18 {
				return stake * 2, nil
			}
		default:
			return 0, fmt.Errorf("%w: high_low bets take high or low", ErrInvalidBet)
		}
		return 0, nil

	case "dozen":
		var lo, hi int
		switch betValue {
		case "first":
			lo, hi = 1, 12
		case "second":
			lo, hi = 13, 24
		case "third":
			lo, hi = 25, 36
		default:
			return 0, fmt.Errorf("%w: dozen bets take first, second or third", ErrInvalidBet)
		}
		if winning >= lo && winning <= hi {
			return stake * 3, nil
		}
		return 0, nil

	case "column":
		rem, ok := rouletteColumns[betValue]
		if !ok {
			return 0, fmt.Errorf("%w: column bets take 1, 2 or 3", ErrInvalidBet)
		}
		if winning != 0 && winning%3 == rem {
			return stake * 3, nil
		}
		return 0, nil
	}

	return 0, fmt.Errorf("%w: unknown roulette bet type %q", ErrInvalidBet, betType)
}

func resolveRoulette(req *models.BetRequest, rng *mrand.Rand) (*models.Outcome, error) {
	// Validate the bet before spending a draw on it.
	if _, err := roulettePayout(req.BetType, req.BetValue, 0, req.Stake); err != nil {
		return nil, err
	}

	winning := rng.IntN(37)
	payout, err := roulettePayout(req.BetType, req.BetValue, winning, req.Stake)
	if err != nil {
		return nil, err
	}

	detail := fmt.Sprintf("Bet %s %s, winning number %d", req.BetType, req.BetValue, winning)
	if payout == 0 {
		return &models.Outcome{Result: models.RoundResultLose, Detail: detail}, nil
	}
	return &models.Outcome{Result: models.RoundResultWin, Payout: payout, Detail: detail}, nil
}

var pokerRankNames = []string{
	"High Card", "One Pair", "Two Pair", "Three of a Kind", "Straight",
	"Flush", "Full House", "Four of a Kind", "Straight Flush",
}

var pokerRankValues = map[string]int{
	"2": 2, "3": 3, "4": 4, "5": 5, "6": 6, "7": 7, "8": 8, "9": 9,
	"10": 10, "J": 11, "Q": 12, "K": 13, "A": 14,
}

// pokerEvaluate ranks a 5-card hand by standard category, 0 (high card)
// through 8 (straight flush).
func pokerEvaluate(hand []card) int {
	values := make([]int, len(hand))
	suits := make(map[string]int)
	counts := make(map[int]int)
	for i, c := range hand {
		values[i] = pokerRankValues[c.rank]
		suits[c.suit]++
		counts[values[i]]++
	}
	sort.Sort(sort.Reverse(sort.IntSlice(values)))

	isFlush := len(suits) == 1
	isStraight := len(counts) == 5 && values[0]-values[4] == 4

	freq := make([]int, 0, len(counts))
	for _, n := range counts {
		freq = append(freq, n)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(freq)))

	switch {
	case isStraight && isFlush:
		return 8
	case freq[0] == 4:
		return 7
	case freq[0] == 3 && freq[1] == 2:
		return 6
	case isFlush:
		return 5
	case isStraight:
		return 4
	case freq[0] == 3:
		return 3
	case freq[0] == 2 && freq[1] == 2:
		return 2
	case freq[0] == 2:
		return 1
	default:
		return 0
	}
}

func resolvePoker(req *models.BetRequest, rng *mrand.Rand) (*models.Outcome, error) {
	deck := newDeck(rng)
	player := deck[:5]
	dealer := deck[5:10]

	playerRank := pokerEvaluate(player)
	dealerRank := pokerEvaluate(dealer)
	detail := fmt.Sprintf("Player %s (%s) vs Dealer %s (%s)",
		handString(player), pokerRankNames[playerRank],
		handString(dealer), pokerRankNames[dealerRank])

	switch {
	case playerRank > dealerRank:
		return &models.Outcome{Result: models.RoundResultWin, Payout: req.Stake * 2, Detail: detail}, nil
	case playerRank < dealerRank:
		return &models.Outcome{Result: models.RoundResultLose, Detail: detail}, nil
	default:
		return &models.Outcome{Result: models.RoundResultPush, Payout: req.Stake, Detail: detail}, nil
	}
}

var lotteryMultipliers = map[int]int64{
	6: 1_000_000,
	5: 10_000,
	4: 1_000,
	3: 100,
	2: 10,
}

func lotteryPayoutMultiplier(matches int) int64 {
	return lotteryMultipliers[matches]
}

func resolveLottery(req *models.BetRequest, rng *mrand.Rand) (*models.Outcome, error) {
	if len(req.Numbers) != 6 {
		return nil, fmt.Errorf("%w: select exactly 6 numbers between 1 and 49", ErrInvalidBet)
	}
	picked := make(map[int]bool, 6)
	for _, n := range req.Numbers {
		if n < 1 || n > 49 {
			return nil, fmt.Errorf("%w: select exactly 6 numbers between 1 and 49", ErrInvalidBet)
		}
		if picked[n] {
			return nil, fmt.Errorf("%w: all numbers must be distinct", ErrInvalidBet)
		}
		picked[n] = true
	}

	pool := rng.Perm(49)
	drawn := make([]int, 6)
	matches := 0
	for i := 0; i < 6; i++ {
		drawn[i] = pool[i] + 1
		if picked[drawn[i]] {
			matches++
		}
	}
	sort.Ints(drawn)

	detail := fmt.Sprintf("Picked %v, drawn %v, %d matches", req.Numbers, drawn, matches)
	mult := lotteryPayoutMultiplier(matches)
	if mult == 0 {
		return &models.Outcome{Result: models.RoundResultLose, Detail: detail}, nil
	}
	return &models.Outcome{
		Result: models.RoundResultWin,
		Payout: req.Stake * mult,
		Detail: detail,
	}, nil
}

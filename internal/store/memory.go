package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"rewards-platform-backend/internal/models"
)

// MemoryStore mirrors the Postgres semantics without a database. It backs
// the service and engine tests; production always runs on PostgresStore.
type MemoryStore struct {
	mu sync.Mutex

	accounts map[string]*models.Account
	entries  map[string][]models.LedgerEntry
	// refs indexes committed (kind, reference_id) pairs by the balance
	// they produced, the replay lookup.
	refs    map[string]int64
	nextID  int64
	daily   map[string]*models.DailyLimit
	rounds  map[string][]models.GameRound
	wallet  map[string]*models.WalletTransaction
	cards   map[string]*models.GiftCard
	cardSeq []string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		accounts: make(map[string]*models.Account),
		entries:  make(map[string][]models.LedgerEntry),
		refs:     make(map[string]int64),
		daily:    make(map[string]*models.DailyLimit),
		rounds:   make(map[string][]models.GameRound),
		wallet:   make(map[string]*models.WalletTransaction),
		cards:    make(map[string]*models.GiftCard),
	}
}

func (s *MemoryStore) Close() {}

func refKey(kind models.EntryKind, referenceID string) string {
	return string(kind) + "|" + referenceID
}

func dailyKey(accountID string, day time.Time) string {
	return accountID + "|" + models.DateKey(day).Format("2006-01-02")
}

func (s *MemoryStore) ensureLocked(accountID string) *models.Account {
	acc, ok := s.accounts[accountID]
	if !ok {
		acc = &models.Account{
			ID:        accountID,
			Status:    models.AccountStatusActive,
			CreatedAt: time.Now().UTC(),
		}
		s.accounts[accountID] = acc
	}
	return acc
}

func (s *MemoryStore) applyLocked(acc *models.Account, kind models.EntryKind, amount int64, referenceID string) (int64, error) {
	newBalance := acc.Balance + amount
	if newBalance < 0 {
		return 0, ErrInsufficientBalance
	}

	s.nextID++
	s.entries[acc.ID] = append(s.entries[acc.ID], models.LedgerEntry{
		ID:           s.nextID,
		AccountID:    acc.ID,
		Kind:         kind,
		Amount:       amount,
		ReferenceID:  referenceID,
		BalanceAfter: newBalance,
		CreatedAt:    time.Now().UTC(),
	})
	s.refs[refKey(kind, referenceID)] = newBalance

	acc.Balance = newBalance
	if kind == models.EntryKindEarn {
		acc.TotalEarned += amount
	}
	return newBalance, nil
}

func (s *MemoryStore) ApplyEntry(ctx context.Context, accountID string, kind models.EntryKind, amount int64, referenceID string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if prior, ok := s.refs[refKey(kind, referenceID)]; ok {
		return prior, nil
	}

	acc := s.ensureLocked(accountID)
	return s.applyLocked(acc, kind, amount, referenceID)
}

func (s *MemoryStore) SettleRound(ctx context.Context, round *models.GameRound, dailyCap int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	acc := s.ensureLocked(round.AccountID)

	if _, ok := s.refs[refKey(models.EntryKindBetDebit, round.ID)]; ok {
		return acc.Balance, nil
	}

	if acc.Balance < round.Stake {
		return 0, ErrInsufficientBalance
	}

	key := dailyKey(round.AccountID, round.PlayedAt)
	dl, ok := s.daily[key]
	if !ok {
		dl = &models.DailyLimit{AccountID: round.AccountID, Date: models.DateKey(round.PlayedAt)}
		s.daily[key] = dl
	}

	net := round.Payout - round.Stake
	projected := dl.TotalWon - dl.TotalLost + net
	if projected > dailyCap || projected < -dailyCap {
		return 0, ErrDailyLimitExceeded
	}

	if _, err := s.applyLocked(acc, models.EntryKindBetDebit, -round.Stake, round.ID); err != nil {
		return 0, err
	}
	if round.Payout > 0 {
		if _, err := s.applyLocked(acc, models.EntryKindBetCredit, round.Payout, round.ID); err != nil {
			return 0, err
		}
	}

	acc.TotalWagered += round.Stake
	if round.Payout > round.Stake {
		acc.TotalEarned += round.Payout
	}
	playedAt := round.PlayedAt
	acc.LastPlayedAt = &playedAt

	if net > 0 {
		dl.TotalWon += net
	} else {
		dl.TotalLost += -net
	}
	dl.GamesPlayed++

	s.rounds[round.AccountID] = append(s.rounds[round.AccountID], *round)
	return acc.Balance, nil
}

func (s *MemoryStore) GetAccount(ctx context.Context, accountID string) (*models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	acc, ok := s.accounts[accountID]
	if !ok {
		return nil, ErrAccountNotFound
	}
	cp := *acc
	return &cp, nil
}

func (s *MemoryStore) EnsureAccount(ctx context.Context, accountID string) (*models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *s.ensureLocked(accountID)
	return &cp, nil
}

func (s *MemoryStore) SetAccountStatus(ctx context.Context, accountID string, status models.AccountStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	acc, ok := s.accounts[accountID]
	if !ok {
		return ErrAccountNotFound
	}
	acc.Status = status
	return nil
}

func (s *MemoryStore) GetBalance(ctx context.Context, accountID string) (int64, error) {
	acc, err := s.GetAccount(ctx, accountID)
	if err != nil {
		return 0, err
	}
	return acc.Balance, nil
}

func (s *MemoryStore) GetEntries(ctx context.Context, accountID string, limit int) ([]models.LedgerEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if limit <= 0 || limit > 100 {
		limit = 50
	}

	all := s.entries[accountID]
	out := make([]models.LedgerEntry, 0, limit)
	for i := len(all) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, all[i])
	}
	return out, nil
}

func (s *MemoryStore) GetDailyLimit(ctx context.Context, accountID string, day time.Time) (*models.DailyLimit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if dl, ok := s.daily[dailyKey(accountID, day)]; ok {
		cp := *dl
		return &cp, nil
	}
	return &models.DailyLimit{AccountID: accountID, Date: models.DateKey(day)}, nil
}

func (s *MemoryStore) RecentRounds(ctx context.Context, accountID string, limit int) ([]models.GameRound, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if limit <= 0 || limit > 100 {
		limit = 50
	}

	all := s.rounds[accountID]
	out := make([]models.GameRound, 0, limit)
	for i := len(all) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, all[i])
	}
	return out, nil
}

func (s *MemoryStore) CreateWalletTransaction(ctx context.Context, wtx *models.WalletTransaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	acc := s.ensureLocked(wtx.AccountID)
	if wtx.Kind == models.WalletTxKindWithdrawal {
		if _, err := s.applyLocked(acc, models.EntryKindWithdrawal, -wtx.PointsAmount, wtx.ID); err != nil {
			return err
		}
	}

	cp := *wtx
	s.wallet[wtx.ID] = &cp
	return nil
}

func (s *MemoryStore) ResolveWalletTransaction(ctx context.Context, txID string, approve bool, adminID, note string) (*models.WalletTransaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	wtx, ok := s.wallet[txID]
	if !ok {
		return nil, ErrTransactionNotFound
	}
	if wtx.Resolved() {
		cp := *wtx
		return &cp, nil
	}

	acc := s.ensureLocked(wtx.AccountID)
	switch {
	case approve && wtx.Kind == models.WalletTxKindDeposit:
		if _, err := s.applyLocked(acc, models.EntryKindDeposit, wtx.PointsAmount, wtx.ID); err != nil {
			return nil, err
		}
	case !approve && wtx.Kind == models.WalletTxKindWithdrawal:
		if _, err := s.applyLocked(acc, models.EntryKindWithdrawal, wtx.PointsAmount, wtx.ID+":refund"); err != nil {
			return nil, err
		}
	}

	now := time.Now().UTC()
	wtx.Status = models.WalletTxStatusRejected
	if approve {
		wtx.Status = models.WalletTxStatusApproved
	}
	wtx.ResolvedAt = &now
	wtx.ResolvedBy = adminID
	wtx.Note = note

	cp := *wtx
	return &cp, nil
}

func (s *MemoryStore) GetWalletTransaction(ctx context.Context, txID string) (*models.WalletTransaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	wtx, ok := s.wallet[txID]
	if !ok {
		return nil, ErrTransactionNotFound
	}
	cp := *wtx
	return &cp, nil
}

func (s *MemoryStore) ListWalletTransactions(ctx context.Context, accountID string, limit int) ([]models.WalletTransaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if limit <= 0 || limit > 100 {
		limit = 50
	}

	var txs []models.WalletTransaction
	for _, wtx := range s.wallet {
		if wtx.AccountID == accountID {
			txs = append(txs, *wtx)
		}
	}
	sort.Slice(txs, func(i, j int) bool { return txs[i].RequestedAt.After(txs[j].RequestedAt) })
	if len(txs) > limit {
		txs = txs[:limit]
	}
	return txs, nil
}

func (s *MemoryStore) PendingWalletTransactions(ctx context.Context, limit int) ([]models.WalletTransaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if limit <= 0 || limit > 100 {
		limit = 50
	}

	var txs []models.WalletTransaction
	for _, wtx := range s.wallet {
		if wtx.Status == models.WalletTxStatusPending {
			txs = append(txs, *wtx)
		}
	}
	sort.Slice(txs, func(i, j int) bool { return txs[i].RequestedAt.Before(txs[j].RequestedAt) })
	if len(txs) > limit {
		txs = txs[:limit]
	}
	return txs, nil
}

func (s *MemoryStore) AddGiftCards(ctx context.Context, cards []models.GiftCard) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, c := range cards {
		cp := c
		cp.Status = models.GiftCardStatusAvailable
		if cp.CreatedAt.IsZero() {
			cp.CreatedAt = time.Now().UTC()
		}
		s.cards[cp.Code] = &cp
		s.cardSeq = append(s.cardSeq, cp.Code)
	}
	return nil
}

func (s *MemoryStore) claimLocked(card *models.GiftCard, claimantID string) (*models.GiftCard, int64, error) {
	acc := s.ensureLocked(claimantID)
	newBalance, err := s.applyLocked(acc, models.EntryKindGiftCardDebit, -card.PointCost, card.Code)
	if err != nil {
		return nil, 0, err
	}

	now := time.Now().UTC()
	card.Status = models.GiftCardStatusClaimed
	card.ClaimedBy = claimantID
	card.ClaimedAt = &now

	cp := *card
	return &cp, newBalance, nil
}

func (s *MemoryStore) ClaimGiftCard(ctx context.Context, code, claimantID string) (*models.GiftCard, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	card, ok := s.cards[code]
	if !ok {
		return nil, 0, ErrCardNotFound
	}
	if card.Status != models.GiftCardStatusAvailable {
		return nil, 0, ErrAlreadyClaimed
	}
	return s.claimLocked(card, claimantID)
}

func (s *MemoryStore) ClaimNextGiftCard(ctx context.Context, claimantID string) (*models.GiftCard, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, code := range s.cardSeq {
		card := s.cards[code]
		if card.Status == models.GiftCardStatusAvailable {
			return s.claimLocked(card, claimantID)
		}
	}
	return nil, 0, ErrInventoryExhausted
}

func (s *MemoryStore) AvailableGiftCards(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := 0
	for _, card := range s.cards {
		if card.Status == models.GiftCardStatusAvailable {
			count++
		}
	}
	return count, nil
}

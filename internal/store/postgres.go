package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"rewards-platform-backend/internal/models"
)

// Schema is applied by cmd/seeder. The unique index on
// (kind, reference_id) is the idempotency mechanism for the whole engine.
const Schema = `
CREATE TABLE IF NOT EXISTS accounts (
	id            TEXT PRIMARY KEY,
	balance       BIGINT NOT NULL DEFAULT 0,
	total_earned  BIGINT NOT NULL DEFAULT 0,
	total_wagered BIGINT NOT NULL DEFAULT 0,
	status        TEXT NOT NULL DEFAULT 'active',
	created_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
	last_played_at TIMESTAMPTZ
);

CREATE TABLE IF NOT EXISTS ledger_entries (
	id            BIGSERIAL PRIMARY KEY,
	account_id    TEXT NOT NULL REFERENCES accounts(id),
	kind          TEXT NOT NULL,
	amount        BIGINT NOT NULL,
	reference_id  TEXT NOT NULL,
	balance_after BIGINT NOT NULL,
	created_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
	UNIQUE (kind, reference_id)
);

CREATE INDEX IF NOT EXISTS idx_ledger_entries_account
	ON ledger_entries (account_id, created_at DESC);

CREATE TABLE IF NOT EXISTS daily_limits (
	account_id   TEXT NOT NULL REFERENCES accounts(id),
	date         DATE NOT NULL,
	total_won    BIGINT NOT NULL DEFAULT 0,
	total_lost   BIGINT NOT NULL DEFAULT 0,
	games_played INT NOT NULL DEFAULT 0,
	PRIMARY KEY (account_id, date)
);

CREATE TABLE IF NOT EXISTS game_rounds (
	id         TEXT PRIMARY KEY,
	account_id TEXT NOT NULL REFERENCES accounts(id),
	variant    TEXT NOT NULL,
	stake      BIGINT NOT NULL,
	result     TEXT NOT NULL,
	multiplier BIGINT NOT NULL DEFAULT 0,
	payout     BIGINT NOT NULL,
	detail     TEXT NOT NULL DEFAULT '',
	played_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_game_rounds_account
	ON game_rounds (account_id, played_at DESC);

CREATE TABLE IF NOT EXISTS wallet_transactions (
	id            TEXT PRIMARY KEY,
	account_id    TEXT NOT NULL REFERENCES accounts(id),
	kind          TEXT NOT NULL,
	amount_cents  BIGINT NOT NULL,
	points_amount BIGINT NOT NULL,
	status        TEXT NOT NULL DEFAULT 'pending',
	requested_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
	resolved_at   TIMESTAMPTZ,
	resolved_by   TEXT NOT NULL DEFAULT '',
	note          TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_wallet_transactions_status
	ON wallet_transactions (status, requested_at);

CREATE TABLE IF NOT EXISTS gift_cards (
	code       TEXT PRIMARY KEY,
	face_value BIGINT NOT NULL,
	currency   TEXT NOT NULL DEFAULT 'Robux',
	point_cost BIGINT NOT NULL,
	status     TEXT NOT NULL DEFAULT 'available',
	claimed_by TEXT NOT NULL DEFAULT '',
	claimed_at TIMESTAMPTZ,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_gift_cards_available
	ON gift_cards (created_at) WHERE status = 'available';
`

const txRetryBudget = 3

type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(ctx context.Context, connString string) (*PostgresStore, error) {
	config, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("unable to parse database config: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("unable to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("unable to ping database: %w", err)
	}

	return &PostgresStore{pool: pool}, nil
}

func (s *PostgresStore) Close() {
	s.pool.Close()
}

func InitSchema(ctx context.Context, conn *pgx.Conn) error {
	_, err := conn.Exec(ctx, Schema)
	return err
}

// withTx runs fn in a transaction and retries on serialization conflicts
// within a bounded budget. A unique-violation retry is what turns a
// concurrent duplicate insert into an idempotent replay: the second
// attempt finds the committed entry under the account lock.
func (s *PostgresStore) withTx(ctx context.Context, fn func(pgx.Tx) error) error {
	var err error
	for attempt := 0; attempt < txRetryBudget; attempt++ {
		err = s.runTx(ctx, fn)
		if !isRetryable(err) {
			return err
		}
	}
	return fmt.Errorf("%w: %v", ErrTransientFailure, err)
}

func (s *PostgresStore) runTx(ctx context.Context, fn func(pgx.Tx) error) error {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return fmt.Errorf("tx begin failed: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("tx commit failed: %w", err)
	}
	return nil
}

func isRetryable(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	switch pgErr.Code {
	case "40001", "40P01", "23505":
		return true
	}
	return false
}

// lockAccount provisions the account row if missing and acquires its row
// lock, serializing every balance-affecting operation for this account.
func lockAccount(ctx context.Context, tx pgx.Tx, accountID string) (*models.Account, error) {
	_, err := tx.Exec(ctx,
		"INSERT INTO accounts (id) VALUES ($1) ON CONFLICT (id) DO NOTHING", accountID)
	if err != nil {
		return nil, fmt.Errorf("account provisioning failed: %w", err)
	}

	var acc models.Account
	err = tx.QueryRow(ctx,
		`SELECT id, balance, total_earned, total_wagered, status, created_at, last_played_at
		 FROM accounts WHERE id = $1 FOR UPDATE`, accountID).
		Scan(&acc.ID, &acc.Balance, &acc.TotalEarned, &acc.TotalWagered, &acc.Status, &acc.CreatedAt, &acc.LastPlayedAt)
	if err != nil {
		return nil, fmt.Errorf("account lock failed: %w", err)
	}
	return &acc, nil
}

// appliedEntry reports a previously committed (kind, reference_id) pair.
// Callers must hold the account lock so the check cannot race a concurrent
// insert for the same account; the unique index backstops everything else.
func appliedEntry(ctx context.Context, tx pgx.Tx, kind models.EntryKind, referenceID string) (int64, bool, error) {
	var balanceAfter int64
	err := tx.QueryRow(ctx,
		"SELECT balance_after FROM ledger_entries WHERE kind = $1 AND reference_id = $2",
		kind, referenceID).Scan(&balanceAfter)
	if err == pgx.ErrNoRows {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("idempotency query failed: %w", err)
	}
	return balanceAfter, true, nil
}

// applyEntryLocked inserts one ledger entry and moves the balance, both on
// the already-locked account. A debit below zero rejects the whole unit.
func applyEntryLocked(ctx context.Context, tx pgx.Tx, acc *models.Account, kind models.EntryKind, amount int64, referenceID string) (int64, error) {
	newBalance := acc.Balance + amount
	if newBalance < 0 {
		return 0, ErrInsufficientBalance
	}

	_, err := tx.Exec(ctx,
		`INSERT INTO ledger_entries (account_id, kind, amount, reference_id, balance_after)
		 VALUES ($1, $2, $3, $4, $5)`,
		acc.ID, kind, amount, referenceID, newBalance)
	if err != nil {
		return 0, fmt.Errorf("ledger entry insert failed: %w", err)
	}

	earned := int64(0)
	if kind == models.EntryKindEarn {
		earned = amount
	}
	_, err = tx.Exec(ctx,
		"UPDATE accounts SET balance = $1, total_earned = total_earned + $2 WHERE id = $3",
		newBalance, earned, acc.ID)
	if err != nil {
		return 0, fmt.Errorf("balance update failed: %w", err)
	}

	acc.Balance = newBalance
	return newBalance, nil
}

func (s *PostgresStore) ApplyEntry(ctx context.Context, accountID string, kind models.EntryKind, amount int64, referenceID string) (int64, error) {
	var newBalance int64
	err := s.withTx(ctx, func(tx pgx.Tx) error {
		acc, err := lockAccount(ctx, tx, accountID)
		if err != nil {
			return err
		}

		if prior, ok, err := appliedEntry(ctx, tx, kind, referenceID); err != nil {
			return err
		} else if ok {
			newBalance = prior
			return nil
		}

		newBalance, err = applyEntryLocked(ctx, tx, acc, kind, amount, referenceID)
		return err
	})
	if err != nil {
		return 0, err
	}
	return newBalance, nil
}

func (s *PostgresStore) SettleRound(ctx context.Context, round *models.GameRound, dailyCap int64) (int64, error) {
	var newBalance int64
	err := s.withTx(ctx, func(tx pgx.Tx) error {
		acc, err := lockAccount(ctx, tx, round.AccountID)
		if err != nil {
			return err
		}

		// A retried round id replays the already-settled result.
		if _, ok, err := appliedEntry(ctx, tx, models.EntryKindBetDebit, round.ID); err != nil {
			return err
		} else if ok {
			newBalance = acc.Balance
			return nil
		}

		if acc.Balance < round.Stake {
			return ErrInsufficientBalance
		}

		day := models.DateKey(round.PlayedAt)
		_, err = tx.Exec(ctx,
			"INSERT INTO daily_limits (account_id, date) VALUES ($1, $2) ON CONFLICT (account_id, date) DO NOTHING",
			round.AccountID, day)
		if err != nil {
			return fmt.Errorf("daily limit provisioning failed: %w", err)
		}

		var won, lost int64
		var played int
		err = tx.QueryRow(ctx,
			"SELECT total_won, total_lost, games_played FROM daily_limits WHERE account_id = $1 AND date = $2 FOR UPDATE",
			round.AccountID, day).Scan(&won, &lost, &played)
		if err != nil {
			return fmt.Errorf("daily limit lock failed: %w", err)
		}

		// The cap bounds the day's net (won minus lost) in either
		// direction. Reject outright once it would be exceeded; payouts
		// are never clamped.
		net := round.Payout - round.Stake
		projected := won - lost + net
		if projected > dailyCap || projected < -dailyCap {
			return ErrDailyLimitExceeded
		}

		if _, err := applyEntryLocked(ctx, tx, acc, models.EntryKindBetDebit, -round.Stake, round.ID); err != nil {
			return err
		}
		if round.Payout > 0 {
			if _, err := applyEntryLocked(ctx, tx, acc, models.EntryKindBetCredit, round.Payout, round.ID); err != nil {
				return err
			}
		}

		earned := int64(0)
		if round.Payout > round.Stake {
			earned = round.Payout
		}
		_, err = tx.Exec(ctx,
			"UPDATE accounts SET total_wagered = total_wagered + $1, total_earned = total_earned + $2, last_played_at = $3 WHERE id = $4",
			round.Stake, earned, round.PlayedAt, round.AccountID)
		if err != nil {
			return fmt.Errorf("account stats update failed: %w", err)
		}

		wonDelta, lostDelta := int64(0), int64(0)
		if net > 0 {
			wonDelta = net
		} else {
			lostDelta = -net
		}
		_, err = tx.Exec(ctx,
			`UPDATE daily_limits
			 SET total_won = total_won + $1, total_lost = total_lost + $2, games_played = games_played + 1
			 WHERE account_id = $3 AND date = $4`,
			wonDelta, lostDelta, round.AccountID, day)
		if err != nil {
			return fmt.Errorf("daily limit update failed: %w", err)
		}

		_, err = tx.Exec(ctx,
			`INSERT INTO game_rounds (id, account_id, variant, stake, result, multiplier, payout, detail, played_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			round.ID, round.AccountID, round.Variant, round.Stake, round.Result, round.Multiplier, round.Payout, round.Detail, round.PlayedAt)
		if err != nil {
			return fmt.Errorf("round insert failed: %w", err)
		}

		newBalance = acc.Balance
		return nil
	})
	if err != nil {
		return 0, err
	}
	return newBalance, nil
}

func (s *PostgresStore) GetAccount(ctx context.Context, accountID string) (*models.Account, error) {
	var acc models.Account
	err := s.pool.QueryRow(ctx,
		`SELECT id, balance, total_earned, total_wagered, status, created_at, last_played_at
		 FROM accounts WHERE id = $1`, accountID).
		Scan(&acc.ID, &acc.Balance, &acc.TotalEarned, &acc.TotalWagered, &acc.Status, &acc.CreatedAt, &acc.LastPlayedAt)
	if err == pgx.ErrNoRows {
		return nil, ErrAccountNotFound
	}
	if err != nil {
		return nil, err
	}
	return &acc, nil
}

func (s *PostgresStore) EnsureAccount(ctx context.Context, accountID string) (*models.Account, error) {
	var acc *models.Account
	err := s.withTx(ctx, func(tx pgx.Tx) error {
		var err error
		acc, err = lockAccount(ctx, tx, accountID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return acc, nil
}

func (s *PostgresStore) SetAccountStatus(ctx context.Context, accountID string, status models.AccountStatus) error {
	tag, err := s.pool.Exec(ctx,
		"UPDATE accounts SET status = $1 WHERE id = $2", status, accountID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrAccountNotFound
	}
	return nil
}

func (s *PostgresStore) GetBalance(ctx context.Context, accountID string) (int64, error) {
	acc, err := s.GetAccount(ctx, accountID)
	if err != nil {
		return 0, err
	}
	return acc.Balance, nil
}

func (s *PostgresStore) GetEntries(ctx context.Context, accountID string, limit int) ([]models.LedgerEntry, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	rows, err := s.pool.Query(ctx,
		`SELECT id, account_id, kind, amount, reference_id, balance_after, created_at
		 FROM ledger_entries WHERE account_id = $1
		 ORDER BY created_at DESC, id DESC LIMIT $2`, accountID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []models.LedgerEntry
	for rows.Next() {
		var e models.LedgerEntry
		if err := rows.Scan(&e.ID, &e.AccountID, &e.Kind, &e.Amount, &e.ReferenceID, &e.BalanceAfter, &e.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (s *PostgresStore) GetDailyLimit(ctx context.Context, accountID string, day time.Time) (*models.DailyLimit, error) {
	dl := models.DailyLimit{AccountID: accountID, Date: models.DateKey(day)}
	err := s.pool.QueryRow(ctx,
		"SELECT total_won, total_lost, games_played FROM daily_limits WHERE account_id = $1 AND date = $2",
		accountID, dl.Date).Scan(&dl.TotalWon, &dl.TotalLost, &dl.GamesPlayed)
	if err != nil && err != pgx.ErrNoRows {
		return nil, err
	}
	return &dl, nil
}

func (s *PostgresStore) RecentRounds(ctx context.Context, accountID string, limit int) ([]models.GameRound, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	rows, err := s.pool.Query(ctx,
		`SELECT id, account_id, variant, stake, result, multiplier, payout, detail, played_at
		 FROM game_rounds WHERE account_id = $1
		 ORDER BY played_at DESC LIMIT $2`, accountID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rounds []models.GameRound
	for rows.Next() {
		var r models.GameRound
		if err := rows.Scan(&r.ID, &r.AccountID, &r.Variant, &r.Stake, &r.Result, &r.Multiplier, &r.Payout, &r.Detail, &r.PlayedAt); err != nil {
			return nil, err
		}
		rounds = append(rounds, r)
	}
	return rounds, rows.Err()
}

func (s *PostgresStore) CreateWalletTransaction(ctx context.Context, wtx *models.WalletTransaction) error {
	return s.withTx(ctx, func(tx pgx.Tx) error {
		acc, err := lockAccount(ctx, tx, wtx.AccountID)
		if err != nil {
			return err
		}

		if wtx.Kind == models.WalletTxKindWithdrawal {
			// Hold the points up front so they cannot be double-spent
			// while the request is pending.
			if _, err := applyEntryLocked(ctx, tx, acc, models.EntryKindWithdrawal, -wtx.PointsAmount, wtx.ID); err != nil {
				return err
			}
		}

		_, err = tx.Exec(ctx,
			`INSERT INTO wallet_transactions (id, account_id, kind, amount_cents, points_amount, status, requested_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			wtx.ID, wtx.AccountID, wtx.Kind, wtx.AmountCents, wtx.PointsAmount, wtx.Status, wtx.RequestedAt)
		if err != nil {
			return fmt.Errorf("wallet transaction insert failed: %w", err)
		}
		return nil
	})
}

func scanWalletTx(row pgx.Row) (*models.WalletTransaction, error) {
	var wtx models.WalletTransaction
	err := row.Scan(&wtx.ID, &wtx.AccountID, &wtx.Kind, &wtx.AmountCents, &wtx.PointsAmount,
		&wtx.Status, &wtx.RequestedAt, &wtx.ResolvedAt, &wtx.ResolvedBy, &wtx.Note)
	if err != nil {
		return nil, err
	}
	return &wtx, nil
}

const walletTxColumns = "id, account_id, kind, amount_cents, points_amount, status, requested_at, resolved_at, resolved_by, note"

func (s *PostgresStore) ResolveWalletTransaction(ctx context.Context, txID string, approve bool, adminID, note string) (*models.WalletTransaction, error) {
	var resolved *models.WalletTransaction
	err := s.withTx(ctx, func(tx pgx.Tx) error {
		wtx, err := scanWalletTx(tx.QueryRow(ctx,
			"SELECT "+walletTxColumns+" FROM wallet_transactions WHERE id = $1 FOR UPDATE", txID))
		if err == pgx.ErrNoRows {
			return ErrTransactionNotFound
		}
		if err != nil {
			return err
		}

		// Idempotent admin action: a terminal transaction stays as it is.
		if wtx.Resolved() {
			resolved = wtx
			return nil
		}

		acc, err := lockAccount(ctx, tx, wtx.AccountID)
		if err != nil {
			return err
		}

		switch {
		case approve && wtx.Kind == models.WalletTxKindDeposit:
			if _, err := applyEntryLocked(ctx, tx, acc, models.EntryKindDeposit, wtx.PointsAmount, wtx.ID); err != nil {
				return err
			}
		case !approve && wtx.Kind == models.WalletTxKindWithdrawal:
			// Reverse the hold with a distinct reference id.
			if _, err := applyEntryLocked(ctx, tx, acc, models.EntryKindWithdrawal, wtx.PointsAmount, wtx.ID+":refund"); err != nil {
				return err
			}
		}

		status := models.WalletTxStatusRejected
		if approve {
			status = models.WalletTxStatusApproved
		}
		now := time.Now().UTC()
		_, err = tx.Exec(ctx,
			"UPDATE wallet_transactions SET status = $1, resolved_at = $2, resolved_by = $3, note = $4 WHERE id = $5",
			status, now, adminID, note, txID)
		if err != nil {
			return fmt.Errorf("wallet transaction update failed: %w", err)
		}

		wtx.Status = status
		wtx.ResolvedAt = &now
		wtx.ResolvedBy = adminID
		wtx.Note = note
		resolved = wtx
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resolved, nil
}

func (s *PostgresStore) GetWalletTransaction(ctx context.Context, txID string) (*models.WalletTransaction, error) {
	wtx, err := scanWalletTx(s.pool.QueryRow(ctx,
		"SELECT "+walletTxColumns+" FROM wallet_transactions WHERE id = $1", txID))
	if err == pgx.ErrNoRows {
		return nil, ErrTransactionNotFound
	}
	return wtx, err
}

func (s *PostgresStore) listWalletTransactions(ctx context.Context, query string, args ...any) ([]models.WalletTransaction, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var txs []models.WalletTransaction
	for rows.Next() {
		var wtx models.WalletTransaction
		err := rows.Scan(&wtx.ID, &wtx.AccountID, &wtx.Kind, &wtx.AmountCents, &wtx.PointsAmount,
			&wtx.Status, &wtx.RequestedAt, &wtx.ResolvedAt, &wtx.ResolvedBy, &wtx.Note)
		if err != nil {
			return nil, err
		}
		txs = append(txs, wtx)
	}
	return txs, rows.Err()
}

func (s *PostgresStore) ListWalletTransactions(ctx context.Context, accountID string, limit int) ([]models.WalletTransaction, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return s.listWalletTransactions(ctx,
		"SELECT "+walletTxColumns+" FROM wallet_transactions WHERE account_id = $1 ORDER BY requested_at DESC LIMIT $2",
		accountID, limit)
}

func (s *PostgresStore) PendingWalletTransactions(ctx context.Context, limit int) ([]models.WalletTransaction, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return s.listWalletTransactions(ctx,
		"SELECT "+walletTxColumns+" FROM wallet_transactions WHERE status = 'pending' ORDER BY requested_at LIMIT $1",
		limit)
}

func (s *PostgresStore) AddGiftCards(ctx context.Context, cards []models.GiftCard) error {
	rows := make([][]any, 0, len(cards))
	for _, c := range cards {
		rows = append(rows, []any{c.Code, c.FaceValue, c.Currency, c.PointCost, models.GiftCardStatusAvailable})
	}

	_, err := s.pool.CopyFrom(ctx,
		pgx.Identifier{"gift_cards"},
		[]string{"code", "face_value", "currency", "point_cost", "status"},
		pgx.CopyFromRows(rows))
	if err != nil {
		return fmt.Errorf("gift card bulk insert failed: %w", err)
	}
	return nil
}

func (s *PostgresStore) claimCard(ctx context.Context, claimantID, selectQuery string, args ...any) (*models.GiftCard, int64, error) {
	var card models.GiftCard
	var newBalance int64
	err := s.withTx(ctx, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx, selectQuery, args...).
			Scan(&card.Code, &card.FaceValue, &card.Currency, &card.PointCost, &card.Status, &card.CreatedAt)
		if err == pgx.ErrNoRows {
			return ErrCardNotFound
		}
		if err != nil {
			return fmt.Errorf("gift card lock failed: %w", err)
		}
		if card.Status != models.GiftCardStatusAvailable {
			return ErrAlreadyClaimed
		}

		acc, err := lockAccount(ctx, tx, claimantID)
		if err != nil {
			return err
		}
		if newBalance, err = applyEntryLocked(ctx, tx, acc, models.EntryKindGiftCardDebit, -card.PointCost, card.Code); err != nil {
			return err
		}

		now := time.Now().UTC()
		tag, err := tx.Exec(ctx,
			"UPDATE gift_cards SET status = 'claimed', claimed_by = $1, claimed_at = $2 WHERE code = $3 AND status = 'available'",
			claimantID, now, card.Code)
		if err != nil {
			return fmt.Errorf("gift card claim failed: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return ErrAlreadyClaimed
		}

		card.Status = models.GiftCardStatusClaimed
		card.ClaimedBy = claimantID
		card.ClaimedAt = &now
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	return &card, newBalance, nil
}

const giftCardColumns = "code, face_value, currency, point_cost, status, created_at"

func (s *PostgresStore) ClaimGiftCard(ctx context.Context, code, claimantID string) (*models.GiftCard, int64, error) {
	return s.claimCard(ctx, claimantID,
		"SELECT "+giftCardColumns+" FROM gift_cards WHERE code = $1 FOR UPDATE", code)
}

func (s *PostgresStore) ClaimNextGiftCard(ctx context.Context, claimantID string) (*models.GiftCard, int64, error) {
	card, balance, err := s.claimCard(ctx, claimantID,
		"SELECT "+giftCardColumns+" FROM gift_cards WHERE status = 'available' ORDER BY created_at LIMIT 1 FOR UPDATE SKIP LOCKED")
	if errors.Is(err, ErrCardNotFound) || errors.Is(err, ErrAlreadyClaimed) {
		return nil, 0, ErrInventoryExhausted
	}
	return card, balance, err
}

func (s *PostgresStore) AvailableGiftCards(ctx context.Context) (int, error) {
	var count int
	err := s.pool.QueryRow(ctx,
		"SELECT COUNT(*) FROM gift_cards WHERE status = 'available'").Scan(&count)
	return count, err
}

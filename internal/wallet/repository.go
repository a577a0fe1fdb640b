package wallet

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/mrusama7862/Tournament-app-Pakistan/internal/db"
)

var (
	ErrInsufficientBalance  = errors.New("insufficient balance")
	ErrInvalidAmount        = errors.New("amount must be positive")
	ErrUserNotFound         = errors.New("user not found")
	ErrIdempotencyKeyReused = errors.New("idempotency key was already used for a different operation")
)

const idempotencyKeyIndex = "idx_transactions_idempotency_key"

type Repository struct {
	db          *sqlx.DB
	maxAttempts int
}

func NewRepository(database *sqlx.DB, maxAttempts int) *Repository {
	return &Repository{db: database, maxAttempts: maxAttempts}
}

// ApplyDeltaTx applies a signed delta to the user's balance and appends the
// matching ledger row, all on the caller's open transaction. The balance row
// is locked first, so concurrent writers to the same account serialize and
// the check below always sees the latest committed balance.
func (r *Repository) ApplyDeltaTx(ctx context.Context, tx *sqlx.Tx, userID int, delta int64, kind TxKind, details string, status TxStatus, idemKey *string) (*Transaction, error) {
	var balance int64
	err := tx.QueryRowxContext(ctx,
		`SELECT balance_coins FROM users WHERE id = $1 FOR UPDATE`,
		userID,
	).Scan(&balance)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	newBalance := balance + delta
	if newBalance < 0 {
		return nil, ErrInsufficientBalance
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE users SET balance_coins = $1, updated_at = NOW() WHERE id = $2`,
		newBalance, userID,
	)
	if err != nil {
		return nil, err
	}

	record := &Transaction{}
	err = tx.QueryRowxContext(ctx,
		`INSERT INTO transactions (user_id, kind, amount_coins, details, status, idempotency_key)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, user_id, kind, amount_coins, details, status, idempotency_key, created_at`,
		userID, kind, delta, details, status, idemKey,
	).StructScan(record)
	if err != nil {
		// The partial unique index is global, so a key colliding with another
		// account's row surfaces here rather than in the replay lookup.
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" && pqErr.Constraint == idempotencyKeyIndex {
			return nil, ErrIdempotencyKeyReused
		}
		return nil, err
	}

	return record, nil
}

// ApplyDelta is the standalone form: one atomic balance mutation plus ledger
// append, retried on serialization conflicts.
func (r *Repository) ApplyDelta(ctx context.Context, userID int, delta int64, kind TxKind, details string) (*Transaction, error) {
	var record *Transaction
	err := db.RunInTx(ctx, r.db, r.maxAttempts, func(tx *sqlx.Tx) error {
		var err error
		record, err = r.ApplyDeltaTx(ctx, tx, userID, delta, kind, details, StatusCompleted, nil)
		return err
	})
	if err != nil {
		return nil, err
	}
	return record, nil
}

// CreditTestCoins credits free coins for testing. Not wired in production.
func (r *Repository) CreditTestCoins(ctx context.Context, userID int, amount int64) (*Transaction, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	return r.ApplyDelta(ctx, userID, amount, KindDepositTest, "test coins credit")
}

// GetByIdempotencyKeyTx looks up a previously committed ledger row for the
// given client token. The lookup is scoped to the owning user, so one
// account's token can never replay another account's row. sql.ErrNoRows means
// the token was never used by this user.
func (r *Repository) GetByIdempotencyKeyTx(ctx context.Context, tx *sqlx.Tx, userID int, key string) (*Transaction, error) {
	record := &Transaction{}
	err := tx.QueryRowxContext(ctx,
		`SELECT id, user_id, kind, amount_coins, details, status, idempotency_key, created_at
		 FROM transactions
		 WHERE idempotency_key = $1 AND user_id = $2`,
		key, userID,
	).StructScan(record)
	if err != nil {
		return nil, err
	}
	return record, nil
}

// SetStatusTx transitions a withdrawal-related ledger row between pending and
// its final status. Other rows are never mutated after creation.
func (r *Repository) SetStatusTx(ctx context.Context, tx *sqlx.Tx, txID int, status TxStatus) error {
	_, err := tx.ExecContext(ctx,
		`UPDATE transactions SET status = $1 WHERE id = $2`,
		status, txID,
	)
	return err
}

func (r *Repository) GetBalance(ctx context.Context, userID int) (int64, error) {
	var balance int64
	err := r.db.GetContext(ctx, &balance,
		`SELECT balance_coins FROM users WHERE id = $1`, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrUserNotFound
		}
		return 0, err
	}
	return balance, nil
}

func (r *Repository) GetTransactions(ctx context.Context, userID int, limit, offset int) ([]Transaction, error) {
	if limit <= 0 {
		limit = 50
	}

	var txs []Transaction
	err := r.db.SelectContext(ctx, &txs, `
		SELECT id, user_id, kind, amount_coins, details, status, idempotency_key, created_at
		FROM transactions
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3
	`, userID, limit, offset)
	if err != nil {
		return nil, err
	}

	return txs, nil
}

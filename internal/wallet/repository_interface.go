package wallet

import (
	"context"

	"github.com/jmoiron/sqlx"
)

// Ledger is the balance-mutation surface other packages depend on. Every
// balance change goes through ApplyDelta or ApplyDeltaTx so the balance and
// the transaction log can never diverge.
type Ledger interface {
	ApplyDelta(ctx context.Context, userID int, delta int64, kind TxKind, details string) (*Transaction, error)
	ApplyDeltaTx(ctx context.Context, tx *sqlx.Tx, userID int, delta int64, kind TxKind, details string, status TxStatus, idemKey *string) (*Transaction, error)
	GetByIdempotencyKeyTx(ctx context.Context, tx *sqlx.Tx, userID int, key string) (*Transaction, error)
	SetStatusTx(ctx context.Context, tx *sqlx.Tx, txID int, status TxStatus) error
	CreditTestCoins(ctx context.Context, userID int, amount int64) (*Transaction, error)
	GetBalance(ctx context.Context, userID int) (int64, error)
	GetTransactions(ctx context.Context, userID int, limit, offset int) ([]Transaction, error)
}

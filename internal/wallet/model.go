package wallet

import "time"

type TxKind string

type TxStatus string

const (
	KindJoin              TxKind = "join"
	KindRefund            TxKind = "refund"
	KindWithdrawalRequest TxKind = "withdrawal_request"
	KindDepositTest       TxKind = "deposit_test"

	StatusCompleted TxStatus = "completed"
	StatusPending   TxStatus = "pending"
	StatusRejected  TxStatus = "rejected"
)

// Transaction is one append-only ledger row. Amount is signed: debits are
// negative, credits positive. The sum of all rows for a user always equals
// users.balance_coins.
type Transaction struct {
	ID             int       `db:"id" json:"id"`
	UserID         int       `db:"user_id" json:"user_id"`
	Kind           TxKind    `db:"kind" json:"kind"`
	AmountCoins    int64     `db:"amount_coins" json:"amount_coins"`
	Details        string    `db:"details" json:"details"`
	Status         TxStatus  `db:"status" json:"status"`
	IdempotencyKey *string   `db:"idempotency_key" json:"-"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}

type BalanceResponse struct {
	UserID       int   `json:"user_id"`
	BalanceCoins int64 `json:"balance_coins"`
}

type TestCoinsRequest struct {
	AmountCoins int64 `json:"amount_coins" binding:"required"`
}

package withdrawal

import "time"

const (
	StatusPending   = "pending"
	StatusCompleted = "completed"
	StatusRejected  = "rejected"
)

// WithdrawalRequest is one queued payout. TransactionID points at the pending
// ledger debit created when the request was filed; the two rows change status
// together.
type WithdrawalRequest struct {
	ID            int       `db:"id" json:"id"`
	UserID        int       `db:"user_id" json:"user_id"`
	AmountCoins   int64     `db:"amount_coins" json:"amount_coins"`
	Contact       string    `db:"contact" json:"contact"`
	Status        string    `db:"status" json:"status"`
	TransactionID int       `db:"transaction_id" json:"transaction_id"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`

	// Replayed marks a response reconstructed from an earlier commit that
	// carried the same idempotency token. No coins moved on this call.
	Replayed bool `db:"-" json:"replayed,omitempty"`
}

type WithdrawalWithUser struct {
	WithdrawalRequest
	UserName  string `db:"user_name" json:"user_name"`
	UserEmail string `db:"user_email" json:"user_email"`
}

type CreateRequest struct {
	AmountCoins    int64  `json:"amount_coins" binding:"required"`
	Contact        string `json:"contact" binding:"required"`
	IdempotencyKey string `json:"idempotency_key"`
}

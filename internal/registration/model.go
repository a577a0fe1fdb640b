package registration

import (
	"time"

	"github.com/mrusama7862/Tournament-app-Pakistan/internal/wallet"
)

// Participant is one roster slot: at most one row per (event, user) pair.
type Participant struct {
	EventID  int       `db:"event_id" json:"event_id"`
	UserID   int       `db:"user_id" json:"user_id"`
	JoinedAt time.Time `db:"joined_at" json:"joined_at"`
}

type RegistrationWithEvent struct {
	Participant
	EventName     string    `db:"event_name" json:"event_name"`
	EntryFeeCoins int64     `db:"entry_fee_coins" json:"entry_fee_coins"`
	StartTime     time.Time `db:"start_time" json:"start_time"`
	Location      string    `db:"location" json:"location"`
}

type ParticipantWithUser struct {
	Participant
	UserName  string `db:"user_name" json:"user_name"`
	UserEmail string `db:"user_email" json:"user_email"`
}

// JoinResult carries what one atomic join committed: the roster slot and the
// ledger debit. Replayed is set when an idempotency token matched a previous
// commit and nothing was debited again.
type JoinResult struct {
	Participant *Participant        `json:"participant"`
	Ledger      *wallet.Transaction `json:"transaction"`
	FeeCoins    int64               `json:"fee_coins"`
	Replayed    bool                `json:"replayed,omitempty"`
}

type CancelResult struct {
	Refund   *wallet.Transaction `json:"transaction"`
	FeeCoins int64               `json:"fee_coins"`
}

type JoinRequest struct {
	IdempotencyKey string `json:"idempotency_key"`
}

type CancelRequest struct {
	EntryFeeCoins int64 `json:"entry_fee_coins"`
}

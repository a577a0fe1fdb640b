package registration

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/mrusama7862/Tournament-app-Pakistan/internal/db"
	"github.com/mrusama7862/Tournament-app-Pakistan/internal/event"
	"github.com/mrusama7862/Tournament-app-Pakistan/internal/wallet"
)

var (
	ErrAlreadyJoined = errors.New("already joined this event")
	ErrNotRegistered = errors.New("not registered for this event")
)

type repository struct {
	db          *sqlx.DB
	ledger      wallet.Ledger
	maxAttempts int
}

func NewRepository(database *sqlx.DB, ledger wallet.Ledger, maxAttempts int) Repository {
	return &repository{db: database, ledger: ledger, maxAttempts: maxAttempts}
}

// JoinTournament commits the fee debit, the ledger append and the roster
// insert as one transaction. Every read below sees a consistent snapshot; a
// concurrent join for the same pair or a concurrent debit of the same account
// conflicts at commit and is retried by RunInTx.
func (r *repository) JoinTournament(ctx context.Context, userID, eventID int, idemKey string) (*JoinResult, error) {
	var result *JoinResult

	err := db.RunInTx(ctx, r.db, r.maxAttempts, func(tx *sqlx.Tx) error {
		if idemKey != "" {
			existing, err := r.ledger.GetByIdempotencyKeyTx(ctx, tx, userID, idemKey)
			if err == nil {
				// The token must refer to this exact join. A key recycled for
				// another event or another operation is rejected, not replayed.
				if existing.Kind != wallet.KindJoin || existing.Details != joinDetails(eventID) {
					return wallet.ErrIdempotencyKeyReused
				}

				// A previous attempt already committed. Re-read the roster
				// slot and report the original outcome without debiting again.
				p, perr := getParticipantTx(ctx, tx, eventID, userID)
				if perr != nil && !errors.Is(perr, sql.ErrNoRows) {
					return perr
				}
				result = &JoinResult{
					Participant: p,
					Ledger:      existing,
					FeeCoins:    -existing.AmountCoins,
					Replayed:    true,
				}
				return nil
			}
			if !errors.Is(err, sql.ErrNoRows) {
				return err
			}
		}

		// entry fee is re-read inside the transaction for freshness
		var fee int64
		err := tx.QueryRowxContext(ctx,
			`SELECT entry_fee_coins FROM events WHERE id = $1`, eventID,
		).Scan(&fee)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return event.ErrEventNotFound
			}
			return err
		}

		var joined bool
		err = tx.QueryRowxContext(ctx,
			`SELECT EXISTS(SELECT 1 FROM participants WHERE event_id = $1 AND user_id = $2)`,
			eventID, userID,
		).Scan(&joined)
		if err != nil {
			return err
		}
		if joined {
			return ErrAlreadyJoined
		}

		var key *string
		if idemKey != "" {
			key = &idemKey
		}

		record, err := r.ledger.ApplyDeltaTx(ctx, tx, userID, -fee, wallet.KindJoin,
			joinDetails(eventID), wallet.StatusCompleted, key)
		if err != nil {
			return err
		}

		p := &Participant{}
		err = tx.QueryRowxContext(ctx,
			`INSERT INTO participants (event_id, user_id)
			 VALUES ($1, $2)
			 RETURNING event_id, user_id, joined_at`,
			eventID, userID,
		).StructScan(p)
		if err != nil {
			return err
		}

		result = &JoinResult{Participant: p, Ledger: record, FeeCoins: fee}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

// CancelRegistration refunds the entry fee and frees the roster slot in one
// transaction. entryFeeCoins <= 0 means "refund the event's current fee".
func (r *repository) CancelRegistration(ctx context.Context, userID, eventID int, entryFeeCoins int64) (*CancelResult, error) {
	var result *CancelResult

	err := db.RunInTx(ctx, r.db, r.maxAttempts, func(tx *sqlx.Tx) error {
		_, err := getParticipantTx(ctx, tx, eventID, userID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrNotRegistered
			}
			return err
		}

		fee := entryFeeCoins
		if fee <= 0 {
			err = tx.QueryRowxContext(ctx,
				`SELECT entry_fee_coins FROM events WHERE id = $1`, eventID,
			).Scan(&fee)
			if err != nil {
				if errors.Is(err, sql.ErrNoRows) {
					return event.ErrEventNotFound
				}
				return err
			}
		}

		record, err := r.ledger.ApplyDeltaTx(ctx, tx, userID, fee, wallet.KindRefund,
			fmt.Sprintf("refund for event %d", eventID), wallet.StatusCompleted, nil)
		if err != nil {
			return err
		}

		res, err := tx.ExecContext(ctx,
			`DELETE FROM participants WHERE event_id = $1 AND user_id = $2`,
			eventID, userID,
		)
		if err != nil {
			return err
		}
		if n, err := res.RowsAffected(); err != nil {
			return err
		} else if n == 0 {
			return ErrNotRegistered
		}

		result = &CancelResult{Refund: record, FeeCoins: fee}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

// joinDetails is the canonical ledger description of a join debit. The replay
// path compares against it to tie an idempotency token to one event.
func joinDetails(eventID int) string {
	return fmt.Sprintf("entry fee for event %d", eventID)
}

func getParticipantTx(ctx context.Context, tx *sqlx.Tx, eventID, userID int) (*Participant, error) {
	p := &Participant{}
	err := tx.QueryRowxContext(ctx,
		`SELECT event_id, user_id, joined_at FROM participants WHERE event_id = $1 AND user_id = $2`,
		eventID, userID,
	).StructScan(p)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *repository) IsRegistered(ctx context.Context, userID, eventID int) (bool, error) {
	var joined bool
	err := r.db.GetContext(ctx, &joined,
		`SELECT EXISTS(SELECT 1 FROM participants WHERE event_id = $1 AND user_id = $2)`,
		eventID, userID,
	)
	return joined, err
}

func (r *repository) GetUserRegistrations(ctx context.Context, userID int) ([]RegistrationWithEvent, error) {
	query := `
		SELECT
			p.event_id,
			p.user_id,
			p.joined_at,
			e.name AS event_name,
			e.entry_fee_coins,
			e.start_time,
			e.location
		FROM participants p
		JOIN events e ON p.event_id = e.id
		WHERE p.user_id = $1
		ORDER BY e.start_time ASC
	`

	var regs []RegistrationWithEvent
	err := r.db.SelectContext(ctx, &regs, query, userID)
	if err != nil {
		return nil, err
	}

	return regs, nil
}

func (r *repository) GetEventParticipants(ctx context.Context, eventID int) ([]ParticipantWithUser, error) {
	query := `
		SELECT
			p.event_id,
			p.user_id,
			p.joined_at,
			u.name AS user_name,
			u.email AS user_email
		FROM participants p
		JOIN users u ON p.user_id = u.id
		WHERE p.event_id = $1
		ORDER BY p.joined_at ASC
	`

	var participants []ParticipantWithUser
	err := r.db.SelectContext(ctx, &participants, query, eventID)
	if err != nil {
		return nil, err
	}

	return participants, nil
}

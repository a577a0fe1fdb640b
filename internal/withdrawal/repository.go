package withdrawal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/mrusama7862/Tournament-app-Pakistan/internal/db"
	"github.com/mrusama7862/Tournament-app-Pakistan/internal/wallet"
)

var (
	ErrRequestNotFound = errors.New("withdrawal request not found")
	ErrNotPending      = errors.New("withdrawal request already decided")
)

type repository struct {
	db          *sqlx.DB
	ledger      wallet.Ledger
	maxAttempts int
}

func NewRepository(database *sqlx.DB, ledger wallet.Ledger, maxAttempts int) Queue {
	return &repository{db: database, ledger: ledger, maxAttempts: maxAttempts}
}

// RequestWithdrawal debits the wallet up front so a user cannot spend coins
// that are waiting for payout. The debit stays pending until an admin decides.
// A non-empty idemKey makes retries safe: a token already committed by this
// user replays the original request without reserving coins again.
func (r *repository) RequestWithdrawal(ctx context.Context, userID int, amountCoins int64, contact, idemKey string) (*WithdrawalRequest, error) {
	if amountCoins <= 0 {
		return nil, wallet.ErrInvalidAmount
	}

	var request *WithdrawalRequest

	err := db.RunInTx(ctx, r.db, r.maxAttempts, func(tx *sqlx.Tx) error {
		if idemKey != "" {
			existing, err := r.ledger.GetByIdempotencyKeyTx(ctx, tx, userID, idemKey)
			if err == nil {
				if existing.Kind != wallet.KindWithdrawalRequest || existing.AmountCoins != -amountCoins {
					return wallet.ErrIdempotencyKeyReused
				}

				req := &WithdrawalRequest{}
				if err := tx.QueryRowxContext(ctx,
					`SELECT id, user_id, amount_coins, contact, status, transaction_id, created_at
					 FROM withdrawal_requests
					 WHERE transaction_id = $1`,
					existing.ID,
				).StructScan(req); err != nil {
					return err
				}

				req.Replayed = true
				request = req
				return nil
			}
			if !errors.Is(err, sql.ErrNoRows) {
				return err
			}
		}

		var key *string
		if idemKey != "" {
			key = &idemKey
		}

		record, err := r.ledger.ApplyDeltaTx(ctx, tx, userID, -amountCoins, wallet.KindWithdrawalRequest,
			"withdrawal request", wallet.StatusPending, key)
		if err != nil {
			return err
		}

		request = &WithdrawalRequest{}
		return tx.QueryRowxContext(ctx,
			`INSERT INTO withdrawal_requests (user_id, amount_coins, contact, status, transaction_id)
			 VALUES ($1, $2, $3, $4, $5)
			 RETURNING id, user_id, amount_coins, contact, status, transaction_id, created_at`,
			userID, amountCoins, contact, StatusPending, record.ID,
		).StructScan(request)
	})
	if err != nil {
		return nil, err
	}

	return request, nil
}

// Approve finalizes the payout: the pending ledger debit and the request move
// to completed together. The coins were already taken at request time, so the
// balance does not change here.
func (r *repository) Approve(ctx context.Context, requestID int) (*WithdrawalRequest, error) {
	return r.decide(ctx, requestID, StatusCompleted)
}

// Reject returns the coins: the pending rows are marked rejected and a
// compensating refund is appended, all in the same transaction. The ledger
// keeps both rows, so the full history of the request stays visible.
func (r *repository) Reject(ctx context.Context, requestID int) (*WithdrawalRequest, error) {
	return r.decide(ctx, requestID, StatusRejected)
}

func (r *repository) decide(ctx context.Context, requestID int, status string) (*WithdrawalRequest, error) {
	var request *WithdrawalRequest

	err := db.RunInTx(ctx, r.db, r.maxAttempts, func(tx *sqlx.Tx) error {
		req := &WithdrawalRequest{}
		err := tx.QueryRowxContext(ctx,
			`SELECT id, user_id, amount_coins, contact, status, transaction_id, created_at
			 FROM withdrawal_requests
			 WHERE id = $1
			 FOR UPDATE`,
			requestID,
		).StructScan(req)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrRequestNotFound
			}
			return err
		}

		if req.Status != StatusPending {
			return ErrNotPending
		}

		txStatus := wallet.StatusCompleted
		if status == StatusRejected {
			txStatus = wallet.StatusRejected
		}
		if err := r.ledger.SetStatusTx(ctx, tx, req.TransactionID, txStatus); err != nil {
			return err
		}

		_, err = tx.ExecContext(ctx,
			`UPDATE withdrawal_requests SET status = $1 WHERE id = $2`,
			status, requestID,
		)
		if err != nil {
			return err
		}

		if status == StatusRejected {
			_, err = r.ledger.ApplyDeltaTx(ctx, tx, req.UserID, req.AmountCoins, wallet.KindRefund,
				fmt.Sprintf("refund for rejected withdrawal %d", requestID), wallet.StatusCompleted, nil)
			if err != nil {
				return err
			}
		}

		req.Status = status
		request = req
		return nil
	})
	if err != nil {
		return nil, err
	}

	return request, nil
}

func (r *repository) ListByUser(ctx context.Context, userID int) ([]WithdrawalRequest, error) {
	var requests []WithdrawalRequest
	err := r.db.SelectContext(ctx, &requests, `
		SELECT id, user_id, amount_coins, contact, status, transaction_id, created_at
		FROM withdrawal_requests
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
	`, userID)
	if err != nil {
		return nil, err
	}

	return requests, nil
}

func (r *repository) ListPending(ctx context.Context) ([]WithdrawalWithUser, error) {
	query := `
		SELECT
			w.id,
			w.user_id,
			w.amount_coins,
			w.contact,
			w.status,
			w.transaction_id,
			w.created_at,
			u.name AS user_name,
			u.email AS user_email
		FROM withdrawal_requests w
		JOIN users u ON w.user_id = u.id
		WHERE w.status = 'pending'
		ORDER BY w.created_at ASC
	`

	var requests []WithdrawalWithUser
	err := r.db.SelectContext(ctx, &requests, query)
	if err != nil {
		return nil, err
	}

	return requests, nil
}

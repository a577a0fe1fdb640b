package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/sethvargo/go-retry"

	"github.com/mrusama7862/Tournament-app-Pakistan/internal/metrics"
)

// ErrConflictRetryExhausted is returned when a transaction keeps colliding
// with concurrent writers past the attempt budget. The whole operation left
// no partial state and may be retried by the caller.
var ErrConflictRetryExhausted = errors.New("transaction conflict: retry budget exhausted")

const (
	DefaultMaxAttempts = 5

	initialBackoff = 10 * time.Millisecond
)

// RunInTx runs fn inside a serializable transaction. Conflicts between
// concurrent transactions surface at commit time as serialization failures;
// those are retried with exponential backoff up to maxAttempts, so the second
// of two racing callers re-reads the first caller's committed state. Any
// other error aborts immediately and rolls back.
func RunInTx(ctx context.Context, db *sqlx.DB, maxAttempts int, fn func(tx *sqlx.Tx) error) error {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}

	backoff := retry.WithMaxRetries(uint64(maxAttempts-1), retry.NewExponential(initialBackoff))

	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		tx, err := db.BeginTxx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
		if err != nil {
			return err
		}

		if err := fn(tx); err != nil {
			tx.Rollback()
			if isSerializationFailure(err) {
				metrics.RecordTxConflictRetry()
				return retry.RetryableError(err)
			}
			return err
		}

		if err := tx.Commit(); err != nil {
			if isSerializationFailure(err) {
				metrics.RecordTxConflictRetry()
				return retry.RetryableError(err)
			}
			return err
		}

		return nil
	})
	if err != nil {
		if isSerializationFailure(err) {
			return fmt.Errorf("%w: %v", ErrConflictRetryExhausted, err)
		}
		return err
	}

	return nil
}

// 40001 = serialization_failure, 40P01 = deadlock_detected.
func isSerializationFailure(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "40001" || pqErr.Code == "40P01"
	}
	return false
}

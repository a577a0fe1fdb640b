package tourney_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrusama7862/Tournament-app-Pakistan/internal/wallet"
	"github.com/mrusama7862/Tournament-app-Pakistan/internal/withdrawal"
)

func TestWithdrawal_RequestAndApprove_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	db := setupTestDB(t)
	defer db.Close()
	cleanTables(t, db)

	userID := createTestUser(t, db, "payout@test.com", "Payout", 1000)

	ledger := wallet.NewRepository(db, 5)
	queue := withdrawal.NewRepository(db, ledger, 5)
	ctx := context.Background()

	request, err := queue.RequestWithdrawal(ctx, userID, 400, "easypaisa:0300", "")
	require.NoError(t, err)
	assert.Equal(t, withdrawal.StatusPending, request.Status)

	// coins are reserved immediately
	assert.Equal(t, int64(600), getBalance(t, db, userID))

	approved, err := queue.Approve(ctx, request.ID)
	require.NoError(t, err)
	assert.Equal(t, withdrawal.StatusCompleted, approved.Status)

	// approval does not move coins again
	assert.Equal(t, int64(600), getBalance(t, db, userID))

	var txStatus string
	require.NoError(t, db.Get(&txStatus,
		"SELECT status FROM transactions WHERE id = $1", request.TransactionID))
	assert.Equal(t, "completed", txStatus)
}

func TestWithdrawal_RejectRefunds_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	db := setupTestDB(t)
	defer db.Close()
	cleanTables(t, db)

	userID := createTestUser(t, db, "rejected@test.com", "Rejected", 1000)

	ledger := wallet.NewRepository(db, 5)
	queue := withdrawal.NewRepository(db, ledger, 5)
	ctx := context.Background()

	request, err := queue.RequestWithdrawal(ctx, userID, 400, "easypaisa:0300", "")
	require.NoError(t, err)
	require.Equal(t, int64(600), getBalance(t, db, userID))

	rejected, err := queue.Reject(ctx, request.ID)
	require.NoError(t, err)
	assert.Equal(t, withdrawal.StatusRejected, rejected.Status)

	// refund restores the balance, both ledger rows remain
	assert.Equal(t, int64(1000), getBalance(t, db, userID))

	var count int
	require.NoError(t, db.Get(&count,
		"SELECT COUNT(*) FROM transactions WHERE user_id = $1", userID))
	assert.Equal(t, 2, count)
}

func TestWithdrawal_DecideTwice_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	db := setupTestDB(t)
	defer db.Close()
	cleanTables(t, db)

	userID := createTestUser(t, db, "twice@test.com", "Twice", 1000)

	ledger := wallet.NewRepository(db, 5)
	queue := withdrawal.NewRepository(db, ledger, 5)
	ctx := context.Background()

	request, err := queue.RequestWithdrawal(ctx, userID, 400, "easypaisa:0300", "")
	require.NoError(t, err)

	_, err = queue.Reject(ctx, request.ID)
	require.NoError(t, err)

	_, err = queue.Reject(ctx, request.ID)
	require.ErrorIs(t, err, withdrawal.ErrNotPending)

	// no double refund
	assert.Equal(t, int64(1000), getBalance(t, db, userID))
}

func TestWithdrawal_ExactBalanceBoundary_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	db := setupTestDB(t)
	defer db.Close()
	cleanTables(t, db)

	userID := createTestUser(t, db, "boundary@test.com", "Boundary", 500)

	ledger := wallet.NewRepository(db, 5)
	queue := withdrawal.NewRepository(db, ledger, 5)
	ctx := context.Background()

	_, err := queue.RequestWithdrawal(ctx, userID, 501, "easypaisa:0300", "")
	require.ErrorIs(t, err, wallet.ErrInsufficientBalance)
	assert.Equal(t, int64(500), getBalance(t, db, userID))

	request, err := queue.RequestWithdrawal(ctx, userID, 500, "easypaisa:0300", "")
	require.NoError(t, err)
	assert.Equal(t, int64(0), getBalance(t, db, userID))
	assert.Equal(t, withdrawal.StatusPending, request.Status)
}

func TestWithdrawal_IdempotencyKey_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	db := setupTestDB(t)
	defer db.Close()
	cleanTables(t, db)

	userID := createTestUser(t, db, "retrier@test.com", "Retrier", 1000)

	ledger := wallet.NewRepository(db, 5)
	queue := withdrawal.NewRepository(db, ledger, 5)
	ctx := context.Background()

	first, err := queue.RequestWithdrawal(ctx, userID, 400, "easypaisa:0300", "payout-token-1")
	require.NoError(t, err)
	require.False(t, first.Replayed)
	require.Equal(t, int64(600), getBalance(t, db, userID))

	// the retried request replays the original reservation, no second debit
	second, err := queue.RequestWithdrawal(ctx, userID, 400, "easypaisa:0300", "payout-token-1")
	require.NoError(t, err)
	assert.True(t, second.Replayed)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, int64(600), getBalance(t, db, userID))

	// the same token cannot reserve a different amount
	_, err = queue.RequestWithdrawal(ctx, userID, 200, "easypaisa:0300", "payout-token-1")
	require.ErrorIs(t, err, wallet.ErrIdempotencyKeyReused)
	assert.Equal(t, int64(600), getBalance(t, db, userID))
}

func TestWithdrawal_ListPendingOldestFirst_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	db := setupTestDB(t)
	defer db.Close()
	cleanTables(t, db)

	userID := createTestUser(t, db, "lister@test.com", "Lister", 1000)

	ledger := wallet.NewRepository(db, 5)
	queue := withdrawal.NewRepository(db, ledger, 5)
	ctx := context.Background()

	first, err := queue.RequestWithdrawal(ctx, userID, 100, "easypaisa:0300", "")
	require.NoError(t, err)
	second, err := queue.RequestWithdrawal(ctx, userID, 200, "easypaisa:0300", "")
	require.NoError(t, err)

	pending, err := queue.ListPending(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 2)
	assert.Equal(t, first.ID, pending[0].ID)
	assert.Equal(t, second.ID, pending[1].ID)
	assert.Equal(t, "Lister", pending[0].UserName)
}

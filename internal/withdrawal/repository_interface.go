package withdrawal

import "context"

type Queue interface {
	RequestWithdrawal(ctx context.Context, userID int, amountCoins int64, contact, idemKey string) (*WithdrawalRequest, error)
	Approve(ctx context.Context, requestID int) (*WithdrawalRequest, error)
	Reject(ctx context.Context, requestID int) (*WithdrawalRequest, error)
	ListByUser(ctx context.Context, userID int) ([]WithdrawalRequest, error)
	ListPending(ctx context.Context) ([]WithdrawalWithUser, error)
}

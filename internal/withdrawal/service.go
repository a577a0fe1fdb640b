package withdrawal

import (
	"context"

	"github.com/mrusama7862/Tournament-app-Pakistan/internal/logger"
	"github.com/mrusama7862/Tournament-app-Pakistan/internal/metrics"
	"github.com/mrusama7862/Tournament-app-Pakistan/internal/notification"
	"github.com/mrusama7862/Tournament-app-Pakistan/internal/user"
)

type Service interface {
	RequestWithdrawal(ctx context.Context, userID int, amountCoins int64, contact, idemKey string) (*WithdrawalRequest, error)
	Approve(ctx context.Context, requestID int) (*WithdrawalRequest, error)
	Reject(ctx context.Context, requestID int) (*WithdrawalRequest, error)
	ListByUser(ctx context.Context, userID int) ([]WithdrawalRequest, error)
	ListPending(ctx context.Context) ([]WithdrawalWithUser, error)
}

type service struct {
	queue    Queue
	users    user.Store
	notifier *notification.Service
}

func NewService(queue Queue, users user.Store, notifier *notification.Service) Service {
	return &service{queue: queue, users: users, notifier: notifier}
}

func (s *service) RequestWithdrawal(ctx context.Context, userID int, amountCoins int64, contact, idemKey string) (*WithdrawalRequest, error) {
	request, err := s.queue.RequestWithdrawal(ctx, userID, amountCoins, contact, idemKey)
	if err != nil {
		return nil, err
	}

	if !request.Replayed {
		metrics.RecordWithdrawalRequest()
		logger.Info("withdrawal requested",
			"user_id", userID, "request_id", request.ID, "amount_coins", amountCoins)
	}

	return request, nil
}

func (s *service) Approve(ctx context.Context, requestID int) (*WithdrawalRequest, error) {
	return s.decide(ctx, requestID, true)
}

func (s *service) Reject(ctx context.Context, requestID int) (*WithdrawalRequest, error) {
	return s.decide(ctx, requestID, false)
}

func (s *service) decide(ctx context.Context, requestID int, approve bool) (*WithdrawalRequest, error) {
	var request *WithdrawalRequest
	var err error
	if approve {
		request, err = s.queue.Approve(ctx, requestID)
	} else {
		request, err = s.queue.Reject(ctx, requestID)
	}
	if err != nil {
		return nil, err
	}

	metrics.RecordWithdrawalDecision(approve)
	logger.Info("withdrawal decided",
		"request_id", requestID, "user_id", request.UserID, "status", request.Status)

	// decision notification is best effort, the transaction already committed
	if u, uerr := s.users.FindByID(ctx, request.UserID); uerr == nil {
		s.notifier.SendWithdrawalDecision(ctx, u.Email, u.Name, request.AmountCoins, approve)
	}

	return request, nil
}

func (s *service) ListByUser(ctx context.Context, userID int) ([]WithdrawalRequest, error) {
	return s.queue.ListByUser(ctx, userID)
}

func (s *service) ListPending(ctx context.Context) ([]WithdrawalWithUser, error) {
	return s.queue.ListPending(ctx)
}

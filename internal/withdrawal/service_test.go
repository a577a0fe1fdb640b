package withdrawal

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/mrusama7862/Tournament-app-Pakistan/internal/logger"
	"github.com/mrusama7862/Tournament-app-Pakistan/internal/notification"
	"github.com/mrusama7862/Tournament-app-Pakistan/internal/user"
	"github.com/mrusama7862/Tournament-app-Pakistan/internal/wallet"
)

func TestMain(m *testing.M) {
	logger.Init()

	code := m.Run()
	os.Exit(code)
}

type MockQueue struct{ mock.Mock }
type MockUserStore struct{ mock.Mock }

func (m *MockQueue) RequestWithdrawal(ctx context.Context, userID int, amountCoins int64, contact, idemKey string) (*WithdrawalRequest, error) {
	args := m.Called(ctx, userID, amountCoins, contact, idemKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*WithdrawalRequest), args.Error(1)
}

func (m *MockQueue) Approve(ctx context.Context, requestID int) (*WithdrawalRequest, error) {
	args := m.Called(ctx, requestID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*WithdrawalRequest), args.Error(1)
}

func (m *MockQueue) Reject(ctx context.Context, requestID int) (*WithdrawalRequest, error) {
	args := m.Called(ctx, requestID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*WithdrawalRequest), args.Error(1)
}

func (m *MockQueue) ListByUser(ctx context.Context, userID int) ([]WithdrawalRequest, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]WithdrawalRequest), args.Error(1)
}

func (m *MockQueue) ListPending(ctx context.Context) ([]WithdrawalWithUser, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]WithdrawalWithUser), args.Error(1)
}

func (m *MockUserStore) Create(ctx context.Context, name, email, passwordHash, role string) (*user.User, error) {
	args := m.Called(ctx, name, email, passwordHash, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}

func (m *MockUserStore) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}

func (m *MockUserStore) FindByID(ctx context.Context, id int) (*user.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}

func (m *MockUserStore) EmailExists(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func newTestNotifier() *notification.Service {
	return notification.New("from@test.com", "Test", "localhost", "1025", "", "", "localhost:6379")
}

func TestService_RequestWithdrawal(t *testing.T) {
	q := new(MockQueue)
	us := new(MockUserStore)

	q.On("RequestWithdrawal", mock.Anything, 20, int64(500), "easypaisa:0300", "").Return(&WithdrawalRequest{
		ID:          1,
		UserID:      20,
		AmountCoins: 500,
		Status:      StatusPending,
	}, nil)

	service := NewService(q, us, newTestNotifier())

	request, err := service.RequestWithdrawal(context.Background(), 20, 500, "easypaisa:0300", "")

	assert.NoError(t, err)
	assert.Equal(t, StatusPending, request.Status)
	q.AssertExpectations(t)
}

func TestService_RequestWithdrawal_ReplayPassesThrough(t *testing.T) {
	q := new(MockQueue)
	us := new(MockUserStore)

	q.On("RequestWithdrawal", mock.Anything, 20, int64(500), "easypaisa:0300", "payout-token-1").Return(&WithdrawalRequest{
		ID:          1,
		UserID:      20,
		AmountCoins: 500,
		Status:      StatusPending,
		Replayed:    true,
	}, nil)

	service := NewService(q, us, newTestNotifier())

	request, err := service.RequestWithdrawal(context.Background(), 20, 500, "easypaisa:0300", "payout-token-1")

	assert.NoError(t, err)
	assert.True(t, request.Replayed)
	q.AssertExpectations(t)
}

func TestService_RequestWithdrawal_Insufficient(t *testing.T) {
	q := new(MockQueue)
	us := new(MockUserStore)

	q.On("RequestWithdrawal", mock.Anything, 20, int64(5000), "easypaisa:0300", "").
		Return(nil, wallet.ErrInsufficientBalance)

	service := NewService(q, us, newTestNotifier())

	request, err := service.RequestWithdrawal(context.Background(), 20, 5000, "easypaisa:0300", "")

	assert.ErrorIs(t, err, wallet.ErrInsufficientBalance)
	assert.Nil(t, request)
}

func TestService_Approve(t *testing.T) {
	q := new(MockQueue)
	us := new(MockUserStore)

	q.On("Approve", mock.Anything, 1).Return(&WithdrawalRequest{
		ID:          1,
		UserID:      20,
		AmountCoins: 500,
		Status:      StatusCompleted,
	}, nil)
	us.On("FindByID", mock.Anything, 20).Return(&user.User{
		ID:    20,
		Email: "player@example.com",
		Name:  "Player",
	}, nil)

	service := NewService(q, us, newTestNotifier())

	request, err := service.Approve(context.Background(), 1)

	assert.NoError(t, err)
	assert.Equal(t, StatusCompleted, request.Status)
	q.AssertExpectations(t)
	us.AssertExpectations(t)
}

func TestService_Reject(t *testing.T) {
	q := new(MockQueue)
	us := new(MockUserStore)

	q.On("Reject", mock.Anything, 1).Return(&WithdrawalRequest{
		ID:          1,
		UserID:      20,
		AmountCoins: 500,
		Status:      StatusRejected,
	}, nil)
	us.On("FindByID", mock.Anything, 20).Return(&user.User{
		ID:    20,
		Email: "player@example.com",
		Name:  "Player",
	}, nil)

	service := NewService(q, us, newTestNotifier())

	request, err := service.Reject(context.Background(), 1)

	assert.NoError(t, err)
	assert.Equal(t, StatusRejected, request.Status)
}

func TestService_Reject_NotPending(t *testing.T) {
	q := new(MockQueue)
	us := new(MockUserStore)

	q.On("Reject", mock.Anything, 1).Return(nil, ErrNotPending)

	service := NewService(q, us, newTestNotifier())

	_, err := service.Reject(context.Background(), 1)

	assert.ErrorIs(t, err, ErrNotPending)
}

func TestService_ListPending(t *testing.T) {
	q := new(MockQueue)
	us := new(MockUserStore)

	q.On("ListPending", mock.Anything).Return([]WithdrawalWithUser{
		{
			WithdrawalRequest: WithdrawalRequest{ID: 1, UserID: 20, AmountCoins: 500, Status: StatusPending},
			UserName:          "Player",
		},
	}, nil)

	service := NewService(q, us, newTestNotifier())

	requests, err := service.ListPending(context.Background())

	assert.NoError(t, err)
	assert.Len(t, requests, 1)
	assert.Equal(t, "Player", requests[0].UserName)
}

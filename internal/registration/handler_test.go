package registration

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/mrusama7862/Tournament-app-Pakistan/internal/db"
	"github.com/mrusama7862/Tournament-app-Pakistan/internal/event"
	"github.com/mrusama7862/Tournament-app-Pakistan/internal/wallet"
)

type MockService struct{ mock.Mock }

func (m *MockService) JoinTournament(ctx context.Context, userID, eventID int, idemKey string) (*JoinResult, error) {
	args := m.Called(ctx, userID, eventID, idemKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*JoinResult), args.Error(1)
}

func (m *MockService) CancelRegistration(ctx context.Context, userID, eventID int, entryFeeCoins int64) (*CancelResult, error) {
	args := m.Called(ctx, userID, eventID, entryFeeCoins)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*CancelResult), args.Error(1)
}

func (m *MockService) GetUserRegistrations(ctx context.Context, userID int) ([]RegistrationWithEvent, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]RegistrationWithEvent), args.Error(1)
}

func (m *MockService) GetEventParticipants(ctx context.Context, eventID int) ([]ParticipantWithUser, error) {
	args := m.Called(ctx, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]ParticipantWithUser), args.Error(1)
}

func joinTestContext(t *testing.T, eventID string, body interface{}) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	var buf bytes.Buffer
	if body != nil {
		assert.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(http.MethodPost, "/events/"+eventID+"/join", &buf)
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	c.Params = gin.Params{{Key: "eventID", Value: eventID}}
	c.Set("user_id", 20)

	return c, w
}

func TestHandler_JoinTournament_Created(t *testing.T) {
	svc := new(MockService)
	svc.On("JoinTournament", mock.Anything, 20, 5, "").Return(&JoinResult{
		Participant: &Participant{EventID: 5, UserID: 20},
		Ledger:      &wallet.Transaction{ID: 1, AmountCoins: -300},
		FeeCoins:    300,
	}, nil)

	c, w := joinTestContext(t, "5", nil)
	NewHandler(svc).JoinTournament(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	svc.AssertExpectations(t)
}

func TestHandler_JoinTournament_ReplayReturnsOK(t *testing.T) {
	svc := new(MockService)
	svc.On("JoinTournament", mock.Anything, 20, 5, "token-1").Return(&JoinResult{
		Participant: &Participant{EventID: 5, UserID: 20},
		Ledger:      &wallet.Transaction{ID: 1, AmountCoins: -300},
		FeeCoins:    300,
		Replayed:    true,
	}, nil)

	c, w := joinTestContext(t, "5", JoinRequest{IdempotencyKey: "token-1"})
	NewHandler(svc).JoinTournament(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"replayed":true`)
}

func TestHandler_JoinTournament_IdempotencyKeyFromHeader(t *testing.T) {
	svc := new(MockService)
	svc.On("JoinTournament", mock.Anything, 20, 5, "hdr-token").Return(&JoinResult{
		Participant: &Participant{EventID: 5, UserID: 20},
		Ledger:      &wallet.Transaction{ID: 1, AmountCoins: -300},
		FeeCoins:    300,
	}, nil)

	c, w := joinTestContext(t, "5", nil)
	c.Request.Header.Set("Idempotency-Key", "hdr-token")
	NewHandler(svc).JoinTournament(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	svc.AssertExpectations(t)
}

func TestHandler_JoinTournament_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"event not found", event.ErrEventNotFound, http.StatusNotFound},
		{"event started", ErrEventStarted, http.StatusBadRequest},
		{"already joined", ErrAlreadyJoined, http.StatusConflict},
		{"insufficient balance", wallet.ErrInsufficientBalance, http.StatusPaymentRequired},
		{"idempotency key reused", wallet.ErrIdempotencyKeyReused, http.StatusConflict},
		{"retry budget exhausted", db.ErrConflictRetryExhausted, http.StatusConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockService)
			svc.On("JoinTournament", mock.Anything, 20, 5, "").Return(nil, tt.err)

			c, w := joinTestContext(t, "5", nil)
			NewHandler(svc).JoinTournament(c)

			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}

func TestHandler_JoinTournament_BadEventID(t *testing.T) {
	svc := new(MockService)

	c, w := joinTestContext(t, "abc", nil)
	NewHandler(svc).JoinTournament(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandler_CancelRegistration_OK(t *testing.T) {
	svc := new(MockService)
	svc.On("CancelRegistration", mock.Anything, 20, 5, int64(0)).Return(&CancelResult{
		Refund:   &wallet.Transaction{ID: 2, AmountCoins: 300},
		FeeCoins: 300,
	}, nil)

	c, w := joinTestContext(t, "5", nil)
	NewHandler(svc).CancelRegistration(c)

	assert.Equal(t, http.StatusOK, w.Code)
	svc.AssertExpectations(t)
}

func TestHandler_CancelRegistration_NotRegistered(t *testing.T) {
	svc := new(MockService)
	svc.On("CancelRegistration", mock.Anything, 20, 5, int64(0)).Return(nil, ErrNotRegistered)

	c, w := joinTestContext(t, "5", nil)
	NewHandler(svc).CancelRegistration(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

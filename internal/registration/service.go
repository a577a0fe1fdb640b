package registration

import (
	"context"
	"errors"
	"time"

	"github.com/mrusama7862/Tournament-app-Pakistan/internal/event"
	"github.com/mrusama7862/Tournament-app-Pakistan/internal/logger"
	"github.com/mrusama7862/Tournament-app-Pakistan/internal/metrics"
	"github.com/mrusama7862/Tournament-app-Pakistan/internal/notification"
	"github.com/mrusama7862/Tournament-app-Pakistan/internal/user"
)

var ErrEventStarted = errors.New("event has already started")

type Service interface {
	JoinTournament(ctx context.Context, userID, eventID int, idemKey string) (*JoinResult, error)
	CancelRegistration(ctx context.Context, userID, eventID int, entryFeeCoins int64) (*CancelResult, error)
	GetUserRegistrations(ctx context.Context, userID int) ([]RegistrationWithEvent, error)
	GetEventParticipants(ctx context.Context, eventID int) ([]ParticipantWithUser, error)
}

type service struct {
	repo     Repository
	events   event.Catalog
	users    user.Store
	notifier *notification.Service
}

func NewService(repo Repository, events event.Catalog, users user.Store, notifier *notification.Service) Service {
	return &service{
		repo:     repo,
		events:   events,
		users:    users,
		notifier: notifier,
	}
}

func (s *service) JoinTournament(ctx context.Context, userID, eventID int, idemKey string) (*JoinResult, error) {
	ev, err := s.events.GetEventByID(ctx, eventID)
	if err != nil {
		return nil, err
	}

	if ev.StartTime.Before(time.Now()) {
		return nil, ErrEventStarted
	}

	result, err := s.repo.JoinTournament(ctx, userID, eventID, idemKey)
	if err != nil {
		return nil, err
	}

	if result.Replayed {
		logger.Info("join replayed from idempotency token",
			"user_id", userID, "event_id", eventID)
		return result, nil
	}

	metrics.RecordJoin()
	logger.Info("user joined event",
		"user_id", userID, "event_id", eventID, "fee_coins", result.FeeCoins)

	// notification failures never roll back a committed join
	if u, uerr := s.users.FindByID(ctx, userID); uerr == nil {
		s.notifier.SendJoinConfirmation(ctx, u.Email, u.Name, ev.Name, ev.Location, ev.StartTime)
	}

	return result, nil
}

func (s *service) CancelRegistration(ctx context.Context, userID, eventID int, entryFeeCoins int64) (*CancelResult, error) {
	result, err := s.repo.CancelRegistration(ctx, userID, eventID, entryFeeCoins)
	if err != nil {
		return nil, err
	}

	metrics.RecordCancellation()
	logger.Info("registration cancelled",
		"user_id", userID, "event_id", eventID, "refund_coins", result.FeeCoins)

	if u, uerr := s.users.FindByID(ctx, userID); uerr == nil {
		evName := ""
		if ev, everr := s.events.GetEventByID(ctx, eventID); everr == nil {
			evName = ev.Name
		}
		s.notifier.SendCancellation(ctx, u.Email, u.Name, evName, result.FeeCoins)
	}

	return result, nil
}

func (s *service) GetUserRegistrations(ctx context.Context, userID int) ([]RegistrationWithEvent, error) {
	return s.repo.GetUserRegistrations(ctx, userID)
}

func (s *service) GetEventParticipants(ctx context.Context, eventID int) ([]ParticipantWithUser, error) {
	return s.repo.GetEventParticipants(ctx, eventID)
}

package registration

import "context"

type Repository interface {
	JoinTournament(ctx context.Context, userID, eventID int, idemKey string) (*JoinResult, error)
	CancelRegistration(ctx context.Context, userID, eventID int, entryFeeCoins int64) (*CancelResult, error)
	IsRegistered(ctx context.Context, userID, eventID int) (bool, error)
	GetUserRegistrations(ctx context.Context, userID int) ([]RegistrationWithEvent, error)
	GetEventParticipants(ctx context.Context, eventID int) ([]ParticipantWithUser, error)
}

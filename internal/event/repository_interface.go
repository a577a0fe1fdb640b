package event

import (
	"context"
	"time"
)

type Catalog interface {
	CreateEvent(ctx context.Context, name string, entryFeeCoins int64, startTime time.Time, location, rules string) (*Event, error)
	GetAllEvents(ctx context.Context, onlyUpcoming bool) ([]EventWithParticipants, error)
	GetEventByID(ctx context.Context, id int) (*Event, error)
}

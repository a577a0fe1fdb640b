package event

import "time"

// Event is a competitive event from the catalog. The wallet engine treats
// events as read-only; only admins create them.
type Event struct {
	ID            int       `db:"id" json:"id"`
	Name          string    `db:"name" json:"name"`
	EntryFeeCoins int64     `db:"entry_fee_coins" json:"entry_fee_coins"`
	StartTime     time.Time `db:"start_time" json:"start_time"`
	Location      string    `db:"location" json:"location"`
	Rules         string    `db:"rules" json:"rules"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}

type EventWithParticipants struct {
	Event
	ParticipantCount int `db:"participant_count" json:"participant_count"`
}

type CreateEventRequest struct {
	Name          string `json:"name" binding:"required"`
	EntryFeeCoins int64  `json:"entry_fee_coins" binding:"min=0"`
	StartTime     string `json:"start_time" binding:"required"`
	Location      string `json:"location" binding:"required"`
	Rules         string `json:"rules"`
}

package event

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
)

var ErrEventNotFound = errors.New("event not found")

type Repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) CreateEvent(ctx context.Context, name string, entryFeeCoins int64, startTime time.Time, location, rules string) (*Event, error) {
	query := `
		INSERT INTO events (name, entry_fee_coins, start_time, location, rules)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, name, entry_fee_coins, start_time, location, rules, created_at
	`

	var ev Event
	err := r.db.GetContext(ctx, &ev, query, name, entryFeeCoins, startTime, location, rules)
	if err != nil {
		return nil, err
	}

	return &ev, nil
}

func (r *Repository) GetAllEvents(ctx context.Context, onlyUpcoming bool) ([]EventWithParticipants, error) {
	query := `
		SELECT
			e.id, e.name, e.entry_fee_coins, e.start_time, e.location, e.rules, e.created_at,
			COUNT(p.user_id) AS participant_count
		FROM events e
		LEFT JOIN participants p ON p.event_id = e.id
	`

	if onlyUpcoming {
		query += " WHERE e.start_time > NOW()"
	}

	query += `
		GROUP BY e.id
		ORDER BY e.start_time ASC
	`

	var events []EventWithParticipants
	err := r.db.SelectContext(ctx, &events, query)
	if err != nil {
		return nil, err
	}

	return events, nil
}

func (r *Repository) GetEventByID(ctx context.Context, id int) (*Event, error) {
	query := `
		SELECT id, name, entry_fee_coins, start_time, location, rules, created_at
		FROM events
		WHERE id = $1
	`

	var ev Event
	err := r.db.GetContext(ctx, &ev, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}

	return &ev, nil
}

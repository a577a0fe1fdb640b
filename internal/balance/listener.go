package balance

import (
	"context"
	"encoding/json"
	"time"

	"github.com/lib/pq"

	"github.com/mrusama7862/Tournament-app-Pakistan/internal/logger"
	"github.com/mrusama7862/Tournament-app-Pakistan/internal/metrics"
)

const channelName = "balance_changes"

// Listener bridges Postgres NOTIFY into the hub. A trigger on the users table
// publishes every committed balance change on the balance_changes channel, so
// observers see updates only after the owning transaction committed.
type Listener struct {
	hub *Hub
	pql *pq.Listener
}

func NewListener(databaseURL string, hub *Hub) *Listener {
	pql := pq.NewListener(databaseURL, 10*time.Second, time.Minute,
		func(ev pq.ListenerEventType, err error) {
			if err != nil {
				logger.Errorf("Balance listener event %d: %v", ev, err)
			}
		})

	return &Listener{hub: hub, pql: pql}
}

func (l *Listener) Start(ctx context.Context) error {
	if err := l.pql.Listen(channelName); err != nil {
		return err
	}

	go l.run(ctx)
	logger.Info("Balance listener started", "channel", channelName)
	return nil
}

func (l *Listener) run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			l.pql.Close()
			logger.Info("Balance listener stopped")
			return

		case n := <-l.pql.Notify:
			// nil means the connection was re-established. Notifications
			// raised during the outage are gone; subscribers keep their last
			// delivered value until the next balance change arrives.
			if n == nil {
				continue
			}

			var update Update
			if err := json.Unmarshal([]byte(n.Extra), &update); err != nil {
				logger.Errorf("Bad balance notification payload: %v", err)
				continue
			}

			metrics.SetWalletBalance(update.UserID, update.BalanceCoins)
			l.hub.Publish(update)

		case <-time.After(90 * time.Second):
			go l.pql.Ping()
		}
	}
}

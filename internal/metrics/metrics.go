package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tourney_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tourney_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	JoinsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "tourney_joins_total",
			Help: "Total number of event registrations",
		},
	)

	CancellationsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "tourney_cancellations_total",
			Help: "Total number of registration cancellations",
		},
	)

	TxConflictRetriesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "tourney_tx_conflict_retries_total",
			Help: "Total number of serialization conflict retries",
		},
	)

	TestCoinsCreditsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "tourney_test_coins_credits_total",
			Help: "Total number of test coin credits",
		},
	)

	WithdrawalRequestsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "tourney_withdrawal_requests_total",
			Help: "Total number of withdrawal requests",
		},
	)

	WithdrawalDecisionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tourney_withdrawal_decisions_total",
			Help: "Total number of withdrawal request decisions",
		},
		[]string{"decision"},
	)

	NotificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tourney_notifications_total",
			Help: "Total number of notifications sent",
		},
		[]string{"type", "status"},
	)

	NotificationQueueLength = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "tourney_notification_queue_length",
			Help: "Current length of the notification queue",
		},
	)

	WalletBalance = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "tourney_wallet_balance_coins",
			Help: "Current wallet balance in coins",
		},
		[]string{"user_id"},
	)

	BalanceSubscribers = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "tourney_balance_stream_subscribers",
			Help: "Number of active balance stream subscribers",
		},
	)
)

func RecordHTTPRequest(method, path, status string, duration float64) {
	HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, path).Observe(duration)
}

func RecordJoin() {
	JoinsTotal.Inc()
}

func RecordCancellation() {
	CancellationsTotal.Inc()
}

func RecordTxConflictRetry() {
	TxConflictRetriesTotal.Inc()
}

func RecordTestCoinsCredit() {
	TestCoinsCreditsTotal.Inc()
}

func RecordWithdrawalRequest() {
	WithdrawalRequestsTotal.Inc()
}

func RecordWithdrawalDecision(approved bool) {
	decision := "approved"
	if !approved {
		decision = "rejected"
	}
	WithdrawalDecisionsTotal.WithLabelValues(decision).Inc()
}

func RecordNotification(notifType, status string) {
	NotificationsTotal.WithLabelValues(notifType, status).Inc()
}

func SetWalletBalance(userID int, balance int64) {
	WalletBalance.WithLabelValues(strconv.Itoa(userID)).Set(float64(balance))
}

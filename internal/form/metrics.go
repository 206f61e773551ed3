package form

import (
	"context"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/dunyajewellery/catalogbot/core/logger"
)

const namespace = "catalogbot"

var (
	sessionsStarted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "form",
			Name:      "sessions_started_total",
			Help:      "Workflows started, by kind",
		},
		[]string{"kind"},
	)

	inputsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "form",
			Name:      "inputs_total",
			Help:      "Inputs handled by the form engine, by kind and outcome",
		},
		[]string{"kind", "outcome"},
	)

	commitsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "form",
			Name:      "commits_total",
			Help:      "Record writes at the terminal step, by kind and status",
		},
		[]string{"kind", "status"}, // status: ok, not_found, error
	)

	sessionsExpired = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "form",
			Name:      "sessions_expired_total",
			Help:      "Sessions dropped after the idle timeout",
		},
	)
)

// Collectors returns the form engine metrics for registration.
func Collectors() []prometheus.Collector {
	return []prometheus.Collector{sessionsStarted, inputsTotal, commitsTotal, sessionsExpired}
}

// ObserveExpired records a session dropped by idle expiry.
// It is meant as the session store's expiry hook.
func ObserveExpired(userID int64) {
	sessionsExpired.Inc()
	logger.Info(context.Background(), logger.ComponentForm, "session.expired",
		slog.Int64("user_id", userID),
	)
}

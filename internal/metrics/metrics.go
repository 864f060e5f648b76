package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Command metrics
var (
	CommandsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameCommandsTotal,
			Help: "Slash commands handled, by command name.",
		},
		[]string{LabelCommand},
	)

	HandlerPanics = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameHandlerPanics,
			Help: "Panics recovered at the event-dispatch boundary.",
		},
	)
)

// Confirmation workflow metrics
var ConfirmationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: MetricNameConfirmationsTotal,
		Help: "Confirmation workflows resolved, by outcome.",
	},
	[]string{LabelOutcome},
)

// Sync metrics
var (
	StreamUpdates = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameStreamUpdates,
			Help: "Presence notifications processed, by result (written or skipped).",
		},
		[]string{LabelResult},
	)

	LeaderboardRefreshes = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameLeaderboardRefreshes,
			Help: "Leaderboard message refreshes performed.",
		},
	)

	InactivityActions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameInactivityActions,
			Help: "Inactivity sweep actions, by kind (notice or kick).",
		},
		[]string{LabelKind},
	)
)

package metrics

// Metric names
const (
	MetricNameCommandsTotal        = "aubot_commands_total"
	MetricNameHandlerPanics        = "aubot_handler_panics_total"
	MetricNameConfirmationsTotal   = "aubot_confirmations_total"
	MetricNameStreamUpdates        = "aubot_stream_updates_total"
	MetricNameLeaderboardRefreshes = "aubot_leaderboard_refreshes_total"
	MetricNameInactivityActions    = "aubot_inactivity_actions_total"
)

// Label names
const (
	LabelCommand = "command"
	LabelOutcome = "outcome"
	LabelResult  = "result"
	LabelKind    = "kind"
)

// Label values
const (
	ResultWritten = "written"
	ResultSkipped = "skipped"

	KindNotice = "notice"
	KindKick   = "kick"
)

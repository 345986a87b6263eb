package notify

import (
	"github.com/rs/zerolog"

	"github.com/doridoridoriand/uptime-go/internal/tracker"
)

// LogNotifier writes one log line per event.
type LogNotifier struct {
	logger zerolog.Logger
	target string
}

// NewLogNotifier returns a notifier that logs events for target.
func NewLogNotifier(logger zerolog.Logger, target string) *LogNotifier {
	return &LogNotifier{logger: logger, target: target}
}

// Notify writes one log line for ev.
func (n *LogNotifier) Notify(ev tracker.Event) {
	switch ev.Kind {
	case tracker.StillOnline:
		n.logger.Info().
			Str("target", n.target).
			Int("outage_count", ev.OfflineCount).
			Dur("last_outage_duration", ev.LastOutageDuration).
			Dur("rtt", ev.Latency).
			Msg("online")
	case tracker.CameBackOnline:
		n.logger.Warn().
			Str("target", n.target).
			Str("outage_id", ev.OutageID).
			Int("outage_count", ev.OfflineCount).
			Dur("outage_duration", ev.OutageDuration).
			Int("failures", ev.FailureCount).
			Dur("rtt", ev.Latency).
			Msg("back online")
	case tracker.WentOffline, tracker.StillOffline:
		n.logger.Error().
			Str("target", n.target).
			Str("outage_id", ev.OutageID).
			Int("outage_count", ev.OfflineCount).
			Dur("current_outage_duration", ev.OutageDuration).
			Int("failures", ev.FailureCount).
			Msg("offline")
	}
}

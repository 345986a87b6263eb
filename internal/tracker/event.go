package tracker

import "time"

// EventKind classifies a probe relative to the previous state.
type EventKind int

const (
	StillOnline EventKind = iota
	WentOffline
	StillOffline
	CameBackOnline
)

var eventKindNames = map[EventKind]string{
	StillOnline:    "still_online",
	WentOffline:    "went_offline",
	StillOffline:   "still_offline",
	CameBackOnline: "came_back_online",
}

func (k EventKind) String() string {
	if name, ok := eventKindNames[k]; ok {
		return name
	}
	return "unknown"
}

// Event is the outcome of one RecordProbe call.
//
// Latency is set for StillOnline and CameBackOnline. OutageDuration is the
// current outage length for WentOffline/StillOffline and the final length for
// CameBackOnline. FailureCount is the failure count of the current (or just
// closed) outage.
type Event struct {
	Kind               EventKind
	At                 time.Time
	Latency            time.Duration
	OutageID           string
	OutageDuration     time.Duration
	FailureCount       int
	OfflineCount       int
	LastOutageDuration time.Duration
}

// Offline reports whether the tracker is offline after this event.
func (e Event) Offline() bool {
	return e.Kind == WentOffline || e.Kind == StillOffline
}

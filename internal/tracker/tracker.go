package tracker

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Status is a point-in-time copy of the tracker's scalar state.
type Status struct {
	Offline            bool
	OfflineCount       int
	LastLatency        time.Duration
	LastProbeAt        time.Time
	LastOutageDuration time.Duration
	OutageStart        time.Time // zero while online
	Probes             int
	Failures           int
}

// Tracker is the outage state machine. One goroutine records probes; any
// number of goroutines may read snapshots.
type Tracker struct {
	mu      sync.RWMutex
	status  Status
	history []OutageRecord

	now   func() time.Time
	newID func() string
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(t *Tracker) { t.now = now }
}

// WithIDGenerator overrides the outage ID source.
func WithIDGenerator(gen func() string) Option {
	return func(t *Tracker) { t.newID = gen }
}

// New returns an online tracker with empty history.
func New(opts ...Option) *Tracker {
	t := &Tracker{
		now:   time.Now,
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// RecordProbe applies one probe result and returns the resulting event.
// latency is ignored when success is false.
func (t *Tracker) RecordProbe(success bool, latency time.Duration) Event {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	t.status.Probes++
	t.status.LastProbeAt = now

	if success {
		t.status.LastLatency = latency
		if !t.status.Offline {
			return Event{
				Kind:               StillOnline,
				At:                 now,
				Latency:            latency,
				OfflineCount:       t.status.OfflineCount,
				LastOutageDuration: t.status.LastOutageDuration,
			}
		}

		current := &t.history[len(t.history)-1]
		end := now
		current.End = &end
		duration := current.Duration(now)
		t.status.Offline = false
		t.status.OutageStart = time.Time{}
		t.status.LastOutageDuration = duration
		return Event{
			Kind:               CameBackOnline,
			At:                 now,
			Latency:            latency,
			OutageID:           current.ID,
			OutageDuration:     duration,
			FailureCount:       current.FailureCount,
			OfflineCount:       t.status.OfflineCount,
			LastOutageDuration: duration,
		}
	}

	t.status.Failures++
	if !t.status.Offline {
		t.status.Offline = true
		t.status.OfflineCount++
		t.status.OutageStart = now
		t.history = append(t.history, OutageRecord{
			ID:           t.newID(),
			Start:        now,
			FailureCount: 1,
		})
		return Event{
			Kind:               WentOffline,
			At:                 now,
			OutageID:           t.history[len(t.history)-1].ID,
			FailureCount:       1,
			OfflineCount:       t.status.OfflineCount,
			LastOutageDuration: t.status.LastOutageDuration,
		}
	}

	current := &t.history[len(t.history)-1]
	current.FailureCount++
	return Event{
		Kind:               StillOffline,
		At:                 now,
		OutageID:           current.ID,
		OutageDuration:     current.Duration(now),
		FailureCount:       current.FailureCount,
		OfflineCount:       t.status.OfflineCount,
		LastOutageDuration: t.status.LastOutageDuration,
	}
}

// SnapshotHistory returns a deep copy of the outage history in start order.
func (t *Tracker) SnapshotHistory() []OutageRecord {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make([]OutageRecord, len(t.history))
	for i, rec := range t.history {
		out[i] = rec.clone()
	}
	return out
}

// Status returns a copy of the current scalar state.
func (t *Tracker) Status() Status {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.status
}

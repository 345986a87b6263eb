// Package notify turns tracker events into log lines, bells and metrics.
package notify

import "github.com/doridoridoriand/uptime-go/internal/tracker"

// Notifier receives every event produced by the tracker.
type Notifier interface {
	Notify(ev tracker.Event)
}

// Func adapts a function to Notifier.
type Func func(ev tracker.Event)

// Notify calls f(ev).
func (f Func) Notify(ev tracker.Event) {
	f(ev)
}

// Multi fans an event out to several notifiers in order.
type Multi []Notifier

// Notify forwards ev to each non-nil notifier in order.
func (m Multi) Notify(ev tracker.Event) {
	for _, n := range m {
		if n != nil {
			n.Notify(ev)
		}
	}
}

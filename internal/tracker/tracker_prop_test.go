//go:build property

package tracker

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func replay(probes []bool) *Tracker {
	tr := New(WithClock(newStepClock().Now), WithIDGenerator(seqIDs()))
	for _, ok := range probes {
		tr.RecordProbe(ok, time.Millisecond)
	}
	return tr
}

func TestPropertyOfflineCountMatchesTransitions(t *testing.T) {
	props := gopter.NewProperties(nil)

	props.Property("offline count equals online->offline transitions", prop.ForAll(
		func(probes []bool) bool {
			tr := replay(probes)
			want := 0
			online := true
			for _, ok := range probes {
				if online && !ok {
					want++
				}
				online = ok
			}
			return tr.Status().OfflineCount == want && len(tr.SnapshotHistory()) == want
		},
		gen.SliceOf(gen.Bool()),
	))

	props.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestPropertyOngoingIffOffline(t *testing.T) {
	props := gopter.NewProperties(nil)

	props.Property("exactly one ongoing record iff offline", prop.ForAll(
		func(probes []bool) bool {
			tr := replay(probes)
			ongoing := 0
			for _, rec := range tr.SnapshotHistory() {
				if rec.Ongoing() {
					ongoing++
				}
			}
			if tr.Status().Offline {
				return ongoing == 1
			}
			return ongoing == 0
		},
		gen.SliceOf(gen.Bool()),
	))

	props.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestPropertyFailureCountsMatchRuns(t *testing.T) {
	props := gopter.NewProperties(nil)

	props.Property("failure counts equal lengths of failed runs", prop.ForAll(
		func(probes []bool) bool {
			var runs []int
			run := 0
			for _, ok := range probes {
				if !ok {
					run++
					continue
				}
				if run > 0 {
					runs = append(runs, run)
				}
				run = 0
			}
			if run > 0 {
				runs = append(runs, run)
			}

			history := replay(probes).SnapshotHistory()
			if len(history) != len(runs) {
				return false
			}
			for i, rec := range history {
				if rec.FailureCount != runs[i] {
					return false
				}
				if i > 0 && rec.Start.Before(history[i-1].Start) {
					return false
				}
			}
			return true
		},
		gen.SliceOf(gen.Bool()),
	))

	props.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestPropertySnapshotIdempotent(t *testing.T) {
	props := gopter.NewProperties(nil)

	props.Property("two snapshots without probes are identical", prop.ForAll(
		func(probes []bool) bool {
			tr := replay(probes)
			return cmp.Equal(tr.SnapshotHistory(), tr.SnapshotHistory())
		},
		gen.SliceOf(gen.Bool()),
	))

	props.TestingRun(t, gopter.ConsoleReporter(false))
}

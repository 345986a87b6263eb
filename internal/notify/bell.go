package notify

import (
	"io"
	"time"

	"github.com/doridoridoriand/uptime-go/internal/tracker"
)

// Beeper makes one audible beep.
type Beeper interface {
	Beep() error
}

// TerminalBeeper rings the terminal bell by writing BEL to W.
type TerminalBeeper struct {
	W io.Writer
}

// Beep writes one BEL character.
func (b TerminalBeeper) Beep() error {
	_, err := b.W.Write([]byte{'\a'})
	return err
}

const (
	offlineBeeps = 2
	onlineBeeps  = 1
	defaultGap   = 150 * time.Millisecond
)

// BellNotifier sounds a pattern when the target goes offline and again when
// it comes back. The offline pattern plays once the outage reaches after
// failed probes; the online pattern plays only for outages that reached it.
type BellNotifier struct {
	beeper Beeper
	after  int
	gap    time.Duration
	sleep  func(time.Duration)
}

// NewBellNotifier returns a bell notifier with the given alert threshold.
func NewBellNotifier(beeper Beeper, after int) *BellNotifier {
	if after < 1 {
		after = 1
	}
	return &BellNotifier{beeper: beeper, after: after, gap: defaultGap, sleep: time.Sleep}
}

// Notify plays the offline or back-online pattern when ev crosses the threshold.
func (n *BellNotifier) Notify(ev tracker.Event) {
	switch ev.Kind {
	case tracker.WentOffline, tracker.StillOffline:
		if ev.FailureCount == n.after {
			n.play(offlineBeeps)
		}
	case tracker.CameBackOnline:
		if ev.FailureCount >= n.after {
			n.play(onlineBeeps)
		}
	}
}

// Greet plays both patterns once so the operator can check the sound works.
func (n *BellNotifier) Greet() {
	n.play(offlineBeeps)
	n.sleep(n.gap)
	n.play(onlineBeeps)
}

func (n *BellNotifier) play(count int) {
	for i := 0; i < count; i++ {
		if i > 0 {
			n.sleep(n.gap)
		}
		if err := n.beeper.Beep(); err != nil {
			return
		}
	}
}

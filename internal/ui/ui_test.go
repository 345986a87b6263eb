package ui

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/doridoridoriand/uptime-go/internal/report"
	"github.com/doridoridoriand/uptime-go/internal/tracker"
)

func styledRunesToString(parts []styledRune) string {
	var b strings.Builder
	for _, part := range parts {
		b.WriteString(string(part.r))
	}
	return b.String()
}

var base = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

type fakeSource struct {
	mu      sync.Mutex
	history []tracker.OutageRecord
	status  tracker.Status
	reads   int
}

func (f *fakeSource) SnapshotHistory() []tracker.OutageRecord {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reads++
	return append([]tracker.OutageRecord(nil), f.history...)
}

func (f *fakeSource) Status() tracker.Status {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.status
}

func TestFormatRowOngoing(t *testing.T) {
	row := report.Row{Start: base, Duration: 90 * time.Second, FailureCount: 3, Bar: 5}
	line := styledRunesToString(formatRow(120, row, 12))

	if !strings.Contains(line, "2024-03-01 12:00:00") {
		t.Fatalf("expected start timestamp, got %q", line)
	}
	if !strings.Contains(line, report.OngoingLabel) {
		t.Fatalf("expected ongoing label, got %q", line)
	}
	if !strings.Contains(line, "0:01:30") {
		t.Fatalf("expected duration, got %q", line)
	}
	if !strings.HasSuffix(line, " 3 #####") {
		t.Fatalf("expected padded count and bar at end, got %q", line)
	}
}

func TestFormatRowTrimsToWidth(t *testing.T) {
	end := base.Add(time.Second)
	row := report.Row{Start: base, End: &end, Duration: time.Second, FailureCount: 1, Bar: 40}
	line := styledRunesToString(formatRow(30, row, 1))
	if len([]rune(line)) != 30 {
		t.Fatalf("expected line trimmed to 30 runes, got %d: %q", len([]rune(line)), line)
	}
}

func TestFormatStatusLine(t *testing.T) {
	waiting := styledRunesToString(formatStatusLine(tracker.Status{}, base))
	if !strings.Contains(waiting, "WAITING") {
		t.Fatalf("expected waiting status, got %q", waiting)
	}

	online := styledRunesToString(formatStatusLine(tracker.Status{
		Probes: 1200, Failures: 3, OfflineCount: 2, LastLatency: 15 * time.Millisecond,
	}, base))
	for _, want := range []string{"ONLINE", "RTT:15ms", "outages=2", "failed=3/1,200"} {
		if !strings.Contains(online, want) {
			t.Fatalf("expected %q in %q", want, online)
		}
	}

	offline := styledRunesToString(formatStatusLine(tracker.Status{
		Probes: 5, Failures: 2, Offline: true, OfflineCount: 1, OutageStart: base.Add(-2 * time.Minute),
	}, base))
	for _, want := range []string{"OFFLINE", "2 minutes ago", "0:02:00"} {
		if !strings.Contains(offline, want) {
			t.Fatalf("expected %q in %q", want, offline)
		}
	}
}

func TestFormatRTT(t *testing.T) {
	cases := map[time.Duration]string{
		0:                       "-",
		500 * time.Microsecond:  "500us",
		25 * time.Millisecond:   "25ms",
		1500 * time.Millisecond: "1.5s",
	}
	for in, want := range cases {
		if got := formatRTT(in); got != want {
			t.Fatalf("formatRTT(%v) = %q, want %q", in, got, want)
		}
	}
}

func TestPadOrTrim(t *testing.T) {
	if padOrTrim("abc", 5) != "abc  " || padOrTrim("abcdef", 3) != "abc" || padOrTrim("abc", 0) != "" {
		t.Fatalf("padOrTrim returned unexpected result")
	}
}

func TestBeepWithoutScreen(t *testing.T) {
	u := New(Settings{}, &fakeSource{})
	if err := u.Beep(); !errors.Is(err, ErrNoScreen) {
		t.Fatalf("expected ErrNoScreen, got %v", err)
	}
}

func screenText(screen tcell.SimulationScreen) string {
	cells, width, _ := screen.GetContents()
	var b strings.Builder
	for i, cell := range cells {
		if i > 0 && i%width == 0 {
			b.WriteByte('\n')
		}
		if len(cell.Runes) > 0 {
			b.WriteRune(cell.Runes[0])
		} else {
			b.WriteByte(' ')
		}
	}
	return b.String()
}

func waitUntil(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", what)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestRunRendersReportOnKeypress(t *testing.T) {
	end := base.Add(2 * time.Second)
	source := &fakeSource{
		history: []tracker.OutageRecord{
			{ID: "a", Start: base, End: &end, FailureCount: 1},
			{ID: "b", Start: base.Add(time.Minute), FailureCount: 4},
		},
		status: tracker.Status{Probes: 10, Failures: 5, Offline: true, OfflineCount: 2, OutageStart: base.Add(time.Minute)},
	}
	var u *UI
	readyBeeps := make(chan error, 1)
	u = New(Settings{
		Target:   "192.0.2.1",
		Interval: time.Second,
		Timeout:  500 * time.Millisecond,
		Scale:    8,
		OnReady:  func() { readyBeeps <- u.Beep() },
	}, source)
	u.now = func() time.Time { return base.Add(2 * time.Minute) }

	screen := tcell.NewSimulationScreen("")
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- u.run(ctx, screen) }()

	select {
	case err := <-readyBeeps:
		if err != nil {
			t.Fatalf("expected beep to work once ready, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("OnReady was not called")
	}
	screen.InjectKey(tcell.KeyRune, 'r', tcell.ModNone)
	waitUntil(t, "report", func() bool { return u.currentReport() != nil })

	rep := u.currentReport()
	if len(rep.Rows) != 2 || rep.Rows[1].Bar != 8 || rep.Rows[0].Bar != 2 {
		t.Fatalf("unexpected report: %+v", rep)
	}

	waitUntil(t, "report on screen", func() bool {
		return strings.Contains(screenText(screen), "Target 192.0.2.1 pinged")
	})
	text := screenText(screen)
	for _, want := range []string{"Outage Report", "Ongoing", "########", "OFFLINE"} {
		if !strings.Contains(text, want) {
			t.Fatalf("expected %q on screen:\n%s", want, text)
		}
	}

	screen.InjectKey(tcell.KeyRune, 'q', tcell.ModNone)
	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context.Canceled on quit, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("UI did not quit")
	}
}

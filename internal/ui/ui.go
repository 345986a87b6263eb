package ui

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gdamore/tcell/v2"

	"github.com/doridoridoriand/uptime-go/internal/report"
	"github.com/doridoridoriand/uptime-go/internal/tracker"
)

const (
	uiRefreshInterval = 500 * time.Millisecond
	reportTop         = 4
)

// ErrNoScreen is returned by Beep before the screen is initialized.
var ErrNoScreen = errors.New("screen not initialized")

// Source provides the data the UI displays.
type Source interface {
	SnapshotHistory() []tracker.OutageRecord
	Status() tracker.Status
}

// Settings are the probe settings shown in the header.
type Settings struct {
	Target   string
	Interval time.Duration
	Timeout  time.Duration
	Scale    int

	// OnReady, if set, runs once the screen is initialised and Beep works.
	OnReady func()
}

// UI renders a live status header and, on keypress, the outage report.
type UI struct {
	cfg    Settings
	source Source
	now    func() time.Time

	mu     sync.Mutex
	screen tcell.Screen
	report *report.Report
}

// New returns a UI instance.
func New(cfg Settings, source Source) *UI {
	return &UI{cfg: cfg, source: source, now: time.Now}
}

// Beep rings the terminal bell through the active screen.
func (u *UI) Beep() error {
	u.mu.Lock()
	screen := u.screen
	u.mu.Unlock()
	if screen == nil {
		return ErrNoScreen
	}
	return screen.Beep()
}

// Run blocks until the context is cancelled or the user quits. Any key other
// than q or Ctrl-C takes a fresh history snapshot and renders the report.
func (u *UI) Run(ctx context.Context) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	return u.run(ctx, screen)
}

func (u *UI) run(ctx context.Context, screen tcell.Screen) error {
	if err := screen.Init(); err != nil {
		return err
	}
	screen.HideCursor()
	u.mu.Lock()
	u.screen = screen
	u.mu.Unlock()
	defer func() {
		u.mu.Lock()
		u.screen = nil
		u.mu.Unlock()
		screen.Fini()
	}()
	if u.cfg.OnReady != nil {
		u.cfg.OnReady()
	}

	eventCh := make(chan tcell.Event, 1)
	go func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case eventCh <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()

	ticker := time.NewTicker(uiRefreshInterval)
	defer ticker.Stop()

	u.render(screen)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev := <-eventCh:
			switch ev := ev.(type) {
			case *tcell.EventKey:
				if ev.Key() == tcell.KeyCtrlC || ev.Rune() == 'q' {
					return context.Canceled
				}
				u.refreshReport()
				u.render(screen)
			case *tcell.EventResize:
				screen.Sync()
				u.render(screen)
			}
		case <-ticker.C:
			u.render(screen)
		}
	}
}

func (u *UI) refreshReport() {
	rep := report.Build(u.source.SnapshotHistory(), u.now(), u.cfg.Scale)
	u.mu.Lock()
	u.report = &rep
	u.mu.Unlock()
}

func (u *UI) currentReport() *report.Report {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.report
}

func (u *UI) render(screen tcell.Screen) {
	screen.Clear()
	width, height := screen.Size()
	if width < 20 || height < 5 {
		screen.Show()
		return
	}

	now := u.now()
	header := fmt.Sprintf(" uptime-go  %s  (any key: report, q: quit)", now.Format(report.TimeLayout))
	drawText(screen, 0, 0, width, header, tcell.StyleDefault.Bold(true))
	drawText(screen, 0, 1, width, formatConfigInfo(u.cfg), tcell.StyleDefault.Foreground(tcell.ColorGray))
	drawStyledText(screen, 0, 2, width, formatStatusLine(u.source.Status(), now))

	rep := u.currentReport()
	if rep == nil {
		drawText(screen, 1, reportTop, width-1, "Press any key to render the outage report.", tcell.StyleDefault)
		screen.Show()
		return
	}
	u.drawReportBox(screen, 0, reportTop, width, height-reportTop, *rep)
	screen.Show()
}

func (u *UI) drawReportBox(screen tcell.Screen, x, y, width, height int, rep report.Report) {
	boxHeight := len(rep.Rows) + 4
	if rep.Empty() {
		boxHeight = 3
	}
	if boxHeight > height {
		boxHeight = height
	}
	drawBox(screen, x, y, width, boxHeight)
	title := fmt.Sprintf(" %s (%s) ", report.Title, rep.GeneratedAt.Format("15:04:05"))
	drawText(screen, x+2, y, width-4, title, tcell.StyleDefault.Bold(true))
	if boxHeight <= 2 {
		return
	}

	inner := width - 2
	if rep.Empty() {
		drawText(screen, x+1, y+1, inner, report.EmptyMessage, tcell.StyleDefault)
		return
	}

	drawStyledText(screen, x+1, y+1, inner, formatHeaderLine(inner))
	maxRows := max(0, boxHeight-4)
	// Keep the most recent rows (the ongoing outage sorts last) when the box is too short.
	rows := rep.Rows
	if len(rows) > maxRows {
		rows = rows[len(rows)-maxRows:]
	}
	for i, row := range rows {
		drawStyledText(screen, x+1, y+2+i, inner, formatRow(inner, row, rep.MaxFailures))
	}
	caption := report.Caption(u.cfg.Target, u.cfg.Interval, u.cfg.Timeout)
	drawText(screen, x+1, y+boxHeight-2, inner, caption, tcell.StyleDefault.Foreground(tcell.ColorGray))
}

const (
	colTime     = 20
	colDuration = 16
)

func formatHeaderLine(width int) []styledRune {
	bold := tcell.StyleDefault.Bold(true)
	parts := []styledText{
		{text: padOrTrim("Outage Start", colTime), style: bold},
		{text: " ", style: tcell.StyleDefault},
		{text: padOrTrim("Outage End", colTime), style: bold},
		{text: " ", style: tcell.StyleDefault},
		{text: padOrTrim("Outage Duration", colDuration), style: bold},
		{text: " ", style: tcell.StyleDefault},
		{text: "Ping Failures", style: bold},
	}
	return flattenStyledText(parts, width)
}

func formatRow(width int, row report.Row, maxFailures int) []styledRune {
	style := tcell.StyleDefault
	barStyle := tcell.StyleDefault.Foreground(tcell.ColorRed)
	if row.Ongoing() {
		style = tcell.StyleDefault.Foreground(tcell.ColorOrange)
		barStyle = style
	}

	count := strconv.Itoa(row.FailureCount)
	countWidth := len(strconv.Itoa(maxFailures))
	if len(count) < countWidth {
		count = strings.Repeat(" ", countWidth-len(count)) + count
	}

	parts := []styledText{
		{text: padOrTrim(row.Start.Format(report.TimeLayout), colTime), style: style},
		{text: " ", style: tcell.StyleDefault},
		{text: padOrTrim(report.FormatEnd(row), colTime), style: style},
		{text: " ", style: tcell.StyleDefault},
		{text: padOrTrim(report.FormatDuration(row.Duration), colDuration), style: style},
		{text: " ", style: tcell.StyleDefault},
		{text: count + " ", style: style},
		{text: report.Bar(row), style: barStyle},
	}
	return flattenStyledText(parts, width)
}

func formatStatusLine(status tracker.Status, now time.Time) []styledRune {
	if status.Probes == 0 {
		return []styledRune{{r: []rune(" WAITING for first probe"), style: tcell.StyleDefault.Foreground(tcell.ColorGray)}}
	}

	var parts []styledText
	if status.Offline {
		parts = append(parts,
			styledText{text: " OFFLINE", style: tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true)},
			styledText{text: fmt.Sprintf("  since %s (%s)",
				humanize.RelTime(status.OutageStart, now, "ago", "from now"),
				report.FormatDuration(now.Sub(status.OutageStart))), style: tcell.StyleDefault},
		)
	} else {
		parts = append(parts,
			styledText{text: " ONLINE", style: tcell.StyleDefault.Foreground(tcell.ColorGreen).Bold(true)},
			styledText{text: "  RTT:" + formatRTT(status.LastLatency), style: tcell.StyleDefault},
		)
	}
	parts = append(parts, styledText{
		text: fmt.Sprintf("  outages=%s  failed=%s/%s  last outage=%s",
			humanize.Comma(int64(status.OfflineCount)),
			humanize.Comma(int64(status.Failures)),
			humanize.Comma(int64(status.Probes)),
			report.FormatDuration(status.LastOutageDuration)),
		style: tcell.StyleDefault,
	})

	out := make([]styledRune, 0, len(parts))
	for _, p := range parts {
		out = append(out, styledRune{r: []rune(p.text), style: p.style})
	}
	return out
}

func drawBox(screen tcell.Screen, x, y, width, height int) {
	if width < 2 || height < 2 {
		return
	}
	right := x + width - 1
	bottom := y + height - 1

	setCell(screen, x, y, '+', tcell.StyleDefault)
	setCell(screen, right, y, '+', tcell.StyleDefault)
	setCell(screen, x, bottom, '+', tcell.StyleDefault)
	setCell(screen, right, bottom, '+', tcell.StyleDefault)

	for col := x + 1; col < right; col++ {
		setCell(screen, col, y, '-', tcell.StyleDefault)
		setCell(screen, col, bottom, '-', tcell.StyleDefault)
	}
	for row := y + 1; row < bottom; row++ {
		setCell(screen, x, row, '|', tcell.StyleDefault)
		setCell(screen, right, row, '|', tcell.StyleDefault)
	}
}

func drawText(screen tcell.Screen, x, y, width int, text string, style tcell.Style) {
	drawStyledText(screen, x, y, width, []styledRune{{r: []rune(text), style: style}})
}

type styledText struct {
	text  string
	style tcell.Style
}

type styledRune struct {
	r     []rune
	style tcell.Style
}

func drawStyledText(screen tcell.Screen, x, y, width int, parts []styledRune) {
	if width <= 0 {
		return
	}
	col := x
	for _, part := range parts {
		for _, r := range part.r {
			if col >= x+width {
				return
			}
			setCell(screen, col, y, r, part.style)
			col++
		}
	}
	for col < x+width {
		setCell(screen, col, y, ' ', tcell.StyleDefault)
		col++
	}
}

func flattenStyledText(parts []styledText, width int) []styledRune {
	result := make([]styledRune, 0, len(parts))
	used := 0
	for _, part := range parts {
		runes := []rune(part.text)
		if used+len(runes) > width {
			runes = runes[:max(0, width-used)]
		}
		result = append(result, styledRune{r: runes, style: part.style})
		used += len(runes)
		if used >= width {
			break
		}
	}
	return result
}

func setCell(screen tcell.Screen, x, y int, r rune, style tcell.Style) {
	screen.SetContent(x, y, r, nil, style)
}

func padOrTrim(value string, width int) string {
	if width <= 0 {
		return ""
	}
	runes := []rune(value)
	if len(runes) > width {
		return string(runes[:width])
	}
	if len(runes) < width {
		return value + strings.Repeat(" ", width-len(runes))
	}
	return value
}

func formatRTT(rtt time.Duration) string {
	if rtt <= 0 {
		return "-"
	}
	if rtt < time.Millisecond {
		return fmt.Sprintf("%dus", rtt.Microseconds())
	}
	if rtt < time.Second {
		return fmt.Sprintf("%dms", rtt.Milliseconds())
	}
	return fmt.Sprintf("%.1fs", rtt.Seconds())
}

func formatConfigInfo(cfg Settings) string {
	return fmt.Sprintf(" target=%s  interval=%dms  timeout=%dms  scale=%d",
		cfg.Target, cfg.Interval.Milliseconds(), cfg.Timeout.Milliseconds(), cfg.Scale)
}

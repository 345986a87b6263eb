// Package report turns an outage history snapshot into a table of rows with
// proportional failure bars, and renders it as text.
package report

import (
	"fmt"
	"sort"
	"time"

	"github.com/doridoridoriand/uptime-go/internal/tracker"
)

// Row is one rendered outage.
type Row struct {
	ID           string
	Start        time.Time
	End          *time.Time
	Duration     time.Duration
	FailureCount int
	Bar          int
}

// Ongoing reports whether the row's outage has not ended.
func (r Row) Ongoing() bool {
	return r.End == nil
}

// Report is a rendered view of the outage history at one instant.
type Report struct {
	GeneratedAt time.Time
	Scale       int
	MaxFailures int
	Rows        []Row
}

// Empty reports whether no outage has been observed.
func (r Report) Empty() bool {
	return len(r.Rows) == 0
}

// Build orders history by end time, ongoing outages last, and sizes each bar
// as FailureCount*scale/max(FailureCount).
func Build(history []tracker.OutageRecord, now time.Time, scale int) Report {
	rep := Report{GeneratedAt: now, Scale: scale}
	if len(history) == 0 {
		return rep
	}

	records := make([]tracker.OutageRecord, len(history))
	copy(records, history)
	sort.SliceStable(records, func(i, j int) bool {
		return tracker.EndsBefore(records[i], records[j])
	})

	for _, rec := range records {
		if rec.FailureCount > rep.MaxFailures {
			rep.MaxFailures = rec.FailureCount
		}
	}

	rep.Rows = make([]Row, 0, len(records))
	for _, rec := range records {
		rep.Rows = append(rep.Rows, Row{
			ID:           rec.ID,
			Start:        rec.Start,
			End:          rec.End,
			Duration:     rec.Duration(now),
			FailureCount: rec.FailureCount,
			Bar:          barLength(rec.FailureCount, scale, rep.MaxFailures),
		})
	}
	return rep
}

func barLength(count, scale, maxCount int) int {
	if maxCount <= 0 || scale <= 0 {
		return 0
	}
	return count * scale / maxCount
}

// FormatDuration renders d as h:mm:ss, with milliseconds below one minute.
func FormatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	d = d.Round(time.Millisecond)
	if d < time.Minute {
		return fmt.Sprintf("%.3fs", d.Seconds())
	}
	d = d.Round(time.Second)
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second
	return fmt.Sprintf("%d:%02d:%02d", h, m, s)
}

package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"
)

const (
	// TimeLayout is used for outage start and end timestamps.
	TimeLayout = "2006-01-02 15:04:05"
	// OngoingLabel replaces the end timestamp of an outage still in progress.
	OngoingLabel = "Ongoing"
	// EmptyMessage is printed when no outage has been observed.
	EmptyMessage = "No outages have been observed."
	Title        = "Outage Report"
)

// Caption describes the probe settings under the report.
func Caption(target string, interval, timeout time.Duration) string {
	return fmt.Sprintf("Target %s pinged at a rate of %dms with a timeout of %dms.",
		target, interval.Milliseconds(), timeout.Milliseconds())
}

// FormatEnd returns the end column for row.
func FormatEnd(row Row) string {
	if row.Ongoing() {
		return OngoingLabel
	}
	return row.End.Format(TimeLayout)
}

// Bar returns the bar cell for row.
func Bar(row Row) string {
	return strings.Repeat("#", row.Bar)
}

// WriteText renders rep as a plain text table followed by caption.
func WriteText(w io.Writer, rep Report, caption string) error {
	if rep.Empty() {
		_, err := fmt.Fprintln(w, EmptyMessage)
		return err
	}

	if _, err := fmt.Fprintln(w, Title); err != nil {
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "Outage Start\tOutage End\tOutage Duration\tPing Failures\t")
	for _, row := range rep.Rows {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s %s\t\n",
			row.Start.Format(TimeLayout),
			FormatEnd(row),
			FormatDuration(row.Duration),
			padLeft(strconv.Itoa(row.FailureCount), len(strconv.Itoa(rep.MaxFailures))),
			Bar(row),
		)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	if caption == "" {
		return nil
	}
	_, err := fmt.Fprintln(w, caption)
	return err
}

func padLeft(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return strings.Repeat(" ", width-len(s)) + s
}

package main

import (
	"bufio"
	"context"
	"io"
	"time"

	"github.com/doridoridoriand/uptime-go/internal/report"
	"github.com/doridoridoriand/uptime-go/internal/tracker"
)

type historySource interface {
	SnapshotHistory() []tracker.OutageRecord
}

// runConsole prints one report to out for every line read from in, until ctx
// is cancelled. End of input only stops the reporting, not the monitor.
func runConsole(ctx context.Context, in io.Reader, out io.Writer, source historySource, scale int, caption string) error {
	lines := make(chan struct{})
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- struct{}{}:
			case <-ctx.Done():
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case _, ok := <-lines:
			if !ok {
				lines = nil
				continue
			}
			rep := report.Build(source.SnapshotHistory(), time.Now(), scale)
			if err := report.WriteText(out, rep, caption); err != nil {
				return err
			}
		}
	}
}

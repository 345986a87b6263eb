package scheduler

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/doridoridoriand/uptime-go/internal/notify"
	"github.com/doridoridoriand/uptime-go/internal/ping"
	"github.com/doridoridoriand/uptime-go/internal/tracker"
)

// ErrAlreadyRunning is returned by Run when the loop is already active.
var ErrAlreadyRunning = errors.New("scheduler already running")

// Prober performs one reachability check.
type Prober interface {
	Probe(ctx context.Context) ping.Result
}

// Recorder consumes probe results.
type Recorder interface {
	RecordProbe(success bool, latency time.Duration) tracker.Event
}

// Scheduler drives the prober at a fixed delay and feeds the tracker.
type Scheduler struct {
	mu       sync.Mutex
	prober   Prober
	recorder Recorder
	notifier notify.Notifier
	interval time.Duration
	logger   zerolog.Logger
	cancel   context.CancelFunc
}

// New constructs a scheduler. notifier may be nil.
func New(prober Prober, recorder Recorder, notifier notify.Notifier, interval time.Duration, logger zerolog.Logger) *Scheduler {
	return &Scheduler{
		prober:   prober,
		recorder: recorder,
		notifier: notifier,
		interval: interval,
		logger:   logger,
	}
}

// Run probes immediately, then again interval after each probe completes,
// until ctx is cancelled or Stop is called.
func (s *Scheduler) Run(ctx context.Context) error {
	s.mu.Lock()
	if s.cancel != nil {
		s.mu.Unlock()
		return ErrAlreadyRunning
	}
	runCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.mu.Unlock()

	defer func() {
		cancel()
		s.mu.Lock()
		s.cancel = nil
		s.mu.Unlock()
	}()

	interval := s.interval
	if interval <= 0 {
		interval = time.Second
	}

	for {
		s.runOnce(runCtx)

		timer := time.NewTimer(interval)
		select {
		case <-runCtx.Done():
			timer.Stop()
			return runCtx.Err()
		case <-timer.C:
		}
	}
}

// Stop cancels a running loop.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	cancel := s.cancel
	s.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

func (s *Scheduler) runOnce(ctx context.Context) {
	result := s.prober.Probe(ctx)
	if ctx.Err() != nil {
		// Shutdown interrupted the probe; its failure says nothing about the target.
		return
	}
	if result.Error != nil {
		s.logger.Debug().Err(result.Error).Msg("probe failed")
	}

	ev := s.recorder.RecordProbe(result.Success, result.RTT)
	if s.notifier != nil {
		s.notifier.Notify(ev)
	}
}

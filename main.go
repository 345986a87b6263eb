package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/mattn/go-isatty"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"
	"github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"

	"github.com/doridoridoriand/uptime-go/internal/cli"
	"github.com/doridoridoriand/uptime-go/internal/config"
	ulog "github.com/doridoridoriand/uptime-go/internal/log"
	"github.com/doridoridoriand/uptime-go/internal/metrics"
	"github.com/doridoridoriand/uptime-go/internal/notify"
	"github.com/doridoridoriand/uptime-go/internal/ping"
	"github.com/doridoridoriand/uptime-go/internal/report"
	"github.com/doridoridoriand/uptime-go/internal/scheduler"
	"github.com/doridoridoriand/uptime-go/internal/tracker"
	"github.com/doridoridoriand/uptime-go/internal/ui"
)

var version = "0.1.0"

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	flags, fs, err := cli.Parse("uptime-go", args, os.Stderr)
	if err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return 0
		}
		fmt.Fprintf(os.Stderr, "invalid arguments: %v\n", err)
		return 2
	}
	if flags.ShowHelp {
		fmt.Fprintf(os.Stderr, "usage: uptime-go [options] [config-file]\n\nOptions:\n")
		fs.PrintDefaults()
		return 0
	}
	if flags.ShowVersion {
		fmt.Fprintf(os.Stdout, "uptime-go version %s\n", version)
		return 0
	}

	cfg, err := config.Load(flags.ConfigPath, flags.Overrides())
	if err != nil {
		ulog.LogConfigLoad(ulog.New(ulog.Options{Output: os.Stderr}), flags.ConfigPath, err)
		return 1
	}

	useUI := !cfg.UIDisable && isatty.IsTerminal(os.Stdout.Fd()) && isatty.IsTerminal(os.Stdin.Fd())

	logOut, closeLog, err := logOutput(cfg, useUI)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return 1
	}
	defer closeLog()
	logger := ulog.New(ulog.Options{Level: cfg.LogLevel, JSON: cfg.LogFormat == config.LogFormatJSON, Output: logOut})
	ulog.LogConfigLoad(logger, cfg.Path, nil)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := monitor(ctx, cfg, useUI, logger); err != nil && !errors.Is(err, context.Canceled) {
		ulog.LogError(logger, "monitor", err)
		fmt.Fprintf(os.Stderr, "uptime-go: %v\n", err)
		return 1
	}
	return 0
}

func logOutput(cfg *config.Config, useUI bool) (io.Writer, func(), error) {
	if cfg.LogFile != "" {
		f, err := ulog.OpenFile(cfg.LogFile)
		if err != nil {
			return nil, nil, err
		}
		return f, func() { _ = f.Close() }, nil
	}
	if useUI {
		// Log lines would overwrite the screen.
		return io.Discard, func() {}, nil
	}
	return os.Stderr, func() {}, nil
}

func monitor(ctx context.Context, cfg *config.Config, useUI bool, logger zerolog.Logger) error {
	pinger, err := ping.New(cfg.PingMethod, cfg.PingPrivileged)
	if err != nil {
		return err
	}
	if closer, ok := pinger.(interface{ Close() }); ok {
		defer closer.Close()
	}
	prober := ping.Prober{Pinger: pinger, Target: cfg.TargetHost, Timeout: cfg.Timeout}

	tr := tracker.New()
	caption := report.Caption(cfg.TargetHost, cfg.Interval, cfg.Timeout)

	var greet func()
	var screen *ui.UI
	if useUI {
		screen = ui.New(ui.Settings{
			Target:   cfg.TargetHost,
			Interval: cfg.Interval,
			Timeout:  cfg.Timeout,
			Scale:    cfg.ReportScale,
			OnReady: func() {
				if greet != nil {
					go greet()
				}
			},
		}, tr)
	}

	notifiers := notify.Multi{notify.NewLogNotifier(logger, cfg.TargetHost)}
	if cfg.AlertBell {
		var beeper notify.Beeper = notify.TerminalBeeper{W: os.Stderr}
		if screen != nil {
			beeper = screen
		}
		bell := notify.NewBellNotifier(beeper, cfg.AlertAfter)
		if cfg.AlertStartupBeep {
			greet = bell.Greet
		}
		notifiers = append(notifiers, bell)
	}
	if greet != nil && screen == nil {
		greet()
	}

	var srv *metrics.Server
	if cfg.HTTPListen != "" {
		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		notifiers = append(notifiers, metrics.NewCollector(reg, cfg.TargetHost))
		srv = metrics.NewServer(tr, reg, cfg.ReportScale, caption, logger)
	}

	sched := scheduler.New(prober, tr, notifiers, cfg.Interval, logger)
	logger.Info().
		Str("target", cfg.TargetHost).
		Dur("interval", cfg.Interval).
		Dur("timeout", cfg.Timeout).
		Str("ping_method", cfg.PingMethod).
		Msg("monitor started")

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return sched.Run(gctx) })
	if srv != nil {
		g.Go(func() error { return srv.Serve(gctx, cfg.HTTPListen) })
	}
	g.Go(func() error {
		if screen != nil {
			return screen.Run(gctx)
		}
		return runConsole(gctx, os.Stdin, os.Stdout, tr, cfg.ReportScale, caption)
	})
	return g.Wait()
}

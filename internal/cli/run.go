package cli

import (
	"context"
	stderrors "errors"
	"io"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rileyhilliard/sensorpanel/internal/config"
	"github.com/rileyhilliard/sensorpanel/internal/errors"
	"github.com/rileyhilliard/sensorpanel/internal/exporter"
	"github.com/rileyhilliard/sensorpanel/internal/logger"
	"github.com/rileyhilliard/sensorpanel/internal/panel"
	"github.com/rileyhilliard/sensorpanel/internal/poller"
	"github.com/rileyhilliard/sensorpanel/internal/sensor"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// panelOptions holds the root command's own flags.
type panelOptions struct {
	configPath string
	plain      bool
}

// panelCommand wires config, source, poller and the outputs, then blocks
// until the dashboard quits or the context is cancelled.
func panelCommand(cmd *cobra.Command, opts panelOptions) error {
	cfg, path, err := config.Resolve(opts.configPath, cmd.Flags())
	if err != nil {
		return err
	}

	log, closeLog, err := openLogger(cfg.Log)
	if err != nil {
		return err
	}
	defer closeLog()

	if path != "" {
		log.Info("config: %s", path)
	}

	src, err := sensor.Build(cfg, sensor.BuildOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if err := sensor.Close(src); err != nil {
			log.Warn("close source: %v", err)
		}
	}()
	log.Info("source: %s, interval %s", sensor.Describe(src), cfg.Interval)

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	pollOpts := []poller.Option{poller.WithLogger(logger.Named(log, "poller"))}

	if cfg.Metrics.Listen != "" {
		ln, err := exporter.Listen(cfg.Metrics.Listen)
		if err != nil {
			return err
		}
		exp := exporter.New(logger.Named(log, "exporter"))
		pollOpts = append(pollOpts, poller.WithSink(exp.Observe))

		served := make(chan struct{})
		defer func() {
			cancel()
			<-served
		}()
		go func() {
			defer close(served)
			if err := exp.Serve(ctx, ln); err != nil {
				log.Error("metrics server: %v", err)
			}
		}()
		log.Info("metrics: http://%s/metrics", ln.Addr())
	}

	out := cmd.OutOrStdout()
	if opts.plain || !isTerminal(out) {
		return runPlain(ctx, out, src, cfg.Interval, pollOpts...)
	}
	return runDashboard(ctx, src, cfg.Interval, pollOpts...)
}

// openLogger returns a file logger when a log file is configured and a
// no-op logger otherwise. The dashboard owns the terminal, so nothing is
// logged to stdout or stderr.
func openLogger(cfg config.LogConfig) (logger.Logger, func(), error) {
	if cfg.File == "" {
		return logger.Noop(), func() {}, nil
	}
	log, closeFn, err := logger.NewFileLogger(cfg.File, cfg.Debug)
	if err != nil {
		return nil, nil, errors.WrapWithCode(err, errors.ErrConfig,
			"Can't open log file "+cfg.File,
			"Check the directory exists and is writable, or drop --log-file")
	}
	return log, closeFn, nil
}

// runDashboard drives the Bubble Tea panel. The poller runs in its own
// goroutine and sends results into the program.
func runDashboard(ctx context.Context, src sensor.Source, interval time.Duration, opts ...poller.Option) error {
	var pl *poller.Poller

	model := panel.New(sensor.Describe(src), panel.WithRefresh(func() { pl.Trigger() }))
	prog := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	pl, err := poller.New(src, interval, append(opts, poller.WithSink(panel.Sink(prog)))...)
	if err != nil {
		return err
	}

	pollCtx, stopPoll := context.WithCancel(ctx)
	done := make(chan error, 1)
	go func() { done <- pl.Run(pollCtx) }()

	_, runErr := prog.Run()
	stopPoll()
	<-done

	if runErr != nil {
		if stderrors.Is(runErr, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		return errors.WrapWithCode(runErr, errors.ErrExec,
			"Dashboard failed",
			"Try --plain if the terminal doesn't support full-screen mode")
	}
	return nil
}

// runPlain prints one line per poll until ctx is cancelled.
func runPlain(ctx context.Context, w io.Writer, src sensor.Source, interval time.Duration, opts ...poller.Option) error {
	pl, err := poller.New(src, interval, append(opts, poller.WithSink(plainSink(w)))...)
	if err != nil {
		return err
	}
	// Run returns ctx.Err() once the context ends, whether by cancel or deadline.
	if err := pl.Run(ctx); err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

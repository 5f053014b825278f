// Package poller drives a sensor.Source on a fixed interval and hands every
// snapshot, or the error that replaced it, to a set of sinks.
//
// The poller's Run goroutine is the only caller of the source, so sources
// need no locking. Sinks run on that goroutine too and must not block for
// long; a sink that feeds a UI should hand the Result off (tea.Program.Send
// does).
package poller

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/rileyhilliard/sensorpanel/internal/errors"
	"github.com/rileyhilliard/sensorpanel/internal/logger"
	"github.com/rileyhilliard/sensorpanel/internal/sensor"
)

// MinInterval is the shortest refresh period accepted.
const MinInterval = 100 * time.Millisecond

// Result is the outcome of one Initial or Refresh call.
// Exactly one of Readings or Err is meaningful.
type Result struct {
	Readings []sensor.Reading
	Err      error
	At       time.Time
	// Initial marks the startup snapshot.
	Initial bool
}

// OK reports whether the call succeeded.
func (r Result) OK() bool {
	return r.Err == nil
}

// Sink receives results. Readings must be treated as read-only; every sink
// sees the same slice.
type Sink func(Result)

// Option configures a Poller.
type Option func(*Poller)

// WithClock replaces the wall clock, mostly for tests.
func WithClock(c clock.Clock) Option {
	return func(p *Poller) {
		p.clock = c
	}
}

// WithLogger sets the logger. Defaults to a no-op logger.
func WithLogger(l logger.Logger) Option {
	return func(p *Poller) {
		p.log = l
	}
}

// WithSink adds a sink. Sinks are called in the order they were added.
func WithSink(s Sink) Option {
	return func(p *Poller) {
		if s != nil {
			p.sinks = append(p.sinks, s)
		}
	}
}

// Poller calls Initial once, then Refresh on every tick.
type Poller struct {
	src      sensor.Source
	interval time.Duration
	clock    clock.Clock
	log      logger.Logger
	sinks    []Sink
	trigger  chan struct{}
	running  atomic.Bool
	refresh  atomic.Uint64
	failures atomic.Uint64
}

// New creates a poller for src. The interval must be at least MinInterval.
func New(src sensor.Source, interval time.Duration, opts ...Option) (*Poller, error) {
	if src == nil {
		return nil, errors.New(errors.ErrConfig, "Poller needs a source", "")
	}
	if interval < MinInterval {
		return nil, errors.Configf("Use an interval of at least 100ms, like --interval 1s.",
			"Refresh interval %s is too short", interval)
	}

	p := &Poller{
		src:      src,
		interval: interval,
		clock:    clock.New(),
		log:      logger.Noop(),
		trigger:  make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Interval returns the refresh period.
func (p *Poller) Interval() time.Duration {
	return p.interval
}

// Stats returns how many refreshes ran and how many of them failed.
func (p *Poller) Stats() (refreshes, failures uint64) {
	return p.refresh.Load(), p.failures.Load()
}

// Trigger asks for an extra refresh as soon as possible. It never blocks;
// triggers that arrive while one is pending are merged.
func (p *Poller) Trigger() {
	select {
	case p.trigger <- struct{}{}:
	default:
	}
}

// Run publishes the initial snapshot and then refreshes on every tick until
// ctx is cancelled, returning ctx.Err(). A failed call is published and
// logged; polling carries on at the next tick. Run may only be called once
// at a time.
func (p *Poller) Run(ctx context.Context) error {
	if !p.running.CompareAndSwap(false, true) {
		return errors.New(errors.ErrExec, "Poller is already running", "")
	}
	defer p.running.Store(false)

	if err := ctx.Err(); err != nil {
		return err
	}

	// The ticker exists before the first result goes out, so anyone waiting
	// on that result can rely on ticks being observed afterwards.
	ticker := p.clock.Ticker(p.interval)
	defer ticker.Stop()

	p.log.Info("polling %s every %s", sensor.Describe(p.src), p.interval)
	p.initial()

	for {
		select {
		case <-ctx.Done():
			p.log.Debug("poller stopped: %v", ctx.Err())
			return ctx.Err()
		case <-ticker.C:
			p.poll()
		case <-p.trigger:
			p.log.Debug("manual refresh")
			p.poll()
		}
	}
}

func (p *Poller) initial() {
	readings, err := p.src.Initial()
	if err != nil {
		p.log.Error("initial read failed: %s", errors.OneLine(err))
		readings = nil
	} else {
		p.log.Debug("initial snapshot: %d readings", len(readings))
	}
	p.publish(Result{Readings: readings, Err: err, At: p.clock.Now(), Initial: true})
}

func (p *Poller) poll() {
	start := p.clock.Now()
	readings, err := p.src.Refresh()
	p.refresh.Add(1)

	if err != nil {
		p.failures.Add(1)
		p.log.Warn("refresh failed: %s", errors.OneLine(err))
		readings = nil
	} else {
		p.log.Debug("refresh ok: %d readings in %s", len(readings), p.clock.Since(start))
	}
	p.publish(Result{Readings: readings, Err: err, At: p.clock.Now()})
}

func (p *Poller) publish(r Result) {
	for _, sink := range p.sinks {
		sink(r)
	}
}

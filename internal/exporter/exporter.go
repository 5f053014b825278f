// Package exporter serves the latest sensor snapshot over HTTP: Prometheus
// gauges on /metrics, the raw snapshot as JSON on /readings and a health
// check on /healthz. It is fed by the poller and never touches the source.
package exporter

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rileyhilliard/sensorpanel/internal/errors"
	"github.com/rileyhilliard/sensorpanel/internal/logger"
	"github.com/rileyhilliard/sensorpanel/internal/poller"
	"github.com/rileyhilliard/sensorpanel/internal/sensor"
)

const shutdownTimeout = 5 * time.Second

// Snapshot is the JSON body of /readings.
type Snapshot struct {
	UpdatedAt *time.Time       `json:"updated_at"`
	Error     string           `json:"error,omitempty"`
	Readings  []sensor.Reading `json:"readings"`
}

// Exporter holds the latest poll result and its Prometheus collectors.
type Exporter struct {
	mu          sync.RWMutex
	latest      poller.Result
	seen        bool
	lastReading []sensor.Reading

	registry    *prometheus.Registry
	reading     *prometheus.GaugeVec
	refreshes   *prometheus.CounterVec
	lastSuccess prometheus.Gauge

	log    logger.Logger
	router chi.Router
}

// New creates an exporter with its own registry, so several can coexist in
// tests without clashing on the global one.
func New(log logger.Logger) *Exporter {
	if log == nil {
		log = logger.Noop()
	}

	e := &Exporter{
		registry: prometheus.NewRegistry(),
		reading: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "sensorpanel_reading",
			Help: "Latest value per sensor channel",
		}, []string{"channel", "unit"}),
		refreshes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sensorpanel_refresh_total",
			Help: "Sensor reads by outcome",
		}, []string{"result"}),
		lastSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "sensorpanel_last_success_timestamp_seconds",
			Help: "Unix time of the last successful sensor read",
		}),
		log: log,
	}
	e.registry.MustRegister(e.reading, e.refreshes, e.lastSuccess)

	// Both series exist from the start so rate() works before the first error.
	e.refreshes.WithLabelValues("ok")
	e.refreshes.WithLabelValues("error")

	e.router = e.routes()
	return e
}

func (e *Exporter) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(e.registry, promhttp.HandlerOpts{}))
	r.Get("/readings", e.handleReadings)
	r.Get("/healthz", e.handleHealth)
	return r
}

// Observe records a poll result. It has the poller.Sink signature.
func (e *Exporter) Observe(r poller.Result) {
	e.mu.Lock()
	e.latest = r
	e.seen = true
	if r.OK() {
		e.lastReading = r.Readings
	}
	e.mu.Unlock()

	if !r.OK() {
		e.refreshes.WithLabelValues("error").Inc()
		return
	}
	e.refreshes.WithLabelValues("ok").Inc()
	e.lastSuccess.Set(float64(r.At.UnixNano()) / 1e9)
	for _, reading := range r.Readings {
		e.reading.WithLabelValues(reading.Name, reading.Unit).Set(reading.Value)
	}
}

// Registry exposes the collectors, mostly for tests.
func (e *Exporter) Registry() *prometheus.Registry {
	return e.registry
}

// Handler returns the HTTP handler serving all routes.
func (e *Exporter) Handler() http.Handler {
	return e.router
}

// Snapshot returns what /readings would serve. After a failed refresh the
// last good readings are kept alongside the error.
func (e *Exporter) Snapshot() Snapshot {
	e.mu.RLock()
	defer e.mu.RUnlock()

	snap := Snapshot{Readings: e.lastReading}
	if snap.Readings == nil {
		snap.Readings = []sensor.Reading{}
	}
	if !e.seen {
		return snap
	}
	at := e.latest.At
	snap.UpdatedAt = &at
	if e.latest.Err != nil {
		snap.Error = errors.OneLine(e.latest.Err)
	}
	return snap
}

func (e *Exporter) healthy() (bool, string) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	switch {
	case !e.seen:
		return false, "no reading yet"
	case e.latest.Err != nil:
		return false, errors.OneLine(e.latest.Err)
	default:
		return true, "ok"
	}
}

func (e *Exporter) handleReadings(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, e.Snapshot())
}

func (e *Exporter) handleHealth(w http.ResponseWriter, _ *http.Request) {
	ok, status := e.healthy()
	code := http.StatusOK
	if !ok {
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, code, map[string]string{"status": status})
}

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// Listen opens the TCP listener for addr. Failing here is a config problem,
// so callers can report it before the dashboard starts.
func Listen(addr string) (net.Listener, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			"Can't listen on "+addr,
			"Pick a free address for --metrics-addr, like 127.0.0.1:9101.")
	}
	return ln, nil
}

// Serve serves on ln until ctx is cancelled, then shuts down gracefully.
func (e *Exporter) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           e.router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		e.log.Info("metrics listening on %s", ln.Addr())
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if stderrors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return errors.Wrap(err, "Metrics server stopped")
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			e.log.Warn("metrics shutdown: %v", err)
		}
		return nil
	}
}

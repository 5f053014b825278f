package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/rileyhilliard/sensorpanel/internal/errors"
	"github.com/rileyhilliard/sensorpanel/internal/panel"
	"github.com/rileyhilliard/sensorpanel/internal/poller"
)

// plainSink writes formatPlain lines to w. It runs on the poller goroutine.
func plainSink(w io.Writer) poller.Sink {
	return func(r poller.Result) {
		fmt.Fprintln(w, formatPlain(r))
	}
}

// formatPlain renders a result as a single log-friendly line:
//
//	2006-01-02 15:04:05  CO₂ 650.0 ppm  Temperature 21.5 °C  Humidity 40.0 %
func formatPlain(r poller.Result) string {
	ts := r.At.Format(panel.TimeFormat)
	if r.Err != nil {
		return ts + "  error: " + errors.OneLine(r.Err)
	}

	parts := make([]string, 0, len(r.Readings)+1)
	parts = append(parts, ts)
	for _, rd := range r.Readings {
		parts = append(parts, rd.String())
	}
	return strings.Join(parts, "  ")
}

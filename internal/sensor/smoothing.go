package sensor

import (
	"math"

	"github.com/rileyhilliard/sensorpanel/internal/errors"
)

// ClampFactor limits a smoothing factor to [0,1]. NaN stays NaN so callers
// comparing with > 0 treat it as disabled.
func ClampFactor(alpha float64) float64 {
	if math.IsNaN(alpha) {
		return alpha
	}
	return math.Max(0, math.Min(1, alpha))
}

// SmoothingSource wraps another Source and applies a single-pole exponential
// moving average per channel:
//
//	emitted = previous + alpha*(raw - previous)
//
// The first reading seen for a channel is emitted unmodified. A channel that
// disappears and comes back later blends against its last emitted value.
type SmoothingSource struct {
	inner Source
	alpha float64
	last  map[string]Reading
}

// NewSmoothingSource wraps inner with smoothing factor alpha. Alpha is
// clamped to [0,1]; a result of 0 (or NaN) is rejected because it would
// freeze every channel at its first value. Alpha 1 is a pass-through.
func NewSmoothingSource(inner Source, alpha float64) (*SmoothingSource, error) {
	if inner == nil {
		return nil, errors.New(errors.ErrConfig, "Smoothing needs a source to wrap", "")
	}
	clamped := ClampFactor(alpha)
	if math.IsNaN(clamped) || clamped == 0 {
		return nil, errors.Configf("Use a smoothing factor in (0, 1], or leave it at 0 to disable smoothing entirely.",
			"Smoothing factor %v would freeze every channel", alpha)
	}
	return &SmoothingSource{
		inner: inner,
		alpha: clamped,
		last:  make(map[string]Reading),
	}, nil
}

// Alpha returns the effective smoothing factor.
func (s *SmoothingSource) Alpha() float64 {
	return s.alpha
}

// Unwrap returns the wrapped source.
func (s *SmoothingSource) Unwrap() Source {
	return s.inner
}

// Initial delegates to the wrapped source and seeds each channel with its raw
// value. The raw readings are returned unchanged.
func (s *SmoothingSource) Initial() ([]Reading, error) {
	raw, err := s.inner.Initial()
	if err != nil {
		return nil, err
	}
	out := make([]Reading, len(raw))
	for i, r := range raw {
		s.last[r.Name] = r
		out[i] = r
	}
	return out, nil
}

// Refresh delegates to the wrapped source and blends each reading with the
// previous emitted value for its channel. Errors pass through unmodified and
// leave the smoothing state untouched.
func (s *SmoothingSource) Refresh() ([]Reading, error) {
	raw, err := s.inner.Refresh()
	if err != nil {
		return nil, err
	}
	out := make([]Reading, len(raw))
	for i, r := range raw {
		out[i] = s.smooth(r)
	}
	return out, nil
}

func (s *SmoothingSource) smooth(r Reading) Reading {
	value := r.Value
	if prev, ok := s.last[r.Name]; ok && s.alpha < 1 {
		value = prev.Value + s.alpha*(r.Value-prev.Value)
	}
	smoothed := Reading{Name: r.Name, Unit: r.Unit, Value: value}
	s.last[r.Name] = smoothed
	return smoothed
}

// Close closes the wrapped source.
func (s *SmoothingSource) Close() error {
	return Close(s.inner)
}

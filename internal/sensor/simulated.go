package sensor

import (
	"math"
	"math/rand"
	"time"

	"github.com/rileyhilliard/sensorpanel/internal/errors"
)

// DefaultJitter is the half-width of the uniform perturbation applied per refresh.
const DefaultJitter = 0.2

// Channel describes one simulated quantity and its bounds.
type Channel struct {
	Name  string
	Unit  string
	Start float64
	Min   float64
	Max   float64
}

// DefaultChannels mirrors a typical indoor environment.
var DefaultChannels = []Channel{
	{Name: ChannelCO2, Unit: UnitPPM, Start: 650, Min: 400, Max: 1200},
	{Name: ChannelTemperature, Unit: UnitCelsius, Start: 21.5, Min: 18, Max: 26},
	{Name: ChannelHumidity, Unit: UnitPercent, Start: 40, Min: 25, Max: 60},
}

// Rand is the random source used for perturbations. *math/rand.Rand satisfies it.
type Rand interface {
	Float64() float64
}

// SimulatedOption configures a SimulatedSource.
type SimulatedOption func(*SimulatedSource)

// WithChannels replaces the default channel table. Order is preserved in output.
func WithChannels(channels []Channel) SimulatedOption {
	return func(s *SimulatedSource) {
		s.channels = append([]Channel(nil), channels...)
	}
}

// WithPerturbation replaces the random draw. The function returns the delta
// to add to a channel on each refresh; jitter and Rand are then unused.
func WithPerturbation(fn func(Channel) float64) SimulatedOption {
	return func(s *SimulatedSource) {
		s.perturb = fn
	}
}

// SimulatedSource generates a bounded random walk per channel.
// It never fails.
type SimulatedSource struct {
	channels []Channel
	current  []float64
	jitter   float64
	rng      Rand
	perturb  func(Channel) float64
}

// NewSimulatedSource creates a simulator whose per-refresh delta is drawn
// uniformly from [-jitter, +jitter]. A nil rng gets a time-seeded generator.
func NewSimulatedSource(jitter float64, rng Rand, opts ...SimulatedOption) (*SimulatedSource, error) {
	if math.IsNaN(jitter) || math.IsInf(jitter, 0) || jitter < 0 {
		return nil, errors.Configf("Use a jitter of 0 or more, like 0.2 or 0.5.",
			"Simulation jitter %v is invalid", jitter)
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	s := &SimulatedSource{
		channels: append([]Channel(nil), DefaultChannels...),
		jitter:   jitter,
		rng:      rng,
	}
	for _, opt := range opts {
		opt(s)
	}

	seen := make(map[string]bool, len(s.channels))
	s.current = make([]float64, len(s.channels))
	for i, ch := range s.channels {
		if seen[ch.Name] {
			return nil, errors.Configf("Give each simulated channel a unique name.",
				"Simulated channel %q is defined twice", ch.Name)
		}
		seen[ch.Name] = true
		if ch.Min > ch.Max || ch.Start < ch.Min || ch.Start > ch.Max {
			return nil, errors.Configf("The start value must lie within [min, max].",
				"Simulated channel %q has start %g outside [%g, %g]", ch.Name, ch.Start, ch.Min, ch.Max)
		}
		s.current[i] = ch.Start
	}

	return s, nil
}

// Initial returns the current value of every channel without advancing the walk.
func (s *SimulatedSource) Initial() ([]Reading, error) {
	out := make([]Reading, len(s.channels))
	for i, ch := range s.channels {
		out[i] = Reading{Name: ch.Name, Unit: ch.Unit, Value: s.current[i]}
	}
	return out, nil
}

// Refresh advances every channel by one perturbation, clamped to its bounds.
func (s *SimulatedSource) Refresh() ([]Reading, error) {
	out := make([]Reading, len(s.channels))
	for i, ch := range s.channels {
		next := clamp(s.current[i]+s.delta(ch), ch.Min, ch.Max)
		s.current[i] = next
		out[i] = Reading{Name: ch.Name, Unit: ch.Unit, Value: next}
	}
	return out, nil
}

func (s *SimulatedSource) delta(ch Channel) float64 {
	if s.perturb != nil {
		return s.perturb(ch)
	}
	if s.jitter == 0 {
		return 0
	}
	return (2*s.rng.Float64() - 1) * s.jitter
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

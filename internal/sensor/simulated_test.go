package sensor

import (
	"math/rand"
	"testing"

	"github.com/rileyhilliard/sensorpanel/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixedRand always returns the same draw.
type fixedRand float64

func (f fixedRand) Float64() float64 { return float64(f) }

func constant(delta float64) SimulatedOption {
	return WithPerturbation(func(Channel) float64 { return delta })
}

func TestSimulatedInitial(t *testing.T) {
	sim, err := NewSimulatedSource(DefaultJitter, fixedRand(0.9))
	require.NoError(t, err)

	first, err := sim.Initial()
	require.NoError(t, err)
	assert.Equal(t, []Reading{
		{Name: ChannelCO2, Unit: UnitPPM, Value: 650},
		{Name: ChannelTemperature, Unit: UnitCelsius, Value: 21.5},
		{Name: ChannelHumidity, Unit: UnitPercent, Value: 40},
	}, first)

	second, err := sim.Initial()
	require.NoError(t, err)
	assert.Equal(t, first, second, "Initial must not advance the walk")
}

func TestSimulatedRefreshAddsPerturbation(t *testing.T) {
	sim, err := NewSimulatedSource(DefaultJitter, nil, constant(0.2))
	require.NoError(t, err)

	readings, err := sim.Refresh()
	require.NoError(t, err)

	co2, ok := Find(readings, ChannelCO2)
	require.True(t, ok)
	assert.InDelta(t, 650.2, co2.Value, 1e-9)
}

func TestSimulatedClampsAtLowerBound(t *testing.T) {
	sim, err := NewSimulatedSource(DefaultJitter, nil, constant(-0.5))
	require.NoError(t, err)

	// 250 ppm of headroom at 0.5 per step; go well past it.
	for i := 0; i < 600; i++ {
		readings, err := sim.Refresh()
		require.NoError(t, err)
		co2, _ := Find(readings, ChannelCO2)
		require.GreaterOrEqual(t, co2.Value, 400.0)
	}

	readings, err := sim.Initial()
	require.NoError(t, err)
	co2, _ := Find(readings, ChannelCO2)
	assert.Equal(t, 400.0, co2.Value, "clamps exactly at the bound")
}

func TestSimulatedClampsAtUpperBound(t *testing.T) {
	sim, err := NewSimulatedSource(DefaultJitter, nil, constant(5))
	require.NoError(t, err)

	var readings []Reading
	for i := 0; i < 200; i++ {
		readings, err = sim.Refresh()
		require.NoError(t, err)
	}

	for _, r := range readings {
		switch r.Name {
		case ChannelCO2:
			assert.Equal(t, 1200.0, r.Value)
		case ChannelTemperature:
			assert.Equal(t, 26.0, r.Value)
		case ChannelHumidity:
			assert.Equal(t, 60.0, r.Value)
		}
	}
}

func TestSimulatedUniformDraw(t *testing.T) {
	tests := []struct {
		name   string
		draw   float64
		jitter float64
		want   float64
	}{
		{"lowest draw", 0, 0.5, 649.5},
		{"midpoint", 0.5, 0.5, 650},
		{"high draw", 0.75, 0.2, 650.1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sim, err := NewSimulatedSource(tt.jitter, fixedRand(tt.draw))
			require.NoError(t, err)

			readings, err := sim.Refresh()
			require.NoError(t, err)
			co2, _ := Find(readings, ChannelCO2)
			assert.InDelta(t, tt.want, co2.Value, 1e-9)
		})
	}
}

func TestSimulatedZeroJitterIsIdempotent(t *testing.T) {
	sim, err := NewSimulatedSource(0, rand.New(rand.NewSource(1)))
	require.NoError(t, err)

	want, err := sim.Initial()
	require.NoError(t, err)

	for i := 0; i < 50; i++ {
		got, err := sim.Refresh()
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestSimulatedStaysWithinBounds(t *testing.T) {
	sim, err := NewSimulatedSource(50, rand.New(rand.NewSource(42)))
	require.NoError(t, err)

	bounds := make(map[string]Channel)
	for _, ch := range DefaultChannels {
		bounds[ch.Name] = ch
	}

	for i := 0; i < 1000; i++ {
		readings, err := sim.Refresh()
		require.NoError(t, err)
		require.Len(t, readings, len(DefaultChannels))
		for j, r := range readings {
			assert.Equal(t, DefaultChannels[j].Name, r.Name, "output order is stable")
			ch := bounds[r.Name]
			require.GreaterOrEqual(t, r.Value, ch.Min)
			require.LessOrEqual(t, r.Value, ch.Max)
		}
	}
}

func TestSimulatedCustomChannels(t *testing.T) {
	channels := []Channel{
		{Name: "Pressure", Unit: "hPa", Start: 1013, Min: 950, Max: 1050},
		{Name: "X", Unit: "", Start: 0, Min: -1, Max: 1},
	}
	sim, err := NewSimulatedSource(0, nil, WithChannels(channels))
	require.NoError(t, err)

	channels[0].Start = 0 // caller mutation must not leak in

	readings, err := sim.Initial()
	require.NoError(t, err)
	assert.Equal(t, []Reading{
		{Name: "Pressure", Unit: "hPa", Value: 1013},
		{Name: "X", Unit: "", Value: 0},
	}, readings)
}

func TestNewSimulatedSourceErrors(t *testing.T) {
	tests := []struct {
		name   string
		jitter float64
		opts   []SimulatedOption
	}{
		{"negative jitter", -0.1, nil},
		{"duplicate channel", 0.2, []SimulatedOption{WithChannels([]Channel{
			{Name: "A", Start: 1, Min: 0, Max: 2},
			{Name: "A", Start: 1, Min: 0, Max: 2},
		})}},
		{"start below min", 0.2, []SimulatedOption{WithChannels([]Channel{{Name: "A", Start: -1, Min: 0, Max: 2}})}},
		{"inverted bounds", 0.2, []SimulatedOption{WithChannels([]Channel{{Name: "A", Start: 1, Min: 2, Max: 0}})}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewSimulatedSource(tt.jitter, nil, tt.opts...)
			require.Error(t, err)
			assert.True(t, errors.IsCode(err, errors.ErrConfig))
		})
	}
}

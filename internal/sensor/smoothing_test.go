package sensor

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	sperrors "github.com/rileyhilliard/sensorpanel/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func x(v float64) []Reading {
	return []Reading{{Name: "X", Unit: "u", Value: v}}
}

func TestClampFactor(t *testing.T) {
	assert.Equal(t, 0.0, ClampFactor(-3))
	assert.Equal(t, 0.0, ClampFactor(0))
	assert.Equal(t, 0.4, ClampFactor(0.4))
	assert.Equal(t, 1.0, ClampFactor(1))
	assert.Equal(t, 1.0, ClampFactor(7))
	assert.True(t, math.IsNaN(ClampFactor(math.NaN())))
}

func TestSmoothingScenario(t *testing.T) {
	stub := &stubSource{frames: [][]Reading{x(100), x(200)}}
	s, err := NewSmoothingSource(stub, 0.25)
	require.NoError(t, err)

	first, err := s.Refresh()
	require.NoError(t, err)
	assert.Equal(t, x(100), first, "first sight of a channel is emitted raw")

	second, err := s.Refresh()
	require.NoError(t, err)
	require.Len(t, second, 1)
	assert.InDelta(t, 125.0, second[0].Value, 1e-9)
	assert.Equal(t, "X", second[0].Name)
	assert.Equal(t, "u", second[0].Unit)
}

func TestSmoothingInitialSeeds(t *testing.T) {
	stub := &stubSource{initial: x(100), frames: [][]Reading{x(200), x(200)}}
	s, err := NewSmoothingSource(stub, 0.5)
	require.NoError(t, err)

	initial, err := s.Initial()
	require.NoError(t, err)
	assert.Equal(t, x(100), initial)

	r1, err := s.Refresh()
	require.NoError(t, err)
	assert.InDelta(t, 150.0, r1[0].Value, 1e-9)

	r2, err := s.Refresh()
	require.NoError(t, err)
	assert.InDelta(t, 175.0, r2[0].Value, 1e-9, "blends against the last emitted value, not the last raw")
}

func TestSmoothingBootstrapsLateChannels(t *testing.T) {
	stub := &stubSource{
		initial: x(10),
		frames: [][]Reading{
			{{Name: "X", Value: 20}, {Name: "Y", Unit: "v", Value: 500}},
			{{Name: "X", Value: 20}, {Name: "Y", Unit: "v", Value: 600}},
		},
	}
	s, err := NewSmoothingSource(stub, 0.1)
	require.NoError(t, err)

	_, err = s.Initial()
	require.NoError(t, err)

	r1, err := s.Refresh()
	require.NoError(t, err)
	assert.InDelta(t, 11.0, r1[0].Value, 1e-9)
	assert.Equal(t, 500.0, r1[1].Value, "new channel is emitted raw")

	r2, err := s.Refresh()
	require.NoError(t, err)
	assert.InDelta(t, 510.0, r2[1].Value, 1e-9)
}

func TestSmoothingReturningChannelBlendsAgainstStaleValue(t *testing.T) {
	stub := &stubSource{frames: [][]Reading{x(100), {}, x(300)}}
	s, err := NewSmoothingSource(stub, 0.5)
	require.NoError(t, err)

	_, err = s.Refresh()
	require.NoError(t, err)
	gap, err := s.Refresh()
	require.NoError(t, err)
	assert.Empty(t, gap)

	back, err := s.Refresh()
	require.NoError(t, err)
	assert.InDelta(t, 200.0, back[0].Value, 1e-9)
}

func TestSmoothingAlphaOneIsPassThrough(t *testing.T) {
	raw, err := NewSimulatedSource(3, rand.New(rand.NewSource(7)))
	require.NoError(t, err)
	mirror, err := NewSimulatedSource(3, rand.New(rand.NewSource(7)))
	require.NoError(t, err)

	s, err := NewSmoothingSource(mirror, 1)
	require.NoError(t, err)

	for i := 0; i < 100; i++ {
		want, err := raw.Refresh()
		require.NoError(t, err)
		got, err := s.Refresh()
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestSmoothingPropagatesErrorsUnchanged(t *testing.T) {
	fault := sperrors.New(sperrors.ErrComm, "Couldn't read X", "")
	stub := &stubSource{
		frames: [][]Reading{x(100), nil, x(200)},
		errs:   []error{nil, fault, nil},
	}
	s, err := NewSmoothingSource(stub, 0.5)
	require.NoError(t, err)

	_, err = s.Refresh()
	require.NoError(t, err)

	readings, err := s.Refresh()
	assert.Nil(t, readings)
	assert.Same(t, fault, err)

	after, err := s.Refresh()
	require.NoError(t, err)
	assert.InDelta(t, 150.0, after[0].Value, 1e-9, "a failed refresh leaves state untouched")
}

func TestNewSmoothingSource(t *testing.T) {
	stub := &stubSource{}

	tests := []struct {
		name      string
		inner     Source
		alpha     float64
		wantAlpha float64
		wantErr   bool
	}{
		{"typical", stub, 0.25, 0.25, false},
		{"one", stub, 1, 1, false},
		{"above one clamps", stub, 4, 1, false},
		{"zero rejected", stub, 0, 0, true},
		{"negative clamps to zero", stub, -0.5, 0, true},
		{"nan rejected", stub, math.NaN(), 0, true},
		{"nil inner", nil, 0.5, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := NewSmoothingSource(tt.inner, tt.alpha)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, sperrors.IsCode(err, sperrors.ErrConfig))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantAlpha, s.Alpha())
			assert.Same(t, tt.inner, s.Unwrap())
		})
	}
}

func TestSmoothingCloseDelegates(t *testing.T) {
	stub := &stubSource{closeErr: errors.New("port busy")}
	s, err := NewSmoothingSource(stub, 0.5)
	require.NoError(t, err)

	assert.EqualError(t, s.Close(), "port busy")
	assert.True(t, stub.closed)
}

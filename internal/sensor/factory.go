package sensor

import (
	"math/rand"
	"time"

	"github.com/rileyhilliard/sensorpanel/internal/config"
	"github.com/rileyhilliard/sensorpanel/internal/modbus"
)

// BuildOptions lets callers substitute collaborators, mostly for tests.
type BuildOptions struct {
	// Opener connects the device transport. Defaults to Modbus RTU.
	Opener Opener
	// Rand drives the simulator. Defaults to a generator seeded from
	// cfg.Simulation.Seed, or the clock when the seed is 0.
	Rand Rand
}

// ModbusOpener opens a Modbus RTU transport on the configured serial port.
func ModbusOpener(cfg config.DeviceConfig) (Transport, error) {
	t, err := modbus.Open(cfg)
	if err != nil {
		return nil, err
	}
	return t, nil
}

// Build composes the source described by cfg: a DeviceSource when a port is
// configured and simulation is not forced, otherwise a SimulatedSource. If
// the smoothing factor clamped to [0,1] is above 0 the result is wrapped in a
// SmoothingSource.
func Build(cfg *config.Config, opts BuildOptions) (Source, error) {
	var src Source

	if cfg.UsesDevice() {
		open := opts.Opener
		if open == nil {
			open = ModbusOpener
		}
		d, err := NewDeviceSource(cfg.Device, open)
		if err != nil {
			return nil, err
		}
		src = d
	} else {
		rng := opts.Rand
		if rng == nil {
			seed := cfg.Simulation.Seed
			if seed == 0 {
				seed = time.Now().UnixNano()
			}
			rng = rand.New(rand.NewSource(seed))
		}
		s, err := NewSimulatedSource(cfg.Simulation.Jitter, rng)
		if err != nil {
			return nil, err
		}
		src = s
	}

	if alpha := ClampFactor(cfg.SmoothingFactor); alpha > 0 {
		smoothed, err := NewSmoothingSource(src, alpha)
		if err != nil {
			_ = Close(src)
			return nil, err
		}
		src = smoothed
	}

	return src, nil
}

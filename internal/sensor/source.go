package sensor

import (
	"fmt"
	"io"
)

// Source produces snapshots of readings.
//
// Initial returns a baseline without necessarily taking a new measurement.
// Refresh takes a new one, advancing simulation state or issuing transport
// reads. Both return either a complete snapshot or an error.
type Source interface {
	Initial() ([]Reading, error)
	Refresh() ([]Reading, error)
}

// Close releases whatever the source holds open (a serial port, for
// DeviceSource). Sources without resources are a no-op.
func Close(src Source) error {
	if c, ok := src.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// Describe returns a short human label for a source, shown in the panel
// header and in logs.
func Describe(src Source) string {
	switch s := src.(type) {
	case *DeviceSource:
		return fmt.Sprintf("tSENSE on %s (slave %d)", s.cfg.Port, s.cfg.SlaveAddress)
	case *SimulatedSource:
		return fmt.Sprintf("simulated (jitter ±%g)", s.jitter)
	case *SmoothingSource:
		return fmt.Sprintf("%s, smoothed α=%.2f", Describe(s.inner), s.alpha)
	case nil:
		return "no source"
	default:
		return fmt.Sprintf("%T", src)
	}
}

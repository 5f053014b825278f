package sensor

import (
	"fmt"

	"github.com/rileyhilliard/sensorpanel/internal/config"
	"github.com/rileyhilliard/sensorpanel/internal/errors"
)

// Transport reads fixed-point registers from the device. Framing, CRC and
// byte order are its business; DeviceSource only asks for values.
type Transport interface {
	// ReadRegister reads one register and scales it by 10^-decimals.
	ReadRegister(address uint16, decimals int) (float64, error)
	Close() error
}

// Opener connects a Transport for the given device settings.
type Opener func(cfg config.DeviceConfig) (Transport, error)

// deviceChannel binds a channel to its register.
type deviceChannel struct {
	name     string
	unit     string
	register uint16
	decimals int
}

// DeviceSource reads CO₂, temperature and humidity from a Senseair tSENSE.
// Every Refresh issues one register read per channel; any failure aborts the
// whole snapshot.
type DeviceSource struct {
	cfg       config.DeviceConfig
	transport Transport
	channels  []deviceChannel
}

// NewDeviceSource validates cfg and opens the transport. Invalid settings
// return ErrConfig; a transport that cannot be opened returns ErrComm.
func NewDeviceSource(cfg config.DeviceConfig, open Opener) (*DeviceSource, error) {
	if err := config.ValidateDevice(cfg); err != nil {
		return nil, err
	}
	if open == nil {
		return nil, errors.New(errors.ErrConfig, "No transport available for the device", "")
	}

	t, err := open(cfg)
	if err != nil {
		if errors.IsCode(err, errors.ErrComm) {
			return nil, err
		}
		return nil, errors.WrapWithCode(err, errors.ErrComm,
			fmt.Sprintf("Can't open %s", cfg.Port),
			"Check the port exists ('sensorpanel ports') and that no other program is using it.")
	}

	return &DeviceSource{
		cfg:       cfg,
		transport: t,
		channels: []deviceChannel{
			{ChannelCO2, UnitPPM, uint16(cfg.Registers.CO2), cfg.Decimals.CO2},
			{ChannelTemperature, UnitCelsius, uint16(cfg.Registers.Temperature), cfg.Decimals.Temperature},
			{ChannelHumidity, UnitPercent, uint16(cfg.Registers.Humidity), cfg.Decimals.Humidity},
		},
	}, nil
}

// Initial is identical to Refresh: the device has no cached baseline.
func (d *DeviceSource) Initial() ([]Reading, error) {
	return d.Refresh()
}

// Refresh reads every channel in order. The first failed read aborts the
// call and no readings are returned.
func (d *DeviceSource) Refresh() ([]Reading, error) {
	out := make([]Reading, 0, len(d.channels))
	for _, ch := range d.channels {
		value, err := d.transport.ReadRegister(ch.register, ch.decimals)
		if err != nil {
			return nil, errors.WrapWithCode(err, errors.ErrComm,
				fmt.Sprintf("Couldn't read %s (register 0x%04X)", ch.name, ch.register),
				fmt.Sprintf("Check the sensor is powered and wired, and that slave address %d is right.", d.cfg.SlaveAddress))
		}
		out = append(out, Reading{Name: ch.name, Unit: ch.unit, Value: value})
	}
	return out, nil
}

// Close releases the transport.
func (d *DeviceSource) Close() error {
	return d.transport.Close()
}

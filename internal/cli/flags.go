package cli

import (
	"github.com/rileyhilliard/sensorpanel/internal/config"
	"github.com/spf13/pflag"
)

// addSensorFlags registers the flags that override config keys. Defaults
// mirror config.DefaultConfig so --help shows what applies without a file.
func addSensorFlags(fs *pflag.FlagSet) {
	d := config.DefaultConfig()

	fs.String("serial-port", d.Device.Port, "serial device of the tSENSE (empty simulates)")
	fs.Int("slave-address", d.Device.SlaveAddress, "Modbus slave address")
	fs.Int("baudrate", d.Device.BaudRate, "serial baud rate")
	fs.Duration("timeout", d.Device.Timeout, "timeout per register read")
	fs.Uint16("co2-register", uint16(d.Device.Registers.CO2), "input register holding CO₂ (hex or decimal)")
	fs.Uint16("temperature-register", uint16(d.Device.Registers.Temperature), "input register holding temperature")
	fs.Uint16("humidity-register", uint16(d.Device.Registers.Humidity), "input register holding humidity")
	fs.Int("co2-decimals", d.Device.Decimals.CO2, "decimals of the CO₂ register")
	fs.Int("temperature-decimals", d.Device.Decimals.Temperature, "decimals of the temperature register")
	fs.Int("humidity-decimals", d.Device.Decimals.Humidity, "decimals of the humidity register")
	fs.Bool("simulate", d.Simulate, "use simulated readings even if a port is set")
	fs.Float64("smoothing-factor", d.SmoothingFactor, "share of each new sample blended in (0 shows raw values)")
	fs.Float64("jitter", d.Simulation.Jitter, "simulator step half-width")
	fs.Int64("seed", d.Simulation.Seed, "simulator seed (0 seeds from the clock)")
	fs.Duration("interval", d.Interval, "refresh interval")
	fs.String("metrics-addr", d.Metrics.Listen, "serve /metrics, /readings and /healthz on host:port")
	fs.String("log-file", d.Log.File, "write JSON logs to this file")
	fs.Bool("debug", d.Log.Debug, "enable debug logging")
}

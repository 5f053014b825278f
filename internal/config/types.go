package config

import "time"

// CurrentConfigVersion is the schema version for the config file.
// Increment when making breaking changes to the config structure.
const CurrentConfigVersion = 1

// Config represents the complete .sensorpanel.yaml configuration file.
type Config struct {
	Version int `yaml:"version" mapstructure:"version"`

	// Device holds the serial/Modbus parameters. An empty Port means simulate.
	Device DeviceConfig `yaml:"device" mapstructure:"device"`

	// Simulate forces the simulator even when a port is configured.
	Simulate bool `yaml:"simulate" mapstructure:"simulate"`

	// Simulation tunes the random walk used when no device is read.
	Simulation SimulationConfig `yaml:"simulation" mapstructure:"simulation"`

	// SmoothingFactor is the share (0-1) of each new sample blended into the
	// displayed value. Values are clamped to [0,1]; 0 shows raw values.
	SmoothingFactor float64 `yaml:"smoothing_factor" mapstructure:"smoothing_factor"`

	// Interval is the refresh period.
	Interval time.Duration `yaml:"interval" mapstructure:"interval" validate:"min=100ms,max=1h"`

	// Metrics configures the optional HTTP exporter.
	Metrics MetricsConfig `yaml:"metrics" mapstructure:"metrics"`

	// Log configures file logging.
	Log LogConfig `yaml:"log" mapstructure:"log"`
}

// DeviceConfig describes how to reach a Senseair tSENSE over Modbus RTU.
type DeviceConfig struct {
	// Port is the serial device, e.g. /dev/ttyUSB0 or COM3.
	Port string `yaml:"port" mapstructure:"port"`

	// SlaveAddress is the Modbus unit id.
	SlaveAddress int `yaml:"slave_address" mapstructure:"slave_address" validate:"min=1,max=247"`

	// BaudRate of the serial line (8N1 framing is fixed).
	BaudRate int `yaml:"baud_rate" mapstructure:"baud_rate" validate:"min=300"`

	// Timeout bounds every register read.
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout" validate:"min=10ms,max=1m"`

	// Registers maps each channel to its input register address.
	Registers RegisterMap `yaml:"registers" mapstructure:"registers"`

	// Decimals is the fixed-point scale per channel: raw / 10^decimals.
	Decimals DecimalMap `yaml:"decimals" mapstructure:"decimals"`
}

// RegisterMap holds one input register address per channel.
type RegisterMap struct {
	CO2         int `yaml:"co2" mapstructure:"co2" validate:"min=0,max=65535"`
	Temperature int `yaml:"temperature" mapstructure:"temperature" validate:"min=0,max=65535"`
	Humidity    int `yaml:"humidity" mapstructure:"humidity" validate:"min=0,max=65535"`
}

// DecimalMap holds one decimal count per channel.
type DecimalMap struct {
	CO2         int `yaml:"co2" mapstructure:"co2" validate:"min=0,max=6"`
	Temperature int `yaml:"temperature" mapstructure:"temperature" validate:"min=0,max=6"`
	Humidity    int `yaml:"humidity" mapstructure:"humidity" validate:"min=0,max=6"`
}

// SimulationConfig tunes the simulator.
type SimulationConfig struct {
	// Jitter is the half-width of the uniform per-refresh perturbation.
	Jitter float64 `yaml:"jitter" mapstructure:"jitter" validate:"min=0,max=1000"`

	// Seed makes runs reproducible. 0 seeds from the clock.
	Seed int64 `yaml:"seed" mapstructure:"seed"`
}

// MetricsConfig controls the HTTP exporter.
type MetricsConfig struct {
	// Listen is a host:port to serve /metrics, /readings and /healthz on.
	// Empty disables the exporter.
	Listen string `yaml:"listen" mapstructure:"listen" validate:"omitempty,hostname_port"`
}

// LogConfig controls file logging. The dashboard owns the terminal, so logs
// only go to a file.
type LogConfig struct {
	File  string `yaml:"file" mapstructure:"file"`
	Debug bool   `yaml:"debug" mapstructure:"debug"`
}

// DefaultConfig returns a Config with the tSENSE factory defaults.
func DefaultConfig() *Config {
	return &Config{
		Version: CurrentConfigVersion,
		Device: DeviceConfig{
			SlaveAddress: 1,
			BaudRate:     9600,
			Timeout:      time.Second,
			Registers: RegisterMap{
				CO2:         0x0008,
				Temperature: 0x0009,
				Humidity:    0x000A,
			},
			Decimals: DecimalMap{
				CO2:         0,
				Temperature: 1,
				Humidity:    1,
			},
		},
		Simulation: SimulationConfig{
			Jitter: 0.2,
		},
		SmoothingFactor: 0,
		Interval:        time.Second,
	}
}

// UsesDevice reports whether the config selects the real device.
func (c *Config) UsesDevice() bool {
	return c.Device.Port != "" && !c.Simulate
}

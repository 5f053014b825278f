package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/rileyhilliard/sensorpanel/internal/errors"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	// ConfigFileName is the default config file name.
	ConfigFileName = ".sensorpanel.yaml"
	// GlobalConfigDir is the directory for global config.
	GlobalConfigDir = ".config/sensorpanel"
	// GlobalConfigFile is the global config file name.
	GlobalConfigFile = "config.yaml"
	// EnvPrefix namespaces environment overrides, e.g. SENSORPANEL_DEVICE_PORT.
	EnvPrefix = "SENSORPANEL"
)

// FlagKeys maps CLI flag names to config keys. Flags that were set on the
// command line win over the file, the environment and the defaults.
var FlagKeys = map[string]string{
	"serial-port":          "device.port",
	"slave-address":        "device.slave_address",
	"baudrate":             "device.baud_rate",
	"timeout":              "device.timeout",
	"co2-register":         "device.registers.co2",
	"temperature-register": "device.registers.temperature",
	"humidity-register":    "device.registers.humidity",
	"co2-decimals":         "device.decimals.co2",
	"temperature-decimals": "device.decimals.temperature",
	"humidity-decimals":    "device.decimals.humidity",
	"simulate":             "simulate",
	"smoothing-factor":     "smoothing_factor",
	"jitter":               "simulation.jitter",
	"seed":                 "simulation.seed",
	"interval":             "interval",
	"metrics-addr":         "metrics.listen",
	"log-file":             "log.file",
	"debug":                "log.debug",
}

// Load reads config from the specified path and validates it.
func Load(path string) (*Config, error) {
	return LoadWithFlags(path, nil)
}

// LoadWithFlags resolves the config from, in increasing priority: defaults,
// the file at path (skipped when empty), SENSORPANEL_* environment variables,
// and flags that were explicitly set. The result is validated.
func LoadWithFlags(path string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			if os.IsNotExist(err) {
				return nil, errors.WrapWithCode(err, errors.ErrConfig,
					"Config file not found",
					"Run 'sensorpanel init' to create a config file, or specify one with --config")
			}
			return nil, errors.WrapWithCode(err, errors.ErrConfig,
				"Failed to read config file",
				"Check the file exists and is valid YAML")
		}
	}

	if flags != nil {
		if err := bindFlags(v, flags); err != nil {
			return nil, err
		}
	}

	cfg, err := parseConfig(v, path)
	if err != nil {
		return nil, err
	}
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// bindFlags binds every known flag present in the set.
func bindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	for name, key := range FlagKeys {
		f := flags.Lookup(name)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return errors.WrapWithCode(err, errors.ErrConfig,
				"Failed to bind flag --"+name,
				"")
		}
	}
	return nil
}

// Find locates the config file using the search order:
// 1. Explicit path (from --config flag)
// 2. .sensorpanel.yaml in current directory
// 3. .sensorpanel.yaml in parent directories (stops at git root or home)
// 4. ~/.config/sensorpanel/config.yaml
//
// Returns the path to the config file, or empty string if not found.
func Find(explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			if os.IsNotExist(err) {
				return "", errors.WrapWithCode(err, errors.ErrConfig,
					"Specified config file not found: "+explicit,
					"Check the path is correct")
			}
			return "", errors.WrapWithCode(err, errors.ErrConfig,
				"Cannot access config file: "+explicit,
				"Check file permissions")
		}
		return explicit, nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", errors.WrapWithCode(err, errors.ErrConfig,
			"Cannot determine current directory",
			"Check directory permissions")
	}

	home, _ := os.UserHomeDir()
	dir := cwd
	for {
		candidate := filepath.Join(dir, ConfigFileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
		if isGitRoot(dir) {
			break
		}
		parent := filepath.Dir(dir)
		if parent == dir || (home != "" && parent == home) {
			break
		}
		dir = parent
	}

	if home != "" {
		globalConfig := filepath.Join(home, GlobalConfigDir, GlobalConfigFile)
		if _, err := os.Stat(globalConfig); err == nil {
			return globalConfig, nil
		}
	}

	return "", nil
}

// Resolve finds the config file (if any) and loads it together with flags.
// It returns the path that was used, empty when running on defaults.
func Resolve(explicit string, flags *pflag.FlagSet) (*Config, string, error) {
	path, err := Find(explicit)
	if err != nil {
		return nil, "", err
	}
	cfg, err := LoadWithFlags(path, flags)
	if err != nil {
		return nil, path, err
	}
	return cfg, path, nil
}

// parseConfig converts viper config to our Config struct with defaults merged in.
func parseConfig(v *viper.Viper, path string) (*Config, error) {
	cfg := DefaultConfig()

	if err := v.Unmarshal(cfg); err != nil {
		where := "your config"
		if path != "" {
			where = path
		}
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			"Invalid config format",
			"Check the YAML syntax in "+where)
	}

	cfg.Device.Port = strings.TrimSpace(cfg.Device.Port)
	if cfg.Log.File != "" {
		cfg.Log.File = expandHome(cfg.Log.File)
	}

	return cfg, nil
}

// setDefaults registers every key so environment overrides are picked up by
// Unmarshal and flag defaults never shadow file values.
func setDefaults(v *viper.Viper) {
	d := DefaultConfig()
	v.SetDefault("version", d.Version)
	v.SetDefault("device.port", d.Device.Port)
	v.SetDefault("device.slave_address", d.Device.SlaveAddress)
	v.SetDefault("device.baud_rate", d.Device.BaudRate)
	v.SetDefault("device.timeout", d.Device.Timeout)
	v.SetDefault("device.registers.co2", d.Device.Registers.CO2)
	v.SetDefault("device.registers.temperature", d.Device.Registers.Temperature)
	v.SetDefault("device.registers.humidity", d.Device.Registers.Humidity)
	v.SetDefault("device.decimals.co2", d.Device.Decimals.CO2)
	v.SetDefault("device.decimals.temperature", d.Device.Decimals.Temperature)
	v.SetDefault("device.decimals.humidity", d.Device.Decimals.Humidity)
	v.SetDefault("simulate", d.Simulate)
	v.SetDefault("simulation.jitter", d.Simulation.Jitter)
	v.SetDefault("simulation.seed", d.Simulation.Seed)
	v.SetDefault("smoothing_factor", d.SmoothingFactor)
	v.SetDefault("interval", d.Interval)
	v.SetDefault("metrics.listen", d.Metrics.Listen)
	v.SetDefault("log.file", d.Log.File)
	v.SetDefault("log.debug", d.Log.Debug)
}

// expandHome replaces a leading ~/ with the user's home directory.
func expandHome(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[2:])
}

// isGitRoot checks if a directory is a git repository root.
func isGitRoot(dir string) bool {
	info, err := os.Stat(filepath.Join(dir, ".git"))
	if err != nil {
		return false
	}
	return info.IsDir()
}

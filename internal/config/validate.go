package config

import (
	stderrors "errors"
	"fmt"
	"math"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rileyhilliard/sensorpanel/internal/errors"
)

// validate is shared; validator caches struct metadata per type.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report fields by their config key rather than the Go field name.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("mapstructure"), ",", 2)[0]
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	return v
}

// fieldHints gives a fix-it suggestion per config key.
var fieldHints = map[string]string{
	"interval":             "Use a duration between 100ms and 1h, like 1s or 5s.",
	"device.slave_address": "Modbus addresses run from 1 to 247. The tSENSE ships as 1.",
	"device.baud_rate":     "Use the rate the sensor is set to, 300 or more. The tSENSE ships at 9600.",
	"device.timeout":       "Use a duration between 10ms and 1m, like 500ms or 1s.",
	"device.registers":     "Register addresses are 16-bit: 0 to 65535 (0x0000-0xFFFF).",
	"device.decimals":      "Decimals run from 0 to 6.",
	"simulation.jitter":    "Use a jitter of 0 or more, like 0.2 or 0.5.",
	"metrics.listen":       "Use host:port, like :9100 or 127.0.0.1:9100.",
}

// Validate checks the config and returns a structured ErrConfig error for the
// first problem found.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errors.New(errors.ErrConfig,
			"Config is nil",
			"This is unexpected - try reloading the configuration.")
	}

	if cfg.Version > CurrentConfigVersion {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("This config is from the future (version %d, but sensorpanel only knows up to %d)", cfg.Version, CurrentConfigVersion),
			"Upgrade sensorpanel or lower the version field.")
	}

	if math.IsNaN(cfg.SmoothingFactor) || math.IsInf(cfg.SmoothingFactor, 0) {
		return errors.New(errors.ErrConfig,
			"smoothing_factor must be a number",
			"Use a value between 0 and 1; 0 disables smoothing.")
	}

	// The device section only matters when the device is read.
	if !cfg.UsesDevice() {
		return translate(validate.StructExcept(cfg, "Device"))
	}
	return translate(validate.Struct(cfg))
}

// ValidateDevice checks only the device section. Used when building a
// DeviceSource directly.
func ValidateDevice(d DeviceConfig) error {
	if strings.TrimSpace(d.Port) == "" {
		return errors.New(errors.ErrConfig,
			"No serial port configured",
			"Pass --serial-port (see 'sensorpanel ports'), or use --simulate.")
	}
	if err := validate.Struct(d); err != nil {
		return translatePrefixed(err, "device.")
	}
	return nil
}

func translate(err error) error {
	return translatePrefixed(err, "")
}

// translatePrefixed turns validator output into our structured error.
// prefix is prepended to field paths when validating a nested struct directly.
func translatePrefixed(err error, prefix string) error {
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !stderrors.As(err, &verrs) || len(verrs) == 0 {
		return errors.WrapWithCode(err, errors.ErrConfig, "Invalid config", "Check your .sensorpanel.yaml.")
	}

	fe := verrs[0]
	key := prefix + fieldKey(fe.Namespace())
	return errors.New(errors.ErrConfig,
		fmt.Sprintf("%s: %v %s", key, fe.Value(), describeRule(fe)),
		hintFor(key))
}

// fieldKey strips the root type from a validator namespace:
// "Config.device.slave_address" -> "device.slave_address".
func fieldKey(namespace string) string {
	if idx := strings.IndexByte(namespace, '.'); idx >= 0 {
		return namespace[idx+1:]
	}
	return namespace
}

func describeRule(fe validator.FieldError) string {
	switch fe.Tag() {
	case "min", "gte":
		return "is below the minimum of " + fe.Param()
	case "max", "lte":
		return "is above the maximum of " + fe.Param()
	case "oneof":
		return "is not one of " + fe.Param()
	case "hostname_port":
		return "is not a valid host:port"
	default:
		return "fails " + fe.Tag()
	}
}

func hintFor(key string) string {
	if hint, ok := fieldHints[key]; ok {
		return hint
	}
	// Nested keys share their section's hint (device.registers.co2 -> device.registers).
	if idx := strings.LastIndexByte(key, '.'); idx > 0 {
		if hint, ok := fieldHints[key[:idx]]; ok {
			return hint
		}
	}
	return "Check your .sensorpanel.yaml."
}

package cli

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rileyhilliard/sensorpanel/internal/config"
	"github.com/rileyhilliard/sensorpanel/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate runs the test in an empty project so no real config is picked up.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, ".git"), 0o755))
	t.Setenv("HOME", dir)
	testChdir(t, dir)
	return dir
}

func execute(ctx context.Context, args ...string) (string, error) {
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(ctx)
	return out.String(), err
}

func TestRootFlagsCoverConfigKeys(t *testing.T) {
	cmd := newRootCmd()
	for name := range config.FlagKeys {
		assert.NotNil(t, cmd.Flags().Lookup(name), "missing flag --%s", name)
	}
	assert.NotNil(t, cmd.Flags().Lookup("plain"))
	assert.NotNil(t, cmd.PersistentFlags().Lookup("config"))
}

func TestRootFlagDefaults(t *testing.T) {
	fs := newRootCmd().Flags()

	tests := []struct {
		flag string
		want string
	}{
		{"serial-port", ""},
		{"slave-address", "1"},
		{"baudrate", "9600"},
		{"timeout", "1s"},
		{"co2-register", "8"},
		{"temperature-register", "9"},
		{"humidity-register", "10"},
		{"co2-decimals", "0"},
		{"temperature-decimals", "1"},
		{"humidity-decimals", "1"},
		{"simulate", "false"},
		{"smoothing-factor", "0"},
		{"jitter", "0.2"},
		{"interval", "1s"},
		{"metrics-addr", ""},
		{"log-file", ""},
	}

	for _, tt := range tests {
		t.Run(tt.flag, func(t *testing.T) {
			f := fs.Lookup(tt.flag)
			require.NotNil(t, f)
			assert.Equal(t, tt.want, f.DefValue)
		})
	}
}

func TestRootPlainSimulated(t *testing.T) {
	isolate(t)

	ctx, cancel := context.WithTimeout(context.Background(), 350*time.Millisecond)
	defer cancel()

	out, err := execute(ctx, "--plain", "--simulate", "--seed", "7", "--interval", "100ms")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.NotEmpty(t, lines)
	for _, line := range lines {
		assert.Contains(t, line, "CO₂ ")
		assert.Contains(t, line, " ppm  Temperature ")
		assert.Contains(t, line, " °C  Humidity ")
		assert.True(t, strings.HasSuffix(line, " %"), line)
	}
}

func TestRootSimulateIgnoresDeviceSettings(t *testing.T) {
	isolate(t)

	ctx, cancel := context.WithTimeout(context.Background(), 150*time.Millisecond)
	defer cancel()

	out, err := execute(ctx, "--plain", "--simulate", "--serial-port", "/dev/ttyUSB9",
		"--baudrate", "14400", "--slave-address", "0", "--interval", "100ms")
	require.NoError(t, err)
	assert.Contains(t, out, "CO₂")
}

func TestRootUsesConfigFile(t *testing.T) {
	dir := isolate(t)
	logPath := filepath.Join(dir, "panel.log")

	cfg := config.DefaultConfig()
	cfg.Simulate = true
	cfg.Interval = 100 * time.Millisecond
	cfg.Log.File = logPath
	cfgPath := filepath.Join(dir, "custom.yaml")
	require.NoError(t, config.Write(cfgPath, cfg, false))

	ctx, cancel := context.WithTimeout(context.Background(), 150*time.Millisecond)
	defer cancel()

	out, err := execute(ctx, "--config", cfgPath, "--plain")
	require.NoError(t, err)
	assert.Contains(t, out, "CO₂")

	data, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "config: "+cfgPath)
	assert.Contains(t, string(data), "source: simulated")
}

func TestRootErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		code string
	}{
		{"interval below minimum", []string{"--plain", "--interval", "10ms"}, errors.ErrConfig},
		{"bad slave address", []string{"--plain", "--serial-port", "/dev/ttyUSB9", "--slave-address", "300"}, errors.ErrConfig},
		{"bad baud rate", []string{"--plain", "--serial-port", "/dev/ttyUSB9", "--baudrate", "100"}, errors.ErrConfig},
		{"NaN smoothing", []string{"--plain", "--smoothing-factor", "NaN"}, errors.ErrConfig},
		{"missing config file", []string{"--plain", "--config", "nope.yaml"}, errors.ErrConfig},
		{"unknown flag", []string{"--frobnicate"}, errors.ErrExec},
		{"register out of range", []string{"--co2-register", "0x10000"}, errors.ErrExec},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolate(t)
			_, err := execute(context.Background(), tt.args...)
			require.Error(t, err)
			assert.True(t, errors.IsCode(err, tt.code), "got %v", err)
		})
	}
}

func TestRootRejectsArgs(t *testing.T) {
	isolate(t)
	_, err := execute(context.Background(), "extra")
	require.Error(t, err)
}

func TestPrintError(t *testing.T) {
	t.Run("structured error keeps suggestion", func(t *testing.T) {
		var buf bytes.Buffer
		printError(&buf, errors.New(errors.ErrConfig, "Interval too short", "Use 100ms or more"))
		assert.Contains(t, buf.String(), "Interval too short")
		assert.Contains(t, buf.String(), "Use 100ms or more")
	})

	t.Run("wrapped structured error", func(t *testing.T) {
		var buf bytes.Buffer
		inner := errors.New(errors.ErrComm, "Can't open serial port /dev/ttyUSB9", "Run 'sensorpanel ports'")
		printError(&buf, fmt.Errorf("startup: %w", inner))
		assert.Contains(t, buf.String(), "Run 'sensorpanel ports'")
	})

	t.Run("plain error", func(t *testing.T) {
		var buf bytes.Buffer
		printError(&buf, fmt.Errorf("boom"))
		assert.Contains(t, buf.String(), "boom")
	})
}

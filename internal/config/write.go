package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Marshal renders cfg as a commented YAML document. Durations are written as
// strings ("1s") and register addresses in hex so the file reads like the
// sensor's datasheet.
func Marshal(cfg *Config) ([]byte, error) {
	root := mapping(
		pair("version", intNode(cfg.Version), "Schema version, leave as is."),
		pair("device", mapping(
			pair("port", strNode(cfg.Device.Port), "Serial port of the tSENSE (e.g. /dev/ttyUSB0 or COM3). Empty means simulate."),
			pair("slave_address", intNode(cfg.Device.SlaveAddress), "Modbus unit id."),
			pair("baud_rate", intNode(cfg.Device.BaudRate), ""),
			pair("timeout", strNode(cfg.Device.Timeout.String()), "Per-read timeout."),
			pair("registers", mapping(
				pair("co2", hexNode(cfg.Device.Registers.CO2), ""),
				pair("temperature", hexNode(cfg.Device.Registers.Temperature), ""),
				pair("humidity", hexNode(cfg.Device.Registers.Humidity), ""),
			), "Input register address per channel."),
			pair("decimals", mapping(
				pair("co2", intNode(cfg.Device.Decimals.CO2), ""),
				pair("temperature", intNode(cfg.Device.Decimals.Temperature), ""),
				pair("humidity", intNode(cfg.Device.Decimals.Humidity), ""),
			), "Fixed-point scale per channel: value = raw / 10^decimals."),
		), "Modbus RTU connection, 8N1 framing."),
		pair("simulate", boolNode(cfg.Simulate), "Force the simulator even when a port is set."),
		pair("simulation", mapping(
			pair("jitter", floatNode(cfg.Simulation.Jitter), "Max change per refresh."),
			pair("seed", int64Node(cfg.Simulation.Seed), "0 seeds from the clock."),
		), ""),
		pair("smoothing_factor", floatNode(cfg.SmoothingFactor), "Share (0-1) of each new sample blended in. 0 shows raw values."),
		pair("interval", strNode(cfg.Interval.String()), "Refresh period."),
		pair("metrics", mapping(
			pair("listen", strNode(cfg.Metrics.Listen), "host:port for /metrics, /readings and /healthz. Empty disables."),
		), ""),
		pair("log", mapping(
			pair("file", strNode(cfg.Log.File), "Log file path. Empty disables logging."),
			pair("debug", boolNode(cfg.Log.Debug), ""),
		), ""),
	)

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(&yaml.Node{Kind: yaml.DocumentNode, Content: []*yaml.Node{root}}); err != nil {
		return nil, fmt.Errorf("failed to encode config: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to encode config: %w", err)
	}
	return buf.Bytes(), nil
}

// Write saves cfg to path. An existing file is only replaced when overwrite is set.
func Write(path string, cfg *Config, overwrite bool) error {
	if _, err := os.Stat(path); err == nil && !overwrite {
		return fmt.Errorf("config file already exists: %s", path)
	}

	data, err := Marshal(cfg)
	if err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

type kv struct {
	key     string
	value   *yaml.Node
	comment string
}

func pair(key string, value *yaml.Node, comment string) kv {
	return kv{key: key, value: value, comment: comment}
}

func mapping(pairs ...kv) *yaml.Node {
	n := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, p := range pairs {
		k := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: p.key, HeadComment: p.comment}
		n.Content = append(n.Content, k, p.value)
	}
	return n
}

func strNode(s string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s}
}

func intNode(i int) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: strconv.Itoa(i)}
}

func int64Node(i int64) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: strconv.FormatInt(i, 10)}
}

func hexNode(i int) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: fmt.Sprintf("0x%04X", i)}
}

func floatNode(f float64) *yaml.Node {
	v := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.ContainsAny(v, ".eEn") {
		v += ".0"
	}
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!float", Value: v}
}

func boolNode(b bool) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: strconv.FormatBool(b)}
}

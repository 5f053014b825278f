// Package cli implements the sensorpanel command-line interface.
//
// The root command runs the live dashboard: it resolves the config, builds
// the reading source, and hands it to a poller whose results fan out to the
// Bubble Tea panel (or the plain line printer) and, when enabled, the HTTP
// exporter.
//
// # Command Structure
//
//	sensorpanel            - Live dashboard (plain lines when stdout is not a TTY)
//	sensorpanel ports      - List serial ports
//	sensorpanel init       - Create .sensorpanel.yaml
//	sensorpanel version    - Print build info
//
// # Flag Handling
//
// Every setting flag maps to a config key through config.FlagKeys. Only
// flags that were set on the command line override the file, so the
// defaults registered here are for --help output.
package cli

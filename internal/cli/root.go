package cli

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/rileyhilliard/sensorpanel/internal/errors"
	"github.com/rileyhilliard/sensorpanel/internal/ui"
	"github.com/spf13/cobra"
)

// rootCmd runs the dashboard.
var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	var opts panelOptions

	cmd := &cobra.Command{
		Use:   "sensorpanel",
		Short: "Live CO₂, temperature and humidity dashboard for a Senseair tSENSE",
		Long: `Poll a Senseair tSENSE over Modbus RTU and show the readings as a live
terminal dashboard. Without a serial port the readings are simulated.

Keyboard shortcuts:
  q / Ctrl+C  Quit
  r           Refresh now
  ?           Toggle help

Examples:
  sensorpanel --simulate
  sensorpanel --serial-port /dev/ttyUSB0 --smoothing-factor 0.3
  sensorpanel --serial-port COM3 --plain --interval 5s
  sensorpanel --simulate --metrics-addr 127.0.0.1:9108`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return panelCommand(cmd, opts)
		},
	}

	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "config file (default: .sensorpanel.yaml, then ~/.config/sensorpanel/config.yaml)")
	cmd.Flags().BoolVar(&opts.plain, "plain", false, "print one line per refresh instead of the dashboard")
	addSensorFlags(cmd.Flags())

	cmd.SetFlagErrorFunc(func(c *cobra.Command, err error) error {
		return errors.WrapWithCode(err, errors.ErrExec,
			err.Error(),
			fmt.Sprintf("Run '%s --help' for usage", c.CommandPath()))
	})

	cmd.AddCommand(newPortsCmd())
	cmd.AddCommand(newInitCmd())
	cmd.AddCommand(newVersionCmd())

	return cmd
}

// Execute runs the root command and exits non-zero on failure. SIGINT and
// SIGTERM cancel the command context so the dashboard shuts down cleanly.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()

	if err != nil {
		printError(os.Stderr, err)
		os.Exit(1)
	}
}

// printError writes err for humans. Structured errors carry their own
// formatting and suggestion.
func printError(w io.Writer, err error) {
	var e *errors.Error
	if stderrors.As(err, &e) {
		fmt.Fprintln(w, e.Error())
		return
	}
	fmt.Fprintln(w, ui.Fail(err.Error()))
}

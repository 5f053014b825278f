package cli

import (
	"fmt"
	"io"

	"github.com/rileyhilliard/sensorpanel/internal/modbus"
	"github.com/rileyhilliard/sensorpanel/internal/ui"
	"github.com/spf13/cobra"
)

// portLister is swapped out in tests.
var portLister = modbus.ListPorts

func newPortsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ports",
		Short: "List serial ports",
		Long: `List the serial ports on this machine, with USB vendor/product ids where
available. Use the port name with --serial-port or in the config file.

Examples:
  sensorpanel ports`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return portsCommand(cmd.OutOrStdout())
		},
	}
}

func portsCommand(w io.Writer) error {
	ports, err := portLister()
	if err != nil {
		return err
	}

	if len(ports) == 0 {
		fmt.Fprintln(w, ui.Warn("No serial ports found."))
		fmt.Fprintln(w, ui.Muted("Plug in the USB adapter, or run with --simulate."))
		return nil
	}

	columns := []ui.TableColumn{
		{Title: "Port", Width: 12},
		{Title: "USB ID", Width: 9},
		{Title: "Product", Width: 8},
		{Title: "Serial", Width: 8},
	}
	rows := make([][]string, 0, len(ports))
	for _, p := range ports {
		rows = append(rows, []string{p.Name, usbID(p), p.Product, p.SerialNumber})
	}

	fmt.Fprintln(w, ui.RenderSimpleTable(columns, rows))
	return nil
}

func usbID(p modbus.PortInfo) string {
	if !p.IsUSB {
		return ""
	}
	return p.VID + ":" + p.PID
}

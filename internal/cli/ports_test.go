package cli

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/rileyhilliard/sensorpanel/internal/errors"
	"github.com/rileyhilliard/sensorpanel/internal/modbus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withPortLister(t *testing.T, ports []modbus.PortInfo, err error) {
	t.Helper()
	orig := portLister
	portLister = func() ([]modbus.PortInfo, error) { return ports, err }
	t.Cleanup(func() { portLister = orig })
}

func TestPortsCommand(t *testing.T) {
	t.Run("lists ports", func(t *testing.T) {
		withPortLister(t, []modbus.PortInfo{
			{Name: "/dev/ttyS0"},
			{Name: "/dev/ttyUSB0", IsUSB: true, VID: "0403", PID: "6001", Product: "FT232R USB UART", SerialNumber: "A10K"},
		}, nil)

		var buf bytes.Buffer
		require.NoError(t, portsCommand(&buf))

		out := buf.String()
		assert.Contains(t, out, "Port")
		assert.Contains(t, out, "/dev/ttyS0")
		assert.Contains(t, out, "/dev/ttyUSB0")
		assert.Contains(t, out, "0403:6001")
		assert.Contains(t, out, "FT232R USB UART")
		assert.Contains(t, out, "A10K")
	})

	t.Run("no ports", func(t *testing.T) {
		withPortLister(t, nil, nil)

		var buf bytes.Buffer
		require.NoError(t, portsCommand(&buf))
		assert.Contains(t, buf.String(), "No serial ports found.")
		assert.Contains(t, buf.String(), "--simulate")
	})

	t.Run("enumeration error", func(t *testing.T) {
		withPortLister(t, nil, errors.WrapWithCode(fmt.Errorf("permission denied"), errors.ErrComm, "Couldn't list serial ports", ""))

		var buf bytes.Buffer
		err := portsCommand(&buf)
		require.Error(t, err)
		assert.True(t, errors.IsCode(err, errors.ErrComm))
	})
}

func TestPortsSubcommand(t *testing.T) {
	withPortLister(t, []modbus.PortInfo{{Name: "COM3"}}, nil)

	out, err := execute(testContext(t), "ports")
	require.NoError(t, err)
	assert.Contains(t, out, "COM3")
}

func TestUSBID(t *testing.T) {
	assert.Equal(t, "", usbID(modbus.PortInfo{Name: "/dev/ttyS0", VID: "0403"}))
	assert.Equal(t, "10c4:ea60", usbID(modbus.PortInfo{IsUSB: true, VID: "10c4", PID: "ea60"}))
}

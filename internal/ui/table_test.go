package ui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/bubbles/table"
	"github.com/stretchr/testify/assert"
)

func TestNewTable(t *testing.T) {
	columns := []TableColumn{
		{Title: "Port", Width: 20},
		{Title: "Product", Width: 10},
	}
	rows := []table.Row{
		{"/dev/ttyUSB0", "FT232R"},
		{"/dev/ttyS0", ""},
	}

	view := NewTable(columns, rows).View()
	assert.Contains(t, view, "Port")
	assert.Contains(t, view, "Product")
	assert.Contains(t, view, "/dev/ttyUSB0")
	assert.Contains(t, view, "/dev/ttyS0")
}

func TestRenderSimpleTable(t *testing.T) {
	t.Run("empty rows", func(t *testing.T) {
		assert.Empty(t, RenderSimpleTable([]TableColumn{{Title: "Port", Width: 4}}, nil))
	})

	t.Run("widens columns to fit", func(t *testing.T) {
		long := "/dev/serial/by-id/usb-FTDI_FT232R_USB_UART_A10K-if00-port0"
		out := RenderSimpleTable([]TableColumn{{Title: "Port", Width: 4}}, [][]string{{long}})
		assert.Contains(t, out, long)
	})

	t.Run("one line per row plus header", func(t *testing.T) {
		out := RenderSimpleTable(
			[]TableColumn{{Title: "A", Width: 3}, {Title: "B", Width: 3}},
			[][]string{{"1", "2"}, {"3", "4"}, {"5", "6"}},
		)
		assert.GreaterOrEqual(t, len(strings.Split(strings.TrimRight(out, "\n"), "\n")), 4)
	})
}

func TestStatusHelpers(t *testing.T) {
	assert.Contains(t, Success("Wrote config"), SymbolSuccess)
	assert.Contains(t, Success("Wrote config"), "Wrote config")
	assert.Contains(t, Fail("boom"), SymbolFail)
	assert.Contains(t, Warn("careful"), SymbolWarning)
	assert.Contains(t, Muted("quiet"), "quiet")
}

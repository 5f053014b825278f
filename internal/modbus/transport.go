// Package modbus talks to the tSENSE over Modbus RTU. Framing, CRC and the
// serial line are handled by github.com/goburrow/modbus; this package only
// opens the port with the configured settings, reads single input registers
// and applies the fixed-point scale.
package modbus

import (
	"encoding/binary"
	"fmt"
	"math"
	"sync"

	gomodbus "github.com/goburrow/modbus"
	"github.com/rileyhilliard/sensorpanel/internal/config"
	"github.com/rileyhilliard/sensorpanel/internal/errors"
)

// Serial framing used by the tSENSE.
const (
	DataBits = 8
	Parity   = "N"
	StopBits = 1
)

// registerReader is the slice of gomodbus.Client we use.
type registerReader interface {
	ReadInputRegisters(address, quantity uint16) ([]byte, error)
}

// Transport reads input registers (function code 4) from one slave.
type Transport struct {
	mu     sync.Mutex
	reader registerReader
	closer func() error
	port   string
	closed bool
}

// Open connects to the serial port described by cfg.
func Open(cfg config.DeviceConfig) (*Transport, error) {
	handler := gomodbus.NewRTUClientHandler(cfg.Port)
	handler.BaudRate = cfg.BaudRate
	handler.DataBits = DataBits
	handler.Parity = Parity
	handler.StopBits = StopBits
	handler.SlaveId = byte(cfg.SlaveAddress)
	handler.Timeout = cfg.Timeout

	if err := handler.Connect(); err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrComm,
			fmt.Sprintf("Can't open serial port %s", cfg.Port),
			"Check the port exists ('sensorpanel ports') and that no other program is using it.")
	}

	return newTransport(cfg.Port, gomodbus.NewClient(handler), handler.Close), nil
}

func newTransport(port string, reader registerReader, closer func() error) *Transport {
	return &Transport{
		reader: reader,
		closer: closer,
		port:   port,
	}
}

// ReadRegister reads one unsigned 16-bit input register and divides it by
// 10^decimals.
func (t *Transport) ReadRegister(address uint16, decimals int) (float64, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return 0, fmt.Errorf("%s: transport is closed", t.port)
	}

	data, err := t.reader.ReadInputRegisters(address, 1)
	if err != nil {
		return 0, fmt.Errorf("%s: read input register 0x%04X: %w", t.port, address, err)
	}
	if len(data) < 2 {
		return 0, fmt.Errorf("%s: register 0x%04X: short response (%d bytes)", t.port, address, len(data))
	}

	return Scale(binary.BigEndian.Uint16(data), decimals), nil
}

// Close closes the serial port. Closing twice is a no-op.
func (t *Transport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return nil
	}
	t.closed = true
	if t.closer == nil {
		return nil
	}
	return t.closer()
}

// Scale converts a raw register value to a physical value.
func Scale(raw uint16, decimals int) float64 {
	if decimals <= 0 {
		return float64(raw)
	}
	return float64(raw) / math.Pow10(decimals)
}

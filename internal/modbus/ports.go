package modbus

import (
	"fmt"
	"sort"

	"github.com/rileyhilliard/sensorpanel/internal/errors"
	"go.bug.st/serial/enumerator"
)

// PortInfo describes a serial port found on this machine.
type PortInfo struct {
	Name         string
	IsUSB        bool
	VID          string
	PID          string
	SerialNumber string
	Product      string
}

// String renders the port the way 'sensorpanel ports' lists it.
func (p PortInfo) String() string {
	if !p.IsUSB {
		return p.Name
	}
	desc := fmt.Sprintf("%s  USB %s:%s", p.Name, p.VID, p.PID)
	if p.Product != "" {
		desc += "  " + p.Product
	}
	if p.SerialNumber != "" {
		desc += "  (" + p.SerialNumber + ")"
	}
	return desc
}

// listPorts is swapped out in tests.
var listPorts = enumerator.GetDetailedPortsList

// ListPorts returns the serial ports on this machine, sorted by name.
func ListPorts() ([]PortInfo, error) {
	details, err := listPorts()
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrComm,
			"Couldn't list serial ports",
			"Check you have permission to read the serial devices.")
	}

	ports := make([]PortInfo, 0, len(details))
	for _, d := range details {
		if d == nil {
			continue
		}
		ports = append(ports, PortInfo{
			Name:         d.Name,
			IsUSB:        d.IsUSB,
			VID:          d.VID,
			PID:          d.PID,
			SerialNumber: d.SerialNumber,
			Product:      d.Product,
		})
	}
	sort.Slice(ports, func(i, j int) bool { return ports[i].Name < ports[j].Name })
	return ports, nil
}

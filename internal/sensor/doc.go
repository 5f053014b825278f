// Package sensor implements the acquisition and signal-conditioning core.
//
// A Source produces snapshots of Readings. Three implementations exist:
//
//	DeviceSource     - reads a Senseair tSENSE over Modbus RTU through a Transport
//	SimulatedSource  - bounded random walk per channel
//	SmoothingSource  - exponential smoothing decorator around any other Source
//
// Build composes one of them from configuration. Sources are not safe for
// concurrent use: a single driver (see package poller) owns each instance and
// calls Refresh once per tick.
//
// Failures are all-or-nothing. Initial and Refresh either return a complete
// snapshot or an error coded errors.ErrComm, never a partial set.
package sensor

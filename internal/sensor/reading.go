package sensor

import "fmt"

// Channel names reported by the built-in sources.
const (
	ChannelCO2         = "CO₂"
	ChannelTemperature = "Temperature"
	ChannelHumidity    = "Humidity"
)

// Units for the built-in channels. Display only.
const (
	UnitPPM     = "ppm"
	UnitCelsius = "°C"
	UnitPercent = "%"
)

// DefaultOrder is the display order of the built-in channels.
var DefaultOrder = []string{ChannelCO2, ChannelTemperature, ChannelHumidity}

// Reading is one observation of a channel. Treat it as immutable.
type Reading struct {
	Name  string  `json:"name"`
	Unit  string  `json:"unit"`
	Value float64 `json:"value"`
}

// String formats the reading the way the panel shows it: one decimal plus unit.
func (r Reading) String() string {
	return fmt.Sprintf("%s %.1f %s", r.Name, r.Value, r.Unit)
}

// Find returns the reading for name, if present.
func Find(readings []Reading, name string) (Reading, bool) {
	for _, r := range readings {
		if r.Name == name {
			return r, true
		}
	}
	return Reading{}, false
}

package panel

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/rileyhilliard/sensorpanel/internal/sensor"
)

// Dashboard color palette
const (
	ColorSurfaceBg = lipgloss.Color("#0F172A") // Slate 900
	ColorBorder    = lipgloss.Color("#334155") // Slate 700

	ColorTextPrimary   = lipgloss.Color("#F8FAFC")
	ColorTextSecondary = lipgloss.Color("#94A3B8")
	ColorTextMuted     = lipgloss.Color("#64748B")

	ColorAccent = lipgloss.Color("#38BDF8") // Sky 400
	ColorLive   = lipgloss.Color("#22C55E")
	ColorStale  = lipgloss.Color("#F59E0B")
	ColorError  = lipgloss.Color("#EF4444")
)

// Channel accent colors.
const (
	ColorCO2         = lipgloss.Color("#0ea5e9") // Sky blue
	ColorTemperature = lipgloss.Color("#8b5cf6") // Violet
	ColorHumidity    = lipgloss.Color("#10b981") // Emerald
	ColorOther       = lipgloss.Color("#38bdf8")
)

var channelColors = map[string]lipgloss.Color{
	sensor.ChannelCO2:         ColorCO2,
	sensor.ChannelTemperature: ColorTemperature,
	sensor.ChannelHumidity:    ColorHumidity,
}

// ChannelColor returns the accent color for a channel.
func ChannelColor(name string) lipgloss.Color {
	if c, ok := channelColors[name]; ok {
		return c
	}
	return ColorOther
}

var (
	HeaderStyle = lipgloss.NewStyle().
			Foreground(ColorTextPrimary).
			Background(ColorSurfaceBg).
			Bold(true).
			Padding(0, 1)

	TitleStyle = lipgloss.NewStyle().
			Foreground(ColorAccent).
			Bold(true)

	SubtitleStyle = lipgloss.NewStyle().
			Foreground(ColorTextSecondary)

	UpdatedStyle = lipgloss.NewStyle().
			Foreground(ColorTextSecondary).
			Padding(0, 1)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ColorError)

	FooterStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted).
			Padding(0, 1)

	CardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder).
			Padding(0, 1).
			MarginRight(1).
			MarginBottom(1)

	LabelStyle = lipgloss.NewStyle().
			Foreground(ColorTextSecondary)

	ValueStyle = lipgloss.NewStyle().
			Bold(true)

	StatusLiveStyle = lipgloss.NewStyle().
			Foreground(ColorLive)

	StatusStaleStyle = lipgloss.NewStyle().
				Foreground(ColorStale)

	StatusWaitingStyle = lipgloss.NewStyle().
				Foreground(ColorTextMuted)
)

// Status indicator glyphs
const (
	StatusLive    = "●"
	StatusStale   = "◌"
	StatusWaiting = "◐"
)

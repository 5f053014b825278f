package panel

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// FormatValue renders a reading value the way cards show it.
func FormatValue(value float64, unit string) string {
	if unit == "" {
		return fmt.Sprintf("%.1f", value)
	}
	return fmt.Sprintf("%.1f %s", value, unit)
}

// renderCard renders one channel: name, value and freshness.
func renderCard(c Card, width int) string {
	color := ChannelColor(c.Name)
	style := CardStyle.Width(width).BorderForeground(color)

	name := lipgloss.NewStyle().Foreground(color).Bold(true).Render(c.Name)

	value := LabelStyle.Render("--")
	if c.State != CardWaiting {
		value = ValueStyle.Foreground(color).Render(FormatValue(c.Value, c.Unit))
	}

	return style.Render(lipgloss.JoinVertical(lipgloss.Left, name, value, renderState(c.State)))
}

func renderState(s CardState) string {
	switch s {
	case CardLive:
		return StatusLiveStyle.Render(StatusLive + " live")
	case CardStale:
		return StatusStaleStyle.Render(StatusStale + " stale")
	default:
		return StatusWaitingStyle.Render(StatusWaiting + " waiting")
	}
}

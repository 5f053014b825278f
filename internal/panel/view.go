package panel

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const (
	defaultCardWidth = 26
	minCardWidth     = 18
)

// renderDashboard renders the complete dashboard view.
func (m Model) renderDashboard() string {
	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderStatusLine())
	b.WriteString("\n\n")
	b.WriteString(m.renderCards())
	b.WriteString("\n")
	b.WriteString(m.renderFooter())

	return b.String()
}

// renderHeader renders the title and the source description.
func (m Model) renderHeader() string {
	title := TitleStyle.Render("Sensor panel")
	if m.source == "" {
		return HeaderStyle.Render(title)
	}
	return HeaderStyle.Render(title + SubtitleStyle.Render(" | "+m.source))
}

func (m Model) renderStatusLine() string {
	line := m.StatusLine()
	if m.lastErr != "" || (m.startupErr != "" && m.lastUpdate.IsZero()) {
		return UpdatedStyle.Render(ErrorStyle.Render(line))
	}
	return UpdatedStyle.Render(line)
}

// renderCards renders the row(s) of channel cards.
func (m Model) renderCards() string {
	if len(m.cards) == 0 {
		return LabelStyle.Render(" No readings yet")
	}

	cardWidth := m.calculateCardWidth()
	cards := make([]string, 0, len(m.cards))
	for _, c := range m.cards {
		cards = append(cards, renderCard(*c, cardWidth))
	}
	return m.layoutCards(cards, cardWidth)
}

// calculateCardWidth fits three cards side by side when the terminal allows.
func (m Model) calculateCardWidth() int {
	if m.width == 0 {
		return defaultCardWidth
	}
	if m.width >= 3*(defaultCardWidth+3) {
		return defaultCardWidth
	}
	if w := m.width - 4; w < defaultCardWidth {
		if w < minCardWidth {
			return minCardWidth
		}
		return w
	}
	return defaultCardWidth
}

// layoutCards arranges cards in rows based on terminal width.
func (m Model) layoutCards(cards []string, cardWidth int) string {
	if len(cards) == 0 {
		return ""
	}

	cardsPerRow := len(cards)
	if m.width > 0 {
		// Account for card margins and borders
		effectiveCardWidth := cardWidth + 3
		cardsPerRow = m.width / effectiveCardWidth
		if cardsPerRow < 1 {
			cardsPerRow = 1
		}
	}

	var rows []string
	for i := 0; i < len(cards); i += cardsPerRow {
		end := i + cardsPerRow
		if end > len(cards) {
			end = len(cards)
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cards[i:end]...))
	}

	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

// renderFooter renders key hints, or the full help when toggled.
func (m Model) renderFooter() string {
	return FooterStyle.Render(m.help.View(m.keys))
}

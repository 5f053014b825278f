package panel

import (
	"sort"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rileyhilliard/sensorpanel/internal/errors"
	"github.com/rileyhilliard/sensorpanel/internal/poller"
	"github.com/rileyhilliard/sensorpanel/internal/sensor"
)

// TimeFormat is the layout of the "Last updated" timestamp.
const TimeFormat = "2006-01-02 15:04:05"

// CardState is the freshness of a card's value.
type CardState int

const (
	// CardWaiting has no value yet.
	CardWaiting CardState = iota
	// CardLive shows a value from the latest refresh.
	CardLive
	// CardStale shows an older value because the latest refresh failed or
	// did not include the channel.
	CardStale
)

// String returns a short label for the state.
func (s CardState) String() string {
	switch s {
	case CardWaiting:
		return "waiting"
	case CardLive:
		return "live"
	case CardStale:
		return "stale"
	default:
		return "unknown"
	}
}

// Card is the display state of one channel.
type Card struct {
	Name  string
	Unit  string
	Value float64
	State CardState

	arrival int
}

// ResultMsg carries a poll result into the program.
type ResultMsg poller.Result

// Sender is the part of *tea.Program that Sink needs.
type Sender interface {
	Send(msg tea.Msg)
}

// Sink returns a poller sink that forwards results to the program.
func Sink(p Sender) poller.Sink {
	return func(r poller.Result) {
		p.Send(ResultMsg(r))
	}
}

// Option configures a Model.
type Option func(*Model)

// WithRefresh sets the function the refresh key calls, typically
// Poller.Trigger.
func WithRefresh(fn func()) Option {
	return func(m *Model) {
		m.refresh = fn
	}
}

// Model is the Bubble Tea model for the sensor dashboard.
type Model struct {
	source   string
	cards    []*Card
	index    map[string]*Card
	arrivals int

	lastUpdate time.Time
	lastErr    string
	startupErr string

	width    int
	height   int
	keys     keyMap
	help     help.Model
	showHelp bool
	quitting bool
	refresh  func()
}

// New creates a dashboard for the source described by source.
func New(source string, opts ...Option) Model {
	m := Model{
		source: source,
		index:  make(map[string]*Card),
		keys:   defaultKeys,
		help:   help.New(),
	}
	for _, opt := range opts {
		opt(&m)
	}
	return m
}

// Init has nothing to start: results arrive from the poller.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width

	case ResultMsg:
		m.apply(poller.Result(msg))
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Refresh):
		if m.refresh != nil {
			m.refresh()
		}

	case key.Matches(msg, m.keys.Help):
		m.showHelp = !m.showHelp
		m.help.ShowAll = m.showHelp
	}
	return m, nil
}

// apply folds a poll result into the cards.
func (m *Model) apply(r poller.Result) {
	if r.Err != nil {
		msg := errors.OneLine(r.Err)
		if r.Initial {
			m.startupErr = msg
		} else {
			m.lastErr = msg
			m.lastUpdate = r.At
		}
		for _, c := range m.cards {
			if c.State == CardLive {
				c.State = CardStale
			}
		}
		return
	}

	m.lastUpdate = r.At
	m.lastErr = ""
	m.startupErr = ""

	seen := make(map[string]bool, len(r.Readings))
	added := false
	for _, reading := range r.Readings {
		c, ok := m.index[reading.Name]
		if !ok {
			c = &Card{Name: reading.Name, arrival: m.arrivals}
			m.arrivals++
			m.index[reading.Name] = c
			m.cards = append(m.cards, c)
			added = true
		}
		c.Unit = reading.Unit
		c.Value = reading.Value
		c.State = CardLive
		seen[reading.Name] = true
	}

	for _, c := range m.cards {
		if !seen[c.Name] && c.State == CardLive {
			c.State = CardStale
		}
	}

	if added {
		m.sortCards()
	}
}

// sortCards puts the built-in channels first in their fixed order, then
// everything else in arrival order.
func (m *Model) sortCards() {
	sort.SliceStable(m.cards, func(i, j int) bool {
		ri, rj := rank(m.cards[i].Name), rank(m.cards[j].Name)
		if ri != rj {
			return ri < rj
		}
		return m.cards[i].arrival < m.cards[j].arrival
	})
}

func rank(name string) int {
	for i, n := range sensor.DefaultOrder {
		if n == name {
			return i
		}
	}
	return len(sensor.DefaultOrder)
}

// Cards returns a copy of the cards in display order.
func (m Model) Cards() []Card {
	out := make([]Card, len(m.cards))
	for i, c := range m.cards {
		out[i] = *c
	}
	return out
}

// LastUpdate returns the time of the most recent refresh, failed or not.
func (m Model) LastUpdate() time.Time {
	return m.lastUpdate
}

// StatusLine is the text under the header.
func (m Model) StatusLine() string {
	switch {
	case m.startupErr != "" && m.lastUpdate.IsZero():
		return "Startup error: " + m.startupErr
	case m.lastUpdate.IsZero():
		return "Waiting for first reading..."
	case m.lastErr != "":
		return "Last updated: " + m.lastUpdate.Format(TimeFormat) + " (error: " + m.lastErr + ")"
	default:
		return "Last updated: " + m.lastUpdate.Format(TimeFormat)
	}
}

// View renders the dashboard.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	return m.renderDashboard()
}

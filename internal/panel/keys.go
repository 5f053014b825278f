package panel

import "github.com/charmbracelet/bubbles/key"

// keyMap is the dashboard's bindings. It satisfies help.KeyMap.
type keyMap struct {
	Quit    key.Binding
	Refresh key.Binding
	Help    key.Binding
}

var defaultKeys = keyMap{
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
	Refresh: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "refresh now"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "toggle help"),
	),
}

// ShortHelp is shown in the footer.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Quit, k.Refresh, k.Help}
}

// FullHelp is shown when help is toggled on.
func (k keyMap) FullHelp() [][]key.Binding {
	quit := key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q / ctrl+c", "quit"))
	return [][]key.Binding{
		{quit, k.Refresh},
		{k.Help},
	}
}

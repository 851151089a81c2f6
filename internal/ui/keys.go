package ui

import (
	"github.com/charmbracelet/bubbles/key"
)

// keyMap lists the dashboard bindings
type keyMap struct {
	Pause   key.Binding
	Reset   key.Binding
	Refresh key.Binding
	History key.Binding
	Help    key.Binding
	Quit    key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Pause: key.NewBinding(
			key.WithKeys("p", " "),
			key.WithHelp("p/space", "pause/resume"),
		),
		Reset: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reset"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("u"),
			key.WithHelp("u", "refresh now"),
		),
		History: key.NewBinding(
			key.WithKeys("l"),
			key.WithHelp("l", "fetch history"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp implements help.KeyMap
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Pause, k.Reset, k.Refresh, k.History, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Pause, k.Reset, k.Refresh},
		{k.History, k.Help, k.Quit},
	}
}

package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Pause   key.Binding
	Theme   key.Binding
	Boss    key.Binding
	Reset   key.Binding
	Quit    key.Binding
	Confirm key.Binding
	Cancel  key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Pause:   key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "pause/resume")),
		Theme:   key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "theme")),
		Boss:    key.NewBinding(key.WithKeys(" ", "esc"), key.WithHelp("space/esc", "hide")),
		Reset:   key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reset day")),
		Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		Confirm: key.NewBinding(key.WithKeys("y", "Y"), key.WithHelp("y", "yes")),
		Cancel:  key.NewBinding(key.WithKeys("n", "N", "esc"), key.WithHelp("n", "no")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Pause, k.Theme, k.Boss, k.Reset, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

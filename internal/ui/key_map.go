package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the [key.Binding] mapping for the TUI.
type keyMap struct {
	up      key.Binding
	down    key.Binding
	add     key.Binding
	toggle  key.Binding
	remove  key.Binding
	refresh key.Binding
	submit  key.Binding
	cancel  key.Binding
	quit    key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		add:     key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add")),
		toggle:  key.NewBinding(key.WithKeys(" ", "enter"), key.WithHelp("space", "done")),
		remove:  key.NewBinding(key.WithKeys("d", "x"), key.WithHelp("d", "delete")),
		refresh: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		submit:  key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "save")),
		cancel:  key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
		quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.add, k.toggle, k.remove, k.refresh, k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.up, k.down},
		{k.add, k.toggle, k.remove},
		{k.refresh, k.quit},
	}
}

// inputHelp is shown while the add prompt is open.
func (k keyMap) inputHelp() []key.Binding {
	return []key.Binding{k.submit, k.cancel}
}

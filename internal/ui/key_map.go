package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the [key.Binding] mapping for the TUI.
type keyMap struct {
	up      key.Binding
	down    key.Binding
	tab     key.Binding
	enter   key.Binding
	back    key.Binding
	create  key.Binding
	ret     key.Binding
	add     key.Binding
	details key.Binding
	dismiss key.Binding
	filter  key.Binding
	quit    key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		tab:     key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next view")),
		enter:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "select")),
		back:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "clear selection")),
		create:  key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "create rental")),
		ret:     key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "return")),
		add:     key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add to library")),
		details: key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "details")),
		dismiss: key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "dismiss")),
		filter:  key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "filter")),
		quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.tab, k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.up, k.down, k.tab, k.enter},
		{k.create, k.ret, k.add, k.details},
		{k.dismiss, k.filter, k.back, k.quit},
	}
}

package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Toggle  key.Binding
	Add     key.Binding
	Refresh key.Binding
	Quit    key.Binding

	Submit       key.Binding
	Cancel       key.Binding
	NextCategory key.Binding
	PrevCategory key.Binding
	PriorityUp   key.Binding
	PriorityDown key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Toggle:  key.NewBinding(key.WithKeys(" ", "x"), key.WithHelp("space", "toggle")),
		Add:     key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add")),
		Refresh: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),

		Submit:       key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "submit")),
		Cancel:       key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
		NextCategory: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "category")),
		PrevCategory: key.NewBinding(key.WithKeys("shift+tab")),
		PriorityUp:   key.NewBinding(key.WithKeys("up"), key.WithHelp("↑/↓", "priority")),
		PriorityDown: key.NewBinding(key.WithKeys("down")),
	}
}

func (k keyMap) listHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.Add, k.Refresh}
}

func (k keyMap) formHelp() []key.Binding {
	return []key.Binding{k.Submit, k.Cancel, k.NextCategory, k.PriorityUp}
}

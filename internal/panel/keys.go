package panel

import "github.com/charmbracelet/bubbles/key"

// KeyMap binds input gestures to panel and document actions.
type KeyMap struct {
	Activate key.Binding
	Next     key.Binding
	Previous key.Binding
	Up       key.Binding
	Down     key.Binding

	SwitchPane key.Binding
	ToggleFold key.Binding
	Widen      key.Binding

	Confirm key.Binding
	Deny    key.Binding
	Quit    key.Binding
}

// DefaultKeyMap returns the default bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Activate: key.NewBinding(
			key.WithKeys("enter", " "),
			key.WithHelp("enter", "jump"),
		),
		Next: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "next heading"),
		),
		Previous: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "previous heading"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		SwitchPane: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "switch pane"),
		),
		ToggleFold: key.NewBinding(
			key.WithKeys("z"),
			key.WithHelp("z", "fold"),
		),
		Widen: key.NewBinding(
			key.WithKeys("w"),
			key.WithHelp("w", "widen"),
		),
		Confirm: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "yes"),
		),
		Deny: key.NewBinding(
			key.WithKeys("n", "esc"),
			key.WithHelp("n", "no"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp returns the bindings shown in the status line.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Activate, k.Next, k.Previous, k.SwitchPane, k.ToggleFold, k.Widen, k.Quit}
}

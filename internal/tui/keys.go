package tui

import "github.com/charmbracelet/bubbles/key"

// keyMap lists the counter's bindings. Holding a key relies on the
// terminal's auto-repeat, so a held + keeps counting.
type keyMap struct {
	Increment key.Binding
	Decrement key.Binding
	Reset     key.Binding
	Print     key.Binding
	Label     key.Binding
	Job       key.Binding
	Sequence  key.Binding
	Mode      key.Binding
	Compact   key.Binding
	Theme     key.Binding
	Help      key.Binding
	Quit      key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Increment: key.NewBinding(key.WithKeys("up", "k", "+", "="), key.WithHelp("↑/+", "count")),
		Decrement: key.NewBinding(key.WithKeys("down", "j", "-"), key.WithHelp("↓/-", "uncount")),
		Reset:     key.NewBinding(key.WithKeys("0", "r"), key.WithHelp("0", "reset")),
		Print:     key.NewBinding(key.WithKeys("p", "P", "enter"), key.WithHelp("p", "print to tape")),
		Label:     key.NewBinding(key.WithKeys("l"), key.WithHelp("l", "label")),
		Job:       key.NewBinding(key.WithKeys("J"), key.WithHelp("J", "job")),
		Sequence:  key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "sequence on/off")),
		Mode:      key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "sequence style")),
		Compact:   key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "compact")),
		Theme:     key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "theme")),
		Help:      key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Increment, k.Decrement, k.Print, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Increment, k.Decrement, k.Reset, k.Print},
		{k.Label, k.Job, k.Sequence, k.Mode},
		{k.Compact, k.Theme, k.Help, k.Quit},
	}
}

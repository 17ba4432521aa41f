package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap holds the app-level bindings. Quest selection and completion are
// handled by the quest list; Select and Complete here only feed the help view.
type KeyMap struct {
	NextTab  key.Binding
	PrevTab  key.Binding
	Select   key.Binding
	Complete key.Binding
	Rename   key.Binding
	NewDay   key.Binding
	Help     key.Binding
	Quit     key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		NextTab: key.NewBinding(
			key.WithKeys("tab", "l", "right"),
			key.WithHelp("tab/l", "next tab"),
		),
		PrevTab: key.NewBinding(
			key.WithKeys("shift+tab", "h", "left"),
			key.WithHelp("shift+tab/h", "prev tab"),
		),
		Select: key.NewBinding(
			key.WithKeys("up", "down", "k", "j"),
			key.WithHelp("↑↓/jk", "select"),
		),
		Complete: key.NewBinding(
			key.WithKeys("enter", " "),
			key.WithHelp("enter", "complete quest"),
		),
		Rename: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "rename hunter"),
		),
		NewDay: key.NewBinding(
			key.WithKeys("N"),
			key.WithHelp("N", "force new day"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "more keys"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

package keys

import "github.com/charmbracelet/bubbles/key"

// KeyMap holds the key bindings shared by the views
type KeyMap struct {
	Quit         key.Binding
	Back         key.Binding
	Tab          key.Binding
	Up           key.Binding
	Down         key.Binding
	Enter        key.Binding
	New          key.Binding
	Edit         key.Binding
	Delete       key.Binding
	CycleStatus  key.Binding
	Search       key.Binding
	FilterStatus key.Binding
	FilterPrio   key.Binding
	FilterCat    key.Binding
	ClearFilters key.Binding
	Save         key.Binding
	Help         key.Binding
	Left         key.Binding
	Right        key.Binding
}

// DefaultKeyMap returns the default bindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		Tab: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Enter: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("↵", "select"),
		),
		New: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "new"),
		),
		Edit: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "edit"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete"),
		),
		CycleStatus: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "next status"),
		),
		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "search"),
		),
		FilterStatus: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "status filter"),
		),
		FilterPrio: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "priority filter"),
		),
		FilterCat: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "category filter"),
		),
		ClearFilters: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "clear filters"),
		),
		Save: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "save"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Left: key.NewBinding(
			key.WithKeys("left", "h"),
		),
		Right: key.NewBinding(
			key.WithKeys("right", "l"),
		),
	}
}

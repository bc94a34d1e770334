package keys

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the global keybindings for the application.
type KeyMap struct {
	// Navigation
	Down key.Binding
	Up   key.Binding

	// Selection
	Select key.Binding

	// Back / Quit
	Back key.Binding
	Quit key.Binding

	// Search
	Search key.Binding

	// View switching
	Dashboard key.Binding
	Projects  key.Binding
	Tasks     key.Binding

	// Filter cycling
	FilterStatus   key.Binding
	FilterPriority key.Binding
	FilterProject  key.Binding
	ClearFilters   key.Binding

	// Mutations
	New    key.Binding
	Edit   key.Binding
	Delete key.Binding

	// Manual refresh
	Refresh key.Binding

	// Session
	Logout key.Binding
}

// DefaultKeyMap returns the default set of keybindings.
func DefaultKeyMap() *KeyMap {
	return &KeyMap{
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/↓", "down"),
		),
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/↑", "up"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "open"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "search"),
		),
		Dashboard: key.NewBinding(
			key.WithKeys("D"),
			key.WithHelp("D", "dashboard"),
		),
		Projects: key.NewBinding(
			key.WithKeys("P"),
			key.WithHelp("P", "projects"),
		),
		Tasks: key.NewBinding(
			key.WithKeys("T"),
			key.WithHelp("T", "tasks"),
		),
		FilterStatus: key.NewBinding(
			key.WithKeys("1"),
			key.WithHelp("1", "status filter"),
		),
		FilterPriority: key.NewBinding(
			key.WithKeys("2"),
			key.WithHelp("2", "priority filter"),
		),
		FilterProject: key.NewBinding(
			key.WithKeys("3"),
			key.WithHelp("3", "project filter"),
		),
		ClearFilters: key.NewBinding(
			key.WithKeys("0"),
			key.WithHelp("0", "clear filters"),
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
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		Logout: key.NewBinding(
			key.WithKeys("ctrl+l"),
			key.WithHelp("ctrl+l", "logout"),
		),
	}
}

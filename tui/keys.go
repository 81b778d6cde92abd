package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up        key.Binding
	Down      key.Binding
	Add       key.Binding
	Prev      key.Binding
	Next      key.Binding
	ToDo      key.Binding
	Doing     key.Binding
	Done      key.Binding
	Delete    key.Binding
	DeleteAll key.Binding
	Search    key.Binding
	Filter    key.Binding
	Clear     key.Binding
	Theme     key.Binding
	Help      key.Binding
	Quit      key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up:        key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:      key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Add:       key.NewBinding(key.WithKeys("a", "i", "n"), key.WithHelp("a", "add task")),
		Prev:      key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "previous status")),
		Next:      key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "next status")),
		ToDo:      key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "to do")),
		Doing:     key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "doing")),
		Done:      key.NewBinding(key.WithKeys("3"), key.WithHelp("3", "done")),
		Delete:    key.NewBinding(key.WithKeys("d", "delete"), key.WithHelp("d", "delete")),
		DeleteAll: key.NewBinding(key.WithKeys("D"), key.WithHelp("D", "delete all")),
		Search:    key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		Filter:    key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "filter")),
		Clear:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "clear search")),
		Theme:     key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "dark/light")),
		Help:      key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Add, k.Prev, k.Next, k.Delete, k.Search, k.Filter, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Add},
		{k.Prev, k.Next, k.ToDo, k.Doing, k.Done},
		{k.Delete, k.DeleteAll},
		{k.Search, k.Filter, k.Clear},
		{k.Theme, k.Help, k.Quit},
	}
}

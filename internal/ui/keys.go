package ui

import "github.com/charmbracelet/bubbles/key"

// GState represents the state for "gg" navigation.
type GState int

const (
	GStateIdle GState = iota
	GStateFirstG
)

func bind(help, desc string, keys ...string) key.Binding {
	return key.NewBinding(key.WithKeys(keys...), key.WithHelp(help, desc))
}

// KeyMap defines all keybindings for nav mode.
type KeyMap struct {
	Up, Down, Top, Bottom    key.Binding
	HalfPageDown, HalfPageUp key.Binding

	Add, Edit, Delete, Restart key.Binding
	Undo, Redo                 key.Binding
	Help, Quit                 key.Binding

	NextColumn, PrevColumn   key.Binding
	ColumnJump               key.Binding
	SortAsc, SortDesc        key.Binding
	HideColumn, ShowColumns  key.Binding
	FilterValue, ClearFilter key.Binding
}

// DefaultKeyMap returns the default keybindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up:           bind("k/↑", "move up", "k", "up"),
		Down:         bind("j/↓", "move down", "j", "down"),
		Top:          bind("gg", "jump to top", "g"),
		Bottom:       bind("G", "jump to bottom", "G"),
		HalfPageDown: bind("ctrl+d", "half page down", "ctrl+d"),
		HalfPageUp:   bind("ctrl+u", "half page up", "ctrl+u"),

		Add:     bind("a", "log activity", "a"),
		Edit:    bind("e/enter", "edit selected", "e", "enter"),
		Delete:  bind("d", "delete selected", "d"),
		Restart: bind("R", "clear all activities", "R"),
		Undo:    bind("u", "undo", "u"),
		Redo:    bind("ctrl+r", "redo", "ctrl+r"),
		Help:    bind("?", "toggle help", "?"),
		Quit:    bind("q", "quit", "q", "ctrl+c"),

		NextColumn:  bind("tab", "next column", "tab"),
		PrevColumn:  bind("shift+tab", "previous column", "shift+tab"),
		ColumnJump:  bind("/ 1-9", "jump to column", "/"),
		SortAsc:     bind("s", "sort ascending", "s"),
		SortDesc:    bind("S", "sort descending", "S"),
		HideColumn:  bind("c", "hide column", "c"),
		ShowColumns: bind("C", "show all columns", "C"),
		FilterValue: bind("n", "filter by selected value", "n"),
		ClearFilter: bind("N", "clear filter", "N"),
	}
}

// ShortHelp returns the bindings shown in the footer.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Down, k.Add, k.Edit, k.Delete, k.SortAsc, k.FilterValue, k.Undo, k.Help, k.Quit}
}

// FullHelp returns the help screen groups: the activity list, then the table.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Down, k.Up, k.Top, k.Bottom, k.HalfPageDown, k.HalfPageUp, k.Add, k.Edit, k.Delete, k.Restart, k.Undo, k.Redo, k.Help, k.Quit},
		{k.NextColumn, k.PrevColumn, k.ColumnJump, k.SortAsc, k.SortDesc, k.HideColumn, k.ShowColumns, k.FilterValue, k.ClearFilter},
	}
}

// FormKeyMap defines keybindings for the activity form.
type FormKeyMap struct {
	NextField, PrevField       key.Binding
	NextCategory, PrevCategory key.Binding
	Save, Submit, Cancel       key.Binding
}

// DefaultFormKeyMap returns the default form keybindings.
func DefaultFormKeyMap() FormKeyMap {
	return FormKeyMap{
		NextField:    bind("tab/↓", "next field", "tab", "down"),
		PrevField:    bind("shift+tab/↑", "previous field", "shift+tab", "up"),
		NextCategory: bind("→/l", "next category", "right", "l"),
		PrevCategory: bind("←/h", "previous category", "left", "h"),
		Save:         bind("ctrl+s", "save", "ctrl+s"),
		Submit:       bind("enter", "next field, save on the button", "enter"),
		Cancel:       bind("esc", "cancel", "esc"),
	}
}

// ShortHelp returns the bindings shown in the form footer.
func (k FormKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.NextField, k.PrevCategory, k.NextCategory, k.Save, k.Cancel}
}

// FullHelp returns every form binding as one group.
func (k FormKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.NextField, k.PrevField, k.PrevCategory, k.NextCategory, k.Submit, k.Save, k.Cancel},
	}
}

package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/one-and-all/internal/core"
)

// KeyMap holds the in-game key bindings.
type KeyMap struct {
	Save       key.Binding
	Load       key.Binding
	Reset      key.Binding
	Help       key.Binding
	Back       key.Binding
	Screenshot key.Binding
	Quit       key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Save, k.Load, k.Reset, k.Help, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Save, k.Load, k.Reset},
		{k.Screenshot, k.Help, k.Back, k.Quit},
	}
}

// DefaultKeyMap returns default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Save: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "save"),
		),
		Load: key.NewBinding(
			key.WithKeys("l"),
			key.WithHelp("l", "load"),
		),
		Reset: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "start over"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "b"),
			key.WithHelp("esc/b", "menu"),
		),
		Screenshot: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "screenshot"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// MapKey translates a key message to a world action.
// Returns the action (may be ActionNone).
func (k KeyMap) MapKey(msg tea.KeyMsg) core.Action {
	switch {
	case key.Matches(msg, k.Quit):
		return core.ActionQuit
	case key.Matches(msg, k.Save):
		return core.ActionSave
	case key.Matches(msg, k.Load):
		return core.ActionLoad
	case key.Matches(msg, k.Reset):
		return core.ActionReset
	case key.Matches(msg, k.Help):
		return core.ActionHelp
	}
	return core.ActionNone
}

// MapMouse updates frame from a mouse message. Cell coordinates become the
// world position of the cell centre relative to the view.
func MapMouse(msg tea.MouseMsg, frame *core.InputFrame) {
	frame.Mouse = core.NewVector((float32(msg.X)+0.5)*CellW, (float32(msg.Y)+0.5)*CellH)
	if msg.Button != tea.MouseButtonLeft {
		return
	}
	switch msg.Action {
	case tea.MouseActionPress:
		frame.Set(core.ActionPress)
		frame.MouseDown = true
	case tea.MouseActionRelease:
		frame.Set(core.ActionRelease)
		frame.MouseDown = false
	}
}

// MenuAction represents a menu-specific action derived from input.
type MenuAction int

const (
	MenuActionNone MenuAction = iota
	MenuActionUp
	MenuActionDown
	MenuActionSelect
	MenuActionSaves
	MenuActionBack
	MenuActionQuit
)

// MapKeyToMenuAction translates a key to a menu action.
func MapKeyToMenuAction(msg tea.KeyMsg) MenuAction {
	switch msg.String() {
	case "ctrl+c", "q":
		return MenuActionQuit
	case "w", "up", "k": // vim-style k for up
		return MenuActionUp
	case "s", "down", "j": // vim-style j for down
		return MenuActionDown
	case "enter", " ":
		return MenuActionSelect
	case "tab":
		return MenuActionSaves
	case "b", "esc":
		return MenuActionBack
	}

	return MenuActionNone
}

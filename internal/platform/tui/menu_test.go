package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/one-and-all/internal/core"
	_ "github.com/vovakirdan/one-and-all/internal/scenarios"
)

func updateMenu(t *testing.T, m MenuModel, msg tea.Msg) (MenuModel, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	nm, ok := next.(MenuModel)
	if !ok {
		t.Fatalf("Update() returned %T, expected MenuModel", next)
	}
	return nm, cmd
}

func TestMenuStoryFirst(t *testing.T) {
	m := NewMenuModel(core.DefaultConfig(), DefaultTheme())
	if len(m.items) < 3 {
		t.Fatalf("items = %d, expected at least 3", len(m.items))
	}
	if m.items[0].ScenarioID != "story" {
		t.Errorf("first item = %q, expected story", m.items[0].ScenarioID)
	}
}

func TestMenuSelect(t *testing.T) {
	m := NewMenuModel(core.DefaultConfig(), DefaultTheme())
	m, _ = updateMenu(t, m, tea.KeyMsg{Type: tea.KeyDown})
	m, cmd := updateMenu(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	sel := m.Selected()
	if sel == nil {
		t.Fatal("Selected() = nil after enter")
	}
	if sel.ScenarioID != m.items[1].ScenarioID {
		t.Errorf("Selected() = %q, expected %q", sel.ScenarioID, m.items[1].ScenarioID)
	}
	if cmd == nil {
		t.Error("enter should return a command")
	}
}

func TestMenuCursorBounds(t *testing.T) {
	m := NewMenuModel(core.DefaultConfig(), DefaultTheme())
	m, _ = updateMenu(t, m, tea.KeyMsg{Type: tea.KeyUp})
	if m.cursor != 0 {
		t.Errorf("cursor = %d, expected 0", m.cursor)
	}
	for range len(m.items) + 2 {
		m, _ = updateMenu(t, m, tea.KeyMsg{Type: tea.KeyDown})
	}
	if m.cursor != len(m.items)-1 {
		t.Errorf("cursor = %d, expected %d", m.cursor, len(m.items)-1)
	}
}

func TestMenuSavesAndQuit(t *testing.T) {
	m := NewMenuModel(core.DefaultConfig(), DefaultTheme())
	saves, _ := updateMenu(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if !saves.WantsSaves() {
		t.Error("tab should open the saved worlds")
	}

	quit, _ := updateMenu(t, m, runeKey('q'))
	if !quit.IsQuitting() {
		t.Error("q should quit")
	}
	if quit.View() != "" {
		t.Error("View() should be empty after quitting")
	}
}

func TestMenuResize(t *testing.T) {
	m := NewMenuModel(core.DefaultConfig(), DefaultTheme())
	m, _ = updateMenu(t, m, tea.WindowSizeMsg{Width: 50, Height: 20})
	if cfg := m.Config(); cfg.ScreenW != 50 || cfg.ScreenH != 20 {
		t.Errorf("Config() = %dx%d, expected 50x20", cfg.ScreenW, cfg.ScreenH)
	}
}

func TestCenterText(t *testing.T) {
	tests := []struct {
		text  string
		width int
		want  string
	}{
		{"ab", 6, "  ab"},
		{"abc", 6, " abc"},
		{"toolong", 4, "toolong"},
	}
	for _, tt := range tests {
		if got := centerText(tt.text, tt.width); got != tt.want {
			t.Errorf("centerText(%q, %d) = %q, expected %q", tt.text, tt.width, got, tt.want)
		}
	}
}

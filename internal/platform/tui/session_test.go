package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/one-and-all/internal/sim"
	"github.com/vovakirdan/one-and-all/internal/storage"
)

type sessionFixture struct {
	catalog  *fakeCatalog
	backends map[string]*memBackend
}

func newSession(t *testing.T) (SessionModel, *sessionFixture) {
	t.Helper()
	fx := &sessionFixture{
		catalog:  newFakeCatalog("alpha"),
		backends: map[string]*memBackend{},
	}
	cfg := SessionConfig{
		Runtime:     testRuntime(),
		World:       sim.Options{SaveVersion: sim.LatestVersion},
		Catalog:     fx.catalog,
		DefaultSlot: "default",
		Painter:     plainPainter(),
		Open: func(name string) storage.Backend {
			b, ok := fx.backends[name]
			if !ok {
				b = &memBackend{}
				fx.backends[name] = b
			}
			return b
		},
	}
	return NewSessionModel(cfg), fx
}

func updateSession(t *testing.T, m SessionModel, msg tea.Msg) (SessionModel, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	nm, ok := next.(SessionModel)
	if !ok {
		t.Fatalf("Update() returned %T, expected SessionModel", next)
	}
	return nm, cmd
}

func TestSessionMenuToWorldAndBack(t *testing.T) {
	m, fx := newSession(t)
	if got := m.Mode(); got != "menu" {
		t.Fatalf("Mode() = %q, expected menu", got)
	}

	m, cmd := updateSession(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if got := m.Mode(); got != "game" {
		t.Fatalf("Mode() = %q, expected game", got)
	}
	if cmd == nil {
		t.Error("starting a world should start its tick loop")
	}
	if got := m.Game().World().State(); got != sim.StateStart {
		t.Errorf("State() = %v, expected %v", got, sim.StateStart)
	}
	if _, ok := fx.backends["default"]; !ok {
		t.Error("menu worlds should save to the default slot")
	}

	m, _ = updateSession(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if got := m.Mode(); got != "menu" {
		t.Errorf("Mode() = %q, expected menu", got)
	}
	if m.Game() != nil {
		t.Error("Game() should be nil back in the menu")
	}
	if m.IsQuitting() {
		t.Error("going back should not quit")
	}
}

func TestSessionLoadSlot(t *testing.T) {
	m, fx := newSession(t)

	m, _ = updateSession(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if got := m.Mode(); got != "slots" {
		t.Fatalf("Mode() = %q, expected slots", got)
	}

	m, _ = updateSession(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if got := m.Mode(); got != "game" {
		t.Fatalf("Mode() = %q, expected game", got)
	}
	if _, ok := fx.backends["alpha"]; !ok {
		t.Error("the chosen slot was never opened")
	}
	if g := m.Game(); !g.loadFirst || g.pending != 1 {
		t.Errorf("loadFirst = %v pending = %d, expected a load on start", g.loadFirst, g.pending)
	}
	if got := m.Game().World().State(); got != sim.StateSandbox {
		t.Errorf("State() = %v, expected %v", got, sim.StateSandbox)
	}
}

func TestSessionSlotsBack(t *testing.T) {
	m, _ := newSession(t)
	m, _ = updateSession(t, m, tea.KeyMsg{Type: tea.KeyTab})
	m, _ = updateSession(t, m, tea.KeyMsg{Type: tea.KeyEsc})

	if got := m.Mode(); got != "menu" {
		t.Errorf("Mode() = %q, expected menu", got)
	}
}

func TestSessionQuitFromWorld(t *testing.T) {
	m, _ := newSession(t)
	m, _ = updateSession(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m, cmd := updateSession(t, m, runeKey('q'))

	if !m.IsQuitting() {
		t.Error("q in a world should quit the session")
	}
	if cmd == nil {
		t.Fatal("quit should return a command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("quit cmd should produce tea.QuitMsg")
	}
}

func TestSessionResizeReachesWorld(t *testing.T) {
	m, _ := newSession(t)
	m, _ = updateSession(t, m, tea.WindowSizeMsg{Width: 40, Height: 12})
	m, _ = updateSession(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	if got := m.Game().Screen().Width(); got != 40 {
		t.Errorf("Width() = %d, expected 40", got)
	}
}

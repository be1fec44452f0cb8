package tui

import (
	"io"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/one-and-all/internal/core"
	"github.com/vovakirdan/one-and-all/internal/registry"
	"github.com/vovakirdan/one-and-all/internal/sim"
	"github.com/vovakirdan/one-and-all/internal/storage"
)

// SlotOpener returns the backend for a named slot.
type SlotOpener func(name string) storage.Backend

// SessionConfig holds everything a session needs to start worlds.
type SessionConfig struct {
	Runtime core.RuntimeConfig
	World   sim.Options
	// Catalog backs the saved worlds screen. Nil lists no slots.
	Catalog SlotCatalog
	// Open maps slot names to backends. Nil leaves worlds without saves.
	Open SlotOpener
	// DefaultSlot is where worlds started from the menu save.
	DefaultSlot   string
	Painter       *Painter
	Theme         *Theme // nil uses DefaultTheme
	Logger        *log.Logger
	ScreenshotDir string
}

type sessionMode int

const (
	modeMenu sessionMode = iota
	modeSlots
	modeGame
)

// SessionModel manages the full session flow: menu -> world -> menu, with
// the saved worlds screen reachable from the menu.
type SessionModel struct {
	cfg      SessionConfig
	theme    Theme
	runtime  core.RuntimeConfig
	mode     sessionMode
	menu     MenuModel
	slots    SlotsModel
	game     *Model
	err      error
	quitting bool
}

// NewSessionModel creates a new session model.
func NewSessionModel(cfg SessionConfig) SessionModel {
	if cfg.Logger == nil {
		cfg.Logger = log.New(io.Discard)
	}
	theme := DefaultTheme()
	if cfg.Theme != nil {
		theme = *cfg.Theme
	}
	return SessionModel{
		cfg:     cfg,
		theme:   theme,
		runtime: cfg.Runtime,
		menu:    NewMenuModel(cfg.Runtime, theme),
	}
}

// Init initializes the session.
func (m SessionModel) Init() tea.Cmd {
	return m.menu.Init()
}

// Update handles messages for the session.
func (m SessionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// Handle window resize globally
	if wsm, ok := msg.(tea.WindowSizeMsg); ok {
		m.runtime.ScreenW = wsm.Width
		m.runtime.ScreenH = wsm.Height
	}

	switch m.mode {
	case modeGame:
		return m.updateGame(msg)
	case modeSlots:
		return m.updateSlots(msg)
	default:
		return m.updateMenu(msg)
	}
}

func (m SessionModel) updateMenu(msg tea.Msg) (tea.Model, tea.Cmd) {
	newMenu, cmd := m.menu.Update(msg)
	if menuModel, ok := newMenu.(MenuModel); ok {
		m.menu = menuModel
	}

	switch {
	case m.menu.IsQuitting():
		m.quitting = true
		return m, tea.Quit

	case m.menu.WantsSaves():
		m.slots = NewSlotsModel(m.cfg.Catalog, m.runtime.ScreenW, m.runtime.ScreenH, m.theme)
		m.mode = modeSlots
		return m, m.slots.Init()

	case m.menu.Selected() != nil:
		return m.startWorld(m.menu.Selected().ScenarioID, m.cfg.DefaultSlot, false)
	}

	return m, cmd
}

func (m SessionModel) updateSlots(msg tea.Msg) (tea.Model, tea.Cmd) {
	newSlots, cmd := m.slots.Update(msg)
	if slotsModel, ok := newSlots.(SlotsModel); ok {
		m.slots = slotsModel
	}

	switch {
	case m.slots.IsQuitting():
		m.quitting = true
		return m, tea.Quit

	case m.slots.IsGoingBack():
		return m.backToMenu()

	case m.slots.Selected() != "":
		return m.startWorld("sandbox", m.slots.Selected(), true)
	}

	return m, cmd
}

func (m SessionModel) updateGame(msg tea.Msg) (tea.Model, tea.Cmd) {
	newModel, cmd := m.game.Update(msg)
	if gameModel, ok := newModel.(Model); ok {
		m.game = &gameModel
	}

	if m.game.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}
	if m.game.BackToMenu() {
		return m.backToMenu()
	}

	return m, cmd
}

// startWorld builds a world for scenario id saving to slot, and switches to
// it.
func (m SessionModel) startWorld(id, slot string, load bool) (tea.Model, tea.Cmd) {
	rc := m.runtime
	if rc.Seed == 0 {
		rc.Seed = time.Now().UnixNano()
	}

	opts := m.cfg.World
	opts.Logger = m.cfg.Logger
	w, err := registry.NewWorld(id, rc, opts)
	if err != nil {
		m.cfg.Logger.Error("start world", "scenario", id, "err", err)
		m.err = err
		return m.backToMenu()
	}

	var backend storage.Backend
	if m.cfg.Open != nil && slot != "" {
		backend = m.cfg.Open(slot)
	}

	m.cfg.Logger.Info("world started", "scenario", id, "slot", slot, "seed", rc.Seed)
	game := NewModel(w, rc, ModelOptions{
		Backend:       backend,
		Painter:       m.cfg.Painter,
		Theme:         &m.theme,
		Logger:        m.cfg.Logger,
		ScreenshotDir: m.cfg.ScreenshotDir,
		LoadOnStart:   load && backend != nil,
	})
	m.game = &game
	m.mode = modeGame
	return m, m.game.Init()
}

func (m SessionModel) backToMenu() (tea.Model, tea.Cmd) {
	m.mode = modeMenu
	m.game = nil
	m.menu = NewMenuModel(m.runtime, m.theme)
	return m, m.menu.Init()
}

// View renders the current view.
func (m SessionModel) View() string {
	if m.quitting {
		return ""
	}

	switch m.mode {
	case modeGame:
		return m.game.View()
	case modeSlots:
		return m.slots.View()
	}
	view := m.menu.View()
	if m.err != nil {
		view += "\n" + centerText(m.err.Error(), m.runtime.ScreenW) + "\n"
	}
	return view
}

// Mode reports which screen is showing: "menu", "slots" or "game".
func (m SessionModel) Mode() string {
	switch m.mode {
	case modeGame:
		return "game"
	case modeSlots:
		return "slots"
	}
	return "menu"
}

// Game returns the running world model, or nil outside a world.
func (m SessionModel) Game() *Model {
	return m.game
}

// IsQuitting returns true if user requested to quit entirely.
func (m SessionModel) IsQuitting() bool {
	return m.quitting
}

// RunSession runs the whole menu, saves and world flow in one program.
func RunSession(cfg SessionConfig) error {
	p := tea.NewProgram(
		NewSessionModel(cfg),
		tea.WithAltScreen(),
		tea.WithMouseAllMotion(),
	)
	_, err := p.Run()
	return err
}

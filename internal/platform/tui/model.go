package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/one-and-all/internal/core"
	"github.com/vovakirdan/one-and-all/internal/sim"
	"github.com/vovakirdan/one-and-all/internal/storage"
)

// ioTimeout bounds one save or load.
const ioTimeout = 5 * time.Second

// ErrNoBackend is reported when a save or load is requested with nowhere to
// keep it.
var ErrNoBackend = errors.New("no save backend configured")

// saveDoneMsg carries the result of a background save.
type saveDoneMsg struct{ err error }

// loadDoneMsg carries the bytes read by a background load.
type loadDoneMsg struct {
	data []byte
	err  error
}

// ModelOptions holds the collaborators of a Model. All fields are optional.
type ModelOptions struct {
	// Backend is where S and L write and read saves.
	Backend storage.Backend
	// Painter renders the screen. Nil uses the default renderer.
	Painter *Painter
	// Theme styles the status line. Nil uses DefaultTheme.
	Theme *Theme
	// Logger receives UI events. Nil discards.
	Logger *log.Logger
	// ScreenshotDir is where ctrl+s writes text screenshots. Empty disables.
	ScreenshotDir string
	// LoadOnStart loads from Backend as soon as the program starts.
	LoadOnStart bool
	// Standalone makes the back key quit the program instead of handing
	// control back to a menu.
	Standalone bool
}

// Model is the Bubble Tea model driving one world.
type Model struct {
	world      *sim.World
	screen     *core.Screen
	canvas     *Canvas
	painter    *Painter
	backend    storage.Backend
	config     core.RuntimeConfig
	inputFrame core.InputFrame
	keys       KeyMap
	help       help.Model
	theme      Theme
	logger     *log.Logger
	shotDir    string
	standalone bool
	loadFirst  bool

	showHelp   bool
	pending    int // saves and loads in flight
	quitting   bool
	backToMenu bool
}

// NewModel creates a model for w sized from cfg.
func NewModel(w *sim.World, cfg core.RuntimeConfig, opts ModelOptions) Model {
	painter := opts.Painter
	if painter == nil {
		painter = NewPainter(nil)
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	theme := DefaultTheme()
	if opts.Theme != nil {
		theme = *opts.Theme
	}

	screen := core.NewScreen(cfg.ScreenW, max(cfg.ScreenH-1, 1))
	h := help.New()
	h.ShowAll = false

	pending := 0
	if opts.LoadOnStart {
		pending = 1
	}

	return Model{
		pending:    pending,
		world:      w,
		screen:     screen,
		canvas:     NewCanvas(screen),
		painter:    painter,
		backend:    opts.Backend,
		config:     cfg,
		inputFrame: core.NewInputFrame(),
		keys:       DefaultKeyMap(),
		help:       h,
		theme:      theme,
		logger:     logger,
		shotDir:    opts.ScreenshotDir,
		standalone: opts.Standalone,
		loadFirst:  opts.LoadOnStart,
	}
}

// Init starts the tick loop, and the first load if one was asked for.
func (m Model) Init() tea.Cmd {
	if m.loadFirst {
		return tea.Batch(tickCmd(m.config.TickRate), m.loadCmd())
	}
	return tickCmd(m.config.TickRate)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		MapMouse(msg, &m.inputFrame)
		return m, nil

	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case TickMsg:
		return m.handleTick()

	case saveDoneMsg:
		m.pending--
		m.world.SaveFinished(msg.err)
		return m, nil

	case loadDoneMsg:
		m.pending--
		//nolint:errcheck // The world reports the failure itself
		m.world.LoadBytes(msg.data, msg.err)
		return m, nil
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Screenshot):
		m.saveScreenshot()
		return m, nil
	case key.Matches(msg, m.keys.Back):
		m.backToMenu = true
		if m.standalone {
			m.quitting = true
			return m, tea.Quit
		}
		return m, nil
	}

	switch action := m.keys.MapKey(msg); action {
	case core.ActionQuit:
		m.quitting = true
		return m, tea.Quit
	case core.ActionHelp:
		m.showHelp = !m.showHelp
		m.help.ShowAll = m.showHelp
		m.fitScreen()
	case core.ActionNone:
	default:
		m.inputFrame.Set(action)
	}

	return m, nil
}

// handleResize keeps the world running; only the viewport changes.
func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.config.ScreenW = msg.Width
	m.config.ScreenH = msg.Height
	m.help.Width = msg.Width
	m.fitScreen()
	return m, nil
}

// fitScreen sizes the world area to leave room for the footer.
func (m *Model) fitScreen() {
	footer := lipgloss.Height(m.footer())
	m.screen.Resize(m.config.ScreenW, max(m.config.ScreenH-footer, 1))
}

// handleTick advances the world one step and starts any I/O it asked for.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	res := m.world.Step(m.inputFrame)
	m.inputFrame.Clear()

	cmds := []tea.Cmd{tickCmd(m.config.TickRate)}
	if res.SaveRequested {
		cmds = append(cmds, m.saveCmd())
		m.pending++
	}
	if res.LoadRequested {
		cmds = append(cmds, m.loadCmd())
		m.pending++
	}
	return m, tea.Batch(cmds...)
}

// saveCmd encodes the world now and writes it in the background, so the
// save captures this tick even if the world keeps moving.
func (m Model) saveCmd() tea.Cmd {
	data, err := m.world.EncodeSave()
	backend := m.backend
	return func() tea.Msg {
		if err != nil {
			return saveDoneMsg{err: err}
		}
		if backend == nil {
			return saveDoneMsg{err: ErrNoBackend}
		}
		ctx, cancel := context.WithTimeout(context.Background(), ioTimeout)
		defer cancel()
		return saveDoneMsg{err: backend.Save(ctx, data)}
	}
}

func (m Model) loadCmd() tea.Cmd {
	backend := m.backend
	return func() tea.Msg {
		if backend == nil {
			return loadDoneMsg{err: ErrNoBackend}
		}
		ctx, cancel := context.WithTimeout(context.Background(), ioTimeout)
		defer cancel()
		data, err := backend.Load(ctx)
		return loadDoneMsg{data: data, err: err}
	}
}

// saveScreenshot writes the current screen as plain text.
func (m *Model) saveScreenshot() {
	if m.shotDir == "" {
		return
	}
	m.draw()

	if err := os.MkdirAll(m.shotDir, 0o755); err != nil {
		m.logger.Warn("screenshot", "err", err)
		return
	}

	timestamp := time.Now().Format("20060102_150405")
	path := filepath.Join(m.shotDir, fmt.Sprintf("%s_%s.txt", m.world.State(), timestamp))
	if err := os.WriteFile(path, []byte(m.screen.String()), 0o600); err != nil {
		m.logger.Warn("screenshot", "err", err)
		return
	}
	m.logger.Info("screenshot saved", "path", path)
}

// draw renders the world into the screen buffer.
func (m *Model) draw() {
	m.screen.Clear()
	m.canvas.SetCamera(m.world.Camera())
	m.world.Draw(m.canvas)
}

// footer is the status line, followed by key help.
func (m Model) footer() string {
	st := m.world.Status()
	parts := []string{
		st.State.String(),
		fmt.Sprintf("planets %d", st.Planets),
		fmt.Sprintf("stars %d", st.Stars),
		fmt.Sprintf("fishes %d", st.Fishes),
	}
	if m.backend != nil {
		parts = append(parts, m.backend.Name())
	}
	if m.pending > 0 {
		parts = append(parts, "working...")
	}
	sep := m.theme.HUDSeparator.Render(" · ")
	for i, p := range parts {
		parts[i] = m.theme.HUDValue.Render(p)
	}
	status := strings.Join(parts, sep)
	if !m.showHelp {
		return status + "  " + m.help.ShortHelpView(m.keys.ShortHelp())
	}
	return status + "\n" + m.help.View(m.keys)
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	m.draw()
	return m.painter.RenderScreen(m.screen) + "\n" + m.footer()
}

// World returns the world the model drives.
func (m Model) World() *sim.World {
	return m.world
}

// Screen returns the screen buffer the world is drawn into.
func (m Model) Screen() *core.Screen {
	return m.screen
}

// IsQuitting returns true if user requested to quit entirely.
func (m Model) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if user requested to go back to menu.
func (m Model) BackToMenu() bool {
	return m.backToMenu
}

// Run starts a standalone Bubble Tea program for w.
func Run(w *sim.World, cfg core.RuntimeConfig, opts ModelOptions) error {
	opts.Standalone = true
	model := NewModel(w, cfg, opts)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),      // Use alternate screen buffer
		tea.WithMouseAllMotion(), // Hover needs motion without a button held
	)

	_, err := p.Run()
	return err
}

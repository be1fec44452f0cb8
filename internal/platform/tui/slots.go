package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/one-and-all/internal/storage"
)

// SlotCatalog lists and removes named save slots. *storage.SlotStore
// satisfies it.
type SlotCatalog interface {
	List(ctx context.Context) ([]storage.SlotInfo, error)
	Delete(ctx context.Context, name string) error
}

var _ SlotCatalog = (*storage.SlotStore)(nil)

// SlotsKeyMap defines the key bindings for the slot browser.
type SlotsKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Load   key.Binding
	Delete key.Binding
	Back   key.Binding
	Quit   key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k SlotsKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Load, k.Delete, k.Back}
}

// FullHelp returns key bindings for the full help view.
func (k SlotsKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Load, k.Delete},
		{k.Back, k.Quit},
	}
}

// DefaultSlotsKeyMap returns default key bindings.
func DefaultSlotsKeyMap() SlotsKeyMap {
	return SlotsKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "down"),
		),
		Load: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "play"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d", "delete"),
			key.WithHelp("d", "delete"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "b"),
			key.WithHelp("esc/b", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// SlotsModel is the Bubble Tea model for browsing save slots.
type SlotsModel struct {
	catalog   SlotCatalog
	slots     []storage.SlotInfo
	table     table.Model
	help      help.Model
	keys      SlotsKeyMap
	theme     Theme
	width     int
	height    int
	err       error
	selected  string
	quitting  bool
	goingBack bool
}

// NewSlotsModel creates a slot browser over catalog. A nil catalog shows an
// empty list.
func NewSlotsModel(catalog SlotCatalog, width, height int, theme Theme) SlotsModel {
	m := SlotsModel{
		catalog: catalog,
		theme:   theme,
		keys:    DefaultSlotsKeyMap(),
		help:    help.New(),
		width:   width,
		height:  height,
	}
	m.table = m.createTable()
	m.reload()
	return m
}

// createTable creates a new table with appropriate columns.
func (m *SlotsModel) createTable() table.Model {
	columns := []table.Column{
		{Title: "Slot", Width: 16},
		{Title: "Planets", Width: 8},
		{Title: "Stars", Width: 6},
		{Title: "Fishes", Width: 7},
		{Title: "Size", Width: 8},
		{Title: "Updated", Width: 14},
	}
	if extra := m.width - 4 - 71; extra > 0 {
		columns[0].Width += min(extra, 24)
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(max(m.height-8, 3)), // Leave room for header, help, and margins
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(m.theme.TableBorder).
		BorderBottom(true).
		Bold(true)
	s.Selected = m.theme.TableSelected
	t.SetStyles(s)

	return t
}

// reload reads the slot list again.
func (m *SlotsModel) reload() {
	if m.catalog == nil {
		m.slots = nil
		m.updateTableRows()
		return
	}

	slots, err := m.catalog.List(context.Background())
	m.err = err
	m.slots = slots
	m.updateTableRows()
}

func (m *SlotsModel) updateTableRows() {
	rows := make([]table.Row, len(m.slots))
	for i, s := range m.slots {
		rows[i] = table.Row{
			s.Name,
			fmt.Sprintf("%d", s.Planets),
			fmt.Sprintf("%d", s.Stars),
			fmt.Sprintf("%d", s.Fishes),
			formatSize(s.Size),
			s.UpdatedAt.Format("Jan 02 15:04"),
		}
	}
	m.table.SetRows(rows)
	if m.table.Cursor() >= len(rows) {
		m.table.SetCursor(max(len(rows)-1, 0))
	}
}

func formatSize(n int) string {
	if n < 1024 {
		return fmt.Sprintf("%d B", n)
	}
	return fmt.Sprintf("%.1f KiB", float64(n)/1024)
}

// Init initializes the slot browser.
func (m SlotsModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the slot browser.
func (m SlotsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Back):
			m.goingBack = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Load):
			if s, ok := m.current(); ok {
				m.selected = s.Name
				return m, tea.Quit
			}
			return m, nil

		case key.Matches(msg, m.keys.Delete):
			if s, ok := m.current(); ok && m.catalog != nil {
				m.err = m.catalog.Delete(context.Background(), s.Name)
				if m.err == nil {
					m.reload()
				}
			}
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.table = m.createTable()
		m.updateTableRows()
		m.help.Width = msg.Width
		return m, nil
	}

	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m SlotsModel) current() (storage.SlotInfo, bool) {
	i := m.table.Cursor()
	if i < 0 || i >= len(m.slots) {
		return storage.SlotInfo{}, false
	}
	return m.slots[i], true
}

// View renders the slot browser.
func (m SlotsModel) View() string {
	if m.quitting || m.goingBack || m.selected != "" {
		return ""
	}

	var b strings.Builder

	b.WriteString(centerText(m.theme.MenuTitle.Render("SAVED WORLDS"), m.width))
	b.WriteString("\n\n")

	tableStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(m.theme.TableBorder).
		Padding(0, 1)
	b.WriteString(tableStyle.Render(m.renderTableContent()))
	b.WriteString("\n")

	if m.err != nil {
		b.WriteString(m.theme.HUDError.Render(m.err.Error()))
		b.WriteString("\n")
	}

	b.WriteString(m.theme.HUDControls.Render(m.help.View(m.keys)))

	return b.String()
}

func (m SlotsModel) renderTableContent() string {
	if len(m.slots) == 0 {
		return m.theme.EmptyText.Render("No saved worlds yet.\nPress S in the sandbox to save one.")
	}

	return m.table.View()
}

// Selected returns the slot chosen to play, or "".
func (m SlotsModel) Selected() string {
	return m.selected
}

// IsGoingBack returns true if user wants to go back to menu.
func (m SlotsModel) IsGoingBack() bool {
	return m.goingBack
}

// IsQuitting returns true if user wants to quit entirely.
func (m SlotsModel) IsQuitting() bool {
	return m.quitting
}

// Slots returns the slots currently listed.
func (m SlotsModel) Slots() []storage.SlotInfo {
	return m.slots
}

// Err returns the last listing or delete error.
func (m SlotsModel) Err() error {
	return m.err
}

// SlotsResult holds the result of running the slot browser.
type SlotsResult struct {
	Slot   string
	GoBack bool
}

// RunSlots runs the slot browser.
func RunSlots(catalog SlotCatalog, width, height int, theme Theme) (SlotsResult, error) {
	model := NewSlotsModel(catalog, width, height, theme)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	finalModel, err := p.Run()
	if err != nil {
		return SlotsResult{}, err
	}

	m, ok := finalModel.(SlotsModel)
	if !ok {
		return SlotsResult{}, nil
	}

	return SlotsResult{Slot: m.Selected(), GoBack: m.IsGoingBack()}, nil
}

package tui

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/one-and-all/internal/storage"
)

type fakeCatalog struct {
	slots   []storage.SlotInfo
	listErr error
	deleted []string
}

func (f *fakeCatalog) List(context.Context) ([]storage.SlotInfo, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return append([]storage.SlotInfo(nil), f.slots...), nil
}

func (f *fakeCatalog) Delete(_ context.Context, name string) error {
	for i, s := range f.slots {
		if s.Name == name {
			f.slots = append(f.slots[:i], f.slots[i+1:]...)
			f.deleted = append(f.deleted, name)
			return nil
		}
	}
	return storage.ErrSlotNotFound
}

func newFakeCatalog(names ...string) *fakeCatalog {
	f := &fakeCatalog{}
	for i, n := range names {
		f.slots = append(f.slots, storage.SlotInfo{
			Name:      n,
			Planets:   i,
			Size:      100 * (i + 1),
			UpdatedAt: time.Date(2024, 1, 2, 3, 4, 0, 0, time.UTC),
		})
	}
	return f
}

func updateSlots(t *testing.T, m SlotsModel, msg tea.Msg) (SlotsModel, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	nm, ok := next.(SlotsModel)
	if !ok {
		t.Fatalf("Update() returned %T, expected SlotsModel", next)
	}
	return nm, cmd
}

func TestSlotsSelect(t *testing.T) {
	m := NewSlotsModel(newFakeCatalog("alpha", "beta"), 80, 24, DefaultTheme())
	if len(m.Slots()) != 2 {
		t.Fatalf("Slots() = %d, expected 2", len(m.Slots()))
	}

	m, _ = updateSlots(t, m, tea.KeyMsg{Type: tea.KeyDown})
	m, cmd := updateSlots(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if got := m.Selected(); got != "beta" {
		t.Errorf("Selected() = %q, expected beta", got)
	}
	if cmd == nil {
		t.Error("enter should return a command")
	}
}

func TestSlotsDelete(t *testing.T) {
	catalog := newFakeCatalog("alpha", "beta")
	m := NewSlotsModel(catalog, 80, 24, DefaultTheme())

	m, _ = updateSlots(t, m, runeKey('d'))
	if len(catalog.deleted) != 1 || catalog.deleted[0] != "alpha" {
		t.Errorf("deleted = %v, expected [alpha]", catalog.deleted)
	}
	if len(m.Slots()) != 1 || m.Slots()[0].Name != "beta" {
		t.Errorf("Slots() = %v, expected only beta", m.Slots())
	}
	if m.Err() != nil {
		t.Errorf("Err() = %v, expected nil", m.Err())
	}
}

func TestSlotsBackAndQuit(t *testing.T) {
	m := NewSlotsModel(newFakeCatalog("alpha"), 80, 24, DefaultTheme())

	back, _ := updateSlots(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if !back.IsGoingBack() || back.IsQuitting() {
		t.Error("esc should go back without quitting")
	}

	quit, _ := updateSlots(t, m, runeKey('q'))
	if !quit.IsQuitting() {
		t.Error("q should quit")
	}
}

func TestSlotsEmpty(t *testing.T) {
	m := NewSlotsModel(nil, 80, 24, DefaultTheme())
	if !strings.Contains(m.View(), "No saved worlds yet") {
		t.Error("View() should explain there are no saves")
	}

	m, _ = updateSlots(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.Selected() != "" {
		t.Errorf("Selected() = %q, expected none", m.Selected())
	}
	m, _ = updateSlots(t, m, runeKey('d'))
	if m.Err() != nil {
		t.Errorf("Err() = %v, expected nil", m.Err())
	}
}

func TestSlotsListError(t *testing.T) {
	m := NewSlotsModel(&fakeCatalog{listErr: errors.New("database is locked")}, 80, 24, DefaultTheme())
	if m.Err() == nil {
		t.Fatal("Err() = nil, expected the list error")
	}
	if !strings.Contains(m.View(), "database is locked") {
		t.Error("View() should show the list error")
	}
}

func TestFormatSize(t *testing.T) {
	tests := []struct {
		n    int
		want string
	}{
		{0, "0 B"},
		{1023, "1023 B"},
		{1024, "1.0 KiB"},
		{1536, "1.5 KiB"},
	}
	for _, tt := range tests {
		if got := formatSize(tt.n); got != tt.want {
			t.Errorf("formatSize(%d) = %q, expected %q", tt.n, got, tt.want)
		}
	}
}

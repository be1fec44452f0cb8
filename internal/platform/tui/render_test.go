package tui

import (
	"io"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/one-and-all/internal/core"
)

func plainPainter() *Painter {
	return NewPainter(lipgloss.NewRenderer(io.Discard))
}

func TestRenderScreenPlain(t *testing.T) {
	s := core.NewScreen(3, 2)
	s.SetCell(0, 0, 'a', core.White)
	s.SetCell(1, 0, 'b', core.White)

	got := plainPainter().RenderScreen(s)
	want := "ab \n   "
	if got != want {
		t.Errorf("RenderScreen() = %q, expected %q", got, want)
	}
}

func TestRenderScreenCachesStyles(t *testing.T) {
	s := core.NewScreen(4, 1)
	s.SetCell(0, 0, 'a', core.White)
	s.SetCell(1, 0, 'b', red)
	s.SetCell(2, 0, 'c', red)

	p := plainPainter()
	p.RenderScreen(s)
	p.RenderScreen(s)

	if len(p.styles) != 2 {
		t.Errorf("cached styles = %d, expected 2", len(p.styles))
	}
	if _, ok := p.styles[core.Color{}]; ok {
		t.Error("zero color should render unstyled")
	}
}

func TestRenderScreenLines(t *testing.T) {
	s := core.NewScreen(5, 4)
	got := plainPainter().RenderScreen(s)
	if lines := strings.Count(got, "\n") + 1; lines != 4 {
		t.Errorf("RenderScreen() lines = %d, expected 4", lines)
	}
}

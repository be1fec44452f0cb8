package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/one-and-all/internal/core"
)

// Painter renders Screens with true-color styles from one lipgloss
// renderer. Styles are cached per color; a Painter is not safe for
// concurrent use.
type Painter struct {
	renderer *lipgloss.Renderer
	styles   map[core.Color]lipgloss.Style
}

// NewPainter returns a painter for r. A nil renderer uses the default one.
func NewPainter(r *lipgloss.Renderer) *Painter {
	if r == nil {
		r = lipgloss.DefaultRenderer()
	}
	return &Painter{renderer: r, styles: make(map[core.Color]lipgloss.Style)}
}

// style maps core.Color to a lipgloss style. The zero color is the
// terminal's default.
func (p *Painter) style(c core.Color) lipgloss.Style {
	if s, ok := p.styles[c]; ok {
		return s
	}
	s := p.renderer.NewStyle()
	if c != (core.Color{}) {
		s = s.Foreground(lipgloss.Color(c.Premultiplied().HexString()))
	}
	p.styles[c] = s
	return s
}

// RenderScreen converts a Screen buffer to a styled string for display.
// Groups adjacent cells with the same color to minimize ANSI escape sequences.
func (p *Painter) RenderScreen(s *core.Screen) string {
	var sb strings.Builder
	// Pre-allocate with extra space for ANSI codes
	sb.Grow(s.Width()*s.Height()*2 + s.Height())

	for y := range s.Height() {
		if y > 0 {
			sb.WriteRune('\n')
		}

		x := 0
		for x < s.Width() {
			cell := s.GetCell(x, y)
			startColor := cell.Color

			var run strings.Builder
			for x < s.Width() {
				cell = s.GetCell(x, y)
				if cell.Color != startColor {
					break
				}
				run.WriteRune(cell.Rune)
				x++
			}

			if startColor == (core.Color{}) {
				sb.WriteString(run.String())
				continue
			}
			sb.WriteString(p.style(startColor).Render(run.String()))
		}
	}
	return sb.String()
}

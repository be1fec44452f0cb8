package tui

import (
	"fmt"
	"sort"

	"github.com/charmbracelet/lipgloss"
)

// Theme contains the styles of every screen around the world view. The
// world itself is drawn in its own colors.
type Theme struct {
	// Menu styles
	MenuTitle       lipgloss.Style
	MenuItemNormal  lipgloss.Style
	MenuItemActive  lipgloss.Style
	MenuDescription lipgloss.Style

	// HUD styles
	HUDValue     lipgloss.Style
	HUDSeparator lipgloss.Style
	HUDControls  lipgloss.Style
	HUDError     lipgloss.Style

	// Slot table styles
	TableBorder   lipgloss.Color
	TableSelected lipgloss.Style
	EmptyText     lipgloss.Style
}

type themeColors struct {
	title, item, active, desc, value, sep, controls, err, border, selFg, selBg string
}

var themes = map[string]themeColors{
	"default": {
		title: "51", item: "252", active: "226", desc: "245",
		value: "255", sep: "240", controls: "245", err: "203",
		border: "240", selFg: "229", selBg: "57",
	},
	"neon": {
		title: "87", item: "255", active: "199", desc: "171",
		value: "118", sep: "135", controls: "171", err: "199",
		border: "135", selFg: "16", selBg: "87",
	},
	"pastel": {
		title: "123", item: "254", active: "218", desc: "183",
		value: "229", sep: "249", controls: "183", err: "217",
		border: "183", selFg: "16", selBg: "157",
	},
	"mono": {
		title: "255", item: "250", active: "255", desc: "245",
		value: "255", sep: "240", controls: "245", err: "255",
		border: "240", selFg: "16", selBg: "250",
	},
}

// ThemeNames lists the available themes, sorted.
func ThemeNames() []string {
	names := make([]string, 0, len(themes))
	for name := range themes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// NewTheme builds the named theme for r. A nil renderer uses the default
// one.
func NewTheme(name string, r *lipgloss.Renderer) (Theme, error) {
	c, ok := themes[name]
	if !ok {
		return Theme{}, fmt.Errorf("unknown theme %q", name)
	}
	if r == nil {
		r = lipgloss.DefaultRenderer()
	}
	fg := func(color string) lipgloss.Style {
		return r.NewStyle().Foreground(lipgloss.Color(color))
	}
	return Theme{
		MenuTitle:       fg(c.title).Bold(true),
		MenuItemNormal:  fg(c.item),
		MenuItemActive:  fg(c.active).Bold(true),
		MenuDescription: fg(c.desc),

		HUDValue:     fg(c.value),
		HUDSeparator: fg(c.sep),
		HUDControls:  fg(c.controls),
		HUDError:     fg(c.err),

		TableBorder:   lipgloss.Color(c.border),
		TableSelected: fg(c.selFg).Background(lipgloss.Color(c.selBg)),
		EmptyText:     fg(c.desc).Italic(true).Padding(2, 4),
	}, nil
}

// DefaultTheme returns the default theme on the default renderer.
func DefaultTheme() Theme {
	t, _ := NewTheme("default", nil)
	return t
}

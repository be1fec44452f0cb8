package tui

import "testing"

func TestThemeNames(t *testing.T) {
	names := ThemeNames()
	want := []string{"default", "mono", "neon", "pastel"}
	if len(names) != len(want) {
		t.Fatalf("ThemeNames() = %v, expected %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("ThemeNames()[%d] = %q, expected %q", i, names[i], want[i])
		}
	}
}

func TestNewTheme(t *testing.T) {
	for _, name := range ThemeNames() {
		if _, err := NewTheme(name, nil); err != nil {
			t.Errorf("NewTheme(%q) error = %v", name, err)
		}
	}
	if _, err := NewTheme("plaid", nil); err == nil {
		t.Error("NewTheme(plaid) expected error")
	}
}

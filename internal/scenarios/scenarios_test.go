package scenarios

import (
	"bytes"
	"testing"

	"github.com/vovakirdan/one-and-all/internal/core"
	"github.com/vovakirdan/one-and-all/internal/registry"
	"github.com/vovakirdan/one-and-all/internal/sim"
)

func TestRegistered(t *testing.T) {
	for _, id := range []string{"story", "sandbox", "galaxy"} {
		if !registry.Exists(id) {
			t.Errorf("scenario %q not registered", id)
		}
		s, err := registry.Create(id)
		if err != nil {
			t.Fatalf("Create(%q) error: %v", id, err)
		}
		if s.ID() != id {
			t.Errorf("ID() = %q, expected %q", s.ID(), id)
		}
	}
	if _, err := registry.Create("missing"); err == nil {
		t.Error("Create(missing) expected error")
	}
	list := registry.List()
	for i := 1; i < len(list); i++ {
		if list[i-1].ID >= list[i].ID {
			t.Errorf("List() not sorted: %v", list)
		}
	}
}

func TestScenarioStates(t *testing.T) {
	tests := []struct {
		id       string
		expected sim.StoryState
	}{
		{"story", sim.StateStart},
		{"sandbox", sim.StateSandbox},
		{"galaxy", sim.StateSandbox},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			w, err := registry.NewWorld(tt.id, core.DefaultConfig(), sim.Options{})
			if err != nil {
				t.Fatal(err)
			}
			if w.State() != tt.expected {
				t.Errorf("State() = %v, expected %v", w.State(), tt.expected)
			}
		})
	}
}

func TestGalaxyPopulates(t *testing.T) {
	w, err := registry.NewWorld("galaxy", core.DefaultConfig(), sim.Options{})
	if err != nil {
		t.Fatal(err)
	}
	g := NewGalaxy()
	if len(w.Planets()) != g.Planets || len(w.Stars()) != g.Stars {
		t.Errorf("planets=%d stars=%d, expected %d and %d", len(w.Planets()), len(w.Stars()), g.Planets, g.Stars)
	}
	if n := len(w.Fishes()); n < g.Schools || n > 3*g.Schools {
		t.Errorf("fishes = %d, expected between %d and %d", n, g.Schools, 3*g.Schools)
	}
}

func TestGalaxyDeterminism(t *testing.T) {
	run := func(seed int64) []byte {
		cfg := core.DefaultConfig()
		cfg.Seed = seed
		w, err := registry.NewWorld("galaxy", cfg, sim.Options{})
		if err != nil {
			t.Fatal(err)
		}
		for i := 0; i < 120; i++ {
			w.Step(core.NewInputFrame())
		}
		data, _ := w.EncodeSave()
		return data
	}

	if !bytes.Equal(run(7), run(7)) {
		t.Error("Determinism failed: galaxy runs with the same seed differ")
	}
	if bytes.Equal(run(7), run(8)) {
		t.Error("galaxy runs with different seeds are identical")
	}
}

func TestGalaxySurvivesReset(t *testing.T) {
	w, _ := registry.NewWorld("galaxy", core.DefaultConfig(), sim.Options{})
	in := core.NewInputFrame()
	in.Set(core.ActionReset)
	w.Step(in)
	if w.State() != sim.StateSandbox || len(w.Planets()) != NewGalaxy().Planets {
		t.Errorf("after reset: state=%v planets=%d", w.State(), len(w.Planets()))
	}
}

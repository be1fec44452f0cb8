package registry

import (
	"testing"

	"github.com/vovakirdan/one-and-all/internal/core"
	"github.com/vovakirdan/one-and-all/internal/sim"
)

type testScenario struct{ id string }

func (s testScenario) ID() string          { return s.id }
func (s testScenario) Title() string       { return "Test " + s.id }
func (s testScenario) Description() string { return "used by tests" }
func (s testScenario) Setup(w *sim.World)  { w.EnterState(sim.StateSandbox) }

func TestRegisterAndList(t *testing.T) {
	Register("zz-test", func() Scenario { return testScenario{id: "zz-test"} })

	if !Exists("zz-test") {
		t.Fatal("Exists(zz-test) = false, expected true")
	}
	var found bool
	for _, info := range List() {
		if info.ID == "zz-test" {
			found = true
			if info.Title != "Test zz-test" {
				t.Errorf("Title = %q, expected %q", info.Title, "Test zz-test")
			}
		}
	}
	if !found {
		t.Error("List() is missing zz-test")
	}
}

func TestRegisterDuplicatePanics(t *testing.T) {
	Register("zz-dup", func() Scenario { return testScenario{id: "zz-dup"} })

	defer func() {
		if recover() == nil {
			t.Error("second Register() expected panic")
		}
	}()
	Register("zz-dup", func() Scenario { return testScenario{id: "zz-dup"} })
}

func TestNewWorldUsesScenarioSetup(t *testing.T) {
	Register("zz-world", func() Scenario { return testScenario{id: "zz-world"} })

	opts := sim.Options{Setup: func(w *sim.World) { w.EnterState(sim.StateIntro) }}
	w, err := NewWorld("zz-world", core.DefaultConfig(), opts)
	if err != nil {
		t.Fatalf("NewWorld() error = %v", err)
	}
	if got := w.State(); got != sim.StateSandbox {
		t.Errorf("State() = %v, expected %v", got, sim.StateSandbox)
	}

	if _, err := NewWorld("zz-missing", core.DefaultConfig(), sim.Options{}); err == nil {
		t.Error("NewWorld(zz-missing) expected error")
	}
}

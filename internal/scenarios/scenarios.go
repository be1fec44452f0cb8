// Package scenarios holds the built-in ways to start a world. Each one
// registers itself with the registry on import.
package scenarios

import (
	"github.com/vovakirdan/one-and-all/internal/registry"
	"github.com/vovakirdan/one-and-all/internal/sim"
)

func init() {
	registry.Register("story", func() registry.Scenario { return Story{} })
	registry.Register("sandbox", func() registry.Scenario { return Sandbox{} })
	registry.Register("galaxy", func() registry.Scenario { return NewGalaxy() })
}

// Story starts at the title page and plays the whole story.
type Story struct{}

func (Story) ID() string          { return "story" }
func (Story) Title() string       { return "One And All" }
func (Story) Description() string { return "Play the story from the first spark" }
func (Story) Setup(*sim.World)    {}

// Sandbox skips the story and starts with an empty world to create in.
type Sandbox struct{}

func (Sandbox) ID() string          { return "sandbox" }
func (Sandbox) Title() string       { return "Sandbox" }
func (Sandbox) Description() string { return "Skip the story and start creating" }

// Setup jumps straight to the sandbox.
func (Sandbox) Setup(w *sim.World) {
	w.EnterState(sim.StateSandbox)
}

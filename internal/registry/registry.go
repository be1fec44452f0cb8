// Package registry provides a global registry for world scenarios.
// Scenarios register themselves in init() functions, allowing the platform
// to discover and start them without hardcoded dependencies.
package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/vovakirdan/one-and-all/internal/core"
	"github.com/vovakirdan/one-and-all/internal/sim"
)

// Scenario decides how a world starts: where in the story, and with what
// already in it.
type Scenario interface {
	// ID returns a unique identifier (e.g., "story", "galaxy").
	// Used for CLI arguments.
	ID() string

	// Title returns a human-readable name for display.
	Title() string

	// Description is a one-line summary for menus.
	Description() string

	// Setup runs after every world reset. It may jump to a story state and
	// add entities using the world's random source.
	Setup(w *sim.World)
}

// Info contains metadata about a registered scenario.
type Info struct {
	ID          string
	Title       string
	Description string
}

// Factory is a function that creates a new instance of a scenario.
type Factory func() Scenario

var (
	factories = make(map[string]Factory)
	infos     = make(map[string]Info)
	mu        sync.RWMutex
)

// Register adds a scenario factory to the registry.
// Typically called from an init() function.
// Panics if a scenario with the same ID is already registered.
func Register(id string, f Factory) {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := factories[id]; exists {
		panic(fmt.Sprintf("registry: scenario %q already registered", id))
	}

	factories[id] = f

	s := f()
	infos[id] = Info{ID: id, Title: s.Title(), Description: s.Description()}
}

// List returns information about all registered scenarios, sorted by ID.
func List() []Info {
	mu.RLock()
	defer mu.RUnlock()

	result := make([]Info, 0, len(infos))
	for _, info := range infos {
		result = append(result, info)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})

	return result
}

// Create instantiates a new scenario by its ID.
// Returns an error if the ID is not registered.
func Create(id string) (Scenario, error) {
	mu.RLock()
	defer mu.RUnlock()

	f, ok := factories[id]
	if !ok {
		return nil, fmt.Errorf("registry: unknown scenario %q", id)
	}

	return f(), nil
}

// Exists checks if a scenario with the given ID is registered.
func Exists(id string) bool {
	mu.RLock()
	defer mu.RUnlock()

	_, ok := factories[id]
	return ok
}

// NewWorld creates a world running scenario id. opts.Setup is replaced by
// the scenario's.
func NewWorld(id string, cfg core.RuntimeConfig, opts sim.Options) (*sim.World, error) {
	s, err := Create(id)
	if err != nil {
		return nil, err
	}
	opts.Setup = s.Setup
	return sim.NewWorld(cfg, opts), nil
}

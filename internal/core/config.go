package core

// World dimensions in world units. The camera view is this size.
const (
	WorldWidth  float32 = 800
	WorldHeight float32 = 600
)

// RuntimeConfig contains configuration passed to a world at initialization.
type RuntimeConfig struct {
	ScreenW  int   // Screen width in characters
	ScreenH  int   // Screen height in characters
	TickRate int   // Simulation ticks per second (default 60)
	Seed     int64 // RNG seed for deterministic simulation
}

// DefaultConfig returns a RuntimeConfig with sensible defaults.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		ScreenW:  100,
		ScreenH:  37,
		TickRate: 60,
		Seed:     0, // 0 means use current time in platform layer
	}
}

// Dt returns the fixed timestep in seconds for the configured tick rate.
func (c RuntimeConfig) Dt() float32 {
	if c.TickRate <= 0 {
		return 1.0 / 60
	}
	return 1 / float32(c.TickRate)
}

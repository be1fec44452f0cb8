package scenarios

import (
	"math"

	"github.com/vovakirdan/one-and-all/internal/core"
	"github.com/vovakirdan/one-and-all/internal/sim"
)

// Galaxy is a sandbox pre-filled with finished planets, stars and fish laid
// out on a spiral around the player. Its layout depends only on the seed,
// which makes it the scenario for headless runs.
type Galaxy struct {
	Planets int
	Stars   int
	Schools int
}

// NewGalaxy returns the default galaxy.
func NewGalaxy() Galaxy {
	return Galaxy{Planets: 6, Stars: 14, Schools: 3}
}

func (Galaxy) ID() string          { return "galaxy" }
func (Galaxy) Title() string       { return "Galaxy" }
func (Galaxy) Description() string { return "A sandbox that already has a few worlds in it" }

// spiralStep is the angle between consecutive bodies on the spiral.
const spiralStep = 2.399963 // golden angle

// Setup enters the sandbox and populates it.
func (g Galaxy) Setup(w *sim.World) {
	w.EnterState(sim.StateSandbox)
	env := w.Env()
	center := w.Player().Center()

	n := 0
	at := func(radius float32) core.Vector {
		n++
		a := float64(n) * spiralStep
		return core.NewVector(
			center.X+radius*float32(math.Cos(a)),
			center.Y+radius*float32(math.Sin(a)),
		)
	}

	for i := 0; i < g.Planets; i++ {
		pos := at(180 + float32(i)*140)
		color := core.RGBA(env.ByteRange(0x44, 0xFF), env.ByteRange(0x44, 0xFF), env.ByteRange(0x44, 0xFF), 255)
		w.AddPlanet(sim.NewPlanet(core.NewCircle(pos.X, pos.Y, env.Uniform(15, 25)), color, env))
	}
	for i := 0; i < g.Stars; i++ {
		pos := at(120 + float32(i)*70)
		color := core.RGBA(env.ByteRange(0x58, 0xFF), env.ByteRange(0x58, 0xFF), env.ByteRange(0x58, 0xFF), 255)
		velr := env.Uniform(0.1, 0.3)
		if env.Chance(0.5) {
			velr = -velr
		}
		w.AddStar(sim.NewStar(core.NewCircle(pos.X, pos.Y, env.Uniform(3, 7)), color, velr, env.Uniform(0, 90), env))
	}
	for i := 0; i < g.Schools; i++ {
		pos := at(260 + float32(i)*200)
		for j := env.IntRange(1, 4); j > 0; j-- {
			color := core.RGBA(env.ByteRange(0x44, 0xFF), env.ByteRange(0x44, 0xFF), env.ByteRange(0x44, 0xFF), 255)
			w.AddFish(sim.NewFish(pos, env.Uniform(0, 360), color, env))
		}
	}
}

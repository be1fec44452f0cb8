// Package sim implements the particle world: particle systems and the
// planets, stars and fish built on them, the save format, and the World that
// owns the live entity lists.
//
// Nothing in this package reads a clock or a global random source. Every
// update receives an explicit dt and an *Env carrying the seeded generator.
package sim

import (
	"math/rand"
)

// Tuning holds the constants that shape spawning and world behaviour.
type Tuning struct {
	// Particle spawn velocity is uniform in [-ParticleVelRange, ParticleVelRange].
	ParticleVelRange float32
	// Particle spin is uniform in [-ParticleRotRange, ParticleRotRange].
	ParticleRotRange float32
	// Drift speed of orbiting systems along their tangent.
	ParticleVelDist float32

	JoiningOpacityRate float32
	JoiningFarDist     float32
	JoiningNearDist    float32

	MaxMoons         int
	DoubleClickTime  float32
	NotificationTime float32
	TextRate         float32

	// Per-frame easing divisors.
	PlayerEase  float32
	JoiningEase float32
	CameraEase  float32

	// Creation odds in the sandbox. Fish take the remainder.
	PlanetOdds float32
	StarOdds   float32
}

// DefaultTuning returns the values the game was balanced with.
func DefaultTuning() Tuning {
	return Tuning{
		ParticleVelRange:   80,
		ParticleRotRange:   5,
		ParticleVelDist:    0.2828427,
		JoiningOpacityRate: 0.13,
		JoiningFarDist:     700,
		JoiningNearDist:    150,
		MaxMoons:           5,
		DoubleClickTime:    0.35,
		NotificationTime:   7,
		TextRate:           0.1,
		PlayerEase:         20,
		JoiningEase:        30,
		CameraEase:         40,
		PlanetOdds:         0.6,
		StarOdds:           0.25,
	}
}

// Env is the explicit source of randomness and tuning for updates.
type Env struct {
	Rng    *rand.Rand
	Tuning Tuning
}

// NewEnv creates an Env seeded deterministically.
func NewEnv(seed int64, tuning Tuning) *Env {
	return &Env{
		Rng:    rand.New(rand.NewSource(seed)),
		Tuning: tuning,
	}
}

// Uniform returns a float in [lo, hi).
func (e *Env) Uniform(lo, hi float32) float32 {
	return lo + e.Rng.Float32()*(hi-lo)
}

// IntRange returns an int in [lo, hi).
func (e *Env) IntRange(lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + e.Rng.Intn(hi-lo)
}

// Chance returns true with probability p.
func (e *Env) Chance(p float32) bool {
	return e.Rng.Float32() < p
}

// ByteRange returns a channel value in [lo, hi).
func (e *Env) ByteRange(lo, hi int) uint8 {
	return uint8(e.IntRange(lo, hi))
}

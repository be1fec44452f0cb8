package sim

import (
	"fmt"
	"math"

	"github.com/vovakirdan/one-and-all/internal/core"
)

// starChannelFloor is the minimum brightness of every star color channel.
const starChannelFloor uint8 = 191 // 0.75 of full, truncated

// Planet is a body with an ambient glow and up to Tuning.MaxMoons moons.
type Planet struct {
	Circle core.Circle
	Color  core.Color
	System ParticleSystem
	Moons  []RotatingParticleSystem
}

// NewPlanet creates a planet with randomized moons. All moons share one
// starting angle and one direction of rotation.
func NewPlanet(circle core.Circle, color core.Color, env *Env) Planet {
	smaller := circle
	smaller.R /= 4

	planet := Planet{
		Circle: circle,
		Color:  color,
		System: NewParticleSystem(env.Uniform(2.0, 3.8), 0.9, CircleShape(circle),
			core.Vector{}, color, 1, 0.3),
	}

	r := env.Uniform(0, 360)
	clockwise := env.Chance(0.5)
	moons := env.IntRange(0, env.Tuning.MaxMoons+1)
	for i := 0; i < moons; i++ {
		var velr float32
		if clockwise {
			velr = env.Uniform(0.05, 0.15)
		} else {
			velr = env.Uniform(-0.15, -0.05)
		}
		planet.Moons = append(planet.Moons, NewRotatingParticleSystem(
			env.Uniform(1.0, 2.6), 0.6, CircleShape(smaller), core.Vector{},
			color, 1, r, velr, env.Uniform(35, 200), 0.2))
	}
	return planet
}

// Clone returns a deep copy of p.
func (p Planet) Clone() Planet {
	p.System = p.System.Clone()
	if p.Moons != nil {
		moons := make([]RotatingParticleSystem, len(p.Moons))
		for i, m := range p.Moons {
			moons[i] = m.Clone()
		}
		p.Moons = moons
	}
	return p
}

// Update keeps the glow and every moon anchored on the planet and advances them.
func (p *Planet) Update(dt float32, env *Env) {
	center := p.Circle.Pos()
	p.System.Host = p.System.Host.At(center)
	p.System.Update(dt, env)
	for i := range p.Moons {
		moon := &p.Moons[i]
		moon.System.Host = moon.System.Host.At(center)
		moon.Update(dt, env)
	}
}

// Draw renders the glow, the body, then the moons.
func (p *Planet) Draw(cv Canvas) {
	p.System.Draw(cv)
	cv.FillCircle(p.Circle, p.Color)
	for i := range p.Moons {
		p.Moons[i].Draw(cv)
	}
}

// AppendBinary appends the encoding of p to b.
func (p Planet) AppendBinary(b []byte) ([]byte, error) {
	b, _ = p.Circle.AppendBinary(b)
	b, _ = p.Color.AppendBinary(b)
	b, _ = p.System.AppendBinary(b)
	b = core.AppendCount(b, len(p.Moons))
	for _, m := range p.Moons {
		b, _ = m.AppendBinary(b)
	}
	return b, nil
}

// MarshalBinary encodes p.
func (p Planet) MarshalBinary() ([]byte, error) {
	return p.AppendBinary(nil)
}

// DecodePlanet reads a Planet at offset.
func DecodePlanet(data []byte, offset int) (Planet, int, error) {
	d := core.NewDecoder(data, offset)
	var p Planet
	p.Circle = core.Decode(d, core.DecodeCircle)
	p.Color = core.Decode(d, core.DecodeColor)
	p.System = core.Decode(d, DecodeParticleSystem)
	p.Moons = core.DecodeList(d, DecodeRotatingParticleSystem)
	if err := d.Err(); err != nil {
		return Planet{}, 0, fmt.Errorf("planet: %w", err)
	}
	return p, d.Consumed(), nil
}

// Star is a spinning sprite surrounded by twinkling particles. Its position
// is the host of its particle system.
type Star struct {
	Color  core.Color
	System ParticleSystem
	VelR   float32
	R      float32
}

// NewStar creates a star and its initial cloud of particles. The sprite
// color is raised to a brightness floor; the particles keep the given color.
func NewStar(circle core.Circle, color core.Color, velr, r float32, env *Env) Star {
	star := Star{
		Color: color,
		System: NewParticleSystem(env.Uniform(0.08, 0.2), 0.85, CircleShape(circle),
			core.Vector{}, color, 1, 1),
		VelR: velr,
		R:    r,
	}
	star.Color.R = max(star.Color.R, starChannelFloor)
	star.Color.G = max(star.Color.G, starChannelFloor)
	star.Color.B = max(star.Color.B, starChannelFloor)
	star.System.ForceSpawn(env.IntRange(20, 45), env)
	return star
}

// Clone returns a deep copy of s.
func (s Star) Clone() Star {
	s.System = s.System.Clone()
	return s
}

// Pos returns the star's centre.
func (s *Star) Pos() core.Vector {
	return s.System.Host.Pos()
}

// Update advances the particles and the spin.
func (s *Star) Update(dt float32, env *Env) {
	s.System.Update(dt, env)
	s.R += s.VelR * dt
}

// starSpriteSize is the drawn size of the star sprite in world units.
const starSpriteSize = 32

// Draw renders the particles and the sprite centred on the host.
func (s *Star) Draw(cv Canvas) {
	s.System.Draw(cv)
	pos := s.Pos()
	dst := core.NewRectangle(pos.X-starSpriteSize/2, pos.Y-starSpriteSize/2, starSpriteSize, starSpriteSize)
	cv.DrawSprite(SpriteStar, dst, s.Color, s.R)
}

// AppendBinary appends the encoding of s to b.
func (s Star) AppendBinary(b []byte) ([]byte, error) {
	b, _ = s.Color.AppendBinary(b)
	b, _ = s.System.AppendBinary(b)
	b = core.AppendFloat32(b, s.VelR)
	return core.AppendFloat32(b, s.R), nil
}

// MarshalBinary encodes s.
func (s Star) MarshalBinary() ([]byte, error) {
	return s.AppendBinary(nil)
}

// DecodeStar reads a Star at offset.
func DecodeStar(data []byte, offset int) (Star, int, error) {
	d := core.NewDecoder(data, offset)
	var s Star
	s.Color = core.Decode(d, core.DecodeColor)
	s.System = core.Decode(d, DecodeParticleSystem)
	s.VelR = d.Float32()
	s.R = d.Float32()
	if err := d.Err(); err != nil {
		return Star{}, 0, fmt.Errorf("star: %w", err)
	}
	return s, d.Consumed(), nil
}

// FishState is a phase of fish behaviour.
type FishState int

const (
	FishIdle FishState = iota
	FishSwim
)

// Fish ranges.
const (
	fishIdleChance   = 0.4
	fishBrakeWindow  = 0.22
	fishBrakeFactor  = 1.1
	fishSpeedScale   = 200
	fishIdleMinCycle = 1.1
	fishIdleMaxCycle = 2.4
	fishSwimMinCycle = 1.4
	fishSwimMaxCycle = 2.3
)

// Fish alternates between drifting to a stop and darting in a random
// direction. SwimTime counts down the current phase; SwimTimer holds the
// phase's full length.
type Fish struct {
	Pos       core.Vector
	R         float32
	SwimTime  float32
	SwimTimer float32
	SwimV     float32
	AnimTimer float32
	AnimTime  float32
	Color     core.Color
	BodyRect  core.Rectangle
	TailRect  core.Rectangle
}

// NewFish creates a fish already gliding forward.
func NewFish(pos core.Vector, r float32, color core.Color, env *Env) Fish {
	anim := env.Uniform(0.8, 1.0)
	return Fish{
		Pos:       pos,
		R:         r,
		SwimTime:  0.8,
		SwimTimer: 0.8,
		SwimV:     0.2,
		AnimTimer: anim,
		AnimTime:  anim,
		Color:     color,
		BodyRect:  core.NewRectangle(0, 0, 32, 16),
		TailRect:  core.NewRectangle(32, 0, 16, 16),
	}
}

// SetNext enters a behaviour phase with fresh random timings.
func (f *Fish) SetNext(state FishState, env *Env) {
	switch state {
	case FishIdle:
		f.SwimTime = env.Uniform(fishIdleMinCycle, fishIdleMaxCycle)
		f.SwimTimer = f.SwimTime
		f.AnimTimer = 2.8
		f.AnimTime = 1.6
		f.SwimV = 0
	case FishSwim:
		f.SwimTime = env.Uniform(fishSwimMinCycle, fishSwimMaxCycle)
		f.SwimTimer = f.SwimTime
		f.R = env.Uniform(0, 2*math.Pi)
		f.AnimTimer = env.Uniform(1.6, 2.0)
		f.AnimTime = f.AnimTimer
		f.SwimV = f.AnimTimer / 8
	}
}

// Update brakes near the end of a phase, picks the next one when it runs
// out, loops the fin animation and moves the fish.
func (f *Fish) Update(dt float32, env *Env) {
	f.SwimTime -= dt
	if f.SwimTime < fishBrakeWindow {
		f.SwimV /= fishBrakeFactor
	}
	if f.SwimTime <= 0 {
		if env.Chance(fishIdleChance) {
			f.SetNext(FishIdle, env)
		} else {
			f.SetNext(FishSwim, env)
		}
	}

	f.AnimTimer -= dt
	if f.AnimTimer <= 0 {
		f.AnimTimer = f.AnimTime
	}

	f.Pos = f.Pos.Sub(core.Rotate(f.R).Apply(core.NewVector(f.SwimV, 0)).Scale(dt * fishSpeedScale))
}

// animPhase is the fin swing in [-1, 1] for a phase shift in radians.
func (f *Fish) animPhase(shift float64) float32 {
	if f.AnimTime == 0 {
		return 0
	}
	return float32(math.Sin(float64(f.AnimTimer/f.AnimTime)*2*math.Pi - shift))
}

// Draw renders the body swaying around the fish centre and the tail
// flapping behind it.
func (f *Fish) Draw(cv Canvas) {
	bodyAngle := f.animPhase(0) + f.R
	body := f.BodyRect.At(core.NewVector(f.Pos.X-f.BodyRect.W/2, f.Pos.Y-f.BodyRect.H/2))
	cv.DrawSprite(SpriteFishBody, body, f.Color, bodyAngle)

	tailAngle := bodyAngle - f.animPhase(math.Pi/3)
	hinge := core.Rotate(bodyAngle).Apply(core.NewVector(f.BodyRect.W/2+f.TailRect.W/2, 0))
	tail := f.TailRect.At(core.NewVector(f.Pos.X+hinge.X-f.TailRect.W/2, f.Pos.Y+hinge.Y-f.TailRect.H/2))
	cv.DrawSprite(SpriteFishTail, tail, f.Color, tailAngle)
}

// AppendBinary appends the encoding of f to b.
func (f Fish) AppendBinary(b []byte) ([]byte, error) {
	b, _ = f.Pos.AppendBinary(b)
	b = core.AppendFloat32(b, f.R)
	b = core.AppendFloat32(b, f.SwimTime)
	b = core.AppendFloat32(b, f.SwimTimer)
	b = core.AppendFloat32(b, f.SwimV)
	b = core.AppendFloat32(b, f.AnimTimer)
	b = core.AppendFloat32(b, f.AnimTime)
	b, _ = f.Color.AppendBinary(b)
	b, _ = f.BodyRect.AppendBinary(b)
	return f.TailRect.AppendBinary(b)
}

// MarshalBinary encodes f.
func (f Fish) MarshalBinary() ([]byte, error) {
	return f.AppendBinary(nil)
}

// DecodeFish reads a Fish at offset.
func DecodeFish(data []byte, offset int) (Fish, int, error) {
	d := core.NewDecoder(data, offset)
	var f Fish
	f.Pos = core.Decode(d, core.DecodeVector)
	f.R = d.Float32()
	f.SwimTime = d.Float32()
	f.SwimTimer = d.Float32()
	f.SwimV = d.Float32()
	f.AnimTimer = d.Float32()
	f.AnimTime = d.Float32()
	f.Color = core.Decode(d, core.DecodeColor)
	f.BodyRect = core.Decode(d, core.DecodeRectangle)
	f.TailRect = core.Decode(d, core.DecodeRectangle)
	if err := d.Err(); err != nil {
		return Fish{}, 0, fmt.Errorf("fish: %w", err)
	}
	return f, d.Consumed(), nil
}

package sim

import (
	"fmt"

	"github.com/vovakirdan/one-and-all/internal/core"
)

// orbitAngularScale converts an orbiting system's VelR into radians per second.
const orbitAngularScale = 10

// Particle is one short-lived point emitted by a ParticleSystem.
type Particle struct {
	Shape      Shape
	VelX, VelY float32
	VelR       float32
	R          float32
	Lifetime   float32
	LifeTimer  float32
}

// DefaultParticle returns a particle with the placeholder rectangle and a one
// second lifetime.
func DefaultParticle() Particle {
	return Particle{Shape: RectShape(placeholderRect), R: 1, Lifetime: 1}
}

// Alpha is the particle's opacity factor: a linear fade over its lifetime
// scaled by the owning system's opacity.
func (p Particle) Alpha(opacity float32) float32 {
	if p.Lifetime <= 0 {
		return 0
	}
	return (1 - p.LifeTimer/p.Lifetime) * opacity
}

// AppendBinary appends the encoding of p to b.
func (p Particle) AppendBinary(b []byte) ([]byte, error) {
	b = appendShape(b, p.Shape)
	b = core.AppendFloat32(b, p.VelX)
	b = core.AppendFloat32(b, p.VelY)
	b = core.AppendFloat32(b, p.VelR)
	b = core.AppendFloat32(b, p.R)
	b = core.AppendFloat32(b, p.Lifetime)
	return core.AppendFloat32(b, p.LifeTimer), nil
}

// MarshalBinary encodes p.
func (p Particle) MarshalBinary() ([]byte, error) {
	return p.AppendBinary(nil)
}

// DecodeParticle reads a Particle at offset.
func DecodeParticle(data []byte, offset int) (Particle, int, error) {
	d := core.NewDecoder(data, offset)
	p := Particle{Shape: decodeShape(d)}
	p.VelX = d.Float32()
	p.VelY = d.Float32()
	p.VelR = d.Float32()
	p.R = d.Float32()
	p.Lifetime = d.Float32()
	p.LifeTimer = d.Float32()
	if err := d.Err(); err != nil {
		return Particle{}, 0, fmt.Errorf("particle: %w", err)
	}
	return p, d.Consumed(), nil
}

// ParticleSystem emits particles from its host and ages them out.
type ParticleSystem struct {
	Particles     []Particle
	SpawnTimer    float32
	SpawnTime     float32
	Lifetime      float32
	Host          Shape
	Direction     core.Vector
	Color         core.Color
	Opacity       float32
	VelMultiplier float32
}

// NewParticleSystem creates an empty system.
func NewParticleSystem(spawnTime, lifetime float32, host Shape, direction core.Vector,
	color core.Color, opacity, velMultiplier float32) ParticleSystem {
	return ParticleSystem{
		SpawnTime:     spawnTime,
		Lifetime:      lifetime,
		Host:          host,
		Direction:     direction,
		Color:         color,
		Opacity:       opacity,
		VelMultiplier: velMultiplier,
	}
}

// DefaultParticleSystem returns a white rectangular system spawning once a
// second.
func DefaultParticleSystem() ParticleSystem {
	return NewParticleSystem(1, 1, RectShape(placeholderRect), core.NewVector(1, 1), core.White, 1, 1)
}

// Clone returns a copy that shares no particle storage with ps.
func (ps ParticleSystem) Clone() ParticleSystem {
	if ps.Particles != nil {
		ps.Particles = append([]Particle(nil), ps.Particles...)
	}
	return ps
}

// Update ages every particle by dt, drops the expired ones, moves the rest,
// then spawns at most one new particle.
func (ps *ParticleSystem) Update(dt float32, env *Env) {
	for i := len(ps.Particles) - 1; i >= 0; i-- {
		p := &ps.Particles[i]
		p.LifeTimer += dt
		if p.LifeTimer > p.Lifetime {
			last := len(ps.Particles) - 1
			ps.Particles[i] = ps.Particles[last]
			ps.Particles = ps.Particles[:last]
			continue
		}
		p.Shape = p.Shape.Translate(core.NewVector(p.VelX*dt, p.VelY*dt))
		p.R += p.VelR * dt
	}

	ps.SpawnTimer += dt
	if ps.SpawnTimer > ps.SpawnTime {
		ps.SpawnTimer -= ps.SpawnTime
		ps.Particles = append(ps.Particles, ps.spawn(env))
	}
}

// ForceSpawn emits count particles immediately, ignoring the spawn timer.
func (ps *ParticleSystem) ForceSpawn(count int, env *Env) {
	for i := 0; i < count; i++ {
		ps.Particles = append(ps.Particles, ps.spawn(env))
	}
}

func (ps *ParticleSystem) spawn(env *Env) Particle {
	vel := env.Tuning.ParticleVelRange
	rot := env.Tuning.ParticleRotRange
	return Particle{
		Shape:    ps.Host,
		VelX:     (env.Uniform(-vel, vel) + ps.Direction.X) * ps.VelMultiplier,
		VelY:     (env.Uniform(-vel, vel) + ps.Direction.Y) * ps.VelMultiplier,
		VelR:     env.Uniform(-rot, rot) * ps.VelMultiplier,
		R:        env.Uniform(0, 90),
		Lifetime: ps.Lifetime,
	}
}

// Draw renders every particle with its own faded color. The system's Color
// is never modified.
func (ps *ParticleSystem) Draw(cv Canvas) {
	if ps.Opacity == 0 {
		return
	}
	for _, p := range ps.Particles {
		c := ps.Color.WithAlpha(alphaByte(p.Alpha(ps.Opacity)))
		if s := p.Shape; s.IsCircle {
			cv.FillCircle(s.Circle, c)
		} else {
			cv.FillRect(s.Rect, c, p.R, s.Rect.Center())
		}
	}
}

// AppendBinary appends the encoding of ps to b.
func (ps ParticleSystem) AppendBinary(b []byte) ([]byte, error) {
	b = core.AppendCount(b, len(ps.Particles))
	for _, p := range ps.Particles {
		b, _ = p.AppendBinary(b)
	}
	b = core.AppendFloat32(b, ps.SpawnTimer)
	b = core.AppendFloat32(b, ps.SpawnTime)
	b = core.AppendFloat32(b, ps.Lifetime)
	b = appendShape(b, ps.Host)
	b, _ = ps.Direction.AppendBinary(b)
	b, _ = ps.Color.AppendBinary(b)
	b = core.AppendFloat32(b, ps.Opacity)
	return core.AppendFloat32(b, ps.VelMultiplier), nil
}

// MarshalBinary encodes ps.
func (ps ParticleSystem) MarshalBinary() ([]byte, error) {
	return ps.AppendBinary(nil)
}

// DecodeParticleSystem reads a ParticleSystem at offset.
func DecodeParticleSystem(data []byte, offset int) (ParticleSystem, int, error) {
	d := core.NewDecoder(data, offset)
	ps := decodeParticleSystem(d)
	if err := d.Err(); err != nil {
		return ParticleSystem{}, 0, fmt.Errorf("particle system: %w", err)
	}
	return ps, d.Consumed(), nil
}

func decodeParticleSystem(d *core.Decoder) ParticleSystem {
	var ps ParticleSystem
	ps.Particles = core.DecodeList(d, DecodeParticle)
	ps.SpawnTimer = d.Float32()
	ps.SpawnTime = d.Float32()
	ps.Lifetime = d.Float32()
	ps.Host = decodeShape(d)
	ps.Direction = core.Decode(d, core.DecodeVector)
	ps.Color = core.Decode(d, core.DecodeColor)
	ps.Opacity = d.Float32()
	ps.VelMultiplier = d.Float32()
	return ps
}

// RotatingParticleSystem emits from a point orbiting its system's host.
type RotatingParticleSystem struct {
	System ParticleSystem
	R      float32
	VelR   float32
	Offset float32
}

// NewRotatingParticleSystem wraps a new ParticleSystem in an orbit.
func NewRotatingParticleSystem(spawnTime, lifetime float32, host Shape, direction core.Vector,
	color core.Color, opacity, r, velr, offset, velMultiplier float32) RotatingParticleSystem {
	return RotatingParticleSystem{
		System: NewParticleSystem(spawnTime, lifetime, host, direction, color, opacity, velMultiplier),
		R:      r,
		VelR:   velr,
		Offset: offset,
	}
}

// DefaultRotatingParticleSystem wraps DefaultParticleSystem.
func DefaultRotatingParticleSystem() RotatingParticleSystem {
	return RotatingParticleSystem{System: DefaultParticleSystem(), VelR: 0.2}
}

// Clone returns a deep copy of rps.
func (rps RotatingParticleSystem) Clone() RotatingParticleSystem {
	rps.System = rps.System.Clone()
	return rps
}

// OrbitOffset is the displacement of the emitting point from the host.
func (rps *RotatingParticleSystem) OrbitOffset() core.Vector {
	return core.Rotate(rps.R).Apply(core.NewVector(rps.Offset, 0))
}

// Update points particle drift along the orbit tangent, spawns from the
// orbiting point, then advances the orbit. The host itself never moves.
func (rps *RotatingParticleSystem) Update(dt float32, env *Env) {
	rps.System.Direction = core.Rotate(rps.R).Apply(core.NewVector(0, -env.Tuning.ParticleVelDist))

	saved := rps.System.Host
	rps.System.Host = saved.Translate(rps.OrbitOffset())
	rps.System.Update(dt, env)
	rps.System.Host = saved

	rps.R += rps.VelR * dt * orbitAngularScale
}

// Draw renders the trail and a solid marker at the orbiting point.
func (rps *RotatingParticleSystem) Draw(cv Canvas) {
	if rps.System.Opacity == 0 {
		return
	}
	rps.System.Draw(cv)

	solid := rps.System.Color.WithAlpha(alphaByte(rps.System.Opacity))
	if h := rps.System.Host.Translate(rps.OrbitOffset()); h.IsCircle {
		cv.FillCircle(h.Circle, solid)
	} else {
		cv.FillRect(h.Rect, solid, rps.R*1.3, h.Rect.Pos())
	}
}

// AppendBinary appends the encoding of rps to b.
func (rps RotatingParticleSystem) AppendBinary(b []byte) ([]byte, error) {
	b, _ = rps.System.AppendBinary(b)
	b = core.AppendFloat32(b, rps.R)
	b = core.AppendFloat32(b, rps.VelR)
	return core.AppendFloat32(b, rps.Offset), nil
}

// MarshalBinary encodes rps.
func (rps RotatingParticleSystem) MarshalBinary() ([]byte, error) {
	return rps.AppendBinary(nil)
}

// DecodeRotatingParticleSystem reads a RotatingParticleSystem at offset.
func DecodeRotatingParticleSystem(data []byte, offset int) (RotatingParticleSystem, int, error) {
	d := core.NewDecoder(data, offset)
	rps := RotatingParticleSystem{System: decodeParticleSystem(d)}
	rps.R = d.Float32()
	rps.VelR = d.Float32()
	rps.Offset = d.Float32()
	if err := d.Err(); err != nil {
		return RotatingParticleSystem{}, 0, fmt.Errorf("rotating particle system: %w", err)
	}
	return rps, d.Consumed(), nil
}

// ExplConvParticle is one mote of a gathering burst.
type ExplConvParticle struct {
	Circle core.Circle
	Offset float32
	R      float32
}

// ExplConvParticleSystem is a one-shot burst that expands, collapses back on
// its host, and becomes a Planet.
type ExplConvParticleSystem struct {
	Particles []ExplConvParticle
	Lifetime  float32
	Host      core.Circle
	Color     core.Color
	Opacity   float32
	LifeTimer float32
}

// NewExplConvParticleSystem creates an idle burst.
func NewExplConvParticleSystem(lifetime float32, host core.Circle, color core.Color, opacity float32) ExplConvParticleSystem {
	return ExplConvParticleSystem{
		Lifetime: lifetime,
		Host:     host,
		Color:    color,
		Opacity:  opacity,
	}
}

// Activate restarts the burst with count motes reaching at most offset from
// the host.
func (e *ExplConvParticleSystem) Activate(count int, offset float32, env *Env) {
	e.LifeTimer = 0
	for i := 0; i < count; i++ {
		e.Particles = append(e.Particles, ExplConvParticle{
			Circle: e.Host,
			Offset: offset,
			R:      env.Uniform(0, 360),
		})
	}
}

// Finished reports whether the burst has no motes left.
func (e *ExplConvParticleSystem) Finished() bool {
	return len(e.Particles) == 0
}

// Update advances the burst. When the lifetime is reached it clears its motes,
// appends a Planet to planets and returns true. Updating a spent burst
// returns false and appends nothing.
// LifeTimer is a float32 sum of dt, so steps of Lifetime/n may total just
// under Lifetime and need one more call.
func (e *ExplConvParticleSystem) Update(dt float32, env *Env, planets []Planet) ([]Planet, bool) {
	e.LifeTimer += dt
	if e.LifeTimer >= e.Lifetime {
		if len(e.Particles) > 0 {
			e.Particles = nil
			return append(planets, NewPlanet(e.Host, e.Color, env)), true
		}
		return planets, false
	}

	t := e.LifeTimer / e.Lifetime
	var amount float32
	if t < 0.5 {
		amount = InterpSqInv(t * 2)
	} else {
		amount = 1 - InterpSq((t-0.5)*2)
	}
	for i := range e.Particles {
		p := &e.Particles[i]
		dir := core.Rotate(p.R).Apply(core.NewVector(p.Offset*amount, 0))
		p.Circle.X = dir.X + e.Host.X
		p.Circle.Y = dir.Y + e.Host.Y
	}
	return planets, false
}

// Alpha brightens from half to full opacity over the burst.
func (e *ExplConvParticleSystem) Alpha() float32 {
	if e.Lifetime <= 0 {
		return e.Opacity
	}
	return (e.LifeTimer/e.Lifetime/2 + 0.5) * e.Opacity
}

// Draw renders the motes.
func (e *ExplConvParticleSystem) Draw(cv Canvas) {
	if e.Opacity == 0 {
		return
	}
	c := e.Color.WithAlpha(alphaByte(e.Alpha()))
	for _, p := range e.Particles {
		cv.FillCircle(p.Circle, c)
	}
}

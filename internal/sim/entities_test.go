package sim

import (
	"math"
	"testing"

	"github.com/vovakirdan/one-and-all/internal/core"
)

func TestPlanetMoons(t *testing.T) {
	tuning := DefaultTuning()
	counts := make(map[int]int)

	for seed := int64(0); seed < 200; seed++ {
		env := NewEnv(seed, tuning)
		p := NewPlanet(core.NewCircle(0, 0, 20), core.White, env)
		counts[len(p.Moons)]++

		if len(p.Moons) > tuning.MaxMoons {
			t.Fatalf("seed %d: %d moons, expected at most %d", seed, len(p.Moons), tuning.MaxMoons)
		}
		for i, m := range p.Moons {
			if m.R != p.Moons[0].R {
				t.Errorf("seed %d: moon %d angle %v, expected shared %v", seed, i, m.R, p.Moons[0].R)
			}
			if (m.VelR > 0) != (p.Moons[0].VelR > 0) {
				t.Errorf("seed %d: moon %d spins the other way", seed, i)
			}
			if a := absF(m.VelR); a < 0.05 || a > 0.15 {
				t.Errorf("seed %d: moon %d |VelR| = %v, expected in [0.05, 0.15]", seed, i, a)
			}
			if m.Offset < 35 || m.Offset >= 200 {
				t.Errorf("seed %d: moon %d offset %v, expected in [35, 200)", seed, i, m.Offset)
			}
			if h := m.System.Host; !h.IsCircle || h.Circle.R != 5 {
				t.Errorf("seed %d: moon %d host = %v, expected circle of radius 5", seed, i, m.System.Host)
			}
		}
	}

	if counts[0] == 0 || counts[tuning.MaxMoons] == 0 {
		t.Errorf("moon counts %v, expected both 0 and %d to occur", counts, tuning.MaxMoons)
	}
}

func TestPlanetUpdateAnchorsMoons(t *testing.T) {
	env := NewEnv(4, DefaultTuning())
	p := NewPlanet(core.NewCircle(50, 60, 20), core.White, env)
	p.Circle = p.Circle.At(core.NewVector(300, 400))
	p.Update(0.016, env)

	if got := p.System.Host.Pos(); got != core.NewVector(300, 400) {
		t.Errorf("glow host at %v, expected (300, 400)", got)
	}
	for i, m := range p.Moons {
		if got := m.System.Host.Pos(); got != core.NewVector(300, 400) {
			t.Errorf("moon %d host at %v, expected (300, 400)", i, got)
		}
	}
}

func TestStarBrightnessFloor(t *testing.T) {
	env := NewEnv(4, DefaultTuning())
	color := core.RGBA(0x10, 0xF0, 0x80, 255)
	s := NewStar(core.NewCircle(0, 0, 5), color, 0.2, 0, env)

	if starChannelFloor != 191 {
		t.Errorf("starChannelFloor = %d, expected 191", starChannelFloor)
	}
	expected := core.RGBA(starChannelFloor, 0xF0, starChannelFloor, 255)
	if s.Color != expected {
		t.Errorf("Color = %v, expected %v", s.Color, expected)
	}
	if s.System.Color != color {
		t.Errorf("particle color = %v, expected %v", s.System.Color, color)
	}
	if n := len(s.System.Particles); n < 20 || n >= 45 {
		t.Errorf("initial particles = %d, expected in [20, 45)", n)
	}
}

func TestStarSpin(t *testing.T) {
	env := NewEnv(4, DefaultTuning())
	s := NewStar(core.NewCircle(0, 0, 5), core.White, 0.5, 10, env)
	s.Update(2, env)
	if s.R != 11 {
		t.Errorf("R = %v, expected 11", s.R)
	}

	cv := &recordCanvas{}
	s.Draw(cv)
	if len(cv.sprites) != 1 || cv.sprites[0] != SpriteStar {
		t.Errorf("sprites = %v, expected [%s]", cv.sprites, SpriteStar)
	}
}

func TestFishPhases(t *testing.T) {
	env := NewEnv(8, DefaultTuning())
	f := NewFish(core.Vector{}, 0, core.White, env)

	f.SetNext(FishIdle, env)
	if f.SwimV != 0 || f.AnimTimer != 2.8 || f.AnimTime != 1.6 {
		t.Errorf("idle phase = %+v", f)
	}
	if f.SwimTime < fishIdleMinCycle || f.SwimTime >= fishIdleMaxCycle || f.SwimTimer != f.SwimTime {
		t.Errorf("idle SwimTime = %v / %v", f.SwimTime, f.SwimTimer)
	}

	f.SetNext(FishSwim, env)
	if f.SwimTime < fishSwimMinCycle || f.SwimTime >= fishSwimMaxCycle {
		t.Errorf("swim SwimTime = %v", f.SwimTime)
	}
	if f.R < 0 || f.R >= 2*math.Pi {
		t.Errorf("swim R = %v, expected in [0, 2pi)", f.R)
	}
	if f.SwimV != f.AnimTimer/8 {
		t.Errorf("swim SwimV = %v, expected %v", f.SwimV, f.AnimTimer/8)
	}
}

func TestFishBrakes(t *testing.T) {
	env := NewEnv(8, DefaultTuning())
	f := NewFish(core.Vector{}, 0, core.White, env)
	f.SetNext(FishSwim, env)
	f.SwimTime = fishBrakeWindow

	prev := f.SwimV
	for f.SwimTime > 0.02 {
		f.Update(0.01, env)
		if f.SwimV >= prev {
			t.Fatalf("SwimV = %v after %v, expected strictly decreasing", f.SwimV, prev)
		}
		prev = f.SwimV
	}
}

func TestFishStaysBounded(t *testing.T) {
	env := NewEnv(8, DefaultTuning())
	f := NewFish(core.NewVector(400, 300), 0, core.White, env)

	const dt, steps = 1.0 / 60, 600
	// Fastest swim is 2.0/8 scaled by fishSpeedScale.
	maxDist := float32(dt*steps) * (2.0 / 8) * fishSpeedScale

	transitions, prevTime := 0, f.SwimTime
	for i := 0; i < steps; i++ {
		f.Update(dt, env)
		if f.AnimTimer <= 0 || f.AnimTimer > 2.8 {
			t.Fatalf("step %d: AnimTimer = %v", i, f.AnimTimer)
		}
		if f.SwimV < 0 {
			t.Fatalf("step %d: SwimV = %v", i, f.SwimV)
		}
		if f.SwimTime > prevTime {
			transitions++
		}
		prevTime = f.SwimTime
		if transitions > 0 {
			idle := f.SwimTimer >= fishIdleMinCycle && f.SwimTimer < fishIdleMaxCycle
			swim := f.SwimTimer >= fishSwimMinCycle && f.SwimTimer < fishSwimMaxCycle
			if !idle && !swim {
				t.Fatalf("step %d: SwimTimer = %v, expected a phase length in [1.1, 2.4)", i, f.SwimTimer)
			}
		}
	}
	if transitions == 0 {
		t.Error("expected at least one phase transition")
	}
	if d := f.Pos.Sub(core.NewVector(400, 300)).Len(); d > maxDist {
		t.Errorf("fish travelled %v, expected at most %v", d, maxDist)
	}
}

func TestFishDraw(t *testing.T) {
	env := NewEnv(8, DefaultTuning())
	f := NewFish(core.NewVector(10, 10), 0, core.White, env)
	cv := &recordCanvas{}
	f.Draw(cv)

	expected := []string{SpriteFishBody, SpriteFishTail}
	if len(cv.sprites) != 2 || cv.sprites[0] != expected[0] || cv.sprites[1] != expected[1] {
		t.Errorf("sprites = %v, expected %v", cv.sprites, expected)
	}
}

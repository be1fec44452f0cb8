package sim

import (
	"encoding"
	"errors"
	"reflect"
	"testing"

	"github.com/vovakirdan/one-and-all/internal/core"
)

func sampleSave(t *testing.T) SaveData {
	t.Helper()
	env := NewEnv(7, DefaultTuning())
	planet := NewPlanet(core.NewCircle(100, 120, 20), core.RGBA(0x50, 0x90, 0xD0, 255), env)
	for len(planet.Moons) == 0 {
		planet = NewPlanet(core.NewCircle(100, 120, 20), core.RGBA(0x50, 0x90, 0xD0, 255), env)
	}
	planet.Update(0.5, env)
	star := NewStar(core.NewCircle(300, 40, 5), core.RGBA(0x60, 0xF0, 0xA0, 255), 0.2, 45, env)
	fish := NewFish(core.NewVector(-40, 220), 1.2, core.RGBA(0x99, 0x44, 0xEE, 255), env)
	joining := NewRotatingParticleSystem(0.075, 1, RectShape(core.NewRectangle(400, 300, 16, 16)),
		core.Vector{}, TintHope, 0.6, 1.5, 0.1, 250, 1)
	joining.Update(0.3, env)

	return SaveData{
		Planets: []Planet{planet},
		Stars:   []Star{star},
		Fishes:  []Fish{fish},
		Player:  core.NewRectangle(410, 290, 32, 32),
		Joining: joining,
	}
}

func TestShapeRoundTrip(t *testing.T) {
	tests := []struct {
		name  string
		shape Shape
	}{
		{"rect", RectShape(core.NewRectangle(1, 2, 3, 4))},
		{"circle", CircleShape(core.NewCircle(-5, 6.5, 7))},
		{"zero", Shape{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := appendShape(nil, tt.shape)
			if len(b) != shapeSize {
				t.Fatalf("len = %d, expected %d", len(b), shapeSize)
			}
			d := core.NewDecoder(b, 0)
			got := decodeShape(d)
			if err := d.Err(); err != nil {
				t.Fatalf("decodeShape() error: %v", err)
			}
			if !reflect.DeepEqual(got, tt.shape) {
				t.Errorf("decodeShape() = %#v, expected %#v", got, tt.shape)
			}
		})
	}
}

func TestShapeInactivePlaceholder(t *testing.T) {
	b := appendShape(nil, CircleShape(core.NewCircle(9, 9, 9)))
	rect, _, err := core.DecodeRectangle(b, 0)
	if err != nil {
		t.Fatal(err)
	}
	if rect != placeholderRect {
		t.Errorf("inactive rect = %v, expected %v", rect, placeholderRect)
	}
	if b[len(b)-1] != 0 {
		t.Errorf("is_rect = %d, expected 0", b[len(b)-1])
	}

	b = appendShape(nil, RectShape(core.NewRectangle(9, 9, 9, 9)))
	circle, _, err := core.DecodeCircle(b, core.RectangleSize)
	if err != nil {
		t.Fatal(err)
	}
	if circle != placeholderCircle {
		t.Errorf("inactive circle = %v, expected %v", circle, placeholderCircle)
	}
}

func TestEntityRoundTrip(t *testing.T) {
	s := sampleSave(t)

	t.Run("particle", func(t *testing.T) {
		p := s.Stars[0].System.Particles[0]
		b, _ := p.MarshalBinary()
		got, n, err := DecodeParticle(b, 0)
		if err != nil || n != len(b) {
			t.Fatalf("DecodeParticle() = _, %d, %v; expected %d, nil", n, err, len(b))
		}
		if !reflect.DeepEqual(got, p) {
			t.Errorf("DecodeParticle() = %+v, expected %+v", got, p)
		}
	})

	t.Run("particle system", func(t *testing.T) {
		ps := s.Stars[0].System
		b, _ := ps.MarshalBinary()
		got, n, err := DecodeParticleSystem(b, 0)
		if err != nil || n != len(b) {
			t.Fatalf("DecodeParticleSystem() = _, %d, %v; expected %d, nil", n, err, len(b))
		}
		if !reflect.DeepEqual(got, ps) {
			t.Errorf("DecodeParticleSystem() mismatch")
		}
	})

	t.Run("rotating particle system", func(t *testing.T) {
		b, _ := s.Joining.MarshalBinary()
		got, n, err := DecodeRotatingParticleSystem(b, 0)
		if err != nil || n != len(b) {
			t.Fatalf("DecodeRotatingParticleSystem() = _, %d, %v; expected %d, nil", n, err, len(b))
		}
		if !reflect.DeepEqual(got, s.Joining) {
			t.Errorf("DecodeRotatingParticleSystem() mismatch")
		}
	})

	t.Run("planet", func(t *testing.T) {
		b, _ := s.Planets[0].MarshalBinary()
		got, n, err := DecodePlanet(b, 0)
		if err != nil || n != len(b) {
			t.Fatalf("DecodePlanet() = _, %d, %v; expected %d, nil", n, err, len(b))
		}
		if !reflect.DeepEqual(got, s.Planets[0]) {
			t.Errorf("DecodePlanet() mismatch")
		}
	})

	t.Run("star", func(t *testing.T) {
		b, _ := s.Stars[0].MarshalBinary()
		got, n, err := DecodeStar(b, 0)
		if err != nil || n != len(b) {
			t.Fatalf("DecodeStar() = _, %d, %v; expected %d, nil", n, err, len(b))
		}
		if !reflect.DeepEqual(got, s.Stars[0]) {
			t.Errorf("DecodeStar() mismatch")
		}
	})

	t.Run("fish", func(t *testing.T) {
		b, _ := s.Fishes[0].MarshalBinary()
		got, n, err := DecodeFish(b, 0)
		if err != nil || n != len(b) {
			t.Fatalf("DecodeFish() = _, %d, %v; expected %d, nil", n, err, len(b))
		}
		if got != s.Fishes[0] {
			t.Errorf("DecodeFish() = %+v, expected %+v", got, s.Fishes[0])
		}
	})
}

func TestDecodeAtOffset(t *testing.T) {
	s := sampleSave(t)
	prefix := []byte{0xDE, 0xAD, 0xBE}
	b, _ := s.Planets[0].AppendBinary(append([]byte(nil), prefix...))

	got, n, err := DecodePlanet(b, len(prefix))
	if err != nil {
		t.Fatalf("DecodePlanet() error: %v", err)
	}
	if n != len(b)-len(prefix) {
		t.Errorf("consumed = %d, expected %d", n, len(b)-len(prefix))
	}
	if !reflect.DeepEqual(got, s.Planets[0]) {
		t.Errorf("DecodePlanet() at offset mismatch")
	}
}

func TestEntityTruncation(t *testing.T) {
	s := sampleSave(t)
	particle, _ := s.Stars[0].System.Particles[0].MarshalBinary()
	system, _ := s.Stars[0].System.MarshalBinary()
	rotating, _ := s.Joining.MarshalBinary()
	planet, _ := s.Planets[0].MarshalBinary()
	star, _ := s.Stars[0].MarshalBinary()
	fish, _ := s.Fishes[0].MarshalBinary()

	tests := []struct {
		name   string
		data   []byte
		decode func([]byte) error
	}{
		{"particle", particle, func(b []byte) error { _, _, err := DecodeParticle(b, 0); return err }},
		{"particle system", system, func(b []byte) error { _, _, err := DecodeParticleSystem(b, 0); return err }},
		{"rotating", rotating, func(b []byte) error { _, _, err := DecodeRotatingParticleSystem(b, 0); return err }},
		{"planet", planet, func(b []byte) error { _, _, err := DecodePlanet(b, 0); return err }},
		{"star", star, func(b []byte) error { _, _, err := DecodeStar(b, 0); return err }},
		{"fish", fish, func(b []byte) error { _, _, err := DecodeFish(b, 0); return err }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k := 0; k < len(tt.data); k++ {
				err := tt.decode(tt.data[:k])
				if !errors.Is(err, core.ErrInsufficientData) {
					t.Fatalf("decode of %d/%d bytes: err = %v, expected ErrInsufficientData", k, len(tt.data), err)
				}
			}
			if err := tt.decode(tt.data); err != nil {
				t.Errorf("decode of full buffer: %v", err)
			}
		})
	}
}

func TestFishEncodedSize(t *testing.T) {
	f := NewFish(core.Vector{}, 0, core.White, NewEnv(1, DefaultTuning()))
	b, _ := f.MarshalBinary()
	expected := core.VectorSize + 6*core.Float32Size + core.ColorSize + 2*core.RectangleSize
	if len(b) != expected {
		t.Errorf("len = %d, expected %d", len(b), expected)
	}
}

func zeroRoundTrip[T encoding.BinaryMarshaler](t *testing.T, decode func([]byte, int) (T, int, error)) {
	t.Helper()
	var zero T
	b, err := zero.MarshalBinary()
	if err != nil {
		t.Fatalf("MarshalBinary() error: %v", err)
	}
	got, n, err := decode(b, 0)
	if err != nil || n != len(b) {
		t.Fatalf("decode = _, %d, %v; expected %d, nil", n, err, len(b))
	}
	if !reflect.DeepEqual(got, zero) {
		t.Errorf("decode = %+v, expected zero value", got)
	}
}

func TestZeroValueRoundTrip(t *testing.T) {
	t.Run("particle", func(t *testing.T) { zeroRoundTrip(t, DecodeParticle) })
	t.Run("particle system", func(t *testing.T) { zeroRoundTrip(t, DecodeParticleSystem) })
	t.Run("rotating particle system", func(t *testing.T) { zeroRoundTrip(t, DecodeRotatingParticleSystem) })
	t.Run("planet", func(t *testing.T) { zeroRoundTrip(t, DecodePlanet) })
	t.Run("star", func(t *testing.T) { zeroRoundTrip(t, DecodeStar) })
	t.Run("fish", func(t *testing.T) { zeroRoundTrip(t, DecodeFish) })
	t.Run("save", func(t *testing.T) { zeroRoundTrip(t, DecodeSaveData) })
}

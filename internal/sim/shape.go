package sim

import (
	"github.com/vovakirdan/one-and-all/internal/core"
)

// Shape is the geometry of a particle or particle-system host: a rectangle,
// or a circle when IsCircle is set. The zero Shape is an empty rectangle at
// the origin. Only the active half moves; the other half is carried as is so
// that a decoded shape equals the one that was encoded.
type Shape struct {
	Rect     core.Rectangle
	Circle   core.Circle
	IsCircle bool
}

// Geometry written for the inactive half of a shape on disk.
var (
	placeholderRect   = core.NewRectangle(0, 0, 1, 1)
	placeholderCircle = core.NewCircle(0, 0, 1)
)

// RectShape returns a rectangular shape.
func RectShape(r core.Rectangle) Shape {
	return Shape{Rect: r, Circle: placeholderCircle}
}

// CircleShape returns a circular shape.
func CircleShape(c core.Circle) Shape {
	return Shape{Rect: placeholderRect, Circle: c, IsCircle: true}
}

// Pos returns the top-left corner of a rectangle or the centre of a circle.
func (s Shape) Pos() core.Vector {
	if s.IsCircle {
		return s.Circle.Pos()
	}
	return s.Rect.Pos()
}

// Translate moves the shape by v.
func (s Shape) Translate(v core.Vector) Shape {
	if s.IsCircle {
		s.Circle = s.Circle.Translate(v)
	} else {
		s.Rect = s.Rect.Translate(v)
	}
	return s
}

// At places the shape at p.
func (s Shape) At(p core.Vector) Shape {
	if s.IsCircle {
		s.Circle = s.Circle.At(p)
	} else {
		s.Rect = s.Rect.At(p)
	}
	return s
}

// shapeSize is rect + circle + is_rect.
const shapeSize = core.RectangleSize + core.CircleSize + core.BoolSize

// appendShape writes s in the legacy layout: rect, circle, is_rect.
func appendShape(b []byte, s Shape) []byte {
	b, _ = s.Rect.AppendBinary(b)
	b, _ = s.Circle.AppendBinary(b)
	return core.AppendBool(b, !s.IsCircle)
}

// decodeShape reads a shape written by appendShape.
func decodeShape(d *core.Decoder) Shape {
	var s Shape
	s.Rect = core.Decode(d, core.DecodeRectangle)
	s.Circle = core.Decode(d, core.DecodeCircle)
	s.IsCircle = !d.Bool()
	return s
}

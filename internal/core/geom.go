// Package core provides fundamental types and utilities for the simulation.
// It contains no external dependencies (especially no Bubble Tea) to keep the
// world logic pure and testable.
package core

import "math"

// Vector is a 2D point or displacement in world units.
type Vector struct {
	X, Y float32
}

// NewVector creates a vector from its components.
func NewVector(x, y float32) Vector {
	return Vector{X: x, Y: y}
}

// Add returns v + o.
func (v Vector) Add(o Vector) Vector {
	return Vector{X: v.X + o.X, Y: v.Y + o.Y}
}

// Sub returns v - o.
func (v Vector) Sub(o Vector) Vector {
	return Vector{X: v.X - o.X, Y: v.Y - o.Y}
}

// Scale returns v multiplied by s.
func (v Vector) Scale(s float32) Vector {
	return Vector{X: v.X * s, Y: v.Y * s}
}

// Len returns the euclidean length of v.
func (v Vector) Len() float32 {
	return float32(math.Hypot(float64(v.X), float64(v.Y)))
}

// Rectangle is an axis-aligned box. W and H are expected to be non-negative.
type Rectangle struct {
	X, Y, W, H float32
}

// NewRectangle creates a rectangle with the given position and dimensions.
func NewRectangle(x, y, w, h float32) Rectangle {
	return Rectangle{X: x, Y: y, W: w, H: h}
}

// Pos returns the top-left corner.
func (r Rectangle) Pos() Vector {
	return Vector{X: r.X, Y: r.Y}
}

// At returns a copy of r moved so its top-left corner is p.
func (r Rectangle) At(p Vector) Rectangle {
	r.X, r.Y = p.X, p.Y
	return r
}

// Translate returns a copy of r offset by v.
func (r Rectangle) Translate(v Vector) Rectangle {
	r.X += v.X
	r.Y += v.Y
	return r
}

// Center returns the center point of the rectangle.
func (r Rectangle) Center() Vector {
	return Vector{X: r.X + r.W/2, Y: r.Y + r.H/2}
}

// Contains returns true if the point (x, y) is inside this rectangle.
func (r Rectangle) Contains(x, y float32) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

// Circle is a disc centred at (X, Y). R is expected to be non-negative.
type Circle struct {
	X, Y, R float32
}

// NewCircle creates a circle.
func NewCircle(x, y, r float32) Circle {
	return Circle{X: x, Y: y, R: r}
}

// Pos returns the centre.
func (c Circle) Pos() Vector {
	return Vector{X: c.X, Y: c.Y}
}

// At returns a copy of c centred at p.
func (c Circle) At(p Vector) Circle {
	c.X, c.Y = p.X, p.Y
	return c
}

// Translate returns a copy of c offset by v.
func (c Circle) Translate(v Vector) Circle {
	c.X += v.X
	c.Y += v.Y
	return c
}

// Transform is a row-major 3x3 affine matrix.
type Transform struct {
	Mat [9]float32
}

// Identity is the multiplicative identity transform.
var Identity = Transform{Mat: [9]float32{1, 0, 0, 0, 1, 0, 0, 0, 1}}

// Rotate returns a rotation by rad radians.
func Rotate(rad float32) Transform {
	s, c := math.Sincos(float64(rad))
	sin, cos := float32(s), float32(c)
	return Transform{Mat: [9]float32{cos, -sin, 0, sin, cos, 0, 0, 0, 1}}
}

// Translation returns a translation by (x, y).
func Translation(x, y float32) Transform {
	return Transform{Mat: [9]float32{1, 0, x, 0, 1, y, 0, 0, 1}}
}

// Mul returns t * o.
func (t Transform) Mul(o Transform) Transform {
	var out Transform
	for row := 0; row < 3; row++ {
		for col := 0; col < 3; col++ {
			var sum float32
			for k := 0; k < 3; k++ {
				sum += t.Mat[row*3+k] * o.Mat[k*3+col]
			}
			out.Mat[row*3+col] = sum
		}
	}
	return out
}

// Apply transforms the point v.
func (t Transform) Apply(v Vector) Vector {
	return Vector{
		X: v.X*t.Mat[0] + v.Y*t.Mat[1] + t.Mat[2],
		Y: v.X*t.Mat[3] + v.Y*t.Mat[4] + t.Mat[5],
	}
}

// ClampF32 restricts a float32 value to be within [min, max].
func ClampF32(val, min, max float32) float32 {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}

// Clamp restricts a value to be within [min, max].
func Clamp(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}

// Min returns the smaller of two integers.
func Min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// Max returns the larger of two integers.
func Max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

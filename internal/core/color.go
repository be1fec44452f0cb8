package core

import "fmt"

// Color is an 8-bit per channel RGBA color.
type Color struct {
	R, G, B, A uint8
}

// Predefined colors.
var (
	White = Color{R: 255, G: 255, B: 255, A: 255}
	Black = Color{R: 0, G: 0, B: 0, A: 255}
	Green = Color{R: 0, G: 255, B: 0, A: 255}
)

// RGBA creates a color from its channels.
func RGBA(r, g, b, a uint8) Color {
	return Color{R: r, G: g, B: b, A: a}
}

// Hex creates an opaque color from a 0xRRGGBB value.
func Hex(rgb uint32) Color {
	return Color{R: uint8(rgb >> 16), G: uint8(rgb >> 8), B: uint8(rgb), A: 255}
}

// WithAlpha returns a copy of c with its alpha channel replaced.
func (c Color) WithAlpha(a uint8) Color {
	c.A = a
	return c
}

// Premultiplied returns c blended over black by its own alpha, with A = 255.
func (c Color) Premultiplied() Color {
	scale := func(v uint8) uint8 {
		return uint8(uint16(v) * uint16(c.A) / 255)
	}
	return Color{R: scale(c.R), G: scale(c.G), B: scale(c.B), A: 255}
}

// HexString formats c as "#rrggbb", ignoring alpha.
func (c Color) HexString() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

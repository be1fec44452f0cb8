package sim

import "github.com/vovakirdan/one-and-all/internal/core"

// Sprite names understood by canvases.
const (
	SpriteStar     = "star"
	SpriteFishBody = "fish_body"
	SpriteFishTail = "fish_tail"
)

// Canvas is the drawing capability entities render through. Coordinates are
// world units; the canvas applies its own camera.
type Canvas interface {
	// FillRect draws r rotated by rotation radians around origin.
	FillRect(r core.Rectangle, c core.Color, rotation float32, origin core.Vector)
	FillCircle(circle core.Circle, c core.Color)
	// DrawSprite draws the named sprite stretched over dst, rotated around
	// the centre of dst.
	DrawSprite(name string, dst core.Rectangle, c core.Color, rotation float32)
	DrawText(x, y float32, text string, c core.Color)
}

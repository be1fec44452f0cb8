package tui

import (
	"math"

	"github.com/vovakirdan/one-and-all/internal/core"
	"github.com/vovakirdan/one-and-all/internal/sim"
)

// Size of one terminal cell in world units. Cells are roughly twice as tall
// as they are wide, so this keeps circles round.
const (
	CellW = 8
	CellH = 16
)

const (
	runeFill      = '█'
	runeDot       = '•'
	runeSmallRect = '▪'
	runeStar      = '✦'
	runeFishTail  = '~'
)

// fishArrows are indexed by heading in eighths of a turn from +x. With y
// pointing down that runs clockwise on screen.
var fishArrows = []rune{'→', '↘', '↓', '↙', '←', '↖', '↑', '↗'}

// Canvas rasterises world-space drawing onto a Screen through a camera.
// Every primitive blends its color over what is already in the cell, with
// an empty cell counting as black.
type Canvas struct {
	screen *core.Screen
	camera core.Vector
}

// NewCanvas returns a canvas drawing onto s.
func NewCanvas(s *core.Screen) *Canvas {
	return &Canvas{screen: s}
}

// SetCamera sets the world position of the top-left corner of the screen.
func (c *Canvas) SetCamera(v core.Vector) { c.camera = v }

// Screen returns the target screen.
func (c *Canvas) Screen() *core.Screen { return c.screen }

// ToCell converts a world position to screen cell coordinates.
func (c *Canvas) ToCell(p core.Vector) (int, int) {
	return int(math.Floor(float64((p.X - c.camera.X) / CellW))),
		int(math.Floor(float64((p.Y - c.camera.Y) / CellH)))
}

// ToWorld returns the world position of the centre of cell (x, y).
func (c *Canvas) ToWorld(x, y int) core.Vector {
	return core.NewVector(
		c.camera.X+(float32(x)+0.5)*CellW,
		c.camera.Y+(float32(y)+0.5)*CellH,
	)
}

func (c *Canvas) inBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < c.screen.Width() && y < c.screen.Height()
}

// plot blends col over cell (x, y) and sets its rune.
func (c *Canvas) plot(x, y int, r rune, col core.Color) {
	if !c.inBounds(x, y) {
		return
	}
	dst := c.screen.GetCell(x, y).Color
	c.screen.SetCell(x, y, r, blend(dst, col))
}

// cellRange returns the on-screen cells covering the world-space box [lo, hi].
func (c *Canvas) cellRange(lo, hi core.Vector) (x0, y0, x1, y1 int) {
	x0, y0 = c.ToCell(lo)
	x1, y1 = c.ToCell(hi)
	x0 = core.Max(x0, 0)
	y0 = core.Max(y0, 0)
	x1 = core.Min(x1, c.screen.Width()-1)
	y1 = core.Min(y1, c.screen.Height()-1)
	return x0, y0, x1, y1
}

// FillRect fills every cell whose centre lies inside r rotated by rotation
// radians around origin. A rectangle smaller than a cell marks the cell
// holding its centre.
func (c *Canvas) FillRect(r core.Rectangle, col core.Color, rotation float32, origin core.Vector) {
	if col.A == 0 {
		return
	}
	fwd := core.Translation(origin.X, origin.Y).
		Mul(core.Rotate(rotation)).
		Mul(core.Translation(-origin.X, -origin.Y))
	inv := core.Translation(origin.X, origin.Y).
		Mul(core.Rotate(-rotation)).
		Mul(core.Translation(-origin.X, -origin.Y))

	corners := [4]core.Vector{
		fwd.Apply(core.NewVector(r.X, r.Y)),
		fwd.Apply(core.NewVector(r.X+r.W, r.Y)),
		fwd.Apply(core.NewVector(r.X, r.Y+r.H)),
		fwd.Apply(core.NewVector(r.X+r.W, r.Y+r.H)),
	}
	lo, hi := corners[0], corners[0]
	for _, p := range corners[1:] {
		lo.X, lo.Y = min(lo.X, p.X), min(lo.Y, p.Y)
		hi.X, hi.Y = max(hi.X, p.X), max(hi.Y, p.Y)
	}

	hit := false
	x0, y0, x1, y1 := c.cellRange(lo, hi)
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			q := inv.Apply(c.ToWorld(x, y))
			if r.Contains(q.X, q.Y) {
				c.plot(x, y, runeFill, col)
				hit = true
			}
		}
	}
	if !hit {
		x, y := c.ToCell(fwd.Apply(r.Center()))
		c.plot(x, y, runeSmallRect, col)
	}
}

// FillCircle fills every cell whose centre lies inside circle. A circle
// smaller than a cell marks the cell holding its centre.
func (c *Canvas) FillCircle(circle core.Circle, col core.Color) {
	if col.A == 0 {
		return
	}
	center := circle.Pos()
	rad := core.NewVector(circle.R, circle.R)

	hit := false
	x0, y0, x1, y1 := c.cellRange(center.Sub(rad), center.Add(rad))
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			if c.ToWorld(x, y).Sub(center).Len() <= circle.R {
				c.plot(x, y, runeFill, col)
				hit = true
			}
		}
	}
	if !hit {
		x, y := c.ToCell(center)
		c.plot(x, y, runeDot, col)
	}
}

// DrawSprite draws a single glyph for the named sprite at the centre of dst.
func (c *Canvas) DrawSprite(name string, dst core.Rectangle, col core.Color, rotation float32) {
	if col.A == 0 {
		return
	}
	r := runeStar
	switch name {
	case sim.SpriteFishBody:
		r = fishGlyph(rotation)
	case sim.SpriteFishTail:
		r = runeFishTail
	}
	x, y := c.ToCell(dst.Center())
	c.plot(x, y, r, col)
}

// fishGlyph picks the arrow facing the way a fish with body angle rotation
// swims. Fish move against their rotation vector.
func fishGlyph(rotation float32) rune {
	heading := float64(rotation) + math.Pi
	turns := math.Mod(heading/(2*math.Pi), 1)
	if turns < 0 {
		turns++
	}
	return fishArrows[int(math.Round(turns*8))%8]
}

// DrawText writes text starting at the cell holding (x, y).
func (c *Canvas) DrawText(x, y float32, text string, col core.Color) {
	if col.A == 0 {
		return
	}
	cx, cy := c.ToCell(core.NewVector(x, y))
	for _, r := range text {
		c.plot(cx, cy, r, col)
		cx++
	}
}

// blend composites src over dst. A zero dst is black.
func blend(dst, src core.Color) core.Color {
	if src.A == 255 {
		return src
	}
	a := uint32(src.A)
	mix := func(d, s uint8) uint8 {
		return uint8((uint32(d)*(255-a) + uint32(s)*a) / 255)
	}
	return core.RGBA(mix(dst.R, src.R), mix(dst.G, src.G), mix(dst.B, src.B), 255)
}

var _ sim.Canvas = (*Canvas)(nil)

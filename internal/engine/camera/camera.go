// Package camera maps scene positions to screen pixels for the top-down
// map view.
package camera

import "github.com/go-gl/mathgl/mgl32"

// TopDown looks straight down the -Y axis. Screen x grows with scene +X
// (east) and screen y grows with scene -Z (south).
type TopDown struct {
	// Scene point shown at the viewport center
	CenterX, CenterZ float32

	PixelsPerUnit float32
	Width, Height int

	MinPixelsPerUnit float32
	MaxPixelsPerUnit float32
}

// NewTopDown creates a camera centred on the scene origin.
func NewTopDown(width, height int, pixelsPerUnit float32) *TopDown {
	return &TopDown{
		PixelsPerUnit:    pixelsPerUnit,
		Width:            width,
		Height:           height,
		MinPixelsPerUnit: 10,
		MaxPixelsPerUnit: 2000,
	}
}

// ToScreen returns the pixel position of a scene position.
func (c *TopDown) ToScreen(p mgl32.Vec3) (x, y float32) {
	x = float32(c.Width)/2 + (p.X()-c.CenterX)*c.PixelsPerUnit
	y = float32(c.Height)/2 - (p.Z()-c.CenterZ)*c.PixelsPerUnit
	return x, y
}

// ToScene returns the scene position under a pixel, on the ground plane.
func (c *TopDown) ToScene(x, y float32) mgl32.Vec3 {
	return mgl32.Vec3{
		c.CenterX + (x-float32(c.Width)/2)/c.PixelsPerUnit,
		0,
		c.CenterZ - (y-float32(c.Height)/2)/c.PixelsPerUnit,
	}
}

// Resize updates the viewport size.
func (c *TopDown) Resize(width, height int) {
	c.Width = width
	c.Height = height
}

// HandleScroll zooms the view by a wheel delta, clamped to the limits.
func (c *TopDown) HandleScroll(delta float32) {
	c.PixelsPerUnit *= 1 + delta*0.1
	c.PixelsPerUnit = mgl32.Clamp(c.PixelsPerUnit, c.MinPixelsPerUnit, c.MaxPixelsPerUnit)
}

// Visible reports whether a scene-space square of half-size r around p
// overlaps the viewport.
func (c *TopDown) Visible(p mgl32.Vec3, r float32) bool {
	x, y := c.ToScreen(p)
	pr := r * c.PixelsPerUnit
	return x+pr >= 0 && x-pr <= float32(c.Width) && y+pr >= 0 && y-pr <= float32(c.Height)
}

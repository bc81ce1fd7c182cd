// Package renderer draws the top-down map overlay with the SDL2 renderer.
package renderer

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/geoar/internal/engine/camera"
	"github.com/Faultbox/geoar/internal/engine/debug"
	"github.com/Faultbox/geoar/internal/logger"
)

// Config holds renderer configuration.
type Config struct {
	Width         int
	Height        int
	PixelsPerUnit float32
}

// Renderer draws scene-space overlay geometry through a top-down camera.
type Renderer struct {
	config Config
	sdl    *sdl.Renderer
	Camera *camera.TopDown

	background debug.Color
	errors     int
}

// New creates a renderer on an SDL renderer owned by the window.
func New(r *sdl.Renderer, cfg Config) *Renderer {
	return &Renderer{
		config:     cfg,
		sdl:        r,
		Camera:     camera.NewTopDown(cfg.Width, cfg.Height, cfg.PixelsPerUnit),
		background: debug.Color{R: 26, G: 26, B: 38, A: 255},
	}
}

// Resize updates the viewport.
func (r *Renderer) Resize(width, height int) {
	r.config.Width = width
	r.config.Height = height
	r.Camera.Resize(width, height)
	logger.Log.Debug("viewport resized", zap.Int("width", width), zap.Int("height", height))
}

// Begin clears the frame.
func (r *Renderer) Begin() {
	r.setColor(r.background)
	r.check(r.sdl.Clear())
}

// Quads draws ground-plane squares.
func (r *Renderer) Quads(quads []debug.Quad) {
	for _, q := range quads {
		if !r.Camera.Visible(q.Center, q.Half) {
			continue
		}
		x, y := r.Camera.ToScreen(q.Center)
		h := q.Half * r.Camera.PixelsPerUnit
		rect := sdl.FRect{X: x - h, Y: y - h, W: 2 * h, H: 2 * h}
		r.setColor(q.Color)
		if q.Filled {
			r.check(r.sdl.FillRectF(&rect))
		} else {
			r.check(r.sdl.DrawRectF(&rect))
		}
	}
}

// Lines draws scene-space segments.
func (r *Renderer) Lines(lines []debug.Line) {
	for _, l := range lines {
		x1, y1 := r.Camera.ToScreen(l.From)
		x2, y2 := r.Camera.ToScreen(l.To)
		r.setColor(l.Color)
		r.check(r.sdl.DrawLineF(x1, y1, x2, y2))
	}
}

// Points draws small handles at scene positions.
func (r *Renderer) Points(points []mgl32.Vec3, c debug.Color) {
	r.setColor(c)
	for _, p := range points {
		x, y := r.Camera.ToScreen(p)
		r.check(r.sdl.FillRectF(&sdl.FRect{X: x - 3, Y: y - 3, W: 6, H: 6}))
	}
}

// End finishes the frame. The window presents it.
func (r *Renderer) End() {
	if r.errors > 0 {
		logger.Log.Warn("draw calls failed", zap.Int("count", r.errors))
		r.errors = 0
	}
}

func (r *Renderer) setColor(c debug.Color) {
	r.check(r.sdl.SetDrawColor(c.R, c.G, c.B, c.A))
}

func (r *Renderer) check(err error) {
	if err != nil {
		r.errors++
	}
}

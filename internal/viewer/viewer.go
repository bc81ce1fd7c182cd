// Package viewer implements the interactive map viewer frame loop.
package viewer

import (
	"fmt"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/geoar/internal/config"
	"github.com/Faultbox/geoar/internal/engine/debug"
	"github.com/Faultbox/geoar/internal/engine/input"
	"github.com/Faultbox/geoar/internal/engine/renderer"
	"github.com/Faultbox/geoar/internal/engine/window"
	"github.com/Faultbox/geoar/internal/mapview"
	"github.com/Faultbox/geoar/internal/tiles"
)

// Viewer is the interactive map viewer.
type Viewer struct {
	cfg      *config.Config
	log      *zap.Logger
	running  bool
	window   *window.Window
	renderer *renderer.Renderer
	input    *input.Input
	bindings input.Bindings

	m       *mapview.Map
	outline []mgl32.Vec3 // points of the polygon being drawn
}

// New opens the window and starts the map.
func New(cfg *config.Config, m *mapview.Map, log *zap.Logger) (*Viewer, error) {
	log.Info("initializing viewer",
		zap.Int("width", cfg.Graphics.Width),
		zap.Int("height", cfg.Graphics.Height),
	)

	v := &Viewer{
		cfg:      cfg,
		log:      log,
		m:        m,
		bindings: input.DefaultBindings(),
	}

	var err error
	v.window, err = window.New(window.Config{
		Title:  "GeoAR Map Viewer",
		Width:  cfg.Graphics.Width,
		Height: cfg.Graphics.Height,
		VSync:  cfg.Graphics.VSync,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	v.renderer = renderer.New(v.window.Renderer(), renderer.Config{
		Width:         cfg.Graphics.Width,
		Height:        cfg.Graphics.Height,
		PixelsPerUnit: float32(cfg.Graphics.PixelsPerUnit),
	})
	v.input = input.New()

	if err := m.Startup(); err != nil {
		v.window.Close()
		return nil, fmt.Errorf("map startup: %w", err)
	}

	log.Info("viewer initialized")
	return v, nil
}

// Run starts the frame loop and blocks until the window is closed.
func (v *Viewer) Run() error {
	v.running = true

	lastTime := time.Now()
	frameCount := 0
	fpsTimer := time.Now()
	var frameDelay time.Duration
	if v.cfg.Graphics.FPSLimit > 0 {
		frameDelay = time.Second / time.Duration(v.cfg.Graphics.FPSLimit)
	}

	v.log.Info("starting frame loop")

	for v.running {
		now := time.Now()
		dt := now.Sub(lastTime).Seconds()
		lastTime = now

		// 1. Input
		if v.input.Update() {
			v.running = false
			break
		}
		for _, e := range v.input.Events() {
			switch e.Type {
			case input.EventWindowResize:
				v.renderer.Resize(e.Width, e.Height)
			case input.EventMouseWheel:
				v.renderer.Camera.HandleScroll(float32(e.Wheel))
			}
		}
		for _, cmd := range v.input.Commands(v.bindings) {
			v.handle(cmd)
		}

		// 2. One tick of streaming and placement
		v.m.Tick()

		// 3. Render
		v.render()
		v.window.Present()

		frameCount++
		if time.Since(fpsTimer) >= time.Second {
			st := v.m.Stats()
			v.log.Debug("fps",
				zap.Int("count", frameCount),
				zap.String("dt", fmt.Sprintf("%.2fms", dt*1000)),
				zap.Int("tiles", st.Tiles),
				zap.Int("queued", st.Queued),
			)
			v.window.SetTitle(fmt.Sprintf("GeoAR Map Viewer  z%d %s  tiles %d", st.Zoom, st.Center, st.Tiles))
			frameCount = 0
			fpsTimer = time.Now()
		}

		if frameDelay > 0 {
			if spent := time.Since(now); spent < frameDelay {
				time.Sleep(frameDelay - spent)
			}
		}
	}

	return nil
}

// Close releases the window.
func (v *Viewer) Close() {
	v.log.Info("closing viewer")
	if v.window != nil {
		v.window.Close()
	}
}

// handle applies one input command to the map.
func (v *Viewer) handle(cmd input.Command) {
	switch cmd.Action {
	case input.ActionQuit:
		v.running = false
	case input.ActionPanNorth:
		v.m.Pan(tiles.North)
	case input.ActionPanSouth:
		v.m.Pan(tiles.South)
	case input.ActionPanEast:
		v.m.Pan(tiles.East)
	case input.ActionPanWest:
		v.m.Pan(tiles.West)
	case input.ActionZoomIn:
		if !v.m.ChangeZoom(tiles.ZoomIn) {
			v.log.Info("zoom limit reached", zap.Int("zoom", v.m.Stats().Zoom))
		}
	case input.ActionZoomOut:
		if !v.m.ChangeZoom(tiles.ZoomOut) {
			v.log.Info("zoom limit reached", zap.Int("zoom", v.m.Stats().Zoom))
		}
	case input.ActionDropPin:
		if name, err := v.m.DropPin("dropped"); err != nil {
			v.log.Warn("drop pin failed", zap.Error(err))
		} else {
			v.log.Info("pin dropped", zap.String("name", name))
		}
	case input.ActionAddPoint:
		p := v.renderer.Camera.ToScene(float32(cmd.X), float32(cmd.Y))
		v.outline = append(v.outline, p)
	case input.ActionBuildPolygon:
		if _, err := v.m.BuildPolygon(v.outline, v.m.DefaultHeights(), "default"); err != nil {
			v.log.Warn("polygon rejected", zap.Int("points", len(v.outline)), zap.Error(err))
			return
		}
		v.outline = nil
	case input.ActionClearOutline:
		v.outline = nil
	}
}

// render draws tiles, markers, meshes and the outline being drawn.
func (v *Viewer) render() {
	s := v.m.Streamer()
	tileSize := float32(v.cfg.Map.TileWorldSize)

	v.renderer.Begin()
	v.renderer.Quads(debug.TileQuads(s.Tiles(), tiles.Offset{}, tileSize))
	v.renderer.Lines(debug.MeshOverlay(v.m.Graph()))
	v.renderer.Quads(debug.MarkerQuads(v.m.Graph(), tileSize/40))
	v.renderer.Lines(debug.PolylineLines(v.outline, false, debug.ColorOutline))
	v.renderer.Points(v.outline, debug.ColorOutline)
	v.renderer.End()
}

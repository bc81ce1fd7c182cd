package camera

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestToScreen(t *testing.T) {
	c := NewTopDown(800, 600, 100)

	tests := []struct {
		name string
		p    mgl32.Vec3
		x, y float32
	}{
		{"origin at center", mgl32.Vec3{0, 0, 0}, 400, 300},
		{"east is right", mgl32.Vec3{1, 0, 0}, 500, 300},
		{"north is up", mgl32.Vec3{0, 0, 1}, 400, 200},
		{"height ignored", mgl32.Vec3{0, 5, 0}, 400, 300},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x, y := c.ToScreen(tt.p)
			if x != tt.x || y != tt.y {
				t.Errorf("ToScreen(%v) = (%v, %v), want (%v, %v)", tt.p, x, y, tt.x, tt.y)
			}
		})
	}
}

func TestToSceneInvertsToScreen(t *testing.T) {
	c := NewTopDown(1280, 720, 160)
	c.CenterX, c.CenterZ = 0.25, -1.5

	p := mgl32.Vec3{0.75, 0, -1.25}
	x, y := c.ToScreen(p)
	if got := c.ToScene(x, y); !got.ApproxEqual(p) {
		t.Errorf("ToScene(ToScreen(%v)) = %v", p, got)
	}
}

func TestHandleScrollClamps(t *testing.T) {
	c := NewTopDown(800, 600, 100)
	c.HandleScroll(1)
	if d := c.PixelsPerUnit - 110; d > 1e-3 || d < -1e-3 {
		t.Errorf("PixelsPerUnit = %v, want 110", c.PixelsPerUnit)
	}
	for i := 0; i < 100; i++ {
		c.HandleScroll(5)
	}
	if c.PixelsPerUnit != c.MaxPixelsPerUnit {
		t.Errorf("PixelsPerUnit = %v, want clamp at %v", c.PixelsPerUnit, c.MaxPixelsPerUnit)
	}
}

func TestVisible(t *testing.T) {
	c := NewTopDown(800, 600, 100)
	if !c.Visible(mgl32.Vec3{0, 0, 0}, 0.5) {
		t.Error("origin not visible")
	}
	if c.Visible(mgl32.Vec3{10, 0, 0}, 0.5) {
		t.Error("far tile visible")
	}
	if !c.Visible(mgl32.Vec3{4.2, 0, 0}, 0.5) {
		t.Error("tile overlapping the right edge not visible")
	}
}

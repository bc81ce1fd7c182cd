package geo

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Projector converts between geographic coordinates and local scene
// positions around a movable reference point.
//
// Local axes: +X east, +Y up, +Z north. Heading rotates the map about +Y.
type Projector struct {
	proj Projection

	// Reference point in Mercator meters.
	cx, cy float64

	scale   float64 // scene units per Mercator meter
	heading float64
	sin     float64
	cos     float64
}

// NewProjector creates a projector centred on (lat, lon).
func NewProjector(proj Projection, lat, lon, scale float64) *Projector {
	p := &Projector{proj: proj, scale: 1, cos: 1}
	p.SetCenter(lat, lon)
	p.SetScale(scale)
	return p
}

// Projection returns the underlying projection.
func (p *Projector) Projection() Projection {
	return p.proj
}

// SetCenter moves the reference point.
func (p *Projector) SetCenter(lat, lon float64) {
	p.cx, p.cy = p.proj.ToMeters(lat, lon)
}

// Center returns the reference point as (lat, lon).
func (p *Projector) Center() (float64, float64) {
	return p.proj.FromMeters(p.cx, p.cy)
}

// Shift moves the reference point by a Mercator-meter delta.
func (p *Projector) Shift(dx, dy float64) {
	p.cx += dx
	p.cy += dy
}

// SetScale sets the number of scene units per Mercator meter.
// Non-positive values are ignored.
func (p *Projector) SetScale(scale float64) {
	if scale > 0 {
		p.scale = scale
	}
}

// Scale returns the current scene units per Mercator meter.
func (p *Projector) Scale() float64 {
	return p.scale
}

// SetHeading sets the map rotation in radians.
func (p *Projector) SetHeading(rad float64) {
	p.heading = rad
	p.sin, p.cos = math.Sincos(rad)
}

// Heading returns the map rotation in radians.
func (p *Projector) Heading() float64 {
	return p.heading
}

// ToLocalPosition returns the scene position of (lat, lon) at ground level.
func (p *Projector) ToLocalPosition(lat, lon float64) mgl32.Vec3 {
	mx, my := p.proj.ToMeters(lat, lon)
	dx := (mx - p.cx) * p.scale
	dz := (my - p.cy) * p.scale
	return mgl32.Vec3{
		float32(dx*p.cos - dz*p.sin),
		0,
		float32(dx*p.sin + dz*p.cos),
	}
}

// ToGeoCoordinate is the inverse of ToLocalPosition. The Y component is ignored.
func (p *Projector) ToGeoCoordinate(pos mgl32.Vec3) (lat, lon float64) {
	x, z := float64(pos[0]), float64(pos[2])
	dx := x*p.cos + z*p.sin
	dz := -x*p.sin + z*p.cos
	return p.proj.FromMeters(dx/p.scale+p.cx, dz/p.scale+p.cy)
}

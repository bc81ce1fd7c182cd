package polygon

import (
	"cmp"
	"math"
	"slices"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/paulmach/orb"
)

// Builder extrudes outlines into closed volumes.
type Builder struct {
	BaseHeight float32 // y of the bottom cap
	WallHeight float32 // top cap offset above the base
	Tolerance  float64 // planar matching grid size, DefaultTolerance if zero
}

// Build triangulates the planar (x, z) projection of points, snaps it to
// BaseHeight and extrudes it by WallHeight.
//
// Points that round to the same Tolerance grid cell are merged, so a closing
// point equal to the first one is ignored. Outlines with fewer than three distinct points or no
// area, and self-intersecting outlines, are rejected.
func (b Builder) Build(points []mgl32.Vec3) (*Mesh, error) {
	if len(points) < 3 {
		return nil, ErrTooFewPoints
	}
	tol := b.Tolerance
	if tol <= 0 {
		tol = DefaultTolerance
	}

	outline := dedupe(points, tol)
	tri, err := triangulate(outline, tol)
	if err != nil {
		return nil, err
	}

	// Triangulated vertices are stored sorted by planar position; the
	// neighbor map recovers the outline order.
	sorted := slices.Clone(outline)
	slices.SortFunc(sorted, func(p, q orb.Point) int {
		if c := cmp.Compare(p[0], q[0]); c != 0 {
			return c
		}
		return cmp.Compare(p[1], q[1])
	})
	slot := make(map[[2]int64]int, len(sorted))
	for i, p := range sorted {
		slot[quantize(p, tol)] = i
	}
	remap := make([]int, len(outline))
	for i, p := range outline {
		remap[i] = slot[quantize(p, tol)]
	}

	ring := append(orb.Ring(slices.Clone(outline)), outline[0])
	half := len(sorted)
	m := &Mesh{
		Vertices:  make([]Vertex, 2*half),
		Neighbors: make([]int, half),
		Half:      half,
		Clockwise: ring.Orientation() == orb.CW,
		first:     remap[0],
	}
	for i, p := range sorted {
		m.Vertices[i].Position = mgl32.Vec3{float32(p[0]), b.BaseHeight, float32(p[1])}
		m.Vertices[i+half].Position = mgl32.Vec3{float32(p[0]), b.BaseHeight + b.WallHeight, float32(p[1])}
	}
	for i := range outline {
		m.Neighbors[remap[i]] = remap[(i+1)%len(outline)]
	}

	// Triangulation output is counter-clockwise in (x, z), which faces -Y.
	m.Indices = make([]uint32, 0, 6*len(tri.Triangles)+12*half)
	h := uint32(half)
	for _, t := range tri.Triangles {
		a, c, d := uint32(remap[t[0]]), uint32(remap[t[1]]), uint32(remap[t[2]])
		m.Indices = append(m.Indices, a, c, d)       // bottom
		m.Indices = append(m.Indices, a+h, d+h, c+h) // top
	}
	m.WallStart = len(m.Indices)
	for i := 0; i < half; i++ {
		v, n := uint32(i), uint32(m.Neighbors[i])
		m.Indices = append(m.Indices,
			v, n, n+h,
			v, n+h, v+h,
			v, n+h, n,
			v, v+h, n+h,
		)
	}

	m.recentre()
	m.computeUVs()
	m.computeNormals()
	return m, nil
}

// dedupe drops points whose planar position repeats an earlier one.
func dedupe(points []mgl32.Vec3, tol float64) []orb.Point {
	seen := make(map[[2]int64]bool, len(points))
	out := make([]orb.Point, 0, len(points))
	for _, p := range points {
		pt := orb.Point{float64(p.X()), float64(p.Z())}
		k := quantize(pt, tol)
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, pt)
	}
	return out
}

// quantize rounds a planar point to the nearest cell of a tol-sized grid.
// Matching compares cells, not distances.
func quantize(p orb.Point, tol float64) [2]int64 {
	return [2]int64{int64(math.Round(p[0] / tol)), int64(math.Round(p[1] / tol))}
}

// recentre moves the local origin to the base-center of the volume.
func (m *Mesh) recentre() {
	b := boundsOf(m.Vertices)
	origin := mgl32.Vec3{(b.Min[0] + b.Max[0]) / 2, b.Min[1], (b.Min[2] + b.Max[2]) / 2}
	for i := range m.Vertices {
		m.Vertices[i].Position = m.Vertices[i].Position.Sub(origin)
	}
	m.Origin = origin
	m.Bounds = boundsOf(m.Vertices)
}

// computeUVs maps the planar footprint onto [0,1]².
func (m *Mesh) computeUVs() {
	size := m.Bounds.Size()
	for i := range m.Vertices {
		p := m.Vertices[i].Position
		var u, v float32
		if size[0] > 0 {
			u = (p[0] - m.Bounds.Min[0]) / size[0]
		}
		if size[2] > 0 {
			v = (p[2] - m.Bounds.Min[2]) / size[2]
		}
		m.Vertices[i].UV = mgl32.Vec2{u, v}
	}
}

// computeNormals accumulates face normals per vertex. Mirrored wall pairs
// cancel out, so cap vertices end up with the cap normal.
func (m *Mesh) computeNormals() {
	sums := make([]mgl32.Vec3, len(m.Vertices))
	for i := 0; i+2 < len(m.Indices); i += 3 {
		a, b, c := m.Indices[i], m.Indices[i+1], m.Indices[i+2]
		pa, pb, pc := m.Vertices[a].Position, m.Vertices[b].Position, m.Vertices[c].Position
		n := pb.Sub(pa).Cross(pc.Sub(pa))
		sums[a] = sums[a].Add(n)
		sums[b] = sums[b].Add(n)
		sums[c] = sums[c].Add(n)
	}
	for i, s := range sums {
		switch {
		case s.Len() > 1e-9:
			m.Vertices[i].Normal = s.Normalize()
		case i < m.Half:
			m.Vertices[i].Normal = mgl32.Vec3{0, -1, 0}
		default:
			m.Vertices[i].Normal = mgl32.Vec3{0, 1, 0}
		}
	}
}

func boundsOf(vertices []Vertex) Bounds {
	if len(vertices) == 0 {
		return Bounds{}
	}
	b := Bounds{Min: vertices[0].Position, Max: vertices[0].Position}
	for _, v := range vertices[1:] {
		for k := 0; k < 3; k++ {
			b.Min[k] = min(b.Min[k], v.Position[k])
			b.Max[k] = max(b.Max[k], v.Position[k])
		}
	}
	return b
}

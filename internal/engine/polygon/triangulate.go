package polygon

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// triangulation is a constrained Delaunay triangulation of a simple polygon.
// Triangles index into Points and are counter-clockwise in the plane.
type triangulation struct {
	Points    []orb.Point
	Triangles [][3]int
}

type edge [2]int

func makeEdge(a, b int) edge {
	if a > b {
		a, b = b, a
	}
	return edge{a, b}
}

type triangulator struct {
	pts []orb.Point
	eps float64 // area tolerance
}

// triangulate ear-clips the outline pts (distinct points in outline order)
// and then flips interior diagonals until every one satisfies the Delaunay
// condition. Outline edges are never flipped.
func triangulate(pts []orb.Point, tolerance float64) (*triangulation, error) {
	if len(pts) < 3 {
		return nil, ErrDegenerate
	}

	ring := make(orb.Ring, len(pts), len(pts)+1)
	copy(ring, pts)
	ring = append(ring, pts[0])
	if math.Abs(planar.Area(ring)) <= tolerance*tolerance {
		return nil, ErrDegenerate
	}
	if selfIntersects(pts) {
		return nil, ErrSelfIntersecting
	}

	order := make([]int, len(pts))
	for i := range order {
		order[i] = i
	}
	if ring.Orientation() == orb.CW {
		for i, j := 0, len(order)-1; i < j; i, j = i+1, j-1 {
			order[i], order[j] = order[j], order[i]
		}
	}

	t := &triangulator{pts: pts, eps: tolerance * tolerance * 0.5}
	tris, err := t.clip(order)
	if err != nil {
		return nil, err
	}

	constrained := make(map[edge]bool, len(pts))
	for i := range pts {
		constrained[makeEdge(i, (i+1)%len(pts))] = true
	}
	t.legalize(tris, constrained)

	return &triangulation{Points: pts, Triangles: tris}, nil
}

// clip runs ear clipping over a counter-clockwise vertex ring. Collinear
// vertices that never become ears are dropped from the ring without a
// triangle; they remain part of the outline.
func (t *triangulator) clip(ring []int) ([][3]int, error) {
	ring = append([]int(nil), ring...)
	tris := make([][3]int, 0, len(ring)-2)

	for len(ring) > 3 {
		if i := t.findEar(ring); i >= 0 {
			n := len(ring)
			tris = append(tris, [3]int{ring[(i+n-1)%n], ring[i], ring[(i+1)%n]})
			ring = append(ring[:i], ring[i+1:]...)
			continue
		}
		if i := t.findFlat(ring); i >= 0 {
			ring = append(ring[:i], ring[i+1:]...)
			continue
		}
		return nil, ErrNoEar
	}

	switch o := t.orient(ring[0], ring[1], ring[2]); {
	case o > t.eps:
		tris = append(tris, [3]int{ring[0], ring[1], ring[2]})
	case o < -t.eps:
		return nil, ErrNoEar
	}
	if len(tris) == 0 {
		return nil, ErrDegenerate
	}
	return tris, nil
}

func (t *triangulator) findEar(ring []int) int {
	n := len(ring)
	for i := range ring {
		a, b, c := ring[(i+n-1)%n], ring[i], ring[(i+1)%n]
		if t.orient(a, b, c) <= t.eps {
			continue
		}
		ear := true
		for _, p := range ring {
			if p == a || p == b || p == c {
				continue
			}
			if t.inTriangle(p, a, b, c) {
				ear = false
				break
			}
		}
		if ear {
			return i
		}
	}
	return -1
}

func (t *triangulator) findFlat(ring []int) int {
	n := len(ring)
	for i := range ring {
		if math.Abs(t.orient(ring[(i+n-1)%n], ring[i], ring[(i+1)%n])) <= t.eps {
			return i
		}
	}
	return -1
}

// legalize applies Lawson flips until no unconstrained edge is illegal.
func (t *triangulator) legalize(tris [][3]int, constrained map[edge]bool) {
	limit := 4*len(tris)*len(tris) + 16
	for range limit {
		if !t.flipOne(tris, constrained) {
			return
		}
	}
}

func (t *triangulator) flipOne(tris [][3]int, constrained map[edge]bool) bool {
	owners := make(map[edge][]int, len(tris)*3)
	for ti, tr := range tris {
		for j := range 3 {
			e := makeEdge(tr[j], tr[(j+1)%3])
			owners[e] = append(owners[e], ti)
		}
	}

	for ti, tr := range tris {
		for j := range 3 {
			u, v, p := tr[j], tr[(j+1)%3], tr[(j+2)%3]
			e := makeEdge(u, v)
			if constrained[e] || len(owners[e]) != 2 {
				continue
			}
			other := owners[e][0]
			if other == ti {
				other = owners[e][1]
			}
			q := opposite(tris[other], u, v)

			if t.inCircle(u, v, p, q) <= t.eps*t.eps {
				continue
			}
			if t.orient(u, q, p) <= t.eps || t.orient(q, v, p) <= t.eps {
				continue
			}
			tris[ti] = [3]int{u, q, p}
			tris[other] = [3]int{q, v, p}
			return true
		}
	}
	return false
}

func opposite(tr [3]int, u, v int) int {
	for _, w := range tr {
		if w != u && w != v {
			return w
		}
	}
	return tr[0]
}

// orient returns twice the signed area of abc; positive when counter-clockwise.
func (t *triangulator) orient(a, b, c int) float64 {
	return cross(t.pts[a], t.pts[b], t.pts[c])
}

func (t *triangulator) inTriangle(p, a, b, c int) bool {
	pp := t.pts[p]
	return cross(t.pts[a], t.pts[b], pp) >= -t.eps &&
		cross(t.pts[b], t.pts[c], pp) >= -t.eps &&
		cross(t.pts[c], t.pts[a], pp) >= -t.eps
}

// inCircle is positive when d lies inside the circumcircle of the
// counter-clockwise triangle abc.
func (t *triangulator) inCircle(a, b, c, d int) float64 {
	pd := t.pts[d]
	ax, ay := t.pts[a][0]-pd[0], t.pts[a][1]-pd[1]
	bx, by := t.pts[b][0]-pd[0], t.pts[b][1]-pd[1]
	cx, cy := t.pts[c][0]-pd[0], t.pts[c][1]-pd[1]
	return (ax*ax+ay*ay)*(bx*cy-cx*by) -
		(bx*bx+by*by)*(ax*cy-cx*ay) +
		(cx*cx+cy*cy)*(ax*by-bx*ay)
}

func cross(a, b, c orb.Point) float64 {
	return (b[0]-a[0])*(c[1]-a[1]) - (b[1]-a[1])*(c[0]-a[0])
}

// selfIntersects reports whether two non-adjacent outline edges touch.
func selfIntersects(pts []orb.Point) bool {
	n := len(pts)
	for i := 0; i < n; i++ {
		a1, a2 := pts[i], pts[(i+1)%n]
		for j := i + 1; j < n; j++ {
			if j == i+1 || (i == 0 && j == n-1) {
				continue
			}
			if segmentsTouch(a1, a2, pts[j], pts[(j+1)%n]) {
				return true
			}
		}
	}
	return false
}

func segmentsTouch(p1, p2, q1, q2 orb.Point) bool {
	d1 := cross(q1, q2, p1)
	d2 := cross(q1, q2, p2)
	d3 := cross(p1, p2, q1)
	d4 := cross(p1, p2, q2)
	if ((d1 > 0 && d2 < 0) || (d1 < 0 && d2 > 0)) &&
		((d3 > 0 && d4 < 0) || (d3 < 0 && d4 > 0)) {
		return true
	}
	return (d1 == 0 && onSegment(q1, q2, p1)) ||
		(d2 == 0 && onSegment(q1, q2, p2)) ||
		(d3 == 0 && onSegment(p1, p2, q1)) ||
		(d4 == 0 && onSegment(p1, p2, q2))
}

func onSegment(a, b, p orb.Point) bool {
	return math.Min(a[0], b[0]) <= p[0] && p[0] <= math.Max(a[0], b[0]) &&
		math.Min(a[1], b[1]) <= p[1] && p[1] <= math.Max(a[1], b[1])
}

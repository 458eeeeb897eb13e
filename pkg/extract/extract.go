// Package extract converts a binary mask back into ordered closed
// boundary loops in patient mm coordinates. Each disjoint inside region
// yields one loop; an empty mask yields an empty set, the valid
// "structure absent on this slice" outcome.
package extract

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/simplify"

	"github.com/oncoplan/interp/pkg/field"
	"github.com/oncoplan/interp/pkg/geom"
)

// collinearEps is the cross-product tolerance for dropping collinear
// marching vertices before simplification.
const collinearEps = 1e-9

// edgeKey identifies a lattice edge between two adjacent cell-center
// samples: kind 0 is the horizontal edge (i,j)-(i+1,j), kind 1 the
// vertical edge (i,j)-(i,j+1).
type edgeKey struct {
	kind, i, j int
}

// marchSeg is one oriented boundary segment inside a marching cell,
// from one lattice edge to another with the inside region on its left.
type marchSeg struct {
	to edgeKey
}

// Loops runs marching squares over the mask and stitches the oriented
// segments into closed loops at slice position z. Solid regions come out
// counterclockwise, holes clockwise. simplifyTol > 0 applies
// Douglas-Peucker simplification (mm) to strip the raster staircase.
func Loops(m field.Mask, z, simplifyTol float64) []geom.Contour {
	segs := marchSegments(m)

	var loops []geom.Contour
	visited := make(map[edgeKey]bool, len(segs))
	for start := range segs {
		if visited[start] {
			continue
		}
		var pts []geom.Point
		cur := start
		for {
			visited[cur] = true
			pts = append(pts, edgeMidpoint(m.Grid, cur))
			next, ok := segs[cur]
			if !ok {
				break // open chain; cannot happen on a padded lattice
			}
			cur = next.to
			if cur == start {
				break
			}
		}
		pts = dropCollinear(pts)
		if simplifyTol > 0 {
			pts = simplifyLoop(pts, simplifyTol)
		}
		if len(pts) >= 3 {
			loops = append(loops, geom.Contour{Points: pts, Z: z})
		}
	}
	return loops
}

// marchSegments classifies every marching cell over the mask's sample
// lattice, padded by one outside ring so boundary-touching shapes still
// close. Keys are each segment's source edge; orientation keeps the
// inside on the left, so following the map walks complete loops.
func marchSegments(m field.Mask) map[edgeKey]marchSeg {
	segs := make(map[edgeKey]marchSeg)
	sample := func(i, j int) bool {
		if i < 0 || i >= m.W || j < 0 || j >= m.H {
			return false
		}
		return m.Inside[m.Index(i, j)]
	}

	for j := -1; j < m.H; j++ {
		for i := -1; i < m.W; i++ {
			code := 0
			if sample(i, j) { // bottom-left
				code |= 1
			}
			if sample(i+1, j) { // bottom-right
				code |= 2
			}
			if sample(i+1, j+1) { // top-right
				code |= 4
			}
			if sample(i, j+1) { // top-left
				code |= 8
			}
			if code == 0 || code == 15 {
				continue
			}
			bottom := edgeKey{0, i, j}
			top := edgeKey{0, i, j + 1}
			left := edgeKey{1, i, j}
			right := edgeKey{1, i + 1, j}
			switch code {
			case 1:
				segs[bottom] = marchSeg{left}
			case 2:
				segs[right] = marchSeg{bottom}
			case 3:
				segs[right] = marchSeg{left}
			case 4:
				segs[top] = marchSeg{right}
			case 5:
				// Ambiguous saddle: keep the two diagonal corners
				// separate rather than bridging them.
				segs[bottom] = marchSeg{left}
				segs[top] = marchSeg{right}
			case 6:
				segs[top] = marchSeg{bottom}
			case 7:
				segs[top] = marchSeg{left}
			case 8:
				segs[left] = marchSeg{top}
			case 9:
				segs[bottom] = marchSeg{top}
			case 10:
				segs[right] = marchSeg{bottom}
				segs[left] = marchSeg{top}
			case 11:
				segs[right] = marchSeg{top}
			case 12:
				segs[left] = marchSeg{right}
			case 13:
				segs[bottom] = marchSeg{right}
			case 14:
				segs[left] = marchSeg{bottom}
			}
		}
	}
	return segs
}

// edgeMidpoint returns the mm position of a lattice edge's midpoint,
// which is where the binary iso-line crosses it.
func edgeMidpoint(g field.Grid, e edgeKey) geom.Point {
	if e.kind == 0 {
		return geom.Pt(
			g.MinX+float64(e.i+1)*g.Spacing,
			g.MinY+(float64(e.j)+0.5)*g.Spacing,
		)
	}
	return geom.Pt(
		g.MinX+(float64(e.i)+0.5)*g.Spacing,
		g.MinY+float64(e.j+1)*g.Spacing,
	)
}

// dropCollinear removes interior points that lie on the segment between
// their neighbors, including across the loop seam.
func dropCollinear(pts []geom.Point) []geom.Point {
	if len(pts) < 4 {
		return pts
	}
	out := pts[:0:0]
	n := len(pts)
	for i := 0; i < n; i++ {
		prev := pts[(i-1+n)%n]
		next := pts[(i+1)%n]
		v1 := pts[i].Sub(prev)
		v2 := next.Sub(pts[i])
		if absF(v1.Cross(v2)) > collinearEps {
			out = append(out, pts[i])
		}
	}
	if len(out) < 3 {
		return pts
	}
	return out
}

// simplifyLoop runs Douglas-Peucker over the closed loop. The original
// points are kept when simplification would collapse the loop.
func simplifyLoop(pts []geom.Point, tol float64) []geom.Point {
	ring := make(orb.Ring, 0, len(pts)+1)
	for _, p := range pts {
		ring = append(ring, orb.Point{p.X, p.Y})
	}
	ring = append(ring, ring[0])

	simplified, ok := simplify.DouglasPeucker(tol).Simplify(ring).(orb.Ring)
	if !ok || len(simplified) < 4 {
		return pts
	}
	out := make([]geom.Point, 0, len(simplified)-1)
	for _, p := range simplified[:len(simplified)-1] {
		out = append(out, geom.Pt(p[0], p[1]))
	}
	return out
}

func absF(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

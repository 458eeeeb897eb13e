package field

import "github.com/oncoplan/interp/pkg/geom"

// Rasterize marks every grid cell whose center lies inside any of the
// given loops. The inside test is an even-odd ray cast per loop, OR-ed
// across loops, so structures with multiple disjoint contours on one
// slice rasterize as their union.
func Rasterize(loops []geom.Contour, g Grid) Mask {
	m := NewMask(g)
	for iy := 0; iy < g.H; iy++ {
		for ix := 0; ix < g.W; ix++ {
			p := g.CellCenter(ix, iy)
			for _, loop := range loops {
				if pointInPolygon(p, loop.Points) {
					m.Inside[g.Index(ix, iy)] = true
					break
				}
			}
		}
	}
	return m
}

// pointInPolygon is the even-odd ray-casting test against a closed
// polygon. Points exactly on an edge may land on either side; at the
// grid resolutions used here that is below clinical tolerance.
func pointInPolygon(p geom.Point, pts []geom.Point) bool {
	if len(pts) < 3 {
		return false
	}
	inside := false
	j := len(pts) - 1
	for i := range pts {
		pi, pj := pts[i], pts[j]
		if (pi.Y > p.Y) != (pj.Y > p.Y) {
			xCross := pi.X + (p.Y-pi.Y)*(pj.X-pi.X)/(pj.Y-pi.Y)
			if p.X < xCross {
				inside = !inside
			}
		}
		j = i
	}
	return inside
}

// Package geom defines the 2D primitives the interpolation engine works
// with: points in the patient coordinate frame (millimeters), closed
// contours tagged with a slice position, and the polygon measures (signed
// area, centroid, perimeter, bounds) the morphing paths are built on.
package geom

import "math"

// DegenerateArea is the absolute signed-area threshold (mm²) below which
// a polygon is treated as degenerate.
const DegenerateArea = 1e-6

// Point is a 2D position in patient coordinates, in millimeters.
type Point struct {
	X, Y float64
}

// Pt returns the point (x, y).
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

// Add returns p + o.
func (p Point) Add(o Point) Point {
	return Point{X: p.X + o.X, Y: p.Y + o.Y}
}

// Sub returns p − o.
func (p Point) Sub(o Point) Point {
	return Point{X: p.X - o.X, Y: p.Y - o.Y}
}

// Scale returns p scaled by s.
func (p Point) Scale(s float64) Point {
	return Point{X: p.X * s, Y: p.Y * s}
}

// Dot returns the dot product of p and o taken as vectors.
func (p Point) Dot(o Point) float64 {
	return p.X*o.X + p.Y*o.Y
}

// Cross returns the 2D cross product of p and o taken as vectors.
func (p Point) Cross(o Point) float64 {
	return p.X*o.Y - p.Y*o.X
}

// Norm returns the Euclidean length of p taken as a vector.
func (p Point) Norm() float64 {
	return math.Hypot(p.X, p.Y)
}

// DistTo returns the Euclidean distance between p and o.
func (p Point) DistTo(o Point) float64 {
	return p.Sub(o).Norm()
}

// Lerp linearly interpolates between p (t=0) and o (t=1).
func (p Point) Lerp(o Point, t float64) Point {
	return Point{
		X: p.X + (o.X-p.X)*t,
		Y: p.Y + (o.Y-p.Y)*t,
	}
}

// Contour is an ordered closed polygon on one image slice. The last point
// connects back to the first implicitly. Z is the slice position in mm
// along the scan axis.
type Contour struct {
	Points []Point
	Z      float64
}

// SignedArea returns the shoelace area of c. Positive for counterclockwise
// winding in a y-up frame.
func (c Contour) SignedArea() float64 {
	pts := c.Points
	if len(pts) < 3 {
		return 0
	}
	sum := 0.0
	j := len(pts) - 1
	for i := range pts {
		sum += pts[j].Cross(pts[i])
		j = i
	}
	return sum / 2
}

// Area returns the absolute enclosed area of c in mm².
func (c Contour) Area() float64 {
	return math.Abs(c.SignedArea())
}

// IsDegenerate reports whether c has too few points or encloses
// effectively no area.
func (c Contour) IsDegenerate() bool {
	return len(c.Points) < 3 || c.Area() < DegenerateArea
}

// Centroid returns the area-weighted polygon centroid. When the signed
// area is effectively zero the arithmetic mean of the vertices is
// returned instead, which is well defined for any non-empty point set.
func (c Contour) Centroid() Point {
	pts := c.Points
	if len(pts) == 0 {
		return Point{}
	}
	a := c.SignedArea()
	if math.Abs(a) < DegenerateArea {
		var mean Point
		for _, p := range pts {
			mean = mean.Add(p)
		}
		return mean.Scale(1 / float64(len(pts)))
	}
	var cx, cy float64
	j := len(pts) - 1
	for i := range pts {
		w := pts[j].Cross(pts[i])
		cx += (pts[j].X + pts[i].X) * w
		cy += (pts[j].Y + pts[i].Y) * w
		j = i
	}
	return Point{X: cx / (6 * a), Y: cy / (6 * a)}
}

// Perimeter returns the closed perimeter length of c in mm.
func (c Contour) Perimeter() float64 {
	pts := c.Points
	if len(pts) < 2 {
		return 0
	}
	total := 0.0
	j := len(pts) - 1
	for i := range pts {
		total += pts[j].DistTo(pts[i])
		j = i
	}
	return total
}

// Reversed returns a copy of c with the point order reversed, flipping
// the winding direction.
func (c Contour) Reversed() Contour {
	out := Contour{Points: make([]Point, len(c.Points)), Z: c.Z}
	for i, p := range c.Points {
		out.Points[len(c.Points)-1-i] = p
	}
	return out
}

// Bounds returns the axis-aligned bounding box over every point of every
// given contour. Returns zero points when no contour has points.
func Bounds(contours ...Contour) (min, max Point) {
	first := true
	for _, c := range contours {
		for _, p := range c.Points {
			if first {
				min, max = p, p
				first = false
				continue
			}
			if p.X < min.X {
				min.X = p.X
			}
			if p.Y < min.Y {
				min.Y = p.Y
			}
			if p.X > max.X {
				max.X = p.X
			}
			if p.Y > max.Y {
				max.Y = p.Y
			}
		}
	}
	return min, max
}

// TotalArea returns the summed absolute area of the given loops.
func TotalArea(loops []Contour) float64 {
	total := 0.0
	for _, c := range loops {
		total += c.Area()
	}
	return total
}

// LargestLoop returns the loop with the greatest absolute area. The
// correspondence morph paths operate on a single polygon per slice; on
// multi-loop slices they follow the dominant loop.
func LargestLoop(loops []Contour) Contour {
	best := 0
	bestArea := -1.0
	for i, c := range loops {
		if a := c.Area(); a > bestArea {
			bestArea = a
			best = i
		}
	}
	if len(loops) == 0 {
		return Contour{}
	}
	return loops[best]
}

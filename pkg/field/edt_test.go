package field

import (
	"math"
	"testing"

	"github.com/oncoplan/interp/pkg/geom"
)

func circle(cx, cy, r, z float64, n int) geom.Contour {
	c := geom.Contour{Z: z, Points: make([]geom.Point, n)}
	for i := range c.Points {
		th := 2 * math.Pi * float64(i) / float64(n)
		c.Points[i] = geom.Pt(cx+r*math.Cos(th), cy+r*math.Sin(th))
	}
	return c
}

// valueAt returns the field value at the cell nearest the given point.
func valueAt(f SignedDistanceField, p geom.Point) float64 {
	ix := int((p.X - f.MinX)/f.Spacing - 0.5)
	iy := int((p.Y - f.MinY)/f.Spacing - 0.5)
	return f.Values[f.Index(ix, iy)]
}

func TestSDFCircle(t *testing.T) {
	// A 10mm circle on a fine grid: ~−10 at the center, ~+5 at a point
	// 5mm outside the boundary, within one cell.
	c := circle(0, 0, 10, 0, 256)
	g, err := GridFor([]geom.Contour{c}, 0.1, 8)
	if err != nil {
		t.Fatalf("GridFor: %v", err)
	}
	f := SDFFromMask(Rasterize([]geom.Contour{c}, g))

	tol := 2 * g.Spacing
	if v := valueAt(f, geom.Pt(0, 0)); math.Abs(v+10) > tol {
		t.Fatalf("center value = %g, want ~-10", v)
	}
	if v := valueAt(f, geom.Pt(15, 0)); math.Abs(v-5) > tol {
		t.Fatalf("outside value = %g, want ~+5", v)
	}
	// On the boundary the signed distance crosses zero.
	if v := valueAt(f, geom.Pt(10, 0)); math.Abs(v) > tol {
		t.Fatalf("boundary value = %g, want ~0", v)
	}
}

func TestSDFSignConvention(t *testing.T) {
	sq := square(0, 0, 10, 0)
	g, err := GridFor([]geom.Contour{sq}, 0.25, 3)
	if err != nil {
		t.Fatalf("GridFor: %v", err)
	}
	f := SDFFromMask(Rasterize([]geom.Contour{sq}, g))
	if v := valueAt(f, geom.Pt(5, 5)); v >= 0 {
		t.Fatalf("inside value = %g, want negative", v)
	}
	if v := valueAt(f, geom.Pt(-2, -2)); v <= 0 {
		t.Fatalf("outside value = %g, want positive", v)
	}
}

func TestSDFNoNaN(t *testing.T) {
	sq := square(0, 0, 4, 0)
	g, err := GridFor([]geom.Contour{sq}, 0.25, 2)
	if err != nil {
		t.Fatalf("GridFor: %v", err)
	}
	f := SDFFromMask(Rasterize([]geom.Contour{sq}, g))
	for i, v := range f.Values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			t.Fatalf("cell %d is %g", i, v)
		}
	}
}

func TestSDFAllOutside(t *testing.T) {
	g := Grid{MinX: 0, MinY: 0, Spacing: 1, W: 8, H: 8}
	f := SDFFromMask(NewMask(g))
	// No inside cells: every value saturates positive, none NaN.
	for i, v := range f.Values {
		if math.IsNaN(v) || v <= 0 {
			t.Fatalf("cell %d = %g, want large positive", i, v)
		}
	}
}

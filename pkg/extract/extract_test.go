package extract

import (
	"math"
	"testing"

	"github.com/oncoplan/interp/pkg/field"
	"github.com/oncoplan/interp/pkg/geom"
)

func square(x, y, side, z float64) geom.Contour {
	return geom.Contour{Z: z, Points: []geom.Point{
		{X: x, Y: y}, {X: x + side, Y: y},
		{X: x + side, Y: y + side}, {X: x, Y: y + side},
	}}
}

func rasterized(t *testing.T, loops []geom.Contour, spacing float64) field.Mask {
	t.Helper()
	g, err := field.GridFor(loops, spacing, 2)
	if err != nil {
		t.Fatalf("GridFor: %v", err)
	}
	return field.Rasterize(loops, g)
}

func TestLoopsSquare(t *testing.T) {
	sq := square(0, 0, 10, 0)
	m := rasterized(t, []geom.Contour{sq}, 0.2)
	loops := Loops(m, 7.5, 0.1)
	if len(loops) != 1 {
		t.Fatalf("got %d loops, want 1", len(loops))
	}
	got := loops[0]
	if got.Z != 7.5 {
		t.Fatalf("z = %g, want 7.5", got.Z)
	}
	if math.Abs(got.Area()-100) > 3 {
		t.Fatalf("area = %g, want ~100", got.Area())
	}
	if math.Abs(got.Perimeter()-40) > 3 {
		t.Fatalf("perimeter = %g, want ~40", got.Perimeter())
	}
	// Solid regions come out counterclockwise.
	if got.SignedArea() <= 0 {
		t.Fatal("solid loop not counterclockwise")
	}
	// Simplification strips the raster staircase down to a handful of
	// points for an axis-aligned square.
	if len(got.Points) > 32 {
		t.Fatalf("simplified square has %d points", len(got.Points))
	}
}

func TestLoopsEmptyMask(t *testing.T) {
	g := field.Grid{MinX: 0, MinY: 0, Spacing: 0.5, W: 16, H: 16}
	loops := Loops(field.NewMask(g), 0, 0.1)
	if len(loops) != 0 {
		t.Fatalf("empty mask produced %d loops, want 0", len(loops))
	}
}

func TestLoopsDisjointRegions(t *testing.T) {
	a := square(0, 0, 6, 0)
	b := square(12, 0, 4, 0)
	m := rasterized(t, []geom.Contour{a, b}, 0.2)
	loops := Loops(m, 0, 0.1)
	if len(loops) != 2 {
		t.Fatalf("got %d loops, want 2", len(loops))
	}
	total := geom.TotalArea(loops)
	if math.Abs(total-52) > 3 {
		t.Fatalf("total area = %g, want ~52", total)
	}
}

func TestLoopsBorderTouchingShape(t *testing.T) {
	// A mask that reaches the grid border must still close its loop
	// through the padded outside ring.
	g := field.Grid{MinX: 0, MinY: 0, Spacing: 1, W: 6, H: 6}
	m := field.NewMask(g)
	for i := range m.Inside {
		m.Inside[i] = true
	}
	loops := Loops(m, 0, 0)
	if len(loops) != 1 {
		t.Fatalf("got %d loops, want 1", len(loops))
	}
	if math.Abs(loops[0].Area()-36) > 8 {
		t.Fatalf("area = %g, want ~36", loops[0].Area())
	}
}

func TestLoopsRoundTripThroughRasterizer(t *testing.T) {
	// Extracted loops rasterize back to (nearly) the mask they came
	// from: the extraction boundary runs between inside and outside
	// cell centers.
	sq := square(0, 0, 10, 0)
	m := rasterized(t, []geom.Contour{sq}, 0.25)
	loops := Loops(m, 0, 0.1)
	back := field.Rasterize(loops, m.Grid)

	mismatch := 0
	for i := range m.Inside {
		if m.Inside[i] != back.Inside[i] {
			mismatch++
		}
	}
	if frac := float64(mismatch) / float64(len(m.Inside)); frac > 0.005 {
		t.Fatalf("%.2f%% of cells flipped in round trip", 100*frac)
	}
}

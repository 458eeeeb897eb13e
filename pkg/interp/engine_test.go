package interp

import (
	"errors"
	"math"
	"testing"

	"github.com/oncoplan/interp/pkg/field"
	"github.com/oncoplan/interp/pkg/geom"
	"github.com/oncoplan/interp/pkg/morph"
)

func square(x, y, side, z float64) geom.Contour {
	return geom.Contour{Z: z, Points: []geom.Point{
		{X: x, Y: y}, {X: x + side, Y: y},
		{X: x + side, Y: y + side}, {X: x, Y: y + side},
	}}
}

func circle(cx, cy, r, z float64, n int) geom.Contour {
	c := geom.Contour{Z: z, Points: make([]geom.Point, n)}
	for i := range c.Points {
		th := 2 * math.Pi * float64(i) / float64(n)
		c.Points[i] = geom.Pt(cx+r*math.Cos(th), cy+r*math.Sin(th))
	}
	return c
}

// dice rasterizes both loop sets on a shared 0.25mm grid and returns
// their overlap.
func dice(t *testing.T, a, b []geom.Contour) float64 {
	t.Helper()
	all := append(append([]geom.Contour{}, a...), b...)
	g, err := field.GridFor(all, 0.25, 2)
	if err != nil {
		t.Fatalf("GridFor: %v", err)
	}
	ma := field.Rasterize(a, g)
	mb := field.Rasterize(b, g)
	inter, total := 0, 0
	for i := range ma.Inside {
		if ma.Inside[i] && mb.Inside[i] {
			inter++
		}
		if ma.Inside[i] {
			total++
		}
		if mb.Inside[i] {
			total++
		}
	}
	if total == 0 {
		return 1
	}
	return 2 * float64(inter) / float64(total)
}

func TestValidation(t *testing.T) {
	good := square(0, 0, 10, 0)
	goodB := square(0, 0, 10, 5)
	cases := []struct {
		name string
		req  Request
	}{
		{"no loops A", Request{B: []geom.Contour{goodB}, TargetZ: 2}},
		{"too few points", Request{
			A:       []geom.Contour{{Z: 0, Points: []geom.Point{{X: 0, Y: 0}, {X: 1, Y: 1}}}},
			B:       []geom.Contour{goodB},
			TargetZ: 2,
		}},
		{"coincident slices", Request{
			A:       []geom.Contour{good},
			B:       []geom.Contour{square(0, 0, 10, 0)},
			TargetZ: 0,
		}},
		{"target outside gap", Request{
			A:       []geom.Contour{good},
			B:       []geom.Contour{goodB},
			TargetZ: 7,
		}},
	}
	for _, tc := range cases {
		tc.req.Config = DefaultConfig()
		_, err := Interpolate(tc.req)
		if err == nil {
			t.Fatalf("%s: expected error", tc.name)
		}
		var ie InvalidInputError
		if !errors.As(err, &ie) {
			t.Fatalf("%s: error type = %T, want InvalidInputError", tc.name, err)
		}
	}
}

func TestGridCapError(t *testing.T) {
	cfg := DefaultConfig()
	cfg.GridSpacing = 0.1
	_, err := Interpolate(Request{
		A:       []geom.Contour{square(0, 0, 400, 0)},
		B:       []geom.Contour{square(0, 0, 400, 5)},
		TargetZ: 2.5,
		Config:  cfg,
	})
	var ge field.GridTooLargeError
	if !errors.As(err, &ge) {
		t.Fatalf("error = %v, want GridTooLargeError", err)
	}
}

func TestIdenticalSquares(t *testing.T) {
	// Identical 10mm squares on z=0 and z=5: the halfway slice must be
	// the same square, Dice >= 0.99 on a 0.25mm grid.
	truth := square(10, 10, 10, 2.5)
	res, err := Interpolate(Request{
		A:       []geom.Contour{square(10, 10, 10, 0)},
		B:       []geom.Contour{square(10, 10, 10, 5)},
		TargetZ: 2.5,
		Config:  DefaultConfig(),
	})
	if err != nil {
		t.Fatalf("Interpolate: %v", err)
	}
	if len(res.Loops) != 1 {
		t.Fatalf("got %d loops, want 1", len(res.Loops))
	}
	if d := dice(t, res.Loops, []geom.Contour{truth}); d < 0.99 {
		t.Fatalf("dice = %g, want >= 0.99", d)
	}
	if math.Abs(res.EstimatedArea-100) > 3 {
		t.Fatalf("estimated area = %g, want ~100", res.EstimatedArea)
	}
	if res.Degenerate {
		t.Fatal("unexpected degenerate flag")
	}
}

func TestRoundTripEndpoints(t *testing.T) {
	a := []geom.Contour{circle(0, 0, 8, 0, 128)}
	b := []geom.Contour{circle(3, 2, 12, 10, 128)}
	for _, tc := range []struct {
		z    float64
		want []geom.Contour
	}{{0, a}, {10, b}} {
		res, err := Interpolate(Request{A: a, B: b, TargetZ: tc.z, Config: DefaultConfig()})
		if err != nil {
			t.Fatalf("z=%g: %v", tc.z, err)
		}
		if d := dice(t, res.Loops, tc.want); d < 0.98 {
			t.Fatalf("z=%g: dice = %g, want >= 0.98", tc.z, d)
		}
	}
}

func TestAreaMonotonicity(t *testing.T) {
	a := []geom.Contour{square(0, 0, 10, 0)}
	b := []geom.Contour{square(-2, -2, 14, 10)}
	lo, hi := 100.0, 196.0
	for _, z := range []float64{2.5, 5, 7.5} {
		res, err := Interpolate(Request{A: a, B: b, TargetZ: z, Config: DefaultConfig()})
		if err != nil {
			t.Fatalf("z=%g: %v", z, err)
		}
		// Within the area-correction band around the source range.
		if res.EstimatedArea < lo*0.95 || res.EstimatedArea > hi*1.05 {
			t.Fatalf("z=%g: area %g outside [%g, %g]", z, res.EstimatedArea, lo, hi)
		}
	}
}

func TestDegenerateKeyContour(t *testing.T) {
	a := []geom.Contour{square(0, 0, 10, 0)}
	line := []geom.Contour{{Z: 5, Points: []geom.Point{
		{X: 4, Y: 5}, {X: 6, Y: 5}, {X: 5, Y: 5},
	}}}
	res, err := Interpolate(Request{A: a, B: line, TargetZ: 2.5, Config: DefaultConfig()})
	if err != nil {
		t.Fatalf("Interpolate: %v", err)
	}
	if !res.Degenerate {
		t.Fatal("degenerate key contour not flagged")
	}
	// The fallback contour is returned alongside the flag so callers
	// can warn at the right position instead of seeing an empty slice.
	if len(res.Loops) != 1 || len(res.Loops[0].Points) == 0 {
		t.Fatalf("degenerate result dropped the fallback loop: %+v", res.Loops)
	}
	if res.Confidence != 0 {
		t.Fatalf("degenerate confidence = %g, want 0", res.Confidence)
	}
	for _, loop := range res.Loops {
		for _, p := range loop.Points {
			if math.IsNaN(p.X) || math.IsNaN(p.Y) {
				t.Fatal("NaN escaped to output")
			}
		}
	}
}

func TestZeroSampleCountsUseDefaults(t *testing.T) {
	a := []geom.Contour{square(0, 0, 10, 0)}
	b := []geom.Contour{square(0, 0, 10, 5)}
	res, err := Interpolate(Request{
		A: a, B: b, TargetZ: 2.5,
		Config: Config{Path: PathLinear},
	})
	if err != nil {
		t.Fatalf("zero-valued counts must select defaults, got %v", err)
	}
	if got := len(res.Loops[0].Points); got != morph.DefaultSampleCount {
		t.Fatalf("got %d points, want the default %d", got, morph.DefaultSampleCount)
	}

	_, err = Interpolate(Request{
		A: a, B: b, TargetZ: 2.5,
		Config: Config{Path: PathLinear, SampleCount: -1},
	})
	var ie InvalidInputError
	if !errors.As(err, &ie) {
		t.Fatalf("negative sample count: got %v, want InvalidInputError", err)
	}
}

func TestPolarPathSelection(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Path = PathPolar
	res, err := Interpolate(Request{
		A:       []geom.Contour{circle(0, 0, 10, 0, 256)},
		B:       []geom.Contour{circle(0, 0, 20, 10, 256)},
		TargetZ: 5,
		Config:  cfg,
	})
	if err != nil {
		t.Fatalf("Interpolate: %v", err)
	}
	for _, p := range res.Loops[0].Points {
		if d := p.Norm(); d < 14.5 || d > 15.5 {
			t.Fatalf("polar radius = %g, want 15±0.5", d)
		}
	}
}

func TestLinearPathSelection(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Path = PathLinear
	res, err := Interpolate(Request{
		A:       []geom.Contour{square(0, 0, 10, 0)},
		B:       []geom.Contour{square(10, 0, 10, 10)},
		TargetZ: 5,
		Config:  cfg,
	})
	if err != nil {
		t.Fatalf("Interpolate: %v", err)
	}
	c := res.Loops[0].Centroid()
	if math.Abs(c.X-10) > 0.2 || math.Abs(c.Y-5) > 0.2 {
		t.Fatalf("centroid = %v, want (10, 5)", c)
	}
}

func TestMultiLoopSlices(t *testing.T) {
	a := []geom.Contour{square(0, 0, 8, 0), square(20, 0, 6, 0)}
	b := []geom.Contour{square(0, 0, 8, 5), square(20, 0, 6, 5)}
	res, err := Interpolate(Request{A: a, B: b, TargetZ: 2.5, Config: DefaultConfig()})
	if err != nil {
		t.Fatalf("Interpolate: %v", err)
	}
	if len(res.Loops) != 2 {
		t.Fatalf("got %d loops, want 2", len(res.Loops))
	}
	if d := dice(t, res.Loops, []geom.Contour{square(0, 0, 8, 2.5), square(20, 0, 6, 2.5)}); d < 0.97 {
		t.Fatalf("dice = %g, want >= 0.97", d)
	}
}

func TestOutputZ(t *testing.T) {
	res, err := Interpolate(Request{
		A:       []geom.Contour{square(0, 0, 10, 0)},
		B:       []geom.Contour{square(0, 0, 10, 4)},
		TargetZ: 1,
		Config:  DefaultConfig(),
	})
	if err != nil {
		t.Fatalf("Interpolate: %v", err)
	}
	for _, loop := range res.Loops {
		if loop.Z != 1 {
			t.Fatalf("loop z = %g, want 1", loop.Z)
		}
	}
}

package field

import (
	"math"
	"testing"

	"github.com/oncoplan/interp/pkg/geom"
)

// twoFields builds distance fields for two offset squares on one grid.
func twoFields(t *testing.T) (SignedDistanceField, SignedDistanceField) {
	t.Helper()
	a := square(0, 0, 10, 0)
	b := square(4, 2, 12, 5)
	g, err := GridFor([]geom.Contour{a, b}, 0.25, 3)
	if err != nil {
		t.Fatalf("GridFor: %v", err)
	}
	return SDFFromMask(Rasterize([]geom.Contour{a}, g)),
		SDFFromMask(Rasterize([]geom.Contour{b}, g))
}

func allModes() []BlendMode {
	return []BlendMode{
		LinearBlend(),
		SmoothMinBlend(2),
		LpNormBlend(1),
		LpNormBlend(3),
		ConeOffsetBlend(1),
	}
}

func TestBlendBoundaryAgreement(t *testing.T) {
	fa, fb := twoFields(t)
	for _, mode := range allModes() {
		r0, err := Blend(fa, fb, 0, 0, 5, mode)
		if err != nil {
			t.Fatalf("%v: %v", mode, err)
		}
		r1, err := Blend(fa, fb, 1, 5, 0, mode)
		if err != nil {
			t.Fatalf("%v: %v", mode, err)
		}
		for i := range fa.Values {
			if math.Abs(r0.Values[i]-fa.Values[i]) > 1e-9 {
				t.Fatalf("%v at t=0 differs from field A at cell %d", mode, i)
			}
			if math.Abs(r1.Values[i]-fb.Values[i]) > 1e-9 {
				t.Fatalf("%v at t=1 differs from field B at cell %d", mode, i)
			}
		}
	}
}

func TestBlendNoNaN(t *testing.T) {
	fa, fb := twoFields(t)
	for _, mode := range allModes() {
		for _, tt := range []float64{0.25, 0.5, 0.75} {
			r, err := Blend(fa, fb, tt, tt*5, (1-tt)*5, mode)
			if err != nil {
				t.Fatalf("%v: %v", mode, err)
			}
			for i, v := range r.Values {
				if math.IsNaN(v) || math.IsInf(v, 0) {
					t.Fatalf("%v t=%g: cell %d is %g", mode, tt, i, v)
				}
			}
		}
	}
}

func TestLpNormP1IsLinear(t *testing.T) {
	fa, fb := twoFields(t)
	lin, err := Blend(fa, fb, 0.4, 2, 3, LinearBlend())
	if err != nil {
		t.Fatalf("linear: %v", err)
	}
	lp, err := Blend(fa, fb, 0.4, 2, 3, LpNormBlend(1))
	if err != nil {
		t.Fatalf("lp: %v", err)
	}
	for i := range lin.Values {
		if math.Abs(lin.Values[i]-lp.Values[i]) > 1e-9 {
			t.Fatalf("p=1 blend differs from linear at cell %d: %g vs %g",
				i, lp.Values[i], lin.Values[i])
		}
	}
}

func TestSmoothMinBounded(t *testing.T) {
	fa, fb := twoFields(t)
	r, err := Blend(fa, fb, 0.5, 2, 3, SmoothMinBlend(2))
	if err != nil {
		t.Fatalf("smoothmin: %v", err)
	}
	for i := range r.Values {
		lo := math.Min(fa.Values[i], fb.Values[i])
		hi := math.Max(fa.Values[i], fb.Values[i])
		if r.Values[i] < lo-1e-9 {
			t.Fatalf("cell %d: %g below min %g", i, r.Values[i], lo)
		}
		// The log-sum-exp of convex weights cannot exceed the larger
		// input either.
		if r.Values[i] > hi+1e-9 {
			t.Fatalf("cell %d: %g above max %g", i, r.Values[i], hi)
		}
	}
}

func TestConeOffsetFavorsNearSlice(t *testing.T) {
	fa, fb := twoFields(t)
	// Target almost on slice A: B's field is pushed down so the min
	// tracks B only where B is much closer to the boundary.
	r, err := Blend(fa, fb, 0.1, 0.5, 4.5, ConeOffsetBlend(1))
	if err != nil {
		t.Fatalf("coneoffset: %v", err)
	}
	for i := range r.Values {
		want := math.Min(fa.Values[i]-0.5, fb.Values[i]-4.5)
		if math.Abs(r.Values[i]-want) > 1e-9 {
			t.Fatalf("cell %d = %g, want %g", i, r.Values[i], want)
		}
	}
}

func TestBlendGridMismatch(t *testing.T) {
	fa, _ := twoFields(t)
	other := SignedDistanceField{
		Grid:   Grid{MinX: 0, MinY: 0, Spacing: 1, W: 4, H: 4},
		Values: make([]float64, 16),
	}
	if _, err := Blend(fa, other, 0.5, 1, 1, LinearBlend()); err == nil {
		t.Fatal("expected grid mismatch error")
	}
}

func TestSmoothMinDefaultAlpha(t *testing.T) {
	fa, fb := twoFields(t)
	// Alpha 0 selects 2x grid spacing rather than dividing by zero.
	r, err := Blend(fa, fb, 0.5, 2, 3, BlendMode{Kind: BlendSmoothMin})
	if err != nil {
		t.Fatalf("smoothmin: %v", err)
	}
	for i, v := range r.Values {
		if math.IsNaN(v) {
			t.Fatalf("cell %d is NaN", i)
		}
	}
}

// Package morph implements the point-correspondence interpolation paths.
// Two backends produce an intermediate contour between a pair of key
// contours: Linear lerps aligned resampled point pairs, Polar
// interpolates a PCA-anchored polar radius profile. Both are pure
// functions of their inputs; the raster path lives in pkg/field.
package morph

import "github.com/oncoplan/interp/pkg/geom"

// Morpher synthesizes the contour at fraction t between contour a (t=0)
// and contour b (t=1). The result's Z is the linear interpolation of the
// two slice positions at t.
type Morpher interface {
	Interpolate(a, b geom.Contour, t float64) Result
}

// Result is the output of a morph step.
type Result struct {
	Contour geom.Contour

	// Degenerate is set when either input collapsed to the centroid
	// fallback, so callers can warn instead of rendering a sliver.
	Degenerate bool

	// AreaScale is the radial correction factor the polar backend
	// applied to hit the interpolated target area (1 when unused).
	AreaScale float64
}

// EaseInOut is the cubic ease used when shape easing is enabled: slow
// near the key slices, fastest halfway between them.
func EaseInOut(t float64) float64 {
	if t < 0.5 {
		return 4 * t * t * t
	}
	u := -2*t + 2
	return 1 - u*u*u/2
}

func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

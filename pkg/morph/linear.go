package morph

import "github.com/oncoplan/interp/pkg/geom"

// Compile-time interface check.
var _ Morpher = (*Linear)(nil)

// DefaultSampleCount is the number of points both contours are resampled
// to before alignment.
const DefaultSampleCount = 128

// Linear interpolates between two contours by resampling both to the
// same point count, aligning them by cyclic rotation/reflection, and
// lerping each point pair. It is the fast fallback path; clinically
// shaped structures normally go through the raster path instead.
type Linear struct {
	// Samples is the resampled point count per contour.
	Samples int

	// Easing applies a cubic ease-in-out to t before lerping.
	Easing bool
}

// NewLinear returns a Linear morpher with default sampling.
func NewLinear() *Linear {
	return &Linear{Samples: DefaultSampleCount}
}

// Interpolate returns the per-point lerp of the aligned resamplings of a
// and b. Degenerate inputs still produce a contour (the resampler
// collapses them to a repeated point) and are flagged in the result.
func (m *Linear) Interpolate(a, b geom.Contour, t float64) Result {
	n := m.Samples
	if n <= 0 {
		n = DefaultSampleCount
	}
	te := t
	if m.Easing {
		te = EaseInOut(t)
	}

	ra := geom.Resample(a, n)
	rb := geom.Resample(b, n)
	aligned := geom.Align(ra.Points, rb.Points)

	out := geom.Contour{
		Points: make([]geom.Point, n),
		Z:      lerp(a.Z, b.Z, t),
	}
	for i := 0; i < n; i++ {
		out.Points[i] = ra.Points[i].Lerp(aligned[i], te)
	}
	return Result{
		Contour:    out,
		Degenerate: a.IsDegenerate() || b.IsDegenerate(),
		AreaScale:  1,
	}
}

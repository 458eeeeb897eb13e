package morph

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/oncoplan/interp/pkg/geom"
)

// Compile-time interface check.
var _ Morpher = (*Polar)(nil)

// DefaultAngleSamples is the number of rays cast from the centroid when
// building a radius profile.
const DefaultAngleSamples = 256

// DefaultAreaClamp bounds the area-preserving radial correction. The
// reference band is ±5%; the tighter default keeps concentric-circle
// gaps within clinical tolerance of the linearly interpolated radius.
const DefaultAreaClamp = 0.03

// rayEps guards parallel ray/edge intersections and near-zero
// denominators in the polar sampling.
const rayEps = 1e-12

// Polar interpolates between two contours in a polar frame anchored at
// each contour's centroid and principal axis. Point-by-point
// correspondence degrades when shape complexity or vertex density
// differs between the two keys; a stable polar frame tied to a coherent
// anatomical axis matches how contours are clinically expected to morph.
type Polar struct {
	// AngleSamples is the number of uniformly spaced rays per profile.
	AngleSamples int

	// Easing applies a cubic ease-in-out to t for centroid and radii.
	Easing bool

	// AllowRotation interpolates the angular offset between the two
	// principal axes instead of holding the reconstruction base angle
	// at A's axis. Off by default: interpolating the axis can introduce
	// spurious apparent rotation between slices.
	AllowRotation bool

	// AreaClamp bounds the area correction factor to
	// [1−AreaClamp, 1+AreaClamp]. Zero means DefaultAreaClamp;
	// negative disables the correction entirely.
	AreaClamp float64
}

// NewPolar returns a Polar morpher with default sampling and clamping.
func NewPolar() *Polar {
	return &Polar{AngleSamples: DefaultAngleSamples, AreaClamp: DefaultAreaClamp}
}

// polarProfile is a contour resampled into a polar frame: radii at
// uniform angular steps measured from the centroid, starting at the
// principal-axis angle.
type polarProfile struct {
	center geom.Point
	axis   float64
	radii  []float64
}

// Interpolate builds polar profiles for both contours, resolves the
// principal-axis sign ambiguity, interpolates centroid and radii, and
// applies the clamped area-preserving correction before reconstructing
// the output contour.
func (m *Polar) Interpolate(a, b geom.Contour, t float64) Result {
	n := m.AngleSamples
	if n <= 0 {
		n = DefaultAngleSamples
	}
	te := t
	if m.Easing {
		te = EaseInOut(t)
	}
	outZ := lerp(a.Z, b.Z, t)

	if a.IsDegenerate() || b.IsDegenerate() {
		return m.degenerateFallback(a, b, te, outZ, n)
	}

	pa := profileOf(a, n)
	pb := profileOf(b, n)

	// A principal axis is sign-ambiguous: the eigenvector and its
	// negation describe the same axis. Try B's profile as sampled and
	// shifted by π, keep whichever lines up with A's profile. Skipping
	// this flips the interpolation on roughly half of real inputs.
	flipped := rotateHalf(pb.radii)
	if profileDist(pa.radii, flipped) < profileDist(pa.radii, pb.radii) {
		pb.radii = flipped
		pb.axis += math.Pi
	}

	center := pa.center.Lerp(pb.center, te)
	base := pa.axis
	if m.AllowRotation {
		base = pa.axis + te*wrapToPi(pb.axis-pa.axis)
	}

	radii := make([]float64, n)
	for i := range radii {
		radii[i] = lerp(pa.radii[i], pb.radii[i], te)
	}

	scale := m.areaCorrection(radii, lerp(a.Area(), b.Area(), te))
	for i := range radii {
		radii[i] *= scale
	}

	out := geom.Contour{Points: make([]geom.Point, n), Z: outZ}
	for i := range out.Points {
		theta := base + 2*math.Pi*float64(i)/float64(n)
		out.Points[i] = geom.Pt(
			center.X+radii[i]*math.Cos(theta),
			center.Y+radii[i]*math.Sin(theta),
		)
	}
	return Result{Contour: out, AreaScale: scale}
}

// degenerateFallback interpolates the two centroids only, emitting a
// repeated-point contour that downstream validity checks will flag.
func (m *Polar) degenerateFallback(a, b geom.Contour, te, outZ float64, n int) Result {
	center := a.Centroid().Lerp(b.Centroid(), te)
	out := geom.Contour{Points: make([]geom.Point, n), Z: outZ}
	for i := range out.Points {
		out.Points[i] = center
	}
	return Result{Contour: out, Degenerate: true, AreaScale: 1}
}

// areaCorrection returns the radial scale aligning the profile's implied
// area (∫½r²dθ) with targetArea, clamped to the configured band.
func (m *Polar) areaCorrection(radii []float64, targetArea float64) float64 {
	clamp := m.AreaClamp
	if clamp < 0 {
		return 1
	}
	if clamp == 0 {
		clamp = DefaultAreaClamp
	}
	current := profileArea(radii)
	if current < geom.DegenerateArea || targetArea < geom.DegenerateArea {
		return 1
	}
	scale := math.Sqrt(targetArea / current)
	return math.Min(1+clamp, math.Max(1-clamp, scale))
}

// profileArea is the polygonal area implied by a radius profile,
// ∫½r²dθ over the uniform angular bins.
func profileArea(radii []float64) float64 {
	dTheta := 2 * math.Pi / float64(len(radii))
	sum := 0.0
	for _, r := range radii {
		sum += 0.5 * r * r * dTheta
	}
	return sum
}

// profileOf samples c into a polar radius profile anchored at its
// centroid and principal axis.
func profileOf(c geom.Contour, n int) polarProfile {
	center := c.Centroid()
	axis := principalAngle(c.Points, center)
	radii := make([]float64, n)
	for i := range radii {
		theta := axis + 2*math.Pi*float64(i)/float64(n)
		dir := geom.Pt(math.Cos(theta), math.Sin(theta))
		radii[i] = castRay(c.Points, center, dir)
	}
	smoothCircular(radii)
	return polarProfile{center: center, axis: axis, radii: radii}
}

// principalAngle returns the angle of the major principal axis of the
// vertex cloud about center, via the eigen-decomposition of the 2×2
// covariance matrix.
func principalAngle(pts []geom.Point, center geom.Point) float64 {
	if len(pts) == 0 {
		return 0
	}
	var sxx, sxy, syy float64
	for _, p := range pts {
		dx := p.X - center.X
		dy := p.Y - center.Y
		sxx += dx * dx
		sxy += dx * dy
		syy += dy * dy
	}
	inv := 1 / float64(len(pts))
	cov := mat.NewSymDense(2, []float64{sxx * inv, sxy * inv, sxy * inv, syy * inv})

	var eig mat.EigenSym
	if !eig.Factorize(cov, true) {
		return 0
	}
	var vecs mat.Dense
	eig.VectorsTo(&vecs)
	// EigenSym orders eigenvalues ascending; the major axis is column 1.
	return math.Atan2(vecs.At(1, 1), vecs.At(0, 1))
}

// castRay returns the farthest intersection distance of the ray
// origin+s·dir (s ≥ 0) with any polygon edge. When no edge intersects
// (numerically degenerate polygons) it falls back to the farthest
// positive vertex projection onto the ray direction.
func castRay(pts []geom.Point, origin, dir geom.Point) float64 {
	best := -1.0
	m := len(pts)
	for i := 0; i < m; i++ {
		a := pts[i]
		b := pts[(i+1)%m]
		v := b.Sub(a)
		denom := dir.Cross(v)
		if math.Abs(denom) < rayEps {
			continue // parallel
		}
		ao := a.Sub(origin)
		s := ao.Cross(v) / denom
		u := ao.Cross(dir) / denom
		if s >= 0 && u >= -rayEps && u <= 1+rayEps {
			if s > best {
				best = s
			}
		}
	}
	if best >= 0 {
		return best
	}
	proj := 0.0
	for _, p := range pts {
		if d := p.Sub(origin).Dot(dir); d > proj {
			proj = d
		}
	}
	return proj
}

// smoothCircular applies a light circular moving average in place. The
// window scales with sample density so smoothing suppresses digitization
// noise without rounding real shape features.
func smoothCircular(radii []float64) {
	n := len(radii)
	half := n / 128
	if half < 1 {
		half = 1
	}
	src := make([]float64, n)
	copy(src, radii)
	w := float64(2*half + 1)
	for i := range radii {
		sum := 0.0
		for k := -half; k <= half; k++ {
			sum += src[(i+k+n)%n]
		}
		radii[i] = sum / w
	}
}

// rotateHalf returns the profile shifted by π (half the bins).
func rotateHalf(radii []float64) []float64 {
	n := len(radii)
	out := make([]float64, n)
	for i := range out {
		out[i] = radii[(i+n/2)%n]
	}
	return out
}

// profileDist is the L2 distance between two equal-length profiles.
func profileDist(a, b []float64) float64 {
	sum := 0.0
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return math.Sqrt(sum)
}

// wrapToPi maps an angle difference into (−π, π].
func wrapToPi(th float64) float64 {
	for th > math.Pi {
		th -= 2 * math.Pi
	}
	for th <= -math.Pi {
		th += 2 * math.Pi
	}
	return th
}

package interp

import (
	"github.com/oncoplan/interp/pkg/field"
	"github.com/oncoplan/interp/pkg/morph"
)

// Path selects which interpolation pipeline serves a request.
type Path int

const (
	// PathRaster is the SDF raster-blend pipeline, the higher-fidelity
	// default for clinically shaped structures.
	PathRaster Path = iota

	// PathLinear is the resample/align/lerp fallback.
	PathLinear

	// PathPolar is the PCA-anchored polar morph.
	PathPolar
)

// Adaptive grid spacing bounds (mm per cell). Spacing tightens for small
// shapes so the smaller bounding-box dimension always spans at least
// minSpanCells cells.
const (
	minGridSpacing = 0.10
	maxGridSpacing = 0.25
	minSpanCells   = 64
)

// DefaultGridPad is the mm margin added around the shared bounding box.
const DefaultGridPad = 2.0

// Config carries every knob of an interpolation request. The zero value
// is not useful; start from DefaultConfig.
type Config struct {
	// Path selects the pipeline.
	Path Path

	// SampleCount is the resampled point count for the linear path.
	// Zero selects the morpher default; negative is rejected.
	SampleCount int

	// AngleSamples is the ray count for the polar path. Zero selects
	// the morpher default; negative is rejected.
	AngleSamples int

	// Easing applies cubic ease-in-out to the shape fraction.
	Easing bool

	// AllowRotation lets the polar path interpolate the principal-axis
	// angle instead of pinning it to contour A's axis.
	AllowRotation bool

	// AreaClampFraction bounds the polar area correction (0 = default
	// band, negative disables).
	AreaClampFraction float64

	// Blend is the raster-path blend law.
	Blend field.BlendMode

	// GridSpacing in mm per cell; zero selects adaptive spacing.
	GridSpacing float64

	// GridPad is the mm margin around the shared bounding box.
	GridPad float64

	// ClosingRadiusMm enables morphological closing when positive.
	ClosingRadiusMm float64

	// ClosingShape is the structuring element for closing.
	ClosingShape field.CloseShape

	// CloseBeforeThreshold applies closing to the field before the
	// iso-level search rather than to the mask after it.
	CloseBeforeThreshold bool

	// SimplifyToleranceMm is the Douglas-Peucker tolerance applied to
	// extracted loops; zero selects half the grid spacing, negative
	// disables simplification.
	SimplifyToleranceMm float64
}

// DefaultConfig is the production configuration: the raster path with a
// linear blend, adaptive grid spacing, and closing disabled. Closing,
// when enabled, defaults to running after the threshold search — closing
// the field first dilates its support and biases the solved iso level
// outward, weakening the area constraint.
func DefaultConfig() Config {
	return Config{
		Path:         PathRaster,
		SampleCount:  morph.DefaultSampleCount,
		AngleSamples: morph.DefaultAngleSamples,
		Blend:        field.LinearBlend(),
		GridPad:      DefaultGridPad,
	}
}

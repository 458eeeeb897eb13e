// Package interp is the public surface of the contour gap interpolation
// engine. Given the contours drawn on two key slices and a target slice
// position between them, it synthesizes the missing contour through one
// of three pure pipelines: a raster SDF blend (default), a linear
// point-correspondence morph, or a PCA-anchored polar morph. The engine
// owns no rendering, persistence, or I/O; every call is an independent
// value computation.
package interp

import (
	"fmt"
	"math"

	"github.com/oncoplan/interp/pkg/extract"
	"github.com/oncoplan/interp/pkg/field"
	"github.com/oncoplan/interp/pkg/geom"
	"github.com/oncoplan/interp/pkg/morph"
)

// sliceZEps is the mm tolerance for treating slice positions as equal.
const sliceZEps = 1e-6

// Request is one interpolation call: the loops drawn on the two key
// slices (each loop tagged with its slice Z) and the target position.
type Request struct {
	// A and B are the key slices' loops. A structure may have several
	// disjoint loops on one slice; the raster path honors all of them,
	// the correspondence paths follow the dominant loop.
	A, B []geom.Contour

	// TargetZ is the slice position to synthesize, inside [zA, zB].
	TargetZ float64

	Config Config
}

// Result is the synthesized contour set at the target slice.
type Result struct {
	// Loops are the output boundary loops at TargetZ. Empty is a valid
	// outcome: the structure is absent on this slice.
	Loops []geom.Contour

	// EstimatedArea is the enclosed area of the output in mm².
	EstimatedArea float64

	// Confidence is a [0,1] quality score; callers dissatisfied with a
	// low value may re-invoke with a different blend configuration.
	Confidence float64

	// Degenerate marks results produced through a centroid fallback so
	// callers can warn instead of rendering a misleading sliver.
	Degenerate bool
}

// Interpolate validates the request and dispatches it to the configured
// pipeline. It returns InvalidInputError for requests it refuses to
// guess around and field.GridTooLargeError when spacing/pad choices
// would allocate an unbounded grid.
func Interpolate(req Request) (*Result, error) {
	zA, zB, err := validate(req)
	if err != nil {
		return nil, err
	}
	t := (req.TargetZ - zA) / (zB - zA)
	t = math.Max(0, math.Min(1, t))

	a := geom.LargestLoop(req.A)
	b := geom.LargestLoop(req.B)

	// A degenerate key contour (area ≈ 0) cannot drive the raster path;
	// fall through to the correspondence morph, which carries an
	// explicit centroid fallback.
	degenerateInput := geom.TotalArea(req.A) < geom.DegenerateArea ||
		geom.TotalArea(req.B) < geom.DegenerateArea

	switch {
	case req.Config.Path == PathLinear || degenerateInput:
		return morphResult(linearMorpher(req.Config).Interpolate(a, b, t), req.TargetZ), nil
	case req.Config.Path == PathPolar:
		return morphResult(polarMorpher(req.Config).Interpolate(a, b, t), req.TargetZ), nil
	default:
		return rasterInterpolate(req, t, zA, zB)
	}
}

func linearMorpher(cfg Config) *morph.Linear {
	return &morph.Linear{Samples: cfg.SampleCount, Easing: cfg.Easing}
}

func polarMorpher(cfg Config) *morph.Polar {
	return &morph.Polar{
		AngleSamples:  cfg.AngleSamples,
		Easing:        cfg.Easing,
		AllowRotation: cfg.AllowRotation,
		AreaClamp:     cfg.AreaClampFraction,
	}
}

// morphResult wraps a correspondence-path result, scoring confidence
// from the degeneracy flag and the applied area correction.
func morphResult(r morph.Result, targetZ float64) *Result {
	r.Contour.Z = targetZ
	out := &Result{
		Loops:         []geom.Contour{r.Contour},
		EstimatedArea: r.Contour.Area(),
		Degenerate:    r.Degenerate,
	}
	if r.Degenerate {
		// Keep the collapsed fallback loop: callers can still place a
		// warning marker at the interpolated position instead of
		// treating the slice as empty.
		return out
	}
	out.Confidence = math.Max(0, 1-5*math.Abs(r.AreaScale-1))
	return out
}

// rasterInterpolate runs the SDF pipeline: shared grid, rasterize both
// key slices, signed distance transform, blend, iso-level solve under
// the interpolated area target, and loop extraction.
func rasterInterpolate(req Request, t, zA, zB float64) (*Result, error) {
	cfg := req.Config
	all := append(append([]geom.Contour{}, req.A...), req.B...)

	spacing := adaptiveSpacing(cfg.GridSpacing, all)
	pad := cfg.GridPad
	if pad <= 0 {
		pad = DefaultGridPad
	}
	grid, err := field.GridFor(all, spacing, pad)
	if err != nil {
		return nil, err
	}

	maskA := field.Rasterize(req.A, grid)
	maskB := field.Rasterize(req.B, grid)
	if maskA.Count() == 0 || maskB.Count() == 0 {
		// A key contour thinner than a cell rasterizes empty; the
		// correspondence fallback still produces a usable answer.
		res := morphResult(linearMorpher(cfg).Interpolate(
			geom.LargestLoop(req.A), geom.LargestLoop(req.B), t), req.TargetZ)
		res.Degenerate = true
		res.Confidence = 0
		return res, nil
	}

	sdfA := field.SDFFromMask(maskA)
	sdfB := field.SDFFromMask(maskB)

	dzA := math.Abs(req.TargetZ - zA)
	dzB := math.Abs(zB - req.TargetZ)
	blended, err := field.Blend(sdfA, sdfB, t, dzA, dzB, cfg.Blend)
	if err != nil {
		return nil, fmt.Errorf("blending fields: %w", err)
	}

	targetArea := (1-t)*maskA.Area() + t*maskB.Area()
	mask, _ := field.SolveIso(blended, targetArea, field.SolveOptions{
		ClosingRadiusMm:      cfg.ClosingRadiusMm,
		Shape:                cfg.ClosingShape,
		CloseBeforeThreshold: cfg.CloseBeforeThreshold,
	})

	tol := cfg.SimplifyToleranceMm
	if tol == 0 {
		tol = spacing / 2
	}
	loops := extract.Loops(mask, req.TargetZ, tol)

	outArea := mask.Area()
	residual := 0.0
	if targetArea > 0 {
		residual = math.Abs(outArea-targetArea) / targetArea
	}
	return &Result{
		Loops:         loops,
		EstimatedArea: outArea,
		Confidence:    math.Max(0, 1-2*residual),
	}, nil
}

// adaptiveSpacing picks the cell size: explicit spacing is clamped to
// the floor, otherwise the smaller dimension of the shared bounding box
// spans at least minSpanCells cells, within [0.10, 0.25] mm.
func adaptiveSpacing(explicit float64, loops []geom.Contour) float64 {
	if explicit > 0 {
		return math.Max(minGridSpacing, explicit)
	}
	min, max := geom.Bounds(loops...)
	span := math.Min(max.X-min.X, max.Y-min.Y)
	spacing := span / minSpanCells
	return math.Max(minGridSpacing, math.Min(maxGridSpacing, spacing))
}

// validate applies the fail-fast input checks. It returns the ordered
// slice positions (zA ≤ zB may not hold in the request; the returned
// pair preserves request order, which t is computed against).
func validate(req Request) (zA, zB float64, err error) {
	if req.Config.SampleCount < 0 || req.Config.AngleSamples < 0 {
		return 0, 0, InvalidInputError{Field: "config", Reason: "negative sample count"}
	}
	zA, err = sliceZ(req.A, "contourA")
	if err != nil {
		return 0, 0, err
	}
	zB, err = sliceZ(req.B, "contourB")
	if err != nil {
		return 0, 0, err
	}
	if math.Abs(zA-zB) < sliceZEps {
		return 0, 0, InvalidInputError{Field: "z", Reason: "key slices coincide (zA == zB)"}
	}
	lo, hi := math.Min(zA, zB), math.Max(zA, zB)
	if req.TargetZ < lo-sliceZEps || req.TargetZ > hi+sliceZEps {
		return 0, 0, InvalidInputError{
			Field:  "targetZ",
			Reason: fmt.Sprintf("%g outside key slice range [%g, %g]", req.TargetZ, lo, hi),
		}
	}
	return zA, zB, nil
}

// sliceZ checks one key slice's loops and returns their common Z.
func sliceZ(loops []geom.Contour, name string) (float64, error) {
	if len(loops) == 0 {
		return 0, InvalidInputError{Field: name, Reason: "no loops"}
	}
	for _, c := range loops {
		if len(c.Points) < 3 {
			return 0, InvalidInputError{
				Field:  name,
				Reason: fmt.Sprintf("loop has %d points, need at least 3", len(c.Points)),
			}
		}
		if math.Abs(c.Z-loops[0].Z) > sliceZEps {
			return 0, InvalidInputError{Field: name, Reason: "loops on one slice disagree on z"}
		}
	}
	return loops[0].Z, nil
}

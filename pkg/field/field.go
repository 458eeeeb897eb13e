// Package field implements the raster interpolation path: rasterizing
// contour loops onto a shared grid, exact signed Euclidean distance
// transforms, the selectable blend laws, and the iso-level solver that
// thresholds a blended field under an area constraint.
package field

import (
	"fmt"
	"math"

	"github.com/oncoplan/interp/pkg/geom"
)

// MaxGridDim caps each grid dimension. Pathological spacing/pad choices
// fail fast with GridTooLargeError instead of allocating unboundedly.
const MaxGridDim = 2048

// GridTooLargeError reports a grid whose dimensions exceed MaxGridDim.
type GridTooLargeError struct {
	W, H  int
	Limit int
}

func (e GridTooLargeError) Error() string {
	return fmt.Sprintf("grid %dx%d exceeds the %d-cell dimension cap; increase spacing or reduce pad", e.W, e.H, e.Limit)
}

// Grid describes a uniform raster over patient space. Cell (ix, iy)
// samples the point at its center. Spacing is in mm per cell.
type Grid struct {
	MinX, MinY float64
	Spacing    float64
	W, H       int
}

// CellCenter returns the patient-space position sampled by cell (ix, iy).
func (g Grid) CellCenter(ix, iy int) geom.Point {
	return geom.Pt(
		g.MinX+(float64(ix)+0.5)*g.Spacing,
		g.MinY+(float64(iy)+0.5)*g.Spacing,
	)
}

// CellArea returns the area of one cell in mm².
func (g Grid) CellArea() float64 {
	return g.Spacing * g.Spacing
}

// Index returns the flat index of cell (ix, iy).
func (g Grid) Index(ix, iy int) int {
	return iy*g.W + ix
}

// Equal reports whether two grids describe the same raster.
func (g Grid) Equal(o Grid) bool {
	return g.W == o.W && g.H == o.H &&
		math.Abs(g.MinX-o.MinX) < 1e-9 &&
		math.Abs(g.MinY-o.MinY) < 1e-9 &&
		math.Abs(g.Spacing-o.Spacing) < 1e-12
}

// GridFor builds the shared grid covering every given loop, expanded by
// pad mm on all sides. Both key slices' loops must go through the same
// call so their fields live on one comparable grid.
func GridFor(loops []geom.Contour, spacing, pad float64) (Grid, error) {
	if spacing <= 0 {
		return Grid{}, fmt.Errorf("grid spacing must be positive, got %g", spacing)
	}
	min, max := geom.Bounds(loops...)
	min = min.Sub(geom.Pt(pad, pad))
	max = max.Add(geom.Pt(pad, pad))
	w := int(math.Ceil((max.X-min.X)/spacing)) + 1
	h := int(math.Ceil((max.Y-min.Y)/spacing)) + 1
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	if w > MaxGridDim || h > MaxGridDim {
		return Grid{}, GridTooLargeError{W: w, H: h, Limit: MaxGridDim}
	}
	return Grid{MinX: min.X, MinY: min.Y, Spacing: spacing, W: w, H: h}, nil
}

// Mask is a binary raster over a grid.
type Mask struct {
	Grid
	Inside []bool
}

// NewMask returns an all-outside mask over g.
func NewMask(g Grid) Mask {
	return Mask{Grid: g, Inside: make([]bool, g.W*g.H)}
}

// Count returns the number of inside cells.
func (m Mask) Count() int {
	n := 0
	for _, in := range m.Inside {
		if in {
			n++
		}
	}
	return n
}

// Area returns the inside area in mm².
func (m Mask) Area() float64 {
	return float64(m.Count()) * m.CellArea()
}

// SignedDistanceField holds per-cell signed distances to the nearest
// shape boundary, in mm: negative inside, positive outside.
type SignedDistanceField struct {
	Grid
	Values []float64
}

// Clone returns a deep copy of f.
func (f SignedDistanceField) Clone() SignedDistanceField {
	out := SignedDistanceField{Grid: f.Grid, Values: make([]float64, len(f.Values))}
	copy(out.Values, f.Values)
	return out
}

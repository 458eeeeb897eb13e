package field

import "math"

// CloseShape selects the structuring element for morphological closing.
type CloseShape int

const (
	// CloseSquare uses the Chebyshev ball (square element).
	CloseSquare CloseShape = iota
	// CloseDiamond uses the Manhattan ball (diamond element).
	CloseDiamond
)

// String returns the shape's name for reports.
func (s CloseShape) String() string {
	if s == CloseDiamond {
		return "diamond"
	}
	return "square"
}

// defaultIsoIterations is enough for sub-cell convergence of the
// threshold search over any realistic field range.
const defaultIsoIterations = 24

// SolveOptions configures the iso-level search.
type SolveOptions struct {
	// ClosingRadiusMm is the morphological closing radius; zero skips
	// closing altogether.
	ClosingRadiusMm float64

	// Shape is the structuring element used for closing.
	Shape CloseShape

	// CloseBeforeThreshold applies a grayscale closing to the field
	// before the threshold search instead of a binary closing to the
	// mask after it. The two orderings select genuinely different
	// thresholds; both are real code paths.
	CloseBeforeThreshold bool

	// Iterations overrides the binary-search depth (0 = default 24).
	Iterations int
}

// SolveIso binary-searches the threshold τ on the blended field such
// that the cell count of {v ≤ τ} matches targetArea. It returns the
// resulting mask and the solved τ.
func SolveIso(f SignedDistanceField, targetArea float64, opt SolveOptions) (Mask, float64) {
	field := f
	radius := int(math.Round(opt.ClosingRadiusMm / f.Spacing))
	if opt.CloseBeforeThreshold && radius > 0 {
		field = grayClose(f, radius, opt.Shape)
	}

	iters := opt.Iterations
	if iters <= 0 {
		iters = defaultIsoIterations
	}
	targetCells := int(math.Round(targetArea / f.CellArea()))

	lo, hi := field.Values[0], field.Values[0]
	for _, v := range field.Values[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	for i := 0; i < iters; i++ {
		mid := (lo + hi) / 2
		if countAtOrBelow(field.Values, mid) < targetCells {
			lo = mid
		} else {
			hi = mid
		}
	}
	// The quantized distance field has tie plateaus where many cells
	// share one value; a midpoint between the converged bounds can fall
	// just below a plateau and exclude every tied cell at once. Pick the
	// bound whose count lands closer to the target instead.
	tau := hi
	if nLo, nHi := countAtOrBelow(field.Values, lo), countAtOrBelow(field.Values, hi); abs(nLo-targetCells) < abs(nHi-targetCells) {
		tau = lo
	}

	mask := NewMask(field.Grid)
	for i, v := range field.Values {
		mask.Inside[i] = v <= tau
	}
	if !opt.CloseBeforeThreshold && radius > 0 {
		mask = binaryClose(mask, radius, opt.Shape)
	}
	return mask, tau
}

func countAtOrBelow(values []float64, tau float64) int {
	n := 0
	for _, v := range values {
		if v <= tau {
			n++
		}
	}
	return n
}

// elementOffsets enumerates the structuring element as cell offsets.
func elementOffsets(radius int, shape CloseShape) [][2]int {
	var offs [][2]int
	for dy := -radius; dy <= radius; dy++ {
		for dx := -radius; dx <= radius; dx++ {
			if shape == CloseDiamond && abs(dx)+abs(dy) > radius {
				continue
			}
			offs = append(offs, [2]int{dx, dy})
		}
	}
	return offs
}

// binaryClose dilates then erodes the mask with the given element.
// Cells beyond the grid border count as outside.
func binaryClose(m Mask, radius int, shape CloseShape) Mask {
	offs := elementOffsets(radius, shape)
	dilated := NewMask(m.Grid)
	for iy := 0; iy < m.H; iy++ {
		for ix := 0; ix < m.W; ix++ {
			for _, o := range offs {
				x, y := ix+o[0], iy+o[1]
				if x >= 0 && x < m.W && y >= 0 && y < m.H && m.Inside[m.Index(x, y)] {
					dilated.Inside[m.Index(ix, iy)] = true
					break
				}
			}
		}
	}
	eroded := NewMask(m.Grid)
	for iy := 0; iy < m.H; iy++ {
		for ix := 0; ix < m.W; ix++ {
			all := true
			for _, o := range offs {
				x, y := ix+o[0], iy+o[1]
				if x < 0 || x >= m.W || y < 0 || y >= m.H || !dilated.Inside[m.Index(x, y)] {
					all = false
					break
				}
			}
			eroded.Inside[eroded.Index(ix, iy)] = all
		}
	}
	return eroded
}

// grayClose is the grayscale closing of the field: a min filter (which
// grows the {v ≤ τ} region, i.e. dilates the shape) followed by a max
// filter.
func grayClose(f SignedDistanceField, radius int, shape CloseShape) SignedDistanceField {
	offs := elementOffsets(radius, shape)
	minPass := SignedDistanceField{Grid: f.Grid, Values: make([]float64, len(f.Values))}
	for iy := 0; iy < f.H; iy++ {
		for ix := 0; ix < f.W; ix++ {
			best := math.Inf(1)
			for _, o := range offs {
				x, y := ix+o[0], iy+o[1]
				if x >= 0 && x < f.W && y >= 0 && y < f.H {
					best = math.Min(best, f.Values[f.Index(x, y)])
				}
			}
			minPass.Values[f.Index(ix, iy)] = best
		}
	}
	out := SignedDistanceField{Grid: f.Grid, Values: make([]float64, len(f.Values))}
	for iy := 0; iy < f.H; iy++ {
		for ix := 0; ix < f.W; ix++ {
			best := math.Inf(-1)
			for _, o := range offs {
				x, y := ix+o[0], iy+o[1]
				if x >= 0 && x < f.W && y >= 0 && y < f.H {
					best = math.Max(best, minPass.Values[f.Index(x, y)])
				}
			}
			out.Values[f.Index(ix, iy)] = best
		}
	}
	return out
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

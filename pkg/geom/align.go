package geom

// maxRotationScan caps how many cyclic rotations the aligner evaluates.
// Above this the scan strides through the offsets, trading a little
// optimality for bounded cost on very dense polygons.
const maxRotationScan = 256

// Align reorders tgt so that it best corresponds point-for-point with
// src under the sum of squared pair distances. The search covers every
// cyclic rotation of tgt and of its reversal, which absorbs both the
// arbitrary start vertex and the winding flips introduced when the two
// contours were drawn independently. Both slices must have equal length;
// the input slices are never mutated. Align always returns a usable
// ordering, falling back to tgt itself for empty or mismatched input.
func Align(src, tgt []Point) []Point {
	n := len(tgt)
	if n == 0 || len(src) != n {
		return tgt
	}

	reversed := make([]Point, n)
	for i, p := range tgt {
		reversed[n-1-i] = p
	}

	stride := 1
	if n > maxRotationScan {
		stride = n / maxRotationScan
	}

	bestCost := alignCost(src, tgt, 0)
	bestOffset := 0
	bestReversed := false
	for _, rev := range []bool{false, true} {
		cand := tgt
		if rev {
			cand = reversed
		}
		for off := 0; off < n; off += stride {
			cost := alignCost(src, cand, off)
			if cost < bestCost {
				bestCost = cost
				bestOffset = off
				bestReversed = rev
			}
		}
	}

	cand := tgt
	if bestReversed {
		cand = reversed
	}
	out := make([]Point, n)
	for i := range out {
		out[i] = cand[(i+bestOffset)%n]
	}
	return out
}

// alignCost returns the sum of squared distances between src[i] and
// cand[(i+offset) mod n].
func alignCost(src, cand []Point, offset int) float64 {
	n := len(src)
	cost := 0.0
	for i := 0; i < n; i++ {
		d := src[i].Sub(cand[(i+offset)%n])
		cost += d.Dot(d)
	}
	return cost
}

package field

import "math"

// edtInf stands in for +∞ in the squared-distance grids. Large enough
// that no real squared cell distance approaches it, small enough that
// arithmetic on it stays finite.
const edtInf = 1e20

// SDFFromMask computes the exact signed Euclidean distance field of a
// binary mask using the Felzenszwalb-Huttenlocher separable 1D transform
// (lower envelope of parabolas), run on rows then columns, once for the
// inside indicator and once for the outside indicator. The signed value
// is sqrt(distance-to-inside) − sqrt(distance-to-outside), scaled to mm
// by the grid spacing: negative inside the shape, positive outside. The separable O(W·H)
// form matters — the grids routinely exceed 400×400 cells.
func SDFFromMask(m Mask) SignedDistanceField {
	n := m.W * m.H

	// Squared distance to the inside set (zero at inside cells).
	toInside := make([]float64, n)
	// Squared distance to the outside set (zero at outside cells).
	toOutside := make([]float64, n)
	for i, in := range m.Inside {
		if in {
			toInside[i] = 0
			toOutside[i] = edtInf
		} else {
			toInside[i] = edtInf
			toOutside[i] = 0
		}
	}
	edt2d(toInside, m.W, m.H)
	edt2d(toOutside, m.W, m.H)

	out := SignedDistanceField{Grid: m.Grid, Values: make([]float64, n)}
	for i := range out.Values {
		out.Values[i] = (math.Sqrt(toInside[i]) - math.Sqrt(toOutside[i])) * m.Spacing
	}
	return out
}

// edt2d runs the 1D squared distance transform over every row, then
// every column, in place. Distances are in cell units.
func edt2d(f []float64, w, h int) {
	maxDim := w
	if h > maxDim {
		maxDim = h
	}
	row := make([]float64, maxDim)
	d := make([]float64, maxDim)
	v := make([]int, maxDim)
	z := make([]float64, maxDim+1)

	for y := 0; y < h; y++ {
		copy(row[:w], f[y*w:(y+1)*w])
		edt1d(row[:w], d[:w], v[:w], z[:w+1])
		copy(f[y*w:(y+1)*w], d[:w])
	}
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			row[y] = f[y*w+x]
		}
		edt1d(row[:h], d[:h], v[:h], z[:h+1])
		for y := 0; y < h; y++ {
			f[y*w+x] = d[y]
		}
	}
}

// edt1d is the exact 1D squared Euclidean distance transform of sampled
// function f, via the lower envelope of the parabolas y = f[q] + (x−q)².
func edt1d(f, d []float64, v []int, z []float64) {
	n := len(f)
	k := 0
	v[0] = 0
	z[0] = -edtInf
	z[1] = edtInf
	for q := 1; q < n; q++ {
		s := intersectParabolas(f, q, v[k])
		for s <= z[k] {
			k--
			s = intersectParabolas(f, q, v[k])
		}
		k++
		v[k] = q
		z[k] = s
		z[k+1] = edtInf
	}
	k = 0
	for q := 0; q < n; q++ {
		for z[k+1] < float64(q) {
			k++
		}
		dq := float64(q - v[k])
		d[q] = dq*dq + f[v[k]]
	}
}

// intersectParabolas returns the abscissa where the parabolas rooted at
// q and p cross.
func intersectParabolas(f []float64, q, p int) float64 {
	fq := float64(q)
	fp := float64(p)
	return ((f[q] + fq*fq) - (f[p] + fp*fp)) / (2*fq - 2*fp)
}

package geom

// perimeterEps is the total arc length (mm) below which a polygon is
// treated as a single point for resampling purposes.
const perimeterEps = 1e-9

// Resample returns a copy of c with exactly n points spaced evenly by arc
// length along the closed boundary, starting at c's first vertex. A
// zero-perimeter input yields n copies of the first vertex; callers detect
// that case through the contour's area, not through an error.
func Resample(c Contour, n int) Contour {
	out := Contour{Points: make([]Point, n), Z: c.Z}
	if n <= 0 {
		out.Points = nil
		return out
	}
	if len(c.Points) == 0 {
		return out
	}

	// Cumulative arc length over every edge, including the implicit
	// closing edge back to the first vertex.
	m := len(c.Points)
	cum := make([]float64, m+1)
	for i := 0; i < m; i++ {
		next := c.Points[(i+1)%m]
		cum[i+1] = cum[i] + c.Points[i].DistTo(next)
	}
	total := cum[m]
	if total < perimeterEps {
		for i := range out.Points {
			out.Points[i] = c.Points[0]
		}
		return out
	}

	seg := 0
	for i := 0; i < n; i++ {
		target := total * float64(i) / float64(n)
		for seg < m-1 && cum[seg+1] < target {
			seg++
		}
		segLen := cum[seg+1] - cum[seg]
		var frac float64
		if segLen > perimeterEps {
			frac = (target - cum[seg]) / segLen
		}
		a := c.Points[seg]
		b := c.Points[(seg+1)%m]
		out.Points[i] = a.Lerp(b, frac)
	}
	return out
}

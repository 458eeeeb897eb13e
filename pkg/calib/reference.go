package calib

import (
	"fmt"
	"math"

	"github.com/deadsy/sdfx/sdf"
	v2 "github.com/deadsy/sdfx/vec/v2"

	"github.com/oncoplan/interp/pkg/field"
	"github.com/oncoplan/interp/pkg/geom"
)

// AnalyticSDF builds an exact analytic signed distance function for a
// single contour. It is the independent reference the harness uses to
// score the grid distance transform itself, not just the final overlap.
func AnalyticSDF(c geom.Contour) (sdf.SDF2, error) {
	if len(c.Points) < 3 {
		return nil, fmt.Errorf("analytic sdf: contour has %d points, need at least 3", len(c.Points))
	}
	verts := make([]v2.Vec, len(c.Points))
	for i, p := range c.Points {
		verts[i] = v2.Vec{X: p.X, Y: p.Y}
	}
	return sdf.Polygon2D(verts)
}

// FieldRMSE samples the analytic SDF at every cell center of the grid
// field and returns the root-mean-square disagreement in mm. The grid
// transform quantizes the boundary to cell centers, so values around
// half a cell are expected; anything beyond a cell indicates a
// transform regression.
func FieldRMSE(f field.SignedDistanceField, ref sdf.SDF2) float64 {
	if len(f.Values) == 0 {
		return 0
	}
	sum := 0.0
	for iy := 0; iy < f.H; iy++ {
		for ix := 0; ix < f.W; ix++ {
			p := f.CellCenter(ix, iy)
			d := f.Values[f.Index(ix, iy)] - ref.Evaluate(v2.Vec{X: p.X, Y: p.Y})
			sum += d * d
		}
	}
	return math.Sqrt(sum / float64(len(f.Values)))
}

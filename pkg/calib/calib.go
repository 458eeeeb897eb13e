// Package calib is the offline accuracy-calibration harness. It scores
// interpolation configurations against labelled ground-truth contours
// using the Dice coefficient and sweeps the full blend search space, so
// regressions against the reference planning system's own interpolation
// surface before a default configuration ships. Nothing in the runtime
// engine depends on this package.
package calib

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/oncoplan/interp/pkg/field"
	"github.com/oncoplan/interp/pkg/geom"
	"github.com/oncoplan/interp/pkg/interp"
)

// scoreGridPad is the mm margin used for scoring grids.
const scoreGridPad = 2.0

// Fixture is one labelled case: the two key slices, the target
// position, and the reference system's contour at that position.
type Fixture struct {
	Name    string
	A, B    []geom.Contour
	TargetZ float64
	Truth   []geom.Contour
}

// Dice returns 2·|A∩B| / (|A|+|B|) over two masks on the same grid.
// Two empty masks score 1: absent matches absent.
func Dice(a, b field.Mask) (float64, error) {
	if !a.Grid.Equal(b.Grid) {
		return 0, fmt.Errorf("dice: masks on different grids")
	}
	inter, total := 0, 0
	for i := range a.Inside {
		if a.Inside[i] && b.Inside[i] {
			inter++
		}
		if a.Inside[i] {
			total++
		}
		if b.Inside[i] {
			total++
		}
	}
	if total == 0 {
		return 1, nil
	}
	return 2 * float64(inter) / float64(total), nil
}

// ScoreFixture runs one fixture through the engine with the given
// configuration and returns the Dice overlap between the produced loops
// and the ground truth, both rasterized on one shared grid.
func ScoreFixture(f Fixture, cfg interp.Config) (float64, error) {
	res, err := interp.Interpolate(interp.Request{
		A:       f.A,
		B:       f.B,
		TargetZ: f.TargetZ,
		Config:  cfg,
	})
	if err != nil {
		return 0, fmt.Errorf("fixture %s: %w", f.Name, err)
	}

	spacing := cfg.GridSpacing
	if spacing <= 0 {
		spacing = 0.25
	}
	all := append(append([]geom.Contour{}, f.Truth...), res.Loops...)
	grid, err := field.GridFor(all, spacing, scoreGridPad)
	if err != nil {
		return 0, fmt.Errorf("fixture %s: %w", f.Name, err)
	}
	return Dice(field.Rasterize(res.Loops, grid), field.Rasterize(f.Truth, grid))
}

// Summary aggregates per-fixture Dice scores for one candidate.
type Summary struct {
	Mean, Median, Worst, Best float64
}

// summarize computes the aggregate statistics over raw scores.
func summarize(scores []float64) Summary {
	sorted := make([]float64, len(scores))
	copy(sorted, scores)
	sort.Float64s(sorted)
	return Summary{
		Mean:   stat.Mean(sorted, nil),
		Median: stat.Quantile(0.5, stat.Empirical, sorted, nil),
		Worst:  sorted[0],
		Best:   sorted[len(sorted)-1],
	}
}

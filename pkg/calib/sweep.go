package calib

import (
	"fmt"

	"github.com/oncoplan/interp/pkg/field"
	"github.com/oncoplan/interp/pkg/interp"
)

// Candidate is one point in the calibration search space.
type Candidate struct {
	Mode                 field.BlendMode
	ClosingRadiusMm      float64
	Shape                field.CloseShape
	CloseBeforeThreshold bool
}

// String renders the candidate compactly for reports.
func (c Candidate) String() string {
	if c.ClosingRadiusMm <= 0 {
		return c.Mode.String()
	}
	order := "after"
	if c.CloseBeforeThreshold {
		order = "before"
	}
	return fmt.Sprintf("%s close=%gmm/%s/%s", c.Mode, c.ClosingRadiusMm, c.Shape, order)
}

// Score is a candidate with its aggregate fixture statistics.
type Score struct {
	Candidate
	Summary
}

// Report is the outcome of a full sweep.
type Report struct {
	Scores []Score
	Winner Score
}

// DefaultSearchSpace enumerates mode × closing radius × blend parameter
// × structuring shape × closing order. Radius zero disables closing, so
// shape and order collapse to a single entry there.
func DefaultSearchSpace() []Candidate {
	modes := []field.BlendMode{
		field.LinearBlend(),
		field.SmoothMinBlend(1),
		field.SmoothMinBlend(2),
		field.SmoothMinBlend(4),
		field.LpNormBlend(1),
		field.LpNormBlend(2),
		field.LpNormBlend(4),
		field.ConeOffsetBlend(0.5),
		field.ConeOffsetBlend(1),
		field.ConeOffsetBlend(2),
	}
	radii := []float64{0, 1, 2}
	shapes := []field.CloseShape{field.CloseSquare, field.CloseDiamond}

	var out []Candidate
	for _, mode := range modes {
		for _, r := range radii {
			if r == 0 {
				out = append(out, Candidate{Mode: mode})
				continue
			}
			for _, shape := range shapes {
				for _, before := range []bool{false, true} {
					out = append(out, Candidate{
						Mode:                 mode,
						ClosingRadiusMm:      r,
						Shape:                shape,
						CloseBeforeThreshold: before,
					})
				}
			}
		}
	}
	return out
}

// Evaluate scores one candidate over every fixture. A panic inside the
// numeric pipeline is caught and surfaced as an error so a single bad
// candidate cannot take down a long sweep.
func Evaluate(c Candidate, fixtures []Fixture, base interp.Config) (s Score, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("candidate %s: panic during evaluation: %v", c, r)
		}
	}()
	if len(fixtures) == 0 {
		return Score{}, fmt.Errorf("no fixtures to evaluate")
	}

	cfg := base
	cfg.Blend = c.Mode
	cfg.ClosingRadiusMm = c.ClosingRadiusMm
	cfg.ClosingShape = c.Shape
	cfg.CloseBeforeThreshold = c.CloseBeforeThreshold

	scores := make([]float64, 0, len(fixtures))
	for _, f := range fixtures {
		d, err := ScoreFixture(f, cfg)
		if err != nil {
			return Score{}, err
		}
		scores = append(scores, d)
	}
	return Score{Candidate: c, Summary: summarize(scores)}, nil
}

// Sweep evaluates the default search space over the fixtures and
// returns every score plus the winner by mean Dice.
func Sweep(fixtures []Fixture, base interp.Config) (*Report, error) {
	return SweepCandidates(DefaultSearchSpace(), fixtures, base)
}

// SweepCandidates is Sweep over an explicit candidate list.
func SweepCandidates(candidates []Candidate, fixtures []Fixture, base interp.Config) (*Report, error) {
	if len(candidates) == 0 {
		return nil, fmt.Errorf("empty candidate list")
	}
	report := &Report{Scores: make([]Score, 0, len(candidates))}
	for _, c := range candidates {
		s, err := Evaluate(c, fixtures, base)
		if err != nil {
			return nil, err
		}
		report.Scores = append(report.Scores, s)
		if len(report.Scores) == 1 || s.Mean > report.Winner.Mean {
			report.Winner = s
		}
	}
	return report, nil
}

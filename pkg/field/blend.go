package field

import (
	"fmt"
	"math"
)

// BlendKind selects the law used to combine the two distance fields.
type BlendKind int

const (
	// BlendLinear is the plain per-cell lerp of the two fields.
	BlendLinear BlendKind = iota

	// BlendSmoothMin is an order-independent log-sum-exp blend that
	// rounds concave unions instead of linearly averaging distances.
	BlendSmoothMin

	// BlendLpNorm blends inside and outside magnitudes independently
	// through a weighted p-norm.
	BlendLpNorm

	// BlendConeOffset shrinks each source's influence with its physical
	// distance from the target slice.
	BlendConeOffset
)

// String returns the kind's name for reports and logs.
func (k BlendKind) String() string {
	switch k {
	case BlendLinear:
		return "linear"
	case BlendSmoothMin:
		return "smoothmin"
	case BlendLpNorm:
		return "lpnorm"
	case BlendConeOffset:
		return "coneoffset"
	}
	return fmt.Sprintf("BlendKind(%d)", int(k))
}

// BlendMode is a tagged blend-law configuration. Exactly one of the
// parameter fields is meaningful per kind.
type BlendMode struct {
	Kind BlendKind

	// Alpha is the SmoothMin softness in mm. Zero selects 2× the grid
	// spacing at blend time.
	Alpha float64

	// P is the LpNorm exponent, valid in [0.5, 8].
	P float64

	// K is the ConeOffset falloff in mm of distance per mm of slice
	// offset.
	K float64
}

// LinearBlend returns the linear blend mode.
func LinearBlend() BlendMode { return BlendMode{Kind: BlendLinear} }

// SmoothMinBlend returns a SmoothMin mode with the given softness (mm).
func SmoothMinBlend(alpha float64) BlendMode {
	return BlendMode{Kind: BlendSmoothMin, Alpha: alpha}
}

// LpNormBlend returns an LpNorm mode with the given exponent.
func LpNormBlend(p float64) BlendMode { return BlendMode{Kind: BlendLpNorm, P: p} }

// ConeOffsetBlend returns a ConeOffset mode with the given falloff.
func ConeOffsetBlend(k float64) BlendMode { return BlendMode{Kind: BlendConeOffset, K: k} }

// String renders the mode and its active parameter.
func (m BlendMode) String() string {
	switch m.Kind {
	case BlendSmoothMin:
		return fmt.Sprintf("smoothmin(alpha=%g)", m.Alpha)
	case BlendLpNorm:
		return fmt.Sprintf("lpnorm(p=%g)", m.P)
	case BlendConeOffset:
		return fmt.Sprintf("coneoffset(k=%g)", m.K)
	}
	return m.Kind.String()
}

// Blend combines two distance fields on the same grid at fraction t.
// dzA and dzB are the absolute mm offsets of the target slice from each
// source slice (only the ConeOffset law reads them). Every mode reduces
// exactly to field A at t=0 and field B at t=1.
func Blend(a, b SignedDistanceField, t float64, dzA, dzB float64, mode BlendMode) (SignedDistanceField, error) {
	if !a.Grid.Equal(b.Grid) {
		return SignedDistanceField{}, fmt.Errorf("blend: fields on different grids (%dx%d vs %dx%d)", a.W, a.H, b.W, b.H)
	}
	// Endpoint exactness is part of the contract for all laws.
	if t <= 0 {
		return a.Clone(), nil
	}
	if t >= 1 {
		return b.Clone(), nil
	}

	out := SignedDistanceField{Grid: a.Grid, Values: make([]float64, len(a.Values))}
	switch mode.Kind {
	case BlendLinear:
		for i := range out.Values {
			out.Values[i] = (1-t)*a.Values[i] + t*b.Values[i]
		}
	case BlendSmoothMin:
		alpha := mode.Alpha
		if alpha <= 0 {
			alpha = 2 * a.Spacing
		}
		for i := range out.Values {
			out.Values[i] = smoothMin(a.Values[i], b.Values[i], t, alpha)
		}
	case BlendLpNorm:
		p := mode.P
		if p < 0.5 {
			p = 0.5
		}
		if p > 8 {
			p = 8
		}
		for i := range out.Values {
			out.Values[i] = lpBlend(a.Values[i], b.Values[i], t, p)
		}
	case BlendConeOffset:
		for i := range out.Values {
			va := a.Values[i] - mode.K*dzA
			vb := b.Values[i] - mode.K*dzB
			out.Values[i] = math.Min(va, vb)
		}
	default:
		return SignedDistanceField{}, fmt.Errorf("blend: unknown kind %v", mode.Kind)
	}
	return out, nil
}

// smoothMin is the weighted log-sum-exp blend
// −α·ln((1−t)·e^(−va/α) + t·e^(−vb/α)), computed relative to the
// smaller value so the exponentials never overflow or both underflow.
func smoothMin(va, vb, t, alpha float64) float64 {
	m := math.Min(va, vb)
	sum := (1-t)*math.Exp(-(va-m)/alpha) + t*math.Exp(-(vb-m)/alpha)
	return m - alpha*math.Log(sum)
}

// lpBlend combines inside magnitude and outside magnitude independently
// through a weighted p-norm, then re-signs: v = outside − inside. p=1
// approximates a soft linear response.
func lpBlend(va, vb, t, p float64) float64 {
	insideA := math.Max(-va, 0)
	insideB := math.Max(-vb, 0)
	outsideA := math.Max(va, 0)
	outsideB := math.Max(vb, 0)
	inside := math.Pow((1-t)*math.Pow(insideA, p)+t*math.Pow(insideB, p), 1/p)
	outside := math.Pow((1-t)*math.Pow(outsideA, p)+t*math.Pow(outsideB, p), 1/p)
	return outside - inside
}

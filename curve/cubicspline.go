package curve

import (
	"fmt"

	"github.com/fxquant/fxlib/fxmath"
)

// splineEval evaluates a natural cubic spline through the pillar zero rates:
// continuous first and second derivatives, zero second derivative at both
// endpoints. Outside the pillar range the zero rate is held flat.
type splineEval struct {
	ts []float64
	zs []float64
	m  []float64 // second derivatives at the pillars
}

func bootstrapCubicSpline(quotes []InstrumentQuote) ([]Pillar, evaluator, error) {
	ts, zs, sources := pillarNodes(quotes)
	m, err := naturalSplineSecondDerivs(ts, zs)
	if err != nil {
		return nil, nil, fmt.Errorf("bootstrapCubicSpline: %w", err)
	}
	return buildPillars(ts, zs, sources), &splineEval{ts: ts, zs: zs, m: m}, nil
}

// naturalSplineSecondDerivs solves the standard tridiagonal system for the
// second derivatives of a natural cubic spline.
func naturalSplineSecondDerivs(ts, zs []float64) ([]float64, error) {
	n := len(ts)
	a := make([]float64, n)
	b := make([]float64, n)
	c := make([]float64, n)
	d := make([]float64, n)

	// Natural boundary: m[0] = m[n-1] = 0.
	b[0], b[n-1] = 1, 1

	for i := 1; i < n-1; i++ {
		hPrev := ts[i] - ts[i-1]
		hNext := ts[i+1] - ts[i]
		a[i] = hPrev
		b[i] = 2 * (hPrev + hNext)
		c[i] = hNext
		d[i] = 6 * ((zs[i+1]-zs[i])/hNext - (zs[i]-zs[i-1])/hPrev)
	}

	return fxmath.SolveTridiagonal(a, b, c, d)
}

func (e *splineEval) Zero(t float64) float64 {
	n := len(e.ts)
	if t <= e.ts[0] {
		return e.zs[0]
	}
	if t >= e.ts[n-1] {
		return e.zs[n-1]
	}
	i, j := bracket(e.ts, t)
	h := e.ts[j] - e.ts[i]
	ra := (e.ts[j] - t) / h
	rb := (t - e.ts[i]) / h
	return ra*e.zs[i] + rb*e.zs[j] +
		((ra*ra*ra-ra)*e.m[i]+(rb*rb*rb-rb)*e.m[j])*h*h/6
}

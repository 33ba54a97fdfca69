package curve

import (
	"fmt"

	"github.com/fxquant/fxlib/fxmath"
)

// Repair bounds for the monotone convex forward correction.
const (
	mcMaxIter = 50
	mcShrink  = 0.7
	mcNegTol  = -1e-12
)

// mcEval evaluates the Hagan-West style monotone convex interpolant. Each
// segment carries the discrete forward d implied by the pillar DFs and a
// quadratic perturbation with boundary values g0, g1 whose integral over the
// segment is zero, so pillar discount factors are reproduced exactly no
// matter how the boundary forwards are corrected:
//
//	f(x) = d + g0·(1−4x+3x²) + g1·(−2x+3x²),  x ∈ [0,1]
//
// The zero rate is the running integral of f divided by tenor; past the last
// pillar the terminal forward is extended flat.
type mcEval struct {
	ts     []float64 // anchored at 0
	cumInt []float64 // integral of the forward up to ts[i] (= −lnDF[i])
	d      []float64 // d[i]: discrete forward on segment (ts[i-1], ts[i]]
	g0, g1 []float64 // per-segment boundary perturbations
	fEnd   float64
}

func (e *mcEval) Zero(t float64) float64 {
	return e.integral(t) / t
}

func (e *mcEval) integral(t float64) float64 {
	n := len(e.ts)
	if t >= e.ts[n-1] {
		return e.cumInt[n-1] + e.fEnd*(t-e.ts[n-1])
	}
	i, j := bracket(e.ts, t)
	dt := e.ts[j] - e.ts[i]
	x := (t - e.ts[i]) / dt
	seg := e.d[j]*x + e.g0[j]*(x-2*x*x+x*x*x) + e.g1[j]*(x*x*x-x*x)
	return e.cumInt[i] + dt*seg
}

// segmentForward evaluates the perturbed forward at x in [0,1] on segment i.
func segmentForward(d, g0, g1, x float64) float64 {
	return d + g0*(1-4*x+3*x*x) + g1*(-2*x+3*x*x)
}

// bootstrapMonotoneConvex performs the sequential bootstrap and then the
// iterative Hagan-West adjustment: boundary forwards are estimated from the
// discrete forwards, clamped into the positivity collar, and any segment
// whose interpolated forward still dips negative has its boundary values
// pulled toward the segment's discrete forward until the violation clears.
func bootstrapMonotoneConvex(quotes []InstrumentQuote) ([]Pillar, evaluator, error) {
	ts, lnDF, sources, err := logDFNodes(quotes)
	if err != nil {
		return nil, nil, fmt.Errorf("bootstrapMonotoneConvex: %w", err)
	}

	n := len(ts)

	// Discrete forwards per segment; d[0] is unused.
	d := make([]float64, n)
	for i := 1; i < n; i++ {
		d[i] = (lnDF[i-1] - lnDF[i]) / (ts[i] - ts[i-1])
		if d[i] < mcNegTol {
			return nil, nil, fmt.Errorf("bootstrapMonotoneConvex: discrete forward %v on segment ending %v: %w",
				d[i], ts[i], ErrNegativeForward)
		}
	}

	// Boundary forward estimates at the nodes (Hagan-West weighting).
	f := make([]float64, n)
	for i := 1; i < n-1; i++ {
		dtL := ts[i] - ts[i-1]
		dtR := ts[i+1] - ts[i]
		f[i] = (dtL*d[i+1] + dtR*d[i]) / (dtL + dtR)
	}
	if n > 2 {
		f[0] = d[1] - 0.5*(f[1]-d[1])
		f[n-1] = d[n-1] - 0.5*(f[n-2]-d[n-1])
	} else {
		f[0], f[n-1] = d[1], d[1]
	}

	// Positivity collar.
	f[0] = fxmath.Clamp(f[0], 0, 2*d[1])
	for i := 1; i < n-1; i++ {
		lim := d[i]
		if d[i+1] < lim {
			lim = d[i+1]
		}
		f[i] = fxmath.Clamp(f[i], 0, 2*lim)
	}
	f[n-1] = fxmath.Clamp(f[n-1], 0, 2*d[n-1])

	// Iterative repair: where a segment's interpolated forward dips negative,
	// pull the boundary values toward the discrete forward. Both endpoints
	// stay non-negative (convex combination with d >= 0), and the zero-mean
	// perturbation keeps pillar DFs exact.
	for iter := 0; iter < mcMaxIter; iter++ {
		violated := false
		for i := 1; i < n; i++ {
			if minSegmentForward(d[i], f[i-1]-d[i], f[i]-d[i]) < mcNegTol {
				violated = true
				f[i-1] = d[i] + mcShrink*(f[i-1]-d[i])
				f[i] = d[i] + mcShrink*(f[i]-d[i])
			}
		}
		if !violated {
			break
		}
		if iter == mcMaxIter-1 {
			return nil, nil, fmt.Errorf("bootstrapMonotoneConvex: forward repair did not settle in %d iterations: %w",
				mcMaxIter, ErrNegativeForward)
		}
	}

	eval := &mcEval{
		ts:     ts,
		cumInt: make([]float64, n),
		d:      d,
		g0:     make([]float64, n),
		g1:     make([]float64, n),
		fEnd:   f[n-1],
	}
	for i := 1; i < n; i++ {
		eval.cumInt[i] = -lnDF[i]
		eval.g0[i] = f[i-1] - d[i]
		eval.g1[i] = f[i] - d[i]
	}

	return logDFPillars(ts, lnDF, sources), eval, nil
}

// minSegmentForward returns the exact minimum of the perturbed forward over
// the segment. f(x) is a quadratic A·x² + B·x + C, so the minimum is at an
// endpoint or at the interior vertex when the parabola opens upward.
func minSegmentForward(d, g0, g1 float64) float64 {
	a := 3 * (g0 + g1)
	b := -(4*g0 + 2*g1)
	c := d + g0

	min := segmentForward(d, g0, g1, 0)
	if v := segmentForward(d, g0, g1, 1); v < min {
		min = v
	}
	if a > 0 {
		if x := -b / (2 * a); x > 0 && x < 1 {
			if v := c + b*x + a*x*x; v < min {
				min = v
			}
		}
	}
	return min
}

package curve

import (
	"fmt"
	"math"
)

// Nelson-Siegel optimizer bounds.
const (
	nsMaxIter   = 500
	nsStepTol   = 1e-12
	nsSSETol    = 1e-16
	nsMinLambda = 1e-3
	// Swap quotes are exact calibration points and dominate the least-squares
	// objective; futures/bonds are guides.
	nsSwapWeight  = 10.0
	nsGuideWeight = 1.0
)

// nsEval evaluates the fitted Nelson-Siegel zero curve
//
//	r(τ) = β0 + β1·(1−e^(−τ/λ))/(τ/λ) + β2·[(1−e^(−τ/λ))/(τ/λ) − e^(−τ/λ)]
//
// plus a piecewise-linear correction of the fit residuals at the exact
// pillars. The correction forces the exact-calibration contract (a four
// parameter family cannot reproduce arbitrarily many swap quotes on its own)
// while leaving the Nelson-Siegel shape between pillars.
type nsEval struct {
	beta0, beta1, beta2, lambda float64

	residTs []float64
	resids  []float64
}

func bootstrapNelsonSiegel(quotes []InstrumentQuote) ([]Pillar, evaluator, error) {
	exact, _ := splitBySource(quotes)

	ts := make([]float64, len(quotes))
	zs := make([]float64, len(quotes))
	ws := make([]float64, len(quotes))
	for i, q := range quotes {
		ts[i] = q.TenorYears
		zs[i] = q.Rate
		if q.Source == SourceSwap {
			ws[i] = nsSwapWeight
		} else {
			ws[i] = nsGuideWeight
		}
	}

	p, err := fitNelsonSiegel(ts, zs, ws)
	if err != nil {
		return nil, nil, fmt.Errorf("bootstrapNelsonSiegel: %w", err)
	}

	eval := &nsEval{beta0: p[0], beta1: p[1], beta2: p[2], lambda: p[3]}

	// Residual correction at the exact pillars.
	eval.residTs = make([]float64, len(exact))
	eval.resids = make([]float64, len(exact))
	for i, q := range exact {
		eval.residTs[i] = q.TenorYears
		eval.resids[i] = q.Rate - nsRate(p, q.TenorYears)
	}

	sources := make([]SourceKind, len(quotes))
	fitted := make([]float64, len(quotes))
	for i, q := range quotes {
		sources[i] = q.Source
		fitted[i] = eval.Zero(q.TenorYears)
	}
	return buildPillars(ts, fitted, sources), eval, nil
}

// nsLoading returns (1−e^(−x))/x with its x→0 limit.
func nsLoading(x float64) float64 {
	if math.Abs(x) < 1e-8 {
		return 1 - x/2
	}
	return (1 - math.Exp(-x)) / x
}

func nsRate(p [4]float64, tau float64) float64 {
	x := tau / p[3]
	l := nsLoading(x)
	return p[0] + p[1]*l + p[2]*(l-math.Exp(-x))
}

// fitNelsonSiegel runs a Levenberg-damped Gauss-Newton descent on the
// weighted least-squares objective. The Jacobian is computed by centered
// finite differences. Returns ErrNonConvergence when the iteration budget is
// exhausted without the step or objective settling.
func fitNelsonSiegel(ts, zs, ws []float64) ([4]float64, error) {
	n := len(ts)

	// Initial guess: level from the longest quote, slope from short minus
	// long, no hump, medium decay.
	p := [4]float64{zs[n-1], zs[0] - zs[n-1], 0, 1.5}

	sse := func(p [4]float64) float64 {
		s := 0.0
		for i := range ts {
			r := ws[i] * (nsRate(p, ts[i]) - zs[i])
			s += r * r
		}
		return s
	}

	mu := 1e-3
	curSSE := sse(p)

	for iter := 0; iter < nsMaxIter; iter++ {
		// Weighted residuals and finite-difference Jacobian.
		res := make([]float64, n)
		jac := make([][4]float64, n)
		for i := range ts {
			res[i] = ws[i] * (nsRate(p, ts[i]) - zs[i])
		}
		for k := 0; k < 4; k++ {
			h := 1e-6 * math.Max(1, math.Abs(p[k]))
			pu, pd := p, p
			pu[k] += h
			pd[k] -= h
			if k == 3 {
				if pu[3] < nsMinLambda {
					pu[3] = nsMinLambda
				}
				if pd[3] < nsMinLambda {
					pd[3] = nsMinLambda
				}
			}
			for i := range ts {
				jac[i][k] = ws[i] * (nsRate(pu, ts[i]) - nsRate(pd, ts[i])) / (pu[k] - pd[k])
			}
		}

		// Normal equations with Levenberg damping:
		// (JᵀJ + μ·diag(JᵀJ))·δ = −Jᵀr
		var jtj [4][4]float64
		var jtr [4]float64
		for i := 0; i < n; i++ {
			for a := 0; a < 4; a++ {
				jtr[a] += jac[i][a] * res[i]
				for b := 0; b < 4; b++ {
					jtj[a][b] += jac[i][a] * jac[i][b]
				}
			}
		}
		var lhs [4][4]float64
		var rhs [4]float64
		for a := 0; a < 4; a++ {
			for b := 0; b < 4; b++ {
				lhs[a][b] = jtj[a][b]
			}
			lhs[a][a] += mu * jtj[a][a]
			rhs[a] = -jtr[a]
		}

		delta, ok := solve4(lhs, rhs)
		if !ok {
			mu *= 10
			if mu > 1e12 {
				return p, fmt.Errorf("fitNelsonSiegel: singular normal equations: %w", ErrNonConvergence)
			}
			continue
		}

		cand := p
		for k := 0; k < 4; k++ {
			cand[k] += delta[k]
		}
		if cand[3] < nsMinLambda {
			cand[3] = nsMinLambda
		}

		candSSE := sse(cand)
		if candSSE < curSSE {
			stepNorm := math.Sqrt(delta[0]*delta[0] + delta[1]*delta[1] + delta[2]*delta[2] + delta[3]*delta[3])
			improved := curSSE - candSSE
			p = cand
			curSSE = candSSE
			mu = math.Max(mu*0.3, 1e-12)
			if stepNorm < nsStepTol || improved < nsSSETol {
				return p, nil
			}
		} else {
			mu *= 10
			if mu > 1e12 {
				// Damping saturated: the iterate cannot improve further. A
				// tiny objective still counts as converged.
				if curSSE < 1e-12 {
					return p, nil
				}
				return p, fmt.Errorf("fitNelsonSiegel: damping saturated at SSE %.3e: %w", curSSE, ErrNonConvergence)
			}
		}
	}

	return p, fmt.Errorf("fitNelsonSiegel: %d iterations exhausted: %w", nsMaxIter, ErrNonConvergence)
}

// solve4 solves the 4x4 system by Gaussian elimination with partial
// pivoting. Returns false for a (numerically) singular matrix.
func solve4(m [4][4]float64, b [4]float64) ([4]float64, bool) {
	const dim = 4
	for col := 0; col < dim; col++ {
		// Pivot.
		piv := col
		for r := col + 1; r < dim; r++ {
			if math.Abs(m[r][col]) > math.Abs(m[piv][col]) {
				piv = r
			}
		}
		if math.Abs(m[piv][col]) < 1e-14 {
			return [4]float64{}, false
		}
		m[col], m[piv] = m[piv], m[col]
		b[col], b[piv] = b[piv], b[col]

		for r := col + 1; r < dim; r++ {
			f := m[r][col] / m[col][col]
			for c := col; c < dim; c++ {
				m[r][c] -= f * m[col][c]
			}
			b[r] -= f * b[col]
		}
	}
	var x [4]float64
	for r := dim - 1; r >= 0; r-- {
		s := b[r]
		for c := r + 1; c < dim; c++ {
			s -= m[r][c] * x[c]
		}
		x[r] = s / m[r][r]
	}
	return x, true
}

func (e *nsEval) Zero(t float64) float64 {
	p := [4]float64{e.beta0, e.beta1, e.beta2, e.lambda}
	r := nsRate(p, t)
	return r + e.residual(t)
}

// residual interpolates the exact-pillar fit residuals linearly, flat
// outside the pillar range.
func (e *nsEval) residual(t float64) float64 {
	n := len(e.residTs)
	if n == 0 {
		return 0
	}
	if n == 1 || t <= e.residTs[0] {
		return e.resids[0]
	}
	if t >= e.residTs[n-1] {
		return e.resids[n-1]
	}
	i, j := bracket(e.residTs, t)
	w := (t - e.residTs[i]) / (e.residTs[j] - e.residTs[i])
	return e.resids[i] + w*(e.resids[j]-e.resids[i])
}

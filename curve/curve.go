package curve

import (
	"math"
)

// Method selects the bootstrap/interpolation strategy for a curve.
type Method string

const (
	MethodLinear           Method = "LINEAR"
	MethodCubicSpline      Method = "CUBIC_SPLINE"
	MethodNelsonSiegel     Method = "NELSON_SIEGEL"
	MethodBloomberg        Method = "BLOOMBERG"
	MethodQLLogLinear      Method = "QL_LOG_LINEAR"
	MethodQLMonotoneConvex Method = "QL_MONOTONE_CONVEX"
)

// ParseMethod maps a case-sensitive method name to its Method value.
func ParseMethod(s string) (Method, bool) {
	for _, m := range Methods() {
		if string(m) == s {
			return m, true
		}
	}
	return "", false
}

// Methods lists every supported bootstrap method.
func Methods() []Method {
	return []Method{
		MethodLinear,
		MethodCubicSpline,
		MethodNelsonSiegel,
		MethodBloomberg,
		MethodQLLogLinear,
		MethodQLMonotoneConvex,
	}
}

// Pillar is one calibrated node of a curve: tenor in years, the bootstrapped
// discount factor, the continuously-compounded zero rate, and the source of
// the quote that produced it.
type Pillar struct {
	Tenor  float64
	DF     float64
	Zero   float64
	Source SourceKind
}

// evaluator is a method's interpolant. Zero returns the continuously
// compounded zero rate at tenor t > 0; evaluation never re-runs the
// bootstrap.
type evaluator interface {
	Zero(t float64) float64
}

// Curve is an immutable bootstrapped term structure. All queries go through
// the method's stored interpolant, so a Curve is safe for concurrent use.
type Curve struct {
	currency string
	method   Method
	pillars  []Pillar
	eval     evaluator
}

// Currency returns the curve's currency code.
func (c *Curve) Currency() string { return c.currency }

// Method returns the bootstrap method that built the curve.
func (c *Curve) Method() Method { return c.method }

// Pillars returns a copy of the calibrated pillars in tenor order.
func (c *Curve) Pillars() []Pillar {
	out := make([]Pillar, len(c.pillars))
	copy(out, c.pillars)
	return out
}

// MaxTenor returns the tenor of the last pillar.
func (c *Curve) MaxTenor() float64 {
	return c.pillars[len(c.pillars)-1].Tenor
}

// ZeroRate returns the continuously-compounded zero rate at tenor t (years).
// For t <= 0 it returns the rate at the short end of the interpolant.
func (c *Curve) ZeroRate(t float64) float64 {
	if t <= 0 {
		t = tenorEps
	}
	return c.eval.Zero(t)
}

// DF returns the discount factor at tenor t. DF(0) = 1 by construction.
func (c *Curve) DF(t float64) float64 {
	if t <= 0 {
		return 1.0
	}
	return math.Exp(-c.eval.Zero(t) * t)
}

// fwdBump is the step used for the centered log-DF difference in ForwardRate.
const fwdBump = 1e-5

// ForwardRate returns the instantaneous forward rate at tenor t, computed as
// the centered finite difference of log DF through the interpolant.
func (c *Curve) ForwardRate(t float64) float64 {
	h := fwdBump
	lo := t - h
	if lo <= 0 {
		// One-sided at the short end.
		return (math.Log(c.DF(t)) - math.Log(c.DF(t+h))) / h
	}
	return (math.Log(c.DF(lo)) - math.Log(c.DF(t+h))) / (2 * h)
}

// buildPillars assembles the pillar table from sorted (tenor, zero) nodes.
func buildPillars(ts, zs []float64, sources []SourceKind) []Pillar {
	pillars := make([]Pillar, len(ts))
	for i := range ts {
		pillars[i] = Pillar{
			Tenor:  ts[i],
			DF:     math.Exp(-zs[i] * ts[i]),
			Zero:   zs[i],
			Source: sources[i],
		}
	}
	return pillars
}

// bracket returns indices (i, j) of the adjacent nodes in the sorted tenor
// slice that bracket t, clamping to the nearest boundary pair outside the
// range. ts must have at least 2 elements.
func bracket(ts []float64, t float64) (int, int) {
	n := len(ts)
	if t <= ts[0] {
		return 0, 1
	}
	if t >= ts[n-1] {
		return n - 2, n - 1
	}
	lo, hi := 0, n-1
	for hi-lo > 1 {
		mid := (lo + hi) / 2
		if ts[mid] <= t {
			lo = mid
		} else {
			hi = mid
		}
	}
	return lo, hi
}

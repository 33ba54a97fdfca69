package curve

import (
	"fmt"
	"math"
)

// logDFEval interpolates linearly on log discount factors between pillars,
// which makes the instantaneous forward piecewise constant and positive on
// every segment. The node arrays include the t=0 anchor (logDF = 0); past
// the last pillar the last segment's forward is extended flat.
type logDFEval struct {
	ts   []float64
	lnDF []float64
}

func (e *logDFEval) logDF(t float64) float64 {
	n := len(e.ts)
	if t >= e.ts[n-1] {
		fLast := (e.lnDF[n-2] - e.lnDF[n-1]) / (e.ts[n-1] - e.ts[n-2])
		return e.lnDF[n-1] - fLast*(t-e.ts[n-1])
	}
	i, j := bracket(e.ts, t)
	w := (t - e.ts[i]) / (e.ts[j] - e.ts[i])
	return e.lnDF[i] + w*(e.lnDF[j]-e.lnDF[i])
}

func (e *logDFEval) Zero(t float64) float64 {
	return -e.logDF(t) / t
}

// bootstrapLogLinear performs the sequential instrument-by-instrument
// discount factor bootstrap: swap pillars are set exactly from their implied
// DFs, then each guide is inserted between the surrounding pillars with its
// DF clamped so that log DF stays non-increasing on both adjacent segments
// (forward >= 0). A negative forward implied by the swaps themselves cannot
// be repaired and is an error.
func bootstrapLogLinear(quotes []InstrumentQuote) ([]Pillar, evaluator, error) {
	ts, lnDF, sources, err := logDFNodes(quotes)
	if err != nil {
		return nil, nil, fmt.Errorf("bootstrapLogLinear: %w", err)
	}
	return logDFPillars(ts, lnDF, sources), &logDFEval{ts: ts, lnDF: lnDF}, nil
}

// fwdEps is the slack allowed when checking log-DF monotonicity.
const fwdEps = 1e-12

// logDFNodes builds the (tenor, log DF) node set shared by the DF-based
// methods. The returned slices start with the t=0 anchor; sources[i]
// describes node i+1 (the anchor has no source).
func logDFNodes(quotes []InstrumentQuote) (ts, lnDF []float64, sources []SourceKind, err error) {
	exact, guides := splitBySource(quotes)

	ts = []float64{0}
	lnDF = []float64{0}
	sources = []SourceKind{}

	// Exact pillars, in tenor order.
	for _, q := range exact {
		l := -q.Rate * q.TenorYears
		prev := lnDF[len(lnDF)-1]
		if l > prev+fwdEps {
			return nil, nil, nil, fmt.Errorf("segment ending at tenor %v implies forward %v: %w",
				q.TenorYears, -(l-prev)/(q.TenorYears-ts[len(ts)-1]), ErrNegativeForward)
		}
		ts = append(ts, q.TenorYears)
		lnDF = append(lnDF, l)
		sources = append(sources, q.Source)
	}

	// Guides, clamped into the monotone corridor of their neighbors.
	for _, q := range guides {
		idx := 1
		for idx < len(ts) && ts[idx] < q.TenorYears {
			idx++
		}
		upper := lnDF[idx-1]
		lower := math.Inf(-1)
		if idx < len(ts) {
			lower = lnDF[idx]
		}
		l := -q.Rate * q.TenorYears
		if l > upper {
			l = upper
		}
		if l < lower {
			l = lower
		}

		ts = append(ts, 0)
		copy(ts[idx+1:], ts[idx:])
		ts[idx] = q.TenorYears

		lnDF = append(lnDF, 0)
		copy(lnDF[idx+1:], lnDF[idx:])
		lnDF[idx] = l

		sources = append(sources, "")
		copy(sources[idx:], sources[idx-1:])
		sources[idx-1] = q.Source
	}

	return ts, lnDF, sources, nil
}

// logDFPillars converts the node set (with its t=0 anchor) into the public
// pillar table.
func logDFPillars(ts, lnDF []float64, sources []SourceKind) []Pillar {
	pillars := make([]Pillar, len(ts)-1)
	for i := 1; i < len(ts); i++ {
		pillars[i-1] = Pillar{
			Tenor:  ts[i],
			DF:     math.Exp(lnDF[i]),
			Zero:   -lnDF[i] / ts[i],
			Source: sources[i-1],
		}
	}
	return pillars
}

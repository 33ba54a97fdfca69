package curve

// linearEval interpolates zero rates linearly between pillars, with flat
// extrapolation past both ends. DF(t) = exp(-z(t)*t).
type linearEval struct {
	ts []float64
	zs []float64
}

func bootstrapLinear(quotes []InstrumentQuote) ([]Pillar, evaluator, error) {
	ts, zs, sources := pillarNodes(quotes)
	return buildPillars(ts, zs, sources), &linearEval{ts: ts, zs: zs}, nil
}

func (e *linearEval) Zero(t float64) float64 {
	if t <= e.ts[0] {
		return e.zs[0]
	}
	n := len(e.ts)
	if t >= e.ts[n-1] {
		return e.zs[n-1]
	}
	i, j := bracket(e.ts, t)
	w := (t - e.ts[i]) / (e.ts[j] - e.ts[i])
	return e.zs[i] + w*(e.zs[j]-e.zs[i])
}

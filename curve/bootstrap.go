package curve

import (
	"fmt"
)

// Bootstrap builds a curve for the currency from normalized instrument
// quotes using the requested method.
//
// Shared discipline across methods: swap quotes are exact calibration points
// whose implied discount factors the curve must reproduce; futures and bond
// quotes are guides between swap pillars and are adjusted or down-weighted
// whenever taking them verbatim would imply a negative or oscillating
// forward. A guide whose tenor coincides with a swap tenor is dropped in
// favor of the swap. For bond-only quote sets (currencies with no liquid
// swap market) the bond yields are promoted to exact pillars.
func Bootstrap(currency string, quotes []InstrumentQuote, method Method) (*Curve, error) {
	prepared, err := prepareQuotes(quotes)
	if err != nil {
		return nil, fmt.Errorf("Bootstrap(%s, %s): %w", currency, method, err)
	}

	var (
		pillars []Pillar
		eval    evaluator
	)
	switch method {
	case MethodLinear:
		pillars, eval, err = bootstrapLinear(prepared)
	case MethodCubicSpline:
		pillars, eval, err = bootstrapCubicSpline(prepared)
	case MethodNelsonSiegel:
		pillars, eval, err = bootstrapNelsonSiegel(prepared)
	case MethodBloomberg:
		pillars, eval, err = bootstrapBloomberg(prepared)
	case MethodQLLogLinear:
		pillars, eval, err = bootstrapLogLinear(prepared)
	case MethodQLMonotoneConvex:
		pillars, eval, err = bootstrapMonotoneConvex(prepared)
	default:
		return nil, fmt.Errorf("Bootstrap(%s): unknown method %q", currency, method)
	}
	if err != nil {
		return nil, fmt.Errorf("Bootstrap(%s, %s): %w", currency, method, err)
	}

	return &Curve{currency: currency, method: method, pillars: pillars, eval: eval}, nil
}

// pillarNodes extracts the tenor/zero/source triples used by the zero-rate
// interpolating methods (Linear, CubicSpline, NelsonSiegel): every prepared
// quote becomes a node with its quoted rate as the zero rate.
func pillarNodes(quotes []InstrumentQuote) (ts, zs []float64, sources []SourceKind) {
	ts = make([]float64, len(quotes))
	zs = make([]float64, len(quotes))
	sources = make([]SourceKind, len(quotes))
	for i, q := range quotes {
		ts[i] = q.TenorYears
		zs[i] = q.Rate
		sources[i] = q.Source
	}
	return ts, zs, sources
}

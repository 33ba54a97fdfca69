package curve

import (
	"fmt"
	"math"
	"sort"
)

// SourceKind identifies the market instrument a calibration quote came from.
type SourceKind string

const (
	SourceSwap   SourceKind = "SWAP"
	SourceFuture SourceKind = "FUTURE"
	SourceBond   SourceKind = "BOND"
)

// Calibration priorities. Swaps are exact calibration points; futures and
// bonds are guides between swap pillars.
const (
	PrioritySwap   = 100
	PriorityFuture = 50
	PriorityBond   = 40
)

// InstrumentQuote is a normalized calibration point: tenor in years, rate as
// a decimal (0.045 = 4.5%), and the instrument it was sourced from. Quotes
// are immutable once ingested.
type InstrumentQuote struct {
	TenorYears float64
	Rate       float64
	Source     SourceKind
	Priority   int
}

// NewInstrumentQuote validates and builds a quote, assigning the calibration
// priority for the source kind.
func NewInstrumentQuote(tenorYears, rate float64, source SourceKind) (InstrumentQuote, error) {
	if tenorYears <= 0 {
		return InstrumentQuote{}, fmt.Errorf("NewInstrumentQuote: tenor must be positive, got %v", tenorYears)
	}
	var prio int
	switch source {
	case SourceSwap:
		prio = PrioritySwap
	case SourceFuture:
		prio = PriorityFuture
	case SourceBond:
		prio = PriorityBond
	default:
		return InstrumentQuote{}, fmt.Errorf("NewInstrumentQuote: unknown source kind %q", source)
	}
	return InstrumentQuote{TenorYears: tenorYears, Rate: rate, Source: source, Priority: prio}, nil
}

// ImpliedDF returns the discount factor implied by the quote under continuous
// compounding.
func (q InstrumentQuote) ImpliedDF() float64 {
	return impliedDF(q.Rate, q.TenorYears)
}

func impliedDF(rate, tenor float64) float64 {
	return math.Exp(-rate * tenor)
}

// tenorEps is the tolerance under which two quote tenors are considered the
// same pillar.
const tenorEps = 1e-9

// prepareQuotes sorts quotes by tenor and resolves pillar collisions: when a
// guide (future/bond) tenor coincides with a swap tenor, the swap wins. Fewer
// than two usable quotes is a calibration error.
func prepareQuotes(quotes []InstrumentQuote) ([]InstrumentQuote, error) {
	usable := make([]InstrumentQuote, 0, len(quotes))
	for _, q := range quotes {
		if q.TenorYears <= 0 {
			return nil, fmt.Errorf("prepareQuotes: non-positive tenor %v (%s): %w", q.TenorYears, q.Source, ErrInsufficientData)
		}
		usable = append(usable, q)
	}

	sort.SliceStable(usable, func(i, j int) bool {
		return usable[i].TenorYears < usable[j].TenorYears
	})

	// Collapse coincident tenors, keeping the higher-priority quote.
	deduped := usable[:0]
	for _, q := range usable {
		n := len(deduped)
		if n > 0 && q.TenorYears-deduped[n-1].TenorYears < tenorEps {
			if q.Priority > deduped[n-1].Priority {
				deduped[n-1] = q
			}
			continue
		}
		deduped = append(deduped, q)
	}

	if len(deduped) < 2 {
		return nil, fmt.Errorf("prepareQuotes: %d usable quotes, need at least 2: %w", len(deduped), ErrInsufficientData)
	}
	return deduped, nil
}

// splitBySource partitions prepared quotes into exact pillars (swaps) and
// guides (futures/bonds), both preserving tenor order. For bond-only quote
// sets the bonds are promoted to exact pillars: with no swaps present the
// government-bond yields are the calibration set, not guides.
func splitBySource(quotes []InstrumentQuote) (exact, guides []InstrumentQuote) {
	for _, q := range quotes {
		if q.Source == SourceSwap {
			exact = append(exact, q)
		} else {
			guides = append(guides, q)
		}
	}
	if len(exact) == 0 {
		return guides, nil
	}
	return exact, guides
}

package curve

import (
	"fmt"
)

// Forward-smoothing bounds for the Bloomberg-style bootstrap.
const (
	bbgMaxIter = 100
	bbgRelax   = 0.5
	bbgTol     = 1e-13
)

// bootstrapBloomberg reproduces the Bloomberg-style construction: discount
// factors are bootstrapped exactly from the swaps with log-linear DF
// interpolation, futures are inserted as intermediate guide points, and the
// implied piecewise-constant forward curve is then smoothed by moving only
// the guide nodes. Each relaxation step pulls a guide's log DF toward the
// value that equalizes the forwards on its two adjacent segments, clamped to
// the monotone corridor so the forward never goes negative; the final
// discount factors are the smoothed node values.
func bootstrapBloomberg(quotes []InstrumentQuote) ([]Pillar, evaluator, error) {
	ts, lnDF, sources, err := logDFNodes(quotes)
	if err != nil {
		return nil, nil, fmt.Errorf("bootstrapBloomberg: %w", err)
	}

	// Node i (in the anchored arrays) is movable iff it came from a guide.
	movable := make([]bool, len(ts))
	for i := 1; i < len(ts); i++ {
		movable[i] = sources[i-1] != SourceSwap
	}
	// A bond-only quote set has no swaps to anchor the smoothing; the bonds
	// are the exact pillars and stay fixed.
	allGuides := true
	for i := 1; i < len(ts); i++ {
		if !movable[i] {
			allGuides = false
			break
		}
	}
	if allGuides {
		for i := range movable {
			movable[i] = false
		}
	}

	smoothGuideNodes(ts, lnDF, movable)

	return logDFPillars(ts, lnDF, sources), &logDFEval{ts: ts, lnDF: lnDF}, nil
}

// smoothGuideNodes runs the bounded relaxation loop over the movable nodes.
func smoothGuideNodes(ts, lnDF []float64, movable []bool) {
	n := len(ts)
	for iter := 0; iter < bbgMaxIter; iter++ {
		maxMove := 0.0
		for k := 1; k < n-1; k++ {
			if !movable[k] {
				continue
			}
			// Equal-forward target between the immediate neighbors.
			span := ts[k+1] - ts[k-1]
			target := (lnDF[k-1]*(ts[k+1]-ts[k]) + lnDF[k+1]*(ts[k]-ts[k-1])) / span
			next := lnDF[k] + bbgRelax*(target-lnDF[k])

			// Monotone corridor keeps both segment forwards >= 0.
			if next > lnDF[k-1] {
				next = lnDF[k-1]
			}
			if next < lnDF[k+1] {
				next = lnDF[k+1]
			}

			move := next - lnDF[k]
			if move < 0 {
				move = -move
			}
			if move > maxMove {
				maxMove = move
			}
			lnDF[k] = next
		}
		if maxMove < bbgTol {
			return
		}
	}
}

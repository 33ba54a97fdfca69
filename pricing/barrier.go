package pricing

import (
	"fmt"
	"math"

	"github.com/fxquant/fxlib/fxmath"
)

// Series width for the Ikeda-Kunitomo double-barrier expansion. The terms
// decay geometrically in (L/U)^n; five images either side is well below
// machine precision for market-realistic barrier widths.
const ikSeriesWidth = 5

// PriceBarrier prices a single or double knock-in/knock-out FX option with
// the closed-form reflection-principle formulas: Reiner-Rubinstein for
// single barriers, the Ikeda-Kunitomo image series for double barriers.
// Knock-in prices come from in-out parity, knockIn = vanilla − knockOut,
// which the reflection formulas satisfy identically.
//
// All formulas use the Garman-Kohlhagen two-rate drift r_d − r_f; the legacy
// single-rate shortcut is deliberately not reproduced.
func PriceBarrier(o BarrierOption) (Result, error) {
	var (
		price  float64
		method string
	)
	switch o.Kind {
	case CallKnockOut, PutKnockOut, CallKnockIn, PutKnockIn:
		price = singleBarrierPrice(o)
		method = ModelReinerRubinstein
	case CallDoubleKnockOut, PutDoubleKnockOut, CallDoubleKnockIn, PutDoubleKnockIn:
		price = doubleBarrierPrice(o)
		method = ModelIkedaKunitomo
	default:
		return Result{}, fmt.Errorf("PriceBarrier: kind %q: %w", o.Kind, ErrInvalidOptionParameters)
	}
	return Result{
		Price:       price,
		PriceInBase: price / o.Spot,
		Method:      method,
	}, nil
}

func singleBarrierPrice(o BarrierOption) float64 {
	vanillaKind := Call
	if o.Kind == PutKnockOut || o.Kind == PutKnockIn {
		vanillaKind = Put
	}
	in := knockInValue(vanillaKind, o.Spot, o.Strike, o.Barrier, o.DomesticRate, o.ForeignRate, o.MaturityYears, o.Volatility)
	if o.Kind == CallKnockIn || o.Kind == PutKnockIn {
		return in
	}
	vanilla := gkPrice(vanillaKind, o.Spot, o.Strike, o.DomesticRate, o.ForeignRate, o.MaturityYears, o.Volatility)
	return vanilla - in
}

// knockInValue evaluates the Reiner-Rubinstein knock-in price. The barrier
// direction is taken from the level relative to spot, so a barrier on the
// strike side of spot (the reverse variants) needs no separate branch.
func knockInValue(vanillaKind Kind, s, k, h, rd, rf, t, vol float64) float64 {
	b := rd - rf
	volT := vol * math.Sqrt(t)
	mu := (b - 0.5*vol*vol) / (vol * vol)

	var phi, eta float64
	if vanillaKind == Call {
		phi = 1
	} else {
		phi = -1
	}
	if h < s {
		eta = 1 // down barrier
	} else {
		eta = -1 // up barrier
	}

	x1 := math.Log(s/k)/volT + (1+mu)*volT
	x2 := math.Log(s/h)/volT + (1+mu)*volT
	y1 := math.Log(h*h/(s*k))/volT + (1+mu)*volT
	y2 := math.Log(h/s)/volT + (1+mu)*volT

	dfD := math.Exp(-rd * t)
	fwd := s * math.Exp((b-rd)*t) // S·e^{−r_f·t}
	pow1 := math.Pow(h/s, 2*(mu+1))
	pow2 := math.Pow(h/s, 2*mu)

	valA := phi*fwd*fxmath.NormCDF(phi*x1) - phi*k*dfD*fxmath.NormCDF(phi*(x1-volT))
	valB := phi*fwd*fxmath.NormCDF(phi*x2) - phi*k*dfD*fxmath.NormCDF(phi*(x2-volT))
	valC := phi*fwd*pow1*fxmath.NormCDF(eta*y1) - phi*k*dfD*pow2*fxmath.NormCDF(eta*(y1-volT))
	valD := phi*fwd*pow1*fxmath.NormCDF(eta*y2) - phi*k*dfD*pow2*fxmath.NormCDF(eta*(y2-volT))

	down := eta == 1
	switch {
	case vanillaKind == Call && down:
		if k > h {
			return valC
		}
		return valA - valB + valD
	case vanillaKind == Call && !down:
		if k > h {
			return valA
		}
		return valB - valC + valD
	case vanillaKind == Put && down:
		if k > h {
			return valB - valC + valD
		}
		return valA
	default: // put, up barrier
		if k > h {
			return valA - valB + valD
		}
		return valC
	}
}

func doubleBarrierPrice(o BarrierOption) float64 {
	vanillaKind := Call
	if o.Kind == PutDoubleKnockOut || o.Kind == PutDoubleKnockIn {
		vanillaKind = Put
	}
	out := doubleKnockOutValue(vanillaKind, o.Spot, o.Strike, o.Barrier, o.SecondBarrier, o.DomesticRate, o.ForeignRate, o.MaturityYears, o.Volatility)
	if o.Kind == CallDoubleKnockOut || o.Kind == PutDoubleKnockOut {
		return out
	}
	vanilla := gkPrice(vanillaKind, o.Spot, o.Strike, o.DomesticRate, o.ForeignRate, o.MaturityYears, o.Volatility)
	return vanilla - out
}

// doubleKnockOutValue evaluates the Ikeda-Kunitomo image series for a
// knock-out call or put between flat barriers l < u.
func doubleKnockOutValue(vanillaKind Kind, s, k, l, u, rd, rf, t, vol float64) float64 {
	// A strike beyond the knock-out barrier on the payoff side cannot pay
	// before knocking out.
	if vanillaKind == Call && k >= u {
		return 0
	}
	if vanillaKind == Put && k <= l {
		return 0
	}

	b := rd - rf
	volT := vol * math.Sqrt(t)
	drift := (b + 0.5*vol*vol) * t
	dfD := math.Exp(-rd * t)
	fwd := s * math.Exp((b-rd)*t)

	// Flat barriers: the curvature exponents collapse to a single mu.
	mu := 2*b/(vol*vol) + 1

	// E is the payoff-side barrier bounding the exercise region.
	e := u
	if vanillaKind == Put {
		e = l
	}

	sumSpot, sumStrike := 0.0, 0.0
	for n := -ikSeriesWidth; n <= ikSeriesWidth; n++ {
		// Direct image S·(U/L)^{2n} and reflected image L^{2n+2}/(U^{2n}·S).
		direct := s * math.Pow(u/l, float64(2*n))
		refl := math.Pow(l, float64(2*n+2)) / (math.Pow(u, float64(2*n)) * s)

		d1 := (math.Log(direct/k) + drift) / volT
		d2 := (math.Log(direct/e) + drift) / volT
		d3 := (math.Log(refl/k) + drift) / volT
		d4 := (math.Log(refl/e) + drift) / volT

		ratio := math.Pow(u/l, float64(n))
		w1 := math.Pow(ratio, mu)
		w1k := math.Pow(ratio, mu-2)
		w3base := math.Pow(l, float64(n+1)) / (math.Pow(u, float64(n)) * s)
		w3spot := math.Pow(w3base, mu)
		w3strike := math.Pow(w3base, mu-2)

		if vanillaKind == Call {
			sumSpot += w1*(fxmath.NormCDF(d1)-fxmath.NormCDF(d2)) - w3spot*(fxmath.NormCDF(d3)-fxmath.NormCDF(d4))
			sumStrike += w1k*(fxmath.NormCDF(d1-volT)-fxmath.NormCDF(d2-volT)) - w3strike*(fxmath.NormCDF(d3-volT)-fxmath.NormCDF(d4-volT))
		} else {
			sumSpot += w1*(fxmath.NormCDF(d2)-fxmath.NormCDF(d1)) - w3spot*(fxmath.NormCDF(d4)-fxmath.NormCDF(d3))
			sumStrike += w1k*(fxmath.NormCDF(d2-volT)-fxmath.NormCDF(d1-volT)) - w3strike*(fxmath.NormCDF(d4-volT)-fxmath.NormCDF(d3-volT))
		}
	}

	if vanillaKind == Call {
		return fwd*sumSpot - k*dfD*sumStrike
	}
	return k*dfD*sumStrike - fwd*sumSpot
}

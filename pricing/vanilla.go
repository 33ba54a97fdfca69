package pricing

import (
	"fmt"
	"math"

	"github.com/fxquant/fxlib/fxmath"
)

// PriceVanilla prices a European FX option with the Garman-Kohlhagen
// formula: Black-Scholes with the two-rate drift r_d − r_f. The price is in
// quote-currency units per unit of base currency.
func PriceVanilla(o VanillaOption) (Result, error) {
	var price float64
	switch o.Kind {
	case Call, Put:
		price = gkPrice(o.Kind, o.Spot, o.Strike, o.DomesticRate, o.ForeignRate, o.MaturityYears, o.Volatility)
	default:
		return Result{}, fmt.Errorf("PriceVanilla: kind %q: %w", o.Kind, ErrInvalidOptionParameters)
	}
	return Result{
		Price:       price,
		PriceInBase: price / o.Spot,
		Method:      ModelGarmanKohlhagen,
	}, nil
}

// gkPrice is the Garman-Kohlhagen closed form for a call or put.
func gkPrice(kind Kind, s, k, rd, rf, t, vol float64) float64 {
	d1, d2 := gkD(s, k, rd, rf, t, vol)
	dfD := math.Exp(-rd * t)
	dfF := math.Exp(-rf * t)
	if kind == Call {
		return s*dfF*fxmath.NormCDF(d1) - k*dfD*fxmath.NormCDF(d2)
	}
	return k*dfD*fxmath.NormCDF(-d2) - s*dfF*fxmath.NormCDF(-d1)
}

func gkD(s, k, rd, rf, t, vol float64) (d1, d2 float64) {
	volT := vol * math.Sqrt(t)
	d1 = (math.Log(s/k) + (rd-rf+0.5*vol*vol)*t) / volT
	d2 = d1 - volT
	return d1, d2
}

package pricing

import (
	"fmt"
	"math"

	"github.com/fxquant/fxlib/fxmath"
)

// Finite-difference bump sizes for the exotic Greeks. Relative for spot,
// absolute for volatility, rate and time.
const (
	fdSpotBump = 1e-4
	fdVolBump  = 1e-5
	fdRateBump = 1e-5
	fdTimeBump = 1.0 / 365
)

// VanillaGreeks computes delta, gamma, theta, vega and rho analytically from
// the Garman-Kohlhagen partial derivatives. Theta is per year, vega per unit
// of volatility, rho with respect to the domestic rate.
func VanillaGreeks(o VanillaOption) (Greeks, error) {
	if !o.Kind.IsVanilla() {
		return Greeks{}, fmt.Errorf("VanillaGreeks: kind %q: %w", o.Kind, ErrInvalidOptionParameters)
	}

	s, k := o.Spot, o.Strike
	rd, rf := o.DomesticRate, o.ForeignRate
	t, vol := o.MaturityYears, o.Volatility

	d1, d2 := gkD(s, k, rd, rf, t, vol)
	sqrtT := math.Sqrt(t)
	dfD := math.Exp(-rd * t)
	dfF := math.Exp(-rf * t)
	pdf := fxmath.NormPDF(d1)

	g := Greeks{
		Gamma: dfF * pdf / (s * vol * sqrtT),
		Vega:  s * dfF * pdf * sqrtT,
	}
	if o.Kind == Call {
		g.Delta = dfF * fxmath.NormCDF(d1)
		g.Theta = -s*dfF*pdf*vol/(2*sqrtT) + rf*s*dfF*fxmath.NormCDF(d1) - rd*k*dfD*fxmath.NormCDF(d2)
		g.Rho = k * t * dfD * fxmath.NormCDF(d2)
	} else {
		g.Delta = -dfF * fxmath.NormCDF(-d1)
		g.Theta = -s*dfF*pdf*vol/(2*sqrtT) - rf*s*dfF*fxmath.NormCDF(-d1) + rd*k*dfD*fxmath.NormCDF(-d2)
		g.Rho = -k * t * dfD * fxmath.NormCDF(-d2)
	}
	return g, nil
}

// BarrierGreeks computes the barrier-option Greeks by controlled central
// finite differences on the closed-form price. Closed-form derivatives of
// the reflection formulas are not implemented.
func BarrierGreeks(o BarrierOption) (Greeks, error) {
	if !o.Kind.IsBarrier() {
		return Greeks{}, fmt.Errorf("BarrierGreeks: kind %q: %w", o.Kind, ErrInvalidOptionParameters)
	}
	return numericGreeks(o.Spot, o.Volatility, o.DomesticRate, o.MaturityYears,
		func(spot, vol, rd, t float64) float64 {
			m := o
			m.Spot, m.Volatility, m.DomesticRate, m.MaturityYears = spot, vol, rd, t
			res, err := PriceBarrier(m)
			if err != nil {
				return math.NaN()
			}
			return res.Price
		}), nil
}

// DigitalGreeks computes the digital-option Greeks by controlled central
// finite differences on the closed-form price.
func DigitalGreeks(o DigitalOption) (Greeks, error) {
	if !o.Kind.IsDigital() {
		return Greeks{}, fmt.Errorf("DigitalGreeks: kind %q: %w", o.Kind, ErrInvalidOptionParameters)
	}
	return numericGreeks(o.Spot, o.Volatility, o.DomesticRate, o.MaturityYears,
		func(spot, vol, rd, t float64) float64 {
			m := o
			m.Spot, m.Volatility, m.DomesticRate, m.MaturityYears = spot, vol, rd, t
			res, err := PriceDigital(m)
			if err != nil {
				return math.NaN()
			}
			return res.Price
		}), nil
}

// numericGreeks evaluates the five sensitivities with central differences
// around the contract's own parameters.
func numericGreeks(spot, vol, rd, t float64, price func(spot, vol, rd, t float64) float64) Greeks {
	ds := spot * fdSpotBump

	base := price(spot, vol, rd, t)
	up := price(spot+ds, vol, rd, t)
	down := price(spot-ds, vol, rd, t)

	volUp := price(spot, vol+fdVolBump, rd, t)
	volDown := price(spot, vol-fdVolBump, rd, t)

	rdUp := price(spot, vol, rd+fdRateBump, t)
	rdDown := price(spot, vol, rd-fdRateBump, t)

	// Theta as the one-day price decay, annualized; a central bump in time
	// would step past expiry for very short options.
	tDown := t - fdTimeBump
	if tDown <= 0 {
		tDown = t / 2
	}
	later := price(spot, vol, rd, tDown)

	return Greeks{
		Delta: (up - down) / (2 * ds),
		Gamma: (up - 2*base + down) / (ds * ds),
		Theta: (later - base) / (t - tDown),
		Vega:  (volUp - volDown) / (2 * fdVolBump),
		Rho:   (rdUp - rdDown) / (2 * fdRateBump),
	}
}

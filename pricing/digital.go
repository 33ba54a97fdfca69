package pricing

import (
	"fmt"
	"math"

	"github.com/fxquant/fxlib/fxmath"
)

// Convergence bounds for the double-barrier survival series and the
// pay-at-touch discounting quadrature.
const (
	survivalSeriesMax = 128
	survivalSeriesTol = 1e-16
	touchQuadSteps    = 64
)

// PriceDigital prices the touch/no-touch and binary payoffs. The two payment
// timings are distinct code paths: a rebate paid at the barrier touch is
// discounted from the (random) touch time, a rebate paid at maturity is
// discounted by exp(−r_d·t) and weighted by the touch probability. No-touch
// and terminal binaries pay at maturity by definition, so PayAtTouch is
// ignored for those kinds.
func PriceDigital(o DigitalOption) (Result, error) {
	var (
		price  float64
		method string
	)

	m := o.DomesticRate - o.ForeignRate - 0.5*o.Volatility*o.Volatility
	dfD := math.Exp(-o.DomesticRate * o.MaturityYears)

	switch o.Kind {
	case OneTouch:
		if o.PayAtTouch {
			price = o.Rebate * oneTouchAtHit(o.Spot, o.Barrier, o.DomesticRate, o.ForeignRate, o.MaturityYears, o.Volatility)
		} else {
			price = o.Rebate * dfD * touchProbability(o.Spot, o.Barrier, m, o.Volatility, o.MaturityYears)
		}
		method = ModelReinerRubinstein

	case NoTouch:
		price = o.Rebate * dfD * (1 - touchProbability(o.Spot, o.Barrier, m, o.Volatility, o.MaturityYears))
		method = ModelReinerRubinstein

	case DoubleTouch:
		if o.PayAtTouch {
			price = o.Rebate * doubleTouchDiscounted(o)
		} else {
			surv := doubleSurvival(o.Spot, o.Barrier, o.SecondBarrier, m, o.Volatility, o.MaturityYears)
			price = o.Rebate * dfD * (1 - surv)
		}
		method = ModelBinarySeries

	case DoubleNoTouch:
		surv := doubleSurvival(o.Spot, o.Barrier, o.SecondBarrier, m, o.Volatility, o.MaturityYears)
		price = o.Rebate * dfD * surv
		method = ModelBinarySeries

	case RangeBinary:
		price = o.Rebate * dfD * terminalInRangeProbability(o, m)
		method = ModelGarmanKohlhagen

	case OutsideBinary:
		price = o.Rebate * dfD * (1 - terminalInRangeProbability(o, m))
		method = ModelGarmanKohlhagen

	default:
		return Result{}, fmt.Errorf("PriceDigital: kind %q: %w", o.Kind, ErrInvalidOptionParameters)
	}

	return Result{
		Price:       price,
		PriceInBase: price / o.Spot,
		Method:      method,
	}, nil
}

// oneTouchAtHit returns the value of one unit paid at the moment the single
// barrier is touched (Reiner-Rubinstein rebate-at-hit formula).
func oneTouchAtHit(s, h, rd, rf, t, vol float64) float64 {
	b := rd - rf
	volT := vol * math.Sqrt(t)
	mu := (b - 0.5*vol*vol) / (vol * vol)
	lam := math.Sqrt(mu*mu + 2*rd/(vol*vol))
	z := math.Log(h/s)/volT + lam*volT

	eta := 1.0
	if h > s {
		eta = -1
	}
	return math.Pow(h/s, mu+lam)*fxmath.NormCDF(eta*z) +
		math.Pow(h/s, mu-lam)*fxmath.NormCDF(eta*(z-2*lam*volT))
}

// touchProbability is the risk-neutral probability that the spot touches the
// single barrier before t, for log-drift m and volatility vol.
func touchProbability(s, h, m, vol, t float64) float64 {
	if t <= 0 {
		return 0
	}
	volT := vol * math.Sqrt(t)
	eta := 1.0
	if h > s {
		eta = -1
	}
	lh := math.Log(h / s)
	return fxmath.NormCDF(eta*(lh-m*t)/volT) +
		math.Pow(h/s, 2*m/(vol*vol))*fxmath.NormCDF(eta*(lh+m*t)/volT)
}

// doubleSurvival is the probability that the spot stays strictly inside
// (l, u) until t: the eigenfunction expansion of the absorbed log-normal
// transition density, truncated once the exponential tail is negligible.
func doubleSurvival(s, l, u, m, vol, t float64) float64 {
	if t <= 0 {
		return 1
	}
	z := math.Log(u / l)
	x0 := math.Log(s / l)
	kk := m / (vol * vol)

	pref := (2 / z) * math.Exp(-kk*x0-m*m*t/(2*vol*vol))
	sum := 0.0
	for i := 1; i <= survivalSeriesMax; i++ {
		freq := float64(i) * math.Pi / z
		decay := math.Exp(-0.5 * vol * vol * freq * freq * t)
		sign := 1.0
		if i%2 == 1 {
			sign = -1
		}
		integral := freq * (1 - sign*math.Exp(kk*z)) / (kk*kk + freq*freq)
		term := pref * math.Sin(freq*x0) * decay * integral
		sum += term
		if decay < survivalSeriesTol && i > 4 {
			break
		}
	}
	return fxmath.Clamp(sum, 0, 1)
}

// doubleTouchDiscounted returns the value of one unit paid at the first
// touch of either barrier. Integrating by parts,
//
//	E[e^{−r·τ}·1(τ ≤ T)] = e^{−rT}·P(T) + r·∫₀ᵀ e^{−rt}·P(t) dt
//
// where P(t) is the first-exit probability; the integral is evaluated by
// composite Simpson quadrature on the survival series.
func doubleTouchDiscounted(o DigitalOption) float64 {
	rd := o.DomesticRate
	m := rd - o.ForeignRate - 0.5*o.Volatility*o.Volatility
	bigT := o.MaturityYears

	exitProb := func(t float64) float64 {
		return 1 - doubleSurvival(o.Spot, o.Barrier, o.SecondBarrier, m, o.Volatility, t)
	}

	h := bigT / touchQuadSteps
	integral := 0.0
	for i := 0; i <= touchQuadSteps; i++ {
		t := float64(i) * h
		w := simpsonWeight(i, touchQuadSteps)
		integral += w * math.Exp(-rd*t) * exitProb(t)
	}
	integral *= h / 3

	return math.Exp(-rd*bigT)*exitProb(bigT) + rd*integral
}

func simpsonWeight(i, n int) float64 {
	switch {
	case i == 0 || i == n:
		return 1
	case i%2 == 1:
		return 4
	default:
		return 2
	}
}

// terminalInRangeProbability is the risk-neutral probability that the spot
// finishes inside (Barrier, SecondBarrier) at maturity.
func terminalInRangeProbability(o DigitalOption, m float64) float64 {
	volT := o.Volatility * math.Sqrt(o.MaturityYears)
	d2 := func(level float64) float64 {
		return (math.Log(o.Spot/level) + m*o.MaturityYears) / volT
	}
	return fxmath.NormCDF(d2(o.Barrier)) - fxmath.NormCDF(d2(o.SecondBarrier))
}

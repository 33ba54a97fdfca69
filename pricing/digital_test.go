package pricing_test

import (
	"errors"
	"math"
	"testing"

	"github.com/fxquant/fxlib/pricing"
)

func mustDigital(t *testing.T, kind pricing.Kind, s, h, h2, rebate float64, payAtTouch bool, maturity, vol, rd, rf float64) pricing.DigitalOption {
	t.Helper()
	o, err := pricing.NewDigitalOption(kind, s, h, h2, false, rebate, payAtTouch, maturity, vol, rd, rf)
	if err != nil {
		t.Fatalf("NewDigitalOption(%s): %v", kind, err)
	}
	return o
}

func digitalPrice(t *testing.T, o pricing.DigitalOption) float64 {
	t.Helper()
	res, err := pricing.PriceDigital(o)
	if err != nil {
		t.Fatalf("PriceDigital(%s): %v", o.Kind, err)
	}
	return res.Price
}

func TestPriceDigital_PayAtMaturityBounds(t *testing.T) {
	t.Parallel()

	const (
		s, rebate, maturity, vol, rd, rf = 1.10, 1000.0, 1.0, 0.12, 0.045, 0.03
	)
	cap := rebate * math.Exp(-rd*maturity)

	prices := map[pricing.Kind]float64{
		pricing.OneTouch:      digitalPrice(t, mustDigital(t, pricing.OneTouch, s, 1.20, 0, rebate, false, maturity, vol, rd, rf)),
		pricing.NoTouch:       digitalPrice(t, mustDigital(t, pricing.NoTouch, s, 1.20, 0, rebate, false, maturity, vol, rd, rf)),
		pricing.DoubleTouch:   digitalPrice(t, mustDigital(t, pricing.DoubleTouch, s, 1.00, 1.20, rebate, false, maturity, vol, rd, rf)),
		pricing.DoubleNoTouch: digitalPrice(t, mustDigital(t, pricing.DoubleNoTouch, s, 1.00, 1.20, rebate, false, maturity, vol, rd, rf)),
		pricing.RangeBinary:   digitalPrice(t, mustDigital(t, pricing.RangeBinary, s, 1.00, 1.20, rebate, false, maturity, vol, rd, rf)),
		pricing.OutsideBinary: digitalPrice(t, mustDigital(t, pricing.OutsideBinary, s, 1.00, 1.20, rebate, false, maturity, vol, rd, rf)),
	}
	for kind, p := range prices {
		if p < 0 || p > cap+1e-9 {
			t.Errorf("%s: price %.8f outside [0, %.8f]", kind, p, cap)
		}
	}
}

func TestPriceDigital_ComplementaryPairsSumToDiscountedRebate(t *testing.T) {
	t.Parallel()

	const (
		s, rebate, maturity, vol, rd, rf = 1.10, 1.0, 1.0, 0.12, 0.045, 0.03
	)
	want := rebate * math.Exp(-rd*maturity)

	pairs := []struct {
		name string
		a, b float64
	}{
		{
			"one-touch + no-touch",
			digitalPrice(t, mustDigital(t, pricing.OneTouch, s, 1.20, 0, rebate, false, maturity, vol, rd, rf)),
			digitalPrice(t, mustDigital(t, pricing.NoTouch, s, 1.20, 0, rebate, false, maturity, vol, rd, rf)),
		},
		{
			"double-touch + double-no-touch",
			digitalPrice(t, mustDigital(t, pricing.DoubleTouch, s, 1.00, 1.20, rebate, false, maturity, vol, rd, rf)),
			digitalPrice(t, mustDigital(t, pricing.DoubleNoTouch, s, 1.00, 1.20, rebate, false, maturity, vol, rd, rf)),
		},
		{
			"range + outside binary",
			digitalPrice(t, mustDigital(t, pricing.RangeBinary, s, 1.00, 1.20, rebate, false, maturity, vol, rd, rf)),
			digitalPrice(t, mustDigital(t, pricing.OutsideBinary, s, 1.00, 1.20, rebate, false, maturity, vol, rd, rf)),
		},
	}
	for _, p := range pairs {
		if got := p.a + p.b; math.Abs(got-want) > 1e-8 {
			t.Errorf("%s: sum %.10f, want %.10f", p.name, got, want)
		}
	}
}

func TestPriceDigital_PaymentTimingDiffers(t *testing.T) {
	t.Parallel()

	const s, rebate, maturity, vol, rd, rf = 1.10, 1.0, 1.0, 0.15, 0.045, 0.03

	atTouch := digitalPrice(t, mustDigital(t, pricing.OneTouch, s, 1.15, 0, rebate, true, maturity, vol, rd, rf))
	atMaturity := digitalPrice(t, mustDigital(t, pricing.OneTouch, s, 1.15, 0, rebate, false, maturity, vol, rd, rf))

	// Paying at the touch discounts over a shorter horizon, so it is worth
	// strictly more whenever the touch probability is material.
	if atTouch <= atMaturity {
		t.Fatalf("pay-at-touch %.8f <= pay-at-maturity %.8f", atTouch, atMaturity)
	}
	if atTouch > rebate {
		t.Fatalf("pay-at-touch %.8f exceeds undiscounted rebate", atTouch)
	}

	dtTouch := digitalPrice(t, mustDigital(t, pricing.DoubleTouch, s, 1.02, 1.18, rebate, true, maturity, vol, rd, rf))
	dtMaturity := digitalPrice(t, mustDigital(t, pricing.DoubleTouch, s, 1.02, 1.18, rebate, false, maturity, vol, rd, rf))
	if dtTouch <= dtMaturity {
		t.Fatalf("double-touch at-touch %.8f <= at-maturity %.8f", dtTouch, dtMaturity)
	}
	if dtTouch > rebate {
		t.Fatalf("double-touch at-touch %.8f exceeds undiscounted rebate", dtTouch)
	}
}

func TestPriceDigital_DoubleSurvivalMatchesSingleBarrierLimit(t *testing.T) {
	t.Parallel()

	const s, rebate, maturity, vol, rd, rf = 1.10, 1.0, 1.0, 0.12, 0.045, 0.03

	// With the upper barrier far out of reach, touching either barrier of
	// the pair reduces to touching the lower one.
	double := digitalPrice(t, mustDigital(t, pricing.DoubleTouch, s, 1.00, 8.0, rebate, false, maturity, vol, rd, rf))
	single := digitalPrice(t, mustDigital(t, pricing.OneTouch, s, 1.00, 0, rebate, false, maturity, vol, rd, rf))
	if math.Abs(double-single) > 1e-6 {
		t.Fatalf("double with distant upper %.10f, single %.10f", double, single)
	}
}

func TestPriceDigital_OneTouchProbabilityLimits(t *testing.T) {
	t.Parallel()

	const s, rebate, maturity, vol, rd, rf = 1.10, 1.0, 1.0, 0.10, 0.045, 0.03
	cap := rebate * math.Exp(-rd*maturity)

	// A barrier essentially at spot is touched immediately.
	near := digitalPrice(t, mustDigital(t, pricing.OneTouch, s, 1.1001, 0, rebate, false, maturity, vol, rd, rf))
	if math.Abs(near-cap) > 1e-3*cap {
		t.Fatalf("near-barrier one-touch %.8f, want ~%.8f", near, cap)
	}

	// An unreachable barrier is never touched.
	far := digitalPrice(t, mustDigital(t, pricing.OneTouch, s, 8.0, 0, rebate, false, maturity, vol, rd, rf))
	if far > 1e-9 {
		t.Fatalf("far-barrier one-touch %.10f, want ~0", far)
	}
}

func TestNewDigitalOption_Validation(t *testing.T) {
	t.Parallel()

	// Missing barrier.
	if _, err := pricing.NewDigitalOption(pricing.OneTouch, 1.10, 0, 0, false, 1, false, 1, 0.10, 0.045, 0.03); !errors.Is(err, pricing.ErrInvalidBarrierConfiguration) {
		t.Errorf("missing barrier: err = %v", err)
	}
	// Missing second barrier on a double kind.
	if _, err := pricing.NewDigitalOption(pricing.DoubleNoTouch, 1.10, 1.00, 0, false, 1, false, 1, 0.10, 0.045, 0.03); !errors.Is(err, pricing.ErrInvalidBarrierConfiguration) {
		t.Errorf("missing second barrier: err = %v", err)
	}
	// Non-positive rebate.
	if _, err := pricing.NewDigitalOption(pricing.OneTouch, 1.10, 1.20, 0, false, 0, false, 1, 0.10, 0.045, 0.03); !errors.Is(err, pricing.ErrInvalidOptionParameters) {
		t.Errorf("zero rebate: err = %v", err)
	}
}

func TestDigitalGreeks_Finite(t *testing.T) {
	t.Parallel()

	o := mustDigital(t, pricing.DoubleNoTouch, 1.10, 1.00, 1.20, 1.0, false, 1, 0.12, 0.045, 0.03)
	g, err := pricing.DigitalGreeks(o)
	if err != nil {
		t.Fatalf("DigitalGreeks: %v", err)
	}
	for name, v := range map[string]float64{"delta": g.Delta, "gamma": g.Gamma, "theta": g.Theta, "vega": g.Vega, "rho": g.Rho} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			t.Errorf("%s = %v", name, v)
		}
	}
	// More volatility makes knocking out of the range likelier.
	if g.Vega >= 0 {
		t.Errorf("vega = %v, want negative for a double-no-touch", g.Vega)
	}
}

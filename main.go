package main

import (
	"fmt"
	"os"

	"github.com/fxquant/fxlib/curve"
	"github.com/fxquant/fxlib/pricing"
	"github.com/fxquant/fxlib/report"
)

// Demo: bootstrap a USD curve from a small quote set, compare methods at the
// pillars, and price a handful of FX options off the curve rates.
func main() {
	raw := []struct {
		tenor, rate float64
		source      curve.SourceKind
	}{
		{0.25, 0.044, curve.SourceFuture},
		{1, 0.045, curve.SourceSwap},
		{2, 0.047, curve.SourceSwap},
		{3, 0.048, curve.SourceSwap},
		{5, 0.050, curve.SourceSwap},
		{10, 0.052, curve.SourceSwap},
	}
	quotes := make([]curve.InstrumentQuote, 0, len(raw))
	for _, r := range raw {
		q, err := curve.NewInstrumentQuote(r.tenor, r.rate, r.source)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		quotes = append(quotes, q)
	}

	for _, method := range curve.Methods() {
		c, err := curve.Bootstrap("USD", quotes, method)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", method, err)
			continue
		}
		fmt.Printf("== %s ==\n", method)
		for _, row := range report.DiscountFactorTable(c, nil) {
			fmt.Printf("  %5.2fy  DF %.8f  zero %.6f  fwd %.6f\n",
				row.Tenor, row.DiscountFactor, row.ZeroRate, row.ForwardRate)
		}
	}

	c, err := curve.Bootstrap("USD", quotes, curve.MethodQLLogLinear)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	spot, vol, t := 1.10, 0.10, 1.0
	rd, rf := c.ZeroRate(t), 0.03

	vanilla, _ := pricing.NewVanillaOption(pricing.Call, spot, spot, false, t, vol, rd, rf)
	if res, err := pricing.PriceVanilla(vanilla); err == nil {
		fmt.Printf("\nATM call (%s): %.6f\n", res.Method, res.Price)
	}

	ko, _ := pricing.NewBarrierOption(pricing.CallKnockOut, spot, spot, false, 1.25, 0, false, t, vol, rd, rf)
	if res, err := pricing.PriceBarrier(ko); err == nil {
		fmt.Printf("Up-and-out call H=1.25 (%s): %.6f\n", res.Method, res.Price)
	}

	nt, _ := pricing.NewDigitalOption(pricing.NoTouch, spot, 1.25, 0, false, 1, false, t, vol, rd, rf)
	if res, err := pricing.PriceDigital(nt); err == nil {
		fmt.Printf("No-touch H=1.25 (%s): %.6f\n", res.Method, res.Price)
	}
}

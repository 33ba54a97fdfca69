package pricing

// Kind identifies the option payoff. Barrier direction (up/down) is not part
// of the kind: it is inferred from the barrier level relative to spot, which
// also covers the reverse variants where the barrier sits on the in-the-money
// side of the strike.
type Kind string

const (
	// Vanilla family.
	Call Kind = "CALL"
	Put  Kind = "PUT"

	// Single-barrier family.
	CallKnockOut Kind = "CALL_KNOCK_OUT"
	PutKnockOut  Kind = "PUT_KNOCK_OUT"
	CallKnockIn  Kind = "CALL_KNOCK_IN"
	PutKnockIn   Kind = "PUT_KNOCK_IN"

	// Double-barrier family.
	CallDoubleKnockOut Kind = "CALL_DOUBLE_KNOCK_OUT"
	PutDoubleKnockOut  Kind = "PUT_DOUBLE_KNOCK_OUT"
	CallDoubleKnockIn  Kind = "CALL_DOUBLE_KNOCK_IN"
	PutDoubleKnockIn   Kind = "PUT_DOUBLE_KNOCK_IN"

	// Digital/binary family.
	OneTouch      Kind = "ONE_TOUCH"
	NoTouch       Kind = "NO_TOUCH"
	DoubleTouch   Kind = "DOUBLE_TOUCH"
	DoubleNoTouch Kind = "DOUBLE_NO_TOUCH"
	RangeBinary   Kind = "RANGE_BINARY"
	OutsideBinary Kind = "OUTSIDE_BINARY"
)

// IsVanilla reports whether the kind belongs to the vanilla family.
func (k Kind) IsVanilla() bool { return k == Call || k == Put }

// IsBarrier reports whether the kind belongs to the barrier family.
func (k Kind) IsBarrier() bool {
	switch k {
	case CallKnockOut, PutKnockOut, CallKnockIn, PutKnockIn,
		CallDoubleKnockOut, PutDoubleKnockOut, CallDoubleKnockIn, PutDoubleKnockIn:
		return true
	}
	return false
}

// IsDigital reports whether the kind belongs to the digital family.
func (k Kind) IsDigital() bool {
	switch k {
	case OneTouch, NoTouch, DoubleTouch, DoubleNoTouch, RangeBinary, OutsideBinary:
		return true
	}
	return false
}

// isDoubleBarrier reports whether the kind requires a second barrier.
func (k Kind) isDoubleBarrier() bool {
	switch k {
	case CallDoubleKnockOut, PutDoubleKnockOut, CallDoubleKnockIn, PutDoubleKnockIn,
		DoubleTouch, DoubleNoTouch, RangeBinary, OutsideBinary:
		return true
	}
	return false
}

// Greeks holds the sensitivities of an option price: delta and gamma with
// respect to spot, theta per year of calendar time, vega per unit of
// volatility, and rho with respect to the domestic rate.
type Greeks struct {
	Delta float64 `json:"delta"`
	Gamma float64 `json:"gamma"`
	Theta float64 `json:"theta"`
	Vega  float64 `json:"vega"`
	Rho   float64 `json:"rho"`
}

// Pricing model identifiers reported in results.
const (
	ModelGarmanKohlhagen  = "GARMAN_KOHLHAGEN"
	ModelReinerRubinstein = "REINER_RUBINSTEIN"
	ModelIkedaKunitomo    = "IKEDA_KUNITOMO"
	ModelBinarySeries     = "BINARY_SERIES"
)

// Result is the outcome of one pricing call. Price is in quote-currency
// units per unit of base currency; PriceInBase = Price / Spot. A Result is
// produced fresh per call and never mutated.
type Result struct {
	Price       float64 `json:"price"`
	PriceInBase float64 `json:"priceInBaseCurrency"`
	Method      string  `json:"method"`
	Greeks      *Greeks `json:"greeks,omitempty"`
}

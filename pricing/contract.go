package pricing

import "fmt"

// Contracts are closed tagged variants per option family. Each carries only
// the fields its family needs and is validated at construction: percent
// strikes/barriers are resolved to absolute levels exactly once, here, and a
// contract that constructs successfully prices without further checks.

// VanillaOption is a European FX call or put under Garman-Kohlhagen.
type VanillaOption struct {
	Kind          Kind
	Spot          float64
	Strike        float64
	MaturityYears float64
	Volatility    float64 // decimal, e.g. 0.10
	DomesticRate  float64
	ForeignRate   float64
}

// NewVanillaOption validates and builds a vanilla contract. When
// strikeIsPercent is set the strike is interpreted as a percentage of spot
// (100 = at the money) and resolved to an absolute level.
func NewVanillaOption(kind Kind, spot, strike float64, strikeIsPercent bool, maturityYears, volatility, domesticRate, foreignRate float64) (VanillaOption, error) {
	if !kind.IsVanilla() {
		return VanillaOption{}, fmt.Errorf("NewVanillaOption: kind %q: %w", kind, ErrInvalidOptionParameters)
	}
	strike, err := resolveLevel("strike", strike, strikeIsPercent, spot)
	if err != nil {
		return VanillaOption{}, fmt.Errorf("NewVanillaOption: %w", err)
	}
	if err := validateTerms(spot, maturityYears, volatility); err != nil {
		return VanillaOption{}, fmt.Errorf("NewVanillaOption: %w", err)
	}
	return VanillaOption{
		Kind:          kind,
		Spot:          spot,
		Strike:        strike,
		MaturityYears: maturityYears,
		Volatility:    volatility,
		DomesticRate:  domesticRate,
		ForeignRate:   foreignRate,
	}, nil
}

// BarrierOption is a single or double knock-in/knock-out FX option. For
// single-barrier kinds SecondBarrier is zero; for double-barrier kinds
// Barrier < SecondBarrier holds after resolution and the two levels straddle
// the spot.
type BarrierOption struct {
	Kind          Kind
	Spot          float64
	Strike        float64
	Barrier       float64
	SecondBarrier float64
	MaturityYears float64
	Volatility    float64
	DomesticRate  float64
	ForeignRate   float64
}

// NewBarrierOption validates and builds a barrier contract. Barrier levels
// given in percent of spot are resolved once. Single barriers may sit on
// either side of spot (the reverse variants) but not at spot; double-barrier
// pairs must be ordered lower < upper with the spot strictly inside.
func NewBarrierOption(kind Kind, spot, strike float64, strikeIsPercent bool, barrier, secondBarrier float64, barrierIsPercent bool, maturityYears, volatility, domesticRate, foreignRate float64) (BarrierOption, error) {
	if !kind.IsBarrier() {
		return BarrierOption{}, fmt.Errorf("NewBarrierOption: kind %q: %w", kind, ErrInvalidOptionParameters)
	}
	strike, err := resolveLevel("strike", strike, strikeIsPercent, spot)
	if err != nil {
		return BarrierOption{}, fmt.Errorf("NewBarrierOption: %w", err)
	}
	if err := validateTerms(spot, maturityYears, volatility); err != nil {
		return BarrierOption{}, fmt.Errorf("NewBarrierOption: %w", err)
	}
	barrier, secondBarrier, err = resolveBarriers(kind, spot, barrier, secondBarrier, barrierIsPercent)
	if err != nil {
		return BarrierOption{}, fmt.Errorf("NewBarrierOption: %w", err)
	}
	return BarrierOption{
		Kind:          kind,
		Spot:          spot,
		Strike:        strike,
		Barrier:       barrier,
		SecondBarrier: secondBarrier,
		MaturityYears: maturityYears,
		Volatility:    volatility,
		DomesticRate:  domesticRate,
		ForeignRate:   foreignRate,
	}, nil
}

// DigitalOption is a touch/no-touch or binary-range FX option paying a fixed
// rebate. PayAtTouch selects payment at the barrier touch (undiscounted by
// the remaining time) versus payment at maturity; it only applies to the
// touch kinds, since no-touch and terminal binaries pay at maturity by
// definition.
type DigitalOption struct {
	Kind          Kind
	Spot          float64
	Barrier       float64
	SecondBarrier float64
	Rebate        float64
	PayAtTouch    bool
	MaturityYears float64
	Volatility    float64
	DomesticRate  float64
	ForeignRate   float64
}

// NewDigitalOption validates and builds a digital contract.
func NewDigitalOption(kind Kind, spot, barrier, secondBarrier float64, barrierIsPercent bool, rebate float64, payAtTouch bool, maturityYears, volatility, domesticRate, foreignRate float64) (DigitalOption, error) {
	if !kind.IsDigital() {
		return DigitalOption{}, fmt.Errorf("NewDigitalOption: kind %q: %w", kind, ErrInvalidOptionParameters)
	}
	if err := validateTerms(spot, maturityYears, volatility); err != nil {
		return DigitalOption{}, fmt.Errorf("NewDigitalOption: %w", err)
	}
	if rebate <= 0 {
		return DigitalOption{}, fmt.Errorf("NewDigitalOption: rebate %v must be positive: %w", rebate, ErrInvalidOptionParameters)
	}
	barrier, secondBarrier, err := resolveBarriers(kind, spot, barrier, secondBarrier, barrierIsPercent)
	if err != nil {
		return DigitalOption{}, fmt.Errorf("NewDigitalOption: %w", err)
	}
	return DigitalOption{
		Kind:          kind,
		Spot:          spot,
		Barrier:       barrier,
		SecondBarrier: secondBarrier,
		Rebate:        rebate,
		PayAtTouch:    payAtTouch,
		MaturityYears: maturityYears,
		Volatility:    volatility,
		DomesticRate:  domesticRate,
		ForeignRate:   foreignRate,
	}, nil
}

func validateTerms(spot, maturityYears, volatility float64) error {
	if spot <= 0 {
		return fmt.Errorf("spot %v must be positive: %w", spot, ErrInvalidOptionParameters)
	}
	if maturityYears <= 0 {
		return fmt.Errorf("maturity %v must be positive: %w", maturityYears, ErrInvalidOptionParameters)
	}
	if volatility <= 0 {
		return fmt.Errorf("volatility %v must be positive: %w", volatility, ErrInvalidOptionParameters)
	}
	return nil
}

// resolveLevel converts a strike/barrier level to absolute terms. Percent
// levels are quoted against spot with 100 meaning at-the-money.
func resolveLevel(name string, level float64, isPercent bool, spot float64) (float64, error) {
	if isPercent {
		level = level / 100 * spot
	}
	if level <= 0 {
		return 0, fmt.Errorf("%s %v must resolve to a positive level: %w", name, level, ErrInvalidOptionParameters)
	}
	return level, nil
}

// resolveBarriers resolves and validates the barrier level(s) for a kind.
func resolveBarriers(kind Kind, spot, barrier, secondBarrier float64, isPercent bool) (float64, float64, error) {
	if barrier == 0 {
		return 0, 0, fmt.Errorf("kind %s requires a barrier: %w", kind, ErrInvalidBarrierConfiguration)
	}
	b, err := resolveLevel("barrier", barrier, isPercent, spot)
	if err != nil {
		return 0, 0, err
	}

	if !kind.isDoubleBarrier() {
		if b == spot {
			return 0, 0, fmt.Errorf("barrier %v equals spot: %w", b, ErrInvalidBarrierConfiguration)
		}
		if secondBarrier != 0 {
			return 0, 0, fmt.Errorf("kind %s takes a single barrier: %w", kind, ErrInvalidBarrierConfiguration)
		}
		return b, 0, nil
	}

	if secondBarrier == 0 {
		return 0, 0, fmt.Errorf("kind %s requires a second barrier: %w", kind, ErrInvalidBarrierConfiguration)
	}
	b2, err := resolveLevel("secondBarrier", secondBarrier, isPercent, spot)
	if err != nil {
		return 0, 0, err
	}
	if b >= b2 {
		return 0, 0, fmt.Errorf("barriers must be ordered lower %v < upper %v: %w", b, b2, ErrInvalidBarrierConfiguration)
	}
	// Path-dependent doubles start un-knocked, so the spot must sit inside
	// the corridor. Terminal binaries (range/outside) have no such
	// constraint.
	if kind != RangeBinary && kind != OutsideBinary && (spot <= b || spot >= b2) {
		return 0, 0, fmt.Errorf("spot %v must lie strictly inside (%v, %v): %w", spot, b, b2, ErrInvalidBarrierConfiguration)
	}
	return b, b2, nil
}

package pricing

import "errors"

var (
	// ErrInvalidOptionParameters means a non-positive spot, strike, maturity
	// or volatility was supplied. Inputs are never silently defaulted.
	ErrInvalidOptionParameters = errors.New("invalid option parameters")

	// ErrInvalidBarrierConfiguration means a barrier is missing, coincides
	// with the spot, or a double-barrier pair is not ordered lower < upper
	// after percent resolution.
	ErrInvalidBarrierConfiguration = errors.New("invalid barrier configuration")
)

package curve

import "errors"

var (
	// ErrInsufficientData means fewer than two usable calibration quotes were
	// supplied.
	ErrInsufficientData = errors.New("insufficient calibration data")

	// ErrNonConvergence means an optimization-based method exhausted its
	// iteration budget without converging. The partially-converged curve is
	// never returned.
	ErrNonConvergence = errors.New("optimizer did not converge")

	// ErrNegativeForward means a method that guarantees positive forwards
	// detected a violation it cannot resolve (typically inverted swap quotes
	// implying a negative forward between two exact pillars).
	ErrNegativeForward = errors.New("negative forward rate")
)
